package utils

import "time"

// BirthdayInWindow reports whether the next calendar occurrence of birthday
// falls within windowDays days from today, both ends inclusive.
//
// The birthday is projected onto today's year; if that date already passed,
// the occurrence rolls over to next year. A Feb 29 birthday projected onto a
// non-leap year normalizes to Mar 1, which is the documented policy.
func BirthdayInWindow(birthday, today time.Time, windowDays int) bool {
	if birthday.IsZero() {
		return false
	}

	today = truncateToDate(today)
	windowEnd := today.AddDate(0, 0, windowDays)

	occurrence := time.Date(today.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, today.Location())
	if occurrence.Before(today) {
		occurrence = time.Date(today.Year()+1, birthday.Month(), birthday.Day(), 0, 0, 0, 0, today.Location())
	}

	return !occurrence.Before(today) && !occurrence.After(windowEnd)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
