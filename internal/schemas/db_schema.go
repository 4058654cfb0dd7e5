// Package schemas defines the data structures
package schemas

import (
	"time"
)

// User represents the data model for an account in the system.
type User struct {
	ID        int64      `json:"id"`         // Unique identifier for the user.
	Username  string     `json:"username"`   // Display name of the user.
	Email     string     `json:"email"`      // Email address, unique across all users.
	Password  string     `json:"-"`          // Password hash, never the plaintext.
	CreatedAt *time.Time `json:"created_at"` // Timestamp when the user was created.
	AvatarURL *string    `json:"avatar"`     // Public URL of the avatar, if one was uploaded.
	// RefreshToken is reserved for a future refresh flow and unused by the
	// current login path.
	RefreshToken *string `json:"-"`
	Confirmed    bool    `json:"confirmed"` // True once the email was confirmed.
}

// Contact represents an address-book entry owned by exactly one user.
type Contact struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Birthday    time.Time `json:"birthday"` // Month and day are meaningful, the year may be a placeholder.
	Note        *string   `json:"additional_data"`
	UserID      int64     `json:"-"` // Owning user.
}
