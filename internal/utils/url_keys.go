package utils

const (
	// ContactIdKey is the key for contact ID used in routing parameters.
	ContactIdKey = "contactId"

	// TokenKey is the key for the email confirmation token used in routing parameters.
	TokenKey = "token"

	// SkipParamKey is the key for the pagination offset used in query parameters.
	SkipParamKey = "skip"

	// LimitParamKey is the key for the pagination limit used in query parameters.
	LimitParamKey = "limit"

	// QueryParamKey is the key for the contact search term used in query parameters.
	QueryParamKey = "query"
)
