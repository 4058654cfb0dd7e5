package schemas

// CustomError is the wire format for every error the API returns.
// The code is stable across releases so clients can switch on it.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	// BadRequest covers malformed bodies and field validation failures.
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request body is invalid. Please check the request body and try again.",
	}
	EmailTaken = &CustomError{
		Code:    "ERR-002",
		Message: "An account with this email already exists.",
	}
	// InvalidCredentials is returned for an unknown email and for a wrong
	// password alike, so the response never reveals which one failed.
	InvalidCredentials = &CustomError{
		Code:    "ERR-003",
		Message: "The credentials are invalid. Please check your email and password.",
	}
	UserNotFound = &CustomError{
		Code:    "ERR-004",
		Message: "The user was not found.",
	}
	UserNotConfirmed = &CustomError{
		Code:    "ERR-005",
		Message: "The email address has not been confirmed yet. Please check your inbox.",
	}
	InvalidToken = &CustomError{
		Code:    "ERR-006",
		Message: "The token is invalid or expired.",
	}
	ContactNotFound = &CustomError{
		Code:    "ERR-007",
		Message: "No contact matched the request.",
	}
	DuplicateContact = &CustomError{
		Code:    "ERR-008",
		Message: "A contact with this email already exists for this user.",
	}
	DatabaseError = &CustomError{
		Code:    "ERR-009",
		Message: "A database error occurred. Please try again later.",
	}
	InternalServerError = &CustomError{
		Code:    "ERR-010",
		Message: "An internal error occurred. Please try again later.",
	}
	Unauthorized = &CustomError{
		Code:    "ERR-011",
		Message: "The request is unauthorized. Please login to your account.",
	}
	RateLimited = &CustomError{
		Code:    "ERR-012",
		Message: "Rate limit exceeded. Try again later.",
	}
	EmailUnreachable = &CustomError{
		Code:    "ERR-013",
		Message: "The email address appears to be unreachable.",
	}
)
