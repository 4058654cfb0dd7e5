package schemas

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// UserDTO is a struct that represents a user response.
// It mirrors the stored user without the password hash.
type UserDTO struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	CreatedAt string  `json:"created_at"`
	Avatar    *string `json:"avatar"`
	Confirmed bool    `json:"confirmed"`
}

// TokenDTO is a struct that represents a login response
// AccessToken is the bearer token for subsequent API calls
type TokenDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageDTO is a struct that represents a plain informational response
type MessageDTO struct {
	Message string `json:"message"`
}

// ContactDTO is a struct that represents a contact response
// Birthday is rendered as YYYY-MM-DD
type ContactDTO struct {
	ID          int64   `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Birthday    string  `json:"birthday"`
	Note        *string `json:"additional_data"`
}

// MetadataDTO describes the running API instance.
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}
