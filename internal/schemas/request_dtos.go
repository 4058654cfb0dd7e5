// Package schemas defines the request structures for various operations in the application.
package schemas

// SignupRequest is a struct that represents a signup request
// Username is required and must be 3 to 50 characters
// Email is required and must be a valid email
// Password is required and must be at least 6 characters
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is a struct that represents a login request
// Email is required and must be a valid email
// Password is required
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateContactRequest is a struct that represents a contact creation request
// FirstName and LastName are required and must be 3 to 50 characters
// Email is required and must be a valid email
// PhoneNumber is required and must be 10 to 15 characters
// Birthday is required and must be a YYYY-MM-DD date
type CreateContactRequest struct {
	FirstName   string  `json:"first_name" validate:"required,min=3,max=50"`
	LastName    string  `json:"last_name" validate:"required,min=3,max=50"`
	Email       string  `json:"email" validate:"required,email"`
	PhoneNumber string  `json:"phone_number" validate:"required,phone_validation"`
	Birthday    string  `json:"birthday" validate:"required,datetime=2006-01-02"`
	Note        *string `json:"additional_data" validate:"omitempty,max=500"`
}

// UpdateContactRequest is a struct that represents a partial contact update.
// Every field is optional; omitted fields keep their stored values.
type UpdateContactRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=3,max=50"`
	LastName    *string `json:"last_name" validate:"omitempty,min=3,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone_validation"`
	Birthday    *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Note        *string `json:"additional_data" validate:"omitempty,max=500"`
}
