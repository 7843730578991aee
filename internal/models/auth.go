package models

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Provider  string `json:"provider,omitempty"`
}

func (u User) DisplayName() string {
	if u.FirstName == "" {
		return u.Email
	}
	return u.FirstName
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,min=2,max=100"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" form:"token" validate:"required"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-" form:"confirm_password" validate:"required,eqfield=Password"`
}

// AuthResponse is what the API returns on login, registration and OAuth
// session exchange.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type TokenStatus struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
}
