package dto

import "github.com/ahmetcoskunkizilkaya/restaurant-api/internal/apperr"

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignUpRequest) Validate() apperr.FieldErrors {
	var c checker
	c.require("name", r.Name)
	c.check("email", r.Email, "required,email", "Please enter a correct email")
	c.check("password", r.Password, "required,min=8", "password must be at least 8 characters")
	return c.errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() apperr.FieldErrors {
	var c checker
	c.check("email", r.Email, "required,email", "Please enter a correct email")
	c.check("password", r.Password, "required,min=8", "password must be at least 8 characters")
	return c.errs
}

type TokenResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error   bool                `json:"error"`
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
