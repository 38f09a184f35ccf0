package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ContactRequest represents a contact-form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// ContactReceipt is returned after a contact submission has been accepted.
type ContactReceipt struct {
	ID         uuid.UUID `json:"id"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// LoginRequest represents the admin login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the token pair the browser keeps in local storage.
type LoginResponse struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// InvalidateRequest selects which cached resources to drop. An empty Resource drops all of them.
type InvalidateRequest struct {
	Resource string `json:"resource,omitempty" validate:"omitempty,oneof=personal-info projects skills certificates"`
}

// Validate validates the ContactRequest using the validator.
func (r *ContactRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
