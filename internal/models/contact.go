package models

type ContactRequest struct {
	Name    string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required,max=200"`
	Message string `json:"message" form:"message" validate:"required,min=10,max=5000"`
}

type ContactResponse struct {
	Success     bool   `json:"success"`
	ReferenceID string `json:"reference_id,omitempty"`
	Message     string `json:"message,omitempty"`
}
