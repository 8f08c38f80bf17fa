package validators

import (
	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts validator/v10 to echo's Validator interface.
type RequestValidator struct {
	validate *validator.Validate
}

// NewValidator creates a new RequestValidator
func NewValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate validates a request struct against its validate tags.
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
