package router

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
// Handlers call c.Validate(&input) after binding; rule violations surface
// as validator.ValidationErrors, which the central error handler renders
// as a 422 with field detail.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks the struct tags on i.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
