package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the error shape the
// handlers expose to clients.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks struct tags and returns ValidationErrors, or nil.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = fmt.Sprintf("%s: %s", ve.Field, ve.Message)
	}
	return strings.Join(msgs, "; ")
}

// ToValidationErrors converts go-playground field errors into the
// client-facing form.
func ToValidationErrors(err error) ValidationErrors {
	var result ValidationErrors
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}
	for _, fe := range fieldErrors {
		result = append(result, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
		})
	}
	return result
}
