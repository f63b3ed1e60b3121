package planka

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// inputValidator checks outbound request payloads before any network
// call, so input guaranteed to be rejected never costs a round trip.
var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Label colors are a closed set on writes only. Reads stay
	// unconstrained; see palette.go.
	_ = v.RegisterValidation("labelcolor", func(fl validator.FieldLevel) bool {
		return IsLabelColor(fl.Field().String())
	})

	return v
}

// FieldError describes one invalid field of a request payload.
type FieldError struct {
	Field  string `json:"field"`
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

// validateInput runs struct validation on a request payload and maps
// failures onto the Validation error kind with field-level details.
func validateInput(op string, input any) error {
	err := inputValidator.Struct(input)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Error{Kind: KindValidation, Message: err.Error(), Op: op}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:  fe.Field(),
			Rule:   fe.Tag(),
			Reason: reasonFor(fe),
		})
	}

	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("invalid %s payload", op),
		Details: fields,
		Op:      op,
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "labelcolor":
		return fmt.Sprintf("%s must be a known label color", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
