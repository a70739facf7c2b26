package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"fintrack-backend/pkg/utils"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Check validates a request struct and returns field-level errors, or nil
// when the struct is valid. Field names are reported in their JSON form.
func Check(obj any) []utils.FieldError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrors []utils.FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		fieldErrors = append(fieldErrors, utils.FieldError{
			Field:   jsonFieldName(fe),
			Message: message(fe),
		})
	}
	return fieldErrors
}

func jsonFieldName(fe validator.FieldError) string {
	// Namespace is e.g. "CreateInvoiceRequest.Items[0].Quantity"; drop the
	// struct name and lowercase the leading character of each segment.
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	return strings.Join(parts, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short (minimum " + fe.Param() + ")"
	case "max":
		return "Value is too long (maximum " + fe.Param() + ")"
	case "gt":
		return "Value must be greater than " + fe.Param()
	case "gte":
		return "Value must be at least " + fe.Param()
	case "oneof":
		return "Value must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}

// OneOf reports whether v is a member of allowed. Used for enumerations
// kept as data (expense categories, payment methods) rather than tags.
func OneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
