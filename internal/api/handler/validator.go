package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// FieldError describes one failed rule of a request body.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned by the echo validator. The error handler
// renders it as a 400 with the per-field list.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in errors follow the json (or form) tag of the request struct.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) <= MaxPasswordBytes && strongPassword(s)
	})
	return &echoValidator{v: v}
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// strongPassword requires at least one lower-case letter, one upper-case
// letter and one digit.
func strongPassword(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]FieldError, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, FieldError{
					Field:   fe.Field(),
					Rule:    fe.Tag(),
					Message: fieldMessage(fe),
				})
			}
			return &ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// fieldMessage converts a single FieldError into the message shown to clients.
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	if base, _, ok := strings.Cut(field, "["); ok {
		if base == "skills" {
			return "Each skill must be a non-empty string"
		}
		field = base
	}

	switch field {
	case "name":
		if fe.Tag() == "required" {
			return "Name is required"
		}
		return "Name must be between 2 and 100 characters"
	case "email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid email format"
	case "phone":
		if fe.Tag() == "required" {
			return "Phone number is required"
		}
		return "Invalid phone number format"
	case "password":
		switch fe.Tag() {
		case "required":
			return "Password is required"
		case "min":
			return "Password must be at least 8 characters"
		}
		if s, ok := fe.Value().(string); ok && len(s) > MaxPasswordBytes {
			return fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes)
		}
		return "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	case "role":
		if fe.Tag() == "required" {
			return "Role is required"
		}
		return "Role must be client, artisan, or admin"
	case "experienceYears":
		return "Experience years must be between 0 and 50"
	case "skills":
		return "Skills must be a non-empty array"
	case "idType":
		if fe.Tag() == "required" {
			return "ID type is required"
		}
		return "ID type must be national_id, passport, or drivers_license"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
