package validators

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

// ValidationError carries a readable description of every failed rule
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("mailaddr", func(fl validator.FieldLevel) bool {
		return EmailValidator(fl.Field().String()) == nil
	})

	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return PasswordValidator(fl.Field().String()) == nil
	})

	return v
}

// Struct checks s against the rules declared in its validate tags. Rule failures
// are returned as *ValidationError, anything else means the rules themselves
// are broken.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range ve {
		out.Messages = append(out.Messages, message(fe))
	}

	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "mailaddr":
		return ErrEmailInvalid.Error()
	case "password":
		if err := PasswordValidator(stringValue(fe.Value())); err != nil {
			return err.Error()
		}
		return field + " is invalid"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "len":
		return field + " must be exactly " + fe.Param() + " characters"
	case "numeric":
		return field + " must contain only numbers"
	case "e164":
		return field + " must be a phone number in international format"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	}

	return field + " is invalid"
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	}

	return ""
}
