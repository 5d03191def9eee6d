package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's field errors so the HTTP error
// handler can render them as an itemized list.
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator.
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// New creates the echo validator used by both services. Field names in
// violations come from the json tag, matching the wire format.
func New() echo.Validator {
	v := playgroundvalidator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank rejects a present-but-empty string. Unlike omitempty, pairing
	// it with omitnil means a nil pointer is skipped while an explicit ""
	// still fails.
	_ = v.RegisterValidation("notblank", func(fl playgroundvalidator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}
		return field.Len() > 0
	})

	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator. All fields are evaluated; violations
// are reported together rather than stopping at the first failure.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// Violation is one entry of the 400 response body.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations renders the field errors in request order.
func (ve ValidationErrors) Violations() []Violation {
	violations := make([]Violation, 0, len(ve))
	for _, err := range ve {
		violations = append(violations, Violation{
			Field:   err.Field(),
			Message: messageFor(err),
		})
	}
	return violations
}

func messageFor(err playgroundvalidator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please include a valid email"
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "notblank":
		return fmt.Sprintf("%s cannot be empty", field)
	case "datetime":
		return fmt.Sprintf("%s must be a valid date", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, err.Tag())
	}
}
