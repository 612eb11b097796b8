package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"cefilm-backend/internal/models"
)

// StructValidator runs validate tags on bound request bodies.
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator creates a validator reporting JSON field names.
func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &StructValidator{validate: v}
}

// Validate implements fiber.StructValidator.
func (v *StructValidator) Validate(out any) error {
	err := v.validate.Struct(out)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.Invalid(err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, translateError(fe))
	}
	return models.Invalid(strings.Join(msgs, "; "))
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// bindJSON decodes and validates the request body.
func bindJSON(c fiber.Ctx, out any) error {
	if err := c.Bind().JSON(out); err != nil {
		if errors.Is(err, models.ErrValidation) {
			return err
		}
		return models.Invalid("invalid request body")
	}
	return nil
}

// AppConfig returns the Fiber configuration shared by the server and tests.
func AppConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:         appName,
		ServerHeader:    appName,
		ErrorHandler:    ErrorHandler,
		StructValidator: NewStructValidator(),
	}
}
