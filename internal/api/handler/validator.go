package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

const emailTag = "studio_email"

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// It registers the studio_email tag backed by domain.ValidateEmail.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(emailTag, func(fl validator.FieldLevel) bool {
		return domain.ValidateEmail(fl.Field().String()) == nil
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. An email failure is
// reported as domain.ErrInvalidEmail so it keeps its stable code.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				if fe.Tag() == emailTag {
					return domain.ErrInvalidEmail
				}
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "url":
		return field + " must be a valid URL"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return err
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
