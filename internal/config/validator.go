package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers please-specific validation rules.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("abspath", validateAbsPath); err != nil {
		return fmt.Errorf("failed to register abspath validator: %w", err)
	}
	return nil
}

// validateAbsPath requires the field to be a non-empty absolute path,
// mirroring the spec's requirement that include/includedir targets be
// absolute (internal/domain/policy/ini.go enforces this separately for
// the policy DSL). No Settings field carries the `abspath` tag at
// present; PolicyFile's absolute-path rule is checked in Validate.
func validateAbsPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	return p != "" && filepath.IsAbs(p)
}

// Validate validates Settings using struct tags and cross-field rules.
func (s *Settings) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(s); err != nil {
		return formatValidationErrors(err)
	}

	if !s.DevMode && !filepath.IsAbs(s.PolicyFile) {
		return errors.New("policy_file must be an absolute path outside dev_mode")
	}

	return nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "abspath":
		return fmt.Sprintf("%s must be an absolute path", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}
