package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/careops/clinic-api/pkg/errors"
)

// Validator validates request payloads against their struct tags.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Struct validates obj and translates failures into a single
// application-level validation error.
func (va *Validator) Struct(obj interface{}) error {
	err := va.v.Struct(obj)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation("invalid request", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return apperrors.Validation("invalid fields: "+strings.Join(fields, ", "), err)
}

// Var validates a single value against a rule expression.
func (va *Validator) Var(value interface{}, rule string) error {
	if err := va.v.Var(value, rule); err != nil {
		return apperrors.Validation(fmt.Sprintf("value does not satisfy %q", rule), err)
	}
	return nil
}
