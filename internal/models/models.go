// package models defines the data model for the myflix client
package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/desertthunder/myflix/internal/shared"
	"github.com/go-playground/validator/v10"
)

// Validator is implemented by every record that can check its own fields.
type Validator interface {
	Validate() error
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidationError lists the fields of a record that failed validation, keyed by field name.
type ValidationError struct {
	Record string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("invalid %s (%s)", e.Record, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return shared.ErrInvalidInput
}

// validateStruct runs the struct tag rules on v and converts failures into a [*ValidationError].
func validateStruct(record string, v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Record: record, Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
