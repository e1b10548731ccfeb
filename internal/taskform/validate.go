package taskform

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks forms against their validate tags. It also satisfies
// echo.Validator.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// Check returns a message per invalid field, keyed by its JSON name.
// An empty map means the form is valid.
func (v *Validator) Check(form TaskForm) map[string]string {
	return FieldProblems(v.Validate(form))
}

// FieldProblems turns a validation error into per-field messages.
func FieldProblems(err error) map[string]string {
	problems := map[string]string{}
	if err == nil {
		return problems
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		problems["form"] = err.Error()
		return problems
	}
	for _, fe := range verrs {
		problems[fe.Field()] = fieldMessage(fe)
	}
	return problems
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
