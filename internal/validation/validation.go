// Package validation holds the declarative field rules shared by request binding
// and the workflow services. Enum tags read their values from model schemas.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"taskboard/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	TagTaskStatus = "taskstatus"
	TagUserRole   = "userrole"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Register adds the custom tags and json field naming to v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(TagTaskStatus, func(fl validator.FieldLevel) bool {
		return model.ValidTaskStatus(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagTaskStatus, err)
	}
	if err := v.RegisterValidation(TagUserRole, func(fl validator.FieldLevel) bool {
		return model.ValidRole(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagUserRole, err)
	}
	return nil
}

// RegisterWithGin installs the custom tags into gin's default binding engine.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

// Var validates a single value against tag, returning a readable message on failure.
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(describe(field, verrs[0]))
		}
		return err
	}
	return nil
}

// Message flattens a binding error into one line suitable for a 400 response.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describe(fe.Field(), fe))
	}
	return strings.Join(parts, "; ")
}

func describe(field string, fe validator.FieldError) string {
	if field == "" {
		field = "value"
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case TagTaskStatus:
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(model.TaskSchema.Enum, ", "))
	case TagUserRole:
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(model.UserSchema.Enum, ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
