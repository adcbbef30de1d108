// Package validator provides the required-field rules shared by the prompt
// forms and Gin's binding engine.
package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// New returns the shared validator with the custom rules registered. Field
// names in errors use the json tag.
func New() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("notblank", validateNotBlank)
		instance = v
	})
	return instance
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("notblank", validateNotBlank)
	}
}

// MissingFieldsError lists the fields that failed a required check.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing fields: " + strings.Join(e.Fields, ", ")
}

// CheckRequired validates s and reports failures as *MissingFieldsError.
// Fields named in except (Go field names) are skipped.
func CheckRequired(s any, except ...string) error {
	err := New().StructExcept(s, except...)
	if err == nil {
		return nil
	}
	if fields := MissingFields(err); len(fields) > 0 {
		return &MissingFieldsError{Fields: fields}
	}
	return err
}

// MissingFields extracts the failing field names from a validation error.
func MissingFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func validateNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.String {
		return strings.TrimSpace(field.String()) != ""
	}
	return !field.IsZero()
}
