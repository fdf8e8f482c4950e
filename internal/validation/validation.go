package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Enum is implemented by the string enums in the model package
type Enum interface {
	IsValid() bool
}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

// Validator wraps go-playground/validator with the "enum" rule registered and
// field names reported by their json (or form) tag. It satisfies echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	// Cannot fail: the tag name is valid and the func is non-nil.
	_ = v.RegisterValidation("enum", validateEnum)

	return &Validator{validate: v}
}

func validateEnum(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Type().Implements(enumType) {
		return field.Interface().(Enum).IsValid()
	}
	if field.CanAddr() && field.Addr().Type().Implements(enumType) {
		return field.Addr().Interface().(Enum).IsValid()
	}
	return false
}

// Validate runs the struct's validate tags
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Fields turns a validation error into a field name to message map. It
// returns nil when err carries no field errors.
func Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return fields
}

// Missing returns the sorted names of fields that failed a required rule
func Missing(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	var names []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "required_without":
			names = append(names, fe.Field())
		}
	}
	sort.Strings(names)
	return names
}

// Names returns the sorted field names of a Fields map
func Names(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "enum":
		return fmt.Sprintf("'%v' is not a valid value for %s", fe.Value(), fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
