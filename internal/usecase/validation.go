package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phenrril/backoffice/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("nit", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
	_ = v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseFieldType(fl.Field().String())
		return ok
	})
	return v
}

// Normalizer is implemented by commands that clean their input before
// validation.
type Normalizer interface {
	Normalize()
}

// ValidationError lists the rule failures of a command keyed by JSON path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, " ")
}

// Validate normalizes cmd when it knows how and checks it against its
// declarative rules.
func Validate(cmd any) error {
	if n, ok := cmd.(Normalizer); ok {
		n.Normalize()
	}
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(ve))}
	for _, fe := range ve {
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		if _, seen := out.Fields[path]; !seen {
			out.Fields[path] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	label := labelFor(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "min":
		return fmt.Sprintf("%s must have at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters.", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s must have exactly %s characters.", label, fe.Param())
	case "alpha":
		return fmt.Sprintf("%s can only contain letters.", label)
	case "email":
		return fmt.Sprintf("%s does not have a valid format.", label)
	case "nit":
		return "NIT can only contain numbers."
	case "fieldtype":
		return "Field type must be one of: text, number, date, boolean, email, url."
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s.", label, fe.Param())
	}
	return fmt.Sprintf("%s is invalid.", label)
}

var labels = map[string]string{
	"nit":          "NIT",
	"name":         "Name",
	"email":        "Email",
	"fieldName":    "Field name",
	"fieldValue":   "Field value",
	"fieldType":    "Field type",
	"description":  "Description",
	"displayOrder": "Display order",
	"hourlyRate":   "Hourly rate",
	"providerId":   "Provider ID",
	"id":           "ID",
	"username":     "Username",
	"password":     "Password",
}

func labelFor(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	if strings.HasPrefix(field, "countryCodes") {
		return "Country code"
	}
	return field
}
