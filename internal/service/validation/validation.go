package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"reflect"
	"strings"

	"game2048_backend/domain"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate  = newValidator()
	sanitizer = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("nomarkup", func(fl validator.FieldLevel) bool {
		return !HasMarkup(fl.Field().String())
	})
	return v
}

// DecodeJSON decodes body into dest and checks dest against its validate tags.
// Only the first offending field is reported.
func DecodeJSON(body io.Reader, dest interface{}) error {
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &domain.FieldError{Field: typeErr.Field}
		}
		return fmt.Errorf("%w: malformed json body", domain.ErrValidation)
	}
	return Struct(dest)
}

// Struct validates s and returns the first failing field as a *domain.FieldError.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	first := errs[0]
	return &domain.FieldError{
		Field:   fieldPath(first.Namespace()),
		Missing: strings.HasPrefix(first.Tag(), "required"),
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// HasMarkup reports whether s carries HTML tags. Plain text characters such as
// ' or & are not markup; the policy only escapes them.
func HasMarkup(s string) bool {
	return html.UnescapeString(sanitizer.Sanitize(s)) != html.UnescapeString(s)
}

// NormalizeEmail trims and lower-cases an address. The value is stored as is.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
