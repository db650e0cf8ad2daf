// Package types provides API request types and validation for the CRM server.
package types

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one violated constraint on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full set of violations for a request. Requests fail
// as a whole: every violated field is reported, not just the first.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve))
	for i, fe := range ve {
		parts[i] = fmt.Sprintf("%s %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validate is the shared validator instance. Field names in errors come from
// json tags so they match what the client sent.
var validate = newValidator()

// fieldKeyRe constrains custom field keys to snake_case identifiers so they
// stay stable as JSON object keys.
var fieldKeyRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("field_key", func(fl validator.FieldLevel) bool {
		return fieldKeyRe.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs tag validation and converts the result into
// ValidationErrors. Returns nil when the struct is valid.
func validateStruct(s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var out ValidationErrors
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Message: tagMessage(fe)})
		}
		return out
	}
	return ValidationErrors{{Field: "", Message: err.Error()}}
}

// tagMessage renders a human-readable message for a violated tag
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "fqdn":
		return "must be a valid domain name"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must be a date in " + fe.Param() + " format"
	case "field_key":
		return "must be a snake_case identifier"
	default:
		return "is invalid"
	}
}

// checkFoundedYear catches years in the future; the lower bound is a tag.
func checkFoundedYear(year *int, errs ValidationErrors) ValidationErrors {
	if year != nil && *year > time.Now().Year() {
		errs = append(errs, FieldError{
			Field:   "foundedYear",
			Message: fmt.Sprintf("must not be later than %d", time.Now().Year()),
		})
	}
	return errs
}

// checkDateOrder rejects an end date earlier than the start date. Either
// side may be absent.
func checkDateOrder(start, end *string, errs ValidationErrors) ValidationErrors {
	s, e := parseDate(start), parseDate(end)
	if s != nil && e != nil && e.Before(*s) {
		errs = append(errs, FieldError{
			Field:   "endDate",
			Message: "must not be earlier than startDate",
		})
	}
	return errs
}

// hasNullField reports whether the raw body carried the named top-level key
// with an explicit JSON null.
func hasNullField(data []byte, key string) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}
	val, ok := raw[key]
	return ok && string(val) == "null"
}

// parseDate parses an optional YYYY-MM-DD string already tag-validated for
// format.
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
