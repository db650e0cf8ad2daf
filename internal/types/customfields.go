package types

import (
	"time"

	"github.com/talentdesk/talentdesk/internal/db"
)

// ValidateCustomFields checks a customFields payload against the active
// definitions for the entity type. Keys without a definition and values of
// the wrong shape are rejected; a JSON null clears the field and always
// passes. Definitions marked required are not enforced here so that partial
// updates stay possible.
func ValidateCustomFields(fields map[string]any, defs map[string]db.FieldDefinition) ValidationErrors {
	var errs ValidationErrors
	for key, value := range fields {
		def, ok := defs[key]
		if !ok {
			errs = append(errs, FieldError{
				Field:   "customFields." + key,
				Message: "is not a defined custom field",
			})
			continue
		}
		if value == nil {
			continue
		}
		if msg := checkFieldValue(def, value); msg != "" {
			errs = append(errs, FieldError{Field: "customFields." + key, Message: msg})
		}
	}
	return errs
}

func checkFieldValue(def db.FieldDefinition, value any) string {
	switch def.FieldType {
	case db.FieldTypeText:
		if _, ok := value.(string); !ok {
			return "must be a string"
		}
	case db.FieldTypeNumber:
		switch value.(type) {
		case float64, int, int64:
		default:
			return "must be a number"
		}
	case db.FieldTypeBoolean:
		if _, ok := value.(bool); !ok {
			return "must be a boolean"
		}
	case db.FieldTypeDate:
		s, ok := value.(string)
		if !ok {
			return "must be a date in 2006-01-02 format"
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return "must be a date in 2006-01-02 format"
		}
	case db.FieldTypeSelect:
		s, ok := value.(string)
		if !ok || !contains(def.Options, s) {
			return "must be one of the defined options"
		}
	case db.FieldTypeMultiSelect:
		items, ok := value.([]any)
		if !ok {
			return "must be an array of defined options"
		}
		for _, item := range items {
			s, ok := item.(string)
			if !ok || !contains(def.Options, s) {
				return "must be an array of defined options"
			}
		}
	}
	return ""
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
