package types

import (
	"github.com/talentdesk/talentdesk/internal/db"
)

// CreateFieldDefinitionRequest is the body of POST /api/field-definitions.
type CreateFieldDefinitionRequest struct {
	EntityType string   `json:"entityType" validate:"required,oneof=company contact"`
	Key        string   `json:"key" validate:"required,min=1,max=100,field_key"`
	Label      string   `json:"label" validate:"required,min=1,max=255"`
	FieldType  string   `json:"fieldType" validate:"required,oneof=text number date boolean select multiselect"`
	Options    []string `json:"options,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Required   bool     `json:"required,omitempty"`
	Active     *bool    `json:"active,omitempty"`
}

// Validate checks tag constraints plus the option rules: select and
// multiselect need at least one option, the other types take none.
func (r *CreateFieldDefinitionRequest) Validate() error {
	errs := validateStruct(r)
	switch r.FieldType {
	case db.FieldTypeSelect, db.FieldTypeMultiSelect:
		if len(r.Options) == 0 {
			errs = append(errs, FieldError{
				Field:   "options",
				Message: "must be non-empty for select and multiselect fields",
			})
		}
	case "":
		// required tag already reported
	default:
		if len(r.Options) > 0 {
			errs = append(errs, FieldError{
				Field:   "options",
				Message: "is only allowed for select and multiselect fields",
			})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r *CreateFieldDefinitionRequest) ToInput() *db.FieldDefinitionCreateInput {
	return &db.FieldDefinitionCreateInput{
		EntityType: r.EntityType,
		Key:        r.Key,
		Label:      r.Label,
		FieldType:  r.FieldType,
		Options:    r.Options,
		Required:   r.Required,
		Active:     r.Active,
	}
}

// UpdateFieldDefinitionRequest is the body of PATCH /api/field-definitions/{id}.
// EntityType, key and fieldType are immutable once registered.
type UpdateFieldDefinitionRequest struct {
	Label    *string  `json:"label,omitempty" validate:"omitempty,min=1,max=255"`
	Options  []string `json:"options,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Required *bool    `json:"required,omitempty"`
	Active   *bool    `json:"active,omitempty"`
}

func (r *UpdateFieldDefinitionRequest) Validate() error {
	if errs := validateStruct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateFieldDefinitionRequest) ToInput() *db.FieldDefinitionUpdateInput {
	return &db.FieldDefinitionUpdateInput{
		Label:    r.Label,
		Options:  r.Options,
		Required: r.Required,
		Active:   r.Active,
	}
}
