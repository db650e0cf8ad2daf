package types

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/talentdesk/talentdesk/internal/db"
)

// CreateContactRequest is the body of POST /api/contacts.
type CreateContactRequest struct {
	Prefix            *string        `json:"prefix,omitempty" validate:"omitempty,max=20"`
	FirstName         string         `json:"firstName" validate:"required,min=1,max=100"`
	MiddleName        *string        `json:"middleName,omitempty" validate:"omitempty,max=100"`
	LastName          string         `json:"lastName" validate:"required,min=1,max=100"`
	Suffix            *string        `json:"suffix,omitempty" validate:"omitempty,max=20"`
	PreferredName     *string        `json:"preferredName,omitempty" validate:"omitempty,max=100"`
	Title             *string        `json:"title,omitempty" validate:"omitempty,max=255"`
	Department        *string        `json:"department,omitempty" validate:"omitempty,max=255"`
	Seniority         *string        `json:"seniority,omitempty" validate:"omitempty,oneof=entry junior mid senior lead manager director vp c_level founder"`
	Headline          *string        `json:"headline,omitempty" validate:"omitempty,max=500"`
	CompanyID         *uuid.UUID     `json:"companyId,omitempty"`
	StartDate         *string        `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate           *string        `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsCurrentEmployee *bool          `json:"isCurrentEmployee,omitempty"`
	LifecycleStage    *string        `json:"lifecycleStage,omitempty" validate:"omitempty,oneof=lead prospect customer partner former_customer other"`
	RecordStatus      *string        `json:"recordStatus,omitempty" validate:"omitempty,oneof=active inactive archived"`
	Tags              []string       `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Notes             *string        `json:"notes,omitempty" validate:"omitempty,max=10000"`
	CustomFields      map[string]any `json:"customFields,omitempty"`
}

// Validate reports every violated field.
func (r *CreateContactRequest) Validate() error {
	errs := validateStruct(r)
	errs = checkDateOrder(r.StartDate, r.EndDate, errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ToInput converts the request into the store's create input.
func (r *CreateContactRequest) ToInput() *db.ContactCreateInput {
	return &db.ContactCreateInput{
		Prefix:            r.Prefix,
		FirstName:         r.FirstName,
		MiddleName:        r.MiddleName,
		LastName:          r.LastName,
		Suffix:            r.Suffix,
		PreferredName:     r.PreferredName,
		Title:             r.Title,
		Department:        r.Department,
		Seniority:         r.Seniority,
		Headline:          r.Headline,
		CompanyID:         r.CompanyID,
		StartDate:         parseDate(r.StartDate),
		EndDate:           parseDate(r.EndDate),
		IsCurrentEmployee: r.IsCurrentEmployee,
		LifecycleStage:    r.LifecycleStage,
		RecordStatus:      r.RecordStatus,
		Tags:              r.Tags,
		Notes:             r.Notes,
		CustomFields:      r.CustomFields,
	}
}

// UpdateContactRequest is the body of PATCH /api/contacts/{id}.
// Only supplied fields are validated and written. Setting companyId to
// JSON null detaches the contact from its company.
type UpdateContactRequest struct {
	Prefix            *string        `json:"prefix,omitempty" validate:"omitempty,max=20"`
	FirstName         *string        `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	MiddleName        *string        `json:"middleName,omitempty" validate:"omitempty,max=100"`
	LastName          *string        `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Suffix            *string        `json:"suffix,omitempty" validate:"omitempty,max=20"`
	PreferredName     *string        `json:"preferredName,omitempty" validate:"omitempty,max=100"`
	Title             *string        `json:"title,omitempty" validate:"omitempty,max=255"`
	Department        *string        `json:"department,omitempty" validate:"omitempty,max=255"`
	Seniority         *string        `json:"seniority,omitempty" validate:"omitempty,oneof=entry junior mid senior lead manager director vp c_level founder"`
	Headline          *string        `json:"headline,omitempty" validate:"omitempty,max=500"`
	CompanyID         *uuid.UUID     `json:"companyId,omitempty"`
	StartDate         *string        `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate           *string        `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsCurrentEmployee *bool          `json:"isCurrentEmployee,omitempty"`
	LifecycleStage    *string        `json:"lifecycleStage,omitempty" validate:"omitempty,oneof=lead prospect customer partner former_customer other"`
	RecordStatus      *string        `json:"recordStatus,omitempty" validate:"omitempty,oneof=active inactive archived"`
	Tags              []string       `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Notes             *string        `json:"notes,omitempty" validate:"omitempty,max=10000"`
	CustomFields      map[string]any `json:"customFields,omitempty"`

	// clearCompany is set during decoding when companyId arrived as
	// an explicit null rather than being absent.
	clearCompany bool
}

// UnmarshalJSON distinguishes a missing companyId from an explicit null.
func (r *UpdateContactRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateContactRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = UpdateContactRequest(a)
	if hasNullField(data, "companyId") {
		r.clearCompany = true
	}
	return nil
}

// Validate reports every violated field among those supplied.
func (r *UpdateContactRequest) Validate() error {
	errs := validateStruct(r)
	errs = checkDateOrder(r.StartDate, r.EndDate, errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ToInput converts the request into the store's update input.
func (r *UpdateContactRequest) ToInput() *db.ContactUpdateInput {
	return &db.ContactUpdateInput{
		Prefix:            r.Prefix,
		FirstName:         r.FirstName,
		MiddleName:        r.MiddleName,
		LastName:          r.LastName,
		Suffix:            r.Suffix,
		PreferredName:     r.PreferredName,
		Title:             r.Title,
		Department:        r.Department,
		Seniority:         r.Seniority,
		Headline:          r.Headline,
		CompanyID:         r.CompanyID,
		ClearCompany:      r.clearCompany,
		StartDate:         parseDate(r.StartDate),
		EndDate:           parseDate(r.EndDate),
		IsCurrentEmployee: r.IsCurrentEmployee,
		LifecycleStage:    r.LifecycleStage,
		RecordStatus:      r.RecordStatus,
		Tags:              r.Tags,
		Notes:             r.Notes,
		CustomFields:      r.CustomFields,
	}
}
