package types

import (
	"github.com/google/uuid"

	"github.com/talentdesk/talentdesk/internal/db"
)

// CreateAddressRequest is the body of POST /api/{entity}/{id}/addresses.
// The owning entity comes from the URL, never from the body.
type CreateAddressRequest struct {
	Type       string  `json:"type" validate:"required,oneof=work home billing shipping other"`
	Street     *string `json:"street,omitempty" validate:"omitempty,max=255"`
	Street2    *string `json:"street2,omitempty" validate:"omitempty,max=255"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State      *string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Country    *string `json:"country,omitempty" validate:"omitempty,max=100"`
	IsPrimary  bool    `json:"isPrimary,omitempty"`
}

func (r *CreateAddressRequest) Validate() error {
	if errs := validateStruct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

// ToInput binds the request to its owning entity.
func (r *CreateAddressRequest) ToInput(entityType string, entityID uuid.UUID) *db.AddressCreateInput {
	return &db.AddressCreateInput{
		EntityType: entityType,
		EntityID:   entityID,
		Type:       r.Type,
		Street:     r.Street,
		Street2:    r.Street2,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		IsPrimary:  r.IsPrimary,
	}
}

// UpdateAddressRequest is the body of PATCH /api/addresses/{id}.
type UpdateAddressRequest struct {
	Type       *string `json:"type,omitempty" validate:"omitempty,oneof=work home billing shipping other"`
	Street     *string `json:"street,omitempty" validate:"omitempty,max=255"`
	Street2    *string `json:"street2,omitempty" validate:"omitempty,max=255"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State      *string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Country    *string `json:"country,omitempty" validate:"omitempty,max=100"`
	IsPrimary  *bool   `json:"isPrimary,omitempty"`
}

func (r *UpdateAddressRequest) Validate() error {
	if errs := validateStruct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateAddressRequest) ToInput() *db.AddressUpdateInput {
	return &db.AddressUpdateInput{
		Type:       r.Type,
		Street:     r.Street,
		Street2:    r.Street2,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		IsPrimary:  r.IsPrimary,
	}
}

// CreateEmailRequest is the body of POST /api/{entity}/{id}/emails.
type CreateEmailRequest struct {
	Type       string `json:"type" validate:"required,oneof=work personal sales support billing other"`
	Email      string `json:"email" validate:"required,email"`
	IsPrimary  bool   `json:"isPrimary,omitempty"`
	IsVerified bool   `json:"isVerified,omitempty"`
}

func (r *CreateEmailRequest) Validate() error {
	if errs := validateStruct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateEmailRequest) ToInput(entityType string, entityID uuid.UUID) *db.EmailCreateInput {
	return &db.EmailCreateInput{
		EntityType: entityType,
		EntityID:   entityID,
		Type:       r.Type,
		Email:      r.Email,
		IsPrimary:  r.IsPrimary,
		IsVerified: r.IsVerified,
	}
}

// UpdateEmailRequest is the body of PATCH /api/emails/{id}.
type UpdateEmailRequest struct {
	Type       *string `json:"type,omitempty" validate:"omitempty,oneof=work personal sales support billing other"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	IsPrimary  *bool   `json:"isPrimary,omitempty"`
	IsVerified *bool   `json:"isVerified,omitempty"`
}

func (r *UpdateEmailRequest) Validate() error {
	if errs := validateStruct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateEmailRequest) ToInput() *db.EmailUpdateInput {
	return &db.EmailUpdateInput{
		Type:       r.Type,
		Email:      r.Email,
		IsPrimary:  r.IsPrimary,
		IsVerified: r.IsVerified,
	}
}

// CreatePhoneRequest is the body of POST /api/{entity}/{id}/phones.
type CreatePhoneRequest struct {
	Type       string  `json:"type" validate:"required,oneof=work mobile home fax other"`
	Number     string  `json:"number" validate:"required,min=3,max=30"`
	Extension  *string `json:"extension,omitempty" validate:"omitempty,max=10"`
	IsPrimary  bool    `json:"isPrimary,omitempty"`
	IsVerified bool    `json:"isVerified,omitempty"`
}

func (r *CreatePhoneRequest) Validate() error {
	if errs := validateStruct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreatePhoneRequest) ToInput(entityType string, entityID uuid.UUID) *db.PhoneCreateInput {
	return &db.PhoneCreateInput{
		EntityType: entityType,
		EntityID:   entityID,
		Type:       r.Type,
		Number:     r.Number,
		Extension:  r.Extension,
		IsPrimary:  r.IsPrimary,
		IsVerified: r.IsVerified,
	}
}

// UpdatePhoneRequest is the body of PATCH /api/phones/{id}.
type UpdatePhoneRequest struct {
	Type       *string `json:"type,omitempty" validate:"omitempty,oneof=work mobile home fax other"`
	Number     *string `json:"number,omitempty" validate:"omitempty,min=3,max=30"`
	Extension  *string `json:"extension,omitempty" validate:"omitempty,max=10"`
	IsPrimary  *bool   `json:"isPrimary,omitempty"`
	IsVerified *bool   `json:"isVerified,omitempty"`
}

func (r *UpdatePhoneRequest) Validate() error {
	if errs := validateStruct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdatePhoneRequest) ToInput() *db.PhoneUpdateInput {
	return &db.PhoneUpdateInput{
		Type:       r.Type,
		Number:     r.Number,
		Extension:  r.Extension,
		IsPrimary:  r.IsPrimary,
		IsVerified: r.IsVerified,
	}
}
