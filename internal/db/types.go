package db

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies which parent kind a sub-entity record is attached to.
const (
	EntityTypeCompany = "company"
	EntityTypeContact = "contact"
)

// Industry values for companies
const (
	IndustryTechnology    = "technology"
	IndustryFinance       = "finance"
	IndustryHealthcare    = "healthcare"
	IndustryManufacturing = "manufacturing"
	IndustryRetail        = "retail"
	IndustryEducation     = "education"
	IndustryGovernment    = "government"
	IndustryMedia         = "media"
	IndustryEnergy        = "energy"
	IndustryConsulting    = "consulting"
	IndustryOther         = "other"
)

// CompanyType values
const (
	CompanyTypePrivate          = "private"
	CompanyTypePublic           = "public"
	CompanyTypeNonprofit        = "nonprofit"
	CompanyTypeGovernmentAgency = "government_agency"
	CompanyTypePartnership      = "partnership"
	CompanyTypeSelfEmployed     = "self_employed"
	CompanyTypeOther            = "other"
)

// LifecycleStage values shared by companies and contacts
const (
	LifecycleLead           = "lead"
	LifecycleProspect       = "prospect"
	LifecycleCustomer       = "customer"
	LifecyclePartner        = "partner"
	LifecycleFormerCustomer = "former_customer"
	LifecycleOther          = "other"
)

// RecordStatus values
const (
	RecordStatusActive   = "active"
	RecordStatusInactive = "inactive"
	RecordStatusArchived = "archived"
)

// Sub-entity type values
const (
	AddressTypeWork     = "work"
	AddressTypeHome     = "home"
	AddressTypeBilling  = "billing"
	AddressTypeShipping = "shipping"
	AddressTypeOther    = "other"

	EmailTypeWork     = "work"
	EmailTypePersonal = "personal"
	EmailTypeSales    = "sales"
	EmailTypeSupport  = "support"
	EmailTypeBilling  = "billing"
	EmailTypeOther    = "other"

	PhoneTypeWork   = "work"
	PhoneTypeMobile = "mobile"
	PhoneTypeHome   = "home"
	PhoneTypeFax    = "fax"
	PhoneTypeOther  = "other"
)

// FieldType values for custom field definitions
const (
	FieldTypeText        = "text"
	FieldTypeNumber      = "number"
	FieldTypeDate        = "date"
	FieldTypeBoolean     = "boolean"
	FieldTypeSelect      = "select"
	FieldTypeMultiSelect = "multiselect"
)

// EmployeeCountRanges is the closed set of accepted headcount buckets.
var EmployeeCountRanges = []string{
	"1-10", "11-50", "51-200", "201-500", "501-1000",
	"1001-5000", "5001-10000", "10000+",
}

// Seniorities is the closed set of accepted contact seniority levels.
var Seniorities = []string{
	"entry", "junior", "mid", "senior", "lead",
	"manager", "director", "vp", "c_level", "founder",
}

// FoundedYearMin is the oldest accepted company founding year.
const FoundedYearMin = 1800

// Company represents a company record
type Company struct {
	ID                 uuid.UUID      `json:"id"`
	Name               string         `json:"name"`
	LegalName          *string        `json:"legalName,omitempty"`
	Description        *string        `json:"description,omitempty"`
	WebsiteURL         *string        `json:"websiteUrl,omitempty"`
	LinkedInURL        *string        `json:"linkedinUrl,omitempty"`
	Industry           *string        `json:"industry,omitempty"`
	CompanyType        *string        `json:"companyType,omitempty"`
	EmployeeCountRange *string        `json:"employeeCountRange,omitempty"`
	FoundedYear        *int           `json:"foundedYear,omitempty"`
	EmailDomains       []string       `json:"emailDomains"`
	Specialties        []string       `json:"specialties"`
	Tags               []string       `json:"tags"`
	LifecycleStage     string         `json:"lifecycleStage"`
	RecordStatus       string         `json:"recordStatus"`
	CustomFields       map[string]any `json:"customFields"`
	IsDeleted          bool           `json:"isDeleted"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`

	// Eager-loaded relations, populated only when requested
	Addresses []Address `json:"addresses,omitempty"`
	Emails    []Email   `json:"emails,omitempty"`
	Phones    []Phone   `json:"phones,omitempty"`
	Contacts  []Contact `json:"contacts,omitempty"`
}

// Contact represents a person record, optionally attached to a company
type Contact struct {
	ID                  uuid.UUID      `json:"id"`
	Prefix              *string        `json:"prefix,omitempty"`
	FirstName           string         `json:"firstName"`
	MiddleName          *string        `json:"middleName,omitempty"`
	LastName            string         `json:"lastName"`
	Suffix              *string        `json:"suffix,omitempty"`
	PreferredName       *string        `json:"preferredName,omitempty"`
	Title               *string        `json:"title,omitempty"`
	Department          *string        `json:"department,omitempty"`
	Seniority           *string        `json:"seniority,omitempty"`
	Headline            *string        `json:"headline,omitempty"`
	CompanyID           *uuid.UUID     `json:"companyId,omitempty"`
	CompanyNameSnapshot *string        `json:"companyNameSnapshot,omitempty"`
	StartDate           *time.Time     `json:"startDate,omitempty"`
	EndDate             *time.Time     `json:"endDate,omitempty"`
	IsCurrentEmployee   bool           `json:"isCurrentEmployee"`
	LifecycleStage      string         `json:"lifecycleStage"`
	RecordStatus        string         `json:"recordStatus"`
	Tags                []string       `json:"tags"`
	Notes               *string        `json:"notes,omitempty"`
	CustomFields        map[string]any `json:"customFields"`
	IsDeleted           bool           `json:"isDeleted"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`

	Addresses []Address `json:"addresses,omitempty"`
	Emails    []Email   `json:"emails,omitempty"`
	Phones    []Phone   `json:"phones,omitempty"`
	Company   *Company  `json:"company,omitempty"`
}

// Address is a postal address attached to a company or contact
type Address struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   uuid.UUID `json:"entityId"`
	Type       string    `json:"type"`
	Street     *string   `json:"street,omitempty"`
	Street2    *string   `json:"street2,omitempty"`
	City       *string   `json:"city,omitempty"`
	State      *string   `json:"state,omitempty"`
	PostalCode *string   `json:"postalCode,omitempty"`
	Country    *string   `json:"country,omitempty"`
	IsPrimary  bool      `json:"isPrimary"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Email is an email address attached to a company or contact
type Email struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   uuid.UUID `json:"entityId"`
	Type       string    `json:"type"`
	Email      string    `json:"email"`
	IsPrimary  bool      `json:"isPrimary"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Phone is a phone number attached to a company or contact
type Phone struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   uuid.UUID `json:"entityId"`
	Type       string    `json:"type"`
	Number     string    `json:"number"`
	Extension  *string   `json:"extension,omitempty"`
	IsPrimary  bool      `json:"isPrimary"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FieldDefinition describes a custom field available for an entity type.
// It is metadata only; actual values live in the parent's customFields map.
type FieldDefinition struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entityType"`
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	FieldType  string    `json:"fieldType"`
	Options    []string  `json:"options"`
	Required   bool      `json:"required"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// User represents an authenticated API user
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	PasswordSet  bool      `json:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
