package types

import (
	"github.com/talentdesk/talentdesk/internal/db"
)

// CreateCompanyRequest is the body of POST /api/companies.
type CreateCompanyRequest struct {
	Name               string         `json:"name" validate:"required,min=1,max=255"`
	LegalName          *string        `json:"legalName,omitempty" validate:"omitempty,max=255"`
	Description        *string        `json:"description,omitempty" validate:"omitempty,max=10000"`
	WebsiteURL         *string        `json:"websiteUrl,omitempty" validate:"omitempty,url"`
	LinkedInURL        *string        `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	Industry           *string        `json:"industry,omitempty" validate:"omitempty,oneof=technology finance healthcare manufacturing retail education government media energy consulting other"`
	CompanyType        *string        `json:"companyType,omitempty" validate:"omitempty,oneof=private public nonprofit government_agency partnership self_employed other"`
	EmployeeCountRange *string        `json:"employeeCountRange,omitempty" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1001-5000 5001-10000 10000+"`
	FoundedYear        *int           `json:"foundedYear,omitempty" validate:"omitempty,gte=1800"`
	EmailDomains       []string       `json:"emailDomains,omitempty" validate:"omitempty,dive,fqdn"`
	Specialties        []string       `json:"specialties,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Tags               []string       `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=100"`
	LifecycleStage     *string        `json:"lifecycleStage,omitempty" validate:"omitempty,oneof=lead prospect customer partner former_customer other"`
	RecordStatus       *string        `json:"recordStatus,omitempty" validate:"omitempty,oneof=active inactive archived"`
	CustomFields       map[string]any `json:"customFields,omitempty"`
}

// Validate reports every violated field.
func (r *CreateCompanyRequest) Validate() error {
	errs := validateStruct(r)
	errs = checkFoundedYear(r.FoundedYear, errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ToInput converts the request into the store's create input.
func (r *CreateCompanyRequest) ToInput() *db.CompanyCreateInput {
	return &db.CompanyCreateInput{
		Name:               r.Name,
		LegalName:          r.LegalName,
		Description:        r.Description,
		WebsiteURL:         r.WebsiteURL,
		LinkedInURL:        r.LinkedInURL,
		Industry:           r.Industry,
		CompanyType:        r.CompanyType,
		EmployeeCountRange: r.EmployeeCountRange,
		FoundedYear:        r.FoundedYear,
		EmailDomains:       r.EmailDomains,
		Specialties:        r.Specialties,
		Tags:               r.Tags,
		LifecycleStage:     r.LifecycleStage,
		RecordStatus:       r.RecordStatus,
		CustomFields:       r.CustomFields,
	}
}

// UpdateCompanyRequest is the body of PATCH /api/companies/{id}.
// Only supplied fields are validated and written.
type UpdateCompanyRequest struct {
	Name               *string        `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	LegalName          *string        `json:"legalName,omitempty" validate:"omitempty,max=255"`
	Description        *string        `json:"description,omitempty" validate:"omitempty,max=10000"`
	WebsiteURL         *string        `json:"websiteUrl,omitempty" validate:"omitempty,url"`
	LinkedInURL        *string        `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	Industry           *string        `json:"industry,omitempty" validate:"omitempty,oneof=technology finance healthcare manufacturing retail education government media energy consulting other"`
	CompanyType        *string        `json:"companyType,omitempty" validate:"omitempty,oneof=private public nonprofit government_agency partnership self_employed other"`
	EmployeeCountRange *string        `json:"employeeCountRange,omitempty" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1001-5000 5001-10000 10000+"`
	FoundedYear        *int           `json:"foundedYear,omitempty" validate:"omitempty,gte=1800"`
	EmailDomains       []string       `json:"emailDomains,omitempty" validate:"omitempty,dive,fqdn"`
	Specialties        []string       `json:"specialties,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Tags               []string       `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=100"`
	LifecycleStage     *string        `json:"lifecycleStage,omitempty" validate:"omitempty,oneof=lead prospect customer partner former_customer other"`
	RecordStatus       *string        `json:"recordStatus,omitempty" validate:"omitempty,oneof=active inactive archived"`
	CustomFields       map[string]any `json:"customFields,omitempty"`
}

// Validate reports every violated field among those supplied.
func (r *UpdateCompanyRequest) Validate() error {
	errs := validateStruct(r)
	errs = checkFoundedYear(r.FoundedYear, errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ToInput converts the request into the store's update input.
func (r *UpdateCompanyRequest) ToInput() *db.CompanyUpdateInput {
	return &db.CompanyUpdateInput{
		Name:               r.Name,
		LegalName:          r.LegalName,
		Description:        r.Description,
		WebsiteURL:         r.WebsiteURL,
		LinkedInURL:        r.LinkedInURL,
		Industry:           r.Industry,
		CompanyType:        r.CompanyType,
		EmployeeCountRange: r.EmployeeCountRange,
		FoundedYear:        r.FoundedYear,
		EmailDomains:       r.EmailDomains,
		Specialties:        r.Specialties,
		Tags:               r.Tags,
		LifecycleStage:     r.LifecycleStage,
		RecordStatus:       r.RecordStatus,
		CustomFields:       r.CustomFields,
	}
}
