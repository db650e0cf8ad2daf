package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------
// Company Methods
// -----------------------------------------------------------------------------

const companyColumns = `id, name, legal_name, description, website_url, linkedin_url,
	industry, company_type, employee_count_range, founded_year,
	email_domains, specialties, tags, lifecycle_stage, record_status,
	custom_fields, is_deleted, created_at, updated_at`

var companyListSpec = listSpec{
	table: "companies",
	sortColumns: map[string]string{
		"name":      "name",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	searchColumns:      []string{"name", "legal_name", "description"},
	arraySearchColumns: []string{"email_domains"},
}

// CompanySortFields reports the sort fields accepted by ListCompanies.
func CompanySortFields() []string {
	fields := make([]string, 0, len(companyListSpec.sortColumns))
	for f := range companyListSpec.sortColumns {
		fields = append(fields, f)
	}
	return fields
}

// CompanyCreateInput holds the fields accepted when creating a company
type CompanyCreateInput struct {
	Name               string
	LegalName          *string
	Description        *string
	WebsiteURL         *string
	LinkedInURL        *string
	Industry           *string
	CompanyType        *string
	EmployeeCountRange *string
	FoundedYear        *int
	EmailDomains       []string
	Specialties        []string
	Tags               []string
	LifecycleStage     *string
	RecordStatus       *string
	CustomFields       map[string]any
}

// CompanyUpdateInput holds the fields accepted when patching a company.
// Nil means "leave unchanged".
type CompanyUpdateInput struct {
	Name               *string
	LegalName          *string
	Description        *string
	WebsiteURL         *string
	LinkedInURL        *string
	Industry           *string
	CompanyType        *string
	EmployeeCountRange *string
	FoundedYear        *int
	EmailDomains       []string
	Specialties        []string
	Tags               []string
	LifecycleStage     *string
	RecordStatus       *string
	CustomFields       map[string]any
}

// CompanyFilters holds the exact-match list filters for companies
type CompanyFilters struct {
	Industry           string
	CompanyType        string
	EmployeeCountRange string
	RecordStatus       string
	LifecycleStage     string
}

func (f CompanyFilters) toFilters() []filter {
	var filters []filter
	if f.Industry != "" {
		filters = append(filters, filter{"industry", f.Industry})
	}
	if f.CompanyType != "" {
		filters = append(filters, filter{"company_type", f.CompanyType})
	}
	if f.EmployeeCountRange != "" {
		filters = append(filters, filter{"employee_count_range", f.EmployeeCountRange})
	}
	if f.RecordStatus != "" {
		filters = append(filters, filter{"record_status", f.RecordStatus})
	}
	if f.LifecycleStage != "" {
		filters = append(filters, filter{"lifecycle_stage", f.LifecycleStage})
	}
	return filters
}

// scanCompany scans one company row in companyColumns order
func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	var customFieldsJSON []byte
	err := row.Scan(&c.ID, &c.Name, &c.LegalName, &c.Description, &c.WebsiteURL, &c.LinkedInURL,
		&c.Industry, &c.CompanyType, &c.EmployeeCountRange, &c.FoundedYear,
		&c.EmailDomains, &c.Specialties, &c.Tags, &c.LifecycleStage, &c.RecordStatus,
		&customFieldsJSON, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.CustomFields = map[string]any{}
	if len(customFieldsJSON) > 0 {
		_ = json.Unmarshal(customFieldsJSON, &c.CustomFields)
	}
	return &c, nil
}

// CreateCompany inserts a new company and returns the persisted record
func (db *DB) CreateCompany(ctx context.Context, input *CompanyCreateInput) (*Company, error) {
	customFieldsJSON, err := marshalCustomFields(input.CustomFields)
	if err != nil {
		return nil, err
	}

	lifecycle := LifecycleLead
	if input.LifecycleStage != nil {
		lifecycle = *input.LifecycleStage
	}
	status := RecordStatusActive
	if input.RecordStatus != nil {
		status = *input.RecordStatus
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, legal_name, description, website_url, linkedin_url,
		                        industry, company_type, employee_count_range, founded_year,
		                        email_domains, specialties, tags, lifecycle_stage, record_status,
		                        custom_fields)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING `+companyColumns,
		input.Name, input.LegalName, input.Description, input.WebsiteURL, input.LinkedInURL,
		input.Industry, input.CompanyType, input.EmployeeCountRange, input.FoundedYear,
		emptyIfNil(input.EmailDomains), emptyIfNil(input.Specialties), emptyIfNil(input.Tags),
		lifecycle, status, customFieldsJSON,
	)

	company, err := scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

// GetCompanyByID retrieves a live company by ID. Soft-deleted and missing
// records both return nil.
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID, include ...string) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1 AND is_deleted = FALSE`, id)

	company, err := scanCompany(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	if len(include) > 0 {
		if err := db.loadCompanyRelations(ctx, []*Company{company}, include); err != nil {
			return nil, err
		}
	}
	return company, nil
}

// CompanyIsLive reports whether a company exists and is not soft-deleted
func (db *DB) CompanyIsLive(ctx context.Context, id uuid.UUID) (bool, error) {
	var live bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1 AND is_deleted = FALSE)`,
		id,
	).Scan(&live)
	if err != nil {
		return false, fmt.Errorf("failed to check company: %w", err)
	}
	return live, nil
}

// ListCompanies runs the shared list pipeline for companies
func (db *DB) ListCompanies(ctx context.Context, p ListParams, f CompanyFilters) (*ListResult[Company], error) {
	query, args := buildListQuery(companyColumns, companyListSpec, p, f.toFilters())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	result := &ListResult[Company]{Items: companies}
	if len(companies) > p.Limit {
		result.Items = companies[:p.Limit]
		result.HasNext = true
	}

	err = db.pool.QueryRow(ctx, buildTotalQuery(companyListSpec, p)).Scan(&result.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}

	if len(p.Include) > 0 && len(result.Items) > 0 {
		ptrs := make([]*Company, len(result.Items))
		for i := range result.Items {
			ptrs[i] = &result.Items[i]
		}
		if err := db.loadCompanyRelations(ctx, ptrs, p.Include); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UpdateCompany applies a partial update to a live company. Returns nil if no
// live record matches.
func (db *DB) UpdateCompany(ctx context.Context, id uuid.UUID, input *CompanyUpdateInput) (*Company, error) {
	sets := []string{}
	args := []any{}
	argNum := 1

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if input.Name != nil {
		addSet("name", *input.Name)
	}
	if input.LegalName != nil {
		addSet("legal_name", *input.LegalName)
	}
	if input.Description != nil {
		addSet("description", *input.Description)
	}
	if input.WebsiteURL != nil {
		addSet("website_url", *input.WebsiteURL)
	}
	if input.LinkedInURL != nil {
		addSet("linkedin_url", *input.LinkedInURL)
	}
	if input.Industry != nil {
		addSet("industry", *input.Industry)
	}
	if input.CompanyType != nil {
		addSet("company_type", *input.CompanyType)
	}
	if input.EmployeeCountRange != nil {
		addSet("employee_count_range", *input.EmployeeCountRange)
	}
	if input.FoundedYear != nil {
		addSet("founded_year", *input.FoundedYear)
	}
	if input.EmailDomains != nil {
		addSet("email_domains", input.EmailDomains)
	}
	if input.Specialties != nil {
		addSet("specialties", input.Specialties)
	}
	if input.Tags != nil {
		addSet("tags", input.Tags)
	}
	if input.LifecycleStage != nil {
		addSet("lifecycle_stage", *input.LifecycleStage)
	}
	if input.RecordStatus != nil {
		addSet("record_status", *input.RecordStatus)
	}
	if input.CustomFields != nil {
		customFieldsJSON, err := marshalCustomFields(input.CustomFields)
		if err != nil {
			return nil, err
		}
		addSet("custom_fields", customFieldsJSON)
	}

	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE companies SET %s WHERE id = $%d AND is_deleted = FALSE RETURNING %s`,
		strings.Join(sets, ", "), argNum, companyColumns)
	args = append(args, id)

	company, err := scanCompany(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

// SoftDeleteCompany flags a live company as deleted. Returns false when no
// live record matched, so a second delete reports not-found.
func (db *DB) SoftDeleteCompany(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE companies SET is_deleted = TRUE, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete company: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// loadCompanyRelations eager-loads named relations for a page of companies.
// Each relation loads concurrently; sub-entities batch over the page's IDs.
func (db *DB) loadCompanyRelations(ctx context.Context, companies []*Company, include []string) error {
	ids := make([]uuid.UUID, len(companies))
	byID := make(map[uuid.UUID]*Company, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rel := range include {
		switch rel {
		case "addresses":
			g.Go(func() error {
				grouped, err := db.addressesByParent(gctx, EntityTypeCompany, ids)
				if err != nil {
					return err
				}
				for id, items := range grouped {
					byID[id].Addresses = items
				}
				return nil
			})
		case "emails":
			g.Go(func() error {
				grouped, err := db.emailsByParent(gctx, EntityTypeCompany, ids)
				if err != nil {
					return err
				}
				for id, items := range grouped {
					byID[id].Emails = items
				}
				return nil
			})
		case "phones":
			g.Go(func() error {
				grouped, err := db.phonesByParent(gctx, EntityTypeCompany, ids)
				if err != nil {
					return err
				}
				for id, items := range grouped {
					byID[id].Phones = items
				}
				return nil
			})
		case "contacts":
			g.Go(func() error {
				rows, err := db.pool.Query(gctx,
					`SELECT `+contactColumns+` FROM contacts
					 WHERE company_id = ANY($1) AND is_deleted = FALSE
					 ORDER BY last_name, first_name`, ids)
				if err != nil {
					return fmt.Errorf("failed to load contacts: %w", err)
				}
				defer rows.Close()
				for rows.Next() {
					contact, err := scanContact(rows)
					if err != nil {
						return fmt.Errorf("failed to scan contact: %w", err)
					}
					if contact.CompanyID != nil {
						if parent, ok := byID[*contact.CompanyID]; ok {
							parent.Contacts = append(parent.Contacts, *contact)
						}
					}
				}
				return rows.Err()
			})
		}
	}
	return g.Wait()
}

// marshalCustomFields serializes the custom-field map for a JSONB column
func marshalCustomFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal custom fields: %w", err)
	}
	return data, nil
}

// emptyIfNil keeps TEXT[] columns NOT NULL friendly
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
