package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------
// Contact Methods
// -----------------------------------------------------------------------------

const contactColumns = `id, prefix, first_name, middle_name, last_name, suffix, preferred_name,
	title, department, seniority, headline, company_id, company_name_snapshot,
	start_date, end_date, is_current_employee, lifecycle_stage, record_status,
	tags, notes, custom_fields, is_deleted, created_at, updated_at`

var contactListSpec = listSpec{
	table: "contacts",
	sortColumns: map[string]string{
		"firstName": "first_name",
		"lastName":  "last_name",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	searchColumns: []string{"first_name", "last_name", "title", "headline", "company_name_snapshot"},
}

// ContactSortFields reports the sort fields accepted by ListContacts.
func ContactSortFields() []string {
	fields := make([]string, 0, len(contactListSpec.sortColumns))
	for f := range contactListSpec.sortColumns {
		fields = append(fields, f)
	}
	return fields
}

// ContactCreateInput holds the fields accepted when creating a contact
type ContactCreateInput struct {
	Prefix            *string
	FirstName         string
	MiddleName        *string
	LastName          string
	Suffix            *string
	PreferredName     *string
	Title             *string
	Department        *string
	Seniority         *string
	Headline          *string
	CompanyID         *uuid.UUID
	StartDate         *time.Time
	EndDate           *time.Time
	IsCurrentEmployee *bool
	LifecycleStage    *string
	RecordStatus      *string
	Tags              []string
	Notes             *string
	CustomFields      map[string]any
}

// ContactUpdateInput holds the fields accepted when patching a contact.
// Nil means "leave unchanged".
type ContactUpdateInput struct {
	Prefix            *string
	FirstName         *string
	MiddleName        *string
	LastName          *string
	Suffix            *string
	PreferredName     *string
	Title             *string
	Department        *string
	Seniority         *string
	Headline          *string
	CompanyID         *uuid.UUID
	ClearCompany      bool
	StartDate         *time.Time
	EndDate           *time.Time
	IsCurrentEmployee *bool
	LifecycleStage    *string
	RecordStatus      *string
	Tags              []string
	Notes             *string
	CustomFields      map[string]any
}

// ContactFilters holds the exact-match list filters for contacts
type ContactFilters struct {
	CompanyID         *uuid.UUID
	Seniority         string
	RecordStatus      string
	LifecycleStage    string
	IsCurrentEmployee *bool
}

func (f ContactFilters) toFilters() []filter {
	var filters []filter
	if f.CompanyID != nil {
		filters = append(filters, filter{"company_id", *f.CompanyID})
	}
	if f.Seniority != "" {
		filters = append(filters, filter{"seniority", f.Seniority})
	}
	if f.RecordStatus != "" {
		filters = append(filters, filter{"record_status", f.RecordStatus})
	}
	if f.LifecycleStage != "" {
		filters = append(filters, filter{"lifecycle_stage", f.LifecycleStage})
	}
	if f.IsCurrentEmployee != nil {
		filters = append(filters, filter{"is_current_employee", *f.IsCurrentEmployee})
	}
	return filters
}

// scanContact scans one contact row in contactColumns order
func scanContact(row pgx.Row) (*Contact, error) {
	var c Contact
	var customFieldsJSON []byte
	err := row.Scan(&c.ID, &c.Prefix, &c.FirstName, &c.MiddleName, &c.LastName, &c.Suffix,
		&c.PreferredName, &c.Title, &c.Department, &c.Seniority, &c.Headline,
		&c.CompanyID, &c.CompanyNameSnapshot, &c.StartDate, &c.EndDate,
		&c.IsCurrentEmployee, &c.LifecycleStage, &c.RecordStatus,
		&c.Tags, &c.Notes, &customFieldsJSON, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.CustomFields = map[string]any{}
	if len(customFieldsJSON) > 0 {
		_ = json.Unmarshal(customFieldsJSON, &c.CustomFields)
	}
	return &c, nil
}

// ErrCompanyNotLive is returned when a contact references a missing or
// soft-deleted company.
var ErrCompanyNotLive = fmt.Errorf("company does not exist or is deleted")

// CreateContact inserts a new contact. When a company is referenced, its name
// is captured as a snapshot that survives later renames of the company.
func (db *DB) CreateContact(ctx context.Context, input *ContactCreateInput) (*Contact, error) {
	customFieldsJSON, err := marshalCustomFields(input.CustomFields)
	if err != nil {
		return nil, err
	}

	var snapshot *string
	if input.CompanyID != nil {
		company, err := db.GetCompanyByID(ctx, *input.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, ErrCompanyNotLive
		}
		snapshot = &company.Name
	}

	lifecycle := LifecycleLead
	if input.LifecycleStage != nil {
		lifecycle = *input.LifecycleStage
	}
	status := RecordStatusActive
	if input.RecordStatus != nil {
		status = *input.RecordStatus
	}
	isCurrent := false
	if input.IsCurrentEmployee != nil {
		isCurrent = *input.IsCurrentEmployee
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO contacts (prefix, first_name, middle_name, last_name, suffix, preferred_name,
		                       title, department, seniority, headline, company_id, company_name_snapshot,
		                       start_date, end_date, is_current_employee, lifecycle_stage, record_status,
		                       tags, notes, custom_fields)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING `+contactColumns,
		input.Prefix, input.FirstName, input.MiddleName, input.LastName, input.Suffix,
		input.PreferredName, input.Title, input.Department, input.Seniority, input.Headline,
		input.CompanyID, snapshot, input.StartDate, input.EndDate, isCurrent,
		lifecycle, status, emptyIfNil(input.Tags), input.Notes, customFieldsJSON,
	)

	contact, err := scanContact(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// GetContactByID retrieves a live contact by ID. Soft-deleted and missing
// records both return nil.
func (db *DB) GetContactByID(ctx context.Context, id uuid.UUID, include ...string) (*Contact, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND is_deleted = FALSE`, id)

	contact, err := scanContact(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	if len(include) > 0 {
		if err := db.loadContactRelations(ctx, []*Contact{contact}, include); err != nil {
			return nil, err
		}
	}
	return contact, nil
}

// ContactIsLive reports whether a contact exists and is not soft-deleted
func (db *DB) ContactIsLive(ctx context.Context, id uuid.UUID) (bool, error) {
	var live bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contacts WHERE id = $1 AND is_deleted = FALSE)`,
		id,
	).Scan(&live)
	if err != nil {
		return false, fmt.Errorf("failed to check contact: %w", err)
	}
	return live, nil
}

// ListContacts runs the shared list pipeline for contacts
func (db *DB) ListContacts(ctx context.Context, p ListParams, f ContactFilters) (*ListResult[Contact], error) {
	query, args := buildListQuery(contactColumns, contactListSpec, p, f.toFilters())

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	result := &ListResult[Contact]{Items: contacts}
	if len(contacts) > p.Limit {
		result.Items = contacts[:p.Limit]
		result.HasNext = true
	}

	err = db.pool.QueryRow(ctx, buildTotalQuery(contactListSpec, p)).Scan(&result.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	if len(p.Include) > 0 && len(result.Items) > 0 {
		ptrs := make([]*Contact, len(result.Items))
		for i := range result.Items {
			ptrs[i] = &result.Items[i]
		}
		if err := db.loadContactRelations(ctx, ptrs, p.Include); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UpdateContact applies a partial update to a live contact. Changing the
// company reference refreshes the name snapshot; ClearCompany detaches it.
// Returns nil if no live record matches.
func (db *DB) UpdateContact(ctx context.Context, id uuid.UUID, input *ContactUpdateInput) (*Contact, error) {
	sets := []string{}
	args := []any{}
	argNum := 1

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if input.Prefix != nil {
		addSet("prefix", *input.Prefix)
	}
	if input.FirstName != nil {
		addSet("first_name", *input.FirstName)
	}
	if input.MiddleName != nil {
		addSet("middle_name", *input.MiddleName)
	}
	if input.LastName != nil {
		addSet("last_name", *input.LastName)
	}
	if input.Suffix != nil {
		addSet("suffix", *input.Suffix)
	}
	if input.PreferredName != nil {
		addSet("preferred_name", *input.PreferredName)
	}
	if input.Title != nil {
		addSet("title", *input.Title)
	}
	if input.Department != nil {
		addSet("department", *input.Department)
	}
	if input.Seniority != nil {
		addSet("seniority", *input.Seniority)
	}
	if input.Headline != nil {
		addSet("headline", *input.Headline)
	}
	if input.ClearCompany {
		sets = append(sets, "company_id = NULL", "company_name_snapshot = NULL")
	} else if input.CompanyID != nil {
		company, err := db.GetCompanyByID(ctx, *input.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, ErrCompanyNotLive
		}
		addSet("company_id", *input.CompanyID)
		addSet("company_name_snapshot", company.Name)
	}
	if input.StartDate != nil {
		addSet("start_date", *input.StartDate)
	}
	if input.EndDate != nil {
		addSet("end_date", *input.EndDate)
	}
	if input.IsCurrentEmployee != nil {
		addSet("is_current_employee", *input.IsCurrentEmployee)
	}
	if input.LifecycleStage != nil {
		addSet("lifecycle_stage", *input.LifecycleStage)
	}
	if input.RecordStatus != nil {
		addSet("record_status", *input.RecordStatus)
	}
	if input.Tags != nil {
		addSet("tags", input.Tags)
	}
	if input.Notes != nil {
		addSet("notes", *input.Notes)
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
		`UPDATE contacts SET %s WHERE id = $%d AND is_deleted = FALSE RETURNING %s`,
		strings.Join(sets, ", "), argNum, contactColumns)
	args = append(args, id)

	contact, err := scanContact(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

// SoftDeleteContact flags a live contact as deleted. Returns false when no
// live record matched.
func (db *DB) SoftDeleteContact(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE contacts SET is_deleted = TRUE, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// loadContactRelations eager-loads named relations for a page of contacts
func (db *DB) loadContactRelations(ctx context.Context, contacts []*Contact, include []string) error {
	ids := make([]uuid.UUID, len(contacts))
	byID := make(map[uuid.UUID]*Contact, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rel := range include {
		switch rel {
		case "addresses":
			g.Go(func() error {
				grouped, err := db.addressesByParent(gctx, EntityTypeContact, ids)
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
				grouped, err := db.emailsByParent(gctx, EntityTypeContact, ids)
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
				grouped, err := db.phonesByParent(gctx, EntityTypeContact, ids)
				if err != nil {
					return err
				}
				for id, items := range grouped {
					byID[id].Phones = items
				}
				return nil
			})
		case "company":
			g.Go(func() error {
				companyIDs := []uuid.UUID{}
				seen := map[uuid.UUID]bool{}
				for _, c := range contacts {
					if c.CompanyID != nil && !seen[*c.CompanyID] {
						seen[*c.CompanyID] = true
						companyIDs = append(companyIDs, *c.CompanyID)
					}
				}
				if len(companyIDs) == 0 {
					return nil
				}
				rows, err := db.pool.Query(gctx,
					`SELECT `+companyColumns+` FROM companies WHERE id = ANY($1)`, companyIDs)
				if err != nil {
					return fmt.Errorf("failed to load companies: %w", err)
				}
				defer rows.Close()
				companies := map[uuid.UUID]*Company{}
				for rows.Next() {
					company, err := scanCompany(rows)
					if err != nil {
						return fmt.Errorf("failed to scan company: %w", err)
					}
					companies[company.ID] = company
				}
				if err := rows.Err(); err != nil {
					return err
				}
				for _, c := range contacts {
					if c.CompanyID != nil {
						c.Company = companies[*c.CompanyID]
					}
				}
				return nil
			})
		}
	}
	return g.Wait()
}
