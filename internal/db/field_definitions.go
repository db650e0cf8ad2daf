package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// -----------------------------------------------------------------------------
// Field Definition Methods
// -----------------------------------------------------------------------------

const fieldDefinitionColumns = `id, entity_type, key, label, field_type, options,
	required, active, created_at, updated_at`

// ErrDuplicateKey is returned when a field definition key already exists for
// the entity type.
var ErrDuplicateKey = errors.New("field definition key already exists")

// FieldDefinitionCreateInput holds the fields accepted when registering a
// custom field.
type FieldDefinitionCreateInput struct {
	EntityType string
	Key        string
	Label      string
	FieldType  string
	Options    []string
	Required   bool
	Active     *bool
}

// FieldDefinitionUpdateInput holds the patchable fields. Nil means unchanged.
// Key and entity type are immutable once registered.
type FieldDefinitionUpdateInput struct {
	Label    *string
	Options  []string
	Required *bool
	Active   *bool
}

func scanFieldDefinition(row pgx.Row) (*FieldDefinition, error) {
	var fd FieldDefinition
	err := row.Scan(&fd.ID, &fd.EntityType, &fd.Key, &fd.Label, &fd.FieldType,
		&fd.Options, &fd.Required, &fd.Active, &fd.CreatedAt, &fd.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &fd, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateFieldDefinition registers a custom field for an entity type
func (db *DB) CreateFieldDefinition(ctx context.Context, input *FieldDefinitionCreateInput) (*FieldDefinition, error) {
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	fd, err := scanFieldDefinition(db.pool.QueryRow(ctx,
		`INSERT INTO field_definitions (entity_type, key, label, field_type, options, required, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+fieldDefinitionColumns,
		input.EntityType, input.Key, input.Label, input.FieldType,
		emptyIfNil(input.Options), input.Required, active,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to create field definition: %w", err)
	}
	return fd, nil
}

// GetFieldDefinitionByID retrieves a field definition. Missing records return nil.
func (db *DB) GetFieldDefinitionByID(ctx context.Context, id uuid.UUID) (*FieldDefinition, error) {
	fd, err := scanFieldDefinition(db.pool.QueryRow(ctx,
		`SELECT `+fieldDefinitionColumns+` FROM field_definitions WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get field definition: %w", err)
	}
	return fd, nil
}

// ListFieldDefinitions returns definitions, optionally filtered by entity type
func (db *DB) ListFieldDefinitions(ctx context.Context, entityType string) ([]FieldDefinition, error) {
	query := `SELECT ` + fieldDefinitionColumns + ` FROM field_definitions`
	args := []any{}
	if entityType != "" {
		query += ` WHERE entity_type = $1`
		args = append(args, entityType)
	}
	query += ` ORDER BY entity_type, key`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list field definitions: %w", err)
	}
	defer rows.Close()

	var defs []FieldDefinition
	for rows.Next() {
		fd, err := scanFieldDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field definition: %w", err)
		}
		defs = append(defs, *fd)
	}
	return defs, rows.Err()
}

// ActiveFieldDefinitions returns the active definitions for one entity type,
// keyed by field key. Used to check customFields maps on entity writes.
func (db *DB) ActiveFieldDefinitions(ctx context.Context, entityType string) (map[string]FieldDefinition, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+fieldDefinitionColumns+` FROM field_definitions
		 WHERE entity_type = $1 AND active = TRUE`, entityType)
	if err != nil {
		return nil, fmt.Errorf("failed to load field definitions: %w", err)
	}
	defer rows.Close()

	defs := map[string]FieldDefinition{}
	for rows.Next() {
		fd, err := scanFieldDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan field definition: %w", err)
		}
		defs[fd.Key] = *fd
	}
	return defs, rows.Err()
}

// UpdateFieldDefinition applies a partial update. Returns nil if missing.
func (db *DB) UpdateFieldDefinition(ctx context.Context, id uuid.UUID, input *FieldDefinitionUpdateInput) (*FieldDefinition, error) {
	sets := []string{}
	args := []any{}
	argNum := 1
	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if input.Label != nil {
		addSet("label", *input.Label)
	}
	if input.Options != nil {
		addSet("options", input.Options)
	}
	if input.Required != nil {
		addSet("required", *input.Required)
	}
	if input.Active != nil {
		addSet("active", *input.Active)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE field_definitions SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argNum, fieldDefinitionColumns)
	args = append(args, id)

	fd, err := scanFieldDefinition(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update field definition: %w", err)
	}
	return fd, nil
}

// DeleteFieldDefinition hard-deletes a definition. Returns false when absent.
// Values already stored under the key in customFields maps are left in place.
func (db *DB) DeleteFieldDefinition(ctx context.Context, id uuid.UUID) (bool, error) {
	return db.hardDelete(ctx, "field_definitions", id)
}
