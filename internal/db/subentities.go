package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Sub-Entity Methods (Address / Email / Phone)
//
// Each kind lives in its own table keyed by (entity_type, entity_id). The
// "at most one primary per parent per kind" invariant is enforced in layers:
// an advisory lock serializes promotions per parent so clear-then-set never
// interleaves, the sequence runs inside a transaction, and a partial unique
// index remains as the backstop.
// -----------------------------------------------------------------------------

const addressColumns = `id, entity_type, entity_id, type, street, street2, city, state,
	postal_code, country, is_primary, created_at, updated_at`

const emailColumns = `id, entity_type, entity_id, type, email, is_primary, is_verified,
	created_at, updated_at`

const phoneColumns = `id, entity_type, entity_id, type, number, extension, is_primary,
	is_verified, created_at, updated_at`

// AddressCreateInput holds the fields accepted when attaching an address
type AddressCreateInput struct {
	EntityType string
	EntityID   uuid.UUID
	Type       string
	Street     *string
	Street2    *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
	IsPrimary  bool
}

// AddressUpdateInput holds the patchable address fields. Nil means unchanged.
type AddressUpdateInput struct {
	Type       *string
	Street     *string
	Street2    *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
	IsPrimary  *bool
}

// EmailCreateInput holds the fields accepted when attaching an email
type EmailCreateInput struct {
	EntityType string
	EntityID   uuid.UUID
	Type       string
	Email      string
	IsPrimary  bool
	IsVerified bool
}

// EmailUpdateInput holds the patchable email fields. Nil means unchanged.
type EmailUpdateInput struct {
	Type       *string
	Email      *string
	IsPrimary  *bool
	IsVerified *bool
}

// PhoneCreateInput holds the fields accepted when attaching a phone
type PhoneCreateInput struct {
	EntityType string
	EntityID   uuid.UUID
	Type       string
	Number     string
	Extension  *string
	IsPrimary  bool
	IsVerified bool
}

// PhoneUpdateInput holds the patchable phone fields. Nil means unchanged.
type PhoneUpdateInput struct {
	Type       *string
	Number     *string
	Extension  *string
	IsPrimary  *bool
	IsVerified *bool
}

func scanAddress(row pgx.Row) (*Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.EntityType, &a.EntityID, &a.Type, &a.Street, &a.Street2,
		&a.City, &a.State, &a.PostalCode, &a.Country, &a.IsPrimary, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanEmail(row pgx.Row) (*Email, error) {
	var e Email
	err := row.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Type, &e.Email,
		&e.IsPrimary, &e.IsVerified, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanPhone(row pgx.Row) (*Phone, error) {
	var p Phone
	err := row.Scan(&p.ID, &p.EntityType, &p.EntityID, &p.Type, &p.Number, &p.Extension,
		&p.IsPrimary, &p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// lockParentScope serializes primary promotion for one parent and kind.
// Clear-then-set is not safe when two transactions promote different
// siblings: each clear runs on a snapshot that cannot see the other's
// uncommitted primary, and the second commit trips the partial unique
// index. The advisory lock is released when the transaction ends.
// Callers must take it before locking any row in the same scope, or a
// promoter holding the scope lock can wait on a row another promoter
// locked while waiting for the scope.
func lockParentScope(ctx context.Context, tx pgx.Tx, table, entityType string, entityID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		table+":"+entityType+":"+entityID.String())
	if err != nil {
		return fmt.Errorf("failed to lock %s scope: %w", table, err)
	}
	return nil
}

// clearPrimary demotes every primary sibling for the parent within tx. The
// exclude ID skips the record being updated.
func clearPrimary(ctx context.Context, tx pgx.Tx, table, entityType string, entityID uuid.UUID, exclude uuid.UUID) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(
		`UPDATE %s SET is_primary = FALSE, updated_at = NOW()
		 WHERE entity_type = $1 AND entity_id = $2 AND is_primary AND id <> $3`, table),
		entityType, entityID, exclude)
	if err != nil {
		return fmt.Errorf("failed to clear primary flags: %w", err)
	}
	return nil
}

// hardDelete removes a sub-entity row by ID. Returns false when nothing
// matched. No primary re-election happens: deleting a primary leaves the
// parent with none.
func (db *DB) hardDelete(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return result.RowsAffected() > 0, nil
}

// -----------------------------------------------------------------------------
// Addresses
// -----------------------------------------------------------------------------

// CreateAddress attaches an address to a parent. When the new record is
// primary, existing primaries are cleared in the same transaction.
func (db *DB) CreateAddress(ctx context.Context, input *AddressCreateInput) (*Address, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if input.IsPrimary {
		if err := lockParentScope(ctx, tx, "addresses", input.EntityType, input.EntityID); err != nil {
			return nil, err
		}
		if err := clearPrimary(ctx, tx, "addresses", input.EntityType, input.EntityID, uuid.Nil); err != nil {
			return nil, err
		}
	}

	address, err := scanAddress(tx.QueryRow(ctx,
		`INSERT INTO addresses (entity_type, entity_id, type, street, street2, city, state,
		                        postal_code, country, is_primary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+addressColumns,
		input.EntityType, input.EntityID, input.Type, input.Street, input.Street2,
		input.City, input.State, input.PostalCode, input.Country, input.IsPrimary,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit address create: %w", err)
	}
	return address, nil
}

// ListAddresses returns a parent's addresses, primary first then creation order
func (db *DB) ListAddresses(ctx context.Context, entityType string, entityID uuid.UUID) ([]Address, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM addresses
		 WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY is_primary DESC, created_at ASC`,
		entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, *a)
	}
	return addresses, rows.Err()
}

// UpdateAddress applies a partial update. Promoting a record to primary
// demotes its siblings in the same transaction. Returns nil if the record
// does not exist.
func (db *DB) UpdateAddress(ctx context.Context, id uuid.UUID, input *AddressUpdateInput) (*Address, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Parent keys never change after insert, so they can be read without
	// a row lock. The scope lock has to precede the row lock.
	var entityType string
	var entityID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT entity_type, entity_id FROM addresses WHERE id = $1`, id,
	).Scan(&entityType, &entityID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find address: %w", err)
	}

	if input.IsPrimary != nil && *input.IsPrimary {
		if err := lockParentScope(ctx, tx, "addresses", entityType, entityID); err != nil {
			return nil, err
		}
	}

	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM addresses WHERE id = $1 FOR UPDATE`, id,
	).Scan(&locked)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock address: %w", err)
	}

	if input.IsPrimary != nil && *input.IsPrimary {
		if err := clearPrimary(ctx, tx, "addresses", entityType, entityID, id); err != nil {
			return nil, err
		}
	}

	sets := []string{}
	args := []any{}
	argNum := 1
	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if input.Type != nil {
		addSet("type", *input.Type)
	}
	if input.Street != nil {
		addSet("street", *input.Street)
	}
	if input.Street2 != nil {
		addSet("street2", *input.Street2)
	}
	if input.City != nil {
		addSet("city", *input.City)
	}
	if input.State != nil {
		addSet("state", *input.State)
	}
	if input.PostalCode != nil {
		addSet("postal_code", *input.PostalCode)
	}
	if input.Country != nil {
		addSet("country", *input.Country)
	}
	if input.IsPrimary != nil {
		addSet("is_primary", *input.IsPrimary)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE addresses SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argNum, addressColumns)
	args = append(args, id)

	address, err := scanAddress(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit address update: %w", err)
	}
	return address, nil
}

// DeleteAddress hard-deletes an address. Returns false when absent.
func (db *DB) DeleteAddress(ctx context.Context, id uuid.UUID) (bool, error) {
	return db.hardDelete(ctx, "addresses", id)
}

// addressesByParent batch-loads addresses for a page of parent IDs
func (db *DB) addressesByParent(ctx context.Context, entityType string, ids []uuid.UUID) (map[uuid.UUID][]Address, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM addresses
		 WHERE entity_type = $1 AND entity_id = ANY($2)
		 ORDER BY is_primary DESC, created_at ASC`,
		entityType, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}
	defer rows.Close()

	grouped := map[uuid.UUID][]Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		grouped[a.EntityID] = append(grouped[a.EntityID], *a)
	}
	return grouped, rows.Err()
}

// -----------------------------------------------------------------------------
// Emails
// -----------------------------------------------------------------------------

// CreateEmail attaches an email to a parent with the same primary-exclusivity
// handling as CreateAddress.
func (db *DB) CreateEmail(ctx context.Context, input *EmailCreateInput) (*Email, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if input.IsPrimary {
		if err := lockParentScope(ctx, tx, "emails", input.EntityType, input.EntityID); err != nil {
			return nil, err
		}
		if err := clearPrimary(ctx, tx, "emails", input.EntityType, input.EntityID, uuid.Nil); err != nil {
			return nil, err
		}
	}

	email, err := scanEmail(tx.QueryRow(ctx,
		`INSERT INTO emails (entity_type, entity_id, type, email, is_primary, is_verified)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+emailColumns,
		input.EntityType, input.EntityID, input.Type, input.Email, input.IsPrimary, input.IsVerified,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create email: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit email create: %w", err)
	}
	return email, nil
}

// ListEmails returns a parent's emails, primary first then creation order
func (db *DB) ListEmails(ctx context.Context, entityType string, entityID uuid.UUID) ([]Email, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+emailColumns+` FROM emails
		 WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY is_primary DESC, created_at ASC`,
		entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	var emails []Email
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, *e)
	}
	return emails, rows.Err()
}

// UpdateEmail applies a partial update with primary exclusivity. Returns nil
// if the record does not exist.
func (db *DB) UpdateEmail(ctx context.Context, id uuid.UUID, input *EmailUpdateInput) (*Email, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var entityType string
	var entityID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT entity_type, entity_id FROM emails WHERE id = $1`, id,
	).Scan(&entityType, &entityID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find email: %w", err)
	}

	if input.IsPrimary != nil && *input.IsPrimary {
		if err := lockParentScope(ctx, tx, "emails", entityType, entityID); err != nil {
			return nil, err
		}
	}

	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM emails WHERE id = $1 FOR UPDATE`, id,
	).Scan(&locked)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock email: %w", err)
	}

	if input.IsPrimary != nil && *input.IsPrimary {
		if err := clearPrimary(ctx, tx, "emails", entityType, entityID, id); err != nil {
			return nil, err
		}
	}

	sets := []string{}
	args := []any{}
	argNum := 1
	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if input.Type != nil {
		addSet("type", *input.Type)
	}
	if input.Email != nil {
		addSet("email", *input.Email)
	}
	if input.IsPrimary != nil {
		addSet("is_primary", *input.IsPrimary)
	}
	if input.IsVerified != nil {
		addSet("is_verified", *input.IsVerified)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE emails SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argNum, emailColumns)
	args = append(args, id)

	email, err := scanEmail(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update email: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit email update: %w", err)
	}
	return email, nil
}

// DeleteEmail hard-deletes an email. Returns false when absent.
func (db *DB) DeleteEmail(ctx context.Context, id uuid.UUID) (bool, error) {
	return db.hardDelete(ctx, "emails", id)
}

// emailsByParent batch-loads emails for a page of parent IDs
func (db *DB) emailsByParent(ctx context.Context, entityType string, ids []uuid.UUID) (map[uuid.UUID][]Email, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+emailColumns+` FROM emails
		 WHERE entity_type = $1 AND entity_id = ANY($2)
		 ORDER BY is_primary DESC, created_at ASC`,
		entityType, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load emails: %w", err)
	}
	defer rows.Close()

	grouped := map[uuid.UUID][]Email{}
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		grouped[e.EntityID] = append(grouped[e.EntityID], *e)
	}
	return grouped, rows.Err()
}

// -----------------------------------------------------------------------------
// Phones
// -----------------------------------------------------------------------------

// CreatePhone attaches a phone to a parent with the same primary-exclusivity
// handling as CreateAddress.
func (db *DB) CreatePhone(ctx context.Context, input *PhoneCreateInput) (*Phone, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if input.IsPrimary {
		if err := lockParentScope(ctx, tx, "phones", input.EntityType, input.EntityID); err != nil {
			return nil, err
		}
		if err := clearPrimary(ctx, tx, "phones", input.EntityType, input.EntityID, uuid.Nil); err != nil {
			return nil, err
		}
	}

	phone, err := scanPhone(tx.QueryRow(ctx,
		`INSERT INTO phones (entity_type, entity_id, type, number, extension, is_primary, is_verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+phoneColumns,
		input.EntityType, input.EntityID, input.Type, input.Number, input.Extension,
		input.IsPrimary, input.IsVerified,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create phone: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit phone create: %w", err)
	}
	return phone, nil
}

// ListPhones returns a parent's phones, primary first then creation order
func (db *DB) ListPhones(ctx context.Context, entityType string, entityID uuid.UUID) ([]Phone, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+phoneColumns+` FROM phones
		 WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY is_primary DESC, created_at ASC`,
		entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phones: %w", err)
	}
	defer rows.Close()

	var phones []Phone
	for rows.Next() {
		p, err := scanPhone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		phones = append(phones, *p)
	}
	return phones, rows.Err()
}

// UpdatePhone applies a partial update with primary exclusivity. Returns nil
// if the record does not exist.
func (db *DB) UpdatePhone(ctx context.Context, id uuid.UUID, input *PhoneUpdateInput) (*Phone, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var entityType string
	var entityID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT entity_type, entity_id FROM phones WHERE id = $1`, id,
	).Scan(&entityType, &entityID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find phone: %w", err)
	}

	if input.IsPrimary != nil && *input.IsPrimary {
		if err := lockParentScope(ctx, tx, "phones", entityType, entityID); err != nil {
			return nil, err
		}
	}

	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM phones WHERE id = $1 FOR UPDATE`, id,
	).Scan(&locked)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock phone: %w", err)
	}

	if input.IsPrimary != nil && *input.IsPrimary {
		if err := clearPrimary(ctx, tx, "phones", entityType, entityID, id); err != nil {
			return nil, err
		}
	}

	sets := []string{}
	args := []any{}
	argNum := 1
	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if input.Type != nil {
		addSet("type", *input.Type)
	}
	if input.Number != nil {
		addSet("number", *input.Number)
	}
	if input.Extension != nil {
		addSet("extension", *input.Extension)
	}
	if input.IsPrimary != nil {
		addSet("is_primary", *input.IsPrimary)
	}
	if input.IsVerified != nil {
		addSet("is_verified", *input.IsVerified)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE phones SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argNum, phoneColumns)
	args = append(args, id)

	phone, err := scanPhone(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update phone: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit phone update: %w", err)
	}
	return phone, nil
}

// DeletePhone hard-deletes a phone. Returns false when absent.
func (db *DB) DeletePhone(ctx context.Context, id uuid.UUID) (bool, error) {
	return db.hardDelete(ctx, "phones", id)
}

// phonesByParent batch-loads phones for a page of parent IDs
func (db *DB) phonesByParent(ctx context.Context, entityType string, ids []uuid.UUID) (map[uuid.UUID][]Phone, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+phoneColumns+` FROM phones
		 WHERE entity_type = $1 AND entity_id = ANY($2)
		 ORDER BY is_primary DESC, created_at ASC`,
		entityType, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load phones: %w", err)
	}
	defer rows.Close()

	grouped := map[uuid.UUID][]Phone{}
	for rows.Next() {
		p, err := scanPhone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		grouped[p.EntityID] = append(grouped[p.EntityID], *p)
	}
	return grouped, rows.Err()
}
