package db

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL and applies
// migrations. Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	database, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	t.Cleanup(database.Close)

	require.NoError(t, database.Migrate(context.Background()))
	return database
}

func testCompanyInput(name string) *CompanyCreateInput {
	industry := IndustryTechnology
	return &CompanyCreateInput{
		Name:         name,
		Industry:     &industry,
		EmailDomains: []string{"example.test"},
	}
}

func TestCompanyLifecycle_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	created, err := database.CreateCompany(ctx, testCompanyInput(t.Name()))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, LifecycleLead, created.LifecycleStage)
	assert.Equal(t, RecordStatusActive, created.RecordStatus)
	assert.False(t, created.IsDeleted)

	got, err := database.GetCompanyByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Name, got.Name)

	newName := t.Name() + " renamed"
	updated, err := database.UpdateCompany(ctx, created.ID, &CompanyUpdateInput{Name: &newName})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, newName, updated.Name)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	deleted, err := database.SoftDeleteCompany(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Soft-deleted records read as missing
	got, err = database.GetCompanyByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Second delete finds no live row
	deleted, err = database.SoftDeleteCompany(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	// The row survives and is visible to includeDeleted listings
	result, err := database.ListCompanies(ctx, ListParams{
		Query:          newName,
		SortField:      DefaultSortField,
		SortDesc:       true,
		Limit:          DefaultListLimit,
		IncludeDeleted: true,
	}, CompanyFilters{})
	require.NoError(t, err)
	found := false
	for _, c := range result.Items {
		if c.ID == created.ID {
			found = true
			assert.True(t, c.IsDeleted)
		}
	}
	assert.True(t, found, "soft-deleted company should appear with includeDeleted")
}

func TestContactCompanySnapshot_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	company, err := database.CreateCompany(ctx, testCompanyInput(t.Name()))
	require.NoError(t, err)

	contact, err := database.CreateContact(ctx, &ContactCreateInput{
		FirstName: "Dana",
		LastName:  "Reyes",
		CompanyID: &company.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, contact.CompanyNameSnapshot)
	assert.Equal(t, company.Name, *contact.CompanyNameSnapshot)

	// Detaching clears both the reference and the snapshot
	updated, err := database.UpdateContact(ctx, contact.ID, &ContactUpdateInput{ClearCompany: true})
	require.NoError(t, err)
	assert.Nil(t, updated.CompanyID)
	assert.Nil(t, updated.CompanyNameSnapshot)

	// Attaching to a soft-deleted company is rejected
	_, err = database.SoftDeleteCompany(ctx, company.ID)
	require.NoError(t, err)
	_, err = database.UpdateContact(ctx, contact.ID, &ContactUpdateInput{CompanyID: &company.ID})
	assert.ErrorIs(t, err, ErrCompanyNotLive)
}

func TestCursorPagination_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	marker := fmt.Sprintf("cursor-walk-%d", time.Now().UnixNano())
	const total = 7
	for i := 0; i < total; i++ {
		_, err := database.CreateCompany(ctx, testCompanyInput(fmt.Sprintf("%s-%d", marker, i)))
		require.NoError(t, err)
	}

	seen := map[uuid.UUID]bool{}
	var cursor *time.Time
	pages := 0
	for {
		result, err := database.ListCompanies(ctx, ListParams{
			Query:     marker,
			SortField: DefaultSortField,
			SortDesc:  true,
			Limit:     3,
			Cursor:    cursor,
		}, CompanyFilters{})
		require.NoError(t, err)
		pages++
		require.LessOrEqual(t, pages, total, "pagination did not terminate")

		var last time.Time
		for _, c := range result.Items {
			assert.False(t, seen[c.ID], "company %s returned twice", c.ID)
			seen[c.ID] = true
			if !last.IsZero() {
				assert.False(t, c.UpdatedAt.After(last), "descending order violated")
			}
			last = c.UpdatedAt
		}

		if !result.HasNext {
			break
		}
		require.NotEmpty(t, result.Items)
		next := result.Items[len(result.Items)-1].UpdatedAt
		cursor = &next
	}

	assert.Len(t, seen, total, "each matching record exactly once across pages")
}

func TestCursorPaginationAscending_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	marker := fmt.Sprintf("cursor-walk-asc-%d", time.Now().UnixNano())
	const total = 5
	for i := 0; i < total; i++ {
		_, err := database.CreateCompany(ctx, testCompanyInput(fmt.Sprintf("%s-%d", marker, i)))
		require.NoError(t, err)
	}

	seen := map[uuid.UUID]bool{}
	var cursor *time.Time
	pages := 0
	for {
		result, err := database.ListCompanies(ctx, ListParams{
			Query:     marker,
			SortField: DefaultSortField,
			SortDesc:  false,
			Limit:     2,
			Cursor:    cursor,
		}, CompanyFilters{})
		require.NoError(t, err)
		pages++
		require.LessOrEqual(t, pages, total, "pagination did not terminate")

		var last time.Time
		for _, c := range result.Items {
			assert.False(t, seen[c.ID], "company %s returned twice", c.ID)
			seen[c.ID] = true
			if !last.IsZero() {
				assert.False(t, c.UpdatedAt.Before(last), "ascending order violated")
			}
			last = c.UpdatedAt
		}

		if !result.HasNext {
			break
		}
		require.NotEmpty(t, result.Items)
		next := result.Items[len(result.Items)-1].UpdatedAt
		cursor = &next
	}

	assert.Len(t, seen, total, "ascending walk covers each matching record exactly once")
}

func TestPrimaryExclusivity_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	company, err := database.CreateCompany(ctx, testCompanyInput(t.Name()))
	require.NoError(t, err)

	first, err := database.CreateEmail(ctx, &EmailCreateInput{
		EntityType: EntityTypeCompany,
		EntityID:   company.ID,
		Type:       EmailTypeWork,
		Email:      "a@exclusivity.test",
		IsPrimary:  true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsPrimary)

	second, err := database.CreateEmail(ctx, &EmailCreateInput{
		EntityType: EntityTypeCompany,
		EntityID:   company.ID,
		Type:       EmailTypeWork,
		Email:      "b@exclusivity.test",
		IsPrimary:  true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsPrimary)

	emails, err := database.ListEmails(ctx, EntityTypeCompany, company.ID)
	require.NoError(t, err)
	primaries := 0
	for _, e := range emails {
		if e.IsPrimary {
			primaries++
			assert.Equal(t, second.ID, e.ID)
		}
	}
	assert.Equal(t, 1, primaries)

	// Primary sorts first
	require.NotEmpty(t, emails)
	assert.True(t, emails[0].IsPrimary)
}

func TestPrimaryExclusivity_Concurrent_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	company, err := database.CreateCompany(ctx, testCompanyInput(t.Name()))
	require.NoError(t, err)

	const writers = 8
	ids := make([]uuid.UUID, writers)
	for i := range ids {
		phone, err := database.CreatePhone(ctx, &PhoneCreateInput{
			EntityType: EntityTypeCompany,
			EntityID:   company.ID,
			Type:       PhoneTypeWork,
			Number:     fmt.Sprintf("+1555000%04d", i),
		})
		require.NoError(t, err)
		ids[i] = phone.ID
	}

	// All writers promote a different sibling at once. The per-parent scope
	// lock must serialize the clear-then-set sequences so every promotion
	// succeeds and exactly one primary remains.
	isPrimary := true
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := database.UpdatePhone(ctx, id, &PhoneUpdateInput{IsPrimary: &isPrimary})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	phones, err := database.ListPhones(ctx, EntityTypeCompany, company.ID)
	require.NoError(t, err)
	primaries := 0
	for _, p := range phones {
		if p.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries, "exactly one primary after concurrent promotions")
}

func TestFieldDefinitions_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	key := fmt.Sprintf("source_%d", time.Now().UnixNano())
	def, err := database.CreateFieldDefinition(ctx, &FieldDefinitionCreateInput{
		EntityType: EntityTypeContact,
		Key:        key,
		Label:      "Source",
		FieldType:  FieldTypeSelect,
		Options:    []string{"referral", "inbound"},
	})
	require.NoError(t, err)
	assert.True(t, def.Active)

	// Duplicate key for the same entity type conflicts
	_, err = database.CreateFieldDefinition(ctx, &FieldDefinitionCreateInput{
		EntityType: EntityTypeContact,
		Key:        key,
		Label:      "Source again",
		FieldType:  FieldTypeText,
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// Same key under the other entity type is fine
	other, err := database.CreateFieldDefinition(ctx, &FieldDefinitionCreateInput{
		EntityType: EntityTypeCompany,
		Key:        key,
		Label:      "Source",
		FieldType:  FieldTypeText,
	})
	require.NoError(t, err)

	defs, err := database.ActiveFieldDefinitions(ctx, EntityTypeContact)
	require.NoError(t, err)
	_, ok := defs[key]
	assert.True(t, ok)

	for _, id := range []uuid.UUID{def.ID, other.ID} {
		deleted, err := database.DeleteFieldDefinition(ctx, id)
		require.NoError(t, err)
		assert.True(t, deleted)
	}
}
