package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrations_Shape(t *testing.T) {
	assert.Equal(t, len(migrations), MigrationCount())
	assert.Greater(t, MigrationCount(), 0)

	for i, group := range migrations {
		assert.NotEmpty(t, group, "migration group %d is empty", i+1)
		for _, stmt := range group {
			assert.NotEmpty(t, strings.TrimSpace(stmt))
		}
	}
}

func TestMigrations_PrimaryExclusivityIndexes(t *testing.T) {
	all := strings.Join(flattenMigrations(), "\n")

	// One partial unique index per sub-entity table backs the single-primary
	// invariant at the storage layer.
	for _, table := range []string{"addresses", "emails", "phones"} {
		assert.Contains(t, all, "uq_"+table+"_primary")
		assert.Contains(t, all, "ON "+table+"(entity_type, entity_id) WHERE is_primary")
	}
}

func TestMigrations_SoftDeleteColumns(t *testing.T) {
	all := strings.Join(flattenMigrations(), "\n")

	assert.Contains(t, all, "CREATE TABLE companies")
	assert.Contains(t, all, "CREATE TABLE contacts")
	assert.Contains(t, all, "is_deleted BOOLEAN NOT NULL DEFAULT FALSE")
}

func flattenMigrations() []string {
	var out []string
	for _, group := range migrations {
		out = append(out, group...)
	}
	return out
}
