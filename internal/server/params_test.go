package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentdesk/talentdesk/internal/db"
)

func TestParseSort(t *testing.T) {
	fields := []string{"name", "createdAt", "updatedAt"}

	tests := []struct {
		name     string
		raw      string
		wantErr  bool
		wantCol  string
		wantDesc bool
	}{
		{name: "bare field descends", raw: "name", wantCol: "name", wantDesc: true},
		{name: "explicit desc", raw: "name:desc", wantCol: "name", wantDesc: true},
		{name: "explicit asc", raw: "updatedAt:asc", wantCol: "updatedAt", wantDesc: false},
		{name: "unknown field", raw: "foundedYear", wantErr: true},
		{name: "unknown direction", raw: "name:sideways", wantErr: true},
		{name: "column injection", raw: "name; DROP TABLE companies", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, desc, err := parseSort(tt.raw, fields)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 400, HTTPStatus(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCol, field)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestParseListParams_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/companies", nil)

	p, err := parseListParams(r, db.CompanySortFields(), companyIncludes)
	require.NoError(t, err)
	assert.Equal(t, db.DefaultSortField, p.SortField)
	assert.True(t, p.SortDesc)
	assert.Equal(t, db.DefaultListLimit, p.Limit)
	assert.Nil(t, p.Cursor)
	assert.False(t, p.IncludeDeleted)
	assert.Empty(t, p.Include)
}

func TestParseListParams_Limit(t *testing.T) {
	tests := []struct {
		name    string
		limit   string
		want    int
		wantErr bool
	}{
		{name: "in range", limit: "50", want: 50},
		{name: "minimum", limit: "1", want: 1},
		{name: "maximum", limit: "100", want: 100},
		{name: "zero", limit: "0", wantErr: true},
		{name: "over maximum", limit: "101", wantErr: true},
		{name: "negative", limit: "-5", wantErr: true},
		{name: "not a number", limit: "lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/companies?limit="+tt.limit, nil)
			p, err := parseListParams(r, db.CompanySortFields(), companyIncludes)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Limit)
		})
	}
}

func TestParseListParams_Cursor(t *testing.T) {
	cursor := db.EncodeCursor(mustParseTime(t, "2026-01-02T15:04:05Z"))

	r := httptest.NewRequest("GET", "/api/companies?cursor="+cursor, nil)
	p, err := parseListParams(r, db.CompanySortFields(), companyIncludes)
	require.NoError(t, err)
	require.NotNil(t, p.Cursor)

	// Garbage cursor is rejected
	r = httptest.NewRequest("GET", "/api/companies?cursor=garbage!", nil)
	_, err = parseListParams(r, db.CompanySortFields(), companyIncludes)
	assert.Error(t, err)

	// A cursor only paginates the default updatedAt ordering
	r = httptest.NewRequest("GET", "/api/companies?cursor="+cursor+"&sort=name", nil)
	_, err = parseListParams(r, db.CompanySortFields(), companyIncludes)
	require.Error(t, err)
	assert.Equal(t, 400, HTTPStatus(err))

	r = httptest.NewRequest("GET", "/api/companies?cursor="+cursor+"&sort=updatedAt:desc", nil)
	_, err = parseListParams(r, db.CompanySortFields(), companyIncludes)
	assert.NoError(t, err)

	// Ascending updatedAt walks work too; the page boundary follows the
	// sort direction in the store.
	r = httptest.NewRequest("GET", "/api/companies?cursor="+cursor+"&sort=updatedAt:asc", nil)
	p, err = parseListParams(r, db.CompanySortFields(), companyIncludes)
	require.NoError(t, err)
	assert.False(t, p.SortDesc)
	require.NotNil(t, p.Cursor)
}

func TestParseListParams_IncludeDeleted(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/companies?includeDeleted=true", nil)
	p, err := parseListParams(r, db.CompanySortFields(), companyIncludes)
	require.NoError(t, err)
	assert.True(t, p.IncludeDeleted)

	r = httptest.NewRequest("GET", "/api/companies?includeDeleted=maybe", nil)
	_, err = parseListParams(r, db.CompanySortFields(), companyIncludes)
	assert.Error(t, err)
}

func TestParseListParams_Include(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/companies?include=emails,contacts", nil)
	p, err := parseListParams(r, db.CompanySortFields(), companyIncludes)
	require.NoError(t, err)
	assert.Equal(t, []string{"emails", "contacts"}, p.Include)

	r = httptest.NewRequest("GET", "/api/companies?include=emails,deals", nil)
	_, err = parseListParams(r, db.CompanySortFields(), companyIncludes)
	assert.Error(t, err)

	// "company" is a contact relation, not a company one
	r = httptest.NewRequest("GET", "/api/companies?include=company", nil)
	_, err = parseListParams(r, db.CompanySortFields(), companyIncludes)
	assert.Error(t, err)

	r = httptest.NewRequest("GET", "/api/contacts?include=company", nil)
	p, err = parseListParams(r, db.ContactSortFields(), contactIncludes)
	require.NoError(t, err)
	assert.Equal(t, []string{"company"}, p.Include)
}
