package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)

	cursor := EncodeCursor(ts)
	assert.NotEmpty(t, cursor)
	assert.NotContains(t, cursor, ":") // opaque, not a bare timestamp

	decoded, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.True(t, ts.Equal(decoded))
}

func TestDecodeCursor_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "not base64", cursor: "!!!not-base64!!!"},
		{name: "base64 but not a timestamp", cursor: "aGVsbG8"},
		{name: "empty", cursor: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.cursor)
			assert.Error(t, err)
		})
	}
}

func TestSortColumn_Fallback(t *testing.T) {
	assert.Equal(t, "name", companyListSpec.sortColumn("name"))
	assert.Equal(t, "updated_at", companyListSpec.sortColumn("updatedAt"))
	assert.Equal(t, "updated_at", companyListSpec.sortColumn("no_such_field"))
	assert.Equal(t, "first_name", contactListSpec.sortColumn("firstName"))
}

func TestBuildListWhere_Defaults(t *testing.T) {
	where, args, argNum := buildListWhere(companyListSpec, ListParams{}, nil)

	assert.Equal(t, "is_deleted = FALSE", where)
	assert.Empty(t, args)
	assert.Equal(t, 1, argNum)
}

func TestBuildListWhere_IncludeDeletedOnly(t *testing.T) {
	where, args, _ := buildListWhere(companyListSpec, ListParams{IncludeDeleted: true}, nil)

	assert.Equal(t, "TRUE", where)
	assert.Empty(t, args)
}

func TestBuildListWhere_FiltersAndQuery(t *testing.T) {
	p := ListParams{Query: "acme"}
	filters := []filter{{column: "industry", value: "technology"}}

	where, args, _ := buildListWhere(companyListSpec, p, filters)

	assert.Contains(t, where, "is_deleted = FALSE")
	assert.Contains(t, where, "industry = $1")
	assert.Contains(t, where, "name ILIKE $2")
	assert.Contains(t, where, "legal_name ILIKE $3")
	assert.Contains(t, where, "unnest(email_domains)")
	// one filter arg plus one per search column
	wantArgs := 1 + len(companyListSpec.searchColumns) + len(companyListSpec.arraySearchColumns)
	assert.Len(t, args, wantArgs)
	assert.Equal(t, "%acme%", args[1])
}

func TestBuildListWhere_Cursor(t *testing.T) {
	cursor := time.Now()
	p := ListParams{Cursor: &cursor, SortDesc: true}

	where, args, _ := buildListWhere(companyListSpec, p, nil)

	assert.Contains(t, where, "updated_at < $1")
	require.Len(t, args, 1)
	assert.Equal(t, cursor, args[0])
}

func TestBuildListWhere_CursorAscending(t *testing.T) {
	cursor := time.Now()
	p := ListParams{Cursor: &cursor, SortDesc: false}

	where, _, _ := buildListWhere(companyListSpec, p, nil)

	// An ascending walk must move past the cursor, not back below it,
	// or every page would re-serve the oldest rows.
	assert.Contains(t, where, "updated_at > $1")
	assert.NotContains(t, where, "updated_at < $1")
}

func TestBuildListWhere_QueryEscapesPatternChars(t *testing.T) {
	p := ListParams{Query: `100%_do\ne`}

	_, args, _ := buildListWhere(companyListSpec, p, nil)

	require.NotEmpty(t, args)
	assert.Equal(t, `%100\%\_do\\ne%`, args[0])
}

func TestBuildListQuery(t *testing.T) {
	p := ListParams{SortField: "name", SortDesc: true, Limit: 25}

	query, args := buildListQuery(companyColumns, companyListSpec, p, nil)

	assert.Contains(t, query, "FROM companies")
	assert.Contains(t, query, "ORDER BY name DESC")
	assert.Contains(t, query, "LIMIT $1")
	require.Len(t, args, 1)
	assert.Equal(t, 26, args[len(args)-1]) // limit+1 for hasNext detection
}

func TestBuildListQuery_AscendingDefaultSort(t *testing.T) {
	p := ListParams{SortField: DefaultSortField, Limit: 10}

	query, _ := buildListQuery(contactColumns, contactListSpec, p, nil)

	assert.Contains(t, query, "FROM contacts")
	assert.Contains(t, query, "ORDER BY updated_at ASC")
}

func TestBuildTotalQuery(t *testing.T) {
	assert.Equal(t,
		"SELECT COUNT(*) FROM companies WHERE is_deleted = FALSE",
		buildTotalQuery(companyListSpec, ListParams{}))
	assert.Equal(t,
		"SELECT COUNT(*) FROM companies",
		buildTotalQuery(companyListSpec, ListParams{IncludeDeleted: true}))

	// The total never narrows with filters or search, only with the
	// soft-delete condition.
	withQuery := buildTotalQuery(companyListSpec, ListParams{Query: "acme"})
	assert.NotContains(t, withQuery, "ILIKE")
}

func TestSortFieldWhitelists(t *testing.T) {
	assert.ElementsMatch(t, []string{"name", "createdAt", "updatedAt"}, CompanySortFields())
	assert.ElementsMatch(t, []string{"firstName", "lastName", "createdAt", "updatedAt"}, ContactSortFields())
}
