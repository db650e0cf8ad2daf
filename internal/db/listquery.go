package db

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// List pagination bounds
const (
	DefaultListLimit = 25
	MaxListLimit     = 100
)

// DefaultSortField is the field both list endpoints sort and paginate by
// unless told otherwise.
const DefaultSortField = "updatedAt"

// ListParams carries the shared list-query inputs for companies and contacts.
// Filters are entity-specific and supplied separately by each store method.
type ListParams struct {
	Query          string
	SortField      string
	SortDesc       bool
	Limit          int
	Cursor         *time.Time
	IncludeDeleted bool
	Include        []string
}

// ListResult is one page of a list query plus the metadata the envelope needs.
type ListResult[T any] struct {
	Items   []T
	Total   int
	HasNext bool
}

// EncodeCursor encodes the updated-at timestamp of the last item on a page as
// an opaque cursor string.
func EncodeCursor(t time.Time) string {
	return base64.RawURLEncoding.EncodeToString([]byte(t.Format(time.RFC3339Nano)))
}

// DecodeCursor decodes an opaque cursor back into a timestamp.
func DecodeCursor(s string) (time.Time, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed cursor: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed cursor: %w", err)
	}
	return t, nil
}

// listSpec describes how one entity's table participates in the shared
// list-query pipeline.
type listSpec struct {
	table string
	// sortColumns maps API sort field names to columns. Doubles as the
	// sort whitelist.
	sortColumns map[string]string
	// searchColumns are ILIKE targets for the free-text query.
	searchColumns []string
	// arraySearchColumns are TEXT[] columns matched by element containment.
	arraySearchColumns []string
}

// escapeLike escapes ILIKE pattern metacharacters so the free-text query
// matches as a literal substring.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// filter is one exact-match predicate, column already validated by the caller.
type filter struct {
	column string
	value  any
}

// sortColumn resolves an API sort field to a column, falling back to
// updated_at for unknown fields. Handlers reject unknown fields up front, so
// the fallback only guards direct store callers.
func (sp listSpec) sortColumn(field string) string {
	if col, ok := sp.sortColumns[field]; ok {
		return col
	}
	return "updated_at"
}

// buildListWhere assembles the WHERE clause shared by the page query and the
// filtered variants. Returns the clause (without the WHERE keyword), its
// arguments, and the next argument number.
func buildListWhere(sp listSpec, p ListParams, filters []filter) (string, []any, int) {
	conds := []string{}
	args := []any{}
	argNum := 1

	if !p.IncludeDeleted {
		conds = append(conds, "is_deleted = FALSE")
	}

	for _, f := range filters {
		conds = append(conds, fmt.Sprintf("%s = $%d", f.column, argNum))
		args = append(args, f.value)
		argNum++
	}

	if p.Query != "" {
		like := "%" + escapeLike(p.Query) + "%"
		ors := []string{}
		for _, col := range sp.searchColumns {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", col, argNum))
			args = append(args, like)
			argNum++
		}
		for _, col := range sp.arraySearchColumns {
			ors = append(ors, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM unnest(%s) AS el WHERE el ILIKE $%d)", col, argNum))
			args = append(args, like)
			argNum++
		}
		if len(ors) > 0 {
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if p.Cursor != nil {
		// The cursor is the last timestamp already served, so the page
		// boundary follows the sort direction.
		op := "<"
		if !p.SortDesc {
			op = ">"
		}
		conds = append(conds, fmt.Sprintf("updated_at %s $%d", op, argNum))
		args = append(args, *p.Cursor)
		argNum++
	}

	if len(conds) == 0 {
		conds = append(conds, "TRUE")
	}

	return strings.Join(conds, " AND "), args, argNum
}

// buildListQuery produces the page query. It fetches limit+1 rows so the
// caller can detect a next page without a second count query.
func buildListQuery(sel string, sp listSpec, p ListParams, filters []filter) (string, []any) {
	where, args, argNum := buildListWhere(sp, p, filters)

	dir := "ASC"
	if p.SortDesc {
		dir = "DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s %s LIMIT $%d",
		sel, sp.table, where, sp.sortColumn(p.SortField), dir, argNum)
	args = append(args, p.Limit+1)

	return query, args
}

// buildTotalQuery counts rows under the soft-delete condition only. The total
// reported by list endpoints reflects the corpus, not the filtered result set.
func buildTotalQuery(sp listSpec, p ListParams) string {
	if p.IncludeDeleted {
		return fmt.Sprintf("SELECT COUNT(*) FROM %s", sp.table)
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE is_deleted = FALSE", sp.table)
}
