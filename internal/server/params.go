package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/talentdesk/talentdesk/internal/db"
)

// parseListParams parses the shared list query parameters. Malformed values
// reject the whole request rather than degrading to defaults.
func parseListParams(r *http.Request, sortFields, includes []string) (db.ListParams, error) {
	q := r.URL.Query()
	p := db.ListParams{
		Query:     q.Get("q"),
		SortField: db.DefaultSortField,
		SortDesc:  true,
		Limit:     db.DefaultListLimit,
	}

	if raw := q.Get("sort"); raw != "" {
		field, desc, err := parseSort(raw, sortFields)
		if err != nil {
			return p, err
		}
		p.SortField = field
		p.SortDesc = desc
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return p, badRequest("limit", "must be an integer")
		}
		if limit < 1 || limit > db.MaxListLimit {
			return p, badRequest("limit", "must be between 1 and "+strconv.Itoa(db.MaxListLimit))
		}
		p.Limit = limit
	}

	if raw := q.Get("cursor"); raw != "" {
		if p.SortField != db.DefaultSortField {
			return p, badRequest("cursor", "cannot be combined with a sort field other than "+db.DefaultSortField)
		}
		cursor, err := db.DecodeCursor(raw)
		if err != nil {
			return p, badRequest("cursor", "is not a valid cursor")
		}
		p.Cursor = &cursor
	}

	if raw := q.Get("includeDeleted"); raw != "" {
		includeDeleted, err := strconv.ParseBool(raw)
		if err != nil {
			return p, badRequest("includeDeleted", "must be a boolean")
		}
		p.IncludeDeleted = includeDeleted
	}

	if raw := q.Get("include"); raw != "" {
		for _, rel := range strings.Split(raw, ",") {
			rel = strings.TrimSpace(rel)
			if rel == "" {
				continue
			}
			if !containsString(includes, rel) {
				return p, badRequest("include", "unknown relation: "+rel)
			}
			p.Include = append(p.Include, rel)
		}
	}

	return p, nil
}

// parseSort splits a "field:direction" sort expression and checks the field
// against the entity's whitelist. A bare field sorts descending.
func parseSort(raw string, sortFields []string) (field string, desc bool, err error) {
	field = raw
	desc = true
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		field = raw[:i]
		switch raw[i+1:] {
		case "asc":
			desc = false
		case "desc":
			desc = true
		default:
			return "", false, badRequest("sort", "direction must be asc or desc")
		}
	}
	if !containsString(sortFields, field) {
		return "", false, badRequest("sort", "cannot sort by "+field)
	}
	return field, desc, nil
}

// parseInclude parses the include parameter for single-resource reads.
func parseInclude(r *http.Request, includes []string) ([]string, error) {
	raw := r.URL.Query().Get("include")
	if raw == "" {
		return nil, nil
	}
	var out []string
	for _, rel := range strings.Split(raw, ",") {
		rel = strings.TrimSpace(rel)
		if rel == "" {
			continue
		}
		if !containsString(includes, rel) {
			return nil, badRequest("include", "unknown relation: "+rel)
		}
		out = append(out, rel)
	}
	return out, nil
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
