package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talentdesk/talentdesk/internal/db"
)

func testDefs() map[string]db.FieldDefinition {
	return map[string]db.FieldDefinition{
		"tier":       {Key: "tier", FieldType: db.FieldTypeSelect, Options: []string{"gold", "silver"}},
		"skills":     {Key: "skills", FieldType: db.FieldTypeMultiSelect, Options: []string{"go", "sql"}},
		"headcount":  {Key: "headcount", FieldType: db.FieldTypeNumber},
		"partner":    {Key: "partner", FieldType: db.FieldTypeBoolean},
		"notes":      {Key: "notes", FieldType: db.FieldTypeText},
		"first_deal": {Key: "first_deal", FieldType: db.FieldTypeDate},
	}
}

func TestValidateCustomFields(t *testing.T) {
	tests := []struct {
		name      string
		fields    map[string]any
		wantField string // empty means valid
	}{
		{name: "empty payload", fields: map[string]any{}},
		{
			name: "all types valid",
			fields: map[string]any{
				"tier":       "gold",
				"skills":     []any{"go", "sql"},
				"headcount":  float64(42),
				"partner":    true,
				"notes":      "met at conference",
				"first_deal": "2024-02-29",
			},
		},
		{name: "null clears a field", fields: map[string]any{"tier": nil}},
		{name: "unknown key", fields: map[string]any{"mystery": "x"}, wantField: "customFields.mystery"},
		{name: "select outside options", fields: map[string]any{"tier": "bronze"}, wantField: "customFields.tier"},
		{name: "select wrong type", fields: map[string]any{"tier": 3}, wantField: "customFields.tier"},
		{name: "multiselect outside options", fields: map[string]any{"skills": []any{"go", "cobol"}}, wantField: "customFields.skills"},
		{name: "multiselect not an array", fields: map[string]any{"skills": "go"}, wantField: "customFields.skills"},
		{name: "number as string", fields: map[string]any{"headcount": "42"}, wantField: "customFields.headcount"},
		{name: "boolean as number", fields: map[string]any{"partner": 1}, wantField: "customFields.partner"},
		{name: "date malformed", fields: map[string]any{"first_deal": "02/29/2024"}, wantField: "customFields.first_deal"},
		{name: "text as number", fields: map[string]any{"notes": 5}, wantField: "customFields.notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCustomFields(tt.fields, testDefs())
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			fields := make([]string, len(errs))
			for i, fe := range errs {
				fields[i] = fe.Field
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateCustomFields_ReportsEveryBadKey(t *testing.T) {
	errs := ValidateCustomFields(map[string]any{
		"mystery": "x",
		"tier":    "bronze",
	}, testDefs())
	assert.Len(t, errs, 2)
}
