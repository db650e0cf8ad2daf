package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFieldDefinitionRequest_Validation(t *testing.T) {
	tests := []struct {
		name      string
		request   CreateFieldDefinitionRequest
		wantValid bool
		wantField string
	}{
		{
			name: "valid text field",
			request: CreateFieldDefinitionRequest{
				EntityType: "contact",
				Key:        "linkedin_handle",
				Label:      "LinkedIn Handle",
				FieldType:  "text",
			},
			wantValid: true,
		},
		{
			name: "valid select field",
			request: CreateFieldDefinitionRequest{
				EntityType: "company",
				Key:        "tier",
				Label:      "Tier",
				FieldType:  "select",
				Options:    []string{"gold", "silver"},
			},
			wantValid: true,
		},
		{
			name: "select without options",
			request: CreateFieldDefinitionRequest{
				EntityType: "company",
				Key:        "tier",
				Label:      "Tier",
				FieldType:  "select",
			},
			wantValid: false,
			wantField: "options",
		},
		{
			name: "multiselect without options",
			request: CreateFieldDefinitionRequest{
				EntityType: "contact",
				Key:        "skills",
				Label:      "Skills",
				FieldType:  "multiselect",
			},
			wantValid: false,
			wantField: "options",
		},
		{
			name: "options on a text field",
			request: CreateFieldDefinitionRequest{
				EntityType: "contact",
				Key:        "notes",
				Label:      "Notes",
				FieldType:  "text",
				Options:    []string{"a"},
			},
			wantValid: false,
			wantField: "options",
		},
		{
			name: "bad entity type",
			request: CreateFieldDefinitionRequest{
				EntityType: "deal",
				Key:        "stage",
				Label:      "Stage",
				FieldType:  "text",
			},
			wantValid: false,
			wantField: "entityType",
		},
		{
			name: "key not snake case",
			request: CreateFieldDefinitionRequest{
				EntityType: "company",
				Key:        "Tier Level",
				Label:      "Tier",
				FieldType:  "text",
			},
			wantValid: false,
			wantField: "key",
		},
		{
			name: "unknown field type",
			request: CreateFieldDefinitionRequest{
				EntityType: "company",
				Key:        "founded",
				Label:      "Founded",
				FieldType:  "timestamp",
			},
			wantValid: false,
			wantField: "fieldType",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantValid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			verrs := err.(ValidationErrors)
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Field
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestUpdateFieldDefinitionRequest_Validation(t *testing.T) {
	assert.NoError(t, (&UpdateFieldDefinitionRequest{}).Validate())

	empty := ""
	err := (&UpdateFieldDefinitionRequest{Label: &empty}).Validate()
	assert.Error(t, err)
}
