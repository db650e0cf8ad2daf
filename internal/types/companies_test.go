package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestCreateCompanyRequest_Validation(t *testing.T) {
	tests := []struct {
		name      string
		request   CreateCompanyRequest
		wantValid bool
		wantField string
	}{
		{
			name:      "valid minimal request",
			request:   CreateCompanyRequest{Name: "Acme Inc"},
			wantValid: true,
		},
		{
			name: "valid full request",
			request: CreateCompanyRequest{
				Name:               "Acme Inc",
				LegalName:          strptr("Acme Incorporated"),
				WebsiteURL:         strptr("https://acme.test"),
				Industry:           strptr("technology"),
				CompanyType:        strptr("private"),
				EmployeeCountRange: strptr("11-50"),
				FoundedYear:        intptr(1999),
				EmailDomains:       []string{"acme.test"},
				LifecycleStage:     strptr("prospect"),
			},
			wantValid: true,
		},
		{
			name:      "missing name",
			request:   CreateCompanyRequest{},
			wantValid: false,
			wantField: "name",
		},
		{
			name:      "bad website URL",
			request:   CreateCompanyRequest{Name: "Acme", WebsiteURL: strptr("not a url")},
			wantValid: false,
			wantField: "websiteUrl",
		},
		{
			name:      "unknown industry",
			request:   CreateCompanyRequest{Name: "Acme", Industry: strptr("alchemy")},
			wantValid: false,
			wantField: "industry",
		},
		{
			name:      "unknown headcount bucket",
			request:   CreateCompanyRequest{Name: "Acme", EmployeeCountRange: strptr("12-34")},
			wantValid: false,
			wantField: "employeeCountRange",
		},
		{
			name:      "founded year too old",
			request:   CreateCompanyRequest{Name: "Acme", FoundedYear: intptr(1500)},
			wantValid: false,
			wantField: "foundedYear",
		},
		{
			name:      "founded year in the future",
			request:   CreateCompanyRequest{Name: "Acme", FoundedYear: intptr(time.Now().Year() + 1)},
			wantValid: false,
			wantField: "foundedYear",
		},
		{
			name:      "bad email domain",
			request:   CreateCompanyRequest{Name: "Acme", EmailDomains: []string{"acme.test", "not a domain"}},
			wantValid: false,
			wantField: "emailDomains[1]",
		},
		{
			name:      "unknown record status",
			request:   CreateCompanyRequest{Name: "Acme", RecordStatus: strptr("paused")},
			wantValid: false,
			wantField: "recordStatus",
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
			verrs, ok := err.(ValidationErrors)
			require.True(t, ok, "expected ValidationErrors, got %T", err)
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Field
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestCreateCompanyRequest_ReportsAllViolations(t *testing.T) {
	req := CreateCompanyRequest{
		WebsiteURL: strptr("nope"),
		Industry:   strptr("alchemy"),
	}

	err := req.Validate()
	require.Error(t, err)
	verrs := err.(ValidationErrors)
	assert.GreaterOrEqual(t, len(verrs), 3, "missing name, bad URL and bad industry all reported")
}

func TestUpdateCompanyRequest_EmptyIsValid(t *testing.T) {
	req := UpdateCompanyRequest{}
	assert.NoError(t, req.Validate())
}

func TestCompanyRequest_ToInput(t *testing.T) {
	req := CreateCompanyRequest{
		Name:         "Acme",
		Industry:     strptr("finance"),
		EmailDomains: []string{"acme.test"},
		CustomFields: map[string]any{"tier": "gold"},
	}

	input := req.ToInput()
	assert.Equal(t, "Acme", input.Name)
	require.NotNil(t, input.Industry)
	assert.Equal(t, "finance", *input.Industry)
	assert.Equal(t, []string{"acme.test"}, input.EmailDomains)
	assert.Equal(t, "gold", input.CustomFields["tier"])
}
