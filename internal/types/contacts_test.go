package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContactRequest_Validation(t *testing.T) {
	tests := []struct {
		name      string
		request   CreateContactRequest
		wantValid bool
		wantField string
	}{
		{
			name:      "valid minimal request",
			request:   CreateContactRequest{FirstName: "Dana", LastName: "Reyes"},
			wantValid: true,
		},
		{
			name:      "missing last name",
			request:   CreateContactRequest{FirstName: "Dana"},
			wantValid: false,
			wantField: "lastName",
		},
		{
			name:      "unknown seniority",
			request:   CreateContactRequest{FirstName: "Dana", LastName: "Reyes", Seniority: strptr("intern")},
			wantValid: false,
			wantField: "seniority",
		},
		{
			name:      "malformed start date",
			request:   CreateContactRequest{FirstName: "Dana", LastName: "Reyes", StartDate: strptr("March 2020")},
			wantValid: false,
			wantField: "startDate",
		},
		{
			name: "end date before start date",
			request: CreateContactRequest{
				FirstName: "Dana",
				LastName:  "Reyes",
				StartDate: strptr("2022-06-01"),
				EndDate:   strptr("2021-01-01"),
			},
			wantValid: false,
			wantField: "endDate",
		},
		{
			name: "valid employment window",
			request: CreateContactRequest{
				FirstName: "Dana",
				LastName:  "Reyes",
				StartDate: strptr("2021-01-01"),
				EndDate:   strptr("2022-06-01"),
			},
			wantValid: true,
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

func TestCreateContactRequest_ToInput_ParsesDates(t *testing.T) {
	companyID := uuid.New()
	req := CreateContactRequest{
		FirstName: "Dana",
		LastName:  "Reyes",
		CompanyID: &companyID,
		StartDate: strptr("2021-03-15"),
	}

	input := req.ToInput()
	require.NotNil(t, input.StartDate)
	assert.Equal(t, 2021, input.StartDate.Year())
	assert.Nil(t, input.EndDate)
	assert.Equal(t, &companyID, input.CompanyID)
}

func TestUpdateContactRequest_CompanyNull(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantClear bool
		wantID    bool
	}{
		{name: "companyId absent", body: `{"title":"VP Sales"}`, wantClear: false},
		{name: "companyId null", body: `{"companyId":null}`, wantClear: true},
		{
			name:   "companyId set",
			body:   `{"companyId":"7f9c24e5-2e9a-4e5b-9f0a-1b2c3d4e5f60"}`,
			wantID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateContactRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			input := req.ToInput()
			assert.Equal(t, tt.wantClear, input.ClearCompany)
			if tt.wantID {
				require.NotNil(t, input.CompanyID)
			} else {
				assert.Nil(t, input.CompanyID)
			}
		})
	}
}
