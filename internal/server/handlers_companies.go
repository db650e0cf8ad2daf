package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/talentdesk/talentdesk/internal/db"
	"github.com/talentdesk/talentdesk/internal/types"
)

// companyIncludes are the relations a company read may eager-load.
var companyIncludes = []string{"addresses", "emails", "phones", "contacts"}

// decodeBody decodes a JSON request body into dst
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("", "request body must be valid JSON")
	}
	return nil
}

// parsePathID parses the {id} path segment as a UUID
func parsePathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, badRequest("id", "must be a valid UUID")
	}
	return id, nil
}

// checkCustomFields validates a customFields payload against the active
// definitions for the entity type.
func (s *Server) checkCustomFields(r *http.Request, entityType string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	defs, err := s.db.ActiveFieldDefinitions(r.Context(), entityType)
	if err != nil {
		return err
	}
	if errs := types.ValidateCustomFields(fields, defs); len(errs) > 0 {
		return &ErrValidation{Fields: errs}
	}
	return nil
}

// handleListCompanies runs the list pipeline for companies
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r, db.CompanySortFields(), companyIncludes)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	q := r.URL.Query()
	filters := db.CompanyFilters{
		Industry:           q.Get("industry"),
		CompanyType:        q.Get("companyType"),
		EmployeeCountRange: q.Get("employeeCountRange"),
		RecordStatus:       q.Get("recordStatus"),
		LifecycleStage:     q.Get("lifecycleStage"),
	}

	result, err := s.db.ListCompanies(r.Context(), params, filters)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	listResponse(s, w, r, result, func(c db.Company) string {
		return db.EncodeCursor(c.UpdatedAt)
	})
}

// handleCreateCompany creates a company
func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCompanyRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}
	if err := s.checkCustomFields(r, db.EntityTypeCompany, req.CustomFields); err != nil {
		s.errorResponse(w, err)
		return
	}

	company, err := s.db.CreateCompany(r.Context(), req.ToInput())
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.dataResponse(w, http.StatusCreated, company)
}

// handleGetCompany retrieves a live company by ID
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	include, err := parseInclude(r, companyIncludes)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	company, err := s.db.GetCompanyByID(r.Context(), id, include...)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if company == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "company", ID: id})
		return
	}

	s.dataResponse(w, http.StatusOK, company)
}

// handleUpdateCompany applies a partial update to a live company
func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.UpdateCompanyRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}
	if err := s.checkCustomFields(r, db.EntityTypeCompany, req.CustomFields); err != nil {
		s.errorResponse(w, err)
		return
	}

	company, err := s.db.UpdateCompany(r.Context(), id, req.ToInput())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if company == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "company", ID: id})
		return
	}

	s.dataResponse(w, http.StatusOK, company)
}

// handleDeleteCompany soft-deletes a company. Attached contacts and
// sub-entities are left in place.
func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	deleted, err := s.db.SoftDeleteCompany(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, &ErrNotFound{Resource: "company", ID: id})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
