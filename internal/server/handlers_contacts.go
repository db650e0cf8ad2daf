package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/talentdesk/talentdesk/internal/db"
	"github.com/talentdesk/talentdesk/internal/types"
)

// contactIncludes are the relations a contact read may eager-load.
var contactIncludes = []string{"addresses", "emails", "phones", "company"}

func parseContactFilters(r *http.Request) (db.ContactFilters, error) {
	q := r.URL.Query()
	f := db.ContactFilters{
		Seniority:      q.Get("seniority"),
		RecordStatus:   q.Get("recordStatus"),
		LifecycleStage: q.Get("lifecycleStage"),
	}

	if raw := q.Get("companyId"); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			return f, badRequest("companyId", "must be a valid UUID")
		}
		f.CompanyID = &companyID
	}
	if raw := q.Get("isCurrentEmployee"); raw != "" {
		current, err := strconv.ParseBool(raw)
		if err != nil {
			return f, badRequest("isCurrentEmployee", "must be a boolean")
		}
		f.IsCurrentEmployee = &current
	}

	return f, nil
}

// handleListContacts runs the list pipeline for contacts
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r, db.ContactSortFields(), contactIncludes)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	filters, err := parseContactFilters(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	result, err := s.db.ListContacts(r.Context(), params, filters)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	listResponse(s, w, r, result, func(c db.Contact) string {
		return db.EncodeCursor(c.UpdatedAt)
	})
}

// handleCreateContact creates a contact, optionally attached to a company
func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req types.CreateContactRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}
	if err := s.checkCustomFields(r, db.EntityTypeContact, req.CustomFields); err != nil {
		s.errorResponse(w, err)
		return
	}

	contact, err := s.db.CreateContact(r.Context(), req.ToInput())
	if err != nil {
		if errors.Is(err, db.ErrCompanyNotLive) {
			s.errorResponse(w, badRequest("companyId", "must reference an existing company"))
			return
		}
		s.errorResponse(w, err)
		return
	}

	s.dataResponse(w, http.StatusCreated, contact)
}

// handleGetContact retrieves a live contact by ID
func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	include, err := parseInclude(r, contactIncludes)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	contact, err := s.db.GetContactByID(r.Context(), id, include...)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if contact == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "contact", ID: id})
		return
	}

	s.dataResponse(w, http.StatusOK, contact)
}

// handleUpdateContact applies a partial update to a live contact
func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.UpdateContactRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}
	if err := s.checkCustomFields(r, db.EntityTypeContact, req.CustomFields); err != nil {
		s.errorResponse(w, err)
		return
	}

	contact, err := s.db.UpdateContact(r.Context(), id, req.ToInput())
	if err != nil {
		if errors.Is(err, db.ErrCompanyNotLive) {
			s.errorResponse(w, badRequest("companyId", "must reference an existing company"))
			return
		}
		s.errorResponse(w, err)
		return
	}
	if contact == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "contact", ID: id})
		return
	}

	s.dataResponse(w, http.StatusOK, contact)
}

// handleDeleteContact soft-deletes a contact
func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	deleted, err := s.db.SoftDeleteContact(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, &ErrNotFound{Resource: "contact", ID: id})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
