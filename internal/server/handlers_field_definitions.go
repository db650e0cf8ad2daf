package server

import (
	"errors"
	"net/http"

	"github.com/talentdesk/talentdesk/internal/db"
	"github.com/talentdesk/talentdesk/internal/types"
)

// handleListFieldDefinitions lists the custom field registry, optionally
// filtered by entity type.
func (s *Server) handleListFieldDefinitions(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entityType")
	if entityType != "" && entityType != db.EntityTypeCompany && entityType != db.EntityTypeContact {
		s.errorResponse(w, badRequest("entityType", "must be company or contact"))
		return
	}

	defs, err := s.db.ListFieldDefinitions(r.Context(), entityType)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if defs == nil {
		defs = []db.FieldDefinition{}
	}
	s.dataResponse(w, http.StatusOK, defs)
}

// handleCreateFieldDefinition registers a custom field definition
func (s *Server) handleCreateFieldDefinition(w http.ResponseWriter, r *http.Request) {
	var req types.CreateFieldDefinitionRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}

	def, err := s.db.CreateFieldDefinition(r.Context(), req.ToInput())
	if err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			s.errorResponse(w, &ErrConflict{Message: "field definition key already exists for this entity type"})
			return
		}
		s.errorResponse(w, err)
		return
	}

	s.dataResponse(w, http.StatusCreated, def)
}

// handleGetFieldDefinition retrieves a field definition by ID
func (s *Server) handleGetFieldDefinition(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	def, err := s.db.GetFieldDefinitionByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if def == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "field definition", ID: id})
		return
	}
	s.dataResponse(w, http.StatusOK, def)
}

// handleUpdateFieldDefinition applies a partial update to a field
// definition. Key, entity type and field type are immutable.
func (s *Server) handleUpdateFieldDefinition(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.UpdateFieldDefinitionRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}

	def, err := s.db.UpdateFieldDefinition(r.Context(), id, req.ToInput())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if def == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "field definition", ID: id})
		return
	}
	s.dataResponse(w, http.StatusOK, def)
}

// handleDeleteFieldDefinition hard-deletes a field definition. Values
// already stored under the key are left untouched.
func (s *Server) handleDeleteFieldDefinition(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	deleted, err := s.db.DeleteFieldDefinition(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, &ErrNotFound{Resource: "field definition", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
