package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/talentdesk/talentdesk/internal/db"
	"github.com/talentdesk/talentdesk/internal/types"
)

// requireParent verifies that the owning company or contact exists and is
// not soft-deleted before a sub-entity operation proceeds.
func (s *Server) requireParent(r *http.Request, entityType string, id uuid.UUID) error {
	var live bool
	var err error
	switch entityType {
	case db.EntityTypeCompany:
		live, err = s.db.CompanyIsLive(r.Context(), id)
	case db.EntityTypeContact:
		live, err = s.db.ContactIsLive(r.Context(), id)
	}
	if err != nil {
		return err
	}
	if !live {
		return &ErrNotFound{Resource: entityType, ID: id}
	}
	return nil
}

// handleListAddresses lists the addresses attached to a parent entity,
// primary first.
func (s *Server) handleListAddresses(entityType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathID(r)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if err := s.requireParent(r, entityType, id); err != nil {
			s.errorResponse(w, err)
			return
		}

		addresses, err := s.db.ListAddresses(r.Context(), entityType, id)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if addresses == nil {
			addresses = []db.Address{}
		}
		s.dataResponse(w, http.StatusOK, addresses)
	}
}

// handleCreateAddress attaches an address to a parent entity
func (s *Server) handleCreateAddress(entityType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathID(r)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if err := s.requireParent(r, entityType, id); err != nil {
			s.errorResponse(w, err)
			return
		}

		var req types.CreateAddressRequest
		if err := decodeBody(r, &req); err != nil {
			s.errorResponse(w, err)
			return
		}
		if err := req.Validate(); err != nil {
			s.errorResponse(w, validationError(err))
			return
		}

		address, err := s.db.CreateAddress(r.Context(), req.ToInput(entityType, id))
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		s.dataResponse(w, http.StatusCreated, address)
	}
}

// handleUpdateAddress applies a partial update to an address
func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.UpdateAddressRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}

	address, err := s.db.UpdateAddress(r.Context(), id, req.ToInput())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if address == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "address", ID: id})
		return
	}
	s.dataResponse(w, http.StatusOK, address)
}

// handleDeleteAddress hard-deletes an address
func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	deleted, err := s.db.DeleteAddress(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, &ErrNotFound{Resource: "address", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListEmails lists the emails attached to a parent entity
func (s *Server) handleListEmails(entityType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathID(r)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if err := s.requireParent(r, entityType, id); err != nil {
			s.errorResponse(w, err)
			return
		}

		emails, err := s.db.ListEmails(r.Context(), entityType, id)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if emails == nil {
			emails = []db.Email{}
		}
		s.dataResponse(w, http.StatusOK, emails)
	}
}

// handleCreateEmail attaches an email address to a parent entity
func (s *Server) handleCreateEmail(entityType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathID(r)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if err := s.requireParent(r, entityType, id); err != nil {
			s.errorResponse(w, err)
			return
		}

		var req types.CreateEmailRequest
		if err := decodeBody(r, &req); err != nil {
			s.errorResponse(w, err)
			return
		}
		if err := req.Validate(); err != nil {
			s.errorResponse(w, validationError(err))
			return
		}

		email, err := s.db.CreateEmail(r.Context(), req.ToInput(entityType, id))
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		s.dataResponse(w, http.StatusCreated, email)
	}
}

// handleUpdateEmail applies a partial update to an email
func (s *Server) handleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.UpdateEmailRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}

	email, err := s.db.UpdateEmail(r.Context(), id, req.ToInput())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if email == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "email", ID: id})
		return
	}
	s.dataResponse(w, http.StatusOK, email)
}

// handleDeleteEmail hard-deletes an email. No sibling is promoted when the
// primary is removed.
func (s *Server) handleDeleteEmail(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	deleted, err := s.db.DeleteEmail(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, &ErrNotFound{Resource: "email", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListPhones lists the phone numbers attached to a parent entity
func (s *Server) handleListPhones(entityType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathID(r)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if err := s.requireParent(r, entityType, id); err != nil {
			s.errorResponse(w, err)
			return
		}

		phones, err := s.db.ListPhones(r.Context(), entityType, id)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if phones == nil {
			phones = []db.Phone{}
		}
		s.dataResponse(w, http.StatusOK, phones)
	}
}

// handleCreatePhone attaches a phone number to a parent entity
func (s *Server) handleCreatePhone(entityType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathID(r)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if err := s.requireParent(r, entityType, id); err != nil {
			s.errorResponse(w, err)
			return
		}

		var req types.CreatePhoneRequest
		if err := decodeBody(r, &req); err != nil {
			s.errorResponse(w, err)
			return
		}
		if err := req.Validate(); err != nil {
			s.errorResponse(w, validationError(err))
			return
		}

		phone, err := s.db.CreatePhone(r.Context(), req.ToInput(entityType, id))
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		s.dataResponse(w, http.StatusCreated, phone)
	}
}

// handleUpdatePhone applies a partial update to a phone number
func (s *Server) handleUpdatePhone(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.UpdatePhoneRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}

	phone, err := s.db.UpdatePhone(r.Context(), id, req.ToInput())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if phone == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "phone", ID: id})
		return
	}
	s.dataResponse(w, http.StatusOK, phone)
}

// handleDeletePhone hard-deletes a phone number
func (s *Server) handleDeletePhone(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	deleted, err := s.db.DeletePhone(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, &ErrNotFound{Resource: "phone", ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
