package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/talentdesk/talentdesk/internal/db"
	"github.com/talentdesk/talentdesk/internal/types"
)

// listMeta is the pagination metadata attached to every list response.
type listMeta struct {
	Count   int  `json:"count"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
}

type listLinks struct {
	Next *string `json:"next"`
}

type listEnvelope struct {
	Data  any       `json:"data"`
	Meta  listMeta  `json:"meta"`
	Links listLinks `json:"links"`
}

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Errors  []types.FieldError `json:"errors,omitempty"`
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// dataResponse wraps a single resource in the data envelope
func (s *Server) dataResponse(w http.ResponseWriter, status int, data any) {
	s.jsonResponse(w, status, dataEnvelope{Data: data})
}

// listResponse wraps a page of results in the list envelope. The next link
// repeats the request's query string with the cursor replaced by the
// updatedAt of the last item on the page.
func listResponse[T any](s *Server, w http.ResponseWriter, r *http.Request, result *db.ListResult[T], lastUpdatedAt func(T) string) {
	items := result.Items
	if items == nil {
		items = []T{}
	}

	var next *string
	if result.HasNext && len(items) > 0 {
		link := nextLink(r.URL, lastUpdatedAt(items[len(items)-1]))
		next = &link
	}

	s.jsonResponse(w, http.StatusOK, listEnvelope{
		Data: items,
		Meta: listMeta{
			Count:   len(items),
			Total:   result.Total,
			HasNext: result.HasNext,
		},
		Links: listLinks{Next: next},
	})
}

// nextLink rebuilds the request URL with the given cursor value.
func nextLink(u *url.URL, cursor string) string {
	q := u.Query()
	q.Set("cursor", cursor)
	rebuilt := *u
	rebuilt.RawQuery = q.Encode()
	return rebuilt.RequestURI()
}

// errorResponse writes an error JSON response from a typed error. Internal
// errors are logged and masked with a generic message.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	body := errorBody{
		Error:   ErrorCode(err),
		Message: err.Error(),
	}

	if verr, ok := err.(*ErrValidation); ok {
		body.Errors = verr.Fields
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		body.Message = "internal server error"
	}

	s.jsonResponse(w, status, body)
}

// validationError wraps the result of a request Validate call into the
// error taxonomy.
func validationError(err error) error {
	if fields, ok := err.(types.ValidationErrors); ok {
		return &ErrValidation{Fields: fields}
	}
	return &ErrValidation{Fields: types.ValidationErrors{{Field: "", Message: err.Error()}}}
}

// badRequest builds a single-field validation error.
func badRequest(field, message string) error {
	return &ErrValidation{Fields: types.ValidationErrors{{Field: field, Message: message}}}
}
