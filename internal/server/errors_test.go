package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/talentdesk/talentdesk/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{
			name: "validation",
			err:  &ErrValidation{Fields: types.ValidationErrors{{Field: "name", Message: "is required"}}},
			want: http.StatusBadRequest,
			code: "ValidationError",
		},
		{
			name: "not found",
			err:  &ErrNotFound{Resource: "company", ID: uuid.New()},
			want: http.StatusNotFound,
			code: "NotFoundError",
		},
		{
			name: "conflict",
			err:  &ErrConflict{Message: "duplicate key"},
			want: http.StatusConflict,
			code: "ConflictError",
		},
		{
			name: "email exists",
			err:  &ErrEmailAlreadyExists{Email: "a@b.test"},
			want: http.StatusConflict,
			code: "ConflictError",
		},
		{
			name: "invalid credentials",
			err:  &ErrInvalidCredentials{},
			want: http.StatusUnauthorized,
			code: "UnauthorizedError",
		},
		{
			name: "password mismatch",
			err:  &ErrPasswordMismatch{},
			want: http.StatusUnauthorized,
			code: "UnauthorizedError",
		},
		{
			name: "user not found",
			err:  &ErrUserNotFound{UserID: uuid.New()},
			want: http.StatusNotFound,
			code: "NotFoundError",
		},
		{
			name: "anything else",
			err:  errors.New("pool exhausted"),
			want: http.StatusInternalServerError,
			code: "InternalError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}
