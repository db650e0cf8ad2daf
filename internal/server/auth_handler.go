package server

import (
	"net/http"

	"github.com/talentdesk/talentdesk/internal/server/middleware"
	"github.com/talentdesk/talentdesk/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	server      *Server
	userService *UserService
	jwtService  *JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(server *Server, userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		server:      server,
		userService: userService,
		jwtService:  jwtService,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		h.server.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.server.errorResponse(w, validationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.server.errorResponse(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.server.errorResponse(w, err)
		return
	}

	h.server.dataResponse(w, http.StatusCreated, types.LoginResponse{User: user, Token: token})
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		h.server.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.server.errorResponse(w, validationError(err))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.server.errorResponse(w, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.server.errorResponse(w, err)
		return
	}

	h.server.dataResponse(w, http.StatusOK, types.LoginResponse{User: user, Token: token})
}

// UpdatePassword handles password update requests for the authenticated user.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		h.server.errorResponse(w, &ErrInvalidCredentials{})
		return
	}

	var req types.UpdatePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		h.server.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.server.errorResponse(w, validationError(err))
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.server.errorResponse(w, err)
		return
	}

	h.server.dataResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}
