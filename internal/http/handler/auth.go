package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"notely/internal/auth"
	"notely/internal/user"
)

type userService interface {
	Create(ctx context.Context, in user.CreateInput) (user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type signer interface {
	SignIn(ctx context.Context, email, password string) (auth.Token, error)
}

type UserHandler struct {
	Users userService
	Log   zerolog.Logger
}

type createUserReq struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	if err := validateStruct(req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	u, err := h.Users.Create(r.Context(), user.CreateInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, err := caller(r)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	u, err := h.Users.FindByID(r.Context(), uid)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type AuthHandler struct {
	Auth signer
	Log  zerolog.Logger
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}
	if err := validateStruct(req); err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	tok, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, r, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, tok)
}
