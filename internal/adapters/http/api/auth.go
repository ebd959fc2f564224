package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/axioma/trendboard/internal/adapters/identity"
)

const maxCredentialsBody = 1 << 16

// AuthDependencies defines signup and login.
type AuthDependencies interface {
	Signup(ctx context.Context, username, password string) (identity.UserID, error)
	Login(ctx context.Context, username, password string) (identity.UserID, error)
}

// AuthHandler handles signup and login requests.
type AuthHandler struct {
	deps AuthDependencies
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(deps AuthDependencies) *AuthHandler {
	return &AuthHandler{deps: deps}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// HandleSignup handles POST /signup.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_signup"
	req, ok := decodeCredentials(w, r, op)
	if !ok {
		return
	}
	id, err := h.deps.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Message: "User registered successfully", UserID: string(id)})
}

// HandleLogin handles POST /login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_login"
	req, ok := decodeCredentials(w, r, op)
	if !ok {
		return
	}
	id, err := h.deps.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", UserID: string(id)})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request, op string) (credentialsRequest, bool) {
	var req credentialsRequest
	if !allowMethod(w, r, http.MethodPost) {
		return req, false
	}
	body := http.MaxBytesReader(w, r.Body, maxCredentialsBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return req, false
	}
	return req, true
}
