package http

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/service"
)

const maxMultipartMemory = 10 << 20

// AuthService defines the operations required by the auth endpoints.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	// Auth performs the underlying authentication operations.
	Auth AuthService
	// Log is used for unexpected failures.
	Log *zap.Logger
}

// Register handles the multipart registration request: palm_image plus the
// email, username and password fields. On success it echoes the registered
// identity back to the client.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid multipart request"})
		return
	}
	palm, _, err := formFile(r, "palm_image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid palm image upload"})
		return
	}

	in := service.RegisterInput{
		Email:     r.FormValue("email"),
		Username:  r.FormValue("username"),
		Password:  r.FormValue("password"),
		PalmImage: palm,
	}
	if _, err := h.Auth.Register(r.Context(), in); err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Message  string `json:"message"`
		Email    string `json:"email"`
		Username string `json:"username"`
	}{
		Message:  "User registered successfully",
		Email:    in.Email,
		Username: in.Username,
	})
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles the JSON login request and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid request body"})
		return
	}

	token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
