package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/findnest/findnest/internal/auth"
	"github.com/findnest/findnest/internal/identity"
	"github.com/findnest/findnest/internal/service"
)

// AuthHandler exposes login and the current-user lookup. These routes are
// only registered when a JWT secret is configured.
type AuthHandler struct {
	authenticator identity.Authenticator
	tokens        *auth.TokenService
	users         *service.UserService
	logger        *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authenticator identity.Authenticator, tokens *auth.TokenService, users *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		tokens:        tokens,
		users:         users,
		logger:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// HandleLogin verifies credentials and issues an access token. Wrong email
// and wrong password are indistinguishable to the caller.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "bad_request", Message: "invalid JSON body",
		})
		return
	}

	userID, err := h.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", slog.String("email", req.Email))
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized", Message: "invalid email or password",
		})
		return
	}

	token, err := h.tokens.Generate(userID)
	if err != nil {
		h.logger.Error("token generation failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	h.logger.Info("user logged in", slog.String("userID", userID))
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// HandleMe returns the profile of the bearer-token user. Requires the
// RequireAuth middleware upstream.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized", Message: "valid authentication required",
		})
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
