package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/poamtrack/poamtrack-backend-go/internal/handler/http/response"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/jwt"
)

// AuthHandler defines the auth handler interface
type AuthHandler interface {
	Token(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	jwtService jwt.Service
	apiKey     string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtService jwt.Service, apiKey string) AuthHandler {
	return &authHandlerImpl{
		jwtService: jwtService,
		apiKey:     apiKey,
	}
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Token exchanges the configured API key for a JWT access token
func (h *authHandlerImpl) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		response.Unauthorized(w, "Invalid API key")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateAccessToken("operator")
	if err != nil {
		response.InternalServerError(w, "Failed to generate token")
		return
	}

	response.Success(w, tokenResponse{Token: token, ExpiresAt: expiresAt})
}
