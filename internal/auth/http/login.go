package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/emberline/staffauth/internal/auth/domain"
	"github.com/emberline/staffauth/internal/auth/service"
	"github.com/emberline/staffauth/pkg/httpx"
	"github.com/emberline/staffauth/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	SessionService *service.SessionService
}

type loginRequest struct {
	EmployeeCode string `json:"employee_code"`
	Pin          string `json:"pin"`
}

// tokenResponse is the wire shape for both login and refresh.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

func newTokenResponse(pair *domain.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body.")
		return
	}

	req.EmployeeCode = strings.TrimSpace(req.EmployeeCode)
	if req.EmployeeCode == "" || req.Pin == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "employee_code and pin are required.")
		return
	}

	pair, err := h.SessionService.Login(ctx, req.EmployeeCode, req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusForbidden, "invalid_credential",
				"The employee code or PIN is incorrect.")
		case errors.Is(err, service.ErrUnavailable):
			httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily_unavailable",
				"Login backend unavailable, retry later.")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Unexpected error.")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair))
}
