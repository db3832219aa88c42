package httpapi

import (
	"net/http"

	"myrest.org/internal/audit"
	"myrest.org/internal/auth"
)

type resetTokenRequest struct {
	Password string `json:"password"`
}

type resetTokenResponse struct {
	ResetToken string `json:"reset_token"`
}

type passwordResetRequest struct {
	ResetToken string `json:"reset_token"`
	Password   string `json:"password"`
}

func (a *API) handlePasswordResetToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	res, ctx, ok := a.resolve(w, r)
	if !ok {
		return
	}
	if err := auth.ShortLivedOnly().Authorize(res); err != nil {
		handleDomainError(w, r, err)
		return
	}
	var req resetTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	token, err := a.sessions.CreateResetToken(res, req.Password)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(ctx, "account.reset_token_issued", nil)
	writeJSON(w, http.StatusOK, resetTokenResponse{ResetToken: token})
}

func (a *API) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	res, ctx, ok := a.resolve(w, r)
	if !ok {
		return
	}
	if err := auth.ShortLivedOnly().Authorize(res); err != nil {
		handleDomainError(w, r, err)
		return
	}
	var req passwordResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "password is required")
		return
	}
	if err := a.sessions.ResetPassword(ctx, res, req.ResetToken, req.Password); err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(ctx, "account.password_changed", nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
