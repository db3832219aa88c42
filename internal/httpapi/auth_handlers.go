package httpapi

import (
	"net/http"
	"time"

	"myrest.org/internal/audit"
	"myrest.org/internal/auth"
)

type loginRequest struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	SecondFactor *string `json:"second_factor,omitempty"`
	Title        string  `json:"title,omitempty"`
}

type tokenResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type statusResponse struct {
	TokenType string    `json:"token_type"`
	Title     string    `json:"title"`
	Created   time.Time `json:"created"`
	Expires   time.Time `json:"expires"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	res, _, ok := a.resolve(w, r)
	if !ok {
		return
	}
	// A caller inside a valid session cannot log in again.
	if err := auth.NoToken().Authorize(res); err != nil {
		handleDomainError(w, r, err)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	token, err := a.sessions.Login(r.Context(), auth.Credentials{
		Username:     req.Username,
		Password:     req.Password,
		SecondFactor: req.SecondFactor,
		Title:        req.Title,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	ctx := auth.WithUserID(r.Context(), token.UserID)
	_ = audit.LogEvent(ctx, "auth.login", map[string]any{
		"username": req.Username,
	})
	writeJSON(w, http.StatusOK, tokenResponse{Token: token.Token, Expires: token.Expires})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
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
	if err := a.sessions.Logout(ctx, res); err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(ctx, "auth.logout", nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	res, _, ok := a.resolve(w, r)
	if !ok {
		return
	}
	if err := auth.AnyValid().Authorize(res); err != nil {
		handleDomainError(w, r, err)
		return
	}
	tokenType := "long-lived"
	if res.Token.IsShortLived() {
		tokenType = "short-lived"
	}
	writeJSON(w, http.StatusOK, statusResponse{
		TokenType: tokenType,
		Title:     res.Token.Title,
		Created:   res.Token.Created,
		Expires:   res.Token.Expires,
	})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
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
	renew := r.URL.Query().Get("renew") == "true"
	token, err := a.sessions.Refresh(ctx, res, renew)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(ctx, "auth.refresh", map[string]any{
		"renewed": renew,
	})
	writeJSON(w, http.StatusOK, tokenResponse{Token: token.Token, Expires: token.Expires})
}
