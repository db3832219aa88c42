package httpapi

import (
	"net/http"
	"strings"

	"myrest.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// extractBearerToken pulls the token out of an Authorization header. A
// missing or malformed header yields an empty token: the policy decides
// whether an unauthenticated request is acceptable.
func extractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return ""
	}
	return strings.TrimSpace(header[len(bearer):])
}

// resolveAuth resolves the request's bearer token. Only store failures are
// errors; an absent or invalid token resolves to the zero value.
func (a *API) resolveAuth(r *http.Request) (auth.ResolvedAuth, error) {
	token := extractBearerToken(r.Header.Get(authHeader))
	return a.authorizer.Resolve(r.Context(), token)
}
