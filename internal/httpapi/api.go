package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"myrest.org/internal/auth"
	"myrest.org/internal/obs"
	"myrest.org/internal/resource"
)

// ReadyProbe reports backend readiness, typically a database ping.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options wires the API's collaborators and tunables.
type Options struct {
	Store      resource.Store
	Authorizer *auth.Authorizer
	Sessions   *auth.Service
	ReadyProbe ReadyProbe
	Version    string

	DefaultPageSize int
	MaxPageSize     int
	MaxBodyBytes    int64
	RateBurst       int
	RateRPS         float64
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	store      resource.Store
	authorizer *auth.Authorizer
	sessions   *auth.Service
	readyProbe ReadyProbe
	version    string

	defaultPageSize int
	maxPageSize     int
	maxBodyBytes    int64
	rateBurst       int
	rateRPS         float64

	resources map[string]resourceEndpoint
}

// New builds the HTTP layer with every route registered.
func New(opts Options) *API {
	a := &API{
		mux:             http.NewServeMux(),
		store:           opts.Store,
		authorizer:      opts.Authorizer,
		sessions:        opts.Sessions,
		readyProbe:      opts.ReadyProbe,
		version:         opts.Version,
		defaultPageSize: opts.DefaultPageSize,
		maxPageSize:     opts.MaxPageSize,
		maxBodyBytes:    opts.MaxBodyBytes,
		rateBurst:       opts.RateBurst,
		rateRPS:         opts.RateRPS,
	}
	if a.defaultPageSize < 1 {
		a.defaultPageSize = 25
	}
	if a.maxPageSize < a.defaultPageSize {
		a.maxPageSize = 250
	}
	if a.maxBodyBytes < 1 {
		a.maxBodyBytes = 1 << 20
	}
	if a.rateBurst < 1 {
		a.rateBurst = 100
	}
	if a.rateRPS <= 0 {
		a.rateRPS = 50
	}
	a.resources = registerResources(a.store)

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/version", a.Version)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/auth/login", a.handleLogin)
	a.mux.HandleFunc("/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/auth/status", a.handleStatus)
	a.mux.HandleFunc("/auth/refresh", a.handleRefresh)

	a.mux.HandleFunc("/account/password-reset-token", a.handlePasswordResetToken)
	a.mux.HandleFunc("/account/password-reset", a.handlePasswordReset)

	a.mux.HandleFunc("/resources/", a.handleResources)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = RateLimit(h, a.rateBurst, a.rateRPS)
	h = LoggingJSON(h)
	h = RequestID(h)
	h = SecurityHeaders(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "myrest-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "myrest-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// handleResources routes /resources/<name> and /resources/<name>/<id>.
func (a *API) handleResources(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/resources/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")
	endpoint, ok := a.resources[parts[0]]
	if !ok {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch len(parts) {
	case 1:
		endpoint.collection(a, w, r)
	case 2:
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			writeError(w, r, http.StatusNotFound, "resource not found")
			return
		}
		endpoint.item(a, w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}
