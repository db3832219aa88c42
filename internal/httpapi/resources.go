package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"myrest.org/internal/audit"
	"myrest.org/internal/auth"
	"myrest.org/internal/query"
	"myrest.org/internal/resource"
)

// resourceEndpoint is one named resource mounted under /resources/.
type resourceEndpoint interface {
	collection(a *API, w http.ResponseWriter, r *http.Request)
	item(a *API, w http.ResponseWriter, r *http.Request, id int64)
}

// endpoint adapts a CRUD orchestrator to HTTP.
type endpoint[M, In, Out any] struct {
	crud *resource.CRUD[M, In, Out]
}

func (e *endpoint[M, In, Out]) collection(a *API, w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		e.retrieve(a, w, r)
	case http.MethodPost:
		e.create(a, w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (e *endpoint[M, In, Out]) item(a *API, w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		e.retrieveOne(a, w, r, id)
	case http.MethodPut:
		e.update(a, w, r, id)
	case http.MethodDelete:
		e.delete(a, w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (e *endpoint[M, In, Out]) retrieve(a *API, w http.ResponseWriter, r *http.Request) {
	res, ctx, ok := a.resolve(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page := 1
	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "page must be an integer")
			return
		}
		page = v
	}
	pageSize := a.defaultPageSize
	if raw := q.Get("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "page_size must be an integer")
			return
		}
		pageSize = v
	}

	result, err := e.crud.Retrieve(ctx, res, resource.RetrieveParams{
		Filter:      q.Get("filter"),
		Sort:        q.Get("sort"),
		Page:        page,
		PageSize:    pageSize,
		MaxPageSize: a.maxPageSize,
		RequestURL:  r.URL.String(),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if header := query.LinkHeader(result.Links); header != "" {
		w.Header().Set("Link", header)
	}
	writeJSON(w, http.StatusOK, result)
}

func (e *endpoint[M, In, Out]) retrieveOne(a *API, w http.ResponseWriter, r *http.Request, id int64) {
	res, ctx, ok := a.resolve(w, r)
	if !ok {
		return
	}
	item, err := e.crud.RetrieveOne(ctx, res, id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (e *endpoint[M, In, Out]) create(a *API, w http.ResponseWriter, r *http.Request) {
	res, ctx, ok := a.resolve(w, r)
	if !ok {
		return
	}
	inputs, err := decodeResourceInputs[In](w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := e.crud.Create(ctx, res, inputs)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(ctx, "resource.create", map[string]any{
		"resource": e.crud.Name(),
		"count":    len(created),
	})
	writeJSON(w, http.StatusCreated, created)
}

func (e *endpoint[M, In, Out]) update(a *API, w http.ResponseWriter, r *http.Request, id int64) {
	res, ctx, ok := a.resolve(w, r)
	if !ok {
		return
	}
	var input In
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := e.crud.Update(ctx, res, id, input)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(ctx, "resource.update", map[string]any{
		"resource": e.crud.Name(),
		"id":       id,
	})
	writeJSON(w, http.StatusOK, updated)
}

func (e *endpoint[M, In, Out]) delete(a *API, w http.ResponseWriter, r *http.Request, id int64) {
	res, ctx, ok := a.resolve(w, r)
	if !ok {
		return
	}
	result, err := e.crud.Delete(ctx, res, id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(ctx, "resource.delete", map[string]any{
		"resource": e.crud.Name(),
		"deleted":  result.Deleted,
	})
	writeJSON(w, http.StatusOK, result)
}

// resolve authenticates the request and returns a context carrying the
// user id for audit logging. Store failures end the request.
func (a *API) resolve(w http.ResponseWriter, r *http.Request) (auth.ResolvedAuth, context.Context, bool) {
	res, err := a.resolveAuth(r)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return auth.ResolvedAuth{}, nil, false
	}
	ctx := r.Context()
	if res.Present() {
		ctx = auth.WithUserID(ctx, res.User.ID)
	}
	return res, ctx, true
}

// decodeResourceInputs accepts either a single JSON object or an array of
// objects, matching what clients naturally send to a collection.
func decodeResourceInputs[In any](w http.ResponseWriter, r *http.Request) ([]In, error) {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []In
		if err := strictUnmarshal(trimmed, &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one In
	if err := strictUnmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return []In{one}, nil
}

func strictUnmarshal(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
