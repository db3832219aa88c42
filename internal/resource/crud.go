package resource

import (
	"context"

	"myrest.org/internal/auth"
	"myrest.org/internal/query"
)

// Config describes one resource exposed through the generic CRUD
// orchestrator. Scope strings name the scope a client token needs per
// operation; an empty scope disables the operation for every caller.
type Config struct {
	Name             string
	ContextAttribute string

	CreateScope   string
	RetrieveScope string
	UpdateScope   string
	DeleteScope   string

	AllowShortLived bool
	OnlyShortLived  bool

	FilterFields []string
	SortFields   []string
	FieldKinds   map[string]query.FieldKind
}

// RetrieveParams carries the raw query parameters of a collection GET.
// PageSize and MaxPageSize are resolved by the transport layer before the
// call; RequestURL feeds the link relations.
type RetrieveParams struct {
	Filter      string
	Sort        string
	Page        int
	PageSize    int
	MaxPageSize int
	RequestURL  string
}

// RetrieveResult is the body of a collection GET.
type RetrieveResult[Out any] struct {
	Pagination *query.Pagination `json:"pagination"`
	Resources  []Out             `json:"resources"`

	// Links is rendered as the Link header, not in the body.
	Links []query.Link `json:"-"`
}

// DeletionResult is the body of a successful delete.
type DeletionResult struct {
	Deleted []int64 `json:"deleted"`
}

// CRUD orchestrates authorization, query parsing, pagination, and storage
// for one resource. M is the storage model, In the accepted input shape,
// Out the serialized output shape.
type CRUD[M, In, Out any] struct {
	cfg       Config
	store     Store
	fromInput func(In) M
	toOutput  func(M) Out
}

// NewCRUD wires a CRUD orchestrator for one resource.
func NewCRUD[M, In, Out any](cfg Config, store Store, fromInput func(In) M, toOutput func(M) Out) *CRUD[M, In, Out] {
	return &CRUD[M, In, Out]{cfg: cfg, store: store, fromInput: fromInput, toOutput: toOutput}
}

// Name returns the resource name used in URLs.
func (c *CRUD[M, In, Out]) Name() string {
	return c.cfg.Name
}

func (c *CRUD[M, In, Out]) authorize(r auth.ResolvedAuth, scope string) error {
	// OnlyShortLived overrides the scope check entirely: the resource is
	// never delegated to client tokens, so only the token class matters.
	if c.cfg.OnlyShortLived {
		return auth.ShortLivedOnly().Authorize(r)
	}
	var scopes []string
	if scope != "" {
		scopes = []string{scope}
	}
	return auth.Scoped(scopes, c.cfg.AllowShortLived).Authorize(r)
}

func (c *CRUD[M, In, Out]) manager(r auth.ResolvedAuth) (Manager[M], error) {
	return ManagerFor[M](c.store.For(r.User), c.cfg.ContextAttribute)
}

func idFilter(id int64) []query.Predicate {
	return []query.Predicate{{Field: "id", Op: query.OpEquals, Kind: query.KindInt, Int: id}}
}

// Create authorizes the request and inserts the given resources.
func (c *CRUD[M, In, Out]) Create(ctx context.Context, r auth.ResolvedAuth, inputs []In) ([]Out, error) {
	if err := c.authorize(r, c.cfg.CreateScope); err != nil {
		return nil, err
	}
	mgr, err := c.manager(r)
	if err != nil {
		return nil, err
	}
	items := make([]M, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, c.fromInput(in))
	}
	created, err := mgr.Create(ctx, items)
	if err != nil {
		return nil, err
	}
	out := make([]Out, 0, len(created))
	for _, item := range created {
		out = append(out, c.toOutput(item))
	}
	return out, nil
}

// Retrieve authorizes the request, parses the filter and sort expressions
// against the resource's allow lists, validates the page window against
// the matching row count, and returns one page with its link relations.
func (c *CRUD[M, In, Out]) Retrieve(ctx context.Context, r auth.ResolvedAuth, p RetrieveParams) (*RetrieveResult[Out], error) {
	if err := c.authorize(r, c.cfg.RetrieveScope); err != nil {
		return nil, err
	}
	preds, err := query.ParseFilter(p.Filter, c.cfg.FilterFields, c.cfg.FieldKinds)
	if err != nil {
		return nil, err
	}
	sort, err := query.ParseSort(p.Sort, c.cfg.SortFields, c.cfg.FieldKinds)
	if err != nil {
		return nil, err
	}
	mgr, err := c.manager(r)
	if err != nil {
		return nil, err
	}
	total, err := mgr.Count(ctx, preds)
	if err != nil {
		return nil, err
	}
	page, err := query.NewPagination(p.PageSize, p.Page, total, p.MaxPageSize)
	if err != nil {
		return nil, err
	}
	items, err := mgr.Retrieve(ctx, preds, sort, page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}
	out := make([]Out, 0, len(items))
	for _, item := range items {
		out = append(out, c.toOutput(item))
	}
	result := &RetrieveResult[Out]{Pagination: page, Resources: out}
	if p.RequestURL != "" {
		links, err := page.Links(p.RequestURL)
		if err != nil {
			return nil, err
		}
		result.Links = links
	}
	return result, nil
}

// RetrieveOne authorizes the request and returns the resource with the
// given id, or ErrNoResourcesFound when it does not exist or is owned by
// someone else.
func (c *CRUD[M, In, Out]) RetrieveOne(ctx context.Context, r auth.ResolvedAuth, id int64) (Out, error) {
	var zero Out
	if err := c.authorize(r, c.cfg.RetrieveScope); err != nil {
		return zero, err
	}
	mgr, err := c.manager(r)
	if err != nil {
		return zero, err
	}
	items, err := mgr.Retrieve(ctx, idFilter(id), nil, 0, 1)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNoResourcesFound
	}
	return c.toOutput(items[0]), nil
}

// Update authorizes the request and applies the input to the resource with
// the given id. An unknown id, like an id owned by someone else, reports
// ErrNoResourcesFound.
func (c *CRUD[M, In, Out]) Update(ctx context.Context, r auth.ResolvedAuth, id int64, input In) (Out, error) {
	var zero Out
	if err := c.authorize(r, c.cfg.UpdateScope); err != nil {
		return zero, err
	}
	mgr, err := c.manager(r)
	if err != nil {
		return zero, err
	}
	updated, err := mgr.Update(ctx, idFilter(id), c.fromInput(input))
	if err != nil {
		return zero, err
	}
	if len(updated) == 0 {
		return zero, ErrNoResourcesFound
	}
	return c.toOutput(updated[0]), nil
}

// Delete authorizes the request and removes the resource with the given
// id, reporting the removed ids.
func (c *CRUD[M, In, Out]) Delete(ctx context.Context, r auth.ResolvedAuth, id int64) (*DeletionResult, error) {
	if err := c.authorize(r, c.cfg.DeleteScope); err != nil {
		return nil, err
	}
	mgr, err := c.manager(r)
	if err != nil {
		return nil, err
	}
	deleted, err := mgr.Delete(ctx, idFilter(id))
	if err != nil {
		return nil, err
	}
	if len(deleted) == 0 {
		return nil, ErrNoResourcesFound
	}
	return &DeletionResult{Deleted: deleted}, nil
}
