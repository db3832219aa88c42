package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"myrest.org/internal/auth"
	"myrest.org/internal/query"
)

// fieldValue is one comparable column value. null marks SQL-style absent
// values (nullable columns holding nil).
type fieldValue struct {
	kind query.FieldKind
	i    int64
	s    string
	null bool
}

func intValue(v int64) fieldValue          { return fieldValue{kind: query.KindInt, i: v} }
func strValue(v string) fieldValue         { return fieldValue{kind: query.KindString, s: v} }
func nullableInt(v *int64) fieldValue {
	if v == nil {
		return fieldValue{kind: query.KindInt, null: true}
	}
	return intValue(*v)
}
func nullableStr(v *string) fieldValue {
	if v == nil {
		return fieldValue{kind: query.KindString, null: true}
	}
	return strValue(*v)
}
func timeValue(t time.Time) fieldValue { return fieldValue{kind: query.KindInt, i: t.Unix()} }

func matchPredicate(p query.Predicate, fv fieldValue) bool {
	if p.IsNull {
		if p.Op == query.OpEquals {
			return fv.null
		}
		return !fv.null
	}
	if fv.null {
		// A concrete comparison against an absent value only succeeds
		// for the negated operators.
		return p.Op == query.OpNotEquals || p.Op == query.OpNotContains
	}
	switch p.Op {
	case query.OpEquals:
		if p.Kind == query.KindInt {
			return fv.i == p.Int
		}
		return fv.s == p.Str
	case query.OpNotEquals:
		if p.Kind == query.KindInt {
			return fv.i != p.Int
		}
		return fv.s != p.Str
	case query.OpLessThan:
		return fv.i < p.Int
	case query.OpLessOrEqual:
		return fv.i <= p.Int
	case query.OpGreaterThan:
		return fv.i > p.Int
	case query.OpGreaterOrEqual:
		return fv.i >= p.Int
	case query.OpContains:
		return strings.Contains(fv.s, p.Str)
	case query.OpNotContains:
		return !strings.Contains(fv.s, p.Str)
	}
	return false
}

func compareValues(a, b fieldValue) int {
	switch {
	case a.null && b.null:
		return 0
	case a.null:
		return -1
	case b.null:
		return 1
	}
	if a.kind == query.KindInt {
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		}
		return 0
	}
	return strings.Compare(a.s, b.s)
}

// manager is the shared in-memory implementation behind every resource
// type. The hooks adapt it to one table.
type manager[T any] struct {
	store *Store
	user  *auth.User

	table func() *[]T
	field func(T, string) (fieldValue, bool)
	id    func(T) int64
	owner func(T) int64
	// create stamps id, owner, and timestamps on a new row.
	create func(*T, int64, time.Time)
	// apply copies the mutable fields of src onto dst.
	apply func(dst *T, src T, now time.Time)
}

func (m *manager[T]) visible(row T) bool {
	if m.user == nil {
		return false
	}
	if m.user.Role == auth.RoleRoot {
		return true
	}
	return m.owner(row) == m.user.ID
}

func (m *manager[T]) matches(preds []query.Predicate, row T) bool {
	if !m.visible(row) {
		return false
	}
	for _, p := range preds {
		fv, ok := m.field(row, p.Field)
		if !ok || !matchPredicate(p, fv) {
			return false
		}
	}
	return true
}

func (m *manager[T]) Count(_ context.Context, preds []query.Predicate) (int, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	n := 0
	for _, row := range *m.table() {
		if m.matches(preds, row) {
			n++
		}
	}
	return n, nil
}

func (m *manager[T]) Retrieve(_ context.Context, preds []query.Predicate, keys []query.SortKey, offset, limit int) ([]T, error) {
	m.store.mu.RLock()
	var out []T
	for _, row := range *m.table() {
		if m.matches(preds, row) {
			out = append(out, row)
		}
	}
	m.store.mu.RUnlock()

	if len(keys) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, key := range keys {
				a, _ := m.field(out[i], key.Field)
				b, _ := m.field(out[j], key.Field)
				c := compareValues(a, b)
				if c == 0 {
					continue
				}
				if key.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *manager[T]) Create(_ context.Context, items []T) ([]T, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	now := m.store.now()
	created := make([]T, 0, len(items))
	for _, item := range items {
		m.create(&item, m.store.allocID(), now)
		*m.table() = append(*m.table(), item)
		created = append(created, item)
	}
	return created, nil
}

func (m *manager[T]) Update(_ context.Context, preds []query.Predicate, item T) ([]T, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	now := m.store.now()
	var updated []T
	table := m.table()
	for i := range *table {
		if m.matches(preds, (*table)[i]) {
			m.apply(&(*table)[i], item, now)
			updated = append(updated, (*table)[i])
		}
	}
	return updated, nil
}

func (m *manager[T]) Delete(_ context.Context, preds []query.Predicate) ([]int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	table := m.table()
	var kept []T
	var deleted []int64
	for _, row := range *table {
		if m.matches(preds, row) {
			deleted = append(deleted, m.id(row))
			continue
		}
		kept = append(kept, row)
	}
	*table = kept
	return deleted, nil
}
