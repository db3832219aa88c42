package pg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"myrest.org/internal/auth"
	"myrest.org/internal/query"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// tableSpec adapts the generic manager to one table: its columns, its
// owner column, and the scan/insert/update hooks.
type tableSpec[T any] struct {
	table        string
	ownerColumn  string
	columns      []string
	fieldColumns map[string]string
	scan         func(rowScanner) (T, error)

	insertColumns []string
	insertArgs    func(item T, ownerID int64, now time.Time) []any

	updateColumns []string
	updateArgs    func(item T, now time.Time) []any
}

func (s tableSpec[T]) selectList() string {
	return strings.Join(s.columns, ", ")
}

type pgManager[T any] struct {
	store *Store
	user  *auth.User
	spec  tableSpec[T]
}

func newManager[T any](s *Store, user *auth.User, spec tableSpec[T]) *pgManager[T] {
	return &pgManager[T]{store: s, user: user, spec: spec}
}

// scope restricts every statement to rows the user may touch.
func (m *pgManager[T]) scope(b *whereBuilder) {
	if m.user == nil {
		b.add("false")
		return
	}
	if m.user.Role == auth.RoleRoot {
		return
	}
	b.add(m.spec.ownerColumn + " = " + b.placeholder(m.user.ID))
}

func (m *pgManager[T]) buildWhere(preds []query.Predicate) (*whereBuilder, error) {
	b := &whereBuilder{}
	m.scope(b)
	for _, p := range preds {
		column, ok := m.spec.fieldColumns[p.Field]
		if !ok {
			return nil, fmt.Errorf("pg: unknown field %q", p.Field)
		}
		b.addPredicate(column, p)
	}
	return b, nil
}

func (m *pgManager[T]) Count(ctx context.Context, preds []query.Predicate) (int, error) {
	b, err := m.buildWhere(preds)
	if err != nil {
		return 0, err
	}
	var n int
	row := m.store.db.QueryRowContext(ctx,
		"select count(*) from "+m.spec.table+b.where(), b.args...)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (m *pgManager[T]) Retrieve(ctx context.Context, preds []query.Predicate, keys []query.SortKey, offset, limit int) ([]T, error) {
	b, err := m.buildWhere(preds)
	if err != nil {
		return nil, err
	}
	stmt := "select " + m.spec.selectList() + " from " + m.spec.table + b.where() +
		orderBy(keys, m.spec.fieldColumns)
	if limit >= 0 {
		stmt += " limit " + b.placeholder(limit)
	}
	stmt += " offset " + b.placeholder(offset)

	rows, err := m.store.db.QueryContext(ctx, stmt, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := m.spec.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (m *pgManager[T]) Create(ctx context.Context, items []T) ([]T, error) {
	if m.user == nil {
		return nil, auth.ErrAuthorizationFailed
	}
	now := m.store.now()
	created := make([]T, 0, len(items))
	for _, item := range items {
		args := m.spec.insertArgs(item, m.user.ID, now)
		placeholders := make([]string, len(args))
		for i := range args {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		stmt := "insert into " + m.spec.table + "(" + strings.Join(m.spec.insertColumns, ", ") + ")" +
			" values(" + strings.Join(placeholders, ", ") + ") returning " + m.spec.selectList()
		row := m.store.db.QueryRowContext(ctx, stmt, args...)
		out, err := m.spec.scan(row)
		if err != nil {
			return nil, err
		}
		created = append(created, out)
	}
	return created, nil
}

func (m *pgManager[T]) Update(ctx context.Context, preds []query.Predicate, item T) ([]T, error) {
	b := &whereBuilder{}
	now := m.store.now()
	args := m.spec.updateArgs(item, now)
	sets := make([]string, 0, len(args))
	for i, column := range m.spec.updateColumns {
		sets = append(sets, column+" = "+b.placeholder(args[i]))
	}
	m.scope(b)
	for _, p := range preds {
		column, ok := m.spec.fieldColumns[p.Field]
		if !ok {
			return nil, fmt.Errorf("pg: unknown field %q", p.Field)
		}
		b.addPredicate(column, p)
	}
	stmt := "update " + m.spec.table + " set " + strings.Join(sets, ", ") + b.where() +
		" returning " + m.spec.selectList()

	rows, err := m.store.db.QueryContext(ctx, stmt, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updated []T
	for rows.Next() {
		out, err := m.spec.scan(rows)
		if err != nil {
			return nil, err
		}
		updated = append(updated, out)
	}
	return updated, rows.Err()
}

func (m *pgManager[T]) Delete(ctx context.Context, preds []query.Predicate) ([]int64, error) {
	b, err := m.buildWhere(preds)
	if err != nil {
		return nil, err
	}
	rows, err := m.store.db.QueryContext(ctx,
		"delete from "+m.spec.table+b.where()+" returning id", b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deleted []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		deleted = append(deleted, id)
	}
	return deleted, rows.Err()
}
