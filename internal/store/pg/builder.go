package pg

import (
	"fmt"
	"strings"

	"myrest.org/internal/query"
)

// whereBuilder accumulates SQL conditions with numbered placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) placeholder(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) add(cond string) {
	b.conds = append(b.conds, cond)
}

// addPredicate renders one validated predicate. The column name comes out
// of the resource's field map, never from client input.
func (b *whereBuilder) addPredicate(column string, p query.Predicate) {
	if p.IsNull {
		if p.Op == query.OpEquals {
			b.add(column + " is null")
		} else {
			b.add(column + " is not null")
		}
		return
	}
	switch p.Op {
	case query.OpEquals:
		if p.Kind == query.KindInt {
			b.add(column + " = " + b.placeholder(p.Int))
		} else {
			b.add(column + " = " + b.placeholder(p.Str))
		}
	case query.OpNotEquals:
		if p.Kind == query.KindInt {
			b.add(column + " <> " + b.placeholder(p.Int))
		} else {
			b.add(column + " <> " + b.placeholder(p.Str))
		}
	case query.OpLessThan:
		b.add(column + " < " + b.placeholder(p.Int))
	case query.OpLessOrEqual:
		b.add(column + " <= " + b.placeholder(p.Int))
	case query.OpGreaterThan:
		b.add(column + " > " + b.placeholder(p.Int))
	case query.OpGreaterOrEqual:
		b.add(column + " >= " + b.placeholder(p.Int))
	case query.OpContains:
		b.add(column + ` like ` + b.placeholder("%"+query.EscapeLike(p.Str)+"%") + ` escape '\'`)
	case query.OpNotContains:
		b.add(column + ` not like ` + b.placeholder("%"+query.EscapeLike(p.Str)+"%") + ` escape '\'`)
	}
}

// where renders the accumulated conditions, or an empty string when there
// are none.
func (b *whereBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " where " + strings.Join(b.conds, " and ")
}

// orderBy renders a validated sort order. An empty key list falls back to
// id so pages are stable.
func orderBy(keys []query.SortKey, columns map[string]string) string {
	if len(keys) == 0 {
		return " order by id asc"
	}
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		dir := " asc"
		if key.Desc {
			dir = " desc"
		}
		parts = append(parts, columns[key.Field]+dir)
	}
	return " order by " + strings.Join(parts, ", ")
}
