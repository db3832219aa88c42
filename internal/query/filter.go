package query

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldKind is the declared type of a filterable field.
type FieldKind int

const (
	KindInt FieldKind = iota
	KindString
)

// Operator is one of the closed set of filter operators.
type Operator int

const (
	OpEquals Operator = iota
	OpNotEquals
	OpLessThan
	OpLessOrEqual
	OpGreaterThan
	OpGreaterOrEqual
	OpContains
	OpNotContains
)

// Predicate is a single typed filter condition. Value coercion happens at
// parse time: Int holds the coerced value for integer fields, Str the raw
// literal for string fields. IsNull marks the special `null` literal, which
// is only legal with the equality operators.
type Predicate struct {
	Field  string
	Op     Operator
	Kind   FieldKind
	Int    int64
	Str    string
	IsNull bool
}

// operator tokens ordered so that longer tokens are tried before their
// prefixes (`<=` before `<`, `=contains=` before any bare `=` rejection).
var operatorTokens = []struct {
	token string
	op    Operator
}{
	{"=!contains=", OpNotContains},
	{"=contains=", OpContains},
	{"==", OpEquals},
	{"!=", OpNotEquals},
	{"<=", OpLessOrEqual},
	{">=", OpGreaterOrEqual},
	{"<", OpLessThan},
	{">", OpGreaterThan},
}

var intOperators = map[Operator]bool{
	OpEquals:         true,
	OpNotEquals:      true,
	OpLessThan:       true,
	OpLessOrEqual:    true,
	OpGreaterThan:    true,
	OpGreaterOrEqual: true,
}

var stringOperators = map[Operator]bool{
	OpEquals:      true,
	OpNotEquals:   true,
	OpContains:    true,
	OpNotContains: true,
}

// ParseFilter parses a compact filter expression into predicates.
//
// The expression is a comma separated list of clauses, each of the form
// `field`, an operator and a literal, with no whitespace assumed around the
// operator. An empty expression yields no predicates. Fields must appear in
// both the allowed list and the kinds map; the allowed list is intentionally
// narrower than the full schema so that sensitive columns stay unfilterable.
func ParseFilter(expression string, allowed []string, kinds map[string]FieldKind) ([]Predicate, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = true
	}

	var predicates []Predicate
	for _, clause := range strings.Split(expression, ",") {
		pred, err := parseClause(clause, allowedSet, kinds)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, pred)
	}
	return predicates, nil
}

func parseClause(clause string, allowed map[string]bool, kinds map[string]FieldKind) (Predicate, error) {
	field := fieldName(clause)
	if field == "" {
		return Predicate{}, fmt.Errorf("%w: malformed clause %q", ErrInvalidFilter, clause)
	}
	rest := clause[len(field):]
	if rest == "" {
		return Predicate{}, fmt.Errorf("%w: missing operator in clause %q", ErrInvalidFilter, clause)
	}

	op, value, ok := matchOperator(rest)
	if !ok {
		return Predicate{}, fmt.Errorf("%w: unknown operator in clause %q", ErrInvalidFilterOperator, clause)
	}

	kind, inSchema := kinds[field]
	if !inSchema || !allowed[field] {
		return Predicate{}, fmt.Errorf("%w: %q", ErrInvalidFilterField, field)
	}

	pred := Predicate{Field: field, Op: op, Kind: kind}

	// `null` means "field is absent" and is independent of the field type,
	// but only makes sense for the equality operators.
	if value == "null" && (op == OpEquals || op == OpNotEquals) {
		pred.IsNull = true
		return pred, nil
	}

	switch kind {
	case KindInt:
		if !intOperators[op] {
			return Predicate{}, fmt.Errorf(
				"%w: operator not valid for integer field %q", ErrInvalidFilterOperator, field)
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Predicate{}, fmt.Errorf(
				"%w: %q is not a valid integer for field %q", ErrInvalidFilterValueType, value, field)
		}
		pred.Int = n
	case KindString:
		if !stringOperators[op] {
			return Predicate{}, fmt.Errorf(
				"%w: operator not valid for string field %q", ErrInvalidFilterOperator, field)
		}
		pred.Str = value
	}
	return pred, nil
}

// fieldName returns the leading identifier of a clause.
func fieldName(clause string) string {
	for i, r := range clause {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9' && i > 0) {
			continue
		}
		return clause[:i]
	}
	return clause
}

func matchOperator(rest string) (Operator, string, bool) {
	for _, cand := range operatorTokens {
		if !strings.HasPrefix(rest, cand.token) {
			continue
		}
		value := rest[len(cand.token):]
		// Reject compound tokens such as `<>` that would otherwise parse as
		// `<` with an operator character leaking into the value.
		if (cand.op == OpLessThan || cand.op == OpGreaterThan) && startsWithOperatorChar(value) {
			return 0, "", false
		}
		return cand.op, value, true
	}
	return 0, "", false
}

func startsWithOperatorChar(s string) bool {
	return s != "" && strings.ContainsRune("<>=", rune(s[0]))
}

// EscapeLike escapes the SQL LIKE wildcards in a substring-match literal so
// that user input never widens the match.
func EscapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `%`, `\%`)
	value = strings.ReplaceAll(value, `_`, `\_`)
	return value
}
