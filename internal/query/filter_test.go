package query

import (
	"errors"
	"strings"
	"testing"
)

var userKinds = map[string]FieldKind{
	"id":       KindInt,
	"username": KindString,
	"fullname": KindString,
	"email":    KindString,
}

func TestParseFilterEmptyExpression(t *testing.T) {
	preds, err := ParseFilter("", []string{"id"}, userKinds)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if len(preds) != 0 {
		t.Fatalf("expected no predicates, got %d", len(preds))
	}
}

func TestParseFilterIntEquals(t *testing.T) {
	preds, err := ParseFilter("id==1", []string{"id"}, userKinds)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if len(preds) != 1 {
		t.Fatalf("expected 1 predicate, got %d", len(preds))
	}
	p := preds[0]
	if p.Field != "id" || p.Op != OpEquals || p.Kind != KindInt || p.Int != 1 {
		t.Fatalf("unexpected predicate: %+v", p)
	}
}

func TestParseFilterIntOperators(t *testing.T) {
	cases := map[string]Operator{
		"id<10":  OpLessThan,
		"id<=10": OpLessOrEqual,
		"id>10":  OpGreaterThan,
		"id>=10": OpGreaterOrEqual,
		"id!=10": OpNotEquals,
	}
	for expr, want := range cases {
		preds, err := ParseFilter(expr, []string{"id"}, userKinds)
		if err != nil {
			t.Fatalf("ParseFilter(%q): %v", expr, err)
		}
		if len(preds) != 1 || preds[0].Op != want || preds[0].Int != 10 {
			t.Fatalf("ParseFilter(%q): unexpected predicates %+v", expr, preds)
		}
	}
}

func TestParseFilterStringOperators(t *testing.T) {
	cases := map[string]Operator{
		"username==root":          OpEquals,
		"username!=root":          OpNotEquals,
		"username=contains=root":  OpContains,
		"username=!contains=root": OpNotContains,
	}
	for expr, want := range cases {
		preds, err := ParseFilter(expr, []string{"username"}, userKinds)
		if err != nil {
			t.Fatalf("ParseFilter(%q): %v", expr, err)
		}
		if len(preds) != 1 || preds[0].Op != want || preds[0].Str != "root" {
			t.Fatalf("ParseFilter(%q): unexpected predicates %+v", expr, preds)
		}
	}
}

func TestParseFilterMultipleClauses(t *testing.T) {
	preds, err := ParseFilter("id>=2,username=contains=a", []string{"id", "username"}, userKinds)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("expected 2 predicates, got %d", len(preds))
	}
}

func TestParseFilterDisallowedField(t *testing.T) {
	_, err := ParseFilter("username==root", []string{"id"}, userKinds)
	if !errors.Is(err, ErrInvalidFilterField) {
		t.Fatalf("expected ErrInvalidFilterField, got %v", err)
	}
	if !strings.Contains(err.Error(), "username") {
		t.Fatalf("error should name the field: %v", err)
	}
}

func TestParseFilterUnknownSchemaField(t *testing.T) {
	// Allow-listed but not part of the schema still fails as a field error.
	_, err := ParseFilter("username_wrong==root", []string{"username_wrong"}, userKinds)
	if !errors.Is(err, ErrInvalidFilterField) {
		t.Fatalf("expected ErrInvalidFilterField, got %v", err)
	}
}

func TestParseFilterWrongOperatorForType(t *testing.T) {
	ordering := []string{"username<a", "username<=a", "username>a", "username>=a"}
	for _, expr := range ordering {
		_, err := ParseFilter(expr, []string{"username"}, userKinds)
		if !errors.Is(err, ErrInvalidFilterOperator) {
			t.Fatalf("ParseFilter(%q): expected ErrInvalidFilterOperator, got %v", expr, err)
		}
	}
	for _, expr := range []string{"id=contains=1", "id=!contains=1"} {
		_, err := ParseFilter(expr, []string{"id"}, userKinds)
		if !errors.Is(err, ErrInvalidFilterOperator) {
			t.Fatalf("ParseFilter(%q): expected ErrInvalidFilterOperator, got %v", expr, err)
		}
	}
}

func TestParseFilterUnknownOperator(t *testing.T) {
	for _, expr := range []string{"id=1", "id<>1", "username=is=root"} {
		_, err := ParseFilter(expr, []string{"id", "username"}, userKinds)
		if !errors.Is(err, ErrInvalidFilterOperator) {
			t.Fatalf("ParseFilter(%q): expected ErrInvalidFilterOperator, got %v", expr, err)
		}
	}
}

func TestParseFilterValueCoercion(t *testing.T) {
	_, err := ParseFilter("id==abc", []string{"id"}, userKinds)
	if !errors.Is(err, ErrInvalidFilterValueType) {
		t.Fatalf("expected ErrInvalidFilterValueType, got %v", err)
	}
}

func TestParseFilterNullLiteral(t *testing.T) {
	preds, err := ParseFilter("email==null,id!=null", []string{"email", "id"}, userKinds)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if len(preds) != 2 || !preds[0].IsNull || !preds[1].IsNull {
		t.Fatalf("expected null predicates, got %+v", preds)
	}

	// `null` with a non-equality operator falls through to value coercion.
	_, err = ParseFilter("id>null", []string{"id"}, userKinds)
	if !errors.Is(err, ErrInvalidFilterValueType) {
		t.Fatalf("expected ErrInvalidFilterValueType, got %v", err)
	}
}

func TestParseFilterMalformedClause(t *testing.T) {
	for _, expr := range []string{"id", ",", "==1"} {
		_, err := ParseFilter(expr, []string{"id"}, userKinds)
		if !errors.Is(err, ErrInvalidFilter) && !errors.Is(err, ErrInvalidFilterOperator) {
			t.Fatalf("ParseFilter(%q): expected a filter error, got %v", expr, err)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := EscapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("unexpected escape result: %s", got)
	}
}
