package query

import (
	"fmt"
	"strings"
)

// SortKey is one element of a composite sort order.
type SortKey struct {
	Field string
	Desc  bool
}

// ParseSort parses a comma separated sort specification. A leading `^` marks
// a field as descending. An empty specification returns nil, meaning the
// storage layer's natural order applies. Every field must exist in the
// resource schema and in the allowed list; both failures are reported the
// same way so that callers cannot probe for hidden columns.
func ParseSort(spec string, allowed []string, kinds map[string]FieldKind) ([]SortKey, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = true
	}

	var keys []SortKey
	for _, token := range strings.Split(spec, ",") {
		key := SortKey{Field: token}
		if strings.HasPrefix(token, "^") {
			key.Field = token[1:]
			key.Desc = true
		}
		if _, inSchema := kinds[key.Field]; !inSchema || !allowedSet[key.Field] {
			return nil, fmt.Errorf("%w: %q (allowed: %s)",
				ErrInvalidSortField, key.Field, strings.Join(allowed, ", "))
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// CanonicalSort re-serializes sort keys into the textual form ParseSort
// accepts.
func CanonicalSort(keys []SortKey) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if key.Desc {
			parts = append(parts, "^"+key.Field)
			continue
		}
		parts = append(parts, key.Field)
	}
	return strings.Join(parts, ",")
}
