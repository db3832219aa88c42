package obs

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/healthz":             "/healthz",
		"/metrics":             "/metrics",
		"/resources/tags":      "/resources/tags",
		"/resources/tags/42":   "/resources/tags/{id}",
		"/resources/users/7":   "/resources/users/{id}",
		"/resources/tags/42/x": "/resources/tags/42/x",
		"/auth/login":          "/auth/login",
	}
	for input, expected := range cases {
		if got := normalizePath(input); got != expected {
			t.Fatalf("normalizePath(%q)=%q, want %q", input, got, expected)
		}
	}
}
