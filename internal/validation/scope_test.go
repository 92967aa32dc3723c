package validation

import (
	"strings"
	"testing"
)

func TestValidScopeName(t *testing.T) {
	valids := []string{
		"a",
		"openid",
		"uma_protection",
		"api:read",
		"a_b-c.d:scope2",
		"a" + strings.Repeat("x", 62) + "b", // 64 chars exactos
	}
	for _, v := range valids {
		if !ValidScopeName(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}

	invalids := []string{
		"",
		":lead",
		"trail:",
		"bad scope",
		"UPPER",
		"semi;colon",
		strings.Repeat("a", 65),
	}
	for _, v := range invalids {
		if ValidScopeName(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}
