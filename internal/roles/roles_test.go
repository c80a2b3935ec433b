package roles

import (
	"strings"
	"testing"
)

func TestEveryRoleHasRubric(t *testing.T) {
	for _, r := range All() {
		rubric, ok := Rubric(r)
		if !ok || !strings.HasPrefix(rubric, "Required Skills:") {
			t.Fatalf("role %s has no rubric", r)
		}
	}
}

func TestParse(t *testing.T) {
	r, err := Parse("  Backend_Engineer ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != BackendEngineer {
		t.Fatalf("unexpected role: %s", r)
	}

	if _, err := Parse("data_scientist"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestTitle(t *testing.T) {
	if got := Title(AIMLEngineer); got != "Ai Ml Engineer" {
		t.Fatalf("unexpected title: %q", got)
	}
}
