package artifact

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(string(typ))
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %q, %v", typ, got, err)
		}
	}
	if _, err := ParseType("plugin"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("ParseType(plugin) error = %v, want ErrUnknownType", err)
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		typ   Type
		id    string
		valid bool
	}{
		{Agent, "reviewer", true},
		{Agent, "code-review_v2.1", true},
		{Agent, "", false},
		{Agent, "-lead", false},
		{Agent, "a/b", false},
		{Agent, "../etc", false},
		{Skill, "core/lint", true},
		{Skill, "lint", true},
		{Skill, "core/sub/lint", false},
		{Skill, "core/", false},
		{McpServer, "files", true},
	}
	for _, tt := range tests {
		err := ValidateID(tt.typ, tt.id)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateID(%s, %q) error = %v, want valid=%v", tt.typ, tt.id, err, tt.valid)
		}
	}
}

func TestRelPath(t *testing.T) {
	tests := []struct {
		typ  Type
		id   string
		want string
	}{
		{Agent, "a1", "agents/a1.md"},
		{Skill, "core/s1", "skills/core/s1/SKILL.md"},
		{Skill, "s1", "skills/general/s1/SKILL.md"},
		{Rule, "style", "rules/style.md"},
		{Command, "review", "commands/review.md"},
		{Context, "glossary", "contexts/glossary.md"},
		{Hook, "fmt", "hooks/hooks.json"},
		{McpServer, "files", "settings.json"},
	}
	for _, tt := range tests {
		got, err := RelPath(tt.typ, tt.id)
		if err != nil || got != tt.want {
			t.Errorf("RelPath(%s, %q) = %q, %v; want %q", tt.typ, tt.id, got, err, tt.want)
		}
	}

	p, err := Path("/root", Rule, "style")
	if err != nil || p != filepath.Join("/root", "rules", "style.md") {
		t.Errorf("Path = %q, %v", p, err)
	}
	if _, err := RelPath("plugin", "x"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestSkillID(t *testing.T) {
	if got := SkillID("general", "s1"); got != "s1" {
		t.Errorf("SkillID(general, s1) = %q", got)
	}
	if got := SkillID("core", "s1"); got != "core/s1" {
		t.Errorf("SkillID(core, s1) = %q", got)
	}
	if got := Name(Skill, "core/s1"); got != "s1" {
		t.Errorf("Name = %q", got)
	}
}

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		typ      Type
		id, want string
	}{
		{Skill, "general/lint", "lint"},
		{Skill, "lint", "lint"},
		{Skill, "core/lint", "core/lint"},
		{Skill, "general/", "general/"},
		{Rule, "general", "general"},
	}
	for _, tt := range tests {
		if got := CanonicalID(tt.typ, tt.id); got != tt.want {
			t.Errorf("CanonicalID(%s, %q) = %q, want %q", tt.typ, tt.id, got, tt.want)
		}
	}
}

func TestNormalizeAndClone(t *testing.T) {
	type doc struct {
		Name  string   `json:"name"`
		Tags  []string `json:"tags"`
		Count int      `json:"count"`
	}
	s, err := Normalize(doc{Name: "a1", Tags: []string{"x"}, Count: 2})
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if s.String("name") != "a1" || s["count"] != float64(2) {
		t.Errorf("state = %#v", s)
	}
	if tags := s.Strings("tags"); len(tags) != 1 || tags[0] != "x" {
		t.Errorf("Strings(tags) = %v", tags)
	}

	c := s.Clone()
	c["tags"].([]any)[0] = "y"
	if s.Strings("tags")[0] != "x" {
		t.Error("Clone shares nested slices")
	}

	if n, err := Normalize(nil); n != nil || err != nil {
		t.Errorf("Normalize(nil) = %v, %v", n, err)
	}
	if _, err := Normalize([]string{"not", "an", "object"}); err == nil {
		t.Error("expected error for non-object state")
	}
}

func TestOperationMutates(t *testing.T) {
	for op, want := range map[Operation]bool{OpCreate: true, OpUpdate: true, OpDelete: true, OpRead: false, OpQuery: false} {
		if op.Mutates() != want {
			t.Errorf("%s.Mutates() = %v", op, !want)
		}
	}
}
