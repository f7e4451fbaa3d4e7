package artifact

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agentx-labs/zgent/internal/generator"
)

// Type names an artifact kind.
type Type string

// Artifact types.
const (
	Agent     Type = "agent"
	Skill     Type = "skill"
	Rule      Type = "rule"
	Hook      Type = "hook"
	Command   Type = "command"
	Context   Type = "context"
	McpServer Type = "mcp-server"
)

// ErrUnknownType is matched by ParseType failures.
var ErrUnknownType = errors.New("unknown artifact type")

var allTypes = []Type{Agent, Skill, Rule, Hook, Command, Context, McpServer}

// Types returns every artifact type in a fixed order.
func Types() []Type {
	return append([]Type(nil), allTypes...)
}

// ParseType converts s to a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Valid reports whether t is one of the seven artifact types.
func (t Type) Valid() bool {
	for _, known := range allTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Entry reports whether artifacts of type t are entries inside a shared JSON
// document rather than files of their own.
func (t Type) Entry() bool {
	return t == Hook || t == McpServer
}

func (t Type) String() string { return string(t) }

// Operation names a CRUD operation.
type Operation string

// Operations.
const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpQuery  Operation = "query"
)

// Mutates reports whether o changes stored state.
func (o Operation) Mutates() bool {
	return o == OpCreate || o == OpUpdate || o == OpDelete
}

var (
	idPattern      = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	skillIDPattern = regexp.MustCompile(`^(?:[A-Za-z0-9][A-Za-z0-9._-]*/)?[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// ValidateID checks that id is usable as a file or entry name for t. Skill
// ids may carry one category prefix ("core/lint").
func ValidateID(t Type, id string) error {
	pattern := idPattern
	if t == Skill {
		pattern = skillIDPattern
	}
	if !pattern.MatchString(id) {
		return fmt.Errorf("invalid %s id %q", t, id)
	}
	return nil
}

// SplitSkillID splits "category/name" into its parts. A bare name belongs to
// the default category.
func SplitSkillID(id string) (category, name string) {
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return id[:i], id[i+1:]
	}
	return generator.DefaultSkillCategory, id
}

// SkillID is the canonical id of a skill: the bare name in the default
// category, "category/name" otherwise.
func SkillID(category, name string) string {
	if category == "" || category == generator.DefaultSkillCategory {
		return name
	}
	return category + "/" + name
}

// CanonicalID returns the single spelling of id that the stores report:
// "general/lint" becomes "lint". Ids of other types, and invalid ids, are
// returned unchanged.
func CanonicalID(t Type, id string) string {
	if t != Skill || ValidateID(t, id) != nil {
		return id
	}
	return SkillID(SplitSkillID(id))
}

// Name returns the artifact name carried by id.
func Name(t Type, id string) string {
	if t == Skill {
		_, name := SplitSkillID(id)
		return name
	}
	return id
}

// RelPath returns the slash-separated location of an artifact relative to the
// artifact root. Hooks and mcp servers share one document per type.
func RelPath(t Type, id string) (string, error) {
	switch t {
	case Agent:
		return generator.AgentPathFor(id), nil
	case Skill:
		return generator.SkillPathFor(SplitSkillID(id)), nil
	case Rule:
		return generator.RulePathFor(id), nil
	case Command:
		return generator.CommandPathFor(id), nil
	case Context:
		return generator.ContextPathFor(id), nil
	case Hook:
		return generator.HooksPath, nil
	case McpServer:
		return generator.SettingsPath, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, string(t))
}

// Path joins RelPath onto root.
func Path(root string, t Type, id string) (string, error) {
	rel, err := RelPath(t, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}
