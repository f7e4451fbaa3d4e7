package generator

import (
	"strings"

	"github.com/agentx-labs/zgent/internal/model"
)

// Output locations of the aggregate JSON documents.
const (
	HooksPath    = "hooks/hooks.json"
	SettingsPath = "settings.json"
)

// DefaultSkillCategory is used when a skill has no (or a blank) category.
const DefaultSkillCategory = "general"

// File is one rendered output, addressed by a slash-separated relative path.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// SkillPath returns skills/{category|general}/{name}/SKILL.md.
func SkillPath(s model.Skill) string {
	return SkillPathFor(s.Category, s.Name)
}

// SkillPathFor computes the skill path from its identity pair.
func SkillPathFor(category, name string) string {
	if strings.TrimSpace(category) == "" {
		category = DefaultSkillCategory
	}
	return "skills/" + category + "/" + name + "/SKILL.md"
}

// AgentPath returns agents/{name}.md for agents and subagents alike.
func AgentPath(a model.Agent) string { return AgentPathFor(a.Name) }

// AgentPathFor returns agents/{name}.md.
func AgentPathFor(name string) string { return "agents/" + name + ".md" }

// RulePath returns rules/{name}.md.
func RulePath(r model.Rule) string { return RulePathFor(r.Name) }

// RulePathFor returns rules/{name}.md.
func RulePathFor(name string) string { return "rules/" + name + ".md" }

// CommandPath returns commands/{name}.md.
func CommandPath(c model.Command) string { return CommandPathFor(c.Name) }

// CommandPathFor returns commands/{name}.md.
func CommandPathFor(name string) string { return "commands/" + name + ".md" }

// ContextPath returns contexts/{name}.md.
func ContextPath(c model.Context) string { return ContextPathFor(c.Name) }

// ContextPathFor returns contexts/{name}.md.
func ContextPathFor(name string) string { return "contexts/" + name + ".md" }
