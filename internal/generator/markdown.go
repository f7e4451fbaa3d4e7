package generator

import (
	"strings"

	"github.com/agentx-labs/zgent/internal/model"
)

// mdWriter accumulates a markdown document. Text is written as given so
// Unicode, RTL text and fenced code survive byte-for-byte.
type mdWriter struct {
	b strings.Builder
}

func newMarkdown(name string) *mdWriter {
	w := &mdWriter{}
	w.b.WriteString("# ")
	w.b.WriteString(name)
	w.b.WriteString("\n")
	return w
}

// paragraph writes text as its own block; blank text is skipped.
func (w *mdWriter) paragraph(text string) {
	if isBlank(text) {
		return
	}
	w.b.WriteString("\n")
	w.b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		w.b.WriteString("\n")
	}
}

// section writes "## title" followed by text; blank text drops the section.
func (w *mdWriter) section(title, text string) {
	if isBlank(text) {
		return
	}
	w.b.WriteString("\n## ")
	w.b.WriteString(title)
	w.b.WriteString("\n")
	w.paragraph(text)
}

// list writes "## title" followed by a bullet per non-blank item.
func (w *mdWriter) list(title string, items []string) {
	var kept []string
	for _, item := range items {
		if !isBlank(item) {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return
	}
	w.b.WriteString("\n## ")
	w.b.WriteString(title)
	w.b.WriteString("\n\n")
	for _, item := range kept {
		w.b.WriteString("- ")
		w.b.WriteString(item)
		w.b.WriteString("\n")
	}
}

func (w *mdWriter) String() string { return w.b.String() }

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// RenderAgent renders an agent or subagent definition.
func RenderAgent(a model.Agent) string {
	w := newMarkdown(a.Name)
	w.paragraph(a.Description)
	if a.Kind == model.KindSubagent {
		w.section("Type", "Subagent")
	}
	w.section("Model", a.Model)
	w.list("Tools", a.Tools)
	w.list("Skills", a.SkillRefs)
	w.list("Rules", a.RuleRefs)
	w.section("Instructions", a.Prompt)
	return w.String()
}

// RenderSkill renders a skill's SKILL.md.
func RenderSkill(s model.Skill) string {
	category := s.Category
	if isBlank(category) {
		category = DefaultSkillCategory
	}

	w := newMarkdown(s.Name)
	w.paragraph(s.Description)
	w.section("Category", category)
	w.section("Version", s.Version)
	w.list("Tags", s.Tags)
	w.list("Allowed Tools", s.AllowedTools)
	w.paragraph(s.Content)
	return w.String()
}

// RenderRule renders a rule document.
func RenderRule(r model.Rule) string {
	w := newMarkdown(r.Name)
	w.paragraph(r.Description)
	w.list("Applies To", r.Paths)
	w.paragraph(r.Content)
	return w.String()
}

// RenderCommand renders a slash command.
func RenderCommand(c model.Command) string {
	w := newMarkdown(c.Name)
	w.paragraph(c.Description)

	usage := "/" + c.Name
	if !isBlank(c.ArgumentHint) {
		usage += " " + c.ArgumentHint
	}
	w.section("Usage", "`"+usage+"`")
	w.list("Allowed Tools", c.AllowedTools)
	if !isBlank(c.InvokesAgentRef) {
		w.section("Agent", "Delegates to the `"+c.InvokesAgentRef+"` agent.")
	}
	w.paragraph(c.Content)
	return w.String()
}

// RenderContext renders a context document.
func RenderContext(c model.Context) string {
	w := newMarkdown(c.Name)
	w.paragraph(c.Description)
	w.paragraph(c.Content)
	return w.String()
}
