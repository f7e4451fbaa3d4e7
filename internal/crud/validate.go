package crud

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/agentx-labs/zgent/internal/artifact"
	"github.com/agentx-labs/zgent/internal/generator"
)

// reservedFields are managed by the engine and cannot be set by callers.
var reservedFields = []string{"deleted", "deletedAt"}

// prepareState fills the identity fields derived from id and returns every
// problem with the result. state is modified in place.
func prepareState(t artifact.Type, id string, state artifact.State) []string {
	var issues []string

	name := artifact.Name(t, id)
	switch v := state["name"].(type) {
	case nil:
		state["name"] = name
	case string:
		if v != name {
			issues = append(issues, fmt.Sprintf("name %q does not match id %q", v, id))
		}
	default:
		issues = append(issues, "name must be a string")
	}

	if t == artifact.Skill {
		category, _ := artifact.SplitSkillID(id)
		switch v := state["category"].(type) {
		case nil:
			state["category"] = category
		case string:
			if v == "" {
				v = generator.DefaultSkillCategory
			}
			if v != category {
				issues = append(issues, fmt.Sprintf("category %q does not match id %q", v, id))
			}
		default:
			issues = append(issues, "category must be a string")
		}
	}

	return append(issues, validateState(t, state)...)
}

// validateState checks the fields the engine understands. Unknown fields are
// allowed.
func validateState(t artifact.Type, state artifact.State) []string {
	var issues []string

	if v, ok := state["version"]; ok && v != nil {
		s, isString := v.(string)
		if !isString {
			issues = append(issues, "version must be a string")
		} else if _, err := semver.StrictNewVersion(strings.TrimPrefix(s, "v")); err != nil {
			issues = append(issues, fmt.Sprintf("version %q is not a semantic version", s))
		}
	}

	for _, field := range []string{"tags", "tools", "allowedTools", "args"} {
		if v, ok := state[field]; ok && v != nil && !isStringArray(v) {
			issues = append(issues, fmt.Sprintf("%s must be an array of strings", field))
		}
	}

	if v, ok := state[contentField]; ok && v != nil {
		if _, isString := v.(string); !isString {
			issues = append(issues, "content must be a string")
		}
	}

	switch t {
	case artifact.Hook:
		if strings.TrimSpace(state.String("event")) == "" {
			issues = append(issues, "hook event is required")
		}
	case artifact.McpServer:
		if strings.TrimSpace(state.String("command")) == "" && strings.TrimSpace(state.String("url")) == "" {
			issues = append(issues, "mcp server needs a command or a url")
		}
	}

	return issues
}

func isStringArray(v any) bool {
	items, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

// reservedIssues reports caller-supplied engine fields.
func reservedIssues(state artifact.State) []string {
	var issues []string
	for _, f := range reservedFields {
		if _, ok := state[f]; ok {
			issues = append(issues, fmt.Sprintf("%s is managed by delete and cannot be set", f))
		}
	}
	return issues
}
