package resolver

import (
	"errors"
	"fmt"

	"github.com/agentx-labs/zgent/internal/model"
)

// ErrEntityNotFound is matched by every *EntityNotFoundError.
var ErrEntityNotFound = errors.New("entity not found")

// EntityNotFoundError is a configuration error: a referenced entity does not
// exist in the dataset.
type EntityNotFoundError struct {
	Kind string // "plugin", "zgent", ...
	ID   string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Is lets errors.Is(err, ErrEntityNotFound) match.
func (e *EntityNotFoundError) Is(target error) bool {
	return target == ErrEntityNotFound
}

// ResolvedPlugin is a plugin with its children, in dataset order.
type ResolvedPlugin struct {
	Plugin     model.Plugin
	Agents     []model.Agent
	Skills     []model.Skill
	Rules      []model.Rule
	Hooks      []model.Hook
	Commands   []model.Command
	Contexts   []model.Context
	McpServers []model.McpServer

	// Settings is the first PluginSettings for the plugin, or nil.
	Settings *model.PluginSettings
}

// ResolvePlugin filters every collection of ds down to the members of
// pluginID.
func ResolvePlugin(pluginID string, ds *model.Dataset) (*ResolvedPlugin, error) {
	plugin, ok := ds.FindPlugin(pluginID)
	if !ok {
		return nil, &EntityNotFoundError{Kind: "plugin", ID: pluginID}
	}

	rp := &ResolvedPlugin{
		Plugin:     plugin,
		Agents:     filter(ds.Agents, func(a model.Agent) bool { return a.PluginID == pluginID }),
		Skills:     filter(ds.Skills, func(s model.Skill) bool { return s.PluginID == pluginID }),
		Rules:      filter(ds.Rules, func(r model.Rule) bool { return r.PluginID == pluginID }),
		Hooks:      filter(ds.Hooks, func(h model.Hook) bool { return h.PluginID == pluginID }),
		Commands:   filter(ds.Commands, func(c model.Command) bool { return c.PluginID == pluginID }),
		Contexts:   filter(ds.Contexts, func(c model.Context) bool { return c.PluginID == pluginID }),
		McpServers: filter(ds.McpServers, func(m model.McpServer) bool { return m.PluginID == pluginID }),
	}

	for _, s := range ds.PluginSettings {
		if s.PluginID == pluginID {
			settings := s
			rp.Settings = &settings
			break
		}
	}

	return rp, nil
}

// ValidateResolvedPlugin returns one message per unresolved reference. An
// empty result means every reference resolved within the plugin.
func ValidateResolvedPlugin(rp *ResolvedPlugin) []string {
	skills := nameSet(rp.Skills, func(s model.Skill) string { return s.Name })
	rules := nameSet(rp.Rules, func(r model.Rule) string { return r.Name })
	agents := nameSet(rp.Agents, func(a model.Agent) string { return a.Name })

	var errs []string
	for _, a := range rp.Agents {
		for _, ref := range a.SkillRefs {
			if !skills[ref] {
				errs = append(errs, fmt.Sprintf("agent %q references unknown skill %q", a.Name, ref))
			}
		}
		for _, ref := range a.RuleRefs {
			if !rules[ref] {
				errs = append(errs, fmt.Sprintf("agent %q references unknown rule %q", a.Name, ref))
			}
		}
	}
	for _, c := range rp.Commands {
		if c.InvokesAgentRef != "" && !agents[c.InvokesAgentRef] {
			errs = append(errs, fmt.Sprintf("command %q invokes unknown agent %q", c.Name, c.InvokesAgentRef))
		}
	}
	return errs
}

// PluginStats counts the artifacts of a resolved plugin.
type PluginStats struct {
	Agents     int `json:"agents"`
	Skills     int `json:"skills"`
	Rules      int `json:"rules"`
	Hooks      int `json:"hooks"`
	Commands   int `json:"commands"`
	Contexts   int `json:"contexts"`
	McpServers int `json:"mcpServers"`
	Total      int `json:"total"`
}

// GetPluginStats returns per-type counts plus their total.
func GetPluginStats(rp *ResolvedPlugin) PluginStats {
	s := PluginStats{
		Agents:     len(rp.Agents),
		Skills:     len(rp.Skills),
		Rules:      len(rp.Rules),
		Hooks:      len(rp.Hooks),
		Commands:   len(rp.Commands),
		Contexts:   len(rp.Contexts),
		McpServers: len(rp.McpServers),
	}
	s.Total = s.Agents + s.Skills + s.Rules + s.Hooks + s.Commands + s.Contexts + s.McpServers
	return s
}

func filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func nameSet[T any](items []T, name func(T) string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[name(item)] = true
	}
	return set
}
