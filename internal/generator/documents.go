package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/agentx-labs/zgent/internal/model"
)

type hooksDocument struct {
	Hooks []hookEntry `json:"hooks"`
}

type hookEntry struct {
	Name        string            `json:"name"`
	Event       string            `json:"event"`
	Matcher     string            `json:"matcher,omitempty"`
	Description string            `json:"description,omitempty"`
	Actions     []hookActionEntry `json:"actions"`
}

type hookActionEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

type settingsDocument struct {
	McpServers  map[string]mcpServerEntry `json:"mcpServers"`
	Permissions *permissionsEntry         `json:"permissions,omitempty"`
}

type mcpServerEntry struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Enabled *bool             `json:"enabled,omitempty"`
}

type permissionsEntry struct {
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
}

// RenderHooks renders the aggregate hooks document. Hook order is kept and
// each hook's actions are ordered by ActionOrder (stable for ties).
func RenderHooks(hooks []model.Hook) (string, error) {
	doc := hooksDocument{Hooks: make([]hookEntry, 0, len(hooks))}
	for _, h := range hooks {
		actions := make([]model.HookAction, len(h.Actions))
		copy(actions, h.Actions)
		sort.SliceStable(actions, func(i, j int) bool {
			return actions[i].ActionOrder < actions[j].ActionOrder
		})

		entry := hookEntry{
			Name:        h.Name,
			Event:       h.Event,
			Matcher:     h.Matcher,
			Description: h.Description,
			Actions:     make([]hookActionEntry, 0, len(actions)),
		}
		for _, a := range actions {
			entry.Actions = append(entry.Actions, hookActionEntry{
				Type:    a.Type,
				Command: a.Command,
				Timeout: a.Timeout,
			})
		}
		doc.Hooks = append(doc.Hooks, entry)
	}
	return encodeJSON(doc)
}

// RenderSettings renders the aggregate settings document: MCP servers keyed
// by name plus the permission lists. Empty env/args are omitted and enabled
// appears only when explicitly false.
func RenderSettings(servers []model.McpServer, settings *model.PluginSettings) (string, error) {
	doc := settingsDocument{McpServers: make(map[string]mcpServerEntry, len(servers))}
	for _, m := range servers {
		entry := mcpServerEntry{
			Type:    m.Type,
			Command: m.Command,
			URL:     m.URL,
		}
		if len(m.Args) > 0 {
			entry.Args = m.Args
		}
		if len(m.Env) > 0 {
			entry.Env = m.Env
		}
		if m.Enabled != nil && !*m.Enabled {
			disabled := false
			entry.Enabled = &disabled
		}
		doc.McpServers[m.Name] = entry
	}

	if settings != nil {
		doc.Permissions = &permissionsEntry{
			Allow: nonNil(settings.Allow),
			Deny:  nonNil(settings.Deny),
		}
	}
	return encodeJSON(doc)
}

// encodeJSON pretty-prints v with two-space indentation and a trailing
// newline. HTML escaping is off so "<", ">" and "&" stay literal.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding JSON document: %w", err)
	}
	return buf.String(), nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
