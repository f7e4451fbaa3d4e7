package model

// Document describes one JSON file of the data directory.
type Document struct {
	File    string // e.g., "agents.json"
	RootKey string // e.g., "agents"
}

// Entity documents and their root keys.
var (
	PluginsDocument        = Document{File: "plugins.json", RootKey: "plugins"}
	ZgentsDocument         = Document{File: "zgents.json", RootKey: "zgents"}
	AgentsDocument         = Document{File: "agents.json", RootKey: "agents"}
	SkillsDocument         = Document{File: "skills.json", RootKey: "skills"}
	RulesDocument          = Document{File: "rules.json", RootKey: "rules"}
	HooksDocument          = Document{File: "hooks.json", RootKey: "hooks"}
	CommandsDocument       = Document{File: "commands.json", RootKey: "commands"}
	ContextsDocument       = Document{File: "contexts.json", RootKey: "contexts"}
	McpServersDocument     = Document{File: "mcp-servers.json", RootKey: "mcpServers"}
	PluginSettingsDocument = Document{File: "plugin-settings.json", RootKey: "pluginSettings"}
)

// AllDocuments is the fixed set of documents read by the loader.
var AllDocuments = []Document{
	PluginsDocument,
	ZgentsDocument,
	AgentsDocument,
	SkillsDocument,
	RulesDocument,
	HooksDocument,
	CommandsDocument,
	ContextsDocument,
	McpServersDocument,
	PluginSettingsDocument,
}

// Dataset is the in-memory aggregate of every entity document.
type Dataset struct {
	Plugins        []Plugin
	Zgents         []Zgent
	Agents         []Agent
	Skills         []Skill
	Rules          []Rule
	Hooks          []Hook
	Commands       []Command
	Contexts       []Context
	McpServers     []McpServer
	PluginSettings []PluginSettings
}

// FindPlugin returns the plugin with the given id.
func (d *Dataset) FindPlugin(id string) (Plugin, bool) {
	for _, p := range d.Plugins {
		if p.ID == id {
			return p, true
		}
	}
	return Plugin{}, false
}

// FindZgent returns the zgent with the given id.
func (d *Dataset) FindZgent(id string) (Zgent, bool) {
	for _, z := range d.Zgents {
		if z.ID == id {
			return z, true
		}
	}
	return Zgent{}, false
}

// ArtifactRef identifies one child artifact for integrity reporting.
type ArtifactRef struct {
	Kind     string // "agent", "skill", ...
	ID       string
	Name     string
	PluginID string
}

// Artifacts flattens the seven child collections, preserving order.
func (d *Dataset) Artifacts() []ArtifactRef {
	var refs []ArtifactRef
	for _, a := range d.Agents {
		refs = append(refs, ArtifactRef{"agent", a.ID, a.Name, a.PluginID})
	}
	for _, s := range d.Skills {
		refs = append(refs, ArtifactRef{"skill", s.ID, s.Name, s.PluginID})
	}
	for _, r := range d.Rules {
		refs = append(refs, ArtifactRef{"rule", r.ID, r.Name, r.PluginID})
	}
	for _, h := range d.Hooks {
		refs = append(refs, ArtifactRef{"hook", h.ID, h.Name, h.PluginID})
	}
	for _, c := range d.Commands {
		refs = append(refs, ArtifactRef{"command", c.ID, c.Name, c.PluginID})
	}
	for _, c := range d.Contexts {
		refs = append(refs, ArtifactRef{"context", c.ID, c.Name, c.PluginID})
	}
	for _, m := range d.McpServers {
		refs = append(refs, ArtifactRef{"mcp-server", m.ID, m.Name, m.PluginID})
	}
	return refs
}
