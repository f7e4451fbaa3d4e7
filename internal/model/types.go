package model

import "time"

// Plugin is the root grouping every child artifact points at.
type Plugin struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

// ZgentStatus is the lifecycle state of a Zgent.
type ZgentStatus string

// Zgent lifecycle states.
const (
	StatusDraft        ZgentStatus = "draft"
	StatusMaterialized ZgentStatus = "materialized"
)

// Zgent is a deployment instance of a Plugin into a target directory.
type Zgent struct {
	ID              string          `json:"id"`
	PluginID        string          `json:"pluginId"`
	Name            string          `json:"name,omitempty"`
	TargetPath      string          `json:"targetPath"`
	ConfigOverrides ConfigOverrides `json:"configOverrides"`
	Status          ZgentStatus     `json:"status"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
	MaterializedAt  *time.Time      `json:"materializedAt,omitempty"`
}

// ConfigOverrides are the per-run knobs a caller supplies to materialization.
type ConfigOverrides struct {
	// Variables replace {{KEY}} and ${KEY} placeholders in rendered output.
	Variables map[string]string `json:"variables,omitempty"`
	// Exclude lists output paths (exact, directory prefix or glob) to skip.
	Exclude []string `json:"exclude,omitempty"`
}

// Agent kinds. Both render to agents/{name}.md.
const (
	KindAgent    = "agent"
	KindSubagent = "subagent"
)

// Agent is an assistant persona with references to skills and rules.
type Agent struct {
	ID          string   `json:"id"`
	PluginID    string   `json:"pluginId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Kind        string   `json:"kind,omitempty"`
	Model       string   `json:"model,omitempty"`
	Tools       []string `json:"tools,omitempty"`
	SkillRefs   []string `json:"skillRefs,omitempty"`
	RuleRefs    []string `json:"ruleRefs,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
}

// Skill is identified by the pair (Category, Name).
type Skill struct {
	ID           string   `json:"id"`
	PluginID     string   `json:"pluginId"`
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	Description  string   `json:"description,omitempty"`
	Version      string   `json:"version,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	AllowedTools []string `json:"allowedTools,omitempty"`
	Content      string   `json:"content,omitempty"`
}

// Rule is free-form guidance, optionally scoped to path globs.
type Rule struct {
	ID          string   `json:"id"`
	PluginID    string   `json:"pluginId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Paths       []string `json:"paths,omitempty"`
	Content     string   `json:"content,omitempty"`
}

// Hook binds an ordered list of actions to a lifecycle event.
type Hook struct {
	ID          string       `json:"id"`
	PluginID    string       `json:"pluginId"`
	Name        string       `json:"name"`
	Event       string       `json:"event"`
	Matcher     string       `json:"matcher,omitempty"`
	Description string       `json:"description,omitempty"`
	Actions     []HookAction `json:"actions,omitempty"`
}

// HookAction is one step of a hook; ActionOrder decides execution order.
type HookAction struct {
	ActionOrder int    `json:"actionOrder"`
	Type        string `json:"type"`
	Command     string `json:"command"`
	Timeout     int    `json:"timeout,omitempty"`
}

// Command is a slash command, optionally delegating to an agent.
type Command struct {
	ID              string   `json:"id"`
	PluginID        string   `json:"pluginId"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	ArgumentHint    string   `json:"argumentHint,omitempty"`
	AllowedTools    []string `json:"allowedTools,omitempty"`
	InvokesAgentRef string   `json:"invokesAgentRef,omitempty"`
	Content         string   `json:"content,omitempty"`
}

// Context is a named block of background material.
type Context struct {
	ID          string `json:"id"`
	PluginID    string `json:"pluginId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

// McpServer describes an MCP server entry of the settings document.
type McpServer struct {
	ID       string            `json:"id"`
	PluginID string            `json:"pluginId"`
	Name     string            `json:"name"`
	Type     string            `json:"type,omitempty"`
	Command  string            `json:"command,omitempty"`
	Args     []string          `json:"args,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
	URL      string            `json:"url,omitempty"`
	// Enabled is nil when unset; only an explicit false is rendered.
	Enabled *bool `json:"enabled,omitempty"`
}

// PluginSettings holds the permission allow/deny lists of a plugin.
type PluginSettings struct {
	ID       string   `json:"id"`
	PluginID string   `json:"pluginId"`
	Allow    []string `json:"allow,omitempty"`
	Deny     []string `json:"deny,omitempty"`
}
