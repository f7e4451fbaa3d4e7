// Package model defines the entities authored for a plugin: the Plugin
// itself, the Zgent deployment instances that materialize it, and the seven
// child artifact types (agents, skills, rules, hooks, commands, contexts and
// MCP servers) plus per-plugin permission settings. Field names follow the
// camelCase JSON documents the entities are loaded from.
package model
