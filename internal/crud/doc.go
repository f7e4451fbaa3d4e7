// Package crud edits artifacts in place under an artifact root.
//
// Agents, skills, rules, commands and contexts are markdown files with YAML
// frontmatter; the body is exposed as the "content" field. Hooks are entries
// of hooks/hooks.json and mcp servers are entries of the mcpServers map in
// settings.json. Every call goes through the traffic logger and every
// successful call that touches storage is recorded in the engine's history.
//
// Expected failures (unknown type, invalid input, missing or duplicate
// artifact) come back as a Result with Success false and a typed Error. Only
// file-system failures are returned as Go errors.
package crud
