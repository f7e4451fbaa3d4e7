// Package resolver narrows a loaded dataset to one plugin and checks the
// name references between its artifacts (agent skill/rule refs and command
// agent refs). Reference problems are reported as a list so the caller
// decides whether to abort materialization.
package resolver
