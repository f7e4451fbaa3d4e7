// Package cli defines the Cobra command tree for the zgent CLI. Each file
// registers one top-level command (resolve, preview, materialize, artifact,
// etc.) with the root command. Commands delegate to internal packages for
// the work and only handle flags, output formatting and exit status.
package cli
