// Package materializer turns a resolved plugin into files under a Zgent's
// target directory. Generation is pure: paths are computed first, excluded
// paths are skipped before rendering, and variables are substituted into
// what remains. Writing is fail-fast and ends with exactly one status update
// of the Zgent; a run that fails part way leaves a non-authoritative target
// that must be materialized again from scratch.
package materializer
