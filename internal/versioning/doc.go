// Package versioning captures artifact snapshots, diffs two states, and
// keeps a bounded in-memory history of operations.
//
// A snapshot fingerprints its state with the SHA-256 of the canonical JSON
// encoding (object keys sorted), so two snapshots of equal states compare
// equal without walking them. Diffs are computed per top-level field and
// classified as structural when they touch identity or behavior fields.
package versioning
