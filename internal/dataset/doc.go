// Package dataset loads the entity documents of a data directory into a
// model.Dataset. Each document is JSON (comments and trailing commas are
// tolerated), validated against an embedded JSON Schema before decoding, and
// the aggregate is checked for cross-collection integrity. The package also
// owns ZgentRepository, the single writer of zgents.json.
package dataset
