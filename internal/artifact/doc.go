// Package artifact holds the vocabulary shared by the CRUD, versioning and
// traffic packages: the seven artifact types, the five operations, and the
// JSON object State every artifact is edited as.
package artifact
