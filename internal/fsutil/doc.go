// Package fsutil provides the filesystem primitives shared by the Zgent
// repository, the materializer and the CRUD stores: directory creation,
// per-file parent creation, atomic replace-by-rename and permission setting
// that degrades to a no-op on Windows.
package fsutil
