package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "skills", "core", "s1", "SKILL.md")

	if err := WriteFile(path, []byte("# s1\n")); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "# s1\n" {
		t.Errorf("content = %q, want %q", data, "# s1\n")
	}
}

func TestWriteFileAtomic_ReplacesContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "zgents.json")

	if err := WriteFileAtomic(path, []byte("old")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("new")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != FilePerm {
			t.Errorf("permissions = %o, want %o", perm, FilePerm)
		}
	}
}

func TestExists(t *testing.T) {
	root := t.TempDir()

	ok, err := Exists(filepath.Join(root, "missing"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", ok, err)
	}

	ok, err = Exists(root)
	if err != nil || !ok {
		t.Errorf("Exists(root) = %v, %v; want true, nil", ok, err)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	for i := 0; i < 2; i++ {
		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir call %d: %v", i, err)
		}
	}
}
