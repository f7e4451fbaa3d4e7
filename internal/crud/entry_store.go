package crud

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/agentx-labs/zgent/internal/artifact"
	"github.com/agentx-labs/zgent/internal/fsutil"
	"github.com/agentx-labs/zgent/internal/generator"
)

// entryStore keeps artifacts as named entries of one shared JSON document.
// Top-level keys it does not own are preserved on rewrite.
type entryStore struct {
	typ   artifact.Type
	file  string
	key   string
	codec entryCodec
}

// entryCodec maps between the document's container value and named entries.
type entryCodec interface {
	decode(container any) ([]artifact.State, error)
	encode(entries []artifact.State) any
}

func newHookStore(root string) *entryStore {
	return &entryStore{
		typ:   artifact.Hook,
		file:  filepath.Join(root, filepath.FromSlash(generator.HooksPath)),
		key:   "hooks",
		codec: listCodec{},
	}
}

func newMcpServerStore(root string) *entryStore {
	return &entryStore{
		typ:   artifact.McpServer,
		file:  filepath.Join(root, filepath.FromSlash(generator.SettingsPath)),
		key:   "mcpServers",
		codec: mapCodec{},
	}
}

func (s *entryStore) path(string) string { return s.file }

func (s *entryStore) load(id string) (record, error) {
	entries, info, err := s.read()
	if err != nil {
		return record{}, err
	}
	for _, e := range entries {
		if e.String("name") == id {
			return record{ID: id, Path: s.file, ModifiedAt: info.modTime, State: e}, nil
		}
	}
	return record{}, errNoArtifact
}

func (s *entryStore) save(id string, state artifact.State) error {
	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	entries, err := s.codec.decode(doc[s.key])
	if err != nil {
		return fmt.Errorf("%s: %w", s.file, err)
	}

	state = state.Clone()
	state["name"] = id
	replaced := false
	for i, e := range entries {
		if e.String("name") == id {
			entries[i] = state
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, state)
	}

	doc[s.key] = s.codec.encode(entries)
	return s.writeDocument(doc)
}

func (s *entryStore) remove(id string) error {
	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	entries, err := s.codec.decode(doc[s.key])
	if err != nil {
		return fmt.Errorf("%s: %w", s.file, err)
	}

	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.String("name") == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return errNoArtifact
	}

	doc[s.key] = s.codec.encode(kept)
	return s.writeDocument(doc)
}

func (s *entryStore) list() ([]record, error) {
	entries, info, err := s.read()
	if err != nil {
		return nil, err
	}
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		id := e.String("name")
		if artifact.ValidateID(s.typ, id) != nil {
			continue
		}
		records = append(records, record{ID: id, Path: s.file, ModifiedAt: info.modTime, State: e})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

type docInfo struct {
	modTime time.Time
}

func (s *entryStore) read() ([]artifact.State, docInfo, error) {
	doc, err := s.readDocument()
	if err != nil {
		return nil, docInfo{}, err
	}
	entries, err := s.codec.decode(doc[s.key])
	if err != nil {
		return nil, docInfo{}, fmt.Errorf("%s: %w", s.file, err)
	}
	var info docInfo
	if st, err := os.Stat(s.file); err == nil {
		info.modTime = st.ModTime()
	}
	return entries, info, nil
}

// readDocument returns the whole document, or an empty one when the file is
// missing. Comments and trailing commas are accepted.
func (s *entryStore) readDocument() (map[string]any, error) {
	raw, err := os.ReadFile(s.file)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.file, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(raw), &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.file, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func (s *entryStore) writeDocument(doc map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", s.file, err)
	}
	return fsutil.WriteFileAtomic(s.file, buf.Bytes())
}

// listCodec handles {"hooks": [{"name": ...}, ...]}.
type listCodec struct{}

func (listCodec) decode(container any) ([]artifact.State, error) {
	if container == nil {
		return nil, nil
	}
	items, ok := container.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of entries, got %T", container)
	}
	entries := make([]artifact.State, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d is not an object", i)
		}
		entries = append(entries, artifact.State(obj))
	}
	return entries, nil
}

func (listCodec) encode(entries []artifact.State) any {
	items := make([]any, len(entries))
	for i, e := range entries {
		items[i] = map[string]any(e)
	}
	return items
}

// mapCodec handles {"mcpServers": {"<name>": {...}}}. The map key is the
// entry name and is not repeated inside the entry on disk.
type mapCodec struct{}

func (mapCodec) decode(container any) ([]artifact.State, error) {
	if container == nil {
		return nil, nil
	}
	m, ok := container.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object of entries, got %T", container)
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]artifact.State, 0, len(m))
	for _, name := range names {
		obj, ok := m[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %q is not an object", name)
		}
		e := artifact.State(obj).Clone()
		e["name"] = name
		entries = append(entries, e)
	}
	return entries, nil
}

func (mapCodec) encode(entries []artifact.State) any {
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		body := e.Clone()
		delete(body, "name")
		m[e.String("name")] = map[string]any(body)
	}
	return m
}
