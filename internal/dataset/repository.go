package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agentx-labs/zgent/internal/fsutil"
	"github.com/agentx-labs/zgent/internal/model"
	"github.com/google/uuid"
	"github.com/tidwall/jsonc"
)

// ErrZgentNotFound is returned when a zgent id is not in zgents.json.
var ErrZgentNotFound = errors.New("zgent not found")

// ZgentRepository is the only writer of zgents.json. Every mutation is a
// read-modify-write of the whole collection performed under one mutex and
// committed with an atomic rename, so two runs in the same process cannot
// interleave their updates. Separate processes still need external
// coordination.
type ZgentRepository struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewZgentRepository returns a repository over dataDir/zgents.json.
func NewZgentRepository(dataDir string) *ZgentRepository {
	return &ZgentRepository{
		path: filepath.Join(dataDir, model.ZgentsDocument.File),
		now:  time.Now,
	}
}

// Path returns the backing document path.
func (r *ZgentRepository) Path() string {
	return r.path
}

// List returns every zgent in document order.
func (r *ZgentRepository) List() ([]model.Zgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

// Get returns one zgent by id.
func (r *ZgentRepository) Get(id string) (model.Zgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	zgents, err := r.read()
	if err != nil {
		return model.Zgent{}, err
	}
	for _, z := range zgents {
		if z.ID == id {
			return z, nil
		}
	}
	return model.Zgent{}, fmt.Errorf("%w: %s", ErrZgentNotFound, id)
}

// NewZgent holds the caller-supplied fields of a zgent to create.
type NewZgent struct {
	PluginID   string
	Name       string
	TargetPath string
	Overrides  model.ConfigOverrides
}

// Create appends a new draft zgent with a generated id.
func (r *ZgentRepository) Create(nz NewZgent) (model.Zgent, error) {
	if nz.PluginID == "" {
		return model.Zgent{}, fmt.Errorf("plugin id is required")
	}
	if nz.TargetPath == "" {
		return model.Zgent{}, fmt.Errorf("target path is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return model.Zgent{}, err
	}

	now := r.now().UTC()
	z := model.Zgent{
		ID:              uuid.NewString(),
		PluginID:        nz.PluginID,
		Name:            nz.Name,
		TargetPath:      nz.TargetPath,
		ConfigOverrides: nz.Overrides,
		Status:          model.StatusDraft,
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}
	obj, err := rawObject(z)
	if err != nil {
		return model.Zgent{}, err
	}
	doc.zgents = append(doc.zgents, obj)

	if err := r.write(doc); err != nil {
		return model.Zgent{}, err
	}
	return z, nil
}

// MarkMaterialized moves a zgent to materialized, stamping materializedAt
// and updatedAt with at. It is the single status update of a run. Only
// those fields and status are rewritten; anything else on the zgent
// object, including fields this package does not model, is kept as is.
func (r *ZgentRepository) MarkMaterialized(id string, at time.Time) (model.Zgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return model.Zgent{}, err
	}

	idx := -1
	for i, z := range doc.typed {
		if z.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Zgent{}, fmt.Errorf("%w: %s", ErrZgentNotFound, id)
	}

	stamp := at.UTC()
	z := doc.typed[idx]
	z.Status = model.StatusMaterialized
	z.MaterializedAt = &stamp
	z.UpdatedAt = &stamp

	patch := map[string]any{
		"status":         z.Status,
		"materializedAt": stamp,
		"updatedAt":      stamp,
	}
	for key, value := range patch {
		encoded, err := marshalRaw(value)
		if err != nil {
			return model.Zgent{}, fmt.Errorf("encoding %s: %w", key, err)
		}
		doc.zgents[idx][key] = encoded
	}

	if err := r.write(doc); err != nil {
		return model.Zgent{}, err
	}
	return z, nil
}

// zgentsDoc is zgents.json held as raw JSON objects next to their decoded
// form, so a rewrite keeps unknown keys on the document and on each zgent.
type zgentsDoc struct {
	root   map[string]json.RawMessage
	zgents []map[string]json.RawMessage
	typed  []model.Zgent
}

// read loads the collection. The caller holds r.mu.
func (r *ZgentRepository) read() ([]model.Zgent, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.typed, nil
}

// load reads and validates zgents.json. A missing file is an empty
// document. The caller holds r.mu.
func (r *ZgentRepository) load() (*zgentsDoc, error) {
	doc := &zgentsDoc{root: map[string]json.RawMessage{}}

	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}

	if doc.typed, err = decodeCollection[model.Zgent](model.ZgentsDocument, raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(jsonc.ToJSON(raw), &doc.root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", r.path, err)
	}
	if err := json.Unmarshal(doc.root[model.ZgentsDocument.RootKey], &doc.zgents); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", r.path, err)
	}
	return doc, nil
}

// write replaces the document. The caller holds r.mu.
func (r *ZgentRepository) write(doc *zgentsDoc) error {
	zgents := doc.zgents
	if zgents == nil {
		zgents = []map[string]json.RawMessage{}
	}
	items, err := marshalRaw(zgents)
	if err != nil {
		return fmt.Errorf("encoding zgents: %w", err)
	}
	doc.root[model.ZgentsDocument.RootKey] = items

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc.root); err != nil {
		return fmt.Errorf("encoding zgents: %w", err)
	}

	if err := fsutil.WriteFileAtomic(r.path, buf.Bytes()); err != nil {
		return fmt.Errorf("writing zgents: %w", err)
	}
	return nil
}

// rawObject encodes z as a map of its JSON fields.
func rawObject(z model.Zgent) (map[string]json.RawMessage, error) {
	data, err := marshalRaw(z)
	if err != nil {
		return nil, fmt.Errorf("encoding zgent: %w", err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("encoding zgent: %w", err)
	}
	return obj, nil
}

// marshalRaw encodes v compactly without HTML escaping, matching how the
// document is written.
func marshalRaw(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
