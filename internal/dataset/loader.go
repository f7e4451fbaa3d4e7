package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/zgent/internal/model"
	"github.com/tidwall/jsonc"
)

// DocumentError reports a document that failed schema validation. It is a
// configuration error: the caller must fix the input, retrying cannot help.
type DocumentError struct {
	File   string
	Issues []ValidationIssue
}

func (e *DocumentError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("invalid document %s: %s", e.File, strings.Join(parts, "; "))
}

// Load reads every entity document from dataDir into a Dataset. Missing
// documents load as empty collections.
func Load(dataDir string) (*model.Dataset, error) {
	ds := &model.Dataset{}

	var err error
	if ds.Plugins, err = loadCollection[model.Plugin](dataDir, model.PluginsDocument); err != nil {
		return nil, err
	}
	if ds.Zgents, err = loadCollection[model.Zgent](dataDir, model.ZgentsDocument); err != nil {
		return nil, err
	}
	if ds.Agents, err = loadCollection[model.Agent](dataDir, model.AgentsDocument); err != nil {
		return nil, err
	}
	if ds.Skills, err = loadCollection[model.Skill](dataDir, model.SkillsDocument); err != nil {
		return nil, err
	}
	if ds.Rules, err = loadCollection[model.Rule](dataDir, model.RulesDocument); err != nil {
		return nil, err
	}
	if ds.Hooks, err = loadCollection[model.Hook](dataDir, model.HooksDocument); err != nil {
		return nil, err
	}
	if ds.Commands, err = loadCollection[model.Command](dataDir, model.CommandsDocument); err != nil {
		return nil, err
	}
	if ds.Contexts, err = loadCollection[model.Context](dataDir, model.ContextsDocument); err != nil {
		return nil, err
	}
	if ds.McpServers, err = loadCollection[model.McpServer](dataDir, model.McpServersDocument); err != nil {
		return nil, err
	}
	if ds.PluginSettings, err = loadCollection[model.PluginSettings](dataDir, model.PluginSettingsDocument); err != nil {
		return nil, err
	}

	return ds, nil
}

// loadCollection reads, validates and decodes one document. A missing file
// yields a nil slice.
func loadCollection[T any](dataDir string, doc model.Document) ([]T, error) {
	path := filepath.Join(dataDir, doc.File)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decodeCollection[T](doc, raw)
}

// decodeCollection validates raw document bytes and decodes the array under
// the document's root key.
func decodeCollection[T any](doc model.Document, raw []byte) ([]T, error) {
	data := jsonc.ToJSON(raw)

	issues, err := ValidateDocument(doc, data)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &DocumentError{File: doc.File, Issues: issues}
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", doc.File, err)
	}

	var items []T
	if err := json.Unmarshal(root[doc.RootKey], &items); err != nil {
		return nil, fmt.Errorf("decoding %s.%s: %w", doc.File, doc.RootKey, err)
	}
	return items, nil
}
