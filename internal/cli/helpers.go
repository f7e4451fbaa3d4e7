package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/agentx-labs/zgent/internal/config"
	"github.com/agentx-labs/zgent/internal/crud"
	"github.com/agentx-labs/zgent/internal/dataset"
	"github.com/agentx-labs/zgent/internal/model"
)

// loadDataset loads the configured data directory and logs integrity
// problems as warnings.
func loadDataset() (*model.Dataset, string, error) {
	dataDir := config.Current().DataDir
	ds, err := dataset.Load(dataDir)
	if err != nil {
		return nil, dataDir, fmt.Errorf("loading dataset from %s: %w", dataDir, err)
	}
	for _, issue := range dataset.CheckIntegrity(ds) {
		logger.Warn().Str("dataDir", dataDir).Msg(issue)
	}
	return ds, dataDir, nil
}

// newEngine returns a CRUD engine over the configured artifact root.
func newEngine() *crud.Engine {
	settings := config.Current()
	return crud.NewEngine(settings.ArtifactRoot,
		crud.WithLogger(logger),
		crud.WithHistoryCapacity(settings.HistoryCapacity),
	)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// parseAssignments turns KEY=VALUE pairs into a map.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", pair)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

// readStateFile decodes a JSON or YAML object from path ("-" for stdin).
func readStateFile(path string, stdin io.Reader) (map[string]any, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var state map[string]any
	if err := yaml.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if state == nil {
		state = map[string]any{}
	}
	return state, nil
}

// buildState merges a state file, KEY=VALUE assignments and a content file,
// in that order. Assigned values are parsed as YAML scalars or flow
// collections, so tags=[a,b] yields a list and timeout=30 a number.
func buildState(file string, sets []string, contentFile string, stdin io.Reader) (map[string]any, error) {
	state := map[string]any{}
	if file != "" {
		s, err := readStateFile(file, stdin)
		if err != nil {
			return nil, err
		}
		state = s
	}

	assignments, err := parseAssignments(sets)
	if err != nil {
		return nil, err
	}
	for key, raw := range assignments {
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		state[key] = value
	}

	if contentFile != "" {
		content, err := os.ReadFile(contentFile)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", contentFile, err)
		}
		state["content"] = string(content)
	}
	return state, nil
}
