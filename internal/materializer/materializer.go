package materializer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/agentx-labs/zgent/internal/fsutil"
	"github.com/agentx-labs/zgent/internal/generator"
	"github.com/agentx-labs/zgent/internal/model"
	"github.com/agentx-labs/zgent/internal/resolver"
	"github.com/rs/zerolog"
)

// planned is one output before substitution, with what preview needs to
// lint it.
type planned struct {
	file     generator.File
	name     string
	markdown bool
}

// GenerateOutputFiles renders every non-excluded entity of rp and applies
// variable substitution. The order is agents, skills, rules, commands,
// contexts, then the hooks and settings documents.
func GenerateOutputFiles(rp *resolver.ResolvedPlugin, overrides model.ConfigOverrides) ([]generator.File, error) {
	outputs, _, err := plan(rp, overrides)
	if err != nil {
		return nil, err
	}
	files := make([]generator.File, 0, len(outputs))
	for _, o := range outputs {
		files = append(files, o.file)
	}
	return files, nil
}

// plan computes each path, drops excluded ones before rendering, renders the
// rest and substitutes variables. It returns the excluded paths as well.
func plan(rp *resolver.ResolvedPlugin, overrides model.ConfigOverrides) ([]planned, []string, error) {
	var outputs []planned
	var excluded []string

	add := func(path, name string, markdown bool, render func() (string, error)) error {
		if IsExcluded(path, overrides.Exclude) {
			excluded = append(excluded, path)
			return nil
		}
		content, err := render()
		if err != nil {
			return fmt.Errorf("rendering %s: %w", path, err)
		}
		if markdown {
			content = Substitute(content, overrides.Variables)
		} else {
			content = SubstituteJSON(content, overrides.Variables)
		}
		outputs = append(outputs, planned{
			file:     generator.File{Path: path, Content: content},
			name:     name,
			markdown: markdown,
		})
		return nil
	}

	for _, a := range rp.Agents {
		if err := add(generator.AgentPath(a), a.Name, true, func() (string, error) { return generator.RenderAgent(a), nil }); err != nil {
			return nil, nil, err
		}
	}
	for _, s := range rp.Skills {
		if err := add(generator.SkillPath(s), s.Name, true, func() (string, error) { return generator.RenderSkill(s), nil }); err != nil {
			return nil, nil, err
		}
	}
	for _, r := range rp.Rules {
		if err := add(generator.RulePath(r), r.Name, true, func() (string, error) { return generator.RenderRule(r), nil }); err != nil {
			return nil, nil, err
		}
	}
	for _, c := range rp.Commands {
		if err := add(generator.CommandPath(c), c.Name, true, func() (string, error) { return generator.RenderCommand(c), nil }); err != nil {
			return nil, nil, err
		}
	}
	for _, c := range rp.Contexts {
		if err := add(generator.ContextPath(c), c.Name, true, func() (string, error) { return generator.RenderContext(c), nil }); err != nil {
			return nil, nil, err
		}
	}
	if len(rp.Hooks) > 0 {
		if err := add(generator.HooksPath, "hooks", false, func() (string, error) { return generator.RenderHooks(rp.Hooks) }); err != nil {
			return nil, nil, err
		}
	}
	if len(rp.McpServers) > 0 || rp.Settings != nil {
		if err := add(generator.SettingsPath, "settings", false, func() (string, error) {
			return generator.RenderSettings(rp.McpServers, rp.Settings)
		}); err != nil {
			return nil, nil, err
		}
	}

	return outputs, excluded, nil
}

// Preview is the outcome of a dry run.
type Preview struct {
	Files    []generator.File `json:"files"`
	Excluded []string         `json:"excluded,omitempty"`
	// Issues lists markdown outputs not opening with their name as H1 and
	// paths produced by more than one entity.
	Issues []string `json:"issues,omitempty"`
}

// PreviewMaterialization generates output without touching the filesystem
// and reports problems a real run would silently carry to disk.
func PreviewMaterialization(rp *resolver.ResolvedPlugin, overrides model.ConfigOverrides) (*Preview, error) {
	outputs, excluded, err := plan(rp, overrides)
	if err != nil {
		return nil, err
	}

	p := &Preview{Excluded: excluded, Files: make([]generator.File, 0, len(outputs))}
	seen := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		p.Files = append(p.Files, o.file)
		if seen[o.file.Path] {
			p.Issues = append(p.Issues, fmt.Sprintf("%s is generated more than once; the last entity wins", o.file.Path))
		}
		seen[o.file.Path] = true
		if o.markdown {
			if err := generator.CheckMarkdown(o.file.Content, o.name); err != nil {
				p.Issues = append(p.Issues, fmt.Sprintf("%s: %v", o.file.Path, err))
			}
		}
	}
	return p, nil
}

// StatusRecorder records the draft→materialized transition of a Zgent.
type StatusRecorder interface {
	MarkMaterialized(id string, at time.Time) (model.Zgent, error)
}

// Writer materializes Zgents to disk.
type Writer struct {
	status StatusRecorder
	log    zerolog.Logger
	now    func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger used for run progress.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Writer) { w.log = l }
}

// WithClock overrides the time source used to stamp materializedAt.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// NewWriter returns a Writer recording status transitions through status.
func NewWriter(status StatusRecorder, opts ...Option) *Writer {
	w := &Writer{status: status, log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Result describes a completed materialization.
type Result struct {
	Zgent          model.Zgent `json:"zgent"`
	TargetPath     string      `json:"targetPath"`
	Files          []string    `json:"files"`
	MaterializedAt time.Time   `json:"materializedAt"`
}

// MaterializeZgent writes the plugin's output under zgent.TargetPath and
// then marks the zgent materialized. The first write failure aborts the run
// without a status update; files already written stay on disk. ctx is only
// consulted before the first write.
func (w *Writer) MaterializeZgent(ctx context.Context, zgent model.Zgent, rp *resolver.ResolvedPlugin) (*Result, error) {
	if zgent.PluginID != rp.Plugin.ID {
		return nil, fmt.Errorf("zgent %s belongs to plugin %q, resolved plugin is %q", zgent.ID, zgent.PluginID, rp.Plugin.ID)
	}

	files, err := GenerateOutputFiles(rp, zgent.ConfigOverrides)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !filepath.IsLocal(filepath.FromSlash(f.Path)) {
			return nil, fmt.Errorf("output path %q escapes the target directory", f.Path)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := w.log.With().Str("zgent", zgent.ID).Str("plugin", rp.Plugin.ID).Str("target", zgent.TargetPath).Logger()
	log.Debug().Int("files", len(files)).Msg("materializing")

	if err := fsutil.EnsureDir(zgent.TargetPath); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		dst := filepath.Join(zgent.TargetPath, filepath.FromSlash(f.Path))
		if err := fsutil.WriteFile(dst, []byte(f.Content)); err != nil {
			log.Error().Err(err).Int("written", len(written)).Str("path", f.Path).Msg("materialization aborted")
			return nil, fmt.Errorf("materializing zgent %s: %w", zgent.ID, err)
		}
		written = append(written, f.Path)
	}

	at := w.now()
	updated, err := w.status.MarkMaterialized(zgent.ID, at)
	if err != nil {
		return nil, fmt.Errorf("recording materialization of zgent %s: %w", zgent.ID, err)
	}

	log.Info().Int("files", len(written)).Msg("materialized")

	return &Result{
		Zgent:          updated,
		TargetPath:     zgent.TargetPath,
		Files:          written,
		MaterializedAt: at,
	}, nil
}
