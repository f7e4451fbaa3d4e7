package crud

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/agentx-labs/zgent/internal/artifact"
	"github.com/agentx-labs/zgent/internal/fsutil"
)

// contentField holds the markdown body of a file-backed artifact.
const contentField = "content"

const frontmatterDelim = "---"

// markdownStore keeps one markdown file per artifact.
type markdownStore struct {
	root string
	typ  artifact.Type
}

func (s *markdownStore) path(id string) string {
	p, _ := artifact.Path(s.root, s.typ, id)
	return p
}

func (s *markdownStore) load(id string) (record, error) {
	p := s.path(id)
	raw, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return record{}, errNoArtifact
	}
	if err != nil {
		return record{}, fmt.Errorf("reading %s: %w", p, err)
	}
	info, err := os.Stat(p)
	if err != nil {
		return record{}, fmt.Errorf("stat %s: %w", p, err)
	}

	state, err := parseMarkdown(raw, artifact.Name(s.typ, id))
	if err != nil {
		return record{}, fmt.Errorf("parsing %s: %w", p, err)
	}
	return record{ID: id, Path: p, ModifiedAt: info.ModTime(), State: state}, nil
}

func (s *markdownStore) save(id string, state artifact.State) error {
	data, err := renderMarkdown(state)
	if err != nil {
		return fmt.Errorf("encoding %s %s: %w", s.typ, id, err)
	}
	return fsutil.WriteFileAtomic(s.path(id), data)
}

func (s *markdownStore) remove(id string) error {
	p := s.path(id)
	err := os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return errNoArtifact
	}
	if err != nil {
		return fmt.Errorf("removing %s: %w", p, err)
	}
	if s.typ == artifact.Skill {
		// The per-skill directory; left alone if anything else lives there.
		_ = os.Remove(filepath.Dir(p))
	}
	return nil
}

func (s *markdownStore) list() ([]record, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}
	records := make([]record, 0, len(ids))
	for _, id := range ids {
		r, err := s.load(id)
		if errors.Is(err, errNoArtifact) {
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// ids lists stored ids in lexical order.
func (s *markdownStore) ids() ([]string, error) {
	var pattern string
	switch s.typ {
	case artifact.Skill:
		pattern = filepath.Join(s.root, "skills", "*", "*", "SKILL.md")
	default:
		rel, err := artifact.RelPath(s.typ, "*")
		if err != nil {
			return nil, err
		}
		pattern = filepath.Join(s.root, filepath.FromSlash(rel))
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		var id string
		if s.typ == artifact.Skill {
			dir := filepath.Dir(m)
			id = artifact.SkillID(filepath.Base(filepath.Dir(dir)), filepath.Base(dir))
		} else {
			id = strings.TrimSuffix(filepath.Base(m), ".md")
		}
		if artifact.ValidateID(s.typ, id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// parseMarkdown splits YAML frontmatter from the body. A file without
// frontmatter, such as materialized output, reads as {name, content}.
func parseMarkdown(raw []byte, name string) (artifact.State, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")

	front, body, ok := splitFrontmatter(text)
	if !ok {
		return artifact.State{"name": name, contentField: text}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(front), &fields); err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}
	state, err := artifact.Normalize(fields)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = artifact.State{}
	}
	if body != "" {
		state[contentField] = body
	}
	if _, ok := state["name"]; !ok {
		state["name"] = name
	}
	return state, nil
}

func splitFrontmatter(text string) (front, body string, ok bool) {
	if !strings.HasPrefix(text, frontmatterDelim+"\n") {
		return "", "", false
	}
	rest := text[len(frontmatterDelim)+1:]
	if rest == frontmatterDelim {
		return "", "", true
	}
	if strings.HasPrefix(rest, frontmatterDelim+"\n") {
		return "", rest[len(frontmatterDelim)+1:], true
	}
	end := strings.Index(rest, "\n"+frontmatterDelim+"\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n"+frontmatterDelim) {
			return rest[:len(rest)-len(frontmatterDelim)-1], "", true
		}
		return "", "", false
	}
	return rest[:end], rest[end+len(frontmatterDelim)+2:], true
}

// renderMarkdown writes every field but content as frontmatter, keys sorted,
// followed by the content verbatim.
func renderMarkdown(state artifact.State) ([]byte, error) {
	fields := make(map[string]any, len(state))
	for k, v := range state {
		if k != contentField {
			fields[k] = v
		}
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelim + "\n")
	if len(fields) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fields); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}
	buf.WriteString(frontmatterDelim + "\n")
	if content, ok := state[contentField].(string); ok {
		buf.WriteString(content)
	}
	return buf.Bytes(), nil
}
