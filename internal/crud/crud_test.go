package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/zgent/internal/artifact"
	"github.com/agentx-labs/zgent/internal/traffic"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, string) {
	t.Helper()
	root := t.TempDir()
	return NewEngine(root, opts...), root
}

func mustCreate(t *testing.T, e *Engine, typ artifact.Type, id string, state artifact.State) Result[artifact.State] {
	t.Helper()
	res, err := e.Create(context.Background(), CreateRequest{Type: typ, ID: id, State: state})
	require.NoError(t, err)
	require.True(t, res.Success, "create %s %s: %+v", typ, id, res.Error)
	return res
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCreate_DuplicateLeavesFileUnchanged(t *testing.T) {
	e, root := newTestEngine(t)
	ctx := context.Background()

	first, err := e.Create(ctx, CreateRequest{Type: artifact.Rule, ID: "x", State: artifact.State{"content": "first\n"}})
	require.NoError(t, err)
	require.True(t, first.Success)
	path := filepath.Join(root, "rules", "x.md")
	before := readFile(t, path)

	second, err := e.Create(ctx, CreateRequest{Type: artifact.Rule, ID: "x", State: artifact.State{"content": "second\n"}})
	require.NoError(t, err)

	assert.False(t, second.Success)
	require.NotNil(t, second.Error)
	assert.Equal(t, CodeDuplicate, second.Error.Code)
	assert.Equal(t, TargetDetail{Type: artifact.Rule, ID: "x", Path: path}, second.Error.Detail)
	assert.Equal(t, before, readFile(t, path))
}

func TestCreate_WritesFrontmatter(t *testing.T) {
	e, root := newTestEngine(t)

	res := mustCreate(t, e, artifact.Agent, "reviewer", artifact.State{
		"description": "Reviews changes",
		"tools":       []string{"Read", "Grep"},
		"content":     "# reviewer\n\nBe thorough.\n",
	})

	path := filepath.Join(root, "agents", "reviewer.md")
	assert.Equal(t, path, res.Path)
	assert.NotEmpty(t, res.LogID)
	assert.Nil(t, res.BeforeState)

	raw := readFile(t, path)
	assert.True(t, strings.HasPrefix(raw, "---\n"))
	assert.Contains(t, raw, "name: reviewer\n")
	assert.True(t, strings.HasSuffix(raw, "---\n# reviewer\n\nBe thorough.\n"))

	got, err := e.Read(context.Background(), ReadRequest{Type: artifact.Agent, ID: "reviewer"})
	require.NoError(t, err)
	require.True(t, got.Success)
	assert.Equal(t, "reviewer", got.Data.String("name"))
	assert.Equal(t, []string{"Read", "Grep"}, got.Data.Strings("tools"))
	assert.Equal(t, "# reviewer\n\nBe thorough.\n", got.Data.String("content"))
}

func TestCreate_Skill(t *testing.T) {
	e, root := newTestEngine(t)

	res := mustCreate(t, e, artifact.Skill, "core/lint", artifact.State{"version": "1.2.0", "content": "Run the linter."})

	assert.Equal(t, filepath.Join(root, "skills", "core", "lint", "SKILL.md"), res.Path)
	assert.Equal(t, "lint", res.Data.String("name"))
	assert.Equal(t, "core", res.Data.String("category"))
}

func TestSkill_DefaultCategorySpellingsShareOneID(t *testing.T) {
	e, root := newTestEngine(t)
	ctx := context.Background()

	created := mustCreate(t, e, artifact.Skill, "general/lint", artifact.State{"content": "a"})
	assert.Equal(t, filepath.Join(root, "skills", "general", "lint", "SKILL.md"), created.Path)

	dup, err := e.Create(ctx, CreateRequest{Type: artifact.Skill, ID: "lint"})
	require.NoError(t, err)
	assert.Equal(t, CodeDuplicate, dup.Error.Code)

	_, err = e.Update(ctx, UpdateRequest{Type: artifact.Skill, ID: "lint", Changes: artifact.State{"content": "b"}})
	require.NoError(t, err)

	byArtifact := e.ArtifactHistory("lint")
	require.Len(t, byArtifact, 2)
	assert.Equal(t, created.LogID, byArtifact[1].OperationID)
	assert.Empty(t, e.ArtifactHistory("general/lint"))

	page, err := e.Query(ctx, QueryRequest{Type: artifact.Skill})
	require.NoError(t, err)
	require.Len(t, page.Data.Items, 1)
	assert.Equal(t, "lint", page.Data.Items[0].ID)
}

func TestCreate_Rejections(t *testing.T) {
	e, root := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
		code ErrorCode
	}{
		{"unknown type", CreateRequest{Type: "plugin", ID: "p"}, CodeInvalidType},
		{"bad id", CreateRequest{Type: artifact.Agent, ID: "../escape"}, CodeValidation},
		{"bad version", CreateRequest{Type: artifact.Skill, ID: "s", State: artifact.State{"version": "one"}}, CodeValidation},
		{"name mismatch", CreateRequest{Type: artifact.Agent, ID: "a", State: artifact.State{"name": "b"}}, CodeValidation},
		{"category mismatch", CreateRequest{Type: artifact.Skill, ID: "core/s", State: artifact.State{"category": "ops"}}, CodeValidation},
		{"tags not strings", CreateRequest{Type: artifact.Rule, ID: "r", State: artifact.State{"tags": []any{1}}}, CodeValidation},
		{"reserved field", CreateRequest{Type: artifact.Rule, ID: "r", State: artifact.State{"deleted": true}}, CodeValidation},
		{"hook without event", CreateRequest{Type: artifact.Hook, ID: "fmt"}, CodeValidation},
		{"mcp without command", CreateRequest{Type: artifact.McpServer, ID: "files"}, CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Create(ctx, tt.req)
			require.NoError(t, err)
			assert.False(t, res.Success)
			require.NotNil(t, res.Error)
			assert.Equal(t, tt.code, res.Error.Code)
			if tt.code == CodeValidation {
				detail, ok := res.Error.Detail.(ValidationDetail)
				require.True(t, ok, "detail = %T", res.Error.Detail)
				assert.NotEmpty(t, detail.Issues)
			}
		})
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected creates must not write")
	size, _ := e.HistorySize()
	assert.Zero(t, size)
}

func TestCreate_DryRunAndOverwrite(t *testing.T) {
	e, root := newTestEngine(t)
	ctx := context.Background()
	path := filepath.Join(root, "contexts", "glossary.md")

	dry, err := e.Create(ctx, CreateRequest{Type: artifact.Context, ID: "glossary", State: artifact.State{"content": "v1"}, DryRun: true})
	require.NoError(t, err)
	assert.True(t, dry.Success)
	assert.Equal(t, "v1", dry.AfterState["content"])
	assert.NoFileExists(t, path)

	mustCreate(t, e, artifact.Context, "glossary", artifact.State{"content": "v1"})
	over, err := e.Create(ctx, CreateRequest{Type: artifact.Context, ID: "glossary", State: artifact.State{"content": "v2"}, Overwrite: true})
	require.NoError(t, err)
	require.True(t, over.Success)
	assert.Equal(t, "v1", over.BeforeState["content"])
	assert.Contains(t, readFile(t, path), "v2")

	size, _ := e.HistorySize()
	assert.Equal(t, 2, size, "dry runs are not recorded")
}

func TestRead_PlainMarkdown(t *testing.T) {
	e, root := newTestEngine(t)
	path := filepath.Join(root, "agents", "a1.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("# a1\n\nMaterialized body.\n"), 0644))

	res, err := e.Read(context.Background(), ReadRequest{Type: artifact.Agent, ID: "a1"})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, artifact.State{"name": "a1", "content": "# a1\n\nMaterialized body.\n"}, res.Data)
}

func TestRead_NotFound(t *testing.T) {
	e, _ := newTestEngine(t)

	res, err := e.Read(context.Background(), ReadRequest{Type: artifact.Command, ID: "missing"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, CodeNotFound, res.Error.Code)
}

func TestUpdate(t *testing.T) {
	e, root := newTestEngine(t)
	ctx := context.Background()
	mustCreate(t, e, artifact.Command, "review", artifact.State{"description": "Review", "argumentHint": "<pr>", "content": "body"})

	t.Run("merge", func(t *testing.T) {
		res, err := e.Update(ctx, UpdateRequest{Type: artifact.Command, ID: "review", Changes: artifact.State{"content": "new body", "argumentHint": nil}})
		require.NoError(t, err)
		require.True(t, res.Success)
		assert.Equal(t, "Review", res.Data["description"])
		assert.Equal(t, "new body", res.Data["content"])
		assert.NotContains(t, res.Data, "argumentHint")
		assert.Equal(t, "body", res.BeforeState["content"])
	})

	t.Run("dry run", func(t *testing.T) {
		before := readFile(t, filepath.Join(root, "commands", "review.md"))
		res, err := e.Update(ctx, UpdateRequest{Type: artifact.Command, ID: "review", Changes: artifact.State{"content": "draft"}, DryRun: true})
		require.NoError(t, err)
		require.True(t, res.Success)
		assert.Equal(t, "draft", res.AfterState["content"])
		assert.Equal(t, before, readFile(t, filepath.Join(root, "commands", "review.md")))
	})

	t.Run("replace", func(t *testing.T) {
		res, err := e.Update(ctx, UpdateRequest{Type: artifact.Command, ID: "review", Changes: artifact.State{"content": "only"}, Replace: true})
		require.NoError(t, err)
		require.True(t, res.Success)
		assert.Equal(t, artifact.State{"name": "review", "content": "only"}, res.Data)
	})

	t.Run("invalid result", func(t *testing.T) {
		res, err := e.Update(ctx, UpdateRequest{Type: artifact.Command, ID: "review", Changes: artifact.State{"version": "x.y"}})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, CodeValidation, res.Error.Code)
	})

	t.Run("missing", func(t *testing.T) {
		res, err := e.Update(ctx, UpdateRequest{Type: artifact.Command, ID: "nope", Changes: artifact.State{"content": "x"}})
		require.NoError(t, err)
		assert.Equal(t, CodeNotFound, res.Error.Code)
	})
}

func TestDelete(t *testing.T) {
	clock := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	e, root := newTestEngine(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()
	path := filepath.Join(root, "rules", "style.md")

	mustCreate(t, e, artifact.Rule, "style", artifact.State{"content": "Use gofmt."})

	soft, err := e.Delete(ctx, DeleteRequest{Type: artifact.Rule, ID: "style", Soft: true})
	require.NoError(t, err)
	require.True(t, soft.Success)
	assert.Equal(t, Deletion{Type: artifact.Rule, ID: "style", Soft: true}, soft.Data)
	assert.FileExists(t, path)
	assert.Equal(t, true, soft.AfterState["deleted"])
	assert.Equal(t, "2026-05-04T10:00:00Z", soft.AfterState["deletedAt"])

	hidden, err := e.Read(ctx, ReadRequest{Type: artifact.Rule, ID: "style"})
	require.NoError(t, err)
	assert.Equal(t, CodeNotFound, hidden.Error.Code)

	shown, err := e.Read(ctx, ReadRequest{Type: artifact.Rule, ID: "style", IncludeDeleted: true})
	require.NoError(t, err)
	require.True(t, shown.Success)
	assert.True(t, shown.Data.Deleted())

	again, err := e.Delete(ctx, DeleteRequest{Type: artifact.Rule, ID: "style", Soft: true})
	require.NoError(t, err)
	assert.Equal(t, CodeNotFound, again.Error.Code)

	hard, err := e.Delete(ctx, DeleteRequest{Type: artifact.Rule, ID: "style"})
	require.NoError(t, err)
	require.True(t, hard.Success)
	assert.Nil(t, hard.AfterState)
	assert.NoFileExists(t, path)

	gone, err := e.Delete(ctx, DeleteRequest{Type: artifact.Rule, ID: "style"})
	require.NoError(t, err)
	assert.Equal(t, CodeNotFound, gone.Error.Code)
}

func TestDelete_SkillRemovesDirectory(t *testing.T) {
	e, root := newTestEngine(t)
	mustCreate(t, e, artifact.Skill, "core/lint", artifact.State{"content": "x"})

	res, err := e.Delete(context.Background(), DeleteRequest{Type: artifact.Skill, ID: "core/lint"})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.NoDirExists(t, filepath.Join(root, "skills", "core", "lint"))
}

func TestHooks_SharedDocument(t *testing.T) {
	e, root := newTestEngine(t)
	ctx := context.Background()
	path := filepath.Join(root, "hooks", "hooks.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{
  // written by hand
  "version": 1,
  "hooks": [{"name": "lint", "event": "PreToolUse", "actions": [{"type": "command", "command": "golangci-lint run"}]}],
}`), 0644))

	mustCreate(t, e, artifact.Hook, "fmt", artifact.State{"event": "PostToolUse", "matcher": "Edit"})

	var doc struct {
		Version float64          `json:"version"`
		Hooks   []map[string]any `json:"hooks"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, path)), &doc))
	assert.Equal(t, float64(1), doc.Version, "unrelated keys are preserved")
	require.Len(t, doc.Hooks, 2)
	assert.Equal(t, "lint", doc.Hooks[0]["name"])
	assert.Equal(t, "fmt", doc.Hooks[1]["name"])

	upd, err := e.Update(ctx, UpdateRequest{Type: artifact.Hook, ID: "fmt", Changes: artifact.State{"matcher": "Write"}})
	require.NoError(t, err)
	require.True(t, upd.Success)

	del, err := e.Delete(ctx, DeleteRequest{Type: artifact.Hook, ID: "lint"})
	require.NoError(t, err)
	require.True(t, del.Success)

	got, err := e.Read(ctx, ReadRequest{Type: artifact.Hook, ID: "fmt"})
	require.NoError(t, err)
	require.True(t, got.Success)
	assert.Equal(t, "Write", got.Data["matcher"])

	_, err = e.Read(ctx, ReadRequest{Type: artifact.Hook, ID: "lint"})
	require.NoError(t, err)
}

func TestMcpServers_SettingsMap(t *testing.T) {
	e, root := newTestEngine(t)
	ctx := context.Background()
	path := filepath.Join(root, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"permissions": {"allow": ["Read"], "deny": []}}`), 0644))

	res := mustCreate(t, e, artifact.McpServer, "files", artifact.State{"command": "mcp-files", "args": []string{"--root", "."}})
	assert.Equal(t, path, res.Path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, path)), &doc))
	assert.Contains(t, doc, "permissions")
	servers := doc["mcpServers"].(map[string]any)
	files := servers["files"].(map[string]any)
	assert.Equal(t, "mcp-files", files["command"])
	assert.NotContains(t, files, "name", "the map key carries the name")

	got, err := e.Read(ctx, ReadRequest{Type: artifact.McpServer, ID: "files"})
	require.NoError(t, err)
	require.True(t, got.Success)
	assert.Equal(t, "files", got.Data["name"])

	diffEntry := e.RecentOperations(2)[1]
	require.NotNil(t, diffEntry.Diff)
	assert.True(t, diffEntry.Diff.IsStructuralChange)
}

func TestQuery(t *testing.T) {
	e, root := newTestEngine(t)
	ctx := context.Background()

	mustCreate(t, e, artifact.Skill, "core/lint", artifact.State{"tags": []string{"go", "quality"}})
	mustCreate(t, e, artifact.Skill, "core/test", artifact.State{"tags": []string{"go"}})
	mustCreate(t, e, artifact.Skill, "ops/deploy", artifact.State{"tags": []string{"quality"}})
	mustCreate(t, e, artifact.Agent, "linter", nil)
	mustCreate(t, e, artifact.Hook, "fmt", artifact.State{"event": "PostToolUse"})

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "agents", "linter.md"), old, old))

	_, err := e.Delete(ctx, DeleteRequest{Type: artifact.Skill, ID: "core/test", Soft: true})
	require.NoError(t, err)

	ids := func(req QueryRequest) []string {
		t.Helper()
		res, err := e.Query(ctx, req)
		require.NoError(t, err)
		require.True(t, res.Success, "%+v", res.Error)
		out := []string{}
		for _, item := range res.Data.Items {
			out = append(out, string(item.Type)+":"+item.ID)
		}
		return out
	}

	assert.Equal(t, []string{"agent:linter", "skill:core/lint", "skill:ops/deploy", "hook:fmt"}, ids(QueryRequest{}))
	assert.Equal(t, []string{"skill:core/lint", "skill:core/test", "skill:ops/deploy"}, ids(QueryRequest{Type: artifact.Skill, IncludeDeleted: true}))
	assert.Equal(t, []string{"skill:core/lint"}, ids(QueryRequest{Name: "lint"}))
	assert.Equal(t, []string{"agent:linter", "skill:core/lint"}, ids(QueryRequest{NamePattern: "lint*"}))
	assert.Equal(t, []string{"skill:core/lint"}, ids(QueryRequest{Category: "core"}))
	assert.Equal(t, []string{"skill:core/lint"}, ids(QueryRequest{Tags: []string{"go", "quality"}}))
	assert.Equal(t, []string{"agent:linter"}, ids(QueryRequest{ModifiedBefore: time.Now().Add(-time.Minute)}))
	assert.NotContains(t, ids(QueryRequest{ModifiedAfter: time.Now().Add(-time.Minute)}), "agent:linter")
	assert.Equal(t, []string{"skill:ops/deploy"}, ids(QueryRequest{Type: artifact.Skill, Offset: 1, Limit: 1}))

	page, err := e.Query(ctx, QueryRequest{Type: artifact.Skill, Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Data.Total)

	empty := ids(QueryRequest{Offset: 50})
	assert.Empty(t, empty)

	assert.Equal(t, []string{"skill:ops/deploy"}, ids(QueryRequest{Type: artifact.Skill, Offset: 1, Limit: math.MaxInt}))
	assert.Len(t, ids(QueryRequest{Offset: math.MaxInt, Limit: math.MaxInt}), 0)

	bad, err := e.Query(ctx, QueryRequest{NamePattern: "[", Limit: -1})
	require.NoError(t, err)
	assert.False(t, bad.Success)
	assert.Len(t, bad.Error.Detail.(ValidationDetail).Issues, 2)

	badType, err := e.Query(ctx, QueryRequest{Type: "plugin"})
	require.NoError(t, err)
	assert.Equal(t, CodeInvalidType, badType.Error.Code)
}

func TestHistory(t *testing.T) {
	e, _ := newTestEngine(t, WithHistoryCapacity(3))
	ctx := context.Background()

	created := mustCreate(t, e, artifact.Skill, "s1", artifact.State{"content": "a"})
	updated, err := e.Update(ctx, UpdateRequest{Type: artifact.Skill, ID: "s1", Changes: artifact.State{"content": "b"}})
	require.NoError(t, err)
	read, err := e.Read(ctx, ReadRequest{Type: artifact.Skill, ID: "s1"})
	require.NoError(t, err)

	recent := e.RecentOperations(3)
	require.Len(t, recent, 3)
	assert.Equal(t, read.LogID, recent[0].OperationID)
	assert.Equal(t, updated.LogID, recent[1].OperationID)
	assert.Equal(t, created.LogID, recent[2].OperationID)

	entry, ok := e.FindOperation(updated.LogID)
	require.True(t, ok)
	require.NotNil(t, entry.Diff)
	require.Len(t, entry.Diff.Changes, 1)
	assert.Equal(t, "content", entry.Diff.Changes[0].Field)
	assert.False(t, entry.Diff.IsStructuralChange)

	_, ok = e.UndoCandidate(created.LogID)
	assert.True(t, ok)
	_, ok = e.UndoCandidate(read.LogID)
	assert.False(t, ok)

	byArtifact := e.ArtifactHistory("s1")
	require.Len(t, byArtifact, 2, "reads carry no snapshots")
	assert.Equal(t, updated.LogID, byArtifact[0].OperationID)

	_, err = e.Delete(ctx, DeleteRequest{Type: artifact.Skill, ID: "s1"})
	require.NoError(t, err)
	size, capacity := e.HistorySize()
	assert.Equal(t, 3, size)
	assert.Equal(t, 3, capacity)
	_, ok = e.FindOperation(created.LogID)
	assert.False(t, ok, "oldest entry evicted")
}

func TestExecute(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	requests := []Request{
		CreateRequest{Type: artifact.Rule, ID: "r", State: artifact.State{"content": "x"}},
		ReadRequest{Type: artifact.Rule, ID: "r"},
		UpdateRequest{Type: artifact.Rule, ID: "r", Changes: artifact.State{"content": "y"}},
		QueryRequest{Type: artifact.Rule},
		DeleteRequest{Type: artifact.Rule, ID: "r"},
	}
	for _, req := range requests {
		res, err := e.Execute(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.Success, "%s: %+v", req.Operation(), res.Error)
		assert.Equal(t, req.Operation(), res.Operation)
		assert.NotNil(t, res.Data)
	}
}

func TestTrafficEvents(t *testing.T) {
	var buf bytes.Buffer
	e, _ := newTestEngine(t, WithTraffic(traffic.New(zerolog.New(&buf))))

	res := mustCreate(t, e, artifact.Context, "c", artifact.State{"content": "x"})

	var logIDs []string
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var ev map[string]any
		require.NoError(t, dec.Decode(&ev))
		logIDs = append(logIDs, ev["logId"].(string))
	}
	assert.Equal(t, []string{res.LogID, res.LogID}, logIDs)
}

func TestSystemErrorsPropagate(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0644))
	e := NewEngine(root)

	_, err := e.Create(context.Background(), CreateRequest{Type: artifact.Rule, ID: "r", State: artifact.State{"content": "x"}})
	assert.Error(t, err)
}

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want artifact.State
	}{
		{"plain", "# a\n", artifact.State{"name": "a", "content": "# a\n"}},
		{"frontmatter", "---\nname: a\nmodel: opus\n---\nbody\n", artifact.State{"name": "a", "model": "opus", "content": "body\n"}},
		{"empty frontmatter", "---\n---\nbody", artifact.State{"name": "a", "content": "body"}},
		{"no body", "---\nmodel: opus\n---", artifact.State{"name": "a", "model": "opus"}},
		{"crlf", "---\r\nmodel: opus\r\n---\r\nbody\r\n", artifact.State{"name": "a", "model": "opus", "content": "body\n"}},
		{"unterminated", "---\nmodel: opus\n", artifact.State{"name": "a", "content": "---\nmodel: opus\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMarkdown([]byte(tt.raw), "a")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseMarkdown([]byte("---\n: [\n---\n"), "a")
	assert.Error(t, err)
}

func TestRenderMarkdown_RoundTrip(t *testing.T) {
	state := artifact.State{
		"name":    "a",
		"tools":   []any{"Read"},
		"version": "1.0.0",
		"enabled": "true",
		"timeout": float64(30),
		"content": "# a\n\n```go\nfmt.Println(\"ü\")\n```\n",
	}
	raw, err := renderMarkdown(state)
	require.NoError(t, err)

	got, err := parseMarkdown(raw, "a")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}
