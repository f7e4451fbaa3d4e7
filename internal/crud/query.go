package crud

import (
	"context"
	"fmt"
	"path"
	"slices"

	"github.com/agentx-labs/zgent/internal/artifact"
	"github.com/agentx-labs/zgent/internal/generator"
	"github.com/agentx-labs/zgent/internal/traffic"
)

// Query lists the artifacts matching every filter of req, ordered by type
// and id, then applies Offset and Limit.
func (e *Engine) Query(ctx context.Context, req QueryRequest) (Result[QueryPage], error) {
	info := traffic.Info{Type: req.Type}
	return traffic.Wrap(ctx, e.traffic, artifact.OpQuery, info, func(ctx context.Context) (Result[QueryPage], error) {
		return e.query(ctx, req)
	})
}

func (e *Engine) query(ctx context.Context, req QueryRequest) (Result[QueryPage], error) {
	res := newResult[QueryPage](artifact.OpQuery, e.now())

	types := artifact.Types()
	if req.Type != "" {
		if !req.Type.Valid() {
			return res.fail(invalidType(req.Type)), nil
		}
		types = []artifact.Type{req.Type}
	}
	if issues := checkQuery(req); len(issues) > 0 {
		return res.fail(validationFailed(issues)), nil
	}

	var matches []Item
	for _, t := range types {
		records, err := e.stores[t].list()
		if err != nil {
			return res, err
		}
		for _, r := range records {
			if matchesQuery(t, r, req) {
				matches = append(matches, Item{
					Type:       t,
					ID:         r.ID,
					Path:       r.Path,
					ModifiedAt: r.ModifiedAt,
					State:      r.State,
				})
			}
		}
	}

	page := QueryPage{Items: []Item{}, Total: len(matches), Offset: req.Offset, Limit: req.Limit}
	if req.Offset < len(matches) {
		end := len(matches)
		if req.Limit > 0 && req.Limit < end-req.Offset {
			end = req.Offset + req.Limit
		}
		page.Items = matches[req.Offset:end]
	}

	if err := e.record(ctx, artifact.OpQuery, req.Type, "", nil, nil); err != nil {
		return res, err
	}
	return res.succeed(page), nil
}

func checkQuery(req QueryRequest) []string {
	var issues []string
	if req.Limit < 0 {
		issues = append(issues, "limit must not be negative")
	}
	if req.Offset < 0 {
		issues = append(issues, "offset must not be negative")
	}
	if req.NamePattern != "" {
		if _, err := path.Match(req.NamePattern, ""); err != nil {
			issues = append(issues, fmt.Sprintf("name pattern %q: %v", req.NamePattern, err))
		}
	}
	if !req.ModifiedAfter.IsZero() && !req.ModifiedBefore.IsZero() && !req.ModifiedAfter.Before(req.ModifiedBefore) {
		issues = append(issues, "modifiedAfter must be earlier than modifiedBefore")
	}
	return issues
}

func matchesQuery(t artifact.Type, r record, req QueryRequest) bool {
	if r.State.Deleted() && !req.IncludeDeleted {
		return false
	}

	name := r.State.String("name")
	if name == "" {
		name = artifact.Name(t, r.ID)
	}
	if req.Name != "" && name != req.Name {
		return false
	}
	if req.NamePattern != "" {
		if ok, _ := path.Match(req.NamePattern, name); !ok {
			return false
		}
	}

	if req.Category != "" {
		category := r.State.String("category")
		if t == artifact.Skill && category == "" {
			category = generator.DefaultSkillCategory
		}
		if category != req.Category {
			return false
		}
	}

	if len(req.Tags) > 0 {
		tags := r.State.Strings("tags")
		for _, want := range req.Tags {
			if !slices.Contains(tags, want) {
				return false
			}
		}
	}

	if !req.ModifiedAfter.IsZero() && !r.ModifiedAt.After(req.ModifiedAfter) {
		return false
	}
	if !req.ModifiedBefore.IsZero() && !r.ModifiedAt.Before(req.ModifiedBefore) {
		return false
	}
	return true
}
