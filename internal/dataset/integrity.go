package dataset

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/agentx-labs/zgent/internal/model"
)

// CheckIntegrity reports dataset-wide problems that the per-document schema
// cannot express: children pointing at unknown plugins, artifact ids reused
// across collections and version strings that are not semver. Problems are
// returned, never raised.
func CheckIntegrity(ds *model.Dataset) []string {
	var problems []string

	plugins := make(map[string]bool, len(ds.Plugins))
	for _, p := range ds.Plugins {
		plugins[p.ID] = true
		if p.Version != "" && !isSemver(p.Version) {
			problems = append(problems, fmt.Sprintf("plugin %q has invalid version %q", p.ID, p.Version))
		}
	}

	for _, z := range ds.Zgents {
		if !plugins[z.PluginID] {
			problems = append(problems, fmt.Sprintf("zgent %q references unknown plugin %q", z.ID, z.PluginID))
		}
	}

	seen := make(map[string]string)
	for _, ref := range ds.Artifacts() {
		if !plugins[ref.PluginID] {
			problems = append(problems, fmt.Sprintf("%s %q references unknown plugin %q", ref.Kind, ref.Name, ref.PluginID))
		}
		if prev, dup := seen[ref.ID]; dup {
			problems = append(problems, fmt.Sprintf("artifact id %q is shared by %s and %s", ref.ID, prev, ref.Kind))
			continue
		}
		seen[ref.ID] = ref.Kind
	}

	for _, s := range ds.Skills {
		if s.Version != "" && !isSemver(s.Version) {
			problems = append(problems, fmt.Sprintf("skill %q has invalid version %q", s.Name, s.Version))
		}
	}

	return problems
}

// isSemver reports whether v parses as a semantic version. A leading "v"
// is tolerated.
func isSemver(v string) bool {
	_, err := semver.NewVersion(v)
	return err == nil
}
