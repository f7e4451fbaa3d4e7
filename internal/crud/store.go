package crud

import (
	"errors"
	"time"

	"github.com/agentx-labs/zgent/internal/artifact"
)

// errNoArtifact is returned by a store when an id has no stored artifact.
var errNoArtifact = errors.New("artifact does not exist")

// record is a stored artifact.
type record struct {
	ID         string
	Path       string
	ModifiedAt time.Time
	State      artifact.State
}

// store persists the artifacts of one type.
type store interface {
	// path returns where id is stored.
	path(id string) string
	// load returns errNoArtifact when id is absent.
	load(id string) (record, error)
	save(id string, state artifact.State) error
	// remove returns errNoArtifact when id is absent.
	remove(id string) error
	list() ([]record, error)
}

func newStore(root string, t artifact.Type) store {
	switch t {
	case artifact.Hook:
		return newHookStore(root)
	case artifact.McpServer:
		return newMcpServerStore(root)
	default:
		return &markdownStore{root: root, typ: t}
	}
}
