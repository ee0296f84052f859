package idgen

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Generator produces prefixed, time-sortable report IDs.
type Generator struct {
	prefix string
}

// New creates a Generator. IDs look like "<prefix>_01hz...".
func New(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// Generate returns a new ID.
func (g *Generator) Generate() string {
	id := strings.ToLower(ulid.Make().String())
	if g.prefix == "" {
		return id
	}
	return g.prefix + "_" + id
}
