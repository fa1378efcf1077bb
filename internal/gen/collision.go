package gen

import (
	"mapext/internal/common"
	"mapext/internal/model"
)

// State is the codegen state of one group.
type State int

const (
	StateGrouped State = iota
	StateNameCollision
	StateGenerated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateGrouped:
		return "grouped"
	case StateNameCollision:
		return "name-collision"
	case StateGenerated:
		return "generated"
	default:
		return common.UnknownStr
	}
}

// FindNameCollision returns the first destination short name shared by at
// least two destinations of the group. Destinations are sorted by name, so
// the result is the smallest colliding name.
func FindNameCollision(group model.PerSourceGroup) (string, bool) {
	seen := make(map[string]struct{}, group.Destinations.Len())

	for dest := range group.Destinations.Values() {
		if _, ok := seen[dest.Name]; ok {
			return dest.Name, true
		}

		seen[dest.Name] = struct{}{}
	}

	return "", false
}
