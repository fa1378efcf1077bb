package diagnostic

import (
	"maps"
	"slices"
)

// ID is the stable identifier of a diagnostic kind.
type ID string

// Category groups every descriptor reported by the generator.
const Category = "Generate"

const (
	MissingMarkerInterface ID = "ME0001"
	InvalidSignature       ID = "ME0002"
	EmptyConfiguration     ID = "ME0003"
	NameCollision          ID = "ME0004"
)

// Descriptor describes one kind of diagnostic.
type Descriptor struct {
	ID            ID
	Title         string
	MessageFormat string // fmt format taking the diagnostic arguments in order
	Category      string
	Severity      DiagnosticSeverity
	Description   string
}

// catalog is filled once at package initialization and never written again.
var catalog = map[ID]Descriptor{
	MissingMarkerInterface: {
		ID:            MissingMarkerInterface,
		Title:         "Missing marker interface",
		MessageFormat: "Type '%s' must implement the required marker interface to use the registration annotation",
		Category:      Category,
		Severity:      DiagnosticError,
		Description:   "Extension generation requires the receiver type to implement the runtime's marker interface.",
	},
	InvalidSignature: {
		ID:            InvalidSignature,
		Title:         "Incorrect registration signature",
		MessageFormat: "Registration method signature must be: func (T) Register(config *TypeAdapterConfig)",
		Category:      Category,
		Severity:      DiagnosticError,
		Description:   "The registration method must be exported, return nothing and take a single *TypeAdapterConfig.",
	},
	EmptyConfiguration: {
		ID:            EmptyConfiguration,
		Title:         "Empty mapping configuration",
		MessageFormat: "No mappings found in '%s' - add at least one registration call",
		Category:      Category,
		Severity:      DiagnosticWarning,
		Description:   "At least one NewConfig[Source, Destination] call is required to generate extension methods.",
	},
	NameCollision: {
		ID:            NameCollision,
		Title:         "Method name conflict detected",
		MessageFormat: "Cannot generate distinct methods for type '%s' mapping to multiple '%s' types",
		Category:      Category,
		Severity:      DiagnosticError,
		Description:   "Destination types with identical names from different packages create method name conflicts.",
	},
}

// Lookup returns the descriptor registered for id.
func Lookup(id ID) (Descriptor, bool) {
	d, ok := catalog[id]
	return d, ok
}

// Descriptors returns every descriptor ordered by ID.
func Descriptors() []Descriptor {
	ids := slices.Sorted(maps.Keys(catalog))

	out := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, catalog[id])
	}

	return out
}
