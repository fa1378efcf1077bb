package diagnostic

import (
	"cmp"
	"fmt"
	"slices"

	"mapext/internal/common"
	"mapext/internal/model"
)

// Diagnostics holds every diagnostic reported by one pipeline run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single positioned diagnostic.
type Diagnostic struct {
	// ID identifies the descriptor this diagnostic was created from.
	ID ID
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Message is the descriptor format applied to Args.
	Message string
	// Location anchors the diagnostic in source.
	Location model.LocationInfo
	// Args are the message arguments, kept for equality.
	Args []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// New creates a diagnostic from the catalog entry for id.
// It panics if id is not in the catalog.
func New(id ID, loc model.LocationInfo, args ...string) Diagnostic {
	desc, ok := Lookup(id)
	if !ok {
		panic(fmt.Sprintf("diagnostic: unknown descriptor %q", id))
	}

	fmtArgs := make([]any, len(args))
	for i, a := range args {
		fmtArgs[i] = a
	}

	return Diagnostic{
		ID:       id,
		Severity: desc.Severity,
		Message:  fmt.Sprintf(desc.MessageFormat, fmtArgs...),
		Location: loc,
		Args:     slices.Clone(args),
	}
}

// Equal compares diagnostics by descriptor, location and arguments.
func (d Diagnostic) Equal(other Diagnostic) bool {
	return d.ID == other.ID &&
		d.Severity == other.Severity &&
		d.Location.Equal(other.Location) &&
		slices.Equal(d.Args, other.Args)
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	msg := d.Message
	if d.ID != "" {
		msg = fmt.Sprintf("%s %s: %s", d.Severity, d.ID, msg)
	}

	if d.Location.IsZero() {
		return msg
	}

	return d.Location.String() + ": " + msg
}

// Compare orders diagnostics by location, then ID, then arguments.
func Compare(a, b Diagnostic) int {
	if c := model.CompareLocations(a.Location, b.Location); c != 0 {
		return c
	}

	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}

	return slices.Compare(a.Args, b.Args)
}

// Add adds a diagnostic to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Len returns the total number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// Sort orders each severity list with Compare.
func (d *Diagnostics) Sort() {
	slices.SortStableFunc(d.Errors, Compare)
	slices.SortStableFunc(d.Warnings, Compare)
	slices.SortStableFunc(d.Infos, Compare)
}

// All returns every diagnostic ordered with Compare, regardless of severity.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, d.Len())
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)
	all = append(all, d.Infos...)
	slices.SortStableFunc(all, Compare)

	return all
}
