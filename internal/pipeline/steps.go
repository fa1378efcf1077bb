package pipeline

// Tracked step names.
const (
	StepTransform   = "Transform"
	StepGroups      = "Groups"
	StepRender      = "Render"
	StepDiagnostics = "Diagnostics"
)

//go:generate go tool stringer -type=Reason -trimprefix=Reason -output=reason_string.go

// Reason tells why a step output has its value in the current run.
type Reason int

const (
	// ReasonNew is an output with no counterpart in the previous run.
	ReasonNew Reason = iota
	// ReasonCached is an output reused without recomputation.
	ReasonCached
	// ReasonUnchanged is a recomputed output equal to the previous one.
	ReasonUnchanged
	// ReasonModified is a recomputed output that differs from the previous one.
	ReasonModified
	// ReasonRemoved is a previous output with no counterpart in this run.
	ReasonRemoved
)

// StepRun records one output of a tracked step.
type StepRun struct {
	Step   string
	Index  int
	Reason Reason
}

type equatable[T any] interface {
	Equal(other T) bool
}

// recomputed classifies a freshly computed output against the previous run's
// output at the same index.
func recomputed[T equatable[T]](prev []T, i int, out T) Reason {
	if i >= len(prev) {
		return ReasonNew
	}

	if out.Equal(prev[i]) {
		return ReasonUnchanged
	}

	return ReasonModified
}

// removed records the previous outputs beyond the current count.
func removed(step string, prevLen, curLen int) []StepRun {
	var runs []StepRun
	for i := curLen; i < prevLen; i++ {
		runs = append(runs, StepRun{Step: step, Index: i, Reason: ReasonRemoved})
	}

	return runs
}
