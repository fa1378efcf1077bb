package model

import (
	"cmp"
	"fmt"
	"go/ast"
	"go/token"
)

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// Span is a half-open byte range within a file.
type Span struct {
	Start int
	End   int
}

// LineSpan is the line/column form of a Span.
type LineSpan struct {
	Start Position
	End   Position
}

// LocationInfo is a snapshot of a source position. It carries enough to
// report a diagnostic without holding on to the parsed file.
type LocationInfo struct {
	Path  string
	Span  Span
	Lines LineSpan
}

// LocationOf snapshots the location of node.
func LocationOf(fset *token.FileSet, node ast.Node) LocationInfo {
	return LocationFromRange(fset, node.Pos(), node.End())
}

// LocationFromRange snapshots the range [pos, end).
func LocationFromRange(fset *token.FileSet, pos, end token.Pos) LocationInfo {
	if fset == nil || !pos.IsValid() {
		return LocationInfo{}
	}

	start := fset.Position(pos)
	stop := start
	if end.IsValid() {
		stop = fset.Position(end)
	}

	return LocationInfo{
		Path: start.Filename,
		Span: Span{Start: start.Offset, End: stop.Offset},
		Lines: LineSpan{
			Start: Position{Line: start.Line, Column: start.Column},
			End:   Position{Line: stop.Line, Column: stop.Column},
		},
	}
}

// IsZero reports whether the location is unset.
func (l LocationInfo) IsZero() bool {
	return l == LocationInfo{}
}

// Equal compares locations field by field.
func (l LocationInfo) Equal(other LocationInfo) bool {
	return l == other
}

// String returns "path:line:column", or "-" for an unset location.
func (l LocationInfo) String() string {
	if l.IsZero() {
		return "-"
	}

	return fmt.Sprintf("%s:%d:%d", l.Path, l.Lines.Start.Line, l.Lines.Start.Column)
}

// CompareLocations orders locations by path, then byte span.
func CompareLocations(a, b LocationInfo) int {
	if c := cmp.Compare(a.Path, b.Path); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Span.Start, b.Span.Start); c != 0 {
		return c
	}

	return cmp.Compare(a.Span.End, b.Span.End)
}
