// Package gen provides the collision check and deterministic Go code
// generation for per-source conversion groups.
//
// Generation uses text/template + go/format. Every group yields one file
// holding a <Source>Extensions container with one To<Destination> method per
// destination, each delegating to the runtime's generic Adapt function.
//
// Writers refuse file names the go command would exclude from builds, and
// Marker prunes generated files that a run no longer produces.
package gen
