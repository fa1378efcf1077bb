// Package frontend adapts a Go host compilation to the extraction stage.
//
// It loads packages with golang.org/x/tools/go/packages (or type-checks
// in-memory sources with go/types), discovers methods carrying the
// generation directive and answers type queries through TypesResolver.
//
// Key types:
//   - Compilation: the file set plus every loaded package
//   - Package: syntax, type information and a content digest
//   - TypesResolver: extract.Resolver over go/types
package frontend
