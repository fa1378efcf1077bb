// Package extract implements the per-declaration extraction stage.
//
// Extraction validates one method carrying the marker directive and produces
// either a model.MethodBundle or exactly one diagnostic. Validation order:
//  1. The runtime's marker interface must resolve and the receiver must implement it (ME0001)
//  2. The method must have the registration shape (ME0002)
//  3. NewConfig[Source, Destination] calls in the body are collected; unresolvable
//     type arguments are skipped
//  4. An empty pair set is reported as a warning (ME0003)
//
// Extract is a pure function of its Declaration: it reads only the method's
// syntax and the injected Resolver.
package extract
