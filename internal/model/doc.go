// Package model provides the immutable values exchanged between pipeline stages.
//
// Every value here is compared by content, never by identity, so that a stage
// whose input equals the previous run's input can be skipped.
//
// Key types:
//   - TypeIdentity: fully qualified type name plus derived display parts
//   - TypePair: source and destination declared by one registration call
//   - Array: ordered sequence compared element by element
//   - LocationInfo: position snapshot that keeps no reference into the syntax tree
//   - MethodBundle: validated output of one registration method
//   - PerSourceGroup: all destinations of one source type, the unit of codegen
package model
