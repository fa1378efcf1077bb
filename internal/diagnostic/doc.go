// Package diagnostic provides the fixed catalog of generator diagnostics and
// the positioned values reported by the extraction and codegen stages.
//
// Key capabilities:
//   - Immutable descriptor catalog (ME0001-ME0004)
//   - Content-equatable Diagnostic values anchored by model.LocationInfo
//   - Deterministic ordering for byte-stable reports
//   - Plain and colored text output
package diagnostic
