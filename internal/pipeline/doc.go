// Package pipeline runs extraction, grouping and codegen over a set of
// declarations and caches every stage between runs.
//
// Extraction results are keyed by declaration key, grouping is reused while
// the joined bundles are equal, and rendered files are keyed by the group's
// content digest. Every run reports, per tracked step, why each output was
// produced.
package pipeline
