// Package match provides name normalization and Levenshtein distance for
// suggesting the closest known name to a misspelled one.
//
// Key functions:
//   - Normalize: folds case and drops separators
//   - Levenshtein: computes edit distance between strings
//   - Closest: picks the best candidate above a similarity threshold
package match
