// Package group implements the grouping stage: a pure reduction that merges
// every bundle of one pipeline run into one PerSourceGroup per source type.
package group
