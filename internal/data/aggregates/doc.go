// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations in this package compose table-level repos from internal/data/repos
// and own transaction boundaries for writes that must land atomically: a graded
// attempt with all of its answers, and an unenrollment with its lesson progress.
package aggregates
