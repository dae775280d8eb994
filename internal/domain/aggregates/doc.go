// Package aggregates defines domain-facing aggregate contracts and the error
// taxonomy shared by the grading, progress and streak engines.
//
// Contracts avoid persistence/transport details and represent semantic write
// boundaries where invariants must be enforced atomically.
package aggregates
