package repositories

import (
	"errors"

	"snpdna/api/models/analysis"
	"snpdna/api/models/constants"
)

var (
	// ErrNotFound : the referenced job does not exist (or was deleted)
	ErrNotFound = errors.New("job not found")

	// ErrConflict : a guarded transition lost a race to a concurrent
	// transition (the current state was not in the allowed from-set)
	ErrConflict = errors.New("job state conflict")
)

/*
JobRepository owns all analysis job records. Every operation
against a given job id is atomic with respect to all other
operations on that same id; callers never observe half-written
state and never resurrect a deleted record.
*/
type JobRepository interface {
	// Create allocates a fresh id, inserts the record in state
	// PENDING and returns the stored record.
	Create(input analysis.Input) (*analysis.Job, error)

	// Get returns the current committed record, or ErrNotFound.
	Get(id string) (*analysis.Job, error)

	// Transition is a compare-and-swap style guarded state change :
	// it succeeds only if the current state is in fromStates, and
	// applies mutate atomically with the state change. Returns
	// ErrConflict when the guard fails, ErrNotFound when the record
	// is absent.
	Transition(id string, fromStates []constants.AnalysisState, toState constants.AnalysisState, mutate func(*analysis.Job)) (*analysis.Job, error)

	// Update is the client-driven administrative override; it does
	// not go through the fromStates guard.
	Update(id string, patch analysis.Patch) (*analysis.Job, error)

	// Delete removes the record; idempotent (a second delete of the
	// same id returns false, not an error).
	Delete(id string) (bool, error)

	// List returns a snapshot of all current records.
	List() ([]*analysis.Job, error)
}
