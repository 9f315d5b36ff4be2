package services

import (
	"fmt"
	"log"
	"time"

	"snpdna/api/models/analysis"
	"snpdna/api/models/constants"
	analysisState "snpdna/api/models/constants/analysis-state"
	"snpdna/api/repositories"

	"github.com/cenkalti/backoff"
)

// ComputeFunc is the pluggable variant-analysis computation. It may
// run for a long time; progress is reported through the callback as
// a 0..100 percentage. The built-in simulated pipeline satisfies
// this contract, as would a real calling pipeline.
type ComputeFunc func(input analysis.Input, progress func(int)) (*analysis.Result, error)

type (
	Executor struct {
		Repository repositories.JobRepository
		Compute    ComputeFunc

		// "job execution queue"
		// - manage # of analyses running concurrently at any given time
		ConcurrentAnalysisQueue chan bool
	}
)

func NewExecutor(repo repositories.JobRepository, compute ComputeFunc, concurrencyLevel int) *Executor {
	if concurrencyLevel < 1 {
		concurrencyLevel = 1
	}
	return &Executor{
		Repository:              repo,
		Compute:                 compute,
		ConcurrentAnalysisQueue: make(chan bool, concurrencyLevel),
	}
}

// Submit schedules execution of a PENDING job without blocking the
// caller; the request/response cycle returns while the computation
// runs in the background.
func (x *Executor) Submit(job *analysis.Job) {
	go func(id string) {
		// take a spot in the queue
		x.ConcurrentAnalysisQueue <- true
		// free up a spot in the queue
		defer func() { <-x.ConcurrentAnalysisQueue }()

		x.run(id)
	}(job.Id)
}

func (x *Executor) run(id string) {
	started, transitionErr := x.Repository.Transition(id,
		[]constants.AnalysisState{analysisState.Pending},
		analysisState.Processing,
		func(j *analysis.Job) {
			now := time.Now()
			j.StartedAt = &now
			j.Progress = 0
		})
	if transitionErr == repositories.ErrNotFound {
		// job deleted before execution began
		return
	}
	if transitionErr == repositories.ErrConflict {
		// double-submission of the same id, or an administrative
		// override raced us out of PENDING; either way this run
		// no longer owns the job
		log.Printf("executor: job %s no longer PENDING, dropping run\n", id)
		return
	}
	if transitionErr != nil {
		log.Printf("executor: failed to start job %s: %s\n", id, transitionErr)
		return
	}

	fmt.Printf("[%s] - Begin analysis of %s !\n", time.Now(), id)

	result, computeErr := x.compute(started.Input, func(percent int) {
		x.reportProgress(id, percent)
	})

	if computeErr != nil {
		x.finish(id, analysisState.Failed, func(j *analysis.Job) {
			now := time.Now()
			j.CompletedAt = &now
			j.Progress = 100
			j.Failure = &analysis.Failure{
				Code:    "COMPUTE_FAILED",
				Message: computeErr.Error(),
			}
		})
		return
	}

	x.finish(id, analysisState.Completed, func(j *analysis.Job) {
		now := time.Now()
		j.CompletedAt = &now
		j.Progress = 100
		result.Progress = 100
		j.Result = result
	})
}

// compute invokes the pluggable computation, converting panics into
// ordinary compute failures so a defective pipeline can never crash
// the orchestrator process.
func (x *Executor) compute(input analysis.Input, progress func(int)) (result *analysis.Result, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = nil
			err = fmt.Errorf("computation panic: %v", recovered)
		}
	}()

	return x.Compute(input, progress)
}

// reportProgress commits a partial-progress write so polling clients
// observe forward motion mid-flight. Failures are deliberately
// swallowed : a deleted job or a state override simply stops the
// progress trail.
func (x *Executor) reportProgress(id string, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	_, _ = x.Repository.Transition(id,
		[]constants.AnalysisState{analysisState.Processing},
		analysisState.Processing,
		func(j *analysis.Job) {
			j.Progress = percent
		})
}

// finish commits the terminal transition. A NotFound means the job
// was deleted mid-flight and the outcome is silently discarded; a
// Conflict is retried briefly (an incidental optimistic-concurrency
// loss) before giving way, since a conflicting state was necessarily
// stamped by an administrative override which is allowed to win.
func (x *Executor) finish(id string, terminal constants.AnalysisState, mutate func(*analysis.Job)) {
	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = 10 * time.Millisecond
	retryBackoff.MaxElapsedTime = 2 * time.Second

	finishErr := backoff.Retry(func() error {
		_, transitionErr := x.Repository.Transition(id,
			[]constants.AnalysisState{analysisState.Processing},
			terminal, mutate)
		if transitionErr == repositories.ErrNotFound {
			// deleted while running; cancellation is cooperative
			// and the eventual result is simply dropped
			return nil
		}
		return transitionErr
	}, retryBackoff)

	if finishErr != nil {
		log.Printf("executor: could not finalize job %s as %s: %s\n", id, terminal, finishErr)
	}
}
