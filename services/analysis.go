package services

import (
	"fmt"
	"log"
	"strings"

	"snpdna/api/models/analysis"
	"snpdna/api/models/dtos"
	"snpdna/api/repositories"

	. "github.com/ahmetb/go-linq"
)

type (
	// AnalysisService is the orchestration façade consumed by the
	// transport layer : it validates submissions, creates the job
	// record, dispatches execution and answers lifecycle queries.
	// It adds no locking of its own beyond what the job repository
	// already guarantees.
	AnalysisService struct {
		Repository repositories.JobRepository
		Executor   *Executor
	}
)

func NewAnalysisService(repo repositories.JobRepository, executor *Executor) *AnalysisService {
	return &AnalysisService{
		Repository: repo,
		Executor:   executor,
	}
}

// Submit validates the input shape, creates the job (state PENDING)
// and hands it to the executor, returning immediately with the
// stored record. No job is created when validation fails.
func (s *AnalysisService) Submit(input analysis.Input) (*analysis.Job, error) {
	if validationErr := validateInput(input); validationErr != nil {
		return nil, validationErr
	}

	job, createErr := s.Repository.Create(input)
	if createErr != nil {
		return nil, &analysis.RequestError{
			Code:    analysis.CodeInternalError,
			Message: fmt.Sprintf("failed to create analysis job: %s", createErr),
		}
	}

	s.Executor.Submit(job)

	return job, nil
}

func (s *AnalysisService) GetStatus(id string) (*analysis.Job, error) {
	return s.Repository.Get(id)
}

// UpdateJob applies the client-driven administrative override. It
// bypasses the execution state machine's guard, so it is logged for
// auditability : an override can mask the true execution state.
func (s *AnalysisService) UpdateJob(id string, patch analysis.Patch) (*analysis.Job, error) {
	if patch.Status != nil {
		log.Printf("ADMIN OVERRIDE: stamping state '%s' onto job %s\n", *patch.Status, id)
	}
	return s.Repository.Update(id, patch)
}

func (s *AnalysisService) DeleteJob(id string) (bool, error) {
	return s.Repository.Delete(id)
}

// Overview aggregates per-state job counts for the overview endpoint.
func (s *AnalysisService) Overview() (*dtos.AnalysisOverviewResponseDTO, error) {
	jobs, listErr := s.Repository.List()
	if listErr != nil {
		return nil, listErr
	}

	stateCounts := map[string]int{}
	From(jobs).
		GroupByT(
			func(job *analysis.Job) string { return string(job.State) },
			func(job *analysis.Job) *analysis.Job { return job }).
		ToMapByT(&stateCounts,
			func(group Group) string { return group.Key.(string) },
			func(group Group) int { return len(group.Group) })

	return &dtos.AnalysisOverviewResponseDTO{
		Total:       len(jobs),
		StateCounts: stateCounts,
	}, nil
}

func validateInput(input analysis.Input) error {
	switch {
	case input.File != nil:
		if len(input.File.Content) == 0 {
			return &analysis.RequestError{
				Code:    analysis.CodeNoFile,
				Message: "No file provided",
			}
		}
	case input.Sequence != nil:
		if len(strings.TrimSpace(input.Sequence.Sequence)) == 0 {
			return &analysis.RequestError{
				Code:    analysis.CodeNoSequence,
				Message: "No sequence provided",
			}
		}
	default:
		return &analysis.RequestError{
			Code:    analysis.CodeInvalidInput,
			Message: "Submission carries neither a file nor a sequence",
		}
	}
	return nil
}
