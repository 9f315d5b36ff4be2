package memory

import (
	"sync"
	"time"

	"snpdna/api/ids"
	"snpdna/api/models/analysis"
	"snpdna/api/models/constants"
	analysisState "snpdna/api/models/constants/analysis-state"
	"snpdna/api/repositories"
)

type (
	// record wraps a job with its own mutex so that operations on
	// unrelated jobs never contend; the repository-level RWMutex
	// only guards map membership.
	record struct {
		mux     sync.Mutex
		deleted bool
		job     analysis.Job
	}

	JobRepository struct {
		jobsMux sync.RWMutex
		jobs    map[string]*record
	}
)

func NewJobRepository() *JobRepository {
	return &JobRepository{
		jobs: map[string]*record{},
	}
}

func (r *JobRepository) Create(input analysis.Input) (*analysis.Job, error) {
	now := time.Now()
	rec := &record{
		job: analysis.Job{
			Id:        ids.NewAnalysisId(),
			State:     analysisState.Pending,
			Input:     input,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	r.jobsMux.Lock()
	// analysis ids are unique with overwhelming probability; an id
	// is never reused after deletion because deleted records simply
	// leave the map and generation never repeats
	r.jobs[rec.job.Id] = rec
	r.jobsMux.Unlock()

	jobCopy := rec.job
	return &jobCopy, nil
}

func (r *JobRepository) Get(id string) (*analysis.Job, error) {
	rec, ok := r.lookup(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}

	rec.mux.Lock()
	defer rec.mux.Unlock()
	if rec.deleted {
		return nil, repositories.ErrNotFound
	}

	jobCopy := rec.job
	return &jobCopy, nil
}

func (r *JobRepository) Transition(id string, fromStates []constants.AnalysisState, toState constants.AnalysisState, mutate func(*analysis.Job)) (*analysis.Job, error) {
	rec, ok := r.lookup(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}

	rec.mux.Lock()
	defer rec.mux.Unlock()
	if rec.deleted {
		return nil, repositories.ErrNotFound
	}

	if !stateInSlice(rec.job.State, fromStates) {
		return nil, repositories.ErrConflict
	}

	rec.job.State = toState
	if mutate != nil {
		mutate(&rec.job)
	}
	rec.job.UpdatedAt = time.Now()

	jobCopy := rec.job
	return &jobCopy, nil
}

func (r *JobRepository) Update(id string, patch analysis.Patch) (*analysis.Job, error) {
	rec, ok := r.lookup(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}

	rec.mux.Lock()
	defer rec.mux.Unlock()
	if rec.deleted {
		return nil, repositories.ErrNotFound
	}

	if patch.Status != nil {
		rec.job.State = constants.AnalysisState(*patch.Status)
	}
	if patch.Notes != nil {
		rec.job.Notes = *patch.Notes
	}
	rec.job.UpdatedAt = time.Now()

	jobCopy := rec.job
	return &jobCopy, nil
}

func (r *JobRepository) Delete(id string) (bool, error) {
	r.jobsMux.Lock()
	rec, ok := r.jobs[id]
	if ok {
		delete(r.jobs, id)
	}
	r.jobsMux.Unlock()

	if !ok {
		return false, nil
	}

	// mark the record itself so that an in-flight transition or
	// update holding this *record fails with not-found rather than
	// writing into a resurrected copy
	rec.mux.Lock()
	alreadyDeleted := rec.deleted
	rec.deleted = true
	rec.mux.Unlock()

	return !alreadyDeleted, nil
}

func (r *JobRepository) List() ([]*analysis.Job, error) {
	r.jobsMux.RLock()
	records := make([]*record, 0, len(r.jobs))
	for _, rec := range r.jobs {
		records = append(records, rec)
	}
	r.jobsMux.RUnlock()

	jobs := make([]*analysis.Job, 0, len(records))
	for _, rec := range records {
		rec.mux.Lock()
		if !rec.deleted {
			jobCopy := rec.job
			jobs = append(jobs, &jobCopy)
		}
		rec.mux.Unlock()
	}
	return jobs, nil
}

func (r *JobRepository) lookup(id string) (*record, bool) {
	r.jobsMux.RLock()
	defer r.jobsMux.RUnlock()

	rec, ok := r.jobs[id]
	return rec, ok
}

func stateInSlice(a constants.AnalysisState, list []constants.AnalysisState) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}
