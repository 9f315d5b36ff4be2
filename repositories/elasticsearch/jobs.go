package elasticsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"time"

	"snpdna/api/ids"
	"snpdna/api/models"
	"snpdna/api/models/analysis"
	"snpdna/api/models/constants"
	analysisState "snpdna/api/models/constants/analysis-state"
	"snpdna/api/repositories"

	"github.com/Jeffail/gabs"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
)

const jobsIndex = "analysis-jobs"

// maximum read-modify-write attempts before an optimistic
// concurrency failure is surfaced to the caller
const maxCasAttempts = 5

/*
JobRepository backed by an Elasticsearch 7 index, one document
per job keyed by analysis id. Atomicity of per-id operations is
achieved with Elasticsearch's optimistic concurrency control
(if_seq_no / if_primary_term); a version conflict maps to
repositories.ErrConflict.
*/
type JobRepository struct {
	Config    *models.Config
	Es7Client *es7.Client
}

func NewJobRepository(cfg *models.Config, es *es7.Client) *JobRepository {
	return &JobRepository{
		Config:    cfg,
		Es7Client: es,
	}
}

func (r *JobRepository) Create(input analysis.Input) (*analysis.Job, error) {
	now := time.Now()
	job := analysis.Job{
		Id:        ids.NewAnalysisId(),
		State:     analysisState.Pending,
		Input:     input,
		CreatedAt: now,
		UpdatedAt: now,
	}

	jobData, marshallErr := json.Marshal(job)
	if marshallErr != nil {
		return nil, marshallErr
	}

	// the create op-type refuses to overwrite an existing document,
	// so two calls can never observe each other's half-written state
	res, createErr := r.Es7Client.Create(jobsIndex, job.Id, bytes.NewReader(jobData),
		r.Es7Client.Create.WithRefresh("true"))
	if createErr != nil {
		fmt.Printf("Error indexing job %s: %s\n", job.Id, createErr)
		return nil, createErr
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to create job document : got '%s'", res.Status())
	}

	return &job, nil
}

func (r *JobRepository) Get(id string) (*analysis.Job, error) {
	job, _, _, err := r.getWithConcurrencyMeta(id)
	return job, err
}

func (r *JobRepository) Transition(id string, fromStates []constants.AnalysisState, toState constants.AnalysisState, mutate func(*analysis.Job)) (*analysis.Job, error) {
	job, seqNo, primaryTerm, getErr := r.getWithConcurrencyMeta(id)
	if getErr != nil {
		return nil, getErr
	}

	if !stateInSlice(job.State, fromStates) {
		return nil, repositories.ErrConflict
	}

	job.State = toState
	if mutate != nil {
		mutate(job)
	}
	job.UpdatedAt = time.Now()

	if indexErr := r.reindexGuarded(job, seqNo, primaryTerm); indexErr != nil {
		return nil, indexErr
	}
	return job, nil
}

func (r *JobRepository) Update(id string, patch analysis.Patch) (*analysis.Job, error) {
	// the administrative override bypasses the state guard, so an
	// incidental version conflict with the executor is absorbed by
	// re-reading and re-applying the patch
	for attempt := 0; attempt < maxCasAttempts; attempt++ {
		job, seqNo, primaryTerm, getErr := r.getWithConcurrencyMeta(id)
		if getErr != nil {
			return nil, getErr
		}

		if patch.Status != nil {
			job.State = constants.AnalysisState(*patch.Status)
		}
		if patch.Notes != nil {
			job.Notes = *patch.Notes
		}
		job.UpdatedAt = time.Now()

		indexErr := r.reindexGuarded(job, seqNo, primaryTerm)
		if indexErr == repositories.ErrConflict {
			continue
		}
		if indexErr != nil {
			return nil, indexErr
		}
		return job, nil
	}
	return nil, repositories.ErrConflict
}

func (r *JobRepository) Delete(id string) (bool, error) {
	res, deleteErr := r.Es7Client.Delete(jobsIndex, id,
		r.Es7Client.Delete.WithRefresh("true"))
	if deleteErr != nil {
		fmt.Printf("Error deleting job %s: %s\n", id, deleteErr)
		return false, deleteErr
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return false, nil
	}
	if res.IsError() {
		return false, fmt.Errorf("failed to delete job document : got '%s'", res.Status())
	}
	return true, nil
}

func (r *JobRepository) List() ([]*analysis.Job, error) {
	var buf bytes.Buffer
	query := map[string]interface{}{
		"size": 10000,
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	if r.Config.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}

	res, searchErr := r.Es7Client.Search(
		r.Es7Client.Search.WithIndex(jobsIndex),
		r.Es7Client.Search.WithBody(&buf),
		r.Es7Client.Search.WithTrackTotalHits(true),
	)
	if searchErr != nil {
		fmt.Printf("Error getting response: %s\n", searchErr)
		return nil, searchErr
	}
	defer res.Body.Close()

	// a missing index simply means nothing was ever created
	if res.StatusCode == 404 {
		return []*analysis.Job{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("failed to list job documents : got '%s'", res.Status())
	}

	result := make(map[string]interface{})
	if umErr := json.NewDecoder(res.Body).Decode(&result); umErr != nil {
		fmt.Printf("Error unmarshalling response: %s\n", umErr)
		return nil, umErr
	}

	// gather data from "hits"
	docsHits := result["hits"].(map[string]interface{})["hits"]
	allDocHits := []map[string]interface{}{}
	mapstructure.Decode(docsHits, &allDocHits)

	// grab _source for each hit
	jobs := make([]*analysis.Job, 0, len(allDocHits))
	for _, docHit := range allDocHits {
		source := docHit["_source"]
		byteSlice, _ := json.Marshal(source)

		var resultingJob analysis.Job
		if err := json.Unmarshal(byteSlice, &resultingJob); err != nil {
			fmt.Println("failed to unmarshal job document:", err)
			continue
		}
		jobs = append(jobs, &resultingJob)
	}

	return jobs, nil
}

// getWithConcurrencyMeta fetches one job document along with the
// _seq_no and _primary_term needed for a guarded reindex.
func (r *JobRepository) getWithConcurrencyMeta(id string) (*analysis.Job, int, int, error) {
	res, getErr := r.Es7Client.Get(jobsIndex, id)
	if getErr != nil {
		fmt.Printf("Error getting job %s: %s\n", id, getErr)
		return nil, 0, 0, getErr
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, 0, 0, repositories.ErrNotFound
	}
	if res.IsError() {
		return nil, 0, 0, fmt.Errorf("failed to get job document : got '%s'", res.Status())
	}

	responseBody, bodyErr := ioutil.ReadAll(res.Body)
	if bodyErr != nil {
		fmt.Printf("Error reading body: %v\n", bodyErr)
		return nil, 0, 0, bodyErr
	}

	jsonParsed, parseErr := gabs.ParseJSON(responseBody)
	if parseErr != nil {
		fmt.Printf("Parsing error: %s\n", parseErr)
		return nil, 0, 0, parseErr
	}

	if found, ok := jsonParsed.Path("found").Data().(bool); !ok || !found {
		return nil, 0, 0, repositories.ErrNotFound
	}

	seqNo := int(jsonParsed.Path("_seq_no").Data().(float64))
	primaryTerm := int(jsonParsed.Path("_primary_term").Data().(float64))

	var job analysis.Job
	if umErr := json.Unmarshal(jsonParsed.Path("_source").Bytes(), &job); umErr != nil {
		fmt.Printf("Error unmarshalling job document: %s\n", umErr)
		return nil, 0, 0, umErr
	}

	return &job, seqNo, primaryTerm, nil
}

// reindexGuarded writes the job document back, conditioned on the
// sequence number observed at read time.
func (r *JobRepository) reindexGuarded(job *analysis.Job, seqNo int, primaryTerm int) error {
	jobData, marshallErr := json.Marshal(job)
	if marshallErr != nil {
		return marshallErr
	}

	res, indexErr := r.Es7Client.Index(jobsIndex, bytes.NewReader(jobData),
		r.Es7Client.Index.WithDocumentID(job.Id),
		r.Es7Client.Index.WithIfSeqNo(seqNo),
		r.Es7Client.Index.WithIfPrimaryTerm(primaryTerm),
		r.Es7Client.Index.WithRefresh("true"))
	if indexErr != nil {
		fmt.Printf("Error reindexing job %s: %s\n", job.Id, indexErr)
		return indexErr
	}
	defer res.Body.Close()

	if res.StatusCode == 409 {
		return repositories.ErrConflict
	}
	if res.StatusCode == 404 {
		return repositories.ErrNotFound
	}
	if res.IsError() {
		return fmt.Errorf("failed to reindex job document : got '%s'", res.Status())
	}
	return nil
}

func stateInSlice(a constants.AnalysisState, list []constants.AnalysisState) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}
