package services

import (
	"fmt"
	"time"

	analysisState "snpdna/api/models/constants/analysis-state"
	"snpdna/api/repositories"

	"github.com/go-co-op/gocron"
)

type (
	RetentionService struct {
		Initialized   bool
		Repository    repositories.JobRepository
		RetentionDays int
	}
)

func NewRetentionService(repo repositories.JobRepository, retentionDays int) *RetentionService {
	rs := &RetentionService{
		Initialized:   false,
		Repository:    repo,
		RetentionDays: retentionDays,
	}

	rs.Init()

	return rs
}

func (rs *RetentionService) Init() {
	// initialization if necessary
	if !rs.Initialized {
		// - spin up a go routine that will periodically sweep
		//   terminal (COMPLETED / FAILED) analysis jobs whose
		//   results have outlived the configured retention window
		go func() {
			// setup cron job
			s := gocron.NewScheduler(time.UTC)

			s.Every(1).Days().At("04:00:00").Do(func() { // 12am EST
				fmt.Printf("[%s] - Running analysis job retention sweep..\n", time.Now())
				swept := rs.Sweep(time.Now())
				fmt.Printf("[%s] - Retention sweep removed %d job(s)..\n", time.Now(), swept)
			})

			// starts the scheduler in blocking mode, which blocks
			// the current execution path
			s.StartBlocking()
		}()

		rs.Initialized = true
		fmt.Println("Retention Service Initialized ..")
	}
}

// Sweep deletes terminal jobs completed before the retention cutoff
// and returns the number removed. Jobs still PENDING or PROCESSING
// are never touched.
func (rs *RetentionService) Sweep(now time.Time) int {
	jobs, listErr := rs.Repository.List()
	if listErr != nil {
		fmt.Printf("[%s] - Error listing jobs during retention sweep : %v..\n", time.Now(), listErr)
		return 0
	}

	cutoff := now.AddDate(0, 0, -rs.RetentionDays)

	swept := 0
	for _, job := range jobs {
		if !analysisState.IsTerminal(job.State) {
			continue
		}
		if job.CompletedAt == nil || job.CompletedAt.After(cutoff) {
			continue
		}
		if deleted, _ := rs.Repository.Delete(job.Id); deleted {
			swept++
		}
	}
	return swept
}
