package background

import (
	"context"
	"log"
	"sync"
	"time"

	"residora/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages background jobs
type JobScheduler struct {
	scheduler    gocron.Scheduler
	rentBiller   *jobs.RentBiller
	tokenJanitor *jobs.TokenJanitor
	jobJobs      map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(rentBiller *jobs.RentBiller, tokenJanitor *jobs.TokenJanitor) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		rentBiller:   rentBiller,
		tokenJanitor: tokenJanitor,
		jobJobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Rent billing - 1st of each month at 02:00
	billingJob, err := js.scheduler.NewJob(
		gocron.MonthlyJob(1,
			gocron.NewDaysOfTheMonth(1),
			gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0)),
		),
		gocron.NewTask(js.runRentBilling, context.Background()),
		gocron.WithName("monthly-rent-billing"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create rent billing job: %v", err)
	} else {
		js.jobJobs["rent-billing"] = billingJob
	}

	// Token cleanup - nightly
	cleanupJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.cleanupExpiredTokens, context.Background()),
		gocron.WithName("token-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create token cleanup job: %v", err)
	} else {
		js.jobJobs["token-cleanup"] = cleanupJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

func (js *JobScheduler) runRentBilling(ctx context.Context) error {
	return js.rentBiller.Run(ctx)
}

// cleanupExpiredTokens sweeps expired refresh tokens out of Redis
func (js *JobScheduler) cleanupExpiredTokens(ctx context.Context) error {
	return js.tokenJanitor.Run(ctx)
}

// RunRentBillingNow triggers the billing job out of schedule.
func (js *JobScheduler) RunRentBillingNow(ctx context.Context) error {
	js.mu.RLock()
	defer js.mu.RUnlock()
	return js.rentBiller.Run(ctx)
}
