package background

import (
	"context"
	"log"
	"sync"
	"time"

	"tivastore/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// JobScheduler runs the periodic maintenance jobs: refreshing per-store
// product counters and purging expired password reset tokens.
type JobScheduler struct {
	scheduler gocron.Scheduler
	stores    repositories.StoreRepository
	products  repositories.ProductRepository
	users     repositories.UserRepository
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(stores repositories.StoreRepository, products repositories.ProductRepository, users repositories.UserRepository) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		stores:    stores,
		products:  products,
		users:     users,
		jobs:      make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	countersJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.refreshStoreCounters, context.Background()),
		gocron.WithName("store-counters-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create store counters job: %v", err)
	} else {
		js.jobs["store-counters"] = countersJob
	}

	tokensJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.purgeExpiredResetTokens, context.Background()),
		gocron.WithName("reset-token-purge"),
	)
	if err != nil {
		log.Printf("Failed to create reset token purge job: %v", err)
	} else {
		js.jobs["reset-token-purge"] = tokensJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshStoreCounters recomputes every active store's product counter.
// Stores are processed with bounded concurrency.
func (js *JobScheduler) refreshStoreCounters(ctx context.Context) error {
	log.Printf("Starting store counters refresh")

	stores, err := js.stores.ListActive(ctx)
	if err != nil {
		log.Printf("Failed to list stores for counters refresh: %v", err)
		return err
	}

	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup
	for _, store := range stores {
		wg.Add(1)
		go func(storeID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			count, err := js.products.CountActiveByStore(ctx, storeID)
			if err != nil {
				log.Printf("Failed to count products for store %s: %v", storeID, err)
				return
			}
			if err := js.stores.UpdateProductCount(ctx, storeID, count); err != nil {
				log.Printf("Failed to update product count for store %s: %v", storeID, err)
			}
		}(store.ID)
	}
	wg.Wait()

	log.Printf("Completed store counters refresh for %d stores", len(stores))
	return nil
}

// purgeExpiredResetTokens clears reset tokens past their expiry so stale
// tokens do not linger in the users table.
func (js *JobScheduler) purgeExpiredResetTokens(ctx context.Context) error {
	cleared, err := js.users.ClearExpiredResetTokens(ctx)
	if err != nil {
		log.Printf("Failed to purge expired reset tokens: %v", err)
		return err
	}
	if cleared > 0 {
		log.Printf("Purged %d expired reset tokens", cleared)
	}
	return nil
}
