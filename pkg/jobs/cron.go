package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const warmTimeout = 5 * time.Minute

// Warmer refills the quote cache. *pricing.Service satisfies it.
type Warmer interface {
	Invalidate(ctx context.Context) (int, error)
	Warm(ctx context.Context) (int, error)
}

// CronManager manages scheduled jobs
type CronManager struct {
	cron     *cron.Cron
	warmer   Warmer
	schedule string
	logger   *log.Logger
}

// NewCronManager creates a new cron manager
func NewCronManager(warmer Warmer, schedule string, logger *log.Logger) *CronManager {
	if logger == nil {
		logger = log.Default()
	}

	return &CronManager{
		cron:     cron.New(),
		warmer:   warmer,
		schedule: schedule,
		logger:   logger,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	cm.logger.Println("Setting up cron jobs...")

	if _, err := cm.cron.AddFunc(cm.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
		defer cancel()
		cm.WarmQuotes(ctx)
	}); err != nil {
		return fmt.Errorf("invalid cache warm schedule %q: %w", cm.schedule, err)
	}

	cm.logger.Println("✅ Cron jobs configured successfully")
	cm.logger.Printf("  - %s: Warm pricing quote cache", cm.schedule)

	return nil
}

// WarmQuotes runs the cache warm job once and returns how many quotes it stored.
// Existing entries are dropped first so quotes priced under an older catalog or
// team limit do not outlive a deploy.
func (cm *CronManager) WarmQuotes(ctx context.Context) int {
	cm.logger.Println("🕐 Warming pricing quote cache...")

	dropped, err := cm.warmer.Invalidate(ctx)
	if err != nil {
		cm.logger.Printf("❌ Failed to invalidate quote cache: %v", err)
		return 0
	}
	if dropped > 0 {
		cm.logger.Printf("🧹 Dropped %d cached quotes", dropped)
	}

	n, err := cm.warmer.Warm(ctx)
	if err != nil {
		cm.logger.Printf("❌ Failed to warm quote cache: %v", err)
		return 0
	}

	cm.logger.Printf("✅ Warmed %d quotes", n)
	return n
}

// Entries reports how many jobs are scheduled.
func (cm *CronManager) Entries() int {
	return len(cm.cron.Entries())
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.logger.Println("🚀 Starting cron scheduler...")
	cm.cron.Start()
}

// Stop stops the cron scheduler and waits for running jobs to finish.
func (cm *CronManager) Stop() {
	cm.logger.Println("🛑 Stopping cron scheduler...")
	<-cm.cron.Stop().Done()
}
