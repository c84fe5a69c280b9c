package jobs

import (
	"log"
	"time"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// CleanupJob periodically removes expired OTP rows and stale recommendation
// cache entries. It stands in for the TTL indexes a document store would
// apply at the collection level.
type CleanupJob struct {
	store     storage.Store
	interval  time.Duration
	stop      chan struct{}
	isRunning bool
}

// NewCleanupJob creates a new cleanup job scheduler
func NewCleanupJob(store storage.Store) *CleanupJob {
	return &CleanupJob{
		store:    store,
		interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
}

// Start begins the cleanup loop
func (j *CleanupJob) Start() {
	if j.isRunning {
		log.Println("Cleanup job already running")
		return
	}

	j.isRunning = true
	log.Println("Starting scheduled cleanup job...")

	go j.run()
}

// Stop halts the cleanup loop
func (j *CleanupJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping cleanup job...")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stop:
			return
		}
	}
}

func (j *CleanupJob) sweep() {
	if err := j.store.DeleteExpiredOTPs(); err != nil {
		log.Printf("Error deleting expired OTPs: %v", err)
	}
	if err := j.store.DeleteExpiredRecommendations(models.RecommendationCacheTTL); err != nil {
		log.Printf("Error deleting stale recommendation cache entries: %v", err)
	}
}
