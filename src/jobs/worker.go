package jobs

import (
	"log"
	"os"
	"strconv"

	"github.com/MutheuMC/Interview-ACTSERV/src/database"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/notifications"

	"github.com/hibiken/asynq"
)

// StartWorker runs the asynq consumer in the background. Without Redis the
// process still serves HTTP; notification dispatch falls back to in-process
// goroutines instead of queued tasks.
func StartWorker() {
	if database.RedisURI == "" {
		log.Println("⚠️ Redis not configured → background worker disabled")
		return
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: database.RedisURI},
		asynq.Config{
			Concurrency: workerConcurrency(),
		},
	)

	mux := asynq.NewServeMux()
	if err := notifications.RegisterNotificationHandlers(mux); err != nil {
		log.Println("❌ Failed to register task handlers:", err)
		return
	}

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Println("❌ Asynq worker stopped:", err)
		}
	}()

	log.Println("✅ Asynq worker started")
}

// StartScheduler registers the periodic maintenance tasks: daily log
// cleanup and a retry sweep for failed notifications.
func StartScheduler() {
	if database.RedisURI == "" {
		return
	}

	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: database.RedisURI},
		nil,
	)

	if _, err := scheduler.Register("@daily", notifications.NewNotificationCleanupTask()); err != nil {
		log.Println("❌ Failed to schedule notification cleanup:", err)
	}

	if _, err := scheduler.Register("@every 10m", notifications.NewNotificationRetryTask()); err != nil {
		log.Println("❌ Failed to schedule notification retry:", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Println("❌ Asynq scheduler stopped:", err)
		}
	}()

	log.Println("✅ Asynq scheduler started")
}

func workerConcurrency() int {
	if v := os.Getenv("WORKER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 5
}
