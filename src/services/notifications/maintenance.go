package notifications

import (
	"context"
	"log"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Log rows older than this are dropped by the cleanup job.
const notificationRetentionDays = 90

// HandleNotificationCleanup deletes notification logs past the retention
// window. Scheduled daily.
func HandleNotificationCleanup(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().AddDate(0, 0, -notificationRetentionDays)

	res, err := notificationCollection.DeleteMany(ctx, bson.M{
		"createdAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		log.Printf("❌ Notification cleanup failed: %v", err)
		return err
	}

	log.Printf("🧹 Notification cleanup removed %d logs older than %d days", res.DeletedCount, notificationRetentionDays)
	return nil
}

// HandleNotificationRetry re-delivers failed notifications that still have
// attempts left. Each retry updates the existing log row, so attempts keeps
// counting across sweeps and a row stops being picked up once it reaches
// MaxNotifyAttempts.
func HandleNotificationRetry(sender MailSender) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		cursor, err := notificationCollection.Find(ctx, bson.M{
			"status":   models.NotifyFailed,
			"attempts": bson.M{"$lt": MaxNotifyAttempts},
		}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
		if err != nil {
			return err
		}

		var rows []models.NotificationLog
		if err := cursor.All(ctx, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		retried, recovered := 0, 0
		for _, row := range rows {
			sc, err := loadSubmissionContext(ctx, row.SubmissionID)
			if err != nil {
				markLogFailed(ctx, row.ID, "submission lookup failed: "+err.Error())
				continue
			}

			retried++
			switch row.Channel {
			case models.ChannelEmail:
				if err := deliverEmail(sc, sender, row.Recipient); err != nil {
					markLogFailed(ctx, row.ID, err.Error())
					continue
				}
			case models.ChannelWebhook:
				if err := postWebhook(ctx, sc, row.Recipient); err != nil {
					markLogFailed(ctx, row.ID, err.Error())
					continue
				}
			default:
				markLogFailed(ctx, row.ID, "unsupported channel: "+string(row.Channel))
				continue
			}

			markLogSent(ctx, row.ID)
			recovered++
		}

		log.Printf("🔁 Notification retry: %d attempted, %d recovered", retried, recovered)
		return nil
	}
}
