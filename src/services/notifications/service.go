package notifications

import (
	"context"
	"log"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/database"
	"github.com/MutheuMC/Interview-ACTSERV/src/models"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Retry budget per notification target. Applies both to the queued task
// (asynq.MaxRetry) and to the periodic retry sweep over failed log rows.
const MaxNotifyAttempts = 3

var (
	notificationCollection *mongo.Collection
	submissionCollection   *mongo.Collection
	formCollection         *mongo.Collection
	userCollection         *mongo.Collection
)

// InitNotificationService wires the collections. The package reads
// submissions and forms directly so the worker binary doesn't drag in the
// request-path services.
func InitNotificationService() {
	notificationCollection = database.GetCollection(database.DBName, "notification_logs")
	submissionCollection = database.GetCollection(database.DBName, "submissions")
	formCollection = database.GetCollection(database.DBName, "forms")
	userCollection = database.GetCollection(database.DBName, "users")

	if notificationCollection == nil || submissionCollection == nil || formCollection == nil || userCollection == nil {
		log.Fatal("Failed to get the required collections")
	}
}

// DispatchSubmissionNotification hands a finalized submission to the
// delivery pipeline. With Redis present it goes through asynq (deduped by
// task ID, bounded retries); without Redis delivery runs in a goroutine so
// the request path never waits on SMTP or a webhook either way.
func DispatchSubmissionNotification(submissionID primitive.ObjectID) {
	// ถ้ามี Redis → เข้าคิว
	if database.AsynqClient != nil {
		task, err := NewSubmissionNotifyTask(submissionID.Hex())
		if err != nil {
			log.Println("❌ build notify-submission task:", err)
			return
		}
		_, err = database.AsynqClient.Enqueue(task,
			asynq.TaskID(SubmissionNotifyTaskID(submissionID.Hex())),
			asynq.MaxRetry(MaxNotifyAttempts))
		if err != nil {
			log.Println("❌ enqueue notify-submission task:", err)
		} else {
			log.Println("✅ Enqueued notify-submission task:", submissionID.Hex())
		}
		return
	}

	// ไม่มี Redis → ส่งเองใน goroutine
	log.Println("⚠️ Redis not available → sending submission notifications in-process")
	var sender MailSender
	if smtp, err := NewSMTPSenderFromEnv(); err != nil {
		log.Println("⚠️ mail sender not configured:", err)
	} else {
		sender = smtp
	}

	handler := HandleSubmissionNotify(sender)
	task, err := NewSubmissionNotifyTask(submissionID.Hex())
	if err != nil {
		log.Println("❌ build notify-submission task:", err)
		return
	}
	go func() {
		if err := handler(context.Background(), task); err != nil {
			log.Printf("❌ send submission notifications for %s: %v", submissionID.Hex(), err)
		}
	}()
}

// GetNotificationLogs lists delivery attempts for one submission, newest first.
func GetNotificationLogs(ctx context.Context, submissionID primitive.ObjectID) ([]models.NotificationLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := notificationCollection.Find(ctx, bson.M{"submissionId": submissionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := make([]models.NotificationLog, 0)
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// --- log row lifecycle ---

func createLog(ctx context.Context, submissionID primitive.ObjectID, channel models.NotificationChannel, recipient string) primitive.ObjectID {
	row := models.NotificationLog{
		ID:           primitive.NewObjectID(),
		SubmissionID: submissionID,
		Channel:      channel,
		Recipient:    recipient,
		Status:       models.NotifyPending,
		Attempts:     0,
		CreatedAt:    time.Now(),
	}
	if _, err := notificationCollection.InsertOne(ctx, row); err != nil {
		log.Println("❌ create notification log:", err)
	}
	return row.ID
}

func markLogSent(ctx context.Context, logID primitive.ObjectID) {
	now := time.Now()
	_, err := notificationCollection.UpdateOne(ctx, bson.M{"_id": logID}, bson.M{
		"$set": bson.M{"status": models.NotifySent, "sentAt": now, "errorMessage": ""},
		"$inc": bson.M{"attempts": 1},
	})
	if err != nil {
		log.Println("❌ update notification log:", err)
	}
}

func markLogFailed(ctx context.Context, logID primitive.ObjectID, reason string) {
	_, err := notificationCollection.UpdateOne(ctx, bson.M{"_id": logID}, bson.M{
		"$set": bson.M{"status": models.NotifyFailed, "errorMessage": reason},
		"$inc": bson.M{"attempts": 1},
	})
	if err != nil {
		log.Println("❌ update notification log:", err)
	}
}

// --- shared loading ---

// submissionContext is everything delivery needs to know about one submission.
type submissionContext struct {
	Submission models.FormSubmission
	Form       models.Form
	Submitter  *models.User
}

func loadSubmissionContext(ctx context.Context, submissionID primitive.ObjectID) (*submissionContext, error) {
	var sc submissionContext

	err := submissionCollection.FindOne(ctx, bson.M{"_id": submissionID}).Decode(&sc.Submission)
	if err != nil {
		return nil, err
	}
	err = formCollection.FindOne(ctx, bson.M{"_id": sc.Submission.FormID}).Decode(&sc.Form)
	if err != nil {
		return nil, err
	}

	if !sc.Submission.SubmittedBy.IsZero() {
		var user models.User
		if err := userCollection.FindOne(ctx, bson.M{"_id": sc.Submission.SubmittedBy}).Decode(&user); err == nil {
			sc.Submitter = &user
		}
	}
	return &sc, nil
}

func (sc *submissionContext) submitterName() string {
	if sc.Submitter == nil {
		return "anonymous"
	}
	if sc.Submitter.Name != "" {
		return sc.Submitter.Name
	}
	return sc.Submitter.Email
}
