package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleSubmissionNotify delivers one submission to every configured
// target. Email recipients are independent of each other: a bounce is
// logged on that recipient's row and the loop moves on. A webhook failure
// is returned so asynq retries the task (bounded by MaxNotifyAttempts);
// re-delivery is safe because every target row records its own outcome.
func HandleSubmissionNotify(sender MailSender) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p SubmissionNotifyPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}

		submissionID, err := primitive.ObjectIDFromHex(p.SubmissionID)
		if err != nil {
			return err
		}

		sc, err := loadSubmissionContext(ctx, submissionID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				log.Println("⚠️ Submission not found. Possibly deleted. Skipping task:", p.SubmissionID)
				return nil
			}
			return err
		}

		if len(sc.Form.NotificationEmails) > 0 {
			SendEmailNotifications(ctx, sc, sender, sc.Form.NotificationEmails)
		}

		if sc.Form.WebhookURL != "" {
			if err := SendWebhookNotification(ctx, sc, sc.Form.WebhookURL); err != nil {
				return err // ให้ asynq retry
			}
		}

		log.Printf("[notify] done for submission=%s form=%s", p.SubmissionID, sc.Form.ID.Hex())
		return nil
	}
}

// SendEmailNotifications emails every recipient, one log row each.
// Never returns an error: one dead mailbox must not block the others.
func SendEmailNotifications(ctx context.Context, sc *submissionContext, sender MailSender, recipients []string) {
	for _, recipient := range recipients {
		logID := createLog(ctx, sc.Submission.ID, models.ChannelEmail, recipient)

		if err := deliverEmail(sc, sender, recipient); err != nil {
			log.Printf("[notify] email failed to %s: %v", recipient, err)
			markLogFailed(ctx, logID, err.Error())
			continue
		}

		markLogSent(ctx, logID)
		log.Printf("[notify] email sent to %s for submission %s", recipient, sc.Submission.ID.Hex())
	}
}

// deliverEmail renders and sends one notification email. The retry sweep
// calls this too, against the existing log row.
func deliverEmail(sc *submissionContext, sender MailSender, recipient string) error {
	if sender == nil {
		return errors.New("mail sender not configured")
	}

	html, err := RenderSubmissionEmailHTML(SubmissionEmailData{
		FormName:     sc.Form.Name,
		SubmissionID: sc.Submission.ID.Hex(),
		SubmittedBy:  sc.submitterName(),
		SubmittedAt:  sc.Submission.SubmittedAt,
		AdminLink:    adminSubmissionURL(sc.Submission.ID.Hex()),
	})
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	subject := "New Form Submission: " + sc.Form.Name
	return sender.Send(recipient, subject, html)
}

func adminSubmissionURL(submissionID string) string {
	base := strings.TrimRight(os.Getenv("FRONTEND_URL"), "/")
	if base == "" {
		return ""
	}
	return base + "/admin/submissions/" + submissionID
}
