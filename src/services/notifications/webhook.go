package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"

	"github.com/google/uuid"
)

var webhookClient = &http.Client{Timeout: 10 * time.Second}

// BuildWebhookPayload assembles the published event body.
func BuildWebhookPayload(sc *submissionContext) models.WebhookPayload {
	payload := models.WebhookPayload{
		Event:        "form.submitted",
		SubmissionID: sc.Submission.ID.Hex(),
		Form: models.WebhookForm{
			ID:   sc.Form.ID.Hex(),
			Name: sc.Form.Name,
		},
		SubmittedAt: sc.Submission.SubmittedAt,
		Status:      sc.Submission.Status,
	}
	if sc.Submitter != nil {
		payload.SubmittedBy = models.WebhookSubmitter{
			ID:    sc.Submitter.ID.Hex(),
			Email: sc.Submitter.Email,
		}
	}
	return payload
}

// SendWebhookNotification POSTs the event and returns an error on any
// non-2xx answer so the caller can retry the task.
func SendWebhookNotification(ctx context.Context, sc *submissionContext, webhookURL string) error {
	logID := createLog(ctx, sc.Submission.ID, models.ChannelWebhook, webhookURL)

	if err := postWebhook(ctx, sc, webhookURL); err != nil {
		log.Printf("[notify] webhook failed to %s: %v", webhookURL, err)
		markLogFailed(ctx, logID, err.Error())
		return err
	}

	markLogSent(ctx, logID)
	log.Printf("[notify] webhook sent to %s for submission %s", webhookURL, sc.Submission.ID.Hex())
	return nil
}

// postWebhook does the actual delivery. The retry sweep calls this too,
// against the existing log row.
func postWebhook(ctx context.Context, sc *submissionContext, webhookURL string) error {
	body, err := json.Marshal(BuildWebhookPayload(sc))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-ID", uuid.NewString())

	resp, err := webhookClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
