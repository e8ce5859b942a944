package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Notification channels / statuses ---

type NotificationChannel string

const (
	ChannelEmail   NotificationChannel = "email"
	ChannelWebhook NotificationChannel = "webhook"
	ChannelSlack   NotificationChannel = "slack"
)

type NotificationStatus string

const (
	NotifyPending NotificationStatus = "pending"
	NotifySent    NotificationStatus = "sent"
	NotifyFailed  NotificationStatus = "failed"
)

// --- NotificationLog ---
// One row per delivery attempt target. Attempts counts how many times the
// worker tried this recipient; the retry job only picks up failed rows
// with attempts below the cap.
type NotificationLog struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	SubmissionID primitive.ObjectID  `bson:"submissionId" json:"submissionId"`
	Channel      NotificationChannel `bson:"channel" json:"channel"`
	Recipient    string              `bson:"recipient" json:"recipient"`
	Status       NotificationStatus  `bson:"status" json:"status"`
	Attempts     int                 `bson:"attempts" json:"attempts"`
	ErrorMessage string              `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	SentAt       *time.Time          `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt,omitempty" json:"createdAt"`
}

// --- Webhook wire format ---
// Shape is a published contract; consumers match on these exact keys.

type WebhookPayload struct {
	Event        string           `json:"event"`
	SubmissionID string           `json:"submission_id"`
	Form         WebhookForm      `json:"form"`
	SubmittedBy  WebhookSubmitter `json:"submitted_by"`
	SubmittedAt  *time.Time       `json:"submitted_at"`
	Status       SubmissionStatus `json:"status"`
}

type WebhookForm struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type WebhookSubmitter struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
