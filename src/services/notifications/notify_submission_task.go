package notifications

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeSubmissionNotify    = "notification:submission"
	TypeNotificationCleanup = "notification:cleanup"
	TypeNotificationRetry   = "notification:retry"
)

type SubmissionNotifyPayload struct {
	SubmissionID string `json:"submissionId"`
}

func NewSubmissionNotifyTask(submissionID string) (*asynq.Task, error) {
	p := SubmissionNotifyPayload{SubmissionID: submissionID}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSubmissionNotify, b), nil
}

func SubmissionNotifyTaskID(submissionID string) string {
	return "notify-submission-" + submissionID
}

// Cleanup and retry are periodic and carry no payload.

func NewNotificationCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeNotificationCleanup, nil)
}

func NewNotificationRetryTask() *asynq.Task {
	return asynq.NewTask(TypeNotificationRetry, nil)
}
