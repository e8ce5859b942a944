package notifications

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubmissionNotifyTaskCodec(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	task, err := NewSubmissionNotifyTask(id)
	require.NoError(t, err)
	assert.Equal(t, TypeSubmissionNotify, task.Type())

	var payload SubmissionNotifyPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, id, payload.SubmissionID)
}

func TestSubmissionNotifyTaskID(t *testing.T) {
	// The task ID is what dedupes a double enqueue of the same submission
	a := SubmissionNotifyTaskID("abc123")
	b := SubmissionNotifyTaskID("abc123")
	c := SubmissionNotifyTaskID("def456")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "notify-submission-abc123", a)
}

func TestBuildWebhookPayload(t *testing.T) {
	submittedAt := time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)
	sc := &submissionContext{
		Submission: models.FormSubmission{
			ID:          primitive.NewObjectID(),
			Status:      models.StatusSubmitted,
			SubmittedAt: &submittedAt,
		},
		Form: models.Form{
			ID:   primitive.NewObjectID(),
			Name: "Customer Onboarding (KYC)",
		},
		Submitter: &models.User{
			ID:    primitive.NewObjectID(),
			Email: "jane@actserv.example",
		},
	}

	payload := BuildWebhookPayload(sc)
	assert.Equal(t, "form.submitted", payload.Event)
	assert.Equal(t, sc.Submission.ID.Hex(), payload.SubmissionID)
	assert.Equal(t, "Customer Onboarding (KYC)", payload.Form.Name)
	assert.Equal(t, "jane@actserv.example", payload.SubmittedBy.Email)
	assert.Equal(t, models.StatusSubmitted, payload.Status)

	// Key names are a published contract
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"event", "submission_id", "form", "submitted_by", "submitted_at", "status"} {
		assert.Contains(t, decoded, key)
	}
}

func TestBuildWebhookPayloadAnonymousSubmitter(t *testing.T) {
	sc := &submissionContext{
		Submission: models.FormSubmission{ID: primitive.NewObjectID(), Status: models.StatusSubmitted},
		Form:       models.Form{ID: primitive.NewObjectID(), Name: "Feedback"},
	}

	payload := BuildWebhookPayload(sc)
	assert.Empty(t, payload.SubmittedBy.ID)
	assert.Empty(t, payload.SubmittedBy.Email)
}

func TestRenderSubmissionEmailHTML(t *testing.T) {
	submittedAt := time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)

	html, err := RenderSubmissionEmailHTML(SubmissionEmailData{
		FormName:     "Customer Onboarding (KYC)",
		SubmissionID: "64f0c2",
		SubmittedBy:  "Jane Wanjiku",
		SubmittedAt:  &submittedAt,
		AdminLink:    "https://admin.example/submissions/64f0c2",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Customer Onboarding (KYC)")
	assert.Contains(t, html, "64f0c2")
	assert.Contains(t, html, "Jane Wanjiku")
	assert.Contains(t, html, "27/08/2026 14:30")
	assert.Contains(t, html, "https://admin.example/submissions/64f0c2")
}

func TestRenderSubmissionEmailHTMLWithoutTimestampOrLink(t *testing.T) {
	// Drafts have no submittedAt; FRONTEND_URL may be unset
	html, err := RenderSubmissionEmailHTML(SubmissionEmailData{
		FormName:     "Feedback",
		SubmissionID: "64f0c3",
		SubmittedBy:  "anonymous",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "-")
	assert.NotContains(t, html, "Review submission")
}

func TestSubmitterName(t *testing.T) {
	anonymous := &submissionContext{}
	assert.Equal(t, "anonymous", anonymous.submitterName())

	byEmail := &submissionContext{Submitter: &models.User{Email: "jane@actserv.example"}}
	assert.Equal(t, "jane@actserv.example", byEmail.submitterName())

	byName := &submissionContext{Submitter: &models.User{Name: "Jane Wanjiku", Email: "jane@actserv.example"}}
	assert.Equal(t, "Jane Wanjiku", byName.submitterName())
}
