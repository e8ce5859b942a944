package submissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/notifications"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrIllegalTransition marks every rejected status move. The wrapped
// message says which move was attempted; the submission is left untouched.
var ErrIllegalTransition = errors.New("illegal status transition")

// Function vars so the transition paths can be exercised without a running
// database; the real implementations hit the collection.
var (
	loadSubmission = GetSubmissionByID

	applySubmissionUpdate = func(ctx context.Context, filter, update bson.M) (int64, error) {
		res, err := submissionCollection.UpdateOne(ctx, filter, update)
		if err != nil {
			return 0, err
		}
		return res.MatchedCount, nil
	}

	notifySubmission = notifications.DispatchSubmissionNotification
)

// CanTransition is the whole lifecycle in one table:
//
//	draft        -> submitted
//	submitted    -> under_review, approved, rejected
//	under_review -> approved, rejected
//
// approved and rejected are terminal, and nothing ever moves backwards.
// A rejected submitter files a new submission instead.
func CanTransition(from, to models.SubmissionStatus) bool {
	switch from {
	case models.StatusDraft:
		return to == models.StatusSubmitted
	case models.StatusSubmitted:
		return to == models.StatusUnderReview || to == models.StatusApproved || to == models.StatusRejected
	case models.StatusUnderReview:
		return to == models.StatusApproved || to == models.StatusRejected
	}
	return false
}

// SubmitSubmission finalizes a draft: stamps submittedAt, then hands the
// submission to the notification pipeline. Anything not in draft is refused.
func SubmitSubmission(ctx context.Context, id primitive.ObjectID) (*models.FormSubmission, error) {
	submission, err := loadSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(submission.Status, models.StatusSubmitted) {
		return nil, fmt.Errorf("%w: only draft submissions can be submitted (current status: %s)",
			ErrIllegalTransition, submission.Status)
	}

	now := time.Now()
	// The filter repeats the status we checked, so a transition that raced
	// us in between matches nothing instead of being overwritten.
	matched, err := applySubmissionUpdate(ctx,
		bson.M{"_id": id, "status": submission.Status},
		bson.M{"$set": bson.M{
			"status":      models.StatusSubmitted,
			"submittedAt": now,
			"updatedAt":   now,
		}})
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, fmt.Errorf("%w: submission is no longer in %s status",
			ErrIllegalTransition, submission.Status)
	}

	submission.Status = models.StatusSubmitted
	submission.SubmittedAt = &now
	submission.UpdatedAt = now

	notifySubmission(id)

	return submission, nil
}

// ReviewSubmission moves a submission to under_review, approved or rejected
// and records who decided, when, and why.
func ReviewSubmission(ctx context.Context, id primitive.ObjectID, reviewerID primitive.ObjectID, req *models.ReviewRequest) (*models.FormSubmission, error) {
	submission, err := loadSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(submission.Status, req.Status) {
		return nil, fmt.Errorf("%w: cannot review submission in %s status",
			ErrIllegalTransition, submission.Status)
	}

	now := time.Now()
	matched, err := applySubmissionUpdate(ctx,
		bson.M{"_id": id, "status": submission.Status},
		bson.M{"$set": bson.M{
			"status":      req.Status,
			"reviewedBy":  reviewerID,
			"reviewedAt":  now,
			"reviewNotes": req.Notes,
			"updatedAt":   now,
		}})
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, fmt.Errorf("%w: submission is no longer in %s status",
			ErrIllegalTransition, submission.Status)
	}

	submission.Status = req.Status
	submission.ReviewedBy = &reviewerID
	submission.ReviewedAt = &now
	submission.ReviewNotes = req.Notes
	submission.UpdatedAt = now
	return submission, nil
}
