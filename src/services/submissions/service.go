package submissions

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/database"
	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/forms"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/notifications"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	submissionCollection *mongo.Collection
	fileUploadCollection *mongo.Collection
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrFormInactive       = errors.New("this form is not active")
)

// InitSubmissionService wires the collections. Call after database.ConnectMongoDB.
func InitSubmissionService() {
	submissionCollection = database.GetCollection(database.DBName, "submissions")
	fileUploadCollection = database.GetCollection(database.DBName, "file_uploads")

	if submissionCollection == nil || fileUploadCollection == nil {
		log.Fatal("Failed to get the required collections")
	}
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	FormID      *primitive.ObjectID
	SubmittedBy *primitive.ObjectID
	Status      models.SubmissionStatus
}

// CreateSubmission validates the payload against the form's CURRENT version
// and stores submission plus responses as a single document, so no reader
// ever sees a half-written submission. A later re-version of the form does
// not touch what was stored here.
func CreateSubmission(ctx context.Context, formID primitive.ObjectID, submittedBy primitive.ObjectID, req *models.CreateSubmissionRequest) (*models.FormSubmission, error) {
	form, err := forms.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !form.IsActive {
		return nil, ErrFormInactive
	}
	if form.CurrentVersionID == nil {
		return nil, forms.ErrNoActiveVersion
	}

	fields, err := forms.GetVersionFields(ctx, *form.CurrentVersionID)
	if err != nil {
		return nil, err
	}

	responses, verr := ValidatePayload(fields, req.Data)
	if verr != nil {
		return nil, verr
	}

	status := req.Status
	if status == "" {
		status = models.StatusSubmitted
	}

	now := time.Now()
	submission := &models.FormSubmission{
		ID:          primitive.NewObjectID(),
		FormID:      formID,
		VersionID:   *form.CurrentVersionID,
		SubmittedBy: submittedBy,
		Status:      status,
		Responses:   responses,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.StatusSubmitted {
		submission.SubmittedAt = &now
	}

	result, err := submissionCollection.InsertOne(ctx, submission)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		submission.ID = oid
	}

	log.Printf("[submission] inserted id=%s form=%s responses=%d status=%s",
		submission.ID.Hex(), formID.Hex(), len(submission.Responses), submission.Status)

	// Delivery happens off the request path; a notification failure never
	// rolls back the stored submission.
	if status == models.StatusSubmitted {
		notifications.DispatchSubmissionNotification(submission.ID)
	}

	return submission, nil
}

// GetSubmissionByID retrieves a submission by its ID
func GetSubmissionByID(ctx context.Context, id primitive.ObjectID) (*models.FormSubmission, error) {
	var submission models.FormSubmission
	err := submissionCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&submission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// GetSubmissions lists submissions with pagination; the filter limits by
// form, submitter (non-admins only ever see their own) and status.
func GetSubmissions(ctx context.Context, params models.PaginationParams, filter SubmissionFilter) (*models.PaginatedResponse, error) {
	params.Normalize()

	query := bson.M{}
	if filter.FormID != nil {
		query["formId"] = *filter.FormID
	}
	if filter.SubmittedBy != nil {
		query["submittedBy"] = *filter.SubmittedBy
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := submissionCollection.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(params.GetSortOrder())

	cursor, err := submissionCollection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	submissions := make([]models.FormSubmission, 0)
	if err = cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(submissions, total, params), nil
}

// AppendFileRef links an accepted upload onto the embedded response row,
// so the submission document carries its attachment list inline.
func AppendFileRef(ctx context.Context, submissionID, responseID primitive.ObjectID, ref models.FileRef) error {
	res, err := submissionCollection.UpdateOne(ctx,
		bson.M{"_id": submissionID, "responses._id": responseID},
		bson.M{
			"$push": bson.M{"responses.$.files": ref},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

// PullFileRef detaches an upload from its response row, the inverse of
// AppendFileRef. Used when storing the file bytes fails after the record
// was accepted.
func PullFileRef(ctx context.Context, submissionID, responseID, uploadID primitive.ObjectID) error {
	_, err := submissionCollection.UpdateOne(ctx,
		bson.M{"_id": submissionID, "responses._id": responseID},
		bson.M{"$pull": bson.M{"responses.$.files": bson.M{"uploadId": uploadID}}},
	)
	return err
}

// ExportSubmission returns the full record of one submission: responses,
// the version it was validated against, and any attached files.
func ExportSubmission(ctx context.Context, id primitive.ObjectID) (*models.SubmissionExport, error) {
	submission, err := GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	export := &models.SubmissionExport{Submission: *submission}

	if form, err := forms.GetForm(ctx, submission.FormID); err == nil {
		export.FormName = form.Name
	}
	if version, err := forms.GetVersionByID(ctx, submission.VersionID); err == nil {
		export.Version = version.VersionNumber
	}

	cursor, err := fileUploadCollection.Find(ctx, bson.M{"submissionId": id})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	files := make([]models.FileUpload, 0)
	if err = cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	export.Files = files

	return export, nil
}
