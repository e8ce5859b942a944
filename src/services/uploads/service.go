package uploads

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/database"
	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/forms"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/submissions"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fallbacks when a file field's config leaves the limits unset.
const (
	DefaultMaxSizeMB = 10.0
	DefaultMaxFiles  = 5
)

var fileUploadCollection *mongo.Collection

var ErrResponseNotFound = errors.New("Field response not found")

// RejectionError is returned when an attachment fails a gate check. The
// message is the one shown to the client, verbatim.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func reject(format string, args ...interface{}) error {
	return &RejectionError{Message: fmt.Sprintf(format, args...)}
}

func InitUploadService() {
	fileUploadCollection = database.GetCollection(database.DBName, "file_uploads")
}

// CheckAttachment runs the gate checks for one incoming file against the
// field it targets. currentCount is how many files the response already
// holds; it only matters for multi_file fields. Pure function.
func CheckAttachment(field models.FormField, filename string, size int64, currentCount int) error {
	if !field.Type.IsFile() {
		return reject("Field does not support file uploads")
	}

	if size <= 0 {
		return reject("File is empty")
	}

	maxSizeMB := DefaultMaxSizeMB
	if field.Config.MaxSizeMB != nil {
		maxSizeMB = *field.Config.MaxSizeMB
	}
	if float64(size) > maxSizeMB*1024*1024 {
		return reject("File size exceeds %vMB limit", maxSizeMB)
	}

	if accept := field.Config.Accept; accept != "" && !matchesAccept(filename, accept) {
		return reject("File type not allowed. Accepted: %s", accept)
	}

	if field.Type == models.FieldMultiFile {
		maxFiles := DefaultMaxFiles
		if field.Config.MaxFiles != nil {
			maxFiles = *field.Config.MaxFiles
		}
		if currentCount >= maxFiles {
			return reject("Maximum %d files allowed", maxFiles)
		}
	}

	return nil
}

// matchesAccept checks the filename against a comma-separated accept list.
// Wildcard characters are stripped, so ".pdf", "*.pdf" and "pdf*" all
// become suffix checks.
func matchesAccept(filename, accept string) bool {
	for _, entry := range strings.Split(accept, ",") {
		ext := strings.ReplaceAll(strings.TrimSpace(entry), "*", "")
		if ext == "" {
			continue
		}
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// AttachFile gates and records one attachment on an existing submission.
// The target field is resolved from the version the submission was
// validated against, never from the form's current version. The returned
// record carries the StorageKey the caller must write the bytes under.
func AttachFile(ctx context.Context, submissionID primitive.ObjectID, fieldName, filename string, size int64, mimeType string) (*models.FileUpload, error) {
	submission, err := submissions.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	var response *models.FieldResponse
	for i := range submission.Responses {
		if submission.Responses[i].FieldName == fieldName {
			response = &submission.Responses[i]
			break
		}
	}
	if response == nil {
		return nil, ErrResponseNotFound
	}

	fields, err := forms.GetVersionFields(ctx, submission.VersionID)
	if err != nil {
		return nil, err
	}
	var field *models.FormField
	for i := range fields {
		if fields[i].ID == response.FieldID {
			field = &fields[i]
			break
		}
	}
	if field == nil {
		return nil, fmt.Errorf("field %s missing from version %s", fieldName, submission.VersionID.Hex())
	}

	count, err := CountResponseFiles(ctx, response.ID)
	if err != nil {
		return nil, err
	}

	if err := CheckAttachment(*field, filename, size, count); err != nil {
		return nil, err
	}

	upload := models.FileUpload{
		ID:               primitive.NewObjectID(),
		SubmissionID:     submissionID,
		ResponseID:       response.ID,
		FieldName:        fieldName,
		OriginalFilename: filename,
		FileSize:         size,
		MimeType:         mimeType,
		StorageKey:       uuid.NewString() + strings.ToLower(filepath.Ext(filename)),
		CreatedAt:        time.Now(),
	}

	if _, err := fileUploadCollection.InsertOne(ctx, upload); err != nil {
		return nil, err
	}

	ref := models.FileRef{UploadID: upload.ID, Filename: filename}
	if err := submissions.AppendFileRef(ctx, submissionID, response.ID, ref); err != nil {
		return nil, err
	}

	return &upload, nil
}

// DeleteUpload removes an accepted record and unlinks it from its
// response. Called when writing the bytes after acceptance fails, so the
// database never references a file that does not exist.
func DeleteUpload(ctx context.Context, upload *models.FileUpload) error {
	if _, err := fileUploadCollection.DeleteOne(ctx, bson.M{"_id": upload.ID}); err != nil {
		return err
	}
	return submissions.PullFileRef(ctx, upload.SubmissionID, upload.ResponseID, upload.ID)
}

// CountResponseFiles returns how many uploads a response already holds.
func CountResponseFiles(ctx context.Context, responseID primitive.ObjectID) (int, error) {
	n, err := fileUploadCollection.CountDocuments(ctx, bson.M{"responseId": responseID})
	return int(n), err
}

// ListSubmissionFiles returns every upload attached to a submission,
// oldest first.
func ListSubmissionFiles(ctx context.Context, submissionID primitive.ObjectID) ([]models.FileUpload, error) {
	cursor, err := fileUploadCollection.Find(ctx,
		bson.M{"submissionId": submissionID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	files := make([]models.FileUpload, 0)
	if err = cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}
