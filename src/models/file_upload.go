package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileRef is the embedded pointer a field response keeps to an uploaded
// file, so a submission document lists its attachments without a join.
type FileRef struct {
	UploadID primitive.ObjectID `bson:"uploadId" json:"upload_id"`
	Filename string             `bson:"filename" json:"filename"`
}

// FileUpload records one accepted attachment. StorageKey is the opaque
// handle of the stored blob; this service never reads the bytes back.
type FileUpload struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SubmissionID     primitive.ObjectID `bson:"submissionId" json:"submissionId"`
	ResponseID       primitive.ObjectID `bson:"responseId" json:"responseId"`
	FieldName        string             `bson:"fieldName" json:"fieldName"`
	OriginalFilename string             `bson:"originalFilename" json:"originalFilename"`
	FileSize         int64              `bson:"fileSize" json:"fileSize"`
	MimeType         string             `bson:"mimeType" json:"mimeType"`
	StorageKey       string             `bson:"storageKey" json:"storageKey"`
	CreatedAt        time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}
