package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- SubmissionStatus ---
type SubmissionStatus string

const (
	StatusDraft       SubmissionStatus = "draft"
	StatusSubmitted   SubmissionStatus = "submitted"
	StatusUnderReview SubmissionStatus = "under_review"
	StatusApproved    SubmissionStatus = "approved"
	StatusRejected    SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// --- FormSubmission ---
// Responses are embedded so a submission and its answers land in one
// document: readers never see a submission with half its responses.
// VersionID pins the exact version the payload was validated against.
type FormSubmission struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	FormID      primitive.ObjectID  `bson:"formId" json:"formId"`
	VersionID   primitive.ObjectID  `bson:"versionId" json:"versionId"`
	SubmittedBy primitive.ObjectID  `bson:"submittedBy,omitempty" json:"submittedBy,omitempty"`
	Status      SubmissionStatus    `bson:"status" json:"status"`
	SubmittedAt *time.Time          `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time          `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewNotes string              `bson:"reviewNotes,omitempty" json:"reviewNotes,omitempty"`
	Responses   []FieldResponse     `bson:"responses" json:"responses"`
	CreatedAt   time.Time           `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// --- FieldResponse ---
// Field name/label/type are copied in at validation time so historical
// submissions stay readable even though they reference an old version.
type FieldResponse struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FieldID    primitive.ObjectID `bson:"fieldId" json:"fieldId"`
	FieldName  string             `bson:"fieldName" json:"fieldName"`
	FieldLabel string             `bson:"fieldLabel" json:"fieldLabel"`
	FieldType  FieldType          `bson:"fieldType" json:"fieldType"`
	Value      interface{}        `bson:"value" json:"value"`
	Files      []FileRef          `bson:"files,omitempty" json:"files,omitempty"`
}

// --- Request DTOs ---

type CreateSubmissionRequest struct {
	FormID string                 `json:"formId" validate:"required"`
	Status SubmissionStatus       `json:"status" validate:"omitempty,oneof=draft submitted"`
	Data   map[string]interface{} `json:"data" validate:"required"`
}

type ReviewRequest struct {
	Status SubmissionStatus `json:"status" validate:"required,oneof=under_review approved rejected"`
	Notes  string           `json:"notes"`
}

// SubmissionExport is the flat shape the export endpoint returns.
type SubmissionExport struct {
	Submission FormSubmission `json:"submission"`
	FormName   string         `json:"formName"`
	Version    int            `json:"version"`
	Files      []FileUpload   `json:"files"`
}
