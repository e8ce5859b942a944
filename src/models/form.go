package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Form ---
// Form is the mutable container. Its fields live on immutable FormVersions;
// CurrentVersionID points at the version new submissions validate against.
type Form struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name               string              `bson:"name" json:"name"`
	Description        string              `bson:"description" json:"description"`
	IsActive           bool                `bson:"isActive" json:"isActive"`
	CreatedBy          primitive.ObjectID  `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	NotificationEmails []string            `bson:"notificationEmails,omitempty" json:"notificationEmails,omitempty"`
	WebhookURL         string              `bson:"webhookUrl,omitempty" json:"webhookUrl,omitempty"`
	CurrentVersionID   *primitive.ObjectID `bson:"currentVersionId,omitempty" json:"currentVersionId,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// --- FormVersion ---
// Never edited or deleted once written. VersionNumber starts at 1 and is
// contiguous per form (unique index on formId+versionNumber).
type FormVersion struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FormID        primitive.ObjectID `bson:"formId" json:"formId"`
	VersionNumber int                `bson:"versionNumber" json:"versionNumber"`
	Schema        *SchemaDocument    `bson:"schema,omitempty" json:"schema,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

// --- FormField ---
type FormField struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	VersionID primitive.ObjectID `bson:"versionId" json:"versionId"`
	Name      string             `bson:"name" json:"name"`
	Label     string             `bson:"label" json:"label"`
	Type      FieldType          `bson:"type" json:"type"`
	Order     int                `bson:"order" json:"order"`
	Config    FieldConfig        `bson:"config" json:"config"`
	Rules     []ValidationRule   `bson:"validationRules,omitempty" json:"validation_rules,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

// --- FieldType ---
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldEmail       FieldType = "email"
	FieldPhone       FieldType = "phone"
	FieldDate        FieldType = "date"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multi_select"
	FieldRadio       FieldType = "radio"
	FieldCheckbox    FieldType = "checkbox"
	FieldFile        FieldType = "file"
	FieldMultiFile   FieldType = "multi_file"
)

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldTextarea, FieldNumber, FieldEmail, FieldPhone, FieldDate,
		FieldSelect, FieldMultiSelect, FieldRadio, FieldCheckbox, FieldFile, FieldMultiFile:
		return true
	}
	return false
}

// IsFile reports whether t accepts file attachments.
func (t FieldType) IsFile() bool {
	return t == FieldFile || t == FieldMultiFile
}

// --- FieldConfig ---
// Typed per-field settings. Unknown keys sent by clients are dropped on
// decode; the validator reads constraints from here, not from rule rows.
// Snake_case tags because the compiled schema document is a wire contract.
type FieldConfig struct {
	Required     bool        `bson:"required,omitempty" json:"required,omitempty"`
	Placeholder  string      `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	HelpText     string      `bson:"help_text,omitempty" json:"help_text,omitempty"`
	DefaultValue interface{} `bson:"default_value,omitempty" json:"default_value,omitempty"`
	MinLength    *int        `bson:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength    *int        `bson:"max_length,omitempty" json:"max_length,omitempty"`
	MinValue     *float64    `bson:"min_value,omitempty" json:"min_value,omitempty"`
	MaxValue     *float64    `bson:"max_value,omitempty" json:"max_value,omitempty"`
	Options      []string    `bson:"options,omitempty" json:"options,omitempty"`
	Accept       string      `bson:"accept,omitempty" json:"accept,omitempty"`
	MaxFiles     *int        `bson:"max_files,omitempty" json:"max_files,omitempty"`
	MaxSizeMB    *float64    `bson:"max_size_mb,omitempty" json:"max_size_mb,omitempty"`
}

// --- ValidationRule ---
// Declarative extras attached to a field. Field config stays authoritative
// for the structural checks; rules add pattern/email/phone/custom on top.
type ValidationRule struct {
	Type         RuleType               `bson:"type" json:"type"`
	Config       map[string]interface{} `bson:"config,omitempty" json:"config,omitempty"`
	ErrorMessage string                 `bson:"error_message,omitempty" json:"error_message,omitempty"`
}

type RuleType string

const (
	RuleRequired    RuleType = "required"
	RuleMinLength   RuleType = "min_length"
	RuleMaxLength   RuleType = "max_length"
	RulePattern     RuleType = "pattern"
	RuleMinValue    RuleType = "min_value"
	RuleMaxValue    RuleType = "max_value"
	RuleConditional RuleType = "conditional"
	RuleFileType    RuleType = "file_type"
	RuleFileSize    RuleType = "file_size"
	RuleEmail       RuleType = "email"
	RulePhone       RuleType = "phone"
	RuleCustom      RuleType = "custom"
)

func (r RuleType) Valid() bool {
	switch r {
	case RuleRequired, RuleMinLength, RuleMaxLength, RulePattern, RuleMinValue,
		RuleMaxValue, RuleConditional, RuleFileType, RuleFileSize, RuleEmail,
		RulePhone, RuleCustom:
		return true
	}
	return false
}

// --- Request DTOs ---

type CreateFormRequest struct {
	Name               string            `json:"name" validate:"required,max=255"`
	Description        string            `json:"description"`
	IsActive           *bool             `json:"isActive"`
	NotificationEmails []string          `json:"notificationEmails" validate:"omitempty,dive,email"`
	WebhookURL         string            `json:"webhookUrl" validate:"omitempty,url"`
	Fields             []FieldDefinition `json:"fields" validate:"omitempty,dive"`
}

type UpdateFormRequest struct {
	Name               *string            `json:"name" validate:"omitempty,max=255"`
	Description        *string            `json:"description"`
	IsActive           *bool              `json:"isActive"`
	NotificationEmails *[]string          `json:"notificationEmails" validate:"omitempty,dive,email"`
	WebhookURL         *string            `json:"webhookUrl" validate:"omitempty,url"`
	Fields             *[]FieldDefinition `json:"fields" validate:"omitempty,dive"` // non-nil = build a new version
}

type FieldDefinition struct {
	Name   string           `json:"name" validate:"required,max=100"`
	Label  string           `json:"label" validate:"required,max=255"`
	Type   FieldType        `json:"type" validate:"required,oneof=text textarea number email phone date select multi_select radio checkbox file multi_file"`
	Order  *int             `json:"order"`
	Config FieldConfig      `json:"config"`
	Rules  []RuleDefinition `json:"validation_rules" validate:"omitempty,dive"`
}

type RuleDefinition struct {
	Type         RuleType               `json:"type" validate:"required,oneof=required min_length max_length pattern min_value max_value conditional file_type file_size email phone custom"`
	Config       map[string]interface{} `json:"config"`
	ErrorMessage string                 `json:"error_message"`
}

// FormDetail bundles a form with its current version and that version's fields.
type FormDetail struct {
	Form    Form         `json:"form"`
	Version *FormVersion `json:"version,omitempty"`
	Fields  []FormField  `json:"fields,omitempty"`
}

// AnalyticsResponse สรุปตัวเลขของฟอร์มหนึ่งตัว
type AnalyticsResponse struct {
	FormID                primitive.ObjectID `json:"formId"`
	TotalSubmissions      int64              `json:"totalSubmissions"`
	StatusBreakdown       map[string]int64   `json:"statusBreakdown"`
	SubmissionsLast30Days int64              `json:"submissionsLast30Days"`
	CurrentVersion        int                `json:"currentVersion"`
}
