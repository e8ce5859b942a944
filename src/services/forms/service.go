package forms

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/database"
	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	formCollection       *mongo.Collection
	versionCollection    *mongo.Collection
	fieldCollection      *mongo.Collection
	submissionCollection *mongo.Collection
)

var (
	ErrFormNotFound      = errors.New("form not found")
	ErrVersionNotFound   = errors.New("form version not found")
	ErrNoActiveVersion   = errors.New("form has no active version")
	ErrDuplicateFormName = errors.New("a form with this name already exists")
)

// InitFormService wires the collections. Call after database.ConnectMongoDB.
func InitFormService() {
	formCollection = database.GetCollection(database.DBName, "forms")
	versionCollection = database.GetCollection(database.DBName, "form_versions")
	fieldCollection = database.GetCollection(database.DBName, "form_fields")
	submissionCollection = database.GetCollection(database.DBName, "submissions")

	if formCollection == nil || versionCollection == nil || fieldCollection == nil || submissionCollection == nil {
		log.Fatal("Failed to get the required collections")
	}
}

// CreateForm creates a new form together with version 1 and its fields.
func CreateForm(ctx context.Context, req *models.CreateFormRequest, createdBy primitive.ObjectID) (*models.FormDetail, error) {
	if err := ValidateFieldDefs(req.Fields); err != nil {
		return nil, err
	}

	now := time.Now()
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	form := &models.Form{
		Name:               req.Name,
		Description:        req.Description,
		IsActive:           isActive,
		CreatedBy:          createdBy,
		NotificationEmails: req.NotificationEmails,
		WebhookURL:         req.WebhookURL,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	result, err := formCollection.InsertOne(ctx, form)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateFormName
		}
		return nil, err
	}
	form.ID = result.InsertedID.(primitive.ObjectID)

	version, fields, err := CreateNewVersion(ctx, form.ID, req.Fields)
	if err != nil {
		return nil, err
	}
	form.CurrentVersionID = &version.ID

	return &models.FormDetail{Form: *form, Version: version, Fields: fields}, nil
}

// GetForms retrieves forms with pagination and optional search.
// activeOnly hides deactivated forms from non-admin callers.
func GetForms(ctx context.Context, params models.PaginationParams, activeOnly bool) (*models.PaginatedResponse, error) {
	params.Normalize()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	if params.Search != "" {
		filter["name"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	total, err := formCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(params.GetSortOrder())

	cursor, err := formCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := make([]models.Form, 0)
	if err = cursor.All(ctx, &forms); err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(forms, total, params), nil
}

// GetFormByID retrieves a form with its current version and fields.
func GetFormByID(ctx context.Context, formID primitive.ObjectID) (*models.FormDetail, error) {
	form, err := getForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	detail := &models.FormDetail{Form: *form}
	if form.CurrentVersionID == nil {
		return detail, nil
	}

	version, err := getVersion(ctx, *form.CurrentVersionID)
	if err != nil {
		return nil, err
	}
	fields, err := GetVersionFields(ctx, version.ID)
	if err != nil {
		return nil, err
	}

	detail.Version = version
	detail.Fields = fields
	return detail, nil
}

// UpdateForm edits form metadata in place. When req.Fields is present the
// field list goes onto a brand-new version; existing versions stay untouched.
func UpdateForm(ctx context.Context, formID primitive.ObjectID, req *models.UpdateFormRequest) (*models.FormDetail, error) {
	if _, err := getForm(ctx, formID); err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.NotificationEmails != nil {
		set["notificationEmails"] = *req.NotificationEmails
	}
	if req.WebhookURL != nil {
		set["webhookUrl"] = *req.WebhookURL
	}

	if _, err := formCollection.UpdateOne(ctx, bson.M{"_id": formID}, bson.M{"$set": set}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateFormName
		}
		return nil, err
	}

	if req.Fields != nil {
		if err := ValidateFieldDefs(*req.Fields); err != nil {
			return nil, err
		}
		if _, _, err := CreateNewVersion(ctx, formID, *req.Fields); err != nil {
			return nil, err
		}
	}

	return GetFormByID(ctx, formID)
}

// SetFormActive flips the active flag. Forms are never hard-deleted because
// submissions keep pointing at their versions.
func SetFormActive(ctx context.Context, formID primitive.ObjectID, active bool) error {
	result, err := formCollection.UpdateOne(ctx, bson.M{"_id": formID},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrFormNotFound
	}
	return nil
}

// DuplicateForm clones a form's current field list into a fresh inactive
// form starting over at version 1.
func DuplicateForm(ctx context.Context, formID primitive.ObjectID, createdBy primitive.ObjectID) (*models.FormDetail, error) {
	source, err := getForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	var defs []models.FieldDefinition
	if source.CurrentVersionID != nil {
		fields, err := GetVersionFields(ctx, *source.CurrentVersionID)
		if err != nil {
			return nil, err
		}
		defs = FieldDefsFromFields(fields)
	}

	inactive := false
	req := &models.CreateFormRequest{
		Name:               source.Name + " (Copy)",
		Description:        source.Description,
		IsActive:           &inactive,
		NotificationEmails: source.NotificationEmails,
		WebhookURL:         source.WebhookURL,
		Fields:             defs,
	}
	return CreateForm(ctx, req, createdBy)
}

// GetFormVersions lists every version of a form, oldest first.
func GetFormVersions(ctx context.Context, formID primitive.ObjectID) ([]models.FormVersion, error) {
	if _, err := getForm(ctx, formID); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "versionNumber", Value: 1}})
	cursor, err := versionCollection.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	versions := make([]models.FormVersion, 0)
	if err = cursor.All(ctx, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// GetCurrentSchema returns the compiled schema of the form's current version.
// The document was frozen at version-creation time; Redis just saves the read.
func GetCurrentSchema(ctx context.Context, formID primitive.ObjectID) (*models.SchemaDocument, error) {
	var cached models.SchemaDocument
	if hit, err := utils.GetCachedFormSchema(formID.Hex(), &cached); err == nil && hit {
		return &cached, nil
	}

	form, err := getForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.CurrentVersionID == nil {
		return nil, ErrNoActiveVersion
	}

	version, err := getVersion(ctx, *form.CurrentVersionID)
	if err != nil {
		return nil, err
	}
	if version.Schema == nil {
		return nil, ErrNoActiveVersion
	}

	if err := utils.CacheFormSchema(formID.Hex(), version.Schema); err != nil {
		log.Println("⚠️ schema cache write failed:", err)
	}
	return version.Schema, nil
}

// GetFormAnalytics aggregates submission counts for one form.
func GetFormAnalytics(ctx context.Context, formID primitive.ObjectID) (*models.AnalyticsResponse, error) {
	form, err := getForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	pipeline := []bson.M{
		{"$match": bson.M{"formId": formID}},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := submissionCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	breakdown := make(map[string]int64)
	var total int64
	for _, row := range rows {
		breakdown[row.ID] = row.Count
		total += row.Count
	}

	since := time.Now().AddDate(0, 0, -30)
	recent, err := submissionCollection.CountDocuments(ctx, bson.M{
		"formId":    formID,
		"createdAt": bson.M{"$gte": since},
	})
	if err != nil {
		return nil, err
	}

	currentVersion := 0
	if form.CurrentVersionID != nil {
		if version, err := getVersion(ctx, *form.CurrentVersionID); err == nil {
			currentVersion = version.VersionNumber
		}
	}

	return &models.AnalyticsResponse{
		FormID:                formID,
		TotalSubmissions:      total,
		StatusBreakdown:       breakdown,
		SubmissionsLast30Days: recent,
		CurrentVersion:        currentVersion,
	}, nil
}

// GetVersionFields loads the field list of one version, in render order.
func GetVersionFields(ctx context.Context, versionID primitive.ObjectID) ([]models.FormField, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := fieldCollection.Find(ctx, bson.M{"versionId": versionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	fields := make([]models.FormField, 0)
	if err = cursor.All(ctx, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// GetVersionByID exposes a single version for the submissions service.
func GetVersionByID(ctx context.Context, versionID primitive.ObjectID) (*models.FormVersion, error) {
	return getVersion(ctx, versionID)
}

func getForm(ctx context.Context, formID primitive.ObjectID) (*models.Form, error) {
	var form models.Form
	err := formCollection.FindOne(ctx, bson.M{"_id": formID}).Decode(&form)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetForm loads just the form document.
func GetForm(ctx context.Context, formID primitive.ObjectID) (*models.Form, error) {
	return getForm(ctx, formID)
}

func getVersion(ctx context.Context, versionID primitive.ObjectID) (*models.FormVersion, error) {
	var version models.FormVersion
	err := versionCollection.FindOne(ctx, bson.M{"_id": versionID}).Decode(&version)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}
