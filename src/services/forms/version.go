package forms

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// How many times we re-read the latest version number when two callers
// race to version the same form. The unique (formId, versionNumber) index
// turns the loser's insert into a duplicate-key error.
const maxVersionRetries = 3

var (
	ErrVersionConflict = errors.New("form was versioned concurrently, please retry")

	// ErrInvalidDefinition wraps every rejection of a field definition so
	// callers can map the whole class to a 400.
	ErrInvalidDefinition = errors.New("invalid field definition")
)

// CreateNewVersion freezes defs into the next version of the form:
// version number = highest existing + 1, schema compiled once right here,
// and the form's current-version pointer advanced. Old versions and the
// submissions referencing them are never touched.
func CreateNewVersion(ctx context.Context, formID primitive.ObjectID, defs []models.FieldDefinition) (*models.FormVersion, []models.FormField, error) {
	if err := ValidateFieldDefs(defs); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	versionID := primitive.NewObjectID()
	fields := BuildFields(versionID, defs, now)
	schema := BuildSchema(fields)

	version := &models.FormVersion{
		ID:        versionID,
		FormID:    formID,
		Schema:    schema,
		CreatedAt: now,
	}

	if err := assignNextVersionNumber(ctx, version); err != nil {
		return nil, nil, err
	}

	if len(fields) > 0 {
		docs := make([]interface{}, 0, len(fields))
		for _, field := range fields {
			docs = append(docs, field)
		}
		if _, err := fieldCollection.InsertMany(ctx, docs); err != nil {
			return nil, nil, err
		}
	}

	_, err := formCollection.UpdateOne(ctx, bson.M{"_id": formID},
		bson.M{"$set": bson.M{"currentVersionId": version.ID, "updatedAt": now}})
	if err != nil {
		return nil, nil, err
	}

	// Old compiled schema must not be served for new submissions.
	if err := utils.InvalidateFormSchema(formID.Hex()); err != nil {
		log.Println("⚠️ schema cache invalidation failed:", err)
	}

	return version, fields, nil
}

// Function vars so the numbering race can be exercised without a running
// database; the real implementations hit the collections.
var (
	nextVersionNumber = readNextVersionNumber
	insertVersion     = func(ctx context.Context, version *models.FormVersion) error {
		_, err := versionCollection.InsertOne(ctx, version)
		return err
	}
)

// assignNextVersionNumber reserves the next contiguous number for the
// version and inserts it. The unique (formId, versionNumber) index turns
// the loser of a concurrent race into a duplicate-key error; the loser
// re-reads the latest number and tries again.
func assignNextVersionNumber(ctx context.Context, version *models.FormVersion) error {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		next, err := nextVersionNumber(ctx, version.FormID)
		if err != nil {
			return err
		}
		version.VersionNumber = next

		err = insertVersion(ctx, version)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return err
		}
		// someone else took this number, re-read and retry
	}
	return ErrVersionConflict
}

func readNextVersionNumber(ctx context.Context, formID primitive.ObjectID) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "versionNumber", Value: -1}})

	var latest models.FormVersion
	err := versionCollection.FindOne(ctx, bson.M{"formId": formID}, opts).Decode(&latest)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, err
	}
	return latest.VersionNumber + 1, nil
}

// BuildFields materializes field documents for a version. IDs are assigned
// here so the compiled schema can reference them before any insert happens.
// Order defaults to the position in the request when not given.
func BuildFields(versionID primitive.ObjectID, defs []models.FieldDefinition, now time.Time) []models.FormField {
	fields := make([]models.FormField, 0, len(defs))
	for i, def := range defs {
		order := i + 1
		if def.Order != nil {
			order = *def.Order
		}

		rules := make([]models.ValidationRule, 0, len(def.Rules))
		for _, rule := range def.Rules {
			rules = append(rules, models.ValidationRule{
				Type:         rule.Type,
				Config:       rule.Config,
				ErrorMessage: rule.ErrorMessage,
			})
		}

		fields = append(fields, models.FormField{
			ID:        primitive.NewObjectID(),
			VersionID: versionID,
			Name:      def.Name,
			Label:     def.Label,
			Type:      def.Type,
			Order:     order,
			Config:    def.Config,
			Rules:     rules,
			CreatedAt: now,
		})
	}
	return fields
}

// ValidateFieldDefs rejects a field list the engine could never validate
// submissions against. Runs before anything is written.
func ValidateFieldDefs(defs []models.FieldDefinition) error {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("%w: field name is required", ErrInvalidDefinition)
		}
		if seen[def.Name] {
			return fmt.Errorf("%w: duplicate field name: %s", ErrInvalidDefinition, def.Name)
		}
		seen[def.Name] = true

		if !def.Type.Valid() {
			return fmt.Errorf("%w: unsupported field type: %s", ErrInvalidDefinition, def.Type)
		}

		switch def.Type {
		case models.FieldSelect, models.FieldMultiSelect, models.FieldRadio:
			if len(def.Config.Options) == 0 {
				return fmt.Errorf("%w: options are required for %s fields", ErrInvalidDefinition, def.Type)
			}
		}

		for _, rule := range def.Rules {
			if !rule.Type.Valid() {
				return fmt.Errorf("%w: unsupported rule type: %s", ErrInvalidDefinition, rule.Type)
			}
			if rule.Type == models.RulePattern {
				pattern, _ := rule.Config["pattern"].(string)
				if pattern == "" {
					return fmt.Errorf("%w: pattern rule on field %s needs a pattern", ErrInvalidDefinition, def.Name)
				}
				if _, err := regexp.Compile(pattern); err != nil {
					return fmt.Errorf("%w: invalid pattern on field %s: %v", ErrInvalidDefinition, def.Name, err)
				}
			}
		}
	}
	return nil
}

// FieldDefsFromFields converts stored fields back into definitions,
// used when duplicating a form.
func FieldDefsFromFields(fields []models.FormField) []models.FieldDefinition {
	defs := make([]models.FieldDefinition, 0, len(fields))
	for _, field := range fields {
		order := field.Order
		rules := make([]models.RuleDefinition, 0, len(field.Rules))
		for _, rule := range field.Rules {
			rules = append(rules, models.RuleDefinition{
				Type:         rule.Type,
				Config:       rule.Config,
				ErrorMessage: rule.ErrorMessage,
			})
		}
		defs = append(defs, models.FieldDefinition{
			Name:   field.Name,
			Label:  field.Label,
			Type:   field.Type,
			Order:  &order,
			Config: field.Config,
			Rules:  rules,
		})
	}
	return defs
}
