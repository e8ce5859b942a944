package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func orderPtr(v int) *int { return &v }

func TestBuildFields(t *testing.T) {
	now := time.Now()
	versionID := primitive.NewObjectID()

	defs := []models.FieldDefinition{
		{Name: "full_name", Label: "Full Name", Type: models.FieldText},
		{Name: "email", Label: "Email", Type: models.FieldEmail, Order: orderPtr(10)},
		{
			Name: "phone", Label: "Phone", Type: models.FieldPhone,
			Rules: []models.RuleDefinition{{Type: models.RulePhone, ErrorMessage: "Bad phone"}},
		},
	}

	fields := BuildFields(versionID, defs, now)
	require.Len(t, fields, 3)

	// Order defaults to the position in the request, 1-based
	assert.Equal(t, 1, fields[0].Order)
	// An explicit order wins over the position
	assert.Equal(t, 10, fields[1].Order)
	assert.Equal(t, 3, fields[2].Order)

	for _, field := range fields {
		assert.False(t, field.ID.IsZero())
		assert.Equal(t, versionID, field.VersionID)
		assert.Equal(t, now, field.CreatedAt)
	}

	require.Len(t, fields[2].Rules, 1)
	assert.Equal(t, models.RulePhone, fields[2].Rules[0].Type)
	assert.Equal(t, "Bad phone", fields[2].Rules[0].ErrorMessage)
}

func TestValidateFieldDefs(t *testing.T) {
	valid := []models.FieldDefinition{
		{Name: "full_name", Label: "Full Name", Type: models.FieldText},
		{Name: "account_type", Label: "Account Type", Type: models.FieldSelect,
			Config: models.FieldConfig{Options: []string{"Personal", "Business"}}},
	}
	assert.NoError(t, ValidateFieldDefs(valid))
	assert.NoError(t, ValidateFieldDefs(nil))

	t.Run("TestDuplicateName", func(t *testing.T) {
		err := ValidateFieldDefs([]models.FieldDefinition{
			{Name: "email", Label: "Email", Type: models.FieldEmail},
			{Name: "email", Label: "Backup Email", Type: models.FieldEmail},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidDefinition))
		assert.Contains(t, err.Error(), "duplicate field name")
	})

	t.Run("TestEmptyName", func(t *testing.T) {
		err := ValidateFieldDefs([]models.FieldDefinition{{Label: "No Name", Type: models.FieldText}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidDefinition))
	})

	t.Run("TestUnknownType", func(t *testing.T) {
		err := ValidateFieldDefs([]models.FieldDefinition{{Name: "x", Label: "X", Type: "signature"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported field type")
	})

	t.Run("TestChoiceFieldsNeedOptions", func(t *testing.T) {
		for _, ftype := range []models.FieldType{models.FieldSelect, models.FieldMultiSelect, models.FieldRadio} {
			err := ValidateFieldDefs([]models.FieldDefinition{{Name: "choice", Label: "Choice", Type: ftype}})
			require.Error(t, err, "type %s must require options", ftype)
			assert.Contains(t, err.Error(), "options are required")
		}
	})

	t.Run("TestPatternRuleMustCompile", func(t *testing.T) {
		err := ValidateFieldDefs([]models.FieldDefinition{{
			Name: "code", Label: "Code", Type: models.FieldText,
			Rules: []models.RuleDefinition{{
				Type:   models.RulePattern,
				Config: map[string]interface{}{"pattern": "([unclosed"},
			}},
		}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid pattern")

		err = ValidateFieldDefs([]models.FieldDefinition{{
			Name: "code", Label: "Code", Type: models.FieldText,
			Rules: []models.RuleDefinition{{Type: models.RulePattern}},
		}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "needs a pattern")
	})

	t.Run("TestUnknownRuleType", func(t *testing.T) {
		err := ValidateFieldDefs([]models.FieldDefinition{{
			Name: "code", Label: "Code", Type: models.FieldText,
			Rules: []models.RuleDefinition{{Type: "lucky_number"}},
		}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported rule type")
	})
}

// duplicateKeyErr is what the driver reports when the unique
// (formId, versionNumber) index rejects an insert.
var duplicateKeyErr = mongo.WriteException{
	WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
}

func TestAssignNextVersionNumberRetriesOnConflict(t *testing.T) {
	origNext, origInsert := nextVersionNumber, insertVersion
	defer func() { nextVersionNumber, insertVersion = origNext, origInsert }()

	// Two callers race for version 4; this one loses the first insert,
	// re-reads and lands on 5.
	latest := 3
	reads := []int{}
	nextVersionNumber = func(ctx context.Context, formID primitive.ObjectID) (int, error) {
		reads = append(reads, latest+1)
		return latest + 1, nil
	}

	conflicts := 1
	inserts := 0
	insertVersion = func(ctx context.Context, version *models.FormVersion) error {
		inserts++
		if conflicts > 0 {
			conflicts--
			latest++ // the winner took this number
			return duplicateKeyErr
		}
		return nil
	}

	version := &models.FormVersion{ID: primitive.NewObjectID(), FormID: primitive.NewObjectID()}
	require.NoError(t, assignNextVersionNumber(context.Background(), version))

	assert.Equal(t, 5, version.VersionNumber)
	assert.Equal(t, []int{4, 5}, reads, "the number is re-read after a conflict")
	assert.Equal(t, 2, inserts)
}

func TestAssignNextVersionNumberGivesUpAfterRetries(t *testing.T) {
	origNext, origInsert := nextVersionNumber, insertVersion
	defer func() { nextVersionNumber, insertVersion = origNext, origInsert }()

	nextVersionNumber = func(ctx context.Context, formID primitive.ObjectID) (int, error) {
		return 2, nil
	}

	inserts := 0
	insertVersion = func(ctx context.Context, version *models.FormVersion) error {
		inserts++
		return duplicateKeyErr
	}

	version := &models.FormVersion{ID: primitive.NewObjectID(), FormID: primitive.NewObjectID()}
	err := assignNextVersionNumber(context.Background(), version)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionConflict))
	assert.Equal(t, maxVersionRetries, inserts)
}

func TestAssignNextVersionNumberPassesThroughOtherErrors(t *testing.T) {
	origNext, origInsert := nextVersionNumber, insertVersion
	defer func() { nextVersionNumber, insertVersion = origNext, origInsert }()

	nextVersionNumber = func(ctx context.Context, formID primitive.ObjectID) (int, error) {
		return 1, nil
	}

	boom := errors.New("connection reset")
	inserts := 0
	insertVersion = func(ctx context.Context, version *models.FormVersion) error {
		inserts++
		return boom
	}

	version := &models.FormVersion{ID: primitive.NewObjectID(), FormID: primitive.NewObjectID()}
	err := assignNextVersionNumber(context.Background(), version)

	assert.Equal(t, boom, err, "non-conflict errors are not retried")
	assert.Equal(t, 1, inserts)
}

func TestFieldDefsFromFields(t *testing.T) {
	maxFiles := 3
	fields := []models.FormField{{
		ID:        primitive.NewObjectID(),
		VersionID: primitive.NewObjectID(),
		Name:      "supporting_docs",
		Label:     "Supporting Documents",
		Type:      models.FieldMultiFile,
		Order:     7,
		Config:    models.FieldConfig{Accept: ".pdf", MaxFiles: &maxFiles},
		Rules:     []models.ValidationRule{{Type: models.RuleFileType, ErrorMessage: "PDF only"}},
		CreatedAt: time.Now(),
	}}

	defs := FieldDefsFromFields(fields)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, "supporting_docs", def.Name)
	assert.Equal(t, models.FieldMultiFile, def.Type)
	require.NotNil(t, def.Order)
	assert.Equal(t, 7, *def.Order)
	assert.Equal(t, ".pdf", def.Config.Accept)
	require.Len(t, def.Rules, 1)
	assert.Equal(t, "PDF only", def.Rules[0].ErrorMessage)

	// The round trip feeds the duplicate-form path: definitions rebuilt from
	// stored fields must validate and rebuild into equivalent fields.
	require.NoError(t, ValidateFieldDefs(defs))
	rebuilt := BuildFields(primitive.NewObjectID(), defs, time.Now())
	require.Len(t, rebuilt, 1)
	assert.Equal(t, fields[0].Name, rebuilt[0].Name)
	assert.Equal(t, fields[0].Order, rebuilt[0].Order)
	assert.NotEqual(t, fields[0].ID, rebuilt[0].ID, "duplicated fields get fresh IDs")
}
