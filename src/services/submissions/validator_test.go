package submissions

import (
	"testing"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func textField(name, label string, required bool, minLen, maxLen *int) models.FormField {
	return models.FormField{
		ID:     primitive.NewObjectID(),
		Name:   name,
		Label:  label,
		Type:   models.FieldText,
		Config: models.FieldConfig{Required: required, MinLength: minLen, MaxLength: maxLen},
	}
}

func TestPayloadValidation(t *testing.T) {
	suiteResult := test.NewTestSuiteResult("Payload Validation Tests")
	defer suiteResult.PrintSummary()

	// The concrete onboarding shape: required name + required bounded email
	fields := []models.FormField{
		textField("full_name", "Full Name", true, nil, nil),
		{
			ID:     primitive.NewObjectID(),
			Name:   "email",
			Label:  "Email",
			Type:   models.FieldEmail,
			Config: models.FieldConfig{Required: true, MaxLength: intPtr(255)},
		},
	}

	t.Run("TestValidPayloadAccepted", func(t *testing.T) {
		timer := test.NewTestTimer("Valid Payload Accepted")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Valid Payload Accepted", Duration: duration, Passed: true})
			test.PerformanceAssertion(t, "Valid Payload Accepted", duration, 100*time.Millisecond)
		}()

		responses, verr := ValidatePayload(fields, map[string]interface{}{
			"full_name": "John Doe",
			"email":     "john@example.com",
		})

		require.Nil(t, verr)
		require.Len(t, responses, 2)
		assert.Equal(t, "full_name", responses[0].FieldName)
		assert.Equal(t, "John Doe", responses[0].Value)
		assert.Equal(t, fields[0].ID, responses[0].FieldID)
		assert.Equal(t, "Email", responses[1].FieldLabel)
		assert.Equal(t, models.FieldEmail, responses[1].FieldType)
	})

	t.Run("TestMissingRequiredFieldRejected", func(t *testing.T) {
		timer := test.NewTestTimer("Missing Required Field Rejected")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Missing Required Field Rejected", Duration: duration, Passed: true})
		}()

		responses, verr := ValidatePayload(fields, map[string]interface{}{
			"full_name": "John Doe",
		})

		require.NotNil(t, verr)
		assert.Nil(t, responses)
		assert.Equal(t, "email", verr.Field)
		assert.Equal(t, "Field 'Email' is required", verr.Message)

		// Same payload passes once the field is supplied
		_, verr = ValidatePayload(fields, map[string]interface{}{
			"full_name": "John Doe",
			"email":     "john@example.com",
		})
		assert.Nil(t, verr)
	})

	t.Run("TestUnknownKeysIgnored", func(t *testing.T) {
		timer := test.NewTestTimer("Unknown Keys Ignored")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Unknown Keys Ignored", Duration: duration, Passed: true})
		}()

		responses, verr := ValidatePayload(fields, map[string]interface{}{
			"full_name":  "John Doe",
			"email":      "john@example.com",
			"csrf_token": "abc123",
			"utm_source": "twitter",
		})

		require.Nil(t, verr)
		assert.Len(t, responses, 2)
		for _, r := range responses {
			assert.NotEqual(t, "csrf_token", r.FieldName)
			assert.NotEqual(t, "utm_source", r.FieldName)
		}
	})

	t.Run("TestFailFastFirstFieldWins", func(t *testing.T) {
		timer := test.NewTestTimer("Fail Fast First Field Wins")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Fail Fast First Field Wins", Duration: duration, Passed: true})
		}()

		bounded := []models.FormField{
			textField("first", "First", false, intPtr(5), nil),
			textField("second", "Second", false, intPtr(5), nil),
		}

		// Both values are too short; only the first field is reported.
		_, verr := ValidatePayload(bounded, map[string]interface{}{
			"first":  "ab",
			"second": "cd",
		})
		require.NotNil(t, verr)
		assert.Equal(t, "first", verr.Field)
	})
}

func TestTextFieldChecks(t *testing.T) {
	suiteResult := test.NewTestSuiteResult("Text Field Validation Tests")
	defer suiteResult.PrintSummary()

	fields := []models.FormField{
		textField("bio", "Bio", false, intPtr(3), intPtr(10)),
	}

	t.Run("TestLengthBounds", func(t *testing.T) {
		timer := test.NewTestTimer("Text Length Bounds")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Text Length Bounds", Duration: duration, Passed: true})
		}()

		// Too short
		_, verr := ValidatePayload(fields, map[string]interface{}{"bio": "ab"})
		require.NotNil(t, verr)
		assert.Equal(t, "Bio: Minimum length is 3", verr.Message)

		// Exactly the minimum passes
		_, verr = ValidatePayload(fields, map[string]interface{}{"bio": "abc"})
		assert.Nil(t, verr)

		// Exactly the maximum passes
		_, verr = ValidatePayload(fields, map[string]interface{}{"bio": "abcdefghij"})
		assert.Nil(t, verr)

		// One over the maximum fails
		_, verr = ValidatePayload(fields, map[string]interface{}{"bio": "abcdefghijk"})
		require.NotNil(t, verr)
		assert.Equal(t, "Bio: Maximum length is 10", verr.Message)
	})

	t.Run("TestLengthCountsCharactersNotBytes", func(t *testing.T) {
		timer := test.NewTestTimer("Length Counts Characters Not Bytes")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Length Counts Characters Not Bytes", Duration: duration, Passed: true})
		}()

		name := []models.FormField{
			textField("first_name", "First Name", false, nil, intPtr(4)),
		}

		// "José" is 4 characters in 5 bytes; it fits a max_length of 4
		_, verr := ValidatePayload(name, map[string]interface{}{"first_name": "José"})
		assert.Nil(t, verr)

		// and is shorter than a min_length of 5
		bounded := []models.FormField{
			textField("first_name", "First Name", false, intPtr(5), nil),
		}
		_, verr = ValidatePayload(bounded, map[string]interface{}{"first_name": "José"})
		require.NotNil(t, verr)
		assert.Equal(t, "First Name: Minimum length is 5", verr.Message)

		// Thai text: 6 characters, 18 bytes
		thai := []models.FormField{
			textField("nickname", "Nickname", false, intPtr(6), intPtr(6)),
		}
		_, verr = ValidatePayload(thai, map[string]interface{}{"nickname": "สมชายๆ"})
		assert.Nil(t, verr)
	})

	t.Run("TestNonStringRejected", func(t *testing.T) {
		timer := test.NewTestTimer("Non String Rejected")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Non String Rejected", Duration: duration, Passed: true})
		}()

		_, verr := ValidatePayload(fields, map[string]interface{}{"bio": 12345})
		require.NotNil(t, verr)
		assert.Equal(t, "Bio: Expected text value", verr.Message)
	})
}

func TestNumberFieldChecks(t *testing.T) {
	suiteResult := test.NewTestSuiteResult("Number Field Validation Tests")
	defer suiteResult.PrintSummary()

	fields := []models.FormField{
		{
			ID:     primitive.NewObjectID(),
			Name:   "age",
			Label:  "Age",
			Type:   models.FieldNumber,
			Config: models.FieldConfig{MinValue: floatPtr(18), MaxValue: floatPtr(65)},
		},
	}

	t.Run("TestRangeBounds", func(t *testing.T) {
		timer := test.NewTestTimer("Number Range Bounds")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Number Range Bounds", Duration: duration, Passed: true})
		}()

		// Below min
		_, verr := ValidatePayload(fields, map[string]interface{}{"age": 17})
		require.NotNil(t, verr)
		assert.Equal(t, "Age: Minimum value is 18", verr.Message)

		// Boundary values are accepted
		_, verr = ValidatePayload(fields, map[string]interface{}{"age": 18})
		assert.Nil(t, verr)
		_, verr = ValidatePayload(fields, map[string]interface{}{"age": 65})
		assert.Nil(t, verr)

		// Above max
		_, verr = ValidatePayload(fields, map[string]interface{}{"age": 65.5})
		require.NotNil(t, verr)
		assert.Equal(t, "Age: Maximum value is 65", verr.Message)
	})

	t.Run("TestNumericShapes", func(t *testing.T) {
		timer := test.NewTestTimer("Numeric Shapes")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Numeric Shapes", Duration: duration, Passed: true})
		}()

		// JSON decoding yields float64, but int values arrive from the seeder
		for _, value := range []interface{}{30, int64(30), float64(30), float32(30)} {
			_, verr := ValidatePayload(fields, map[string]interface{}{"age": value})
			assert.Nil(t, verr, "value %T should be numeric", value)
		}

		_, verr := ValidatePayload(fields, map[string]interface{}{"age": "thirty"})
		require.NotNil(t, verr)
		assert.Equal(t, "Age: Expected number value", verr.Message)
	})
}

func TestChoiceFieldChecks(t *testing.T) {
	suiteResult := test.NewTestSuiteResult("Choice Field Validation Tests")
	defer suiteResult.PrintSummary()

	options := []string{"Personal", "Business", "Joint"}
	selectField := models.FormField{
		ID:     primitive.NewObjectID(),
		Name:   "account_type",
		Label:  "Account Type",
		Type:   models.FieldSelect,
		Config: models.FieldConfig{Options: options},
	}
	multiField := models.FormField{
		ID:     primitive.NewObjectID(),
		Name:   "services",
		Label:  "Services",
		Type:   models.FieldMultiSelect,
		Config: models.FieldConfig{Options: []string{"Savings", "Loans"}},
	}

	t.Run("TestSelectMembership", func(t *testing.T) {
		timer := test.NewTestTimer("Select Membership")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Select Membership", Duration: duration, Passed: true})
		}()

		_, verr := ValidatePayload([]models.FormField{selectField}, map[string]interface{}{"account_type": "Business"})
		assert.Nil(t, verr)

		_, verr = ValidatePayload([]models.FormField{selectField}, map[string]interface{}{"account_type": "Corporate"})
		require.NotNil(t, verr)
		assert.Equal(t, "Account Type: Invalid option selected", verr.Message)

		// Radio uses the same membership check
		radio := selectField
		radio.Type = models.FieldRadio
		_, verr = ValidatePayload([]models.FormField{radio}, map[string]interface{}{"account_type": "Joint"})
		assert.Nil(t, verr)
	})

	t.Run("TestMultiSelectMembership", func(t *testing.T) {
		timer := test.NewTestTimer("Multi Select Membership")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Multi Select Membership", Duration: duration, Passed: true})
		}()

		// Empty list is fine
		_, verr := ValidatePayload([]models.FormField{multiField}, map[string]interface{}{"services": []interface{}{}})
		assert.Nil(t, verr)

		_, verr = ValidatePayload([]models.FormField{multiField}, map[string]interface{}{"services": []interface{}{"Savings", "Loans"}})
		assert.Nil(t, verr)

		// One element outside the options fails the whole value
		_, verr = ValidatePayload([]models.FormField{multiField}, map[string]interface{}{"services": []interface{}{"Savings", "Crypto"}})
		require.NotNil(t, verr)
		assert.Equal(t, "Services: Invalid option 'Crypto'", verr.Message)

		// Not a list at all
		_, verr = ValidatePayload([]models.FormField{multiField}, map[string]interface{}{"services": "Savings"})
		require.NotNil(t, verr)
		assert.Equal(t, "Services: Expected list of values", verr.Message)
	})

	t.Run("TestUncheckedTypesPassThrough", func(t *testing.T) {
		timer := test.NewTestTimer("Unchecked Types Pass Through")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Unchecked Types Pass Through", Duration: duration, Passed: true})
		}()

		// date/phone/checkbox/file carry no structural check in this layer
		loose := []models.FormField{
			{ID: primitive.NewObjectID(), Name: "dob", Label: "DOB", Type: models.FieldDate},
			{ID: primitive.NewObjectID(), Name: "agreed", Label: "Agreed", Type: models.FieldCheckbox},
			{ID: primitive.NewObjectID(), Name: "doc", Label: "Doc", Type: models.FieldFile},
		}
		responses, verr := ValidatePayload(loose, map[string]interface{}{
			"dob":    "1992-04-18",
			"agreed": true,
			"doc":    "id.pdf",
		})
		require.Nil(t, verr)
		assert.Len(t, responses, 3)
	})
}

func TestValidationRules(t *testing.T) {
	suiteResult := test.NewTestSuiteResult("Validation Rule Tests")
	defer suiteResult.PrintSummary()

	t.Run("TestPatternRule", func(t *testing.T) {
		timer := test.NewTestTimer("Pattern Rule")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Pattern Rule", Duration: duration, Passed: true})
		}()

		field := models.FormField{
			ID:    primitive.NewObjectID(),
			Name:  "referral_code",
			Label: "Referral Code",
			Type:  models.FieldText,
			Rules: []models.ValidationRule{{
				Type:         models.RulePattern,
				Config:       map[string]interface{}{"pattern": "^[A-Z]{3}[0-9]{4}$"},
				ErrorMessage: "Referral Code: Must look like ABC1234",
			}},
		}

		_, verr := ValidatePayload([]models.FormField{field}, map[string]interface{}{"referral_code": "NBO2024"})
		assert.Nil(t, verr)

		_, verr = ValidatePayload([]models.FormField{field}, map[string]interface{}{"referral_code": "nbo-2024"})
		require.NotNil(t, verr)
		// The rule's own error message wins over the generic one
		assert.Equal(t, "Referral Code: Must look like ABC1234", verr.Message)
	})

	t.Run("TestEmailAndPhoneRules", func(t *testing.T) {
		timer := test.NewTestTimer("Email And Phone Rules")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Email And Phone Rules", Duration: duration, Passed: true})
		}()

		emailField := models.FormField{
			ID: primitive.NewObjectID(), Name: "email", Label: "Email", Type: models.FieldEmail,
			Rules: []models.ValidationRule{{Type: models.RuleEmail}},
		}
		phoneField := models.FormField{
			ID: primitive.NewObjectID(), Name: "phone", Label: "Phone", Type: models.FieldPhone,
			Rules: []models.ValidationRule{{Type: models.RulePhone}},
		}

		_, verr := ValidatePayload([]models.FormField{emailField}, map[string]interface{}{"email": "jane@actserv.example"})
		assert.Nil(t, verr)

		_, verr = ValidatePayload([]models.FormField{emailField}, map[string]interface{}{"email": "not-an-email"})
		require.NotNil(t, verr)
		assert.Equal(t, "Email: Invalid email address", verr.Message)

		_, verr = ValidatePayload([]models.FormField{phoneField}, map[string]interface{}{"phone": "+254700111222"})
		assert.Nil(t, verr)

		_, verr = ValidatePayload([]models.FormField{phoneField}, map[string]interface{}{"phone": "call me"})
		require.NotNil(t, verr)
		assert.Equal(t, "Phone: Invalid phone number", verr.Message)
	})

	t.Run("TestRendererHintRulesSkipped", func(t *testing.T) {
		timer := test.NewTestTimer("Renderer Hint Rules Skipped")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Renderer Hint Rules Skipped", Duration: duration, Passed: true})
		}()

		// conditional/custom rows describe renderer behaviour, not checks
		field := models.FormField{
			ID: primitive.NewObjectID(), Name: "notes", Label: "Notes", Type: models.FieldTextarea,
			Rules: []models.ValidationRule{
				{Type: models.RuleConditional, Config: map[string]interface{}{"show_if": "account_type=Business"}},
				{Type: models.RuleCustom},
			},
		}
		_, verr := ValidatePayload([]models.FormField{field}, map[string]interface{}{"notes": "anything"})
		assert.Nil(t, verr)
	})
}
