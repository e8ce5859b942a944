package uploads

import (
	"testing"
	"time"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mb = 1024 * 1024

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func fileField(ftype models.FieldType, config models.FieldConfig) models.FormField {
	return models.FormField{Name: "doc", Label: "Document", Type: ftype, Config: config}
}

func TestAttachmentGate(t *testing.T) {
	suiteResult := test.NewTestSuiteResult("Attachment Gate Tests")
	defer suiteResult.PrintSummary()

	t.Run("TestNonFileFieldRejected", func(t *testing.T) {
		timer := test.NewTestTimer("Non File Field Rejected")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Non File Field Rejected", Duration: duration, Passed: true})
		}()

		field := fileField(models.FieldText, models.FieldConfig{})
		err := CheckAttachment(field, "notes.txt", 100, 0)
		require.Error(t, err)
		assert.IsType(t, &RejectionError{}, err)
		assert.Equal(t, "Field does not support file uploads", err.Error())
	})

	t.Run("TestEmptyFileRejected", func(t *testing.T) {
		timer := test.NewTestTimer("Empty File Rejected")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Empty File Rejected", Duration: duration, Passed: true})
		}()

		field := fileField(models.FieldFile, models.FieldConfig{})
		assert.Error(t, CheckAttachment(field, "id.pdf", 0, 0))
		assert.Error(t, CheckAttachment(field, "id.pdf", -1, 0))
	})

	t.Run("TestSizeLimit", func(t *testing.T) {
		timer := test.NewTestTimer("Size Limit")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Size Limit", Duration: duration, Passed: true})
			test.PerformanceAssertion(t, "Size Limit", duration, 50*time.Millisecond)
		}()

		// Default limit is 10MB
		unset := fileField(models.FieldFile, models.FieldConfig{})
		assert.NoError(t, CheckAttachment(unset, "id.pdf", 10*mb, 0))
		err := CheckAttachment(unset, "id.pdf", 10*mb+1, 0)
		require.Error(t, err)
		assert.Equal(t, "File size exceeds 10MB limit", err.Error())

		// Configured limit overrides the default
		capped := fileField(models.FieldFile, models.FieldConfig{MaxSizeMB: floatPtr(5)})
		assert.NoError(t, CheckAttachment(capped, "id.pdf", 5*mb, 0))
		err = CheckAttachment(capped, "id.pdf", 6*mb, 0)
		require.Error(t, err)
		assert.Equal(t, "File size exceeds 5MB limit", err.Error())
	})

	t.Run("TestAcceptList", func(t *testing.T) {
		timer := test.NewTestTimer("Accept List")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Accept List", Duration: duration, Passed: true})
		}()

		field := fileField(models.FieldFile, models.FieldConfig{Accept: ".pdf, .jpg"})
		assert.NoError(t, CheckAttachment(field, "passport.pdf", 100, 0))
		assert.NoError(t, CheckAttachment(field, "photo.jpg", 100, 0))

		err := CheckAttachment(field, "malware.exe", 100, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "File type not allowed")

		// No accept list means anything goes
		open := fileField(models.FieldFile, models.FieldConfig{})
		assert.NoError(t, CheckAttachment(open, "anything.xyz", 100, 0))
	})

	t.Run("TestAcceptWildcardsStripped", func(t *testing.T) {
		timer := test.NewTestTimer("Accept Wildcards Stripped")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Accept Wildcards Stripped", Duration: duration, Passed: true})
		}()

		// "*.pdf" and ".pdf" behave identically: suffix check after
		// stripping the wildcard
		field := fileField(models.FieldFile, models.FieldConfig{Accept: "*.pdf"})
		assert.NoError(t, CheckAttachment(field, "statement.pdf", 100, 0))
		assert.Error(t, CheckAttachment(field, "statement.docx", 100, 0))
	})

	t.Run("TestMultiFileCount", func(t *testing.T) {
		timer := test.NewTestTimer("Multi File Count")
		defer func() {
			duration := timer.Stop()
			suiteResult.AddResult(test.TestResult{Name: "Multi File Count", Duration: duration, Passed: true})
		}()

		field := fileField(models.FieldMultiFile, models.FieldConfig{MaxFiles: intPtr(3)})

		// Two already attached: the third (the max_files-th) is accepted
		assert.NoError(t, CheckAttachment(field, "doc.pdf", 100, 2))
		// Three already attached: the fourth is rejected
		err := CheckAttachment(field, "doc.pdf", 100, 3)
		require.Error(t, err)
		assert.Equal(t, "Maximum 3 files allowed", err.Error())

		// Default cap is 5
		unset := fileField(models.FieldMultiFile, models.FieldConfig{})
		assert.NoError(t, CheckAttachment(unset, "doc.pdf", 100, 4))
		assert.Error(t, CheckAttachment(unset, "doc.pdf", 100, 5))

		// Single-file fields ignore the count; replacement is handled upstream
		single := fileField(models.FieldFile, models.FieldConfig{})
		assert.NoError(t, CheckAttachment(single, "doc.pdf", 100, 99))
	})
}

func TestMatchesAccept(t *testing.T) {
	cases := []struct {
		filename string
		accept   string
		want     bool
	}{
		{"report.pdf", ".pdf", true},
		{"report.pdf", ".jpg,.pdf", true},
		{"report.pdf", "*.pdf", true},
		{"report.pdf", " .pdf ", true},
		{"report.PDF", ".pdf", false}, // suffix match is case sensitive
		{"report.docx", ".pdf", false},
		{"report", ".pdf", false},
		{"report.pdf", ",,", false}, // empty entries never match
	}

	for _, tc := range cases {
		got := matchesAccept(tc.filename, tc.accept)
		assert.Equal(t, tc.want, got, "matchesAccept(%q, %q)", tc.filename, tc.accept)
	}
}
