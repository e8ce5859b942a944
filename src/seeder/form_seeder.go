package seeder

import (
	"context"
	"errors"
	"log"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/auth"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/forms"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/submissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SeedDemoData creates a demo admin, a demo user, one onboarding form with
// every field class, and a pair of sample submissions. Safe to run twice:
// existing users are reused and a duplicate form name stops the seed.
func SeedDemoData() error {
	ctx := context.Background()

	admin, err := ensureUser(ctx, "Compliance Admin", "admin@actserv.example", "Admin123!", models.RoleAdmin)
	if err != nil {
		return err
	}
	user, err := ensureUser(ctx, "Jane Wanjiku", "jane@actserv.example", "User123!", models.RoleUser)
	if err != nil {
		return err
	}

	form := &models.CreateFormRequest{
		Name:               "Customer Onboarding (KYC)",
		Description:        "Know-your-customer intake for new account applications",
		NotificationEmails: []string{"compliance@actserv.example"},
		Fields: []models.FieldDefinition{
			{
				Name: "full_name", Label: "Full Name", Type: models.FieldText,
				Config: models.FieldConfig{Required: true, MinLength: intPtr(2), MaxLength: intPtr(100)},
			},
			{
				Name: "email", Label: "Email Address", Type: models.FieldEmail,
				Config: models.FieldConfig{Required: true},
				Rules: []models.RuleDefinition{
					{Type: models.RuleEmail},
				},
			},
			{
				Name: "phone", Label: "Phone Number", Type: models.FieldPhone,
				Config: models.FieldConfig{Required: true},
				Rules: []models.RuleDefinition{
					{Type: models.RulePhone, ErrorMessage: "Phone Number: Use international format, e.g. +254700000000"},
				},
			},
			{
				Name: "date_of_birth", Label: "Date of Birth", Type: models.FieldDate,
				Config: models.FieldConfig{Required: true},
			},
			{
				Name: "annual_income", Label: "Annual Income (KES)", Type: models.FieldNumber,
				Config: models.FieldConfig{Required: true, MinValue: floatPtr(0), MaxValue: floatPtr(100000000)},
			},
			{
				Name: "account_type", Label: "Account Type", Type: models.FieldSelect,
				Config: models.FieldConfig{Required: true, Options: []string{"Personal", "Business", "Joint"}},
			},
			{
				Name: "services", Label: "Services of Interest", Type: models.FieldMultiSelect,
				Config: models.FieldConfig{Options: []string{"Savings", "Checking", "Loans", "Investments"}},
			},
			{
				Name: "referral_code", Label: "Referral Code", Type: models.FieldText,
				Rules: []models.RuleDefinition{
					{
						Type:         models.RulePattern,
						Config:       map[string]interface{}{"pattern": "^[A-Z]{3}[0-9]{4}$"},
						ErrorMessage: "Referral Code: Must look like ABC1234",
					},
				},
			},
			{
				Name: "terms_accepted", Label: "I accept the terms", Type: models.FieldCheckbox,
				Config: models.FieldConfig{Required: true},
			},
			{
				Name: "id_document", Label: "ID Document", Type: models.FieldFile,
				Config: models.FieldConfig{Required: true, Accept: ".pdf,.jpg,.png", MaxSizeMB: floatPtr(5)},
			},
			{
				Name: "supporting_docs", Label: "Supporting Documents", Type: models.FieldMultiFile,
				Config: models.FieldConfig{Accept: ".pdf", MaxFiles: intPtr(3), MaxSizeMB: floatPtr(10)},
			},
		},
	}

	detail, err := forms.CreateForm(ctx, form, admin.ID)
	if err != nil {
		if errors.Is(err, forms.ErrDuplicateFormName) {
			log.Println("⚠️ Demo form already exists, skipping seed")
			return nil
		}
		return err
	}
	log.Printf("✅ Created form: %s (version %d, %d fields)",
		detail.Form.Name, detail.Version.VersionNumber, len(detail.Fields))

	seedSubmissions(ctx, detail.Form.ID, user.ID)
	return nil
}

func seedSubmissions(ctx context.Context, formID, userID primitive.ObjectID) {
	samples := []*models.CreateSubmissionRequest{
		{
			Status: models.StatusSubmitted,
			Data: map[string]interface{}{
				"full_name":      "Jane Wanjiku",
				"email":          "jane@actserv.example",
				"phone":          "+254700111222",
				"date_of_birth":  "1992-04-18",
				"annual_income":  1450000,
				"account_type":   "Personal",
				"services":       []interface{}{"Savings", "Investments"},
				"referral_code":  "NBO2024",
				"terms_accepted": true,
				"id_document":    "national-id.pdf",
			},
		},
		{
			Status: models.StatusDraft,
			Data: map[string]interface{}{
				"full_name":      "Jane Wanjiku",
				"email":          "jane@actserv.example",
				"phone":          "+254700111222",
				"date_of_birth":  "1992-04-18",
				"annual_income":  90000,
				"account_type":   "Business",
				"terms_accepted": true,
				"id_document":    "business-permit.pdf",
			},
		},
	}

	for i, sample := range samples {
		submission, err := submissions.CreateSubmission(ctx, formID, userID, sample)
		if err != nil {
			log.Printf("Error creating sample submission %d: %v", i+1, err)
			continue
		}
		log.Printf("✅ Created submission %d (ID: %s, status: %s)", i+1, submission.ID.Hex(), submission.Status)
	}
}

func ensureUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if existing, err := auth.FindUserByEmail(ctx, email); err == nil {
		return existing, nil
	}
	user, err := auth.CreateUser(ctx, name, email, password, role)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Created %s account: %s", role, email)
	return user, nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
