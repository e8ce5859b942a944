package forms

import (
	"sort"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"
)

// BuildSchema compiles the field list of a version into the document served
// to renderers. Called exactly once per version, when the version is created;
// the result is stored on the version and never recomputed.
func BuildSchema(fields []models.FormField) *models.SchemaDocument {
	sorted := make([]models.FormField, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	doc := &models.SchemaDocument{Fields: make([]models.SchemaField, 0, len(sorted))}
	for _, field := range sorted {
		rules := make([]models.SchemaRule, 0, len(field.Rules))
		for _, rule := range field.Rules {
			rules = append(rules, models.SchemaRule{
				Type:         rule.Type,
				Config:       rule.Config,
				ErrorMessage: rule.ErrorMessage,
			})
		}

		doc.Fields = append(doc.Fields, models.SchemaField{
			ID:     field.ID,
			Name:   field.Name,
			Label:  field.Label,
			Type:   field.Type,
			Order:  field.Order,
			Config: field.Config,
			Rules:  rules,
		})
	}
	return doc
}
