package submissions

import (
	"encoding/json"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/MutheuMC/Interview-ACTSERV/src/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidationError is what a client gets back when a payload is rejected.
// Validation is fail-fast: the first broken field wins and nothing is stored.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9()\s-]{7,20}$`)
)

// ValidatePayload checks a submission payload against the fields of one
// version and returns the responses to embed. Required fields are checked
// first across the whole payload (presence only), then each present value
// is checked against its field type. Keys that match no field are ignored.
func ValidatePayload(fields []models.FormField, payload map[string]interface{}) ([]models.FieldResponse, *ValidationError) {
	for _, field := range fields {
		if !field.Config.Required {
			continue
		}
		if _, ok := payload[field.Name]; !ok {
			return nil, &ValidationError{
				Field:   field.Name,
				Message: fmt.Sprintf("Field '%s' is required", field.Label),
			}
		}
	}

	responses := make([]models.FieldResponse, 0, len(fields))
	for _, field := range fields {
		value, ok := payload[field.Name]
		if !ok {
			continue
		}

		if verr := validateValue(field, value); verr != nil {
			return nil, verr
		}
		if verr := applyFieldRules(field, value); verr != nil {
			return nil, verr
		}

		responses = append(responses, models.FieldResponse{
			ID:         primitive.NewObjectID(),
			FieldID:    field.ID,
			FieldName:  field.Name,
			FieldLabel: field.Label,
			FieldType:  field.Type,
			Value:      value,
		})
	}

	return responses, nil
}

// validateValue enforces the per-type structural checks. Field config is
// the authoritative source of constraints here.
func validateValue(field models.FormField, value interface{}) *ValidationError {
	label := field.Label
	cfg := field.Config

	switch field.Type {
	case models.FieldText, models.FieldTextarea, models.FieldEmail:
		str, ok := value.(string)
		if !ok {
			return fieldError(field, "%s: Expected text value", label)
		}
		// Length bounds count characters, not bytes, so accented input
		// is measured the way the form author meant it.
		length := utf8.RuneCountInString(str)
		if cfg.MinLength != nil && length < *cfg.MinLength {
			return fieldError(field, "%s: Minimum length is %d", label, *cfg.MinLength)
		}
		if cfg.MaxLength != nil && length > *cfg.MaxLength {
			return fieldError(field, "%s: Maximum length is %d", label, *cfg.MaxLength)
		}

	case models.FieldNumber:
		num, ok := toFloat(value)
		if !ok {
			return fieldError(field, "%s: Expected number value", label)
		}
		if cfg.MinValue != nil && num < *cfg.MinValue {
			return fieldError(field, "%s: Minimum value is %v", label, *cfg.MinValue)
		}
		if cfg.MaxValue != nil && num > *cfg.MaxValue {
			return fieldError(field, "%s: Maximum value is %v", label, *cfg.MaxValue)
		}

	case models.FieldSelect, models.FieldRadio:
		str, ok := value.(string)
		if !ok || !containsOption(cfg.Options, str) {
			return fieldError(field, "%s: Invalid option selected", label)
		}

	case models.FieldMultiSelect:
		items, ok := value.([]interface{})
		if !ok {
			return fieldError(field, "%s: Expected list of values", label)
		}
		for _, item := range items {
			str, ok := item.(string)
			if !ok || !containsOption(cfg.Options, str) {
				return fieldError(field, "%s: Invalid option '%v'", label, item)
			}
		}

	case models.FieldDate, models.FieldPhone, models.FieldCheckbox, models.FieldFile, models.FieldMultiFile:
		// No structural check at this layer. Dates and phones arrive as
		// whatever the renderer produced; files are validated on upload.
	}

	return nil
}

// applyFieldRules runs the declarative rule rows attached to a field.
// Only pattern, email and phone add checks beyond what config covers;
// the rest either duplicate config or are renderer hints.
func applyFieldRules(field models.FormField, value interface{}) *ValidationError {
	for _, rule := range field.Rules {
		switch rule.Type {
		case models.RulePattern:
			pattern, _ := rule.Config["pattern"].(string)
			if pattern == "" {
				continue
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				continue // rejected at definition time, never stored
			}
			str, ok := value.(string)
			if !ok || !re.MatchString(str) {
				return ruleError(field, rule, "%s: Invalid format", field.Label)
			}

		case models.RuleEmail:
			str, ok := value.(string)
			if !ok || !emailPattern.MatchString(str) {
				return ruleError(field, rule, "%s: Invalid email address", field.Label)
			}

		case models.RulePhone:
			str, ok := value.(string)
			if !ok || !phonePattern.MatchString(str) {
				return ruleError(field, rule, "%s: Invalid phone number", field.Label)
			}
		}
	}
	return nil
}

func fieldError(field models.FormField, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field.Name, Message: fmt.Sprintf(format, args...)}
}

func ruleError(field models.FormField, rule models.ValidationRule, format string, args ...interface{}) *ValidationError {
	if rule.ErrorMessage != "" {
		return &ValidationError{Field: field.Name, Message: rule.ErrorMessage}
	}
	return &ValidationError{Field: field.Name, Message: fmt.Sprintf(format, args...)}
}

func toFloat(value interface{}) (float64, bool) {
	switch num := value.(type) {
	case float64:
		return num, true
	case float32:
		return float64(num), true
	case int:
		return float64(num), true
	case int32:
		return float64(num), true
	case int64:
		return float64(num), true
	case json.Number:
		if f, err := num.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

func containsOption(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}
