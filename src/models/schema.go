package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SchemaDocument is the compiled renderer contract of one form version.
// Built exactly once when the version is finalized, stored on the version,
// and served as-is afterwards. Key names here are frozen wire format.
type SchemaDocument struct {
	Fields []SchemaField `bson:"fields" json:"fields"`
}

type SchemaField struct {
	ID     primitive.ObjectID `bson:"id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Label  string             `bson:"label" json:"label"`
	Type   FieldType          `bson:"type" json:"type"`
	Order  int                `bson:"order" json:"order"`
	Config FieldConfig        `bson:"config" json:"config"`
	Rules  []SchemaRule       `bson:"validation_rules" json:"validation_rules"`
}

type SchemaRule struct {
	Type         RuleType               `bson:"type" json:"type"`
	Config       map[string]interface{} `bson:"config" json:"config"`
	ErrorMessage string                 `bson:"error_message" json:"error_message"`
}
