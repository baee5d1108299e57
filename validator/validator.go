package validator

import (
	"github.com/golangid/gqlsubscription/api"
)

// Validator instance
type Validator struct {
	*JSONSchemaValidator
	*StructValidator
}

// NewValidator constructor, using jsonschema embedded in api/jsonschema & struct validator (github.com/go-playground/validator)
func NewValidator() *Validator {
	return &Validator{
		JSONSchemaValidator: NewJSONSchemaValidator(api.JSONSchema, "jsonschema"),
		StructValidator:     NewStructValidator(),
	}
}
