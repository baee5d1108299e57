package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/golangid/gojsonschema"
	"github.com/golangid/gqlsubscription/candihelper"
	"github.com/golangid/gqlsubscription/logger"
)

var notShowErrorListType = map[string]bool{
	"condition_else": true, "condition_then": true, "number_all_of": true,
}

// JSONSchemaValidator validator
type JSONSchemaValidator struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

// NewJSONSchemaValidator constructor, load all *.json schema under root directory of file system
func NewJSONSchemaValidator(fileSystem fs.FS, root string) *JSONSchemaValidator {
	v := &JSONSchemaValidator{schemas: make(map[string]*gojsonschema.Schema)}
	if err := v.load(fileSystem, root); err != nil {
		logger.LogYellow("Validator: warning, failed load json schema in path " + root + ": " + err.Error())
	}
	return v
}

func (v *JSONSchemaValidator) load(fileSystem fs.FS, root string) error {
	return fs.WalkDir(fileSystem, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		s, err := fs.ReadFile(fileSystem, p)
		if err != nil {
			return fmt.Errorf("%s: %v", d.Name(), err)
		}

		var data map[string]interface{}
		if err := json.Unmarshal(s, &data); err != nil {
			return fmt.Errorf("%s: %v", d.Name(), err)
		}
		id, ok := data["$id"].(string)
		if !ok {
			// take path without extension
			id = strings.Trim(strings.TrimSuffix(strings.TrimPrefix(p, path.Clean(root)), ".json"), "/")
		}
		return v.AddSchema(id, s)
	})
}

// AddSchema register json schema source with id
func (v *JSONSchemaValidator) AddSchema(schemaID string, source []byte) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(source))
	if err != nil {
		return fmt.Errorf("%s: %v", schemaID, err)
	}

	v.mu.Lock()
	v.schemas[schemaID] = schema
	v.mu.Unlock()
	return nil
}

func (v *JSONSchemaValidator) getSchema(schemaID string) (*gojsonschema.Schema, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s, ok := v.schemas[schemaID]
	if !ok {
		return nil, fmt.Errorf("schema '%s' not found", schemaID)
	}
	return s, nil
}

// ValidateDocument based on schema id, document is json source
func (v *JSONSchemaValidator) ValidateDocument(schemaID string, documentSource []byte) error {
	schema, err := v.getSchema(schemaID)
	if err != nil {
		return err
	}

	multiError := candihelper.NewMultiError()
	result, err := schema.Validate(gojsonschema.NewBytesLoader(documentSource))
	if err != nil {
		multiError.Append("document", errors.New("cannot load document: "+err.Error()))
		return multiError
	}

	for _, desc := range result.Errors() {
		if notShowErrorListType[desc.Type()] {
			continue
		}
		var field = desc.Field()
		if desc.Type() == "required" || desc.Type() == "additional_property_not_allowed" {
			field = fmt.Sprintf("%s.%s", field, desc.Details()["property"])
			field = strings.TrimPrefix(field, "(root).")
		}
		multiError.Append(field, errors.New(desc.Description()))
	}

	if multiError.HasError() {
		return multiError
	}
	return nil
}
