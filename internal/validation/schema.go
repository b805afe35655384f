package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Имена схем тел JSON-запросов
const (
	SchemaRegister = "register"
	SchemaLogin    = "login"
	SchemaTask     = "task"
)

// SchemaValidator проверяет тела JSON-запросов по встроенным схемам
type SchemaValidator struct {
	schemas map[string]*jsonschema.Schema
}

// NewSchemaValidator компилирует все встроенные схемы
func NewSchemaValidator() (*SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	names := []string{SchemaRegister, SchemaLogin, SchemaTask}
	for _, name := range names {
		data, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name+".json", bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		schema, err := compiler.Compile(name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		schemas[name] = schema
	}

	return &SchemaValidator{schemas: schemas}, nil
}

// Validate проверяет, что body является JSON-документом, соответствующим схеме name.
// Ошибки тела возвращаются как *FieldError.
func (v *SchemaValidator) Validate(name string, body []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema: %s", name)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return &FieldError{Field: "body", Message: "invalid request body"}
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return leafError(ve)
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// leafError возвращает первую конечную причину ошибки схемы
func leafError(ve *jsonschema.ValidationError) *FieldError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	if field == "" {
		field = "body"
	}

	return &FieldError{Field: field, Message: fmt.Sprintf("%s: %s", field, ve.Message)}
}
