// Package jsonschema validates JSON documents against JSON Schema.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "schema.json"

// ValidationErrors collects every violation found in a document.
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, err := range ve {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Schema is a compiled JSON Schema, reusable across documents.
type Schema struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles a JSON Schema document.
func Compile(schemaStr string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: schema}, nil
}

// Validate checks the JSON document doc. A nil result means doc is valid;
// otherwise the result is a ValidationErrors.
func (s *Schema) Validate(doc []byte) error {
	var data any
	if err := json.Unmarshal(doc, &data); err != nil {
		return ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}

	err := s.schema.Validate(data)
	if err == nil {
		return nil
	}
	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		return flatten(validationErr)
	}
	return ValidationErrors{err}
}

// ValidateWithErrors compiles schemaStr and validates jsonStr against it.
// Schema errors are reported the same way as validation failures.
func ValidateWithErrors(jsonStr, schemaStr string) (bool, ValidationErrors) {
	schema, err := Compile(schemaStr)
	if err != nil {
		return false, ValidationErrors{err}
	}
	if err := schema.Validate([]byte(jsonStr)); err != nil {
		if errs, ok := err.(ValidationErrors); ok {
			return false, errs
		}
		return false, ValidationErrors{err}
	}
	return true, nil
}

// flatten walks the cause tree, keeping leaf messages only.
func flatten(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		return ValidationErrors{fmt.Errorf("validation error at %q: %s", err.InstanceLocation, err.Message)}
	}
	var errs ValidationErrors
	for _, cause := range err.Causes {
		errs = append(errs, flatten(cause)...)
	}
	return errs
}
