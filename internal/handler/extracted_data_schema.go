package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"casedesk/internal/domain"
)

// extractedDataSchema accepts a flat object of string or null values.
const extractedDataSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "propertyNames": {"minLength": 1, "maxLength": 128},
  "additionalProperties": {"type": ["string", "null"], "maxLength": 4096}
}`

// ExtractedDataValidator checks manual extracted-data edits.
type ExtractedDataValidator struct {
	schema *jsonschema.Schema
}

// NewExtractedDataValidator compiles the extracted-data schema.
func NewExtractedDataValidator() (*ExtractedDataValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extracted_data.json", bytes.NewReader([]byte(extractedDataSchema))); err != nil {
		return nil, fmt.Errorf("loading extracted data schema: %w", err)
	}
	schema, err := compiler.Compile("extracted_data.json")
	if err != nil {
		return nil, fmt.Errorf("compiling extracted data schema: %w", err)
	}
	return &ExtractedDataValidator{schema: schema}, nil
}

// MustExtractedDataValidator is NewExtractedDataValidator for static wiring.
func MustExtractedDataValidator() *ExtractedDataValidator {
	v, err := NewExtractedDataValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Decode validates raw against the schema and decodes it in key order.
func (v *ExtractedDataValidator) Decode(raw []byte) (*domain.ExtractedData, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: body is not valid JSON", domain.ErrInvalidInput)
	}
	if err := v.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	data := domain.NewExtractedData()
	if err := data.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return data, nil
}
