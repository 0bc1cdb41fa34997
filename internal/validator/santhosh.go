package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// NewSanthoshCompiler returns a Compiler backed by santhosh-tekuri/jsonschema/v6.
func NewSanthoshCompiler() Compiler {
	return &santhoshCompiler{c: jsonschema.NewCompiler()}
}

type santhoshValidator struct {
	v *jsonschema.Schema
}

// Validate normalises doc to the value types produced by a JSON decoder before
// validating it, so documents decoded from YAML (with int, map[string]any etc.)
// are checked the same way as JSON ones.
func (sv *santhoshValidator) Validate(doc JSONDocument) error {
	normalised, err := normalise(doc)
	if err != nil {
		return err
	}
	return sv.v.Validate(normalised)
}

type santhoshCompiler struct {
	mu sync.Mutex
	c  *jsonschema.Compiler
}

func (s *santhoshCompiler) AddSchema(id string, schemaData JSONSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.AddResource(id, schemaData)
}

func (s *santhoshCompiler) Compile(id string) (Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.c.Compile(id)
	if err != nil {
		return nil, err
	}
	return &santhoshValidator{v: v}, nil
}

// ParseJSON decodes JSON text into a JSONDocument suitable for AddSchema or Validate.
func ParseJSON(data []byte) (JSONDocument, error) {
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

func normalise(doc JSONDocument) (JSONDocument, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("document cannot be represented as JSON: %w", err)
	}
	return ParseJSON(data)
}
