// Package validator provides interfaces and types for JSON Schema validation.
package validator

// Draft represents a JSON Schema draft version.
type Draft string

const (
	// Draft7 represents JSON Schema Draft 7.
	Draft7 Draft = "http://json-schema.org/draft-07/schema#"
	// Draft2020_12 represents JSON Schema Draft 2020-12.
	Draft2020_12 Draft = "https://json-schema.org/draft/2020-12/schema"
)

// A JSONDocument is a parsed JSON-compatible document: maps, slices, strings,
// booleans, numbers and nil.
type JSONDocument interface{}

// A JSONSchema is a parsed document representing a JSON Schema.
// A Compiler must compile it before use, which will identify any JSON Schema issues.
type JSONSchema JSONDocument

// Validator represents something which can be used to validate a JSON document.
type Validator interface {
	// Validate validates a JSON document.
	Validate(v JSONDocument) error
}

// Compiler defines a JSON Schema compiler.
type Compiler interface {
	// AddSchema registers a JSONSchema with the compiler under the given ID.
	AddSchema(id string, data JSONSchema) error

	// Compile creates a Validator from the JSONSchema previously added with the given ID.
	Compile(id string) (Validator, error)
}

// CompileSchema registers a single self-contained schema and compiles it.
func CompileSchema(c Compiler, id string, data JSONSchema) (Validator, error) {
	if err := c.AddSchema(id, data); err != nil {
		return nil, err
	}
	return c.Compile(id)
}
