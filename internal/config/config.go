// Package config holds the settings for a formatting run.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/cargo-fmt-all/internal/runner"
	"github.com/andyballingall/cargo-fmt-all/internal/validator"
)

const (
	// DefaultMarker is the manifest file which identifies a directory to format.
	DefaultMarker = "Cargo.toml"
	// DefaultCommand is the formatter program run in each such directory.
	DefaultCommand = "cargo"
)

// DefaultArgs are the arguments passed to DefaultCommand.
var DefaultArgs = []string{"fmt"}

const schemaID = "https://cargo-fmt-all.local/config.schema.json"

const schemaDocument = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://cargo-fmt-all.local/config.schema.json",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "marker": {
      "type": "string",
      "minLength": 1,
      "pattern": "^[^/\\\\]+$"
    },
    "command": {
      "type": "string",
      "minLength": 1
    },
    "args": {
      "type": "array",
      "items": { "type": "string" }
    }
  }
}`

// ExampleContent documents the configuration file format.
const ExampleContent = `# cargo-fmt-all configuration
#
# Every key is optional. Omitted keys keep their defaults.

# The file whose presence marks a directory for formatting.
marker: Cargo.toml

# The program to run in each marked directory, and its arguments.
command: cargo
args: [fmt]
`

type Config struct {
	Marker  string   `yaml:"marker"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Marker:  DefaultMarker,
		Command: DefaultCommand,
		Args:    append([]string(nil), DefaultArgs...),
	}
}

// FormatCommand returns the command to run in each marked directory.
func (c *Config) FormatCommand() runner.Command {
	return runner.NewCommand(c.Command, c.Args...)
}

// Load reads the YAML file at path over the defaults. The document is checked
// against the configuration schema before it is applied.
func Load(path string, compiler validator.Compiler) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingConfigError{Path: path}
		}
		return nil, err
	}

	var doc interface{}
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}

	cfg := Default()
	if doc == nil {
		return cfg, nil
	}

	v, err := newValidator(compiler)
	if err != nil {
		return nil, err
	}
	if vErr := v.Validate(doc); vErr != nil {
		return nil, &InvalidConfigError{Path: path, Wrapped: vErr}
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	return cfg, nil
}

func newValidator(compiler validator.Compiler) (validator.Validator, error) {
	schema, err := validator.ParseJSON([]byte(schemaDocument))
	if err != nil {
		return nil, err
	}
	return validator.CompileSchema(compiler, schemaID, schema)
}
