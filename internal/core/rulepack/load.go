package rulepack

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed rules.json
var embedded []byte

//go:embed rules.schema.json
var schemaDoc []byte

const schemaURL = "rules.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Load returns the compiled pack from the embedded rules.json
func Load() (*Pack, error) {
	return Parse(embedded)
}

// MustLoad is Load for tests and init paths where a broken embed is a build bug
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// Embedded returns a copy of the embedded rules.json
func Embedded() []byte { return bytes.Clone(embedded) }

// LoadFile compiles a pack from a .json, .yaml or .yml file
func LoadFile(path string) (*Pack, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rulepack: read %s: %w", path, err)
	}
	doc, err := ToJSON(path, b)
	if err != nil {
		return nil, err
	}
	return Parse(doc)
}

// Parse validates a JSON document against the schema and compiles it
func Parse(doc []byte) (*Pack, error) {
	raw, err := Decode(doc)
	if err != nil {
		return nil, err
	}
	return Compile(raw)
}

// Decode validates a JSON document against the schema and decodes it without compiling
func Decode(doc []byte) (Raw, error) {
	var raw Raw
	if err := Validate(doc); err != nil {
		return raw, err
	}
	if err := json.Unmarshal(doc, &raw); err != nil {
		return raw, fmt.Errorf("rulepack: parse rules: %w", err)
	}
	return raw, nil
}

// Validate checks a JSON document against the embedded schema
func Validate(doc []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("rulepack: parse rules: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("rulepack: schema: %w", err)
	}
	return nil
}

// ToJSON returns b as JSON, converting from YAML when the name says so
func ToJSON(name string, b []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("rulepack: decode %s: %w", name, err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("rulepack: convert %s: %w", name, err)
		}
		return out, nil
	default:
		return b, nil
	}
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaDoc)); err != nil {
			schemaErr = fmt.Errorf("rulepack: schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("rulepack: schema compile: %w", schemaErr)
		}
	})
	return schema, schemaErr
}
