// Package model reads and writes hierarchy model files: a list of class
// declarations encoded as YAML, JSON or TOML. Every document is validated
// against an embedded JSON Schema before it is turned into a registry.
package model

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/pelletier/go-toml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "model.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Document is the top-level structure of a model file.
type Document struct {
	Classes []hierarchy.Declaration `json:"classes" yaml:"classes" toml:"classes"`
}

// Registry builds a registry from the document's declarations.
func (d *Document) Registry() (*hierarchy.Registry, error) {
	return hierarchy.Build(d.Classes)
}

// Parse decodes and validates a model document.
func Parse(data []byte, format Format) (*Document, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s model: %w", format, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile model schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s model: %w", format, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s model: %w", format, err)
	}
	return &doc, nil
}

// Decode reads a whole document from r.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// Read loads the document at path, choosing the format from its extension.
func Read(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Load reads the model at path and builds its registry.
func Load(path string) (*hierarchy.Registry, error) {
	doc, err := Read(path)
	if err != nil {
		return nil, err
	}
	reg, err := doc.Registry()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Encode writes decls as a model document.
func Encode(w io.Writer, decls []hierarchy.Declaration, format Format) error {
	doc := Document{Classes: decls}
	if doc.Classes == nil {
		doc.Classes = []hierarchy.Declaration{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		data, err := toml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown model format %q", format)
	}
}

// toJSON normalises a document of any supported format to JSON so a single
// schema and a single set of struct tags apply.
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return json.Marshal(v)
	case FormatTOML:
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, err
		}
		return json.Marshal(tree.ToMap())
	default:
		return nil, fmt.Errorf("unknown model format %q", format)
	}
}
