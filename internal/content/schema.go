package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Schema names for documents and request payloads.
const (
	SchemaAtoms        = "atoms"
	SchemaItems        = "items"
	SchemaBlueprint    = "blueprint"
	SchemaSubmission   = "submission"
	SchemaRouteRequest = "route_request"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// SchemaError reports a document that does not match its JSON schema.
type SchemaError struct {
	Schema   string
	Problems []string
	Err      error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match schema: %s", e.Schema, strings.Join(e.Problems, "; "))
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Validate checks raw JSON against the named schema and returns
// *SchemaError when it does not conform.
func Validate(name string, raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &SchemaError{Schema: name, Problems: []string{"invalid JSON: " + err.Error()}, Err: err}
	}
	compiled, err := compiledSchema(name)
	if err != nil {
		return err
	}
	if err := compiled.Validate(doc); err != nil {
		return &SchemaError{Schema: name, Problems: validationProblems(err), Err: err}
	}
	return nil
}

// toJSON normalises a YAML or JSON document into JSON bytes so that one
// schema and one decoder serve both formats.
func toJSON(data []byte, isYAML bool) ([]byte, error) {
	if !isYAML {
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert yaml to json: %w", err)
	}
	return out, nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// validationProblems flattens a validation error tree into one message per
// failing leaf.
func validationProblems(err error) []string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	var walk func(u jsonschema.OutputUnit)
	walk = func(u jsonschema.OutputUnit) {
		if u.Error != nil && len(u.Errors) == 0 {
			loc := u.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s: %s", loc, u.Error.String()))
		}
		for _, child := range u.Errors {
			walk(child)
		}
	}
	walk(*ve.BasicOutput())
	if len(out) == 0 {
		out = append(out, ve.Error())
	}
	return out
}
