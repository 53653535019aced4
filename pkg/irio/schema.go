// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package irio

import (
	"encoding"
	"encoding/json"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/irgraph/pkg/ir"
)

// SchemaID is the $id of the generated document schema.
const SchemaID = "https://holomush.dev/schemas/irdoc.schema.json"

const (
	idPattern    = `^([0-9A-HJKMNP-TV-Za-hjkmnp-tv-z]{26}|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})$`
	addrPattern  = `^(0[xX][0-9a-fA-F]+|[0-9]+)$`
	bytesPattern = `^([0-9a-fA-F]{2})*$`
)

var (
	schemaOnce     sync.Once
	compiledSchema *jschema.Schema
	errSchema      error
)

// payloadPrototypes maps each concrete kind to a value of its Go type.
// Reflection only needs the type; these are never placed in an arena.
var payloadPrototypes = map[ir.Kind]any{
	ir.KindModule:     &ir.Module{},
	ir.KindSection:    &ir.Section{},
	ir.KindSymbol:     &ir.Symbol{},
	ir.KindBasicBlock: &ir.BasicBlock{},
	ir.KindProxyBlock: &ir.ProxyBlock{},
	ir.KindDataObject: &ir.DataObject{},
}

var (
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	addrType          = reflect.TypeFor[ir.Addr]()
	bytesType         = reflect.TypeFor[ir.Bytes]()
)

// GenerateSchema returns the JSON Schema of the YAML document format.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		FieldNameTag:   "yaml",
		Mapper:         mapTextTypes,
	}

	variants := make([]*jsonschema.Schema, 0, len(payloadPrototypes))
	for _, kind := range ir.ConcreteKinds() {
		proto, ok := payloadPrototypes[kind]
		if !ok {
			return nil, oops.Code("IRIO_SCHEMA_FAILED").
				With("kind", kind.String()).
				Errorf("no schema prototype for kind %s", kind)
		}
		variants = append(variants, nodeSchema(&r, kind, proto))
	}

	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		ID:          jsonschema.ID(SchemaID),
		Title:       "irgraph IR document",
		Description: "Schema for YAML IR documents written by irgraph",
		Type:        "object",
		Properties:  jsonschema.NewProperties(),
		Required:    []string{"version", "nodes"},
	}
	root.Properties.Set("version", &jsonschema.Schema{Type: "string"})
	root.Properties.Set("nodes", &jsonschema.Schema{
		Type:  "array",
		Items: &jsonschema.Schema{OneOf: variants},
	})

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, oops.Code("IRIO_SCHEMA_FAILED").Wrapf(err, "marshal schema")
	}
	return data, nil
}

// nodeSchema reflects proto's payload fields and adds the id and kind
// properties every node mapping carries.
func nodeSchema(r *jsonschema.Reflector, kind ir.Kind, proto any) *jsonschema.Schema {
	s := r.Reflect(proto)
	s.Version = ""
	s.ID = ""
	s.Title = kind.String()
	if s.Properties == nil {
		s.Properties = jsonschema.NewProperties()
	}
	s.Properties.Set(idKey, &jsonschema.Schema{Type: "string", Pattern: idPattern})
	s.Properties.Set(kindKey, &jsonschema.Schema{Type: "string", Const: kind.String()})
	s.Required = append([]string{idKey, kindKey}, s.Required...)
	return s
}

// mapTextTypes describes types that marshal through encoding.TextMarshaler
// as the strings they produce.
func mapTextTypes(t reflect.Type) *jsonschema.Schema {
	switch t {
	case addrType:
		return &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "string", Pattern: addrPattern},
				{Type: "integer", Minimum: json.Number("0")},
			},
		}
	case bytesType:
		return &jsonschema.Schema{Type: "string", Pattern: bytesPattern}
	}
	if t.Implements(textMarshalerType) {
		// Remaining text types are references.
		return &jsonschema.Schema{Type: "string", Pattern: idPattern}
	}
	return nil
}

// ValidateDocument validates YAML data against the document schema.
func ValidateDocument(data []byte) error {
	if len(data) == 0 {
		return oops.Code("IRIO_SCHEMA_INVALID").Wrapf(ErrMalformed, "document is empty")
	}

	var yamlData any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return oops.Code("IRIO_MALFORMED").Wrapf(ErrMalformed, "invalid YAML: %v", err)
	}

	sch, err := documentSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(convertToJSONTypes(yamlData)); err != nil {
		return oops.Code("IRIO_SCHEMA_INVALID").Wrapf(ErrMalformed, "schema validation failed: %v", err)
	}
	return nil
}

// documentSchema compiles the generated schema once.
func documentSchema() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, errSchema = compileSchema()
	})
	return compiledSchema, errSchema
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.Code("IRIO_SCHEMA_FAILED").Wrapf(err, "parse schema JSON")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("irdoc.schema.json", schemaData); err != nil {
		return nil, oops.Code("IRIO_SCHEMA_FAILED").Wrapf(err, "add schema resource")
	}
	sch, err := c.Compile("irdoc.schema.json")
	if err != nil {
		return nil, oops.Code("IRIO_SCHEMA_FAILED").Wrapf(err, "compile schema")
	}
	return sch, nil
}

// convertToJSONTypes converts YAML-decoded values into JSON-compatible
// types, recursing through nested structures.
func convertToJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = convertToJSONTypes(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = convertToJSONTypes(v)
		}
		return result
	case string, bool, int, int64, uint64, float64, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var result any
			if err := json.Unmarshal(b, &result); err == nil {
				return result
			}
		}
		return val
	}
}
