// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaID is the $id a generated FilterProgram schema is published under.
const SchemaID = "https://rjq.dev/schemas/filter-program.schema.json"

// GenerateSchema reflects FilterProgram's JSON-serialized form into a JSON
// Schema document. A compiled Program's AST round-trips through
// encoding/json for storage (the same way the struct tags that drive
// participle's grammar also drive json.Marshal); this schema describes
// that serialized shape for external tooling and storage validation.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&FilterProgram{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "rjq filter program"
	schema.Description = "Schema for a compiled filter program's JSON-serialized AST"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("schema").Hint("failed to marshal schema").Wrap(err)
	}
	data = append(data, '\n')
	return data, nil
}

var globalSchema struct {
	once   sync.Once
	schema *jschema.Schema
	err    error
}

// getCompiledSchema lazily generates and compiles the FilterProgram schema
// with the pack's second, independent JSON Schema library — used here for
// validation rather than generation, so a bug in one library's interpretation
// of the schema it emits doesn't also hide the same bug from the validator.
func getCompiledSchema() (*jschema.Schema, error) {
	globalSchema.once.Do(func() {
		globalSchema.schema, globalSchema.err = compileSchema()
	})
	return globalSchema.schema, globalSchema.err
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.In("schema").Hint("failed to parse schema JSON").Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("filter-program.json", schemaData); err != nil {
		return nil, oops.In("schema").Hint("failed to add schema resource").Wrap(err)
	}

	sch, err := c.Compile("filter-program.json")
	if err != nil {
		return nil, oops.In("schema").Hint("failed to compile schema").Wrap(err)
	}
	return sch, nil
}

// ValidateSerializedProgram validates a JSON-serialized FilterProgram
// (as produced by json.Marshal(program)) against the generated schema.
func ValidateSerializedProgram(data []byte) error {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return oops.In("schema").Hint("invalid JSON").Wrap(err)
	}

	sch, err := getCompiledSchema()
	if err != nil {
		return oops.In("schema").Hint("failed to compile schema").Wrap(err)
	}

	if err := sch.Validate(instance); err != nil {
		return oops.In("schema").Hint("schema validation failed").Wrap(err)
	}
	return nil
}
