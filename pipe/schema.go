// Copyright (c) Microsoft. All rights reserved.

package pipe

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema builds an inline JSON Schema for T, which should be a struct
// with json tags. Metadata comes from `jsonschema` struct tags, for example
// `jsonschema:"required,description=Name of the city,enum=a,enum=b"`.
// Fields are only required when tagged so.
func GenerateSchema[T any]() json.RawMessage {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		Anonymous:                  true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	// The $schema keyword is noise for function declarations.
	schema.Version = ""

	b, err := json.Marshal(schema)
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	return b
}
