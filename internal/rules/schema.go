package rules

import "github.com/invopop/jsonschema"

// JSONSchema describes the JSON forms a Value takes: a number, a bool, or a
// string that may carry a GAMEVAR: or RANGE: encoding.
func (Value) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "number"},
			{Type: "boolean"},
			{Type: "string", Description: "Literal, user variable name, GAMEVAR:id|multiplier|offset or RANGE:min|max"},
			{Type: "null"},
		},
	}
}
