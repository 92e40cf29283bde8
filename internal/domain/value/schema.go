package value

import "slices"

const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
)

// Schema describes a structured model reply independently of the provider.
type Schema struct {
	Name        string
	Type        string
	Description string
	Properties  map[string]*Schema
	// Order keeps property order stable for providers that honour it.
	Order    []string
	Items    *Schema
	MinItems *int64
	MaxItems *int64
}

// JSON returns the schema as a strict JSON Schema document: every property is
// required and no additional properties are allowed.
func (s *Schema) JSON() map[string]any {
	doc := map[string]any{"type": s.Type}

	if s.Description != "" {
		doc["description"] = s.Description
	}

	switch s.Type {
	case TypeObject:
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSON()
		}

		doc["properties"] = props
		doc["required"] = s.PropertyNames()
		doc["additionalProperties"] = false
	case TypeArray:
		if s.Items != nil {
			doc["items"] = s.Items.JSON()
		}
		if s.MinItems != nil {
			doc["minItems"] = *s.MinItems
		}
		if s.MaxItems != nil {
			doc["maxItems"] = *s.MaxItems
		}
	}

	return doc
}

// PropertyNames returns property names in declaration order.
func (s *Schema) PropertyNames() []string {
	if len(s.Order) == len(s.Properties) {
		return s.Order
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
