// Copyright (c) 2025 SiteSentry
// Licensed under the MIT License.

package tool

// Schema is a JSON Schema object describing tool parameters.
type Schema map[string]any

// NewSchema creates an empty object schema.
func NewSchema() Schema {
	return Schema{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (s Schema) addProperty(name string, prop map[string]any, required bool) Schema {
	props, ok := s["properties"].(map[string]any)
	if !ok {
		props = map[string]any{}
		s["properties"] = props
	}
	props[name] = prop

	if required {
		reqs, _ := s["required"].([]string)
		s["required"] = append(reqs, name)
	}
	return s
}

// String adds a string property.
func (s Schema) String(name, description string, required bool) Schema {
	return s.addProperty(name, map[string]any{
		"type":        "string",
		"description": description,
	}, required)
}

// Integer adds an integer property.
func (s Schema) Integer(name, description string, required bool) Schema {
	return s.addProperty(name, map[string]any{
		"type":        "integer",
		"description": description,
	}, required)
}

// Number adds a number property.
func (s Schema) Number(name, description string, required bool) Schema {
	return s.addProperty(name, map[string]any{
		"type":        "number",
		"description": description,
	}, required)
}

// Boolean adds a boolean property.
func (s Schema) Boolean(name, description string, required bool) Schema {
	return s.addProperty(name, map[string]any{
		"type":        "boolean",
		"description": description,
	}, required)
}

// StringEnum adds a string property restricted to the given values.
func (s Schema) StringEnum(name, description string, values []string, required bool) Schema {
	return s.addProperty(name, map[string]any{
		"type":        "string",
		"description": description,
		"enum":        values,
	}, required)
}

// Array adds an array property whose items use the given item schema.
func (s Schema) Array(name, description string, items map[string]any, required bool) Schema {
	return s.addProperty(name, map[string]any{
		"type":        "array",
		"description": description,
		"items":       items,
	}, required)
}

// Object adds a nested object property.
func (s Schema) Object(name, description string, nested Schema, required bool) Schema {
	prop := map[string]any{
		"type":        "object",
		"description": description,
	}
	if nested != nil {
		if props, ok := nested["properties"]; ok {
			prop["properties"] = props
		}
		if reqs, ok := nested["required"]; ok {
			prop["required"] = reqs
		}
	}
	return s.addProperty(name, prop, required)
}
