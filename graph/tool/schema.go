// Package tool derives JSON Schemas from typed Go function signatures and
// dispatches tool_use content blocks to them, the Go port of
// lattice_llm.bedrock.tools.
package tool

import (
	"reflect"
	"strings"
)

// kindToJSONType mirrors lattice_llm.bedrock.tools.py_to_json_type: the
// mapping from a primitive kind to its JSON Schema type name.
var kindToJSONType = map[reflect.Kind]string{
	reflect.String:  "string",
	reflect.Bool:    "boolean",
	reflect.Int:     "number",
	reflect.Int8:    "number",
	reflect.Int16:   "number",
	reflect.Int32:   "number",
	reflect.Int64:   "number",
	reflect.Uint:    "number",
	reflect.Uint8:   "number",
	reflect.Uint16:  "number",
	reflect.Uint32:  "number",
	reflect.Uint64:  "number",
	reflect.Float32: "number",
	reflect.Float64: "number",
}

// DeriveSchema builds the JSON Schema for a tool argument struct type,
// matching lattice_llm.bedrock.tools.get_json_schema_from_type_hints:
// one "object" schema with a properties map and a required list of every
// field that isn't optional.
func DeriveSchema(argsType reflect.Type) map[string]any {
	for argsType.Kind() == reflect.Ptr {
		argsType = argsType.Elem()
	}

	properties := map[string]any{}
	required := []string{}

	for i := 0; i < argsType.NumField(); i++ {
		field := argsType.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitempty := fieldName(field)
		fieldSchema, optional := schemaForField(field)
		properties[name] = fieldSchema
		if !optional && !omitempty {
			required = append(required, name)
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// fieldName resolves a struct field's JSON name and whether its json tag
// requests omitempty, which this package also treats as "optional" (no Go
// equivalent of Python's Optional[T] default-value introspection exists,
// so the json tag is the idiomatic substitute).
func fieldName(field reflect.StructField) (name string, omitempty bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return lowerFirst(field.Name), false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = lowerFirst(field.Name)
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// schemaForField derives one field's schema. A pointer field is always
// optional (the Go idiom for Python's Optional[T]) and its schema carries
// both the pointed-to type and "null" in a type array, matching
// lattice_llm.bedrock.tools.get_json_schema_for_arg's union encoding for
// `T | None`. A oneof-tagged field produces the union shape that same
// function emits for Union/UnionType arguments: {"type": [arm, arm, ...]},
// and is optional only when one of its arms is "null".
func schemaForField(field reflect.StructField) (schema map[string]any, optional bool) {
	if arms, ok := field.Tag.Lookup("oneof"); ok {
		schema := unionSchema(arms)
		nullable := false
		for _, arm := range schema["type"].([]any) {
			if arm == "null" {
				nullable = true
			}
		}
		return schema, nullable
	}

	t := field.Type
	if t.Kind() == reflect.Ptr {
		return nullableSchema(t.Elem()), true
	}
	return schemaForType(t), false
}

// nullableSchema wraps a pointer field's pointed-to type schema with a
// "null" arm: {"type": [<sub>, "null"]} for a primitive/array/map
// elem, or the elem's own object schema with "null" appended to its type
// list for a nested struct.
func nullableSchema(elem reflect.Type) map[string]any {
	sub := schemaForType(elem)
	switch t := sub["type"].(type) {
	case string:
		sub["type"] = []any{t, "null"}
	case []any:
		sub["type"] = append(t, "null")
	}
	return sub
}

// unionSchema builds {"type": [...]} from a comma-separated "oneof" tag.
// A primitive JSON type name (string, number, boolean, array, object,
// null, integer) is kept as that name; any other name becomes an object
// schema with empty properties — the named type's own fields are not
// looked up.
func unionSchema(arms string) map[string]any {
	names := strings.Split(arms, ",")
	types := make([]any, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		switch n {
		case "string", "number", "boolean", "array", "object", "null", "integer":
			types = append(types, n)
		default:
			types = append(types, map[string]any{"type": "object", "properties": map[string]any{}})
		}
	}
	return map[string]any{"type": types}
}

// schemaForType derives the schema for a concrete (non-pointer) Go type.
func schemaForType(t reflect.Type) map[string]any {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": schemaForType(t.Elem())}
	case reflect.Map:
		return map[string]any{"type": "object", "properties": map[string]any{}}
	case reflect.Struct:
		return DeriveSchema(t)
	default:
		if jt, ok := kindToJSONType[t.Kind()]; ok {
			return map[string]any{"type": jt}
		}
		return map[string]any{"type": "string"}
	}
}
