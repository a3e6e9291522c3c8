package tool

import (
	"reflect"
	"testing"
)

type weatherArgs struct {
	City  string `json:"city"`
	Units string `json:"units,omitempty"`
}

func TestDeriveSchema_BasicStruct(t *testing.T) {
	schema := DeriveSchema(reflect.TypeOf(weatherArgs{}))

	if schema["type"] != "object" {
		t.Fatalf("expected type object, got %v", schema["type"])
	}

	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties to be a map, got %T", schema["properties"])
	}
	city, ok := props["city"].(map[string]any)
	if !ok || city["type"] != "string" {
		t.Errorf("expected city to be {type: string}, got %v", props["city"])
	}

	required, ok := schema["required"].([]string)
	if !ok {
		t.Fatalf("expected required to be []string, got %T", schema["required"])
	}
	if len(required) != 1 || required[0] != "city" {
		t.Errorf("expected required = [city] (units is omitempty), got %v", required)
	}
}

func TestDeriveSchema_RequiredIsNeverNull(t *testing.T) {
	type noFields struct{}
	schema := DeriveSchema(reflect.TypeOf(noFields{}))

	required, ok := schema["required"].([]string)
	if !ok {
		t.Fatalf("expected required to be []string even when empty, got %T", schema["required"])
	}
	if required == nil {
		t.Error("expected required to be an empty slice, not nil")
	}
	if len(required) != 0 {
		t.Errorf("expected no required fields, got %v", required)
	}
}

func TestDeriveSchema_DereferencesPointer(t *testing.T) {
	schema := DeriveSchema(reflect.TypeOf(&weatherArgs{}))
	if schema["type"] != "object" {
		t.Errorf("expected a pointer-to-struct to derive the same object schema, got %v", schema["type"])
	}
}

func TestDeriveSchema_PointerFieldIsOptional(t *testing.T) {
	type args struct {
		City *string `json:"city"`
	}
	schema := DeriveSchema(reflect.TypeOf(args{}))
	required := schema["required"].([]string)
	if len(required) != 0 {
		t.Errorf("expected a pointer field to be optional, got required=%v", required)
	}
}

func TestDeriveSchema_PointerFieldTypeIncludesNull(t *testing.T) {
	type args struct {
		City *string `json:"city"`
	}
	schema := DeriveSchema(reflect.TypeOf(args{}))
	props := schema["properties"].(map[string]any)
	city := props["city"].(map[string]any)
	types, ok := city["type"].([]any)
	if !ok || len(types) != 2 {
		t.Fatalf("expected city's type to be a 2-arm union, got %v", city["type"])
	}
	if types[0] != "string" || types[1] != "null" {
		t.Errorf("expected [string null], got %v", types)
	}
}

func TestDeriveSchema_PointerToStructFieldTypeIncludesNull(t *testing.T) {
	type inner struct {
		Lat float64 `json:"lat"`
	}
	type args struct {
		Location *inner `json:"location"`
	}
	schema := DeriveSchema(reflect.TypeOf(args{}))
	props := schema["properties"].(map[string]any)
	location := props["location"].(map[string]any)
	types, ok := location["type"].([]any)
	if !ok || len(types) != 2 {
		t.Fatalf("expected location's type to be a 2-arm union, got %v", location["type"])
	}
	if types[0] != "object" || types[1] != "null" {
		t.Errorf("expected [object null], got %v", types)
	}
	if _, ok := location["properties"]; !ok {
		t.Error("expected the nested struct's own properties to still be present alongside the null arm")
	}
}

func TestDeriveSchema_NestedStruct(t *testing.T) {
	type inner struct {
		Lat float64 `json:"lat"`
	}
	type outer struct {
		Location inner `json:"location"`
	}
	schema := DeriveSchema(reflect.TypeOf(outer{}))
	props := schema["properties"].(map[string]any)
	location, ok := props["location"].(map[string]any)
	if !ok || location["type"] != "object" {
		t.Fatalf("expected location to be a nested object schema, got %v", props["location"])
	}
}

func TestDeriveSchema_SliceField(t *testing.T) {
	type args struct {
		Tags []string `json:"tags"`
	}
	schema := DeriveSchema(reflect.TypeOf(args{}))
	props := schema["properties"].(map[string]any)
	tags := props["tags"].(map[string]any)
	if tags["type"] != "array" {
		t.Fatalf("expected tags to be an array schema, got %v", tags["type"])
	}
	items := tags["items"].(map[string]any)
	if items["type"] != "string" {
		t.Errorf("expected array items to be strings, got %v", items["type"])
	}
}

func TestDeriveSchema_MapField(t *testing.T) {
	type args struct {
		Meta map[string]string `json:"meta"`
	}
	schema := DeriveSchema(reflect.TypeOf(args{}))
	props := schema["properties"].(map[string]any)
	meta := props["meta"].(map[string]any)
	if meta["type"] != "object" {
		t.Errorf("expected meta to be an object schema, got %v", meta["type"])
	}
}

func TestDeriveSchema_UnexportedFieldsAreSkipped(t *testing.T) {
	type args struct {
		City    string `json:"city"`
		private string
	}
	_ = args{private: "x"}
	schema := DeriveSchema(reflect.TypeOf(args{}))
	props := schema["properties"].(map[string]any)
	if _, ok := props["private"]; ok {
		t.Error("expected the unexported field to be skipped")
	}
	if len(props) != 1 {
		t.Errorf("expected exactly 1 property, got %d", len(props))
	}
}

func TestDeriveSchema_UnionField(t *testing.T) {
	type args struct {
		Value any `json:"value" oneof:"string,number"`
	}
	schema := DeriveSchema(reflect.TypeOf(args{}))
	props := schema["properties"].(map[string]any)
	value := props["value"].(map[string]any)
	types, ok := value["type"].([]any)
	if !ok || len(types) != 2 {
		t.Fatalf("expected a 2-arm union type, got %v", value["type"])
	}
	if types[0] != "string" || types[1] != "number" {
		t.Errorf("expected [string number], got %v", types)
	}

	required := schema["required"].([]string)
	if len(required) != 1 || required[0] != "value" {
		t.Errorf("expected a oneof field without a null arm to be required, got required=%v", required)
	}
}

func TestDeriveSchema_UnionFieldWithNonPrimitiveArm(t *testing.T) {
	type args struct {
		Value any `json:"value" oneof:"string,widget"`
	}
	schema := DeriveSchema(reflect.TypeOf(args{}))
	props := schema["properties"].(map[string]any)
	value := props["value"].(map[string]any)
	types := value["type"].([]any)
	if types[0] != "string" {
		t.Errorf("expected the first arm to stay the primitive name %q, got %v", "string", types[0])
	}
	nested, ok := types[1].(map[string]any)
	if !ok || nested["type"] != "object" {
		t.Errorf("expected the non-primitive arm to become a nested object schema, got %v", types[1])
	}
}

func TestDeriveSchema_FieldNameFallsBackToLowercasedGoName(t *testing.T) {
	type args struct {
		City string
	}
	schema := DeriveSchema(reflect.TypeOf(args{}))
	props := schema["properties"].(map[string]any)
	if _, ok := props["city"]; !ok {
		t.Errorf("expected a field with no json tag to fall back to its lowercased name, got %v", props)
	}
}
