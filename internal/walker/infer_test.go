package walker

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/model"
)

func infer(t *testing.T, raw string, opts Options) []model.Record {
	t.Helper()
	return New(opts, nil).Infer(jsonvalue.MustParse(raw), "BaseClass", true)
}

func shapes(record model.Record) map[string]model.Shape {
	out := make(map[string]model.Shape, len(record.Properties))
	for _, prop := range record.Properties {
		out[prop.Key] = prop.Shape
	}
	return out
}

func TestInfer_Scalars(t *testing.T) {
	records := infer(t, `{"name":"Tom","age":7}`, Options{})
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	want := []model.Property{
		{Name: "name", Key: "name", Type: model.Scalar(model.KindString), Shape: model.ShapeScalar},
		{Name: "age", Key: "age", Type: model.Scalar(model.KindInt), Shape: model.ShapeScalar},
	}
	if diff := cmp.Diff(want, records[0].Properties); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
	if records[0].Name != "BaseClass" || records[0].Construct != model.ConstructStruct {
		t.Fatalf("unexpected record header %q %q", records[0].Name, records[0].Construct)
	}
}

func TestInfer_EmptyArray(t *testing.T) {
	records := infer(t, `{"items":[]}`, Options{})
	if len(records) != 1 || len(records[0].Properties) != 1 {
		t.Fatalf("unexpected records %+v", records)
	}
	prop := records[0].Properties[0]
	if prop.Shape != model.ShapeEmptyArray || prop.Type.String() != "[Any]" {
		t.Fatalf("unexpected property %+v", prop)
	}
}

func TestInfer_BranchTable(t *testing.T) {
	raw := `{
  "title": "x",
  "score": 1.5,
  "ok": true,
  "missing": null,
  "tags": ["a", "b"],
  "empty": [],
  "owner": {"id": 1},
  "pets": [{"name": "rex"}, {"age": 3}]
}`
	records := infer(t, raw, Options{Prefix: "SJ"})

	want := map[string]model.Shape{
		"title":   model.ShapeScalar,
		"score":   model.ShapeScalar,
		"ok":      model.ShapeScalar,
		"missing": model.ShapeNull,
		"tags":    model.ShapeScalarArray,
		"empty":   model.ShapeEmptyArray,
		"owner":   model.ShapeSingleObject,
		"pets":    model.ShapeObjectArray,
	}
	if diff := cmp.Diff(want, shapes(records[0])); diff != "" {
		t.Fatalf("shape mismatch (-want +got):\n%s", diff)
	}
	if len(records[0].Properties) != 8 {
		t.Fatalf("expected one property per key, got %d", len(records[0].Properties))
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.Name)
	}
	if diff := cmp.Diff([]string{"SJBaseClass", "SJOwner", "SJPets"}, names); diff != "" {
		t.Fatalf("record order mismatch (-want +got):\n%s", diff)
	}

	owner, _ := records[0].Property("owner")
	if owner.Type != model.ModelRef("SJOwner") {
		t.Fatalf("unexpected owner type %+v", owner.Type)
	}
	pets, _ := records[0].Property("pets")
	if pets.Type != model.ModelArray("SJPets") {
		t.Fatalf("unexpected pets type %+v", pets.Type)
	}
	tags, _ := records[0].Property("tags")
	if tags.Type.String() != "[String]" {
		t.Fatalf("unexpected tags type %s", tags.Type)
	}
	score, _ := records[0].Property("score")
	if score.Type.Kind != model.KindDouble {
		t.Fatalf("expected Double score, got %s", score.Type)
	}
	for _, prop := range records[0].Properties {
		if prop.Required {
			t.Fatalf("inferred properties must not be required: %+v", prop)
		}
	}
	if err := (model.Result{Records: records}).Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestInfer_ArrayReductionUnion(t *testing.T) {
	records := infer(t, `[{"a":1},{"b":2}]`, Options{})
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys(records[0])); diff != "" {
		t.Fatalf("key union mismatch (-want +got):\n%s", diff)
	}
}

func TestInfer_ReductionPrefersNonNull(t *testing.T) {
	records := infer(t, `{"items":[{"id":null,"tag":"x"},{"id":4,"extra":{"k":true}}]}`, Options{SingularizeArrays: true})
	if len(records) != 3 {
		t.Fatalf("expected root, element and nested records, got %d", len(records))
	}
	element := records[1]
	if element.Name != "Item" {
		t.Fatalf("expected singular element name, got %q", element.Name)
	}
	id, _ := element.Property("id")
	if id.Shape != model.ShapeScalar || id.Type.Kind != model.KindInt {
		t.Fatalf("expected first non-null value to win, got %+v", id)
	}
	if diff := cmp.Diff([]string{"id", "tag", "extra"}, keys(element)); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if records[2].Name != "Extra" {
		t.Fatalf("unexpected nested name %q", records[2].Name)
	}
}

func TestInfer_MalformedRoots(t *testing.T) {
	for _, raw := range []string{`[1,2,3]`, `[[{"a":1}]]`, `"text"`, `[]`, `null`} {
		if records := infer(t, raw, Options{}); len(records) != 0 {
			t.Errorf("expected no records for %s, got %d", raw, len(records))
		}
	}
}

func TestInfer_NameCollisions(t *testing.T) {
	records := infer(t, `{"first_name":"a","firstName":"b","user":{"x":1},"User":{"y":2}}`, Options{})

	if diff := cmp.Diff([]string{"firstName", "firstName2", "user", "user2"}, propertyNames(records[0])); diff != "" {
		t.Fatalf("property names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"first_name", "firstName", "user", "User"}, keys(records[0])); diff != "" {
		t.Fatalf("keys must stay verbatim (-want +got):\n%s", diff)
	}
	if records[1].Name != "User" || records[2].Name != "User2" {
		t.Fatalf("unexpected model names %q %q", records[1].Name, records[2].Name)
	}
}

func TestInfer_Idempotent(t *testing.T) {
	raw := `{"a":{"b":{"c":[{"d":1.0}]}},"e":[1,2]}`
	first := infer(t, raw, Options{Prefix: "X"})
	second := infer(t, raw, Options{Prefix: "X"})
	opt := cmp.Comparer(func(a, b jsonvalue.Value) bool { return a.Equal(b) })
	if diff := cmp.Diff(first, second, opt); diff != "" {
		t.Fatalf("runs differ (-first +second):\n%s", diff)
	}
}

func TestReduce(t *testing.T) {
	reduced := Reduce([]jsonvalue.Value{
		jsonvalue.MustParse(`{"a":null,"b":1}`),
		jsonvalue.MustParse(`7`),
		jsonvalue.MustParse(`{"a":"x","c":[]}`),
	})
	want := jsonvalue.MustParse(`{"a":"x","b":1,"c":[]}`)
	if !reduced.Equal(want) {
		t.Fatalf("unexpected reduction %s", reduced)
	}
}

func keys(record model.Record) []string {
	out := make([]string, 0, len(record.Properties))
	for _, prop := range record.Properties {
		out = append(out, prop.Key)
	}
	return out
}

func propertyNames(record model.Record) []string {
	out := make([]string, 0, len(record.Properties))
	for _, prop := range record.Properties {
		out = append(out, prop.Name)
	}
	return out
}

func TestInfer_NamesClaimedPerWalker(t *testing.T) {
	raw := `{"pet":{"name":"Rex"}}`
	names := func(records []model.Record) []string {
		return (model.Result{Records: records}).Names()
	}

	first := infer(t, raw, Options{})
	second := infer(t, raw, Options{})
	if diff := cmp.Diff(names(first), names(second)); diff != "" {
		t.Fatalf("fresh walkers must agree (-first +second):\n%s", diff)
	}

	reused := New(Options{}, nil)
	reused.Infer(jsonvalue.MustParse(raw), "BaseClass", true)
	again := reused.Infer(jsonvalue.MustParse(raw), "BaseClass", true)
	if diff := cmp.Diff([]string{"BaseClass2", "Pet2"}, names(again)); diff != "" {
		t.Fatalf("reused walker names mismatch (-want +got):\n%s", diff)
	}
}
