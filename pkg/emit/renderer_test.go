package emit_test

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/emitters/codable"
	"github.com/goliatone/go-modelgen/pkg/emitters/objectmapper"
	"github.com/goliatone/go-modelgen/pkg/emitters/swiftyjson"
	"github.com/goliatone/go-modelgen/pkg/model"
)

func fixedClock() time.Time {
	return time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
}

func newRenderer(t *testing.T, strategy emit.Strategy, opts ...emit.Option) *emit.Renderer {
	t.Helper()
	base := []emit.Option{emit.WithClock(fixedClock), emit.WithAuthor("Tester")}
	renderer, err := emit.NewRenderer(strategy, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func assertContains(t *testing.T, content string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(content, fragment) {
			t.Errorf("missing %q in:\n%s", fragment, content)
		}
	}
}

func TestNewRendererRequiresStrategy(t *testing.T) {
	if _, err := emit.NewRenderer(nil); err == nil {
		t.Fatalf("expected error for nil strategy")
	}
}

func TestRenderCodableStruct(t *testing.T) {
	record := model.Record{
		Name:        "Pet",
		Construct:   model.ConstructStruct,
		Description: "A <em>pet</em>",
		Properties: []model.Property{
			{Name: "age", Key: "age", Type: model.Scalar(model.KindInt), Shape: model.ShapeScalar},
			{Name: "name", Key: "pet_name", Type: model.Scalar(model.KindString), Shape: model.ShapeScalar, Required: true, Description: "Display name"},
			{Name: "ghost", Key: "ghost", Type: model.Scalar(model.KindNull), Shape: model.ShapeNull},
		},
	}

	file, err := newRenderer(t, codable.New()).Render(record)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if file.Name != "Pet.swift" {
		t.Fatalf("unexpected file name %q", file.Name)
	}

	assertContains(t, file.Content,
		"//  Pet.swift\n",
		"//  Created by Tester on 10/19/26\n",
		"import Foundation\n\n/// A pet\npublic struct Pet: Codable {\n\n  enum CodingKeys: String, CodingKey {\n",
		"    case name = \"pet_name\"\n    case age = \"age\"\n  }",
		"  /// Display name\n  public var name: String\n  public var age: Int?\n",
		"  public init(name: String, age: Int? = nil) {\n    self.name = name\n    self.age = age\n  }",
		"  public init(from decoder: Decoder) throws {\n",
		"    name = try values.decode(String.self, forKey: .name)\n    age = try values.decodeIfPresent(Int.self, forKey: .age)\n",
		"  public func encode(to encoder: Encoder) throws {\n",
		"    try container.encode(name, forKey: .name)\n    try container.encodeIfPresent(age, forKey: .age)\n",
	)
	if strings.Contains(file.Content, "ghost") {
		t.Fatalf("null shaped property leaked into output:\n%s", file.Content)
	}
	if strings.Contains(file.Content, "Copyright") {
		t.Fatalf("copyright line rendered without company")
	}
	if !strings.HasSuffix(file.Content, "  }\n}\n") {
		t.Fatalf("unexpected file ending %q", file.Content[len(file.Content)-20:])
	}
}

func TestRenderCodableInheritance(t *testing.T) {
	result := model.Result{Records: []model.Record{
		{
			Name:       "Child",
			Construct:  model.ConstructClass,
			SuperClass: "Parent",
			Inherited:  []model.Parameter{{Name: "id", Type: model.Scalar(model.KindInt), Required: true}},
			Properties: []model.Property{
				{Name: "name", Key: "name", Type: model.Scalar(model.KindString), Shape: model.ShapeScalar},
			},
		},
		{
			Name:      "Parent",
			Construct: model.ConstructClass,
			Properties: []model.Property{
				{Name: "id", Key: "id", Type: model.Scalar(model.KindInt), Shape: model.ShapeScalar, Required: true},
			},
		},
	}}

	files, err := newRenderer(t, codable.New(), emit.WithFinal(true), emit.WithCompany("Acme")).RenderAll(result)
	if err != nil {
		t.Fatalf("render all: %v", err)
	}
	if len(files) != 2 || files[0].Name != "Child.swift" || files[1].Name != "Parent.swift" {
		t.Fatalf("unexpected files %+v", files)
	}

	child := files[0].Content
	assertContains(t, child,
		"//  Copyright (c) Acme. All rights reserved.\n",
		"public final class Child: Parent {",
		"  public init(id: Int, name: String? = nil) {\n    self.name = name\n    super.init(id: id)\n  }",
		"  public required init(from decoder: Decoder) throws {",
		"    try super.init(from: decoder)\n  }",
		"  public override func encode(to encoder: Encoder) throws {",
		"    try super.encode(to: encoder)\n  }",
	)

	parent := files[1].Content
	assertContains(t, parent,
		"public class Parent: Codable {",
		"  public init(id: Int) {",
		"  public func encode(to encoder: Encoder) throws {",
	)
	if strings.Contains(parent, "super.") {
		t.Fatalf("parent must not call super:\n%s", parent)
	}
}

func TestRenderSwiftyJSONClassWithNSCoding(t *testing.T) {
	record := model.Record{
		Name:      "Owner",
		Construct: model.ConstructClass,
		Properties: []model.Property{
			{Name: "name", Key: "name", Type: model.Scalar(model.KindString), Shape: model.ShapeScalar},
			{Name: "active", Key: "active", Type: model.Scalar(model.KindBool), Shape: model.ShapeScalar},
			{Name: "pets", Key: "pets", Type: model.ModelArray("Pet"), Shape: model.ShapeObjectArray},
			{Name: "tags", Key: "tags", Type: model.ArrayOf(model.KindString), Shape: model.ShapeScalarArray},
			{Name: "meta", Key: "meta", Type: model.Scalar(model.KindObject), Shape: model.ShapeScalar},
			{Name: "extra", Key: "extra", Type: model.ArrayOf(""), Shape: model.ShapeEmptyArray},
		},
	}

	file, err := newRenderer(t, swiftyjson.New(), emit.WithNSCoding(true), emit.WithFinal(true)).Render(record)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	assertContains(t, file.Content,
		"import Foundation\nimport SwiftyJSON\n",
		"public final class Owner: NSCoding {",
		"    static let active = \"active\"\n",
		"  public var pets: [Pet]?\n",
		"  public var extra: [Any]?\n",
		"  public convenience init(object: Any) {",
		"  public required init(json: JSON) {",
		"    active = json[SerializationKeys.active].boolValue\n",
		"    if let items = json[SerializationKeys.pets].array { pets = items.map { Pet(json: $0) } }\n",
		"    if let items = json[SerializationKeys.tags].array { tags = items.map { $0.stringValue } }\n",
		"    meta = json[SerializationKeys.meta].dictionaryObject\n",
		"    var dictionary: [String: Any] = [:]\n",
		"    if let value = pets { dictionary[SerializationKeys.pets] = value.map { $0.dictionaryRepresentation() } }\n",
		"  // MARK: NSCoding Protocol\n  required public init(coder aDecoder: NSCoder) {\n",
		"    self.active = aDecoder.decodeBool(forKey: SerializationKeys.active)\n",
		"    aCoder.encode(pets, forKey: SerializationKeys.pets)\n",
	)
}

func TestRenderObjectMapperStruct(t *testing.T) {
	record := model.Record{
		Name:      "Tag",
		Construct: model.ConstructStruct,
		Properties: []model.Property{
			{Name: "label", Key: "label", Type: model.Scalar(model.KindString), Shape: model.ShapeScalar},
		},
	}

	file, err := newRenderer(t, objectmapper.New(), emit.WithNSCoding(true), emit.WithFinal(true)).Render(record)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	assertContains(t, file.Content,
		"import ObjectMapper\n",
		"public struct Tag: Mappable {",
		"  public init?(map: Map) {\n  }",
		"  public mutating func mapping(map: Map) {\n    label <- map[SerializationKeys.label]\n  }",
	)
	if strings.Contains(file.Content, "NSCoding") || strings.Contains(file.Content, "final") {
		t.Fatalf("struct output must not carry class features:\n%s", file.Content)
	}
}

func TestRenderEmptyRecord(t *testing.T) {
	file, err := newRenderer(t, codable.New()).Render(model.Record{Name: "Empty", Construct: model.ConstructStruct})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasSuffix(file.Content, "public struct Empty: Codable {\n}\n") {
		t.Fatalf("unexpected empty record output:\n%s", file.Content)
	}
}

func TestRenderRejectsUnnamedRecord(t *testing.T) {
	if _, err := newRenderer(t, codable.New()).Render(model.Record{}); err == nil {
		t.Fatalf("expected error for unnamed record")
	}
}

func TestRenderWithCustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"base.tpl":    &fstest.MapFile{Data: []byte("{{ ObjectKind }} {{ ObjectName }} by {{ Author }}: {{ Body }}")},
		"codable.tpl": &fstest.MapFile{Data: []byte("{{ InitParameters }}")},
	}
	renderer := newRenderer(t, codable.New(), emit.WithTemplatesFS(files), emit.WithAuthor(""))

	file, err := renderer.Render(model.Record{
		Name:       "Pet",
		Properties: []model.Property{{Name: "name", Key: "name", Type: model.Scalar(model.KindString), Shape: model.ShapeScalar, Required: true}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if file.Content != "struct Pet by modelgen: name: String" {
		t.Fatalf("unexpected content %q", file.Content)
	}
}
