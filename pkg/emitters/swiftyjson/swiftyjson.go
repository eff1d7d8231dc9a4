// Package swiftyjson emits models that parse themselves from SwiftyJSON
// values.
package swiftyjson

import (
	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/model"
)

// Name is the registry key of the strategy.
const Name = "swiftyjson"

var scalarAccessors = map[model.Kind]string{
	model.KindString: "string",
	model.KindInt:    "int",
	model.KindDouble: "double",
	model.KindFloat:  "float",
	model.KindBool:   "boolValue",
	model.KindObject: "dictionaryObject",
}

var elementAccessors = map[model.Kind]string{
	model.KindString: "map { $0.stringValue }",
	model.KindInt:    "map { $0.intValue }",
	model.KindDouble: "map { $0.doubleValue }",
	model.KindFloat:  "map { $0.floatValue }",
	model.KindBool:   "map { $0.boolValue }",
	model.KindObject: "compactMap { $0.dictionaryObject }",
	model.KindArray:  "compactMap { $0.arrayObject }",
}

// Strategy implements emit.Strategy for SwiftyJSON.
type Strategy struct {
	table emit.Table
}

var _ emit.Strategy = (*Strategy)(nil)
var _ emit.NSCoder = (*Strategy)(nil)

// New returns the SwiftyJSON strategy.
func New() *Strategy {
	return &Strategy{table: emit.Table{
		model.ShapeScalar:       scalar,
		model.ShapeScalarArray:  scalarArray,
		model.ShapeObjectArray:  objectArray,
		model.ShapeSingleObject: singleObject,
		model.ShapeEmptyArray:   emptyArray,
		model.ShapeNull:         emit.Skip,
	}.MustCheck()}
}

func (s *Strategy) Name() string         { return Name }
func (s *Strategy) ModuleName() string   { return "SwiftyJSON" }
func (s *Strategy) TemplateName() string { return Name }

// BaseElement returns the super class. SwiftyJSON models conform to no
// protocol.
func (s *Strategy) BaseElement(record model.Record) string {
	return record.SuperClass
}

func (s *Strategy) Fragments(record model.Record, prop model.Property) (emit.Fragments, bool) {
	return s.table.Build(record, prop)
}

func (s *Strategy) SupportsNSCoding() bool { return true }

func source(prop model.Property) string {
	return "json[" + emit.KeyReference(prop) + "]"
}

func scalar(_ model.Record, prop model.Property) emit.Fragments {
	accessor, ok := scalarAccessors[prop.Type.Kind]
	if !ok {
		accessor = "object"
	}
	fragments := emit.Members(prop)
	fragments.Initializer = prop.Name + " = " + source(prop) + "." + accessor
	return fragments
}

func scalarArray(_ model.Record, prop model.Property) emit.Fragments {
	mapping, ok := elementAccessors[prop.Type.Element]
	if !ok {
		mapping = "map { $0.object }"
	}
	fragments := emit.Members(prop)
	fragments.Initializer = "if let items = " + source(prop) + ".array { " + prop.Name + " = items." + mapping + " }"
	return fragments
}

func objectArray(_ model.Record, prop model.Property) emit.Fragments {
	fragments := emit.Members(prop)
	fragments.Initializer = "if let items = " + source(prop) + ".array { " + prop.Name + " = items.map { " + emit.ElementType(prop.Type) + "(json: $0) } }"
	return fragments
}

func singleObject(_ model.Record, prop model.Property) emit.Fragments {
	fragments := emit.Members(prop)
	fragments.Initializer = prop.Name + " = " + emit.SwiftType(prop.Type) + "(json: " + source(prop) + ")"
	return fragments
}

func emptyArray(_ model.Record, prop model.Property) emit.Fragments {
	fragments := emit.Members(prop)
	fragments.Initializer = "if let items = " + source(prop) + ".array { " + prop.Name + " = items.map { $0.object } }"
	return fragments
}
