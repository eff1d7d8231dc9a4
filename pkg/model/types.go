package model

import (
	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
)

// Kind is the closed set of semantic value kinds.
type Kind string

const (
	KindString Kind = "String"
	KindBool   Kind = "Bool"
	KindInt    Kind = "Int"
	KindDouble Kind = "Double"
	KindFloat  Kind = "Float"
	KindArray  Kind = "Array"
	KindObject Kind = "Object"
	KindNull   Kind = "Null"
)

// Shape tags how a property value relates to other models.
type Shape string

const (
	ShapeScalar       Shape = "scalar"
	ShapeScalarArray  Shape = "scalar_array"
	ShapeObjectArray  Shape = "object_array"
	ShapeSingleObject Shape = "single_object"
	ShapeNull         Shape = "null"
	ShapeEmptyArray   Shape = "empty_array"
)

// Shapes lists every shape tag. Emitter tables are checked against it.
func Shapes() []Shape {
	return []Shape{
		ShapeScalar,
		ShapeScalarArray,
		ShapeObjectArray,
		ShapeSingleObject,
		ShapeNull,
		ShapeEmptyArray,
	}
}

// ConstructKind selects between value and reference types in the target
// language.
type ConstructKind string

const (
	ConstructStruct ConstructKind = "struct"
	ConstructClass  ConstructKind = "class"
)

// TypeDescriptor is the structured type of a property. Element is set for
// arrays (empty when the element type is unknown) and Model names the nested
// record for SingleObject and ObjectArray shapes.
type TypeDescriptor struct {
	Kind    Kind   `json:"kind"`
	Element Kind   `json:"element,omitempty"`
	Model   string `json:"model,omitempty"`
}

// Scalar returns the descriptor of a non-container kind.
func Scalar(kind Kind) TypeDescriptor {
	return TypeDescriptor{Kind: kind}
}

// ArrayOf returns an array descriptor with the given element kind.
func ArrayOf(element Kind) TypeDescriptor {
	return TypeDescriptor{Kind: KindArray, Element: element}
}

// ModelRef returns the descriptor for a single nested record.
func ModelRef(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindObject, Model: name}
}

// ModelArray returns the descriptor for an array of nested records.
func ModelArray(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindArray, Element: KindObject, Model: name}
}

// String renders a diagnostic form such as "Int", "[String]", "Pet", "[Pet]".
// Target-language rendering belongs to the emitters.
func (t TypeDescriptor) String() string {
	switch t.Kind {
	case KindArray:
		switch {
		case t.Model != "":
			return "[" + t.Model + "]"
		case t.Element == "":
			return "[Any]"
		default:
			return "[" + TypeDescriptor{Kind: t.Element}.String() + "]"
		}
	case KindObject:
		if t.Model != "" {
			return t.Model
		}
		return "[String: Any]"
	case KindNull:
		return "Any"
	case "":
		return "Any"
	default:
		return string(t.Kind)
	}
}

// Property describes one field of a record.
type Property struct {
	Name        string         `json:"name"`
	Key         string         `json:"key"`
	Type        TypeDescriptor `json:"type"`
	Shape       Shape          `json:"shape"`
	Required    bool           `json:"required"`
	Description string         `json:"description,omitempty"`
	Ref         string         `json:"ref,omitempty"`
}

// Parameter is a constructor parameter derived from a property.
type Parameter struct {
	Name     string         `json:"name"`
	Type     TypeDescriptor `json:"type"`
	Required bool           `json:"required"`
}

// Record describes one generated type.
type Record struct {
	Name        string          `json:"name"`
	Construct   ConstructKind   `json:"construct"`
	Properties  []Property      `json:"properties"`
	SuperClass  string          `json:"superClass,omitempty"`
	Description string          `json:"description,omitempty"`
	Inherited   []Parameter     `json:"inherited,omitempty"`
	Location    string          `json:"location,omitempty"`
	Source      jsonvalue.Value `json:"-"`
}

// Parameters returns the record's own constructor parameters. Null-shaped
// properties are not represented in generated code and are skipped.
func (r Record) Parameters() []Parameter {
	params := make([]Parameter, 0, len(r.Properties))
	for _, prop := range r.Properties {
		if prop.Shape == ShapeNull {
			continue
		}
		params = append(params, Parameter{Name: prop.Name, Type: prop.Type, Required: prop.Required})
	}
	return params
}

// AllParameters returns inherited parameters (root ancestor first) followed
// by the record's own parameters.
func (r Record) AllParameters() []Parameter {
	out := make([]Parameter, 0, len(r.Inherited)+len(r.Properties))
	out = append(out, r.Inherited...)
	out = append(out, r.Parameters()...)
	return out
}

// Property looks up a property by its normalized name.
func (r Record) Property(name string) (Property, bool) {
	for _, prop := range r.Properties {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}

// PropertyByKey looks up a property by its serialization key.
func (r Record) PropertyByKey(key string) (Property, bool) {
	for _, prop := range r.Properties {
		if prop.Key == key {
			return prop, true
		}
	}
	return Property{}, false
}

// References returns the names of records this record depends on, in
// property order, including the super class.
func (r Record) References() []string {
	var refs []string
	if r.SuperClass != "" {
		refs = append(refs, r.SuperClass)
	}
	for _, prop := range r.Properties {
		if prop.Type.Model != "" {
			refs = append(refs, prop.Type.Model)
		}
	}
	return refs
}
