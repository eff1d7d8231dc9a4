// Package emit renders intermediate model records into Swift source files.
//
// A Strategy turns each property of a record into a set of source fragments.
// The Renderer sorts and indents those fragments and feeds them to the pongo2
// templates embedded in this package (or a caller supplied bundle).
package emit

import (
	"fmt"

	"github.com/goliatone/go-modelgen/pkg/model"
)

// Fragments are the source snippets generated for a single property. Every
// field is a complete statement without indentation.
type Fragments struct {
	Name           string
	Key            string
	Declaration    string
	InitParameter  string
	Initializer    string
	Encoder        string
	Decoder        string
	Representation string
	// Optional marks fragments declared with an optional type. The renderer
	// lists non-optional fragments first.
	Optional bool
}

// Empty reports whether no fragment was produced.
func (f Fragments) Empty() bool {
	return f.Key == "" && f.Declaration == "" && f.Initializer == "" &&
		f.Encoder == "" && f.Decoder == "" && f.InitParameter == "" && f.Representation == ""
}

// Strategy is one serialization convention for generated Swift models.
type Strategy interface {
	// Name is the registry key ("swiftyjson", "codable", ...).
	Name() string
	// ModuleName is the Swift module imported by generated files.
	ModuleName() string
	// TemplateName selects the body template rendered inside the base file.
	TemplateName() string
	// BaseElement returns the type the record extends, either its super
	// class or the strategy protocol. Empty means nothing.
	BaseElement(record model.Record) string
	// Fragments renders a property. The boolean is false when the property
	// produces no source, which is always the case for the Null shape.
	Fragments(record model.Record, prop model.Property) (Fragments, bool)
}

// NSCoder is implemented by strategies whose class output can also conform
// to NSCoding using the Encoder and Decoder fragments.
type NSCoder interface {
	SupportsNSCoding() bool
}

// File is one generated source file.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// FragmentFunc builds the fragments of one property shape.
type FragmentFunc func(record model.Record, prop model.Property) Fragments

// Table maps every shape to its fragment builder.
type Table map[model.Shape]FragmentFunc

// Skip produces no fragments.
func Skip(model.Record, model.Property) Fragments {
	return Fragments{}
}

// Build runs the builder registered for the property shape.
func (t Table) Build(record model.Record, prop model.Property) (Fragments, bool) {
	build, ok := t[prop.Shape]
	if !ok || build == nil {
		return Fragments{}, false
	}
	fragments := build(record, prop)
	if fragments.Empty() {
		return Fragments{}, false
	}
	fragments.Name = prop.Name
	return fragments, true
}

// Check verifies the table covers every shape.
func (t Table) Check() error {
	for _, shape := range model.Shapes() {
		if build, ok := t[shape]; !ok || build == nil {
			return fmt.Errorf("emit: no fragments for shape %q", shape)
		}
	}
	return nil
}

// MustCheck panics when the table is not total.
func (t Table) MustCheck() Table {
	if err := t.Check(); err != nil {
		panic(err)
	}
	return t
}

// ShapeOf derives the shape of a type descriptor. Used for inherited
// parameters, which carry a type but no shape.
func ShapeOf(t model.TypeDescriptor) model.Shape {
	switch t.Kind {
	case model.KindArray:
		switch {
		case t.Model != "":
			return model.ShapeObjectArray
		case t.Element == "":
			return model.ShapeEmptyArray
		default:
			return model.ShapeScalarArray
		}
	case model.KindObject:
		if t.Model != "" {
			return model.ShapeSingleObject
		}
		return model.ShapeScalar
	case model.KindNull, "":
		return model.ShapeNull
	default:
		return model.ShapeScalar
	}
}
