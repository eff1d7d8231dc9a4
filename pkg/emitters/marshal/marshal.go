// Package marshal emits models conforming to Marshal's Unmarshaling.
package marshal

import (
	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/model"
)

// Name is the registry key of the strategy.
const Name = "marshal"

// Strategy implements emit.Strategy for Marshal.
type Strategy struct {
	table emit.Table
}

var _ emit.Strategy = (*Strategy)(nil)
var _ emit.NSCoder = (*Strategy)(nil)

// New returns the Marshal strategy.
func New() *Strategy {
	return &Strategy{table: emit.Table{
		model.ShapeScalar:       value,
		model.ShapeScalarArray:  value,
		model.ShapeObjectArray:  value,
		model.ShapeSingleObject: value,
		model.ShapeEmptyArray:   value,
		model.ShapeNull:         emit.Skip,
	}.MustCheck()}
}

func (s *Strategy) Name() string         { return Name }
func (s *Strategy) ModuleName() string   { return "Marshal" }
func (s *Strategy) TemplateName() string { return Name }

func (s *Strategy) BaseElement(record model.Record) string {
	if record.SuperClass != "" {
		return record.SuperClass
	}
	return "Unmarshaling"
}

func (s *Strategy) Fragments(record model.Record, prop model.Property) (emit.Fragments, bool) {
	return s.table.Build(record, prop)
}

func (s *Strategy) SupportsNSCoding() bool { return true }

func value(_ model.Record, prop model.Property) emit.Fragments {
	fragments := emit.Members(prop)
	fragments.Initializer = prop.Name + " = try? object.value(for: " + emit.KeyReference(prop) + ")"
	return fragments
}
