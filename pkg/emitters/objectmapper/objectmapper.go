// Package objectmapper emits models conforming to ObjectMapper's Mappable.
package objectmapper

import (
	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/model"
)

// Name is the registry key of the strategy.
const Name = "objectmapper"

// Strategy implements emit.Strategy for ObjectMapper.
type Strategy struct {
	table emit.Table
}

var _ emit.Strategy = (*Strategy)(nil)
var _ emit.NSCoder = (*Strategy)(nil)

// New returns the ObjectMapper strategy. Every shape maps with the <-
// operator, so the table only differs for Null.
func New() *Strategy {
	return &Strategy{table: emit.Table{
		model.ShapeScalar:       mapped,
		model.ShapeScalarArray:  mapped,
		model.ShapeObjectArray:  mapped,
		model.ShapeSingleObject: mapped,
		model.ShapeEmptyArray:   mapped,
		model.ShapeNull:         emit.Skip,
	}.MustCheck()}
}

func (s *Strategy) Name() string         { return Name }
func (s *Strategy) ModuleName() string   { return "ObjectMapper" }
func (s *Strategy) TemplateName() string { return Name }

func (s *Strategy) BaseElement(record model.Record) string {
	if record.SuperClass != "" {
		return record.SuperClass
	}
	return "Mappable"
}

func (s *Strategy) Fragments(record model.Record, prop model.Property) (emit.Fragments, bool) {
	return s.table.Build(record, prop)
}

func (s *Strategy) SupportsNSCoding() bool { return true }

func mapped(_ model.Record, prop model.Property) emit.Fragments {
	fragments := emit.Members(prop)
	fragments.Initializer = prop.Name + " <- map[" + emit.KeyReference(prop) + "]"
	return fragments
}
