// Package codable emits models conforming to Swift's Codable. Declarations
// follow the required flag of each property.
package codable

import (
	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/model"
)

// Name is the registry key of the strategy.
const Name = "codable"

// Strategy implements emit.Strategy for Codable.
type Strategy struct {
	table emit.Table
}

var _ emit.Strategy = (*Strategy)(nil)

// New returns the Codable strategy.
func New() *Strategy {
	return &Strategy{table: emit.Table{
		model.ShapeScalar:       coded,
		model.ShapeScalarArray:  coded,
		model.ShapeObjectArray:  coded,
		model.ShapeSingleObject: coded,
		model.ShapeEmptyArray:   coded,
		model.ShapeNull:         emit.Skip,
	}.MustCheck()}
}

func (s *Strategy) Name() string         { return Name }
func (s *Strategy) ModuleName() string   { return "Foundation" }
func (s *Strategy) TemplateName() string { return Name }

func (s *Strategy) BaseElement(record model.Record) string {
	if record.SuperClass != "" {
		return record.SuperClass
	}
	return "Codable"
}

func (s *Strategy) Fragments(record model.Record, prop model.Property) (emit.Fragments, bool) {
	return s.table.Build(record, prop)
}

func coded(_ model.Record, prop model.Property) emit.Fragments {
	swiftType := emit.SwiftType(prop.Type)
	optional := !prop.Required

	encode, decode := "encode", "decode"
	if optional {
		encode, decode = "encodeIfPresent", "decodeIfPresent"
	}
	return emit.Fragments{
		Key:           "case " + prop.Name + " = " + emit.SwiftString(prop.Key),
		Declaration:   emit.Declaration(prop, swiftType, optional),
		InitParameter: emit.InitParameter(prop.Name, swiftType, optional),
		Initializer:   "self." + prop.Name + " = " + prop.Name,
		Encoder:       "try container." + encode + "(" + prop.Name + ", forKey: ." + prop.Name + ")",
		Decoder:       prop.Name + " = try values." + decode + "(" + swiftType + ".self, forKey: ." + prop.Name + ")",
		Optional:      optional,
	}
}
