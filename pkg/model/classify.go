package model

import (
	"strings"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
)

// Classify maps a sample value to its kind. Numbers are Int when the literal
// has neither fraction nor exponent and fits in int64; every other number is
// Double. Float is only reachable through declared schema types.
func Classify(value jsonvalue.Value) Kind {
	switch value.Kind() {
	case jsonvalue.KindObject:
		return KindObject
	case jsonvalue.KindArray:
		return KindArray
	case jsonvalue.KindBool:
		return KindBool
	case jsonvalue.KindString:
		return KindString
	case jsonvalue.KindNumber:
		if _, ok := value.AsInt(); ok {
			return KindInt
		}
		return KindDouble
	default:
		return KindNull
	}
}

var declaredKinds = map[string]Kind{
	"string":  KindString,
	"boolean": KindBool,
	"bool":    KindBool,
	"int":     KindInt,
	"long":    KindInt,
	"integer": KindInt,
	"double":  KindDouble,
	"number":  KindDouble,
	"float":   KindFloat,
	"array":   KindArray,
}

// ClassifyDeclared maps a schema "type" string case-insensitively. Unknown or
// missing types are Object.
func ClassifyDeclared(declared string) Kind {
	if kind, ok := declaredKinds[strings.ToLower(strings.TrimSpace(declared))]; ok {
		return kind
	}
	return KindObject
}

// ShapeFor derives the shape tag from a kind, the number of array elements
// (ignored for non-arrays) and the kind of the first element.
func ShapeFor(kind Kind, elements int, element Kind) Shape {
	switch kind {
	case KindArray:
		switch {
		case elements == 0:
			return ShapeEmptyArray
		case element == KindObject:
			return ShapeObjectArray
		default:
			return ShapeScalarArray
		}
	case KindObject:
		return ShapeSingleObject
	case KindNull:
		return ShapeNull
	default:
		return ShapeScalar
	}
}
