package walker

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/naming"
)

// Infer derives records from a sample value. The record for value comes
// first, followed by nested records in discovery order. Arrays of objects are
// reduced to a single representative object first. A root that is neither an
// object nor an array whose first element is an object yields nil.
func (w *Walker) Infer(value jsonvalue.Value, defaultName string, isRoot bool) []model.Record {
	switch value.Kind() {
	case jsonvalue.KindArray:
		if value.Len() == 0 || !value.Index(0).IsObject() {
			w.logger.Debug("array without leading object skipped", zap.String("name", defaultName))
			return nil
		}
		value = Reduce(value.Items())
	case jsonvalue.KindObject:
	default:
		w.logger.Debug("non-object value skipped", zap.String("name", defaultName), zap.Stringer("kind", value.Kind()))
		return nil
	}

	record := model.Record{
		Name:      w.className(defaultName, isRoot),
		Construct: w.opts.Construct,
		Source:    value,
	}

	var nested []model.Record
	props := naming.NewScope()
	for _, member := range value.Members() {
		name := props.Claim(naming.FixVariableName(member.Key))
		prop := model.Property{Name: name, Key: member.Key}

		kind := model.Classify(member.Value)
		switch kind {
		case model.KindArray:
			items := member.Value.Items()
			if len(items) == 0 {
				prop.Type = model.ArrayOf("")
				prop.Shape = model.ShapeEmptyArray
				break
			}
			first := model.Classify(items[0])
			if first == model.KindObject {
				children := w.Infer(Reduce(items), w.elementName(name), false)
				prop.Type = model.ModelArray(children[0].Name)
				prop.Shape = model.ShapeObjectArray
				nested = append(nested, children...)
				break
			}
			prop.Type = model.ArrayOf(first)
			prop.Shape = model.ShapeScalarArray
		case model.KindObject:
			children := w.Infer(member.Value, name, false)
			prop.Type = model.ModelRef(children[0].Name)
			prop.Shape = model.ShapeSingleObject
			nested = append(nested, children...)
		default:
			prop.Type = model.Scalar(kind)
			prop.Shape = model.ShapeFor(kind, 0, "")
		}
		record.Properties = append(record.Properties, prop)
	}

	out := make([]model.Record, 0, 1+len(nested))
	out = append(out, record)
	return append(out, nested...)
}

// Reduce merges a list of objects into one: the key set is the union of the
// members in first-seen order and each key maps to its first non-null value.
// Non-object items are ignored.
func Reduce(items []jsonvalue.Value) jsonvalue.Value {
	members := make([]jsonvalue.Member, 0)
	index := make(map[string]int)
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		for _, member := range item.Members() {
			idx, seen := index[member.Key]
			if !seen {
				index[member.Key] = len(members)
				members = append(members, member)
				continue
			}
			if members[idx].Value.IsNull() && !member.Value.IsNull() {
				members[idx].Value = member.Value
			}
		}
	}
	return jsonvalue.Object(members...)
}
