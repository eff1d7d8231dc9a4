package walker

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/naming"
	"github.com/goliatone/go-modelgen/pkg/resolver"
)

// Declare walks a schema node and returns the records it declares. The
// record for node comes first, followed by the records it depends on in
// declaration order. Records already declared by an earlier call on the same
// walker are reused and not returned again. Unresolvable references are
// tolerated; cyclic references abort the walk.
func (w *Walker) Declare(ctx context.Context, node jsonvalue.Value, defaultName string, isRoot bool, location string) ([]model.Record, error) {
	if !node.IsObject() {
		w.logger.Debug("non-object schema skipped", zap.String("location", location))
		return nil, nil
	}
	if w.session != nil && location != "" {
		if err := w.session.Enter(location); err != nil {
			return nil, err
		}
		defer w.session.Leave(location)
	}

	start := len(w.records)
	name, err := w.declare(ctx, node, defaultName, isRoot, location)
	if err != nil {
		return nil, err
	}

	out := make([]model.Record, 0, len(w.records)-start)
	if idx, ok := w.index[name]; ok && idx >= start {
		out = append(out, w.records[idx])
	}
	for idx := start; idx < len(w.records); idx++ {
		if w.records[idx].Name != name {
			out = append(out, w.records[idx])
		}
	}
	return out, nil
}

func (w *Walker) declare(ctx context.Context, node jsonvalue.Value, defaultName string, isRoot bool, location string) (string, error) {
	if name, ok := w.declared[location]; ok && location != "" {
		return name, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	record := model.Record{
		Name:        w.className(recordName(node, defaultName), isRoot),
		Construct:   w.opts.Construct,
		Description: node.Lookup("description").Text(),
		Location:    location,
		Source:      node,
	}

	props := naming.NewScope()
	if ref, ok := extendsRef(node); ok {
		parent, found, err := w.declareParent(ctx, ref, location)
		if err != nil {
			return "", err
		}
		if found {
			record.SuperClass = parent.Name
			record.Inherited = parent.AllParameters()
			record.Construct = model.ConstructClass
			for _, param := range record.Inherited {
				props.Claim(param.Name)
			}
		}
	}

	required := requiredKeys(node)
	for _, member := range node.Lookup("properties").Members() {
		if !member.Value.IsObject() {
			w.logger.Debug("non-object property schema skipped",
				zap.String("key", member.Key),
				zap.String("location", location),
			)
			continue
		}
		name := props.Claim(naming.FixVariableName(member.Key))
		desc, shape, err := w.describe(ctx, member.Value, name, childLocation(location, "properties", member.Key))
		if err != nil {
			return "", err
		}
		prop := model.Property{
			Name:        name,
			Key:         member.Key,
			Type:        desc,
			Shape:       shape,
			Required:    w.opts.AllRequired || isRequired(member.Value) || required[member.Key],
			Description: member.Value.Lookup("description").Text(),
			Ref:         member.Value.Lookup("$ref").Text(),
		}
		record.Properties = append(record.Properties, prop)
	}

	w.index[record.Name] = len(w.records)
	w.records = append(w.records, record)
	if location != "" {
		w.declared[location] = record.Name
	}
	return record.Name, nil
}

func (w *Walker) declareParent(ctx context.Context, ref, location string) (model.Record, bool, error) {
	target, ok, err := w.follow(ctx, ref, location)
	if err != nil || !ok {
		return model.Record{}, false, err
	}
	name, declared := w.declared[target.Location]
	if !declared {
		if err := w.session.Enter(target.Location); err != nil {
			return model.Record{}, false, err
		}
		name, err = w.declare(ctx, target.Value, locationName(target.Location), false, target.Location)
		w.session.Leave(target.Location)
		if err != nil {
			return model.Record{}, false, err
		}
	}
	idx := w.index[name]
	w.records[idx].Construct = model.ConstructClass
	return w.records[idx], true, nil
}

// describe derives the type and shape of a property schema, declaring nested
// records as needed. Inline properties take precedence over $ref.
func (w *Walker) describe(ctx context.Context, node jsonvalue.Value, hint, location string) (model.TypeDescriptor, model.Shape, error) {
	return w.describeNode(ctx, node, hint, location, false)
}

// describeNode is describe for a node that may be the target of a $ref.
// Referenced object schemas always declare a record, even without
// properties; inline ones without properties stay generic dictionaries.
func (w *Walker) describeNode(ctx context.Context, node jsonvalue.Value, hint, location string, referenced bool) (model.TypeDescriptor, model.Shape, error) {
	if ref := node.Lookup("$ref").Text(); ref != "" && !node.Lookup("properties").IsObject() {
		target, ok, err := w.follow(ctx, ref, location)
		if err != nil {
			return model.TypeDescriptor{}, "", err
		}
		if ok {
			if name, declared := w.declared[target.Location]; declared {
				return model.ModelRef(name), model.ShapeSingleObject, nil
			}
			if err := w.session.Enter(target.Location); err != nil {
				return model.TypeDescriptor{}, "", err
			}
			defer w.session.Leave(target.Location)
			return w.describeNode(ctx, target.Value, locationName(target.Location), target.Location, true)
		}
	}

	declared := declaredType(node)
	if declared == "null" {
		return model.Scalar(model.KindNull), model.ShapeNull, nil
	}
	kind := model.ClassifyDeclared(declared)
	switch kind {
	case model.KindArray:
		items := node.Lookup("items")
		if items.IsArray() {
			items = items.Index(0)
		}
		if !items.IsObject() {
			return model.ArrayOf(""), model.ShapeEmptyArray, nil
		}
		desc, _, err := w.describe(ctx, items, w.elementName(hint), childLocation(location, "items"))
		if err != nil {
			return model.TypeDescriptor{}, "", err
		}
		if desc.Model != "" {
			return model.ModelArray(desc.Model), model.ShapeObjectArray, nil
		}
		return model.ArrayOf(desc.Kind), model.ShapeScalarArray, nil
	case model.KindObject:
		if !referenced && !node.Has("properties") && !node.Has("extends") {
			return model.Scalar(model.KindObject), model.ShapeScalar, nil
		}
		name, err := w.declare(ctx, node, hint, false, location)
		if err != nil {
			return model.TypeDescriptor{}, "", err
		}
		return model.ModelRef(name), model.ShapeSingleObject, nil
	case model.KindDouble:
		if strings.EqualFold(node.Lookup("format").Text(), "float") {
			return model.Scalar(model.KindFloat), model.ShapeScalar, nil
		}
		return model.Scalar(kind), model.ShapeScalar, nil
	default:
		return model.Scalar(kind), model.ShapeScalar, nil
	}
}

// follow resolves ref against location. Missing targets report ok=false;
// only non-lookup failures are returned as errors.
func (w *Walker) follow(ctx context.Context, ref, location string) (resolver.Resolved, bool, error) {
	if w.session == nil {
		w.logger.Debug("reference skipped without resolver", zap.String("ref", ref))
		return resolver.Resolved{}, false, nil
	}
	target, err := w.session.Resolve(ctx, ref, location)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			w.logger.Debug("unresolved reference branch skipped",
				zap.String("ref", ref),
				zap.String("location", location),
			)
			return resolver.Resolved{}, false, nil
		}
		return resolver.Resolved{}, false, err
	}
	return target, true, nil
}

// recordName picks the name candidate of a schema node: the last segment of
// javaType, then title, then the supplied default.
func recordName(node jsonvalue.Value, defaultName string) string {
	if javaType := strings.TrimSpace(node.Lookup("javaType").Text()); javaType != "" {
		segments := strings.Split(javaType, ".")
		if last := segments[len(segments)-1]; last != "" {
			return last
		}
	}
	if title := strings.TrimSpace(node.Lookup("title").Text()); title != "" {
		return title
	}
	return defaultName
}

// declaredType returns the "type" keyword. Type arrays use their first
// non-null entry; a node without type is an array when it has items and an
// object otherwise.
func declaredType(node jsonvalue.Value) string {
	typ := node.Lookup("type")
	switch typ.Kind() {
	case jsonvalue.KindString:
		return strings.ToLower(strings.TrimSpace(typ.Text()))
	case jsonvalue.KindArray:
		nullable := false
		for _, entry := range typ.Items() {
			name := strings.ToLower(strings.TrimSpace(entry.Text()))
			if name == "null" {
				nullable = true
				continue
			}
			if name != "" {
				return name
			}
		}
		if nullable {
			return "null"
		}
	}
	if node.Has("items") {
		return "array"
	}
	return "object"
}

func extendsRef(node jsonvalue.Value) (string, bool) {
	extends := node.Lookup("extends")
	switch extends.Kind() {
	case jsonvalue.KindString:
		ref := strings.TrimSpace(extends.Text())
		return ref, ref != ""
	case jsonvalue.KindObject:
		ref := strings.TrimSpace(extends.Lookup("$ref").Text())
		return ref, ref != ""
	default:
		return "", false
	}
}

func isRequired(node jsonvalue.Value) bool {
	required, _ := node.Lookup("required").AsBool()
	return required
}

func requiredKeys(node jsonvalue.Value) map[string]bool {
	list := node.Lookup("required")
	if !list.IsArray() {
		return nil
	}
	keys := make(map[string]bool, list.Len())
	for _, entry := range list.Items() {
		if key, ok := entry.AsString(); ok {
			keys[key] = true
		}
	}
	return keys
}
