package orchestrator

import (
	"context"
	"fmt"

	"github.com/goliatone/go-modelgen/pkg/config"
	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/notify"
	"github.com/goliatone/go-modelgen/pkg/openapi"
)

// Reasons reported for runs that produce no records.
const (
	ReasonNotModelable    = "root value is neither an object nor an array of objects."
	ReasonSchemaNotObject = "schema root is not an object."
	ReasonNoComponents    = "document declares no component schemas."
)

// InstanceMode infers records from a sample JSON value.
type InstanceMode struct{}

func (InstanceMode) Name() string { return config.ModeInstance }

// Detect claims objects and arrays that look like neither a schema nor an
// OpenAPI document.
func (InstanceMode) Detect(value jsonvalue.Value) bool {
	if !value.IsObject() && !value.IsArray() {
		return false
	}
	return !openapi.Detect(value) && !looksLikeSchema(value)
}

func (InstanceMode) Models(_ context.Context, run Run) (model.Result, error) {
	records := run.Walker.Infer(run.Value, run.Config.RootName, true)
	if len(records) == 0 {
		reason := ReasonNotModelable
		if run.Value.IsArray() {
			reason = notify.DefaultReason
		}
		return model.Result{Reason: reason}, nil
	}
	return model.Result{Records: records}, nil
}

// SchemaMode declares records from a JSON-Schema document.
type SchemaMode struct{}

func (SchemaMode) Name() string { return config.ModeSchema }

func (SchemaMode) Detect(value jsonvalue.Value) bool {
	return looksLikeSchema(value) && !openapi.Detect(value)
}

func (SchemaMode) Models(ctx context.Context, run Run) (model.Result, error) {
	records, err := run.Walker.Declare(ctx, run.Value, run.Config.RootName, true, run.Location)
	if err != nil {
		return model.Result{}, err
	}
	if len(records) == 0 {
		return model.Result{Reason: ReasonSchemaNotObject}, nil
	}
	return model.Result{Records: records}, nil
}

// OpenAPIMode declares records from the component schemas of an OpenAPI or
// Swagger document. Without a configured component every component is
// declared and the first one is the root.
type OpenAPIMode struct{}

func (OpenAPIMode) Name() string { return config.ModeOpenAPI }

func (OpenAPIMode) Detect(value jsonvalue.Value) bool {
	return openapi.Detect(value)
}

func (OpenAPIMode) Models(ctx context.Context, run Run) (model.Result, error) {
	if run.Parser == nil {
		return model.Result{}, fmt.Errorf("orchestrator: openapi parser is nil")
	}
	spec, err := run.Parser.Load(ctx, run.Document)
	if err != nil {
		return model.Result{}, err
	}

	names := []string{run.Config.Component}
	if run.Config.Component == "" {
		names = names[:0]
		for _, component := range spec.Components() {
			names = append(names, component.Name)
		}
	}

	var records []model.Record
	for _, name := range names {
		node, location, err := spec.ComponentSchema(name)
		if err != nil {
			return model.Result{}, err
		}
		declared, err := run.Walker.Declare(ctx, node, name, true, location)
		if err != nil {
			return model.Result{}, err
		}
		records = append(records, declared...)
	}
	if len(records) == 0 {
		return model.Result{Reason: ReasonNoComponents}, nil
	}
	for idx, record := range records {
		if current, ok := run.Walker.Record(record.Name); ok {
			records[idx] = current
		}
	}
	return model.Result{Records: records}, nil
}

func looksLikeSchema(value jsonvalue.Value) bool {
	if !value.IsObject() {
		return false
	}
	if value.Has("$schema") || value.Has("extends") {
		return true
	}
	props, ok := value.Get("properties")
	return ok && props.IsObject()
}
