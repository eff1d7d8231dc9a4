// Package modelgen generates Swift model types from JSON samples, JSON-Schema
// documents and OpenAPI component schemas.
package modelgen

import (
	"context"

	"github.com/goliatone/go-modelgen/pkg/config"
	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/orchestrator"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

// Config aliases the generation settings.
type Config = config.Config

// File is one generated Swift source file.
type File = emit.File

// Result is the ordered set of records produced by a run.
type Result = model.Result

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return config.Defaults()
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads source and renders every model it describes. A nil cfg uses
// DefaultConfig.
func Generate(ctx context.Context, source schema.Source, cfg *Config, options ...orchestrator.Option) ([]File, error) {
	out, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source: source,
		Config: cfg,
	})
	if err != nil {
		return nil, err
	}
	return out.Files, nil
}

// GenerateFromDocument renders a pre-loaded document, bypassing the loader
// for the root document. References are still loaded on demand.
func GenerateFromDocument(ctx context.Context, doc schema.Document, cfg *Config, options ...orchestrator.Option) ([]File, error) {
	out, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document: &doc,
		Config:   cfg,
	})
	if err != nil {
		return nil, err
	}
	return out.Files, nil
}

// Models walks source and returns its records without rendering.
func Models(ctx context.Context, source schema.Source, cfg *Config, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Models(ctx, orchestrator.Request{
		Source: source,
		Config: cfg,
	})
}
