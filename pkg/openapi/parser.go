package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

// Options configures the Parser.
type Options struct {
	// Loader fetches external documents referenced by the specification.
	// Without a loader external references are rejected by kin-openapi.
	Loader schema.Loader
	// Validate runs kin-openapi validation after loading.
	Validate bool
}

// Option mutates Options during construction.
type Option func(*Options)

// WithLoader routes external reference reads through loader.
func WithLoader(loader schema.Loader) Option {
	return func(opts *Options) {
		opts.Loader = loader
	}
}

// WithValidation toggles document validation.
func WithValidation(enabled bool) Option {
	return func(opts *Options) {
		opts.Validate = enabled
	}
}

// Parser loads OpenAPI documents.
type Parser struct {
	options Options
}

// New constructs a Parser.
func New(options ...Option) *Parser {
	cfg := Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Parser{options: cfg}
}

// Detect reports whether value looks like an OpenAPI or Swagger document.
func Detect(value jsonvalue.Value) bool {
	return value.Has("openapi") || value.Has("swagger")
}

// Load parses doc. OpenAPI 3 documents go through kin-openapi; Swagger 2
// documents are read from their definitions section only.
func (p *Parser) Load(ctx context.Context, doc schema.Document) (*Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, err := doc.Value()
	if err != nil {
		return nil, fmt.Errorf("openapi parser: %w", err)
	}
	if !Detect(value) {
		return nil, errors.New("openapi parser: document has neither openapi nor swagger version")
	}

	spec := &Spec{Location: doc.Location(), Value: value}
	if version := value.Lookup("swagger"); !version.IsNull() {
		spec.Version = versionText(version)
		return spec, nil
	}
	spec.Version = versionText(value.Lookup("openapi"))

	loader := p.kinLoader(ctx, doc.Source())
	var loaded *openapi3.T
	if location, ok := documentURL(doc.Location()); ok && p.options.Loader != nil {
		loaded, err = loader.LoadFromDataWithPath(doc.Raw(), location)
	} else {
		loaded, err = loader.LoadFromData(doc.Raw())
	}
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.Validate {
		if err := loaded.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	spec.Document = loaded
	return spec, nil
}

// Components loads doc and lists its component schemas.
func (p *Parser) Components(ctx context.Context, doc schema.Document) ([]Component, error) {
	spec, err := p.Load(ctx, doc)
	if err != nil {
		return nil, err
	}
	return spec.Components(), nil
}

// ComponentSchema loads doc and returns the named component schema with its
// location.
func (p *Parser) ComponentSchema(ctx context.Context, doc schema.Document, name string) (jsonvalue.Value, string, error) {
	spec, err := p.Load(ctx, doc)
	if err != nil {
		return jsonvalue.Value{}, "", err
	}
	return spec.ComponentSchema(name)
}

func (p *Parser) kinLoader(ctx context.Context, src schema.Source) *openapi3.Loader {
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.Loader != nil,
	}
	if p.options.Loader == nil {
		return loader
	}
	kind := schema.SourceKindFile
	if src != nil && src.Kind() == schema.SourceKindFS {
		kind = schema.SourceKindFS
	}
	external := p.options.Loader
	loader.ReadFromURIFunc = func(l *openapi3.Loader, location *url.URL) ([]byte, error) {
		var (
			source schema.Source
			err    error
		)
		if location.Scheme == "http" || location.Scheme == "https" {
			source, err = schema.NewSource(schema.SourceKindURL, location.String())
		} else {
			source, err = schema.NewSource(kind, location.Path)
		}
		if err != nil {
			return nil, err
		}
		readCtx := l.Context
		if readCtx == nil {
			readCtx = ctx
		}
		doc, err := external.Load(readCtx, source)
		if err != nil {
			return nil, err
		}
		return doc.Raw(), nil
	}
	return loader
}

func documentURL(location string) (*url.URL, bool) {
	if strings.TrimSpace(location) == "" {
		return nil, false
	}
	if schema.IsURL(location) {
		parsed, err := url.Parse(location)
		return parsed, err == nil
	}
	return &url.URL{Path: location}, true
}

func versionText(value jsonvalue.Value) string {
	if text, ok := value.AsString(); ok {
		return text
	}
	return value.Literal()
}
