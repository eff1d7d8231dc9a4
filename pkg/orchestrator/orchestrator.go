package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-modelgen/internal/loader"
	"github.com/goliatone/go-modelgen/internal/walker"
	"github.com/goliatone/go-modelgen/pkg/config"
	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/emitters"
	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/notify"
	"github.com/goliatone/go-modelgen/pkg/openapi"
	"github.com/goliatone/go-modelgen/pkg/resolver"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects the document loader used for the root document and every
// referenced document. Without it a loader is built per run from the
// resolver settings of the request configuration.
func WithLoader(l schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithParser injects the OpenAPI parser used by the openapi mode.
func WithParser(parser *openapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithResolverOptions overrides the resolver options derived from the
// request configuration.
func WithResolverOptions(opts resolver.Options) Option {
	return func(o *Orchestrator) {
		o.resolverOptions = &opts
	}
}

// WithRegistry injects the emitter strategy registry.
func WithRegistry(registry *emit.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithModeRegistry injects the source mode registry.
func WithModeRegistry(modes *ModeRegistry) Option {
	return func(o *Orchestrator) {
		o.modes = modes
	}
}

// WithLogger sets the logger shared by the walker, the resolver and the
// orchestrator.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithNotifier registers the sink that receives a summary after every run.
// The default logs the summary at info level.
func WithNotifier(sink notify.Sink) Option {
	return func(o *Orchestrator) {
		o.notifier = sink
	}
}

// WithTemplates replaces the embedded Swift templates.
func WithTemplates(files fs.FS) Option {
	return func(o *Orchestrator) {
		o.templates = files
	}
}

// WithClock overrides the time source used for file headers.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// Orchestrator coordinates the pipeline from a source document to generated
// Swift files. Missing collaborators are filled with the built-in
// implementations so a zero-option New is ready to use.
type Orchestrator struct {
	loader          schema.Loader
	parser          *openapi.Parser
	resolverOptions *resolver.Options
	registry        *emit.Registry
	modes           *ModeRegistry
	notifier        notify.Sink
	logger          *zap.Logger
	templates       fs.FS
	now             func() time.Time
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one generation run.
type Request struct {
	// Source identifies the root document. Optional when Document is set.
	Source schema.Source

	// Document bypasses the loader for the root document.
	Document *schema.Document

	// Config carries the run settings. Nil means config.Defaults().
	Config *config.Config
}

// Output is the outcome of Generate.
type Output struct {
	Result   model.Result
	Files    []emit.File
	Mode     string
	Strategy string
}

// Models walks the request document and returns its records without
// rendering them.
func (o *Orchestrator) Models(ctx context.Context, req Request) (model.Result, error) {
	cfg, err := o.configFor(ctx, req)
	if err != nil {
		return model.Result{}, err
	}
	result, _, err := o.walk(ctx, req, cfg)
	o.report(ctx, cfg, result)
	return result, err
}

// Generate walks the request document and renders every record with the
// configured strategy. Empty results produce no files and no error.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Output, error) {
	cfg, err := o.configFor(ctx, req)
	if err != nil {
		return Output{}, err
	}
	strategy, err := o.strategyFor(cfg.TargetStrategy)
	if err != nil {
		return Output{}, err
	}

	result, mode, err := o.walk(ctx, req, cfg)
	out := Output{Result: result, Mode: mode, Strategy: strategy.Name()}
	if err != nil {
		o.report(ctx, cfg, result)
		return out, err
	}

	if !result.Empty() {
		renderer, rerr := emit.NewRenderer(strategy, o.rendererOptions(cfg)...)
		if rerr != nil {
			return out, fmt.Errorf("orchestrator: %w", rerr)
		}
		files, rerr := renderer.RenderAll(result)
		if rerr != nil {
			return out, fmt.Errorf("orchestrator: render output: %w", rerr)
		}
		out.Files = files
	}

	o.report(ctx, cfg, result)
	return out, nil
}

// Components lists the component schemas of an OpenAPI request document.
func (o *Orchestrator) Components(ctx context.Context, req Request) ([]openapi.Component, error) {
	cfg, err := o.configFor(ctx, req)
	if err != nil {
		return nil, err
	}
	docLoader := o.loaderFor(cfg)
	doc, err := o.resolveDocument(ctx, docLoader, req)
	if err != nil {
		return nil, err
	}
	spec, err := o.parserFor(docLoader).Load(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse openapi: %w", err)
	}
	return spec.Components(), nil
}

// Strategies returns the registered strategy names.
func (o *Orchestrator) Strategies() []string {
	return o.registry.List()
}

func (o *Orchestrator) walk(ctx context.Context, req Request, cfg config.Config) (model.Result, string, error) {
	docLoader := o.loaderFor(cfg)
	doc, err := o.resolveDocument(ctx, docLoader, req)
	if err != nil {
		return model.Result{}, "", err
	}
	value, err := doc.Value()
	if err != nil {
		return model.Result{}, "", fmt.Errorf("orchestrator: decode document: %w", err)
	}

	adapter, err := o.resolveMode(cfg.SourceMode, value)
	if err != nil {
		return model.Result{}, "", err
	}

	session := resolver.NewSession(docLoader, o.resolverOptionsFor(cfg))
	session.Seed(doc.Location(), sourceKind(doc), value)

	run := Run{
		Config:   cfg,
		Document: doc,
		Value:    value,
		Location: doc.Location(),
		Walker: walker.New(walker.Options{
			Prefix:            cfg.NamePrefix,
			Construct:         cfg.Construct(),
			AllRequired:       !cfg.RequireExplicitOptionalMarkers,
			SingularizeArrays: cfg.SingularizeArrays,
			Logger:            o.logger,
		}, session),
		Parser: o.parserFor(docLoader),
		Logger: o.logger,
	}

	result, err := adapter.Models(ctx, run)
	if err != nil {
		if errors.Is(err, resolver.ErrCyclicReference) {
			return model.Result{Reason: err.Error()}, adapter.Name(), fmt.Errorf("orchestrator: %s mode: %w", adapter.Name(), err)
		}
		return model.Result{}, adapter.Name(), fmt.Errorf("orchestrator: %s mode: %w", adapter.Name(), err)
	}
	if err := result.Validate(); err != nil {
		return model.Result{}, adapter.Name(), fmt.Errorf("orchestrator: %w", err)
	}

	o.logger.Debug("records built",
		zap.String("mode", adapter.Name()),
		zap.String("location", doc.Location()),
		zap.Int("documents", session.Loaded()),
		zap.Strings("records", result.Names()),
	)
	return result, adapter.Name(), nil
}

func (o *Orchestrator) report(ctx context.Context, cfg config.Config, result model.Result) {
	summary := notify.Summary{
		Count:    len(result.Records),
		Reason:   result.Reason,
		Strategy: cfg.TargetStrategy,
	}
	if root, ok := result.Root(); ok {
		summary.First = root.Name
	}
	o.notifier.Notify(ctx, summary)
}

func (o *Orchestrator) configFor(ctx context.Context, req Request) (config.Config, error) {
	if ctx == nil {
		return config.Config{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return config.Config{}, err
	}
	cfg := config.Defaults()
	if req.Config != nil {
		cfg = *req.Config
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (o *Orchestrator) strategyFor(name string) (emit.Strategy, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: strategy registry is nil")
	}
	strategy, err := o.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return strategy, nil
}

func (o *Orchestrator) rendererOptions(cfg config.Config) []emit.Option {
	options := []emit.Option{
		emit.WithAuthor(cfg.AuthorName),
		emit.WithCompany(cfg.CompanyName),
		emit.WithNSCoding(cfg.SupportNSCoding),
		emit.WithFinal(cfg.IsFinalRequired),
	}
	if o.templates != nil {
		options = append(options, emit.WithTemplatesFS(o.templates))
	}
	if o.now != nil {
		options = append(options, emit.WithClock(o.now))
	}
	return options
}

func (o *Orchestrator) loaderFor(cfg config.Config) schema.Loader {
	if o.loader != nil {
		return o.loader
	}
	return loader.New(schema.NewLoaderOptions(cfg.LoaderOptions()...))
}

func (o *Orchestrator) parserFor(docLoader schema.Loader) *openapi.Parser {
	if o.parser != nil {
		return o.parser
	}
	return openapi.New(openapi.WithLoader(docLoader))
}

func (o *Orchestrator) resolverOptionsFor(cfg config.Config) resolver.Options {
	opts := cfg.ResolverOptions()
	if o.resolverOptions != nil {
		opts = *o.resolverOptions
	}
	if opts.Logger == nil {
		opts.Logger = o.logger
	}
	return opts
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = emitters.Registry()
	}
	if o.modes == nil {
		o.modes = DefaultModes()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.notifier == nil {
		o.notifier = notify.NewLogger(o.logger)
	}
}
