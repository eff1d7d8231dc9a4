package emit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-modelgen/pkg/model"
	rendertemplate "github.com/goliatone/go-modelgen/pkg/render/template"
	"github.com/goliatone/go-modelgen/pkg/render/template/gotemplate"
)

const (
	baseTemplate     = "base"
	nscodingTemplate = "nscoding"

	dateLayout    = "1/2/06"
	defaultAuthor = "modelgen"

	memberIndent = "  "
	bodyIndent   = "    "
)

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	author           string
	company          string
	nsCoding         bool
	final            bool
	now              func() time.Time
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAuthor sets the author written in the file header.
func WithAuthor(name string) Option {
	return func(cfg *config) {
		cfg.author = strings.TrimSpace(name)
	}
}

// WithCompany sets the copyright holder written in the file header.
func WithCompany(name string) Option {
	return func(cfg *config) {
		cfg.company = strings.TrimSpace(name)
	}
}

// WithNSCoding adds NSCoding conformance to class records when the strategy
// supports it.
func WithNSCoding(enabled bool) Option {
	return func(cfg *config) {
		cfg.nsCoding = enabled
	}
}

// WithFinal marks classes nobody extends as final.
func WithFinal(enabled bool) Option {
	return func(cfg *config) {
		cfg.final = enabled
	}
}

// WithClock overrides the time source used for the header date.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now != nil {
			cfg.now = now
		}
	}
}

// Renderer turns records into Swift files for one strategy.
type Renderer struct {
	strategy  Strategy
	templates rendertemplate.TemplateRenderer
	cfg       config
}

// NewRenderer constructs a renderer for the strategy. The embedded templates
// are used unless a bundle or renderer is supplied.
func NewRenderer(strategy Strategy, options ...Option) (*Renderer, error) {
	if strategy == nil {
		return nil, errors.New("emit: strategy is required")
	}

	cfg := config{
		templateFS: TemplatesFS(),
		author:     defaultAuthor,
		now:        time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.author == "" {
		cfg.author = defaultAuthor
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("emit: configure templates: %w", err)
		}
		templates = engine
	}

	return &Renderer{strategy: strategy, templates: templates, cfg: cfg}, nil
}

// Strategy returns the strategy the renderer was built for.
func (r *Renderer) Strategy() Strategy {
	return r.strategy
}

// Render renders a single record. The record is treated as a leaf, so final
// applies when enabled.
func (r *Renderer) Render(record model.Record) (File, error) {
	return r.render(record, false)
}

// RenderAll renders every record of a result in output order.
func (r *Renderer) RenderAll(result model.Result) ([]File, error) {
	parents := make(map[string]struct{})
	for _, record := range result.Records {
		if record.SuperClass != "" {
			parents[record.SuperClass] = struct{}{}
		}
	}

	files := make([]File, 0, len(result.Records))
	for _, record := range result.Records {
		_, extended := parents[record.Name]
		file, err := r.render(record, extended)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (r *Renderer) render(record model.Record, extended bool) (File, error) {
	if strings.TrimSpace(record.Name) == "" {
		return File{}, errors.New("emit: record name is required")
	}

	entries := r.fragments(record)
	isClass := record.Construct == model.ConstructClass
	data := r.context(record, entries, isClass, extended)

	if len(entries) > 0 {
		body, err := r.templates.RenderTemplate(r.strategy.TemplateName(), data)
		if err != nil {
			return File{}, fmt.Errorf("emit: render %s body for %s: %w", r.strategy.Name(), record.Name, err)
		}
		data["Body"] = strings.Trim(body, "\n")

		if r.nsCoding(record) {
			coding, err := r.templates.RenderTemplate(nscodingTemplate, data)
			if err != nil {
				return File{}, fmt.Errorf("emit: render NSCoding for %s: %w", record.Name, err)
			}
			data["NSCoding"] = strings.Trim(coding, "\n")
		}
	}

	content, err := r.templates.RenderTemplate(baseTemplate, data)
	if err != nil {
		return File{}, fmt.Errorf("emit: render %s: %w", record.Name, err)
	}
	return File{Name: record.Name + ".swift", Content: content}, nil
}

func (r *Renderer) fragments(record model.Record) []Fragments {
	entries := make([]Fragments, 0, len(record.Properties))
	for _, prop := range record.Properties {
		if fragments, ok := r.strategy.Fragments(record, prop); ok {
			entries = append(entries, fragments)
		}
	}
	sortFragments(entries)
	return entries
}

// inherited renders the init parameters of the super class constructor.
func (r *Renderer) inherited(record model.Record) []Fragments {
	entries := make([]Fragments, 0, len(record.Inherited))
	for _, param := range record.Inherited {
		prop := model.Property{
			Name:     param.Name,
			Key:      param.Name,
			Type:     param.Type,
			Shape:    ShapeOf(param.Type),
			Required: param.Required,
		}
		if fragments, ok := r.strategy.Fragments(record, prop); ok {
			entries = append(entries, fragments)
		}
	}
	sortFragments(entries)
	return entries
}

func (r *Renderer) nsCoding(record model.Record) bool {
	if !r.cfg.nsCoding || record.Construct != model.ConstructClass {
		return false
	}
	coder, ok := r.strategy.(NSCoder)
	return ok && coder.SupportsNSCoding()
}

func (r *Renderer) context(record model.Record, entries []Fragments, isClass, extended bool) map[string]any {
	var extendFrom []string
	if base := r.strategy.BaseElement(record); base != "" {
		extendFrom = append(extendFrom, base)
	}
	if r.nsCoding(record) && record.SuperClass == "" {
		extendFrom = append(extendFrom, "NSCoding")
	}

	module := r.strategy.ModuleName()
	if module == "Foundation" {
		module = ""
	}

	inherited := r.inherited(record)
	params := append(append([]Fragments{}, inherited...), entries...)
	sortFragments(params)

	superInit := ""
	if record.SuperClass != "" {
		args := make([]string, 0, len(inherited))
		for _, param := range inherited {
			args = append(args, param.Name+": "+param.Name)
		}
		superInit = "super.init(" + strings.Join(args, ", ") + ")"
	}

	data := map[string]any{
		"ObjectName":      record.Name,
		"ObjectKind":      string(record.Construct),
		"Date":            r.cfg.now().Format(dateLayout),
		"Author":          r.cfg.author,
		"Company":         r.cfg.company,
		"Module":          module,
		"TypeDoc":         DocComment(record.Description),
		"ExtendFrom":      strings.Join(extendFrom, ", "),
		"SuperClass":      record.SuperClass,
		"SuperInit":       superInit,
		"Keys":            indent(collect(entries, func(f Fragments) string { return f.Key }), bodyIndent),
		"Declarations":    indent(collect(entries, func(f Fragments) string { return f.Declaration }), memberIndent),
		"Initializers":    indent(collect(entries, func(f Fragments) string { return f.Initializer }), bodyIndent),
		"Encoders":        indent(collect(entries, func(f Fragments) string { return f.Encoder }), bodyIndent),
		"Decoders":        indent(collect(entries, func(f Fragments) string { return f.Decoder }), bodyIndent),
		"Representations": indent(collect(entries, func(f Fragments) string { return f.Representation }), bodyIndent),
		"InitParameters":  strings.Join(collect(params, func(f Fragments) string { return f.InitParameter }), ", "),
		"Final":           " ",
		"Required":        " ",
		"Override":        " ",
		"Convenience":     "",
		"Mutating":        "mutating ",
		"Body":            "",
		"NSCoding":        "",
	}
	if record.Construct == "" {
		data["ObjectKind"] = string(model.ConstructStruct)
	}
	if isClass {
		data["Required"] = " required "
		data["Convenience"] = " convenience"
		data["Mutating"] = ""
		if r.cfg.final && !extended {
			data["Final"] = " final "
		}
	}
	if record.SuperClass != "" {
		data["Override"] = " override "
	}
	return data
}

func collect(entries []Fragments, pick func(Fragments) string) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if value := pick(entry); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func sortFragments(entries []Fragments) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Optional != entries[j].Optional {
			return !entries[i].Optional
		}
		return entries[i].Name < entries[j].Name
	})
}
