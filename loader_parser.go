package modelgen

import (
	"github.com/goliatone/go-modelgen/internal/loader"
	"github.com/goliatone/go-modelgen/pkg/openapi"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return loader.New(schema.NewLoaderOptions(options...))
}

// NewParser constructs an OpenAPI parser that loads external references
// through l.
func NewParser(l schema.Loader, options ...openapi.Option) *openapi.Parser {
	return openapi.New(append([]openapi.Option{openapi.WithLoader(l)}, options...)...)
}
