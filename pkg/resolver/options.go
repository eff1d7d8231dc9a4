package resolver

import "go.uber.org/zap"

const (
	// DefaultClasspathPrefix is the alias scheme rebased onto ClasspathBase.
	DefaultClasspathPrefix = "classpath:"
	// DefaultMaxDepth caps the active reference chain.
	DefaultMaxDepth = 64

	defaultMaxDocuments     = 128
	defaultMaxDocumentBytes = 5 << 20
)

// Options configures reference resolution.
type Options struct {
	// ClasspathPrefix is the aliased scheme prefix.
	ClasspathPrefix string
	// ClasspathBase is the physical base path substituted for the prefix.
	ClasspathBase string
	// MaxDepth caps the number of locations active at once.
	MaxDepth int
	// MaxDocuments caps the number of distinct documents loaded per session.
	MaxDocuments int
	// MaxDocumentBytes caps the size of any single referenced document.
	MaxDocumentBytes int
	// Logger receives unresolved reference warnings.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.ClasspathPrefix == "" {
		o.ClasspathPrefix = DefaultClasspathPrefix
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxDocuments <= 0 {
		o.MaxDocuments = defaultMaxDocuments
	}
	if o.MaxDocumentBytes <= 0 {
		o.MaxDocumentBytes = defaultMaxDocumentBytes
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
