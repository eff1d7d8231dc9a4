package modelgen

import (
	"io/fs"

	"github.com/goliatone/go-modelgen/pkg/emit"
)

// EmbeddedTemplates exposes the built-in Swift templates so callers can copy
// and adapt them for orchestrator.WithTemplates.
func EmbeddedTemplates() fs.FS {
	return emit.TemplatesFS()
}
