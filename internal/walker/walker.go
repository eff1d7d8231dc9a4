// Package walker turns sample JSON values and JSON-Schema documents into
// model records. A Walker serves one generation run: it owns the model name
// scope and, in schema mode, the resolver session.
package walker

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/naming"
	"github.com/goliatone/go-modelgen/pkg/resolver"
)

// Options configures record naming and property flags.
type Options struct {
	// Prefix is prepended to every generated type name.
	Prefix string
	// Construct is the construct kind assigned to records.
	Construct model.ConstructKind
	// AllRequired marks every schema property as required regardless of
	// "required" markers.
	AllRequired bool
	// SingularizeArrays names array element records after the singular form
	// of the member key.
	SingularizeArrays bool
	// Logger receives skipped-branch diagnostics at debug level.
	Logger *zap.Logger
}

// Walker walks values or schemas into records. Names claimed by one call stay
// claimed for later calls, so a Walker must not be reused across runs: build
// a new one per run.
type Walker struct {
	opts    Options
	logger  *zap.Logger
	names   *naming.Scope
	session *resolver.Session

	records  []model.Record
	index    map[string]int
	declared map[string]string
}

// New constructs a walker. session may be nil for instance inference; schema
// declaration without a session treats every reference as unresolvable.
func New(opts Options, session *resolver.Session) *Walker {
	if opts.Construct == "" {
		opts.Construct = model.ConstructStruct
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		opts:     opts,
		logger:   logger,
		names:    naming.NewScope(),
		session:  session,
		index:    make(map[string]int),
		declared: make(map[string]string),
	}
}

// Records returns every record declared so far, dependencies first.
func (w *Walker) Records() []model.Record {
	return append([]model.Record(nil), w.records...)
}

// Record returns the current state of a declared record. Records returned by
// an earlier Declare call can be stale: a later call that extends one of them
// turns it into a class.
func (w *Walker) Record(name string) (model.Record, bool) {
	idx, ok := w.index[name]
	if !ok {
		return model.Record{}, false
	}
	return w.records[idx], true
}

func (w *Walker) className(candidate string, isRoot bool) string {
	return w.names.Claim(naming.FixClassName(candidate, w.opts.Prefix, isRoot))
}

func (w *Walker) elementName(variableName string) string {
	if w.opts.SingularizeArrays {
		return naming.Singularize(variableName)
	}
	return variableName
}

// childLocation appends escaped JSON pointer segments to the fragment of
// location.
func childLocation(location string, segments ...string) string {
	document, fragment := resolver.SplitLocation(location)
	var b strings.Builder
	b.WriteString(fragment)
	for _, segment := range segments {
		b.WriteByte('/')
		segment = strings.ReplaceAll(segment, "~", "~0")
		b.WriteString(strings.ReplaceAll(segment, "/", "~1"))
	}
	return resolver.JoinLocation(document, b.String())
}

// locationName derives a default record name from a resolved location: the
// last pointer segment when there is a fragment, otherwise the file stem.
func locationName(location string) string {
	document, fragment := resolver.SplitLocation(location)
	if fragment != "" {
		segments := strings.Split(strings.Trim(fragment, "/"), "/")
		last := segments[len(segments)-1]
		last = strings.ReplaceAll(last, "~1", "/")
		last = strings.ReplaceAll(last, "~0", "~")
		if last != "" {
			return last
		}
	}
	base := path.Base(strings.ReplaceAll(document, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" || stem == "." || stem == "/" {
		return "Model"
	}
	return stem
}
