package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

// LoadDocument reads a fixture and builds a schema.Document using a file
// source.
func LoadDocument(t *testing.T, path string) schema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (schema.Document, error) {
	if path == "" {
		return schema.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadValue decodes a JSON or YAML fixture into an ordered value.
func MustLoadValue(t *testing.T, path string) jsonvalue.Value {
	t.Helper()

	value, err := LoadDocument(t, path).Value()
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return value
}

// MustLoadResult loads a JSON golden file into a model.Result.
func MustLoadResult(t *testing.T, path string) model.Result {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load golden: %v", err)
	}
	var out model.Result
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	return out
}

// CompareResult diffs two results, ignoring the source nodes records keep
// for diagnostics.
func CompareResult(want, got model.Result) string {
	return cmp.Diff(want, got,
		cmpopts.IgnoreFields(model.Record{}, "Source"),
		cmpopts.EquateEmpty(),
	)
}

// MemoryLoader serves documents from a map keyed by location and counts
// loads per location.
type MemoryLoader struct {
	mu    sync.Mutex
	docs  map[string]string
	calls map[string]int
}

var _ schema.Loader = (*MemoryLoader)(nil)

// NewMemoryLoader returns a loader over docs.
func NewMemoryLoader(docs map[string]string) *MemoryLoader {
	return &MemoryLoader{docs: docs, calls: make(map[string]int)}
}

// Load implements schema.Loader.
func (m *MemoryLoader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[src.Location()]++
	raw, ok := m.docs[src.Location()]
	if !ok {
		return schema.Document{}, fmt.Errorf("testsupport: missing document %q", src.Location())
	}
	return schema.NewDocument(src, []byte(raw))
}

// Calls returns how often location was loaded.
func (m *MemoryLoader) Calls(location string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[location]
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
