package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

type memoryLoader struct {
	docs  map[string]string
	calls map[string]int
	kinds map[string]schema.SourceKind
}

func newMemoryLoader(docs map[string]string) *memoryLoader {
	return &memoryLoader{docs: docs, calls: map[string]int{}, kinds: map[string]schema.SourceKind{}}
}

func (m *memoryLoader) Load(_ context.Context, src schema.Source) (schema.Document, error) {
	m.calls[src.Location()]++
	m.kinds[src.Location()] = src.Kind()
	raw, ok := m.docs[src.Location()]
	if !ok {
		return schema.Document{}, fmt.Errorf("missing document %q", src.Location())
	}
	return schema.NewDocument(src, []byte(raw))
}

func TestResolveLocation(t *testing.T) {
	opts := Options{ClasspathBase: "/opt/schemas"}
	cases := []struct {
		ref        string
		relativeTo string
		want       string
	}{
		{"../x/y.json", "/base/dir/cur.json", "/base/x/y.json"},
		{"sibling.json", "/base/dir/cur.json", "/base/dir/sibling.json"},
		{"./nested/./a.json", "/base/dir/cur.json", "/base/dir/nested/a.json"},
		{"../../top.json", "/base/dir/cur.json", "/top.json"},
		{"../../../far.json", "base/dir/cur.json", "far.json"},
		{"other.json", "cur.json", "other.json"},
		{"/abs/pet.json", "/base/dir/cur.json", "/abs/pet.json"},
		{"classpath:/schemas/a.json", "/base/dir/cur.json", "/opt/schemas/schemas/a.json"},
		{"classpath:a.json", "/base/cur.json", "/opt/schemas/a.json"},
		{"https://example.com/pet.json", "/base/cur.json", "https://example.com/pet.json"},
		{"tag.json", "https://example.com/v1/pet.json", "https://example.com/v1/tag.json"},
		{"#/definitions/tag", "/base/cur.json#/properties/x", "/base/cur.json#/definitions/tag"},
		{"../defs.json#/definitions/id", "/base/dir/cur.json", "/base/defs.json#/definitions/id"},
	}
	for _, tc := range cases {
		if got := ResolveLocation(tc.ref, tc.relativeTo, opts); got != tc.want {
			t.Errorf("ResolveLocation(%q, %q) = %q, want %q", tc.ref, tc.relativeTo, got, tc.want)
		}
	}
}

func TestResolveLocation_CustomPrefix(t *testing.T) {
	opts := Options{ClasspathPrefix: "models:", ClasspathBase: "/srv/models/"}
	got := ResolveLocation("models:pet.json", "/x/y.json", opts)
	if got != "/srv/models/pet.json" {
		t.Fatalf("unexpected location %q", got)
	}
	if got := ResolveLocation("classpath:pet.json", "/x/y.json", opts); got != "/x/classpath:pet.json" {
		t.Fatalf("default prefix should not apply when overridden, got %q", got)
	}
}

func TestSession_ResolveLoadsOnce(t *testing.T) {
	loader := newMemoryLoader(map[string]string{
		"/schemas/pet.json": `{"definitions":{"tag":{"type":"string"}},"properties":{"name":{"type":"string"}}}`,
	})
	session := NewSession(loader, Options{})
	ctx := context.Background()

	first, err := session.Resolve(ctx, "pet.json", "/schemas/root.json")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if first.Location != "/schemas/pet.json" || first.Document != "/schemas/pet.json" {
		t.Fatalf("unexpected resolved locations %+v", first)
	}
	if !first.Value.Has("properties") {
		t.Fatalf("expected document value, got %s", first.Value)
	}

	second, err := session.Resolve(ctx, "pet.json#/definitions/tag", "/schemas/root.json")
	if err != nil {
		t.Fatalf("resolve fragment: %v", err)
	}
	if got := second.Value.Lookup("type").Text(); got != "string" {
		t.Fatalf("expected pointer target, got %s", second.Value)
	}
	if second.Location != "/schemas/pet.json#/definitions/tag" {
		t.Fatalf("unexpected location %q", second.Location)
	}
	if loader.calls["/schemas/pet.json"] != 1 {
		t.Fatalf("expected a single load, got %d", loader.calls["/schemas/pet.json"])
	}
	if loader.kinds["/schemas/pet.json"] != schema.SourceKindFile {
		t.Fatalf("expected file source kind, got %s", loader.kinds["/schemas/pet.json"])
	}
}

func TestSession_SeededRootIsNotFetched(t *testing.T) {
	loader := newMemoryLoader(map[string]string{"api/tag.json": `{"type":"string"}`})
	session := NewSession(loader, Options{})
	root := jsonvalue.MustParse(`{"definitions":{"id":{"type":"integer"}}}`)
	session.Seed("api/root.json", schema.SourceKindFS, root)

	resolved, err := session.Resolve(context.Background(), "#/definitions/id", "api/root.json")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Value.Lookup("type").Text() != "integer" {
		t.Fatalf("unexpected value %s", resolved.Value)
	}
	if len(loader.calls) != 0 {
		t.Fatalf("seeded root must not be loaded, calls=%v", loader.calls)
	}

	if _, err := session.Resolve(context.Background(), "tag.json", "api/root.json"); err != nil {
		t.Fatalf("resolve sibling: %v", err)
	}
	if loader.kinds["api/tag.json"] != schema.SourceKindFS {
		t.Fatalf("expected fs kind inherited from referrer, got %s", loader.kinds["api/tag.json"])
	}
}

func TestSession_NotFound(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	loader := newMemoryLoader(map[string]string{"/a.json": `{"x":1}`})
	session := NewSession(loader, Options{Logger: zap.New(core)})
	ctx := context.Background()

	_, err := session.Resolve(ctx, "missing.json", "/root.json")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) || notFound.Location != "/missing.json" || notFound.Ref != "missing.json" {
		t.Fatalf("unexpected error detail %#v", err)
	}
	_, _ = session.Resolve(ctx, "missing.json", "/root.json")
	if loader.calls["/missing.json"] != 1 {
		t.Fatalf("failed location should be fetched once, got %d", loader.calls["/missing.json"])
	}

	if _, err := session.Resolve(ctx, "a.json#/nope", "/root.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad pointer, got %v", err)
	}

	entries := logs.FilterMessage("unresolved reference").All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 warnings, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["ref"] != "missing.json" || fields["location"] != "/root.json" {
		t.Fatalf("unexpected log fields %v", fields)
	}
}

func TestSession_DecodeYAML(t *testing.T) {
	loader := newMemoryLoader(map[string]string{"/defs/pet.yaml": "type: object\nproperties:\n  name:\n    type: string\n"})
	session := NewSession(loader, Options{})

	resolved, err := session.Resolve(context.Background(), "pet.yaml#/properties/name", "/defs/root.json")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Value.Lookup("type").Text() != "string" {
		t.Fatalf("unexpected value %s", resolved.Value)
	}
}

func TestSession_Cycle(t *testing.T) {
	session := NewSession(nil, Options{})

	if err := session.Enter("/a.json"); err != nil {
		t.Fatalf("enter a: %v", err)
	}
	if err := session.Enter("/b.json"); err != nil {
		t.Fatalf("enter b: %v", err)
	}
	err := session.Enter("/a.json")
	if !errors.Is(err, ErrCyclicReference) {
		t.Fatalf("expected ErrCyclicReference, got %v", err)
	}
	var cyclic *CyclicReferenceError
	if !errors.As(err, &cyclic) {
		t.Fatalf("expected *CyclicReferenceError, got %T", err)
	}
	if len(cyclic.Chain) != 3 || cyclic.Chain[2] != "/a.json" {
		t.Fatalf("unexpected chain %v", cyclic.Chain)
	}

	session.Leave("/b.json")
	session.Leave("/a.json")
	if session.Active("/a.json") || len(session.Chain()) != 0 {
		t.Fatalf("expected empty chain after leave")
	}
	if err := session.Enter("/a.json"); err != nil {
		t.Fatalf("re-entering after leave must succeed: %v", err)
	}
}

func TestSession_MaxDepth(t *testing.T) {
	session := NewSession(nil, Options{MaxDepth: 2})
	_ = session.Enter("/1.json")
	_ = session.Enter("/2.json")
	err := session.Enter("/3.json")
	var cyclic *CyclicReferenceError
	if !errors.As(err, &cyclic) || cyclic.MaxDepth != 2 {
		t.Fatalf("expected depth error, got %v", err)
	}
}

func TestSession_MaxDocuments(t *testing.T) {
	loader := newMemoryLoader(map[string]string{"/a.json": `{}`, "/b.json": `{}`})
	session := NewSession(loader, Options{MaxDocuments: 1})
	if _, err := session.Resolve(context.Background(), "a.json", "/root.json"); err != nil {
		t.Fatalf("resolve a: %v", err)
	}
	if _, err := session.Resolve(context.Background(), "b.json", "/root.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected limit to surface as not found, got %v", err)
	}
}
