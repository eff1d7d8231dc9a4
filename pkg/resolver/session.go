// Package resolver loads referenced documents and tracks the chain of
// locations being walked. One Session serves one generation run.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

// Resolved is the target of a reference.
type Resolved struct {
	// Location is the absolute location including any fragment.
	Location string
	// Document is the location of the containing document.
	Document string
	// Value is the referenced node.
	Value jsonvalue.Value
}

// Session resolves references for a single run. Every document location is
// fetched at most once; failures are remembered too.
type Session struct {
	loader schema.Loader
	opts   Options

	docs   map[string]jsonvalue.Value
	failed map[string]error
	kinds  map[string]schema.SourceKind

	chain   []string
	inChain map[string]struct{}
}

// NewSession constructs a session backed by loader.
func NewSession(loader schema.Loader, opts Options) *Session {
	return &Session{
		loader:  loader,
		opts:    opts.withDefaults(),
		docs:    make(map[string]jsonvalue.Value),
		failed:  make(map[string]error),
		kinds:   make(map[string]schema.SourceKind),
		chain:   make([]string, 0, 8),
		inChain: make(map[string]struct{}),
	}
}

// Options returns the effective options.
func (s *Session) Options() Options {
	return s.opts
}

// Seed registers an already decoded document, typically the root document of
// the run, so references back into it are not fetched again.
func (s *Session) Seed(location string, kind schema.SourceKind, value jsonvalue.Value) {
	document, _ := SplitLocation(location)
	s.docs[document] = value
	s.kinds[document] = kind
}

// Location resolves ref against relativeTo without loading anything.
func (s *Session) Location(ref, relativeTo string) string {
	return ResolveLocation(ref, relativeTo, s.opts)
}

// Resolve loads the document ref points at and applies its fragment.
// Failures are logged and returned as *NotFoundError.
func (s *Session) Resolve(ctx context.Context, ref, relativeTo string) (Resolved, error) {
	location := s.Location(ref, relativeTo)
	document, fragment := SplitLocation(location)
	currentDoc, _ := SplitLocation(relativeTo)

	value, err := s.document(ctx, document, s.kindFor(document, currentDoc))
	if err == nil && fragment != "" {
		value, err = value.Pointer(fragment)
	}
	if err != nil {
		notFound := &NotFoundError{Ref: ref, Location: location, Err: err}
		s.opts.Logger.Warn("unresolved reference",
			zap.String("ref", ref),
			zap.String("location", relativeTo),
			zap.Error(err),
		)
		return Resolved{}, notFound
	}
	return Resolved{Location: location, Document: document, Value: value}, nil
}

// Enter marks location as active. Re-entering an active location, or going
// deeper than MaxDepth, returns a *CyclicReferenceError.
func (s *Session) Enter(location string) error {
	if _, active := s.inChain[location]; active {
		chain := append(s.Chain(), location)
		return &CyclicReferenceError{Location: location, Chain: chain}
	}
	if len(s.chain) >= s.opts.MaxDepth {
		return &CyclicReferenceError{Location: location, Chain: s.Chain(), MaxDepth: s.opts.MaxDepth}
	}
	s.chain = append(s.chain, location)
	s.inChain[location] = struct{}{}
	return nil
}

// Leave pops location from the active chain.
func (s *Session) Leave(location string) {
	if len(s.chain) == 0 {
		return
	}
	last := s.chain[len(s.chain)-1]
	s.chain = s.chain[:len(s.chain)-1]
	delete(s.inChain, last)
	if location != last {
		delete(s.inChain, location)
	}
}

// Active reports whether location is in the active chain.
func (s *Session) Active(location string) bool {
	_, ok := s.inChain[location]
	return ok
}

// Chain returns a copy of the active locations, outermost first.
func (s *Session) Chain() []string {
	return append([]string(nil), s.chain...)
}

// Loaded returns the number of documents held by the session.
func (s *Session) Loaded() int {
	return len(s.docs)
}

func (s *Session) kindFor(document, referrer string) schema.SourceKind {
	if schema.IsURL(document) {
		return schema.SourceKindURL
	}
	if kind, ok := s.kinds[referrer]; ok && kind != schema.SourceKindURL {
		return kind
	}
	return schema.SourceKindFile
}

func (s *Session) document(ctx context.Context, location string, kind schema.SourceKind) (jsonvalue.Value, error) {
	if value, ok := s.docs[location]; ok {
		return value, nil
	}
	if err, ok := s.failed[location]; ok {
		return jsonvalue.Value{}, err
	}

	value, err := s.load(ctx, location, kind)
	if err != nil {
		if ctx.Err() == nil {
			s.failed[location] = err
		}
		return jsonvalue.Value{}, err
	}
	s.docs[location] = value
	s.kinds[location] = kind
	return value, nil
}

func (s *Session) load(ctx context.Context, location string, kind schema.SourceKind) (jsonvalue.Value, error) {
	if s.loader == nil {
		return jsonvalue.Value{}, errors.New("resolver: loader is nil")
	}
	if len(s.docs) >= s.opts.MaxDocuments {
		return jsonvalue.Value{}, fmt.Errorf("resolver: exceeded max documents (%d)", s.opts.MaxDocuments)
	}
	src, err := schema.NewSource(kind, location)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	doc, err := s.loader.Load(ctx, src)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if doc.Size() > s.opts.MaxDocumentBytes {
		return jsonvalue.Value{}, fmt.Errorf("resolver: document too large (%d bytes)", doc.Size())
	}
	return doc.Value()
}
