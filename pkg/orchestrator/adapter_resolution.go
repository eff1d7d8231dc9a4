package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-modelgen/pkg/config"
	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/schema"
)

// resolveMode picks the adapter for the configured mode. In auto mode the
// payload decides; payloads nobody claims fall back to instance inference.
func (o *Orchestrator) resolveMode(mode string, value jsonvalue.Value) (ModeAdapter, error) {
	if o.modes == nil {
		return nil, errors.New("orchestrator: mode registry is nil")
	}

	mode = normalizeModeName(mode)
	if mode != "" && mode != config.ModeAuto {
		return o.modes.Get(mode)
	}

	matches := o.modes.Detect(value)
	switch len(matches) {
	case 0:
		return o.modes.Get(config.ModeInstance)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("orchestrator: multiple modes matched payload (%s), specify mode", modeNames(matches))
	}
}

func (o *Orchestrator) resolveDocument(ctx context.Context, docLoader schema.Loader, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	if docLoader == nil {
		return schema.Document{}, errors.New("orchestrator: loader is nil")
	}
	doc, err := docLoader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func sourceKind(doc schema.Document) schema.SourceKind {
	if src := doc.Source(); src != nil {
		return src.Kind()
	}
	return schema.SourceKindFile
}

func modeNames(adapters []ModeAdapter) string {
	names := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		if adapter == nil {
			continue
		}
		if name := strings.TrimSpace(adapter.Name()); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
