package orchestrator_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-modelgen/pkg/config"
	"github.com/goliatone/go-modelgen/pkg/emit"
	"github.com/goliatone/go-modelgen/pkg/emitters/codable"
	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/notify"
	"github.com/goliatone/go-modelgen/pkg/orchestrator"
	"github.com/goliatone/go-modelgen/pkg/resolver"
	"github.com/goliatone/go-modelgen/pkg/schema"
	"github.com/goliatone/go-modelgen/pkg/testsupport"
)

const petstore = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      required: [id]
      properties:
        id:
          type: integer
        tag:
          $ref: '#/components/schemas/Tag'
    Tag:
      title: Label
      type: object
      properties:
        name:
          type: string
    Error:
      type: object
      properties:
        code:
          type: integer
`

type recorder struct {
	mu        sync.Mutex
	summaries []notify.Summary
}

func (r *recorder) Notify(_ context.Context, summary notify.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
}

func document(location, raw string) *schema.Document {
	doc := schema.MustNewDocument(schema.SourceFromFile(location), []byte(raw))
	return &doc
}

func withConfig(mutate func(*config.Config)) *config.Config {
	cfg := config.Defaults()
	if mutate != nil {
		mutate(&cfg)
	}
	return &cfg
}

func TestModels_InstanceInference(t *testing.T) {
	sink := &recorder{}
	orch := orchestrator.New(orchestrator.WithNotifier(sink))

	result, err := orch.Models(testsupport.Context(), orchestrator.Request{
		Document: document("/in/pet.json", `{"name":"Rex","age":3,"owner":{"email":"rex@example.com"}}`),
	})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if diff := cmp.Diff([]string{"BaseClass", "Owner"}, result.Names()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	want := []notify.Summary{{Count: 2, First: "BaseClass", Strategy: "swiftyjson"}}
	if diff := cmp.Diff(want, sink.summaries); diff != "" {
		t.Fatalf("summaries mismatch (-want +got):\n%s", diff)
	}
}

func TestModels_NestedArrayRootIsEmpty(t *testing.T) {
	sink := &recorder{}
	orch := orchestrator.New(orchestrator.WithNotifier(sink))

	result, err := orch.Models(testsupport.Context(), orchestrator.Request{
		Document: document("/in/matrix.json", `[[1,2],[3]]`),
	})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if !result.Empty() || result.Reason != notify.DefaultReason {
		t.Fatalf("expected empty result with default reason, got %+v", result)
	}
	if len(sink.summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(sink.summaries))
	}
	if got := sink.summaries[0].Message(); got != "No files were generated, "+notify.DefaultReason {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestModels_ScalarRoot(t *testing.T) {
	orch := orchestrator.New()
	result, err := orch.Models(testsupport.Context(), orchestrator.Request{
		Document: document("/in/scalar.json", `42`),
	})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if result.Reason != orchestrator.ReasonNotModelable {
		t.Fatalf("unexpected reason %q", result.Reason)
	}
}

func TestModels_SchemaWithReferences(t *testing.T) {
	loader := testsupport.NewMemoryLoader(map[string]string{
		"/s/pet.json": `{
			"$schema": "http://json-schema.org/draft-04/schema#",
			"type": "object",
			"properties": {
				"id": {"type": "integer", "required": true},
				"owner": {"$ref": "person.json"},
				"friends": {"type": "array", "items": {"$ref": "person.json"}}
			}
		}`,
		"/s/person.json": `{"title":"Person","type":"object","properties":{"name":{"type":"string"}}}`,
	})
	orch := orchestrator.New(orchestrator.WithLoader(loader))

	result, err := orch.Models(testsupport.Context(), orchestrator.Request{
		Source: schema.SourceFromFile("/s/pet.json"),
		Config: withConfig(func(cfg *config.Config) { cfg.RootName = "Pet" }),
	})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if diff := cmp.Diff([]string{"Pet", "Person"}, result.Names()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	pet, _ := result.Root()
	friends, ok := pet.Property("friends")
	if !ok || friends.Shape != model.ShapeObjectArray || friends.Type != model.ModelArray("Person") {
		t.Fatalf("unexpected friends property %+v", friends)
	}
	id, _ := pet.Property("id")
	if !id.Required {
		t.Fatalf("expected id to be required")
	}
	if loader.Calls("/s/person.json") != 1 {
		t.Fatalf("expected person.json loaded once, got %d", loader.Calls("/s/person.json"))
	}
}

func TestModels_AllRequiredWithoutOptionalMarkers(t *testing.T) {
	orch := orchestrator.New()
	result, err := orch.Models(testsupport.Context(), orchestrator.Request{
		Document: document("/s/flag.json", `{"properties":{"flag":{"type":"boolean"}}}`),
		Config: withConfig(func(cfg *config.Config) {
			cfg.SourceMode = config.ModeSchema
			cfg.RequireExplicitOptionalMarkers = false
		}),
	})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	root, _ := result.Root()
	if flag, _ := root.Property("flag"); !flag.Required {
		t.Fatalf("expected every property required, got %+v", flag)
	}
}

func TestModels_CyclicReference(t *testing.T) {
	sink := &recorder{}
	orch := orchestrator.New(orchestrator.WithNotifier(sink))

	result, err := orch.Models(testsupport.Context(), orchestrator.Request{
		Document: document("/c/node.json", `{"properties":{"next":{"$ref":"#"}}}`),
	})
	if !errors.Is(err, resolver.ErrCyclicReference) {
		t.Fatalf("expected ErrCyclicReference, got %v", err)
	}
	if !result.Empty() || result.Reason == "" {
		t.Fatalf("expected empty result with reason, got %+v", result)
	}
	if len(sink.summaries) != 1 || sink.summaries[0].Count != 0 {
		t.Fatalf("expected one empty summary, got %+v", sink.summaries)
	}
}

func TestModels_OpenAPIComponents(t *testing.T) {
	doc := schema.MustNewDocument(schema.SourceFromFS("api/petstore.yaml"), []byte(petstore))
	orch := orchestrator.New()

	result, err := orch.Models(testsupport.Context(), orchestrator.Request{Document: &doc})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if diff := cmp.Diff([]string{"Pet", "Label", "Error"}, result.Names()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	single, err := orch.Models(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		Config:   withConfig(func(cfg *config.Config) { cfg.Component = "Error" }),
	})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if diff := cmp.Diff([]string{"Error"}, single.Names()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	components, err := orch.Components(testsupport.Context(), orchestrator.Request{Document: &doc})
	if err != nil {
		t.Fatalf("components: %v", err)
	}
	if len(components) != 3 || components[1].Title != "Label" {
		t.Fatalf("unexpected components %+v", components)
	}
}

func TestModels_OpenAPIExtendedComponentBecomesClass(t *testing.T) {
	raw := `swagger: "2.0"
info:
  title: Zoo
  version: 1.0.0
definitions:
  Animal:
    type: object
    properties:
      id:
        type: integer
  Dog:
    type: object
    extends:
      $ref: '#/definitions/Animal'
    properties:
      breed:
        type: string
`
	doc := schema.MustNewDocument(schema.SourceFromFS("api/zoo.yaml"), []byte(raw))

	result, err := orchestrator.New().Models(testsupport.Context(), orchestrator.Request{Document: &doc})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if diff := cmp.Diff([]string{"Animal", "Dog"}, result.Names()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	animal, _ := result.Lookup("Animal")
	if animal.Construct != model.ConstructClass {
		t.Fatalf("extended component must be a class, got %s", animal.Construct)
	}
	dog, _ := result.Lookup("Dog")
	if dog.SuperClass != "Animal" || dog.Construct != model.ConstructClass {
		t.Fatalf("unexpected Dog header %+v", dog)
	}
}

func TestModels_RequiresSource(t *testing.T) {
	_, err := orchestrator.New().Models(testsupport.Context(), orchestrator.Request{})
	if err == nil || !strings.Contains(err.Error(), "source or document is required") {
		t.Fatalf("expected missing source error, got %v", err)
	}
}

func TestModels_InvalidConfig(t *testing.T) {
	_, err := orchestrator.New().Models(testsupport.Context(), orchestrator.Request{
		Document: document("/in/pet.json", `{"a":1}`),
		Config:   withConfig(func(cfg *config.Config) { cfg.TargetStrategy = "protobuf" }),
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestModels_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(testsupport.Context())
	cancel()
	_, err := orchestrator.New().Models(ctx, orchestrator.Request{
		Document: document("/in/pet.json", `{"a":1}`),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerate_RendersFiles(t *testing.T) {
	sink := &recorder{}
	clock := func() time.Time { return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC) }
	orch := orchestrator.New(
		orchestrator.WithNotifier(sink),
		orchestrator.WithClock(clock),
	)

	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Document: document("/in/pet.json", `{"name":"Rex","owner":{"email":"rex@example.com"}}`),
		Config: withConfig(func(cfg *config.Config) {
			cfg.TargetStrategy = codable.Name
			cfg.AuthorName = "Jane"
		}),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Mode != config.ModeInstance || out.Strategy != codable.Name {
		t.Fatalf("unexpected mode/strategy %q/%q", out.Mode, out.Strategy)
	}

	names := make([]string, 0, len(out.Files))
	for _, file := range out.Files {
		names = append(names, file.Name)
	}
	if diff := cmp.Diff([]string{"BaseClass.swift", "Owner.swift"}, names); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	content := out.Files[0].Content
	for _, want := range []string{
		"Created by Jane on 10/19/26",
		"public struct BaseClass: Codable {",
		"public var owner: Owner?",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in:\n%s", want, content)
		}
	}

	if len(sink.summaries) != 1 {
		t.Fatalf("expected one summary per run, got %d", len(sink.summaries))
	}
	if got := sink.summaries[0].Message(); got != "Completed - BaseClass.swift" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestGenerate_DefaultNotifierLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	orch := orchestrator.New(orchestrator.WithLogger(zap.New(core)))

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Document: document("/in/pet.json", `{"name":"Rex"}`),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	entries := logs.FilterMessage("Completed - BaseClass.swift").All()
	if len(entries) != 1 {
		t.Fatalf("expected one run summary log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["strategy"]; got != "swiftyjson" {
		t.Fatalf("unexpected strategy field %v", got)
	}
}

func TestGenerate_UnknownStrategy(t *testing.T) {
	sink := &recorder{}
	orch := orchestrator.New(
		orchestrator.WithRegistry(emit.NewRegistry()),
		orchestrator.WithNotifier(sink),
	)

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Document: document("/in/pet.json", `{"a":1}`),
	})
	if err == nil || !strings.Contains(err.Error(), `strategy "swiftyjson" not found`) {
		t.Fatalf("expected missing strategy error, got %v", err)
	}
	if len(sink.summaries) != 0 {
		t.Fatalf("expected no run before strategy lookup, got %+v", sink.summaries)
	}
}

func TestNew_DefaultStrategies(t *testing.T) {
	want := []string{"codable", "marshal", "objectmapper", "swiftyjson"}
	if diff := cmp.Diff(want, orchestrator.New(orchestrator.WithRegistry(nil)).Strategies()); diff != "" {
		t.Fatalf("strategies mismatch (-want +got):\n%s", diff)
	}
}

type claimAll struct{ name string }

func (c claimAll) Name() string                { return c.name }
func (c claimAll) Detect(jsonvalue.Value) bool { return true }
func (c claimAll) Models(context.Context, orchestrator.Run) (model.Result, error) {
	return model.Result{Records: []model.Record{{Name: "Claimed"}}}, nil
}

func TestModels_AmbiguousDetection(t *testing.T) {
	modes := orchestrator.NewModeRegistry()
	modes.MustRegister(claimAll{name: "first"})
	modes.MustRegister(claimAll{name: "second"})
	orch := orchestrator.New(orchestrator.WithModeRegistry(modes))

	_, err := orch.Models(testsupport.Context(), orchestrator.Request{
		Document: document("/in/pet.json", `{"a":1}`),
	})
	if err == nil || !strings.Contains(err.Error(), "first, second") {
		t.Fatalf("expected ambiguity error, got %v", err)
	}

	cfg := config.Defaults()
	cfg.SourceMode = config.ModeInstance
	_, err = orch.Models(testsupport.Context(), orchestrator.Request{
		Document: document("/in/pet.json", `{"a":1}`),
		Config:   &cfg,
	})
	if err == nil || !strings.Contains(err.Error(), `mode "instance" not found`) {
		t.Fatalf("expected missing mode error, got %v", err)
	}
}

func TestModels_SchemaGolden(t *testing.T) {
	golden := filepath.Join("testdata", "pet_records.golden.json")
	orch := orchestrator.New()

	result, err := orch.Models(testsupport.Context(), orchestrator.Request{
		Source: schema.SourceFromFile(filepath.Join("testdata", "schema", "pet.json")),
		Config: withConfig(func(cfg *config.Config) { cfg.ClasspathBase = "testdata/schema" }),
	})
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	testsupport.WriteGolden(t, golden, result)

	want := testsupport.MustLoadResult(t, golden)
	if diff := testsupport.CompareResult(want, result); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}
