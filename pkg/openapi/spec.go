package openapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
)

// ErrComponentNotFound is returned when a component name is not declared.
var ErrComponentNotFound = errors.New("openapi: component not found")

// Component describes one component schema.
type Component struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location"`
}

// Spec is a loaded specification.
type Spec struct {
	Location string
	Version  string
	Value    jsonvalue.Value
	// Document is nil for Swagger 2 documents.
	Document *openapi3.T
}

// Swagger reports whether the document is a Swagger 2 document.
func (s *Spec) Swagger() bool {
	return s.Value.Has("swagger")
}

func (s *Spec) schemasPointer() []string {
	if s.Swagger() {
		return []string{"definitions"}
	}
	return []string{"components", "schemas"}
}

func (s *Spec) schemas() jsonvalue.Value {
	node := s.Value
	for _, segment := range s.schemasPointer() {
		node = node.Lookup(segment)
	}
	return node
}

// Components lists component schemas in document order.
func (s *Spec) Components() []Component {
	members := s.schemas().Members()
	out := make([]Component, 0, len(members))
	for _, member := range members {
		component := Component{
			Name:        member.Key,
			Title:       member.Value.Lookup("title").Text(),
			Description: member.Value.Lookup("description").Text(),
			Location:    s.componentLocation(member.Key),
		}
		if ref := s.kinSchema(member.Key); ref != nil && ref.Value != nil {
			if component.Title == "" {
				component.Title = ref.Value.Title
			}
			if component.Description == "" {
				component.Description = ref.Value.Description
			}
		}
		out = append(out, component)
	}
	return out
}

// ComponentSchema returns the raw schema node of the named component and its
// location (<document>#/components/schemas/<name>), so references inside it
// resolve against the same document.
func (s *Spec) ComponentSchema(name string) (jsonvalue.Value, string, error) {
	node, ok := s.schemas().Get(name)
	if !ok {
		return jsonvalue.Value{}, "", fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	return node, s.componentLocation(name), nil
}

func (s *Spec) kinSchema(name string) *openapi3.SchemaRef {
	if s.Document == nil || s.Document.Components == nil {
		return nil
	}
	return s.Document.Components.Schemas[name]
}

func (s *Spec) componentLocation(name string) string {
	var b strings.Builder
	b.WriteString(s.Location)
	b.WriteByte('#')
	for _, segment := range s.schemasPointer() {
		b.WriteByte('/')
		b.WriteString(segment)
	}
	b.WriteByte('/')
	escaped := strings.ReplaceAll(name, "~", "~0")
	b.WriteString(strings.ReplaceAll(escaped, "/", "~1"))
	return b.String()
}
