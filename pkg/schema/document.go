package schema

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/goliatone/go-modelgen/pkg/jsonvalue"
)

// Format is the serialization of a document payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document wraps the raw payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Size returns the payload length in bytes.
func (d Document) Size() int {
	return len(d.raw)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Format infers the payload format from the location extension. Anything
// other than .yaml or .yml is JSON.
func (d Document) Format() Format {
	return FormatOf(d.Location())
}

// FormatOf infers the format of a location from its extension, ignoring URL
// queries and fragments.
func FormatOf(location string) Format {
	candidate := location
	if IsURL(candidate) {
		if parsed, err := url.Parse(candidate); err == nil {
			candidate = parsed.Path
		}
	}
	if idx := strings.Index(candidate, "#"); idx >= 0 {
		candidate = candidate[:idx]
	}
	switch strings.ToLower(path.Ext(candidate)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Value decodes the payload into an ordered value tree.
func (d Document) Value() (jsonvalue.Value, error) {
	var (
		value jsonvalue.Value
		err   error
	)
	switch d.Format() {
	case FormatYAML:
		value, err = jsonvalue.ParseYAML(d.raw)
	default:
		value, err = jsonvalue.Parse(d.raw)
	}
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("schema: decode %s: %w", d.Location(), err)
	}
	return value, nil
}
