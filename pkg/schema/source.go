package schema

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Source identifies where a document originated so loaders can operate on
// files, fs.FS entries, or URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS. Leading
// slashes are dropped because fs.FS names are always relative.
func SourceFromFS(name string) Source {
	cleaned := path.Clean(strings.TrimPrefix(name, "/"))
	return fsSource{name: cleaned}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	src, err := NewSource(SourceKindURL, raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// NewSource builds a Source of the given kind without panicking.
func NewSource(kind SourceKind, location string) (Source, error) {
	switch kind {
	case SourceKindFile:
		if strings.TrimSpace(location) == "" {
			return nil, fmt.Errorf("schema: empty file source")
		}
		return SourceFromFile(location), nil
	case SourceKindFS:
		if strings.TrimSpace(location) == "" {
			return nil, fmt.Errorf("schema: empty fs source")
		}
		return SourceFromFS(location), nil
	case SourceKindURL:
		if location == "" {
			return nil, fmt.Errorf("schema: empty URL source")
		}
		if _, err := url.ParseRequestURI(location); err != nil {
			return nil, fmt.Errorf("schema: invalid URL %q: %w", location, err)
		}
		return urlSource{raw: location}, nil
	default:
		return nil, fmt.Errorf("schema: unsupported source kind %q", kind)
	}
}

// IsURL reports whether location carries an http or https scheme.
func IsURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// DetectSource picks the source kind from the shape of location: URLs become
// URL sources, everything else a file.
func DetectSource(location string) (Source, error) {
	if IsURL(location) {
		return NewSource(SourceKindURL, location)
	}
	return NewSource(SourceKindFile, location)
}
