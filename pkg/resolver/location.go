package resolver

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-modelgen/pkg/schema"
)

// ResolveLocation turns ref into an absolute location relative to the
// document at relativeTo. Aliased references (classpath: by default) are
// rebased onto opts.ClasspathBase; absolute paths and URLs pass through;
// fragment-only references point into relativeTo's document. Any "#fragment"
// on ref is preserved.
func ResolveLocation(ref, relativeTo string, opts Options) string {
	opts = opts.withDefaults()
	ref = strings.TrimSpace(ref)
	refPath, fragment := SplitLocation(ref)
	current, _ := SplitLocation(relativeTo)

	var target string
	switch {
	case refPath == "":
		target = current
	case opts.ClasspathPrefix != "" && strings.HasPrefix(refPath, opts.ClasspathPrefix):
		target = rebase(opts.ClasspathBase, strings.TrimPrefix(refPath, opts.ClasspathPrefix))
	case schema.IsURL(refPath) || strings.HasPrefix(refPath, "/") || filepath.IsAbs(refPath):
		target = refPath
	case schema.IsURL(current):
		target = resolveURL(current, refPath)
	default:
		target = joinRelative(current, refPath)
	}
	return JoinLocation(target, fragment)
}

// SplitLocation separates a location into its document part and the JSON
// pointer fragment without the leading '#'.
func SplitLocation(location string) (string, string) {
	idx := strings.Index(location, "#")
	if idx < 0 {
		return location, ""
	}
	return location[:idx], location[idx+1:]
}

// JoinLocation is the inverse of SplitLocation. Empty fragments are dropped.
func JoinLocation(document, fragment string) string {
	if fragment == "" {
		return document
	}
	return document + "#" + fragment
}

func rebase(base, rest string) string {
	if base == "" {
		return rest
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rest, "/")
}

func resolveURL(current, ref string) string {
	base, err := url.Parse(current)
	if err != nil {
		return joinRelative(current, ref)
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return joinRelative(current, ref)
	}
	return base.ResolveReference(rel).String()
}

// joinRelative drops the file name of current and then applies ref segment by
// segment: empty and "." segments are skipped, ".." pops one directory.
func joinRelative(current, ref string) string {
	absolute := strings.HasPrefix(current, "/")
	segments := splitSegments(current)
	if len(segments) > 0 {
		segments = segments[:len(segments)-1]
	}
	for _, segment := range strings.Split(ref, "/") {
		switch segment {
		case "", ".":
			continue
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, segment)
		}
	}
	joined := strings.Join(segments, "/")
	if absolute {
		return "/" + joined
	}
	return joined
}

func splitSegments(location string) []string {
	parts := strings.Split(location, "/")
	out := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return out
}
