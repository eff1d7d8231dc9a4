package jsonvalue

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Pointer resolves an RFC 6901 JSON pointer ("/a/0/b"). A leading "#" is
// tolerated so URI fragments can be passed through directly.
func (v Value) Pointer(pointer string) (Value, error) {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" {
		return v, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return Value{}, fmt.Errorf("jsonvalue: invalid json pointer %q", pointer)
	}

	current := v
	for _, part := range strings.Split(pointer, "/")[1:] {
		decoded, err := url.PathUnescape(part)
		if err != nil {
			return Value{}, fmt.Errorf("jsonvalue: invalid pointer segment %q: %w", part, err)
		}
		decoded = strings.ReplaceAll(decoded, "~1", "/")
		decoded = strings.ReplaceAll(decoded, "~0", "~")

		switch current.kind {
		case KindObject:
			next, ok := current.Get(decoded)
			if !ok {
				return Value{}, fmt.Errorf("jsonvalue: pointer %q not found", pointer)
			}
			current = next
		case KindArray:
			idx, err := strconv.Atoi(decoded)
			if err != nil || idx < 0 || idx >= len(current.items) {
				return Value{}, fmt.Errorf("jsonvalue: pointer %q out of range", pointer)
			}
			current = current.items[idx]
		default:
			return Value{}, fmt.Errorf("jsonvalue: pointer %q traverses a %s", pointer, current.kind)
		}
	}
	return current, nil
}
