package jsonvalue

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind enumerates the JSON value kinds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Member is a single object entry. Members keep the order in which they were
// decoded so generated output is stable between runs.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. Numbers keep their source literal so
// callers can distinguish "7" from "7.0".
type Value struct {
	kind    Kind
	boolean bool
	text    string
	items   []Value
	members []Member
}

// Null returns the JSON null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number wraps a number literal. The literal is stored verbatim.
func Number(literal string) Value {
	return Value{kind: KindNumber, text: strings.TrimSpace(literal)}
}

// Int wraps an integer.
func Int(n int64) Value {
	return Number(strconv.FormatInt(n, 10))
}

// Float wraps a float, always rendering a fractional part.
func Float(f float64) Value {
	literal := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(literal, ".eEnN") {
		literal += ".0"
	}
	return Number(literal)
}

// Array builds an array value.
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: append([]Value(nil), items...)}
}

// Object builds an object value. Duplicate keys keep the position of the
// first occurrence and the value of the last one.
func Object(members ...Member) Value {
	out := Value{kind: KindObject, members: make([]Member, 0, len(members))}
	for _, member := range members {
		out.members = setMember(out.members, member.Key, member.Value)
	}
	return out
}

// M is shorthand for building a Member.
func M(key string, value Value) Member {
	return Member{Key: key, Value: value}
}

func setMember(members []Member, key string, value Value) []Member {
	for idx := range members {
		if members[idx].Key == key {
			members[idx].Value = value
			return members
		}
	}
	return append(members, Member{Key: key, Value: value})
}

// Kind reports the value kind. The zero Value is null.
func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsObject() bool { return v.kind == KindObject }
func (v Value) IsArray() bool  { return v.kind == KindArray }

// Text returns the string content for string values and "" otherwise.
func (v Value) Text() string {
	if v.kind != KindString {
		return ""
	}
	return v.text
}

// AsString returns the string content and whether v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// AsBool returns the boolean content and whether v is a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolean, true
}

// Literal returns the number literal for number values.
func (v Value) Literal() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.text
}

// AsInt reports the integer value when the literal is an integer that fits
// int64. Literals with a fraction or exponent are never integers.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber || strings.ContainsAny(v.text, ".eE") {
		return 0, false
	}
	n, err := strconv.ParseInt(v.text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsFloat parses the number literal as float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Len returns the number of items or members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Items returns a copy of the array items.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Index returns the item at idx, or null when out of range.
func (v Value) Index(idx int) Value {
	if v.kind != KindArray || idx < 0 || idx >= len(v.items) {
		return Null()
	}
	return v.items[idx]
}

// Members returns a copy of the object members in document order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return append([]Member(nil), v.members...)
}

// Keys returns the object keys in document order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.members))
	for _, member := range v.members {
		keys = append(keys, member.Key)
	}
	return keys
}

// Get looks up an object member.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, member := range v.members {
		if member.Key == key {
			return member.Value, true
		}
	}
	return Value{}, false
}

// Lookup returns the member value or null. Chained lookups on missing keys
// stay null, mirroring optional chaining.
func (v Value) Lookup(key string) Value {
	out, _ := v.Get(key)
	return out
}

// Has reports whether the object has the key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// With returns a copy of the object with key set to value.
func (v Value) With(key string, value Value) Value {
	if v.kind != KindObject {
		v = Object()
	}
	members := append([]Member(nil), v.members...)
	return Value{kind: KindObject, members: setMember(members, key, value)}
}

// Equal reports deep equality. Numbers compare by literal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolean == other.boolean
	case KindNumber, KindString:
		return v.text == other.text
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for idx := range v.items {
			if !v.items[idx].Equal(other.items[idx]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.members) != len(other.members) {
			return false
		}
		for idx := range v.members {
			if v.members[idx].Key != other.members[idx].Key {
				return false
			}
			if !v.members[idx].Value.Equal(other.members[idx].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Interface converts the value into plain Go values: map[string]any,
// []any, string, bool, nil, and int64/float64 for numbers.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		if n, ok := v.AsInt(); ok {
			return n
		}
		if f, ok := v.AsFloat(); ok {
			return f
		}
		return v.text
	case KindString:
		return v.text
	case KindArray:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Interface())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, member := range v.members {
			out[member.Key] = member.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders compact JSON for diagnostics.
func (v Value) String() string {
	raw, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid json: %v>", err)
	}
	return string(raw)
}
