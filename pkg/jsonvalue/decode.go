package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// Parse decodes a single JSON document preserving member order and number
// literals.
func Parse(raw []byte) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, errors.New("jsonvalue: document is empty")
	}
	return Decode(bytes.NewReader(trimmed))
}

// MustParse panics when raw is not valid JSON. Useful for tests.
func MustParse(raw string) Value {
	value, err := Parse([]byte(raw))
	if err != nil {
		panic(err)
	}
	return value
}

// Decode reads exactly one JSON document from r.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, errors.New("jsonvalue: document is empty")
		}
		return Value{}, fmt.Errorf("jsonvalue: decode: %w", err)
	}
	value, err := decodeToken(dec, tok, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, fmt.Errorf("jsonvalue: decode: %w", err)
		}
		return Value{}, errors.New("jsonvalue: unexpected data after document")
	}
	return value, nil
}

const maxNesting = 10000

func decodeToken(dec *json.Decoder, tok json.Token, depth int) (Value, error) {
	if depth > maxNesting {
		return Value{}, errors.New("jsonvalue: document nested too deeply")
	}
	switch typed := tok.(type) {
	case json.Delim:
		switch typed {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		default:
			return Value{}, fmt.Errorf("jsonvalue: unexpected delimiter %q", rune(typed))
		}
	case string:
		return String(typed), nil
	case json.Number:
		return Number(typed.String()), nil
	case float64:
		return Float(typed), nil
	case bool:
		return Bool(typed), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("jsonvalue: unexpected token %T", tok)
	}
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	members := make([]Member, 0, 8)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("jsonvalue: decode key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("jsonvalue: object key must be a string, got %T", keyTok)
		}
		valueTok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("jsonvalue: decode %q: %w", key, err)
		}
		value, err := decodeToken(dec, valueTok, depth+1)
		if err != nil {
			return Value{}, err
		}
		members = setMember(members, key, value)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("jsonvalue: close object: %w", err)
	}
	return Value{kind: KindObject, members: members}, nil
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	items := make([]Value, 0, 4)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("jsonvalue: decode item %d: %w", len(items), err)
		}
		item, err := decodeToken(dec, tok, depth+1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("jsonvalue: close array: %w", err)
	}
	return Value{kind: KindArray, items: items}, nil
}

// MarshalJSON encodes the value keeping member order and number literals.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes raw into v.
func (v *Value) UnmarshalJSON(raw []byte) error {
	decoded, err := Parse(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		buf.WriteString(v.text)
	case KindString:
		raw, err := json.Marshal(v.text)
		if err != nil {
			return err
		}
		buf.Write(raw)
	case KindArray:
		buf.WriteByte('[')
		for idx, item := range v.items {
			if idx > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for idx, member := range v.members {
			if idx > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(member.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := member.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jsonvalue: unknown kind %d", v.kind)
	}
	return nil
}
