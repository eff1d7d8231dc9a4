package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes the first YAML document in raw into a Value. Mapping
// order is preserved; scalar tags decide the JSON kind.
func ParseYAML(raw []byte) (Value, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Value{}, errors.New("jsonvalue: yaml document is empty")
	}
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return Value{}, fmt.Errorf("jsonvalue: parse yaml: %w", err)
	}
	return fromNode(&root, 0)
}

func fromNode(node *yaml.Node, depth int) (Value, error) {
	if node == nil {
		return Null(), nil
	}
	if depth > maxNesting {
		return Value{}, errors.New("jsonvalue: yaml nested too deeply")
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return fromNode(node.Content[0], depth+1)
	case yaml.AliasNode:
		return fromNode(node.Alias, depth+1)
	case yaml.MappingNode:
		members := make([]Member, 0, len(node.Content)/2)
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			keyNode := node.Content[idx]
			value, err := fromNode(node.Content[idx+1], depth+1)
			if err != nil {
				return Value{}, err
			}
			members = setMember(members, keyNode.Value, value)
		}
		return Value{kind: KindObject, members: members}, nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := fromNode(child, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindArray, items: items}, nil
	case yaml.ScalarNode:
		return fromScalar(node)
	default:
		return Value{}, fmt.Errorf("jsonvalue: unsupported yaml node kind %d", node.Kind)
	}
}

func fromScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("jsonvalue: yaml bool at line %d: %w", node.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		if _, err := strconv.ParseInt(node.Value, 10, 64); err == nil {
			return Number(node.Value), nil
		}
		var n int64
		if err := node.Decode(&n); err != nil {
			return String(node.Value), nil
		}
		return Int(n), nil
	case "!!float":
		if _, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return Number(node.Value), nil
		}
		var f float64
		if err := node.Decode(&f); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return String(node.Value), nil
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}
