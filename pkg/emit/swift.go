package emit

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-modelgen/pkg/model"
	"github.com/goliatone/go-modelgen/pkg/naming"
)

const docWidth = 110

var descriptionPolicy = bluemonday.StrictPolicy()

// SwiftType renders the Swift spelling of a type descriptor.
func SwiftType(t model.TypeDescriptor) string {
	switch t.Kind {
	case model.KindArray:
		return "[" + ElementType(t) + "]"
	case model.KindObject:
		if t.Model != "" {
			return t.Model
		}
		return "[String: Any]"
	case model.KindNull, "":
		return "Any"
	default:
		return string(t.Kind)
	}
}

// ElementType renders the element type of an array descriptor. Unknown
// elements are Any.
func ElementType(t model.TypeDescriptor) string {
	if t.Model != "" {
		return t.Model
	}
	switch t.Element {
	case "", model.KindNull:
		return "Any"
	case model.KindArray:
		return "[Any]"
	default:
		return SwiftType(model.TypeDescriptor{Kind: t.Element})
	}
}

// SwiftString quotes s as a Swift string literal.
func SwiftString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// DocComment converts a description into "///" lines wrapped at 110
// columns. Markup is stripped.
func DocComment(description string) string {
	text := html.UnescapeString(descriptionPolicy.Sanitize(description))
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	var line strings.Builder
	for _, word := range words {
		if line.Len() > 0 && line.Len()+1+len(word) > docWidth {
			lines = append(lines, "/// "+line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	lines = append(lines, "/// "+line.String())
	return strings.Join(lines, "\n")
}

// KeyConstant declares the serialization key of a property.
func KeyConstant(prop model.Property) string {
	return "static let " + prop.Name + " = " + SwiftString(prop.Key)
}

// KeyReference points at the serialization key constant of a property.
func KeyReference(prop model.Property) string {
	return naming.VariableKey(prop.Name)
}

// Declaration declares a stored property, preceded by its doc comment.
func Declaration(prop model.Property, swiftType string, optional bool) string {
	decl := "public var " + prop.Name + ": " + swiftType
	if optional {
		decl += "?"
	}
	if doc := DocComment(prop.Description); doc != "" {
		return doc + "\n" + decl
	}
	return decl
}

// InitParameter renders one memberwise initializer parameter.
func InitParameter(name, swiftType string, optional bool) string {
	if optional {
		return name + ": " + swiftType + "? = nil"
	}
	return name + ": " + swiftType
}

// NSCodingDecoder restores a property in init(coder:).
func NSCodingDecoder(prop model.Property) string {
	if prop.Shape == model.ShapeScalar && prop.Type.Kind == model.KindBool {
		return "self." + prop.Name + " = aDecoder.decodeBool(forKey: " + KeyReference(prop) + ")"
	}
	return "self." + prop.Name + " = aDecoder.decodeObject(forKey: " + KeyReference(prop) + ") as? " + SwiftType(prop.Type)
}

// NSCodingEncoder archives a property in encode(with:).
func NSCodingEncoder(prop model.Property) string {
	return "aCoder.encode(" + prop.Name + ", forKey: " + KeyReference(prop) + ")"
}

// Representation writes a property into dictionaryRepresentation().
func Representation(prop model.Property) string {
	key := KeyReference(prop)
	switch {
	case prop.Shape == model.ShapeScalar && prop.Type.Kind == model.KindBool:
		return "dictionary[" + key + "] = " + prop.Name
	case prop.Shape == model.ShapeSingleObject && prop.Type.Model != "":
		return "if let value = " + prop.Name + " { dictionary[" + key + "] = value.dictionaryRepresentation() }"
	case prop.Shape == model.ShapeObjectArray && prop.Type.Model != "":
		return "if let value = " + prop.Name + " { dictionary[" + key + "] = value.map { $0.dictionaryRepresentation() } }"
	default:
		return "if let value = " + prop.Name + " { dictionary[" + key + "] = value }"
	}
}

func indent(lines []string, prefix string) string {
	var b strings.Builder
	for idx, block := range lines {
		if idx > 0 {
			b.WriteByte('\n')
		}
		for li, line := range strings.Split(block, "\n") {
			if li > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(prefix)
				b.WriteString(line)
			}
		}
	}
	return b.String()
}

// Members builds the fragments shared by the dictionary based strategies:
// key constant, optional declaration, NSCoding lines and the dictionary
// representation. Strategies fill in the initializer.
func Members(prop model.Property) Fragments {
	return Fragments{
		Key:            KeyConstant(prop),
		Declaration:    Declaration(prop, SwiftType(prop.Type), true),
		Encoder:        NSCodingEncoder(prop),
		Decoder:        NSCodingDecoder(prop),
		Representation: Representation(prop),
		Optional:       true,
	}
}
