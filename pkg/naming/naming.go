// Package naming derives identifiers and serialization keys from arbitrary
// JSON keys. Functions are deterministic; collisions are handled separately
// by Scope.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
)

// reserved maps keys that collide with target-language keywords or common
// members onto safe identifiers.
var reserved = map[string]string{
	"description": "descriptionValue",
	"class":       "classProperty",
	"struct":      "structProperty",
	"enum":        "enumProperty",
	"internal":    "internalProperty",
	"default":     "defaultValue",
	"protocol":    "protocolProperty",
	"extension":   "extensionProperty",
	"func":        "funcProperty",
	"import":      "importProperty",
	"init":        "initValue",
	"let":         "letValue",
	"var":         "varValue",
	"return":      "returnValue",
	"self":        "selfValue",
	"super":       "superValue",
	"public":      "publicProperty",
	"private":     "privateProperty",
	"static":      "staticProperty",
	"operator":    "operatorProperty",
	"repeat":      "repeatValue",
	"switch":      "switchValue",
	"case":        "caseValue",
	"where":       "whereValue",
	"in":          "inValue",
	"is":          "isValue",
	"as":          "asValue",
	"for":         "forValue",
	"while":       "whileValue",
	"if":          "ifValue",
	"else":        "elseValue",
	"true":        "trueValue",
	"false":       "falseValue",
	"nil":         "nilValue",
}

// SerializationKeysContainer is the enclosing type of generated key constants.
const SerializationKeysContainer = "SerializationKeys"

// FixVariableName turns an arbitrary key into a lower camel case identifier.
func FixVariableName(key string) string {
	name := strings.TrimSpace(key)
	if replacement, ok := reserved[name]; ok {
		name = replacement
	}

	words := splitWords(name)
	if len(words) == 0 {
		return "value"
	}

	var b strings.Builder
	for idx, word := range words {
		if idx == 0 {
			if strings.ToUpper(word) == word {
				b.WriteString(strings.ToLower(word))
			} else {
				b.WriteString(lowerFirst(word))
			}
			continue
		}
		b.WriteString(upperFirst(word))
	}
	out := b.String()

	first, _ := utf8.DecodeRuneInString(out)
	if unicode.IsDigit(first) {
		out = "_" + out
	}
	if replacement, ok := reserved[out]; ok && replacement != out {
		out = replacement
	}
	return out
}

// FixClassName builds a type name. Root candidates come straight from
// configuration or document metadata and are normalized first; nested
// candidates are already variable names. The prefix applies to type names
// only.
func FixClassName(candidate, prefix string, isRoot bool) string {
	name := candidate
	if isRoot || !isIdentifier(name) {
		name = FixVariableName(name)
	}
	name = strings.TrimPrefix(name, "_")
	if name == "" {
		name = "Value"
	}
	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsDigit(first) {
		name = "Model" + name
	}
	return strings.TrimSpace(prefix) + upperFirst(name)
}

// VariableKey returns the reference to the serialization-key constant of a
// property.
func VariableKey(variableName string) string {
	return SerializationKeysContainer + "." + variableName
}

// Singularize returns the singular form of a camel case name, used to name
// the element model of array members ("addresses" -> "address").
func Singularize(name string) string {
	if name == "" {
		return name
	}
	singular := inflect.Singularize(name)
	if singular == "" {
		return name
	}
	return singular
}

func splitWords(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for idx, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if idx > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
