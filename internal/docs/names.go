package docs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedKey is returned when a string is not a valid canonical key.
var ErrMalformedKey = errors.New("malformed key")

// Key is the decoded form of a canonical type key.
type Key struct {
	Package    string
	Enclosing  []string // outermost first
	Name       string
	Dimensions int
}

// KeyOf returns the key of a class.
func KeyOf(c *ClassDoc) Key {
	return Key{
		Package:   c.Package,
		Enclosing: c.ContainingClasses,
		Name:      c.Name,
	}
}

// String encodes the key, e.g. "java.util|Map.Entry[]". The package and its
// separator are left out for the unnamed package. Dots, pipes and
// backslashes inside a name are backslash-escaped, so a nested Map.Entry and
// a top-level class literally named "Map.Entry" never share a key.
func (k Key) String() string {
	var b strings.Builder
	if k.Package != "" {
		b.WriteString(k.Package)
		b.WriteByte('|')
	}
	for _, outer := range k.Enclosing {
		b.WriteString(escapeSegment(outer))
		b.WriteByte('.')
	}
	b.WriteString(escapeSegment(k.Name))
	b.WriteString(strings.Repeat("[]", k.Dimensions))
	return b.String()
}

// Path returns the slash-separated location of the key's record, e.g.
// "java/util/Map.Entry" + ext. Enclosing classes stay in the file name so a
// nested class never turns into a directory.
func (k Key) Path(ext string) string {
	var b strings.Builder
	if k.Package != "" {
		b.WriteString(strings.ReplaceAll(k.Package, ".", "/"))
		b.WriteByte('/')
	}
	for _, outer := range k.Enclosing {
		b.WriteString(outer)
		b.WriteByte('.')
	}
	b.WriteString(k.Name)
	b.WriteString(ext)
	return b.String()
}

// ClassName builds the canonical key of a class (e.g. "java.util|Map.Entry").
func ClassName(c *ClassDoc) string {
	return KeyOf(c).String()
}

// TypeName builds the canonical key of a type reference (e.g.
// "java.lang|String[]"). Types the model cannot resolve keep their
// qualified name as given, so primitives come out as "int", "void", etc.
func TypeName(t Type) string {
	c := t.AsClassDoc()
	if c == nil {
		return t.QualifiedName + t.Dimension
	}
	k := KeyOf(c)
	k.Dimensions = t.Dimensions()
	return k.String()
}

// TypeNames encodes each type and joins them with a space, the separator for
// multi-valued attributes.
func TypeNames(types []Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = TypeName(t)
	}
	return strings.Join(names, " ")
}

// MethodName builds the canonical key of a method (e.g.
// "java.util|Map.Entry#equals(java.lang|Object)").
func MethodName(m *MethodDoc) string {
	params := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = TypeName(p.Type)
	}

	var class string
	if c := m.ContainingClass(); c != nil {
		class = ClassName(c)
	}
	return class + "#" + m.Name + "(" + strings.Join(params, ", ") + ")"
}

// ParseKey decodes a canonical type key.
func ParseKey(s string) (Key, error) {
	var k Key

	rest := s
	if i := indexUnescaped(rest, '|'); i >= 0 {
		k.Package = rest[:i]
		rest = rest[i+1:]
		if k.Package == "" {
			return Key{}, fmt.Errorf("%w: empty package in %q", ErrMalformedKey, s)
		}
	}

	for strings.HasSuffix(rest, "[]") {
		rest = strings.TrimSuffix(rest, "[]")
		k.Dimensions++
	}

	segments := splitUnescaped(rest, '.')
	for _, seg := range segments {
		if seg == "" {
			return Key{}, fmt.Errorf("%w: empty name segment in %q", ErrMalformedKey, s)
		}
	}
	for i, seg := range segments {
		segments[i] = unescapeSegment(seg)
	}
	k.Name = segments[len(segments)-1]
	if len(segments) > 1 {
		k.Enclosing = segments[:len(segments)-1]
	}
	return k, nil
}

// ParseMethodKey splits a canonical method key into its declaring class key,
// method name and parameter type keys.
func ParseMethodKey(s string) (Key, string, []string, error) {
	hash := strings.IndexByte(s, '#')
	open := strings.IndexByte(s, '(')
	if hash < 0 || open < hash || !strings.HasSuffix(s, ")") {
		return Key{}, "", nil, fmt.Errorf("%w: %q is not a method key", ErrMalformedKey, s)
	}

	class, err := ParseKey(s[:hash])
	if err != nil {
		return Key{}, "", nil, err
	}
	name := s[hash+1 : open]
	if name == "" {
		return Key{}, "", nil, fmt.Errorf("%w: missing method name in %q", ErrMalformedKey, s)
	}

	var params []string
	if inner := s[open+1 : len(s)-1]; inner != "" {
		params = strings.Split(inner, ", ")
	}
	return class, name, params, nil
}

var segmentEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`, `|`, `\|`)

func escapeSegment(s string) string {
	return segmentEscaper.Replace(s)
}

func unescapeSegment(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

func indexUnescaped(s string, sep byte) int {
	escaped := false
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == sep:
			return i
		}
	}
	return -1
}

func splitUnescaped(s string, sep byte) []string {
	var parts []string
	for {
		i := indexUnescaped(s, sep)
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		s = s[i+1:]
	}
}
