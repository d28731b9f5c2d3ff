package docs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Model is the documentation object model of one library, as dumped by the
// javadoc side of the pipeline.
//
// A Model is not safe for concurrent use. Relationships between classes
// (superclass, interfaces, annotation types, overridden methods) are
// resolved on first access and memoized without synchronization, so every
// read of a Model must happen on a single goroutine.
type Model struct {
	Classes []*ClassDoc `json:"classes"`

	byName map[string]*ClassDoc
}

// Tag is one block tag (e.g. "@since") or one inline fragment of a
// documentation comment. Plain prose fragments are named "Text".
type Tag struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Type is a reference to a type: its qualified name plus the array
// dimension suffix ("", "[]", "[][]", ...).
type Type struct {
	QualifiedName string
	Dimension     string

	model *Model
}

// ClassDoc is one class, interface, enum or annotation type.
type ClassDoc struct {
	Name              string   `json:"name"`
	Package           string   `json:"package"`
	ContainingClasses []string `json:"containingClasses"` // outermost first
	Modifiers         string   `json:"modifiers"`
	Interface         bool     `json:"interface"`
	Enum              bool     `json:"enum"`
	Included          bool     `json:"included"`

	SuperclassName  string   `json:"superclass"`
	InterfaceNames  []string `json:"interfaces"`
	AnnotationNames []string `json:"annotations"`

	Tags       []Tag `json:"tags"`
	InlineTags []Tag `json:"inlineTags"`

	Constructors []*ConstructorDoc `json:"constructors"`
	Methods      []*MethodDoc      `json:"methods"`

	model      *Model
	resolved   bool
	superclass *ClassDoc
	interfaces []*ClassDoc
}

// Member holds what constructors and methods have in common.
type Member struct {
	Modifiers        string      `json:"modifiers"`
	AnnotationNames  []string    `json:"annotations"`
	Tags             []Tag       `json:"tags"`
	InlineTags       []Tag       `json:"inlineTags"`
	Parameters       []Parameter `json:"parameters"`
	ThrownExceptions []Type      `json:"thrownExceptions"`

	containing *ClassDoc
}

// ConstructorDoc is one constructor of a class.
type ConstructorDoc struct {
	Member
}

// MethodDoc is one method of a class or interface.
type MethodDoc struct {
	Member
	Name       string `json:"name"`
	ReturnType Type   `json:"returnType"`

	overrideResolved bool
	overridden       *MethodDoc
}

// Parameter is one formal parameter of a constructor or method.
type Parameter struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// UnmarshalJSON reads a type from its string form, for example
// "java.util.List<java.lang.String>[]". Generic arguments are dropped and
// a trailing "..." counts as one array dimension.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding type reference: %w", err)
	}
	*t = ParseType(s)
	return nil
}

// MarshalJSON writes the type back in its string form.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.QualifiedName + t.Dimension)
}

// ParseType splits a type string into its qualified name and dimension.
func ParseType(s string) Type {
	s = strings.TrimSpace(s)

	var dims int
	if strings.HasSuffix(s, "...") {
		s = strings.TrimSuffix(s, "...")
		dims++
	}
	for strings.HasSuffix(s, "[]") {
		s = strings.TrimSuffix(s, "[]")
		dims++
	}

	return Type{
		QualifiedName: stripTypeArguments(s),
		Dimension:     strings.Repeat("[]", dims),
	}
}

func stripTypeArguments(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dimensions returns the number of array dimensions of the type.
func (t Type) Dimensions() int {
	return strings.Count(t.Dimension, "[]")
}

// AsClassDoc returns the class the type refers to, or nil for primitives and
// types the model knows nothing about.
func (t Type) AsClassDoc() *ClassDoc {
	if t.model == nil {
		return nil
	}
	return t.model.Lookup(t.QualifiedName)
}

// SimpleName returns the type's name without package or enclosing classes.
func (t Type) SimpleName() string {
	if c := t.AsClassDoc(); c != nil {
		return c.Name
	}
	name := t.QualifiedName
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Lookup finds a class by its dotted qualified name.
func (m *Model) Lookup(qualifiedName string) *ClassDoc {
	if qualifiedName == "" {
		return nil
	}
	return m.byName[qualifiedName]
}

// Included returns the classes to be documented, in model order.
func (m *Model) Included() []*ClassDoc {
	var included []*ClassDoc
	for _, c := range m.Classes {
		if c.Included {
			included = append(included, c)
		}
	}
	return included
}

// QualifiedName returns the dotted name, e.g. "java.util.Map.Entry".
func (c *ClassDoc) QualifiedName() string {
	parts := make([]string, 0, len(c.ContainingClasses)+2)
	if c.Package != "" {
		parts = append(parts, c.Package)
	}
	parts = append(parts, c.ContainingClasses...)
	parts = append(parts, c.Name)
	return strings.Join(parts, ".")
}

// Superclass returns the superclass, or nil for interfaces, the root class
// and superclasses missing from the model.
func (c *ClassDoc) Superclass() *ClassDoc {
	c.resolve()
	return c.superclass
}

// SuperclassType returns the superclass as a type reference, including a
// superclass the model cannot resolve. It reports false for interfaces and
// classes without a superclass.
func (c *ClassDoc) SuperclassType() (Type, bool) {
	if c.Interface || c.SuperclassName == "" {
		return Type{}, false
	}
	return c.model.typeOf(c.SuperclassName), true
}

// Interfaces returns the directly implemented (or, for interfaces, directly
// extended) interfaces that the model knows about, in declaration order.
func (c *ClassDoc) Interfaces() []*ClassDoc {
	c.resolve()
	return c.interfaces
}

// InterfaceTypes returns the directly implemented interfaces as type
// references, including ones the model cannot resolve.
func (c *ClassDoc) InterfaceTypes() []Type {
	types := make([]Type, len(c.InterfaceNames))
	for i, name := range c.InterfaceNames {
		types[i] = c.model.typeOf(name)
	}
	return types
}

// Annotations returns the types of the annotations attached to the class.
func (c *ClassDoc) Annotations() []Type {
	return c.model.typesOf(c.AnnotationNames)
}

func (c *ClassDoc) resolve() {
	if c.resolved || c.model == nil {
		return
	}
	c.resolved = true

	if !c.Interface {
		c.superclass = c.model.Lookup(ParseType(c.SuperclassName).QualifiedName)
	}
	for _, name := range c.InterfaceNames {
		if i := c.model.Lookup(ParseType(name).QualifiedName); i != nil {
			c.interfaces = append(c.interfaces, i)
		}
	}
}

// IsException reports whether the class is, or extends, java.lang.Exception.
func (c *ClassDoc) IsException() bool {
	if c.Interface {
		return false
	}
	for _, cur := range append([]*ClassDoc{c}, c.Ancestors()...) {
		if cur.QualifiedName() == "java.lang.Exception" {
			return true
		}
	}
	return false
}

// Ancestors returns the superclass chain, nearest first. A cycle in a broken
// model ends the chain.
func (c *ClassDoc) Ancestors() []*ClassDoc {
	var chain []*ClassDoc
	seen := map[*ClassDoc]bool{c: true}
	for cur := c.Superclass(); cur != nil && !seen[cur]; cur = cur.Superclass() {
		seen[cur] = true
		chain = append(chain, cur)
	}
	return chain
}

// IsPackagePrivate reports whether the class has no access modifier.
func (c *ClassDoc) IsPackagePrivate() bool {
	return isPackagePrivate(c.Modifiers)
}

// TagsNamed returns the block tags with the given name, e.g. "@since".
func (c *ClassDoc) TagsNamed(name string) []Tag {
	return tagsNamed(c.Tags, name)
}

// ContainingClass returns the class that declares the member.
func (m *Member) ContainingClass() *ClassDoc {
	return m.containing
}

// Annotations returns the types of the annotations attached to the member.
func (m *Member) Annotations() []Type {
	if m.containing == nil {
		return nil
	}
	return m.containing.model.typesOf(m.AnnotationNames)
}

// TagsNamed returns the block tags with the given name, e.g. "@since".
func (m *Member) TagsNamed(name string) []Tag {
	return tagsNamed(m.Tags, name)
}

// OverriddenMethod returns the method this one overrides in the nearest
// superclass, or nil. Interfaces are not consulted.
func (m *MethodDoc) OverriddenMethod() *MethodDoc {
	if m.overrideResolved {
		return m.overridden
	}
	m.overrideResolved = true

	if m.containing == nil || hasModifier(m.Modifiers, "static") || hasModifier(m.Modifiers, "private") {
		return nil
	}
	for _, super := range m.containing.Ancestors() {
		for _, candidate := range super.Methods {
			if candidate.Name != m.Name || hasModifier(candidate.Modifiers, "private") || hasModifier(candidate.Modifiers, "static") {
				continue
			}
			if sameParameterTypes(candidate.Parameters, m.Parameters) {
				m.overridden = candidate
				return candidate
			}
		}
	}
	return nil
}

func sameParameterTypes(a, b []Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type.QualifiedName != b[i].Type.QualifiedName || a[i].Type.Dimension != b[i].Type.Dimension {
			return false
		}
	}
	return true
}

func (m *Model) typeOf(s string) Type {
	t := ParseType(s)
	t.model = m
	return t
}

func (m *Model) typesOf(names []string) []Type {
	if len(names) == 0 {
		return nil
	}
	types := make([]Type, len(names))
	for i, name := range names {
		types[i] = m.typeOf(name)
	}
	return types
}

func tagsNamed(tags []Tag, name string) []Tag {
	var found []Tag
	for _, tag := range tags {
		if tag.Name == name {
			found = append(found, tag)
		}
	}
	return found
}

func hasModifier(modifiers, keyword string) bool {
	for _, m := range strings.Fields(modifiers) {
		if m == keyword {
			return true
		}
	}
	return false
}

func isPackagePrivate(modifiers string) bool {
	return !hasModifier(modifiers, "public") && !hasModifier(modifiers, "protected") && !hasModifier(modifiers, "private")
}
