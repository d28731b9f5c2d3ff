package record

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/jcdickinson/oakdoc/internal/docs"
	"github.com/jcdickinson/oakdoc/internal/markdown"
)

// Builder converts classes from the documentation model into XML records.
// Building is a pure function of the class; a Builder must not be shared
// across goroutines because reading the model is not thread safe.
type Builder struct {
	normalizer *markdown.Normalizer
	baseURL    string
}

// NewBuilder creates a record builder. When baseURL is not empty, relative
// links in descriptions are resolved against each class's page under it.
func NewBuilder(normalizer *markdown.Normalizer, baseURL string) *Builder {
	if normalizer == nil {
		normalizer = markdown.NewNormalizer()
	}
	return &Builder{normalizer: normalizer, baseURL: baseURL}
}

// NewDocument creates an empty XML document with the standard declaration.
func NewDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

// Build creates the record of one class.
func (b *Builder) Build(c *docs.ClassDoc) *etree.Document {
	doc := NewDocument()
	doc.SetRoot(b.classElement(c))
	return doc
}

func (b *Builder) classElement(c *docs.ClassDoc) *etree.Element {
	el := etree.NewElement("class")
	setAttr(el, "name", docs.ClassName(c))

	kind := Kind(c)
	var modifiers []string
	if kind != "" {
		modifiers = append(modifiers, kind)
	}
	for _, m := range strings.Fields(c.Modifiers) {
		if kind == "annotation" && m == "interface" {
			continue
		}
		modifiers = append(modifiers, m)
	}
	setAttr(el, "modifiers", strings.Join(modifiers, " "))

	if super, ok := c.SuperclassType(); ok {
		setAttr(el, "extends", docs.TypeName(super))
	}
	setAttr(el, "implements", docs.TypeNames(c.InterfaceTypes()))

	if isDeprecated(c.Annotations()) {
		el.CreateAttr("deprecated", "true")
	}
	setAttr(el, "since", since(c.TagsNamed("@since")))

	el.CreateElement("description").SetText(b.describe(c.InlineTags, c))

	for _, ctor := range c.Constructors {
		el.AddChild(b.constructorElement(ctor))
	}
	for _, method := range c.Methods {
		el.AddChild(b.methodElement(method))
	}
	return el
}

func (b *Builder) constructorElement(ctor *docs.ConstructorDoc) *etree.Element {
	el := etree.NewElement("constructor")

	if isDeprecated(ctor.Annotations()) {
		el.CreateAttr("deprecated", "true")
	}
	setAttr(el, "throws", docs.TypeNames(ctor.ThrownExceptions))
	setAttr(el, "since", since(ctor.TagsNamed("@since")))

	el.CreateElement("description").SetText(b.describe(ctor.InlineTags, ctor.ContainingClass()))
	addParameters(el, ctor.Parameters)
	return el
}

func (b *Builder) methodElement(method *docs.MethodDoc) *etree.Element {
	el := etree.NewElement("method")

	setAttr(el, "name", method.Name)
	setAttr(el, "modifiers", strings.Join(strings.Fields(method.Modifiers), " "))
	if isDeprecated(method.Annotations()) {
		el.CreateAttr("deprecated", "true")
	}
	if method.ReturnType.QualifiedName != "" {
		if returns := docs.TypeName(method.ReturnType); returns != "void" {
			setAttr(el, "returns", returns)
		}
	}
	setAttr(el, "throws", docs.TypeNames(method.ThrownExceptions))
	setAttr(el, "since", since(method.TagsNamed("@since")))

	// An overridden method in a package-private class can't be linked to,
	// so its description is copied instead.
	description := b.describe(method.InlineTags, method.ContainingClass())
	if overridden := FindOverriddenMethod(method); overridden != nil {
		origin := overridden.ContainingClass()
		if origin != nil && origin.IsPackagePrivate() {
			description = b.describe(overridden.InlineTags, origin)
		} else {
			setAttr(el, "overrides", docs.MethodName(overridden))
		}
	}
	el.CreateElement("description").SetText(description)

	addParameters(el, method.Parameters)
	return el
}

func addParameters(el *etree.Element, params []docs.Parameter) {
	for _, p := range params {
		param := el.CreateElement("parameter")
		setAttr(param, "name", p.Name)
		if p.Type.QualifiedName != "" {
			setAttr(param, "type", docs.TypeName(p.Type))
		}
	}
}

func (b *Builder) describe(tags []docs.Tag, owner *docs.ClassDoc) string {
	description := b.normalizer.Normalize(tags)
	if b.baseURL != "" && owner != nil {
		description = markdown.ResolveLinks(description, PageURL(b.baseURL, owner))
	}
	return description
}

// PageURL returns the javadoc HTML page of a class under baseURL.
func PageURL(baseURL string, c *docs.ClassDoc) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + docs.KeyOf(c).Path(".html")
}

func since(tags []docs.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	return strings.TrimSpace(tags[0].Text)
}

// setAttr adds an attribute unless the value is empty; consumers test for
// attribute presence.
func setAttr(el *etree.Element, key, value string) {
	if value == "" {
		return
	}
	el.CreateAttr(key, value)
}
