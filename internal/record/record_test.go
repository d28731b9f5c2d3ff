package record

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/jcdickinson/oakdoc/internal/docs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetModel = `{
  "classes": [
    {"name": "Object", "package": "java.lang", "modifiers": "public"},
    {"name": "Exception", "package": "java.lang", "modifiers": "public", "superclass": "java.lang.Object"},
    {"name": "Annotation", "package": "java.lang.annotation", "modifiers": "public abstract interface", "interface": true},
    {"name": "Widget", "package": "lib", "modifiers": "public", "superclass": "java.lang.Object", "included": true,
     "annotations": ["java.lang.Deprecated"],
     "tags": [{"name": "@since", "text": "2.0"}],
     "inlineTags": [{"name": "Text", "text": "A <b>widget</b>. See "}, {"name": "@code", "text": "render()"}],
     "constructors": [
       {"modifiers": "public", "parameters": [{"name": "size", "type": "int"}],
        "thrownExceptions": ["java.lang.Exception", "java.io.IOException"],
        "inlineTags": [{"name": "Text", "text": "Creates one."}]}
     ],
     "methods": [
       {"name": "render", "modifiers": "public", "returnType": "void",
        "inlineTags": [{"name": "Text", "text": "Draws it."}]},
       {"name": "copy", "modifiers": "public static", "returnType": "lib.Widget[]",
        "annotations": ["Deprecated"], "tags": [{"name": "@since", "text": "2.1"}],
        "parameters": [{"name": "src", "type": "lib.Widget[]"}, {"name": "n", "type": "int"}]}
     ]},
    {"name": "Inner", "package": "lib", "containingClasses": ["Outer"], "modifiers": "public static", "included": true},
    {"name": "Marker", "package": "lib", "modifiers": "public abstract interface", "interface": true,
     "interfaces": ["java.lang.annotation.Annotation"], "included": true},
    {"name": "Failure", "package": "lib", "modifiers": "public", "superclass": "java.lang.Exception", "included": true},
    {"name": "Color", "package": "lib", "modifiers": "public final", "enum": true, "superclass": "java.lang.Enum<lib.Color>", "included": true},
    {"name": "Shape", "package": "lib", "modifiers": "public abstract interface", "interface": true,
     "interfaces": ["java.lang.Comparable<lib.Shape>", "java.io.Serializable"], "included": true}
  ]
}`

func buildAll(t *testing.T, model string, baseURL string) (*docs.Model, map[string]*etree.Element) {
	t.Helper()

	m, err := docs.Parse([]byte(model))
	require.NoError(t, err)

	b := NewBuilder(nil, baseURL)
	roots := make(map[string]*etree.Element)
	for _, c := range m.Classes {
		roots[c.QualifiedName()] = b.Build(c).Root()
	}
	return m, roots
}

func attrs(el *etree.Element) map[string]string {
	got := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		got[a.Key] = a.Value
	}
	return got
}

func TestBuild_Widget(t *testing.T) {
	t.Parallel()
	_, roots := buildAll(t, widgetModel, "")

	root := roots["lib.Widget"]
	require.NotNil(t, root)
	assert.Equal(t, "class", root.Tag)
	assert.Equal(t, map[string]string{
		"name":       "lib|Widget",
		"modifiers":  "class public",
		"extends":    "java.lang|Object",
		"deprecated": "true",
		"since":      "2.0",
	}, attrs(root))
	assert.Equal(t, "A **widget**. See `render()`", root.SelectElement("description").Text())

	ctors := root.SelectElements("constructor")
	require.Len(t, ctors, 1)
	assert.Equal(t, map[string]string{"throws": "java.lang|Exception java.io.IOException"}, attrs(ctors[0]))
	assert.Equal(t, "Creates one.", ctors[0].SelectElement("description").Text())
	params := ctors[0].SelectElements("parameter")
	require.Len(t, params, 1)
	assert.Equal(t, map[string]string{"name": "size", "type": "int"}, attrs(params[0]))

	methods := root.SelectElements("method")
	require.Len(t, methods, 2)
	assert.Equal(t, map[string]string{"name": "render", "modifiers": "public"}, attrs(methods[0]))
	assert.Nil(t, methods[0].SelectAttr("returns"), "void is never emitted")
	assert.Equal(t, "Draws it.", methods[0].SelectElement("description").Text())

	assert.Equal(t, map[string]string{
		"name":       "copy",
		"modifiers":  "public static",
		"deprecated": "true",
		"returns":    "lib|Widget[]",
		"since":      "2.1",
	}, attrs(methods[1]))
	copyParams := methods[1].SelectElements("parameter")
	require.Len(t, copyParams, 2)
	assert.Equal(t, "lib|Widget[]", copyParams[0].SelectAttrValue("type", ""))
	assert.Equal(t, "int", copyParams[1].SelectAttrValue("type", ""))
}

func TestBuild_ChildOrderFollowsModel(t *testing.T) {
	t.Parallel()
	_, roots := buildAll(t, widgetModel, "")

	var tags []string
	for _, child := range roots["lib.Widget"].ChildElements() {
		tags = append(tags, child.Tag)
	}
	assert.Equal(t, []string{"description", "constructor", "method", "method"}, tags)
}

func TestBuild_OmitsAbsentAttributes(t *testing.T) {
	t.Parallel()
	_, roots := buildAll(t, widgetModel, "")

	inner := roots["lib.Outer.Inner"]
	assert.Equal(t, map[string]string{
		"name":      "lib|Outer.Inner",
		"modifiers": "class public static",
	}, attrs(inner))

	description := inner.SelectElement("description")
	require.NotNil(t, description, "description is always present")
	assert.Empty(t, description.Text())
}

func TestBuild_Kinds(t *testing.T) {
	t.Parallel()
	_, roots := buildAll(t, widgetModel, "")

	tests := []struct {
		class     string
		modifiers string
	}{
		{"lib.Marker", "annotation public abstract"},
		{"lib.Failure", "exception public"},
		{"lib.Color", "enum public final"},
		{"lib.Shape", "public abstract interface"},
		{"lib.Widget", "class public"},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			assert.Equal(t, tt.modifiers, roots[tt.class].SelectAttrValue("modifiers", ""))
		})
	}

	shape := roots["lib.Shape"]
	assert.Nil(t, shape.SelectAttr("extends"))
	assert.Equal(t, "java.lang.Comparable java.io.Serializable", shape.SelectAttrValue("implements", ""))
	assert.Equal(t, "java.lang.Enum", roots["lib.Color"].SelectAttrValue("extends", ""))
}

func TestKind_Precedence(t *testing.T) {
	t.Parallel()

	m := docs.NewModel(
		&docs.ClassDoc{Name: "Object", Package: "java.lang"},
		&docs.ClassDoc{Name: "Exception", Package: "java.lang", SuperclassName: "java.lang.Object"},
		&docs.ClassDoc{Name: "Annotation", Package: "java.lang.annotation", Interface: true},
		&docs.ClassDoc{Name: "EnumFailure", Package: "p", Enum: true, SuperclassName: "java.lang.Exception"},
		&docs.ClassDoc{Name: "ExceptionalAnnotation", Package: "p", SuperclassName: "java.lang.Exception",
			InterfaceNames: []string{"java.lang.annotation.Annotation"}},
		&docs.ClassDoc{Name: "EnumInterface", Package: "p", Enum: true, Interface: true},
	)

	assert.Equal(t, "exception", Kind(m.Lookup("p.EnumFailure")))
	assert.Equal(t, "annotation", Kind(m.Lookup("p.ExceptionalAnnotation")))
	assert.Equal(t, "enum", Kind(m.Lookup("p.EnumInterface")))
	assert.Equal(t, "class", Kind(m.Lookup("java.lang.Object")))
}

func TestIsDeprecated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		annotation string
		want       bool
	}{
		{"java.lang.Deprecated", true},
		{"com.other.Deprecated", true},
		{"Deprecated", true},
		{"java.lang.deprecated", false},
		{"java.lang.DeprecatedSince", false},
		{"java.lang.Override", false},
	}
	for _, tt := range tests {
		t.Run(tt.annotation, func(t *testing.T) {
			c := &docs.ClassDoc{Name: "X", AnnotationNames: []string{"java.lang.Override", tt.annotation}}
			docs.NewModel(c)
			assert.Equal(t, tt.want, isDeprecated(c.Annotations()))
		})
	}
}

func TestBuild_ResolvesRelativeLinks(t *testing.T) {
	t.Parallel()

	model := `{"classes": [{"name": "Widget", "package": "lib.ui", "modifiers": "public", "included": true,
	  "inlineTags": [{"name": "Text", "text": "Like <a href=\"Gadget.html\">Gadget</a>."}]}]}`
	_, roots := buildAll(t, model, "https://docs.example.com/api/")

	assert.Equal(t, "Like [Gadget](https://docs.example.com/api/lib/ui/Gadget.html).",
		roots["lib.ui.Widget"].SelectElement("description").Text())
}

func TestBuild_Serialized(t *testing.T) {
	t.Parallel()

	m, err := docs.Parse([]byte(widgetModel))
	require.NoError(t, err)
	doc := NewBuilder(nil, "").Build(m.Lookup("lib.Outer.Inner"))

	out, err := doc.WriteToString()
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><class name="lib|Outer.Inner" modifiers="class public static"><description/></class>`, out)
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	c := &docs.ClassDoc{Name: "Entry", Package: "java.util", ContainingClasses: []string{"Map"}}
	assert.Equal(t, "https://d.example/api/java/util/Map.Entry.html", PageURL("https://d.example/api/", c))
	assert.Equal(t, "https://d.example/api/java/util/Map.Entry.html", PageURL("https://d.example/api", c))
}
