package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModel = `{
  "classes": [
    {"name": "Object", "package": "java.lang", "modifiers": "public"},
    {"name": "Throwable", "package": "java.lang", "modifiers": "public", "superclass": "java.lang.Object"},
    {"name": "Exception", "package": "java.lang", "modifiers": "public", "superclass": "java.lang.Throwable"},
    {"name": "Base", "package": "lib", "modifiers": "public abstract", "superclass": "java.lang.Object", "included": true,
     "methods": [
       {"name": "render", "modifiers": "public", "returnType": "void", "parameters": [{"name": "times", "type": "int"}]},
       {"name": "secret", "modifiers": "private", "returnType": "void"}
     ]},
    {"name": "Widget", "package": "lib", "modifiers": "public", "superclass": "lib.Base",
     "interfaces": ["java.lang.Comparable<lib.Widget>", "lib.Missing"], "included": true,
     "annotations": ["java.lang.Deprecated"],
     "tags": [{"name": "@since", "text": "2.0"}, {"name": "@since", "text": "3.0"}],
     "methods": [
       {"name": "render", "modifiers": "public", "returnType": "void", "parameters": [{"name": "times", "type": "int"}]},
       {"name": "secret", "modifiers": "public", "returnType": "void"},
       {"name": "names", "modifiers": "public", "returnType": "java.util.List<java.lang.String>[]",
        "parameters": [{"name": "args", "type": "java.lang.String..."}]}
     ]},
    {"name": "Comparable", "package": "java.lang", "modifiers": "public abstract interface", "interface": true},
    {"name": "Inner", "package": "lib", "containingClasses": ["Outer"], "modifiers": "static", "included": true},
    {"name": "BadThing", "package": "lib", "modifiers": "public", "superclass": "java.lang.Exception", "included": true}
  ]
}`

func TestParse(t *testing.T) {
	t.Parallel()

	model, err := Parse([]byte(sampleModel))
	require.NoError(t, err)
	require.Len(t, model.Classes, 8)

	widget := model.Lookup("lib.Widget")
	require.NotNil(t, widget)
	assert.Equal(t, "lib.Widget", widget.QualifiedName())
	assert.Equal(t, model.Lookup("lib.Base"), widget.Superclass())
	assert.Equal(t, []*ClassDoc{model.Lookup("java.lang.Comparable")}, widget.Interfaces())
	assert.Len(t, widget.InterfaceTypes(), 2)
	assert.Equal(t, "Deprecated", widget.Annotations()[0].SimpleName())
	assert.Equal(t, []Tag{{Name: "@since", Text: "2.0"}, {Name: "@since", Text: "3.0"}}, widget.TagsNamed("@since"))

	inner := model.Lookup("lib.Outer.Inner")
	require.NotNil(t, inner)
	assert.True(t, inner.IsPackagePrivate())
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"classes": [`))
	require.Error(t, err)
}

func TestModel_Included(t *testing.T) {
	t.Parallel()

	model, err := Parse([]byte(sampleModel))
	require.NoError(t, err)

	var names []string
	for _, c := range model.Included() {
		names = append(names, c.QualifiedName())
	}
	assert.Equal(t, []string{"lib.Base", "lib.Widget", "lib.Outer.Inner", "lib.BadThing"}, names)
}

func TestParseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		name      string
		dimension string
	}{
		{"int", "int", ""},
		{"java.lang.String[]", "java.lang.String", "[]"},
		{"java.util.Map<java.lang.String, java.util.List<java.lang.Integer>>[][]", "java.util.Map", "[][]"},
		{"java.lang.Object...", "java.lang.Object", "[]"},
		{"byte[]...", "byte", "[][]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseType(tt.in)
			assert.Equal(t, tt.name, got.QualifiedName)
			assert.Equal(t, tt.dimension, got.Dimension)
		})
	}
}

func TestClassDoc_IsException(t *testing.T) {
	t.Parallel()

	model, err := Parse([]byte(sampleModel))
	require.NoError(t, err)

	assert.True(t, model.Lookup("lib.BadThing").IsException())
	assert.True(t, model.Lookup("java.lang.Exception").IsException())
	assert.False(t, model.Lookup("java.lang.Throwable").IsException())
	assert.False(t, model.Lookup("lib.Widget").IsException())
}

func TestMethodDoc_OverriddenMethod(t *testing.T) {
	t.Parallel()

	model, err := Parse([]byte(sampleModel))
	require.NoError(t, err)

	base := model.Lookup("lib.Base")
	widget := model.Lookup("lib.Widget")

	assert.Same(t, base.Methods[0], widget.Methods[0].OverriddenMethod())
	assert.Nil(t, widget.Methods[1].OverriddenMethod(), "private methods are not overridden")
	assert.Nil(t, widget.Methods[2].OverriddenMethod())
	assert.Nil(t, base.Methods[0].OverriddenMethod(), "java.lang.Object has no render")
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	plain := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(plain, []byte(sampleModel), 0644))

	// The compressed copy is re-encoded from the parsed model, so type
	// references go through their string form again.
	parsed, err := Parse([]byte(sampleModel))
	require.NoError(t, err)
	reencoded, err := json.Marshal(parsed)
	require.NoError(t, err)

	compressed := filepath.Join(dir, "model.json.zst")
	f, err := os.Create(compressed)
	require.NoError(t, err)
	w, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write(reencoded)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	for _, path := range []string{plain, compressed} {
		model, err := Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, len(parsed.Classes), len(model.Classes), path)
		assert.NotNil(t, model.Lookup("lib.Widget"), path)
	}

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
