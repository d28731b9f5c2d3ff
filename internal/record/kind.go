package record

import "github.com/jcdickinson/oakdoc/internal/docs"

const annotationInterface = "java.lang.annotation.Annotation"

// kindCheck pairs a kind tag with the predicate that selects it.
type kindCheck struct {
	tag     string
	matches func(*docs.ClassDoc) bool
}

// kindChecks are tried in order; the first match wins. Interfaces get an
// empty tag because their modifiers already say "interface".
var kindChecks = []kindCheck{
	{"annotation", isAnnotation},
	{"exception", (*docs.ClassDoc).IsException},
	{"enum", func(c *docs.ClassDoc) bool { return c.Enum }},
	{"", func(c *docs.ClassDoc) bool { return c.Interface }},
	{"class", func(*docs.ClassDoc) bool { return true }},
}

// Kind classifies a class as "annotation", "exception", "enum", "class", or
// "" for a plain interface.
func Kind(c *docs.ClassDoc) string {
	for _, check := range kindChecks {
		if check.matches(c) {
			return check.tag
		}
	}
	return "class"
}

// isAnnotation looks for java.lang.annotation.Annotation among the direct
// interfaces and their superclass chains. The model's own annotation flag
// is not reliable for this.
func isAnnotation(c *docs.ClassDoc) bool {
	for _, iface := range c.Interfaces() {
		for _, cur := range append([]*docs.ClassDoc{iface}, iface.Ancestors()...) {
			if cur.QualifiedName() == annotationInterface {
				return true
			}
		}
	}
	return false
}

// isDeprecated matches on the annotation's simple name only, whatever
// package it comes from.
func isDeprecated(annotations []docs.Type) bool {
	for _, a := range annotations {
		if a.SimpleName() == "Deprecated" {
			return true
		}
	}
	return false
}
