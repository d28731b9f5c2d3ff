package docs

import (
	"encoding/json"
	"fmt"
)

// Parse decodes a model dump produced by the javadoc side of the pipeline.
func Parse(data []byte) (*Model, error) {
	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("unmarshaling model JSON: %w", err)
	}
	model.link()
	return &model, nil
}

// NewModel builds a model from classes constructed in code.
func NewModel(classes ...*ClassDoc) *Model {
	model := &Model{Classes: classes}
	model.link()
	return model
}

// link indexes the classes by qualified name and points every class, member
// and type reference back at the model. Relationships are not resolved
// here; that happens lazily on first access.
func (m *Model) link() {
	m.byName = make(map[string]*ClassDoc, len(m.Classes))
	kept := m.Classes[:0]
	for _, c := range m.Classes {
		if c == nil || c.Name == "" {
			continue
		}
		kept = append(kept, c)
		c.model = m
		c.resolved = false
		if _, dup := m.byName[c.QualifiedName()]; !dup {
			m.byName[c.QualifiedName()] = c
		}

		for _, ctor := range c.Constructors {
			if ctor != nil {
				m.linkMember(&ctor.Member, c)
			}
		}
		for _, method := range c.Methods {
			if method != nil {
				m.linkMember(&method.Member, c)
				method.ReturnType.model = m
				method.overrideResolved = false
			}
		}
	}
	m.Classes = kept
	for _, c := range m.Classes {
		c.Constructors = compact(c.Constructors)
		c.Methods = compact(c.Methods)
	}
}

func (m *Model) linkMember(member *Member, c *ClassDoc) {
	member.containing = c
	for i := range member.Parameters {
		member.Parameters[i].Type.model = m
	}
	for i := range member.ThrownExceptions {
		member.ThrownExceptions[i].model = m
	}
}

func compact[T any](items []*T) []*T {
	kept := items[:0]
	for _, item := range items {
		if item != nil {
			kept = append(kept, item)
		}
	}
	return kept
}
