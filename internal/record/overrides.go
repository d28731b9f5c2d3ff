package record

import "github.com/jcdickinson/oakdoc/internal/docs"

// FindOverriddenMethod finds the method that a given method overrides or
// implements. The superclass chain reported by the model wins; otherwise the
// declaring class's direct interfaces are scanned in order for a method with
// the same name and the same parameter types. Returns nil if nothing matches.
func FindOverriddenMethod(method *docs.MethodDoc) *docs.MethodDoc {
	if overridden := method.OverriddenMethod(); overridden != nil {
		return overridden
	}

	class := method.ContainingClass()
	if class == nil {
		return nil
	}
	for _, iface := range class.Interfaces() {
		for _, candidate := range iface.Methods {
			if candidate.Name != method.Name {
				continue
			}
			if sameParameters(method.Parameters, candidate.Parameters) {
				return candidate
			}
		}
	}
	return nil
}

// sameParameters compares parameter types by their canonical keys, array
// dimensions included.
func sameParameters(a, b []docs.Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if docs.TypeName(a[i].Type) != docs.TypeName(b[i].Type) {
			return false
		}
	}
	return true
}
