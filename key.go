package godigen

import (
	"cmp"
	"strings"
)

// TypeName identifies a type in the program being compiled. Nested types use a
// dotted Name, for example "App.Builder".
type TypeName struct {
	Package string
	Name    string
}

// NewTypeName parses a fully qualified name of the form "pkg/path.Outer.Inner".
// Everything up to the last slash plus the first dotted segment after it is
// treated as the package.
func NewTypeName(qualified string) TypeName {
	slash := strings.LastIndex(qualified, "/")
	rest := qualified[slash+1:]
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return TypeName{Name: qualified}
	}
	return TypeName{
		Package: qualified[:slash+1+dot],
		Name:    rest[dot+1:],
	}
}

// Nested returns the name of a type nested directly inside t.
func (t TypeName) Nested(simple string) TypeName {
	return TypeName{Package: t.Package, Name: t.Name + "." + simple}
}

// Peer returns the name of a type declared next to t.
func (t TypeName) Peer(simple string) TypeName {
	if enclosing, ok := t.Enclosing(); ok {
		return enclosing.Nested(simple)
	}
	return TypeName{Package: t.Package, Name: simple}
}

// Simple returns the innermost name.
func (t TypeName) Simple() string {
	if i := strings.LastIndex(t.Name, "."); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Enclosing returns the type t is nested in, if any.
func (t TypeName) Enclosing() (TypeName, bool) {
	i := strings.LastIndex(t.Name, ".")
	if i < 0 {
		return TypeName{}, false
	}
	return TypeName{Package: t.Package, Name: t.Name[:i]}, true
}

// IsZero reports whether t is the zero TypeName.
func (t TypeName) IsZero() bool {
	return t.Package == "" && t.Name == ""
}

// Compare orders type names by package, then name.
func (t TypeName) Compare(other TypeName) int {
	if c := cmp.Compare(t.Package, other.Package); c != 0 {
		return c
	}
	return cmp.Compare(t.Name, other.Name)
}

// String returns the qualified name.
func (t TypeName) String() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// Key uniquely identifies something that can be requested from a component:
// a type plus an optional qualifier.
type Key struct {
	Type      TypeName
	Qualifier string
}

// NewKey returns an unqualified key for t.
func NewKey(t TypeName) Key {
	return Key{Type: t}
}

// Compare gives keys a total order, used wherever output must be deterministic.
func (k Key) Compare(other Key) int {
	if c := k.Type.Compare(other.Type); c != 0 {
		return c
	}
	return cmp.Compare(k.Qualifier, other.Qualifier)
}

// String returns a string representation of the key
func (k Key) String() string {
	if k.Qualifier != "" {
		return "@" + k.Qualifier + " " + k.Type.String()
	}
	return k.Type.String()
}

// FrameworkType is the shape in which a binding is requested.
type FrameworkType int

const (
	// Instance requests the value itself.
	Instance FrameworkType = iota

	// Provider requests a provider of the value.
	Provider

	// ProducerNode requests the asynchronous computation handle of a production binding.
	ProducerNode
)

// String returns the string representation of the FrameworkType.
func (f FrameworkType) String() string {
	switch f {
	case Instance:
		return "Instance"
	case Provider:
		return "Provider"
	case ProducerNode:
		return "ProducerNode"
	default:
		return "Unknown"
	}
}

// BindingRequest is a request for a key in a particular framework shape.
type BindingRequest struct {
	Key       Key
	Framework FrameworkType
}

// String returns a string representation of the request
func (r BindingRequest) String() string {
	if r.Framework == Instance {
		return r.Key.String()
	}
	return r.Framework.String() + "<" + r.Key.String() + ">"
}
