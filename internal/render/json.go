package render

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/junioryono/godigen"
)

type implementationJSON struct {
	ID                      string                `json:"id"`
	Name                    string                `json:"name"`
	Component               string                `json:"component"`
	Kind                    godigen.ComponentKind `json:"kind"`
	Modifiers               string                `json:"modifiers"`
	Superclass              *referenceJSON        `json:"superclass,omitempty"`
	Supertypes              []string              `json:"supertypes,omitempty"`
	Types                   []typeJSON            `json:"types,omitempty"`
	Methods                 []methodJSON          `json:"methods"`
	CancellableProducerKeys []string              `json:"cancellableProducerKeys,omitempty"`
	Children                []implementationJSON  `json:"children,omitempty"`
}

// referenceJSON points at an implementation by handle instead of embedding it.
type referenceJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type typeJSON struct {
	Kind    string       `json:"kind"`
	Name    string       `json:"name"`
	Methods []methodJSON `json:"methods,omitempty"`
}

type methodJSON struct {
	Kind       string   `json:"kind,omitempty"`
	Signature  string   `json:"signature"`
	Statements []string `json:"statements,omitempty"`
}

// WriteJSON writes the implementation tree as indented JSON.
func WriteJSON(w io.Writer, impl *godigen.Implementation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(impl))
}

func toJSON(impl *godigen.Implementation) implementationJSON {
	out := implementationJSON{
		ID:        impl.ID().String(),
		Name:      impl.Name().String(),
		Component: impl.Descriptor().TypeName.String(),
		Kind:      impl.Descriptor().Kind,
		Modifiers: impl.Modifiers().String(),
		Methods:   []methodJSON{},
	}
	if superclass, ok := impl.SuperclassImplementation(); ok {
		out.Superclass = &referenceJSON{ID: superclass.ID().String(), Name: superclass.Name().String()}
	}
	for _, t := range impl.Supertypes() {
		out.Supertypes = append(out.Supertypes, t.String())
	}
	for _, kind := range godigen.TypeKinds {
		for _, spec := range impl.Types(kind) {
			t := typeJSON{Kind: kind.String(), Name: spec.Name.String()}
			for _, m := range spec.Methods {
				t.Methods = append(t.Methods, methodToJSON("", m))
			}
			out.Types = append(out.Types, t)
		}
	}
	for _, kind := range godigen.MethodKinds {
		for _, m := range impl.Methods(kind) {
			out.Methods = append(out.Methods, methodToJSON(kind.String(), m))
		}
	}
	for _, k := range impl.CancellableProducerKeys() {
		out.CancellableProducerKeys = append(out.CancellableProducerKeys, k.String())
	}
	for _, child := range impl.Children() {
		out.Children = append(out.Children, toJSON(child))
	}
	return out
}

func methodToJSON(kind string, m *godigen.MethodSpec) methodJSON {
	out := methodJSON{Kind: kind, Signature: m.String()}
	for _, s := range m.Body {
		out.Statements = append(out.Statements, s.String())
	}
	return out
}
