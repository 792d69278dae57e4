// Package loader reads binding graphs from YAML documents.
//
// A document describes one component and, recursively, its subcomponents:
//
//	type: example.com/app.App
//	kind: component
//	entry_points:
//	  - name: service
//	    returns: example.com/app.Service
//	bindings:
//	  - key: example.com/app.Service
//	    dependencies: [example.com/app.Repository]
//	  - key: example.com/app.Repository
//	subcomponents:
//	  - type: example.com/app.Session
//	    kind: subcomponent
//	    factory_method:
//	      name: session
//
// Keys are written as qualified type names, optionally preceded by
// "@qualifier ".
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/junioryono/godigen"
	"github.com/junioryono/godigen/internal/graph"
)

var (
	ErrMissingType    = errors.New("component type is required")
	ErrMissingKey     = errors.New("binding key is required")
	ErrDuplicateKey   = errors.New("key bound more than once")
	ErrNestedKind     = errors.New("nested document must describe a subcomponent")
	ErrEmptyDocument  = errors.New("document is empty")
	ErrUnknownMethod  = errors.New("entry point needs a name and a return type")
	ErrFactoryNesting = errors.New("factory methods are only allowed on subcomponents")
)

var _ error = DocumentError{}

// DocumentError reports where in a document loading failed.
type DocumentError struct {
	Path  string // file path, empty when parsing bytes
	Where string // component type or position
	Cause error
}

func (e DocumentError) Error() string {
	var b strings.Builder
	b.WriteString("load graph")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Where != "" {
		b.WriteString(" at " + e.Where)
	}
	b.WriteString(": ")
	b.WriteString(e.Cause.Error())
	return b.String()
}

func (e DocumentError) Unwrap() error {
	return e.Cause
}

type document struct {
	Type               string                `yaml:"type"`
	Kind               godigen.ComponentKind `yaml:"kind"`
	InheritedMethods   []string              `yaml:"inherited_methods"`
	CancellationPolicy *godigen.Propagation  `yaml:"cancellation_policy"`
	Builder            *builderDocument      `yaml:"builder"`
	EntryPoints        []methodDocument      `yaml:"entry_points"`
	Bindings           []bindingDocument     `yaml:"bindings"`
	Requirements       []requirementDocument `yaml:"requirements"`
	FactoryMethod      *methodDocument       `yaml:"factory_method"`
	Subcomponents      []document            `yaml:"subcomponents"`
}

type builderDocument struct {
	Definition  string `yaml:"definition"`
	BuildMethod string `yaml:"build_method"`
}

type methodDocument struct {
	Name          string              `yaml:"name"`
	DeclaringType string              `yaml:"declaring_type"`
	Returns       string              `yaml:"returns"`
	Key           string              `yaml:"key"`
	Framework     string              `yaml:"framework"`
	Parameters    []parameterDocument `yaml:"parameters"`
}

type parameterDocument struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type bindingDocument struct {
	Key          string   `yaml:"key"`
	Kind         string   `yaml:"kind"`
	Dependencies []string `yaml:"dependencies"`
	Modifiable   bool     `yaml:"modifiable"`
}

type requirementDocument struct {
	Type             string `yaml:"type"`
	RequiresInstance bool   `yaml:"requires_instance"`
}

// Load reads the graph document at path.
func Load(path string) (*godigen.BindingGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, DocumentError{Path: path, Cause: err}
	}
	g, err := Parse(data)
	if err != nil {
		var docErr DocumentError
		if errors.As(err, &docErr) {
			docErr.Path = path
			return nil, docErr
		}
		return nil, DocumentError{Path: path, Cause: err}
	}
	return g, nil
}

// Parse decodes a graph document.
func Parse(data []byte) (*godigen.BindingGraph, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, DocumentError{Cause: ErrEmptyDocument}
		}
		return nil, DocumentError{Cause: err}
	}
	return doc.toGraph(nil)
}

func (d *document) toGraph(parent *godigen.BindingGraph) (*godigen.BindingGraph, error) {
	if d.Type == "" {
		return nil, DocumentError{Cause: ErrMissingType}
	}
	fail := func(err error) error {
		return DocumentError{Where: d.Type, Cause: err}
	}
	if parent != nil && d.Kind.IsTopLevel() {
		return nil, fail(ErrNestedKind)
	}

	componentType := godigen.NewTypeName(d.Type)
	descriptor := &godigen.ComponentDescriptor{
		TypeName:         componentType,
		Kind:             d.Kind,
		InheritedMethods: d.InheritedMethods,
	}
	if d.CancellationPolicy != nil {
		descriptor.CancellationPolicy = &godigen.CancellationPolicy{FromSubcomponents: *d.CancellationPolicy}
	}
	if d.Builder != nil {
		descriptor.BuilderSpec = &godigen.BuilderSpec{
			DefinitionType: godigen.NewTypeName(d.Builder.Definition),
			BuildMethod:    d.Builder.BuildMethod,
		}
	}

	for _, m := range d.EntryPoints {
		method, err := m.toMethod(componentType)
		if err != nil {
			return nil, fail(err)
		}
		descriptor.EntryPoints = append(descriptor.EntryPoints, method)
		descriptor.InheritedMethods = appendUnique(descriptor.InheritedMethods, method.Name)
	}

	g := &godigen.BindingGraph{Component: descriptor}

	seen := make(map[godigen.Key]bool)
	for _, b := range d.Bindings {
		binding, err := b.toBinding()
		if err != nil {
			return nil, fail(err)
		}
		if seen[binding.Key] {
			return nil, fail(fmt.Errorf("%w: %s", ErrDuplicateKey, binding.Key))
		}
		seen[binding.Key] = true
		g.Bindings = append(g.Bindings, binding)
	}
	if _, err := graph.FromBindings(g.Bindings); err != nil {
		return nil, fail(err)
	}

	for _, r := range d.Requirements {
		g.Requirements = append(g.Requirements, godigen.ComponentRequirement{
			Type:                   godigen.NewTypeName(r.Type),
			RequiresPassedInstance: r.RequiresInstance,
		})
	}

	if d.FactoryMethod != nil {
		if parent == nil {
			return nil, fail(ErrFactoryNesting)
		}
		factory := *d.FactoryMethod
		if factory.Returns == "" {
			factory.Returns = d.Type
		}
		if factory.DeclaringType == "" {
			factory.DeclaringType = parent.Component.TypeName.String()
		}
		method, err := factory.toFactoryMethod()
		if err != nil {
			return nil, fail(err)
		}
		g.FactoryMethod = method
		parent.Component.InheritedMethods = appendUnique(parent.Component.InheritedMethods, method.Name)
	}

	for i := range d.Subcomponents {
		sub, err := d.Subcomponents[i].toGraph(g)
		if err != nil {
			return nil, err
		}
		g.Subgraphs = append(g.Subgraphs, sub)
	}
	return g, nil
}

func (m methodDocument) toMethod(component godigen.TypeName) (*godigen.ComponentMethod, error) {
	if m.Name == "" || m.Returns == "" {
		return nil, ErrUnknownMethod
	}
	declaring := component
	if m.DeclaringType != "" {
		declaring = godigen.NewTypeName(m.DeclaringType)
	}
	keyText := m.Key
	if keyText == "" {
		keyText = m.Returns
	}
	framework, err := parseFramework(m.Framework)
	if err != nil {
		return nil, err
	}
	return &godigen.ComponentMethod{
		Name:          m.Name,
		DeclaringType: declaring,
		Parameters:    m.parameters(),
		Returns:       godigen.NewTypeName(m.Returns),
		Request:       &godigen.BindingRequest{Key: ParseKey(keyText), Framework: framework},
	}, nil
}

func (m methodDocument) toFactoryMethod() (*godigen.ComponentMethod, error) {
	if m.Name == "" {
		return nil, ErrUnknownMethod
	}
	return &godigen.ComponentMethod{
		Name:          m.Name,
		DeclaringType: godigen.NewTypeName(m.DeclaringType),
		Parameters:    m.parameters(),
		Returns:       godigen.NewTypeName(m.Returns),
	}, nil
}

func (m methodDocument) parameters() []godigen.ParameterSpec {
	var params []godigen.ParameterSpec
	for _, p := range m.Parameters {
		params = append(params, godigen.ParameterSpec{Name: p.Name, Type: godigen.NewTypeName(p.Type)})
	}
	return params
}

func (b bindingDocument) toBinding() (*godigen.Binding, error) {
	if b.Key == "" {
		return nil, ErrMissingKey
	}
	binding := &godigen.Binding{
		Key:        ParseKey(b.Key),
		Modifiable: b.Modifiable,
	}
	switch strings.ToLower(b.Kind) {
	case "", "provision":
		binding.Kind = godigen.Provision
	case "production":
		binding.Kind = godigen.Production
	default:
		return nil, fmt.Errorf("unknown binding kind %q", b.Kind)
	}
	for _, dep := range b.Dependencies {
		binding.Dependencies = append(binding.Dependencies, ParseKey(dep))
	}
	return binding, nil
}

// ParseKey parses a key written as by godigen.Key.String.
func ParseKey(s string) godigen.Key {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "@") {
		if qualifier, typ, ok := strings.Cut(s[1:], " "); ok {
			return godigen.Key{Type: godigen.NewTypeName(strings.TrimSpace(typ)), Qualifier: qualifier}
		}
	}
	return godigen.NewKey(godigen.NewTypeName(s))
}

func parseFramework(s string) (godigen.FrameworkType, error) {
	switch strings.ToLower(s) {
	case "", "instance":
		return godigen.Instance, nil
	case "provider":
		return godigen.Provider, nil
	case "producer", "producer-node", "producernode":
		return godigen.ProducerNode, nil
	default:
		return 0, fmt.Errorf("unknown framework type %q", s)
	}
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
