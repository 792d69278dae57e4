// Package expressions provides a simple BindingExpressions in which every
// binding is held in one field of the implementation that owns it.
package expressions

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/junioryono/godigen"
	"github.com/junioryono/godigen/internal/graph"
)

// Factory creates Expressions for top-level graphs.
type Factory struct {
	aheadOfTime bool
}

var _ godigen.ExpressionsFactory = (*Factory)(nil)

// NewFactory returns a Factory generating for the given compiler options.
func NewFactory(opts godigen.CompilerOptions) *Factory {
	return &Factory{aheadOfTime: opts.AheadOfTimeSubcomponents}
}

// Create returns the expressions of a top-level implementation.
func (f *Factory) Create(g *godigen.BindingGraph, impl *godigen.Implementation, builder *godigen.BuilderImplementation) godigen.BindingExpressions {
	return newExpressions(g, impl, builder, nil, f.aheadOfTime)
}

// Expressions translates the bindings of one component. Each binding owned by
// the component is stored in a field, initialized in the constructor the
// first time anything requests it, dependencies first. Fields are recorded on
// the implementation, so an implementation extending a base implementation
// reuses the fields the base already initialized.
type Expressions struct {
	graph       *godigen.BindingGraph
	impl        *godigen.Implementation
	builder     *godigen.BuilderImplementation
	parent      *Expressions
	aheadOfTime bool

	deps    *graph.DependencyGraph
	depsErr error
}

var _ godigen.BindingExpressions = (*Expressions)(nil)

func newExpressions(
	g *godigen.BindingGraph,
	impl *godigen.Implementation,
	builder *godigen.BuilderImplementation,
	parent *Expressions,
	aheadOfTime bool,
) *Expressions {
	return &Expressions{
		graph:       g,
		impl:        impl,
		builder:     builder,
		parent:      parent,
		aheadOfTime: aheadOfTime,
	}
}

// ForChildComponent returns the expressions of a child component, which
// resolve bindings the child does not own through e.
func (e *Expressions) ForChildComponent(g *godigen.BindingGraph, child *godigen.Implementation, builder *godigen.BuilderImplementation) godigen.BindingExpressions {
	return newExpressions(g, child, builder, e, e.aheadOfTime)
}

// Fields returns the field of every binding initialized so far by this
// component's implementation, without inherited fields.
func (e *Expressions) Fields() map[godigen.Key]string {
	return e.impl.Fields()
}

// DependencyExpression returns the expression for request as seen from code
// in requestingClass.
func (e *Expressions) DependencyExpression(request godigen.BindingRequest, requestingClass godigen.TypeName) (godigen.CodeBlock, error) {
	field, err := e.fieldReference(request.Key, requestingClass)
	if err != nil {
		return "", err
	}
	if request.Framework == godigen.Instance {
		return godigen.CodeBlock(field + ".get()"), nil
	}
	return godigen.CodeBlock(field), nil
}

// ComponentMethod implements an entry point. In ahead-of-time mode, entry
// points whose bindings cannot be resolved yet are returned abstract.
func (e *Expressions) ComponentMethod(method *godigen.ComponentMethod) (*godigen.MethodSpec, error) {
	if method.Request == nil {
		return nil, fmt.Errorf("component method %s has no binding request", method.Name)
	}

	spec := &godigen.MethodSpec{
		Name:        method.Name,
		Modifiers:   godigen.Public,
		Annotations: []string{"Override"},
		Parameters:  method.Parameters,
		Returns:     method.Returns,
	}

	if e.aheadOfTime && !e.resolvable(method.Request.Key) {
		spec.Modifiers |= godigen.Abstract
		return spec, nil
	}

	body, err := e.methodBody(*method.Request)
	if err != nil {
		return nil, err
	}
	spec.Body = body
	return spec, nil
}

// RegisterComponentMethodIfModifiable classifies an entry point. Outside
// ahead-of-time mode every binding is complete.
func (e *Expressions) RegisterComponentMethodIfModifiable(method *godigen.ComponentMethod, spec *godigen.MethodSpec) (godigen.ModifiableBindingType, error) {
	if !e.aheadOfTime || method.Request == nil {
		return godigen.BindingComplete, nil
	}

	t := godigen.BindingComplete
	switch {
	case !e.resolvable(method.Request.Key):
		t = godigen.BindingDeferred
	case e.modifiable(method.Request.Key):
		t = godigen.BindingModifiable
	}
	if t.IsModifiable() {
		e.impl.RegisterModifiableBindingMethod(godigen.ModifiableBindingMethod{
			Type:    t,
			Request: *method.Request,
			Method:  spec,
		})
	}
	return t, nil
}

// ModifiableBindingMethod completes a deferred binding method once its
// binding can be resolved. Methods a base implementation already implements
// are inherited unchanged. Completed methods of bindings that are themselves
// modifiable stay open for later stages.
func (e *Expressions) ModifiableBindingMethod(method godigen.ModifiableBindingMethod) (godigen.ModifiableBindingMethod, bool, error) {
	key := method.Request.Key
	if !method.Method.Modifiers.Has(godigen.Abstract) || !e.resolvable(key) {
		return godigen.ModifiableBindingMethod{}, false, nil
	}

	body, err := e.methodBody(method.Request)
	if err != nil {
		return godigen.ModifiableBindingMethod{}, false, err
	}

	spec := *method.Method
	spec.Modifiers &^= godigen.Abstract
	spec.Body = body

	completed := godigen.ModifiableBindingMethod{
		Type:    godigen.BindingComplete,
		Request: method.Request,
		Method:  &spec,
	}
	if e.modifiable(key) {
		completed.Type = godigen.BindingModifiable
	} else {
		completed.Finalized = true
	}
	return completed, true, nil
}

func (e *Expressions) methodBody(request godigen.BindingRequest) ([]godigen.Statement, error) {
	expr, err := e.DependencyExpression(request, e.impl.Name())
	if err != nil {
		return nil, err
	}
	return []godigen.Statement{godigen.Fragment{Code: "return " + expr}}, nil
}

// owner returns the expressions of the component owning the binding for key.
func (e *Expressions) owner(key godigen.Key) (*Expressions, *godigen.Binding, bool) {
	for x := e; x != nil; x = x.parent {
		if b, ok := x.graph.Binding(key); ok {
			return x, b, true
		}
	}
	return nil, nil, false
}

// resolvable reports whether key and everything it depends on are bound in
// this component or an ancestor.
func (e *Expressions) resolvable(key godigen.Key) bool {
	seen := make(map[godigen.Key]bool)
	var walk func(k godigen.Key) bool
	walk = func(k godigen.Key) bool {
		if seen[k] {
			return true
		}
		seen[k] = true
		_, b, ok := e.owner(k)
		if !ok {
			return false
		}
		for _, dep := range b.Dependencies {
			if !walk(dep) {
				return false
			}
		}
		return true
	}
	return walk(key)
}

func (e *Expressions) modifiable(key godigen.Key) bool {
	_, b, ok := e.owner(key)
	return ok && b.Modifiable
}

func (e *Expressions) dependencyGraph() (*graph.DependencyGraph, error) {
	if e.deps == nil && e.depsErr == nil {
		e.deps, e.depsErr = graph.FromBindings(e.graph.Bindings)
	}
	return e.deps, e.depsErr
}

// fieldReference returns the field holding key, qualified with the owning
// implementation when it is not requestingClass.
func (e *Expressions) fieldReference(key godigen.Key, requestingClass godigen.TypeName) (string, error) {
	owner, _, ok := e.owner(key)
	if !ok {
		return "", MissingBindingError{Key: key, Component: e.graph.Component.TypeName}
	}
	field, err := owner.initialize(key)
	if err != nil {
		return "", err
	}
	if owner.impl.Name() == requestingClass {
		return field, nil
	}
	return owner.impl.Name().Simple() + ".this." + field, nil
}

// initialize adds the initialization of key, and of the bindings it depends
// on, to the owning implementation and returns the field holding key.
func (e *Expressions) initialize(key godigen.Key) (string, error) {
	if field, ok := e.impl.Field(key); ok {
		return field, nil
	}

	deps, err := e.dependencyGraph()
	if err != nil {
		return "", err
	}
	order, err := deps.InitializationOrder(key)
	if err != nil {
		return "", err
	}

	for _, k := range order {
		b, owned := e.graph.Binding(k)
		if !owned {
			continue
		}
		if _, done := e.impl.Field(k); done {
			continue
		}

		args := make([]string, len(b.Dependencies))
		for i, dep := range b.Dependencies {
			ref, err := e.fieldReference(dep, e.impl.Name())
			if err != nil {
				return "", err
			}
			args[i] = ref
		}

		field := e.newFieldName(b)
		if err := e.impl.AddInitialization(godigen.CodeBlock(fmt.Sprintf("this.%s = %s.create(%s)",
			field, factoryName(b), strings.Join(args, ", ")))); err != nil {
			return "", err
		}
		if err := e.impl.AddField(k, field); err != nil {
			return "", err
		}
		if b.Kind == godigen.Production {
			e.impl.AddCancellableProducerKey(k)
		}
	}
	field, _ := e.impl.Field(key)
	return field, nil
}

func (e *Expressions) newFieldName(b *godigen.Binding) string {
	suffix := "Provider"
	if b.Kind == godigen.Production {
		suffix = "Producer"
	}
	base := lowerFirst(b.Key.Type.Simple())
	if b.Key.Qualifier != "" {
		base = lowerFirst(b.Key.Qualifier) + b.Key.Type.Simple()
	}
	base += suffix

	name := base
	for i := 2; e.impl.IsFieldNameClaimed(name); i++ {
		name = base + strconv.Itoa(i)
	}
	return name
}

func factoryName(b *godigen.Binding) string {
	simple := strings.ReplaceAll(b.Key.Type.Name, ".", "_")
	if b.Kind == godigen.Production {
		return simple + "_Producer"
	}
	return simple + "_Factory"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
