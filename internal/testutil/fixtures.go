package testutil

import (
	"errors"
	"sync"

	"github.com/junioryono/godigen"
)

// ErrInjected is returned by FakeExpressions when configured to fail.
var ErrInjected = errors.New("injected failure")

// FakeExpressionsFactory creates FakeExpressions sharing one configuration
// and records every expressions object it creates.
type FakeExpressionsFactory struct {
	// Classify maps entry point names to the type reported for them; missing
	// names are complete.
	Classify map[string]godigen.ModifiableBindingType

	// Completable lists the keys whose modifiable methods can be completed.
	Completable map[godigen.Key]bool

	// OnCreate runs when expressions are created for an implementation,
	// before its build starts.
	OnCreate func(impl *godigen.Implementation, g *godigen.BindingGraph)

	// FailDependencyExpression makes DependencyExpression fail.
	FailDependencyExpression bool

	mu      sync.Mutex
	created []*FakeExpressions
}

var _ godigen.ExpressionsFactory = (*FakeExpressionsFactory)(nil)

// Create implements godigen.ExpressionsFactory
func (f *FakeExpressionsFactory) Create(g *godigen.BindingGraph, impl *godigen.Implementation, _ *godigen.BuilderImplementation) godigen.BindingExpressions {
	return f.newExpressions(g, impl)
}

func (f *FakeExpressionsFactory) newExpressions(g *godigen.BindingGraph, impl *godigen.Implementation) *FakeExpressions {
	e := &FakeExpressions{factory: f, graph: g, impl: impl}
	f.mu.Lock()
	f.created = append(f.created, e)
	f.mu.Unlock()
	if f.OnCreate != nil {
		f.OnCreate(impl, g)
	}
	return e
}

// Created returns every expressions object created so far, in order.
func (f *FakeExpressionsFactory) Created() []*FakeExpressions {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*FakeExpressions, len(f.created))
	copy(out, f.created)
	return out
}

// FakeExpressions is a BindingExpressions that renders requests as
// recognizable placeholders and records what it was asked for.
type FakeExpressions struct {
	factory *FakeExpressionsFactory
	graph   *godigen.BindingGraph
	impl    *godigen.Implementation

	// Requests holds every request passed to DependencyExpression.
	Requests []godigen.BindingRequest

	// ComponentMethods holds the names passed to ComponentMethod.
	ComponentMethods []string
}

var _ godigen.BindingExpressions = (*FakeExpressions)(nil)

// Implementation returns the implementation the expressions were created for.
func (e *FakeExpressions) Implementation() *godigen.Implementation {
	return e.impl
}

// DependencyExpression returns "<framework>(<key>)".
func (e *FakeExpressions) DependencyExpression(request godigen.BindingRequest, _ godigen.TypeName) (godigen.CodeBlock, error) {
	if e.factory.FailDependencyExpression {
		return "", ErrInjected
	}
	e.Requests = append(e.Requests, request)
	return Handle(request), nil
}

// Handle returns the expression FakeExpressions produces for request.
func Handle(request godigen.BindingRequest) godigen.CodeBlock {
	return godigen.CodeBlock(request.Framework.String() + "(" + request.Key.Type.Name + ")")
}

// ComponentMethod returns a method returning the requested key.
func (e *FakeExpressions) ComponentMethod(method *godigen.ComponentMethod) (*godigen.MethodSpec, error) {
	e.ComponentMethods = append(e.ComponentMethods, method.Name)
	return &godigen.MethodSpec{
		Name:        method.Name,
		Modifiers:   godigen.Public,
		Annotations: []string{"Override"},
		Parameters:  method.Parameters,
		Returns:     method.Returns,
		Body:        []godigen.Statement{godigen.Fragment{Code: "return " + godigen.CodeBlock(method.Returns.Name)}},
	}, nil
}

// RegisterComponentMethodIfModifiable reports the configured type and
// registers modifiable methods on the implementation.
func (e *FakeExpressions) RegisterComponentMethodIfModifiable(method *godigen.ComponentMethod, spec *godigen.MethodSpec) (godigen.ModifiableBindingType, error) {
	t := e.factory.Classify[method.Name]
	if t.IsModifiable() {
		e.impl.RegisterModifiableBindingMethod(godigen.ModifiableBindingMethod{
			Type:    t,
			Request: *method.Request,
			Method:  spec,
		})
	}
	return t, nil
}

// ModifiableBindingMethod completes methods of completable keys.
func (e *FakeExpressions) ModifiableBindingMethod(method godigen.ModifiableBindingMethod) (godigen.ModifiableBindingMethod, bool, error) {
	if !e.factory.Completable[method.Request.Key] {
		return godigen.ModifiableBindingMethod{}, false, nil
	}
	spec := *method.Method
	spec.Body = []godigen.Statement{godigen.Fragment{Code: "return completed(" + godigen.CodeBlock(method.Request.Key.Type.Name) + ")"}}
	return godigen.ModifiableBindingMethod{
		Type:      godigen.BindingComplete,
		Request:   method.Request,
		Method:    &spec,
		Finalized: true,
	}, true, nil
}

// ForChildComponent returns expressions for a child sharing the factory.
func (e *FakeExpressions) ForChildComponent(g *godigen.BindingGraph, child *godigen.Implementation, _ *godigen.BuilderImplementation) godigen.BindingExpressions {
	return e.factory.newExpressions(g, child)
}
