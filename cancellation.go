package godigen

import (
	"slices"
)

const (
	// CancellationListenerMethodName is the method producer components
	// implement to be told their entry point computations were cancelled.
	CancellationListenerMethodName = "onProducerFutureCancelled"

	mayInterruptIfRunning     = "mayInterruptIfRunning"
	cancelProducersMethodName = "cancelProducers"
)

// CancellationListenerType is the capability implemented by producer components.
var CancellationListenerType = TypeName{Package: "producers", Name: "CancellationListener"}

var mayInterruptParameter = ParameterSpec{Name: mayInterruptIfRunning, Type: TypeName{Name: "boolean"}}

// addCancellationListenerImplementation implements the cancellation listener
// of a producer component.
func (b *implementationBuilder) addCancellationListenerImplementation() error {
	b.impl.AddSupertype(CancellationListenerType)
	b.impl.ClaimMethodName(CancellationListenerMethodName)

	listener := &MethodSpec{
		Name:        CancellationListenerMethodName,
		Modifiers:   Public,
		Annotations: []string{"Override"},
		Parameters:  []ParameterSpec{mayInterruptParameter},
	}
	_, hasSuperclass := b.impl.SuperclassImplementation()
	if hasSuperclass {
		listener.AddStatement(SuperMethodCall{
			Method: CancellationListenerMethodName,
			Args:   []string{mayInterruptIfRunning},
		})
	}

	statements, err := b.cancellationStatements()
	if err != nil {
		return err
	}
	if len(statements) == 0 && hasSuperclass {
		// Partial child implementations without new cancellations don't
		// override the method just to call super.
		return nil
	}

	if len(statements) < StatementsPerMethod {
		listener.Body = append(listener.Body, statements...)
	} else {
		for partition := range slices.Chunk(statements, StatementsPerMethod) {
			name := b.impl.UniqueMethodName(cancelProducersMethodName)
			helper := &MethodSpec{
				Name:       name,
				Modifiers:  Private,
				Parameters: []ParameterSpec{mayInterruptParameter},
				Body:       partition,
			}
			listener.AddStatement(MethodCall{Method: name, Args: []string{mayInterruptIfRunning}})
			if err := b.impl.AddMethod(KindCancellationListenerMethod, helper); err != nil {
				return err
			}
		}
	}

	b.variant.addCancelParentStatement(b, listener)

	return b.impl.AddMethod(KindCancellationListenerMethod, listener)
}

// cancellationStatements returns one cancellation per cancellable producer key,
// in reverse registration order.
//
// Keys are registered leaves first, so reversing starts at the entry points.
// A cancelled future propagates cancellation toward the futures depending on
// it; cancelling dependents first means no cancellation has to propagate, and
// the calls that follow are not made redundant by earlier ones.
func (b *implementationBuilder) cancellationStatements() ([]Statement, error) {
	keys := b.impl.CancellableProducerKeys()
	slices.Reverse(keys)

	statements := make([]Statement, 0, len(keys))
	for _, key := range keys {
		handle, err := b.expressions.DependencyExpression(
			BindingRequest{Key: key, Framework: ProducerNode},
			b.impl.Name(),
		)
		if err != nil {
			return nil, err
		}
		statements = append(statements, CancelProducer{Handle: handle, MayInterrupt: mayInterruptIfRunning})
	}
	return statements, nil
}
