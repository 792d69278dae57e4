package godigen

import (
	"fmt"
	"strings"
)

// ComponentKind specifies what sort of component a descriptor describes.
// The kind decides whether a component is generated as a top-level type and
// whether it needs cancellation support for asynchronous producers.
type ComponentKind int

const (
	// Component is a top-level component with synchronous bindings only.
	Component ComponentKind = iota

	// Subcomponent is a component nested inside a parent component.
	Subcomponent

	// ProductionComponent is a top-level component whose entry points may be
	// asynchronous computations.
	ProductionComponent

	// ProductionSubcomponent is a nested production component.
	ProductionSubcomponent
)

// String returns the string representation of the ComponentKind.
func (k ComponentKind) String() string {
	switch k {
	case Component:
		return "Component"
	case Subcomponent:
		return "Subcomponent"
	case ProductionComponent:
		return "ProductionComponent"
	case ProductionSubcomponent:
		return "ProductionSubcomponent"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// IsValid checks if the component kind is valid.
func (k ComponentKind) IsValid() bool {
	return k >= Component && k <= ProductionSubcomponent
}

// IsTopLevel reports whether components of this kind are generated as
// standalone, concrete types.
func (k ComponentKind) IsTopLevel() bool {
	return k == Component || k == ProductionComponent
}

// IsProducer reports whether components of this kind may run asynchronous
// producers and therefore implement the cancellation listener.
func (k ComponentKind) IsProducer() bool {
	return k == ProductionComponent || k == ProductionSubcomponent
}

// MarshalText implements encoding.TextMarshaler.
func (k ComponentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ComponentKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.ReplaceAll(string(text), "-", "")) {
	case "component":
		*k = Component
	case "subcomponent":
		*k = Subcomponent
	case "productioncomponent":
		*k = ProductionComponent
	case "productionsubcomponent":
		*k = ProductionSubcomponent
	default:
		return KindError{Value: string(text)}
	}
	return nil
}

// Propagation says what happens to a parent when one of its subcomponents
// is cancelled.
type Propagation int

const (
	// Ignore leaves the parent running when a subcomponent is cancelled.
	Ignore Propagation = iota

	// Propagate cancels the parent when a subcomponent is cancelled.
	Propagate
)

// String returns the string representation of the Propagation.
func (p Propagation) String() string {
	switch p {
	case Ignore:
		return "Ignore"
	case Propagate:
		return "Propagate"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Propagation) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Propagation) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "ignore":
		*p = Ignore
	case "propagate":
		*p = Propagate
	default:
		return KindError{Value: string(text)}
	}
	return nil
}

// CancellationPolicy is the cancellation policy declared on a production component.
type CancellationPolicy struct {
	FromSubcomponents Propagation
}

// BuilderSpec describes a builder contract declared by the user.
type BuilderSpec struct {
	// DefinitionType is the user's builder type; generated builders implement it.
	DefinitionType TypeName

	// BuildMethod is the name of the method returning the finished component.
	BuildMethod string
}

// ComponentMethod is a method declared on a component type: an entry point, or
// a factory method for a subcomponent.
type ComponentMethod struct {
	Name          string
	DeclaringType TypeName
	Parameters    []ParameterSpec
	Returns       TypeName

	// Request is the binding the method returns, nil for subcomponent factory methods.
	Request *BindingRequest
}

// Signature returns the structural signature used to detect methods declared by
// more than one supertype.
func (m *ComponentMethod) Signature() MethodSignature {
	return newMethodSignature(m.Name, m.Parameters, m.Returns)
}

// ComponentDescriptor is the static description of a component.
type ComponentDescriptor struct {
	// TypeName is the user-declared component type.
	TypeName TypeName

	Kind ComponentKind

	// EntryPoints are the entry point methods declared across all supertypes of
	// the component, in declaration order.
	EntryPoints []*ComponentMethod

	// InheritedMethods are the names of all local and inherited methods of the
	// declared component type.
	InheritedMethods []string

	// CancellationPolicy is nil when the component declares no policy.
	CancellationPolicy *CancellationPolicy

	// BuilderSpec is nil when the component declares no builder contract.
	BuilderSpec *BuilderSpec
}

// PropagatesCancellationFromSubcomponents reports whether the component asks
// for cancellation of a subcomponent to cancel the component as well.
func (d *ComponentDescriptor) PropagatesCancellationFromSubcomponents() bool {
	return d.CancellationPolicy != nil && d.CancellationPolicy.FromSubcomponents == Propagate
}

// String returns a string representation of the descriptor
func (d *ComponentDescriptor) String() string {
	return fmt.Sprintf("%s(%s)", d.Kind, d.TypeName)
}
