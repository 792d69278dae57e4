package godigen

import (
	"errors"
	"fmt"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that are wrapped in typed errors when returned.
// Match them with errors.Is.

var (
	// Illegal use.
	ErrGraphNil                 = errors.New("binding graph cannot be nil")
	ErrAheadOfTimeRequired      = errors.New("abstract component implementations require ahead-of-time subcomponents")
	ErrAlreadyBuilt             = errors.New("component implementation has already been built")
	ErrSuperclassNotBuilt       = errors.New("superclass implementation has not been built")
	ErrConstructorParametersSet = errors.New("constructor parameters have already been set")
	ErrInitializationsFinalized = errors.New("initializations have already been partitioned into the constructor")
	ErrParentRequired           = errors.New("subcomponent factory method requires a parent implementation")
	ErrBuilderRequired          = errors.New("root component requires a component builder")
	ErrResolverRequired         = errors.New("a graph resolver is required to rebuild a base implementation")
	ErrDuplicateMethod          = errors.New("method already added")
	ErrDuplicateField           = errors.New("field already declared")

	// Internal invariants.
	ErrNoConstructorSource        = errors.New("expected either a component builder or factory method but found neither")
	ErrMissingChildImplementation = errors.New("cannot find abstract implementation of child component")
)

var (
	_ error = KindError{}
	_ error = IllegalStateError{}
	_ error = InvariantError{}
	_ error = ConsistencyError{}
	_ error = DuplicateMethodError{}
	_ error = BuildError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// KindError indicates an unknown component kind or propagation value.
type KindError struct {
	Value any
}

func (e KindError) Error() string {
	return fmt.Sprintf("invalid component kind or policy: %v", e.Value)
}

// IllegalStateError indicates the caller used the synthesis API incorrectly.
// These are programming errors and are never retried.
type IllegalStateError struct {
	Component TypeName
	Operation string // "create", "build", "set-constructor-parameters", ...
	Cause     error
}

func (e IllegalStateError) Error() string {
	return fmt.Sprintf("illegal state during %s of %s: %v", e.Operation, e.Component, e.Cause)
}

func (e IllegalStateError) Unwrap() error {
	return e.Cause
}

// InvariantError indicates a condition that upstream stages guarantee never
// happens was reached anyway.
type InvariantError struct {
	Component TypeName
	Detail    string
	Cause     error
}

func (e InvariantError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invariant violated for %s: %v", e.Component, e.Cause)
	}
	return fmt.Sprintf("invariant violated for %s: %s: %v", e.Component, e.Detail, e.Cause)
}

func (e InvariantError) Unwrap() error {
	return e.Cause
}

// ConsistencyError indicates that an ancestor implementation and the graph
// being built disagree on the structure of the component hierarchy.
type ConsistencyError struct {
	Child    TypeName
	Ancestor TypeName
	Current  TypeName
}

func (e ConsistencyError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("cannot find abstract implementation of %s within %s while generating implementation within %s\n\n",
		e.Child, e.Ancestor, e.Current))
	b.WriteString("The base implementation was generated from a graph with a different set of subcomponents.\n")
	b.WriteString("\nTo resolve this:\n")
	b.WriteString(fmt.Sprintf("  • Regenerate the base implementation %s\n", e.Ancestor))
	b.WriteString(fmt.Sprintf("  • Check that %s is still installed in the same parent\n", e.Child))
	return b.String()
}

func (e ConsistencyError) Unwrap() error {
	return ErrMissingChildImplementation
}

// DuplicateMethodError indicates two synthesized methods with the same name
// and parameters were added to one implementation.
type DuplicateMethodError struct {
	Component TypeName
	Method    string
}

func (e DuplicateMethodError) Error() string {
	return fmt.Sprintf("method %s already added to %s", e.Method, e.Component)
}

func (e DuplicateMethodError) Unwrap() error {
	return ErrDuplicateMethod
}

// BuildError wraps errors that occur during one stage of synthesis
type BuildError struct {
	Component TypeName
	Phase     string // "supertype", "factory-methods", "interface-methods", ...
	Cause     error
}

func (e BuildError) Error() string {
	return fmt.Sprintf("building %s failed during %s phase: %v", e.Component, e.Phase, e.Cause)
}

func (e BuildError) Unwrap() error {
	return e.Cause
}

// IsIllegalState reports whether err was caused by incorrect use of the API.
func IsIllegalState(err error) bool {
	var target IllegalStateError
	return errors.As(err, &target)
}

// IsInconsistent reports whether err was caused by an ancestor implementation
// that does not match the graph being built.
func IsInconsistent(err error) bool {
	var target ConsistencyError
	return errors.As(err, &target)
}
