package godigen_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junioryono/godigen"
)

func TestSentinelErrors(t *testing.T) {
	sentinelErrors := []struct {
		err     error
		message string
	}{
		{godigen.ErrGraphNil, "binding graph cannot be nil"},
		{godigen.ErrAheadOfTimeRequired, "abstract component implementations require ahead-of-time subcomponents"},
		{godigen.ErrAlreadyBuilt, "component implementation has already been built"},
		{godigen.ErrSuperclassNotBuilt, "superclass implementation has not been built"},
		{godigen.ErrBuilderRequired, "root component requires a component builder"},
		{godigen.ErrResolverRequired, "a graph resolver is required to rebuild a base implementation"},
		{godigen.ErrNoConstructorSource, "expected either a component builder or factory method but found neither"},
		{godigen.ErrMissingChildImplementation, "cannot find abstract implementation of child component"},
	}

	for _, tt := range sentinelErrors {
		t.Run(tt.message, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestTypedErrors(t *testing.T) {
	app := godigen.TypeName{Package: "p", Name: "GodigenApp"}

	tests := []struct {
		name     string
		err      error
		expected string
		cause    error
	}{
		{
			name:     "kind",
			err:      godigen.KindError{Value: "module"},
			expected: "invalid component kind or policy: module",
		},
		{
			name:     "illegal state",
			err:      godigen.IllegalStateError{Component: app, Operation: "build", Cause: godigen.ErrAlreadyBuilt},
			expected: "illegal state during build of p.GodigenApp: component implementation has already been built",
			cause:    godigen.ErrAlreadyBuilt,
		},
		{
			name:     "invariant with detail",
			err:      godigen.InvariantError{Component: app, Detail: "deriving constructor parameters", Cause: godigen.ErrNoConstructorSource},
			expected: "invariant violated for p.GodigenApp: deriving constructor parameters: expected either a component builder or factory method but found neither",
			cause:    godigen.ErrNoConstructorSource,
		},
		{
			name:     "invariant without detail",
			err:      godigen.InvariantError{Component: app, Cause: godigen.ErrNoConstructorSource},
			expected: "invariant violated for p.GodigenApp: expected either a component builder or factory method but found neither",
			cause:    godigen.ErrNoConstructorSource,
		},
		{
			name:     "duplicate method",
			err:      godigen.DuplicateMethodError{Component: app, Method: "get()"},
			expected: "method get() already added to p.GodigenApp",
			cause:    godigen.ErrDuplicateMethod,
		},
		{
			name:     "build",
			err:      godigen.BuildError{Component: app, Phase: "constructor", Cause: godigen.ErrNoConstructorSource},
			expected: "building p.GodigenApp failed during constructor phase: expected either a component builder or factory method but found neither",
			cause:    godigen.ErrNoConstructorSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			if tt.cause != nil {
				assert.ErrorIs(t, tt.err, tt.cause)
				assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.cause)
			}
		})
	}
}

func TestConsistencyError(t *testing.T) {
	err := godigen.ConsistencyError{
		Child:    godigen.TypeName{Name: "Leaf"},
		Ancestor: godigen.TypeName{Name: "GodigenMid"},
		Current:  godigen.TypeName{Name: "GodigenApp.MidImpl"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "cannot find abstract implementation of Leaf within GodigenMid while generating implementation within GodigenApp.MidImpl")
	assert.Contains(t, msg, "Regenerate the base implementation GodigenMid")
	assert.ErrorIs(t, err, godigen.ErrMissingChildImplementation)
	assert.True(t, godigen.IsInconsistent(fmt.Errorf("outer: %w", err)))
	assert.False(t, godigen.IsInconsistent(godigen.ErrGraphNil))
}

func TestIsIllegalState(t *testing.T) {
	wrapped := godigen.BuildError{
		Phase: "child-components",
		Cause: godigen.IllegalStateError{Operation: "resolve", Cause: godigen.ErrResolverRequired},
	}

	assert.True(t, godigen.IsIllegalState(wrapped))
	assert.True(t, errors.Is(wrapped, godigen.ErrResolverRequired))
	assert.False(t, godigen.IsIllegalState(godigen.InvariantError{Cause: godigen.ErrNoConstructorSource}))
}
