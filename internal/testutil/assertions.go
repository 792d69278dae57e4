package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/godigen"
)

// MethodNames returns the names of methods, in order.
func MethodNames(methods []*godigen.MethodSpec) []string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	return names
}

// Statements returns the body of m as strings.
func Statements(m *godigen.MethodSpec) []string {
	out := make([]string, len(m.Body))
	for i, s := range m.Body {
		out[i] = s.String()
	}
	return out
}

// RequireMethod returns the method named name and fails the test if there is none
func RequireMethod(t *testing.T, impl *godigen.Implementation, name string) *godigen.MethodSpec {
	t.Helper()
	m, ok := impl.Method(name)
	require.True(t, ok, "expected method %s on %s, have %v", name, impl.Name(), MethodNames(impl.AllMethods()))
	return m
}

// AssertNoMethod checks that impl has no method named name
func AssertNoMethod(t *testing.T, impl *godigen.Implementation, name string) {
	t.Helper()
	_, ok := impl.Method(name)
	assert.False(t, ok, "unexpected method %s on %s", name, impl.Name())
}

// RequireConstructor returns the constructor of impl
func RequireConstructor(t *testing.T, impl *godigen.Implementation) *godigen.MethodSpec {
	t.Helper()
	constructors := impl.Methods(godigen.KindConstructor)
	require.Len(t, constructors, 1, "expected exactly one constructor on %s", impl.Name())
	return constructors[0]
}

// AssertStatements checks the body of m, printing a diff on mismatch
func AssertStatements(t *testing.T, want []string, m *godigen.MethodSpec) {
	t.Helper()
	if diff := cmp.Diff(want, Statements(m)); diff != "" {
		t.Errorf("%s body mismatch (-want +got):\n%s", m.Name, diff)
	}
}

// AssertMaxStatements checks that no method of kind holds more than max statements
func AssertMaxStatements(t *testing.T, impl *godigen.Implementation, kind godigen.MethodKind, max int) {
	t.Helper()
	for _, m := range impl.Methods(kind) {
		assert.LessOrEqual(t, len(m.Body), max, "%s has %d statements", m.Name, len(m.Body))
	}
}

// RequireChild returns the child implementation with the given simple name
func RequireChild(t *testing.T, impl *godigen.Implementation, simple string) *godigen.Implementation {
	t.Helper()
	for _, child := range impl.Children() {
		if child.Name().Simple() == simple {
			return child
		}
	}
	var names []string
	for _, child := range impl.Children() {
		names = append(names, child.Name().Simple())
	}
	require.FailNow(t, "child not found", "expected child %s of %s, have %v", simple, impl.Name(), names)
	return nil
}

// AddInitializations adds n numbered initialization statements to impl
func AddInitializations(t *testing.T, impl *godigen.Implementation, n int) {
	t.Helper()
	for i := range n {
		require.NoError(t, impl.AddInitialization(godigen.CodeBlock("init"+itoa(i))))
	}
}

// AddProducerKeys registers n numbered cancellable producer keys on impl
func AddProducerKeys(impl *godigen.Implementation, n int) {
	for i := range n {
		impl.AddCancellableProducerKey(Key("P" + itoa(i)))
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b []byte
	for ; i > 0; i /= 10 {
		b = append([]byte{byte('0' + i%10)}, b...)
	}
	return string(b)
}
