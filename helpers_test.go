package godigen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/junioryono/godigen"
	"github.com/junioryono/godigen/internal/testutil"
)

// synthesize builds g with a factory using nested builders and the fake
// expressions, failing the test on error.
func synthesize(t *testing.T, exprs *testutil.FakeExpressionsFactory, g *godigen.BindingGraph, opts ...godigen.Option) *godigen.Implementation {
	t.Helper()
	impl, err := newFactory(exprs, opts...).CreateImplementation(g)
	require.NoError(t, err)
	require.True(t, impl.IsDone())
	return impl
}

func newFactory(exprs *testutil.FakeExpressionsFactory, opts ...godigen.Option) *godigen.Factory {
	opts = append([]godigen.Option{godigen.WithBuilders(testutil.NestedBuilders())}, opts...)
	return godigen.NewFactory(exprs, opts...)
}

// truncatingResolver resolves subcomponents to their own graph without the
// parent's factory method, recording what it was asked for.
type truncatingResolver struct {
	graphs   map[godigen.TypeName]*godigen.BindingGraph
	resolved []string
}

func newTruncatingResolver(root *godigen.BindingGraph) *truncatingResolver {
	r := &truncatingResolver{graphs: make(map[godigen.TypeName]*godigen.BindingGraph)}
	root.Walk(func(g *godigen.BindingGraph) {
		r.graphs[g.Component.TypeName] = g
	})
	return r
}

func (r *truncatingResolver) Resolve(component *godigen.ComponentDescriptor) (*godigen.BindingGraph, error) {
	r.resolved = append(r.resolved, component.TypeName.Name)
	g, ok := r.graphs[component.TypeName]
	if !ok {
		return nil, testutil.ErrInjected
	}
	truncated := *g
	truncated.FactoryMethod = nil
	return &truncated, nil
}
