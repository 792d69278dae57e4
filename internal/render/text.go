package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/junioryono/godigen"
)

// WriteText writes impl as Java-like source. Each class is preceded by a
// comment holding its handle; classes extending a base implementation name
// the handle of that base.
func WriteText(w io.Writer, impl *godigen.Implementation) error {
	tw := &textWriter{w: w}
	tw.implementation(impl, 0)
	return tw.err
}

type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(depth int, format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (t *textWriter) implementation(impl *godigen.Implementation, depth int) {
	t.line(depth, "// %s: %s", impl.ID(), impl.Descriptor())
	if superclass, ok := impl.SuperclassImplementation(); ok {
		t.line(depth, "// extends %s", superclass.ID())
	}

	header := prefix(impl.Modifiers()) + "class " + impl.Name().Simple()
	if superclass, ok := impl.Superclass(); ok {
		header += " extends " + superclass.Name
	}
	if supertypes := impl.Supertypes(); len(supertypes) > 0 {
		header += " implements " + joinTypes(supertypes)
	}
	t.line(depth, "%s {", header)

	for _, kind := range godigen.TypeKinds {
		for _, spec := range impl.Types(kind) {
			t.typeSpec(spec, depth+1)
		}
	}
	for _, m := range impl.AllMethods() {
		t.method(m, impl.Name().Simple(), depth+1)
	}
	for _, child := range impl.Children() {
		t.line(0, "")
		t.implementation(child, depth+1)
	}

	t.line(depth, "}")
}

func (t *textWriter) typeSpec(spec *godigen.TypeSpec, depth int) {
	header := prefix(spec.Modifiers) + "class " + spec.Name.Simple()
	if len(spec.Supertypes) > 0 {
		header += " implements " + joinTypes(spec.Supertypes)
	}
	t.line(depth, "%s {", header)
	for _, m := range spec.Methods {
		t.method(m, spec.Name.Simple(), depth+1)
	}
	t.line(depth, "}")
}

func (t *textWriter) method(m *godigen.MethodSpec, className string, depth int) {
	for _, a := range m.Annotations {
		t.line(depth, "@%s", a)
	}

	params := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = p.String()
	}

	header := prefix(m.Modifiers)
	switch {
	case m.IsConstructor():
		header += className
	case m.Returns.IsZero():
		header += "void " + m.Name
	default:
		header += m.Returns.Name + " " + m.Name
	}
	header += "(" + strings.Join(params, ", ") + ")"

	if m.Modifiers.Has(godigen.Abstract) {
		t.line(depth, "%s;", header)
		return
	}
	t.line(depth, "%s {", header)
	for _, s := range m.Body {
		t.line(depth+1, "%s;", s)
	}
	t.line(depth, "}")
}

func prefix(m godigen.Modifiers) string {
	if s := m.String(); s != "" {
		return s + " "
	}
	return ""
}
