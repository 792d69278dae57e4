package godigen

import (
	"fmt"
	"strings"
)

// Modifiers is a set of declaration modifiers for generated types and methods.
type Modifiers uint8

const (
	Public Modifiers = 1 << iota
	Protected
	Private
	Static
	Final
	Abstract
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
}

// Has reports whether all modifiers in m2 are set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// String returns the modifiers in declaration order.
func (m Modifiers) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m.Has(mn.mod) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// CodeBlock is an opaque fragment of target code produced by a collaborator.
type CodeBlock string

// ParameterSpec is a generated method parameter.
type ParameterSpec struct {
	Name  string
	Type  TypeName
	Final bool
}

// String returns a string representation of the parameter
func (p ParameterSpec) String() string {
	s := p.Type.String() + " " + p.Name
	if p.Final {
		return "final " + s
	}
	return s
}

// parameterNames returns the names of params, used to forward them as arguments.
func parameterNames(params []ParameterSpec) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// finalParameters returns copies of params marked final.
func finalParameters(params []ParameterSpec) []ParameterSpec {
	out := make([]ParameterSpec, len(params))
	for i, p := range params {
		p.Final = true
		out[i] = p
	}
	return out
}

// Statement is one statement of a generated method body.
type Statement interface {
	fmt.Stringer
	isStatement()
}

// Fragment is a statement supplied verbatim by a collaborator.
type Fragment struct {
	Code CodeBlock
}

// SuperConstructorCall invokes the superclass constructor.
type SuperConstructorCall struct {
	Args []string
}

// SuperMethodCall invokes the superclass implementation of a method.
type SuperMethodCall struct {
	Method string
	Args   []string
}

// MethodCall invokes a method of the type being generated.
type MethodCall struct {
	Method string
	Args   []string
}

// EnclosingMethodCall invokes a method on the enclosing instance of type Enclosing.
type EnclosingMethodCall struct {
	Enclosing TypeName
	Method    string
	Args      []string
}

// CancelProducer cancels the asynchronous computation referenced by Handle.
type CancelProducer struct {
	Handle       CodeBlock
	MayInterrupt string
}

// ReturnNew returns a newly constructed instance of Type.
type ReturnNew struct {
	Type TypeName
	Args []string
}

// ReturnBuild returns the result of building a fresh Builder.
type ReturnBuild struct {
	Builder     TypeName
	BuildMethod string
}

func (Fragment) isStatement()             {}
func (SuperConstructorCall) isStatement() {}
func (SuperMethodCall) isStatement()      {}
func (MethodCall) isStatement()           {}
func (EnclosingMethodCall) isStatement()  {}
func (CancelProducer) isStatement()       {}
func (ReturnNew) isStatement()            {}
func (ReturnBuild) isStatement()          {}

func (s Fragment) String() string { return string(s.Code) }

func (s SuperConstructorCall) String() string {
	return fmt.Sprintf("super(%s)", strings.Join(s.Args, ", "))
}

func (s SuperMethodCall) String() string {
	return fmt.Sprintf("super.%s(%s)", s.Method, strings.Join(s.Args, ", "))
}

func (s MethodCall) String() string {
	return fmt.Sprintf("%s(%s)", s.Method, strings.Join(s.Args, ", "))
}

func (s EnclosingMethodCall) String() string {
	return fmt.Sprintf("%s.this.%s(%s)", s.Enclosing.Name, s.Method, strings.Join(s.Args, ", "))
}

func (s CancelProducer) String() string {
	return fmt.Sprintf("producers.Cancel(%s, %s)", s.Handle, s.MayInterrupt)
}

func (s ReturnNew) String() string {
	return fmt.Sprintf("return new %s(%s)", s.Type.Name, strings.Join(s.Args, ", "))
}

func (s ReturnBuild) String() string {
	return fmt.Sprintf("return new %s().%s()", s.Builder.Name, s.BuildMethod)
}

// MethodSpec is a generated method or constructor.
type MethodSpec struct {
	// Name is empty for constructors.
	Name        string
	Modifiers   Modifiers
	Annotations []string
	Parameters  []ParameterSpec

	// Returns is the zero TypeName for methods without a result.
	Returns TypeName
	Body    []Statement
}

// AddStatement appends s to the method body.
func (m *MethodSpec) AddStatement(s Statement) {
	m.Body = append(m.Body, s)
}

// IsConstructor reports whether m is a constructor.
func (m *MethodSpec) IsConstructor() bool {
	return m.Name == ""
}

// Signature returns the structural signature of m.
func (m *MethodSpec) Signature() MethodSignature {
	return newMethodSignature(m.Name, m.Parameters, m.Returns)
}

// String returns the method header, for diagnostics.
func (m *MethodSpec) String() string {
	params := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = p.String()
	}
	name := m.Name
	if m.IsConstructor() {
		name = "<init>"
	}
	header := fmt.Sprintf("%s(%s)", name, strings.Join(params, ", "))
	if mods := m.Modifiers.String(); mods != "" {
		header = mods + " " + header
	}
	if !m.Returns.IsZero() {
		header += " " + m.Returns.String()
	}
	return header
}

// TypeSpec is a generated nested type, such as a builder.
type TypeSpec struct {
	Name       TypeName
	Modifiers  Modifiers
	Supertypes []TypeName
	Methods    []*MethodSpec
}

// MethodSignature is the structural signature of a method: its name, parameter
// types and return type. It is comparable and used as a map key.
type MethodSignature struct {
	Name       string
	Parameters string
	Returns    TypeName
}

func newMethodSignature(name string, params []ParameterSpec, returns TypeName) MethodSignature {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type.String()
	}
	return MethodSignature{
		Name:       name,
		Parameters: strings.Join(types, ","),
		Returns:    returns,
	}
}

// String returns a string representation of the signature
func (s MethodSignature) String() string {
	return fmt.Sprintf("%s(%s) %s", s.Name, s.Parameters, s.Returns)
}
