package testutil

import (
	"github.com/junioryono/godigen"
)

// TestPackage is the package of every type created by this package.
const TestPackage = "example.com/app"

// Type returns the type name in TestPackage.
func Type(name string) godigen.TypeName {
	return godigen.TypeName{Package: TestPackage, Name: name}
}

// Key returns the unqualified key of Type(name).
func Key(name string) godigen.Key {
	return godigen.NewKey(Type(name))
}

// Keys returns the keys of names.
func Keys(names ...string) []godigen.Key {
	keys := make([]godigen.Key, len(names))
	for i, n := range names {
		keys[i] = Key(n)
	}
	return keys
}

// Param returns a parameter of type Type(typeName).
func Param(name, typeName string) godigen.ParameterSpec {
	return godigen.ParameterSpec{Name: name, Type: Type(typeName)}
}
