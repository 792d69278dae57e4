package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/junioryono/godigen"
)

// ErrCircularDependency is matched by every CircularDependencyError.
var ErrCircularDependency = errors.New("circular dependency")

// CircularDependencyError represents a cycle between the bindings of a component.
type CircularDependencyError struct {
	Node godigen.Key
	Path []godigen.Key
}

func (e CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")

	if len(e.Path) == 0 {
		b.WriteString(fmt.Sprintf("    %s\n", e.Node))
		b.WriteString("      ↓\n")
		b.WriteString(fmt.Sprintf("    %s (cycle)\n", e.Node))
	} else {
		for i, key := range e.Path {
			b.WriteString(fmt.Sprintf("    %s\n", key))
			if i < len(e.Path)-1 {
				b.WriteString("      ↓\n")
			}
		}
		b.WriteString("      ↓\n")
		b.WriteString(fmt.Sprintf("    %s (cycle)\n", e.Path[0]))
	}

	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Request a Provider of one of the keys to defer its creation\n")
	b.WriteString("  • Restructure the bindings to remove the circular relationship\n")

	return b.String()
}

func (e CircularDependencyError) Unwrap() error {
	return ErrCircularDependency
}
