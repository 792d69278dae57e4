// Package render writes component implementation trees for people and tools.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/junioryono/godigen"
)

// Format selects the output of Write.
type Format string

const (
	Text Format = "text"
	DOT  Format = "dot"
	JSON Format = "json"
)

// ErrUnknownFormat is returned for formats other than text, dot and json.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported formats.
var Formats = []Format{Text, DOT, JSON}

// ParseFormat parses a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case Text, DOT, JSON:
		return f, nil
	case "":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Write writes impl in format f.
func Write(w io.Writer, impl *godigen.Implementation, f Format) error {
	switch f {
	case Text, "":
		return WriteText(w, impl)
	case DOT:
		return WriteDOT(w, impl)
	case JSON:
		return WriteJSON(w, impl)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// walk calls fn for impl and its children, parents first.
func walk(impl *godigen.Implementation, fn func(*godigen.Implementation)) {
	fn(impl)
	for _, child := range impl.Children() {
		walk(child, fn)
	}
}

func joinTypes(types []godigen.TypeName) string {
	s := make([]string, len(types))
	for i, t := range types {
		s[i] = t.Name
	}
	return strings.Join(s, ", ")
}
