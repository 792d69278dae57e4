package expressions

import (
	"errors"
	"fmt"

	"github.com/junioryono/godigen"
)

// ErrMissingBinding is returned when a requested key is bound neither by a
// component nor by any of its ancestors.
var ErrMissingBinding = errors.New("missing binding")

var _ error = MissingBindingError{}

// MissingBindingError identifies the key that could not be resolved.
type MissingBindingError struct {
	Key       godigen.Key
	Component godigen.TypeName
}

func (e MissingBindingError) Error() string {
	return fmt.Sprintf("%s is not bound in %s or any of its ancestors", e.Key, e.Component)
}

func (e MissingBindingError) Unwrap() error {
	return ErrMissingBinding
}
