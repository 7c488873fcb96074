package lynch

import (
	"errors"
	"fmt"
)

// ErrMalformedValue is returned by Coerce when a raw value cannot be read as a
// finite number. Callers treat it exactly like a missing value.
var ErrMalformedValue = errors.New("malformed value")

// ErrNoUsableData is returned by Reconcile when none of the raw records resolves
// a single canonical field. Batch callers skip the symbol and continue.
var ErrNoUsableData = errors.New("no usable provider data")

// ConfigurationError reports a programming error in the static tables: a rule
// referencing a field nobody can fill, or an alias that does not compile.
type ConfigurationError struct {
	Table  string // "rules" or "aliases"
	Field  Field
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s configuration for field %q: %s", e.Table, e.Field, e.Reason)
}
