package lynch

import (
	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
)

// Resolver looks canonical fields up in raw provider records.
type Resolver struct {
	log zerolog.Logger
}

// NewResolver returns a Resolver reporting malformed values to log at debug level.
func NewResolver(log zerolog.Logger) *Resolver { return &Resolver{log: log} }

// Resolve returns the best value for f in raw: the first alias that is present,
// not null, and coercible to the kind of f. It never fails; malformed values are
// skipped like missing ones.
func Resolve(raw RawRecord, f Field) (Value, bool) {
	return (&Resolver{log: zerolog.Nop()}).Resolve(raw, f)
}

// Resolve is like the package level Resolve but logs malformed values.
func (r *Resolver) Resolve(raw RawRecord, f Field) (Value, bool) {
	if !f.Valid() || raw.Data == nil {
		return Value{}, false
	}
	for _, alias := range aliases[f] {
		x, ok := lookup(raw.Data, alias)
		if !ok || x == nil {
			continue
		}
		v, err := coerceValue(f.Kind(), x)
		if err != nil {
			r.log.Debug().
				Str("provider", raw.Provider).
				Str("symbol", raw.Symbol).
				Str("field", f.String()).
				Str("alias", alias).
				Err(err).
				Msg("skipping malformed value")
			continue
		}
		return v, true
	}
	return Value{}, false
}

// lookup reads a top level key, or evaluates a JSONPath alias.
func lookup(data map[string]any, alias string) (any, bool) {
	if !isPath(alias) {
		x, ok := data[alias]
		return x, ok
	}
	x, err := jsonpath.Get(alias, data)
	if err != nil {
		// unknown key somewhere along the path
		return nil, false
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if list, ok := x.([]any); ok {
		if len(list) == 0 {
			return nil, false
		}
		x = list[0]
	}
	return x, true
}

// ResolveAll resolves every canonical field from raw.
func (r *Resolver) ResolveAll(raw RawRecord) map[Field]Value {
	values := make(map[Field]Value)
	for _, f := range Fields() {
		if v, ok := r.Resolve(raw, f); ok {
			values[f] = v
		}
	}
	return values
}
