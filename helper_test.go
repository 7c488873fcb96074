package lynch

import (
	"testing"

	"github.com/rs/zerolog"
)

// testLogger writes debug logs to the test output.
func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// values builds a value map out of numbers.
func values(m map[Field]float64) map[Field]Value {
	out := make(map[Field]Value, len(m))
	for f, x := range m {
		v, ok := NumberValue(x)
		if !ok {
			panic(x)
		}
		out[f] = v
	}
	return out
}
