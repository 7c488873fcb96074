package lynch

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a present canonical value: a finite number, a text or a flag.
//
// Absence is never encoded in a Value; functions return (Value, bool) instead.
type Value struct {
	kind Kind
	num  float64
	str  string
	flag bool
}

// NumberValue returns a numeric value. ok is false when x is NaN or infinite.
func NumberValue(x float64) (v Value, ok bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Value{}, false
	}
	return Value{kind: Number, num: x}, true
}

// TextValue returns a text value.
func TextValue(s string) Value { return Value{kind: Text, str: s} }

// FlagValue returns a boolean value.
func FlagValue(b bool) Value { return Value{kind: Flag, flag: b} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric value; ok is false for non numeric values.
func (v Value) Float() (x float64, ok bool) { return v.num, v.kind == Number }

// Text returns the text value; ok is false for non text values.
func (v Value) Text() (s string, ok bool) { return v.str, v.kind == Text }

// Bool returns the flag value; ok is false for non flag values.
func (v Value) Bool() (b bool, ok bool) { return v.flag, v.kind == Flag }

func (v Value) String() string {
	switch v.kind {
	case Number:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case Text:
		return v.str
	case Flag:
		return strconv.FormatBool(v.flag)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Number:
		return json.Marshal(v.num)
	case Text:
		return json.Marshal(v.str)
	case Flag:
		return json.Marshal(v.flag)
	}
	return nil, fmt.Errorf("cannot marshal value of kind %v", v.kind)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	switch x := x.(type) {
	case float64:
		n, ok := NumberValue(x)
		if !ok {
			return fmt.Errorf("non finite number %v", x)
		}
		*v = n
	case string:
		*v = TextValue(x)
	case bool:
		*v = FlagValue(x)
	default:
		return fmt.Errorf("unsupported value %s", b)
	}
	return nil
}

var _ json.Marshaler = Value{}
var _ json.Unmarshaler = (*Value)(nil)
