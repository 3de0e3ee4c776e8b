package series

import (
	"encoding/json"
	"math"
)

// Value is a single point of an indicator sequence. A value is either a
// finite float or undefined (insufficient warm-up, division by zero,
// malformed input). Undefined is an explicit state, never a sentinel zero.
type Value struct {
	F       float64
	Defined bool
}

// Def returns a defined Value. Non-finite floats collapse to Undef so that
// NaN/Inf produced upstream can never masquerade as real data.
func Def(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{F: f, Defined: true}
}

// Undef returns the undefined Value.
func Undef() Value {
	return Value{}
}

// Float returns the underlying float and whether it is defined.
func (v Value) Float() (float64, bool) {
	return v.F, v.Defined
}

// Or returns the value when defined, otherwise the fallback.
func (v Value) Or(fallback float64) float64 {
	if v.Defined {
		return v.F
	}
	return fallback
}

// MarshalJSON encodes undefined as null. NaN/Infinity literals never appear
// on the wire.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.F)
}

// UnmarshalJSON decodes null as undefined.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Def(f)
	return nil
}

// Series is an indicator sequence index-aligned 1:1 with a bar history.
type Series []Value

// FromFloats wraps a raw float slice, marking the first warmup entries and
// any non-finite entries undefined. go-talib zero-fills its warm-up region,
// so the caller must pass the indicator's lookback to keep those zeros from
// leaking out as real values.
func FromFloats(vals []float64, warmup int) Series {
	s := make(Series, len(vals))
	for i, f := range vals {
		if i < warmup {
			continue
		}
		s[i] = Def(f)
	}
	return s
}

// Make returns an all-undefined series of length n.
func Make(n int) Series {
	return make(Series, n)
}

// At returns the value at index i, undefined when out of range.
func (s Series) At(i int) Value {
	if i < 0 || i >= len(s) {
		return Value{}
	}
	return s[i]
}

// Last returns the most recent value, undefined for an empty series.
func (s Series) Last() Value {
	return s.At(len(s) - 1)
}

// Window returns the trailing n values (fewer when the series is shorter).
func (s Series) Window(n int) Series {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// FirstDefined returns the index of the first defined value, or -1.
func (s Series) FirstDefined() int {
	for i, v := range s {
		if v.Defined {
			return i
		}
	}
	return -1
}

// ShiftForward moves the series k indices into the future; the first k
// entries of the result are undefined. Used for Ichimoku leading spans.
func (s Series) ShiftForward(k int) Series {
	if k <= 0 {
		return s
	}
	out := Make(len(s))
	for i := k; i < len(s); i++ {
		out[i] = s[i-k]
	}
	return out
}

// ShiftBack moves the series k indices into the past; the last k entries of
// the result are undefined. Used for the Ichimoku lagging line and DPO.
func (s Series) ShiftBack(k int) Series {
	if k <= 0 {
		return s
	}
	out := Make(len(s))
	for i := 0; i+k < len(s); i++ {
		out[i] = s[i+k]
	}
	return out
}

// OLSSlope fits an ordinary-least-squares line over the values against their
// indices, skipping undefined points. It needs at least two defined points;
// otherwise ok is false.
func OLSSlope(s Series) (slope float64, ok bool) {
	var n float64
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range s {
		if !v.Defined {
			continue
		}
		x := float64(i)
		n++
		sumX += x
		sumY += v.F
		sumXY += x * v.F
		sumXX += x * x
	}
	if n < 2 {
		return 0, false
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, false
	}
	return (n*sumXY - sumX*sumY) / denom, true
}
