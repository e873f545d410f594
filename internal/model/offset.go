package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parity is the symbolic grid alignment for one axis.
type Parity string

const (
	ParityOdd  Parity = "odd"  // A die center lands on the wafer center
	ParityEven Parity = "even" // A die boundary lands on the wafer center
)

type offsetKind int

const (
	offsetNumeric offsetKind = iota
	offsetParity
)

// Offset is the grid alignment along one axis: either a Parity or a fixed
// offset in mm. The zero value is a numeric offset of 0 mm, which aligns
// the grid exactly like ParityOdd.
type Offset struct {
	kind   offsetKind
	parity Parity
	mm     float64
}

// ParityOffset returns a symbolic offset.
func ParityOffset(p Parity) Offset {
	return Offset{kind: offsetParity, parity: p}
}

// NumericOffset returns a fixed offset in mm.
func NumericOffset(mm float64) Offset {
	return Offset{kind: offsetNumeric, mm: mm}
}

// IsParity reports whether the offset is symbolic.
func (o Offset) IsParity() bool {
	return o.kind == offsetParity
}

// Parity returns the symbolic value and true, or "" and false for numeric offsets.
func (o Offset) Parity() (Parity, bool) {
	if o.kind != offsetParity {
		return "", false
	}
	return o.parity, true
}

// MM returns the numeric value and true, or 0 and false for symbolic offsets.
func (o Offset) MM() (float64, bool) {
	if o.kind != offsetNumeric {
		return 0, false
	}
	return o.mm, true
}

// DieUnits resolves the offset to a fraction of the die dimension along
// the same axis: odd is 0, even is half a die, and a numeric offset is
// divided by the die dimension.
func (o Offset) DieUnits(dieSize float64) float64 {
	if o.kind == offsetParity {
		if o.parity == ParityEven {
			return 0.5
		}
		return 0
	}
	return o.mm / dieSize
}

func (o Offset) String() string {
	if o.kind == offsetParity {
		return string(o.parity)
	}
	return strconv.FormatFloat(o.mm, 'g', -1, 64)
}

// ParseOffset parses user input: "odd", "even", or a number in mm.
func ParseOffset(s string) (Offset, error) {
	v := strings.TrimSpace(s)
	switch Parity(strings.ToLower(v)) {
	case ParityOdd:
		return ParityOffset(ParityOdd), nil
	case ParityEven:
		return ParityOffset(ParityEven), nil
	}
	mm, err := strconv.ParseFloat(v, 64)
	if err != nil || !isFinite(mm) {
		return Offset{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}
	return NumericOffset(mm), nil
}

// OffsetFromValue converts a loosely typed value (decoded from JSON or TOML)
// into an Offset. Only the strings "odd" and "even" and finite numbers are
// accepted; numeric strings are rejected.
func OffsetFromValue(v any) (Offset, error) {
	o, ok := offsetFromValue(v)
	if !ok {
		return Offset{}, fmt.Errorf("%w: `%v`", ErrInvalidOffset, v)
	}
	return o, nil
}

func offsetFromValue(v any) (Offset, bool) {
	switch val := v.(type) {
	case Offset:
		if mm, numeric := val.MM(); numeric && !isFinite(mm) {
			return Offset{}, false
		}
		return val, true
	case Parity:
		return offsetFromValue(string(val))
	case string:
		switch Parity(val) {
		case ParityOdd, ParityEven:
			return ParityOffset(Parity(val)), true
		}
	case float64:
		return numericValue(val)
	case float32:
		return numericValue(float64(val))
	case int:
		return NumericOffset(float64(val)), true
	case int64:
		return NumericOffset(float64(val)), true
	case int32:
		return NumericOffset(float64(val)), true
	case json.Number:
		if mm, err := val.Float64(); err == nil {
			return numericValue(mm)
		}
	}
	return Offset{}, false
}

func numericValue(mm float64) (Offset, bool) {
	if !isFinite(mm) {
		return Offset{}, false
	}
	return NumericOffset(mm), true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Value returns the offset as "odd"/"even" or a float64, the inverse of
// OffsetFromValue.
func (o Offset) Value() any {
	if o.kind == offsetParity {
		return string(o.parity)
	}
	return o.mm
}

func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value())
}

func (o *Offset) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := OffsetFromValue(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// OffsetPair is the (x, y) grid alignment. Each axis is independent, so
// symbolic and numeric offsets may be mixed.
type OffsetPair struct {
	X Offset
	Y Offset
}

// NewOffsetPair builds a pair from two symbolic axes.
func NewOffsetPair(x, y Parity) OffsetPair {
	return OffsetPair{X: ParityOffset(x), Y: ParityOffset(y)}
}

func (p OffsetPair) String() string {
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}

// ParseOffsetPair parses "x,y" where each element is accepted by ParseOffset.
func ParseOffsetPair(s string) (OffsetPair, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return OffsetPair{}, fmt.Errorf("%w: %q", ErrInvalidOffsetPair, s)
	}
	x, err := ParseOffset(parts[0])
	if err != nil {
		return OffsetPair{}, err
	}
	y, err := ParseOffset(parts[1])
	if err != nil {
		return OffsetPair{}, err
	}
	return OffsetPair{X: x, Y: y}, nil
}

// OffsetPairFromValues validates a decoded container of exactly two offsets.
func OffsetPairFromValues(values []any) (OffsetPair, error) {
	if len(values) != 2 {
		return OffsetPair{}, fmt.Errorf("%w: got %d", ErrInvalidOffsetPair, len(values))
	}
	x, err := OffsetFromValue(values[0])
	if err != nil {
		return OffsetPair{}, err
	}
	y, err := OffsetFromValue(values[1])
	if err != nil {
		return OffsetPair{}, err
	}
	return OffsetPair{X: x, Y: y}, nil
}

// Values returns the pair in the loosely typed form accepted by OffsetPairFromValues.
func (p OffsetPair) Values() []any {
	return []any{p.X.Value(), p.Y.Value()}
}

func (p OffsetPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Values())
}

func (p *OffsetPair) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidOffsetPair, string(data))
	}
	parsed, err := OffsetPairFromValues(values)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// AlignmentVariants are the four canonical alignments in search order.
var AlignmentVariants = []OffsetPair{
	NewOffsetPair(ParityOdd, ParityOdd),
	NewOffsetPair(ParityOdd, ParityEven),
	NewOffsetPair(ParityEven, ParityOdd),
	NewOffsetPair(ParityEven, ParityEven),
}
