package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	GameVarPrefix = "GAMEVAR:"
	RangePrefix   = "RANGE:"
)

var (
	ErrMalformedGameVar = errors.New("malformed game variable")
	ErrMalformedRange   = errors.New("malformed range")
)

// Kind identifies which encoding a Value currently holds.
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindString
	KindBool
	KindVariable
	KindGameVar
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindVariable:
		return "variable"
	case KindGameVar:
		return "gamevar"
	case KindRange:
		return "range"
	default:
		return "none"
	}
}

// GameVar references a runtime game value, scaled by Multiplier and shifted by Offset.
type GameVar struct {
	ID         string
	Multiplier float64
	Offset     float64
}

// Range is an inclusive random range.
type Range struct {
	Min float64
	Max float64
}

// Value is a parameter value. Exactly one encoding is active at a time.
type Value struct {
	kind    Kind
	number  float64
	str     string
	boolean bool
	gameVar GameVar
	rng     Range
}

func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Variable references a user-defined variable by name.
func Variable(name string) Value { return Value{kind: KindVariable, str: name} }

func GameVariable(id string, multiplier, offset float64) Value {
	return Value{kind: KindGameVar, gameVar: GameVar{ID: id, Multiplier: multiplier, Offset: offset}}
}

func RangeOf(lo, hi float64) Value {
	return Value{kind: KindRange, rng: Range{Min: lo, Max: hi}}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsZero() bool { return v.kind == KindNone }

// Text returns the literal string or variable name.
func (v Value) Text() string { return v.str }

func (v Value) Bool() bool { return v.boolean }

func (v Value) GameVar() GameVar { return v.gameVar }

func (v Value) Range() Range { return v.rng }

// VariableName returns the referenced variable and whether v is a reference.
func (v Value) VariableName() (string, bool) {
	return v.str, v.kind == KindVariable
}

// Float returns the numeric literal. Numeric strings count, editor inputs
// often arrive as text.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.number, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Malformed reports whether v is a literal string that carries a tagged prefix
// but could not be decoded.
func (v Value) Malformed() bool {
	return v.kind == KindString && (strings.HasPrefix(v.str, GameVarPrefix) || strings.HasPrefix(v.str, RangePrefix))
}

// String encodes v in the editor's string form.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatFloat(v.number)
	case KindString, KindVariable:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindGameVar:
		return GameVarPrefix + v.gameVar.ID + "|" + formatFloat(v.gameVar.Multiplier) + "|" + formatFloat(v.gameVar.Offset)
	case KindRange:
		return RangePrefix + formatFloat(v.rng.Min) + "|" + formatFloat(v.rng.Max)
	default:
		return ""
	}
}

// ParseValue decodes the tagged GAMEVAR: and RANGE: encodings. Any other input
// is a literal string.
func ParseValue(s string) (Value, error) {
	switch {
	case strings.HasPrefix(s, GameVarPrefix):
		return parseGameVar(strings.TrimPrefix(s, GameVarPrefix))
	case strings.HasPrefix(s, RangePrefix):
		return parseRange(strings.TrimPrefix(s, RangePrefix))
	default:
		return String(s), nil
	}
}

func parseGameVar(payload string) (Value, error) {
	parts := strings.Split(payload, "|")
	if len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
		return Value{}, fmt.Errorf("%w: %q", ErrMalformedGameVar, payload)
	}
	multiplier, offset := 1.0, 0.0
	var err error
	if len(parts) > 1 && parts[1] != "" {
		if multiplier, err = parseFinite(parts[1]); err != nil {
			return Value{}, fmt.Errorf("%w: multiplier %q", ErrMalformedGameVar, parts[1])
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if offset, err = parseFinite(parts[2]); err != nil {
			return Value{}, fmt.Errorf("%w: offset %q", ErrMalformedGameVar, parts[2])
		}
	}
	return GameVariable(strings.TrimSpace(parts[0]), multiplier, offset), nil
}

func parseRange(payload string) (Value, error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 2 {
		return Value{}, fmt.Errorf("%w: %q", ErrMalformedRange, payload)
	}
	lo, err := parseFinite(parts[0])
	if err != nil {
		return Value{}, fmt.Errorf("%w: min %q", ErrMalformedRange, parts[0])
	}
	hi, err := parseFinite(parts[1])
	if err != nil {
		return Value{}, fmt.Errorf("%w: max %q", ErrMalformedRange, parts[1])
	}
	if lo > hi {
		return Value{}, fmt.Errorf("%w: min %v exceeds max %v", ErrMalformedRange, lo, hi)
	}
	return RangeOf(lo, hi), nil
}

// parseFinite parses a float and rejects NaN and infinities.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNone:
		return []byte("null"), nil
	case KindNumber:
		return json.Marshal(v.number)
	case KindBool:
		return json.Marshal(v.boolean)
	default:
		return json.Marshal(v.String())
	}
}

// UnmarshalJSON keeps malformed tagged strings as literals so validation can
// report them instead of failing the whole document.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch typed := raw.(type) {
	case nil:
		*v = Value{}
	case float64:
		*v = Number(typed)
	case bool:
		*v = Bool(typed)
	case string:
		parsed, err := ParseValue(typed)
		if err != nil {
			parsed = String(typed)
		}
		*v = parsed
	default:
		return fmt.Errorf("unsupported parameter value %s", string(data))
	}
	return nil
}

// Params maps parameter ids to values.
type Params map[string]Value

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Text returns the string form of the named param, or "" when unset.
func (p Params) Text(id string) string {
	if v, ok := p[id]; ok {
		return v.String()
	}
	return ""
}
