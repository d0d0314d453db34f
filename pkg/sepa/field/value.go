package field

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	dErrors "sepacheck/pkg/domain-errors"
	"sepacheck/pkg/sepa/validator"
)

// ValueType tags the variant held by a Value.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeText
	TypeNumber
	TypeLines
	TypeGroup
)

func (t ValueType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeNumber:
		return "number"
	case TypeLines:
		return "lines"
	case TypeGroup:
		return "group"
	default:
		return "null"
	}
}

// Value is a field value: a text, a number, a list of address lines or a
// group of named sub-fields. The zero Value is null and never valid.
type Value struct {
	typ   ValueType
	text  string
	num   decimal.Decimal
	lines []string
	group map[string]Value
}

// Text wraps a string.
func Text(s string) Value {
	return Value{typ: TypeText, text: s}
}

// Number wraps a decimal.
func Number(d decimal.Decimal) Value {
	return Value{typ: TypeNumber, num: d}
}

// Lines wraps address lines.
func Lines(lines ...string) Value {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return Value{typ: TypeLines, lines: cp}
}

// Group wraps named sub-fields, e.g. a postal address.
func Group(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{typ: TypeGroup, group: cp}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsNull() bool { return v.typ == TypeNull }

// AsText returns the string of a Text value.
func (v Value) AsText() (string, bool) {
	return v.text, v.typ == TypeText
}

// AsNumber returns the decimal of a Number value.
func (v Value) AsNumber() (decimal.Decimal, bool) {
	return v.num, v.typ == TypeNumber
}

// AsLines returns a copy of the lines of a Lines value.
func (v Value) AsLines() ([]string, bool) {
	if v.typ != TypeLines {
		return nil, false
	}
	cp := make([]string, len(v.lines))
	copy(cp, v.lines)
	return cp, true
}

// AsGroup returns a copy of the sub-fields of a Group value.
func (v Value) AsGroup() (map[string]Value, bool) {
	if v.typ != TypeGroup {
		return nil, false
	}
	cp := make(map[string]Value, len(v.group))
	for k, sub := range v.group {
		cp[k] = sub
	}
	return cp, true
}

// scalar returns the string form of a Text or Number value. Numbers are
// accepted wherever text is expected, so a numeric payment id still checks.
// Numbers with an out-of-bounds exponent have no string form.
func (v Value) scalar() (string, bool) {
	switch v.typ {
	case TypeText:
		return v.text, true
	case TypeNumber:
		if !validator.BoundedExponent(v.num) {
			return "", false
		}
		return v.num.String(), true
	default:
		return "", false
	}
}

// Equal reports deep equality. Numbers compare by value.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeText:
		return v.text == o.text
	case TypeNumber:
		return v.num.Equal(o.num)
	case TypeLines:
		if len(v.lines) != len(o.lines) {
			return false
		}
		for i := range v.lines {
			if v.lines[i] != o.lines[i] {
				return false
			}
		}
		return true
	case TypeGroup:
		if len(v.group) != len(o.group) {
			return false
		}
		for k, sub := range v.group {
			osub, ok := o.group[k]
			if !ok || !sub.Equal(osub) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON writes text as a string, numbers as JSON numbers, lines as an
// array and groups as an object with sorted keys.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeText:
		return json.Marshal(v.text)
	case TypeNumber:
		if !validator.BoundedExponent(v.num) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "number out of range")
		}
		return []byte(v.num.String()), nil
	case TypeLines:
		return json.Marshal(v.lines)
	case TypeGroup:
		keys := make([]string, 0, len(v.group))
		for k := range v.group {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := v.group[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON maps strings to Text, numbers to Number, booleans to the
// Text "true" or "false", string arrays to Lines and objects to Group.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid field value")
	}
	parsed, err := fromJSON(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromJSON(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Value{}, nil
	case string:
		return Text(x), nil
	case bool:
		if x {
			return Text("true"), nil
		}
		return Text("false"), nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return Value{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid number")
		}
		if !validator.BoundedExponent(d) {
			return Value{}, dErrors.New(dErrors.CodeBadRequest, "number out of range")
		}
		return Number(d), nil
	case []any:
		lines := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return Value{}, dErrors.New(dErrors.CodeBadRequest, "lists may only contain strings")
			}
			lines = append(lines, s)
		}
		return Value{typ: TypeLines, lines: lines}, nil
	case map[string]any:
		group := make(map[string]Value, len(x))
		for k, item := range x {
			sub, err := fromJSON(item)
			if err != nil {
				return Value{}, err
			}
			group[k] = sub
		}
		return Value{typ: TypeGroup, group: group}, nil
	default:
		return Value{}, dErrors.New(dErrors.CodeBadRequest, "unsupported field value")
	}
}
