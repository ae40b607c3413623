package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	// KindOther covers objects and arrays holding anything but strings.
	KindOther
)

func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "other"
	}
}

// Value is one submitted field value: string, number, bool or list of strings.
// The zero Value is absent.
type Value struct {
	kind  ValueKind
	str   string
	num   float64
	flag  bool
	items []string
	raw   json.RawMessage
	array bool
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, flag: b} }

func ListValue(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{kind: KindList, items: items}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }

func (v Value) AsList() ([]string, bool) { return v.items, v.kind == KindList }

// IsArray reports whether the value arrived as a JSON array, including arrays
// with non-string elements.
func (v Value) IsArray() bool {
	return v.kind == KindList || (v.kind == KindOther && v.array)
}

// IsEmpty reports whether the value counts as not provided: absent, "", an
// empty list or false.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindString:
		return v.str == ""
	case KindList:
		return len(v.items) == 0
	case KindBool:
		return !v.flag
	}
	return false
}

// String renders the value the way it is matched by search and written to CSV.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindList:
		return strings.Join(v.items, ",")
	case KindOther:
		return string(v.raw)
	}
	return ""
}

func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.flag == other.flag
	case KindList:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if v.items[i] != other.items[i] {
				return false
			}
		}
		return true
	case KindOther:
		return bytes.Equal(v.raw, other.raw)
	}
	return true
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	case KindList:
		return json.Marshal(v.items)
	case KindOther:
		return v.raw, nil
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty value")
	}

	switch trimmed[0] {
	case 'n':
		*v = Value{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return err
		}
		items := make([]string, 0, len(elems))
		for _, elem := range elems {
			var s string
			if err := json.Unmarshal(elem, &s); err != nil || bytes.TrimSpace(elem)[0] != '"' {
				*v = Value{kind: KindOther, raw: append(json.RawMessage(nil), trimmed...), array: true}
				return nil
			}
			items = append(items, s)
		}
		*v = ListValue(items...)
		return nil
	case '{':
		if !json.Valid(trimmed) {
			return errors.New("invalid object value")
		}
		*v = Value{kind: KindOther, raw: append(json.RawMessage(nil), trimmed...)}
		return nil
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		// Well-formed but outside float64 range.
		if json.Valid(trimmed) {
			*v = Value{kind: KindOther, raw: append(json.RawMessage(nil), trimmed...)}
			return nil
		}
		return fmt.Errorf("unsupported value %s: %w", string(trimmed), err)
	}
	*v = NumberValue(n)
	return nil
}

// SubmissionData maps field identifiers to submitted values.
type SubmissionData map[string]Value

func (d SubmissionData) Get(id string) Value {
	if d == nil {
		return Value{}
	}
	return d[id]
}

func (d SubmissionData) Clone() SubmissionData {
	if d == nil {
		return nil
	}
	out := make(SubmissionData, len(d))
	for k, v := range d {
		if v.kind == KindList {
			v.items = append([]string{}, v.items...)
		}
		out[k] = v
	}
	return out
}

func (d SubmissionData) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *SubmissionData) Scan(src any) error {
	var b []byte
	switch s := src.(type) {
	case nil:
		*d = SubmissionData{}
		return nil
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return fmt.Errorf("cannot scan %T into SubmissionData", src)
	}
	data := SubmissionData{}
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}
	*d = data
	return nil
}
