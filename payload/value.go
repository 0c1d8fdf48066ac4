// Package payload models submitted entry bodies as an ordered JSON value
// tree and flattens them into dotted placeholder paths.
package payload

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

type Kind int

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ListKind
	MapKind
)

// Value is one node of a JSON document. Map members keep document order.
type Value struct {
	kind    Kind
	boolean bool
	text    string
	list    []Value
	members []Member
}

type Member struct {
	Key   string
	Value Value
}

func Null() Value                 { return Value{} }
func Bool(b bool) Value           { return Value{kind: BoolKind, boolean: b} }
func String(s string) Value       { return Value{kind: StringKind, text: s} }
func List(items ...Value) Value   { return Value{kind: ListKind, list: items} }
func Map(members ...Member) Value { return Value{kind: MapKind, members: members} }

// Number takes the literal JSON text of a number.
func Number(text string) Value { return Value{kind: NumberKind, text: text} }

func Int(n int64) Value { return Number(strconv.FormatInt(n, 10)) }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == NullKind }

func (v Value) Len() int {
	switch v.kind {
	case ListKind:
		return len(v.list)
	case MapKind:
		return len(v.members)
	}
	return 0
}

func (v Value) Items() []Value { return v.list }

func (v Value) Members() []Member { return v.members }

// Get returns the member named key of a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != MapKind {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// String renders a scalar the way placeholders show it: booleans as
// true/false, numbers without trailing zeros, strings trimmed, null and
// containers as "".
func (v Value) String() string {
	switch v.kind {
	case BoolKind:
		if v.boolean {
			return "true"
		}
		return "false"
	case NumberKind:
		return formatNumber(v.text)
	case StringKind:
		return strings.TrimSpace(v.text)
	}
	return ""
}

// Truthy interprets form values used as flags.
func (v Value) Truthy() bool {
	switch v.kind {
	case BoolKind:
		return v.boolean
	case NumberKind:
		f, err := strconv.ParseFloat(v.text, 64)
		return err == nil && f != 0
	case StringKind:
		switch strings.ToLower(strings.TrimSpace(v.text)) {
		case "1", "true", "yes", "on":
			return true
		}
	}
	return false
}

func formatNumber(text string) string {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case NullKind:
		buf.WriteString("null")
	case BoolKind:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case NumberKind:
		buf.WriteString(v.text)
	case StringKind:
		b, err := json.Marshal(v.text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case ListKind:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case MapKind:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
