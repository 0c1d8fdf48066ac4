package payload

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"io"
)

// Decode parses a single JSON document into a Value, keeping object
// members in document order.
func Decode(data []byte) (Value, error) {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("payload: trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *stdjson.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case stdjson.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	case stdjson.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return List(items...), nil
		case '{':
			members := []Member{}
			index := map[string]int{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("payload: unexpected object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				// a repeated key keeps its first position and takes the last value
				if i, seen := index[key]; seen {
					members[i].Value = val
					continue
				}
				index[key] = len(members)
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Map(members...), nil
		}
	}
	return Value{}, fmt.Errorf("payload: unexpected token %v", tok)
}
