package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("invalid kind %d", int(k))
	}
}

// Value is a dynamically typed field value: null, string, number, bool,
// list or nested map. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	m    Fields
}

var Null = Value{}

func String(s string) Value     { return Value{kind: KindString, str: s} }
func Number(f float64) Value    { return Value{kind: KindNumber, num: f} }
func Int(i int64) Value         { return Value{kind: KindNumber, num: float64(i)} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Map(fields Fields) Value   { return Value{kind: KindMap, m: fields} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

func Strings(items ...string) Value {
	var list []Value
	for _, s := range items {
		list = append(list, String(s))
	}
	return List(list...)
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

func (v Value) AsMap() (Fields, bool) { return v.m, v.kind == KindMap }

// Text returns the canonical text of a scalar value, as used in index keys.
// Null, lists and maps have no text.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// IsEmpty reports whether v counts as "not set" for indexing purposes.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == ""
	case KindList:
		return len(v.list) == 0
	case KindMap:
		return len(v.m) == 0
	default:
		return false
	}
}

func (v Value) String() string {
	raw, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%v: %v>", v.kind, err)
	}
	return string(raw)
}

// Field is a single named value of Fields.
type Field struct {
	Name  string
	Value Value
}

// Fields is an insertion-ordered mapping from field name to value.
type Fields []Field

func (fs Fields) Get(name string) (Value, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Null, false
}

func (fs Fields) Has(name string) bool {
	_, found := fs.Get(name)
	return found
}

// Set replaces the value of an existing field in place, or appends a new one.
func (fs *Fields) Set(name string, v Value) {
	for i, f := range *fs {
		if f.Name == name {
			(*fs)[i].Value = v
			return
		}
	}
	*fs = append(*fs, Field{name, v})
}

func (fs *Fields) Delete(name string) bool {
	for i, f := range *fs {
		if f.Name == name {
			*fs = append((*fs)[:i], (*fs)[i+1:]...)
			return true
		}
	}
	return false
}

func (fs Fields) Names() []string {
	names := make([]string, 0, len(fs))
	for _, f := range fs {
		names = append(names, f.Name)
	}
	return names
}

func (fs Fields) Clone() Fields {
	if fs == nil {
		return nil
	}
	out := make(Fields, len(fs))
	for i, f := range fs {
		out[i] = Field{f.Name, f.Value.clone()}
	}
	return out
}

func (v Value) clone() Value {
	switch v.kind {
	case KindList:
		if v.list != nil {
			items := make([]Value, len(v.list))
			for i, item := range v.list {
				items[i] = item.clone()
			}
			v.list = items
		}
	case KindMap:
		v.m = v.m.Clone()
	}
	return v
}

// maxExactInt is the largest integer a float64 represents exactly.
const maxExactInt = 1 << 53

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
	_ msgpack.CustomEncoder = Fields{}
	_ msgpack.CustomDecoder = (*Fields)(nil)
)

func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case KindNull:
		return enc.EncodeNil()
	case KindString:
		return enc.EncodeString(v.str)
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) <= maxExactInt {
			return enc.EncodeInt(int64(v.num))
		}
		return enc.EncodeFloat64(v.num)
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindList:
		if err := enc.EncodeArrayLen(len(v.list)); err != nil {
			return err
		}
		for _, item := range v.list {
			if err := item.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		return v.m.EncodeMsgpack(enc)
	default:
		return fmt.Errorf("cannot encode value of %v", v.kind)
	}
}

func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	c, err := dec.PeekCode()
	if err != nil {
		return err
	}
	switch {
	case c == msgpcode.Nil:
		*v = Null
		return dec.DecodeNil()
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		var fs Fields
		if err := fs.DecodeMsgpack(dec); err != nil {
			return err
		}
		*v = Map(fs)
		return nil
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		var items []Value
		for i := 0; i < n; i++ {
			var item Value
			if err := item.DecodeMsgpack(dec); err != nil {
				return err
			}
			items = append(items, item)
		}
		*v = List(items...)
		return nil
	}

	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}
	switch raw := raw.(type) {
	case string:
		*v = String(raw)
	case []byte:
		*v = String(string(raw))
	case bool:
		*v = Bool(raw)
	case int64:
		*v = Int(raw)
	case uint64:
		*v = Number(float64(raw))
	case float64:
		*v = Number(raw)
	case float32:
		*v = Number(float64(raw))
	default:
		return fmt.Errorf("unsupported msgpack value %T", raw)
	}
	return nil
}

func (fs Fields) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(fs)); err != nil {
		return err
	}
	for _, f := range fs {
		if err := enc.EncodeString(f.Name); err != nil {
			return err
		}
		if err := f.Value.EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

func (fs *Fields) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	var out Fields
	for i := 0; i < n; i++ {
		name, err := dec.DecodeString()
		if err != nil {
			return err
		}
		var v Value
		if err := v.DecodeMsgpack(dec); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, Field{name, v})
	}
	*fs = out
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("cannot encode %v as JSON", v.num)
		}
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			raw, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(raw)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMap:
		return v.m.MarshalJSON()
	default:
		return nil, fmt.Errorf("cannot encode value of %v", v.kind)
	}
}

func (fs Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(must(json.Marshal(f.Name)))
		buf.WriteByte(':')
		raw, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	r, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}
	*v = r
	return nil
}

func (fs *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	r, err := decodeJSONFields(dec)
	if err != nil {
		return err
	}
	*fs = r
	return nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null, err
	}
	switch tok := tok.(type) {
	case nil:
		return Null, nil
	case string:
		return String(tok), nil
	case bool:
		return Bool(tok), nil
	case json.Number:
		f, err := tok.Float64()
		if err != nil {
			return Null, err
		}
		return Number(f), nil
	case json.Delim:
		switch tok {
		case '{':
			fs, err := decodeJSONFields(dec)
			if err != nil {
				return Null, err
			}
			return Map(fs), nil
		case '[':
			var items []Value
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return Null, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Null, err
			}
			return List(items...), nil
		}
	}
	return Null, fmt.Errorf("unexpected JSON token %v", tok)
}

// decodeJSONFields reads object members up to and including the closing brace.
func decodeJSONFields(dec *json.Decoder) (Fields, error) {
	var fs Fields
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected JSON object key, got %v", tok)
		}
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		fs = append(fs, Field{name, v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fs, nil
}
