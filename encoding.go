package users

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding selects how records and the index registry are serialized.
type Encoding int

const (
	MsgPack Encoding = iota
	JSON

	defaultEncoding = MsgPack
)

func (enc Encoding) String() string {
	switch enc {
	case MsgPack:
		return "msgpack"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("invalid encoding %d", int(enc))
	}
}

func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "msgpack":
		return MsgPack, nil
	case "json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", s)
	}
}

func (enc Encoding) encode(v any) ([]byte, error) {
	switch enc {
	case MsgPack:
		var buf bytes.Buffer
		e := msgpack.GetEncoder()
		e.Reset(&buf)
		err := e.Encode(v)
		msgpack.PutEncoder(e)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T using MsgPack: %w", v, err)
		}
		return buf.Bytes(), nil
	case JSON:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T to JSON: %w", v, err)
		}
		return raw, nil
	default:
		panic("unsupported encoding")
	}
}

func (enc Encoding) decode(data []byte, v any) error {
	switch enc {
	case MsgPack:
		d := msgpack.GetDecoder()
		d.Reset(bytes.NewReader(data))
		err := d.Decode(v)
		msgpack.PutDecoder(d)
		if err != nil {
			return dataErrf(data, err, "failed to decode msgpack into %T", v)
		}
		return nil
	case JSON:
		err := json.Unmarshal(data, v)
		if err != nil {
			return dataErrf(data, err, "failed to decode JSON into %T", v)
		}
		return nil
	default:
		panic("unsupported encoding")
	}
}

func (enc Encoding) encodeRecord(r *Record) ([]byte, error) {
	return enc.encode(r)
}

func (enc Encoding) decodeRecord(data []byte) (*Record, error) {
	r := new(Record)
	if err := enc.decode(data, r); err != nil {
		return nil, err
	}
	// a stored record never yields a plaintext password
	r.Password = ""
	return r, nil
}

func (enc Encoding) encodeIndexes(names []string) ([]byte, error) {
	if names == nil {
		names = []string{}
	}
	return enc.encode(names)
}

func (enc Encoding) decodeIndexes(data []byte) ([]string, error) {
	var names []string
	if err := enc.decode(data, &names); err != nil {
		return nil, err
	}
	return names, nil
}
