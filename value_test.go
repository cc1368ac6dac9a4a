package users

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestValue_Text(t *testing.T) {
	tests := []struct {
		v    Value
		text string
		ok   bool
	}{
		{String("abc"), "abc", true},
		{Int(100), "100", true},
		{Number(1.5), "1.5", true},
		{Number(-0.25), "-0.25", true},
		{Bool(false), "false", true},
		{Null, "", false},
		{Strings("a"), "", false},
		{Map(Fields{{"a", Int(1)}}), "", false},
	}
	for _, tt := range tests {
		text, ok := tt.v.Text()
		if text != tt.text || ok != tt.ok {
			t.Errorf("%v.Text() = (%q, %v), wanted (%q, %v)", tt.v, text, ok, tt.text, tt.ok)
		}
	}
}

func TestValue_IsEmpty(t *testing.T) {
	assert.True(t, Null.IsEmpty())
	assert.True(t, String("").IsEmpty())
	assert.True(t, List().IsEmpty())
	assert.True(t, Map(nil).IsEmpty())
	assert.False(t, Int(0).IsEmpty())
	assert.False(t, Bool(false).IsEmpty())
	assert.False(t, String("x").IsEmpty())
}

func TestFields(t *testing.T) {
	var fs Fields
	fs.Set("b", Int(1))
	fs.Set("a", Int(2))
	fs.Set("b", Int(3))
	deepEqual(t, fs.Names(), []string{"b", "a"})

	v, ok := fs.Get("b")
	assert.True(t, ok)
	assert.Equal(t, Int(3), v)
	assert.True(t, fs.Has("a"))

	c := fs.Clone()
	assert.True(t, fs.Delete("b"))
	assert.False(t, fs.Delete("b"))
	deepEqual(t, fs.Names(), []string{"a"})
	deepEqual(t, c.Names(), []string{"b", "a"})
}

func orderedSample() Fields {
	return Fields{
		{"zeta", String("z")},
		{"alpha", Int(-7)},
		{"pi", Number(3.25)},
		{"big", Number(1e20)},
		{"flag", Bool(true)},
		{"none", Null},
		{"list", List(String("x"), Int(1), Null)},
		{"nested", Map(Fields{{"y", Int(2)}, {"x", Int(1)}})},
	}
}

func TestFields_Msgpack(t *testing.T) {
	in := orderedSample()
	raw, err := msgpack.Marshal(in)
	require.NoError(t, err)

	var out Fields
	require.NoError(t, msgpack.Unmarshal(raw, &out))
	deepEqual(t, out, in)
	deepEqual(t, out.Names(), []string{"zeta", "alpha", "pi", "big", "flag", "none", "list", "nested"})
}

func TestFields_JSON(t *testing.T) {
	in := orderedSample()
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"z","alpha":-7,"pi":3.25,"big":100000000000000000000,"flag":true,"none":null,"list":["x",1,null],"nested":{"y":2,"x":1}}`, string(raw))

	var out Fields
	require.NoError(t, json.Unmarshal(raw, &out))
	deepEqual(t, out, in)
}

func TestValue_JSONRejectsNaN(t *testing.T) {
	_, err := json.Marshal(Number(math.NaN()))
	assert.Error(t, err)
}

func TestValue_MsgpackFromForeignEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.Encode(map[string]any{"n": uint64(5), "f": float32(0.5), "b": []byte("raw")}))

	var fs Fields
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &fs))
	n, _ := fs.Get("n")
	assert.Equal(t, Int(5), n)
	f, _ := fs.Get("f")
	assert.Equal(t, Number(0.5), f)
	b, _ := fs.Get("b")
	assert.Equal(t, String("raw"), b)
}
