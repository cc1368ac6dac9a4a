package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_FieldAndSet(t *testing.T) {
	var r Record
	require.NoError(t, r.Set("username", String("bob")))
	require.NoError(t, r.Set("groups", Strings("a", "b")))
	require.NoError(t, r.Set("email", String("bob@tap.com")))
	assert.Error(t, r.Set("username", Int(1)))
	assert.Error(t, r.Set("groups", String("a")))
	assert.Error(t, r.Set("groups", List(Int(1))))

	assert.Equal(t, "bob", r.Username)
	deepEqual(t, r.Groups, []string{"a", "b"})

	v, ok := r.Field("email")
	assert.True(t, ok)
	assert.Equal(t, String("bob@tap.com"), v)
	_, ok = r.Field("salt")
	assert.False(t, ok)
	v, ok = r.Field("groups")
	assert.True(t, ok)
	assert.Equal(t, Strings("a", "b"), v)
}

func TestRecord_IndexText(t *testing.T) {
	r := &Record{
		Username: "bob",
		Password: "secret",
		Fields:   Fields{{"age", Int(30)}, {"empty", String("")}, {"tags", Strings("x")}},
	}
	tests := []struct {
		field string
		text  string
		ok    bool
	}{
		{"username", "bob", true},
		{"age", "30", true},
		{"password", "", false},
		{"empty", "", false},
		{"tags", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		text, ok := r.indexText(tt.field)
		if text != tt.text || ok != tt.ok {
			t.Errorf("indexText(%q) = (%q, %v), wanted (%q, %v)", tt.field, text, ok, tt.text, tt.ok)
		}
	}
}

func TestRecord_PersistedFieldsOmitPassword(t *testing.T) {
	r := &Record{
		Username: "bob",
		Password: "secret",
		Fields:   Fields{{"password", String("sneaky")}, {"city", String("Oslo")}},
	}
	deepEqual(t, r.persistedFields().Names(), []string{"username", "groups", "city"})

	raw, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"username":"bob","groups":[],"city":"Oslo"}`, string(raw))
}

func TestRecord_UnmarshalKeepsPassword(t *testing.T) {
	var r Record
	require.NoError(t, r.UnmarshalJSON([]byte(`{"username":"bob","password":"pass","extra":1}`)))
	assert.Equal(t, "pass", r.Password)
	deepEqual(t, r.Groups, []string{})
	deepEqual(t, r.Fields, Fields{{"extra", Int(1)}})
}

func TestDecodeRecord_DropsPassword(t *testing.T) {
	for _, enc := range []Encoding{MsgPack, JSON} {
		raw := mustEncode(t, enc, map[string]any{"username": "bob", "password": "leaked"})
		r, err := enc.decodeRecord(raw)
		require.NoError(t, err)
		assert.Equal(t, "bob", r.Username)
		assert.Empty(t, r.Password, "%v", enc)
	}
}

func TestRecord_AbsorbKnownFields(t *testing.T) {
	r := &Record{Fields: Fields{
		{"username", String("bob")},
		{"city", String("Oslo")},
		{"password", String("pw")},
		{"groups", Strings("a")},
	}}
	require.NoError(t, r.absorbKnownFields())
	assert.Equal(t, "bob", r.Username)
	assert.Equal(t, "pw", r.Password)
	deepEqual(t, r.Groups, []string{"a"})
	deepEqual(t, r.Fields, Fields{{"city", String("Oslo")}})

	bad := &Record{Fields: Fields{{"username", Int(1)}}}
	assert.Error(t, bad.absorbKnownFields())
}

func TestRecord_Clone(t *testing.T) {
	r := &Record{Username: "bob", Groups: []string{"a"}, Fields: Fields{{"tags", Strings("x")}}}
	c := r.Clone()
	c.Groups[0] = "changed"
	c.Fields.Set("tags", Strings("y"))
	assert.Equal(t, "a", r.Groups[0])
	v, _ := r.Fields.Get("tags")
	assert.Equal(t, Strings("x"), v)

	var nilRec *Record
	assert.Nil(t, nilRec.Clone())
}
