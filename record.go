package users

import (
	"fmt"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// Names of the fields the engine itself understands.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldSalt     = "salt"
	FieldGroups   = "groups"
)

// Record is a user record. Username is the unique natural key; Password is
// write-only input that is replaced by its hash (Salt) before any write
// reaches the store. Fields holds arbitrary additional fields in insertion
// order.
type Record struct {
	Username string
	Password string
	Salt     string
	Groups   []string
	Fields   Fields
}

func isKnownField(name string) bool {
	switch name {
	case FieldUsername, FieldPassword, FieldSalt, FieldGroups:
		return true
	default:
		return false
	}
}

// Field returns the value of a known or extra field. Empty known string
// fields are reported as absent; groups is always present.
func (r *Record) Field(name string) (Value, bool) {
	switch name {
	case FieldUsername:
		return String(r.Username), r.Username != ""
	case FieldPassword:
		return String(r.Password), r.Password != ""
	case FieldSalt:
		return String(r.Salt), r.Salt != ""
	case FieldGroups:
		return Strings(r.Groups...), true
	default:
		return r.Fields.Get(name)
	}
}

// Set assigns a known or extra field. Known string fields require string
// values, groups requires a list of strings.
func (r *Record) Set(name string, v Value) error {
	switch name {
	case FieldUsername, FieldPassword, FieldSalt:
		s, ok := v.AsString()
		if !ok && !v.IsNull() {
			return fmt.Errorf("%s must be a string, got %v", name, v.Kind())
		}
		switch name {
		case FieldUsername:
			r.Username = s
		case FieldPassword:
			r.Password = s
		case FieldSalt:
			r.Salt = s
		}
		return nil
	case FieldGroups:
		groups, err := stringList(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		r.Groups = groups
		return nil
	default:
		r.Fields.Set(name, v)
		return nil
	}
}

func (r *Record) HasGroup(name string) bool {
	return slices.Contains(r.Groups, name)
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Groups = slices.Clone(r.Groups)
	c.Fields = r.Fields.Clone()
	return &c
}

// indexText returns the index key text for field, or false if the record has
// no indexable value for it. Password is never indexable.
func (r *Record) indexText(field string) (string, bool) {
	if field == FieldPassword {
		return "", false
	}
	v, found := r.Field(field)
	if !found || v.IsEmpty() {
		return "", false
	}
	return v.Text()
}

// persistedFields is the stored shape of the record. Password is never part
// of it; callers absorb known names from Fields first.
func (r *Record) persistedFields() Fields {
	fs := make(Fields, 0, len(r.Fields)+3)
	fs = append(fs, Field{FieldUsername, String(r.Username)})
	if r.Salt != "" {
		fs = append(fs, Field{FieldSalt, String(r.Salt)})
	}
	groups := r.Groups
	if groups == nil {
		groups = []string{}
	}
	fs = append(fs, Field{FieldGroups, Strings(groups...)})
	for _, f := range r.Fields {
		if !isKnownField(f.Name) {
			fs = append(fs, f)
		}
	}
	return fs
}

// absorbKnownFields moves entries of Fields that name a known field (such as
// a password given as a plain mapping) into the typed fields.
func (r *Record) absorbKnownFields() error {
	var extras Fields
	for _, f := range r.Fields {
		if !isKnownField(f.Name) {
			extras = append(extras, f)
			continue
		}
		if err := r.Set(f.Name, f.Value); err != nil {
			return err
		}
	}
	if len(extras) < len(r.Fields) {
		r.Fields = extras
	}
	return nil
}

func (r *Record) loadFields(fs Fields) error {
	*r = Record{Groups: []string{}}
	for _, f := range fs {
		if err := r.Set(f.Name, f.Value); err != nil {
			return err
		}
	}
	if r.Groups == nil {
		r.Groups = []string{}
	}
	return nil
}

func (r *Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	return r.persistedFields().EncodeMsgpack(enc)
}

func (r *Record) DecodeMsgpack(dec *msgpack.Decoder) error {
	var fs Fields
	if err := fs.DecodeMsgpack(dec); err != nil {
		return err
	}
	return r.loadFields(fs)
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return r.persistedFields().MarshalJSON()
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var fs Fields
	if err := fs.UnmarshalJSON(data); err != nil {
		return err
	}
	return r.loadFields(fs)
}

func stringList(v Value) ([]string, error) {
	if v.IsNull() {
		return nil, nil
	}
	items, ok := v.AsList()
	if !ok {
		return nil, fmt.Errorf("expected a list, got %v", v.Kind())
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.AsString()
		if !ok {
			return nil, fmt.Errorf("expected a list of strings, got %v item", item.Kind())
		}
		out = append(out, s)
	}
	return out, nil
}
