package users

import "bytes"

// Sep separates the parts of registry and index keys. Ids, field names and
// field values must never contain it; this is not checked at runtime.
const Sep byte = 0xFF

const (
	registryMarker = "INDEXES"
	indexMarker    = "INDEX"
)

// keyspace maps record ids, index entries and the index registry of one
// tenant prefix to raw store keys:
//
//	primary:  prefix id
//	registry: prefix SEP "INDEXES" SEP
//	index:    prefix SEP "INDEX" SEP field SEP value
type keyspace struct {
	prefix string
}

func (ks keyspace) recordKey(id string) []byte {
	buf := make([]byte, 0, len(ks.prefix)+len(id))
	buf = append(buf, ks.prefix...)
	return append(buf, id...)
}

func (ks keyspace) registryKey() []byte {
	buf := make([]byte, 0, len(ks.prefix)+len(registryMarker)+2)
	buf = append(buf, ks.prefix...)
	buf = append(buf, Sep)
	buf = append(buf, registryMarker...)
	return append(buf, Sep)
}

func (ks keyspace) indexKey(field, value string) []byte {
	buf := ks.indexFieldPrefix(field)
	return append(buf, value...)
}

// indexFieldPrefix is the common prefix of all index entries of field.
func (ks keyspace) indexFieldPrefix(field string) []byte {
	buf := ks.indexPrefix()
	buf = append(buf, field...)
	return append(buf, Sep)
}

func (ks keyspace) indexPrefix() []byte {
	buf := make([]byte, 0, len(ks.prefix)+len(indexMarker)+2)
	buf = append(buf, ks.prefix...)
	buf = append(buf, Sep)
	buf = append(buf, indexMarker...)
	return append(buf, Sep)
}

// primaryID returns the record id encoded in k if k is a primary key of this
// keyspace. Registry and index keys contain Sep after the prefix, ids don't.
func (ks keyspace) primaryID(k []byte) (string, bool) {
	if !bytes.HasPrefix(k, []byte(ks.prefix)) {
		return "", false
	}
	rest := k[len(ks.prefix):]
	if len(rest) == 0 || bytes.IndexByte(rest, Sep) >= 0 {
		return "", false
	}
	return string(rest), true
}

// isIndexKey reports whether k is an index entry of this keyspace.
func (ks keyspace) isIndexKey(k []byte) bool {
	return bytes.HasPrefix(k, ks.indexPrefix())
}

// loggableKey renders k with Sep shown as '/'.
func loggableKey(k []byte) string {
	return string(bytes.ReplaceAll(k, []byte{Sep}, []byte{'/'}))
}
