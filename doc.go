/*
Package users implements a user record store on top of an ordered key-value
store (Bolt, Badger, or an in-memory store for tests).

We implement:

1. Records: arbitrary field mappings with a unique natural key (username),
a hashed password (salt), and a list of groups.

2. Secondary indexes: exact-match lookup of a record by the value of any
registered field.

3. An index registry: the persisted list of fields to index.

4. Credentials: bcrypt password hashing and verification (see package passwd).

# Technical Details

**Keys.**
Every key starts with an optional tenant prefix. We reserve byte 0xFF (Sep)
as a separator that ordinary key content never contains:

	primary record:  prefix id
	index registry:  prefix SEP "INDEXES" SEP
	index entry:     prefix SEP "INDEX" SEP field SEP value

Ids, field names and field values must not contain Sep; this is a documented
constraint, not a runtime check.

Prefixes may nest ("a" and "ab" on one store): point lookups never cross
tenants, but a scan of "a" also sees the primary keys of "ab". Reindex, Stats
and Dump therefore only accept keys whose remainder passes Options.IsID,
which checks for canonical UUIDs by default. Engines with a custom NewID and
no IsID must use prefixes that are not prefixes of one another, for example
by ending every prefix with a delimiter such as ':'.

**Values.**
Records are msgpack maps (or JSON objects) in field insertion order. The
password is never encoded. Index entries hold the raw record id. The
registry is an encoded list of field names.

**Atomicity.**
Create and Remove submit the primary record and all of its index entries as
one Storage.Batch. The store provides no secondary indexes or uniqueness, so
Create checks for an existing username first and then inserts the username
index entry with OpInsert, which fails the whole batch if a concurrent create
won the race.

**Known races and limitations.**
AddIndexes is a read-modify-write of the registry; concurrent callers may
lose a name. Get followed by Save has no version check; concurrent editors
lose updates. Save never touches index entries. Remove derives the entries to
delete from the stored record and the current registry, so entries for fields
unregistered after creation are left behind. Remove also reads the owner of
each entry before its batch commits; a concurrent Create that takes over a
shared non-unique value in between loses its entry to the delete. Reindex
restores it.
*/
package users
