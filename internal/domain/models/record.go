package models

import (
	"strings"
)

// KeyDelimiter joins key field values into a composite matching identity.
// A pipe is assumed never to occur inside a key value.
const KeyDelimiter = "|"

// Fields is the persistable value set of a record: field name to normalized
// string value. Empty values are never stored; a missing key means the field
// was absent in the source row.
type Fields map[string]string

// Clone returns a shallow copy that can be mutated independently.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// CompositeKey concatenates the values of the given key fields, in order,
// joined by KeyDelimiter. Missing fields contribute an empty string, so both
// sides of a match (candidate and existing record) compose identically.
func (f Fields) CompositeKey(keyFields []string) string {
	parts := make([]string, len(keyFields))
	for i, k := range keyFields {
		parts[i] = f[k]
	}
	return strings.Join(parts, KeyDelimiter)
}

// KeyDisplay renders "field=value" pairs for human-readable reporting.
func (f Fields) KeyDisplay(keyFields []string) string {
	parts := make([]string, len(keyFields))
	for i, k := range keyFields {
		parts[i] = k + "=" + f[k]
	}
	return strings.Join(parts, ", ")
}

// Candidate is a row-derived, not-yet-persisted record. The 1-based source
// row number is carried alongside the fields, never inside them, so nothing
// has to be stripped before persistence.
type Candidate struct {
	Fields    Fields
	SourceRow int
}

// ExistingRecord is a record already present in the store. Only its id and
// the key field values are populated; it exists solely to compute the
// composite key during reconciliation.
type ExistingRecord struct {
	ID     string
	Fields Fields
}
