// Package record defines the value type replicated between the two stores
// and the identifier codec used at the column-store boundary. It is a leaf
// package imported by every store adapter and by the sync engine.
package record

// Record is one replicated entity. Records are immutable value objects:
// components pass them around for the duration of one batch and never
// retain them beyond that.
//
// Version is a monotonically meaningful integer, conventionally a
// unix-seconds timestamp stamped by whichever side last wrote the record.
// Both stores resolve write conflicts from it: the search index through
// external versioning, the column store through the derived write
// timestamp.
type Record struct {
	ID      string
	Version int64
	Fields  map[string]any
}

// Doc returns the record as a flat document keyed by the configured id and
// version field names, with all sync fields merged in. Used by writers that
// serialize whole records (the search-index bulk path).
func (r Record) Doc(idField, versionField string) map[string]any {
	doc := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		doc[k] = v
	}

	doc[idField] = r.ID
	doc[versionField] = r.Version

	return doc
}
