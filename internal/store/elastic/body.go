package elastic

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/tonimelisma/bridgesync/internal/record"
	"github.com/tonimelisma/bridgesync/internal/store"
)

// buildScanQuery returns the search body for a scan: match_all for an
// unbounded window, otherwise a range filter on the version field pushed
// into the query engine. sourceFields limits _source to the replicated
// fields so scroll pages stay small.
func buildScanQuery(w store.Window, versionField string, sourceFields []string) ([]byte, error) {
	var query map[string]any

	if w.IsZero() {
		query = map[string]any{"match_all": map[string]any{}}
	} else {
		query = map[string]any{
			"range": map[string]any{
				versionField: map[string]any{
					"gte": w.From,
					"lte": w.To,
				},
			},
		}
	}

	body, err := gojson.Marshal(map[string]any{
		"_source": sourceFields,
		"query":   query,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: encoding scan query: %w", err)
	}

	return body, nil
}

// buildBulkBody renders the newline-delimited _bulk payload: one action
// line and one source line per record. Every action carries the record
// version with version_type=external, so the index itself rejects writes
// that are not strictly newer than what it already holds.
//
// The record ID is serialized as its plain string form for both the
// document _id and the id field of the source — the explicit adapter the
// engine owns instead of customizing the client's transport.
func buildBulkBody(recs []record.Record, index, idField, versionField string) ([]byte, error) {
	var buf bytes.Buffer

	for _, rec := range recs {
		action := map[string]any{
			"index": map[string]any{
				"_index":       index,
				"_id":          rec.ID,
				"version":      rec.Version,
				"version_type": "external",
			},
		}

		actionLine, err := gojson.Marshal(action)
		if err != nil {
			return nil, fmt.Errorf("elastic: encoding bulk action for %s: %w", rec.ID, err)
		}

		docLine, err := gojson.Marshal(rec.Doc(idField, versionField))
		if err != nil {
			return nil, fmt.Errorf("elastic: encoding bulk source for %s: %w", rec.ID, err)
		}

		buf.Write(actionLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}
