// Package elastic adapts an Elasticsearch index to the engine's Scanner
// and BatchWriter contracts. Scans push the version window into the query
// engine as a range filter; writes use external versioning so the index
// itself provides last-write-wins on record versions.
package elastic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	gojson "github.com/goccy/go-json"

	"github.com/tonimelisma/bridgesync/internal/record"
	"github.com/tonimelisma/bridgesync/internal/store"
)

// scrollKeepAlive is how long the server keeps a scroll context alive
// between page fetches.
const scrollKeepAlive = time.Minute

// defaultScrollSize is the per-page hit count for scans.
const defaultScrollSize = 1000

// statusConflict is the per-item status for a write rejected by external
// versioning: the stored version is equal or newer. Expected, not an error.
const statusConflict = 409

// Options holds the connection and schema parameters for New.
type Options struct {
	Hosts        []string
	Index        string
	IDField      string
	VersionField string
	SyncFields   []string

	// ScrollSize overrides the per-page hit count (0 = default).
	ScrollSize int

	// Transport overrides the HTTP transport; tests inject an httptest
	// round-tripper here.
	Transport http.RoundTripper

	Logger *slog.Logger
}

// Client is the search-index adapter. It satisfies store.Scanner and
// store.BatchWriter.
type Client struct {
	es *elasticsearch.Client

	index        string
	idField      string
	versionField string
	syncFields   []string
	scrollSize   int

	logger *slog.Logger
}

// New builds a Client from hosts. No connection is made until first use.
func New(opts Options) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: opts.Hosts,
		Transport: opts.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: creating client for %v: %w", opts.Hosts, err)
	}

	scrollSize := opts.ScrollSize
	if scrollSize <= 0 {
		scrollSize = defaultScrollSize
	}

	return &Client{
		es:           es,
		index:        opts.Index,
		idField:      opts.IDField,
		versionField: opts.VersionField,
		syncFields:   opts.SyncFields,
		scrollSize:   scrollSize,
		logger:       opts.Logger,
	}, nil
}

// searchPage is the subset of a search/scroll response the scan needs.
type searchPage struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Scan pages through the index with the scroll API, invoking fn per
// document. Scroll guarantees each document is returned exactly once for
// one scan; the sequence terminates when a page comes back empty. The
// scroll context is cleared on exit.
func (c *Client) Scan(ctx context.Context, w store.Window, fn func(record.Record) error) error {
	body, err := buildScanQuery(w, c.versionField, c.sourceFields())
	if err != nil {
		return err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithSize(c.scrollSize),
		c.es.Search.WithScroll(scrollKeepAlive),
	)
	if err != nil {
		return fmt.Errorf("elastic: starting scan: %w", err)
	}

	page, err := decodePage(res.Body, res.IsError(), res.StatusCode)
	res.Body.Close()

	if err != nil {
		return err
	}

	scrollID := page.ScrollID
	defer func() { c.clearScroll(scrollID) }()

	for len(page.Hits.Hits) > 0 {
		for _, hit := range page.Hits.Hits {
			rec, recErr := c.hitToRecord(hit.ID, hit.Source)
			if recErr != nil {
				return recErr
			}

			if cbErr := fn(rec); cbErr != nil {
				return cbErr
			}
		}

		res, err = c.es.Scroll(
			c.es.Scroll.WithContext(ctx),
			c.es.Scroll.WithScrollID(scrollID),
			c.es.Scroll.WithScroll(scrollKeepAlive),
		)
		if err != nil {
			return fmt.Errorf("elastic: continuing scan: %w", err)
		}

		page, err = decodePage(res.Body, res.IsError(), res.StatusCode)
		res.Body.Close()

		if err != nil {
			return err
		}

		if page.ScrollID != "" {
			scrollID = page.ScrollID
		}
	}

	return nil
}

// bulkPage is the subset of a _bulk response needed for counting.
type bulkPage struct {
	Errors bool                  `json:"errors"`
	Items  []map[string]bulkItem `json:"items"`
}

type bulkItem struct {
	Status int `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error,omitempty"`
}

// WriteBatch indexes the records through _bulk with external versioning.
// Each record is resolved independently: a 409 means the stored version is
// equal or newer and counts as skipped; any other per-item error also
// lands in the skipped bucket after a warning. Transport and response
// failures are pass-level faults.
func (c *Client) WriteBatch(ctx context.Context, recs []record.Record) (int, int, error) {
	body, err := buildBulkBody(recs, c.index, c.idField, c.versionField)
	if err != nil {
		return 0, 0, err
	}

	res, err := c.es.Bulk(
		bytes.NewReader(body),
		c.es.Bulk.WithContext(ctx),
		c.es.Bulk.WithIndex(c.index),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("elastic: bulk write: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, 0, fmt.Errorf("elastic: bulk write failed with status %d", res.StatusCode)
	}

	var page bulkPage
	if err := gojson.NewDecoder(res.Body).Decode(&page); err != nil {
		return 0, 0, fmt.Errorf("elastic: decoding bulk response: %w", err)
	}

	succeeded, skipped := 0, 0

	for _, item := range page.Items {
		// Each item has a single key matching the action ("index").
		for _, result := range item {
			switch {
			case result.Status >= 200 && result.Status < 300:
				succeeded++
			case result.Status == statusConflict:
				skipped++
			default:
				skipped++

				if result.Error != nil {
					c.logger.Warn("bulk item failed",
						slog.Int("status", result.Status),
						slog.String("type", result.Error.Type),
						slog.String("reason", result.Error.Reason),
					)
				}
			}
		}
	}

	return succeeded, skipped, nil
}

// sourceFields is the _source projection: id, version, then sync fields.
func (c *Client) sourceFields() []string {
	fields := make([]string, 0, len(c.syncFields)+2)
	fields = append(fields, c.idField, c.versionField)
	fields = append(fields, c.syncFields...)

	return fields
}

// hitToRecord converts one search hit into a Record. The id comes from the
// source document when present, falling back to the document _id (both are
// written identically by WriteBatch).
func (c *Client) hitToRecord(docID string, source map[string]any) (record.Record, error) {
	id := docID
	if v, ok := source[c.idField].(string); ok && v != "" {
		id = v
	}

	version, err := asInt64(source[c.versionField])
	if err != nil {
		return record.Record{}, fmt.Errorf("elastic: document %s field %s: %w", docID, c.versionField, err)
	}

	fields := make(map[string]any, len(c.syncFields))
	for _, f := range c.syncFields {
		fields[f] = source[f]
	}

	return record.Record{ID: id, Version: version, Fields: fields}, nil
}

// decodePage parses a search/scroll response body, converting HTTP-level
// errors into faults first.
func decodePage(body io.Reader, isError bool, status int) (*searchPage, error) {
	if isError {
		return nil, fmt.Errorf("elastic: scan failed with status %d", status)
	}

	var page searchPage
	if err := gojson.NewDecoder(body).Decode(&page); err != nil {
		return nil, fmt.Errorf("elastic: decoding scan response: %w", err)
	}

	return &page, nil
}

// clearScroll releases the server-side scroll context. Best effort: the
// context also expires on its own after scrollKeepAlive.
func (c *Client) clearScroll(scrollID string) {
	if scrollID == "" {
		return
	}

	res, err := c.es.ClearScroll(c.es.ClearScroll.WithScrollID(scrollID))
	if err != nil {
		c.logger.Debug("clearing scroll failed", slog.String("error", err.Error()))
		return
	}

	res.Body.Close()
}

// asInt64 normalizes the version value, which arrives as float64 from
// JSON decoding and as int64 when built in-process.
func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected version type %T", v)
	}
}
