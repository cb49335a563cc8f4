package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	var codec UUIDCodec

	u, err := codec.Encode("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.NoError(t, err)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", codec.Decode(u))
}

func TestUUIDCodec_AcceptsBareHex(t *testing.T) {
	t.Parallel()

	var codec UUIDCodec

	u, err := codec.Encode("6ba7b8109dad11d180b400c04fd430c8")
	require.NoError(t, err)

	// Decode always emits the dashed canonical form.
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", codec.Decode(u))
}

func TestUUIDCodec_RejectsGarbage(t *testing.T) {
	t.Parallel()

	var codec UUIDCodec

	_, err := codec.Encode("not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing id")
}

func TestRecord_Doc(t *testing.T) {
	t.Parallel()

	r := Record{
		ID:      "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Version: 1700000000,
		Fields:  map[string]any{"name": "alpha", "body": "text"},
	}

	doc := r.Doc("id", "version")

	assert.Equal(t, r.ID, doc["id"])
	assert.Equal(t, r.Version, doc["version"])
	assert.Equal(t, "alpha", doc["name"])
	assert.Equal(t, "text", doc["body"])

	// Doc copies: mutating the result must not leak into the record.
	doc["name"] = "mutated"
	assert.Equal(t, "alpha", r.Fields["name"])
}
