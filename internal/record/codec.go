package record

import (
	"fmt"

	"github.com/google/uuid"
)

// UUIDCodec converts record identifiers between the canonical string form
// used throughout the engine and the 16-byte UUID the column store binds
// in prepared statements. It accepts both dashed-canonical and bare-hex
// input so identifiers coming back from the search index round-trip
// regardless of how they were originally written.
//
// This is the explicit boundary adapter: identifier conversion happens
// here, in one place, never by altering a driver's own serialization.
type UUIDCodec struct{}

// Encode parses a string identifier into its UUID representation.
func (UUIDCodec) Encode(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("record: parsing id %q: %w", id, err)
	}

	return u, nil
}

// Decode formats a UUID back into the canonical dashed string form.
func (UUIDCodec) Decode(u uuid.UUID) string {
	return u.String()
}
