package leco

import "github.com/google/uuid"

// ConversationID is an opaque 16-byte message correlation token. Later-
// generated IDs compare greater than earlier ones under unsigned
// lexicographic byte order (UUIDv7 semantics).
type ConversationID [16]byte

// NextConversationID mints a fresh, time-ordered conversation id.
func NextConversationID() ConversationID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the global rand source errors; fall back to a
		// random v4 rather than panic the routing loop.
		id = uuid.New()
	}
	return ConversationID(id)
}

// Less reports whether c was generated strictly before other, per the
// unsigned byte-order comparison UUIDv7 guarantees.
func (c ConversationID) Less(other ConversationID) bool {
	for i := range c {
		if c[i] != other[i] {
			return c[i] < other[i]
		}
	}
	return false
}
