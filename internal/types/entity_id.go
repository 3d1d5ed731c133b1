package types

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// tempIDPrefix marks client-generated identifiers for entities that have not
// been persisted yet. The persistence layer omits the id column for these so
// the database assigns a real one.
const tempIDPrefix = "temp_"

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// EntityID identifies an entity in a working aggregate. It is either a
// temporary client-generated token or a persisted database UUID; the two are
// distinguished structurally rather than by string inspection.
type EntityID struct {
	id   uuid.UUID
	temp string
}

// NewTempID generates a fresh temporary id token.
func NewTempID() EntityID {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.IntN(len(base36Alphabet))]
	}
	return EntityID{temp: fmt.Sprintf("%s%d_%s", tempIDPrefix, time.Now().UnixMilli(), suffix)}
}

// PersistedID wraps a database-assigned UUID.
func PersistedID(id uuid.UUID) EntityID {
	return EntityID{id: id}
}

// ParseEntityID parses the wire form of an id: a temp_-prefixed token or a
// UUID string.
func ParseEntityID(s string) (EntityID, error) {
	if s == "" {
		return EntityID{}, fmt.Errorf("entity id is empty")
	}
	if strings.HasPrefix(s, tempIDPrefix) {
		return EntityID{temp: s}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return EntityID{}, fmt.Errorf("invalid entity id %q: %w", s, err)
	}
	return EntityID{id: id}, nil
}

// IsTemporary reports whether the id is a client-generated token.
func (e EntityID) IsTemporary() bool {
	return e.temp != ""
}

// IsZero reports whether the id is unset.
func (e EntityID) IsZero() bool {
	return e.temp == "" && e.id == uuid.Nil
}

// UUID returns the persisted UUID and true, or uuid.Nil and false for
// temporary or unset ids.
func (e EntityID) UUID() (uuid.UUID, bool) {
	if e.temp != "" || e.id == uuid.Nil {
		return uuid.Nil, false
	}
	return e.id, true
}

// String returns the wire form of the id.
func (e EntityID) String() string {
	if e.temp != "" {
		return e.temp
	}
	if e.id == uuid.Nil {
		return ""
	}
	return e.id.String()
}

// MarshalJSON serializes the id in its wire form.
func (e EntityID) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON parses the wire form of the id. An empty string yields the
// zero id.
func (e *EntityID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*e = EntityID{}
		return nil
	}
	parsed, err := ParseEntityID(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
