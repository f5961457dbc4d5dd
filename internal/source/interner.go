package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// StringID is the interned index of an identifier or literal spelling.
type StringID uint32

const NoStringID StringID = 0

// Interner maps identifier spellings to dense integer indices and back.
// The translator keys its identifier registry by these indices.
type Interner struct {
	byID  []string            // индекс -> строка (byID[0] = "" для NoStringID)
	index map[string]StringID // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern inserts s and returns its ID. Existing strings keep their ID.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// собственная копия, чтобы не держать исходный буфер
	cpy := string([]byte(s))
	n, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	id := StringID(n)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes is Intern for byte slices.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Find returns the ID of s without interning it.
func (i *Interner) Find(s string) (StringID, bool) {
	id, ok := i.index[s]
	return id, ok
}

// Lookup returns the string for id; false when id is unknown.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on unknown IDs.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has reports whether id was produced by this interner.
func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len counts interned strings including NoStringID.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings indexed by ID.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
