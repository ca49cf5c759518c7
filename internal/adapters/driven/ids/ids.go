// Package ids provides driven.IDGenerator implementations.
package ids

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/custodia-labs/carelist/internal/core/ports/driven"
)

var (
	_ driven.IDGenerator = UUID{}
	_ driven.IDGenerator = (*Sequence)(nil)
)

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// NewID returns a new random UUID string.
func (UUID) NewID() string {
	return uuid.New().String()
}

// Sequence hands out increasing decimal IDs, starting after the given value.
// Useful for tests and scripted fixtures where stable IDs matter.
type Sequence struct {
	prefix string
	next   atomic.Uint64
}

// NewSequence creates a sequence whose first ID is prefix + (after+1).
func NewSequence(prefix string, after uint64) *Sequence {
	s := &Sequence{prefix: prefix}
	s.next.Store(after)
	return s
}

// NewID returns the next ID in the sequence.
func (s *Sequence) NewID() string {
	return s.prefix + strconv.FormatUint(s.next.Add(1), 10)
}
