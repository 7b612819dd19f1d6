package core

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// RunID identifies one reshape or aggregate invocation. V7 ids sort by
// creation time.
type RunID string

// NewRunID returns a fresh run identifier.
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

func (id RunID) String() string { return string(id) }

// Hash is the hex SHA-256 of a written tidy file.
type Hash string

// NewHash hashes the exact bytes that went to disk.
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

func (h Hash) String() string { return string(h) }

// Short returns the first 12 hex characters, for log lines.
func (h Hash) Short() string {
	if len(h) < 12 {
		return string(h)
	}
	return string(h[:12])
}
