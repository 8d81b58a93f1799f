package lottery

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// RNG is the sampling source. Implementations must be safe for use within a
// single draw; the engine creates one per draw.
type RNG interface {
	// Int63n returns a uniform value in [0, n). n must be positive.
	Int63n(n int64) int64
}

// NewDrawRNG returns a per-draw RNG seeded from the operating system's
// cryptographic source, together with the seed. The seed is persisted in the
// decision snapshot so any draw can be replayed deterministically.
func NewDrawRNG() (RNG, int64) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand failing is unrecoverable for the process; the
		// stdlib panics in the same situation.
		panic(err)
	}

	seed := int64(binary.BigEndian.Uint64(buf[:]) &^ (1 << 63))

	return NewSeededRNG(seed), seed
}

// NewSeededRNG returns a deterministic RNG for tests and replay.
func NewSeededRNG(seed int64) RNG {
	return rand.New(rand.NewSource(seed))
}
