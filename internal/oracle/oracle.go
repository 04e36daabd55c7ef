// Package oracle produces seed batches for entropy pools and pushes them to
// the refill endpoint.
package oracle

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/uzochukwuV/massabeam/internal/entropy"
)

var ErrInvalidSeed = errors.New("seed must be 64 hex characters")

// Batch is one refill: a fresh seed covering global indices
// [Start, Start+Count).
type Batch struct {
	Seed  [entropy.SeedLen]byte
	Start uint64
	Count uint32
}

// NewBatch draws a seed from the operating system.
func NewBatch(start uint64, count uint32) (Batch, error) {
	b := Batch{Start: start, Count: count}
	if _, err := rand.Read(b.Seed[:]); err != nil {
		return Batch{}, err
	}
	return b, nil
}

// Commitment is the hex sha256 of the seed. Publishing it before the batch
// is consumed lets anyone check the seed afterwards.
func (b Batch) Commitment() string {
	sum := sha256.Sum256(b.Seed[:])
	return hex.EncodeToString(sum[:])
}

func (b Batch) SeedHex() string { return hex.EncodeToString(b.Seed[:]) }

// Request is the JSON body of the refill endpoint.
func (b Batch) Request() RefillRequest {
	return RefillRequest{Seed: b.SeedHex(), StartIndex: b.Start, Count: b.Count}
}

type RefillRequest struct {
	Seed       string `json:"seed" binding:"required"`
	StartIndex uint64 `json:"start_index"`
	Count      uint32 `json:"count" binding:"required"`
}

// ParseSeed decodes a hex seed of exactly entropy.SeedLen bytes.
func ParseSeed(s string) ([entropy.SeedLen]byte, error) {
	var seed [entropy.SeedLen]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil || len(raw) != entropy.SeedLen {
		return seed, ErrInvalidSeed
	}
	copy(seed[:], raw)
	return seed, nil
}

// Verify reports whether seed matches a previously published commitment.
func Verify(seed [entropy.SeedLen]byte, commitment string) bool {
	return Batch{Seed: seed}.Commitment() == strings.ToLower(commitment)
}
