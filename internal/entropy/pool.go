// Package entropy implements the committed-randomness ring that battles draw
// from. An oracle refills the ring with seed batches that reserve a range of
// global indices; every draw consumes exactly one index and binds it to the
// requester, a domain tag and a turn number so no two draws can collide.
package entropy

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math"
	"time"
)

const (
	// Capacity is the number of batch slots in a pool. It is a protocol
	// constant; pools are never resized.
	Capacity = 8
	// SeedLen is the size of a committed seed.
	SeedLen = 32
	// MinPerTurn is the number of entries a battle turn consumes.
	MinPerTurn = 4
	// MaxIndex bounds the watermark and the available count. SQL drivers
	// store them as signed 64-bit integers.
	MaxIndex = math.MaxInt64
)

var (
	ErrUnauthorizedRefill = errors.New("unauthorized refill")
	ErrInvalidRange       = errors.New("invalid range")
	ErrSeedReplay         = errors.New("seed replay")
	ErrPoolFull           = errors.New("entropy pool full")
	ErrNoEntropyAvailable = errors.New("no entropy available")
	ErrMathOverflow       = errors.New("math overflow")
	ErrCorruptPool        = errors.New("entropy pool accounting mismatch")
)

// SeedBatch is one committed unit of randomness reserving the global index
// range [Start, Start+Count).
type SeedBatch struct {
	Seed     [SeedLen]byte `json:"seed"`
	Start    uint64        `json:"start"`
	Count    uint32        `json:"count"`
	Consumed uint32        `json:"consumed"`
}

// Remaining returns the number of unconsumed entries.
func (b SeedBatch) Remaining() uint64 {
	if b.Consumed >= b.Count {
		return 0
	}
	return uint64(b.Count - b.Consumed)
}

// Drained reports whether every entry of the batch was consumed. Empty slots
// count as drained.
func (b SeedBatch) Drained() bool { return b.Consumed >= b.Count }

// Pool owns a fixed ring of seed batches. Head points at the oldest batch
// that may still hold entries, Tail at the next slot a refill writes.
type Pool struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Authority       string    `json:"authority"`
	Oracle          string    `json:"oracle"`
	Head            uint8     `json:"head"`
	Tail            uint8     `json:"tail"`
	TotalAvailable  uint64    `json:"total_available"`
	GlobalNextIndex uint64    `json:"global_next_index"`
	LastRefillTS    int64     `json:"last_refill_ts"`

	Batches [Capacity]SeedBatch `json:"batches" gorm:"type:text;serializer:json"`
}

func (Pool) TableName() string { return "entropy_pools" }

// NewPool returns an empty pool administered by authority and fed by oracle.
func NewPool(authority, oracle string) *Pool {
	return &Pool{Authority: authority, Oracle: oracle}
}

// Clone returns a deep copy. The batch ring is an array so a value copy is
// enough.
func (p *Pool) Clone() *Pool {
	c := *p
	return &c
}

// HasAvailable reports whether at least n entries can be drawn.
func (p *Pool) HasAvailable(n uint64) bool { return p.TotalAvailable >= n }

// Refill writes a new batch at the tail slot. Only the oracle or the pool
// authority may refill, count must be positive, and start may never precede
// the global watermark. The tail slot must be fully consumed.
func (p *Pool) Refill(caller string, seed [SeedLen]byte, start uint64, count uint32, now time.Time) error {
	if caller == "" || (caller != p.Oracle && caller != p.Authority) {
		return ErrUnauthorizedRefill
	}
	if count == 0 {
		return ErrInvalidRange
	}
	if start < p.GlobalNextIndex {
		return ErrSeedReplay
	}
	slot := int(p.Tail) % Capacity
	if !p.Batches[slot].Drained() {
		return ErrPoolFull
	}
	if p.TotalAvailable > MaxIndex-uint64(count) {
		return ErrMathOverflow
	}
	if start > MaxIndex-uint64(count) {
		return ErrMathOverflow
	}

	p.Batches[slot] = SeedBatch{Seed: seed, Start: start, Count: count}
	p.Tail = uint8((slot + 1) % Capacity)
	p.TotalAvailable += uint64(count)
	p.GlobalNextIndex = start + uint64(count)
	p.LastRefillTS = now.Unix()
	return nil
}

// Draw is the result of one consumption: the value in [min, max] and the
// absolute global index it was derived from.
type Draw struct {
	Value uint64
	Index uint64
}

// Consume draws one value in [min, max] bound to (requester, tag, turn) and
// the absolute offset of the entry used. The caller is expected to enforce
// its own monotonic ordering on Draw.Index.
func (p *Pool) Consume(requester string, tag string, turn uint64, min, max uint64) (Draw, error) {
	if max < min {
		return Draw{}, ErrInvalidRange
	}
	if turn > math.MaxUint32 {
		return Draw{}, ErrMathOverflow
	}
	if p.TotalAvailable == 0 {
		return Draw{}, ErrNoEntropyAvailable
	}

	start := int(p.Head) % Capacity
	idx := start
	for p.Batches[idx].Drained() {
		idx = (idx + 1) % Capacity
		if idx == start {
			// total_available promised an entry that no batch holds.
			return Draw{}, ErrNoEntropyAvailable
		}
	}

	batch := &p.Batches[idx]
	offset := batch.Start + uint64(batch.Consumed)
	value := Derive(batch.Seed, offset, requester, tag, uint32(turn), min, max)

	batch.Consumed++
	p.TotalAvailable--
	if batch.Drained() {
		p.Head = uint8((idx + 1) % Capacity)
	}
	return Draw{Value: value, Index: offset}, nil
}

// Derive computes sha256(seed || offset_le || requester || tag || turn_le),
// reads the first 8 digest bytes as a little-endian uint64 and reduces it
// into [min, max]. It is a pure function: identical inputs always reproduce
// the same value.
func Derive(seed [SeedLen]byte, offset uint64, requester, tag string, turn uint32, min, max uint64) uint64 {
	var off [8]byte
	binary.LittleEndian.PutUint64(off[:], offset)
	var tn [4]byte
	binary.LittleEndian.PutUint32(tn[:], turn)

	h := sha256.New()
	h.Write(seed[:])
	h.Write(off[:])
	h.Write([]byte(requester))
	h.Write([]byte(tag))
	h.Write(tn[:])
	sum := h.Sum(nil)

	raw := binary.LittleEndian.Uint64(sum[:8])
	span := max - min + 1
	if span == 0 {
		// [0, MaxUint64]: every raw value is already in range.
		return raw
	}
	return min + raw%span
}

// CheckInvariants verifies that TotalAvailable matches the live sum of the
// batches and that no batch overconsumed. Storage runs it on load.
func (p *Pool) CheckInvariants() error {
	var sum uint64
	for _, b := range p.Batches {
		if b.Consumed > b.Count {
			return ErrCorruptPool
		}
		sum += b.Remaining()
	}
	if sum != p.TotalAvailable {
		return ErrCorruptPool
	}
	return nil
}
