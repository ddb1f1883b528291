package replay

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/lixenwraith/vi-pong/memento"
)

// Encoder appends a canonical byte form of state to dst
type Encoder[T any] func(dst []byte, state T) []byte

// Digest is a running hash over a snapshot stream
// The capture side and the replay side each keep one; equal sums after a full
// replay mean every captured snapshot was applied, in order, unmodified
type Digest[T any] struct {
	hasher *xxh3.Hasher
	encode Encoder[T]
	buf    []byte
	count  int
}

// NewDigest creates an empty digest using encode for state bytes
func NewDigest[T any](encode Encoder[T]) *Digest[T] {
	return &Digest[T]{
		hasher: xxh3.New(),
		encode: encode,
		buf:    make([]byte, 0, 64),
	}
}

// Write folds one snapshot into the digest
func (d *Digest[T]) Write(m memento.Memento[T]) {
	d.buf = binary.LittleEndian.AppendUint64(d.buf[:0], uint64(m.CreatedAt()))
	d.buf = d.encode(d.buf, m.State())
	_, _ = d.hasher.Write(d.buf)
	d.count++
}

// Sum returns the current 64-bit digest
func (d *Digest[T]) Sum() uint64 {
	return d.hasher.Sum64()
}

// Count returns the number of snapshots folded in
func (d *Digest[T]) Count() int {
	return d.count
}

// Reset clears the digest for a new stream
func (d *Digest[T]) Reset() {
	d.hasher.Reset()
	d.count = 0
}

// Match reports whether two digests saw the same stream
func Match[T any](a, b *Digest[T]) bool {
	return a.count == b.count && a.Sum() == b.Sum()
}
