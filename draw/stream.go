// Package draw selects items uniformly at random, without replacement, from
// a slot-indexed pool using a keystream derived from a per-item seed.
package draw

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// Stream is a deterministic source of uniform integers backed by a ChaCha20
// keystream. The same seed always yields the same sequence.
type Stream struct {
	c   *chacha20.Cipher
	buf [4]byte
}

// NewStream keys a ChaCha20 cipher with seed and an all-zero nonce.
func NewStream(seed [32]byte) (*Stream, error) {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("draw: init chacha20: %w", err)
	}
	return &Stream{c: c}, nil
}

// Uint32 returns the next 4 keystream bytes as a little-endian integer.
func (s *Stream) Uint32() uint32 {
	s.buf = [4]byte{}
	s.c.XORKeyStream(s.buf[:], s.buf[:])
	return binary.LittleEndian.Uint32(s.buf[:])
}

// Uniform returns a value in [0, n) without modulo bias. Values from the
// biased tail of the 32-bit range are rejected and redrawn.
func (s *Stream) Uniform(n uint32) (uint32, error) {
	if n == 0 {
		return 0, ErrInvalidRange
	}
	// zone is the largest multiple of n that fits in 2^32.
	zone := uint64(1)<<32 - (uint64(1)<<32)%uint64(n)
	for {
		v := uint64(s.Uint32())
		if v < zone {
			return uint32(v % uint64(n)), nil
		}
	}
}
