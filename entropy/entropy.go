// Package entropy derives the per-item draw seeds of the minter.
//
// Seed derivation:
//
//	secret = SHA256("libmint-prng-seed" || base64(entropy))
//	seed_i = HKDF-SHA256(IKM = height || time || requester || secret || itoa(i),
//	                     salt = secret, info = "libmint-draw-seed")
//
// height and time are 8-byte big-endian. The secret is fixed at
// initialization and never leaves the state database, so seeds cannot be
// predicted from public block context alone, yet every seed is reproducible
// from its five inputs.
package entropy

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/hkdf"
)

const (
	// SecretDomain separates the secret derivation from any other use of the
	// administrator entropy.
	SecretDomain = "libmint-prng-seed"

	// HKDFInfo is the info string of the per-item seed derivation.
	HKDFInfo = "libmint-draw-seed"

	// SeedLen is the length of a secret and of a derived seed.
	SeedLen = 32
)

// Secret is the persistent seed established at initialization.
type Secret [SeedLen]byte

// Seed is the 256-bit output that keys one draw.
type Seed [SeedLen]byte

// Context is the public execution context of a request.
type Context struct {
	Height uint64 // block height
	Time   uint64 // block time, seconds
}

// NewSecret hashes the administrator-supplied entropy string into the
// persistent secret.
func NewSecret(entropy string) Secret {
	h := sha256.New()
	h.Write([]byte(SecretDomain))
	h.Write([]byte(base64.StdEncoding.EncodeToString([]byte(entropy))))
	var s Secret
	copy(s[:], h.Sum(nil))
	return s
}

// Derive returns the seed for the index-th item (1-based) drawn for
// requester in ctx.
func Derive(secret Secret, ctx Context, requester string, index int) (Seed, error) {
	var seed Seed
	if index < 1 {
		return seed, fmt.Errorf("%w: index %d", ErrInvalidIndex, index)
	}

	reader := hkdf.New(sha256.New, material(secret, ctx, requester, index), secret[:], []byte(HKDFInfo))
	if _, err := io.ReadFull(reader, seed[:]); err != nil {
		return seed, fmt.Errorf("%w: %w", ErrHKDFFailure, err)
	}
	return seed, nil
}

// material builds the HKDF input keying material.
func material(secret Secret, ctx Context, requester string, index int) []byte {
	idx := strconv.Itoa(index)
	buf := make([]byte, 0, 16+len(requester)+SeedLen+len(idx))
	buf = binary.BigEndian.AppendUint64(buf, ctx.Height)
	buf = binary.BigEndian.AppendUint64(buf, ctx.Time)
	buf = append(buf, requester...)
	buf = append(buf, secret[:]...)
	buf = append(buf, idx...)
	return buf
}
