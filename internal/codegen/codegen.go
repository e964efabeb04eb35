// Package codegen produces candidate short codes. Generators never touch
// storage: a candidate may already be taken and the caller is expected to
// retry with a fresh one.
package codegen

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math"
	"math/big"
	"strings"
	"sync/atomic"
)

// Alphabet is the base62 character set used for every generated code.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultLength is the length of generated codes when none is configured.
const DefaultLength = 7

// sequenceOffset keeps counter-based codes away from the shortest values.
const sequenceOffset = 10_000_000

var (
	ErrInvalidCharacter = errors.New("invalid base62 character")
	ErrOverflow         = errors.New("base62 value overflows uint64")
)

// Generator returns a syntactically valid candidate code on every call.
type Generator interface {
	Generate() string
}

// New returns the generator for the named strategy: "sequence" or "random"
// (the default for any other value).
func New(strategy string, length int) Generator {
	if strategy == "sequence" {
		return NewSequence(length)
	}

	return NewRandom(length)
}

// Random draws every character independently from crypto/rand.
type Random struct {
	length int
}

func NewRandom(length int) *Random {
	if length < 1 {
		length = DefaultLength
	}

	return &Random{length: length}
}

func (g *Random) Generate() string {
	var sb strings.Builder
	sb.Grow(g.length)

	base := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < g.length; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		sb.WriteByte(Alphabet[n.Int64()])
	}

	return sb.String()
}

// Sequence encodes a monotonic counter in base62. The counter starts at a
// random point so that restarts and parallel instances rarely overlap.
type Sequence struct {
	length  int
	counter atomic.Uint64
	limit   uint64
}

func NewSequence(length int) *Sequence {
	if length < 1 {
		length = DefaultLength
	}

	s := &Sequence{length: length, limit: capacity(length)}

	var b [8]byte
	_, _ = rand.Read(b[:])
	start := binary.BigEndian.Uint64(b[:])
	if s.limit > sequenceOffset {
		start = sequenceOffset + start%(s.limit-sequenceOffset)
	}
	s.counter.Store(start)

	return s
}

func (s *Sequence) Generate() string {
	n := s.counter.Add(1)
	if s.limit > 0 {
		n %= s.limit
	}

	return Pad(Encode(n), s.length)
}

// capacity is 62^length, or 0 when it does not fit in uint64.
func capacity(length int) uint64 {
	c := uint64(1)
	for i := 0; i < length; i++ {
		if c > ^uint64(0)/uint64(len(Alphabet)) {
			return 0
		}
		c *= uint64(len(Alphabet))
	}

	return c
}

// Encode converts n to its base62 representation.
func Encode(n uint64) string {
	if n == 0 {
		return Alphabet[:1]
	}

	var buf [11]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%62]
		n /= 62
	}

	return string(buf[i:])
}

// Decode is the inverse of Encode. Values above math.MaxUint64 are
// rejected with ErrOverflow.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrInvalidCharacter
	}

	var n uint64
	for _, c := range s {
		idx := strings.IndexRune(Alphabet, c)
		if idx < 0 {
			return 0, ErrInvalidCharacter
		}
		if n > (math.MaxUint64-uint64(idx))/62 {
			return 0, ErrOverflow
		}
		n = n*62 + uint64(idx)
	}

	return n, nil
}

// Pad left-pads s with the zero digit up to length; longer input is kept
// as is.
func Pad(s string, length int) string {
	if len(s) >= length {
		return s
	}

	return strings.Repeat(Alphabet[:1], length-len(s)) + s
}
