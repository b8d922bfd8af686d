package adaptive

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// ErrOpen is returned for values that are truncated, tagged with an
// unknown algorithm, or fail authentication.
var ErrOpen = errors.New("adaptive: cannot open sealed value")

// Sealer writes with one algorithm and reads any of them.
type Sealer struct {
	write Algorithm
	aeads map[Algorithm]cipher.AEAD
}

// NewSealer creates a sealer that seals with alg.
func NewSealer(key []byte, alg Algorithm) (*Sealer, error) {
	s := &Sealer{write: alg, aeads: make(map[Algorithm]cipher.AEAD, 2)}
	for _, a := range []Algorithm{ChaCha20Poly1305, AES256GCM} {
		aead, err := NewAEAD(a, key)
		if err != nil {
			return nil, err
		}
		s.aeads[a] = aead
	}
	if _, ok := s.aeads[alg]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, byte(alg))
	}
	return s, nil
}

// Algorithm returns the algorithm used by Seal.
func (s *Sealer) Algorithm() Algorithm {
	return s.write
}

// Seal returns tag || nonce || ciphertext.
func (s *Sealer) Seal(plaintext, aad []byte) ([]byte, error) {
	aead := s.aeads[s.write]
	ns := aead.NonceSize()

	out := make([]byte, 1+ns, 1+ns+len(plaintext)+aead.Overhead())
	out[0] = byte(s.write)
	if _, err := io.ReadFull(rand.Reader, out[1:]); err != nil {
		return nil, fmt.Errorf("adaptive: nonce: %w", err)
	}
	return aead.Seal(out, out[1:1+ns], plaintext, aad), nil
}

// Open reverses Seal for any supported algorithm.
func (s *Sealer) Open(sealed, aad []byte) ([]byte, error) {
	if len(sealed) < 1 {
		return nil, ErrOpen
	}
	aead, ok := s.aeads[Algorithm(sealed[0])]
	if !ok {
		return nil, ErrOpen
	}
	ns := aead.NonceSize()
	if len(sealed) < 1+ns+aead.Overhead() {
		return nil, ErrOpen
	}
	plaintext, err := aead.Open(nil, sealed[1:1+ns], sealed[1+ns:], aad)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}
