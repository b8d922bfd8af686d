package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/sys/cpu"
)

// KeySize is the key length every algorithm takes.
const KeySize = 32

// Algorithm identifies the AEAD. Its value is the tag byte written in
// front of sealed data and must never be renumbered.
type Algorithm byte

const (
	ChaCha20Poly1305 Algorithm = 1
	AES256GCM        Algorithm = 2
)

var (
	ErrKeySize          = errors.New("adaptive: key must be 32 bytes")
	ErrUnknownAlgorithm = errors.New("adaptive: unknown algorithm")
)

func (a Algorithm) String() string {
	switch a {
	case ChaCha20Poly1305:
		return "chacha20-poly1305"
	case AES256GCM:
		return "aes-256-gcm"
	default:
		return fmt.Sprintf("unknown(%d)", byte(a))
	}
}

// Preferred returns AES256GCM when the CPU accelerates it.
func Preferred() Algorithm {
	if hasAESHardware() {
		return AES256GCM
	}
	return ChaCha20Poly1305
}

func hasAESHardware() bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return cpu.X86.HasAES && cpu.X86.HasPCLMULQDQ
	case "arm64":
		return cpu.ARM64.HasAES && cpu.ARM64.HasPMULL
	case "s390x":
		return cpu.S390X.HasAESGCM
	default:
		return false
	}
}

// NewAEAD builds the AEAD for alg.
func NewAEAD(alg Algorithm, key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}

	switch alg {
	case ChaCha20Poly1305:
		return chacha20poly1305.New(key)
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, byte(alg))
	}
}
