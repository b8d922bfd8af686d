// Package adaptive seals small secrets with an AEAD chosen for the host.
//
// AES-256-GCM is used when the CPU has AES and carry-less multiply
// instructions; ChaCha20-Poly1305 otherwise. Every sealed value starts
// with a one-byte algorithm tag, so a value written on one machine opens
// on any other that shares the key:
//
//	s, err := adaptive.NewSealer(key, adaptive.Preferred())
//	sealed, err := s.Seal(plaintext, aad)
//	plaintext, err := s.Open(sealed, aad)
package adaptive
