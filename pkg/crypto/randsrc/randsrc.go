// Package randsrc provides the random sources consumed by field backends.
//
// Secure is the only source production code should use. Deterministic exists
// so tests can reproduce share sets exactly.
package randsrc

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

// Secure returns the operating system's CSPRNG. It is safe for concurrent use.
func Secure() io.Reader {
	return rand.Reader
}

// Deterministic returns an endless keystream derived from seed and label.
// HKDF-SHA256 turns the seed into a ChaCha20 key and nonce, so distinct labels
// give independent streams from one seed. The reader is not safe for
// concurrent use and must not protect real secrets.
func Deterministic(seed []byte, label string) (io.Reader, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("seed cannot be empty")
	}

	kdf := hkdf.New(sha256.New, seed, nil, []byte(label))
	material := make([]byte, chacha20.KeySize+chacha20.NonceSize)
	if _, err := io.ReadFull(kdf, material); err != nil {
		return nil, fmt.Errorf("failed to derive stream key: %w", err)
	}

	cipher, err := chacha20.NewUnauthenticatedCipher(material[:chacha20.KeySize], material[chacha20.KeySize:])
	if err != nil {
		return nil, fmt.Errorf("failed to create keystream: %w", err)
	}

	return &keystream{cipher: cipher}, nil
}

type keystream struct {
	cipher *chacha20.Cipher
}

func (k *keystream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	k.cipher.XORKeyStream(p, p)
	return len(p), nil
}
