// Package storage reads and writes share files, optionally sealed with a
// passphrase (PBKDF2-SHA256 key, AES-256-GCM).
package storage

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Davincible/fieldshare/pkg/secure"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 32
	NonceSize  = 12
	KeySize    = 32
	Iterations = 100000
	// MaxIterations bounds the work factor accepted from a file.
	MaxIterations = 10 * Iterations

	// Format marks a sealed file. It is also the GCM additional data.
	Format = "fieldshare-sealed-v1"
)

var (
	// ErrPassphraseRequired is returned when a sealed file is read without a passphrase.
	ErrPassphraseRequired = errors.New("share file is encrypted, a passphrase is required")
	// ErrDecrypt is returned for a wrong passphrase or a tampered file.
	ErrDecrypt = errors.New("failed to decrypt share file")
)

// Envelope is the on-disk form of a sealed file.
type Envelope struct {
	Format     string `json:"format"`
	Iterations int    `json:"iterations"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// ShareFile is a share file on disk.
type ShareFile struct {
	path string
	mode os.FileMode
}

// NewShareFile returns a handle for path. Files are written with mode.
func NewShareFile(path string, mode os.FileMode) *ShareFile {
	if mode == 0 {
		mode = 0600
	}
	return &ShareFile{path: path, mode: mode}
}

func (s *ShareFile) Path() string {
	return s.path
}

// Write stores data, sealed when passphrase is non-empty.
func (s *ShareFile) Write(data, passphrase []byte) error {
	out := data
	if len(passphrase) > 0 {
		sealed, err := Seal(data, passphrase)
		if err != nil {
			return err
		}
		out = sealed
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(s.path, out, s.mode); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Read loads the file. For a sealed file, passphrase is called to obtain
// the passphrase; plain files never call it.
func (s *ShareFile) Read(passphrase func() ([]byte, error)) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if !IsSealed(data) {
		return data, nil
	}

	if passphrase == nil {
		return nil, ErrPassphraseRequired
	}
	pass, err := passphrase()
	if err != nil {
		return nil, err
	}
	defer secure.Zero(pass)
	if len(pass) == 0 {
		return nil, ErrPassphraseRequired
	}

	return Open(data, pass)
}

// Seal encrypts data under a key derived from passphrase.
func Seal(data, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt, Iterations)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	env := Envelope{
		Format:     Format,
		Iterations: Iterations,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, data, []byte(Format)),
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal encrypted data: %w", err)
	}
	return out, nil
}

// Open reverses Seal.
func Open(sealed, passphrase []byte) ([]byte, error) {
	var env Envelope
	if err := json.Unmarshal(sealed, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal encrypted data: %w", err)
	}
	if env.Format != Format {
		return nil, fmt.Errorf("unsupported share file format %q", env.Format)
	}
	if env.Iterations <= 0 || len(env.Nonce) != NonceSize {
		return nil, fmt.Errorf("%w: malformed envelope", ErrDecrypt)
	}
	if env.Iterations > MaxIterations {
		return nil, fmt.Errorf("%w: %d iterations exceeds the limit of %d", ErrDecrypt, env.Iterations, MaxIterations)
	}

	gcm, err := newGCM(passphrase, env.Salt, env.Iterations)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, []byte(Format))
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// IsSealed reports whether data is a sealed envelope.
func IsSealed(data []byte) bool {
	if !bytes.Contains(data, []byte(Format)) {
		return false
	}
	var probe struct {
		Format string `json:"format"`
	}
	return json.Unmarshal(data, &probe) == nil && probe.Format == Format
}

func newGCM(passphrase, salt []byte, iterations int) (cipher.AEAD, error) {
	key := pbkdf2.Key(passphrase, salt, iterations, KeySize, sha256.New)
	defer secure.Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
