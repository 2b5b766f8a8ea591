// Package mnemonic converts BIP-39 phrases to and from integer secrets. The
// phrase entropy is read as a big-endian natural number, so a 24-word phrase
// becomes a 256-bit secret.
package mnemonic

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Davincible/fieldshare/pkg/secure"
	"github.com/tyler-smith/go-bip39"
)

const (
	MinEntropyBits = 128
	MaxEntropyBits = 256
)

// ErrInvalidMnemonic is returned for phrases that fail the BIP-39 checks.
var ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

type Mnemonic struct {
	words []string
}

// FromWords parses and validates a phrase. Surrounding and repeated
// whitespace is ignored; words are matched lower-case.
func FromWords(phrase string) (*Mnemonic, error) {
	words := strings.Fields(strings.ToLower(phrase))
	normalized := strings.Join(words, " ")
	if !bip39.IsMnemonicValid(normalized) {
		return nil, ErrInvalidMnemonic
	}

	return &Mnemonic{words: words}, nil
}

func FromEntropy(entropy []byte) (*Mnemonic, error) {
	if _, err := WordCountFromEntropyBits(len(entropy) * 8); err != nil {
		return nil, err
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mnemonic from entropy: %w", err)
	}

	return &Mnemonic{words: strings.Fields(phrase)}, nil
}

// FromSecret renders secret as a phrase of wordCount words. The secret is
// left-padded with zero bytes to the entropy length of that word count.
func FromSecret(secret *big.Int, wordCount int) (*Mnemonic, error) {
	if secret == nil || secret.Sign() < 0 {
		return nil, fmt.Errorf("secret must be a natural number")
	}

	bits, err := EntropyBitsFromWordCount(wordCount)
	if err != nil {
		return nil, err
	}
	if secret.BitLen() > bits {
		return nil, fmt.Errorf("secret has %d bits, a %d-word phrase holds %d", secret.BitLen(), wordCount, bits)
	}

	entropy := make([]byte, bits/8)
	secret.FillBytes(entropy)
	defer secure.Zero(entropy)

	return FromEntropy(entropy)
}

func (m *Mnemonic) Words() string {
	return strings.Join(m.words, " ")
}

func (m *Mnemonic) WordCount() int {
	return len(m.words)
}

func (m *Mnemonic) Entropy() ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(m.Words())
	if err != nil {
		return nil, fmt.Errorf("failed to get entropy from mnemonic: %w", err)
	}
	return entropy, nil
}

// Secret returns the phrase entropy as a natural number.
func (m *Mnemonic) Secret() (*big.Int, error) {
	entropy, err := m.Entropy()
	if err != nil {
		return nil, err
	}
	defer secure.Zero(entropy)

	return new(big.Int).SetBytes(entropy), nil
}

// Wipe overwrites the words held by m.
func (m *Mnemonic) Wipe() {
	for i := range m.words {
		m.words[i] = ""
	}
	m.words = nil
}

// ValidateWordCount reports whether count is a BIP-39 phrase length.
func ValidateWordCount(count int) bool {
	_, err := EntropyBitsFromWordCount(count)
	return err == nil
}

func EntropyBitsFromWordCount(wordCount int) (int, error) {
	switch wordCount {
	case 12:
		return 128, nil
	case 15:
		return 160, nil
	case 18:
		return 192, nil
	case 21:
		return 224, nil
	case 24:
		return 256, nil
	default:
		return 0, fmt.Errorf("invalid word count: %d (want 12, 15, 18, 21 or 24)", wordCount)
	}
}

func WordCountFromEntropyBits(bits int) (int, error) {
	if bits < MinEntropyBits || bits > MaxEntropyBits {
		return 0, fmt.Errorf("entropy bits must be between %d and %d", MinEntropyBits, MaxEntropyBits)
	}
	if bits%32 != 0 {
		return 0, fmt.Errorf("entropy bits must be a multiple of 32")
	}
	return bits / 32 * 3, nil
}

// WordCountForSecret returns the shortest phrase length able to hold secret.
func WordCountForSecret(secret *big.Int) (int, error) {
	bits := secret.BitLen()
	if bits < MinEntropyBits {
		bits = MinEntropyBits
	}
	bits = (bits + 31) / 32 * 32
	return WordCountFromEntropyBits(bits)
}
