package validation

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/Davincible/fieldshare/pkg/crypto/mnemonic"
	"github.com/Davincible/fieldshare/pkg/crypto/shamir"
)

var (
	sharePattern   = regexp.MustCompile(`^\(?\s*(\d+)\s*[:,]\s*(\d+)\s*\)?$`)
	integerPattern = regexp.MustCompile(`^(0[xX][0-9a-fA-F_]+|[0-9_]+)$`)
)

// ParseShare parses a share written as "x:y". "(x, y)" is accepted too.
// Both coordinates are decimal.
func ParseShare(input string) (shamir.Pair, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return shamir.Pair{}, fmt.Errorf("share cannot be empty")
	}

	m := sharePattern.FindStringSubmatch(input)
	if m == nil {
		return shamir.Pair{}, fmt.Errorf("invalid share format %q, expected x:y with decimal coordinates", input)
	}

	x, _ := new(big.Int).SetString(m[1], 10)
	y, _ := new(big.Int).SetString(m[2], 10)
	if x.Sign() == 0 {
		return shamir.Pair{}, fmt.Errorf("share %q has x = 0, which would be the secret itself", input)
	}

	return shamir.Pair{X: x, Y: y}, nil
}

// ParseShares parses one share per non-empty line.
func ParseShares(input string) ([]shamir.Pair, error) {
	var pairs []shamir.Pair
	for i, line := range strings.Split(SanitizeInput(input), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pair, err := ParseShare(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// ParseSecret parses a natural number secret, in decimal or with a 0x prefix.
func ParseSecret(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("secret cannot be empty")
	}

	if strings.HasPrefix(input, "-") {
		return nil, fmt.Errorf("secret must be a natural number")
	}

	if !integerPattern.MatchString(input) {
		return nil, fmt.Errorf("secret must be a decimal or 0x-prefixed hex integer")
	}

	base := 10
	if strings.HasPrefix(strings.ToLower(input), "0x") {
		base = 0
	} else {
		input = strings.ReplaceAll(input, "_", "")
	}

	secret, ok := new(big.Int).SetString(input, base)
	if !ok || input == "" {
		return nil, fmt.Errorf("secret %q is not a valid integer", input)
	}
	return secret, nil
}

func ValidateMnemonic(words string) error {
	words = strings.TrimSpace(words)
	if words == "" {
		return fmt.Errorf("mnemonic cannot be empty")
	}

	wordList := strings.Fields(words)
	wordCount := len(wordList)

	if !mnemonic.ValidateWordCount(wordCount) {
		return fmt.Errorf("mnemonic must have 12, 15, 18, 21, or 24 words (got %d)", wordCount)
	}

	for i, word := range wordList {
		if len(word) < 3 || len(word) > 8 {
			return fmt.Errorf("word %d has invalid length: %s", i+1, word)
		}

		for _, ch := range strings.ToLower(word) {
			if ch < 'a' || ch > 'z' {
				return fmt.Errorf("word %d contains invalid characters: %s", i+1, word)
			}
		}
	}

	return nil
}

// ValidateSplitParams checks the counts alone. The upper bound on parts
// depends on the field and is enforced when the shares are generated.
func ValidateSplitParams(parts, threshold int) error {
	if parts < 2 {
		return fmt.Errorf("%w: parts must be at least 2 (got %d)", shamir.ErrInvalidParameters, parts)
	}

	config := shamir.Config{Parts: parts, Threshold: threshold}
	return config.Validate(nil)
}

func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return strings.Join(lines, "\n")
}
