package shamir

import (
	"fmt"
	"math/big"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
)

// Pair is a share in the plain integer form handed to participants.
// big.Int encodes to JSON as an exact integer literal.
type Pair struct {
	X *big.Int `json:"x"`
	Y *big.Int `json:"y"`
}

func (p Pair) String() string {
	return fmt.Sprintf("%s:%s", p.X, p.Y)
}

// Pairs converts the set into integer pairs.
func (s *ShareSet) Pairs() []Pair {
	return ToPairs(s.Shares)
}

// ToPairs converts shares into integer pairs.
func ToPairs(shares []Share) []Pair {
	out := make([]Pair, len(shares))
	for i, s := range shares {
		out[i] = Pair{X: s.X.BigInt(), Y: s.Y.BigInt()}
	}
	return out
}

// FromPairs lifts integer pairs into shares of f. Values outside the field
// are rejected rather than reduced.
func FromPairs(pairs []Pair, f field.Field) ([]Share, error) {
	shares := make([]Share, len(pairs))
	for i, p := range pairs {
		if p.X == nil || p.Y == nil {
			return nil, fmt.Errorf("%w: pair %d is missing a coordinate", ErrInvalidShare, i)
		}
		x, err := f.Element(p.X)
		if err != nil {
			return nil, fmt.Errorf("%w: pair %d x: %w", ErrInvalidShare, i, err)
		}
		y, err := f.Element(p.Y)
		if err != nil {
			return nil, fmt.Errorf("%w: pair %d y: %w", ErrInvalidShare, i, err)
		}
		shares[i] = Share{X: x, Y: y}
	}
	return shares, nil
}

// GenerateShares splits a natural number secret into n integer pairs over
// GF(modulus). The modulus must be prime and larger than both secret and n;
// primes.UsableModulus picks the smallest such prime.
func GenerateShares(secret *big.Int, n, k int, modulus *big.Int, opts ...field.Option) ([]Pair, error) {
	if secret == nil || secret.Sign() < 0 {
		return nil, fmt.Errorf("%w: secret must be a natural number", ErrInvalidParameters)
	}

	f, err := field.NewPrime(modulus, opts...)
	if err != nil {
		return nil, err
	}

	s, err := f.Element(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: secret must be smaller than the modulus %s", ErrInvalidModulus, modulus)
	}

	set, err := Generate(s, n, k, f)
	if err != nil {
		return nil, err
	}
	return set.Pairs(), nil
}

// ReconstructSecret recovers the secret from integer pairs over GF(modulus).
func ReconstructSecret(pairs []Pair, modulus *big.Int) (*big.Int, error) {
	f, err := field.NewPrime(modulus)
	if err != nil {
		return nil, err
	}

	shares, err := FromPairs(pairs, f)
	if err != nil {
		return nil, err
	}

	secret, err := Reconstruct(shares, f)
	if err != nil {
		return nil, err
	}
	return secret.BigInt(), nil
}
