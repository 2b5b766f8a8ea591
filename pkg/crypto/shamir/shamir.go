// Package shamir splits a field element into N shares of which any K
// reconstruct it, and recovers it again by Lagrange interpolation at x = 0.
package shamir

import (
	"fmt"
	"log/slog"
	"math/big"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"github.com/Davincible/fieldshare/pkg/crypto/polynomial"
)

// Share is one point (X, Y) on the sharing polynomial. X is never zero.
type Share struct {
	X field.Element
	Y field.Element
}

func (s Share) String() string {
	return fmt.Sprintf("%s:%s", s.X, s.Y)
}

// ShareSet is every share issued for one secret. X-coordinates are 1..N.
type ShareSet struct {
	Field     field.Field
	Threshold int
	Shares    []Share
}

// Len returns the number of shares in the set.
func (s *ShareSet) Len() int {
	return len(s.Shares)
}

// Subset returns the shares at the given positions of the set.
func (s *ShareSet) Subset(indices ...int) ([]Share, error) {
	out := make([]Share, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(s.Shares) {
			return nil, fmt.Errorf("share index %d out of range [0, %d)", idx, len(s.Shares))
		}
		out[i] = s.Shares[idx]
	}
	return out, nil
}

// Config holds the counts of one sharing operation.
type Config struct {
	Parts     int
	Threshold int
}

// Validate checks 2 <= Threshold <= Parts < order, where order is the size
// of the field the shares will live in.
func (c *Config) Validate(order *big.Int) error {
	if c.Threshold < 2 {
		return fmt.Errorf("%w: %w: threshold must be at least 2, got %d", ErrInvalidParameters, ErrInvalidThreshold, c.Threshold)
	}
	if c.Threshold > c.Parts {
		return fmt.Errorf("%w: threshold (%d) cannot be greater than parts (%d)", ErrInvalidParameters, c.Threshold, c.Parts)
	}
	if order != nil && big.NewInt(int64(c.Parts)).Cmp(order) >= 0 {
		return fmt.Errorf("%w: %w: %d parts need %d distinct non-zero x-coordinates, field of order %s has %s",
			ErrInvalidParameters, ErrInvalidModulus, c.Parts, c.Parts, order, new(big.Int).Sub(order, big.NewInt(1)))
	}
	return nil
}

// Generate splits secret into n shares with threshold k. Shares are the
// evaluations of one random polynomial of degree k-1 at x = 1..n. The
// polynomial is wiped before returning.
func Generate(secret field.Element, n, k int, f field.Field) (*ShareSet, error) {
	config := Config{Parts: n, Threshold: k}
	if err := config.Validate(f.Order()); err != nil {
		return nil, err
	}

	poly, err := polynomial.New(secret, k-1, f)
	if err != nil {
		return nil, fmt.Errorf("failed to build sharing polynomial: %w", err)
	}
	defer poly.Zeroize()

	shares := make([]Share, n)
	for i := range shares {
		x, err := f.FromInt64(int64(i + 1))
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i+1, err)
		}
		shares[i] = Share{X: x, Y: poly.Evaluate(x)}
	}

	slog.Debug("Generated share set", "field", f.Name(), "order_bits", f.Order().BitLen(), "parts", n, "threshold", k)

	return &ShareSet{
		Field:     f,
		Threshold: k,
		Shares:    shares,
	}, nil
}

// Reconstruct recovers the secret as the interpolating polynomial's value at
// x = 0. It cannot tell how many shares the scheme required: given fewer
// than the threshold it returns a well-formed element that is not the secret.
func Reconstruct(shares []Share, f field.Field) (field.Element, error) {
	for i, s := range shares {
		if s.X.IsZero() {
			return field.Element{}, fmt.Errorf("%w: share %d has x = 0", ErrInvalidShare, i)
		}
	}
	return InterpolateAt(shares, f.Zero(), f)
}

// InterpolateAt evaluates, at x, the unique polynomial of degree below
// len(shares) that passes through every share.
func InterpolateAt(shares []Share, x field.Element, f field.Field) (field.Element, error) {
	if len(shares) == 0 {
		return field.Element{}, ErrEmptyShareSet
	}

	if err := CheckShares(shares, f); err != nil {
		return field.Element{}, err
	}

	result := f.Zero()
	for i, si := range shares {
		numerator := f.One()
		denominator := f.One()

		for j, sj := range shares {
			if i == j {
				continue
			}
			numerator = f.Mul(numerator, f.Sub(x, sj.X))
			denominator = f.Mul(denominator, f.Sub(si.X, sj.X))
		}

		basis, err := f.Div(numerator, denominator)
		if err != nil {
			return field.Element{}, fmt.Errorf("lagrange basis %d: %w", i, err)
		}
		result = f.Add(result, f.Mul(si.Y, basis))
	}

	return result, nil
}

// CheckShares rejects coordinates outside f and repeated x values. Duplicates
// are caught here so they never surface as a division by zero.
func CheckShares(shares []Share, f field.Field) error {
	seen := make(map[string]int, len(shares))
	for i, s := range shares {
		if _, err := f.Element(s.X.BigInt()); err != nil {
			return fmt.Errorf("%w: share %d x: %w", ErrInvalidShare, i, err)
		}
		if _, err := f.Element(s.Y.BigInt()); err != nil {
			return fmt.Errorf("%w: share %d y: %w", ErrInvalidShare, i, err)
		}
		if prev, dup := seen[s.X.Key()]; dup {
			return fmt.Errorf("%w: shares %d and %d both have x = %s", ErrDuplicateXCoordinate, prev, i, s.X)
		}
		seen[s.X.Key()] = i
	}
	return nil
}
