package field

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/Davincible/fieldshare/pkg/crypto/primes"
)

// Prime is the field of integers modulo a prime p.
type Prime struct {
	p    *big.Int
	opts options
}

// NewPrime builds GF(p). The modulus is checked for primality here and only
// here; arithmetic relies on that invariant afterwards.
func NewPrime(modulus *big.Int, opts ...Option) (*Prime, error) {
	if modulus == nil {
		return nil, fmt.Errorf("%w: modulus is required", ErrInvalidModulus)
	}
	if !primes.IsPrime(modulus) {
		return nil, fmt.Errorf("%w: %s is not prime", ErrInvalidModulus, modulus)
	}

	return &Prime{
		p:    new(big.Int).Set(modulus),
		opts: buildOptions(opts),
	}, nil
}

func (f *Prime) Name() string {
	return BackendPrime
}

// Order returns a copy of p.
func (f *Prime) Order() *big.Int {
	return new(big.Int).Set(f.p)
}

func (f *Prime) Element(v *big.Int) (Element, error) {
	if v == nil {
		return Element{}, fmt.Errorf("%w: nil value", ErrOutOfRange)
	}
	if v.Sign() < 0 || v.Cmp(f.p) >= 0 {
		return Element{}, fmt.Errorf("%w: %s not in [0, %s)", ErrOutOfRange, v, f.p)
	}
	return newElement(new(big.Int).Set(v)), nil
}

func (f *Prime) FromInt64(v int64) (Element, error) {
	return f.Element(big.NewInt(v))
}

func (f *Prime) Zero() Element {
	return newElement(new(big.Int))
}

func (f *Prime) One() Element {
	return newElement(big.NewInt(1))
}

func (f *Prime) reduce(v *big.Int) Element {
	// Mod is Euclidean, so negative intermediates land in [0, p).
	return newElement(v.Mod(v, f.p))
}

func (f *Prime) Add(a, b Element) Element {
	return f.reduce(new(big.Int).Add(a.int(), b.int()))
}

func (f *Prime) Sub(a, b Element) Element {
	return f.reduce(new(big.Int).Sub(a.int(), b.int()))
}

func (f *Prime) Neg(a Element) Element {
	return f.reduce(new(big.Int).Neg(a.int()))
}

func (f *Prime) Mul(a, b Element) Element {
	return f.reduce(new(big.Int).Mul(a.int(), b.int()))
}

// Inv computes a^-1 with the extended Euclidean algorithm.
func (f *Prime) Inv(a Element) (Element, error) {
	if a.IsZero() {
		return Element{}, ErrDivisionByZero
	}
	inv := new(big.Int).ModInverse(a.int(), f.p)
	if inv == nil {
		// Unreachable for a prime modulus and a non-zero element.
		return Element{}, fmt.Errorf("%w: %s has no inverse mod %s", ErrDivisionByZero, a, f.p)
	}
	return newElement(inv), nil
}

func (f *Prime) Div(a, b Element) (Element, error) {
	inv, err := f.Inv(b)
	if err != nil {
		return Element{}, err
	}
	return f.Mul(a, inv), nil
}

// Random returns a uniform element of [0, p).
func (f *Prime) Random() (Element, error) {
	v, err := rand.Int(f.opts.random, f.p)
	if err != nil {
		return Element{}, fmt.Errorf("failed to draw random field element: %w", err)
	}
	return newElement(v), nil
}
