// Package polynomial implements polynomials over a finite field: the random
// sharing polynomial whose constant term is the secret, Horner evaluation,
// and Lagrange expansion of a polynomial from its points.
package polynomial

import (
	"errors"
	"fmt"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
)

var (
	// ErrInvalidThreshold is returned for a sharing polynomial of degree < 1,
	// i.e. a threshold below 2, which would hand the secret to every holder.
	ErrInvalidThreshold = errors.New("invalid threshold")
	// ErrDuplicateX is returned when interpolation points repeat an x value.
	ErrDuplicateX = errors.New("duplicate x-coordinate")
)

// Polynomial holds coefficients c[0..d] of c[0] + c[1]x + ... + c[d]x^d.
type Polynomial struct {
	field        field.Field
	coefficients []field.Element
}

// New returns a sharing polynomial of the given degree with secret as the
// constant term and every other coefficient drawn from f.Random.
func New(secret field.Element, degree int, f field.Field) (*Polynomial, error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w: degree %d gives threshold %d, need at least 2", ErrInvalidThreshold, degree, degree+1)
	}

	constant, err := f.Element(secret.BigInt())
	if err != nil {
		return nil, fmt.Errorf("secret is not an element of the field: %w", err)
	}

	coefficients := make([]field.Element, degree+1)
	coefficients[0] = constant

	for i := 1; i <= degree; i++ {
		coeff, err := f.Random()
		if err != nil {
			field.Wipe(coefficients[:i]...)
			return nil, fmt.Errorf("failed to generate coefficient %d: %w", i, err)
		}
		coefficients[i] = coeff
	}

	return &Polynomial{
		field:        f,
		coefficients: coefficients,
	}, nil
}

// FromCoefficients builds a polynomial with fixed coefficients, lowest degree
// first. Each coefficient must already be an element of f.
func FromCoefficients(f field.Field, coefficients ...field.Element) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("polynomial needs at least one coefficient")
	}

	owned := make([]field.Element, len(coefficients))
	for i, c := range coefficients {
		e, err := f.Element(c.BigInt())
		if err != nil {
			return nil, fmt.Errorf("coefficient %d: %w", i, err)
		}
		owned[i] = e
	}

	return &Polynomial{field: f, coefficients: owned}, nil
}

// Evaluate computes p(x) with Horner's method. Every step goes through the
// field, so intermediate values stay reduced.
func (p *Polynomial) Evaluate(x field.Element) field.Element {
	acc := p.field.Zero()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		acc = p.field.Add(p.field.Mul(acc, x), p.coefficients[i])
	}
	return acc
}

// Degree returns the index of the highest stored coefficient.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Coefficient returns coefficient i, or zero beyond the stored degree.
func (p *Polynomial) Coefficient(i int) field.Element {
	if i < 0 || i >= len(p.coefficients) {
		return p.field.Zero()
	}
	return p.coefficients[i]
}

// Zeroize wipes the coefficients. The polynomial is unusable afterwards.
func (p *Polynomial) Zeroize() {
	field.Wipe(p.coefficients...)
	for i := range p.coefficients {
		p.coefficients[i] = field.Element{}
	}
	p.coefficients = nil
}
