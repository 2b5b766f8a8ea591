// Package field implements exact arithmetic over finite fields.
//
// Two interchangeable backends satisfy the Field interface: Prime, the
// integers modulo a prime p, and Binary8, GF(2^8) reduced by the Rijndael
// polynomial. Values are carried as Element, an immutable canonical integer
// in [0, order-1] whose meaning is given by the field that produced it.
package field

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/Davincible/fieldshare/pkg/crypto/randsrc"
)

var (
	// ErrInvalidModulus is returned when a prime field is built on a modulus
	// that is not prime, or a modulus too small for the values it must hold.
	ErrInvalidModulus = errors.New("invalid modulus")
	// ErrDivisionByZero is returned when inverting the additive identity.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOutOfRange is returned when a value outside [0, order-1] is offered
	// as a field element. Inputs are never silently reduced.
	ErrOutOfRange = errors.New("value outside field range")
)

// Field is the arithmetic contract shared by every backend. Elements passed
// to a Field must have been produced by that same Field.
type Field interface {
	// Name identifies the backend, e.g. "prime" or "gf256".
	Name() string
	// Order is the number of elements in the field.
	Order() *big.Int

	Element(v *big.Int) (Element, error)
	FromInt64(v int64) (Element, error)
	Zero() Element
	One() Element

	Add(a, b Element) Element
	Sub(a, b Element) Element
	Neg(a Element) Element
	Mul(a, b Element) Element
	Inv(a Element) (Element, error)
	Div(a, b Element) (Element, error)

	// Random draws a uniform element from the field's random source.
	Random() (Element, error)
}

// Backend names accepted by ByName.
const (
	BackendPrime  = "prime"
	BackendBinary = "gf256"
)

// Option configures a field at construction.
type Option func(*options)

var defaultRandom = randsrc.Secure()

type options struct {
	random io.Reader
}

// WithRandom replaces the random source used by Random. The reader must be a
// cryptographically secure source outside of tests.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.random = r
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{random: defaultRandom}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ByName builds the backend registered under name. The modulus is required
// by the prime backend and ignored by the binary one.
func ByName(name string, modulus *big.Int, opts ...Option) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendPrime:
		return NewPrime(modulus, opts...)
	case BackendBinary:
		return NewBinary8(opts...), nil
	default:
		return nil, fmt.Errorf("unsupported field backend: %s (supported: %s, %s)", name, BackendPrime, BackendBinary)
	}
}
