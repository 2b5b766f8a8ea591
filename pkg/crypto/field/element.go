package field

import (
	"math/big"

	"github.com/Davincible/fieldshare/pkg/secure"
)

var bigZero = new(big.Int)

// Element is a canonical field value. The zero value is the additive
// identity. Elements are immutable; arithmetic always returns new ones.
type Element struct {
	v *big.Int
}

func newElement(v *big.Int) Element {
	return Element{v: v}
}

func (e Element) int() *big.Int {
	if e.v == nil {
		return bigZero
	}
	return e.v
}

// BigInt returns a copy of the element's integer value.
func (e Element) BigInt() *big.Int {
	return new(big.Int).Set(e.int())
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool {
	return e.int().Sign() == 0
}

// Equal reports whether e and o hold the same value.
func (e Element) Equal(o Element) bool {
	return e.int().Cmp(o.int()) == 0
}

// Cmp compares the integer values of e and o.
func (e Element) Cmp(o Element) int {
	return e.int().Cmp(o.int())
}

// Key is a string form suitable for map keys.
func (e Element) Key() string {
	return e.int().Text(16)
}

func (e Element) String() string {
	return e.int().String()
}

// MarshalText encodes the element as a decimal integer.
func (e Element) MarshalText() ([]byte, error) {
	return e.int().MarshalText()
}

// wipe zeroes the words backing e. Only for elements the caller owns
// exclusively, such as polynomial coefficients.
func (e Element) wipe() {
	if e.v != nil {
		secure.ZeroInt(e.v)
	}
}

// Wipe zeroes the memory backing each element. Elements that are shared with
// other owners must not be passed here.
func Wipe(elems ...Element) {
	for _, e := range elems {
		e.wipe()
	}
}
