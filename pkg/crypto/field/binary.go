package field

// GF(256) arithmetic with polynomial representation, reduced modulo the
// Rijndael polynomial x^8 + x^4 + x^3 + x + 1 (0x11B), the field used by AES.

import (
	"fmt"
	"io"
	"math/big"
)

const rijndaelReduction = 0x1B

var (
	gfExp [256]byte
	gfLog [256]byte
)

func init() {
	// 3 generates the multiplicative group under the Rijndael polynomial.
	x := byte(1)
	for i := 0; i < 255; i++ {
		gfExp[i] = x
		gfLog[x] = byte(i)
		x = gfMulSlow(x, 3)
	}
	gfExp[255] = gfExp[0]
}

// gfMulSlow is schoolbook carry-less multiplication, used to build the tables.
func gfMulSlow(a, b byte) byte {
	var result byte
	for i := 0; i < 8; i++ {
		if (b>>i)&1 == 1 {
			result ^= a
		}
		carry := a & 0x80
		a <<= 1
		if carry != 0 {
			a ^= rijndaelReduction
		}
	}
	return result
}

// Binary8 is GF(2^8). Addition and subtraction are both XOR.
type Binary8 struct {
	opts options
}

// NewBinary8 builds GF(2^8).
func NewBinary8(opts ...Option) *Binary8 {
	return &Binary8{opts: buildOptions(opts)}
}

func (f *Binary8) Name() string {
	return BackendBinary
}

func (f *Binary8) Order() *big.Int {
	return big.NewInt(256)
}

func (f *Binary8) Element(v *big.Int) (Element, error) {
	if v == nil {
		return Element{}, fmt.Errorf("%w: nil value", ErrOutOfRange)
	}
	if v.Sign() < 0 || v.Cmp(big.NewInt(256)) >= 0 {
		return Element{}, fmt.Errorf("%w: %s not in [0, 256)", ErrOutOfRange, v)
	}
	return newElement(new(big.Int).Set(v)), nil
}

func (f *Binary8) FromInt64(v int64) (Element, error) {
	return f.Element(big.NewInt(v))
}

func (f *Binary8) Zero() Element {
	return fromByte(0)
}

func (f *Binary8) One() Element {
	return fromByte(1)
}

func toByte(e Element) byte {
	return byte(e.int().Uint64())
}

func fromByte(b byte) Element {
	return newElement(new(big.Int).SetUint64(uint64(b)))
}

func (f *Binary8) Add(a, b Element) Element {
	return fromByte(toByte(a) ^ toByte(b))
}

func (f *Binary8) Sub(a, b Element) Element {
	return fromByte(toByte(a) ^ toByte(b))
}

// Neg is the identity in characteristic 2.
func (f *Binary8) Neg(a Element) Element {
	return fromByte(toByte(a))
}

func (f *Binary8) Mul(a, b Element) Element {
	return fromByte(gfMul(toByte(a), toByte(b)))
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[(int(gfLog[a])+int(gfLog[b]))%255]
}

func (f *Binary8) Inv(a Element) (Element, error) {
	x := toByte(a)
	if x == 0 {
		return Element{}, ErrDivisionByZero
	}
	return fromByte(gfExp[(255-int(gfLog[x]))%255]), nil
}

func (f *Binary8) Div(a, b Element) (Element, error) {
	inv, err := f.Inv(b)
	if err != nil {
		return Element{}, err
	}
	return f.Mul(a, inv), nil
}

// Random returns a uniform element of GF(2^8). Every byte value is a field
// element, so a single byte read is already uniform.
func (f *Binary8) Random() (Element, error) {
	var buf [1]byte
	if _, err := io.ReadFull(f.opts.random, buf[:]); err != nil {
		return Element{}, fmt.Errorf("failed to draw random field element: %w", err)
	}
	return fromByte(buf[0]), nil
}
