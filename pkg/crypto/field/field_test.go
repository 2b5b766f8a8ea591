package field

import (
	"errors"
	"io"
	"math/big"
	"testing"

	"github.com/Davincible/fieldshare/pkg/crypto/randsrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrime(t testing.TB, p int64, opts ...Option) *Prime {
	t.Helper()
	f, err := NewPrime(big.NewInt(p), opts...)
	require.NoError(t, err)
	return f
}

func elem(t testing.TB, f Field, v int64) Element {
	t.Helper()
	e, err := f.FromInt64(v)
	require.NoError(t, err)
	return e
}

func seeded(t testing.TB, label string) Option {
	t.Helper()
	r, err := randsrc.Deterministic([]byte("field tests"), label)
	require.NoError(t, err)
	return WithRandom(r)
}

func TestNewPrime(t *testing.T) {
	tests := []struct {
		name      string
		modulus   *big.Int
		wantError bool
	}{
		{"prime 2", big.NewInt(2), false},
		{"prime 13", big.NewInt(13), false},
		{"prime 48611", big.NewInt(48611), false},
		{"nil modulus", nil, true},
		{"zero", big.NewInt(0), true},
		{"one", big.NewInt(1), true},
		{"composite 15", big.NewInt(15), true},
		{"negative prime", big.NewInt(-13), true},
		{"prime power 256", big.NewInt(256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewPrime(tt.modulus)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrInvalidModulus)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, f.Order().Cmp(tt.modulus))
		})
	}
}

func TestNewPrimeCopiesModulus(t *testing.T) {
	m := big.NewInt(13)
	f, err := NewPrime(m)
	require.NoError(t, err)

	m.SetInt64(4)
	assert.Equal(t, int64(13), f.Order().Int64())

	f.Order().SetInt64(9)
	assert.Equal(t, int64(13), f.Order().Int64())
}

func TestElementRange(t *testing.T) {
	f := mustPrime(t, 13)

	_, err := f.FromInt64(12)
	assert.NoError(t, err)

	for _, v := range []int64{-1, 13, 100} {
		_, err := f.FromInt64(v)
		assert.ErrorIs(t, err, ErrOutOfRange, "value %d", v)
	}

	_, err = f.Element(nil)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestElementIsImmutable(t *testing.T) {
	f := mustPrime(t, 13)
	src := big.NewInt(5)
	e, err := f.Element(src)
	require.NoError(t, err)

	src.SetInt64(7)
	assert.Equal(t, "5", e.String())

	e.BigInt().SetInt64(9)
	assert.Equal(t, "5", e.String())

	sum := f.Add(e, elem(t, f, 4))
	assert.Equal(t, "5", e.String())
	assert.Equal(t, "9", sum.String())
}

func TestZeroValueElement(t *testing.T) {
	f := mustPrime(t, 13)
	var zero Element

	assert.True(t, zero.IsZero())
	assert.True(t, zero.Equal(f.Zero()))
	assert.Equal(t, "0", zero.String())
	assert.True(t, f.Add(zero, elem(t, f, 3)).Equal(elem(t, f, 3)))
}

// Exhaustive over GF(13): every law is checked for every element.
func TestPrimeFieldLawsExhaustive(t *testing.T) {
	const p = 13
	f := mustPrime(t, p)

	all := make([]Element, p)
	for i := range all {
		all[i] = elem(t, f, int64(i))
	}

	for _, a := range all {
		assert.True(t, f.Add(a, f.Zero()).Equal(a), "additive identity")
		assert.True(t, f.Mul(a, f.One()).Equal(a), "multiplicative identity")
		assert.True(t, f.Add(a, f.Neg(a)).IsZero(), "additive inverse")
		assert.True(t, f.Sub(a, a).IsZero())

		if a.IsZero() {
			_, err := f.Inv(a)
			assert.ErrorIs(t, err, ErrDivisionByZero)
		} else {
			inv, err := f.Inv(a)
			require.NoError(t, err)
			assert.True(t, f.Mul(a, inv).Equal(f.One()), "a * a^-1 for a=%s", a)
		}

		for _, b := range all {
			assert.True(t, f.Add(a, b).Equal(f.Add(b, a)))
			assert.True(t, f.Mul(a, b).Equal(f.Mul(b, a)))
			assert.True(t, f.Add(f.Sub(a, b), b).Equal(a))

			for _, c := range all {
				assert.True(t, f.Add(f.Add(a, b), c).Equal(f.Add(a, f.Add(b, c))))
				assert.True(t, f.Mul(f.Mul(a, b), c).Equal(f.Mul(a, f.Mul(b, c))))
				assert.True(t, f.Mul(a, f.Add(b, c)).Equal(f.Add(f.Mul(a, b), f.Mul(a, c))))
			}
		}
	}
}

func TestPrimeFieldLawsLargeModulus(t *testing.T) {
	m127 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	f, err := NewPrime(m127, seeded(t, "laws"))
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		a, err := f.Random()
		require.NoError(t, err)
		b, err := f.Random()
		require.NoError(t, err)
		c, err := f.Random()
		require.NoError(t, err)

		assert.True(t, f.Add(a, b).Equal(f.Add(b, a)))
		assert.True(t, f.Mul(a, b).Equal(f.Mul(b, a)))
		assert.True(t, f.Add(f.Add(a, b), c).Equal(f.Add(a, f.Add(b, c))))
		assert.True(t, f.Mul(f.Mul(a, b), c).Equal(f.Mul(a, f.Mul(b, c))))

		for _, e := range []Element{f.Add(a, b), f.Sub(a, b), f.Mul(a, b)} {
			v := e.BigInt()
			assert.True(t, v.Sign() >= 0 && v.Cmp(m127) < 0, "result not canonical: %s", v)
		}

		if !a.IsZero() {
			inv, err := f.Inv(a)
			require.NoError(t, err)
			assert.True(t, f.Mul(a, inv).Equal(f.One()))

			q, err := f.Div(b, a)
			require.NoError(t, err)
			assert.True(t, f.Mul(q, a).Equal(b))
		}
	}
}

func TestPrimeNoWraparound(t *testing.T) {
	// 2^61-1 squared overflows 64 bits; big.Int arithmetic must not.
	m61 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 61), big.NewInt(1))
	f, err := NewPrime(m61)
	require.NoError(t, err)

	top, err := f.Element(new(big.Int).Sub(m61, big.NewInt(1)))
	require.NoError(t, err)

	// (p-1)^2 = 1 mod p
	assert.True(t, f.Mul(top, top).Equal(f.One()))
	// (p-1) + (p-1) = p-2 mod p
	assert.Equal(t, new(big.Int).Sub(m61, big.NewInt(2)).String(), f.Add(top, top).String())
}

func TestDivByZero(t *testing.T) {
	for _, f := range []Field{mustPrime(t, 13), NewBinary8()} {
		t.Run(f.Name(), func(t *testing.T) {
			_, err := f.Div(f.One(), f.Zero())
			assert.ErrorIs(t, err, ErrDivisionByZero)

			_, err = f.Inv(f.Zero())
			assert.ErrorIs(t, err, ErrDivisionByZero)
		})
	}
}

func TestPrimeRandomCoversField(t *testing.T) {
	f := mustPrime(t, 7, seeded(t, "cover"))

	seen := make(map[string]int)
	for i := 0; i < 700; i++ {
		e, err := f.Random()
		require.NoError(t, err)
		v := e.BigInt()
		require.True(t, v.Sign() >= 0 && v.Cmp(big.NewInt(7)) < 0)
		seen[e.Key()]++
	}
	assert.Len(t, seen, 7)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestRandomPropagatesSourceFailure(t *testing.T) {
	for _, f := range []Field{mustPrime(t, 13, WithRandom(failingReader{})), NewBinary8(WithRandom(failingReader{}))} {
		_, err := f.Random()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	}
}

func TestWithRandomIgnoresNil(t *testing.T) {
	f := mustPrime(t, 13, WithRandom(nil))
	_, err := f.Random()
	assert.NoError(t, err)
}

func TestBinary8LawsExhaustive(t *testing.T) {
	f := NewBinary8()
	assert.Equal(t, int64(256), f.Order().Int64())

	for a := int64(0); a < 256; a++ {
		ea := elem(t, f, a)
		assert.True(t, f.Add(ea, ea).IsZero(), "characteristic 2")
		assert.True(t, f.Neg(ea).Equal(ea))
		assert.True(t, f.Mul(ea, f.One()).Equal(ea))

		if a == 0 {
			continue
		}
		inv, err := f.Inv(ea)
		require.NoError(t, err)
		assert.True(t, f.Mul(ea, inv).Equal(f.One()), "inverse of %d", a)

		for b := int64(0); b < 256; b++ {
			eb := elem(t, f, b)
			assert.True(t, f.Mul(ea, eb).Equal(f.Mul(eb, ea)))
			assert.Equal(t, gfMulSlow(byte(a), byte(b)), toByte(f.Mul(ea, eb)), "table and schoolbook disagree for %d*%d", a, b)
		}
	}
}

func TestBinary8KnownProducts(t *testing.T) {
	f := NewBinary8()
	// FIPS-197 section 4.2: {57} * {83} = {c1}, {57} * {13} = {fe}.
	assert.Equal(t, int64(0xc1), f.Mul(elem(t, f, 0x57), elem(t, f, 0x83)).BigInt().Int64())
	assert.Equal(t, int64(0xfe), f.Mul(elem(t, f, 0x57), elem(t, f, 0x13)).BigInt().Int64())

	_, err := f.FromInt64(256)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestByName(t *testing.T) {
	f, err := ByName("prime", big.NewInt(13))
	require.NoError(t, err)
	assert.Equal(t, BackendPrime, f.Name())

	f, err = ByName("", big.NewInt(13))
	require.NoError(t, err)
	assert.Equal(t, BackendPrime, f.Name())

	f, err = ByName("GF256", nil)
	require.NoError(t, err)
	assert.Equal(t, BackendBinary, f.Name())

	_, err = ByName("prime", big.NewInt(12))
	assert.ErrorIs(t, err, ErrInvalidModulus)

	_, err = ByName("gf65536", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported field backend")
}

func TestWipe(t *testing.T) {
	f := mustPrime(t, 48611)
	e := elem(t, f, 245)
	Wipe(e, Element{})
	assert.True(t, e.IsZero())
}

func BenchmarkPrimeMul(b *testing.B) {
	m127 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	f, err := NewPrime(m127)
	if err != nil {
		b.Fatal(err)
	}
	x, _ := f.Random()
	y, _ := f.Random()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = f.Mul(x, y)
	}
}
