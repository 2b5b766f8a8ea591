package polynomial

import (
	"fmt"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
)

// Interpolate returns the unique polynomial of degree below len(xs) passing
// through every (xs[i], ys[i]). It expands the Lagrange basis
//
//	L_i(x) = prod_{j != i} (x - x_j) / (x_i - x_j)
//
// into coefficients, so the result can be inspected term by term.
func Interpolate(f field.Field, xs, ys []field.Element) (*Polynomial, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("got %d x values and %d y values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("interpolation needs at least one point")
	}

	seen := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		if _, dup := seen[x.Key()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateX, x)
		}
		seen[x.Key()] = struct{}{}
	}

	n := len(xs)
	result := make([]field.Element, n)
	for i := range result {
		result[i] = f.Zero()
	}

	for i := 0; i < n; i++ {
		// basis holds prod_{j != i} (x - x_j), lowest degree first.
		basis := []field.Element{f.One()}
		denominator := f.One()

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			basis = mulLinear(f, basis, xs[j])
			denominator = f.Mul(denominator, f.Sub(xs[i], xs[j]))
		}

		scale, err := f.Div(ys[i], denominator)
		if err != nil {
			return nil, fmt.Errorf("basis %d: %w", i, err)
		}
		for k, c := range basis {
			result[k] = f.Add(result[k], f.Mul(c, scale))
		}
	}

	return &Polynomial{field: f, coefficients: result}, nil
}

// mulLinear multiplies poly by (x - root).
func mulLinear(f field.Field, poly []field.Element, root field.Element) []field.Element {
	out := make([]field.Element, len(poly)+1)
	for i := range out {
		out[i] = f.Zero()
	}
	negRoot := f.Neg(root)
	for i, c := range poly {
		out[i+1] = f.Add(out[i+1], c)
		out[i] = f.Add(out[i], f.Mul(c, negRoot))
	}
	return out
}
