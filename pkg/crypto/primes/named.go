package primes

import (
	"crypto/elliptic"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Preset names accepted by Named.
const (
	Secp256k1   = "secp256k1"
	P256        = "p256"
	Mersenne127 = "mersenne127"
	Mersenne521 = "mersenne521"
)

var presets = map[string]func() *big.Int{
	// Group orders of the two curves are prime, which makes them convenient
	// moduli when shares protect scalars for those curves.
	Secp256k1:   func() *big.Int { return new(big.Int).Set(btcec.S256().N) },
	P256:        func() *big.Int { return new(big.Int).Set(elliptic.P256().Params().N) },
	Mersenne127: func() *big.Int { return mersenne(127) },
	Mersenne521: func() *big.Int { return mersenne(521) },
}

// Named returns a copy of the preset prime registered under name.
func Named(name string) (*big.Int, error) {
	build, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown prime preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return build(), nil
}

// PresetNames lists the names accepted by Named in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mersenne(exp uint) *big.Int {
	m := new(big.Int).Lsh(one, exp)
	return m.Sub(m, one)
}
