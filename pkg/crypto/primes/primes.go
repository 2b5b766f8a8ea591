// Package primes holds the pure functions used to validate and select the
// modulus of a prime field. Nothing here keeps state, so a field checks its
// modulus once at construction and never again.
package primes

import (
	"fmt"
	"math/big"
)

// millerRabinRounds is passed to big.Int.ProbablyPrime. The Baillie-PSW test it
// always runs is exact for every input below 2^64.
const millerRabinRounds = 32

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// IsPrime reports whether n is prime.
func IsPrime(n *big.Int) bool {
	if n == nil || n.Cmp(two) < 0 {
		return false
	}
	return n.ProbablyPrime(millerRabinRounds)
}

// NextPrime returns the smallest prime strictly greater than n. Anything at or
// below 1 yields 2.
func NextPrime(n *big.Int) *big.Int {
	if n == nil || n.Cmp(one) <= 0 {
		return big.NewInt(2)
	}

	candidate := new(big.Int).Add(n, one)
	if candidate.Cmp(two) == 0 {
		return candidate
	}
	if candidate.Bit(0) == 0 {
		candidate.Add(candidate, one)
	}
	for !IsPrime(candidate) {
		candidate.Add(candidate, two)
	}
	return candidate
}

// UsableModulus returns the smallest prime that can hold secret and still
// leave n distinct non-zero x-coordinates.
func UsableModulus(secret *big.Int, n int) (*big.Int, error) {
	if secret == nil || secret.Sign() < 0 {
		return nil, fmt.Errorf("secret must be a natural number")
	}
	if n < 0 {
		return nil, fmt.Errorf("share count must not be negative, got %d", n)
	}

	floor := new(big.Int).Set(secret)
	if count := big.NewInt(int64(n)); count.Cmp(floor) > 0 {
		floor = count
	}
	return NextPrime(floor), nil
}
