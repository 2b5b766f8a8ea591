// Package secure wipes sensitive values from memory once they are no longer needed.
package secure

import (
	"math/big"
	"runtime"
)

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroInt overwrites the words backing n and leaves n equal to zero.
func ZeroInt(n *big.Int) {
	if n == nil {
		return
	}
	words := n.Bits()
	for i := range words {
		words[i] = 0
	}
	runtime.KeepAlive(words)
	n.SetInt64(0)
}
