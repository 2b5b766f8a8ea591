package shamir

import (
	"math/big"
	"testing"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
	vault "github.com/hashicorp/vault/shamir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Vault shares carry the y bytes of each secret byte followed by a one-byte x tag.

func TestVaultSharesCombineInBinaryField(t *testing.T) {
	f := field.NewBinary8()
	secret := []byte("correct horse battery staple")

	parts, err := vault.Split(secret, 5, 3)
	require.NoError(t, err)

	for _, subset := range [][]int{{0, 1, 2}, {4, 2, 0}, {1, 3, 4}, {0, 1, 2, 3, 4}} {
		recovered := make([]byte, len(secret))
		for col := range secret {
			shares := make([]Share, len(subset))
			for i, idx := range subset {
				part := parts[idx]
				x, err := f.FromInt64(int64(part[len(part)-1]))
				require.NoError(t, err)
				y, err := f.FromInt64(int64(part[col]))
				require.NoError(t, err)
				shares[i] = Share{X: x, Y: y}
			}

			got, err := Reconstruct(shares, f)
			require.NoError(t, err)
			recovered[col] = byte(got.BigInt().Uint64())
		}
		assert.Equal(t, secret, recovered, "subset %v", subset)
	}
}

func TestBinaryFieldSharesCombineInVault(t *testing.T) {
	f := field.NewBinary8()
	secret := []byte{0x00, 0x42, 0xFF, 0x13}

	sets := make([]*ShareSet, len(secret))
	for i, b := range secret {
		s, err := f.Element(big.NewInt(int64(b)))
		require.NoError(t, err)
		sets[i], err = Generate(s, 6, 4, f)
		require.NoError(t, err)
	}

	// Reassemble share j of every byte into one vault part.
	parts := make([][]byte, 6)
	for j := range parts {
		part := make([]byte, 0, len(secret)+1)
		for _, set := range sets {
			part = append(part, byte(set.Shares[j].Y.BigInt().Uint64()))
		}
		parts[j] = append(part, byte(j+1))
	}

	got, err := vault.Combine([][]byte{parts[5], parts[1], parts[3], parts[0]})
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}
