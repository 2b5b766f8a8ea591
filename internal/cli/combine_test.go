package cli

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"github.com/Davincible/fieldshare/pkg/crypto/mnemonic"
	"github.com/Davincible/fieldshare/pkg/crypto/shamir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workedShares = []string{"1:461", "2:1529", "3:4133", "4:8957", "5:16685", "6:28001", "7:43589"}

func TestCombineWorkedExample(t *testing.T) {
	out, err := runCLI(t, "", append([]string{"combine", "--modulus", "48611"},
		shareArgs(workedShares[0], workedShares[2], workedShares[4], workedShares[6])...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully recovered secret")
	assert.Contains(t, out, "  245\n")
}

func TestCombineFromStdin(t *testing.T) {
	combined := runJSON[CombineResult](t, "2:1529\n(4, 8957)\n6:28001\n7:43589\n", "combine", "--modulus", "48611")
	assert.Equal(t, "245", combined.Secrets[0].Secret)
}

func TestCombineFromTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shares.txt")
	require.NoError(t, os.WriteFile(path, []byte("# four of seven\n1:461\n3:4133\n5:16685\n6:28001\n"), 0600))

	combined := runJSON[CombineResult](t, "", "combine", "-i", path, "-m", "48611", "-t", "4")
	assert.Equal(t, "245", combined.Secrets[0].Secret)

	_, err := runCLI(t, "", "combine", "-i", path, "-m", "48611", "-t", "5")
	assert.ErrorContains(t, err, "need at least 5")
}

func TestCombineThresholdFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shares.json")
	content := `{"field":"prime","modulus":"48611","threshold":4,"total":7,
		"secrets":[{"shares":[{"x":1,"y":461},{"x":2,"y":1529},{"x":3,"y":4133}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := runCLI(t, "", "combine", "-i", path)
	assert.ErrorContains(t, err, "have 3 shares, need at least 4")

	// An explicit threshold overrides the file.
	combined := runJSON[CombineResult](t, "", "combine", "-i", path, "-t", "3")
	assert.Equal(t, "929", combined.Secrets[0].Secret, "three shares interpolate to an unrelated value")
}

func TestCombineMnemonicWords(t *testing.T) {
	combined := runJSON[CombineResult](t, "", append([]string{"combine", "--modulus", "48611", "--mnemonic-words", "12"},
		shareArgs(workedShares[:4]...)...)...)
	require.NotEmpty(t, combined.Secrets[0].Mnemonic)
	assert.Equal(t, "245", combined.Secrets[0].Secret)
}

func TestCombineMnemonicWordsAuto(t *testing.T) {
	combined := runJSON[CombineResult](t, "", append([]string{"combine", "--modulus", "48611", "--mnemonic-words", "auto"},
		shareArgs(workedShares[:4]...)...)...)

	want, err := mnemonic.FromSecret(big.NewInt(245), 12)
	require.NoError(t, err)
	assert.Equal(t, want.Words(), combined.Secrets[0].Mnemonic)

	for _, v := range []string{"13", "many"} {
		_, err := runCLI(t, "", append([]string{"combine", "--modulus", "48611", "--mnemonic-words", v},
			shareArgs(workedShares[:4]...)...)...)
		assert.ErrorContains(t, err, "--mnemonic-words", "value %q", v)
	}
}

func TestCombineErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"Missing modulus", shareArgs("1:461", "2:1529"), field.ErrInvalidModulus},
		{"Composite modulus", append([]string{"-m", "48613"}, shareArgs("1:461", "2:1529")...), field.ErrInvalidModulus},
		{"Duplicate x", append([]string{"-m", "48611"}, shareArgs("1:461", "1:462")...), shamir.ErrDuplicateXCoordinate},
		{"Out of range y", append([]string{"-m", "48611"}, shareArgs("1:48611", "2:1")...), shamir.ErrInvalidShare},
		{"Malformed share", append([]string{"-m", "48611"}, shareArgs("1-461")...), nil},
		{"Zero x", append([]string{"-m", "48611"}, shareArgs("0:245", "1:461")...), nil},
		{"Missing input file", []string{"-m", "48611", "-i", "/nonexistent/shares.json"}, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", append([]string{"combine"}, tt.args...)...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCombineEmptyInput(t *testing.T) {
	_, err := runCLI(t, "\n# nothing\n", "combine", "-m", "48611")
	assert.ErrorIs(t, err, shamir.ErrEmptyShareSet)
}
