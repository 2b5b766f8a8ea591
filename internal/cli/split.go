package cli

import (
	"fmt"
	"log/slog"
	"math/big"

	"github.com/Davincible/fieldshare/internal/validation"
	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"github.com/Davincible/fieldshare/pkg/crypto/mnemonic"
	"github.com/Davincible/fieldshare/pkg/crypto/primes"
	"github.com/Davincible/fieldshare/pkg/crypto/shamir"
	"github.com/Davincible/fieldshare/pkg/secure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SplitResult is the share file written by split and read by combine.
type SplitResult struct {
	Field     string         `json:"field"`
	Modulus   string         `json:"modulus,omitempty"`
	Threshold int            `json:"threshold"`
	Total     int            `json:"total"`
	Secrets   []SecretShares `json:"secrets"`
}

// SecretShares holds the shares of one secret.
type SecretShares struct {
	MnemonicWords int           `json:"mnemonic_words,omitempty"`
	Shares        []shamir.Pair `json:"shares"`
}

type secretInput struct {
	value *big.Int
	words int
}

func newSplitCommand(a *app) *cobra.Command {
	var (
		parts        int
		threshold    int
		secrets      []string
		useStdin     bool
		fromMnemonic bool
		modulus      string
		fieldName    string
		profile      string
		outputFile   string
		encrypt      bool
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split secrets into shares",
		Long: `Split one or more natural-number secrets into shares. Any threshold
number of shares reconstruct a secret; fewer reveal nothing about it.

Secrets are read from --secret, from stdin (one per line) with --stdin, or
from a hidden prompt. With --mnemonic each input is a BIP-39 phrase and the
shares remember its word count.

When no modulus is given, the smallest prime above every secret and the
share count is used. That modulus reveals the approximate size of the
secret; pass a preset such as mersenne127 to avoid it. Mnemonic secrets
default to the smallest prime above 2^bits of their entropy.`,
		Example: `  # The worked example: 7 shares, any 4 recover 245
  fieldshare split --secret 245 --modulus 48611 -n 7 -t 4

  # Split a seed phrase into 5 shares with threshold 3
  fieldshare split --mnemonic -n 5 -t 3 --output shares.json

  # Several secrets from stdin over a fixed prime
  printf '1\n2\n3\n' | fieldshare split --stdin --modulus mersenne127 --json

  # Seal the share file with a passphrase
  fieldshare split --secret 245 -o shares.json --encrypt

  # Byte-sized secrets over GF(2^8)
  fieldshare split --secret 66 --field gf256 -n 5 -t 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config()

			settings, err := a.cm.Resolve(profile)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("shares") {
				parts = settings.Shares
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = settings.Threshold
			}
			if !cmd.Flags().Changed("modulus") {
				modulus = settings.Modulus
			}
			if !cmd.Flags().Changed("field") {
				fieldName = settings.Field
			}
			fieldName = normalizeBackend(fieldName)

			if err := validation.ValidateSplitParams(parts, threshold); err != nil {
				return err
			}
			if encrypt && outputFile == "" {
				return fmt.Errorf("--encrypt requires --output")
			}

			inputs, err := readSecrets(cmd, secrets, useStdin, fromMnemonic)
			if err != nil {
				return fmt.Errorf("failed to read secret: %w", err)
			}
			defer func() {
				for _, in := range inputs {
					secure.ZeroInt(in.value)
				}
			}()

			f, err := resolveField(fieldName, modulus, func() (*big.Int, error) {
				return autoModulus(inputs, parts)
			})
			if err != nil {
				return err
			}

			elems := make([]field.Element, len(inputs))
			for i, in := range inputs {
				e, err := f.Element(in.value)
				if err != nil {
					return fmt.Errorf("%w: secret %d does not fit in %s", shamir.ErrInvalidModulus, i+1, f.Name())
				}
				elems[i] = e
			}
			defer field.Wipe(elems...)

			sets, err := shamir.GenerateMany(cmd.Context(), elems, parts, threshold, f)
			if err != nil {
				return fmt.Errorf("failed to split secret: %w", err)
			}

			if cfg.Security.AutoVerify {
				if err := verifySets(sets, elems, f); err != nil {
					return err
				}
			}

			result := SplitResult{
				Field:     fieldName,
				Threshold: threshold,
				Total:     parts,
				Secrets:   make([]SecretShares, len(sets)),
			}
			if fieldName != field.BackendBinary {
				result.Field = field.BackendPrime
				result.Modulus = f.Order().String()
			}
			for i, set := range sets {
				result.Secrets[i] = SecretShares{
					MnemonicWords: inputs[i].words,
					Shares:        set.Pairs(),
				}
			}

			slog.Debug("Split complete", "secrets", len(sets), "field", f.Name(), "parts", parts, "threshold", threshold)

			if outputFile != "" {
				return saveToFile(cmd, result, outputFile, cfg.FileMode(), encrypt)
			}

			if jsonOutput(cmd) {
				return outputJSONResult(cmd, result)
			}

			return outputSplitText(cmd, result)
		},
	}

	cmd.Flags().IntVarP(&parts, "shares", "n", 5, "Total number of shares to create")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 3, "Minimum shares needed to reconstruct")
	cmd.Flags().StringArrayVarP(&secrets, "secret", "s", nil, "Secret to split (repeatable)")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "Read secrets from stdin, one per line")
	cmd.Flags().BoolVar(&fromMnemonic, "mnemonic", false, "Inputs are BIP-39 mnemonic phrases")
	cmd.Flags().StringVarP(&modulus, "modulus", "m", "auto", "Prime modulus: auto, a decimal prime, or a preset name")
	cmd.Flags().StringVarP(&fieldName, "field", "f", field.BackendPrime, "Field backend: prime or gf256")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Named parameter profile from the config file")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write shares to a JSON file")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "Seal the output file with a passphrase")

	return cmd
}

// readSecrets collects the secrets from flags, stdin, or a hidden prompt.
func readSecrets(cmd *cobra.Command, flagValues []string, useStdin, fromMnemonic bool) ([]secretInput, error) {
	raw := flagValues
	if len(raw) == 0 {
		if useStdin {
			lines, err := readLines(cmd)
			if err != nil {
				return nil, err
			}
			raw = lines
		} else {
			prompt := "Enter your secret: "
			if fromMnemonic {
				prompt = "Enter your mnemonic phrase (12-24 words): "
			}
			line, err := readHidden(cmd, prompt)
			if err != nil {
				return nil, err
			}
			raw = []string{line}
		}
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("no secret provided")
	}

	inputs := make([]secretInput, len(raw))
	for i, s := range raw {
		in, err := parseSecretInput(s, fromMnemonic)
		if err != nil {
			return nil, fmt.Errorf("secret %d: %w", i+1, err)
		}
		inputs[i] = in
	}
	return inputs, nil
}

func parseSecretInput(s string, fromMnemonic bool) (secretInput, error) {
	if !fromMnemonic {
		v, err := validation.ParseSecret(s)
		if err != nil {
			return secretInput{}, err
		}
		return secretInput{value: v}, nil
	}

	if err := validation.ValidateMnemonic(s); err != nil {
		return secretInput{}, err
	}
	m, err := mnemonic.FromWords(s)
	if err != nil {
		return secretInput{}, err
	}
	defer m.Wipe()

	v, err := m.Secret()
	if err != nil {
		return secretInput{}, err
	}
	return secretInput{value: v, words: m.WordCount()}, nil
}

// autoModulus picks the smallest usable prime for the inputs. Mnemonic
// secrets size the prime by their entropy length rather than their value.
func autoModulus(inputs []secretInput, parts int) (*big.Int, error) {
	bound := new(big.Int)
	for _, in := range inputs {
		v := in.value
		if in.words > 0 {
			bits, err := mnemonic.EntropyBitsFromWordCount(in.words)
			if err != nil {
				return nil, err
			}
			v = new(big.Int).Lsh(big.NewInt(1), uint(bits))
		}
		if v.Cmp(bound) > 0 {
			bound = v
		}
	}

	p, err := primes.UsableModulus(bound, parts)
	if err != nil {
		return nil, err
	}
	slog.Debug("Selected modulus", "bits", p.BitLen())
	return p, nil
}

// verifySets reconstructs every secret from its last threshold shares.
func verifySets(sets []*shamir.ShareSet, secrets []field.Element, f field.Field) error {
	for i, set := range sets {
		got, err := shamir.Reconstruct(set.Shares[:set.Threshold], f)
		if err != nil {
			return fmt.Errorf("verification of secret %d failed: %w", i+1, err)
		}
		if !got.Equal(secrets[i]) {
			return fmt.Errorf("verification of secret %d failed: reconstruction mismatch", i+1)
		}
	}
	return nil
}

func outputSplitText(cmd *cobra.Command, result SplitResult) error {
	w := cmd.OutOrStdout()
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	yellow.Fprintln(w, "=== SECRET SHARES ===")
	fmt.Fprintln(w)

	green.Fprintf(w, "Created %d shares with threshold %d\n", result.Total, result.Threshold)
	fmt.Fprintf(w, "Any %d shares can reconstruct the original secret\n", result.Threshold)
	if result.Modulus != "" {
		fmt.Fprintf(w, "Field: GF(p), p = %s\n\n", result.Modulus)
	} else {
		fmt.Fprintf(w, "Field: GF(2^8)\n\n")
	}

	red.Fprintln(w, "⚠️  SECURITY WARNING:")
	fmt.Fprintln(w, "- Store each share in a different secure location")
	fmt.Fprintln(w, "- Keep the modulus with every share; it is not secret")
	fmt.Fprintln(w, "- Each share should be treated as highly sensitive")
	fmt.Fprintln(w)

	for i, secret := range result.Secrets {
		if len(result.Secrets) > 1 {
			cyan.Fprintf(w, "Secret %d:\n", i+1)
		}
		for _, share := range secret.Shares {
			fmt.Fprintf(w, "  Share %s of %d:  ", share.X, result.Total)
			fmt.Fprintln(w, share.String())
		}
		if secret.MnemonicWords > 0 {
			fmt.Fprintf(w, "  (recombine with --mnemonic-words %d)\n", secret.MnemonicWords)
		}
		fmt.Fprintln(w)
	}

	yellow.Fprintln(w, "=== END OF SHARES ===")
	return nil
}
