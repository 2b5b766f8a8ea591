package cli

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/Davincible/fieldshare/internal/validation"
	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"github.com/Davincible/fieldshare/pkg/crypto/mnemonic"
	"github.com/Davincible/fieldshare/pkg/crypto/shamir"
	"github.com/Davincible/fieldshare/pkg/secure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CombineResult lists the recovered secrets in input order.
type CombineResult struct {
	Secrets []RecoveredSecret `json:"secrets"`
}

type RecoveredSecret struct {
	Secret   string `json:"secret"`
	Mnemonic string `json:"mnemonic,omitempty"`
	Shares   int    `json:"shares_used"`
}

// shareInput is everything combine knows about the shares it was given.
type shareInput struct {
	field     string
	modulus   string
	threshold int
	secrets   []SecretShares
}

func newCombineCommand(a *app) *cobra.Command {
	var (
		inputFile     string
		shares        []string
		modulus       string
		fieldName     string
		threshold     int
		mnemonicWords string
	)

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Combine shares to recover a secret",
		Long: `Combine shares to recover the original secret by Lagrange interpolation
at x = 0.

Shares are given as x:y with --share, read from a JSON file written by
split (sealed files prompt for their passphrase), or read from a text file
with one x:y per line. The modulus used for splitting is required; share
files carry it.

Fewer shares than the threshold still produce a number, but not the
secret. Pass --threshold (or use a share file) to have this checked.`,
		Example: `  # Combine from individual shares
  fieldshare combine --modulus 48611 --share 1:461 --share 3:4133 --share 5:16685 --share 7:43589

  # Combine from a share file
  fieldshare combine --input shares.json

  # Render the recovered secret as a 24-word phrase
  fieldshare combine --input shares.txt --modulus 115792089237316195423570985008687907853269984665640564039457584007913129640233 --mnemonic-words 24

  # Use the shortest phrase that holds the secret
  fieldshare combine --input shares.txt --modulus secp256k1 --mnemonic-words auto`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wantWords, err := parseWordsFlag(mnemonicWords)
			if err != nil {
				return err
			}

			in, err := collectShares(cmd, inputFile, shares)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("modulus") || in.modulus == "" {
				in.modulus = modulus
			}
			if in.modulus == "" {
				in.modulus = a.config().Defaults.Modulus
			}
			if cmd.Flags().Changed("field") || in.field == "" {
				in.field = fieldName
			}
			if cmd.Flags().Changed("threshold") {
				in.threshold = threshold
			}

			f, err := resolveField(in.field, in.modulus, nil)
			if err != nil {
				return err
			}

			result := CombineResult{Secrets: make([]RecoveredSecret, len(in.secrets))}
			for i, group := range in.secrets {
				if in.threshold > 0 && len(group.Shares) < in.threshold {
					return fmt.Errorf("secret %d: have %d shares, need at least %d", i+1, len(group.Shares), in.threshold)
				}

				secret, err := reconstructIn(group.Shares, f)
				if err != nil {
					return fmt.Errorf("failed to recover secret %d: %w", i+1, err)
				}

				words := group.MnemonicWords
				if wantWords != 0 {
					words = wantWords
				}
				if words == autoWords {
					if words, err = mnemonic.WordCountForSecret(secret); err != nil {
						return fmt.Errorf("secret %d: %w", i+1, err)
					}
				}

				rec := RecoveredSecret{Secret: secret.String(), Shares: len(group.Shares)}
				if words > 0 {
					m, err := mnemonic.FromSecret(secret, words)
					if err != nil {
						return fmt.Errorf("secret %d: %w", i+1, err)
					}
					rec.Mnemonic = m.Words()
					m.Wipe()
				}
				secure.ZeroInt(secret)
				result.Secrets[i] = rec
			}

			if jsonOutput(cmd) {
				return outputJSONResult(cmd, result)
			}

			w := cmd.OutOrStdout()
			green := color.New(color.FgGreen, color.Bold)
			cyan := color.New(color.FgCyan, color.Bold)

			fmt.Fprintln(w)
			green.Fprintln(w, "✓ Successfully recovered secret!")
			fmt.Fprintln(w)
			for i, rec := range result.Secrets {
				if len(result.Secrets) > 1 {
					cyan.Fprintf(w, "Secret %d (%d shares):\n", i+1, rec.Shares)
				} else {
					cyan.Fprintf(w, "Secret (%d shares):\n", rec.Shares)
				}
				fmt.Fprintf(w, "  %s\n", rec.Secret)
				if rec.Mnemonic != "" {
					fmt.Fprintf(w, "  Words: %s\n", rec.Mnemonic)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "File containing shares (JSON from split, or one x:y per line)")
	cmd.Flags().StringArrayVar(&shares, "share", nil, "Share as x:y (repeatable)")
	cmd.Flags().StringVarP(&modulus, "modulus", "m", "", "Prime modulus used for splitting: a decimal prime or a preset name")
	cmd.Flags().StringVarP(&fieldName, "field", "f", field.BackendPrime, "Field backend: prime or gf256")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "Refuse to combine fewer shares than this")
	cmd.Flags().StringVar(&mnemonicWords, "mnemonic-words", "", "Render the secret as a BIP-39 phrase of this many words, or auto")

	return cmd
}

// autoWords asks for the shortest phrase that holds the recovered secret.
const autoWords = -1

// parseWordsFlag reads --mnemonic-words: empty for no phrase, "auto", or a
// BIP-39 word count.
func parseWordsFlag(v string) (int, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "", "0":
		return 0, nil
	case "auto":
		return autoWords, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || !mnemonic.ValidateWordCount(n) {
		return 0, fmt.Errorf("--mnemonic-words must be auto or one of 12, 15, 18, 21, 24 (got %q)", v)
	}
	return n, nil
}

// reconstructIn recovers a secret from integer pairs over f.
func reconstructIn(pairs []shamir.Pair, f field.Field) (*big.Int, error) {
	shares, err := shamir.FromPairs(pairs, f)
	if err != nil {
		return nil, err
	}
	secret, err := shamir.Reconstruct(shares, f)
	if err != nil {
		return nil, err
	}
	return secret.BigInt(), nil
}

// collectShares gathers shares from --share flags, a file, or stdin.
func collectShares(cmd *cobra.Command, inputFile string, flagShares []string) (shareInput, error) {
	if len(flagShares) > 0 {
		pairs := make([]shamir.Pair, len(flagShares))
		for i, s := range flagShares {
			pair, err := validation.ParseShare(s)
			if err != nil {
				return shareInput{}, fmt.Errorf("share %d: %w", i+1, err)
			}
			pairs[i] = pair
		}
		return shareInput{secrets: []SecretShares{{Shares: pairs}}}, nil
	}

	var data []byte
	if inputFile != "" {
		raw, err := readShareFile(cmd, inputFile)
		if err != nil {
			return shareInput{}, fmt.Errorf("failed to read shares: %w", err)
		}
		data = raw
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), "Enter shares as x:y, one per line, then end input (Ctrl-D):")
		lines, err := readLines(cmd)
		if err != nil {
			return shareInput{}, err
		}
		data = []byte(strings.Join(lines, "\n"))
	}

	return parseShareData(data)
}

// parseShareData accepts a split JSON file or plain x:y lines.
func parseShareData(data []byte) (shareInput, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var file SplitResult
		if err := json.Unmarshal(data, &file); err != nil {
			return shareInput{}, fmt.Errorf("failed to parse share file: %w", err)
		}
		if len(file.Secrets) == 0 {
			return shareInput{}, shamir.ErrEmptyShareSet
		}
		return shareInput{
			field:     file.Field,
			modulus:   file.Modulus,
			threshold: file.Threshold,
			secrets:   file.Secrets,
		}, nil
	}

	pairs, err := validation.ParseShares(trimmed)
	if err != nil {
		return shareInput{}, err
	}
	if len(pairs) == 0 {
		return shareInput{}, shamir.ErrEmptyShareSet
	}
	return shareInput{secrets: []SecretShares{{Shares: pairs}}}, nil
}
