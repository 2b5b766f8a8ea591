package cli

import (
	"fmt"
	"math/big"

	"github.com/Davincible/fieldshare/internal/validation"
	"github.com/Davincible/fieldshare/pkg/config"
	"github.com/Davincible/fieldshare/pkg/crypto/primes"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type ModulusResult struct {
	Modulus string `json:"modulus"`
	Bits    int    `json:"bits"`
	Source  string `json:"source"`
}

func newModulusCommand(a *app) *cobra.Command {
	var (
		secret string
		shares int
		bits   int
		check  string
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "modulus [preset]",
		Short: "Choose, look up or check a prime modulus",
		Long: `Print a prime modulus suitable for splitting.

With --secret, the smallest prime above both the secret and the share count.
With --bits, the smallest prime at or above 2^bits. With a preset name, that
preset's value. With --check, whether a number is a usable prime modulus.`,
		Example: `  fieldshare modulus --secret 1234 --shares 4
  fieldshare modulus --bits 128
  fieldshare modulus secp256k1
  fieldshare modulus --check 48611
  fieldshare modulus --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return listPresets(cmd)
			}

			var (
				p      *big.Int
				source string
				err    error
			)

			switch {
			case check != "":
				p, err = config.ParseModulus(check)
				if err != nil {
					return err
				}
				if p == nil {
					return fmt.Errorf("nothing to check")
				}
				source = "checked"
			case len(args) == 1:
				p, err = primes.Named(args[0])
				if err != nil {
					return err
				}
				source = "preset " + args[0]
			case bits > 0:
				p = primes.NextPrime(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1)))
				source = fmt.Sprintf("smallest prime >= 2^%d", bits)
			case secret != "":
				s, err := validation.ParseSecret(secret)
				if err != nil {
					return err
				}
				p, err = primes.UsableModulus(s, shares)
				if err != nil {
					return err
				}
				source = "smallest prime above secret and share count"
			default:
				return fmt.Errorf("pass a preset, --secret, --bits, --check or --list")
			}

			result := ModulusResult{Modulus: p.String(), Bits: p.BitLen(), Source: source}
			if jsonOutput(cmd) {
				return outputJSONResult(cmd, result)
			}

			w := cmd.OutOrStdout()
			cyan := color.New(color.FgCyan, color.Bold)
			cyan.Fprintf(w, "Modulus (%s, %d bits):\n", result.Source, result.Bits)
			fmt.Fprintln(w, result.Modulus)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Secret the modulus must exceed")
	cmd.Flags().IntVarP(&shares, "shares", "n", 0, "Share count the modulus must exceed")
	cmd.Flags().IntVar(&bits, "bits", 0, "Smallest prime at or above 2^bits")
	cmd.Flags().StringVar(&check, "check", "", "Check that a number is prime")
	cmd.Flags().BoolVar(&list, "list", false, "List prime presets")

	return cmd
}

func listPresets(cmd *cobra.Command) error {
	names := primes.PresetNames()
	results := make([]ModulusResult, 0, len(names))
	for _, name := range names {
		p, err := primes.Named(name)
		if err != nil {
			return err
		}
		results = append(results, ModulusResult{Modulus: p.String(), Bits: p.BitLen(), Source: name})
	}

	if jsonOutput(cmd) {
		return outputJSONResult(cmd, results)
	}

	w := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold)
	for _, r := range results {
		cyan.Fprintf(w, "%-12s", r.Source)
		fmt.Fprintf(w, " %4d bits  %s\n", r.Bits, r.Modulus)
	}
	return nil
}
