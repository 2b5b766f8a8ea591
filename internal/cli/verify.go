package cli

import (
	"fmt"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"github.com/Davincible/fieldshare/pkg/crypto/shamir"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// VerifyResult reports the checks run on a set of shares.
type VerifyResult struct {
	Shares       int      `json:"shares"`
	InField      bool     `json:"in_field"`
	Checked      bool     `json:"consistency_checked"`
	Inconsistent []string `json:"inconsistent,omitempty"`
}

func newVerifyCommand(a *app) *cobra.Command {
	var (
		inputFile string
		modulus   string
		fieldName string
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "verify [x:y ...]",
		Short: "Check shares for syntax, range and consistency",
		Long: `Verify that shares are well formed, lie in the field and have distinct
x-coordinates.

With more shares than the threshold, the first threshold shares fix the
polynomial and every other share is checked against it. A share that does
not lie on that polynomial was corrupted or belongs to another secret.`,
		Example: `  # Range check a single share
  fieldshare verify 3:4133 --modulus 48611

  # Check that five shares of a 4-of-7 split agree
  fieldshare verify 1:461 2:1529 3:4133 4:8957 5:16685 --modulus 48611 --threshold 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := collectShares(cmd, inputFile, args)
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

			result := VerifyResult{InField: true}
			for i, group := range in.secrets {
				shares, err := shamir.FromPairs(group.Shares, f)
				if err != nil {
					return fmt.Errorf("secret %d: %w", i+1, err)
				}
				if err := shamir.CheckShares(shares, f); err != nil {
					return fmt.Errorf("secret %d: %w", i+1, err)
				}
				result.Shares += len(shares)

				bad, checked, err := checkConsistency(shares, in.threshold, f)
				if err != nil {
					return fmt.Errorf("secret %d: %w", i+1, err)
				}
				result.Checked = result.Checked || checked
				result.Inconsistent = append(result.Inconsistent, bad...)
			}

			if jsonOutput(cmd) {
				if err := outputJSONResult(cmd, result); err != nil {
					return err
				}
			} else {
				printVerifyResult(cmd, result, f)
			}

			if len(result.Inconsistent) > 0 {
				return fmt.Errorf("%d share(s) do not lie on the polynomial of the others", len(result.Inconsistent))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "File containing shares (JSON from split, or one x:y per line)")
	cmd.Flags().StringVarP(&modulus, "modulus", "m", "", "Prime modulus used for splitting: a decimal prime or a preset name")
	cmd.Flags().StringVarP(&fieldName, "field", "f", field.BackendPrime, "Field backend: prime or gf256")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "Threshold of the split, enables the consistency check")

	return cmd
}

// checkConsistency interpolates the first k shares and reports every later
// share that the resulting polynomial misses. It reports checked = false
// when there is no surplus share to test.
func checkConsistency(shares []shamir.Share, k int, f field.Field) ([]string, bool, error) {
	if k < 2 || len(shares) <= k {
		return nil, false, nil
	}

	base := shares[:k]
	var bad []string
	for _, s := range shares[k:] {
		y, err := shamir.InterpolateAt(base, s.X, f)
		if err != nil {
			return nil, false, err
		}
		if !y.Equal(s.Y) {
			bad = append(bad, s.String())
		}
	}
	return bad, true, nil
}

func printVerifyResult(cmd *cobra.Command, result VerifyResult, f field.Field) {
	w := cmd.OutOrStdout()
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(w)
	green.Fprintf(w, "✓ %d share(s) are well formed and lie in the %s field of order %s\n", result.Shares, f.Name(), f.Order())

	switch {
	case len(result.Inconsistent) > 0:
		red.Fprintln(w, "✗ Inconsistent shares:")
		for _, s := range result.Inconsistent {
			fmt.Fprintf(w, "  %s\n", s)
		}
	case result.Checked:
		green.Fprintln(w, "✓ All shares lie on the same polynomial")
	default:
		yellow.Fprintln(w, "Consistency not checked: pass --threshold and more shares than the threshold.")
	}
}
