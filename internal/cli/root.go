package cli

import (
	"fmt"
	"log/slog"

	"github.com/Davincible/fieldshare/pkg/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	level *slog.LevelVar
	cm    *config.ConfigManager
}

// NewRootCommand builds the fieldshare command tree. level is the level of
// the process logger; --verbose lowers it to debug.
func NewRootCommand(level *slog.LevelVar, version string) *cobra.Command {
	a := &app{level: level}

	rootCmd := &cobra.Command{
		Use:   "fieldshare",
		Short: "Threshold secret sharing over prime and binary fields",
		Long: `fieldshare splits a secret into N shares so that any K of them recover it
while K-1 or fewer reveal nothing about it.

Shares are points (x, y) on a random polynomial of degree K-1 over a finite
field whose constant term is the secret. The default field is the integers
modulo a prime; GF(2^8) is available with --field gf256.

Features:
- Exact arbitrary-precision arithmetic for any prime modulus
- Named prime presets (secp256k1, p256, mersenne127, mersenne521)
- BIP-39 mnemonic input and output
- Consistency checks for sets of shares
- JSON output for scripting`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $FIELDSHARE_CONFIG or ~/.config/fieldshare/config.json)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newSplitCommand(a),
		newCombineCommand(a),
		newVerifyCommand(a),
		newModulusCommand(a),
		newDemoCommand(a),
		newConfigCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && a.level != nil {
		a.level.Set(slog.LevelDebug)
	}

	path, _ := cmd.Flags().GetString("config")

	var (
		cm  *config.ConfigManager
		err error
	)
	if path != "" {
		cm, err = config.NewConfigManagerAt(path)
	} else {
		cm, err = config.NewConfigManager()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cm = cm

	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor || !cm.GetConfig().UI.UseColor {
		color.NoColor = true
	}

	slog.Debug("Loaded configuration", "path", cm.Path(), "from_file", cm.Exists())
	return nil
}

func (a *app) config() *config.Config {
	return a.cm.GetConfig()
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
