package cli

import (
	"fmt"

	"github.com/Davincible/fieldshare/pkg/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !jsonOutput(cmd) {
				w := cmd.ErrOrStderr()
				if a.cm.Exists() {
					fmt.Fprintf(w, "# %s\n", a.cm.Path())
				} else {
					fmt.Fprintf(w, "# %s (not present, showing defaults)\n", a.cm.Path())
				}
			}
			return outputJSONResult(cmd, a.config())
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cm.Exists() && !force {
				return fmt.Errorf("config file %s already exists, use --force to overwrite", a.cm.Path())
			}

			a.cm.SetConfig(config.DefaultConfig())
			if err := a.cm.SaveConfig(); err != nil {
				return err
			}

			color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", a.cm.Path())
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
