package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/setupcheck/configs"
	"github.com/Aman-CERP/setupcheck/internal/config"
)

func newConfigCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the verification manifest",
		Long: `Inspect the manifest that describes what is verified.

Manifest precedence (lowest to highest):
  1. Built-in defaults
  2. Manifest file (--config, or .setupcheck.yaml in --dir)
  3. .env in --dir (SETUPCHECK_* keys)
  4. Environment variables (SETUPCHECK_*)
  5. Command-line flags`,
		Example: `  # Show the effective manifest
  setupcheck config show

  # Show the built-in defaults
  setupcheck config show --source defaults

  # Start a manifest from the annotated template
  setupcheck config example > .setupcheck.yaml`,
	}

	cmd.AddCommand(newConfigShowCmd(global))
	cmd.AddCommand(newConfigExampleCmd())
	cmd.AddCommand(newConfigPathCmd(global))

	return cmd
}

func newConfigShowCmd(global *globalOptions) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective manifest as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var m *config.Manifest
			switch source {
			case "merged":
				var err error
				if m, err = loadManifest(*global); err != nil {
					return err
				}
			case "defaults":
				m = config.NewManifest()
			default:
				return fmt.Errorf("invalid source %q: must be merged or defaults", source)
			}

			data, err := m.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&source, "source", "merged", "Manifest source: merged, defaults")

	return cmd
}

func newConfigExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an annotated example manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), configs.ManifestTemplate)
			return err
		},
	}
}

func newConfigPathCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the manifest file in use",
		Long:  `Print the manifest file that would be loaded, or "(built-in defaults)" when there is none.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := global.configPath
			if p == "" {
				p = config.FindManifestFile(global.dir)
			}
			if p == "" {
				p = "(built-in defaults)"
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}
}
