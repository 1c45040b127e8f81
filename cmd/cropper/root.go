package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/cropper/internal/config"
	"github.com/oukeidos/cropper/internal/version"
)

var loadSettings = config.LoadWithOptions

type rootOptions struct {
	envFile  string
	settings config.Settings
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cropper",
		Short: "Trim the top and bottom bands from a folder of images",
		Long: `cropper removes a fixed band from the top and bottom of every image in a
folder and writes the results, under the same names, into another folder.

Settings are read from a .env file next to the binary (or the file named by
CROPPER_ENV) and CROPPER_* environment variables; flags override both.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(config.LoadOptions{EnvFile: opts.envFile})
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			opts.settings = s
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				_ = cmd.Usage()
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to a .env file with CROPPER_* settings")

	cmd.AddCommand(
		newCropCmd(opts),
		newFormatsCmd(),
		newAboutCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}
	return cmd
}
