package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/cropper/internal/crop"
)

func newFormatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List recognized image extensions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, ext := range crop.SupportedExtensions() {
				f, _ := crop.FormatFromPath(ext)
				note := ""
				if !f.CanEncode() {
					note = " (read only, reported as failed)"
				}
				fmt.Fprintf(out, "%-6s %s%s\n", ext, f, note)
			}
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
