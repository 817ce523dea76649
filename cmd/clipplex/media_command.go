package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMediaCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "media <key>",
		Short: "Show library details for a single media item",
		Long:  "Fetches the detail record for one library entry by its Plex metadata key, for example /library/metadata/123.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory, err := ctx.directory()
			if err != nil {
				return err
			}
			item, err := directory.MediaDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:      %s\n", item.Title)
			fmt.Fprintf(out, "Type:       %s\n", kindLabel(item.Kind))
			fmt.Fprintf(out, "File:       %s\n", item.FilePath)
			fmt.Fprintf(out, "Frame rate: %g\n", item.FrameRate)
			return nil
		},
	}
}
