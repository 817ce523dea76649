package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotCommand(ctx *commandContext) *cobra.Command {
	var viewer string
	var frames int

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Grab still frames at a viewer's current playback position",
		RunE: func(cmd *cobra.Command, args []string) error {
			directory, err := ctx.directory()
			if err != nil {
				return err
			}
			creator, err := ctx.creator()
			if err != nil {
				return err
			}

			session, err := directory.SessionForViewer(cmd.Context(), viewer)
			if err != nil {
				return err
			}
			result, err := creator.CreateSnapshot(cmd.Context(), session, frames)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Captured %d frame(s) at %s\n", result.Frames, result.Timestamp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&viewer, "user", "u", "", "Plex username whose stream to capture")
	cmd.Flags().IntVarP(&frames, "frames", "n", 1, "Number of frames to capture")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
