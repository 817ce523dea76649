package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipplex/internal/clips"
)

func newClipCommand(ctx *commandContext) *cobra.Command {
	var viewer string
	var start string
	var end string

	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Cut a clip from a viewer's current stream",
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
			result, err := creator.CreateClip(cmd.Context(), session, clips.ClipRequest{
				Viewer: viewer,
				Start:  start,
				End:    end,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Clip created: %s\n", result.Filename)
			fmt.Fprintf(out, "Public path:  %s\n", result.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&viewer, "user", "u", "", "Plex username whose stream to cut")
	cmd.Flags().StringVarP(&start, "start", "s", "", "Clip start time (HH:MM:SS)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "Clip end time (HH:MM:SS)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
