package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and manage produced clips and snapshots",
	}

	libraryCmd.AddCommand(newLibraryVideosCommand(ctx))
	libraryCmd.AddCommand(newLibraryImagesCommand(ctx))
	libraryCmd.AddCommand(newLibraryDeleteCommand(ctx))

	return libraryCmd
}

func newLibraryVideosCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "videos",
		Short: "List produced clips with their embedded metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			videos, err := cat.Videos(cmd.Context())
			if err != nil {
				return fmt.Errorf("list videos: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(videos) == 0 {
				fmt.Fprintln(out, "No clips in the library")
				return nil
			}

			rows := make([][]string, 0, len(videos))
			for _, video := range videos {
				episode := ""
				if video.SeasonNumber != "" || video.EpisodeNumber != "" {
					episode = fmt.Sprintf("S%s E%s", video.SeasonNumber, video.EpisodeNumber)
				}
				rows = append(rows, []string{
					video.Title,
					video.Viewer,
					video.OriginalStartTime,
					video.Show,
					episode,
					video.Path,
				})
			}
			headers := []string{"Title", "Viewer", "Start", "Show", "Episode", "Path"}
			fmt.Fprintln(out, renderTable(out, headers, rows, nil))
			return nil
		},
	}
}

func newLibraryImagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "List produced snapshot frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			images, err := cat.Images()
			if err != nil {
				return fmt.Errorf("list images: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(images) == 0 {
				fmt.Fprintln(out, "No snapshots in the library")
				return nil
			}
			for _, image := range images {
				fmt.Fprintln(out, image)
			}
			return nil
		},
	}
}

func newLibraryDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete one produced clip or snapshot by its public path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cat.Delete(args[0]) {
				fmt.Fprintf(out, "Deleted %s\n", args[0])
			} else {
				fmt.Fprintf(out, "No artifact matched %s\n", args[0])
			}
			return nil
		},
	}
}
