package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipplex/internal/api"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List active Plex playback sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			directory, err := ctx.directory()
			if err != nil {
				return err
			}
			sessions, err := directory.ActiveSessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No active sessions")
				return nil
			}

			views := api.FromSessions(sessions)
			rows := make([][]string, 0, len(views))
			for _, view := range views {
				rows = append(rows, []string{
					view.Viewer,
					view.Title,
					kindLabel(view.Kind),
					view.CurrentTime,
					view.SessionKey,
				})
			}
			headers := []string{"Viewer", "Title", "Type", "Position", "Session"}
			fmt.Fprintln(out, renderTable(out, headers, rows, nil))
			return nil
		},
	}
}
