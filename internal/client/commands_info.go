package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show client and server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(a.out, "Client: %s\n", a.buildInfo)

			serverVersion, err := a.server.Version(cmd.Context())
			if err != nil {
				a.logger.Debug().Err(err).Msg("server version unavailable")
				serverVersion = helpStyle.Render("unreachable")
			}
			fmt.Fprintf(a.out, "Server: %s\n", serverVersion)
			return nil
		},
	}
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the server and its storage are up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := a.server.Health(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s %s (%s)\n", titleStyle.Render("Server:"), health.Status,
				health.Timestamp.Local().Format(time.DateTime))

			saved, err := a.session.Load()
			if err == nil {
				fmt.Fprintf(a.out, "%s %s\n", titleStyle.Render("Session:"), saved.Username)
			} else {
				fmt.Fprintf(a.out, "%s %s\n", titleStyle.Render("Session:"), helpStyle.Render("not logged in"))
			}
			return nil
		},
	}
}
