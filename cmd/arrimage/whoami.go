package main

import (
	"fmt"
	"time"

	"github.com/hisptogo/arrimage-console/internal/console"

	"github.com/spf13/cobra"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			identity, err := app.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			info("User:  %s (%s)", identity.Username, identity.Fullname)
			info("Role:  %s", identity.Role)
			info("Admin: %v  Superadmin: %v", identity.IsAdmin(), identity.IsSuperAdmin())

			// Expiry is informational only; renewal is driven by the
			// backend's responses, not this timestamp.
			if ti, err := app.Session.TokenInfo(); err == nil && !ti.ExpiresAt.IsZero() {
				info("Token: expires %s", ti.ExpiresAt.Local().Format(time.RFC1123))
			}

			fmt.Println()
			return nil
		},
	}
}
