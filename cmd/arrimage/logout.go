package main

import (
	"github.com/hisptogo/arrimage-console/internal/console"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			// Local teardown always succeeds, even when the backend
			// cannot be notified.
			if err := app.Session.Logout(cmd.Context()); err != nil {
				return err
			}

			success("Logged out")
			return nil
		},
	}
}
