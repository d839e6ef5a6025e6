package main

import (
	"context"
	"fmt"

	"github.com/hisptogo/arrimage-console/internal/console"
	"github.com/hisptogo/arrimage-console/pkg/adminsdk"

	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Trigger synchronization jobs against the DHIS2 instances",
	}

	cmd.AddCommand(
		syncJobCmd("orgunits", "Synchronize organisation units",
			func(ctx context.Context, s *adminsdk.Session) (*adminsdk.SyncResult, error) {
				return s.SyncOrgUnits(ctx)
			}),
		syncJobCmd("dataelements", "Synchronize data elements",
			func(ctx context.Context, s *adminsdk.Session) (*adminsdk.SyncResult, error) {
				return s.SyncDataElements(ctx)
			}),
		syncJobCmd("trackedentities", "Synchronize tracked entities with enrollments, events and attributes",
			func(ctx context.Context, s *adminsdk.Session) (*adminsdk.SyncResult, error) {
				return s.SyncTrackedEntities(ctx)
			}),
	)

	return cmd
}

func syncJobCmd(
	name, short string,
	run func(context.Context, *adminsdk.Session) (*adminsdk.SyncResult, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			info("Running %s sync, this can take a while...", name)
			result, err := run(cmd.Context(), app.Session)
			if err != nil {
				return err
			}

			success("Sync finished")
			if result.Message != "" {
				info("%s", result.Message)
			}
			if result.Imported+result.Updated+result.Ignored > 0 {
				info("imported=%d updated=%d ignored=%d",
					result.Imported, result.Updated, result.Ignored)
			}
			fmt.Println()
			return nil
		},
	}
}
