package main

import (
	"fmt"
	"time"

	"github.com/hisptogo/arrimage-console/internal/console"
	"github.com/hisptogo/arrimage-console/pkg/adminsdk"

	"github.com/spf13/cobra"
)

func mergeCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		orgUnits  []string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge indicator values into the target DHIS2 instance",
		Long: `Compute indicator values over a period and push them to the target
DHIS2 instance. Without --orgunit the merge covers every synchronized
organisation unit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range []string{startDate, endDate} {
				if _, err := time.Parse("2006-01-02", d); err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
				}
			}

			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			if len(orgUnits) == 0 {
				units, err := app.Session.FetchOrgUnits(cmd.Context())
				if err != nil {
					return err
				}
				if len(units) == 0 {
					return fmt.Errorf("no organisation units available, run 'arrimage sync orgunits' first")
				}
				for _, u := range units {
					orgUnits = append(orgUnits, u.ID)
				}
			}

			info("Merging indicators for %d org unit(s) from %s to %s, this can take a while...",
				len(orgUnits), startDate, endDate)

			result, err := app.Session.MergeIndicators(cmd.Context(), adminsdk.MergeRequest{
				StartDate: startDate,
				EndDate:   endDate,
				OrgUnits:  orgUnits,
			})
			if err != nil {
				return err
			}

			if result.Status == 201 {
				warn("Merge finished with failures: %s, %s", result.Success, result.Failed)
				return nil
			}
			success("Merge finished: %s", result.Success)
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "Period end (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&orgUnits, "orgunit", nil, "Organisation unit id (repeatable, default all)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	cmd.AddCommand(mergeOrgUnitsCmd())

	return cmd
}

func mergeOrgUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orgunits",
		Short: "List the organisation units available to the merge",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			units, err := app.Session.FetchOrgUnits(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(units))
			for _, u := range units {
				rows = append(rows, []string{u.ID, u.Name})
			}
			renderTable([]string{"ID", "NAME"}, rows)
			return nil
		},
	}
}
