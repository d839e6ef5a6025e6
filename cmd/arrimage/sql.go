package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hisptogo/arrimage-console/internal/console"
	"github.com/hisptogo/arrimage-console/pkg/adminsdk"

	"github.com/spf13/cobra"
)

func sqlCmd() *cobra.Command {
	var (
		maxRows int
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "sql <statement>",
		Short: "Run an ad-hoc SQL statement against the backing store",
		Long: `Run an ad-hoc SQL statement through the backend's SQL console.

Statements are checked against your role before being sent: non-superadmin
roles are limited to read-only queries, and destructive commands require the
superadmin role. The backend enforces the same rules independently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			result, err := app.Session.ExecuteSQL(cmd.Context(), adminsdk.SQLRequest{
				SQL:     args[0],
				MaxRows: maxRows,
				Explain: explain,
			})
			if err != nil {
				return err
			}

			printSQLResult(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum number of rows to return")
	cmd.Flags().BoolVar(&explain, "explain", false, "Return the query plan instead of executing")

	cmd.AddCommand(queriesCmd())

	return cmd
}

func queriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Manage saved SQL queries",
	}

	cmd.AddCommand(
		queriesListCmd(),
		queriesSaveCmd(),
		queriesRunCmd(),
		queriesDeleteCmd(),
	)

	return cmd
}

func queriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			queries, err := app.Session.ListSavedQueries(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(queries))
			for _, q := range queries {
				rows = append(rows, []string{
					strconv.FormatInt(q.ID, 10), q.Name, q.SQL, q.UpdatedAt,
				})
			}
			renderTable([]string{"ID", "NAME", "SQL", "UPDATED"}, rows)
			return nil
		},
	}
}

func queriesSaveCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "save <name> <statement>",
		Short: "Save a query, or update one with --id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			req := adminsdk.SavedQueryRequest{Name: args[0], SQL: args[1]}

			if id > 0 {
				if err := app.Session.UpdateSavedQuery(cmd.Context(), id, req); err != nil {
					return err
				}
				success("Updated query %d", id)
				return nil
			}

			newID, err := app.Session.CreateSavedQuery(cmd.Context(), req)
			if err != nil {
				return err
			}
			success("Saved query %d (%s)", newID, req.Name)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Update the saved query with this id instead of creating one")

	return cmd
}

func queriesRunCmd() *cobra.Command {
	var (
		maxRows int
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Execute a saved query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid query id: %s", args[0])
			}

			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			query, err := app.Session.SavedQuery(cmd.Context(), id)
			if err != nil {
				return err
			}

			info("Running %s", query.Name)
			result, err := app.Session.ExecuteSQL(cmd.Context(), adminsdk.SQLRequest{
				SQL:     query.SQL,
				MaxRows: maxRows,
				Explain: explain,
			})
			if err != nil {
				return err
			}

			printSQLResult(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum number of rows to return")
	cmd.Flags().BoolVar(&explain, "explain", false, "Return the query plan instead of executing")

	return cmd
}

func queriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid query id: %s", args[0])
			}

			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			if err := app.Session.DeleteSavedQuery(cmd.Context(), id); err != nil {
				return err
			}

			success("Deleted query %d", id)
			return nil
		},
	}
}

func printSQLResult(result *adminsdk.SQLResult) {
	if len(result.Plan) > 0 {
		for _, step := range result.Plan {
			info("%v", step)
		}
		return
	}

	if len(result.Columns) > 0 {
		rows := make([][]string, 0, len(result.Rows))
		for _, row := range result.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = fmt.Sprintf("%v", v)
			}
			rows = append(rows, cells)
		}
		renderTable(result.Columns, rows)
	}

	summary := fmt.Sprintf("%d row(s)", result.RowCount)
	if result.DurationS > 0 {
		summary += fmt.Sprintf(" in %.2fs", result.DurationS)
	}
	success("%s", summary)
	if result.Truncated {
		warn("result truncated by the server's row limit")
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the backing store's tables and columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			schema, err := app.Session.Schema(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(schema.Tables))
			for _, t := range schema.Tables {
				cols := make([]string, 0, len(t.Columns))
				for _, c := range t.Columns {
					cols = append(cols, c.Name)
				}
				name := t.Name
				if t.Schema != "" {
					name = t.Schema + "." + name
				}
				rows = append(rows, []string{name, strings.Join(cols, ", ")})
			}
			renderTable([]string{"TABLE", "COLUMNS"}, rows)
			return nil
		},
	}
}
