package main

import (
	"fmt"
	"strconv"

	"github.com/hisptogo/arrimage-console/internal/console"
	"github.com/hisptogo/arrimage-console/pkg/adminsdk"

	"github.com/spf13/cobra"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage console accounts and roles",
	}

	cmd.AddCommand(
		usersListCmd(),
		usersCreateCmd(),
		usersUpdateCmd(),
		usersDeleteCmd(),
		usersPasswdCmd(),
	)

	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			users, err := app.Session.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{
					strconv.FormatInt(u.ID, 10), u.Username, u.Fullname, u.Role,
				})
			}
			renderTable([]string{"ID", "USERNAME", "FULL NAME", "ROLE"}, rows)
			return nil
		},
	}
}

func usersCreateCmd() *cobra.Command {
	var (
		fullname string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			password, err := readPasswordConfirmed()
			if err != nil {
				return err
			}

			resp, err := app.Session.Register(cmd.Context(), adminsdk.RegisterRequest{
				Username: args[0],
				Fullname: fullname,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return err
			}

			success("Created user %s", resp.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&fullname, "fullname", "", "Full display name")
	cmd.Flags().StringVar(&role, "role", adminsdk.RoleUser, "Role (user, admin, superadmin)")

	return cmd
}

func usersUpdateCmd() *cobra.Command {
	var (
		fullname string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "update <username>",
		Short: "Change an account's profile or role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			target, err := findUser(cmd, app, args[0])
			if err != nil {
				return err
			}

			req := adminsdk.UpdateUserRequest{
				Fullname: target.Fullname,
				Role:     target.Role,
			}
			if fullname != "" {
				req.Fullname = fullname
			}
			if role != "" {
				req.Role = role
			}

			updated, err := app.Session.UpdateUser(cmd.Context(), *target, req)
			if err != nil {
				return err
			}

			success("Updated %s (role %s)", updated.Username, updated.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&fullname, "fullname", "", "New full display name")
	cmd.Flags().StringVar(&role, "role", "", "New role (user, admin, superadmin)")

	return cmd
}

func usersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			target, err := findUser(cmd, app, args[0])
			if err != nil {
				return err
			}

			if err := app.Session.DeleteUser(cmd.Context(), *target); err != nil {
				return err
			}

			success("Deleted %s", target.Username)
			return nil
		},
	}
}

func usersPasswdCmd() *cobra.Command {
	var own bool

	cmd := &cobra.Command{
		Use:   "passwd [username]",
		Short: "Change a password",
		Long: `Change an account's password.

With --own (or no username) your own password is changed, after verifying the
current one. With a username an administrative reset is performed; resetting
a superadmin account requires the superadmin role.`,
		Args: cobra.MaximumNArgs(1),
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

			if own || len(args) == 0 || args[0] == identity.Username {
				oldPassword, err := readPassword("Current password: ")
				if err != nil {
					return err
				}
				newPassword, err := readPasswordConfirmed()
				if err != nil {
					return err
				}
				if err := app.Session.UpdateOwnPassword(cmd.Context(), oldPassword, newPassword); err != nil {
					return err
				}
				success("Password changed")
				return nil
			}

			target, err := findUser(cmd, app, args[0])
			if err != nil {
				return err
			}

			newPassword, err := readPasswordConfirmed()
			if err != nil {
				return err
			}
			if err := app.Session.AdminResetPassword(cmd.Context(), *target, newPassword); err != nil {
				return err
			}

			success("Password reset for %s", target.Username)
			return nil
		},
	}

	cmd.Flags().BoolVar(&own, "own", false, "Change your own password")

	return cmd
}

// findUser resolves a username against the account list.
func findUser(cmd *cobra.Command, app *console.App, username string) (*adminsdk.User, error) {
	users, err := app.Session.ListUsers(cmd.Context())
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("no such user: %s", username)
}

// readPasswordConfirmed prompts for a new password twice and requires both
// entries to match.
func readPasswordConfirmed() (string, error) {
	password, err := readPassword("New password: ")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}
