package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hisptogo/arrimage-console/internal/console"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the Arrimage backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := console.NewApp(version)
			if err != nil {
				return err
			}
			defer app.Close()

			if username == "" {
				fmt.Print("Username: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}

			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			identity, err := app.Session.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			success("Logged in as %s (%s)", identity.Username, identity.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username to sign in with")

	return cmd
}

// readPassword prompts on stdout and reads without echo.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
