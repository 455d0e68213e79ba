package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the server session",
	}

	cmd.AddCommand(newAuthLoginCmd(app), newAuthWhoamiCmd(app), newAuthLogoutCmd(app))

	return cmd
}

func newAuthLoginCmd(app *app) *cobra.Command {
	var server string
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if server != "" {
				app.config.BaseURL = server
			}
			if username != "" {
				app.config.Username = username
			}
			if password != "" {
				app.config.Password = password
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			app.config.Token = client.Token()
			path, err := app.configPath()
			if err != nil {
				return err
			}
			if err := app.config.Save(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", app.config.Username, client.UserID())
			fmt.Fprintf(cmd.OutOrStdout(), "token expires %s\n", client.TokenExpiry().Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (overrides config)")
	cmd.Flags().StringVar(&username, "username", "", "Username (overrides config)")
	cmd.Flags().StringVar(&password, "password", "", "Password (overrides config)")

	return cmd
}

func newAuthWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			user, err := client.CurrentUser()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "username: %s\n", user.Username)
			fmt.Fprintf(cmd.OutOrStdout(), "id:       %s\n", user.ID)
			if len(user.Emails) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "email:    %s\n", user.Emails[0].Address)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin:    %t\n", user.IsAdmin)
			return nil
		},
	}
}

func newAuthLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.config.Token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no stored token")
				return nil
			}

			app.config.Token = ""
			path, err := app.configPath()
			if err != nil {
				return err
			}
			if err := app.config.Save(path); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "token cleared")
			return nil
		},
	}
}
