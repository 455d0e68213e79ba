package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/wekan-cli/internal/config"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage connection settings",
	}

	cmd.AddCommand(newConfigInitCmd(app), newConfigShowCmd(app), newConfigSetCmd(app))

	return cmd
}

func newConfigInitCmd(app *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "init <server> <username> <password>",
		Short: "Write a fresh configuration file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{
				BaseURL:  args[0],
				Username: args[1],
				Password: args[2],
				Timeout:  app.config.Timeout,
			}

			path := file
			if path == "" {
				var err error
				path, err = config.DefaultPath()
				if err != nil {
					return err
				}
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Target file (default: .wekan in the home directory)")

	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server:   %s\n", orUnset(app.config.BaseURL))
			fmt.Fprintf(out, "username: %s\n", orUnset(app.config.Username))
			fmt.Fprintf(out, "password: %s\n", masked(app.config.Password))
			fmt.Fprintf(out, "token:    %s\n", masked(app.config.Token))
			fmt.Fprintf(out, "timeout:  %s\n", app.config.Timeout)
			if app.config.Path != "" {
				fmt.Fprintf(out, "source:   %s\n", app.config.Path)
			}
			return nil
		},
	}
}

func newConfigSetCmd(app *app) *cobra.Command {
	var server string
	var username string
	var password string
	var timeoutMS int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings in the configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if server == "" && username == "" && password == "" && timeoutMS == 0 {
				return fmt.Errorf("nothing to change: pass --server, --username, --password or --timeout")
			}

			if server != "" {
				app.config.BaseURL = server
			}
			if username != "" {
				app.config.Username = username
			}
			if password != "" {
				app.config.Password = password
			}
			if timeoutMS > 0 {
				app.config.Timeout = time.Duration(timeoutMS) * time.Millisecond
			}

			path, err := app.configPath()
			if err != nil {
				return err
			}
			if err := app.config.Save(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL")
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().IntVar(&timeoutMS, "timeout", 0, "Request timeout in milliseconds")

	return cmd
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

func masked(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "********"
}
