package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/wekan-cli/internal/shell"
)

func newNavigateCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate",
		Short: "Browse boards, lists and cards interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}

			return shell.New(client, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}
}
