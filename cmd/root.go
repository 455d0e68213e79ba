package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wekan",
		Short:         "Wekan CLI: manage kanban boards, lists and cards from the terminal",
		Long:          "wekan talks to a Wekan server over its REST API: authenticate, browse and create boards, and navigate boards, lists and cards interactively like a filesystem.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAuthCmd(app),
		newBoardsCmd(app),
		newConfigCmd(app),
		newNavigateCmd(app),
	)

	return rootCmd
}
