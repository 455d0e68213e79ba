package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/wekan-cli/internal/shell"
	"github.com/bnema/wekan-cli/internal/wekan"
)

func newBoardsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "Browse and manage boards",
	}

	cmd.AddCommand(
		newBoardsListCmd(app),
		newBoardsShowCmd(app),
		newBoardsCreateCmd(app),
		newBoardsActivateCmd(app),
	)

	return cmd
}

type boardSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Permission string `json:"permission"`
	Archived   bool   `json:"archived"`
	CreatedAt  string `json:"createdAt"`
	ModifiedAt string `json:"modifiedAt"`
}

func summarize(board *wekan.Board) boardSummary {
	return boardSummary{
		ID:         board.ID,
		Title:      board.Title,
		Permission: board.Permission,
		Archived:   board.Archived,
		CreatedAt:  wekan.FormatISODate(board.CreatedAt),
		ModifiedAt: wekan.FormatISODate(board.ModifiedAt),
	}
}

func newBoardsListCmd(app *app) *cobra.Command {
	var asJSON bool
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible boards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}

			var boards []*wekan.Board
			fetch := func(_ context.Context) error {
				boards, err = client.Boards(filter)
				return err
			}
			if asJSON {
				if err := fetch(cmd.Context()); err != nil {
					return err
				}
			} else if err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching boards...", fetch); err != nil {
				return err
			}

			if asJSON {
				summaries := make([]boardSummary, 0, len(boards))
				for _, board := range boards {
					summaries = append(summaries, summarize(board))
				}
				encoded, err := json.MarshalIndent(summaries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}

			if len(boards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no boards")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%3s  %-18s  %s\n", "#", "ID", "TITLE")
			for i, board := range boards {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-18s  %s\n", i+1, board.ID, board.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON instead of a table")
	cmd.Flags().StringVar(&filter, "filter", "", "Keep boards whose title matches this pattern")

	return cmd
}

func newBoardsShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <index|id|title>",
		Short: "Show one board in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			board, err := findBoard(client, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				encoded, err := json.MarshalIndent(summarize(board), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:         %s\n", board.ID)
			fmt.Fprintf(out, "title:      %s\n", board.Title)
			fmt.Fprintf(out, "permission: %s\n", board.Permission)
			fmt.Fprintf(out, "archived:   %t\n", board.Archived)
			fmt.Fprintf(out, "created:    %s\n", board.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "modified:   %s\n", board.ModifiedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "members:    %d\n", len(board.Members))

			labels, err := board.Labels("")
			if err != nil {
				return err
			}
			for _, label := range labels {
				fmt.Fprintf(out, "label:      %s (%s)\n", label.Name, label.Color)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON instead of text")

	return cmd
}

func newBoardsCreateCmd(app *app) *cobra.Command {
	var color string
	var permission string

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}

			board, err := client.AddBoard(wekan.NewBoard{
				Title:      args[0],
				Color:      color,
				Permission: permission,
				IsAdmin:    true,
				IsActive:   true,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created board %q (%s)\n", board.Title, board.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "belize", "Board color")
	cmd.Flags().StringVar(&permission, "permission", "private", "Board permission (private|public)")

	return cmd
}

func newBoardsActivateCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <index|id|title>",
		Short: "Make a board the default for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			board, err := findBoard(client, args[0])
			if err != nil {
				return err
			}

			store, err := app.stateStore()
			if err != nil {
				return err
			}
			if err := store.SetActiveBoard(board.ID, board.Title, app.now()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "active board: %s (%s)\n", board.Title, board.ID)
			return nil
		},
	}
}

// findBoard resolves an identifier (1-based index, ID prefix or title
// substring) against the boards visible to the session.
func findBoard(client *wekan.Client, identifier string) (*wekan.Board, error) {
	boards, err := client.Boards("")
	if err != nil {
		return nil, err
	}

	entries := make([]shell.Entry, len(boards))
	for i, board := range boards {
		entries[i] = shell.Entry{ID: board.ID, Title: board.Title}
	}
	index, err := shell.Resolve("board", identifier, entries)
	if err != nil {
		return nil, err
	}
	return boards[index], nil
}
