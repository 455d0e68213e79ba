// Package shell implements an interactive filesystem-style browser over
// a kanban server: boards are directories, lists are subdirectories and
// cards are files.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/wekan-cli/internal/wekan"
)

type level int

const (
	levelRoot level = iota
	levelBoard
	levelList
	levelCard
)

func (l level) String() string {
	switch l {
	case levelBoard:
		return "board"
	case levelList:
		return "list"
	case levelCard:
		return "card"
	default:
		return "root"
	}
}

// Shell holds the navigation state of one interactive session. Input
// and output are injected so tests can drive a session with buffers.
type Shell struct {
	client *wekan.Client
	in     *bufio.Scanner
	out    io.Writer
	styles styles

	level level
	board *wekan.Board
	list  *wekan.List
	card  *wekan.Card
}

// New builds a session at root level.
func New(client *wekan.Client, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		client: client,
		in:     bufio.NewScanner(in),
		out:    out,
		styles: newStyles(),
		level:  levelRoot,
	}
}

// Run reads commands until exit or EOF. Command errors are printed and
// the loop continues; only output failures abort the session.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, s.styles.banner.Render("Wekan navigation shell"))
	fmt.Fprintln(s.out, "Browse boards, lists and cards like a filesystem. Type help for commands.")
	fmt.Fprintln(s.out)
	s.handleLS()

	for {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, s.styles.breadcrumb.Render(s.breadcrumb()))
		fmt.Fprintf(s.out, "%s> ", s.prompt())

		if !s.in.Scan() {
			fmt.Fprintln(s.out, "exiting")
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Fprintln(s.out, "exiting")
			return nil
		case "help", "h":
			s.handleHelp()
		case "pwd":
			fmt.Fprintln(s.out, s.breadcrumb())
		case "ls", "list":
			s.handleLS()
		case "cd":
			s.handleCD(args)
		case "..":
			s.goBack()
		case "/":
			s.goToRoot()
		case "mkdir":
			s.handleMkdir(args)
		case "touch":
			s.handleTouch(args)
		case "mv":
			s.handleMV(args)
		case "rm":
			s.handleRM(args)
		default:
			s.problemf("unknown command: %s", cmd)
			fmt.Fprintln(s.out, s.styles.hint.Render("type help for available commands"))
		}
	}
}

func (s *Shell) breadcrumb() string {
	parts := []string{"root"}
	if s.board != nil {
		parts = append(parts, s.board.Title)
	}
	if s.list != nil {
		parts = append(parts, s.list.Title)
	}
	if s.card != nil {
		parts = append(parts, s.card.Title)
	}
	return strings.Join(parts, " / ")
}

func (s *Shell) prompt() string {
	if s.level == levelRoot {
		return "wekan"
	}
	switch s.level {
	case levelBoard:
		return truncate(s.board.Title, 15)
	case levelList:
		return truncate(s.list.Title, 12)
	default:
		return truncate(s.card.Title, 10)
	}
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max] + "..."
}

func (s *Shell) handleCD(args []string) {
	if len(args) == 0 {
		s.problemf("usage: cd <target|..|/>")
		return
	}

	switch args[0] {
	case "..":
		s.goBack()
		return
	case "/":
		s.goToRoot()
		return
	}

	identifier := strings.Join(args, " ")
	switch s.level {
	case levelRoot:
		s.enterBoard(identifier)
	case levelBoard:
		s.enterList(identifier)
	case levelList:
		s.enterCard(identifier)
	case levelCard:
		s.problemf("already at the deepest level (card)")
	}
}

func (s *Shell) enterBoard(identifier string) {
	boards, err := s.client.Boards("")
	if err != nil {
		s.problemf("list boards: %v", err)
		return
	}
	entries := make([]Entry, len(boards))
	for i, board := range boards {
		entries[i] = Entry{ID: board.ID, Title: board.Title}
	}
	index, err := Resolve("board", identifier, entries)
	if err != nil {
		s.problemf("%v", err)
		return
	}

	s.board = boards[index]
	s.list = nil
	s.card = nil
	s.level = levelBoard
	s.successf("entered board: %s", s.board.Title)
}

func (s *Shell) enterList(identifier string) {
	target, err := s.resolveList(identifier)
	if err != nil {
		s.problemf("%v", err)
		return
	}

	s.list = target
	s.card = nil
	s.level = levelList
	s.successf("entered list: %s", s.list.Title)
}

func (s *Shell) resolveList(identifier string) (*wekan.List, error) {
	lists, err := s.board.Lists("")
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	entries := make([]Entry, len(lists))
	for i, list := range lists {
		entries[i] = Entry{ID: list.ID, Title: list.Title}
	}
	index, err := Resolve("list", identifier, entries)
	if err != nil {
		return nil, err
	}
	return lists[index], nil
}

func (s *Shell) enterCard(identifier string) {
	card, err := s.resolveCard(identifier)
	if err != nil {
		s.problemf("%v", err)
		return
	}

	s.card = card
	s.level = levelCard
	s.successf("entered card: %s", s.card.Title)
}

func (s *Shell) resolveCard(identifier string) (*wekan.Card, error) {
	cards, err := s.list.Cards("")
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	entries := make([]Entry, len(cards))
	for i, card := range cards {
		entries[i] = Entry{ID: card.ID, Title: card.Title}
	}
	index, err := Resolve("card", identifier, entries)
	if err != nil {
		return nil, err
	}
	return cards[index], nil
}

func (s *Shell) goBack() {
	switch s.level {
	case levelCard:
		s.card = nil
		s.level = levelList
		s.successf("back to list: %s", s.list.Title)
	case levelList:
		s.list = nil
		s.level = levelBoard
		s.successf("back to board: %s", s.board.Title)
	case levelBoard:
		s.board = nil
		s.level = levelRoot
		s.successf("back to root")
	default:
		fmt.Fprintln(s.out, s.styles.hint.Render("already at root"))
	}
}

func (s *Shell) goToRoot() {
	s.board = nil
	s.list = nil
	s.card = nil
	s.level = levelRoot
	s.successf("returned to root")
}

func (s *Shell) handleLS() {
	switch s.level {
	case levelRoot:
		s.listBoards()
	case levelBoard:
		s.listLists()
	case levelList:
		s.listCards()
	case levelCard:
		s.showCard()
	}
}

func (s *Shell) listBoards() {
	boards, err := s.client.Boards("")
	if err != nil {
		s.problemf("list boards: %v", err)
		return
	}
	if len(boards) == 0 {
		fmt.Fprintln(s.out, s.styles.empty.Render("no boards"))
		return
	}

	fmt.Fprintln(s.out, s.styles.tableTitle.Render("Boards"))
	fmt.Fprintln(s.out, s.styles.header.Render(fmt.Sprintf("%3s  %-10s  %s", "#", "ID", "TITLE")))
	for i, board := range boards {
		fmt.Fprintf(s.out, "%3d  %s  %s\n",
			i+1,
			s.styles.id.Render(fmt.Sprintf("%-10s", truncate(board.ID, 8))),
			s.styles.title.Render(board.Title))
	}
	fmt.Fprintln(s.out, s.styles.hint.Render("use cd <index|id|title> to enter a board"))
}

func (s *Shell) listLists() {
	lists, err := s.board.Lists("")
	if err != nil {
		s.problemf("list lists: %v", err)
		return
	}
	if len(lists) == 0 {
		fmt.Fprintln(s.out, s.styles.empty.Render("no lists in this board"))
		fmt.Fprintln(s.out, s.styles.hint.Render("create one with mkdir <name>"))
		return
	}

	fmt.Fprintln(s.out, s.styles.tableTitle.Render(fmt.Sprintf("Lists in %q", s.board.Title)))
	fmt.Fprintln(s.out, s.styles.header.Render(fmt.Sprintf("%3s  %-10s  %-24s  %s", "#", "ID", "TITLE", "CARDS")))
	for i, list := range lists {
		count := "?"
		if list.CardsCount != nil {
			count = fmt.Sprintf("%d", *list.CardsCount)
		}
		fmt.Fprintf(s.out, "%3d  %s  %s  %s\n",
			i+1,
			s.styles.id.Render(fmt.Sprintf("%-10s", truncate(list.ID, 8))),
			s.styles.title.Render(fmt.Sprintf("%-24s", truncate(list.Title, 24))),
			s.styles.count.Render(count))
	}
	fmt.Fprintln(s.out, s.styles.hint.Render("use cd <index|id|title> to enter a list"))
}

func (s *Shell) listCards() {
	cards, err := s.list.Cards("")
	if err != nil {
		s.problemf("list cards: %v", err)
		return
	}
	if len(cards) == 0 {
		fmt.Fprintln(s.out, s.styles.empty.Render(fmt.Sprintf("no cards in list %q", s.list.Title)))
		fmt.Fprintln(s.out, s.styles.hint.Render("create one with touch <title>"))
		return
	}

	fmt.Fprintln(s.out, s.styles.tableTitle.Render(fmt.Sprintf("Cards in %q", s.list.Title)))
	fmt.Fprintln(s.out, s.styles.header.Render(fmt.Sprintf("%3s  %-10s  %-24s  %s", "#", "ID", "TITLE", "DESCRIPTION")))
	for i, card := range cards {
		description := card.Description
		if description == "" {
			description = "-"
		}
		fmt.Fprintf(s.out, "%3d  %s  %s  %s\n",
			i+1,
			s.styles.id.Render(fmt.Sprintf("%-10s", truncate(card.ID, 8))),
			s.styles.title.Render(fmt.Sprintf("%-24s", truncate(card.Title, 24))),
			truncate(description, 30))
	}
	fmt.Fprintln(s.out, s.styles.hint.Render("use cd <index|id|title> to enter a card"))
}

func (s *Shell) showCard() {
	fmt.Fprintln(s.out, s.styles.tableTitle.Render(fmt.Sprintf("Card: %s", s.card.Title)))
	fmt.Fprintf(s.out, "id:          %s\n", s.card.ID)
	fmt.Fprintf(s.out, "title:       %s\n", s.card.Title)
	description := s.card.Description
	if description == "" {
		description = "-"
	}
	fmt.Fprintf(s.out, "description: %s\n", description)
	fmt.Fprintf(s.out, "created:     %s\n", s.card.CreatedAt.Format("2006-01-02 15:04"))
	if s.card.DueAt != nil {
		fmt.Fprintf(s.out, "due:         %s\n", s.card.DueAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(s.out, "list:        %s\n", s.list.Title)
	fmt.Fprintf(s.out, "board:       %s\n", s.board.Title)
}

func (s *Shell) handleMkdir(args []string) {
	if s.level != levelBoard {
		s.problemf("mkdir only works at board level")
		return
	}
	if len(args) == 0 {
		s.problemf("usage: mkdir <list-name>")
		return
	}

	title := strings.Join(args, " ")
	if _, err := s.board.CreateList(title); err != nil {
		s.problemf("create list: %v", err)
		return
	}
	s.successf("created list %q", title)
}

func (s *Shell) handleTouch(args []string) {
	if s.level != levelList {
		s.problemf("touch only works at list level")
		return
	}
	if len(args) == 0 {
		s.problemf("usage: touch <card-title>")
		return
	}

	title := strings.Join(args, " ")
	if _, err := s.list.CreateCard(title, "", nil); err != nil {
		s.problemf("create card: %v", err)
		return
	}
	s.successf("created card %q", title)
}

func (s *Shell) handleMV(args []string) {
	switch s.level {
	case levelCard:
		if len(args) != 1 {
			s.problemf("usage: mv <target-list>")
			return
		}
		s.moveCard(s.card, args[0])
	case levelList:
		if len(args) != 2 {
			s.problemf("usage: mv <card> <target-list>")
			return
		}
		card, err := s.resolveCard(args[0])
		if err != nil {
			s.problemf("%v", err)
			return
		}
		s.moveCard(card, args[1])
	default:
		s.problemf("mv only works at list or card level")
	}
}

func (s *Shell) moveCard(card *wekan.Card, targetIdentifier string) {
	target, err := s.resolveList(targetIdentifier)
	if err != nil {
		s.problemf("%v", err)
		return
	}
	if s.list != nil && target.Equal(s.list) {
		fmt.Fprintln(s.out, s.styles.hint.Render("card is already in this list"))
		return
	}

	if err := card.MoveToList(target); err != nil {
		s.problemf("move card: %v", err)
		return
	}
	s.successf("moved %q to %q", card.Title, target.Title)

	if s.level == levelCard {
		s.list = target
		s.card = nil
		s.level = levelList
	}
}

func (s *Shell) handleRM(args []string) {
	switch s.level {
	case levelCard:
		title := s.card.Title
		if err := s.card.Delete(); err != nil {
			s.problemf("delete card: %v", err)
			return
		}
		s.card = nil
		s.level = levelList
		s.successf("deleted card %q", title)
	case levelList:
		if len(args) != 1 {
			s.problemf("usage: rm <card>")
			return
		}
		card, err := s.resolveCard(args[0])
		if err != nil {
			s.problemf("%v", err)
			return
		}
		if err := card.Delete(); err != nil {
			s.problemf("delete card: %v", err)
			return
		}
		s.successf("deleted card %q", card.Title)
	default:
		s.problemf("rm only works at list or card level")
	}
}

func (s *Shell) handleHelp() {
	fmt.Fprintln(s.out, s.styles.tableTitle.Render(fmt.Sprintf("Commands (%s level)", s.level)))
	commands := [][2]string{
		{"pwd", "show the current path"},
		{"ls", "list the current level"},
		{"cd <target>", "enter a board, list or card by index, id or title"},
		{"cd ..", "go back one level"},
		{"cd /", "go to root"},
		{"help", "show this message"},
		{"exit", "leave the shell"},
	}
	switch s.level {
	case levelBoard:
		commands = append(commands, [2]string{"mkdir <name>", "create a list"})
	case levelList:
		commands = append(commands,
			[2]string{"touch <title>", "create a card"},
			[2]string{"mv <card> <list>", "move a card to another list"},
			[2]string{"rm <card>", "delete a card"})
	case levelCard:
		commands = append(commands,
			[2]string{"mv <list>", "move this card to another list"},
			[2]string{"rm", "delete this card"})
	}
	for _, command := range commands {
		fmt.Fprintf(s.out, "  %-18s %s\n", command[0], command[1])
	}
}

func (s *Shell) successf(format string, args ...any) {
	fmt.Fprintln(s.out, s.styles.success.Render(fmt.Sprintf(format, args...)))
}

func (s *Shell) problemf(format string, args ...any) {
	fmt.Fprintln(s.out, s.styles.problem.Render(fmt.Sprintf(format, args...)))
}
