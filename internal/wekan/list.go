package wekan

import (
	"fmt"
	"net/http"
	"time"
)

// List is a proxy for one list (column) of a board. It borrows its parent
// board; the board's lifetime is managed by the caller.
type List struct {
	Board *Board

	ID         string
	Title      string
	Archived   bool
	SwimlaneID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Sort       float64
	WIPLimit   WIPLimit
	Color      string

	// CardsCount is served by a separate endpoint newer servers expose;
	// nil when the server is too old to report it.
	CardsCount *int
}

// WIPLimit mirrors the list's work-in-progress limit settings.
type WIPLimit struct {
	Value   int  `json:"value"`
	Enabled bool `json:"enabled"`
	Soft    bool `json:"soft"`
}

type listPayload struct {
	Title      string   `json:"title"`
	Archived   bool     `json:"archived"`
	SwimlaneID string   `json:"swimlaneId"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
	Sort       float64  `json:"sort"`
	WIPLimit   WIPLimit `json:"wipLimit"`
	Color      string   `json:"color"`
}

// List fetches one list of the board.
func (b *Board) List(listID string) (*List, error) {
	l := &List{Board: b, ID: listID}
	if err := l.Refresh(); err != nil {
		return nil, err
	}
	return l, nil
}

// Lists returns the board's lists whose title matches the filter pattern.
func (b *Board) Lists(titleFilter string) ([]*List, error) {
	re, err := compileFilter(titleFilter)
	if err != nil {
		return nil, err
	}

	body, err := b.client.Request(http.MethodGet, b.path()+"/lists", nil)
	if err != nil {
		return nil, err
	}
	ids, err := idsFromList(body)
	if err != nil {
		return nil, err
	}

	lists := make([]*List, 0, len(ids))
	for _, id := range ids {
		list, err := b.List(id)
		if err != nil {
			return nil, err
		}
		if re.MatchString(list.Title) {
			lists = append(lists, list)
		}
	}
	return lists, nil
}

// CreateList creates a new list on the board and returns its proxy.
func (b *Board) CreateList(title string) (*List, error) {
	body, err := b.client.Request(http.MethodPost, b.path()+"/lists", map[string]any{"title": title})
	if err != nil {
		return nil, err
	}
	id, err := idFromResponse(body)
	if err != nil {
		return nil, err
	}
	return b.List(id)
}

// Refresh refetches the list representation and resyncs local fields.
func (l *List) Refresh() error {
	var payload listPayload
	if err := l.Board.client.get(l.path(), &payload); err != nil {
		return err
	}

	if err := requireString("list", l.ID, "title", payload.Title); err != nil {
		return err
	}
	createdAt, err := parseRequiredDate("list", l.ID, "createdAt", payload.CreatedAt)
	if err != nil {
		return err
	}
	updatedAt, err := parseRequiredDate("list", l.ID, "updatedAt", payload.UpdatedAt)
	if err != nil {
		return err
	}

	l.Title = payload.Title
	l.Archived = payload.Archived
	l.SwimlaneID = payload.SwimlaneID
	l.CreatedAt = createdAt
	l.UpdatedAt = updatedAt
	l.Sort = payload.Sort
	l.WIPLimit = payload.WIPLimit
	l.Color = payload.Color

	// Old instances (stable snap in particular) do not serve the
	// cards_count endpoint; absence is not an error.
	var counted struct {
		Count int `json:"list_cards_count"`
	}
	if err := l.Board.client.get(l.path()+"/cards_count", &counted); err == nil {
		l.CardsCount = &counted.Count
	}

	return nil
}

// Equal reports whether both proxies name the same server-side list.
func (l *List) Equal(other *List) bool {
	return other != nil && l.ID == other.ID
}

func (l *List) path() string {
	return fmt.Sprintf("%s/lists/%s", l.Board.path(), l.ID)
}

// ListEdit carries a partial list update.
type ListEdit struct {
	Title *string
	Sort  *float64
}

// Edit sends a partial update without resyncing local fields.
func (l *List) Edit(edit ListEdit) error {
	payload := map[string]any{}
	if edit.Title != nil {
		payload["title"] = *edit.Title
	}
	if edit.Sort != nil {
		payload["sort"] = *edit.Sort
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := l.Board.client.Request(http.MethodPut, l.path(), payload)
	return err
}

// Update sends a partial update and refetches the list.
func (l *List) Update(edit ListEdit) error {
	if err := l.Edit(edit); err != nil {
		return err
	}
	return l.Refresh()
}

// Archive archives the list server-side and flips the local flag.
func (l *List) Archive() error {
	if _, err := l.Board.client.Request(http.MethodPost, l.path()+"/archive", nil); err != nil {
		return err
	}
	l.Archived = true
	return nil
}

// Restore brings an archived list back.
func (l *List) Restore() error {
	if _, err := l.Board.client.Request(http.MethodPost, l.path()+"/unarchive", nil); err != nil {
		return err
	}
	l.Archived = false
	return nil
}

// Delete removes the list on the server.
func (l *List) Delete() error {
	_, err := l.Board.client.Request(http.MethodDelete, l.path(), nil)
	return err
}
