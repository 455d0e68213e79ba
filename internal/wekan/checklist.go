package wekan

import (
	"fmt"
	"net/http"
	"time"
)

// Checklist is a proxy for one checklist of a card. Its items are part of
// the checklist payload and snapshotted alongside it.
type Checklist struct {
	Card *Card

	ID         string
	Title      string
	Sort       float64
	CreatedAt  time.Time
	ModifiedAt time.Time

	items []checklistItemPayload
}

type checklistPayload struct {
	Title      string                 `json:"title"`
	Sort       float64                `json:"sort"`
	CreatedAt  string                 `json:"createdAt"`
	ModifiedAt string                 `json:"modifiedAt"`
	Items      []checklistItemPayload `json:"items"`
}

type checklistItemPayload struct {
	ID         string  `json:"_id"`
	Title      string  `json:"title"`
	IsFinished bool    `json:"isFinished"`
	Sort       float64 `json:"sort"`
}

// Checklist fetches one checklist of the card.
func (c *Card) Checklist(checklistID string) (*Checklist, error) {
	cl := &Checklist{Card: c, ID: checklistID}
	if err := cl.Refresh(); err != nil {
		return nil, err
	}
	return cl, nil
}

// Checklists returns the card's checklists whose title matches the
// filter pattern.
func (c *Card) Checklists(titleFilter string) ([]*Checklist, error) {
	re, err := compileFilter(titleFilter)
	if err != nil {
		return nil, err
	}

	body, err := c.List.Board.client.Request(http.MethodGet, c.shortPath()+"/checklists", nil)
	if err != nil {
		return nil, err
	}
	ids, err := idsFromList(body)
	if err != nil {
		return nil, err
	}

	checklists := make([]*Checklist, 0, len(ids))
	for _, id := range ids {
		checklist, err := c.Checklist(id)
		if err != nil {
			return nil, err
		}
		if re.MatchString(checklist.Title) {
			checklists = append(checklists, checklist)
		}
	}
	return checklists, nil
}

// AddChecklist creates a checklist on the card and returns its proxy.
func (c *Card) AddChecklist(title string) (*Checklist, error) {
	body, err := c.List.Board.client.Request(http.MethodPost, c.shortPath()+"/checklists", map[string]any{"title": title})
	if err != nil {
		return nil, err
	}
	id, err := idFromResponse(body)
	if err != nil {
		return nil, err
	}
	return c.Checklist(id)
}

// Refresh refetches the checklist, including its embedded items.
func (cl *Checklist) Refresh() error {
	var payload checklistPayload
	if err := cl.Card.List.Board.client.get(cl.path(), &payload); err != nil {
		return err
	}

	if err := requireString("checklist", cl.ID, "title", payload.Title); err != nil {
		return err
	}
	createdAt, err := parseRequiredDate("checklist", cl.ID, "createdAt", payload.CreatedAt)
	if err != nil {
		return err
	}
	modifiedAt, err := parseRequiredDate("checklist", cl.ID, "modifiedAt", payload.ModifiedAt)
	if err != nil {
		return err
	}

	cl.Title = payload.Title
	cl.Sort = payload.Sort
	cl.CreatedAt = createdAt
	cl.ModifiedAt = modifiedAt
	cl.items = payload.Items
	return nil
}

// Equal reports whether both proxies name the same server-side checklist.
func (cl *Checklist) Equal(other *Checklist) bool {
	return other != nil && cl.ID == other.ID
}

func (cl *Checklist) path() string {
	return fmt.Sprintf("%s/checklists/%s", cl.Card.shortPath(), cl.ID)
}

// Items builds item proxies from the snapshot taken at the last fetch.
func (cl *Checklist) Items() []*ChecklistItem {
	items := make([]*ChecklistItem, 0, len(cl.items))
	for _, item := range cl.items {
		items = append(items, &ChecklistItem{
			Checklist:  cl,
			ID:         item.ID,
			Title:      item.Title,
			IsFinished: item.IsFinished,
			Sort:       item.Sort,
		})
	}
	return items
}

// Delete removes the checklist on the server.
func (cl *Checklist) Delete() error {
	_, err := cl.Card.List.Board.client.Request(http.MethodDelete, cl.path(), nil)
	return err
}

// ChecklistItem is a proxy for one item of a checklist. Items have no
// standalone collection endpoint; they are built from the checklist
// payload and mutated through the items path.
type ChecklistItem struct {
	Checklist *Checklist

	ID         string
	Title      string
	IsFinished bool
	Sort       float64
}

// Equal reports whether both proxies name the same server-side item.
func (i *ChecklistItem) Equal(other *ChecklistItem) bool {
	return other != nil && i.ID == other.ID
}

func (i *ChecklistItem) path() string {
	return fmt.Sprintf("%s/items/%s", i.Checklist.path(), i.ID)
}

// ChecklistItemEdit carries a partial item update.
type ChecklistItemEdit struct {
	Title      *string
	IsFinished *bool
}

// Edit sends a partial update without resyncing local fields.
func (i *ChecklistItem) Edit(edit ChecklistItemEdit) error {
	payload := map[string]any{}
	if edit.Title != nil {
		payload["title"] = *edit.Title
	}
	if edit.IsFinished != nil {
		payload["isFinished"] = *edit.IsFinished
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := i.Checklist.Card.List.Board.client.Request(http.MethodPut, i.path(), payload)
	return err
}

// MarkFinished checks the item off and updates the local flag.
func (i *ChecklistItem) MarkFinished() error {
	finished := true
	if err := i.Edit(ChecklistItemEdit{IsFinished: &finished}); err != nil {
		return err
	}
	i.IsFinished = true
	return nil
}

// SetTitle renames the item and updates the local field.
func (i *ChecklistItem) SetTitle(title string) error {
	if err := i.Edit(ChecklistItemEdit{Title: &title}); err != nil {
		return err
	}
	i.Title = title
	return nil
}

// Delete removes the item on the server.
func (i *ChecklistItem) Delete() error {
	_, err := i.Checklist.Card.List.Board.client.Request(http.MethodDelete, i.path(), nil)
	return err
}
