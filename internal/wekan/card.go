package wekan

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Card is a proxy for one card. It borrows its parent list, which borrows
// its board, which holds the session manager.
type Card struct {
	List *List

	ID               string
	Title            string
	Description      string
	Members          []string
	LabelIDs         []string
	CustomFields     json.RawMessage
	Sort             float64
	SwimlaneID       string
	CardNumber       int
	Archived         bool
	ParentID         string
	CreatedAt        time.Time
	ModifiedAt       time.Time
	DateLastActivity time.Time
	RequestedBy      string
	AssignedBy       string
	Assignees        []string
	SpentTime        float64
	IsOvertime       bool
	SubtaskSort      float64
	LinkedID         string

	// Cards created on very old server versions lack the fields below.
	CoverID       string
	Vote          json.RawMessage
	Poker         json.RawMessage
	TargetIDGantt json.RawMessage
	LinkTypeGantt json.RawMessage
	LinkIDGantt   json.RawMessage
	DueAt         *time.Time
}

type cardPayload struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Members          []string        `json:"members"`
	LabelIDs         []string        `json:"labelIds"`
	CustomFields     json.RawMessage `json:"customFields"`
	Sort             float64         `json:"sort"`
	SwimlaneID       string          `json:"swimlaneId"`
	CardNumber       int             `json:"cardNumber"`
	Archived         bool            `json:"archived"`
	ParentID         string          `json:"parentId"`
	CreatedAt        string          `json:"createdAt"`
	ModifiedAt       string          `json:"modifiedAt"`
	DateLastActivity string          `json:"dateLastActivity"`
	RequestedBy      string          `json:"requestedBy"`
	AssignedBy       string          `json:"assignedBy"`
	Assignees        []string        `json:"assignees"`
	SpentTime        float64         `json:"spentTime"`
	IsOvertime       bool            `json:"isOvertime"`
	SubtaskSort      float64         `json:"subtaskSort"`
	LinkedID         string          `json:"linkedId"`

	CoverID       string          `json:"coverId"`
	Vote          json.RawMessage `json:"vote"`
	Poker         json.RawMessage `json:"poker"`
	TargetIDGantt json.RawMessage `json:"targetId_gantt"`
	LinkTypeGantt json.RawMessage `json:"linkType_gantt"`
	LinkIDGantt   json.RawMessage `json:"linkId_gantt"`
	DueAt         string          `json:"dueAt"`
}

// Card fetches one card of the list.
func (l *List) Card(cardID string) (*Card, error) {
	c := &Card{List: l, ID: cardID}
	if err := c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

// Cards returns the list's cards whose title matches the filter pattern.
func (l *List) Cards(titleFilter string) ([]*Card, error) {
	re, err := compileFilter(titleFilter)
	if err != nil {
		return nil, err
	}

	body, err := l.Board.client.Request(http.MethodGet, l.path()+"/cards", nil)
	if err != nil {
		return nil, err
	}
	ids, err := idsFromList(body)
	if err != nil {
		return nil, err
	}

	cards := make([]*Card, 0, len(ids))
	for _, id := range ids {
		card, err := l.Card(id)
		if err != nil {
			return nil, err
		}
		if re.MatchString(card.Title) {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// CreateCard creates a card on the list in the board's default swimlane
// and returns its proxy.
func (l *List) CreateCard(title, description string, members []string) (*Card, error) {
	if members == nil {
		members = []string{}
	}
	payload := map[string]any{
		"title":       title,
		"authorId":    l.Board.client.userID,
		"members":     members,
		"description": description,
		"swimlaneId":  l.Board.ID,
	}
	body, err := l.Board.client.Request(http.MethodPost, l.path()+"/cards", payload)
	if err != nil {
		return nil, err
	}
	id, err := idFromResponse(body)
	if err != nil {
		return nil, err
	}
	return l.Card(id)
}

// Refresh refetches the card representation and resyncs local fields.
func (c *Card) Refresh() error {
	var payload cardPayload
	if err := c.List.Board.client.get(c.path(), &payload); err != nil {
		return err
	}

	if err := requireString("card", c.ID, "title", payload.Title); err != nil {
		return err
	}
	createdAt, err := parseRequiredDate("card", c.ID, "createdAt", payload.CreatedAt)
	if err != nil {
		return err
	}
	modifiedAt, err := parseRequiredDate("card", c.ID, "modifiedAt", payload.ModifiedAt)
	if err != nil {
		return err
	}
	lastActivity, err := parseRequiredDate("card", c.ID, "dateLastActivity", payload.DateLastActivity)
	if err != nil {
		return err
	}
	dueAt, err := parseOptionalDate(payload.DueAt)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("card %s: field %q: %v", c.ID, "dueAt", err)}
	}

	c.Title = payload.Title
	c.Description = payload.Description
	c.Members = payload.Members
	c.LabelIDs = payload.LabelIDs
	c.CustomFields = payload.CustomFields
	c.Sort = payload.Sort
	c.SwimlaneID = payload.SwimlaneID
	c.CardNumber = payload.CardNumber
	c.Archived = payload.Archived
	c.ParentID = payload.ParentID
	c.CreatedAt = createdAt
	c.ModifiedAt = modifiedAt
	c.DateLastActivity = lastActivity
	c.RequestedBy = payload.RequestedBy
	c.AssignedBy = payload.AssignedBy
	c.Assignees = payload.Assignees
	c.SpentTime = payload.SpentTime
	c.IsOvertime = payload.IsOvertime
	c.SubtaskSort = payload.SubtaskSort
	c.LinkedID = payload.LinkedID

	c.CoverID = payload.CoverID
	c.Vote = payload.Vote
	c.Poker = payload.Poker
	c.TargetIDGantt = payload.TargetIDGantt
	c.LinkTypeGantt = payload.LinkTypeGantt
	c.LinkIDGantt = payload.LinkIDGantt
	c.DueAt = dueAt

	return nil
}

// Equal reports whether both proxies name the same server-side card.
func (c *Card) Equal(other *Card) bool {
	return other != nil && c.ID == other.ID
}

func (c *Card) path() string {
	return fmt.Sprintf("%s/cards/%s", c.List.path(), c.ID)
}

// shortPath addresses the card without the list segment, as the checklist
// and comment endpoints do.
func (c *Card) shortPath() string {
	return fmt.Sprintf("%s/cards/%s", c.List.Board.path(), c.ID)
}

// CardEdit carries the fields of a partial card update; nil fields are
// left untouched on the server. ListID and SwimlaneID move the card.
type CardEdit struct {
	Title        *string
	ListID       *string
	AuthorID     *string
	Description  *string
	Color        *string
	LabelIDs     []string
	RequestedBy  *string
	AssignedBy   *string
	ReceivedAt   *time.Time
	StartAt      *time.Time
	DueAt        *time.Time
	EndAt        *time.Time
	SpentTime    *float64
	IsOvertime   *bool
	CustomFields any
	Members      []string
	SwimlaneID   *string
}

func (e CardEdit) payload() map[string]any {
	payload := map[string]any{}
	if e.Title != nil {
		payload["title"] = *e.Title
	}
	if e.ListID != nil {
		payload["listId"] = *e.ListID
	}
	if e.AuthorID != nil {
		payload["authorId"] = *e.AuthorID
	}
	if e.Description != nil {
		payload["description"] = *e.Description
	}
	if e.Color != nil {
		payload["color"] = *e.Color
	}
	if e.LabelIDs != nil {
		payload["labelIds"] = e.LabelIDs
	}
	if e.RequestedBy != nil {
		payload["requestedBy"] = *e.RequestedBy
	}
	if e.AssignedBy != nil {
		payload["assignedBy"] = *e.AssignedBy
	}
	if e.ReceivedAt != nil {
		payload["receivedAt"] = FormatISODate(*e.ReceivedAt)
	}
	if e.StartAt != nil {
		payload["startAt"] = FormatISODate(*e.StartAt)
	}
	if e.DueAt != nil {
		payload["dueAt"] = FormatISODate(*e.DueAt)
	}
	if e.EndAt != nil {
		payload["endAt"] = FormatISODate(*e.EndAt)
	}
	if e.SpentTime != nil {
		payload["spentTime"] = *e.SpentTime
	}
	if e.IsOvertime != nil {
		payload["isOverTime"] = *e.IsOvertime
	}
	if e.CustomFields != nil {
		payload["customFields"] = e.CustomFields
	}
	if e.Members != nil {
		payload["members"] = e.Members
	}
	if e.SwimlaneID != nil {
		payload["swimlaneId"] = *e.SwimlaneID
	}
	return payload
}

// Edit sends a partial update without resyncing local fields.
func (c *Card) Edit(edit CardEdit) error {
	payload := edit.payload()
	if len(payload) == 0 {
		return nil
	}
	_, err := c.List.Board.client.Request(http.MethodPut, c.path(), payload)
	return err
}

// Update sends a partial update and refetches the card.
func (c *Card) Update(edit CardEdit) error {
	if err := c.Edit(edit); err != nil {
		return err
	}
	return c.Refresh()
}

// MoveToList moves the card to another list of the same board. The proxy
// keeps pointing at the target list afterwards.
func (c *Card) MoveToList(target *List) error {
	id := target.ID
	if err := c.Edit(CardEdit{ListID: &id}); err != nil {
		return err
	}
	c.List = target
	return c.Refresh()
}

// SetDueDate sets the card's due date and refetches.
func (c *Card) SetDueDate(due time.Time) error {
	return c.Update(CardEdit{DueAt: &due})
}

// AssignMember adds a member to the card (no-op when already present)
// and refetches.
func (c *Card) AssignMember(userID string) error {
	members := make([]string, 0, len(c.Members)+1)
	members = append(members, c.Members...)
	present := false
	for _, member := range members {
		if member == userID {
			present = true
			break
		}
	}
	if !present {
		members = append(members, userID)
	}
	return c.Update(CardEdit{Members: members})
}

// Delete removes the card on the server. Some servers answer this with a
// spurious 500; the session manager treats that as success.
func (c *Card) Delete() error {
	_, err := c.List.Board.client.Request(http.MethodDelete, c.path(), nil)
	return err
}
