package wekan

import (
	"fmt"
	"net/http"
	"time"
)

// Comment is a proxy for one comment on a card.
type Comment struct {
	Card *Card

	ID         string
	Text       string
	AuthorID   string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

type commentPayload struct {
	Text       string `json:"text"`
	UserID     string `json:"userId"`
	CreatedAt  string `json:"createdAt"`
	ModifiedAt string `json:"modifiedAt"`
}

// Comment fetches one comment of the card.
func (c *Card) Comment(commentID string) (*Comment, error) {
	cm := &Comment{Card: c, ID: commentID}
	if err := cm.Refresh(); err != nil {
		return nil, err
	}
	return cm, nil
}

// Comments returns all comments of the card.
func (c *Card) Comments() ([]*Comment, error) {
	body, err := c.List.Board.client.Request(http.MethodGet, c.shortPath()+"/comments", nil)
	if err != nil {
		return nil, err
	}
	ids, err := idsFromList(body)
	if err != nil {
		return nil, err
	}

	comments := make([]*Comment, 0, len(ids))
	for _, id := range ids {
		comment, err := c.Comment(id)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// AddComment posts a comment authored by the authenticated user and
// returns its proxy.
func (c *Card) AddComment(text string) (*Comment, error) {
	payload := map[string]any{
		"authorId": c.List.Board.client.userID,
		"comment":  text,
	}
	body, err := c.List.Board.client.Request(http.MethodPost, c.shortPath()+"/comments", payload)
	if err != nil {
		return nil, err
	}
	id, err := idFromResponse(body)
	if err != nil {
		return nil, err
	}
	return c.Comment(id)
}

// Refresh refetches the comment representation.
func (cm *Comment) Refresh() error {
	var payload commentPayload
	if err := cm.Card.List.Board.client.get(cm.path(), &payload); err != nil {
		return err
	}

	if err := requireString("comment", cm.ID, "text", payload.Text); err != nil {
		return err
	}
	createdAt, err := parseRequiredDate("comment", cm.ID, "createdAt", payload.CreatedAt)
	if err != nil {
		return err
	}
	modifiedAt, err := parseRequiredDate("comment", cm.ID, "modifiedAt", payload.ModifiedAt)
	if err != nil {
		return err
	}

	cm.Text = payload.Text
	cm.AuthorID = payload.UserID
	cm.CreatedAt = createdAt
	cm.ModifiedAt = modifiedAt
	return nil
}

// Equal reports whether both proxies name the same server-side comment.
func (cm *Comment) Equal(other *Comment) bool {
	return other != nil && cm.ID == other.ID
}

func (cm *Comment) path() string {
	return fmt.Sprintf("%s/comments/%s", cm.Card.shortPath(), cm.ID)
}

// Delete removes the comment on the server.
func (cm *Comment) Delete() error {
	_, err := cm.Card.List.Board.client.Request(http.MethodDelete, cm.path(), nil)
	return err
}
