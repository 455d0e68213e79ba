package wekan

import (
	"fmt"
	"net/http"
	"time"
)

// Swimlane is a proxy for one swimlane of a board. Swimlanes group cards
// orthogonally to lists.
type Swimlane struct {
	Board *Board

	ID        string
	Title     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Sort      *float64
	Color     string
	Type      string
}

type swimlanePayload struct {
	Title     string   `json:"title"`
	Archived  bool     `json:"archived"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	Sort      *float64 `json:"sort"`
	Color     string   `json:"color"`
	Type      string   `json:"type"`
}

// Swimlane fetches one swimlane of the board.
func (b *Board) Swimlane(swimlaneID string) (*Swimlane, error) {
	s := &Swimlane{Board: b, ID: swimlaneID}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Swimlanes returns the board's swimlanes whose title matches the filter
// pattern.
func (b *Board) Swimlanes(titleFilter string) ([]*Swimlane, error) {
	re, err := compileFilter(titleFilter)
	if err != nil {
		return nil, err
	}

	body, err := b.client.Request(http.MethodGet, b.path()+"/swimlanes", nil)
	if err != nil {
		return nil, err
	}
	ids, err := idsFromList(body)
	if err != nil {
		return nil, err
	}

	swimlanes := make([]*Swimlane, 0, len(ids))
	for _, id := range ids {
		swimlane, err := b.Swimlane(id)
		if err != nil {
			return nil, err
		}
		if re.MatchString(swimlane.Title) {
			swimlanes = append(swimlanes, swimlane)
		}
	}
	return swimlanes, nil
}

// Refresh refetches the swimlane representation. Servers that predate the
// updatedAt field fall back to createdAt, matching what they show in the
// UI.
func (s *Swimlane) Refresh() error {
	var payload swimlanePayload
	if err := s.Board.client.get(s.path(), &payload); err != nil {
		return err
	}

	if err := requireString("swimlane", s.ID, "title", payload.Title); err != nil {
		return err
	}
	createdAt, err := parseRequiredDate("swimlane", s.ID, "createdAt", payload.CreatedAt)
	if err != nil {
		return err
	}
	updatedAt := createdAt
	if payload.UpdatedAt != "" {
		updatedAt, err = parseRequiredDate("swimlane", s.ID, "updatedAt", payload.UpdatedAt)
		if err != nil {
			return err
		}
	}

	s.Title = payload.Title
	s.Archived = payload.Archived
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt
	s.Sort = payload.Sort
	s.Color = payload.Color
	s.Type = payload.Type
	return nil
}

// Equal reports whether both proxies name the same server-side swimlane.
func (s *Swimlane) Equal(other *Swimlane) bool {
	return other != nil && s.ID == other.ID
}

func (s *Swimlane) path() string {
	return fmt.Sprintf("%s/swimlanes/%s", s.Board.path(), s.ID)
}

// Delete removes the swimlane on the server.
func (s *Swimlane) Delete() error {
	_, err := s.Board.client.Request(http.MethodDelete, s.path(), nil)
	return err
}
