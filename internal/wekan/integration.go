package wekan

import (
	"fmt"
	"net/http"
	"time"
)

// Integration is a proxy for one outgoing webhook integration of a board.
type Integration struct {
	Board *Board

	ID         string
	Title      string
	URL        string
	Enabled    bool
	UserID     string
	Activities []string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

type integrationPayload struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Enabled    bool     `json:"enabled"`
	UserID     string   `json:"userId"`
	Activities []string `json:"activities"`
	CreatedAt  string   `json:"createdAt"`
	ModifiedAt string   `json:"modifiedAt"`
}

// Integration fetches one integration of the board.
func (b *Board) Integration(integrationID string) (*Integration, error) {
	i := &Integration{Board: b, ID: integrationID}
	if err := i.Refresh(); err != nil {
		return nil, err
	}
	return i, nil
}

// Integrations returns the board's integrations whose title matches the
// filter pattern.
func (b *Board) Integrations(titleFilter string) ([]*Integration, error) {
	re, err := compileFilter(titleFilter)
	if err != nil {
		return nil, err
	}

	body, err := b.client.Request(http.MethodGet, b.path()+"/integrations", nil)
	if err != nil {
		return nil, err
	}
	ids, err := idsFromList(body)
	if err != nil {
		return nil, err
	}

	integrations := make([]*Integration, 0, len(ids))
	for _, id := range ids {
		integration, err := b.Integration(id)
		if err != nil {
			return nil, err
		}
		if re.MatchString(integration.Title) {
			integrations = append(integrations, integration)
		}
	}
	return integrations, nil
}

// Refresh refetches the integration representation. Title is optional:
// integrations created through the UI may not carry one.
func (i *Integration) Refresh() error {
	var payload integrationPayload
	if err := i.Board.client.get(i.path(), &payload); err != nil {
		return err
	}

	if err := requireString("integration", i.ID, "url", payload.URL); err != nil {
		return err
	}
	createdAt, err := parseRequiredDate("integration", i.ID, "createdAt", payload.CreatedAt)
	if err != nil {
		return err
	}
	modifiedAt, err := parseRequiredDate("integration", i.ID, "modifiedAt", payload.ModifiedAt)
	if err != nil {
		return err
	}

	i.Title = payload.Title
	i.URL = payload.URL
	i.Enabled = payload.Enabled
	i.UserID = payload.UserID
	i.Activities = payload.Activities
	i.CreatedAt = createdAt
	i.ModifiedAt = modifiedAt
	return nil
}

// Equal reports whether both proxies name the same server-side
// integration.
func (i *Integration) Equal(other *Integration) bool {
	return other != nil && i.ID == other.ID
}

func (i *Integration) path() string {
	return fmt.Sprintf("%s/integrations/%s", i.Board.path(), i.ID)
}

// IntegrationEdit carries a partial integration update.
type IntegrationEdit struct {
	Enabled    *bool
	Title      *string
	URL        *string
	Token      *string
	Activities []string
}

// Edit sends a partial update without resyncing local fields.
func (i *Integration) Edit(edit IntegrationEdit) error {
	payload := map[string]any{}
	if edit.Enabled != nil {
		payload["enabled"] = *edit.Enabled
	}
	if edit.Title != nil {
		payload["title"] = *edit.Title
	}
	if edit.URL != nil {
		payload["url"] = *edit.URL
	}
	if edit.Token != nil {
		payload["token"] = *edit.Token
	}
	if edit.Activities != nil {
		payload["activities"] = edit.Activities
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := i.Board.client.Request(http.MethodPut, i.path(), payload)
	return err
}

// SetEnabled toggles the integration and updates the local flag.
func (i *Integration) SetEnabled(enabled bool) error {
	if err := i.Edit(IntegrationEdit{Enabled: &enabled}); err != nil {
		return err
	}
	i.Enabled = enabled
	return nil
}

// AddActivities subscribes the integration to additional activities.
func (i *Integration) AddActivities(activities []string) error {
	payload := map[string]any{"activities": activities}
	_, err := i.Board.client.Request(http.MethodPost, i.path()+"/activities", payload)
	return err
}

// DeleteActivities unsubscribes the integration from activities.
func (i *Integration) DeleteActivities(activities []string) error {
	payload := map[string]any{"activities": activities}
	_, err := i.Board.client.Request(http.MethodDelete, i.path()+"/activities", payload)
	return err
}

// Delete removes the integration on the server.
func (i *Integration) Delete() error {
	_, err := i.Board.client.Request(http.MethodDelete, i.path(), nil)
	return err
}
