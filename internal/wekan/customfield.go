package wekan

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// CustomField is a proxy for one custom field definition of a board.
type CustomField struct {
	Board *Board

	ID                  string
	Name                string
	Type                string
	BoardIDs            []string
	Settings            json.RawMessage
	ShowOnCard          bool
	AutomaticallyOnCard bool
	ShowLabelOnMiniCard bool
}

type customFieldPayload struct {
	Name                string          `json:"name"`
	Type                string          `json:"type"`
	BoardIDs            []string        `json:"boardIds"`
	Settings            json.RawMessage `json:"settings"`
	ShowOnCard          bool            `json:"showOnCard"`
	AutomaticallyOnCard bool            `json:"automaticallyOnCard"`
	ShowLabelOnMiniCard bool            `json:"showLabelOnMiniCard"`
}

// customFieldTypes is the whitelist the server accepts for new fields.
var customFieldTypes = map[string]bool{
	"text":           true,
	"number":         true,
	"date":           true,
	"dropdown":       true,
	"currency":       true,
	"checkbox":       true,
	"stringtemplate": true,
}

// CustomField fetches one custom field definition of the board.
func (b *Board) CustomField(customFieldID string) (*CustomField, error) {
	f := &CustomField{Board: b, ID: customFieldID}
	if err := f.Refresh(); err != nil {
		return nil, err
	}
	return f, nil
}

// CustomFields returns the board's custom fields whose name matches the
// filter pattern.
func (b *Board) CustomFields(nameFilter string) ([]*CustomField, error) {
	re, err := compileFilter(nameFilter)
	if err != nil {
		return nil, err
	}

	body, err := b.client.Request(http.MethodGet, b.path()+"/custom-fields", nil)
	if err != nil {
		return nil, err
	}
	ids, err := idsFromList(body)
	if err != nil {
		return nil, err
	}

	fields := make([]*CustomField, 0, len(ids))
	for _, id := range ids {
		field, err := b.CustomField(id)
		if err != nil {
			return nil, err
		}
		if re.MatchString(field.Name) {
			fields = append(fields, field)
		}
	}
	return fields, nil
}

// NewCustomField is the creation payload for CreateCustomField.
// ShowSumAtTopOfList only applies to currency fields; the server rejects
// it elsewhere, so it is dropped for any other type.
type NewCustomField struct {
	Name                string
	Type                string
	Settings            any
	ShowOnCard          bool
	AutomaticallyOnCard bool
	ShowLabelOnMiniCard bool
	ShowSumAtTopOfList  bool
}

// CreateCustomField creates a custom field on the board and returns its
// proxy.
func (b *Board) CreateCustomField(f NewCustomField) (*CustomField, error) {
	if !customFieldTypes[f.Type] {
		return nil, fmt.Errorf("unsupported custom field type %q", f.Type)
	}
	showSum := f.ShowSumAtTopOfList && f.Type == "currency"
	settings := f.Settings
	if settings == nil {
		settings = map[string]any{}
	}

	payload := map[string]any{
		"name":                f.Name,
		"type":                f.Type,
		"settings":            settings,
		"showOnCard":          f.ShowOnCard,
		"automaticallyOnCard": f.AutomaticallyOnCard,
		"showLabelOnMiniCard": f.ShowLabelOnMiniCard,
		"showSumAtTopOfList":  showSum,
	}
	body, err := b.client.Request(http.MethodPost, b.path()+"/custom-fields", payload)
	if err != nil {
		return nil, err
	}
	id, err := idFromResponse(body)
	if err != nil {
		return nil, err
	}
	return b.CustomField(id)
}

// Refresh refetches the custom field representation.
func (f *CustomField) Refresh() error {
	var payload customFieldPayload
	if err := f.Board.client.get(f.path(), &payload); err != nil {
		return err
	}

	if err := requireString("custom field", f.ID, "name", payload.Name); err != nil {
		return err
	}

	f.Name = payload.Name
	f.Type = payload.Type
	f.BoardIDs = payload.BoardIDs
	f.Settings = payload.Settings
	f.ShowOnCard = payload.ShowOnCard
	f.AutomaticallyOnCard = payload.AutomaticallyOnCard
	f.ShowLabelOnMiniCard = payload.ShowLabelOnMiniCard
	return nil
}

// Equal reports whether both proxies name the same server-side field.
func (f *CustomField) Equal(other *CustomField) bool {
	return other != nil && f.ID == other.ID
}

func (f *CustomField) path() string {
	return fmt.Sprintf("%s/custom-fields/%s", f.Board.path(), f.ID)
}

// Edit sends a raw partial update; the custom-field endpoint accepts
// arbitrary changed fields.
func (f *CustomField) Edit(changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	_, err := f.Board.client.Request(http.MethodPut, f.path(), changes)
	return err
}

// Delete removes the custom field on the server.
func (f *CustomField) Delete() error {
	_, err := f.Board.client.Request(http.MethodDelete, f.path(), nil)
	return err
}
