package wekan

// Label is a proxy for one label of a board. Labels have no standalone
// endpoint; they are embedded in the board payload and snapshotted with
// it. The API offers no label create, edit or delete.
type Label struct {
	Board *Board

	ID    string
	Name  string
	Color string
}

type labelPayload struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Labels returns the board's labels (as of the board's last fetch) whose
// name matches the filter pattern.
func (b *Board) Labels(nameFilter string) ([]*Label, error) {
	re, err := compileFilter(nameFilter)
	if err != nil {
		return nil, err
	}

	labels := make([]*Label, 0, len(b.labels))
	for _, label := range b.labels {
		if !re.MatchString(label.Name) {
			continue
		}
		labels = append(labels, &Label{
			Board: b,
			ID:    label.ID,
			Name:  label.Name,
			Color: label.Color,
		})
	}
	return labels, nil
}

// Equal reports whether both proxies name the same server-side label.
func (l *Label) Equal(other *Label) bool {
	return other != nil && l.ID == other.ID
}
