package wekan

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swimlaneBody(id, title, extra string) string {
	return fmt.Sprintf(`{
		"_id": %q,
		"title": %q,
		"archived": false,
		"createdAt": "2024-03-01T10:00:00.000Z",
		"color": "nephritis",
		"type": "swimlane"%s
	}`, id, title, extra)
}

func TestSwimlanes(t *testing.T) {
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Board"))
	serveJSON(t, mux, "/api/boards/b1/swimlanes", `[{"_id":"sw1"},{"_id":"sw2"}]`)
	serveJSON(t, mux, "/api/boards/b1/swimlanes/sw1", swimlaneBody("sw1", "Default", `, "updatedAt": "2024-03-05T09:00:00.000Z"`))
	serveJSON(t, mux, "/api/boards/b1/swimlanes/sw2", swimlaneBody("sw2", "Urgent", `, "sort": 2`))
	client := newTestClient(t, mux)

	board, err := client.Board("b1")
	require.NoError(t, err)

	all, err := board.Swimlanes("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Default", all[0].Title)
	assert.Equal(t, "nephritis", all[0].Color)

	urgent, err := board.Swimlanes("Urg")
	require.NoError(t, err)
	require.Len(t, urgent, 1)
	assert.Equal(t, "sw2", urgent[0].ID)
	require.NotNil(t, urgent[0].Sort)
	assert.Equal(t, 2.0, *urgent[0].Sort)
}

func TestSwimlaneUpdatedAtFallsBackToCreatedAt(t *testing.T) {
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Board"))
	serveJSON(t, mux, "/api/boards/b1/swimlanes/sw1", swimlaneBody("sw1", "Default", ""))
	client := newTestClient(t, mux)

	board, err := client.Board("b1")
	require.NoError(t, err)
	swimlane, err := board.Swimlane("sw1")
	require.NoError(t, err)

	assert.Equal(t, swimlane.CreatedAt, swimlane.UpdatedAt)
	assert.Equal(t, mustParseISO(t, "2024-03-01T10:00:00.000Z"), swimlane.UpdatedAt)
}

func TestSwimlaneMissingTitle(t *testing.T) {
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Board"))
	serveJSON(t, mux, "/api/boards/b1/swimlanes/sw1", `{"_id":"sw1","createdAt":"2024-03-01T10:00:00.000Z"}`)
	client := newTestClient(t, mux)

	board, err := client.Board("b1")
	require.NoError(t, err)
	_, err = board.Swimlane("sw1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestSwimlaneDelete(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Board"))
	mux.HandleFunc("/api/boards/b1/swimlanes/sw1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = true
			fmt.Fprint(w, `{"_id":"sw1"}`)
			return
		}
		fmt.Fprint(w, swimlaneBody("sw1", "Default", ""))
	})
	client := newTestClient(t, mux)

	board, err := client.Board("b1")
	require.NoError(t, err)
	swimlane, err := board.Swimlane("sw1")
	require.NoError(t, err)

	require.NoError(t, swimlane.Delete())
	assert.True(t, deleted)
}
