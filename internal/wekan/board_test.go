package wekan

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardFetchPopulatesFields(t *testing.T) {
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Test Board"))
	client := newTestClient(t, mux)

	board, err := client.Board("b1")
	require.NoError(t, err)

	assert.Equal(t, "b1", board.ID)
	assert.Equal(t, "Test Board", board.Title)
	assert.Equal(t, "test-board", board.Slug)
	assert.Equal(t, "private", board.Permission)
	assert.Equal(t, "belize", board.Color)
	assert.Equal(t, mustParseISO(t, "2024-03-01T10:00:00.000Z"), board.CreatedAt)
	assert.Equal(t, mustParseISO(t, "2024-03-02T11:30:00.000Z"), board.ModifiedAt)
	assert.True(t, board.AllowsComments)
	require.Len(t, board.Members, 1)
	assert.Equal(t, "user123", board.Members[0].UserID)
	assert.True(t, board.Members[0].IsAdmin)
}

func TestBoardMissingTitleFails(t *testing.T) {
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", `{"_id":"b1","createdAt":"2024-03-01T10:00:00.000Z","modifiedAt":"2024-03-01T10:00:00.000Z"}`)
	client := newTestClient(t, mux)

	_, err := client.Board("b1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, `missing required field "title"`)
}

func TestBoardUpdateRefetches(t *testing.T) {
	title := "Old"
	mux := http.NewServeMux()
	mux.HandleFunc("/api/boards/b1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			title = payload["title"].(string)
			fmt.Fprint(w, `{}`)
		case http.MethodGet:
			fmt.Fprint(w, boardFixture(title))
		}
	})
	client := newTestClient(t, mux)

	board, err := client.Board("b1")
	require.NoError(t, err)
	require.Equal(t, "Old", board.Title)

	newTitle := "New"
	require.NoError(t, board.Update(BoardEdit{Title: &newTitle}))
	assert.Equal(t, "New", board.Title)
}

func TestBoardEditWithoutChangesIsNoop(t *testing.T) {
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Board"))
	client := newTestClient(t, mux)

	board, err := client.Board("b1")
	require.NoError(t, err)

	// No PUT handler is registered; an empty edit must not hit the server.
	require.NoError(t, board.Edit(BoardEdit{}))
}

func TestBoardsListsPublicAndUserBoards(t *testing.T) {
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards", `[{"_id":"b1"}]`)
	serveJSON(t, mux, "/api/users/user123/boards", `[{"_id":"b2"}]`)
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Public Board"))
	serveJSON(t, mux, "/api/boards/b2", boardFixture("My Board"))
	client := newTestClient(t, mux)

	boards, err := client.Boards("")
	require.NoError(t, err)
	require.Len(t, boards, 2)

	filtered, err := client.Boards("My")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "My Board", filtered[0].Title)
}

func TestAddBoardDefaultsOwnerAndPermission(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/boards", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "user123", payload["owner"])
		assert.Equal(t, "private", payload["permission"])
		assert.Equal(t, "Fresh", payload["title"])
		fmt.Fprint(w, `{"_id":"b9"}`)
	})
	serveJSON(t, mux, "/api/boards/b9", boardFixture("Fresh"))
	client := newTestClient(t, mux)

	board, err := client.AddBoard(NewBoard{Title: "Fresh", Color: "belize", IsAdmin: true, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "Fresh", board.Title)
}

func TestBoardLabelsFromSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Board"))
	client := newTestClient(t, mux)

	board, err := client.Board("b1")
	require.NoError(t, err)

	labels, err := board.Labels("")
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "bug", labels[0].Name)
	assert.Equal(t, "red", labels[0].Color)

	bugs, err := board.Labels("^bug$")
	require.NoError(t, err)
	require.Len(t, bugs, 1)
	assert.True(t, bugs[0].Equal(labels[0]))
}

func TestBoardMemberManagement(t *testing.T) {
	var actions []string
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Board"))
	mux.HandleFunc("/api/boards/b1/members/u2/add", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "add", payload["action"])
		assert.Equal(t, true, payload["isAdmin"])
		actions = append(actions, "add")
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/api/boards/b1/members/u2/remove", func(w http.ResponseWriter, r *http.Request) {
		actions = append(actions, "remove")
		fmt.Fprint(w, `{}`)
	})
	client := newTestClient(t, mux)

	board, err := client.Board("b1")
	require.NoError(t, err)

	require.NoError(t, board.AddMember("u2", true, false, false))
	require.NoError(t, board.RemoveMember("u2"))
	assert.Equal(t, []string{"add", "remove"}, actions)
}

func TestBoardEquality(t *testing.T) {
	mux := http.NewServeMux()
	serveJSON(t, mux, "/api/boards/b1", boardFixture("Board"))
	client := newTestClient(t, mux)

	first, err := client.Board("b1")
	require.NoError(t, err)
	second, err := client.Board("b1")
	require.NoError(t, err)

	// Identity is the server ID, not snapshot content.
	second.Title = "locally stale"
	assert.True(t, first.Equal(second))
	assert.False(t, first.Equal(nil))
}
