package wekan

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testUserID = "user123"
	testToken  = "tok1"
	testExpiry = "2030-01-01T00:00:00.000Z"
)

// registerLogin serves the login endpoint with a fixed token triple and
// counts how often it is hit.
func registerLogin(t *testing.T, mux *http.ServeMux, logins *int) {
	t.Helper()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var credentials map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&credentials))
		if credentials["username"] != "u" || credentials["password"] != "p" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, "Unauthorized")
			return
		}
		if logins != nil {
			*logins++
		}
		fmt.Fprintf(w, `{"id":%q,"token":%q,"tokenExpires":%q}`, testUserID, testToken, testExpiry)
	})
}

// newTestClient spins up a mock server around mux (registering the login
// endpoint) and returns a logged-in client. Fixtures are explicit and
// per-test; nothing is shared across test functions.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	registerLogin(t, mux, nil)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "u", "p")
	require.NoError(t, err)
	return client
}

func serveJSON(t *testing.T, mux *http.ServeMux, path, body string) {
	t.Helper()
	mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	})
}

func boardFixture(title string) string {
	return fmt.Sprintf(`{
		"_id": "b1",
		"title": %q,
		"slug": "test-board",
		"archived": false,
		"stars": 0,
		"members": [{"userId":"user123","isAdmin":true,"isActive":true}],
		"createdAt": "2024-03-01T10:00:00.000Z",
		"modifiedAt": "2024-03-02T11:30:00.000Z",
		"permission": "private",
		"color": "belize",
		"type": "board",
		"sort": 1,
		"labels": [
			{"_id":"lab1","name":"bug","color":"red"},
			{"_id":"lab2","name":"feature","color":"green"}
		],
		"allowsComments": true,
		"allowsChecklists": true
	}`, title)
}

func listFixture(title string) string {
	return fmt.Sprintf(`{
		"_id": "l1",
		"title": %q,
		"archived": false,
		"swimlaneId": "",
		"createdAt": "2024-03-01T10:05:00.000Z",
		"updatedAt": "2024-03-01T10:05:00.000Z",
		"sort": 0,
		"wipLimit": {"value": 5, "enabled": false, "soft": false},
		"color": "silver"
	}`, title)
}

func cardFixture(title, extra string) string {
	return fmt.Sprintf(`{
		"_id": "c1",
		"title": %q,
		"description": "do the thing",
		"members": ["user123"],
		"labelIds": ["lab1"],
		"customFields": [],
		"sort": 0,
		"swimlaneId": "sw1",
		"cardNumber": 7,
		"archived": false,
		"parentId": "",
		"createdAt": "2024-03-01T10:10:00.000Z",
		"modifiedAt": "2024-03-01T10:10:00.000Z",
		"dateLastActivity": "2024-03-01T10:10:00.000Z",
		"requestedBy": "",
		"assignedBy": "",
		"assignees": [],
		"spentTime": 0,
		"isOvertime": false,
		"subtaskSort": -1,
		"linkedId": ""%s
	}`, title, extra)
}

func mustParseISO(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := ParseISODate(value)
	require.NoError(t, err)
	return parsed
}
