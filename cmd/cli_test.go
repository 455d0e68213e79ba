package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wekan-cli/internal/state"
)

// newWekanServer serves a login endpoint plus one private board. The
// mux is returned so tests can add endpoints before first use.
func newWekanServer(t *testing.T) (*http.ServeMux, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		var credentials map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&credentials))
		if credentials["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, "Unauthorized")
			return
		}
		fmt.Fprint(w, `{"id":"user123","token":"tok1","tokenExpires":"2030-01-01T00:00:00.000Z"}`)
	})
	mux.HandleFunc("/api/boards", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/api/users/user123/boards", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"_id":"b1"}]`)
	})
	mux.HandleFunc("/api/boards/b1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"_id": "b1",
			"title": "Roadmap",
			"permission": "private",
			"createdAt": "2024-03-01T10:00:00.000Z",
			"modifiedAt": "2024-03-02T11:30:00.000Z",
			"members": [{"userId":"user123","isAdmin":true,"isActive":true}],
			"labels": [{"_id":"lab1","name":"bug","color":"red"}]
		}`)
	})
	mux.HandleFunc("/api/users/user123", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"_id": "user123",
			"username": "admin",
			"createdAt": "2024-01-01T00:00:00.000Z",
			"modifiedAt": "2024-01-01T00:00:00.000Z",
			"emails": [{"address":"admin@example.com","verified":true}],
			"isAdmin": true
		}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return mux, server
}

func configureEnv(t *testing.T, serverURL string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("WEKAN_BASE_URL", serverURL)
	t.Setenv("WEKAN_USERNAME", "admin")
	t.Setenv("WEKAN_PASSWORD", "hunter2")
	return home
}

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	stdout, _, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestBoardsListRequiresConfiguration(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := executeCLI(t, "boards", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEKAN_BASE_URL")
}

func TestBoardsListTable(t *testing.T) {
	_, server := newWekanServer(t)
	configureEnv(t, server.URL)

	stdout, stderr, err := executeCLI(t, "boards", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Roadmap")
	assert.Contains(t, stdout, "b1")
	assert.Contains(t, stderr, "Fetching boards")
}

func TestBoardsListJSONBypassesSpinner(t *testing.T) {
	_, server := newWekanServer(t)
	configureEnv(t, server.URL)

	stdout, stderr, err := executeCLI(t, "boards", "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, `"title": "Roadmap"`)
	assert.NotContains(t, stderr, "Fetching boards")
}

func TestBoardsShowByTitleSubstring(t *testing.T) {
	_, server := newWekanServer(t)
	configureEnv(t, server.URL)

	stdout, _, err := executeCLI(t, "boards", "show", "road")
	require.NoError(t, err)
	assert.Contains(t, stdout, "id:         b1")
	assert.Contains(t, stdout, "title:      Roadmap")
	assert.Contains(t, stdout, "label:      bug (red)")
}

func TestBoardsShowUnknownIdentifier(t *testing.T) {
	_, server := newWekanServer(t)
	configureEnv(t, server.URL)

	_, _, err := executeCLI(t, "boards", "show", "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no board matches "nonexistent"`)
}

func TestBoardsCreate(t *testing.T) {
	mux, server := newWekanServer(t)
	configureEnv(t, server.URL)

	// The fixture board doubles as the creation result.
	mux.HandleFunc("POST /api/boards", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Roadmap", payload["title"])
		assert.Equal(t, "private", payload["permission"])
		fmt.Fprint(w, `{"_id":"b1"}`)
	})

	stdout, _, err := executeCLI(t, "boards", "create", "Roadmap")
	require.NoError(t, err)
	assert.Contains(t, stdout, `created board "Roadmap" (b1)`)
}

func TestBoardsActivatePersistsContext(t *testing.T) {
	_, server := newWekanServer(t)
	home := configureEnv(t, server.URL)

	stdout, _, err := executeCLI(t, "boards", "activate", "Roadmap")
	require.NoError(t, err)
	assert.Contains(t, stdout, "active board: Roadmap (b1)")

	store, err := state.NewStoreAt(filepath.Join(home, ".wekan", "context.toml"))
	require.NoError(t, err)
	ctx, err := store.ActiveBoard()
	require.NoError(t, err)
	assert.Equal(t, "b1", ctx.BoardID)
	assert.Equal(t, "Roadmap", ctx.BoardTitle)
}

func TestAuthLoginStoresToken(t *testing.T) {
	_, server := newWekanServer(t)
	home := configureEnv(t, server.URL)

	stdout, _, err := executeCLI(t, "auth", "login")
	require.NoError(t, err)
	assert.Contains(t, stdout, "logged in as admin (user123)")
	assert.Contains(t, stdout, "token expires")

	saved, err := os.ReadFile(filepath.Join(home, ".wekan"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "WEKAN_TOKEN=tok1")
}

func TestAuthLoginBadPassword(t *testing.T) {
	_, server := newWekanServer(t)
	configureEnv(t, server.URL)
	t.Setenv("WEKAN_PASSWORD", "wrong")

	_, _, err := executeCLI(t, "auth", "login")
	require.Error(t, err)
}

func TestAuthWhoami(t *testing.T) {
	_, server := newWekanServer(t)
	configureEnv(t, server.URL)

	stdout, _, err := executeCLI(t, "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "username: admin")
	assert.Contains(t, stdout, "email:    admin@example.com")
	assert.Contains(t, stdout, "admin:    true")
}

func TestAuthLogoutWithoutToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	stdout, _, err := executeCLI(t, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "no stored token")
}

func TestAuthLogoutClearsToken(t *testing.T) {
	_, server := newWekanServer(t)
	home := configureEnv(t, server.URL)

	_, _, err := executeCLI(t, "auth", "login")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "token cleared")

	saved, err := os.ReadFile(filepath.Join(home, ".wekan"))
	require.NoError(t, err)
	assert.NotContains(t, string(saved), "WEKAN_TOKEN")
}

func TestConfigInitWritesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	stdout, _, err := executeCLI(t, "config", "init", "https://kanban.example.com", "admin", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote")

	saved, err := os.ReadFile(filepath.Join(home, ".wekan"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "WEKAN_BASE_URL=https://kanban.example.com")
	assert.Contains(t, string(saved), "WEKAN_USERNAME=admin")
	assert.Contains(t, string(saved), "WEKAN_TIMEOUT=30000")
}

func TestConfigShowMasksSecrets(t *testing.T) {
	_, server := newWekanServer(t)
	configureEnv(t, server.URL)

	stdout, _, err := executeCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "username: admin")
	assert.Contains(t, stdout, "password: ********")
	assert.NotContains(t, stdout, "hunter2")
}

func TestConfigSetRequiresAFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := executeCLI(t, "config", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestConfigSetUpdatesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, _, err := executeCLI(t, "config", "init", "https://kanban.example.com", "admin", "hunter2")
	require.NoError(t, err)

	_, _, err = executeCLI(t, "config", "set", "--timeout", "5000")
	require.NoError(t, err)

	saved, err := os.ReadFile(filepath.Join(home, ".wekan"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "WEKAN_TIMEOUT=5000")
}

func TestNavigateSessionFromStdin(t *testing.T) {
	_, server := newWekanServer(t)
	configureEnv(t, server.URL)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(bytes.NewBufferString("pwd\nexit\n"))
	root.SetArgs([]string{"navigate"})

	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "Wekan navigation shell")
	assert.Contains(t, stdout.String(), "exiting")
}
