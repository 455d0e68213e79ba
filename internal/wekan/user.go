package wekan

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// User is a proxy for one user account on the server.
type User struct {
	client *Client

	ID                   string
	Username             string
	CreatedAt            time.Time
	ModifiedAt           time.Time
	Services             json.RawMessage
	Emails               []UserEmail
	Profile              json.RawMessage
	AuthenticationMethod string
	SessionData          json.RawMessage
	ImportUsernames      []string
	Orgs                 []json.RawMessage
	Teams                []json.RawMessage
	Boards               []string
	IsAdmin              bool
}

// UserEmail is one address entry of a user's email list.
type UserEmail struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

type userPayload struct {
	Username             string            `json:"username"`
	CreatedAt            string            `json:"createdAt"`
	ModifiedAt           string            `json:"modifiedAt"`
	Services             json.RawMessage   `json:"services"`
	Emails               []UserEmail       `json:"emails"`
	Profile              json.RawMessage   `json:"profile"`
	AuthenticationMethod string            `json:"authenticationMethod"`
	SessionData          json.RawMessage   `json:"sessionData"`
	ImportUsernames      []string          `json:"importUsernames"`
	Orgs                 []json.RawMessage `json:"orgs"`
	Teams                []json.RawMessage `json:"teams"`
	Boards               []string          `json:"boards"`
	IsAdmin              bool              `json:"isAdmin"`
}

// userActions is the whitelist the edit endpoint accepts.
var userActions = map[string]bool{
	"takeOwnership": true,
	"disableLogin":  true,
	"enableLogin":   true,
}

// User fetches one user. Only admins can fetch users other than
// themselves.
func (c *Client) User(userID string) (*User, error) {
	u := &User{client: c, ID: userID}
	if err := u.Refresh(); err != nil {
		return nil, err
	}
	return u, nil
}

// CurrentUser fetches the authenticated user.
func (c *Client) CurrentUser() (*User, error) {
	return c.User(c.userID)
}

// Users lists all users whose username matches the filter pattern. The
// endpoint is admin-only.
func (c *Client) Users(usernameFilter string) ([]*User, error) {
	re, err := compileFilter(usernameFilter)
	if err != nil {
		return nil, err
	}

	body, err := c.Request(http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}
	ids, err := idsFromList(body)
	if err != nil {
		return nil, err
	}

	users := make([]*User, 0, len(ids))
	for _, id := range ids {
		user, err := c.User(id)
		if err != nil {
			return nil, err
		}
		if re.MatchString(user.Username) {
			users = append(users, user)
		}
	}
	return users, nil
}

// FindUser looks a user up by exact username or by email address. Either
// argument may be empty, but not both. Returns nil when nobody matches.
func (c *Client) FindUser(username, email string) (*User, error) {
	if username == "" && email == "" {
		return nil, fmt.Errorf("either username or email must be provided")
	}

	users, err := c.Users("")
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if username != "" && user.Username == username {
			return user, nil
		}
		if email != "" {
			for _, entry := range user.Emails {
				if entry.Address == email {
					return user, nil
				}
			}
		}
	}
	return nil, nil
}

// AddUser creates a user account and returns its proxy. A duplicate
// username surfaces as a ConflictError.
func (c *Client) AddUser(username, email, password string) (*User, error) {
	payload := map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}
	body, err := c.Request(http.MethodPost, "/api/users", payload)
	if err != nil {
		return nil, err
	}
	id, err := idFromResponse(body)
	if err != nil {
		return nil, err
	}
	return c.User(id)
}

// Refresh refetches the user representation.
func (u *User) Refresh() error {
	var payload userPayload
	if err := u.client.get(u.path(), &payload); err != nil {
		return err
	}

	if err := requireString("user", u.ID, "username", payload.Username); err != nil {
		return err
	}
	createdAt, err := parseRequiredDate("user", u.ID, "createdAt", payload.CreatedAt)
	if err != nil {
		return err
	}
	modifiedAt, err := parseRequiredDate("user", u.ID, "modifiedAt", payload.ModifiedAt)
	if err != nil {
		return err
	}

	u.Username = payload.Username
	u.CreatedAt = createdAt
	u.ModifiedAt = modifiedAt
	u.Services = payload.Services
	u.Emails = payload.Emails
	u.Profile = payload.Profile
	u.AuthenticationMethod = payload.AuthenticationMethod
	u.SessionData = payload.SessionData
	u.ImportUsernames = payload.ImportUsernames
	u.Orgs = payload.Orgs
	u.Teams = payload.Teams
	u.Boards = payload.Boards
	u.IsAdmin = payload.IsAdmin
	return nil
}

// Equal reports whether both proxies name the same server-side user.
func (u *User) Equal(other *User) bool {
	return other != nil && u.ID == other.ID
}

func (u *User) path() string {
	return fmt.Sprintf("/api/users/%s", u.ID)
}

// Edit applies one of the admin actions the edit endpoint supports:
// takeOwnership, disableLogin or enableLogin.
func (u *User) Edit(action string) error {
	if !userActions[action] {
		return fmt.Errorf("unsupported user action %q", action)
	}
	_, err := u.client.Request(http.MethodPut, u.path(), map[string]any{"action": action})
	return err
}

// Delete removes the user account on the server.
func (u *User) Delete() error {
	_, err := u.client.Request(http.MethodDelete, u.path(), nil)
	return err
}
