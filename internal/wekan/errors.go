package wekan

import "fmt"

// APIError is the generic failure for any non-2xx response that does not
// map to a more specific type, and for 2xx responses whose body cannot be
// decoded as JSON.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("wekan: api error: %s", e.Message)
	}
	return fmt.Sprintf("wekan: api error (status %d): %s", e.StatusCode, e.Message)
}

// AuthenticationError is returned for HTTP 401, most commonly during login.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("wekan: authentication failed: %s", e.Message)
}

// NotFoundError is returned for HTTP 404.
type NotFoundError struct {
	StatusCode int
	Message    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("wekan: resource not found: %s", e.Message)
}

// ConflictError is returned when a non-2xx JSON body carries a known
// conflict reason, such as creating a user whose username already exists.
type ConflictError struct {
	StatusCode int
	Reason     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("wekan: conflict: %s", e.Reason)
}
