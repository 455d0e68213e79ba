package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	stateDirName    = ".wekan"
	stateFileName   = "context.toml"
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	tempFilePattern = ".context-*.toml.tmp"

	schemaVersion = 1
)

// ErrNoActiveBoard is returned by ActiveBoard when no board has been
// activated yet.
var ErrNoActiveBoard = errors.New("no active board")

// Context is the persisted CLI context: which board subsequent commands
// operate on by default.
type Context struct {
	BoardID     string
	BoardTitle  string
	ActivatedAt time.Time
}

type fileSchema struct {
	Version int          `toml:"version"`
	Board   *boardSchema `toml:"board,omitempty"`
}

type boardSchema struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	ActivatedAt string `toml:"activated_at"`
}

// Store reads and writes the context file. Writes are atomic: a temp
// file in the same directory is renamed over the target.
type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

// NewStore opens the default store under the user's home directory.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(homeDir, stateDirName, stateFileName))
}

// NewStoreAt opens a store backed by an explicit file path.
func NewStoreAt(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve context path: %w", err)
	}
	absPath = filepath.Clean(absPath)
	return &Store{path: absPath, mu: lockForPath(absPath)}, nil
}

// ActiveBoard returns the persisted board context, or ErrNoActiveBoard
// when none has been saved.
func (s *Store) ActiveBoard() (Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return Context{}, err
	}
	if file.Board == nil || file.Board.ID == "" {
		return Context{}, ErrNoActiveBoard
	}

	activatedAt, _ := time.Parse(time.RFC3339, file.Board.ActivatedAt)
	return Context{
		BoardID:     file.Board.ID,
		BoardTitle:  file.Board.Title,
		ActivatedAt: activatedAt,
	}, nil
}

// SetActiveBoard persists the board context.
func (s *Store) SetActiveBoard(boardID, boardTitle string, activatedAt time.Time) error {
	if boardID == "" {
		return errors.New("board id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.Version = schemaVersion
	file.Board = &boardSchema{
		ID:          boardID,
		Title:       boardTitle,
		ActivatedAt: activatedAt.UTC().Format(time.RFC3339),
	}

	return s.writeSchema(file)
}

// ClearActiveBoard removes the board context, keeping the file.
func (s *Store) ClearActiveBoard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.Version = schemaVersion
	file.Board = nil

	return s.writeSchema(file)
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read context file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode context file: %w", err)
	}
	if file.Version > schemaVersion {
		return fileSchema{}, fmt.Errorf("context file version %d is newer than supported version %d", file.Version, schemaVersion)
	}

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(s.path), stateDirMode); err != nil {
		return fmt.Errorf("create context directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode context file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp context file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp context file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp context file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp context file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace context file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.path, stateFileMode); err != nil {
		return fmt.Errorf("chmod context file: %w", err)
	}

	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
