package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/wekan-cli/internal/config"
	"github.com/bnema/wekan-cli/internal/state"
	"github.com/bnema/wekan-cli/internal/wekan"
)

type app struct {
	config     *config.Config
	httpClient *http.Client
	now        func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	return &app{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}, nil
}

// client opens an authenticated session with the configured server.
// Construction logs in eagerly, so a bad password fails here, not on
// the first request.
func (a *app) client() (*wekan.Client, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	return wekan.NewClient(
		a.config.BaseURL,
		a.config.Username,
		a.config.Password,
		wekan.WithHTTPClient(a.httpClient),
		wekan.WithNow(a.now),
	)
}

func (a *app) stateStore() (*state.Store, error) {
	return state.NewStore()
}

// configPath is where config writes land: the file the settings came
// from, or the home default when only the environment contributed.
func (a *app) configPath() (string, error) {
	if a.config.Path != "" {
		return a.config.Path, nil
	}
	return config.DefaultPath()
}
