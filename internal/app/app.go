// Package app wires the MyGuide client components together
package app

import (
	"fmt"

	"github.com/slimenefellah/myguide/internal/auth"
	"github.com/slimenefellah/myguide/internal/chat"
	"github.com/slimenefellah/myguide/internal/clients/myguide"
	"github.com/slimenefellah/myguide/internal/common"
	"github.com/slimenefellah/myguide/internal/credstore"
	"github.com/slimenefellah/myguide/internal/guard"
	"github.com/slimenefellah/myguide/internal/interfaces"
)

// App holds all initialized components
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Client      *myguide.Client
	Credentials *credstore.Store
	Auth        *auth.Manager
	Guard       *guard.Guard
	Chat        *chat.Manager
}

// NewApp initializes the client stack from configuration.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	backend, err := newStorageBackend(config)
	if err != nil {
		return nil, err
	}

	store, err := credstore.NewStore(backend, credstore.WithLogger(logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	client := myguide.NewClient(
		myguide.WithBaseURL(config.API.BaseURL),
		myguide.WithRateLimit(config.API.RateLimit),
		myguide.WithTimeout(config.API.GetTimeout()),
		myguide.WithLogger(logger),
	)

	authManager := auth.NewManager(client, store,
		auth.WithLogger(logger),
		auth.WithRefreshTimeout(config.Auth.GetRefreshTimeout()),
	)

	return &App{
		Config:      config,
		Logger:      logger,
		Client:      client,
		Credentials: store,
		Auth:        authManager,
		Guard:       guard.NewGuard(authManager, guard.WithLogger(logger)),
		Chat:        chat.NewManager(client, authManager, chat.WithLogger(logger)),
	}, nil
}

// newStorageBackend selects the credential persistence layer.
func newStorageBackend(config *common.Config) (interfaces.CredentialStorage, error) {
	switch config.Storage.Backend {
	case "keyring":
		return credstore.NewKeyringStorage(config.Storage.Service), nil
	case "memory":
		return credstore.NewMemoryStorage(), nil
	case "", "file":
		return credstore.NewFileStorage(config.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
}

// Close releases held resources.
func (a *App) Close() error {
	return a.Credentials.Close()
}
