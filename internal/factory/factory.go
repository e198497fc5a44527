package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/sanghyxuk/number-baseball/internal/broadcast"
	"github.com/sanghyxuk/number-baseball/internal/dependencies/clock"
	"github.com/sanghyxuk/number-baseball/internal/dependencies/random"
	"github.com/sanghyxuk/number-baseball/internal/judge"
	"github.com/sanghyxuk/number-baseball/internal/model"
	"github.com/sanghyxuk/number-baseball/internal/services/connection"
	"github.com/sanghyxuk/number-baseball/internal/services/game"
	"github.com/sanghyxuk/number-baseball/internal/services/room"
	"github.com/sanghyxuk/number-baseball/internal/services/session"
	"github.com/sanghyxuk/number-baseball/internal/storage"
	"github.com/sanghyxuk/number-baseball/internal/storage/memory"
	redisstorage "github.com/sanghyxuk/number-baseball/internal/storage/redis"
	"github.com/sanghyxuk/number-baseball/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Judge          *judge.Service
	SessionService *session.Service
	Registry       *room.Registry
	GameService    *game.Service
	Tracker        *connection.Tracker
	Hub            *ws.Hub
	WSHandler      *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// GracePeriod overrides the reconnection window (optional)
	GracePeriod time.Duration
	// InactivityTimeout overrides the idle room eviction threshold (optional)
	InactivityTimeout time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	hub := ws.NewHub(clk, logger)
	app := newWithDependencies(store, clk, rnd, hub, hub, logger)

	if cfg.GracePeriod > 0 {
		app.Tracker.SetGracePeriod(cfg.GracePeriod)
	}
	if cfg.InactivityTimeout > 0 {
		app.Registry.SetInactivityTimeout(cfg.InactivityTimeout)
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies
// (useful for testing). hub may be nil when no websocket transport is
// attached.
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	gateway broadcast.Gateway,
	hub *ws.Hub,
	logger *slog.Logger,
) *App {
	if gateway == nil {
		gateway = broadcast.Nop{}
	}

	judgeService := judge.New(rnd)
	sessionService := session.New(store, clk, rnd)
	registry := room.NewRegistry(store, gateway, clk, rnd, logger)
	gameService := game.New(registry, sessionService, judgeService, gateway, clk, logger)
	tracker := connection.NewTracker(registry, gameService, sessionService, gateway, clk, logger)

	app := &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Judge:          judgeService,
		SessionService: sessionService,
		Registry:       registry,
		GameService:    gameService,
		Tracker:        tracker,
		Hub:            hub,
	}

	if hub != nil {
		// Fan-out needs room membership; resolved through the registry
		hub.SetRoomResolver(func(ctx context.Context, code model.RoomCode) []model.SessionID {
			return registry.RoomSessions(ctx, code)
		})
		app.WSHandler = ws.NewHandler(hub, tracker, gameService, rnd, logger)
	}

	return app
}

// Close releases background resources held by the app
func (a *App) Close() {
	a.Tracker.Close()
	if a.Hub != nil {
		a.Hub.Close()
	}
	if closer, ok := a.Storage.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
