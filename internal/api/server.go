package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/houseagent/houseagent-core/internal/collection"
	"github.com/houseagent/houseagent-core/internal/coordinator"
	"github.com/houseagent/houseagent-core/internal/device"
	"github.com/houseagent/houseagent-core/internal/event"
	"github.com/houseagent/houseagent-core/internal/history"
	"github.com/houseagent/houseagent-core/internal/infrastructure/config"
	"github.com/houseagent/houseagent-core/internal/infrastructure/logging"
	"github.com/houseagent/houseagent-core/internal/location"
	"github.com/houseagent/houseagent-core/internal/plugin"
	"github.com/houseagent/houseagent-core/internal/value"
)

// gracefulShutdownTimeout bounds the wait for in-flight requests during
// shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server. Status,
// Dispatcher and Notifier may be nil; the affected endpoints degrade
// rather than the server refusing to start.
type Deps struct {
	Config  config.APIConfig
	Logger  *logging.Logger
	Version string

	Locations      *collection.Collection[location.Location]
	Plugins        *collection.Collection[plugin.Plugin]
	Devices        *collection.Collection[device.Device]
	Values         *collection.Collection[value.Value]
	HistoryTypes   *collection.Collection[value.HistoryType]
	HistoryPeriods *collection.Collection[value.HistoryPeriod]
	ControlTypes   *collection.Collection[value.ControlType]

	ValueLookups  *value.Provider
	Status        plugin.StatusSource
	Dispatcher    *coordinator.Dispatcher
	Events        *event.Repository
	Reconstructor *event.Reconstructor
	Notifier      event.Notifier
	History       *history.Store
}

// Server is the HTTP management API.
type Server struct {
	cfg     config.APIConfig
	logger  *logging.Logger
	version string

	locations      *collection.Collection[location.Location]
	plugins        *collection.Collection[plugin.Plugin]
	devices        *collection.Collection[device.Device]
	values         *collection.Collection[value.Value]
	historyTypes   *collection.Collection[value.HistoryType]
	historyPeriods *collection.Collection[value.HistoryPeriod]
	controlTypes   *collection.Collection[value.ControlType]

	valueLookups  *value.Provider
	status        plugin.StatusSource
	dispatcher    *coordinator.Dispatcher
	events        *event.Repository
	reconstructor *event.Reconstructor
	notifier      event.Notifier
	history       *history.Store

	server *http.Server
}

// New creates an API server; it does not listen until Start.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Locations == nil || deps.Plugins == nil || deps.Devices == nil || deps.Values == nil {
		return nil, fmt.Errorf("resource collections are required")
	}
	if deps.Events == nil || deps.Reconstructor == nil {
		return nil, fmt.Errorf("event repository and reconstructor are required")
	}
	if deps.History == nil {
		return nil, fmt.Errorf("history store is required")
	}

	return &Server{
		cfg:            deps.Config,
		logger:         deps.Logger,
		version:        deps.Version,
		locations:      deps.Locations,
		plugins:        deps.Plugins,
		devices:        deps.Devices,
		values:         deps.Values,
		historyTypes:   deps.HistoryTypes,
		historyPeriods: deps.HistoryPeriods,
		controlTypes:   deps.ControlTypes,
		valueLookups:   deps.ValueLookups,
		status:         deps.Status,
		dispatcher:     deps.Dispatcher,
		events:         deps.Events,
		reconstructor:  deps.Reconstructor,
		notifier:       deps.Notifier,
		history:        deps.History,
	}, nil
}

// Start begins serving in a background goroutine.
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server listening", "address", s.server.Addr)
	return nil
}

// Close drains in-flight requests and stops the listener.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
