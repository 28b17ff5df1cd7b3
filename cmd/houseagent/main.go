// HouseAgent Core - home automation management plane.
//
// This is the main entry point. It wires the SQLite-backed resource
// collections, the MQTT coordinator link to device plugins, the
// optional InfluxDB history mirror, and the HTTP management API, then
// runs until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/houseagent/houseagent-core/migrations"

	"github.com/houseagent/houseagent-core/internal/api"
	"github.com/houseagent/houseagent-core/internal/collection"
	"github.com/houseagent/houseagent-core/internal/coordinator"
	"github.com/houseagent/houseagent-core/internal/device"
	"github.com/houseagent/houseagent-core/internal/event"
	"github.com/houseagent/houseagent-core/internal/history"
	"github.com/houseagent/houseagent-core/internal/infrastructure/config"
	"github.com/houseagent/houseagent-core/internal/infrastructure/database"
	"github.com/houseagent/houseagent-core/internal/infrastructure/influxdb"
	"github.com/houseagent/houseagent-core/internal/infrastructure/logging"
	"github.com/houseagent/houseagent-core/internal/infrastructure/mqtt"
	"github.com/houseagent/houseagent-core/internal/location"
	"github.com/houseagent/houseagent-core/internal/plugin"
	"github.com/houseagent/houseagent-core/internal/value"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main so failures map to
// exit codes in one place.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting HouseAgent Core", "version", version, "commit", commit)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete")

	// Resource providers and their cached collections.
	pluginProvider := plugin.NewProvider(db.DB)
	valueProvider := value.NewProvider(db.DB)

	locations := collection.New[location.Location](location.NewProvider(db.DB))
	plugins := collection.New[plugin.Plugin](pluginProvider)
	devices := collection.New[device.Device](device.NewProvider(db.DB))
	values := collection.New[value.Value](valueProvider)
	historyTypes := collection.New[value.HistoryType](value.NewHistoryTypeProvider(db.DB))
	historyPeriods := collection.New[value.HistoryPeriod](value.NewHistoryPeriodProvider(db.DB))
	controlTypes := collection.New[value.ControlType](value.NewControlTypeProvider(db.DB))

	for name, reload := range map[string]func(context.Context) error{
		"locations":       locations.Reload,
		"plugins":         plugins.Reload,
		"devices":         devices.Reload,
		"values":          values.Reload,
		"history_types":   historyTypes.Reload,
		"history_periods": historyPeriods.Reload,
		"control_types":   controlTypes.Reload,
	} {
		if err := reload(ctx); err != nil {
			return fmt.Errorf("loading %s: %w", name, err)
		}
	}
	log.Info("resource collections loaded",
		"locations", locations.Len(),
		"plugins", plugins.Len(),
		"devices", devices.Len(),
		"values", values.Len(),
	)

	// Coordinator link to device plugins over MQTT.
	mqttClient, err := mqtt.Connect(cfg.Coordinator)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Coordinator.Broker.Host, cfg.Coordinator.Broker.Port),
		"client_id", cfg.Coordinator.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	transport := &coordinator.MQTTTransport{
		Client: mqttClient,
		QoS:    byte(cfg.Coordinator.QoS),
	}

	coordClient := coordinator.New(transport, pluginProvider, log)
	if err := coordClient.Start(); err != nil {
		return fmt.Errorf("starting coordinator client: %w", err)
	}
	dispatcher := coordinator.NewDispatcher(coordClient)

	// InfluxDB history mirror (optional).
	var mirror history.Mirror
	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		mirror = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	recorder := history.NewRecorder(db.DB, mirror)
	ingestor := coordinator.NewIngestor(valueProvider, recorder, log)
	if err := ingestor.Start(transport); err != nil {
		return fmt.Errorf("starting value ingest: %w", err)
	}

	events := event.NewRepository(db.DB)

	server, err := api.New(api.Deps{
		Config:         cfg.API,
		Logger:         log,
		Version:        version,
		Locations:      locations,
		Plugins:        plugins,
		Devices:        devices,
		Values:         values,
		HistoryTypes:   historyTypes,
		HistoryPeriods: historyPeriods,
		ControlTypes:   controlTypes,
		ValueLookups:   valueProvider,
		Status:         coordClient,
		Dispatcher:     dispatcher,
		Events:         events,
		Reconstructor:  event.NewReconstructor(events, log),
		History:        history.NewStore(db.DB),
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("HouseAgent Core running")
	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}

// getConfigPath returns the config path from args or the default.
func getConfigPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return defaultConfigPath
}
