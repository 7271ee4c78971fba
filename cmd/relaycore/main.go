// Relay Core - Authenticated Relay Actuation Service
//
// This is the main entry point for the Relay Core service. It exposes a small
// HTTP API that pulses GPIO-connected relays (door strikes, gate openers)
// after verifying an HMAC signature over each request body.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/relay-core/internal/api"
	"github.com/nerrad567/relay-core/internal/infrastructure/config"
	"github.com/nerrad567/relay-core/internal/infrastructure/logging"
	"github.com/nerrad567/relay-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/relay-core/internal/relay"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Relay Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration. This fails if RELAY_SECRET is unset: the service
	// refuses to start without a shared secret.
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Build the GPIO line driver
	line, err := buildLine(cfg, log)
	if err != nil {
		return fmt.Errorf("initialising relay driver: %w", err)
	}

	controller := relay.NewController(line)
	controller.SetLogger(log)
	log.Info("relay controller initialised",
		"driver", cfg.Relay.Driver,
		"chip", cfg.Relay.Chip,
		"supported_pins", cfg.Relay.SupportedGPIOPins,
		"pulse_duration", relay.PulseDuration,
	)

	// Connect to MQTT broker (optional event announcer)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
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
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(disconnectErr error) {
			log.Warn("MQTT disconnected", "error", disconnectErr)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Start the API server
	server, err := api.New(api.Deps{
		Config:     cfg.API,
		Service:    cfg.Service,
		Logger:     log,
		Controller: controller,
		Pins:       relay.PinSet(cfg.Relay.SupportedGPIOPins),
		Secret:     []byte(cfg.Secret),
		MQTT:       mqttClient,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"tls", cfg.API.TLS.Enabled,
	)
	log.Info("endpoints registered",
		"trigger", "POST /relay/trigger",
		"health", "GET /system/health",
		"status", "GET /system/status",
		"events", "GET /ws",
	)

	// Verify connections are healthy
	if err := healthCheck(ctx, server, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (drains in-flight pulses)
	// 2. MQTT (if enabled)

	log.Info("Relay Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses RELAY_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("RELAY_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// buildLine constructs the PhysicalLine implementation selected by config.
//
// Parameters:
//   - cfg: Application configuration
//   - log: Logger instance
//
// Returns:
//   - relay.PhysicalLine: Driver for the configured backend
//   - error: If the driver name is unrecognised
func buildLine(cfg *config.Config, log *logging.Logger) (relay.PhysicalLine, error) {
	switch cfg.Relay.Driver {
	case "gpiocdev":
		return relay.NewGPIOLine(cfg.Relay.Chip, cfg.Relay.Consumer), nil
	case "simulated":
		log.Warn("using simulated relay driver, no hardware will be actuated")
		return relay.NewFakeLine(), nil
	default:
		// Config validation rejects unknown drivers; this is unreachable
		// unless Load() is bypassed.
		return nil, fmt.Errorf("unknown relay driver %q", cfg.Relay.Driver)
	}
}

// healthCheck verifies infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - server: API server to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, server *api.Server, mqttClient *mqtt.Client) error {
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	return nil
}
