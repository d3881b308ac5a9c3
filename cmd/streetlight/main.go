// Command streetlight monitors and controls a four-light street light fleet,
// serving a session-gated web dashboard and publishing relay transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/streetlight/internal/config"
	"github.com/sweeney/streetlight/internal/hw"
	"github.com/sweeney/streetlight/internal/light"
	"github.com/sweeney/streetlight/internal/telemetry"
	"github.com/sweeney/streetlight/internal/web"
)

const defaultConfigPath = "config.yaml"

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")
	flag.StringVar(&configPath, "c", defaultConfigPath, "Path to configuration file (shorthand)")
	sim := flag.Bool("sim", false, "Force the simulated adapter (no GPIO hardware)")
	printState := flag.Bool("print-state", false, "Reconcile once, print the light table, and exit")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Log)

	if err := run(cfg, *sim, *printState); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

// loadConfig falls back to pure defaults when the default-path file is
// absent; an explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) && path == defaultConfigPath {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config, sim, printState bool) error {
	adapter, err := newAdapter(cfg, sim)
	if err != nil {
		return fmt.Errorf("init adapter: %w", err)
	}
	defer adapter.Close()

	store := light.NewStore()
	engine := light.NewEngine(store, adapter)

	if printState {
		table := engine.ReconcileAll()
		for _, rec := range table {
			lux := fmt.Sprintf("%d", rec.Lux)
			if rec.Lux == light.FaultLux {
				lux = "FAULT"
			}
			fmt.Printf("Light %d: %-3s voltage=%.2fV current=%.2fA lux=%s\n",
				rec.ID, rec.Relay, rec.Voltage, rec.Current, lux)
		}
		return nil
	}

	// Telemetry is optional; an empty broker disables it.
	var publisher telemetry.Publisher
	if cfg.MQTT.Broker != "" {
		p, err := telemetry.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer p.Close()
		publisher = p

		engine.SetNotify(func(e light.Event) {
			if err := publisher.PublishLight(e); err != nil {
				log.Warn().Err(err).Int("light", e.LightID).Msg("telemetry publish failed")
			}
		})

		startup := telemetry.SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true}
		if err := publisher.PublishSystem(startup); err != nil {
			log.Warn().Err(err).Msg("failed to publish startup event")
		} else {
			log.Info().Msg("published startup event")
		}
	}

	sessions := web.NewSessions(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.SessionTTL.Duration())
	srv := web.New(cfg.HTTP.Addr, engine, sessions, cfg.Lights.WarnThreshold)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server error")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr).Msg("http server listening")

	// Background reconcile keeps hardware tracking ambient light even when
	// nobody is polling the dashboard. Each data fetch reconciles as well.
	stop := make(chan struct{})
	if interval := cfg.PollInterval.Duration(); interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					engine.ReconcileAll()
				case <-stop:
					return
				}
			}
		}()
		log.Info().Dur("interval", interval).Msg("background reconcile started")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	close(stop)
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	if publisher != nil {
		shutdown := telemetry.SystemEvent{
			Timestamp: time.Now(),
			Event:     "SHUTDOWN",
			Reason:    signalName(sig),
			Retained:  true,
		}
		if err := publisher.PublishSystem(shutdown); err != nil {
			log.Warn().Err(err).Msg("failed to publish shutdown event")
		} else {
			log.Info().Msg("published shutdown event")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}

	return nil
}

func newAdapter(cfg *config.Config, forceSim bool) (hw.Adapter, error) {
	if forceSim || cfg.Hardware.Simulate {
		log.Info().Msg("using simulated sensor/relay adapter")
		return hw.NewSimulator(), nil
	}
	return hw.NewReal(cfg.Hardware.Chip, cfg.Hardware.RelayPinArray(), cfg.Hardware.LDRPinArray())
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func setupLogging(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.UseJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !cfg.Colors,
		})
	}

	switch cfg.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
