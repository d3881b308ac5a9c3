// Package config loads the controller configuration from YAML with
// ${VAR:default} environment expansion and code defaults.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/streetlight/internal/hw"
	"github.com/sweeney/streetlight/internal/light"
)

// Config is the application configuration.
type Config struct {
	HTTP            HTTPConfig     `yaml:"http"`
	Hardware        HardwareConfig `yaml:"hardware"`
	MQTT            MQTTConfig     `yaml:"mqtt"`
	Auth            AuthConfig     `yaml:"auth"`
	Lights          LightsConfig   `yaml:"lights"`
	Log             LogConfig      `yaml:"log"`
	PollInterval    Duration       `yaml:"poll_interval"`    // background reconcile cadence (0 = disabled)
	ShutdownTimeout Duration       `yaml:"shutdown_timeout"` // graceful HTTP shutdown bound
}

// HTTPConfig contains web server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// HardwareConfig selects and configures the sensor/relay adapter.
type HardwareConfig struct {
	Simulate  bool   `yaml:"simulate"` // run without GPIO hardware
	Chip      string `yaml:"chip"`
	RelayPins []int  `yaml:"relay_pins"` // BCM, one per light
	LDRPins   []int  `yaml:"ldr_pins"`   // BCM, one per light
}

// MQTTConfig contains telemetry settings. Empty broker disables telemetry.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// AuthConfig contains dashboard session settings.
type AuthConfig struct {
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	SessionTTL Duration `yaml:"session_ttl"`
}

// LightsConfig contains reconciliation/statistics tunables.
type LightsConfig struct {
	WarnThreshold float64 `yaml:"warn_threshold"` // aggregate current warning level, amps
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses the configuration file. Environment variables in
// the form ${VAR} or ${VAR:default} are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if len(cfg.Hardware.RelayPins) != hw.NumChannels {
		return nil, fmt.Errorf("hardware.relay_pins: need %d pins, got %d", hw.NumChannels, len(cfg.Hardware.RelayPins))
	}
	if len(cfg.Hardware.LDRPins) != hw.NumChannels {
		return nil, fmt.Errorf("hardware.ldr_pins: need %d pins, got %d", hw.NumChannels, len(cfg.Hardware.LDRPins))
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":5000"
	}
	if cfg.Hardware.Chip == "" {
		cfg.Hardware.Chip = hw.DefaultChip
	}
	if len(cfg.Hardware.RelayPins) == 0 {
		cfg.Hardware.RelayPins = hw.DefaultRelayPins[:]
	}
	if len(cfg.Hardware.LDRPins) == 0 {
		cfg.Hardware.LDRPins = hw.DefaultLDRPins[:]
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "streetlight"
	}
	if cfg.Auth.Username == "" {
		cfg.Auth.Username = envOr("DASHBOARD_USER", "admin")
	}
	if cfg.Auth.Password == "" {
		cfg.Auth.Password = envOr("DASHBOARD_PASS", "admin")
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = Duration(12 * time.Hour)
	}
	if cfg.Lights.WarnThreshold == 0 {
		cfg.Lights.WarnThreshold = light.DefaultWarnThreshold
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(2 * time.Second)
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// RelayPinArray returns the relay pin assignment as a fixed-size array.
func (h HardwareConfig) RelayPinArray() [hw.NumChannels]int {
	var pins [hw.NumChannels]int
	copy(pins[:], h.RelayPins)
	return pins
}

// LDRPinArray returns the LDR pin assignment as a fixed-size array.
func (h HardwareConfig) LDRPinArray() [hw.NumChannels]int {
	var pins [hw.NumChannels]int
	copy(pins[:], h.LDRPins)
	return pins
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// expandEnvVars expands environment variables in the format ${VAR} or
// ${VAR:default}.
func expandEnvVars(input string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
