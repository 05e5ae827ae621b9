package config

import "fmt"

// Config holds all murmur configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Engine    EngineConfig    `toml:"engine"`
	Baselines BaselinesConfig `toml:"baselines"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// EngineConfig seeds the load configuration for a fresh installation.
// Once settings have been persisted or calibration has run, those win.
type EngineConfig struct {
	SafeThreshold     float64 `toml:"safe_threshold"`
	CautionThreshold  float64 `toml:"caution_threshold"`
	HighThreshold     float64 `toml:"high_threshold"`
	DecayRate         float64 `toml:"decay_rate"`
	SymptomMultiplier float64 `toml:"symptom_multiplier"`
}

// BaselinesConfig holds the personal biometric reference points for the
// physiological state classifier.
type BaselinesConfig struct {
	HRV       float64 `toml:"hrv"`        // ms
	RestingHR float64 `toml:"resting_hr"` // bpm
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37711,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Engine: EngineConfig{
			SafeThreshold:     25,
			CautionThreshold:  50,
			HighThreshold:     75,
			DecayRate:         0.7,
			SymptomMultiplier: 1.0,
		},
		Baselines: BaselinesConfig{
			HRV:       45,
			RestingHR: 62,
		},
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
