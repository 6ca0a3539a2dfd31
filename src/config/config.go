package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Mode selects how gesture validation and extraction ordering behave.
type Mode string

const (
	// ModePure runs only the drag classifier; window-operation and
	// event-sequence layers are skipped.
	ModePure Mode = "pure"
	// ModeHybrid layers window-operation monitoring and event-sequence
	// analysis on top of the classifier. Default.
	ModeHybrid Mode = "hybrid"
	// ModeConservative is hybrid with a higher confidence floor.
	ModeConservative Mode = "conservative"
	// ModeAdaptive is hybrid plus statistics-driven extraction ordering.
	ModeAdaptive Mode = "adaptive"
)

const (
	// EnvPathVar points at an alternate config file when no .env sits next
	// to the executable.
	EnvPathVar = "SELECTION_CAPTURE_ENV"

	MinSensitivity = 0.1
	MaxSensitivity = 3.0
	MinDelaySec    = 0.01
	MaxDelaySec    = 1.0
)

type LoadOptions struct {
	ModeOverride  string
	DebugOverride bool
}

// Config carries the tunable detection and extraction parameters. Values are
// supplied by the persisted-settings collaborator; only logical values are
// consumed here.
type Config struct {
	Mode        Mode
	Sensitivity float64
	DelaySec    float64
	Debug       bool

	EnableFileLogging bool

	// EdgeMargin, MaxSelectionDistance and MinUIDistance feed the
	// classifier thresholds, in pixels.
	EdgeMargin           float64
	MaxSelectionDistance float64
	MinUIDistance        float64

	// ProfileOverridesPath is an optional YAML file with per-application
	// extraction profiles.
	ProfileOverridesPath string
	// StatsDBPath is an optional SQLite file for extraction statistics.
	StatsDBPath string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use SELECTION_CAPTURE_ENV as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		Mode:                 resolveMode(getEnvWithDefault("DETECTION_MODE", string(ModeHybrid))),
		Sensitivity:          clamp(envFloat("SENSITIVITY", 1.0), MinSensitivity, MaxSensitivity),
		DelaySec:             clamp(envFloat("EXTRACTION_DELAY_SEC", 0.1), MinDelaySec, MaxDelaySec),
		Debug:                envBool("DEBUG"),
		EnableFileLogging:    envBool("ENABLE_FILE_LOGGING"),
		EdgeMargin:           envFloat("EDGE_MARGIN_PX", 50),
		MaxSelectionDistance: envFloat("MAX_SELECTION_DISTANCE_PX", 600),
		MinUIDistance:        envFloat("MIN_UI_DISTANCE_PX", 20),
		ProfileOverridesPath: os.Getenv("PROFILE_OVERRIDES"),
		StatsDBPath:          os.Getenv("STATS_DB"),
	}

	if opts.ModeOverride != "" {
		cfg.Mode = resolveMode(opts.ModeOverride)
	}
	if opts.DebugOverride {
		cfg.Debug = true
	}

	return cfg, nil
}

// SetSensitivity clamps and applies a new sensitivity multiplier. Callable
// at any time by configuration commands.
func (c *Config) SetSensitivity(v float64) {
	c.Sensitivity = clamp(v, MinSensitivity, MaxSensitivity)
}

// SetDelay clamps and applies a new extraction delay in seconds.
func (c *Config) SetDelay(sec float64) {
	c.DelaySec = clamp(sec, MinDelaySec, MaxDelaySec)
}

// SetMode applies a new detection mode, falling back to hybrid on unknown
// values.
func (c *Config) SetMode(mode string) {
	c.Mode = resolveMode(mode)
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveMode(value string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModePure:
		return ModePure
	case ModeConservative:
		return ModeConservative
	case ModeAdaptive:
		return ModeAdaptive
	case ModeHybrid:
		return ModeHybrid
	default:
		return ModeHybrid
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	return strings.ToLower(strings.TrimSpace(os.Getenv(key))) == "true"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
