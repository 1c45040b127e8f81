package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvFileVar         = "CROPPER_ENV"
	EnvConcurrency     = "CROPPER_CONCURRENCY"
	EnvTopRatio        = "CROPPER_TOP_RATIO"
	EnvBottomRatio     = "CROPPER_BOTTOM_RATIO"
	EnvJPEGQuality     = "CROPPER_JPEG_QUALITY"
	EnvMaxWidth        = "CROPPER_MAX_WIDTH"
	EnvOverwrite       = "CROPPER_OVERWRITE"
	EnvEngineCommand   = "CROPPER_ENGINE_CMD"
	EnvTimeout         = "CROPPER_TIMEOUT"
	EnvLogLevel        = "CROPPER_LOG_LEVEL"
	defaultEnvFile     = ".env"
	DefaultTopRatio    = 0.055
	DefaultBottomRatio = 0.124
	DefaultJPEGQuality = 90
	MinConcurrency     = 1
	MaxConcurrency     = 32
	maxCombinedRatios  = 0.9
)

// Settings drives the crop engine and the front-ends.
type Settings struct {
	Concurrency int
	// TopRatio and BottomRatio are the fractions of the image height removed
	// from the top (rounded up) and bottom (rounded down).
	TopRatio    float64
	BottomRatio float64
	JPEGQuality int
	// MaxWidth downscales wider outputs; 0 keeps the cropped width.
	MaxWidth int
	// Overwrite replaces same-named files in the output directory. When false
	// a numbered name is chosen instead.
	Overwrite bool
	// EngineCommand, when set, runs crops out-of-process through this binary.
	EngineCommand string
	// Timeout bounds one crop invocation; 0 disables it.
	Timeout  time.Duration
	LogLevel string
}

// LoadOptions overrides where the .env file is read from.
type LoadOptions struct {
	EnvFile string
}

func Default() Settings {
	return Settings{
		Concurrency: runtime.NumCPU(),
		TopRatio:    DefaultTopRatio,
		BottomRatio: DefaultBottomRatio,
		JPEGQuality: DefaultJPEGQuality,
		Overwrite:   true,
		LogLevel:    "info",
	}
}

func Load() (Settings, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions resolves settings from, in increasing priority: defaults,
// the .env file, and process environment variables.
func LoadWithOptions(opts LoadOptions) (Settings, error) {
	if envPath := resolveEnvPath(opts); envPath != "" {
		// godotenv.Load never overrides variables already present in the environment.
		if err := godotenv.Load(envPath); err != nil {
			return Settings{}, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	s := Default()
	var err error
	if s.Concurrency, err = intEnv(EnvConcurrency, s.Concurrency); err != nil {
		return Settings{}, err
	}
	if s.TopRatio, err = floatEnv(EnvTopRatio, s.TopRatio); err != nil {
		return Settings{}, err
	}
	if s.BottomRatio, err = floatEnv(EnvBottomRatio, s.BottomRatio); err != nil {
		return Settings{}, err
	}
	if s.JPEGQuality, err = intEnv(EnvJPEGQuality, s.JPEGQuality); err != nil {
		return Settings{}, err
	}
	if s.MaxWidth, err = intEnv(EnvMaxWidth, s.MaxWidth); err != nil {
		return Settings{}, err
	}
	if s.Overwrite, err = boolEnv(EnvOverwrite, s.Overwrite); err != nil {
		return Settings{}, err
	}
	if s.Timeout, err = durationEnv(EnvTimeout, s.Timeout); err != nil {
		return Settings{}, err
	}
	s.EngineCommand = strings.TrimSpace(os.Getenv(EnvEngineCommand))
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		s.LogLevel = v
	}
	return s, nil
}

func resolveEnvPath(opts LoadOptions) string {
	if p := strings.TrimSpace(opts.EnvFile); p != "" {
		return p
	}
	if alt := strings.TrimSpace(os.Getenv(EnvFileVar)); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	exeEnv := filepath.Join(filepath.Dir(execPath), defaultEnvFile)
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}
	return ""
}

func ClampConcurrency(value int) (int, bool) {
	if value < MinConcurrency {
		return MinConcurrency, true
	}
	if value > MaxConcurrency {
		return MaxConcurrency, true
	}
	return value, false
}

// Normalize applies safe bounds and returns a note per adjustment.
func (s Settings) Normalize() (Settings, []string) {
	var notes []string
	if clamped, changed := ClampConcurrency(s.Concurrency); changed {
		notes = append(notes, fmt.Sprintf("concurrency clamped from %d to %d", s.Concurrency, clamped))
		s.Concurrency = clamped
	}
	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		notes = append(notes, fmt.Sprintf("jpeg quality %d out of range, using %d", s.JPEGQuality, DefaultJPEGQuality))
		s.JPEGQuality = DefaultJPEGQuality
	}
	if s.MaxWidth < 0 {
		notes = append(notes, fmt.Sprintf("max width %d is negative, disabling downscale", s.MaxWidth))
		s.MaxWidth = 0
	}
	if s.Timeout < 0 {
		notes = append(notes, "negative timeout disabled")
		s.Timeout = 0
	}
	return s, notes
}

// Validate rejects crop geometry that would leave nothing of the image.
func (s Settings) Validate() error {
	if s.TopRatio < 0 || s.TopRatio >= 1 {
		return fmt.Errorf("top ratio must be in [0, 1), got %g", s.TopRatio)
	}
	if s.BottomRatio < 0 || s.BottomRatio >= 1 {
		return fmt.Errorf("bottom ratio must be in [0, 1), got %g", s.BottomRatio)
	}
	if s.TopRatio+s.BottomRatio > maxCombinedRatios {
		return fmt.Errorf("top and bottom ratios together remove more than %.0f%% of the image", maxCombinedRatios*100)
	}
	if s.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than 0, got %d", s.Concurrency)
	}
	return nil
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

// Environ renders s as CROPPER_* assignments for a child engine process.
// EngineCommand is always cleared so the child crops in-process.
func (s Settings) Environ() []string {
	return []string{
		EnvEngineCommand + "=",
		fmt.Sprintf("%s=%d", EnvConcurrency, s.Concurrency),
		EnvTopRatio + "=" + strconv.FormatFloat(s.TopRatio, 'g', -1, 64),
		EnvBottomRatio + "=" + strconv.FormatFloat(s.BottomRatio, 'g', -1, 64),
		fmt.Sprintf("%s=%d", EnvJPEGQuality, s.JPEGQuality),
		fmt.Sprintf("%s=%d", EnvMaxWidth, s.MaxWidth),
		EnvOverwrite + "=" + strconv.FormatBool(s.Overwrite),
		EnvLogLevel + "=" + s.LogLevel,
	}
}
