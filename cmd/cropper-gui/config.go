package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"

	"github.com/oukeidos/cropper/internal/config"
	"github.com/oukeidos/cropper/internal/logger"
)

const (
	prefConcurrency    = "Concurrency"
	prefTopRatio       = "TopRatio"
	prefBottomRatio    = "BottomRatio"
	prefJPEGQuality    = "JPEGQuality"
	prefMaxWidth       = "MaxWidth"
	prefOverwrite      = "Overwrite"
	prefEngineCommand  = "EngineCommand"
	prefTimeoutSeconds = "TimeoutSeconds"
)

// loadBaseSettings reads the .env / environment layer. The GUI still starts
// with defaults when it is broken.
func loadBaseSettings() config.Settings {
	s, err := config.Load()
	if err != nil {
		logger.Warn("Ignoring invalid environment settings", "error", err)
		return config.Default()
	}
	return s
}

// settingsFromPreferences overlays saved preferences on base and clamps the result.
func settingsFromPreferences(prefs fyne.Preferences, base config.Settings) config.Settings {
	s := base
	s.Concurrency = prefs.IntWithFallback(prefConcurrency, base.Concurrency)
	s.TopRatio = prefs.FloatWithFallback(prefTopRatio, base.TopRatio)
	s.BottomRatio = prefs.FloatWithFallback(prefBottomRatio, base.BottomRatio)
	s.JPEGQuality = prefs.IntWithFallback(prefJPEGQuality, base.JPEGQuality)
	s.MaxWidth = prefs.IntWithFallback(prefMaxWidth, base.MaxWidth)
	s.Overwrite = prefs.BoolWithFallback(prefOverwrite, base.Overwrite)
	s.EngineCommand = strings.TrimSpace(prefs.StringWithFallback(prefEngineCommand, base.EngineCommand))
	s.Timeout = time.Duration(prefs.IntWithFallback(prefTimeoutSeconds, int(base.Timeout/time.Second))) * time.Second

	s, notes := s.Normalize()
	for _, note := range notes {
		logger.Warn("Setting adjusted", "note", note)
	}
	if err := s.Validate(); err != nil {
		logger.Warn("Saved crop geometry is invalid, using defaults", "error", err)
		s.TopRatio = config.DefaultTopRatio
		s.BottomRatio = config.DefaultBottomRatio
	}
	return s
}

func saveSettingsToPreferences(prefs fyne.Preferences, s config.Settings) {
	prefs.SetInt(prefConcurrency, s.Concurrency)
	prefs.SetFloat(prefTopRatio, s.TopRatio)
	prefs.SetFloat(prefBottomRatio, s.BottomRatio)
	prefs.SetInt(prefJPEGQuality, s.JPEGQuality)
	prefs.SetInt(prefMaxWidth, s.MaxWidth)
	prefs.SetBool(prefOverwrite, s.Overwrite)
	prefs.SetString(prefEngineCommand, s.EngineCommand)
	prefs.SetInt(prefTimeoutSeconds, int(s.Timeout/time.Second))
}

// settingsForm holds the raw text of the settings window entries.
type settingsForm struct {
	Concurrency   string
	TopRatio      string
	BottomRatio   string
	JPEGQuality   string
	MaxWidth      string
	Timeout       string
	EngineCommand string
	Overwrite     bool
}

func formFromSettings(s config.Settings) settingsForm {
	timeout := ""
	if s.Timeout > 0 {
		timeout = s.Timeout.String()
	}
	return settingsForm{
		Concurrency:   strconv.Itoa(s.Concurrency),
		TopRatio:      strconv.FormatFloat(s.TopRatio, 'g', -1, 64),
		BottomRatio:   strconv.FormatFloat(s.BottomRatio, 'g', -1, 64),
		JPEGQuality:   strconv.Itoa(s.JPEGQuality),
		MaxWidth:      strconv.Itoa(s.MaxWidth),
		Timeout:       timeout,
		EngineCommand: s.EngineCommand,
		Overwrite:     s.Overwrite,
	}
}

// settings parses the form on top of base. Out-of-range values are rejected
// rather than clamped so the user sees what was wrong.
func (f settingsForm) settings(base config.Settings) (config.Settings, error) {
	s := base
	var err error
	if s.Concurrency, err = strconv.Atoi(strings.TrimSpace(f.Concurrency)); err != nil {
		return base, fmt.Errorf("concurrency must be a whole number")
	}
	if _, changed := config.ClampConcurrency(s.Concurrency); changed {
		return base, fmt.Errorf("concurrency must be between %d and %d", config.MinConcurrency, config.MaxConcurrency)
	}
	if s.TopRatio, err = strconv.ParseFloat(strings.TrimSpace(f.TopRatio), 64); err != nil {
		return base, fmt.Errorf("top ratio must be a number")
	}
	if s.BottomRatio, err = strconv.ParseFloat(strings.TrimSpace(f.BottomRatio), 64); err != nil {
		return base, fmt.Errorf("bottom ratio must be a number")
	}
	if s.JPEGQuality, err = strconv.Atoi(strings.TrimSpace(f.JPEGQuality)); err != nil || s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		return base, fmt.Errorf("JPEG quality must be between 1 and 100")
	}
	if s.MaxWidth, err = strconv.Atoi(strings.TrimSpace(f.MaxWidth)); err != nil || s.MaxWidth < 0 {
		return base, fmt.Errorf("max width must be 0 or a positive number of pixels")
	}
	s.Timeout = 0
	if t := strings.TrimSpace(f.Timeout); t != "" && t != "0" {
		if s.Timeout, err = time.ParseDuration(t); err != nil || s.Timeout < 0 {
			return base, fmt.Errorf("timeout must be a duration such as 90s or 10m")
		}
	}
	s.EngineCommand = strings.TrimSpace(f.EngineCommand)
	s.Overwrite = f.Overwrite
	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}
