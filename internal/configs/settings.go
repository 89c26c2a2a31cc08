package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	model "task-tracker.com/task-tracker/internal/models"
)

// LoadSettingsDefaults reads the settings new accounts start with. A missing file is
// created with the built-in defaults.
func LoadSettingsDefaults(path string) (model.Settings, error) {
	settings := model.DefaultSettings()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeSettings(path, settings); err != nil {
			return settings, err
		}
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if settings.Theme == "" {
		settings.Theme = model.DefaultSettings().Theme
	}
	if settings.AutoPriorityHours <= 0 {
		return settings, fmt.Errorf("%s: auto_priority_hours must be greater than 0", path)
	}
	for _, d := range settings.AutoPriorityDays {
		if d < time.Sunday || d > time.Saturday {
			return settings, fmt.Errorf("%s: auto_priority_days must be between 0 and 6", path)
		}
	}
	if settings.AutoPriorityDays == nil {
		settings.AutoPriorityDays = []time.Weekday{}
	}
	return settings, nil
}

func writeSettings(path string, settings model.Settings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
