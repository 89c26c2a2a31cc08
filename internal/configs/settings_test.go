package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSettingsDefaults_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	settings, err := LoadSettingsDefaults(path)
	if err != nil {
		t.Fatalf("LoadSettingsDefaults: %v", err)
	}
	if settings.Theme != "light" || settings.AutoPriorityHours != 24 {
		t.Errorf("unexpected defaults %+v", settings)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to be created: %v", err)
	}

	again, err := LoadSettingsDefaults(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.AutoPriorityHours != 24 {
		t.Errorf("unexpected reloaded settings %+v", again)
	}
}

func TestLoadSettingsDefaults_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := "theme = \"dark\"\nauto_priority_mode_enabled = true\nauto_priority_hours = 48\nauto_priority_days = [5, 6]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettingsDefaults(path)
	if err != nil {
		t.Fatalf("LoadSettingsDefaults: %v", err)
	}
	if settings.Theme != "dark" || !settings.AutoPriorityModeEnabled || settings.AutoPriorityHours != 48 {
		t.Errorf("unexpected settings %+v", settings)
	}
	if !settings.HasPriorityDay(time.Friday) || !settings.HasPriorityDay(time.Saturday) {
		t.Errorf("expected Friday and Saturday, got %v", settings.AutoPriorityDays)
	}
}

func TestLoadSettingsDefaults_RejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"zero hours":  "auto_priority_hours = 0\n",
		"bad weekday": "auto_priority_days = [9]\n",
		"not toml":    "theme = [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadSettingsDefaults(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
