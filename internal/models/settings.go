package model

import "time"

type Settings struct {
	Theme                   string         `json:"theme" toml:"theme"`
	AutoPriorityModeEnabled bool           `json:"autoPriorityModeEnabled" toml:"auto_priority_mode_enabled"`
	AutoPriorityHours       int            `json:"autoPriorityHours" toml:"auto_priority_hours"`
	AutoPriorityDays        []time.Weekday `json:"autoPriorityDays" toml:"auto_priority_days"`
	AutoRotationEnabled     bool           `json:"isAutoRotationEnabled" toml:"auto_rotation_enabled"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:             "light",
		AutoPriorityHours: 24,
		AutoPriorityDays:  []time.Weekday{},
	}
}

func (s Settings) HasPriorityDay(day time.Weekday) bool {
	for _, d := range s.AutoPriorityDays {
		if d == day {
			return true
		}
	}
	return false
}

type SettingsUpdate struct {
	Theme                   Optional[string]         `json:"theme,omitzero"`
	AutoPriorityModeEnabled Optional[bool]           `json:"autoPriorityModeEnabled,omitzero"`
	AutoPriorityHours       Optional[int]            `json:"autoPriorityHours,omitzero"`
	AutoPriorityDays        Optional[[]time.Weekday] `json:"autoPriorityDays,omitzero"`
	AutoRotationEnabled     Optional[bool]           `json:"isAutoRotationEnabled,omitzero"`
}

// UserData is everything persisted for one account, locally and remotely.
type UserData struct {
	Projects        []Project       `json:"projects"`
	CompletedTasks  []CompletedTask `json:"completedTasks"`
	Settings        Settings        `json:"settings"`
	ActiveProjectID string          `json:"activeProjectId,omitempty"`
}
