package services

import (
	"sort"
	"time"

	"task-tracker.com/task-tracker/internal/calendar"
	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

// VisibleTasks returns the tasks of p whose scheduled date has been reached.
func VisibleTasks(p model.Project, today time.Time) []model.Task {
	visible := make([]model.Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if calendar.IsVisible(t.ScheduledDate, today) {
			visible = append(visible, t)
		}
	}
	return visible
}

// ScheduledTasks is the complement of VisibleTasks.
func ScheduledTasks(p model.Project, today time.Time) []model.Task {
	var hidden []model.Task
	for _, t := range p.Tasks {
		if !calendar.IsVisible(t.ScheduledDate, today) {
			hidden = append(hidden, t)
		}
	}
	return hidden
}

// SortTasks returns the display order of tasks. Without auto-rotation the insertion
// order is kept. With it, dated tasks come first by ascending due date, and equal dates
// (or no dates) put the longer estimate first. The input slice is not modified.
func SortTasks(tasks []model.Task, autoRotation bool) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	if !autoRotation {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, aOK := calendar.Parse(out[i].DueDate, time.UTC)
		b, bOK := calendar.Parse(out[j].DueDate, time.UTC)
		if aOK != bOK {
			return aOK
		}
		if aOK && !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].Minutes() > out[j].Minutes()
	})
	return out
}

type projectSortKey struct {
	earliest      time.Time
	hasDue        bool
	highest       int
	urgentMinutes int
}

func sortKeyFor(p model.Project, today time.Time) projectSortKey {
	visible := VisibleTasks(p, today)

	var key projectSortKey
	for _, t := range visible {
		due, ok := calendar.Parse(t.DueDate, time.UTC)
		if !ok {
			continue
		}
		if !key.hasDue || due.Before(key.earliest) {
			key.earliest, key.hasDue = due, true
		}
	}

	subset := visible
	if key.hasDue {
		subset = nil
		for _, t := range visible {
			if due, ok := calendar.Parse(t.DueDate, time.UTC); ok && due.Equal(key.earliest) {
				subset = append(subset, t)
			}
		}
	}

	for _, t := range subset {
		if level := t.Priority.Level(); level > key.highest {
			key.highest = level
		}
	}
	for _, t := range subset {
		if t.Priority.Level() == key.highest && t.Minutes() > key.urgentMinutes {
			key.urgentMinutes = t.Minutes()
		}
	}
	return key
}

func (k projectSortKey) less(o projectSortKey) bool {
	if k.hasDue != o.hasDue {
		return k.hasDue
	}
	if k.hasDue && !k.earliest.Equal(o.earliest) {
		return k.earliest.Before(o.earliest)
	}
	if k.highest != o.highest {
		return k.highest > o.highest
	}
	return k.urgentMinutes > o.urgentMinutes
}

// SortProjects returns the sidebar order. With auto-rotation on, projects are ordered
// by their earliest visible due date, then the highest priority among the tasks sharing
// that date, then the longest estimate among those top-priority tasks.
func SortProjects(projects []model.Project, autoRotation bool, today time.Time) []model.Project {
	out := make([]model.Project, len(projects))
	copy(out, projects)
	if !autoRotation {
		return out
	}

	keys := make(map[string]projectSortKey, len(out))
	for _, p := range out {
		keys[p.ID] = sortKeyFor(p, today)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return keys[out[i].ID].less(keys[out[j].ID])
	})
	return out
}

type ProjectBadge struct {
	Overdue  bool               `json:"overdue"`
	Priority constants.Priority `json:"priority,omitempty"`
}

// Badge flags a project overdue when a visible task was due before today, and reports
// the highest priority among its visible tasks.
func Badge(p model.Project, today time.Time) ProjectBadge {
	var badge ProjectBadge
	for _, t := range VisibleTasks(p, today) {
		if due, ok := calendar.Parse(t.DueDate, today.Location()); ok && due.Before(today) {
			badge.Overdue = true
		}
		if t.Priority.Level() > badge.Priority.Level() {
			badge.Priority = t.Priority
		}
	}
	return badge
}

type Columns struct {
	High   []model.Task `json:"high"`
	Medium []model.Task `json:"medium"`
	Low    []model.Task `json:"low"`
}

// GroupByPriority splits already-ordered tasks into priority columns, keeping order.
func GroupByPriority(tasks []model.Task) Columns {
	cols := Columns{High: []model.Task{}, Medium: []model.Task{}, Low: []model.Task{}}
	for _, t := range tasks {
		switch t.Priority {
		case constants.PriorityHigh:
			cols.High = append(cols.High, t)
		case constants.PriorityMedium:
			cols.Medium = append(cols.Medium, t)
		default:
			cols.Low = append(cols.Low, t)
		}
	}
	return cols
}
