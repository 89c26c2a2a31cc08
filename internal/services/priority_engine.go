package services

import (
	"time"

	"task-tracker.com/task-tracker/internal/calendar"
	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

// EvaluateTask derives the effective priority of task for today. It returns the
// updated copy and whether any of priority, originalPriority or autoPromoteDate changed.
//
// Low tasks whose autoPromoteDate has been reached become Medium and the trigger date is
// consumed, regardless of the auto-priority toggle. Tasks whose base priority is Medium
// are raised to High while the toggle is on and their due date is inside the hour window
// or falls on a configured weekday; they drop back to the remembered priority as soon as
// that stops holding.
func EvaluateTask(task model.Task, settings model.Settings, today time.Time) (model.Task, bool) {
	out := task.Clone()
	changed := false
	loc := today.Location()

	if out.Priority == constants.PriorityLow && out.AutoPromoteDate != "" {
		if promoteOn, ok := calendar.Parse(out.AutoPromoteDate, loc); ok && !today.Before(promoteOn) {
			out.Priority = constants.PriorityMedium
			out.AutoPromoteDate = ""
			changed = true
		}
	}

	base := out.Priority
	if out.OriginalPriority != nil {
		base = *out.OriginalPriority
	}

	var due time.Time
	hasDue := false
	if out.DueDate != "" {
		parsed, ok := calendar.Parse(out.DueDate, loc)
		if !ok {
			return out, changed
		}
		due, hasDue = parsed, true
	}

	shouldPromote := settings.AutoPriorityModeEnabled &&
		base == constants.PriorityMedium &&
		hasDue &&
		(dueWithin(due, today, settings.AutoPriorityHours) || settings.HasPriorityDay(due.Weekday()))

	switch {
	case shouldPromote && out.Priority != constants.PriorityHigh:
		original := base
		out.Priority = constants.PriorityHigh
		out.OriginalPriority = &original
		changed = true
	case !shouldPromote && out.OriginalPriority != nil:
		out.Priority = *out.OriginalPriority
		out.OriginalPriority = nil
		changed = true
	}

	return out, changed
}

// dueWithin is true for overdue dates and dates no more than hours ahead of today.
func dueWithin(due, today time.Time, hours int) bool {
	return due.Sub(today) <= time.Duration(hours)*time.Hour
}

// ReconcilePriorities re-evaluates every visible task in place and returns how many
// tasks changed. Unchanged tasks are not rewritten.
func ReconcilePriorities(projects []model.Project, settings model.Settings, today time.Time) int {
	changed := 0
	for pi := range projects {
		tasks := projects[pi].Tasks
		for ti := range tasks {
			if !calendar.IsVisible(tasks[ti].ScheduledDate, today) {
				continue
			}
			next, ok := EvaluateTask(tasks[ti], settings, today)
			if !ok {
				continue
			}
			tasks[ti] = next
			changed++
		}
	}
	return changed
}
