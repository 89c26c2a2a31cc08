package model

import (
	"time"

	"task-tracker.com/task-tracker/internal/constants"
)

// Task dates are calendar days in "YYYY-MM-DD" form; an empty string means absent.
type Task struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	DueDate          string              `json:"dueDate,omitempty"`
	Priority         constants.Priority  `json:"priority"`
	OriginalPriority *constants.Priority `json:"originalPriority,omitempty"`
	EstimatedTime    *int                `json:"estimatedTime,omitempty"`
	AutoPromoteDate  string              `json:"autoPromoteDate,omitempty"`
	ScheduledDate    string              `json:"scheduledDate,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// Minutes returns the estimated time, treating an absent estimate as zero.
func (t Task) Minutes() int {
	if t.EstimatedTime == nil {
		return 0
	}
	return *t.EstimatedTime
}

func (t Task) Clone() Task {
	c := t
	if t.OriginalPriority != nil {
		p := *t.OriginalPriority
		c.OriginalPriority = &p
	}
	if t.EstimatedTime != nil {
		m := *t.EstimatedTime
		c.EstimatedTime = &m
	}
	return c
}

// CompletedTask is the immutable record written when a task is completed.
type CompletedTask struct {
	Task
	CompletedAt time.Time `json:"completedAt"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
}

type TaskInput struct {
	Title           string             `json:"title"`
	DueDate         string             `json:"dueDate,omitempty"`
	Priority        constants.Priority `json:"priority"`
	EstimatedTime   *int               `json:"estimatedTime,omitempty"`
	AutoPromoteDate string             `json:"autoPromoteDate,omitempty"`
	ScheduledDate   string             `json:"scheduledDate,omitempty"`
}

// TaskEdit changes only the fields that are set; a null value clears an optional field.
type TaskEdit struct {
	Title           Optional[string]             `json:"title,omitzero"`
	DueDate         Optional[string]             `json:"dueDate,omitzero"`
	Priority        Optional[constants.Priority] `json:"priority,omitzero"`
	EstimatedTime   Optional[int]                `json:"estimatedTime,omitzero"`
	AutoPromoteDate Optional[string]             `json:"autoPromoteDate,omitzero"`
	ScheduledDate   Optional[string]             `json:"scheduledDate,omitzero"`
}
