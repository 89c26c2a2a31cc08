package validators

import (
	"strings"

	dto "task-tracker.com/task-tracker/internal/data_models"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
)

func ValidateProjectRequest(r *dto.ProjectRequest) error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.ErrNameRequired
	}
	return nil
}

func ValidateMoveProjectRequest(r *dto.MoveProjectRequest) error {
	if r.Position == nil {
		return apperrors.ErrPositionRequired
	}
	if *r.Position < 0 {
		return apperrors.ErrInvalidPosition
	}
	return nil
}

func ValidateTaskInput(r *model.TaskInput) error {
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.ErrTitleRequired
	}
	return nil
}

func ValidateTaskEdit(r *model.TaskEdit) error {
	if r.Title.Set && strings.TrimSpace(r.Title.Value) == "" {
		return apperrors.ErrTitleRequired
	}
	return nil
}

func ValidateRegistration(r *model.Registration) error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.ErrNameRequired
	}
	if strings.TrimSpace(r.Email) == "" {
		return apperrors.ErrInvalidEmail
	}
	return nil
}

func ValidateCredentials(r *model.Credentials) error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}
