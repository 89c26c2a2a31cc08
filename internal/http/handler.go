package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
	"task-tracker.com/task-tracker/internal/http/validators"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/services"
)

// Handler serves the tracker API for the signed-in user of a SessionService.
type Handler struct {
	sessions *services.SessionService
}

func NewHandler(sessions *services.SessionService) *Handler {
	return &Handler{
		sessions: sessions,
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req model.Registration
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateRegistration(&req); err != nil {
		return httpError(c, err)
	}

	session, err := h.sessions.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.Credentials
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCredentials(&req); err != nil {
		return httpError(c, err)
	}

	session, err := h.sessions.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.sessions.Current()
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) UpdateAccount(c echo.Context) error {
	var req model.AccountUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.sessions.UpdateAccount(c.Request().Context(), req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) DeleteAccount(c echo.Context) error {
	var req dto.DeleteAccountRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.sessions.DeleteAccount(c.Request().Context(), req.Password); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// withTracker runs fn against the signed-in user's tracker.
func (h *Handler) withTracker(c echo.Context, fn func(t *services.TrackerService) error) error {
	tracker, err := h.sessions.Tracker()
	if err != nil {
		return httpError(c, err)
	}
	return fn(tracker)
}

func (h *Handler) GetBoard(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		return c.JSON(http.StatusOK, t.Board(c.Request().Context()))
	})
}

func (h *Handler) ListScheduled(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		tasks := t.Scheduled()
		return c.JSON(http.StatusOK, echo.Map{
			"count": len(tasks),
			"tasks": tasks,
		})
	})
}

func (h *Handler) CreateProject(c echo.Context) error {
	var req dto.ProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateProjectRequest(&req); err != nil {
		return httpError(c, err)
	}

	return h.withTracker(c, func(t *services.TrackerService) error {
		project, err := t.AddProject(c.Request().Context(), req.Name)
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusCreated, project)
	})
}

func (h *Handler) RenameProject(c echo.Context) error {
	var req dto.ProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateProjectRequest(&req); err != nil {
		return httpError(c, err)
	}

	return h.withTracker(c, func(t *services.TrackerService) error {
		project, err := t.RenameProject(c.Request().Context(), c.Param("id"), req.Name)
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusOK, project)
	})
}

func (h *Handler) DeleteProject(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		pending, err := t.DeleteProject(c.Request().Context(), c.Param("id"))
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusAccepted, pending)
	})
}

func (h *Handler) MoveProject(c echo.Context) error {
	var req dto.MoveProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateMoveProjectRequest(&req); err != nil {
		return httpError(c, err)
	}

	return h.withTracker(c, func(t *services.TrackerService) error {
		if err := t.ReorderProject(c.Request().Context(), c.Param("id"), *req.Position); err != nil {
			return httpError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	})
}

func (h *Handler) SelectProject(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		if err := t.SelectProject(c.Request().Context(), c.Param("id")); err != nil {
			return httpError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	})
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req model.TaskInput
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateTaskInput(&req); err != nil {
		return httpError(c, err)
	}

	return h.withTracker(c, func(t *services.TrackerService) error {
		task, err := t.AddTask(c.Request().Context(), c.Param("id"), req)
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusCreated, task)
	})
}

func (h *Handler) EditTask(c echo.Context) error {
	var req model.TaskEdit
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateTaskEdit(&req); err != nil {
		return httpError(c, err)
	}

	return h.withTracker(c, func(t *services.TrackerService) error {
		task, err := t.EditTask(c.Request().Context(), c.Param("id"), c.Param("taskId"), req)
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	})
}

func (h *Handler) DeleteTask(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		pending, err := t.DeleteTask(c.Request().Context(), c.Param("id"), c.Param("taskId"))
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusAccepted, pending)
	})
}

func (h *Handler) CompleteTask(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		done, err := t.CompleteTask(c.Request().Context(), c.Param("id"), c.Param("taskId"))
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusOK, done)
	})
}

func (h *Handler) ListCompleted(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		tasks := t.CompletedTasks()
		return c.JSON(http.StatusOK, echo.Map{
			"count": len(tasks),
			"tasks": tasks,
		})
	})
}

func (h *Handler) DeleteCompleted(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		if err := t.DeleteCompletedTask(c.Request().Context(), c.Param("id")); err != nil {
			return httpError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	})
}

func (h *Handler) GetSettings(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		return c.JSON(http.StatusOK, t.Settings())
	})
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	var req model.SettingsUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	return h.withTracker(c, func(t *services.TrackerService) error {
		settings, err := t.UpdateSettings(c.Request().Context(), req)
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusOK, settings)
	})
}

func (h *Handler) Undo(c echo.Context) error {
	return h.withTracker(c, func(t *services.TrackerService) error {
		restored, err := t.Undo(c.Request().Context())
		if err != nil {
			return httpError(c, err)
		}
		return c.JSON(http.StatusOK, restored)
	})
}
