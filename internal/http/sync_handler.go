package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/http/validators"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/services"
)

// SyncHandler serves the remote sync API: accounts, tokens and per-account data.
type SyncHandler struct {
	accounts *services.AccountService
}

func NewSyncHandler(accounts *services.AccountService) *SyncHandler {
	return &SyncHandler{
		accounts: accounts,
	}
}

func (h *SyncHandler) CreateAccount(c echo.Context) error {
	var req model.Registration
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateRegistration(&req); err != nil {
		return httpError(c, err)
	}

	session, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

func (h *SyncHandler) Authenticate(c echo.Context) error {
	var req model.Credentials
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateCredentials(&req); err != nil {
		return httpError(c, err)
	}

	session, err := h.accounts.Authenticate(c.Request().Context(), req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *SyncHandler) GetAccount(c echo.Context) error {
	profile, err := h.accounts.Profile(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *SyncHandler) UpdateAccount(c echo.Context) error {
	var req model.AccountUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.accounts.Update(c.Request().Context(), middleware.AccountID(c), req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *SyncHandler) DeleteAccount(c echo.Context) error {
	var req dto.DeleteAccountRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.accounts.Delete(c.Request().Context(), middleware.AccountID(c), req.Password); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SyncHandler) GetData(c echo.Context) error {
	data, err := h.accounts.Data(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *SyncHandler) PutData(c echo.Context) error {
	var req model.UserData
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ReplaceData(c.Request().Context(), middleware.AccountID(c), req); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
