package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"task-tracker.com/task-tracker/internal/auth"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	repository "task-tracker.com/task-tracker/internal/repositories"
)

// AccountService backs the sync API: accounts, tokens and the per-account data blob.
type AccountService struct {
	repo     *repository.AccountRepository
	issuer   *auth.Issuer
	defaults model.Settings
}

func NewAccountService(repo *repository.AccountRepository, issuer *auth.Issuer, defaults model.Settings) *AccountService {
	return &AccountService{
		repo:     repo,
		issuer:   issuer,
		defaults: defaults,
	}
}

func (s *AccountService) Register(ctx context.Context, reg model.Registration) (model.Session, error) {
	if err := validateRegistration(reg); err != nil {
		return model.Session{}, err
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(reg.Name),
		Email:        repository.NormalizeEmail(reg.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return model.Session{}, err
	}

	log.Printf("account %s registered", account.ID)
	return s.session(account)
}

func (s *AccountService) Authenticate(ctx context.Context, creds model.Credentials) (model.Session, error) {
	account, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return model.Session{}, apperrors.ErrInvalidCredentials
		}
		return model.Session{}, err
	}
	if !auth.CheckPassword(account.PasswordHash, creds.Password) {
		return model.Session{}, apperrors.ErrInvalidCredentials
	}
	return s.session(account)
}

func (s *AccountService) session(account *model.Account) (model.Session, error) {
	token, err := s.issuer.Issue(account.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return model.Session{Token: token, Profile: account.Profile()}, nil
}

func (s *AccountService) Profile(ctx context.Context, accountID string) (model.Profile, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return model.Profile{}, err
	}
	return account.Profile(), nil
}

func (s *AccountService) Update(ctx context.Context, accountID string, upd model.AccountUpdate) (model.Profile, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return model.Profile{}, err
	}

	previousEmail := account.Email
	if err := applyAccountUpdate(account, upd); err != nil {
		return model.Profile{}, err
	}
	if err := s.repo.Update(ctx, account, previousEmail); err != nil {
		return model.Profile{}, err
	}
	return account.Profile(), nil
}

func (s *AccountService) Delete(ctx context.Context, accountID, password string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if password == "" {
		return apperrors.ErrCurrentPasswordRequired
	}
	if !auth.CheckPassword(account.PasswordHash, password) {
		return apperrors.ErrInvalidCredentials
	}
	if err := s.repo.Delete(ctx, account); err != nil {
		return err
	}

	log.Printf("account %s deleted", account.ID)
	return nil
}

// Data returns the account's synced data, or fresh defaults before the first push.
func (s *AccountService) Data(ctx context.Context, accountID string) (model.UserData, error) {
	if _, err := s.repo.FindByID(ctx, accountID); err != nil {
		return model.UserData{}, err
	}

	data, found, err := s.repo.LoadData(ctx, accountID)
	if err != nil {
		return model.UserData{}, err
	}
	if !found {
		return model.UserData{
			Projects:       []model.Project{},
			CompletedTasks: []model.CompletedTask{},
			Settings:       s.defaults,
		}, nil
	}
	return data, nil
}

func (s *AccountService) ReplaceData(ctx context.Context, accountID string, data model.UserData) error {
	if _, err := s.repo.FindByID(ctx, accountID); err != nil {
		return err
	}
	if data.Projects == nil {
		data.Projects = []model.Project{}
	}
	if data.CompletedTasks == nil {
		data.CompletedTasks = []model.CompletedTask{}
	}
	return s.repo.SaveData(ctx, accountID, data)
}
