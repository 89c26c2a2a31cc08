package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "task-tracker.com/task-tracker/internal/errors"
	"task-tracker.com/task-tracker/internal/kv"
	model "task-tracker.com/task-tracker/internal/models"
)

// AccountRepository keeps accounts and their synced data in the sync API's key-value
// store. An email index key maps each normalized email to its account id.
type AccountRepository struct {
	store kv.Store
}

func NewAccountRepository(store kv.Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func accountKey(id string) string {
	return "account:" + id
}

func emailKey(email string) string {
	return "account-email:" + NormalizeEmail(email)
}

func dataKey(id string) string {
	return "data:" + id
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	claimed, err := r.store.SetNX(ctx, emailKey(account.Email), account.ID)
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !claimed {
		return apperrors.ErrEmailTaken
	}

	if err := r.put(ctx, account); err != nil {
		_ = r.store.Del(ctx, emailKey(account.Email))
		return err
	}
	return nil
}

func (r *AccountRepository) put(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}
	if err := r.store.Set(ctx, accountKey(account.ID), string(data)); err != nil {
		return fmt.Errorf("failed to store account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	raw, err := r.store.Get(ctx, accountKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	var account model.Account
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", id, err)
	}
	return &account, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	id, err := r.store.Get(ctx, emailKey(email))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	return r.FindByID(ctx, id)
}

// Update stores account. When its email differs from previousEmail the new address is
// claimed first and the old index entry released afterwards.
func (r *AccountRepository) Update(ctx context.Context, account *model.Account, previousEmail string) error {
	emailChanged := NormalizeEmail(account.Email) != NormalizeEmail(previousEmail)
	if emailChanged {
		claimed, err := r.store.SetNX(ctx, emailKey(account.Email), account.ID)
		if err != nil {
			return fmt.Errorf("failed to claim email: %w", err)
		}
		if !claimed {
			return apperrors.ErrEmailTaken
		}
	}

	if err := r.put(ctx, account); err != nil {
		if emailChanged {
			_ = r.store.Del(ctx, emailKey(account.Email))
		}
		return err
	}

	if emailChanged {
		if err := r.store.Del(ctx, emailKey(previousEmail)); err != nil {
			return fmt.Errorf("failed to release old email: %w", err)
		}
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, account *model.Account) error {
	if err := r.store.Del(ctx, accountKey(account.ID), emailKey(account.Email), dataKey(account.ID)); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// LoadData returns the synced data of an account; found is false if nothing was pushed yet.
func (r *AccountRepository) LoadData(ctx context.Context, id string) (model.UserData, bool, error) {
	var data model.UserData
	raw, err := r.store.Get(ctx, dataKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return data, false, nil
	}
	if err != nil {
		return data, false, fmt.Errorf("failed to load data: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return data, false, fmt.Errorf("failed to decode data: %w", err)
	}
	return data, true, nil
}

func (r *AccountRepository) SaveData(ctx context.Context, id string, data model.UserData) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}
	if err := r.store.Set(ctx, dataKey(id), string(encoded)); err != nil {
		return fmt.Errorf("failed to store data: %w", err)
	}
	return nil
}
