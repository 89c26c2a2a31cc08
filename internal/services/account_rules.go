package services

import (
	"strings"

	"task-tracker.com/task-tracker/internal/auth"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	repository "task-tracker.com/task-tracker/internal/repositories"
)

const minPasswordLength = 6

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return apperrors.ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.ErrPasswordTooShort
	}
	return nil
}

func validateRegistration(reg model.Registration) error {
	if strings.TrimSpace(reg.Name) == "" {
		return apperrors.ErrNameRequired
	}
	if err := validateEmail(reg.Email); err != nil {
		return err
	}
	return validatePassword(reg.Password)
}

// applyAccountUpdate verifies and applies upd to account in place. Name, email and
// password changes are checked against the current password.
func applyAccountUpdate(account *model.Account, upd model.AccountUpdate) error {
	if upd.RequiresPassword() {
		if upd.CurrentPassword == "" {
			return apperrors.ErrCurrentPasswordRequired
		}
		if !auth.CheckPassword(account.PasswordHash, upd.CurrentPassword) {
			return apperrors.ErrInvalidCredentials
		}
	}

	next := *account
	if upd.Name.Set {
		name := strings.TrimSpace(upd.Name.Value)
		if upd.Name.Null || name == "" {
			return apperrors.ErrNameRequired
		}
		next.Name = name
	}
	if upd.Email.Set {
		if upd.Email.Null {
			return apperrors.ErrInvalidEmail
		}
		if err := validateEmail(upd.Email.Value); err != nil {
			return err
		}
		next.Email = repository.NormalizeEmail(upd.Email.Value)
	}
	if upd.Password.Set {
		if upd.Password.Null {
			return apperrors.ErrPasswordTooShort
		}
		if err := validatePassword(upd.Password.Value); err != nil {
			return err
		}
		hash, err := auth.HashPassword(upd.Password.Value)
		if err != nil {
			return err
		}
		next.PasswordHash = hash
	}
	if upd.ProfilePicture.Set {
		if upd.ProfilePicture.Null {
			next.ProfilePicture = nil
		} else {
			picture := upd.ProfilePicture.Value
			next.ProfilePicture = &picture
		}
	}

	*account = next
	return nil
}
