package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"task-tracker.com/task-tracker/internal/auth"
	"task-tracker.com/task-tracker/internal/calendar"
	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	repository "task-tracker.com/task-tracker/internal/repositories"
)

type RemoteClient interface {
	DataPusher
	Register(ctx context.Context, reg model.Registration) (model.Session, error)
	Login(ctx context.Context, creds model.Credentials) (model.Session, error)
	UpdateAccount(ctx context.Context, token string, upd model.AccountUpdate) (model.Profile, error)
	DeleteAccount(ctx context.Context, token, password string) error
	FetchData(ctx context.Context, token string) (model.UserData, error)
}

type SessionStorage interface {
	LocalStorage
	Delete(ctx context.Context, keys ...string) error
}

type SessionConfig struct {
	Storage   SessionStorage
	Remote    RemoteClient
	Clock     calendar.Clock
	AfterFunc AfterFunc
	Grace     time.Duration
	Debounce  time.Duration
	Defaults  model.Settings
}

// accountDirectory is the locally cached account list, keyed by normalized email.
type accountDirectory map[string]model.Account

type activeSession struct {
	session model.Session
	tracker *TrackerService
	sync    *SyncService
}

// SessionService runs the account flows for the tracker application. Each flow tries
// the sync API first and falls back to the local account directory when the API is
// unavailable. Logging in starts a TrackerService for that account.
type SessionService struct {
	mu      sync.Mutex
	cfg     SessionConfig
	current *activeSession
}

func NewSessionService(cfg SessionConfig) *SessionService {
	if cfg.Clock == nil {
		cfg.Clock = calendar.SystemClock{}
	}
	return &SessionService{cfg: cfg}
}

func (s *SessionService) Register(ctx context.Context, reg model.Registration) (model.Session, error) {
	if err := validateRegistration(reg); err != nil {
		return model.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.cfg.Remote.Register(ctx, reg)
	switch {
	case err == nil:
		if err := s.cacheAccount(ctx, session.Profile, reg.Password); err != nil {
			return model.Session{}, err
		}
	case errors.Is(err, apperrors.ErrRemoteUnavailable):
		log.Printf("session: sync API unavailable, registering %s locally", repository.NormalizeEmail(reg.Email))
		session, err = s.registerLocal(ctx, reg)
		if err != nil {
			return model.Session{}, err
		}
	default:
		return model.Session{}, err
	}

	return s.startLocked(ctx, session)
}

func (s *SessionService) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.cfg.Remote.Login(ctx, creds)
	switch {
	case err == nil:
		if err := s.cacheAccount(ctx, session.Profile, creds.Password); err != nil {
			return model.Session{}, err
		}
	case errors.Is(err, apperrors.ErrRemoteUnavailable):
		session, err = s.loginLocal(ctx, creds)
		if err != nil {
			return model.Session{}, err
		}
	default:
		return model.Session{}, err
	}

	return s.startLocked(ctx, session)
}

// Restore resumes the session saved by the last login, if any.
func (s *SessionService) Restore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var session model.Session
	found, err := s.cfg.Storage.Load(ctx, constants.KeySession, &session)
	if err != nil || !found || session.Profile.ID == "" {
		return false, err
	}
	if _, err := s.startLocked(ctx, session); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SessionService) loadDirectory(ctx context.Context) (accountDirectory, error) {
	dir := accountDirectory{}
	if _, err := s.cfg.Storage.Load(ctx, constants.KeyAccounts, &dir); err != nil {
		return nil, err
	}
	return dir, nil
}

func (s *SessionService) registerLocal(ctx context.Context, reg model.Registration) (model.Session, error) {
	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return model.Session{}, err
	}
	email := repository.NormalizeEmail(reg.Email)
	if _, taken := dir[email]; taken {
		return model.Session{}, apperrors.ErrEmailTaken
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}
	account := model.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(reg.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.cfg.Clock.Now().UTC(),
	}
	dir[email] = account
	if err := s.cfg.Storage.Save(ctx, constants.KeyAccounts, dir); err != nil {
		return model.Session{}, err
	}

	return model.Session{Profile: account.Profile(), Offline: true}, nil
}

func (s *SessionService) loginLocal(ctx context.Context, creds model.Credentials) (model.Session, error) {
	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return model.Session{}, err
	}
	account, ok := dir[repository.NormalizeEmail(creds.Email)]
	if !ok || !auth.CheckPassword(account.PasswordHash, creds.Password) {
		return model.Session{}, apperrors.ErrInvalidCredentials
	}

	log.Printf("session: sync API unavailable, %s logged in offline", account.ID)
	return model.Session{Profile: account.Profile(), Offline: true}, nil
}

// cacheAccount mirrors a remotely confirmed account into the local directory so the
// same credentials work while the sync API is down.
func (s *SessionService) cacheAccount(ctx context.Context, profile model.Profile, password string) error {
	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return err
	}

	account := dir[repository.NormalizeEmail(profile.Email)]
	if account.CreatedAt.IsZero() {
		account.CreatedAt = s.cfg.Clock.Now().UTC()
	}
	if password != "" && !auth.CheckPassword(account.PasswordHash, password) {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = hash
	}
	account.ID = profile.ID
	account.Name = profile.Name
	account.Email = repository.NormalizeEmail(profile.Email)
	account.ProfilePicture = profile.ProfilePicture

	for email, cached := range dir {
		if cached.ID == account.ID && email != account.Email {
			delete(dir, email)
		}
	}
	dir[account.Email] = account
	return s.cfg.Storage.Save(ctx, constants.KeyAccounts, dir)
}

// startLocked replaces any running session with session and opens its tracker.
func (s *SessionService) startLocked(ctx context.Context, session model.Session) (model.Session, error) {
	if s.current != nil {
		s.stopLocked(ctx)
	}

	unsynced := s.hasUnsyncedChanges(ctx, session.Profile.ID)
	var data *model.UserData
	if !unsynced {
		data = s.fetchData(ctx, session)
	}
	tracker, err := NewTrackerService(ctx, TrackerConfig{
		Storage:   s.cfg.Storage,
		Clock:     s.cfg.Clock,
		AfterFunc: s.cfg.AfterFunc,
		Grace:     s.cfg.Grace,
		AccountID: session.Profile.ID,
		Defaults:  s.cfg.Defaults,
	}, data)
	if err != nil {
		return model.Session{}, err
	}

	active := &activeSession{session: session, tracker: tracker}
	if !session.Offline && session.Token != "" {
		active.sync = NewSyncService(s.cfg.Remote, session.Token, s.cfg.Debounce, tracker)
		tracker.OnChange(active.sync.Notify)
		if unsynced {
			log.Printf("session: keeping unsynced local data for %s", session.Profile.ID)
			active.sync.Notify()
		}
	}
	s.current = active

	if err := s.cfg.Storage.Save(ctx, constants.KeySession, session); err != nil {
		log.Printf("session: failed to remember session: %v", err)
	}
	log.Printf("session: %s started (offline=%t)", session.Profile.ID, session.Offline)
	return session, nil
}

// hasUnsyncedChanges reports whether the account's local data holds changes that never
// reached the sync API. Such data wins over the remote copy.
func (s *SessionService) hasUnsyncedChanges(ctx context.Context, accountID string) bool {
	var unsynced bool
	if _, err := s.cfg.Storage.Load(ctx, constants.UserKey(accountID, constants.KeyUnsynced), &unsynced); err != nil {
		log.Printf("session: reading sync marker for %s: %v", accountID, err)
		return true
	}
	return unsynced
}

// fetchData returns the synced data, or nil to use local storage.
func (s *SessionService) fetchData(ctx context.Context, session model.Session) *model.UserData {
	if session.Offline || session.Token == "" {
		return nil
	}
	data, err := s.cfg.Remote.FetchData(ctx, session.Token)
	if err != nil {
		log.Printf("session: using local data for %s: %v", session.Profile.ID, err)
		return nil
	}
	return &data
}

func (s *SessionService) stopLocked(ctx context.Context) {
	active := s.current
	s.current = nil

	if err := active.tracker.Close(ctx); err != nil {
		log.Printf("session: closing tracker for %s: %v", active.session.Profile.ID, err)
	}
	if active.sync != nil {
		active.sync.Shutdown(ctx)
	}
	log.Printf("session: %s stopped", active.session.Profile.ID)
}

func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return apperrors.ErrNotLoggedIn
	}
	s.stopLocked(ctx)
	return s.cfg.Storage.Delete(ctx, constants.KeySession)
}

// Close ends the running session, if any, committing pending deletions and flushing
// the sync queue. The saved session is kept so the next start resumes it.
func (s *SessionService) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.stopLocked(ctx)
	}
}

func (s *SessionService) Current() (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.Session{}, apperrors.ErrNotLoggedIn
	}
	return s.current.session, nil
}

func (s *SessionService) Tracker() (*TrackerService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, apperrors.ErrNotLoggedIn
	}
	return s.current.tracker, nil
}

func (s *SessionService) UpdateAccount(ctx context.Context, upd model.AccountUpdate) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.Profile{}, apperrors.ErrNotLoggedIn
	}
	session := s.current.session

	if !session.Offline {
		profile, err := s.cfg.Remote.UpdateAccount(ctx, session.Token, upd)
		switch {
		case err == nil:
			password := ""
			if upd.Password.HasValue() {
				password = upd.Password.Value
			}
			if err := s.cacheAccount(ctx, profile, password); err != nil {
				log.Printf("session: caching updated account: %v", err)
			}
			return s.setProfileLocked(ctx, profile), nil
		case !errors.Is(err, apperrors.ErrRemoteUnavailable):
			return model.Profile{}, err
		}
		log.Printf("session: sync API unavailable, updating %s locally", session.Profile.ID)
	}

	profile, err := s.updateLocal(ctx, session.Profile, upd)
	if err != nil {
		return model.Profile{}, err
	}
	return s.setProfileLocked(ctx, profile), nil
}

func (s *SessionService) updateLocal(ctx context.Context, current model.Profile, upd model.AccountUpdate) (model.Profile, error) {
	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	account, ok := dir[repository.NormalizeEmail(current.Email)]
	if !ok {
		return model.Profile{}, apperrors.ErrAccountNotFound
	}

	previousEmail := account.Email
	if err := applyAccountUpdate(&account, upd); err != nil {
		return model.Profile{}, err
	}
	if account.Email != previousEmail {
		if _, taken := dir[account.Email]; taken {
			return model.Profile{}, apperrors.ErrEmailTaken
		}
		delete(dir, previousEmail)
	}
	dir[account.Email] = account

	if err := s.cfg.Storage.Save(ctx, constants.KeyAccounts, dir); err != nil {
		return model.Profile{}, err
	}
	return account.Profile(), nil
}

func (s *SessionService) setProfileLocked(ctx context.Context, profile model.Profile) model.Profile {
	s.current.session.Profile = profile
	if err := s.cfg.Storage.Save(ctx, constants.KeySession, s.current.session); err != nil {
		log.Printf("session: failed to remember session: %v", err)
	}
	return profile
}

// DeleteAccount removes the account remotely when possible, then its local directory
// entry and data, and ends the session.
func (s *SessionService) DeleteAccount(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return apperrors.ErrNotLoggedIn
	}
	if password == "" {
		return apperrors.ErrCurrentPasswordRequired
	}
	session := s.current.session

	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return err
	}
	email := repository.NormalizeEmail(session.Profile.Email)
	account, cached := dir[email]

	remoteDeleted := false
	if !session.Offline {
		err := s.cfg.Remote.DeleteAccount(ctx, session.Token, password)
		switch {
		case err == nil:
			remoteDeleted = true
		case !errors.Is(err, apperrors.ErrRemoteUnavailable):
			return err
		}
	}
	if !remoteDeleted && cached && !auth.CheckPassword(account.PasswordHash, password) {
		return apperrors.ErrInvalidCredentials
	}

	active := s.current
	s.current = nil
	active.tracker.Discard()
	if active.sync != nil {
		active.sync.Shutdown(ctx)
	}

	delete(dir, email)
	keys := []string{constants.KeySession}
	for _, k := range constants.UserKeys {
		keys = append(keys, constants.UserKey(session.Profile.ID, k))
	}
	if err := s.cfg.Storage.Save(ctx, constants.KeyAccounts, dir); err != nil {
		return err
	}
	if err := s.cfg.Storage.Delete(ctx, keys...); err != nil {
		return err
	}

	log.Printf("session: account %s deleted", session.Profile.ID)
	return nil
}
