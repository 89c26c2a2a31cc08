package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
)

type DataPusher interface {
	PushData(ctx context.Context, token string, data model.UserData) error
}

// SyncSource supplies the data to push and learns which revision reached the remote.
type SyncSource interface {
	SyncSnapshot() (model.UserData, uint64)
	MarkSynced(revision uint64)
}

// SyncService pushes the user's data to the sync API after a quiet period. Each flush
// is a single attempt; failures are logged and the data stays in local storage.
type SyncService struct {
	pusher   DataPusher
	token    string
	debounce time.Duration
	source   SyncSource

	notify chan struct{}
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	mu       sync.Mutex
	offline  bool
	lastPush time.Time
}

func NewSyncService(pusher DataPusher, token string, debounce time.Duration, source SyncSource) *SyncService {
	s := &SyncService{
		pusher:   pusher,
		token:    token,
		debounce: debounce,
		source:   source,
		notify:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.loop()

	return s
}

// Notify marks the data dirty. It never blocks.
func (s *SyncService) Notify() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *SyncService) loop() {
	defer s.wg.Done()

	var (
		timer  *time.Timer
		timerC <-chan time.Time
		dirty  bool
	)

	for {
		select {
		case <-s.notify:
			dirty = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(s.debounce)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			dirty = false
			s.flush()
		case <-s.stop:
			if timer != nil {
				timer.Stop()
			}
			select {
			case <-s.notify:
				dirty = true
			default:
			}
			if dirty {
				s.flush()
			}
			return
		}
	}
}

func (s *SyncService) flush() {
	data, revision := s.source.SyncSnapshot()
	err := s.pusher.PushData(context.Background(), s.token, data)

	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()

		if errors.Is(err, apperrors.ErrRemoteUnavailable) {
			if !s.offline {
				log.Printf("sync: remote unavailable, keeping data local: %v", err)
			}
			s.offline = true
			return
		}
		log.Printf("sync: push rejected: %v", err)
		return
	}

	s.mu.Lock()
	if s.offline {
		log.Println("sync: remote reachable again")
	}
	s.offline = false
	s.lastPush = time.Now()
	s.mu.Unlock()

	s.source.MarkSynced(revision)
}

// Offline reports whether the last push attempt failed to reach the remote.
func (s *SyncService) Offline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offline
}

func (s *SyncService) LastPush() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPush
}

// Shutdown stops the loop after a final flush of pending changes.
func (s *SyncService) Shutdown(ctx context.Context) {
	s.once.Do(func() { close(s.stop) })

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("sync: shut down cleanly")
	case <-ctx.Done():
		log.Println("sync: shutdown timed out")
	}
}
