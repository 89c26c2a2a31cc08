package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&model.StorageEntry{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestStorageRepository_LoadMissingKeepsDefault(t *testing.T) {
	repo := NewStorageRepository(setupTestDB(t))

	settings := model.DefaultSettings()
	found, err := repo.Load(context.Background(), "user:a@b.c:settings", &settings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Error("expected not found")
	}
	if settings.AutoPriorityHours != 24 {
		t.Errorf("default overwritten: %+v", settings)
	}
}

// errorLogger records the errors gorm reports for each statement.
type errorLogger struct {
	logger.Interface
	mu   sync.Mutex
	errs []error
}

func (l *errorLogger) LogMode(logger.LogLevel) logger.Interface { return l }

func (l *errorLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func TestStorageRepository_MissingKeyIsNotAnError(t *testing.T) {
	recorder := &errorLogger{Interface: logger.Discard}
	db := setupTestDB(t).Session(&gorm.Session{Logger: recorder})
	repo := NewStorageRepository(db)
	ctx := context.Background()

	var settings model.Settings
	if found, err := repo.Load(ctx, "user:nobody:settings", &settings); err != nil || found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if version, err := repo.Version(ctx, "user:nobody:settings"); err != nil || version != 0 {
		t.Fatalf("Version: %d, %v", version, err)
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.errs) != 0 {
		t.Errorf("expected no logged errors, got %v", recorder.errs)
	}
}

func TestStorageRepository_SaveAndLoad(t *testing.T) {
	repo := NewStorageRepository(setupTestDB(t))
	ctx := context.Background()

	projects := []model.Project{{ID: "p1", Name: "Home", Tasks: []model.Task{{ID: "t1", Title: "Dishes"}}}}
	if err := repo.Save(ctx, "projects", projects); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var got []model.Project
	found, err := repo.Load(ctx, "projects", &got)
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if len(got) != 1 || got[0].Tasks[0].Title != "Dishes" {
		t.Errorf("got %+v", got)
	}
}

func TestStorageRepository_SaveBumpsVersion(t *testing.T) {
	repo := NewStorageRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, "settings", model.DefaultSettings()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	version, err := repo.Version(ctx, "settings")
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != 3 {
		t.Errorf("version = %d, want 3", version)
	}
}

func TestStorageRepository_UnreadableValueFallsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStorageRepository(db)
	ctx := context.Background()

	if err := db.Create(&model.StorageEntry{Key: "projects", Value: "{not json", Version: 1}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	var got []model.Project
	found, err := repo.Load(ctx, "projects", &got)
	if err != nil || found {
		t.Errorf("found=%v err=%v, want default", found, err)
	}
}

func TestStorageRepository_SaveFailureIsCouldNotSave(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStorageRepository(db)

	sqlDB, _ := db.DB()
	_ = sqlDB.Close()

	err := repo.Save(context.Background(), "projects", []model.Project{})
	if !errors.Is(err, apperrors.ErrCouldNotSave) {
		t.Errorf("err = %v, want ErrCouldNotSave", err)
	}
}

func TestStorageRepository_Delete(t *testing.T) {
	repo := NewStorageRepository(setupTestDB(t))
	ctx := context.Background()

	_ = repo.Save(ctx, "a", 1)
	_ = repo.Save(ctx, "b", 2)
	if err := repo.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var v int
	if found, _ := repo.Load(ctx, "a", &v); found {
		t.Error("a still present")
	}
}
