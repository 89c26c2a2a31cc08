package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-tracker.com/task-tracker/internal/calendar"
	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	repository "task-tracker.com/task-tracker/internal/repositories"
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

type trackerFixture struct {
	tracker *TrackerService
	storage *repository.StorageRepository
	timers  *fakeTimers
	clock   calendar.FixedClock
}

func newTrackerFixture(t *testing.T) *trackerFixture {
	t.Helper()
	f := &trackerFixture{
		storage: repository.NewStorageRepository(setupTestDB(t)),
		timers:  &fakeTimers{},
		clock:   calendar.FixedClock{At: day("2024-05-10").Add(9 * time.Hour)},
	}
	f.tracker = f.open(t)
	return f
}

// open builds a tracker over the fixture's storage, the way a fresh process would.
func (f *trackerFixture) open(t *testing.T) *TrackerService {
	t.Helper()
	tracker, err := NewTrackerService(context.Background(), TrackerConfig{
		Storage:   f.storage,
		Clock:     f.clock,
		AfterFunc: f.timers.AfterFunc,
		Grace:     5 * time.Second,
		AccountID: "acc-1",
		Defaults:  model.DefaultSettings(),
	}, nil)
	if err != nil {
		t.Fatalf("NewTrackerService: %v", err)
	}
	return tracker
}

func mustProject(t *testing.T, tr *TrackerService, name string) model.Project {
	t.Helper()
	p, err := tr.AddProject(context.Background(), name)
	if err != nil {
		t.Fatalf("AddProject(%q): %v", name, err)
	}
	return p
}

func mustTask(t *testing.T, tr *TrackerService, projectID string, in model.TaskInput) model.Task {
	t.Helper()
	task, err := tr.AddTask(context.Background(), projectID, in)
	if err != nil {
		t.Fatalf("AddTask(%q): %v", in.Title, err)
	}
	return task
}

func boardProjectIDs(b Board) []string {
	ids := make([]string, len(b.Projects))
	for i, p := range b.Projects {
		ids[i] = p.ID
	}
	return ids
}

func TestTrackerService_FirstProjectBecomesActive(t *testing.T) {
	f := newTrackerFixture(t)
	a := mustProject(t, f.tracker, "Home")
	mustProject(t, f.tracker, "Work")

	board := f.tracker.Board(context.Background())
	if board.ActiveProjectID != a.ID {
		t.Errorf("expected active project %s, got %s", a.ID, board.ActiveProjectID)
	}
	if !board.ManualReorder {
		t.Error("expected manual reorder with auto-rotation off")
	}

	if _, err := f.tracker.AddProject(context.Background(), "   "); !errors.Is(err, apperrors.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestTrackerService_AddTaskValidation(t *testing.T) {
	f := newTrackerFixture(t)
	p := mustProject(t, f.tracker, "Home")
	ctx := context.Background()

	task := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "  Laundry "})
	if task.Priority != constants.PriorityMedium {
		t.Errorf("expected default priority medium, got %s", task.Priority)
	}
	if task.Title != "Laundry" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}

	tests := []struct {
		name      string
		projectID string
		in        model.TaskInput
		want      error
	}{
		{"empty title", p.ID, model.TaskInput{Title: " "}, apperrors.ErrTitleRequired},
		{"bad priority", p.ID, model.TaskInput{Title: "x", Priority: "urgent"}, apperrors.ErrInvalidPriority},
		{"negative estimate", p.ID, model.TaskInput{Title: "x", EstimatedTime: intPtr(-5)}, apperrors.ErrInvalidEstimate},
		{"unknown project", "nope", model.TaskInput{Title: "x"}, apperrors.ErrProjectNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.tracker.AddTask(ctx, tt.projectID, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTrackerService_AddTaskPromotesImmediately(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	if _, err := f.tracker.UpdateSettings(ctx, model.SettingsUpdate{AutoPriorityModeEnabled: model.Some(true)}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	p := mustProject(t, f.tracker, "Home")

	task := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "Taxes", DueDate: "2024-05-10"})
	if task.Priority != constants.PriorityHigh {
		t.Fatalf("expected promotion to high, got %s", task.Priority)
	}
	if task.OriginalPriority == nil || *task.OriginalPriority != constants.PriorityMedium {
		t.Errorf("expected original priority medium, got %v", task.OriginalPriority)
	}

	edited, err := f.tracker.EditTask(ctx, p.ID, task.ID, model.TaskEdit{Priority: model.Some(constants.PriorityHigh)})
	if err != nil {
		t.Fatalf("EditTask: %v", err)
	}
	if edited.OriginalPriority != nil {
		t.Errorf("expected explicit priority to clear original, got %v", *edited.OriginalPriority)
	}

	if _, err := f.tracker.UpdateSettings(ctx, model.SettingsUpdate{AutoPriorityModeEnabled: model.Some(false)}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	board := f.tracker.Board(ctx)
	if len(board.Columns.High) != 1 {
		t.Errorf("expected the user-chosen high priority to stick, got columns %+v", board.Columns)
	}
}

func TestTrackerService_EditTaskClearsDates(t *testing.T) {
	f := newTrackerFixture(t)
	p := mustProject(t, f.tracker, "Home")
	task := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "Plan", ScheduledDate: "2024-06-01", EstimatedTime: intPtr(30)})

	edited, err := f.tracker.EditTask(context.Background(), p.ID, task.ID, model.TaskEdit{
		ScheduledDate: model.Null[string](),
		EstimatedTime: model.Null[int](),
	})
	if err != nil {
		t.Fatalf("EditTask: %v", err)
	}
	if edited.ScheduledDate != "" || edited.EstimatedTime != nil {
		t.Errorf("expected cleared fields, got %+v", edited)
	}
	if edited.Title != "Plan" {
		t.Errorf("expected untouched title, got %q", edited.Title)
	}

	if _, err := f.tracker.EditTask(context.Background(), p.ID, task.ID, model.TaskEdit{Title: model.Some("")}); !errors.Is(err, apperrors.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
}

func TestTrackerService_ScheduledTasksStayOffBoard(t *testing.T) {
	f := newTrackerFixture(t)
	p := mustProject(t, f.tracker, "Home")
	mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "Later", ScheduledDate: "2024-05-11"})
	mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "Now", ScheduledDate: "2024-05-10"})

	board := f.tracker.Board(context.Background())
	if n := len(board.Columns.Medium); n != 1 {
		t.Fatalf("expected 1 visible task, got %d", n)
	}
	if board.Projects[0].TaskCount != 1 {
		t.Errorf("expected task count 1, got %d", board.Projects[0].TaskCount)
	}

	scheduled := f.tracker.Scheduled()
	if len(scheduled) != 1 || scheduled[0].Task.Title != "Later" {
		t.Errorf("expected only the future task scheduled, got %+v", scheduled)
	}
}

func TestTrackerService_DeleteProjectUndoRestoresPosition(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	a := mustProject(t, f.tracker, "A")
	b := mustProject(t, f.tracker, "B")
	c := mustProject(t, f.tracker, "C")

	if _, err := f.tracker.DeleteProject(ctx, b.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	board := f.tracker.Board(ctx)
	if !equalIDs(boardProjectIDs(board), []string{a.ID, c.ID}) {
		t.Errorf("expected B hidden, got %v", boardProjectIDs(board))
	}
	if board.Pending == nil || board.Pending.ProjectID != b.ID {
		t.Fatalf("expected pending deletion of B, got %+v", board.Pending)
	}

	restored, err := f.tracker.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if restored.Kind != DeletionProject {
		t.Errorf("expected project undo, got %s", restored.Kind)
	}
	board = f.tracker.Board(ctx)
	if !equalIDs(boardProjectIDs(board), []string{a.ID, b.ID, c.ID}) {
		t.Errorf("expected original order, got %v", boardProjectIDs(board))
	}

	// The timer firing after undo must not delete anything.
	f.timers.Fire(0)
	if n := len(f.tracker.Board(ctx).Projects); n != 3 {
		t.Errorf("expected 3 projects after late timer, got %d", n)
	}
	if _, err := f.tracker.Undo(ctx); !errors.Is(err, apperrors.ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestTrackerService_ExpiredProjectDeletionReassignsActive(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	a := mustProject(t, f.tracker, "A")
	b := mustProject(t, f.tracker, "B")
	c := mustProject(t, f.tracker, "C")
	if err := f.tracker.SelectProject(ctx, b.ID); err != nil {
		t.Fatalf("SelectProject: %v", err)
	}

	if _, err := f.tracker.DeleteProject(ctx, b.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	// Until the grace period ends the project is still in storage.
	reopened := f.open(t).Snapshot()
	if len(reopened.Projects) != 3 {
		t.Fatalf("expected pending project kept in storage, got %d projects", len(reopened.Projects))
	}

	f.timers.Fire(0)

	board := f.tracker.Board(ctx)
	if board.ActiveProjectID != c.ID {
		t.Errorf("expected active project %s, got %s", c.ID, board.ActiveProjectID)
	}
	if board.Pending != nil {
		t.Errorf("expected no pending deletion, got %+v", board.Pending)
	}

	stored := f.open(t).Snapshot()
	if !equalIDs(projectIDs(stored.Projects), []string{a.ID, c.ID}) {
		t.Errorf("expected committed deletion in storage, got %v", projectIDs(stored.Projects))
	}
	if stored.ActiveProjectID != c.ID {
		t.Errorf("expected stored active project %s, got %s", c.ID, stored.ActiveProjectID)
	}
}

func TestTrackerService_SecondTaskDeletionCommitsFirst(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	p := mustProject(t, f.tracker, "Home")
	first := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "one"})
	second := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "two"})

	if _, err := f.tracker.DeleteTask(ctx, p.ID, first.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := f.tracker.DeleteTask(ctx, p.ID, second.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	restored, err := f.tracker.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if restored.Task.ID != second.ID {
		t.Errorf("expected second task restored, got %s", restored.Task.ID)
	}
	if _, err := f.tracker.Undo(ctx); !errors.Is(err, apperrors.ErrNothingToUndo) {
		t.Errorf("expected first deletion already committed, got %v", err)
	}

	stored := f.open(t).Snapshot()
	if !equalIDs(taskIDs(stored.Projects[0].Tasks), []string{second.ID}) {
		t.Errorf("expected only second task stored, got %v", taskIDs(stored.Projects[0].Tasks))
	}
}

func TestTrackerService_KindsUndoMostRecentFirst(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	p := mustProject(t, f.tracker, "Home")
	task := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "one"})

	if _, err := f.tracker.DeleteTask(ctx, p.ID, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := f.tracker.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	if d, err := f.tracker.Undo(ctx); err != nil || d.Kind != DeletionProject {
		t.Fatalf("expected project undone first, got %v, %v", d.Kind, err)
	}
	if d, err := f.tracker.Undo(ctx); err != nil || d.Kind != DeletionTask {
		t.Fatalf("expected task undone second, got %v, %v", d.Kind, err)
	}

	snap := f.tracker.Snapshot()
	if len(snap.Projects) != 1 || len(snap.Projects[0].Tasks) != 1 {
		t.Errorf("expected project and task restored, got %+v", snap.Projects)
	}
}

func TestTrackerService_PendingTaskInsidePendingProjectIsPersisted(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	mustProject(t, f.tracker, "Work")
	p := mustProject(t, f.tracker, "Home")
	task := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "one"})

	if _, err := f.tracker.DeleteTask(ctx, p.ID, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := f.tracker.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	for name, snap := range map[string]model.UserData{
		"snapshot": f.tracker.Snapshot(),
		"storage":  f.open(t).Snapshot(),
	} {
		if len(snap.Projects) != 2 || snap.Projects[1].ID != p.ID {
			t.Fatalf("%s: expected pending project at index 1, got %+v", name, snap.Projects)
		}
		if tasks := snap.Projects[1].Tasks; len(tasks) != 1 || tasks[0].ID != task.ID {
			t.Errorf("%s: expected pending task kept, got %+v", name, tasks)
		}
	}
}

func TestTrackerService_TaskUndoWithoutProject(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	p := mustProject(t, f.tracker, "Home")
	task := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "one"})

	if _, err := f.tracker.DeleteTask(ctx, p.ID, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := f.tracker.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	f.timers.Fire(1)

	if _, err := f.tracker.Undo(ctx); !errors.Is(err, apperrors.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
	if len(f.tracker.Snapshot().Projects) != 0 {
		t.Error("expected nothing left in the snapshot")
	}
}

func TestTrackerService_CompleteTask(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	p := mustProject(t, f.tracker, "Home")
	first := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "one"})
	second := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "two"})

	if _, err := f.tracker.CompleteTask(ctx, p.ID, first.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	f.clock.At = f.clock.At.Add(time.Minute)
	f.tracker.clock = f.clock
	done, err := f.tracker.CompleteTask(ctx, p.ID, second.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if done.ProjectName != "Home" {
		t.Errorf("expected project name recorded, got %q", done.ProjectName)
	}

	history := f.tracker.CompletedTasks()
	if len(history) != 2 || history[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", history)
	}
	if n := len(f.tracker.Snapshot().Projects[0].Tasks); n != 0 {
		t.Errorf("expected tasks moved off the board, got %d", n)
	}

	if err := f.tracker.DeleteCompletedTask(ctx, first.ID); err != nil {
		t.Fatalf("DeleteCompletedTask: %v", err)
	}
	if err := f.tracker.DeleteCompletedTask(ctx, first.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if n := len(f.open(t).CompletedTasks()); n != 1 {
		t.Errorf("expected 1 stored completed task, got %d", n)
	}
}

func TestTrackerService_ReorderProject(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	a := mustProject(t, f.tracker, "A")
	b := mustProject(t, f.tracker, "B")
	c := mustProject(t, f.tracker, "C")

	if err := f.tracker.ReorderProject(ctx, c.ID, 0); err != nil {
		t.Fatalf("ReorderProject: %v", err)
	}
	if got := boardProjectIDs(f.tracker.Board(ctx)); !equalIDs(got, []string{c.ID, a.ID, b.ID}) {
		t.Errorf("unexpected order %v", got)
	}
	if err := f.tracker.ReorderProject(ctx, a.ID, 3); !errors.Is(err, apperrors.ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}

	if _, err := f.tracker.UpdateSettings(ctx, model.SettingsUpdate{AutoRotationEnabled: model.Some(true)}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if err := f.tracker.ReorderProject(ctx, a.ID, 0); !errors.Is(err, apperrors.ErrAutoRotationActive) {
		t.Errorf("expected ErrAutoRotationActive, got %v", err)
	}
	if f.tracker.Board(ctx).ManualReorder {
		t.Error("expected manual reorder disabled under auto-rotation")
	}
}

func TestTrackerService_UpdateSettingsValidation(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	if _, err := f.tracker.UpdateSettings(ctx, model.SettingsUpdate{AutoPriorityHours: model.Some(0)}); !errors.Is(err, apperrors.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings for zero hours, got %v", err)
	}
	if _, err := f.tracker.UpdateSettings(ctx, model.SettingsUpdate{AutoPriorityDays: model.Some([]time.Weekday{7})}); !errors.Is(err, apperrors.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings for weekday 7, got %v", err)
	}

	updated, err := f.tracker.UpdateSettings(ctx, model.SettingsUpdate{
		Theme:            model.Some("dark"),
		AutoPriorityDays: model.Some([]time.Weekday{time.Friday}),
	})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if updated.Theme != "dark" || updated.AutoPriorityHours != 24 {
		t.Errorf("unexpected settings %+v", updated)
	}
	if got := f.open(t).Settings(); got.Theme != "dark" || !got.HasPriorityDay(time.Friday) {
		t.Errorf("expected settings persisted, got %+v", got)
	}
}

func TestTrackerService_CloseCommitsPending(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	p := mustProject(t, f.tracker, "Home")
	task := mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "one"})
	if _, err := f.tracker.DeleteTask(ctx, p.ID, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	if err := f.tracker.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := len(f.open(t).Snapshot().Projects[0].Tasks); n != 0 {
		t.Errorf("expected deletion committed on close, got %d tasks", n)
	}
}

func TestTrackerService_ClosedRejectsMutations(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	p := mustProject(t, f.tracker, "Home")

	f.tracker.Discard()

	if _, err := f.tracker.AddProject(ctx, "Work"); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Errorf("AddProject: expected ErrNotLoggedIn, got %v", err)
	}
	if _, err := f.tracker.AddTask(ctx, p.ID, model.TaskInput{Title: "x"}); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Errorf("AddTask: expected ErrNotLoggedIn, got %v", err)
	}
	if _, err := f.tracker.UpdateSettings(ctx, model.SettingsUpdate{Theme: model.Some("dark")}); !errors.Is(err, apperrors.ErrNotLoggedIn) {
		t.Errorf("UpdateSettings: expected ErrNotLoggedIn, got %v", err)
	}
	if n := len(f.open(t).Snapshot().Projects); n != 1 {
		t.Errorf("expected storage untouched, got %d projects", n)
	}
}

func TestTrackerService_UnsyncedUntilLatestRevisionPushed(t *testing.T) {
	f := newTrackerFixture(t)
	if f.tracker.Unsynced() {
		t.Fatal("expected a fresh tracker to be synced")
	}

	p := mustProject(t, f.tracker, "Home")
	_, first := f.tracker.SyncSnapshot()
	mustTask(t, f.tracker, p.ID, model.TaskInput{Title: "later"})

	f.tracker.MarkSynced(first)
	if !f.tracker.Unsynced() {
		t.Error("a stale revision must not clear the marker")
	}

	_, latest := f.tracker.SyncSnapshot()
	f.tracker.MarkSynced(latest)
	if f.tracker.Unsynced() {
		t.Error("expected marker cleared by the latest revision")
	}
	if f.open(t).Unsynced() {
		t.Error("expected cleared marker in storage")
	}
}

func TestTrackerService_OnChangeAndConcurrency(t *testing.T) {
	f := newTrackerFixture(t)
	p := mustProject(t, f.tracker, "Home")

	var mu sync.Mutex
	changes := 0
	f.tracker.OnChange(func() {
		mu.Lock()
		changes++
		mu.Unlock()
	})

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := f.tracker.AddTask(context.Background(), p.ID, model.TaskInput{Title: "t"}); err != nil {
				t.Errorf("AddTask: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(f.tracker.Snapshot().Projects[0].Tasks); got != n {
		t.Errorf("expected %d tasks, got %d", n, got)
	}
	mu.Lock()
	defer mu.Unlock()
	if changes != n {
		t.Errorf("expected %d change notifications, got %d", n, changes)
	}
}

func TestTrackerService_SaveFailureKeepsChange(t *testing.T) {
	f := newTrackerFixture(t)
	p := mustProject(t, f.tracker, "Home")

	f.tracker.storage = failingStorage{}
	if _, err := f.tracker.RenameProject(context.Background(), p.ID, "House"); !errors.Is(err, apperrors.ErrCouldNotSave) {
		t.Errorf("expected ErrCouldNotSave, got %v", err)
	}
	if got := f.tracker.Snapshot().Projects[0].Name; got != "House" {
		t.Errorf("expected in-memory rename to stick, got %q", got)
	}
}

type failingStorage struct{}

func (failingStorage) Load(ctx context.Context, key string, dst any) (bool, error) {
	return false, nil
}

func (failingStorage) Save(ctx context.Context, key string, value any) error {
	return apperrors.ErrCouldNotSave
}
