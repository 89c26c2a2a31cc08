package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"task-tracker.com/task-tracker/internal/calendar"
	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
)

// LocalStorage is the key-value storage the tracker persists into.
type LocalStorage interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

type TrackerConfig struct {
	Storage LocalStorage
	Clock   calendar.Clock
	// AfterFunc arms undo grace timers; nil uses time.AfterFunc.
	AfterFunc AfterFunc
	Grace     time.Duration
	// AccountID scopes every storage key.
	AccountID string
	Defaults  model.Settings
}

// TrackerService owns one account's projects, completed tasks and settings. Every
// mutation runs under a single lock, reconciles priorities against one "today", saves
// the affected keys locally and then signals the change listener.
type TrackerService struct {
	mu        sync.Mutex
	storage   LocalStorage
	clock     calendar.Clock
	accountID string
	undo      *UndoCoordinator
	onChange  func()

	projects        []model.Project
	completed       []model.CompletedTask
	settings        model.Settings
	activeProjectID string

	// revision counts local changes; unsynced stays set until a push of the
	// latest revision succeeds.
	revision  uint64
	unsynced  bool
	closed    bool
	discarded bool
}

// NewTrackerService builds the tracker from data when given (for example fetched from
// the sync API, then saved locally), otherwise from local storage.
func NewTrackerService(ctx context.Context, cfg TrackerConfig, data *model.UserData) (*TrackerService, error) {
	if cfg.Clock == nil {
		cfg.Clock = calendar.SystemClock{}
	}

	s := &TrackerService{
		storage:   cfg.Storage,
		clock:     cfg.Clock,
		accountID: cfg.AccountID,
		settings:  cfg.Defaults,
	}
	s.undo = NewUndoCoordinator(cfg.Grace, cfg.AfterFunc, s.commitExpired)

	keys := []string{}
	if data != nil {
		s.projects = data.Projects
		s.completed = data.CompletedTasks
		s.settings = data.Settings
		s.activeProjectID = data.ActiveProjectID
		keys = append(keys, constants.UserKeys...)
	} else if err := s.load(ctx); err != nil {
		return nil, err
	}

	s.normalize()
	if ReconcilePriorities(s.projects, s.settings, calendar.Today(s.clock)) > 0 {
		keys = append(keys, constants.KeyProjects)
	}
	if err := s.persistLocked(ctx, keys...); err != nil {
		log.Printf("tracker: initial save for %s failed: %v", s.accountID, err)
	}
	return s, nil
}

func (s *TrackerService) key(name string) string {
	return constants.UserKey(s.accountID, name)
}

func (s *TrackerService) load(ctx context.Context) error {
	if _, err := s.storage.Load(ctx, s.key(constants.KeyProjects), &s.projects); err != nil {
		return err
	}
	if _, err := s.storage.Load(ctx, s.key(constants.KeyCompletedTasks), &s.completed); err != nil {
		return err
	}
	if _, err := s.storage.Load(ctx, s.key(constants.KeySettings), &s.settings); err != nil {
		return err
	}
	if _, err := s.storage.Load(ctx, s.key(constants.KeyActiveProject), &s.activeProjectID); err != nil {
		return err
	}
	if _, err := s.storage.Load(ctx, s.key(constants.KeyUnsynced), &s.unsynced); err != nil {
		return err
	}
	return nil
}

func (s *TrackerService) normalize() {
	if s.projects == nil {
		s.projects = []model.Project{}
	}
	for i := range s.projects {
		if s.projects[i].Tasks == nil {
			s.projects[i].Tasks = []model.Task{}
		}
	}
	if s.completed == nil {
		s.completed = []model.CompletedTask{}
	}
	if s.settings.AutoPriorityHours <= 0 {
		s.settings.AutoPriorityHours = model.DefaultSettings().AutoPriorityHours
	}
	if s.projectIndexLocked(s.activeProjectID) < 0 {
		s.activeProjectID = ""
		if len(s.projects) > 0 {
			s.activeProjectID = s.projects[0].ID
		}
	}
}

// OnChange registers fn to run after every saved change, typically SyncService.Notify.
func (s *TrackerService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *TrackerService) openLocked() error {
	if s.closed {
		return apperrors.ErrNotLoggedIn
	}
	return nil
}

func (s *TrackerService) projectIndexLocked(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *TrackerService) findTaskLocked(projectID, taskID string) (int, int, error) {
	pi := s.projectIndexLocked(projectID)
	if pi < 0 {
		return -1, -1, apperrors.ErrProjectNotFound
	}
	ti := s.projects[pi].TaskIndex(taskID)
	if ti < 0 {
		return pi, -1, apperrors.ErrTaskNotFound
	}
	return pi, ti, nil
}

// persistedProjectsLocked is the live project list with pending deletions put back,
// so nothing leaves storage before its deletion commits. Projects go back first so a
// pending task finds its project even when that project is pending too.
func (s *TrackerService) persistedProjectsLocked() []model.Project {
	out := make([]model.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}

	pending := s.undo.Pending()
	for _, d := range pending {
		if d.Kind != DeletionProject {
			continue
		}
		idx := d.Index
		if idx > len(out) {
			idx = len(out)
		}
		out = append(out, model.Project{})
		copy(out[idx+1:], out[idx:])
		out[idx] = d.Project.Clone()
	}
	for _, d := range pending {
		if d.Kind != DeletionTask {
			continue
		}
		for i := range out {
			if out[i].ID == d.ProjectID {
				out[i].Tasks = append(out[i].Tasks, d.Task.Clone())
				break
			}
		}
	}
	return out
}

func (s *TrackerService) persistLocked(ctx context.Context, keys ...string) error {
	seen := make(map[string]bool, len(keys))
	var errs []error
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true

		var value any
		switch k {
		case constants.KeyProjects:
			value = s.persistedProjectsLocked()
		case constants.KeyCompletedTasks:
			value = s.completed
		case constants.KeySettings:
			value = s.settings
		case constants.KeyActiveProject:
			value = s.activeProjectID
		case constants.KeyUnsynced:
			value = s.unsynced
		default:
			continue
		}
		if err := s.storage.Save(ctx, s.key(k), value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// commitLocked finishes a mutation: reconcile priorities, save the touched keys and
// notify the change listener. A save failure is returned but the change stays applied.
func (s *TrackerService) commitLocked(ctx context.Context, keys ...string) error {
	if ReconcilePriorities(s.projects, s.settings, calendar.Today(s.clock)) > 0 {
		keys = append(keys, constants.KeyProjects)
	}
	keys = s.markChangedLocked(keys)
	err := s.persistLocked(ctx, keys...)
	if s.onChange != nil {
		s.onChange()
	}
	return err
}

// markChangedLocked bumps the revision and adds the unsynced marker to keys when it
// flips.
func (s *TrackerService) markChangedLocked(keys []string) []string {
	s.revision++
	if !s.unsynced {
		s.unsynced = true
		keys = append(keys, constants.KeyUnsynced)
	}
	return keys
}

// refreshLocked re-evaluates priorities on reads so a date change is picked up.
func (s *TrackerService) refreshLocked(ctx context.Context) {
	if s.closed || ReconcilePriorities(s.projects, s.settings, calendar.Today(s.clock)) == 0 {
		return
	}
	if err := s.persistLocked(ctx, s.markChangedLocked([]string{constants.KeyProjects})...); err != nil {
		log.Printf("tracker: saving reconciled priorities failed: %v", err)
	}
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *TrackerService) AddProject(ctx context.Context, name string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return model.Project{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return model.Project{}, apperrors.ErrNameRequired
	}

	p := model.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Tasks:     []model.Task{},
		CreatedAt: s.clock.Now().UTC(),
	}
	s.projects = append(s.projects, p)
	if s.activeProjectID == "" {
		s.activeProjectID = p.ID
	}

	return p.Clone(), s.commitLocked(ctx, constants.KeyProjects, constants.KeyActiveProject)
}

func (s *TrackerService) RenameProject(ctx context.Context, id, name string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return model.Project{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return model.Project{}, apperrors.ErrNameRequired
	}
	pi := s.projectIndexLocked(id)
	if pi < 0 {
		return model.Project{}, apperrors.ErrProjectNotFound
	}

	s.projects[pi].Name = name
	return s.projects[pi].Clone(), s.commitLocked(ctx, constants.KeyProjects)
}

// ReorderProject moves a project to position to in the persisted order. It is refused
// while auto-rotation decides the order.
func (s *TrackerService) ReorderProject(ctx context.Context, id string, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return err
	}

	if s.settings.AutoRotationEnabled {
		return apperrors.ErrAutoRotationActive
	}
	from := s.projectIndexLocked(id)
	if from < 0 {
		return apperrors.ErrProjectNotFound
	}
	if to < 0 || to >= len(s.projects) {
		return apperrors.ErrInvalidPosition
	}

	p := s.projects[from]
	s.projects = append(s.projects[:from], s.projects[from+1:]...)
	s.projects = append(s.projects[:to], append([]model.Project{p}, s.projects[to:]...)...)

	return s.commitLocked(ctx, constants.KeyProjects)
}

func (s *TrackerService) SelectProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return err
	}

	if s.projectIndexLocked(id) < 0 {
		return apperrors.ErrProjectNotFound
	}
	s.activeProjectID = id
	return s.commitLocked(ctx, constants.KeyActiveProject)
}

// DeleteProject hides the project at once and commits the deletion after the grace
// period unless Undo runs first.
func (s *TrackerService) DeleteProject(ctx context.Context, id string) (PendingDeletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return PendingDeletion{}, err
	}

	pi := s.projectIndexLocked(id)
	if pi < 0 {
		return PendingDeletion{}, apperrors.ErrProjectNotFound
	}

	removed := s.projects[pi].Clone()
	s.projects = append(s.projects[:pi], s.projects[pi+1:]...)

	d := PendingDeletion{
		Kind:      DeletionProject,
		Project:   &removed,
		ProjectID: removed.ID,
		Index:     pi,
		DeletedAt: s.clock.Now().UTC(),
	}
	s.holdLocked(d)

	return d, s.commitLocked(ctx, constants.KeyProjects, constants.KeyActiveProject)
}

func (s *TrackerService) holdLocked(d PendingDeletion) {
	if superseded := s.undo.Hold(d); superseded != nil {
		s.finalizeLocked(*superseded)
	}
}

// finalizeLocked applies the commit-time effects of a deletion. The item itself is
// already gone from the live state.
func (s *TrackerService) finalizeLocked(d PendingDeletion) {
	if d.Kind == DeletionProject && s.activeProjectID == d.ProjectID {
		s.activeProjectID = ""
		if len(s.projects) > 0 {
			idx := d.Index
			if idx > len(s.projects)-1 {
				idx = len(s.projects) - 1
			}
			s.activeProjectID = s.projects[idx].ID
		}
	}
	log.Printf("tracker: committed %s deletion in %s", d.Kind, d.ProjectID)
}

func (s *TrackerService) commitExpired(d PendingDeletion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.finalizeLocked(d)
	if err := s.commitLocked(context.Background(), constants.KeyProjects, constants.KeyActiveProject); err != nil {
		log.Printf("tracker: saving committed deletion failed: %v", err)
	}
}

// Undo restores the most recent pending deletion. A project returns to its original
// index; a task is appended to its project.
func (s *TrackerService) Undo(ctx context.Context) (PendingDeletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return PendingDeletion{}, err
	}

	d, ok := s.undo.Take()
	if !ok {
		return PendingDeletion{}, apperrors.ErrNothingToUndo
	}

	switch d.Kind {
	case DeletionProject:
		idx := d.Index
		if idx > len(s.projects) {
			idx = len(s.projects)
		}
		s.projects = append(s.projects, model.Project{})
		copy(s.projects[idx+1:], s.projects[idx:])
		s.projects[idx] = d.Project.Clone()
	case DeletionTask:
		pi := s.projectIndexLocked(d.ProjectID)
		if pi < 0 {
			s.finalizeLocked(d)
			_ = s.commitLocked(ctx, constants.KeyProjects)
			return d, apperrors.ErrProjectNotFound
		}
		s.projects[pi].Tasks = append(s.projects[pi].Tasks, d.Task.Clone())
	}

	return d, s.commitLocked(ctx, constants.KeyProjects, constants.KeyActiveProject)
}

// PendingDeletion is the deletion an undo would restore, if any.
func (s *TrackerService) PendingDeletion() (PendingDeletion, bool) {
	return s.undo.Latest()
}

func validateTaskFields(title string, priority constants.Priority, estimate *int) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.ErrTitleRequired
	}
	if !priority.IsValid() {
		return apperrors.ErrInvalidPriority
	}
	if estimate != nil && *estimate < 0 {
		return apperrors.ErrInvalidEstimate
	}
	return nil
}

func (s *TrackerService) AddTask(ctx context.Context, projectID string, in model.TaskInput) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return model.Task{}, err
	}

	if in.Priority == "" {
		in.Priority = constants.PriorityMedium
	}
	if err := validateTaskFields(in.Title, in.Priority, in.EstimatedTime); err != nil {
		return model.Task{}, err
	}
	pi := s.projectIndexLocked(projectID)
	if pi < 0 {
		return model.Task{}, apperrors.ErrProjectNotFound
	}

	task := model.Task{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(in.Title),
		DueDate:         strings.TrimSpace(in.DueDate),
		Priority:        in.Priority,
		AutoPromoteDate: strings.TrimSpace(in.AutoPromoteDate),
		ScheduledDate:   strings.TrimSpace(in.ScheduledDate),
		CreatedAt:       s.clock.Now().UTC(),
	}
	if in.EstimatedTime != nil {
		minutes := *in.EstimatedTime
		task.EstimatedTime = &minutes
	}
	s.projects[pi].Tasks = append(s.projects[pi].Tasks, task)

	err := s.commitLocked(ctx, constants.KeyProjects)
	ti := s.projects[pi].TaskIndex(task.ID)
	return s.projects[pi].Tasks[ti].Clone(), err
}

func optionalDate(o model.Optional[string]) string {
	if o.Null {
		return ""
	}
	return strings.TrimSpace(o.Value)
}

// EditTask applies the set fields of edit. Choosing a priority explicitly hands
// control back to the user, so any remembered pre-promotion priority is dropped.
func (s *TrackerService) EditTask(ctx context.Context, projectID, taskID string, edit model.TaskEdit) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return model.Task{}, err
	}

	pi, ti, err := s.findTaskLocked(projectID, taskID)
	if err != nil {
		return model.Task{}, err
	}

	next := s.projects[pi].Tasks[ti].Clone()
	if edit.Title.Set {
		next.Title = strings.TrimSpace(edit.Title.Value)
	}
	if edit.Priority.Set {
		if edit.Priority.Null {
			return model.Task{}, apperrors.ErrInvalidPriority
		}
		next.Priority = edit.Priority.Value
		next.OriginalPriority = nil
	}
	if edit.EstimatedTime.Set {
		next.EstimatedTime = nil
		if edit.EstimatedTime.HasValue() {
			minutes := edit.EstimatedTime.Value
			next.EstimatedTime = &minutes
		}
	}
	if edit.DueDate.Set {
		next.DueDate = optionalDate(edit.DueDate)
	}
	if edit.AutoPromoteDate.Set {
		next.AutoPromoteDate = optionalDate(edit.AutoPromoteDate)
	}
	if edit.ScheduledDate.Set {
		next.ScheduledDate = optionalDate(edit.ScheduledDate)
	}
	if err := validateTaskFields(next.Title, next.Priority, next.EstimatedTime); err != nil {
		return model.Task{}, err
	}

	s.projects[pi].Tasks[ti] = next
	err = s.commitLocked(ctx, constants.KeyProjects)
	return s.projects[pi].Tasks[ti].Clone(), err
}

func (s *TrackerService) DeleteTask(ctx context.Context, projectID, taskID string) (PendingDeletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return PendingDeletion{}, err
	}

	pi, ti, err := s.findTaskLocked(projectID, taskID)
	if err != nil {
		return PendingDeletion{}, err
	}

	removed := s.projects[pi].Tasks[ti].Clone()
	tasks := s.projects[pi].Tasks
	s.projects[pi].Tasks = append(tasks[:ti:ti], tasks[ti+1:]...)

	d := PendingDeletion{
		Kind:      DeletionTask,
		Task:      &removed,
		ProjectID: projectID,
		Index:     ti,
		DeletedAt: s.clock.Now().UTC(),
	}
	s.holdLocked(d)

	return d, s.commitLocked(ctx, constants.KeyProjects)
}

// CompleteTask moves a task off the board into the completed history.
func (s *TrackerService) CompleteTask(ctx context.Context, projectID, taskID string) (model.CompletedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return model.CompletedTask{}, err
	}

	pi, ti, err := s.findTaskLocked(projectID, taskID)
	if err != nil {
		return model.CompletedTask{}, err
	}

	project := s.projects[pi]
	done := model.CompletedTask{
		Task:        project.Tasks[ti].Clone(),
		CompletedAt: s.clock.Now().UTC(),
		ProjectID:   project.ID,
		ProjectName: project.Name,
	}
	tasks := project.Tasks
	s.projects[pi].Tasks = append(tasks[:ti:ti], tasks[ti+1:]...)
	s.completed = append(s.completed, done)

	return done, s.commitLocked(ctx, constants.KeyProjects, constants.KeyCompletedTasks)
}

// CompletedTasks lists the completed history, most recent first.
func (s *TrackerService) CompletedTasks() []model.CompletedTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.CompletedTask, len(s.completed))
	copy(out, s.completed)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}

func (s *TrackerService) DeleteCompletedTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return err
	}

	for i, c := range s.completed {
		if c.ID == id {
			s.completed = append(s.completed[:i:i], s.completed[i+1:]...)
			return s.commitLocked(ctx, constants.KeyCompletedTasks)
		}
	}
	return apperrors.ErrTaskNotFound
}

func (s *TrackerService) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *TrackerService) UpdateSettings(ctx context.Context, upd model.SettingsUpdate) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return s.settings, err
	}

	next := s.settings
	if upd.Theme.HasValue() {
		next.Theme = upd.Theme.Value
	}
	if upd.AutoPriorityModeEnabled.HasValue() {
		next.AutoPriorityModeEnabled = upd.AutoPriorityModeEnabled.Value
	}
	if upd.AutoPriorityHours.Set {
		if upd.AutoPriorityHours.Null || upd.AutoPriorityHours.Value <= 0 {
			return s.settings, apperrors.ErrInvalidSettings
		}
		next.AutoPriorityHours = upd.AutoPriorityHours.Value
	}
	if upd.AutoPriorityDays.Set {
		days := []time.Weekday{}
		for _, d := range upd.AutoPriorityDays.Value {
			if d < time.Sunday || d > time.Saturday {
				return s.settings, apperrors.ErrInvalidSettings
			}
			days = append(days, d)
		}
		next.AutoPriorityDays = days
	}
	if upd.AutoRotationEnabled.HasValue() {
		next.AutoRotationEnabled = upd.AutoRotationEnabled.Value
	}

	s.settings = next
	return s.settings, s.commitLocked(ctx, constants.KeySettings)
}

type ProjectSummary struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	TaskCount int          `json:"taskCount"`
	Badge     ProjectBadge `json:"badge"`
}

// Board is everything the main screen renders.
type Board struct {
	Today           string           `json:"today"`
	Projects        []ProjectSummary `json:"projects"`
	ActiveProjectID string           `json:"activeProjectId,omitempty"`
	Columns         Columns          `json:"columns"`
	ManualReorder   bool             `json:"manualReorder"`
	Pending         *PendingDeletion `json:"pending,omitempty"`
}

func (s *TrackerService) Board(ctx context.Context) Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked(ctx)
	today := calendar.Today(s.clock)
	rotate := s.settings.AutoRotationEnabled

	board := Board{
		Today:         calendar.Format(today),
		Projects:      []ProjectSummary{},
		Columns:       GroupByPriority(nil),
		ManualReorder: !rotate,
	}
	for _, p := range SortProjects(s.projects, rotate, today) {
		board.Projects = append(board.Projects, ProjectSummary{
			ID:        p.ID,
			Name:      p.Name,
			TaskCount: len(VisibleTasks(p, today)),
			Badge:     Badge(p, today),
		})
	}

	if pi := s.projectIndexLocked(s.activeProjectID); pi >= 0 {
		board.ActiveProjectID = s.activeProjectID
		board.Columns = GroupByPriority(SortTasks(VisibleTasks(s.projects[pi], today), rotate))
	}
	if d, ok := s.undo.Latest(); ok {
		board.Pending = &d
	}
	return board
}

type ScheduledTask struct {
	ProjectID   string     `json:"projectId"`
	ProjectName string     `json:"projectName"`
	Task        model.Task `json:"task"`
}

// Scheduled lists tasks held back by a future scheduled date, soonest first.
func (s *TrackerService) Scheduled() []ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := calendar.Today(s.clock)
	out := []ScheduledTask{}
	for _, p := range s.projects {
		for _, t := range ScheduledTasks(p, today) {
			out = append(out, ScheduledTask{ProjectID: p.ID, ProjectName: p.Name, Task: t.Clone()})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Task.ScheduledDate < out[j].Task.ScheduledDate
	})
	return out
}

// Snapshot returns the data as persisted, pending deletions included.
func (s *TrackerService) Snapshot() model.UserData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SyncSnapshot is Snapshot plus the revision it reflects, for MarkSynced.
func (s *TrackerService) SyncSnapshot() (model.UserData, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), s.revision
}

// MarkSynced clears the unsynced marker if revision is still the latest one.
func (s *TrackerService) MarkSynced(revision uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discarded || !s.unsynced || revision != s.revision {
		return
	}
	s.unsynced = false
	if err := s.persistLocked(context.Background(), constants.KeyUnsynced); err != nil {
		log.Printf("tracker: saving sync marker for %s failed: %v", s.accountID, err)
	}
}

// Unsynced reports whether local changes are waiting for a successful push.
func (s *TrackerService) Unsynced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsynced
}

func (s *TrackerService) snapshotLocked() model.UserData {
	completed := make([]model.CompletedTask, len(s.completed))
	copy(completed, s.completed)
	return model.UserData{
		Projects:        s.persistedProjectsLocked(),
		CompletedTasks:  completed,
		Settings:        s.settings,
		ActiveProjectID: s.activeProjectID,
	}
}

// Close commits every pending deletion, saves all keys and rejects later mutations.
func (s *TrackerService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	drained := s.undo.Drain()
	if len(drained) == 0 {
		return s.persistLocked(ctx, constants.UserKeys...)
	}
	for _, d := range drained {
		s.finalizeLocked(d)
	}
	return s.commitLocked(ctx, constants.UserKeys...)
}

// Discard closes the tracker without saving anything, dropping pending deletions.
// Used when the account's data is about to be removed.
func (s *TrackerService) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.discarded = true
	s.undo.Drain()
}
