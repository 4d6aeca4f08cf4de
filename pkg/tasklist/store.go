package tasklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/onlylist/internal/logging"
	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/aretw0/onlylist/pkg/notice"
	"github.com/aretw0/onlylist/pkg/ports"
	"github.com/google/uuid"
)

// Store owns the TaskList and EditSession.
type Store struct {
	persister ports.TaskStore
	board     *notice.Board
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	newID     func() string

	clock     ports.Clock
	noticeTTL time.Duration

	tasks domain.TaskList
	edit  *domain.EditSession
	input string
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observers. Calling it more than once merges the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Store) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithClock sets the scheduler used to expire notices.
func WithClock(clock ports.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithNoticeTTL sets the display lifetime of notices (default 3s).
func WithNoticeTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.noticeTTL = ttl
	}
}

// WithIDGenerator replaces the task ID source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates an empty Store persisting through persister. Call Hydrate to load saved tasks.
func New(persister ports.TaskStore, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		logger:    logging.NewNop(),
		newID:     uuid.NewString,
		clock:     ports.SystemClock{},
		noticeTTL: domain.DefaultNoticeTTL,
		tasks:     domain.TaskList{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.board = notice.NewBoard(
		notice.WithClock(s.clock),
		notice.WithTTL(s.noticeTTL),
		notice.WithObserver(func(e *domain.NoticeEvent) {
			if s.hooks.OnNotice != nil {
				s.hooks.OnNotice(e)
			}
		}),
	)
	return s
}

// Close cancels pending notice timers.
func (s *Store) Close() {
	s.board.Close()
}

// Hydrate loads the persisted list. It never fails: unreadable data is logged and the
// in-memory list is kept. Only a non-empty persisted list replaces in-memory state.
func (s *Store) Hydrate(ctx context.Context) domain.TaskList {
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		var readErr *domain.PersistenceReadError
		if errors.As(err, &readErr) && readErr.Missing() {
			s.logger.Debug("No saved tasks", "key", readErr.Key)
		} else {
			s.logger.Warn("Failed to load saved tasks, starting empty", "err", err)
		}
		return s.Tasks()
	}

	if len(loaded) == 0 {
		s.logger.Debug("Saved task list is empty, keeping in-memory list", "in_memory", len(s.tasks))
		return s.Tasks()
	}

	s.tasks = s.assignIDs(loaded)
	s.edit = nil
	s.logger.Info("Tasks loaded", "count", len(s.tasks))
	s.emitChange(ctx, domain.OpHydrate, -1)
	return s.Tasks()
}

// Refresh replaces in-memory state with the persisted list, including an empty one.
// Used when another process may have written the slot. A missing slot counts as empty;
// a malformed one is reported and leaves memory untouched.
func (s *Store) Refresh(ctx context.Context) error {
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		var readErr *domain.PersistenceReadError
		if !errors.As(err, &readErr) || !readErr.Missing() {
			return fmt.Errorf("refresh: %w", err)
		}
	}

	if s.tasks.Equal(loaded) {
		return nil
	}

	s.tasks = s.assignIDs(loaded)
	if s.edit != nil && !s.tasks.Valid(s.edit.Index) {
		s.edit = nil
	}
	s.emitChange(ctx, domain.OpRefresh, -1)
	return nil
}

// AddTask appends a new, incomplete task and clears the add input.
func (s *Store) AddTask(ctx context.Context, rawText string) error {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return s.reject(ctx, domain.OpAdd, domain.NoticeAdd)
	}

	index := len(s.tasks)
	return s.commit(ctx, domain.OpAdd, index, func() {
		s.tasks = append(s.tasks, domain.Task{ID: s.newID(), Text: text})
		s.input = ""
	})
}

// UpdateTask replaces the text of the task at index and closes the edit session.
// On empty input the edit session stays open and the edit notice is posted.
func (s *Store) UpdateTask(ctx context.Context, index int, rawText string) error {
	if err := s.checkIndex(domain.OpUpdate, index); err != nil {
		return err
	}

	text := strings.TrimSpace(rawText)
	if text == "" {
		return s.reject(ctx, domain.OpUpdate, domain.NoticeEdit)
	}

	return s.commit(ctx, domain.OpUpdate, index, func() {
		s.tasks[index].Text = text
		s.edit = nil
	})
}

// DeleteTask removes the task at index; later tasks shift down by one.
// An edit session on the deleted task is closed, one on a later task follows it.
func (s *Store) DeleteTask(ctx context.Context, index int) error {
	if err := s.checkIndex(domain.OpDelete, index); err != nil {
		return err
	}

	return s.commit(ctx, domain.OpDelete, index, func() {
		s.tasks = append(s.tasks[:index:index], s.tasks[index+1:]...)
		if s.edit == nil {
			return
		}
		switch {
		case s.edit.Index == index:
			s.edit = nil
		case s.edit.Index > index:
			s.edit.Index--
		}
	})
}

// ToggleComplete flips the completion flag of the task at index.
func (s *Store) ToggleComplete(ctx context.Context, index int) error {
	if err := s.checkIndex(domain.OpToggle, index); err != nil {
		return err
	}

	return s.commit(ctx, domain.OpToggle, index, func() {
		s.tasks[index].Completed = !s.tasks[index].Completed
	})
}

// Clear removes every task.
func (s *Store) Clear(ctx context.Context) error {
	return s.commit(ctx, domain.OpClear, -1, func() {
		s.tasks = domain.TaskList{}
		s.edit = nil
	})
}

// BeginEdit opens an edit session on index, seeding the draft with the current text.
// Any other open session is replaced.
func (s *Store) BeginEdit(index int) error {
	if err := s.checkIndex("edit", index); err != nil {
		return err
	}
	s.edit = &domain.EditSession{Index: index, Draft: s.tasks[index].Text}
	return nil
}

// UpdateDraft sets the draft text of the open edit session. It neither validates nor persists.
func (s *Store) UpdateDraft(text string) {
	if s.edit == nil {
		s.logger.Debug("Draft change without an edit session")
		return
	}
	s.edit.Draft = text
}

// CancelEdit closes the edit session without touching the list.
func (s *Store) CancelEdit() {
	s.edit = nil
}

// SetInput records the contents of the add input field.
func (s *Store) SetInput(text string) {
	s.input = text
}

// Input returns the contents of the add input field.
func (s *Store) Input() string {
	return s.input
}

// Tasks returns a copy of the list.
func (s *Store) Tasks() domain.TaskList {
	return s.tasks.Clone()
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Task returns the task at index.
func (s *Store) Task(index int) (domain.Task, error) {
	if err := s.checkIndex("get", index); err != nil {
		return domain.Task{}, err
	}
	return s.tasks[index], nil
}

// IndexOf returns the current position of the task with the given ID.
func (s *Store) IndexOf(id string) (int, error) {
	for i, t := range s.tasks {
		if t.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
}

// Edit returns the open edit session, if any.
func (s *Store) Edit() (domain.EditSession, bool) {
	if s.edit == nil {
		return domain.EditSession{}, false
	}
	return *s.edit, true
}

// Notice returns the visible notice of the given kind, or "".
func (s *Store) Notice(kind domain.NoticeKind) string {
	return s.board.Get(kind)
}

// View returns a read-only snapshot for renderers.
func (s *Store) View() domain.View {
	v := domain.View{
		Tasks:      s.Tasks(),
		Input:      s.input,
		AddNotice:  s.board.Get(domain.NoticeAdd),
		EditNotice: s.board.Get(domain.NoticeEdit),
	}
	if s.edit != nil {
		e := *s.edit
		v.Edit = &e
	}
	return v
}

// commit applies mutate, persists the full list and notifies observers.
// If the write fails, the list, edit session and input are restored.
func (s *Store) commit(ctx context.Context, op domain.Op, index int, mutate func()) error {
	prevTasks := s.tasks.Clone()
	prevInput := s.input
	var prevEdit *domain.EditSession
	if s.edit != nil {
		e := *s.edit
		prevEdit = &e
	}

	mutate()

	if err := s.persister.Save(ctx, s.tasks); err != nil {
		s.tasks, s.edit, s.input = prevTasks, prevEdit, prevInput
		s.logger.Error("Failed to persist tasks, change rolled back", "op", op, "index", index, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Debug("Tasks saved", "op", op, "index", index, "count", len(s.tasks))
	s.emitChange(ctx, op, index)
	return nil
}

func (s *Store) reject(ctx context.Context, op domain.Op, kind domain.NoticeKind) error {
	s.board.Post(kind, kind.Message())
	s.logger.Debug("Input rejected", "op", op, "kind", kind)
	if s.hooks.OnReject != nil {
		s.hooks.OnReject(ctx, &domain.RejectEvent{
			Timestamp: time.Now(),
			Op:        op,
			Kind:      kind,
		})
	}
	return &domain.ValidationError{Kind: kind}
}

func (s *Store) checkIndex(op domain.Op, index int) error {
	if s.tasks.Valid(index) {
		return nil
	}
	s.logger.Error("Task index out of range", "op", op, "index", index, "len", len(s.tasks))
	return fmt.Errorf("%s %d (len %d): %w", op, index, len(s.tasks), domain.ErrIndexOutOfRange)
}

func (s *Store) emitChange(ctx context.Context, op domain.Op, index int) {
	if s.hooks.OnChange == nil {
		return
	}
	s.hooks.OnChange(ctx, &domain.ChangeEvent{
		Timestamp: time.Now(),
		Op:        op,
		Index:     index,
		Tasks:     s.Tasks(),
	})
}

func (s *Store) assignIDs(tasks domain.TaskList) domain.TaskList {
	out := tasks.Clone()
	for i := range out {
		out[i].ID = s.newID()
	}
	return out
}
