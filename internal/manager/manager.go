// Package manager implements the list, filter, edit and delete workflow
// shared by every entity screen. A Manager holds an immutable snapshot of the
// fetched collection, a text/status filter, and at most one open form, and
// delegates persistence to a Store.
package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/bizdesk/internal/observe"
)

// Store persists records of type T from drafts of type D.
type Store[T any, D any] interface {
	List(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id string, draft D) (T, error)
	Delete(ctx context.Context, id string) error
}

type options struct {
	observer observe.UseCaseObserver
}

// Option configures a Manager.
type Option func(*options)

// WithObserver reports every store call to obs.
func WithObserver(obs observe.UseCaseObserver) Option {
	return func(o *options) { o.observer = obs }
}

// Manager is safe for concurrent use. At most one submit or delete runs at a
// time; a second one fails with ErrBusy.
type Manager[T any, D any] struct {
	spec     Spec[T, D]
	store    Store[T, D]
	observer observe.UseCaseObserver

	mu      sync.Mutex
	state   State
	records []T
	loadErr error
	gen     uint64
	filter  Filter
	draft   D
	editing *T
}

// New returns a manager in the Loading state. Call Load to fetch.
func New[T any, D any](spec Spec[T, D], store Store[T, D], opts ...Option) *Manager[T, D] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[T, D]{
		spec:     spec,
		store:    store,
		observer: observe.OrNoop(o.observer),
		state:    StateLoading,
		filter:   Filter{Status: StatusAll},
	}
}

// Spec returns the entity description the manager was built with.
func (m *Manager[T, D]) Spec() Spec[T, D] { return m.spec }

// State returns the current workflow state.
func (m *Manager[T, D]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager[T, D]) track(ctx context.Context, op string, id string) func(error) {
	var fields map[string]any
	if id != "" {
		fields = map[string]any{"id": id}
	}
	return observe.Track(ctx, m.observer, m.spec.Relation+"."+op, fields)
}

// Load fetches the collection. When several loads overlap, only the most
// recently started one updates the snapshot.
func (m *Manager[T, D]) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateIdle {
		m.state = StateLoading
	}
	m.mu.Unlock()

	applied, err := m.fetch(ctx)

	m.mu.Lock()
	if applied && m.state == StateLoading {
		m.state = StateIdle
	}
	m.mu.Unlock()
	return err
}

// fetch replaces the snapshot unless a newer fetch started meanwhile.
// A failed fetch leaves an empty snapshot and records the error.
func (m *Manager[T, D]) fetch(ctx context.Context) (bool, error) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	done := m.track(ctx, "list", "")
	records, err := m.store.List(ctx)
	done(err)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false, nil
	}
	if err != nil {
		m.records = nil
		m.loadErr = &Error{Kind: KindFetch, Op: "load", Noun: m.spec.Noun, Err: err}
		return true, m.loadErr
	}
	m.records = records
	m.loadErr = nil
	return true, nil
}

// Records returns the current snapshot. The slice must not be modified.
func (m *Manager[T, D]) Records() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records
}

// LoadErr returns the error of the last applied fetch, if any.
func (m *Manager[T, D]) LoadErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}

// Filter returns the current list filter.
func (m *Manager[T, D]) Filter() Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter
}

// SetFilter replaces the list filter. The snapshot is not refetched.
func (m *Manager[T, D]) SetFilter(f Filter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = f
}

// Visible applies the current filter to the snapshot.
func (m *Manager[T, D]) Visible() []T {
	m.mu.Lock()
	records, f := m.records, m.filter
	m.mu.Unlock()
	return FilterRecords(records, f, m.spec.SearchFields, m.spec.Status)
}

// Find looks id up in the snapshot.
func (m *Manager[T, D]) Find(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(id)
}

func (m *Manager[T, D]) find(id string) (T, bool) {
	for _, r := range m.records {
		if m.spec.ID(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

func (m *Manager[T, D]) stateError(op string) error {
	if m.state.InFlight() {
		return &Error{Kind: KindBusy, Op: op, Noun: m.spec.Noun, Err: ErrBusy}
	}
	return &Error{Kind: KindState, Op: op, Noun: m.spec.Noun,
		Err: fmt.Errorf("%w: %s", ErrInvalidState, m.state)}
}

// OpenCreate opens the form with a default draft.
func (m *Manager[T, D]) OpenCreate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return m.stateError("create")
	}
	m.draft = m.spec.NewDraft()
	m.editing = nil
	m.state = StateFormCreate
	return nil
}

// OpenEdit opens the form seeded from the record id.
func (m *Manager[T, D]) OpenEdit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return m.stateError("edit")
	}
	rec, ok := m.find(id)
	if !ok {
		return &Error{Kind: KindState, Op: "edit", Noun: m.spec.Noun, Err: fmt.Errorf("%w: %s", ErrRecordNotFound, id)}
	}
	m.draft = m.spec.DraftOf(rec)
	m.editing = &rec
	m.state = StateFormEdit
	return nil
}

// Draft returns a copy of the open form's draft.
func (m *Manager[T, D]) Draft() D {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// SetDraft replaces the open form's draft.
func (m *Manager[T, D]) SetDraft(d D) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.FormOpen() {
		return m.stateError("edit draft")
	}
	m.draft = d
	return nil
}

// Editing returns the record being edited, if the form is in edit mode.
func (m *Manager[T, D]) Editing() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editing == nil {
		var zero T
		return zero, false
	}
	return *m.editing, true
}

// EditingID returns the id of the record being edited, or "".
func (m *Manager[T, D]) EditingID() string {
	if rec, ok := m.Editing(); ok {
		return m.spec.ID(rec)
	}
	return ""
}

// Cancel closes the open form and discards the draft.
func (m *Manager[T, D]) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.FormOpen() {
		return m.stateError("cancel")
	}
	m.resetForm()
	m.state = StateIdle
	return nil
}

func (m *Manager[T, D]) resetForm() {
	var zero D
	m.draft = zero
	m.editing = nil
}

// Submit validates the draft and performs exactly one insert (create form)
// or update (edit form). On success the form closes and the collection is
// refetched. On failure the form stays open with the draft unchanged.
func (m *Manager[T, D]) Submit(ctx context.Context) Result[T] {
	m.mu.Lock()
	if !m.state.FormOpen() {
		err := m.stateError("submit")
		m.mu.Unlock()
		return failed[T](err)
	}
	draft, editing, formState := m.draft, m.editing, m.state
	op := "create"
	if editing != nil {
		op = "update"
	}
	if err := m.spec.Validate(draft); err != nil {
		m.mu.Unlock()
		return failed[T](&Error{Kind: KindValidation, Op: op, Noun: m.spec.Noun, Err: err})
	}
	m.state = StateSubmitting
	m.mu.Unlock()

	var (
		rec T
		err error
	)
	if editing != nil {
		id := m.spec.ID(*editing)
		done := m.track(ctx, "update", id)
		rec, err = m.store.Update(ctx, id, draft)
		done(err)
	} else {
		done := m.track(ctx, "insert", "")
		rec, err = m.store.Insert(ctx, draft)
		done(err)
	}
	if err != nil {
		m.mu.Lock()
		m.state = formState
		m.mu.Unlock()
		res := failed[T](&Error{Kind: KindMutation, Op: op, Noun: m.spec.Noun, Err: err})
		res.Message = fmt.Sprintf("Could not save %s: %s", m.spec.Noun, res.Message)
		return res
	}

	m.mu.Lock()
	m.resetForm()
	m.mu.Unlock()
	m.refetchThenIdle(ctx)

	verb := "Created"
	if editing != nil {
		verb = "Updated"
	}
	return Result[T]{
		Outcome: OutcomeOK,
		Record:  rec,
		Message: fmt.Sprintf("%s %s %s", verb, m.spec.Noun, m.spec.Key(rec)),
	}
}

// Delete removes the record id after confirm approves it. A declined or nil
// confirm issues no mutation. On failure the snapshot is left unchanged.
func (m *Manager[T, D]) Delete(ctx context.Context, id string, confirm func(T) bool) Result[T] {
	m.mu.Lock()
	if m.state != StateIdle {
		err := m.stateError("delete")
		m.mu.Unlock()
		return failed[T](err)
	}
	rec, ok := m.find(id)
	m.mu.Unlock()
	if !ok {
		return failed[T](&Error{Kind: KindState, Op: "delete", Noun: m.spec.Noun,
			Err: fmt.Errorf("%w: %s", ErrRecordNotFound, id)})
	}

	if confirm == nil || !confirm(rec) {
		return Result[T]{Outcome: OutcomeCancelled, Record: rec, Message: "Delete cancelled"}
	}

	m.mu.Lock()
	if m.state != StateIdle {
		err := m.stateError("delete")
		m.mu.Unlock()
		return failed[T](err)
	}
	m.state = StateDeleting
	m.mu.Unlock()

	done := m.track(ctx, "delete", id)
	err := m.store.Delete(ctx, id)
	done(err)
	if err != nil {
		m.mu.Lock()
		m.state = StateIdle
		m.mu.Unlock()
		res := failed[T](&Error{Kind: KindMutation, Op: "delete", Noun: m.spec.Noun, Err: err})
		res.Message = fmt.Sprintf("Could not delete %s %s: %s", m.spec.Noun, m.spec.Key(rec), res.Message)
		return res
	}

	m.refetchThenIdle(ctx)
	return Result[T]{
		Outcome: OutcomeOK,
		Record:  rec,
		Message: fmt.Sprintf("Deleted %s %s", m.spec.Noun, m.spec.Key(rec)),
	}
}

// refetchThenIdle reloads after a successful mutation. A refetch failure is
// kept in LoadErr; the mutation itself already succeeded.
func (m *Manager[T, D]) refetchThenIdle(ctx context.Context) {
	_, _ = m.fetch(ctx)
	m.mu.Lock()
	m.state = StateIdle
	m.mu.Unlock()
}
