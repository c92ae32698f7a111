package manager

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/bizdesk/internal/observe"
)

func loadedManager(t *testing.T, store Store[item, itemDraft], opts ...Option) *Manager[item, itemDraft] {
	t.Helper()
	m := New(itemSpec(), store, opts...)
	require.Equal(t, StateLoading, m.State())
	require.NoError(t, m.Load(context.Background()))
	require.Equal(t, StateIdle, m.State())
	return m
}

func TestManager_LoadFailureLeavesEmptySnapshot(t *testing.T) {
	store := newFakeStore(sampleItems()...)
	store.listErr = errors.New("connection refused")

	m := New(itemSpec(), store)
	err := m.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, KindFetch, KindOf(err))
	assert.Equal(t, StateIdle, m.State())
	assert.Empty(t, m.Records())
	assert.Equal(t, err, m.LoadErr())
}

func TestManager_CreateInsertsOnceAndRefetches(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m := loadedManager(t, store)

	require.NoError(t, m.OpenCreate())
	assert.Equal(t, StateFormCreate, m.State())
	assert.Equal(t, itemDraft{Status: "active"}, m.Draft())

	require.NoError(t, m.SetDraft(itemDraft{Code: "CC100", Name: "Test", Status: "active"}))
	res := m.Submit(ctx)

	require.True(t, res.OK(), res.Message)
	assert.Equal(t, "Created item CC100", res.Message)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, itemDraft{}, m.Draft())

	muts := store.mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, "insert", muts[0].Op)

	records := m.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "CC100", records[0].Code)
	assert.Nil(t, records[0].Note)
}

func TestManager_EditUnchangedDraftSubmitsRecordFields(t *testing.T) {
	ctx := context.Background()
	note := "shared services"
	original := item{ID: "1", Code: "CC100", Name: "Operations", Note: &note, Status: "active"}
	store := newFakeStore(original)
	m := loadedManager(t, store)

	require.NoError(t, m.OpenEdit("1"))
	assert.Equal(t, StateFormEdit, m.State())
	assert.Equal(t, "1", m.EditingID())

	res := m.Submit(ctx)
	require.True(t, res.OK(), res.Message)

	muts := store.mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, "update", muts[0].Op)
	assert.Equal(t, "1", muts[0].ID)
	if diff := cmp.Diff(original.draft(), muts[0].Draft); diff != "" {
		t.Errorf("update patch mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]item{original}, m.Records()); diff != "" {
		t.Errorf("records changed (-want +got):\n%s", diff)
	}
}

func TestManager_EditSeedsAbsentOptionalAsEmpty(t *testing.T) {
	store := newFakeStore(item{ID: "1", Code: "CC100", Name: "Test", Status: "active"})
	m := loadedManager(t, store)

	require.NoError(t, m.OpenEdit("1"))
	assert.Equal(t, itemDraft{Code: "CC100", Name: "Test", Note: "", Status: "active"}, m.Draft())

	res := m.Submit(context.Background())
	require.True(t, res.OK())
	assert.Nil(t, m.Records()[0].Note)
}

func TestManager_SubmitFailureKeepsFormAndDraft(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(sampleItems()...)
	store.updateErr = errors.New("code must be unique")
	m := loadedManager(t, store)

	require.NoError(t, m.OpenEdit("1"))
	changed := itemDraft{Code: "CC200", Name: "Operations", Status: "active"}
	require.NoError(t, m.SetDraft(changed))

	res := m.Submit(ctx)

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, KindMutation, KindOf(res.Err))
	assert.Equal(t, "Could not save item: code must be unique", res.Message)
	assert.Equal(t, StateFormEdit, m.State())
	assert.Equal(t, changed, m.Draft())
	assert.Equal(t, sampleItems(), m.Records())
}

func TestManager_ValidationFailureIssuesNoMutation(t *testing.T) {
	store := newFakeStore()
	m := loadedManager(t, store)

	require.NoError(t, m.OpenCreate())
	require.NoError(t, m.SetDraft(itemDraft{Code: " ", Status: "archived"}))

	res := m.Submit(context.Background())

	assert.Equal(t, KindValidation, KindOf(res.Err))
	var vErr *ValidationError
	require.ErrorAs(t, res.Err, &vErr)
	assert.Equal(t, []string{"code", "name", "status"}, problemFields(vErr))
	assert.Equal(t, StateFormCreate, m.State())
	assert.Empty(t, store.mutations())
}

func problemFields(e *ValidationError) []string {
	var out []string
	for _, p := range e.Problems {
		out = append(out, p.Field)
	}
	return out
}

func TestManager_CancelDiscardsDraft(t *testing.T) {
	m := loadedManager(t, newFakeStore(sampleItems()...))

	require.NoError(t, m.OpenEdit("2"))
	require.NoError(t, m.Cancel())

	assert.Equal(t, StateIdle, m.State())
	_, editing := m.Editing()
	assert.False(t, editing)
	assert.Equal(t, itemDraft{}, m.Draft())
}

func TestManager_IllegalTransitionsAreRejected(t *testing.T) {
	m := New(itemSpec(), newFakeStore(sampleItems()...))

	err := m.OpenCreate()
	assert.ErrorIs(t, err, ErrInvalidState, "form cannot open while loading")

	require.NoError(t, m.Load(context.Background()))
	require.NoError(t, m.OpenCreate())

	assert.ErrorIs(t, m.OpenEdit("1"), ErrInvalidState)
	assert.ErrorIs(t, m.Delete(context.Background(), "1", func(item) bool { return true }).Err, ErrInvalidState)
	require.NoError(t, m.Cancel())

	assert.ErrorIs(t, m.Submit(context.Background()).Err, ErrInvalidState)
	assert.ErrorIs(t, m.SetDraft(itemDraft{}), ErrInvalidState)
	assert.ErrorIs(t, m.Cancel(), ErrInvalidState)
	assert.ErrorIs(t, m.OpenEdit("missing"), ErrRecordNotFound)
}

func TestManager_DeclinedDeleteIssuesNoMutation(t *testing.T) {
	store := newFakeStore(sampleItems()...)
	m := loadedManager(t, store)
	var asked item

	res := m.Delete(context.Background(), "2", func(it item) bool {
		asked = it
		return false
	})

	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Equal(t, "CC200", asked.Code)
	assert.Empty(t, store.mutations())
	assert.Equal(t, sampleItems(), m.Records())
	assert.Equal(t, StateIdle, m.State())

	res = m.Delete(context.Background(), "2", nil)
	assert.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Empty(t, store.mutations())
}

func TestManager_ConfirmedDeleteRefetches(t *testing.T) {
	store := newFakeStore(sampleItems()...)
	m := loadedManager(t, store)

	res := m.Delete(context.Background(), "2", func(item) bool { return true })

	require.True(t, res.OK())
	assert.Equal(t, "Deleted item CC200", res.Message)
	assert.Equal(t, []string{"CC100", "MK300"}, codes(m.Records()))
	assert.Equal(t, StateIdle, m.State())
}

func TestManager_DeleteFailureLeavesSnapshot(t *testing.T) {
	store := newFakeStore(sampleItems()...)
	store.deleteErr = errors.New("record is still referenced by other records")
	m := loadedManager(t, store)

	res := m.Delete(context.Background(), "1", func(item) bool { return true })

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, "Could not delete item CC100: record is still referenced by other records", res.Message)
	assert.Equal(t, sampleItems(), m.Records())
	assert.Equal(t, StateIdle, m.State())
}

func TestManager_DoubleSubmitIsRejectedAsBusy(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.entered = make(chan struct{})
	store.release = make(chan struct{})
	m := loadedManager(t, store)

	require.NoError(t, m.OpenCreate())
	require.NoError(t, m.SetDraft(itemDraft{Code: "CC100", Name: "Test", Status: "active"}))

	first := make(chan Result[item], 1)
	go func() { first <- m.Submit(ctx) }()
	<-store.entered
	assert.Equal(t, StateSubmitting, m.State())

	second := m.Submit(ctx)
	assert.Equal(t, OutcomeFailed, second.Outcome)
	assert.Equal(t, KindBusy, KindOf(second.Err))
	assert.ErrorIs(t, second.Err, ErrBusy)

	assert.ErrorIs(t, m.Delete(ctx, "x", func(item) bool { return true }).Err, ErrBusy)
	assert.ErrorIs(t, m.OpenCreate(), ErrBusy)

	close(store.release)
	res := <-first
	require.True(t, res.OK(), res.Message)
	assert.Len(t, store.mutations(), 1)
	assert.Len(t, m.Records(), 1)
}

// gatedStore blocks each List call until the test answers it.
type gatedStore struct {
	*fakeStore
	gmu     sync.Mutex
	gates   []chan []item
	started chan struct{}
}

func (s *gatedStore) List(context.Context) ([]item, error) {
	ch := make(chan []item)
	s.gmu.Lock()
	s.gates = append(s.gates, ch)
	s.gmu.Unlock()
	s.started <- struct{}{}
	return <-ch, nil
}

func (s *gatedStore) gate(n int) chan []item {
	s.gmu.Lock()
	defer s.gmu.Unlock()
	return s.gates[n]
}

func TestManager_NewestFetchWins(t *testing.T) {
	ctx := context.Background()
	store := &gatedStore{fakeStore: newFakeStore(), started: make(chan struct{})}
	m := New(itemSpec(), store)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); _ = m.Load(ctx) }()
	<-store.started
	wg.Add(1)
	go func() { defer wg.Done(); _ = m.Load(ctx) }()
	<-store.started

	newer := []item{{ID: "2", Code: "NEW"}}
	older := []item{{ID: "1", Code: "OLD"}}
	store.gate(1) <- newer
	store.gate(0) <- older
	wg.Wait()

	assert.Equal(t, []string{"NEW"}, codes(m.Records()))
	assert.Equal(t, StateIdle, m.State())
}

type recordingObserver struct {
	mu     sync.Mutex
	events []observe.UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e observe.UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, e := range o.events {
		out = append(out, e.Name)
	}
	return out
}

func TestManager_ReportsStoreCallsToObserver(t *testing.T) {
	obs := &recordingObserver{}
	m := loadedManager(t, newFakeStore(sampleItems()...), WithObserver(obs))

	require.NoError(t, m.OpenEdit("1"))
	require.True(t, m.Submit(context.Background()).OK())

	assert.Equal(t, []string{"items.list", "items.update", "items.list"}, obs.names())
	assert.Equal(t, "1", obs.events[1].Fields["id"])
}

func TestManager_VisibleAppliesFilter(t *testing.T) {
	m := loadedManager(t, newFakeStore(sampleItems()...))
	assert.Equal(t, StatusAll, m.Filter().Status)

	m.SetFilter(Filter{Text: "ops", Status: "active"})
	assert.Equal(t, []string{"MK300"}, codes(m.Visible()))

	it, ok := m.Find("3")
	require.True(t, ok)
	assert.Equal(t, "Ops Support", it.Name)
}
