package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventzy/eventzy-go/internal/dto"
	"github.com/eventzy/eventzy-go/internal/models"
)

type listCall struct {
	category models.Category
	view     models.ViewMode
}

type mockGateway struct {
	mu        sync.Mutex
	listCalls []listCall
	listData  *dto.EventListData
	listErr   error
	// listGates, when set, are received from per call (by call index)
	// before List returns, letting tests interleave in-flight fetches.
	listGates []chan *dto.EventListData

	created  []dto.EventPayload
	updated  map[string]dto.EventPayload
	removed  []string
	joined   []string
	left     []string
	getEvent *models.Event
	getErr   error
	mutErr   error
}

func (m *mockGateway) List(ctx context.Context, category models.Category, view models.ViewMode) (*dto.EventListData, error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, listCall{category: category, view: view})
	index := len(m.listCalls) - 1
	var gate chan *dto.EventListData
	if index < len(m.listGates) {
		gate = m.listGates[index]
	}
	data, err := m.listData, m.listErr
	m.mu.Unlock()
	if gate != nil {
		if gated := <-gate; gated != nil {
			data = gated
		}
	}
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &dto.EventListData{}, nil
	}
	cp := *data
	return &cp, nil
}

func (m *mockGateway) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getEvent == nil {
		return nil, errors.New("no event")
	}
	cp := *m.getEvent
	return &cp, nil
}

func (m *mockGateway) Create(ctx context.Context, payload dto.EventPayload) (*models.Event, error) {
	if m.mutErr != nil {
		return nil, m.mutErr
	}
	m.created = append(m.created, payload)
	return &models.Event{ID: "new"}, nil
}

func (m *mockGateway) Update(ctx context.Context, id string, payload dto.EventPayload) (*models.Event, error) {
	if m.mutErr != nil {
		return nil, m.mutErr
	}
	if m.updated == nil {
		m.updated = map[string]dto.EventPayload{}
	}
	m.updated[id] = payload
	return &models.Event{ID: id}, nil
}

func (m *mockGateway) Remove(ctx context.Context, id string) error {
	if m.mutErr != nil {
		return m.mutErr
	}
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockGateway) Join(ctx context.Context, id string) error {
	if m.mutErr != nil {
		return m.mutErr
	}
	m.joined = append(m.joined, id)
	return nil
}

func (m *mockGateway) Leave(ctx context.Context, id string) error {
	if m.mutErr != nil {
		return m.mutErr
	}
	m.left = append(m.left, id)
	return nil
}

func (m *mockGateway) calls() []listCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]listCall, len(m.listCalls))
	copy(out, m.listCalls)
	return out
}

type mockUsers struct {
	user *models.User
	err  error
}

func (m *mockUsers) CachedUser() (*models.User, error) {
	return m.user, m.err
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

type stubConfirmer struct {
	answer bool
	asked  int
}

func (c *stubConfirmer) Confirm(title, message string) bool {
	c.asked++
	return c.answer
}

func TestListControllerMountFetchesWithDefaults(t *testing.T) {
	gw := &mockGateway{listData: &dto.EventListData{
		Events: []models.Event{{ID: "e1", Name: "Jazz Night"}},
	}}
	ctl := NewListController(gw, &mockUsers{user: &models.User{ID: "u1"}}, nil, nil, nil)

	ctl.Mount(context.Background())

	calls := gw.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.CategoryAll, calls[0].category)
	assert.Equal(t, models.ViewAll, calls[0].view)
	assert.Len(t, ctl.Events(), 1)
	assert.False(t, ctl.Loading())
}

func TestListControllerAdminAlwaysFetchesAllView(t *testing.T) {
	gw := &mockGateway{listData: &dto.EventListData{IsAdmin: true}}
	ctl := NewListController(gw, &mockUsers{user: &models.User{ID: "u1", IsAdmin: true}}, nil, nil, nil)

	ctl.Mount(context.Background())
	ctl.SetViewMode(context.Background(), models.ViewJoined)

	for _, call := range gw.calls() {
		assert.Equal(t, models.ViewAll, call.view)
	}
	// The stored toggle itself is preserved.
	assert.Equal(t, models.ViewJoined, ctl.ViewMode())
}

func TestListControllerNonAdminToggleChangesFetchParameter(t *testing.T) {
	gw := &mockGateway{listData: &dto.EventListData{}}
	ctl := NewListController(gw, &mockUsers{user: &models.User{ID: "u1"}}, nil, nil, nil)

	ctl.Mount(context.Background())
	ctl.SetViewMode(context.Background(), models.ViewJoined)
	ctl.SetCategory(context.Background(), models.CategoryConcert)

	calls := gw.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, models.ViewAll, calls[0].view)
	assert.Equal(t, models.ViewJoined, calls[1].view)
	assert.Equal(t, listCall{category: models.CategoryConcert, view: models.ViewJoined}, calls[2])
}

func TestListControllerUnchangedFilterDoesNotRefetch(t *testing.T) {
	gw := &mockGateway{listData: &dto.EventListData{}}
	ctl := NewListController(gw, nil, nil, nil, nil)

	ctl.Mount(context.Background())
	ctl.SetCategory(context.Background(), models.CategoryAll)
	ctl.SetViewMode(context.Background(), models.ViewAll)

	assert.Len(t, gw.calls(), 1)
}

func TestListControllerReconcilesIsAdminFromResponse(t *testing.T) {
	gw := &mockGateway{listData: &dto.EventListData{IsAdmin: true}}
	ctl := NewListController(gw, &mockUsers{user: &models.User{ID: "u1", IsAdmin: false}}, nil, nil, nil)

	ctl.Mount(context.Background())
	assert.True(t, ctl.IsAdmin())
}

func TestListControllerFetchFailureKeepsEventsAndNotifies(t *testing.T) {
	gw := &mockGateway{listData: &dto.EventListData{
		Events: []models.Event{{ID: "e1"}},
	}}
	notifier := &recordingNotifier{}
	ctl := NewListController(gw, nil, notifier, nil, nil)

	ctl.Mount(context.Background())
	require.Len(t, ctl.Events(), 1)

	gw.mu.Lock()
	gw.listErr = errors.New("boom")
	gw.mu.Unlock()
	ctl.Reload(context.Background())

	assert.Len(t, ctl.Events(), 1)
	assert.NotEmpty(t, notifier.errors)
	assert.False(t, ctl.Loading())
}

func TestListControllerMutationsTriggerReload(t *testing.T) {
	gw := &mockGateway{listData: &dto.EventListData{}}
	notifier := &recordingNotifier{}
	ctl := NewListController(gw, nil, notifier, &stubConfirmer{answer: true}, nil)

	ctx := context.Background()
	ctl.Mount(ctx)
	base := len(gw.calls())

	ctl.Join(ctx, "e1")
	ctl.Leave(ctx, "e1")
	ctl.Create(ctx, dto.EventPayload{Name: "n", Date: "d", Location: "l"})
	ctl.Update(ctx, "e1", dto.EventPayload{Name: "n", Date: "d", Location: "l"})
	ctl.Delete(ctx, "e1")

	assert.Equal(t, base+5, len(gw.calls()))
	assert.Equal(t, []string{"e1"}, gw.joined)
	assert.Equal(t, []string{"e1"}, gw.left)
	assert.Equal(t, []string{"e1"}, gw.removed)
	assert.Len(t, notifier.successes, 5)
}

func TestListControllerDeleteDeclinedIssuesNoCall(t *testing.T) {
	gw := &mockGateway{listData: &dto.EventListData{
		Events: []models.Event{{ID: "e1"}},
	}}
	confirm := &stubConfirmer{answer: false}
	ctl := NewListController(gw, nil, nil, confirm, nil)

	ctx := context.Background()
	ctl.Mount(ctx)
	base := len(gw.calls())

	ctl.Delete(ctx, "e1")

	assert.Equal(t, 1, confirm.asked)
	assert.Empty(t, gw.removed)
	assert.Equal(t, base, len(gw.calls()))
	assert.Len(t, ctl.Events(), 1)
}

func TestListControllerMutationFailureNotifiesWithoutReload(t *testing.T) {
	gw := &mockGateway{listData: &dto.EventListData{}, mutErr: errors.New("Only admins can do that")}
	notifier := &recordingNotifier{}
	ctl := NewListController(gw, nil, notifier, &stubConfirmer{answer: true}, nil)

	ctx := context.Background()
	ctl.Mount(ctx)
	base := len(gw.calls())

	ctl.Join(ctx, "e1")

	assert.Equal(t, base, len(gw.calls()))
	assert.NotEmpty(t, notifier.errors)
}

func TestListControllerDiscardsStaleResponses(t *testing.T) {
	firstGate := make(chan *dto.EventListData, 1)
	secondGate := make(chan *dto.EventListData, 1)
	gw := &mockGateway{listGates: []chan *dto.EventListData{firstGate, secondGate}}
	ctl := NewListController(gw, nil, nil, nil, nil)

	stale := &dto.EventListData{Events: []models.Event{{ID: "stale"}}}
	fresh := &dto.EventListData{Events: []models.Event{{ID: "fresh"}}}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ctl.Reload(context.Background())
	}()
	waitForCalls(t, gw, 1)
	go func() {
		defer wg.Done()
		ctl.Reload(context.Background())
	}()
	waitForCalls(t, gw, 2)

	// Complete the second (newer) fetch first, then release the stale one.
	secondGate <- fresh
	firstGate <- stale
	wg.Wait()

	events := ctl.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "fresh", events[0].ID)
}

func waitForCalls(t *testing.T, gw *mockGateway, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for len(gw.calls()) < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d list calls", want)
		}
		time.Sleep(time.Millisecond)
	}
}
