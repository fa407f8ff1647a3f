package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/task_service/internal/domain"
	"github.com/Skotchmaster/task_service/internal/events"
	"github.com/Skotchmaster/task_service/internal/store/memstore"
	"github.com/Skotchmaster/task_service/internal/transport"
)

var (
	fixedNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	alice    = domain.Identity{ID: "alice", Role: domain.RoleUser}
	bob      = domain.Identity{ID: "bob", Role: domain.RoleUser}
	root     = domain.Identity{ID: "root", Role: domain.RoleAdmin}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []map[string]any
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.(map[string]any))
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fakeIndexer struct {
	indexed   []domain.Task
	statuses  map[string]string
	deadlines []time.Time
	err       error
}

func (f *fakeIndexer) IndexTask(_ context.Context, t domain.Task) error {
	f.indexed = append(f.indexed, t)
	return f.err
}

func (f *fakeIndexer) UpdateStatus(ctx context.Context, id, status string) error {
	if d, ok := ctx.Deadline(); ok {
		f.deadlines = append(f.deadlines, d)
	}
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[id] = status
	return f.err
}

func (f *fakeIndexer) Search(_ context.Context, _ domain.Identity, q string, _, _ int) (int64, []transport.TaskView, error) {
	return 1, []transport.TaskView{{ID: "hit", Name: q}}, nil
}

func newTestService(t *testing.T) (*TaskService, *memstore.Store, *recordingPublisher) {
	t.Helper()
	st := memstore.New()
	pub := &recordingPublisher{}
	svc := &TaskService{
		Store:    st,
		Producer: pub,
		Now:      func() time.Time { return fixedNow },
	}
	return svc, st, pub
}

func TestTaskService_Create(t *testing.T) {
	svc, st, pub := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, transport.CreateTaskRequest{
		Name: "Buy milk", Description: "2%", DueDate: "2025-01-01", Status: "pending", Category: "errand",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.Personal{Owner: "alice"}, task.Owner)
	assert.Equal(t, fixedNow, task.CreatedAt)

	stored, err := st.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, *stored)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeTaskCreated, pub.events[0]["type"])
	assert.Equal(t, task.ID, pub.events[0]["taskId"])
}

func TestTaskService_Create_PublishFailureDoesNotFail(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.err = errors.New("broker down")
	ix := &fakeIndexer{err: errors.New("es down")}
	svc.Indexer = ix

	_, err := svc.Create(context.Background(), alice, transport.CreateTaskRequest{Name: "x", Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, ix.indexed, 1)
}

func TestTaskService_Create_StoreFailure(t *testing.T) {
	svc, st, pub := newTestService(t)
	st.Err = errors.New("unavailable")

	_, err := svc.Create(context.Background(), alice, transport.CreateTaskRequest{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
	assert.Empty(t, pub.events)
}

func TestTaskService_ListOwn(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ListOwn(ctx, alice)
	assert.ErrorIs(t, err, ErrNoTasks)

	_, err = svc.Create(ctx, alice, transport.CreateTaskRequest{Name: "a1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, transport.CreateTaskRequest{Name: "b1"})
	require.NoError(t, err)

	tasks, err := svc.ListOwn(ctx, alice)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a1", tasks[0].Name)
}

func TestTaskService_CreateGroupTask(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateGroupTask(ctx, root, transport.CreateGroupTaskRequest{Name: "x", GroupID: "g1"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateGroupTask(ctx, root, transport.CreateGroupTaskRequest{Name: "x", AssignedTo: "alice"})
	assert.ErrorIs(t, err, ErrValidation)

	task, err := svc.CreateGroupTask(ctx, root, transport.CreateGroupTaskRequest{
		Name: "Clean", Status: "pending", AssignedTo: "alice", GroupID: "g1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupAssigned{Creator: "root", Assignee: "alice", Group: "g1"}, task.Owner)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeGroupTaskCreated, pub.events[0]["type"])
}

func TestTaskService_ListGroup_EmptyIsNotError(t *testing.T) {
	svc, _, _ := newTestService(t)

	tasks, err := svc.ListGroup(context.Background(), "g1")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskService_UpdateStatus_OwnershipGate(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, transport.CreateTaskRequest{Name: "a1", Status: "pending"})
	require.NoError(t, err)
	writes := st.Writes()

	assert.ErrorIs(t, svc.UpdateStatus(ctx, bob, task.ID, "done"), ErrForbidden)
	assert.Equal(t, writes, st.Writes())

	require.NoError(t, svc.UpdateStatus(ctx, alice, task.ID, "in-progress"))
	require.NoError(t, svc.UpdateStatus(ctx, root, task.ID, "done"))

	got, err := st.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", got.Status)
}

func TestTaskService_UpdateStatus_NotFoundBeforeGate(t *testing.T) {
	svc, _, _ := newTestService(t)

	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), bob, "missing", "done"), ErrTaskNotFound)
	assert.ErrorIs(t, svc.Drop(context.Background(), bob, "missing", "done"), ErrTaskNotFound)
}

func TestTaskService_UpdateStatus_RequiresStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), alice, "any", " "), ErrValidation)
}

func TestTaskService_UpdateStatus_Idempotent(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, transport.CreateTaskRequest{Name: "a1", Status: "pending"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, alice, task.ID, "done"))
	first, err := st.GetTask(ctx, task.ID)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, alice, task.ID, "done"))
	second, err := st.GetTask(ctx, task.ID)
	require.NoError(t, err)

	assert.Equal(t, *first, *second)
}

func TestTaskService_Drop_AssigneeGate(t *testing.T) {
	svc, st, pub := newTestService(t)
	ctx := context.Background()
	ix := &fakeIndexer{}
	svc.Indexer = ix

	task, err := svc.CreateGroupTask(ctx, root, transport.CreateGroupTaskRequest{
		Name: "Clean", Status: "pending", AssignedTo: "alice", GroupID: "g1",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Drop(ctx, bob, task.ID, "dropped"), ErrForbidden)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, alice, task.ID, "dropped"), ErrForbidden)

	require.NoError(t, svc.Drop(ctx, alice, task.ID, "dropped"))
	got, err := st.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "dropped", got.Status)
	assert.Equal(t, "dropped", ix.statuses[task.ID])

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, events.TypeTaskStatusUpdated, last["type"])
	assert.Equal(t, "pending", last["oldStatus"])
}

func TestTaskService_Drop_PersonalTaskIsAdminOnly(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, transport.CreateTaskRequest{Name: "a1", Status: "pending"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Drop(ctx, alice, task.ID, "dropped"), ErrForbidden)
	assert.NoError(t, svc.Drop(ctx, root, task.ID, "dropped"))
}

func TestTaskService_StoreErrorsAreWrapped(t *testing.T) {
	svc, st, _ := newTestService(t)
	st.Err = errors.New("disk on fire")
	ctx := context.Background()

	err := svc.UpdateStatus(ctx, alice, "t", "done")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTaskNotFound)
	assert.Contains(t, err.Error(), "disk on fire")

	_, err = svc.ListGroup(ctx, "g1")
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestTaskService_Search(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Search(ctx, alice, "milk", 0, 10)
	assert.ErrorIs(t, err, ErrSearchUnavailable)

	svc.Indexer = &fakeIndexer{}
	_, _, err = svc.Search(ctx, alice, "  ", 0, 10)
	assert.ErrorIs(t, err, ErrValidation)

	total, hits, err := svc.Search(ctx, alice, "milk", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "milk", hits[0].Name)
}

func TestTaskService_IndexStatusHasOwnTimeout(t *testing.T) {
	svc, _, _ := newTestService(t)
	ix := &fakeIndexer{}
	svc.Indexer = ix
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, transport.CreateTaskRequest{Name: "a1", Status: "pending"})
	require.NoError(t, err)

	before := time.Now()
	require.NoError(t, svc.UpdateStatus(ctx, alice, task.ID, "done"))

	require.Len(t, ix.deadlines, 1)
	assert.WithinDuration(t, before.Add(sideEffectTimeout), ix.deadlines[0], time.Second)
}

func TestTaskService_Search_RejectsOutOfRangePage(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.Indexer = &fakeIndexer{}
	ctx := context.Background()

	_, _, err := svc.Search(ctx, alice, "milk", maxSearchWindow, 20)
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = svc.Search(ctx, alice, "milk", -1, 20)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.Search(ctx, alice, "milk", maxSearchWindow-20, 20)
	assert.NoError(t, err)
}
