package prototype

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "prototype.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSeedIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx))
	require.NoError(t, store.Seed(ctx))

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Project{
		{ID: 1, Name: "Progetto Alpha"},
		{ID: 2, Name: "Progetto Beta"},
	}, projects)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Task{
		{ID: 1, Title: "Task iniziale", ProjectID: 1},
		{ID: 2, Title: "Secondo Task", ProjectID: 2},
	}, tasks)
}

func TestCreateTaskRequiresProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateTask(ctx, Task{Title: "Orphan", ProjectID: 42})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	p, err := store.CreateProject(ctx, Project{Name: "Home"})
	require.NoError(t, err)
	task, err := store.CreateTask(ctx, Task{Title: "Paint", ProjectID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, p.ID, task.ProjectID)
	assert.NotZero(t, task.ID)
}

func TestEmptyListsAreNotNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	assert.NotNil(t, projects)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
}
