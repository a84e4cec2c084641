//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserStore(t *testing.T) {
	db := testdb.OpenPostgres(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)

		email := uuid.NewString() + "@example.com"
		user, err := domain.NewUser(email, "hash")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, user))

		got, err := users.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		got, err = users.GetByID(ctx, user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, email, got.Email)

		dup, err := domain.NewUser(email, "hash")
		require.NoError(t, err)
		err = users.Create(ctx, dup)
		f, ok := store.AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, store.FailureDuplicateKey, f.Kind)
		assert.Equal(t, []string{"email"}, f.Fields)
	})
}

func TestPostgresTaskStore(t *testing.T) {
	db := testdb.OpenPostgres(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		assignee := uuid.NewString()

		task, err := domain.NewTask("Integration 100%", nil, assignee)
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		listed, err := tasks.List(ctx, store.TaskFilter{Assignee: assignee, Title: "100%"})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, task.ID, listed[0].ID)

		done, err := tasks.TransitionStatus(ctx, task.ID.String(), domain.TaskStatusAssigned, domain.TaskStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, done.Status)

		_, err = tasks.TransitionStatus(ctx, task.ID.String(), domain.TaskStatusAssigned, domain.TaskStatusCompleted)
		assert.ErrorIs(t, err, store.ErrUpdateFailed)

		_, err = tasks.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, store.ErrInvalidEntity)

		require.NoError(t, tasks.Delete(ctx, task.ID.String()))
		assert.ErrorIs(t, tasks.Delete(ctx, task.ID.String()), store.ErrTaskNotFound)
	})
}

// Concurrent completion needs separate connections, so it runs outside a
// transaction and removes its row afterwards.
func TestPostgresTaskStore_ConcurrentTransition(t *testing.T) {
	db := testdb.OpenPostgres(t)
	ctx := context.Background()
	tasks := postgres.NewPostgresTaskStore(db, nil)

	task, err := domain.NewTask("Race", nil, uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, task))
	t.Cleanup(func() { _ = tasks.Delete(context.Background(), task.ID.String()) })

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tasks.TransitionStatus(ctx, task.ID.String(), domain.TaskStatusAssigned, domain.TaskStatusCompleted)
			if err != nil && !errors.Is(err, store.ErrUpdateFailed) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}
