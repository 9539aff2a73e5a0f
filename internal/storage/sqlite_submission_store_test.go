package storage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikigai-ua/formrelay/internal/storage"
)

func newSQLiteStore(t *testing.T) *storage.SQLiteSubmissionStore {
	t.Helper()
	db, _, err := storage.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	store := storage.NewSQLiteSubmissionStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteSubmissionStore(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	t.Run("add and list", func(t *testing.T) {
		before := time.Now().UTC().Add(-time.Minute)

		rec, err := store.Add(ctx, storage.NewSubmission{
			Name:    "Олена",
			Phone:   "+380501234567",
			Message: "Немає коментаря",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, "Олена", rec.Name)
		assert.Equal(t, "+380501234567", rec.Phone)
		assert.Equal(t, "Немає коментаря", rec.Message)
		assert.Equal(t, storage.StatusNew, rec.Status)
		assert.True(t, rec.ReceivedAt.After(before), "received_at %v should be assigned by the store", rec.ReceivedAt)

		list, err := store.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, rec.ID, list[0].ID)
		assert.Equal(t, storage.StatusNew, list[0].Status)
	})

	t.Run("newest first", func(t *testing.T) {
		second, err := store.Add(ctx, storage.NewSubmission{Name: "Іван", Phone: "+380671112233"})
		require.NoError(t, err)

		list, err := store.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		list, err := store.List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("rejects incomplete submissions", func(t *testing.T) {
		_, err := store.Add(ctx, storage.NewSubmission{Name: "Олена"})
		assert.ErrorIs(t, err, storage.ErrIncompleteSubmission)

		_, err = store.Add(ctx, storage.NewSubmission{Phone: "+380501234567"})
		assert.ErrorIs(t, err, storage.ErrIncompleteSubmission)

		list, err := store.List(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}

func TestSQLiteSubmissionStore_ConcurrentAdds(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Add(ctx, storage.NewSubmission{Name: "Олена", Phone: "+380501234567"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := store.List(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestSQLiteSubmissionStore_ClosedDB(t *testing.T) {
	db, _, err := storage.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	store := storage.NewSQLiteSubmissionStore(db)
	require.NoError(t, store.Close())

	_, err = store.Add(context.Background(), storage.NewSubmission{Name: "Олена", Phone: "+380501234567"})
	assert.Error(t, err)
}
