package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"upload-agent/core/storage"
	"upload-agent/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeLedger is an in-memory ledger.
type fakeLedger struct {
	mu      sync.Mutex
	keys    map[string][]string
	err     error
	calls   int
	forgot  []string
	batched [][]string
}

func (f *fakeLedger) Keys(ctx context.Context, bucket string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.keys[bucket], nil
}

func (f *fakeLedger) Forget(ctx context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgot = append(f.forgot, key)
	return nil
}

// batchLedger also forgets in batches.
type batchLedger struct {
	*fakeLedger
}

func (b batchLedger) ForgetBatch(ctx context.Context, bucket string, keys []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batched = append(b.batched, keys)
	return nil
}

func objectsOf(keys ...string) []storage.ObjectInfo {
	objs := make([]storage.ObjectInfo, len(keys))
	for i, k := range keys {
		objs[i] = storage.ObjectInfo{Key: k, Size: 1}
	}
	return objs
}

func TestReconcileAll_Classification(t *testing.T) {
	ledger := &fakeLedger{keys: map[string][]string{"photos": {"a", "b", "c"}}}
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "photos", "").Return(objectsOf("b", "c", "d"), nil)

	r := New(ledger, client, zap.NewNop())
	results, err := r.ReconcileAll(context.Background(), &Spec{Bucket: "photos"})
	require.NoError(t, err)

	assert.Equal(t, []Result{
		{Key: "a", LedgerPresent: true, Status: StatusDangling},
		{Key: "b", LedgerPresent: true, StoragePresent: true, Status: StatusOK},
		{Key: "c", LedgerPresent: true, StoragePresent: true, Status: StatusOK},
		{Key: "d", StoragePresent: true, Status: StatusOrphan},
	}, results)
}

func TestReconcileAll_Prefix(t *testing.T) {
	ledger := &fakeLedger{keys: map[string][]string{"photos": {"/avatars/1", "/banners/1"}}}
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "photos", "/avatars/").Return(objectsOf("/avatars/1", "/avatars/2"), nil)

	r := New(ledger, client, nil)
	results, err := r.ReconcileAll(context.Background(), &Spec{Bucket: "photos", Prefix: "/avatars/"})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, StatusOK, results[0].Status)
	assert.Equal(t, StatusOrphan, results[1].Status)
}

func TestBuildIndex_ErrorHandling(t *testing.T) {
	t.Run("Ledger error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "photos", "").Return(objectsOf(), nil)

		r := New(&fakeLedger{err: errors.New("db error")}, client, nil)
		_, err := r.ReconcileAll(context.Background(), &Spec{Bucket: "photos"})
		assert.ErrorContains(t, err, "db error")
	})

	t.Run("Storage error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "photos", "").Return(nil, errors.New("storage error"))

		r := New(&fakeLedger{}, client, nil)
		_, err := r.ReconcileAll(context.Background(), &Spec{Bucket: "photos"})
		assert.ErrorContains(t, err, "storage error")
	})
}

func TestCache_Hit(t *testing.T) {
	ledger := &fakeLedger{keys: map[string][]string{"photos": {"a"}}}
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "photos", "").Return(objectsOf("a"), nil)

	r := New(ledger, client, nil)
	spec := &Spec{Bucket: "photos", CacheTTL: time.Minute}

	for i := 0; i < 3; i++ {
		_, err := r.ReconcileAll(context.Background(), spec)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, ledger.calls)
	client.AssertNumberOfCalls(t, "ListObjects", 1)

	r.InvalidateCache(spec)
	_, err := r.ReconcileAll(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 2, ledger.calls)
}

func TestCache_Expiration(t *testing.T) {
	ledger := &fakeLedger{keys: map[string][]string{"photos": {"a"}}}
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "photos", "").Return(objectsOf("a"), nil)

	r := New(ledger, client, nil)
	spec := &Spec{Bucket: "photos", CacheTTL: 10 * time.Millisecond}

	_, err := r.ReconcileAll(context.Background(), spec)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = r.ReconcileAll(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, 2, ledger.calls)
}

func TestReconcileOne(t *testing.T) {
	t.Run("WithoutCache", func(t *testing.T) {
		ledger := &fakeLedger{keys: map[string][]string{"photos": {"a/1", "a/10"}}}
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "photos", "a/1").Return(objectsOf("a/10"), nil)

		r := New(ledger, client, nil)
		res, err := r.ReconcileOne(context.Background(), &Spec{Bucket: "photos"}, "a/1")
		require.NoError(t, err)
		assert.Equal(t, StatusDangling, res.Status)
	})

	t.Run("WithCache", func(t *testing.T) {
		ledger := &fakeLedger{keys: map[string][]string{"photos": {"a"}}}
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "photos", "").Return(objectsOf("a", "b"), nil)

		r := New(ledger, client, nil)
		spec := &Spec{Bucket: "photos", CacheTTL: time.Minute}

		res, err := r.ReconcileOne(context.Background(), spec, "b")
		require.NoError(t, err)
		assert.Equal(t, StatusOrphan, res.Status)

		res, err = r.ReconcileOne(context.Background(), spec, "missing")
		require.NoError(t, err)
		assert.False(t, res.LedgerPresent)
		assert.False(t, res.StoragePresent)
		client.AssertNumberOfCalls(t, "ListObjects", 1)
	})
}
