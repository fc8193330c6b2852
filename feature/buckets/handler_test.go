package buckets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"upload-agent/core/database"
	"upload-agent/core/ledger"
	"upload-agent/core/reconcile"
	"upload-agent/core/storage"
	"upload-agent/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, withLedger bool) (*fiber.App, *mocks.Client, *ledger.Store) {
	t.Helper()
	client := new(mocks.Client)
	registry := storage.NewRegistry(zap.NewNop(), mocks.Factory(client))
	registry.Register(context.Background(), []storage.BucketConfig{
		{Name: "photos", Region: "eu-west-1"},
		{Name: "assets", Provider: storage.ProviderMinio, DefaultPrivate: new(bool)},
	})

	var store *ledger.Store
	var l reconcile.Ledger
	if withLedger {
		db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)
		store = ledger.NewStore(db)
		require.NoError(t, store.Migrate())
		l = store
	}

	feature := NewFeature(registry, l, time.Minute, zap.NewNop())
	assert.Equal(t, "buckets", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, client, store
}

func TestHandleCheck(t *testing.T) {
	app, client, _ := setupTestApp(t, false)
	client.On("BucketExists", mock.Anything, "photos").Return(true, nil)
	client.On("BucketExists", mock.Anything, "assets").Return(false, errors.New("access denied"))

	resp, err := app.Test(httptest.NewRequest("GET", "/buckets", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reports []Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reports))
	require.Len(t, reports, 2)

	assert.Equal(t, Report{Name: "assets", Provider: storage.ProviderMinio, Error: "access denied"}, reports[0])
	assert.Equal(t, Report{Name: "photos", Provider: storage.ProviderS3, Region: "eu-west-1", Private: true, Exists: true}, reports[1])
}

func TestHandleReconcile(t *testing.T) {
	t.Run("LedgerDisabled", func(t *testing.T) {
		app, _, _ := setupTestApp(t, false)

		resp, err := app.Test(httptest.NewRequest("GET", "/buckets/photos/reconcile", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("UnknownBucket", func(t *testing.T) {
		app, _, _ := setupTestApp(t, true)

		resp, err := app.Test(httptest.NewRequest("GET", "/buckets/missing/reconcile", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Plan", func(t *testing.T) {
		app, client, store := setupTestApp(t, true)
		ctx := context.Background()
		require.NoError(t, store.Record(ctx, ledger.Object{Bucket: "photos", Key: "a/kept"}))
		require.NoError(t, store.Record(ctx, ledger.Object{Bucket: "photos", Key: "a/gone"}))
		client.On("ListObjects", mock.Anything, "photos", "a/").
			Return([]storage.ObjectInfo{{Key: "a/kept"}, {Key: "a/stray"}}, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/buckets/photos/reconcile?prefix=a/&purge=true", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var plan reconcile.Plan
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
		assert.Equal(t, reconcile.PlanSummary{TotalItems: 3, OK: 1, Orphans: 1, Dangling: 1, PurgeActions: 2}, plan.Summary)
		client.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything)

		keys, err := store.Keys(ctx, "photos")
		require.NoError(t, err)
		assert.Len(t, keys, 2)
	})

	t.Run("ListingFails", func(t *testing.T) {
		app, client, _ := setupTestApp(t, true)
		client.On("ListObjects", mock.Anything, "photos", "").Return(nil, errors.New("throttled"))

		resp, err := app.Test(httptest.NewRequest("GET", "/buckets/photos/reconcile", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestHandleReconcile_ReusesIndex(t *testing.T) {
	app, client, store := setupTestApp(t, true)
	require.NoError(t, store.Record(context.Background(), ledger.Object{Bucket: "photos", Key: "/a/kept"}))
	client.On("ListObjects", mock.Anything, "photos", "").
		Return([]storage.ObjectInfo{{Key: "/a/kept"}, {Key: "/a/stray"}}, nil).Once()

	for range 2 {
		resp, err := app.Test(httptest.NewRequest("GET", "/buckets/photos/reconcile", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/buckets/photos/reconcile/key?key=/a/stray", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	client.AssertNumberOfCalls(t, "ListObjects", 1)
}

func TestHandleKeyStatus(t *testing.T) {
	t.Run("MissingKey", func(t *testing.T) {
		app, _, _ := setupTestApp(t, true)

		resp, err := app.Test(httptest.NewRequest("GET", "/buckets/photos/reconcile/key", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("LedgerDisabled", func(t *testing.T) {
		app, _, _ := setupTestApp(t, false)

		resp, err := app.Test(httptest.NewRequest("GET", "/buckets/photos/reconcile/key?key=/a/kept", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("UnknownBucket", func(t *testing.T) {
		app, _, _ := setupTestApp(t, true)

		resp, err := app.Test(httptest.NewRequest("GET", "/buckets/missing/reconcile/key?key=/a/kept", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Classified", func(t *testing.T) {
		app, client, store := setupTestApp(t, true)
		ctx := context.Background()
		require.NoError(t, store.Record(ctx, ledger.Object{Bucket: "photos", Key: "/a/kept"}))
		require.NoError(t, store.Record(ctx, ledger.Object{Bucket: "photos", Key: "/a/gone"}))
		client.On("ListObjects", mock.Anything, "photos", "").
			Return([]storage.ObjectInfo{{Key: "/a/kept"}, {Key: "/a/stray"}}, nil)

		tests := []struct {
			key      string
			expected reconcile.Result
		}{
			{"/a/kept", reconcile.Result{Key: "/a/kept", LedgerPresent: true, StoragePresent: true, Status: reconcile.StatusOK}},
			{"/a/stray", reconcile.Result{Key: "/a/stray", StoragePresent: true, Status: reconcile.StatusOrphan}},
			{"/a/gone", reconcile.Result{Key: "/a/gone", LedgerPresent: true, Status: reconcile.StatusDangling}},
			{"/a/none", reconcile.Result{Key: "/a/none"}},
		}

		for _, tt := range tests {
			resp, err := app.Test(httptest.NewRequest("GET", "/buckets/photos/reconcile/key?key="+tt.key, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			var res reconcile.Result
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			assert.Equal(t, tt.expected, res, tt.key)
		}
		client.AssertNumberOfCalls(t, "ListObjects", 1)
	})
}
