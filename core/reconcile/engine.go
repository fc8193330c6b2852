package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"upload-agent/core/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Ledger is the recorded side of a reconciliation.
type Ledger interface {
	// Keys returns every key recorded for a bucket.
	Keys(ctx context.Context, bucket string) ([]string, error)
	// Forget removes one recorded key.
	Forget(ctx context.Context, bucket, key string) error
}

// BatchForgetter is implemented by ledgers that can drop many keys in one statement.
type BatchForgetter interface {
	ForgetBatch(ctx context.Context, bucket string, keys []string) error
}

// Reconciler compares a ledger with the objects of a bucket.
type Reconciler struct {
	ledger Ledger
	client storage.Client
	logger *zap.Logger
	cache  *cacheStore
}

// New creates a reconciler for one storage client.
func New(ledger Ledger, client storage.Client, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		ledger: ledger,
		client: client,
		logger: logger,
		cache:  newCacheStore(),
	}
}

// ReconcileAll classifies every key found in the ledger or the bucket.
// Results are sorted by key.
func (r *Reconciler) ReconcileAll(ctx context.Context, spec *Spec) ([]Result, error) {
	idx, err := r.getOrBuildIndex(ctx, spec)
	if err != nil {
		return nil, err
	}
	return idx.results(), nil
}

// ReconcileOne classifies a single key.
func (r *Reconciler) ReconcileOne(ctx context.Context, spec *Spec, key string) (*Result, error) {
	if spec.CacheTTL > 0 {
		idx, err := r.getOrBuildIndex(ctx, spec)
		if err != nil {
			return nil, err
		}
		res := idx.result(key)
		return &res, nil
	}

	// Without a cache, narrow both sides to the key.
	narrow := &Spec{Bucket: spec.Bucket, Prefix: key}
	idx, err := r.buildIndex(ctx, narrow)
	if err != nil {
		return nil, err
	}
	res := idx.result(key)
	return &res, nil
}

// index holds both sides of a reconciliation as key sets.
type index struct {
	ledger  map[string]struct{}
	storage map[string]struct{}
}

// buildIndex loads the ledger keys and the bucket listing concurrently.
func (r *Reconciler) buildIndex(ctx context.Context, spec *Spec) (*index, error) {
	idx := &index{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		keys, err := r.ledger.Keys(gctx, spec.Bucket)
		if err != nil {
			return fmt.Errorf("load ledger: %w", err)
		}
		set := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			if strings.HasPrefix(k, spec.Prefix) {
				set[k] = struct{}{}
			}
		}
		idx.ledger = set
		return nil
	})

	g.Go(func() error {
		objs, err := r.client.ListObjects(gctx, spec.Bucket, spec.Prefix)
		if err != nil {
			return fmt.Errorf("list bucket: %w", err)
		}
		set := make(map[string]struct{}, len(objs))
		for _, o := range objs {
			set[o.Key] = struct{}{}
		}
		idx.storage = set
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Debug("Built reconcile index",
		zap.String("bucket", spec.Bucket),
		zap.Int("ledger", len(idx.ledger)),
		zap.Int("storage", len(idx.storage)))
	return idx, nil
}

func (idx *index) result(key string) Result {
	_, inLedger := idx.ledger[key]
	_, inStorage := idx.storage[key]

	res := Result{Key: key, LedgerPresent: inLedger, StoragePresent: inStorage}
	switch {
	case inLedger && inStorage:
		res.Status = StatusOK
	case inStorage:
		res.Status = StatusOrphan
	case inLedger:
		res.Status = StatusDangling
	}
	return res
}

func (idx *index) results() []Result {
	union := make(map[string]struct{}, len(idx.ledger)+len(idx.storage))
	for k := range idx.ledger {
		union[k] = struct{}{}
	}
	for k := range idx.storage {
		union[k] = struct{}{}
	}

	results := make([]Result, 0, len(union))
	for k := range union {
		results = append(results, idx.result(k))
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results
}
