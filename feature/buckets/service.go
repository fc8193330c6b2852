package buckets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"upload-agent/core/objects"
	"upload-agent/core/reconcile"
	"upload-agent/core/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrLedgerDisabled is returned by reconciliations when no database is configured.
var ErrLedgerDisabled = errors.New("ledger disabled: no database configured")

// checkConcurrency bounds the parallel existence checks.
const checkConcurrency = 8

// Report is the health of one registered bucket.
type Report struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Region   string `json:"region,omitempty"`
	Private  bool   `json:"private"`
	Exists   bool   `json:"exists"`
	Error    string `json:"error,omitempty"`
}

// Service checks and reconciles the registered buckets.
type Service struct {
	registry *storage.Registry
	ledger   reconcile.Ledger
	cacheTTL time.Duration
	logger   *zap.Logger

	mu          sync.Mutex
	reconcilers map[string]*reconcile.Reconciler
}

// NewService creates a new buckets service. ledger may be nil.
// Reconcile indices are reused for cacheTTL; zero rebuilds them on every call.
func NewService(registry *storage.Registry, ledger reconcile.Ledger, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		registry:    registry,
		ledger:      ledger,
		cacheTTL:    cacheTTL,
		logger:      logger,
		reconcilers: make(map[string]*reconcile.Reconciler),
	}
}

// Check reports whether every registered bucket exists, in name order.
// A failing check is reported on its bucket and does not stop the others.
func (s *Service) Check(ctx context.Context) []Report {
	names := s.registry.Names()
	reports := make([]Report, len(names))

	var g errgroup.Group
	g.SetLimit(checkConcurrency)
	for i, name := range names {
		g.Go(func() error {
			client, cfg, ok := s.registry.Lookup(name)
			if !ok {
				return nil
			}

			r := Report{Name: name, Provider: cfg.ProviderName(), Region: cfg.Region, Private: cfg.IsPrivate()}
			exists, err := client.BucketExists(ctx, name)
			if err != nil {
				s.logger.Warn("Bucket check failed", zap.String("bucket", name), zap.Error(err))
				r.Error = err.Error()
			}
			r.Exists = exists
			reports[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

// Reconcile compares the ledger with a bucket and returns the plan without applying it.
func (s *Service) Reconcile(ctx context.Context, bucket, prefix string, purge bool) (*reconcile.Plan, error) {
	r, err := s.reconciler(bucket)
	if err != nil {
		return nil, err
	}
	return r.ReconcileWithPlan(ctx, s.spec(bucket, prefix), reconcile.Options{DoPurge: purge, DryRun: true})
}

// Status classifies a single key of a bucket.
func (s *Service) Status(ctx context.Context, bucket, key string) (*reconcile.Result, error) {
	r, err := s.reconciler(bucket)
	if err != nil {
		return nil, err
	}
	return r.ReconcileOne(ctx, s.spec(bucket, ""), key)
}

func (s *Service) spec(bucket, prefix string) *reconcile.Spec {
	return &reconcile.Spec{Bucket: bucket, Prefix: prefix, CacheTTL: s.cacheTTL}
}

// reconciler returns the cached reconciler of a bucket, creating it on first use.
func (s *Service) reconciler(bucket string) (*reconcile.Reconciler, error) {
	if s.ledger == nil {
		return nil, ErrLedgerDisabled
	}

	client, _, ok := s.registry.Lookup(bucket)
	if !ok {
		return nil, fmt.Errorf("%w: %s", objects.ErrBucketNotConfigured, bucket)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reconcilers[bucket]
	if !ok {
		r = reconcile.New(s.ledger, client, s.logger)
		s.reconcilers[bucket] = r
	}
	return r, nil
}
