package storage

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

type entry struct {
	client Client
	config BucketConfig
}

// Registry holds one configured client per bucket name.
// Entries are added or overwritten by Register and never removed.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	factory Factory
	logger  *zap.Logger
}

// NewRegistry creates an empty registry. A nil factory means NewClient.
func NewRegistry(logger *zap.Logger, factory Factory) *Registry {
	if factory == nil {
		factory = NewClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		entries: make(map[string]entry),
		factory: factory,
		logger:  logger,
	}
}

// Register builds a client for each configuration and stores it under the bucket name.
// A failing bucket is logged and skipped; the remaining buckets are still registered.
// It returns the number of buckets registered by this call.
func (r *Registry) Register(ctx context.Context, configs []BucketConfig) int {
	registered := 0
	for _, cfg := range configs {
		r.logger.Info("Creating storage client", zap.String("bucket", cfg.Name), zap.String("provider", cfg.ProviderName()))

		client, err := r.factory(ctx, cfg)
		if err != nil {
			r.logger.Error("Failed to create storage client", zap.String("bucket", cfg.Name), zap.Error(err))
			continue
		}

		r.mu.Lock()
		r.entries[cfg.Name] = entry{client: client, config: cfg}
		r.mu.Unlock()
		registered++
	}
	return registered
}

// Lookup returns the client and configuration registered for a bucket.
func (r *Registry) Lookup(bucketName string) (Client, BucketConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[bucketName]
	if !ok {
		return nil, BucketConfig{}, false
	}
	return e.client, e.config, true
}

// Names returns the registered bucket names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered buckets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
