package agent

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"upload-agent/core/middleware/upload"
	"upload-agent/core/objects"
	"upload-agent/core/optimize"
	"upload-agent/core/sniff"
	"upload-agent/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the uploads of a single batch.
const DefaultConcurrency = 4

// ErrNoFiles is returned when a request carries no buffered files.
var ErrNoFiles = errors.New("no files in request")

// Optimizer recompresses an image and returns the new body and content type.
type Optimizer interface {
	Optimize(ctx context.Context, body []byte) ([]byte, string, error)
}

// Options configures an agent.
type Options struct {
	// Buckets lists the buckets registered by Create.
	Buckets []storage.BucketConfig
	// Concurrency bounds the parallel uploads of one batch.
	Concurrency int
}

// UploadOptions are the per-call upload settings.
type UploadOptions struct {
	Bucket string
	Folder string
	// Private overrides the bucket default visibility when set.
	Private *bool
	// Optimize recompresses recognised images before upload.
	Optimize bool
}

// Uploaded describes an object stored by the agent.
type Uploaded struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	Private     bool
}

// Hook observes every successful upload. Hooks of a batch run concurrently.
type Hook func(ctx context.Context, u Uploaded)

// Agent is the single entry point of the upload SDK.
type Agent struct {
	opts      Options
	registry  *storage.Registry
	ops       *objects.Operations
	optimizer Optimizer
	hooks     []Hook
	logger    *zap.Logger
	ready     atomic.Bool
}

// Option customises an agent at construction.
type Option func(*Agent)

// WithFactory replaces the storage client factory.
func WithFactory(factory storage.Factory) Option {
	return func(a *Agent) {
		a.registry = storage.NewRegistry(a.logger, factory)
	}
}

// WithOptimizer replaces the image optimizer.
func WithOptimizer(o Optimizer) Option {
	return func(a *Agent) {
		a.optimizer = o
	}
}

// WithHook adds an upload observer.
func WithHook(h Hook) Option {
	return func(a *Agent) {
		a.hooks = append(a.hooks, h)
	}
}

// New creates an unconfigured agent. Call Create before using it.
func New(opts Options, logger *zap.Logger, options ...Option) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	a := &Agent{
		opts:      opts,
		logger:    logger,
		registry:  storage.NewRegistry(logger, nil),
		optimizer: optimize.New(),
	}
	for _, o := range options {
		o(a)
	}
	a.ops = objects.New(a.registry, logger)
	return a
}

// Create registers the configured buckets. Calling it again re-registers them.
func (a *Agent) Create(ctx context.Context) *Agent {
	n := a.registry.Register(ctx, a.opts.Buckets)
	a.ready.Store(true)
	a.logger.Info("Upload agent ready", zap.Int("buckets", n), zap.Int("configured", len(a.opts.Buckets)))
	return a
}

// Ready reports whether Create has been called.
func (a *Agent) Ready() bool {
	return a.ready.Load()
}

// Registry exposes the bucket registry.
func (a *Agent) Registry() *storage.Registry {
	return a.registry
}

// Middleware creates an upload middleware factory.
func (a *Agent) Middleware(cfg upload.Config) *upload.Middleware {
	return upload.New(cfg)
}

// UploadFromRequest uploads the files buffered by the upload middleware.
// Keys are returned in the order of the files in the request.
func (a *Agent) UploadFromRequest(c *fiber.Ctx, opts UploadOptions) ([]string, error) {
	files, ok := upload.FromContext(c)
	if !ok {
		return nil, ErrNoFiles
	}
	return a.UploadFiles(c.UserContext(), files, opts)
}

// UploadFiles uploads buffered files. A batch is uploaded concurrently and
// fails as a whole on the first error.
func (a *Agent) UploadFiles(ctx context.Context, files upload.Files, opts UploadOptions) ([]string, error) {
	if len(files.Items) == 0 {
		return nil, ErrNoFiles
	}

	if files.Kind == upload.KindSingle {
		f := files.Items[0]
		key, err := a.upload(ctx, f.Body, f.ContentType, opts)
		if err != nil {
			return nil, err
		}
		return []string{key}, nil
	}

	keys := make([]string, len(files.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, f := range files.Items {
		g.Go(func() error {
			key, err := a.upload(gctx, f.Body, f.ContentType, opts)
			if err != nil {
				return fmt.Errorf("file %d (%s): %w", i, f.OriginalName, err)
			}
			keys[i] = key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return keys, nil
}

// UploadBuffer uploads raw bytes whose content type is sniffed from the bytes.
func (a *Agent) UploadBuffer(ctx context.Context, body []byte, opts UploadOptions) (string, error) {
	contentType, err := sniff.Detect(body)
	if err != nil {
		return "", err
	}
	return a.upload(ctx, body, contentType, opts)
}

// Presign returns a time-limited read URL. A zero expiry means one hour.
func (a *Agent) Presign(ctx context.Context, key, bucket string, expiry time.Duration) (string, error) {
	return a.ops.Presign(ctx, objects.PresignRequest{Key: key, Bucket: bucket, Expiry: expiry})
}

// DeleteObject removes an object.
func (a *Agent) DeleteObject(ctx context.Context, key, bucket string) error {
	return a.ops.Delete(ctx, key, bucket)
}

func (a *Agent) upload(ctx context.Context, body []byte, contentType string, opts UploadOptions) (string, error) {
	if opts.Optimize && optimize.IsImage(contentType) {
		optimized, optimizedType, err := a.optimizer.Optimize(ctx, body)
		if err != nil {
			return "", fmt.Errorf("optimize image: %w", err)
		}
		a.logger.Debug("Optimized image",
			zap.String("from", contentType),
			zap.Int("before", len(body)),
			zap.Int("after", len(optimized)))
		body, contentType = optimized, optimizedType
	}

	key, err := a.ops.Upload(ctx, objects.UploadRequest{
		Body:        body,
		Folder:      opts.Folder,
		Bucket:      opts.Bucket,
		Private:     opts.Private,
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	if len(a.hooks) > 0 {
		_, bucket, _ := a.registry.Lookup(opts.Bucket)
		private := bucket.IsPrivate()
		if opts.Private != nil {
			private = *opts.Private
		}
		u := Uploaded{Bucket: opts.Bucket, Key: key, ContentType: contentType, Size: int64(len(body)), Private: private}
		for _, h := range a.hooks {
			h(ctx, u)
		}
	}
	return key, nil
}
