package objects

import (
	"context"
	"errors"
	"time"

	"upload-agent/core/agent"
	"upload-agent/core/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrLedgerDisabled is returned by listings when no database is configured.
var ErrLedgerDisabled = errors.New("ledger disabled: no database configured")

// Ledger is the part of the upload ledger used by the service.
type Ledger interface {
	Record(ctx context.Context, obj ledger.Object) error
	Forget(ctx context.Context, bucket, key string) error
	List(ctx context.Context, bucket string, limit, offset int) ([]ledger.Object, error)
}

// Service exposes the agent operations to the HTTP layer.
type Service struct {
	agent   *agent.Agent
	ledger  Ledger
	cfg     agent.Config
	logger  *zap.Logger
	results *prometheus.CounterVec
}

// NewService creates the objects service. ledger may be nil, reg may be nil.
func NewService(a *agent.Agent, l Ledger, cfg agent.Config, logger *zap.Logger, reg prometheus.Registerer) *Service {
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "upload_agent",
		Name:      "object_operations_total",
		Help:      "Object operations by bucket, operation and result.",
	}, []string{"bucket", "operation", "result"})
	if reg != nil {
		reg.MustRegister(results)
	}

	return &Service{
		agent:   a,
		ledger:  l,
		cfg:     cfg,
		logger:  logger,
		results: results,
	}
}

// LedgerHook records every upload in the ledger. Failures are logged only.
func LedgerHook(l Ledger, logger *zap.Logger) agent.Hook {
	return func(ctx context.Context, u agent.Uploaded) {
		err := l.Record(ctx, ledger.Object{
			Bucket:      u.Bucket,
			Key:         u.Key,
			ContentType: u.ContentType,
			Size:        u.Size,
			Private:     u.Private,
		})
		if err != nil {
			logger.Warn("Failed to record upload", zap.String("bucket", u.Bucket), zap.String("key", u.Key), zap.Error(err))
		}
	}
}

// UploadFromRequest uploads the files buffered on the request.
func (s *Service) UploadFromRequest(c *fiber.Ctx, opts agent.UploadOptions) ([]string, error) {
	keys, err := s.agent.UploadFromRequest(c, opts)
	s.observe(opts.Bucket, "upload", err)
	return keys, err
}

// UploadBuffer uploads a raw body whose type is sniffed.
func (s *Service) UploadBuffer(ctx context.Context, body []byte, opts agent.UploadOptions) (string, error) {
	key, err := s.agent.UploadBuffer(ctx, body, opts)
	s.observe(opts.Bucket, "upload", err)
	return key, err
}

// Presign returns a signed read URL. A zero expiry uses the configured default.
func (s *Service) Presign(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = s.cfg.PresignExpiry()
	}
	url, err := s.agent.Presign(ctx, key, bucket, expiry)
	s.observe(bucket, "presign", err)
	return url, err
}

// Delete removes an object and forgets it in the ledger.
func (s *Service) Delete(ctx context.Context, bucket, key string) error {
	err := s.agent.DeleteObject(ctx, key, bucket)
	s.observe(bucket, "delete", err)
	if err != nil {
		return err
	}

	if s.ledger != nil {
		if err := s.ledger.Forget(ctx, bucket, key); err != nil {
			s.logger.Warn("Failed to forget deleted object", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// List returns a page of the objects recorded for a bucket.
func (s *Service) List(ctx context.Context, bucket string, limit, offset int) ([]ledger.Object, error) {
	if s.ledger == nil {
		return nil, ErrLedgerDisabled
	}
	return s.ledger.List(ctx, bucket, limit, offset)
}

// unknownBucket is the metric label of buckets missing from the registry.
const unknownBucket = "unknown"

func (s *Service) observe(bucket, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	if _, _, ok := s.agent.Registry().Lookup(bucket); !ok {
		bucket = unknownBucket
	}
	s.results.WithLabelValues(bucket, operation, result).Inc()
}
