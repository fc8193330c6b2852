package buckets

import (
	"errors"

	"upload-agent/core/logger"
	"upload-agent/core/objects"
	"upload-agent/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for bucket checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the bucket routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/buckets")
	group.Get("/", h.HandleCheck)
	group.Get("/:bucket/reconcile", h.HandleReconcile)
	group.Get("/:bucket/reconcile/key", h.HandleKeyStatus)
}

// HandleCheck reports whether each registered bucket exists.
// @Summary Check buckets
// @Description Reports provider, visibility and existence of every registered bucket.
// @Tags buckets
// @Produce json
// @Success 200 {array} Report
// @Router /buckets [get]
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Checking buckets")

	return c.JSON(h.service.Check(c.UserContext()))
}

// HandleReconcile compares the ledger with a bucket. Nothing is deleted.
// @Summary Reconcile bucket
// @Description Classifies every key as ok, orphan (storage only) or dangling (ledger only). With purge, lists the actions a confirmed run would take.
// @Tags buckets
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param prefix query string false "Key prefix"
// @Param purge query bool false "Plan purge actions"
// @Success 200 {object} reconcile.Plan
// @Failure 404 {object} map[string]string "Bucket not configured"
// @Failure 503 {object} map[string]string "Ledger disabled"
// @Router /buckets/{bucket}/reconcile [get]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Reconcile(c.UserContext(), bucket, c.Query("prefix"), utils.ToBool(c.Query("purge")))
	if err != nil {
		return reconcileError(c, l, bucket, err)
	}

	return c.JSON(plan)
}

// HandleKeyStatus classifies one key of a bucket.
// @Summary Reconcile key
// @Description Reports whether a key is ok, orphan (storage only) or dangling (ledger only). The status is empty when neither side has the key.
// @Tags buckets
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 200 {object} reconcile.Result
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 404 {object} map[string]string "Bucket not configured"
// @Failure 503 {object} map[string]string "Ledger disabled"
// @Router /buckets/{bucket}/reconcile/key [get]
func (h *Handler) HandleKeyStatus(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	l := logger.WithRayID(h.service.logger, c)

	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}

	res, err := h.service.Status(c.UserContext(), bucket, key)
	if err != nil {
		return reconcileError(c, l, bucket, err)
	}

	return c.JSON(res)
}

func reconcileError(c *fiber.Ctx, l *zap.Logger, bucket string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrLedgerDisabled):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, objects.ErrBucketNotConfigured):
		status = fiber.StatusNotFound
	default:
		l.Error("Reconcile failed", zap.String("bucket", bucket), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
