package objects

import (
	"errors"
	"fmt"
	"time"

	"upload-agent/core/agent"
	"upload-agent/core/logger"
	"upload-agent/core/middleware/upload"
	ops "upload-agent/core/objects"
	"upload-agent/core/sniff"
	"upload-agent/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for objects.
type Handler struct {
	service *Service
	upload  *upload.Middleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, up *upload.Middleware) *Handler {
	return &Handler{service: service, upload: up}
}

// RegisterRoutes registers the object routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/objects")
	group.Post("/:bucket", h.upload.Single("file"), h.HandleUpload)
	group.Post("/:bucket/batch", h.upload.Array("files", h.service.cfg.MaxFiles), h.HandleUpload)
	group.Put("/:bucket/raw", h.HandleUploadRaw)
	group.Get("/:bucket/url", h.HandlePresign)
	group.Get("/:bucket", h.HandleList)
	group.Delete("/:bucket", h.HandleDelete)
}

// UploadResponse lists the keys of the stored objects in request order.
type UploadResponse struct {
	Bucket string   `json:"bucket"`
	Keys   []string `json:"keys"`
}

// HandleUpload stores the files of a multipart request.
// @Summary Upload files
// @Description Upload one file (field "file") or a batch (field "files", on /batch). Images can be recompressed to WebP.
// @Tags objects
// @Accept multipart/form-data
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param folder formData string false "Destination folder, e.g. /avatars"
// @Param private formData bool false "Override the bucket default visibility"
// @Param optimize formData bool false "Recompress images to WebP"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Bucket not configured"
// @Failure 413 {string} string "Payload too large"
// @Failure 415 {string} string "Invalid mime type"
// @Failure 502 {object} map[string]string "Storage provider error"
// @Router /objects/{bucket} [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts, err := h.uploadOptions(c, c.FormValue)
	if err != nil {
		return respondError(c, err)
	}

	keys, err := h.service.UploadFromRequest(c, opts)
	if err != nil {
		l.Error("Upload failed", zap.String("bucket", opts.Bucket), zap.Error(err))
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UploadResponse{Bucket: opts.Bucket, Keys: keys})
}

// HandleUploadRaw stores the raw request body. Its type is detected from its bytes.
// @Summary Upload raw bytes
// @Description Upload the request body as-is. The content type is sniffed from the bytes.
// @Tags objects
// @Accept application/octet-stream
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param folder query string false "Destination folder, e.g. /avatars"
// @Param private query bool false "Override the bucket default visibility"
// @Param optimize query bool false "Recompress images to WebP"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} map[string]string "Invalid file type"
// @Failure 404 {object} map[string]string "Bucket not configured"
// @Failure 502 {object} map[string]string "Storage provider error"
// @Router /objects/{bucket}/raw [put]
func (h *Handler) HandleUploadRaw(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts, err := h.uploadOptions(c, func(key string, def ...string) string { return c.Query(key, def...) })
	if err != nil {
		return respondError(c, err)
	}

	// The request body buffer is reused once the handler returns.
	body := append([]byte(nil), c.Body()...)

	key, err := h.service.UploadBuffer(c.UserContext(), body, opts)
	if err != nil {
		l.Error("Raw upload failed", zap.String("bucket", opts.Bucket), zap.Error(err))
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UploadResponse{Bucket: opts.Bucket, Keys: []string{key}})
}

// HandlePresign returns a time-limited read URL.
// @Summary Presign object
// @Description Get a signed GET URL for an object.
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Param expires query int false "Lifetime in seconds"
// @Success 200 {object} map[string]string "Signed URL"
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 404 {object} map[string]string "Bucket not configured"
// @Router /objects/{bucket}/url [get]
func (h *Handler) HandlePresign(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}
	expiry := time.Duration(utils.ToInt(c.Query("expires"), 0)) * time.Second

	url, err := h.service.Presign(c.UserContext(), bucket, key, expiry)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Presign failed", zap.String("bucket", bucket), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}

// HandleDelete removes an object.
// @Summary Delete object
// @Tags objects
// @Param bucket path string true "Bucket name"
// @Param key query string true "Object key"
// @Success 204
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 404 {object} map[string]string "Bucket not configured"
// @Failure 502 {object} map[string]string "Storage provider error"
// @Router /objects/{bucket} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}

	if err := h.service.Delete(c.UserContext(), bucket, key); err != nil {
		logger.WithRayID(h.service.logger, c).Error("Delete failed", zap.String("bucket", bucket), zap.Error(err))
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleList returns the objects recorded in the ledger for a bucket.
// @Summary List recorded objects
// @Tags objects
// @Produce json
// @Param bucket path string true "Bucket name"
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset"
// @Success 200 {array} ledger.Object
// @Failure 503 {object} map[string]string "Ledger disabled"
// @Router /objects/{bucket} [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	bucket := c.Params("bucket")

	objs, err := h.service.List(c.UserContext(), bucket, utils.ToInt(c.Query("limit"), 100), utils.ToInt(c.Query("offset"), 0))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(objs)
}

func (h *Handler) uploadOptions(c *fiber.Ctx, value func(key string, def ...string) string) (agent.UploadOptions, error) {
	private, err := utils.ToOptionalBool(value("private"))
	if err != nil {
		return agent.UploadOptions{}, fmt.Errorf("%w: private: %v", errBadRequest, err)
	}

	optimize := h.service.cfg.Optimize
	if raw := value("optimize"); raw != "" {
		optimize = utils.ToBool(raw)
	}

	return agent.UploadOptions{
		Bucket:   c.Params("bucket"),
		Folder:   value("folder"),
		Private:  private,
		Optimize: optimize,
	}, nil
}

var errBadRequest = errors.New("bad request")

// statusFor maps an operation error to an HTTP status.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ops.ErrBucketNotConfigured):
		return fiber.StatusNotFound
	case errors.Is(err, ops.ErrInvalidFolder),
		errors.Is(err, ops.ErrInvalidContentType),
		errors.Is(err, sniff.ErrInvalidFileType),
		errors.Is(err, agent.ErrNoFiles),
		errors.Is(err, errBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrLedgerDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
