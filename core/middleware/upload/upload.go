package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrInvalidMimeType rejects a part whose declared type is not allowed.
	ErrInvalidMimeType = errors.New("rejected: invalid mime type")
	// ErrTooLarge rejects a request whose parts exceed the size ceiling.
	ErrTooLarge = errors.New("rejected: payload too large")
	// ErrTooManyFiles rejects a request carrying more parts than the handler accepts.
	ErrTooManyFiles = errors.New("rejected: too many files")
)

const localsKey = "upload_files"

// MaxInMemory is the largest total of file parts fasthttp keeps in memory
// while parsing a form. Larger forms spill to temporary files.
const MaxInMemory = 16 << 20

// Config holds the middleware options.
type Config struct {
	// AllowedMimes restricts the declared part types. Empty allows every type.
	AllowedMimes []string
	// MaxSize caps the total size of the buffered parts in bytes.
	// Zero or anything above MaxInMemory is clamped to MaxInMemory.
	MaxSize int64
}

// File is an uploaded part buffered in memory.
type File struct {
	FieldName    string
	OriginalName string
	ContentType  string
	Size         int64
	Body         []byte
}

// Kind tells whether the request carried one file or a list of files.
type Kind int

const (
	KindSingle Kind = iota
	KindMany
)

// Files is the parsed result stored on the request.
type Files struct {
	Kind  Kind
	Items []File
}

// Middleware builds fiber handlers that buffer uploaded files.
type Middleware struct {
	cfg     Config
	allowed map[string]struct{}
}

// New creates the middleware factory.
func New(cfg Config) *Middleware {
	if cfg.MaxSize <= 0 || cfg.MaxSize > MaxInMemory {
		cfg.MaxSize = MaxInMemory
	}

	m := &Middleware{cfg: cfg}
	if len(cfg.AllowedMimes) > 0 {
		m.allowed = make(map[string]struct{}, len(cfg.AllowedMimes))
		for _, mt := range cfg.AllowedMimes {
			m.allowed[mt] = struct{}{}
		}
	}
	return m
}

// Single accepts at most one file under field.
func (m *Middleware) Single(field string) fiber.Handler {
	return m.handler(field, 1, KindSingle)
}

// Array accepts up to maxCount files under field. A maxCount <= 0 means no limit.
func (m *Middleware) Array(field string, maxCount int) fiber.Handler {
	return m.handler(field, maxCount, KindMany)
}

// FromContext returns the files buffered by the middleware.
func FromContext(c *fiber.Ctx) (Files, bool) {
	files, ok := c.Locals(localsKey).(Files)
	return files, ok
}

// IsInvalidMimeType reports whether err is the mime type rejection.
func IsInvalidMimeType(err error) bool {
	var fe *fiber.Error
	return errors.As(err, &fe) && fe.Code == fiber.StatusUnsupportedMediaType
}

func (m *Middleware) handler(field string, maxCount int, kind Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		}

		headers := form.File[field]
		if maxCount > 0 && len(headers) > maxCount {
			return fiber.NewError(fiber.StatusBadRequest, ErrTooManyFiles.Error())
		}

		var total int64
		for _, h := range headers {
			if !m.accepts(h.Header.Get(fiber.HeaderContentType)) {
				return fiber.NewError(fiber.StatusUnsupportedMediaType, ErrInvalidMimeType.Error())
			}
			total += h.Size
			if total > m.cfg.MaxSize {
				return fiber.NewError(fiber.StatusRequestEntityTooLarge, ErrTooLarge.Error())
			}
		}

		items := make([]File, 0, len(headers))
		for _, h := range headers {
			file, err := read(field, h)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			items = append(items, file)
		}

		if len(items) > 0 {
			c.Locals(localsKey, Files{Kind: kind, Items: items})
		}
		return c.Next()
	}
}

func (m *Middleware) accepts(contentType string) bool {
	if m.allowed == nil {
		return true
	}
	_, ok := m.allowed[contentType]
	return ok
}

func read(field string, h *multipart.FileHeader) (File, error) {
	f, err := h.Open()
	if err != nil {
		return File{}, fmt.Errorf("failed to open %s: %w", h.Filename, err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return File{}, fmt.Errorf("failed to read %s: %w", h.Filename, err)
	}

	return File{
		FieldName:    field,
		OriginalName: h.Filename,
		ContentType:  h.Header.Get(fiber.HeaderContentType),
		Size:         int64(len(body)),
		Body:         body,
	}, nil
}
