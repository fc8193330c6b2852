package optimize

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// MaxDimension is the bounding box edge images are fitted into.
	MaxDimension = 2000
	// Quality is the lossy WebP quality factor.
	Quality = 80
	// ContentType is the content type of every optimized image.
	ContentType = "image/webp"
)

// recognised lists the declared types that are recompressed.
var recognised = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/tiff": true,
	"image/bmp":  true,
}

// IsImage reports whether a content type is recompressed by the optimizer.
func IsImage(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return recognised[strings.ToLower(strings.TrimSpace(mediaType))]
}

// Optimizer recompresses images with a fixed policy: fit inside
// MaxDimension x MaxDimension keeping the aspect ratio, never enlarge,
// keep EXIF metadata, encode as lossy WebP.
type Optimizer struct {
	maxWidth  int
	maxHeight int
	quality   float32
}

// New creates an optimizer with the fixed policy.
func New() *Optimizer {
	return &Optimizer{maxWidth: MaxDimension, maxHeight: MaxDimension, quality: Quality}
}

// Optimize returns the recompressed image and its content type.
func (o *Optimizer) Optimize(ctx context.Context, body []byte) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image header: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Fit returns a copy when the image already fits, so nothing is upscaled.
	resized := imaging.Fit(img, o.maxWidth, o.maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Lossless: false, Quality: o.quality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	out := buf.Bytes()

	if exif := exifOf(body, format); len(exif) > 0 {
		withMeta, err := webp.SetMetadata(out, exif, "EXIF")
		if err != nil {
			return nil, "", fmt.Errorf("failed to copy metadata: %w", err)
		}
		out = withMeta
	}

	return out, ContentType, nil
}

func exifOf(body []byte, format string) []byte {
	switch format {
	case "jpeg":
		return jpegEXIF(body)
	case "webp":
		exif, err := webp.GetMetadata(body, "EXIF")
		if err != nil {
			return nil
		}
		return exif
	default:
		return nil
	}
}

var exifHeader = []byte("Exif\x00\x00")

// jpegEXIF returns the TIFF payload of the first APP1 Exif segment.
func jpegEXIF(body []byte) []byte {
	if len(body) < 4 || body[0] != 0xFF || body[1] != 0xD8 {
		return nil
	}

	for i := 2; i+4 <= len(body); {
		if body[i] != 0xFF {
			return nil
		}
		marker := body[i+1]
		// Start of scan or end of image: no more metadata segments.
		if marker == 0xDA || marker == 0xD9 {
			return nil
		}
		length := int(binary.BigEndian.Uint16(body[i+2 : i+4]))
		end := i + 2 + length
		if length < 2 || end > len(body) {
			return nil
		}
		segment := body[i+4 : end]
		if marker == 0xE1 && bytes.HasPrefix(segment, exifHeader) {
			return segment[len(exifHeader):]
		}
		i = end
	}
	return nil
}
