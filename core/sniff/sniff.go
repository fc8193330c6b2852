// Package sniff determines the content type of a buffer from its bytes.
package sniff

import (
	"errors"

	"github.com/gabriel-vasile/mimetype"
)

// ErrInvalidFileType is returned when the content type cannot be determined.
var ErrInvalidFileType = errors.New("invalid file type")

const (
	unknown = "application/octet-stream"
	// text is the root of every type mimetype guesses from printable
	// content (plain text, JSON, CSV, HTML, ...). None carry a binary signature.
	text = "text/plain"
)

// Detect inspects the magic bytes of body and returns its MIME type.
// Caller-supplied labels such as file names are never consulted.
// Text-like content has no signature and is reported as undetermined.
func Detect(body []byte) (string, error) {
	if len(body) == 0 {
		return "", ErrInvalidFileType
	}

	m := mimetype.Detect(body)
	if m == nil || m.Is(unknown) || isText(m) {
		return "", ErrInvalidFileType
	}
	return m.String(), nil
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(text) {
			return true
		}
	}
	return false
}
