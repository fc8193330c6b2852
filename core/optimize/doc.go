// Package optimize recompresses uploaded images before they are stored.
//
// The policy is fixed: the image is fitted inside 2000x2000 preserving its
// aspect ratio (smaller images keep their size), EXIF metadata from JPEG and
// WebP sources is carried over, and the result is encoded as lossy WebP.
//
// # Usage
//
//	if optimize.IsImage(contentType) {
//	    body, contentType, err = optimize.New().Optimize(ctx, body)
//	}
package optimize
