package imaging

import (
	"errors"
	"fmt"

	"github.com/h2non/bimg"
)

var ErrNotImage = errors.New("payload is not a supported image")

var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
}

// Inspector sniffs uploads with libvips.
type Inspector struct{}

func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect returns the real type and dimensions of data. The declared content
// type of an upload is never trusted on its own.
func (i *Inspector) Inspect(data []byte) (string, int, int, error) {
	name := bimg.DetermineImageTypeName(data)
	mime, ok := mimeTypes[name]
	if !ok {
		return "", 0, 0, fmt.Errorf("%w: %s", ErrNotImage, name)
	}

	size, err := bimg.NewImage(data).Size()
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return mime, size.Width, size.Height, nil
}
