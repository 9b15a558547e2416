package upload

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned when a capture is not a PNG or JPEG picture.
var ErrNotImage = errors.New("capture is not a PNG or JPEG image")

// Image is a decoded camera capture.
type Image struct {
	MIME    string
	Width   int
	Height  int
	Content []byte
}

// DecodeImage checks that data holds a PNG or JPEG picture and reads its size.
func DecodeImage(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	m := mimetype.Detect(data)
	if !m.Is("image/png") && !m.Is("image/jpeg") {
		return nil, fmt.Errorf("%w: got %s", ErrNotImage, m.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: empty %dx%d picture", ErrNotImage, cfg.Width, cfg.Height)
	}

	return &Image{
		MIME:    m.String(),
		Width:   cfg.Width,
		Height:  cfg.Height,
		Content: data,
	}, nil
}

// DataURL encodes the picture for an <img src>.
func (i *Image) DataURL() string {
	return "data:" + i.MIME + ";base64," + base64.StdEncoding.EncodeToString(i.Content)
}
