// Package images implements the upload pipeline for event photos: bounded
// downscaling, JPEG re-encoding and filename normalisation.
package images

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// Processor downscales images to fit a bounding box and re-encodes them as
// JPEG at a fixed quality. Images already inside the box keep their size;
// nothing is ever upscaled.
type Processor struct {
	maxWidth  int
	maxHeight int
	quality   int
}

// NewProcessor builds a processor; zero values fall back to 1200x900 at
// quality 70, matching the sizes the event cards render at.
func NewProcessor(maxWidth, maxHeight, quality int) *Processor {
	if maxWidth <= 0 {
		maxWidth = 1200
	}
	if maxHeight <= 0 {
		maxHeight = 900
	}
	if quality <= 0 || quality > 100 {
		quality = 70
	}
	return &Processor{maxWidth: maxWidth, maxHeight: maxHeight, quality: quality}
}

// Process decodes the image, fits it within the bounding box preserving
// aspect ratio, and returns JPEG bytes.
func (p *Processor) Process(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.maxWidth || bounds.Dy() > p.maxHeight {
		img = imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
