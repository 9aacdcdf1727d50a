package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf
}

func TestProcessDownscalesLandscape(t *testing.T) {
	p := NewProcessor(1200, 900, 70)
	out, err := p.Process(encodePNG(t, 2400, 1200))
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1200, decoded.Bounds().Dx())
	assert.Equal(t, 600, decoded.Bounds().Dy())
}

func TestProcessDownscalesPortrait(t *testing.T) {
	p := NewProcessor(1200, 900, 70)
	out, err := p.Process(encodePNG(t, 900, 1800))
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 450, decoded.Bounds().Dx())
	assert.Equal(t, 900, decoded.Bounds().Dy())
}

func TestProcessKeepsSmallImages(t *testing.T) {
	p := NewProcessor(1200, 900, 70)
	out, err := p.Process(encodePNG(t, 320, 240))
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 320, decoded.Bounds().Dx())
	assert.Equal(t, 240, decoded.Bounds().Dy())
}

func TestProcessRejectsGarbage(t *testing.T) {
	p := NewProcessor(0, 0, 0)
	_, err := p.Process(bytes.NewReader([]byte("not an image")))
	require.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "spring_fling_photo.jpg", SanitizeFilename("spring fling photo.jpg"))
	assert.Equal(t, "a_b.png", SanitizeFilename("a&&&b.png"))
	assert.Equal(t, "plain.jpeg", SanitizeFilename("plain.jpeg"))
}

func TestStampFilename(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	assert.Equal(t, "1700000000000-my_photo.jpg", StampFilename("my photo.jpg", now))
}
