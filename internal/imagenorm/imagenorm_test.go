package imagenorm

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityfix/cityfix-go/internal/errors"
)

// encodeTestImage renders a flat-colored image of the given size.
// Uniform pixels compress to a few KB, keeping inputs under the cap.
func encodeTestImage(t *testing.T, width, height int, asPNG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: 120, B: 150, A: 255})
		}
	}
	var buf bytes.Buffer
	if asPNG {
		require.NoError(t, png.Encode(&buf, img))
	} else {
		require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, n *NormalizedImage) (int, int) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(n.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestNormalizeScaling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		inW, inH, wantW, wantH int
	}{
		{"landscape constrained by width", 1600, 1200, 800, 600},
		{"portrait constrained by height", 1200, 1600, 450, 600},
		{"wide panorama", 2400, 600, 800, 200},
		{"square constrained by height", 1000, 1000, 600, 600},
		{"small image not upscaled", 400, 300, 400, 300},
		{"exactly at bounds untouched", 800, 600, 800, 600},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			raw := encodeTestImage(t, tt.inW, tt.inH, false)
			n, err := Normalize(raw, "upload")
			require.NoError(t, err)

			assert.Equal(t, tt.wantW, n.Width)
			assert.Equal(t, tt.wantH, n.Height)
			w, h := decodeSize(t, n)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestNormalizeAcceptsPNGAndReencodesJPEG(t *testing.T) {
	t.Parallel()

	raw := encodeTestImage(t, 1024, 768, true)
	n, err := Normalize(raw, "upload")
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", n.Format)
	assert.Equal(t, 800, n.Width)
	assert.Equal(t, 600, n.Height)
}

func TestNormalizeRejectsOversizedInput(t *testing.T) {
	t.Parallel()

	raw := make([]byte, MaxInputBytes+1)
	_, err := Normalize(raw, "upload")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestNormalizeRejectsNonImage(t *testing.T) {
	t.Parallel()

	_, err := Normalize([]byte("definitely not pixels"), "upload")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestNormalizeCorruptImageIsDecodeError(t *testing.T) {
	t.Parallel()

	// JPEG magic bytes followed by garbage: passes the media-type sniff,
	// fails the decoder.
	raw := append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0x42}, 64)...)
	_, err := Normalize(raw, "upload")
	require.Error(t, err)
	assert.True(t, errors.IsImageDecode(err))
}

func TestNormalizeDeterministicAcrossCapturePaths(t *testing.T) {
	t.Parallel()

	// Upload and camera paths share the pipeline: identical decoded
	// pixels must produce identical payloads.
	raw := encodeTestImage(t, 1600, 1200, false)
	a, err := Normalize(raw, "upload")
	require.NoError(t, err)
	b, err := Normalize(raw, "camera")
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)
}

func TestDataURL(t *testing.T) {
	t.Parallel()

	raw := encodeTestImage(t, 100, 100, false)
	n, err := Normalize(raw, "upload")
	require.NoError(t, err)

	url := n.DataURL()
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"), "got %s", url[:40])
}

func TestNormalizeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, encodeTestImage(t, 640, 480, false), 0o644))

	n, err := NormalizeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 640, n.Width)
	assert.Equal(t, 480, n.Height)
}

func TestNormalizeFileMissingIsSourceReadError(t *testing.T) {
	t.Parallel()

	_, err := NormalizeFile(filepath.Join(t.TempDir(), "nope.jpg"))
	require.Error(t, err)
	assert.True(t, errors.IsImageSource(err))
}
