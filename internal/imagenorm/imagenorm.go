// Package imagenorm decodes, bounds and re-encodes report photos into a
// self-contained payload. The same pipeline serves gallery uploads and
// camera captures; identical pixels in produce identical payloads out.
package imagenorm

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"net/http"
	"os"
	"strings"

	// Registered decoders for the accepted input formats.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/cityfix/cityfix-go/internal/errors"
)

const (
	// MaxInputBytes is the input size cap. Larger files are rejected
	// rather than downscaled.
	MaxInputBytes = 500 * 1024

	// MaxWidth and MaxHeight bound the normalized image. Images are
	// scaled down only, by the dominant-dimension rule.
	MaxWidth  = 800
	MaxHeight = 600

	// JPEGQuality is the fixed re-encode quality factor.
	JPEGQuality = 70
)

// NormalizedImage is the bounded-size representation of a report photo.
type NormalizedImage struct {
	Format string // always "image/jpeg"
	Width  int
	Height int
	Data   []byte
}

// DataURL renders the payload as an embeddable data URL string, the form
// the store persists.
func (n *NormalizedImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", n.Format, base64.StdEncoding.EncodeToString(n.Data))
}

// Normalize validates, decodes, downscales and re-encodes raw image
// bytes. source names the origin for error context only ("upload",
// "camera", a filename). It never returns a partial payload: any failure
// yields a nil image and a categorized error.
func Normalize(raw []byte, source string) (*NormalizedImage, error) {
	if len(raw) > MaxInputBytes {
		return nil, errors.Newf("image size should be less than 500KB").
			Category(errors.CategoryValidation).
			Component("imagenorm").
			Context("source", source).
			Context("size_bytes", len(raw)).
			Build()
	}

	if contentType := http.DetectContentType(raw); !strings.HasPrefix(contentType, "image/") {
		return nil, errors.Newf("not an image file (detected %s)", contentType).
			Category(errors.CategoryValidation).
			Component("imagenorm").
			Context("source", source).
			Context("content_type", contentType).
			Build()
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryImageDecode).
			Component("imagenorm").
			Context("source", source).
			Build()
	}

	bounds := src.Bounds()
	width, height := targetSize(bounds.Dx(), bounds.Dy())

	out := src
	if width != bounds.Dx() || height != bounds.Dy() {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryImageDecode).
			Component("imagenorm").
			Context("source", source).
			Build()
	}

	return &NormalizedImage{
		Format: "image/jpeg",
		Width:  width,
		Height: height,
		Data:   buf.Bytes(),
	}, nil
}

// NormalizeFile reads and normalizes an image from disk.
func NormalizeFile(path string) (*NormalizedImage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryImageSource).
			Component("imagenorm").
			Context("path", path).
			Build()
	}
	return Normalize(raw, path)
}

// targetSize applies the dominant-dimension rule: landscape images are
// constrained by width first, others by height first. Scale down only.
func targetSize(width, height int) (int, int) {
	w, h := float64(width), float64(height)
	if width > height {
		if width > MaxWidth {
			h *= MaxWidth / w
			w = MaxWidth
		}
	} else {
		if height > MaxHeight {
			w *= MaxHeight / h
			h = MaxHeight
		}
	}
	return atLeastOne(math.Round(w)), atLeastOne(math.Round(h))
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}
