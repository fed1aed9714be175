package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/logogen/logogen-backend/internal/logo/domain"
)

const DefaultJPEGQuality = 95

// Encode writes img as PNG (alpha kept) or JPG (flattened on white).
// quality applies to JPG only; values outside 1..100 use DefaultJPEGQuality.
func Encode(img image.Image, format domain.FileType, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case domain.FilePNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case domain.FileJPG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		if err := imaging.Encode(&buf, Flatten(img, color.White), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("encode jpg: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot rasterize to %q", format)
	}
	return buf.Bytes(), nil
}

// Flatten composites img over a solid background.
func Flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	base := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(base, img, image.Point{}, 1.0)
}

// Thumbnail scales img to fit within a size x size box, keeping the aspect ratio.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	return imaging.Fit(img, size, size, imaging.Lanczos)
}
