package editor

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
)

type SizeName string

const (
	SizeSmall        SizeName = "small"
	SizeMedium       SizeName = "medium"
	SizeLarge        SizeName = "large"
	SizeCustom       SizeName = "custom"
	SizeFavicon      SizeName = "favicon"
	SizeBusinessCard SizeName = "business_card"
	SizeLetterhead   SizeName = "letterhead"
)

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var ExportSizes = map[SizeName]Dimensions{
	SizeSmall:        {512, 512},
	SizeMedium:       {1024, 1024},
	SizeLarge:        {2048, 2048},
	SizeFavicon:      {64, 64},
	SizeBusinessCard: {1050, 600},
	SizeLetterhead:   {2550, 3300}, // 8.5x11 at 300 DPI
}

// MaxExportPixels bounds width*height of a single export; the print preset at large size is the ceiling.
const MaxExportPixels = 6144 * 6144

const (
	WatermarkText  = "LogoGen"
	WatermarkColor = "rgba(128, 128, 128, 0.5)"
	WatermarkFont  = "Arial"
)

type ExportOptions struct {
	Format       Format   `json:"format"`
	Quality      float64  `json:"quality"`
	Scale        float64  `json:"scale"`
	AddWatermark bool     `json:"addWatermark"`
	Size         SizeName `json:"size"`
	CustomWidth  int      `json:"customWidth,omitempty"`
	CustomHeight int      `json:"customHeight,omitempty"`
}

var Presets = map[string]ExportOptions{
	"web":     {Format: FormatPNG, Quality: 1.0, Scale: 1, Size: SizeMedium},
	"print":   {Format: FormatPNG, Quality: 1.0, Scale: 3, Size: SizeLarge},
	"social":  {Format: FormatJPG, Quality: 0.9, Scale: 1, Size: SizeMedium},
	"favicon": {Format: FormatPNG, Quality: 1.0, Scale: 1, Size: SizeCustom, CustomWidth: 64, CustomHeight: 64},
}

// Dimensions resolves the export size before Scale is applied. Unknown sizes fall back to medium.
func (o ExportOptions) Dimensions() Dimensions {
	if o.Size == SizeCustom && o.CustomWidth > 0 && o.CustomHeight > 0 {
		return Dimensions{o.CustomWidth, o.CustomHeight}
	}
	if d, ok := ExportSizes[o.Size]; ok {
		return d
	}
	return ExportSizes[SizeMedium]
}

// PixelSize is the final raster size: Dimensions multiplied by Scale.
func (o ExportOptions) PixelSize() Dimensions {
	scale := o.Scale
	if scale <= 0 {
		scale = 1
	}
	d := o.Dimensions()
	return Dimensions{int(math.Round(float64(d.Width) * scale)), int(math.Round(float64(d.Height) * scale))}
}

// Normalize fills defaults and rejects sizes the renderer should not attempt.
func (o ExportOptions) Normalize() (ExportOptions, error) {
	switch o.Format {
	case "":
		o.Format = FormatPNG
	case "jpeg":
		o.Format = FormatJPG
	case FormatPNG, FormatJPG:
	default:
		return o, fmt.Errorf("%w: unsupported format %q", ErrInvalidExport, o.Format)
	}
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = 1
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Size == "" {
		o.Size = SizeMedium
	}
	px := o.PixelSize()
	if px.Width <= 0 || px.Height <= 0 || px.Width*px.Height > MaxExportPixels {
		return o, fmt.Errorf("%w: size %dx%d out of range", ErrInvalidExport, px.Width, px.Height)
	}
	return o, nil
}

// HasPremiumAccess reports whether a purchased plan unlocks unwatermarked exports.
func HasPremiumAccess(plan string) bool {
	return plan == "standard" || plan == "premium"
}

// ExportOptionsFor forces the watermark on for plans without premium access.
func ExportOptionsFor(plan string, opts ExportOptions) ExportOptions {
	if !HasPremiumAccess(plan) {
		opts.AddWatermark = true
	}
	return opts
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportFilename builds "<name>_logo_<size>_<yyyy-mm-dd>.<ext>".
func ExportFilename(businessName string, opts ExportOptions, now time.Time) string {
	clean := strings.ToLower(nonAlnum.ReplaceAllString(businessName, "_"))
	format := opts.Format
	if format == "" {
		format = FormatPNG
	}
	size := opts.Size
	if size == "" {
		size = SizeMedium
	}
	return fmt.Sprintf("%s_logo_%s_%s.%s", clean, size, now.UTC().Format("2006-01-02"), format)
}

// PrepareExport returns a copy of the canvas scaled to the export pixel size,
// with the watermark appended when requested. The source canvas is not modified.
func PrepareExport(c *Canvas, opts ExportOptions) *Canvas {
	px := opts.PixelSize()
	out := NewCanvas(px.Width, px.Height, c.Background)

	sx := float64(px.Width) / float64(c.Width)
	sy := float64(px.Height) / float64(c.Height)

	for _, o := range c.objects {
		dup := *o
		osx, osy := dup.Style.EffectiveScale()
		dup.Style.Left *= sx
		dup.Style.Top *= sy
		dup.Style.ScaleX = osx * sx
		dup.Style.ScaleY = osy * sy
		out.objects = append(out.objects, &dup)
	}

	if opts.AddWatermark {
		addWatermark(out)
	}
	return out
}

func addWatermark(c *Canvas) {
	w, h := float64(c.Width), float64(c.Height)
	c.objects = append(c.objects, &Object{
		ID:         "watermark",
		Type:       ObjectText,
		Visible:    true,
		Selectable: false,
		Style: Style{
			Left:       w - 150,
			Top:        h - 50,
			Text:       WatermarkText,
			FontFamily: WatermarkFont,
			FontSize:   math.Max(24, math.Min(w, h)*0.02),
			Fill:       WatermarkColor,
		},
	})
}

// HasWatermark reports whether the canvas carries the export watermark.
func (c *Canvas) HasWatermark() bool {
	for _, o := range c.objects {
		if o.Type == ObjectText && !o.Selectable && o.Style.Text == WatermarkText {
			return true
		}
	}
	return false
}
