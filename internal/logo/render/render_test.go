package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/logogen/logogen-backend/internal/editor"
	"github.com/logogen/logogen-backend/internal/logo/domain"
)

func newTestRasterizer(t *testing.T) *Rasterizer {
	t.Helper()
	fonts, err := NewFontRegistry()
	require.NoError(t, err)
	return NewRasterizer(fonts)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		err  bool
	}{
		{"#000", color.NRGBA{0, 0, 0, 255}, false},
		{"#3b82f6", color.NRGBA{0x3b, 0x82, 0xf6, 255}, false},
		{"#FF000080", color.NRGBA{255, 0, 0, 0x80}, false},
		{"rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 255}, false},
		{"rgba(128, 128, 128, 0.5)", color.NRGBA{128, 128, 128, 128}, false},
		{"transparent", color.NRGBA{}, false},
		{" White ", color.NRGBA{255, 255, 255, 255}, false},
		{"#12345", color.NRGBA{}, true},
		{"rgb(300, 0, 0)", color.NRGBA{}, true},
		{"rgba(1, 2, 3, 2)", color.NRGBA{}, true},
		{"chartreuse-ish", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSVG(t *testing.T) {
	t.Run("escapes user text", func(t *testing.T) {
		out := string(SVG(domain.LogoData{
			BusinessName: `Tom & Jerry's <Cafe>`,
			Tagline:      `"fresh"`,
			PrimaryColor: "#ff0000",
		}))
		assert.Contains(t, out, `Tom &amp; Jerry&#39;s &lt;Cafe&gt;`)
		assert.Contains(t, out, `&#34;fresh&#34;`)
		assert.NotContains(t, out, "<Cafe>")
		assert.Contains(t, out, `fill="#ff0000"`)
		assert.Contains(t, out, `width="1200" height="800"`)
	})

	t.Run("tagline omitted when empty", func(t *testing.T) {
		out := string(SVG(domain.LogoData{BusinessName: "Acme"}))
		assert.Equal(t, 1, strings.Count(out, "<text"))
		assert.Contains(t, out, `font-family="Inter, Arial, sans-serif"`)
		assert.Contains(t, out, `fill="#000000"`)
	})

	t.Run("tagline uses secondary colour", func(t *testing.T) {
		out := string(SVG(domain.LogoData{BusinessName: "Acme", Tagline: "Since 1999", SecondaryColor: "#123456"}))
		assert.Equal(t, 2, strings.Count(out, "<text"))
		assert.Contains(t, out, `y="420"`)
		assert.Contains(t, out, `fill="#123456"`)
	})
}

func TestPlaceholderSVG(t *testing.T) {
	out := string(PlaceholderSVG("A&B", domain.FileJPG))
	assert.Contains(t, out, "A&amp;B")
	assert.Contains(t, out, "JPG file")
}

func hasColor(img *image.NRGBA, want color.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y) == want {
				return true
			}
		}
	}
	return false
}

func TestRasterizer_Render(t *testing.T) {
	r := newTestRasterizer(t)

	img, err := r.Render(domain.LogoData{BusinessName: "Acme", PrimaryColor: "#ff0000"})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, LogoWidth, LogoHeight), img.Bounds())
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A, "background stays transparent")
	assert.True(t, hasColor(img, color.NRGBA{255, 0, 0, 255}), "title drawn in the primary colour")
}

func TestRasterizer_GenerateFiles(t *testing.T) {
	r := newTestRasterizer(t)
	logo := domain.LogoData{BusinessName: "Acme", Tagline: "Rockets"}

	standard, err := r.GenerateFiles(logo, domain.PackageStandard)
	require.NoError(t, err)
	assert.Len(t, standard, 2)
	assert.NotContains(t, standard, domain.FileSVG)

	pngImg, err := png.Decode(bytes.NewReader(standard[domain.FilePNG]))
	require.NoError(t, err)
	assert.Equal(t, LogoWidth, pngImg.Bounds().Dx())
	assert.Equal(t, LogoHeight, pngImg.Bounds().Dy())
	_, _, _, a := pngImg.At(5, 5).RGBA()
	assert.Zero(t, a)

	jpgImg, err := jpeg.Decode(bytes.NewReader(standard[domain.FileJPG]))
	require.NoError(t, err)
	cr, cg, cb, _ := jpgImg.At(5, 5).RGBA()
	assert.Greater(t, cr>>8, uint32(250), "jpg is flattened on white")
	assert.Greater(t, cg>>8, uint32(250))
	assert.Greater(t, cb>>8, uint32(250))

	premium, err := r.GenerateFiles(logo, domain.PackagePremium)
	require.NoError(t, err)
	assert.Len(t, premium, 3)
	assert.Contains(t, string(premium[domain.FileSVG]), "Rockets")

	_, err = r.GenerateFiles(logo, "gold")
	assert.ErrorIs(t, err, domain.ErrUnknownPackage)
}

func TestRasterizer_RenderCanvas(t *testing.T) {
	r := newTestRasterizer(t)
	red := color.NRGBA{255, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}

	c := editor.NewCanvas(200, 100, "#ffffff")
	_, err := c.AddShape(editor.ShapeRectangle, editor.Style{Left: 20, Top: 20, Width: 60, Height: 40, Fill: "#ff0000"})
	require.NoError(t, err)
	hidden, err := c.AddShape(editor.ShapeCircle, editor.Style{Left: 120, Top: 20, Width: 60, Height: 60, Fill: "#00ff00"})
	require.NoError(t, err)
	_, err = c.ToggleVisibility(hidden.ID)
	require.NoError(t, err)

	img, err := r.RenderCanvas(c)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())
	assert.Equal(t, red, img.NRGBAAt(50, 40))
	assert.Equal(t, white, img.NRGBAAt(150, 50), "hidden objects are skipped")
	assert.Equal(t, white, img.NRGBAAt(5, 95))

	t.Run("watermarked export draws text", func(t *testing.T) {
		plain := editor.NewCanvas(400, 200, "#ffffff")
		out, err := r.RenderCanvas(editor.PrepareExport(plain, editor.ExportOptions{Size: editor.SizeSmall, AddWatermark: true}))
		require.NoError(t, err)
		assert.Equal(t, 512, out.Bounds().Dx())

		marked := false
		for y := 512 - 50; y < 512 && !marked; y++ {
			for x := 512 - 150; x < 512; x++ {
				if out.NRGBAAt(x, y) != white {
					marked = true
					break
				}
			}
		}
		assert.True(t, marked)
	})

	t.Run("oversized canvas", func(t *testing.T) {
		_, err := r.RenderCanvas(editor.NewCanvas(10000, 10000, ""))
		assert.ErrorIs(t, err, ErrCanvasTooLarge)
	})
}

func TestVectorElement(t *testing.T) {
	icon := editor.Object{Type: editor.ObjectIcon, IconPath: "M0 0h24v24H0z", Style: editor.Style{Left: 10, Top: 10, Width: 48, Height: 48, Fill: "#000000"}}
	el, err := vectorElement(icon)
	require.NoError(t, err)
	assert.Contains(t, el, "translate(10 10) scale(2 2)")

	icon.IconPath = ""
	_, err = vectorElement(icon)
	assert.ErrorIs(t, err, ErrMissingIcon)

	rotated := editor.Object{Type: editor.ObjectShape, Shape: editor.ShapeRectangle, Style: editor.Style{Width: 10, Height: 10, Angle: 45, Fill: "#ff0000"}}
	el, err = vectorElement(rotated)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(el, `<g transform="rotate(45 5 5)">`))

	line := editor.Object{Type: editor.ObjectShape, Shape: editor.ShapeLine, Style: editor.Style{Width: 100, Stroke: "#000000", StrokeWidth: 2}}
	el, err = vectorElement(line)
	require.NoError(t, err)
	assert.Contains(t, el, `fill="none"`)
	assert.Contains(t, el, `stroke-width="2"`)
}

func TestVectorBounds(t *testing.T) {
	rect := editor.Object{Type: editor.ObjectShape, Shape: editor.ShapeRectangle, Style: editor.Style{Left: 10, Top: 20, Width: 30, Height: 40}}
	assert.Equal(t, image.Rect(8, 18, 42, 62), vectorBounds(rect))

	rect.Style.StrokeWidth = 4
	assert.Equal(t, image.Rect(4, 14, 46, 66), vectorBounds(rect))

	rect.Style.StrokeWidth = 0
	rect.Style.Angle = 45
	b := vectorBounds(rect)
	assert.Less(t, b.Min.X, 8, "rotation widens the painted area")
	assert.Greater(t, b.Max.Y, 62)

	far := editor.Object{Type: editor.ObjectShape, Shape: editor.ShapeRectangle, Style: editor.Style{Left: 1e30, Top: -1e30, Width: 10, Height: 10}}
	assert.True(t, vectorBounds(far).Intersect(image.Rect(0, 0, 100, 100)).Empty())
}

func TestRasterizer_RenderCanvas_ManyObjects(t *testing.T) {
	r := newTestRasterizer(t)
	c := editor.NewCanvas(2048, 2048, "#ffffff")
	for i := 0; i < 300; i++ {
		_, err := c.AddShape(editor.ShapeRectangle, editor.Style{
			Left: float64(i % 20 * 100), Top: float64(i / 20 * 100), Width: 4, Height: 4, Fill: "#ff0000",
		})
		require.NoError(t, err)
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	start := time.Now()

	img, err := r.RenderCanvas(c)
	require.NoError(t, err)

	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, img.NRGBAAt(1902, 1402))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(50, 50))

	// two full frames (working RGBA and the returned NRGBA) plus per-object scratch
	allocated := after.TotalAlloc - before.TotalAlloc
	assert.Less(t, allocated, uint64(64<<20), "allocated %d bytes", allocated)
	assert.Less(t, elapsed, 10*time.Second)
}

func TestThumbnail(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1200, 800))
	th := Thumbnail(img, 300)
	assert.Equal(t, 300, th.Bounds().Dx())
	assert.Equal(t, 200, th.Bounds().Dy())
}

func TestFontRegistry(t *testing.T) {
	reg, err := NewFontRegistry()
	require.NoError(t, err)

	fallback := reg.fonts[fontKey{"go", false}]
	assert.Same(t, fallback, reg.resolve("Nonexistent Sans", false))
	assert.Same(t, reg.fonts[fontKey{"go", true}], reg.resolve("Inter", true))
	assert.Same(t, reg.fonts[fontKey{"go italic", false}], reg.resolve("'Dancing Script', cursive", false))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Brand-Bold.ttf"), goregular.TTF, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a font"), 0o644))

	n, err := reg.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	brandBold := reg.resolve("Brand", true)
	assert.NotSame(t, fallback, brandBold)
	assert.Same(t, brandBold, reg.resolve("brand", false), "regular request falls back to the only cut")

	face, err := reg.Face("Brand", true, 20)
	require.NoError(t, err)
	assert.NoError(t, face.Close())

	_, err = reg.LoadDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
