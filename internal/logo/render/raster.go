package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/logogen/logogen-backend/internal/editor"
	"github.com/logogen/logogen-backend/internal/logo/domain"
)

// iconGrid is the coordinate space icon path data is authored in.
const iconGrid = 24.0

var (
	black = color.NRGBA{0, 0, 0, 255}

	ErrCanvasTooLarge = errors.New("canvas exceeds the maximum export size")
	ErrMissingIcon    = errors.New("icon object has no path data")
)

type Rasterizer struct {
	fonts *FontRegistry
}

func NewRasterizer(fonts *FontRegistry) *Rasterizer {
	return &Rasterizer{fonts: fonts}
}

func drawString(dst draw.Image, face font.Face, s string, c color.NRGBA, x, baseline float64) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(baseline * 64)}
	d.DrawString(s)
}

// Render draws the logo layout on a transparent 1200x800 image.
func (r *Rasterizer) Render(d domain.LogoData) (*image.NRGBA, error) {
	d = d.WithDefaults()
	img := image.NewNRGBA(image.Rect(0, 0, LogoWidth, LogoHeight))

	title, err := r.fonts.Face(d.FontFamily, true, titleSize)
	if err != nil {
		return nil, err
	}
	defer title.Close()
	drawCentered(img, title, strings.TrimSpace(d.BusinessName), colorOr(d.PrimaryColor, black), titleX, titleY)

	if tagline := strings.TrimSpace(d.Tagline); tagline != "" {
		face, err := r.fonts.Face(d.FontFamily, false, taglineSize)
		if err != nil {
			return nil, err
		}
		defer face.Close()
		drawCentered(img, face, tagline, colorOr(d.SecondaryColor, color.NRGBA{0x66, 0x66, 0x66, 255}), taglineX, taglineY)
	}
	return img, nil
}

// drawCentered matches SVG text-anchor="middle": x is the horizontal centre, y the baseline.
func drawCentered(dst draw.Image, face font.Face, s string, c color.NRGBA, x, y float64) {
	d := &font.Drawer{Face: face}
	width := float64(d.MeasureString(s)) / 64
	drawString(dst, face, s, c, x-width/2, y)
}

// RenderCanvas draws the visible objects of c in z-order at the canvas' own size.
// Scale a canvas with editor.PrepareExport first to render it at an export size.
func (r *Rasterizer) RenderCanvas(c *editor.Canvas) (*image.NRGBA, error) {
	if c.Width <= 0 || c.Height <= 0 || c.Width*c.Height > editor.MaxExportPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasTooLarge, c.Width, c.Height)
	}

	// Compositing runs on premultiplied RGBA, which image/draw has fast paths for.
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	if bg := colorOr(c.Background, color.NRGBA{}); bg.A > 0 {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	var layer vectorLayer
	for _, o := range c.Objects() {
		if !o.Visible {
			continue
		}
		var err error
		switch o.Type {
		case editor.ObjectText:
			err = r.drawText(img, o.Style)
		case editor.ObjectShape, editor.ObjectIcon:
			err = layer.draw(img, o)
		}
		if err != nil {
			return nil, fmt.Errorf("render object %s: %w", o.ID, err)
		}
	}
	return imaging.Clone(img), nil
}

func isBold(weight string) bool {
	switch strings.ToLower(weight) {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

func (r *Rasterizer) drawText(img draw.Image, st editor.Style) error {
	_, sy := st.EffectiveScale()
	size := st.FontSize
	if size <= 0 {
		size = 32
	}
	face, err := r.fonts.Face(st.FontFamily, isBold(st.FontWeight), size*sy)
	if err != nil {
		return err
	}
	defer face.Close()

	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	lineHeight := float64(m.Height) / 64
	fill := withOpacity(colorOr(st.Fill, black), st.EffectiveOpacity())

	lines := strings.Split(st.Text, "\n")
	top := st.Top
	if st.Centered {
		top -= lineHeight * float64(len(lines)) / 2
	}
	for i, line := range lines {
		baseline := top + ascent + lineHeight*float64(i)
		if st.Centered {
			drawCentered(img, face, line, fill, st.Left, baseline)
		} else {
			drawString(img, face, line, fill, st.Left, baseline)
		}
	}
	return nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// paint converts a style's fill and stroke into SVG attributes oksvg understands.
func paint(st editor.Style, defaultFill string) string {
	op := st.EffectiveOpacity()
	var b strings.Builder

	fill := colorOr(st.Fill, colorOr(defaultFill, color.NRGBA{}))
	if fill.A == 0 {
		b.WriteString(`fill="none"`)
	} else {
		fmt.Fprintf(&b, `fill="%s" fill-opacity="%s"`, hexString(fill), num(float64(fill.A)/255*op))
	}

	stroke := colorOr(st.Stroke, color.NRGBA{})
	if stroke.A > 0 && st.StrokeWidth > 0 {
		fmt.Fprintf(&b, ` stroke="%s" stroke-opacity="%s" stroke-width="%s"`,
			hexString(stroke), num(float64(stroke.A)/255*op), num(st.StrokeWidth))
	}
	return b.String()
}

// vectorElement builds the SVG fragment for a shape or icon object.
func vectorElement(o editor.Object) (string, error) {
	st := o.Style
	sx, sy := st.EffectiveScale()
	w, h := st.Width*sx, st.Height*sy
	x, y := st.Left, st.Top
	if st.Centered {
		x -= w / 2
		y -= h / 2
	}

	var el string
	switch {
	case o.Type == editor.ObjectIcon:
		if o.IconPath == "" {
			return "", ErrMissingIcon
		}
		el = fmt.Sprintf(`<path d="%s" transform="translate(%s %s) scale(%s %s)" %s/>`,
			escapeXML(o.IconPath), num(x), num(y), num(w/iconGrid), num(h/iconGrid), paint(st, "#000000"))
	case o.Shape == editor.ShapeRectangle:
		el = fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" %s/>`,
			num(x), num(y), num(w), num(h), paint(st, ""))
	case o.Shape == editor.ShapeCircle:
		el = fmt.Sprintf(`<ellipse cx="%s" cy="%s" rx="%s" ry="%s" %s/>`,
			num(x+w/2), num(y+h/2), num(w/2), num(h/2), paint(st, ""))
	case o.Shape == editor.ShapeTriangle:
		el = fmt.Sprintf(`<polygon points="%s,%s %s,%s %s,%s" %s/>`,
			num(x+w/2), num(y), num(x+w), num(y+h), num(x), num(y+h), paint(st, ""))
	case o.Shape == editor.ShapeLine:
		st.Fill = "none"
		el = fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" %s/>`,
			num(x), num(y), num(x+w), num(y+h), paint(st, ""))
	default:
		return "", fmt.Errorf("%w: %q", editor.ErrUnknownShape, o.Shape)
	}

	if st.Angle != 0 {
		el = fmt.Sprintf(`<g transform="rotate(%s %s %s)">%s</g>`, num(st.Angle), num(x+w/2), num(y+h/2), el)
	}
	return el, nil
}

// maxCoord keeps float geometry inside int range before it becomes pixel bounds.
const maxCoord = 1 << 24

func clampCoord(f float64) int {
	return int(math.Max(-maxCoord, math.Min(maxCoord, f)))
}

// vectorBounds is the pixel area an object can paint once stroke and rotation are accounted for.
func vectorBounds(o editor.Object) image.Rectangle {
	st := o.Style
	sx, sy := st.EffectiveScale()
	w, h := st.Width*sx, st.Height*sy
	x, y := st.Left, st.Top
	if st.Centered {
		x -= w / 2
		y -= h / 2
	}
	x0, x1 := math.Min(x, x+w), math.Max(x, x+w)
	y0, y1 := math.Min(y, y+h), math.Max(y, y+h)

	if st.Angle != 0 {
		cx, cy := (x0+x1)/2, (y0+y1)/2
		r := math.Hypot(x1-x0, y1-y0) / 2
		x0, x1, y0, y1 = cx-r, cx+r, cy-r, cy+r
	}

	pad := math.Abs(st.StrokeWidth)
	if o.Type == editor.ObjectIcon {
		// icon strokes are scaled with the path and may overshoot the 24-unit grid
		pad = pad*math.Max(1, math.Max(x1-x0, y1-y0)/iconGrid) + (x1-x0)/4
	}
	pad += 2
	return image.Rect(
		clampCoord(math.Floor(x0-pad)), clampCoord(math.Floor(y0-pad)),
		clampCoord(math.Ceil(x1+pad)), clampCoord(math.Ceil(y1+pad)),
	)
}

// vectorLayer is scratch space shared by every vector object of one render.
type vectorLayer struct {
	pix []uint8
}

func (l *vectorLayer) sized(w, h int) *image.RGBA {
	n := w * h * 4
	if cap(l.pix) < n {
		l.pix = make([]uint8, n)
	}
	pix := l.pix[:n]
	clear(pix)
	return &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
}

// draw rasterizes o into the part of img it covers and composites it over what is there.
func (l *vectorLayer) draw(img *image.RGBA, o editor.Object) error {
	el, err := vectorElement(o)
	if err != nil {
		return err
	}

	area := vectorBounds(o).Intersect(img.Bounds())
	if area.Empty() {
		return nil
	}
	w, h := area.Dx(), area.Dy()
	doc := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%d %d %d %d">%s</svg>`,
		w, h, area.Min.X, area.Min.Y, w, h, el)

	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(doc)), oksvg.WarnErrorMode)
	if err != nil {
		return fmt.Errorf("parse svg fragment: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	layer := l.sized(w, h)
	scanner := rasterx.NewScannerGV(w, h, layer, layer.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	draw.Draw(img, area, layer, image.Point{}, draw.Over)
	return nil
}
