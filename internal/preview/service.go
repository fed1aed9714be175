// Package preview renders free, watermarked previews of a logo before checkout.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/logogen/logogen-backend/internal/catalog"
	"github.com/logogen/logogen-backend/internal/editor"
	logo "github.com/logogen/logogen-backend/internal/logo/domain"
	"github.com/logogen/logogen-backend/internal/logo/render"
)

// FreePlan is the plan every preview is rendered under, so the watermark is always applied.
const FreePlan = "free"

const (
	maxPreviewSide    = 2048
	maxThumbnailSide  = 512
	maxPreviewObjects = 200
)

var (
	ErrTemplateRequired = errors.New("templateId or canvas is required")
	ErrPreviewTooLarge  = errors.New("preview exceeds the render limits")
)

type Request struct {
	LogoData   logo.LogoData   `json:"logoData"`
	TemplateID string          `json:"templateId"`
	Canvas     *editor.Canvas  `json:"canvas,omitempty"`
	Format     editor.Format   `json:"format"`
	Size       editor.SizeName `json:"size"`
	// Thumbnail, when positive, fits the output into a Thumbnail x Thumbnail box.
	Thumbnail int `json:"thumbnail,omitempty"`
}

type Image struct {
	Data        []byte
	ContentType string
	FileName    string
}

type Service struct {
	catalog *catalog.Catalog
	raster  *render.Rasterizer
	now     func() time.Time
}

func NewService(c *catalog.Catalog, r *render.Rasterizer) *Service {
	return &Service{catalog: c, raster: r, now: time.Now}
}

// Render builds the canvas (from the client's state, or from a template plus logo data),
// scales it to the export size with the watermark and encodes it.
func (s *Service) Render(ctx context.Context, req Request) (*Image, error) {
	c, err := s.canvas(req)
	if err != nil {
		return nil, err
	}

	opts, err := editor.ExportOptionsFor(FreePlan, editor.ExportOptions{
		Format: req.Format,
		Size:   req.Size,
		Scale:  1,
	}).Normalize()
	if err != nil {
		return nil, err
	}
	if px := opts.PixelSize(); px.Width > maxPreviewSide || px.Height > maxPreviewSide {
		return nil, fmt.Errorf("%w: size is larger than %dx%d", ErrPreviewTooLarge, maxPreviewSide, maxPreviewSide)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var img image.Image
	img, err = s.raster.RenderCanvas(editor.PrepareExport(c, opts))
	if err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	if req.Thumbnail > 0 {
		img = render.Thumbnail(img, min(req.Thumbnail, maxThumbnailSide))
	}

	ft := logo.FileType(opts.Format)
	data, err := render.Encode(img, ft, int(opts.Quality*100))
	if err != nil {
		return nil, err
	}

	name := req.LogoData.BusinessName
	if name == "" {
		name = "logo"
	}
	return &Image{
		Data:        data,
		ContentType: ft.ContentType(),
		FileName:    editor.ExportFilename(name, opts, s.now()),
	}, nil
}

func (s *Service) canvas(req Request) (*editor.Canvas, error) {
	if req.Canvas != nil {
		if n := req.Canvas.Len(); n > maxPreviewObjects {
			return nil, fmt.Errorf("%w: %d objects, at most %d", ErrPreviewTooLarge, n, maxPreviewObjects)
		}
		return req.Canvas, nil
	}
	if req.TemplateID == "" {
		return nil, ErrTemplateRequired
	}
	if err := req.LogoData.Validate(); err != nil {
		return nil, err
	}
	tpl, err := s.catalog.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}
	c := editor.NewCanvas(0, 0, "")
	c.ApplyLogo(tpl, req.LogoData.WithDefaults())
	return c, nil
}
