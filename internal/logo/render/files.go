package render

import (
	"fmt"

	"github.com/logogen/logogen-backend/internal/logo/domain"
)

// Files maps a file type to the encoded logo.
type Files map[domain.FileType][]byte

// GenerateFiles produces every file the package ships. The raster is drawn once and encoded per format.
func (r *Rasterizer) GenerateFiles(d domain.LogoData, pkg domain.PackageType) (Files, error) {
	p, err := domain.LookupPackage(string(pkg))
	if err != nil {
		return nil, err
	}

	img, err := r.Render(d)
	if err != nil {
		return nil, fmt.Errorf("render logo: %w", err)
	}

	files := make(Files, len(p.Formats))
	for _, ft := range p.Formats {
		if ft == domain.FileSVG {
			files[ft] = SVG(d)
			continue
		}
		data, err := Encode(img, ft, DefaultJPEGQuality)
		if err != nil {
			return nil, err
		}
		files[ft] = data
	}
	return files, nil
}
