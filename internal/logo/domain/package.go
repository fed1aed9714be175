package domain

import (
	"fmt"
	"strings"
)

type PackageType string

const (
	PackageStandard PackageType = "standard"
	PackagePremium  PackageType = "premium"
)

// FileType is the extension of a generated logo file.
type FileType string

const (
	FilePNG FileType = "png"
	FileJPG FileType = "jpg"
	FileSVG FileType = "svg"
)

// ContentType returns the MIME type stored alongside the file.
func (f FileType) ContentType() string {
	switch f {
	case FileSVG:
		return "image/svg+xml"
	case FileJPG:
		return "image/jpeg"
	default:
		return "image/" + string(f)
	}
}

func ParseFileType(s string) (FileType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FilePNG, true
	case "jpg", "jpeg":
		return FileJPG, true
	case "svg":
		return FileSVG, true
	}
	return "", false
}

type Package struct {
	ID          PackageType `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	AmountCents int64       `json:"amount"`
	Formats     []FileType  `json:"formats"`
}

var packages = map[PackageType]Package{
	PackageStandard: {
		ID:          PackageStandard,
		Name:        "Standard Logo Package",
		Description: "High-resolution logo files with commercial license",
		AmountCents: 199,
		Formats:     []FileType{FilePNG, FileJPG},
	},
	PackagePremium: {
		ID:          PackagePremium,
		Name:        "Premium Logo Package",
		Description: "Premium logo package with multiple formats and priority support",
		AmountCents: 499,
		Formats:     []FileType{FilePNG, FileJPG, FileSVG},
	},
}

func LookupPackage(id string) (Package, error) {
	p, ok := packages[PackageType(strings.ToLower(strings.TrimSpace(id)))]
	if !ok {
		return Package{}, fmt.Errorf("%w: %q", ErrUnknownPackage, id)
	}
	return p, nil
}

func Packages() []Package {
	return []Package{packages[PackageStandard], packages[PackagePremium]}
}

// Includes reports whether the package ships the given file type.
func (p Package) Includes(f FileType) bool {
	for _, t := range p.Formats {
		if t == f {
			return true
		}
	}
	return false
}
