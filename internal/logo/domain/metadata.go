package domain

import (
	"strings"
	"unicode/utf8"
)

// Checkout metadata keys. Values are limited to 500 characters by the provider.
const (
	MetaPackageID      = "package_id"
	MetaBusinessName   = "business_name"
	MetaTagline        = "tagline"
	MetaFontFamily     = "font_family"
	MetaPrimaryColor   = "primary_color"
	MetaSecondaryColor = "secondary_color"
	MetaCanvasData     = "canvas_data"

	MaxMetadataValue = 500
)

// ToMetadata flattens logo parameters into checkout session metadata.
func ToMetadata(d LogoData, pkg PackageType, canvasJSON string) map[string]string {
	return map[string]string{
		MetaPackageID:      string(pkg),
		MetaBusinessName:   truncate(d.BusinessName),
		MetaTagline:        truncate(d.Tagline),
		MetaFontFamily:     truncate(d.FontFamily),
		MetaPrimaryColor:   truncate(d.PrimaryColor),
		MetaSecondaryColor: truncate(d.SecondaryColor),
		MetaCanvasData:     truncate(canvasJSON),
	}
}

// FromMetadata rebuilds the logo parameters and package from session metadata.
// An unknown or missing package falls back to standard.
func FromMetadata(meta map[string]string) (LogoData, PackageType, error) {
	if len(meta) == 0 || strings.TrimSpace(meta[MetaBusinessName]) == "" {
		return LogoData{}, "", ErrMissingMetadata
	}

	d := LogoData{
		BusinessName:   meta[MetaBusinessName],
		Tagline:        meta[MetaTagline],
		PrimaryColor:   meta[MetaPrimaryColor],
		SecondaryColor: meta[MetaSecondaryColor],
		FontFamily:     meta[MetaFontFamily],
	}

	pkg := PackageStandard
	if p, err := LookupPackage(meta[MetaPackageID]); err == nil {
		pkg = p.ID
	}
	return d, pkg, nil
}

func truncate(s string) string {
	if len(s) <= MaxMetadataValue {
		return s
	}
	s = s[:MaxMetadataValue]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
