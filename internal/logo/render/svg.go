// Package render turns logo data and editor canvases into SVG, PNG and JPG files.
package render

import (
	"bytes"
	"encoding/xml"
	"strings"
	"text/template"

	"github.com/logogen/logogen-backend/internal/logo/domain"
)

const (
	LogoWidth  = 1200
	LogoHeight = 800

	titleX, titleY     = 600, 350
	titleSize          = 64
	taglineX, taglineY = 600, 420
	taglineSize        = 24
)

var logoTemplate = template.Must(template.New("logo").Funcs(template.FuncMap{"xml": escapeXML}).Parse(
	`<svg width="{{.Width}}" height="{{.Height}}" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="transparent"/>
  <text x="{{.TitleX}}" y="{{.TitleY}}" font-family="{{xml .Font}}, Arial, sans-serif" font-size="{{.TitleSize}}" font-weight="bold" fill="{{xml .Primary}}" text-anchor="middle">{{xml .Name}}</text>
{{- if .Tagline}}
  <text x="{{.TaglineX}}" y="{{.TaglineY}}" font-family="{{xml .Font}}, Arial, sans-serif" font-size="{{.TaglineSize}}" fill="{{xml .Secondary}}" text-anchor="middle">{{xml .Tagline}}</text>
{{- end}}
</svg>
`))

type logoView struct {
	Width, Height       int
	TitleX, TitleY      int
	TaglineX, TaglineY  int
	TitleSize           int
	TaglineSize         int
	Name, Tagline, Font string
	Primary, Secondary  string
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// SVG renders the vector form of a logo. Missing colours and font take their defaults.
func SVG(d domain.LogoData) []byte {
	d = d.WithDefaults()
	var buf bytes.Buffer
	// the template only fails on writer errors, which bytes.Buffer never returns
	_ = logoTemplate.Execute(&buf, logoView{
		Width: LogoWidth, Height: LogoHeight,
		TitleX: titleX, TitleY: titleY,
		TaglineX: taglineX, TaglineY: taglineY,
		TitleSize: titleSize, TaglineSize: taglineSize,
		Name:      strings.TrimSpace(d.BusinessName),
		Tagline:   strings.TrimSpace(d.Tagline),
		Font:      d.FontFamily,
		Primary:   d.PrimaryColor,
		Secondary: d.SecondaryColor,
	})
	return buf.Bytes()
}

// PlaceholderSVG is served when a download link points at an object storage no longer has.
func PlaceholderSVG(businessName string, fileType domain.FileType) []byte {
	var buf bytes.Buffer
	_ = placeholderTemplate.Execute(&buf, struct{ Name, Type string }{
		Name: businessName,
		Type: strings.ToUpper(string(fileType)),
	})
	return buf.Bytes()
}

var placeholderTemplate = template.Must(template.New("placeholder").Funcs(template.FuncMap{"xml": escapeXML}).Parse(
	`<svg width="400" height="200" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="#f3f4f6"/>
  <text x="200" y="90" font-family="Arial, sans-serif" font-size="20" font-weight="bold" fill="#111827" text-anchor="middle">{{xml .Name}}</text>
  <text x="200" y="130" font-family="Arial, sans-serif" font-size="14" fill="#6b7280" text-anchor="middle">{{xml .Type}} file</text>
</svg>
`))
