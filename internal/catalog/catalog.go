// Package catalog serves the static design catalog: logo templates, icons, fonts and colour palettes.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrIconNotFound     = errors.New("icon not found")
)

type Layout string

const (
	LayoutHorizontal Layout = "horizontal"
	LayoutVertical   Layout = "vertical"
	LayoutStacked    Layout = "stacked"
)

type TemplateConfig struct {
	BackgroundColor string `yaml:"backgroundColor" json:"backgroundColor"`
	TextColor       string `yaml:"textColor" json:"textColor"`
	FontFamily      string `yaml:"fontFamily" json:"fontFamily"`
	FontSize        int    `yaml:"fontSize" json:"fontSize"`
	IconType        string `yaml:"iconType,omitempty" json:"iconType,omitempty"`
	Layout          Layout `yaml:"layout" json:"layout"`
}

type Template struct {
	ID       string         `yaml:"id" json:"id"`
	Name     string         `yaml:"name" json:"name"`
	Category string         `yaml:"category" json:"category"`
	Preview  string         `yaml:"preview" json:"preview"`
	Config   TemplateConfig `yaml:"config" json:"config"`
}

type Category struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type Icon struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Path     string `yaml:"path" json:"svgPath"`
}

type Font struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Weights  []int  `yaml:"weights" json:"weight"`
}

type Palette struct {
	Name   string   `yaml:"name" json:"name"`
	Colors []string `yaml:"colors" json:"colors"`
}

type Catalog struct {
	Categories []Category `yaml:"categories"`
	Templates  []Template `yaml:"templates"`
	FontList   []Font     `yaml:"fonts"`
	PaletteSet []Palette  `yaml:"palettes"`
	IconList   []Icon     `yaml:"icons"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for package-level wiring; the embedded file is covered by tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]struct{}, len(c.Templates))
	for _, t := range c.Templates {
		if t.ID == "" {
			return fmt.Errorf("catalog: template without id")
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("catalog: duplicate template %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	icons := make(map[string]struct{}, len(c.IconList))
	for _, i := range c.IconList {
		if i.ID == "" || i.Path == "" {
			return fmt.Errorf("catalog: icon %q is incomplete", i.ID)
		}
		if _, dup := icons[i.ID]; dup {
			return fmt.Errorf("catalog: duplicate icon %q", i.ID)
		}
		icons[i.ID] = struct{}{}
	}
	return nil
}

// TemplatesIn returns templates of a category; "" and "all" return every template.
func (c *Catalog) TemplatesIn(category string) []Template {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == "all" {
		return append([]Template(nil), c.Templates...)
	}
	var out []Template
	for _, t := range c.Templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) Template(id string) (Template, error) {
	for _, t := range c.Templates {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

func (c *Catalog) Icons() []Icon {
	return append([]Icon(nil), c.IconList...)
}

func (c *Catalog) Icon(id string) (Icon, error) {
	for _, i := range c.IconList {
		if i.ID == id {
			return i, nil
		}
	}
	return Icon{}, fmt.Errorf("%w: %s", ErrIconNotFound, id)
}

func (c *Catalog) IconsByCategory(category string) []Icon {
	var out []Icon
	for _, i := range c.IconList {
		if i.Category == category {
			out = append(out, i)
		}
	}
	return out
}

// IconCategories lists the distinct icon categories in sorted order.
func (c *Catalog) IconCategories() []string {
	set := map[string]struct{}{}
	for _, i := range c.IconList {
		set[i.Category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SearchIcons matches the query case-insensitively against icon name and category.
func (c *Catalog) SearchIcons(query string) []Icon {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Icon
	for _, i := range c.IconList {
		if strings.Contains(strings.ToLower(i.Name), q) || strings.Contains(strings.ToLower(i.Category), q) {
			out = append(out, i)
		}
	}
	return out
}

func (c *Catalog) Fonts() []Font {
	return append([]Font(nil), c.FontList...)
}

func (c *Catalog) HasFont(name string) bool {
	for _, f := range c.FontList {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

func (c *Catalog) Palettes() []Palette {
	return append([]Palette(nil), c.PaletteSet...)
}
