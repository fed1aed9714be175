package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type fontKey struct {
	family string
	bold   bool
}

// FontRegistry resolves font families to parsed fonts. Catalog families without a
// bundled file map onto the Go font family; script faces use the italic cut.
type FontRegistry struct {
	mu    sync.RWMutex
	fonts map[fontKey]*opentype.Font
	alias map[string]string
}

const fallbackFamily = "go"

func NewFontRegistry() (*FontRegistry, error) {
	r := &FontRegistry{
		fonts: map[fontKey]*opentype.Font{},
		alias: map[string]string{},
	}

	builtin := []struct {
		family string
		bold   bool
		data   []byte
	}{
		{"go", false, goregular.TTF},
		{"go", true, gobold.TTF},
		{"go italic", false, goitalic.TTF},
		{"go italic", true, gobolditalic.TTF},
	}
	for _, b := range builtin {
		f, err := opentype.Parse(b.data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin font %s: %w", b.family, err)
		}
		r.fonts[fontKey{b.family, b.bold}] = f
	}

	for _, fam := range []string{"inter", "roboto", "montserrat", "poppins", "nunito", "arial", "sans-serif",
		"playfair display", "cormorant garamond", "serif"} {
		r.alias[fam] = "go"
	}
	for _, fam := range []string{"dancing script", "script", "cursive"} {
		r.alias[fam] = "go italic"
	}
	return r, nil
}

// LoadDir registers every .ttf/.otf file in dir. "Family Name-Bold.ttf" registers the bold cut
// of "Family Name"; any other suffix registers the regular cut.
func (r *FontRegistry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read fonts dir: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return loaded, fmt.Errorf("read font %s: %w", e.Name(), err)
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return loaded, fmt.Errorf("parse font %s: %w", e.Name(), err)
		}

		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		family, style, _ := strings.Cut(base, "-")
		key := fontKey{normalizeFamily(family), strings.EqualFold(style, "bold")}

		r.mu.Lock()
		r.fonts[key] = f
		r.mu.Unlock()
		loaded++
	}
	return loaded, nil
}

func normalizeFamily(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}

func (r *FontRegistry) resolve(family string, bold bool) *opentype.Font {
	// CSS font stacks: first family wins
	if i := strings.IndexByte(family, ','); i >= 0 {
		family = family[:i]
	}
	fam := normalizeFamily(strings.Trim(family, `"'`))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, candidate := range []string{fam, r.alias[fam], fallbackFamily} {
		if candidate == "" {
			continue
		}
		if f, ok := r.fonts[fontKey{candidate, bold}]; ok {
			return f
		}
		if f, ok := r.fonts[fontKey{candidate, !bold}]; ok {
			return f
		}
	}
	return r.fonts[fontKey{fallbackFamily, false}]
}

// Face returns a new face; faces are not safe for concurrent use, so callers own the result.
func (r *FontRegistry) Face(family string, bold bool, size float64) (font.Face, error) {
	if size <= 0 {
		size = 12
	}
	f := r.resolve(family, bold)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}
