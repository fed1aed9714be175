// Package editor holds the logo editor's canvas state: the ordered list of text, shape and icon
// objects, selection, and the export preparation that turns a canvas into something renderable.
package editor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/logogen/logogen-backend/internal/catalog"
	"github.com/logogen/logogen-backend/internal/logo/domain"
)

const (
	DefaultWidth      = 600
	DefaultHeight     = 400
	DefaultBackground = "#ffffff"
)

// Canvas is not safe for concurrent use; each editor session owns its own.
type Canvas struct {
	Width      int
	Height     int
	Background string

	objects  []*Object
	selected string
}

func NewCanvas(width, height int, background string) *Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if background == "" {
		background = DefaultBackground
	}
	return &Canvas{Width: width, Height: height, Background: background}
}

func (c *Canvas) add(o *Object) *Object {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.Visible = true
	o.Selectable = true
	c.objects = append(c.objects, o)
	c.selected = o.ID
	return o
}

// AddText places a text object; an unset position centres it on the canvas.
func (c *Canvas) AddText(text string, style Style) (*Object, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	style.Text = text
	if style.Left == 0 && style.Top == 0 {
		style.Left, style.Top = float64(c.Width)/2, float64(c.Height)/2
		style.Centered = true
	}
	if style.FontSize == 0 {
		style.FontSize = 32
	}
	if style.FontFamily == "" {
		style.FontFamily = domain.DefaultFontFamily
	}
	if style.Fill == "" {
		style.Fill = "#000000"
	}
	return c.add(&Object{Type: ObjectText, Style: style}), nil
}

func (c *Canvas) AddShape(kind ShapeKind, style Style) (*Object, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, kind)
	}
	if style.Width == 0 {
		style.Width = 100
	}
	if style.Height == 0 {
		style.Height = 100
		if kind == ShapeLine {
			style.Height = 0
		}
	}
	if style.Left == 0 && style.Top == 0 {
		style.Left, style.Top = 100, 100
	}
	if style.Fill == "" && kind != ShapeLine {
		style.Fill = "#3b82f6"
	}
	if kind == ShapeLine && style.Stroke == "" {
		style.Stroke = "#000000"
		if style.StrokeWidth == 0 {
			style.StrokeWidth = 2
		}
	}
	return c.add(&Object{Type: ObjectShape, Shape: kind, Style: style}), nil
}

// AddIcon places an icon from the catalog; icon paths are drawn on a 24x24 grid.
func (c *Canvas) AddIcon(icon catalog.Icon, style Style) *Object {
	if style.Width == 0 {
		style.Width = 48
	}
	if style.Height == 0 {
		style.Height = 48
	}
	if style.Left == 0 && style.Top == 0 {
		style.Left, style.Top = 50, 50
	}
	if style.Fill == "" {
		style.Fill = "#000000"
	}
	return c.add(&Object{Type: ObjectIcon, IconID: icon.ID, IconPath: icon.Path, Style: style})
}

func (c *Canvas) index(id string) int {
	for i, o := range c.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (c *Canvas) find(id string) (*Object, error) {
	i := c.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	return c.objects[i], nil
}

// Get returns a copy of the object with the given id.
func (c *Canvas) Get(id string) (Object, error) {
	o, err := c.find(id)
	if err != nil {
		return Object{}, err
	}
	return *o, nil
}

func (c *Canvas) Remove(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	c.objects = append(c.objects[:i], c.objects[i+1:]...)
	if c.selected == id {
		c.selected = ""
	}
	return nil
}

func (c *Canvas) Select(id string) error {
	o, err := c.find(id)
	if err != nil {
		return err
	}
	if !o.Selectable {
		return fmt.Errorf("%w: %s is not selectable", ErrObjectNotFound, id)
	}
	c.selected = id
	return nil
}

func (c *Canvas) ClearSelection() {
	c.selected = ""
}

func (c *Canvas) Selected() (Object, bool) {
	if c.selected == "" {
		return Object{}, false
	}
	o, err := c.find(c.selected)
	if err != nil {
		return Object{}, false
	}
	return *o, true
}

// UpdateStyle applies a partial style to one object. Locked objects are left untouched.
func (c *Canvas) UpdateStyle(id string, patch StylePatch) (Object, error) {
	o, err := c.find(id)
	if err != nil {
		return Object{}, err
	}
	if o.Locked {
		return Object{}, fmt.Errorf("%w: %s", ErrObjectLocked, id)
	}
	if patch.Text != nil && o.Type == ObjectText && strings.TrimSpace(*patch.Text) == "" {
		return Object{}, ErrEmptyText
	}
	patch.apply(&o.Style)
	return *o, nil
}

func (c *Canvas) ToggleVisibility(id string) (bool, error) {
	o, err := c.find(id)
	if err != nil {
		return false, err
	}
	o.Visible = !o.Visible
	return o.Visible, nil
}

func (c *Canvas) ToggleLock(id string) (bool, error) {
	o, err := c.find(id)
	if err != nil {
		return false, err
	}
	o.Locked = !o.Locked
	return o.Locked, nil
}

// BringForward moves an object one step up the z-order.
func (c *Canvas) BringForward(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	if i < len(c.objects)-1 {
		c.objects[i], c.objects[i+1] = c.objects[i+1], c.objects[i]
	}
	return nil
}

func (c *Canvas) SendBackward(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	if i > 0 {
		c.objects[i], c.objects[i-1] = c.objects[i-1], c.objects[i]
	}
	return nil
}

func (c *Canvas) Clear() {
	c.objects = nil
	c.selected = ""
}

func (c *Canvas) Len() int {
	return len(c.objects)
}

// Objects returns copies of the objects in z-order, bottom first.
func (c *Canvas) Objects() []Object {
	out := make([]Object, len(c.objects))
	for i, o := range c.objects {
		out[i] = *o
	}
	return out
}

func (c *Canvas) Clone() *Canvas {
	cp := &Canvas{Width: c.Width, Height: c.Height, Background: c.Background, selected: c.selected}
	cp.objects = make([]*Object, len(c.objects))
	for i, o := range c.objects {
		dup := *o
		cp.objects[i] = &dup
	}
	return cp
}

// ApplyLogo resets the canvas to a template and lays out the business name and tagline.
func (c *Canvas) ApplyLogo(tpl catalog.Template, d domain.LogoData) {
	c.Clear()
	if tpl.Config.BackgroundColor != "" {
		c.Background = tpl.Config.BackgroundColor
	}

	fontSize := float64(tpl.Config.FontSize)
	if fontSize == 0 {
		fontSize = 32
	}
	cx := float64(c.Width) / 2

	if strings.TrimSpace(d.BusinessName) != "" {
		c.add(&Object{Type: ObjectText, Style: Style{
			Left: cx, Top: float64(c.Height) * 0.375, Centered: true,
			Text: d.BusinessName, FontFamily: d.FontFamily, FontSize: fontSize,
			FontWeight: "bold", Fill: d.PrimaryColor,
		}})
	}
	if strings.TrimSpace(d.Tagline) != "" {
		c.add(&Object{Type: ObjectText, Style: Style{
			Left: cx, Top: float64(c.Height) * 0.5, Centered: true,
			Text: d.Tagline, FontFamily: d.FontFamily, FontSize: float64(int(fontSize*0.6 + 0.5)),
			Fill: d.SecondaryColor,
		}})
	}
	c.selected = ""
}

type canvasJSON struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Background string    `json:"background"`
	Objects    []*Object `json:"objects"`
}

func (c *Canvas) MarshalJSON() ([]byte, error) {
	objs := c.objects
	if objs == nil {
		objs = []*Object{}
	}
	return json.Marshal(canvasJSON{Width: c.Width, Height: c.Height, Background: c.Background, Objects: objs})
}

// UnmarshalJSON accepts client canvas state; objects without explicit flags are visible and selectable.
func (c *Canvas) UnmarshalJSON(data []byte) error {
	var raw struct {
		Width      int               `json:"width"`
		Height     int               `json:"height"`
		Background string            `json:"background"`
		Objects    []json.RawMessage `json:"objects"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fresh := NewCanvas(raw.Width, raw.Height, raw.Background)
	for _, msg := range raw.Objects {
		o := &Object{Visible: true, Selectable: true}
		if err := json.Unmarshal(msg, o); err != nil {
			return err
		}
		if o.Type == ObjectShape && !o.Shape.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownShape, o.Shape)
		}
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		fresh.objects = append(fresh.objects, o)
	}
	*c = *fresh
	return nil
}
