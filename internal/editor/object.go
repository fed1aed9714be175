package editor

type ObjectType string

const (
	ObjectText  ObjectType = "text"
	ObjectShape ObjectType = "shape"
	ObjectIcon  ObjectType = "icon"
)

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeLine      ShapeKind = "line"
)

func (k ShapeKind) Valid() bool {
	switch k {
	case ShapeRectangle, ShapeCircle, ShapeTriangle, ShapeLine:
		return true
	}
	return false
}

// Style mirrors the subset of canvas-library properties the editor exposes.
// Left/Top are the object origin; with Centered set they address the object centre.
type Style struct {
	Left        float64 `json:"left"`
	Top         float64 `json:"top"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	ScaleX      float64 `json:"scaleX,omitempty"`
	ScaleY      float64 `json:"scaleY,omitempty"`
	Angle       float64 `json:"angle,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Centered    bool    `json:"centered,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
}

// EffectiveScale returns ScaleX/ScaleY with zero treated as 1.
func (s Style) EffectiveScale() (float64, float64) {
	sx, sy := s.ScaleX, s.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// EffectiveOpacity treats an unset opacity as fully opaque.
func (s Style) EffectiveOpacity() float64 {
	if s.Opacity <= 0 || s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// StylePatch carries a partial style update; nil fields are left untouched.
type StylePatch struct {
	Left        *float64 `json:"left,omitempty"`
	Top         *float64 `json:"top,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	ScaleX      *float64 `json:"scaleX,omitempty"`
	ScaleY      *float64 `json:"scaleY,omitempty"`
	Angle       *float64 `json:"angle,omitempty"`
	Fill        *string  `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
	Text        *string  `json:"text,omitempty"`
	FontFamily  *string  `json:"fontFamily,omitempty"`
	FontSize    *float64 `json:"fontSize,omitempty"`
	FontWeight  *string  `json:"fontWeight,omitempty"`
}

func (p StylePatch) apply(s *Style) {
	setF := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setS := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setF(&s.Left, p.Left)
	setF(&s.Top, p.Top)
	setF(&s.Width, p.Width)
	setF(&s.Height, p.Height)
	setF(&s.ScaleX, p.ScaleX)
	setF(&s.ScaleY, p.ScaleY)
	setF(&s.Angle, p.Angle)
	setS(&s.Fill, p.Fill)
	setS(&s.Stroke, p.Stroke)
	setF(&s.StrokeWidth, p.StrokeWidth)
	setF(&s.Opacity, p.Opacity)
	setS(&s.Text, p.Text)
	setS(&s.FontFamily, p.FontFamily)
	setF(&s.FontSize, p.FontSize)
	setS(&s.FontWeight, p.FontWeight)
}

// Object is the editor's descriptor of one item on the canvas.
type Object struct {
	ID         string     `json:"id"`
	Type       ObjectType `json:"type"`
	Visible    bool       `json:"visible"`
	Locked     bool       `json:"locked"`
	Selectable bool       `json:"selectable"`
	Shape      ShapeKind  `json:"shape,omitempty"`
	IconID     string     `json:"iconId,omitempty"`
	IconPath   string     `json:"iconPath,omitempty"`
	Style      Style      `json:"style"`
}
