package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultPrimaryColor   = "#000000"
	DefaultSecondaryColor = "#666666"
	DefaultFontFamily     = "Inter"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// LogoData holds the user supplied parameters a logo is rendered from.
type LogoData struct {
	BusinessName   string `json:"businessName" firestore:"businessName"`
	Tagline        string `json:"tagline" firestore:"tagline"`
	PrimaryColor   string `json:"primaryColor" firestore:"primaryColor"`
	SecondaryColor string `json:"secondaryColor" firestore:"secondaryColor"`
	FontFamily     string `json:"fontFamily" firestore:"fontFamily"`
}

// Validate checks presence of the business name and the shape of any colours set.
func (d LogoData) Validate() error {
	if strings.TrimSpace(d.BusinessName) == "" {
		return ErrBusinessNameRequired
	}
	for _, c := range []string{d.PrimaryColor, d.SecondaryColor} {
		if c != "" && !IsHexColor(c) {
			return fmt.Errorf("%w: %q", ErrInvalidColor, c)
		}
	}
	return nil
}

// WithDefaults returns a copy with empty colours and font filled in.
func (d LogoData) WithDefaults() LogoData {
	d.BusinessName = strings.TrimSpace(d.BusinessName)
	d.Tagline = strings.TrimSpace(d.Tagline)
	if d.PrimaryColor == "" {
		d.PrimaryColor = DefaultPrimaryColor
	}
	if d.SecondaryColor == "" {
		d.SecondaryColor = DefaultSecondaryColor
	}
	if strings.TrimSpace(d.FontFamily) == "" {
		d.FontFamily = DefaultFontFamily
	}
	return d
}

func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}
