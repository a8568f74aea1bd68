package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for each element of a dump
type ColorScheme struct {
	Method      *color.Color
	URL         *color.Color
	StatusOK    *color.Color
	StatusWarn  *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
	Label       *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Method:      color.New(color.FgBlue, color.Bold),
		URL:         color.New(color.FgCyan),
		StatusOK:    color.New(color.FgGreen, color.Bold),
		StatusWarn:  color.New(color.FgYellow, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgYellow),
		Label:       color.New(color.FgMagenta),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range []*color.Color{
		scheme.Method, scheme.URL, scheme.StatusOK, scheme.StatusWarn,
		scheme.StatusError, scheme.HeaderKey, scheme.Label,
	} {
		c.DisableColor()
	}
	return scheme
}

// statusColor picks green for 2xx, yellow for 3xx and red for the rest.
func (s *ColorScheme) statusColor(code int) *color.Color {
	switch code / 100 {
	case 2:
		return s.StatusOK
	case 3:
		return s.StatusWarn
	default:
		return s.StatusError
	}
}
