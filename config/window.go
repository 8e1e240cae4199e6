package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Window geometry limits.
const (
	MinWidth  = 100
	MinHeight = 64
	MaxSide   = 2048
	MinScale  = 0.05
	MaxScale  = 20.0
)

// ErrDimension is returned for a dimension that is not <width>x<height>.
var ErrDimension = errors.New("bad dimension, expecting <width>x<height> e.g. 400x333")

// Window is the preferred main window of the host.
type Window struct {
	Title  string
	Width  int
	Height int
	Scale  float64
}

// ParseDimension parses "<width>x<height>" (x or X) and clamps both sides.
func ParseDimension(s string) (width, height int, err error) {
	i := strings.IndexAny(s, "xX")
	if i < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrDimension, s)
	}
	width, err = strconv.Atoi(strings.TrimSpace(s[:i]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrDimension, s)
	}
	height, err = strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrDimension, s)
	}
	return clamp(width, MinWidth, MaxSide), clamp(height, MinHeight, MaxSide), nil
}

// ClampScale bounds a screen scale to [MinScale, MaxScale]. NaN yields DefaultScale.
func ClampScale(f float64) float64 {
	if math.IsNaN(f) {
		return DefaultScale
	}
	return math.Min(math.Max(f, MinScale), MaxScale)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Window returns the window geometry described by s.
func (s Settings) Window() (Window, error) {
	w, h, err := ParseDimension(s.Dimension)
	if err != nil {
		return Window{}, err
	}
	title := s.Title
	if title == "" {
		title = DefaultTitle
	}
	return Window{Title: title, Width: w, Height: h, Scale: ClampScale(s.Scale)}, nil
}
