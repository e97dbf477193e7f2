package img2ascii

import (
	"errors"
	"fmt"
)

var errNilFont = errors.New("no font given")

// ConfigurationError reports a combination of settings that cannot produce
// an atlas, such as a color filter that leaves no combinations or
// conflicting background modes.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// configErrorf builds a ConfigurationError from a format string.
func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// FontLoadError is returned when a font file cannot be read or parsed.
type FontLoadError struct {
	Path string
	Err  error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("failed to load font %q: %v", e.Path, e.Err)
}

func (e *FontLoadError) Unwrap() error { return e.Err }

// GlyphRenderError is returned when the rasterizer fails to draw a glyph.
// Runes the font has no outline for are not an error; they render as the
// font's substitute glyph.
type GlyphRenderError struct {
	Rune rune
	Err  error
}

func (e *GlyphRenderError) Error() string {
	return fmt.Sprintf("failed to render glyph %q (U+%04X): %v",
		e.Rune, e.Rune, e.Err)
}

func (e *GlyphRenderError) Unwrap() error { return e.Err }

// ShapeMismatchError is returned when a pixel grid cannot be tiled exactly
// by the block stride.
type ShapeMismatchError struct {
	Width, Height    int
	StrideX, StrideY int
	Reason           string
}

func (e *ShapeMismatchError) Error() string {
	msg := fmt.Sprintf("pixel grid %dx%d does not tile into %dx%d blocks",
		e.Width, e.Height, e.StrideX, e.StrideY)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// ImageLoadError is returned when the source image cannot be opened,
// decoded or prepared.
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load image: %v", e.Err)
	}
	return fmt.Sprintf("failed to load image %q: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }
