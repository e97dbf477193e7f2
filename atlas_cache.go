package img2ascii

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// atlasFormatVersion is bumped whenever the serialized layout changes.
const atlasFormatVersion = 1

// AtlasData is the serialized form of an Atlas.
type AtlasData struct {
	Version      int
	FontName     string
	FontSize     float64
	Start, Stop  rune
	Combinations []ColorCombination
	Layout       CellLayout
	Missing      []rune
	Cells        []uint8
}

// WriteAtlas encodes the atlas as gzip-compressed gob data.
func WriteAtlas(w io.Writer, a *Atlas) error {
	gz := gzip.NewWriter(w)

	data := AtlasData{
		Version:      atlasFormatVersion,
		FontName:     a.fontName,
		FontSize:     a.fontSize,
		Start:        a.start,
		Stop:         a.stop,
		Combinations: a.combinations,
		Layout:       a.layout,
		Missing:      a.missing,
		Cells:        a.data,
	}
	if err := gob.NewEncoder(gz).Encode(&data); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode atlas: %w", err)
	}

	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to close gzip: %w", err)
	}
	return nil
}

// ReadAtlas decodes an atlas written by WriteAtlas and checks that its
// cell data matches the recorded dimensions.
func ReadAtlas(r io.Reader) (*Atlas, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	var data AtlasData
	if err := gob.NewDecoder(gr).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode atlas data: %w", err)
	}
	if data.Version != atlasFormatVersion {
		return nil, fmt.Errorf("unsupported atlas version %d", data.Version)
	}
	if err := data.Layout.validate(); err != nil {
		return nil, err
	}
	if data.Stop <= data.Start || len(data.Combinations) == 0 {
		return nil, fmt.Errorf("atlas data is empty")
	}

	want := int(data.Stop-data.Start) * len(data.Combinations) *
		data.Layout.CellBytes()
	if len(data.Cells) != want {
		return nil, fmt.Errorf("atlas data holds %d bytes, expected %d",
			len(data.Cells), want)
	}

	return &Atlas{
		start:        data.Start,
		stop:         data.Stop,
		combinations: data.Combinations,
		layout:       data.Layout,
		fontName:     data.FontName,
		fontSize:     data.FontSize,
		missing:      data.Missing,
		data:         data.Cells,
	}, nil
}

// SaveAtlas writes the atlas to a file.
func SaveAtlas(a *Atlas, path string) error {
	var buf bytes.Buffer
	if err := WriteAtlas(&buf, a); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// LoadAtlas reads an atlas file written by SaveAtlas.
func LoadAtlas(path string) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open atlas: %w", err)
	}
	defer f.Close()

	return ReadAtlas(f)
}

// Matches reports whether the atlas was built for the given options and
// font, so a cached atlas can stand in for a fresh BuildAtlas call.
func (a *Atlas) Matches(opts AtlasOptions, fontName string) error {
	fontSize := opts.FontSize
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	switch {
	case a.start != opts.Start || a.stop != opts.Stop:
		return configErrorf("atlas covers [%d, %d), want [%d, %d)",
			a.start, a.stop, opts.Start, opts.Stop)
	case a.layout.Width != opts.Layout.Width || a.layout.Height != opts.Layout.Height:
		return configErrorf("atlas cells are %dx%d, want %dx%d",
			a.layout.Width, a.layout.Height, opts.Layout.Width, opts.Layout.Height)
	case a.fontName != fontName:
		return configErrorf("atlas font %q, want %q", a.fontName, fontName)
	case a.fontSize != fontSize:
		return configErrorf("atlas font size %v, want %v", a.fontSize, fontSize)
	case len(a.combinations) != len(opts.Combinations):
		return configErrorf("atlas has %d color combinations, want %d",
			len(a.combinations), len(opts.Combinations))
	}
	for i, cc := range a.combinations {
		if cc != opts.Combinations[i] {
			return configErrorf("atlas combination %d is %s, want %s",
				i, cc, opts.Combinations[i])
		}
	}
	return nil
}
