package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
)

// testApp returns the CLI with stdout captured and exit handling disabled.
func testApp(stdout *bytes.Buffer) *cli.App {
	app := newApp()
	app.Writer = stdout
	app.ErrWriter = &bytes.Buffer{}
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

// blackImage writes a 26x52 black PNG, which prepares into 2x2 blocks.
func blackImage(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "black.png")
	img := imageutil.Blocks(2, 2, 13, 26, imageutil.RGB{})
	require.NoError(t, imageutil.SaveImage(img.RGBA, path))
	return path
}

func TestConflictingBackgrounds(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := testApp(&out).Run([]string{"asciify", "-lb", "-db", blackImage(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
	assert.Empty(t, out.String())
}

func TestPaletteWithoutBackground(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := testApp(&out).Run([]string{"asciify", "--palette", "red,green", blackImage(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no color combinations")

	err = testApp(&out).Run([]string{"asciify", "--palette", "red,mauve", blackImage(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mauve")
}

func TestPrintsText(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := testApp(&out).Run([]string{"asciify", "--stop", "40", "--height", "52", blackImage(t)})
	require.NoError(t, err)
	assert.Equal(t, "  \n  \n", out.String())
}

func TestWritesTextFile(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "out.ans")
	var out bytes.Buffer
	err := testApp(&out).Run([]string{
		"asciify", "-o", output, "--plain", "--stop", "40", "--width", "26",
		"-cf", "-cb", blackImage(t),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "  \n  \n", string(data))
	assert.Empty(t, out.String())
}

func TestWritesImageFile(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "out.png")
	var out bytes.Buffer
	err := testApp(&out).Run([]string{"asciify", "-o", output, "--stop", "40", "--width", "26", blackImage(t)})
	require.NoError(t, err)

	img, err := imageutil.LoadImage(output)
	require.NoError(t, err)
	assert.Equal(t, 18, img.Width())
	assert.Equal(t, 32, img.Height())
}

func TestWritesScaledImage(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "out.gif")
	var out bytes.Buffer
	err := testApp(&out).Run([]string{
		"asciify", "-o", output, "--scale", "2", "--stop", "40", "--width", "26", blackImage(t),
	})
	require.NoError(t, err)

	img, err := imageutil.LoadImage(output)
	require.NoError(t, err)
	assert.Equal(t, 36, img.Width())
	assert.Equal(t, 64, img.Height())
}

func TestVersionAndVerboseFlags(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, testApp(&out).Run([]string{"asciify", "--version"}))
	assert.Equal(t, "asciify version 1.0.0\n", out.String())

	out.Reset()
	require.NoError(t, testApp(&out).Run([]string{"asciify", "-V"}))
	assert.Contains(t, out.String(), "1.0.0")

	out.Reset()
	err := testApp(&out).Run([]string{"asciify", "-v", "--stop", "40", "--height", "52", blackImage(t)})
	require.NoError(t, err)
	assert.Equal(t, "  \n  \n", out.String(), "-v enables logging, not the version")
}

func TestFontSizeFlag(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "atlas.gob.gz")
	var out bytes.Buffer
	err := testApp(&out).Run([]string{
		"asciify", "--font-size", "12", "--atlas", path, "--stop", "40", "--height", "52", blackImage(t),
	})
	require.NoError(t, err)

	atlas, err := img2ascii.LoadAtlas(path)
	require.NoError(t, err)
	assert.Equal(t, 12.0, atlas.FontSize())
}

func TestFitHeight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 19*26, fitHeight(defaultRows, 26))
	assert.Equal(t, 26, fitHeight(0, 26))
}
