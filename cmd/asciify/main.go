package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
)

func init() {
	// -v is taken by --verbose.
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "asciify"
	app.Usage = "Render an image as colored text"
	app.ArgsUsage = "SOURCE"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "ascii-start",
			Aliases: []string{"start"},
			Value:   img2ascii.DefaultCharStart,
			Usage:   "first character code to match against",
		},
		&cli.IntFlag{
			Name:    "ascii-stop",
			Aliases: []string{"stop"},
			Value:   img2ascii.DefaultCharStop,
			Usage:   "character code to stop at (exclusive)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write to `FILE`; .png, .jpg and .gif render an image, anything else ANSI text",
		},
		&cli.BoolFlag{
			Name:    "coloured-foreground",
			Aliases: []string{"cf"},
			Usage:   "allow colored characters",
		},
		&cli.StringFlag{
			Name:  "palette",
			Value: img2ascii.FormatPalette(img2ascii.DefaultPalette()),
			Usage: "comma separated colors combinations are drawn from",
		},
		&cli.BoolFlag{
			Name:    "colour-background",
			Aliases: []string{"cb"},
			Usage:   "allow any background color",
		},
		&cli.BoolFlag{
			Name:    "light-background",
			Aliases: []string{"lb"},
			Usage:   "draw on a white background",
		},
		&cli.BoolFlag{
			Name:    "dark-background",
			Aliases: []string{"db"},
			Usage:   "draw on a black background",
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "width of the prepared image in pixels",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "height of the prepared image in pixels (default: fit the terminal)",
		},
		&cli.StringFlag{
			Name:  "font",
			Usage: "TrueType font `FILE` (default: embedded Go Mono)",
		},
		&cli.Float64Flag{
			Name:  "font-size",
			Value: img2ascii.DefaultFontSize,
			Usage: "glyph size in points",
		},
		&cli.StringFlag{
			Name:  "atlas",
			Usage: "precomputed atlas `FILE`, rebuilt when it does not match",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of parallel workers (default: one per CPU)",
		},
		&cli.BoolFlag{
			Name:  "sharpen",
			Usage: "sharpen the image after resizing",
		},
		&cli.IntFlag{
			Name:  "scale",
			Value: 1,
			Usage: "enlarge image output by this factor",
		},
		&cli.BoolFlag{
			Name:  "plain",
			Usage: "omit color sequences from text output",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log progress and timings to stderr",
		},
	}

	app.Action = run
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// backgroundMode resolves the mutually exclusive background flags.
func backgroundMode(c *cli.Context) (img2ascii.BackgroundMode, error) {
	mode := img2ascii.BackgroundNone
	set := 0
	for _, f := range []struct {
		name string
		mode img2ascii.BackgroundMode
	}{
		{"colour-background", img2ascii.BackgroundColored},
		{"light-background", img2ascii.BackgroundLight},
		{"dark-background", img2ascii.BackgroundDark},
	} {
		if c.Bool(f.name) {
			mode = f.mode
			set++
		}
	}
	if set > 1 {
		return mode, &img2ascii.ConfigurationError{
			Reason: "--colour-background, --light-background and --dark-background are mutually exclusive",
		}
	}
	return mode, nil
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowAppHelpAndExit(c, 1)
	}
	source := c.Args().First()

	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	mode, err := backgroundMode(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	palette, err := img2ascii.ParsePalette(c.String("palette"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	width, height := c.Int("width"), c.Int("height")
	if width == 0 && height == 0 {
		_, rows := terminalSize()
		height = fitHeight(rows, img2ascii.DefaultLayout.StrideY())
		logger.Printf("fitting %d terminal rows: target height %d", rows, height)
	}

	conv := img2ascii.NewConverter(
		img2ascii.WithCharRange(rune(c.Int("ascii-start")), rune(c.Int("ascii-stop"))),
		img2ascii.WithPalette(palette),
		img2ascii.WithColoredForeground(c.Bool("coloured-foreground")),
		img2ascii.WithBackground(mode),
		img2ascii.WithFontPath(c.String("font")),
		img2ascii.WithFontSize(c.Float64("font-size")),
		img2ascii.WithWorkers(c.Int("workers")),
		img2ascii.WithTargetSize(width, height),
		img2ascii.WithSharpen(c.Bool("sharpen")),
		img2ascii.WithAtlasCache(c.String("atlas")),
		img2ascii.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := conv.ConvertFile(ctx, source)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := writeResult(c, result); err != nil {
		return cli.Exit(err, 1)
	}

	stats := conv.Stats()
	logger.Printf("atlas: %v (cached: %v), prepare: %v, match: %v",
		stats.AtlasTime, stats.AtlasCached, stats.PrepareTime, stats.MatchTime)
	return nil
}

// writeResult prints the text to stdout or saves it to --output.
func writeResult(c *cli.Context, result *img2ascii.Result) error {
	text := result.Text()
	if c.Bool("plain") {
		text = result.PlainText()
	}

	output := c.String("output")
	switch {
	case output == "":
		_, err := fmt.Fprintln(c.App.Writer, text)
		return err
	case imageutil.IsImagePath(output):
		img, err := result.Image()
		if err != nil {
			return err
		}
		out := imageutil.Enlarge(imageutil.RGBAImageFromImage(img), c.Int("scale"))
		if err := imageutil.SaveImage(out.RGBA, output); err != nil {
			return err
		}
	default:
		if err := os.WriteFile(output, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
	}
	fmt.Fprintf(c.App.ErrWriter, "Output written to %s\n", output)
	return nil
}
