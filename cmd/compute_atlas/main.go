package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/wbrown/img2ascii"
)

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "compute_atlas"
	app.Usage = "Pre-render a glyph atlas so asciify can skip building it"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Required: true,
			Usage:    "path to save the atlas `FILE`",
		},
		&cli.StringFlag{
			Name:  "font",
			Usage: "TrueType font `FILE` (default: embedded Go Mono)",
		},
		&cli.Float64Flag{
			Name:    "font-size",
			Aliases: []string{"size"},
			Value:   img2ascii.DefaultFontSize,
			Usage:   "glyph size in points",
		},
		&cli.IntFlag{
			Name:    "ascii-start",
			Aliases: []string{"start"},
			Value:   img2ascii.DefaultCharStart,
			Usage:   "first character code",
		},
		&cli.IntFlag{
			Name:    "ascii-stop",
			Aliases: []string{"stop"},
			Value:   img2ascii.DefaultCharStop,
			Usage:   "character code to stop at (exclusive)",
		},
		&cli.BoolFlag{
			Name:    "coloured-foreground",
			Aliases: []string{"cf"},
			Usage:   "include colored characters",
		},
		&cli.StringFlag{
			Name:  "palette",
			Value: img2ascii.FormatPalette(img2ascii.DefaultPalette()),
			Usage: "comma separated colors combinations are drawn from",
		},
		&cli.StringFlag{
			Name:  "background",
			Value: img2ascii.BackgroundNone.String(),
			Usage: "background mode: none, dark, light or colored",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of parallel workers (default: one per CPU)",
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

func run(c *cli.Context) error {
	logger := log.New(c.App.ErrWriter, "", log.LstdFlags)

	mode, err := img2ascii.ParseBackgroundMode(c.String("background"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	palette, err := img2ascii.ParsePalette(c.String("palette"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	combos, err := img2ascii.SelectCombinations(palette, img2ascii.Selection{
		ColoredForeground: c.Bool("coloured-foreground"),
		Background:        mode,
	})
	if err != nil {
		return cli.Exit(err, 1)
	}

	font, err := img2ascii.LoadFont(c.String("font"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	logger.Printf("Computing atlas for font %s: %d color combinations",
		font.Name(), len(combos))

	atlas, err := img2ascii.BuildAtlas(c.Context, font, img2ascii.AtlasOptions{
		Start:        rune(c.Int("ascii-start")),
		Stop:         rune(c.Int("ascii-stop")),
		Combinations: combos,
		Layout:       img2ascii.DefaultLayout,
		FontSize:     c.Float64("font-size"),
		Workers:      c.Int("workers"),
	})
	if err != nil {
		return cli.Exit(err, 1)
	}
	if missing := atlas.Missing(); len(missing) > 0 {
		logger.Printf("Font has no glyph for %q", string(missing))
	}

	output := c.String("output")
	if err := img2ascii.SaveAtlas(atlas, output); err != nil {
		return cli.Exit(err, 1)
	}

	if info, err := os.Stat(output); err == nil {
		logger.Printf("Saved %d cells to %s (%.2f KB)",
			atlas.NumChars()*atlas.NumCombinations(), output,
			float64(info.Size())/1024)
	}
	return nil
}
