package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/papyrix/papyrix"
	"github.com/papyrix/papyrix/convert"
	"github.com/urfave/cli/v2"
)

const defaultDB = "papyrix.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func parseDither(name string) (convert.Dither, error) {
	switch name {
	case "atkinson":
		return convert.DitherAtkinson, nil
	case "floyd-steinberg", "fs":
		return convert.DitherFloydSteinberg, nil
	case "noise":
		return convert.DitherNoise, nil
	case "none":
		return convert.DitherNone, nil
	}
	return 0, fmt.Errorf("unknown dither method %q", name)
}

func main() {
	app := cli.NewApp()

	app.Name = "papyrix"
	app.Usage = "Papyrix e-reader content utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PAPYRIX_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to cover cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert a JPEG to a device BMP",
			Description: "",
			ArgsUsage:   "IN OUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "bits",
					Value: 2,
					Usage: "output bits per pixel (1, 2 or 8)",
				},
				&cli.IntFlag{
					Name:  "width",
					Value: 480,
					Usage: "maximum output width, 0 to disable scaling",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 800,
					Usage: "maximum output height, 0 to disable scaling",
				},
				&cli.StringFlag{
					Name:  "dither",
					Value: "atkinson",
					Usage: "dither method: atkinson, floyd-steinberg, noise or none",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				dither, err := parseDither(c.String("dither"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				opts := convert.DefaultOptions()
				opts.BitsPerPixel = c.Int("bits")
				opts.MaxWidth = c.Int("width")
				opts.MaxHeight = c.Int("height")
				opts.Dither = dither

				in, err := os.Open(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer in.Close()

				out, err := os.Create(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := convert.ToBMP(in, out, opts); err != nil {
					out.Close()
					os.Remove(c.Args().Get(1))
					return cli.NewExitError(err, 1)
				}

				if err := out.Close(); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan a book library and generate covers",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := log.New(io.Discard, "", 0)
				if c.Bool("verbose") {
					logger.SetOutput(os.Stderr)
				}

				l, err := papyrix.New(c.String("db"), logger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				if err := l.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "demo",
			Usage:       "Render a sample screen to a BMP",
			Description: "",
			ArgsUsage:   "OUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				out, err := os.Create(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer out.Close()

				if err := renderDemo(out); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
