package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Set by compiler with -ldflags
var (
	version = "v0.1.0"
	commit  = "unknown"
	builtBy = "unknown"
)

func newApp() *cli.App {
	return &cli.App{
		Name:                   "palgrab",
		Usage:                  "create color palettes from images, gradients, and indexed color tables.",
		Description:            "palgrab creates palettes.\n\nThe palette is written as a GIMP palette (.gpl), a list of hex codes,\nJSON, or a PNG swatch, depending on the output extension or --format.",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "in",
				Aliases: []string{"i"},
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "gpl",
			},
			&cli.StringFlag{
				Name: "name",
			},
			&cli.IntFlag{
				Name:    "colors",
				Aliases: []string{"n"},
				Value:   256,
				EnvVars: []string{"PALGRAB_COLORS"},
			},
			&cli.UintFlag{
				Name: "columns",
			},
			&cli.BoolFlag{
				Name: "no-overwrite",
			},
			&cli.UintFlag{
				Name:    "width",
				Aliases: []string{"x"},
			},
			&cli.UintFlag{
				Name:    "height",
				Aliases: []string{"y"},
			},
			&cli.BoolFlag{
				Name:    "grayscale",
				Aliases: []string{"g"},
			},
			&cli.StringFlag{
				Name: "saturation",
			},
			&cli.StringFlag{
				Name: "brightness",
			},
			&cli.StringFlag{
				Name: "contrast",
			},
			&cli.BoolFlag{
				Name: "no-exif-rotation",
			},
			&cli.StringFlag{
				Name: "preview",
			},
			&cli.BoolFlag{
				Name: "verbose",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"v"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "image",
				Aliases: []string{"img"},
				Usage:   "most frequent colors, merged by a threshold",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "threshold",
						Aliases: []string{"t"},
						Value:   1,
					},
					&cli.StringFlag{
						Name:    "mask",
						Aliases: []string{"m"},
					},
					&cli.IntFlag{
						Name: "max-buckets",
					},
				},
				UseShortOptionHandling: true,
				Action:                 imageCmd,
			},
			{
				Name:  "kmeans",
				Usage: "k-means clustering of image colors",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "iterations",
						Value: 500,
					},
				},
				UseShortOptionHandling: true,
				Action:                 kmeans,
			},
			{
				Name:      "gradient",
				Usage:     "evenly spaced samples of a gradient",
				ArgsUsage: "color[@position] color[@position]...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "reverse",
						Aliases: []string{"r"},
					},
				},
				UseShortOptionHandling: true,
				Action:                 gradient,
			},
			{
				Name:                   "indexed",
				Usage:                  "color table of an indexed PNG or GIF",
				UseShortOptionHandling: true,
				Action:                 indexed,
			},
		},
		Before: preProcess,
		Action: func(c *cli.Context) error {
			return errors.New("no command specified")
		},
	}
}

func main() {
	app := newApp()

	// Handle version flag
	if len(os.Args) == 2 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println("palgrab", version)
		fmt.Println("Commit:", commit)
		fmt.Println("Built by:", builtBy)
		return
	}

	// Hack around issue where required flags are still required even for help
	// https://github.com/urfave/cli/issues/1247
	if len(os.Args) == 3 {
		if os.Args[1] == "h" || os.Args[1] == "help" {
			// Like: palgrab help image
			for _, c := range app.Commands {
				if c.Name == os.Args[2] {
					cli.HelpPrinter(os.Stdout, cli.CommandHelpTemplate, c)
					return
				}
			}
			fmt.Println("no command with that name")
			os.Exit(1)
		} else if os.Args[len(os.Args)-1] == "-h" || os.Args[len(os.Args)-1] == "--help" {
			// Like: palgrab image --help
			for _, c := range app.Commands {
				if c.Name == os.Args[1] {
					cli.HelpPrinter(os.Stdout, cli.CommandHelpTemplate, c)
					return
				}
			}
			fmt.Println("no command with that name")
			os.Exit(1)
		}
	}

	err := app.Run(os.Args)
	if err != nil {
		if len(os.Args) == 1 {
			// Just ran the command with no flags
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
