//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/sonorium/internal/config"
	"github.com/farcloser/sonorium/internal/output"
	"github.com/farcloser/sonorium/internal/source"
)

var errProfileExists = errors.New("profile already exists (use --force to overwrite)")

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "INI profile path",
			Value:   defaultProfile,
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect or create the monitor profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the profile as the monitor would load it",
				Flags: append(configFlags(), &cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Usage:   "Output format: console, json, markdown",
					Value:   "console",
				}),
				Action: func(_ context.Context, cmd *cli.Command) error {
					store, err := config.OpenINI(cmd.String("config"))
					if err != nil {
						return err
					}

					formatter, err := format.GetFormatter(cmd.String("format"))
					if err != nil {
						return err
					}

					cfg := config.Load(store, source.DefaultMaxTracks)

					data := &format.Data{
						Object: store.Path(),
						Meta:   output.ConfigToMap(cfg),
					}

					return formatter.PrintAll([]*format.Data{data}, os.Stdout)
				},
			},
			{
				Name:  "init",
				Usage: "Write the default profile",
				Flags: append(configFlags(), &cli.BoolFlag{
					Name:  "force",
					Usage: "Overwrite an existing profile",
				}),
				Action: func(_ context.Context, cmd *cli.Command) error {
					store, err := config.OpenINI(cmd.String("config"))
					if err != nil {
						return err
					}

					if store.Exists() && !cmd.Bool("force") {
						return fmt.Errorf("%w: %s", errProfileExists, store.Path())
					}

					if err = config.Save(store, config.DefaultConfig()); err != nil {
						return err
					}

					slog.Info("profile written", "path", store.Path())

					return nil
				},
			},
		},
	}
}
