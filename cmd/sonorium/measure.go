//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/sonorium"
	"github.com/farcloser/sonorium/internal/output"
	"github.com/farcloser/sonorium/internal/source"
)

func measureCommand() *cli.Command {
	flags := append(inputFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: console, json, markdown",
			Value:   "console",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"D"},
			Usage:   "Output raw values and session counters",
		},
	)

	return &cli.Command{
		Name:      "measure",
		Usage:     "Measure the loudness of an audio file",
		ArgsUsage: "<file>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			filePath := cmd.Args().First()

			clip, err := loadClip(ctx, filePath, cmd.Int("stream"), cmd.Int("sample-rate"))
			if err != nil {
				return err
			}

			mixer := source.NewMixer(clip.Format, source.DefaultMaxTracks)

			ctl := sonorium.New(mixer)
			defer ctl.Close()

			track, err := ctl.AddTrack(sonorium.TrackSpec{Name: filepath.Base(filePath)})
			if err != nil {
				return err
			}

			if _, err = source.Play(ctx, mixer, track.Index(), clip, source.PlayerOptions{Block: cmd.Int("block")}); err != nil {
				return err
			}

			snap := ctl.Query(track, sonorium.KindAll)

			return outputSnapshot(filePath, track, snap, cmd.String("format"), cmd.Bool("debug"))
		},
	}
}

func outputSnapshot(object string, track *sonorium.Track, snap sonorium.Snapshot, formatName string, debug bool) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	meta := output.FriendlySnapshot(snap)
	if debug {
		meta = output.TrackToMap(track, snap)
	}

	data := &format.Data{
		Object: object,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}
