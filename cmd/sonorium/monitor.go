//nolint:wrapcheck
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/farcloser/sonorium"
	"github.com/farcloser/sonorium/internal/config"
	"github.com/farcloser/sonorium/internal/display"
	"github.com/farcloser/sonorium/internal/output"
	"github.com/farcloser/sonorium/internal/remote"
	"github.com/farcloser/sonorium/internal/source"
	"github.com/farcloser/sonorium/internal/types"
)

const defaultProfile = "sonorium.ini"

var errInvalidSelection = errors.New("invalid selection")

func monitorCommand() *cli.Command {
	flags := append(inputFlags(),
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "INI profile holding the tabs and colour bands",
			Value:   defaultProfile,
		},
		&cli.IntFlag{
			Name:  "track",
			Usage: "Mixer track the file is played on",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:  "realtime",
			Usage: "Pace replay at the file sample rate",
			Value: true,
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "Meter width in cells",
			Value: 54,
		},
	)

	return &cli.Command{
		Name:      "monitor",
		Usage:     "Replay an audio file through the loudness dock",
		ArgsUsage: "<file>",
		Description: "Control commands are read from stdin, one per line:\n" +
			"  get|reset|pause|resume [name]\n" +
			"  select N\n" +
			"  stream start|stop, record start|stop|pause|unpause\n" +
			"  profile (reload the INI profile)",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			clip, err := loadClip(ctx, cmd.Args().First(), cmd.Int("stream"), cmd.Int("sample-rate"))
			if err != nil {
				return err
			}

			store, err := config.OpenINI(cmd.String("config"))
			if err != nil {
				return err
			}

			mixer := source.NewMixer(clip.Format, source.DefaultMaxTracks)
			loader := func() config.Config {
				return config.Load(store, mixer.MaxTracks())
			}

			ctl := sonorium.New(mixer, sonorium.WithProfileLoader(loader))
			ctl.Apply(loader())

			mon := &monitor{
				ctl:      ctl,
				registry: remote.NewRegistry(),
				out:      os.Stdout,
				tty:      term.IsTerminal(int(os.Stdout.Fd())), //nolint:gosec // fd fits an int
				width:    cmd.Int("width"),
			}

			vendor := remote.NewVendor(ctl)
			if err = vendor.Register(mon.registry); err != nil {
				return err
			}
			defer vendor.Unregister()

			err = mon.run(ctx, mixer, cmd.Int("track"), clip, source.PlayerOptions{
				Block:    cmd.Int("block"),
				Realtime: cmd.Bool("realtime"),
			})

			ctl.OnEvent(sonorium.EventExit)

			if saveErr := config.Save(store, ctl.Config()); saveErr != nil {
				slog.Warn("profile not saved", "error", saveErr)
			}

			ctl.Close()

			return err
		},
	}
}

type monitor struct {
	ctl      *sonorium.Controller
	registry *remote.Registry
	out      io.Writer
	tty      bool
	width    int

	panel *display.Panel
	drawn int
}

func (m *monitor) rebuildPanel() {
	bar := display.NewBar(m.width)
	bar.Plain = !m.tty
	m.panel = display.NewPanel(m.ctl.Config(), bar)
}

// run replays clip on track while refreshing the panel every tick and serving stdin commands. It returns
// when replay ends or ctx is cancelled.
func (m *monitor) run(
	ctx context.Context,
	mixer *source.Mixer,
	track int,
	clip *types.Clip,
	opts source.PlayerOptions,
) error {
	m.rebuildPanel()

	group, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	group.Go(func() error {
		defer close(done)

		frames, err := source.Play(ctx, mixer, track, clip, opts)
		slog.Debug("monitor.run", "stage", "replay done", "frames", frames)

		return err
	})

	group.Go(func() error {
		ticker := time.NewTicker(sonorium.TickInterval)
		defer ticker.Stop()

		lines := controlLines(os.Stdin)

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-done:
				report := m.ctl.Tick()
				report.ShortText, report.IntegratedText = true, true
				m.draw(report)

				return nil
			case <-ticker.C:
				m.draw(m.ctl.Tick())
			case line, ok := <-lines:
				if !ok {
					lines = nil

					continue
				}

				if err := m.dispatch(ctx, line); err != nil {
					slog.Warn("command failed", "command", line, "error", err)
				}
			}
		}
	})

	return group.Wait()
}

// controlLines forwards stdin lines until EOF. Reading stdin cannot be interrupted, so this goroutine is
// left behind when the session ends.
func controlLines(input io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	return lines
}

//nolint:gochecknoglobals // lookup table
var hostEvents = map[string]sonorium.Event{
	"stream start":   sonorium.EventStreamingStarted,
	"stream stop":    sonorium.EventStreamingStopping,
	"record start":   sonorium.EventRecordingStarted,
	"record stop":    sonorium.EventRecordingStopping,
	"record pause":   sonorium.EventRecordingPaused,
	"record unpause": sonorium.EventRecordingUnpaused,
	"profile":        sonorium.EventProfileChanged,
}

// dispatch runs one control line. Remote requests print their response.
func (m *monitor) dispatch(ctx context.Context, line string) error {
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return nil
	}

	if event, ok := hostEvents[strings.ToLower(line)]; ok {
		slog.Debug("monitor.dispatch", "event", event.String())
		m.ctl.OnEvent(event)

		if event == sonorium.EventProfileChanged {
			m.rebuildPanel()
		}

		return nil
	}

	if arg, ok := strings.CutPrefix(line, "select "); ok {
		ix, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: %q", errInvalidSelection, arg)
		}

		m.ctl.Select(ix)

		return nil
	}

	command, err := remote.ParseCommand(line)
	if err != nil {
		return err
	}

	response, err := m.registry.Call(ctx, command.Request, command.Body)
	if err != nil {
		return err
	}

	if len(response) > 0 {
		m.drawn = 0
		_, _ = fmt.Fprintln(m.out, formatResponse(response))
	}

	return nil
}

func formatResponse(response map[string]any) string {
	parts := make([]string, 0, len(response))

	for _, key := range output.Keys() {
		value, found := response[key]
		if !found {
			continue
		}

		text := "-inf"
		if level, ok := value.(float64); ok {
			text = strconv.FormatFloat(level, 'f', 1, 64)
		}

		parts = append(parts, key+"="+text)
	}

	return strings.Join(parts, " ")
}

// draw renders the panel. On a terminal the previous frame is overwritten, otherwise a frame is printed
// only when the integrated label refreshes.
func (m *monitor) draw(report sonorium.Report) {
	m.panel.Update(report)

	if !m.tty {
		if report.IntegratedText {
			_, _ = fmt.Fprintln(m.out, m.panel.String())
		}

		return
	}

	lines := m.panel.Lines()

	var frame strings.Builder
	if m.drawn > 0 {
		fmt.Fprintf(&frame, "\x1b[%dA", m.drawn)
	}

	for _, line := range lines {
		frame.WriteString("\x1b[2K")
		frame.WriteString(line)
		frame.WriteByte('\n')
	}

	_, _ = io.WriteString(m.out, frame.String())
	m.drawn = len(lines)
}
