package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/eugenenazirov/paper-carbon/internal/calculator"
	"github.com/eugenenazirov/paper-carbon/internal/cue"
	"github.com/eugenenazirov/paper-carbon/internal/logging"
	"github.com/eugenenazirov/paper-carbon/internal/tracker"
	"github.com/eugenenazirov/paper-carbon/internal/tui"
	"github.com/eugenenazirov/paper-carbon/internal/view"
)

type options struct {
	size         string
	gsm          string
	sheets       string
	mode         string
	soundCommand string
	logFile      string
	logLevel     string
}

func main() {
	app := kingpin.New("paper-carbon-tracker", "Shows the CO2 saved by not using paper, right in the terminal")
	var opts options
	app.Flag("size", "Paper size (A0-A5)").Default("A4").StringVar(&opts.size)
	app.Flag("gsm", "Paper weight in grams per square metre").Default("80").StringVar(&opts.gsm)
	app.Flag("sheets", "Number of sheets saved").StringVar(&opts.sheets)
	app.Flag("mode", "kids or standard").Default("kids").StringVar(&opts.mode)
	app.Flag("sound-command", "Command played as the reward sound instead of the terminal bell").StringVar(&opts.soundCommand)
	app.Flag("log-file", "Write logs to this file").StringVar(&opts.logFile)
	app.Flag("log-level", "Log level (debug, info, warn, error)").Default("info").StringVar(&opts.logLevel)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// the form owns stdout, so the bell rings on stderr when that is a terminal too
	var bell io.Writer
	if term.IsTerminal(int(os.Stderr.Fd())) {
		bell = os.Stderr
	}

	if err := run(opts, os.Stdout, bell, term.IsTerminal(int(os.Stdout.Fd()))); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(opts options, out, bell io.Writer, interactive bool) error {
	logger, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	form, err := parseForm(opts)
	if err != nil {
		return err
	}

	trackerOpts := []tracker.Option{tracker.WithLogger(logger)}
	if interactive {
		trackerOpts = append(trackerOpts, tracker.WithCue(newPlayer(opts.soundCommand, bell)))
	}
	tr := tracker.New(trackerOpts...)
	if err := tr.Apply(form); err != nil {
		return err
	}

	if !interactive {
		tr.Calculate()
		_, err := io.WriteString(out, tui.RenderPlain(view.Build(tr.State(), view.Assets{})))
		return err
	}

	logger.Debug("starting interactive form", zap.String("mode", string(form.Mode)))
	if _, err := tea.NewProgram(tui.NewModel(tr, view.Assets{}), tea.WithOutput(out)).Run(); err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	return nil
}

func parseForm(opts options) (tracker.Form, error) {
	size, err := calculator.ParsePaperSize(opts.size)
	if err != nil {
		return tracker.Form{}, err
	}
	gsm, err := calculator.ParseGSM(opts.gsm)
	if err != nil {
		return tracker.Form{}, err
	}
	mode, err := tracker.ParseMode(opts.mode)
	if err != nil {
		return tracker.Form{}, err
	}
	return tracker.Form{Size: size, GSM: gsm, SheetText: opts.sheets, Mode: mode}, nil
}

func newLogger(opts options) (*zap.Logger, error) {
	if opts.logFile == "" {
		// the terminal belongs to the form
		return zap.NewNop(), nil
	}
	return logging.New(opts.logLevel, opts.logFile)
}

// newPlayer returns nil when there is neither a command nor a bell writer.
func newPlayer(command string, bell io.Writer) cue.Player {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		if bell == nil {
			return nil
		}
		return cue.Bell{W: bell}
	}
	return cue.Command{Name: fields[0], Args: fields[1:]}
}
