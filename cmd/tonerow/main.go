package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/getsentry/sentry-go"

	"github.com/lixenwraith/tonerow/audio"
	"github.com/lixenwraith/tonerow/config"
	"github.com/lixenwraith/tonerow/core"
	"github.com/lixenwraith/tonerow/notation"
	"github.com/lixenwraith/tonerow/tonerow"
	"github.com/lixenwraith/tonerow/ui"
)

const sentryFlushTimeout = 2 * time.Second

type options struct {
	configPath  string
	debug       bool
	bpm         string
	instrument  string
	clef        string
	flats       bool
	loop        bool
	mute        bool
	print       bool
	wavPath     string
	writeConfig string
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, map[string]bool, error) {
	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "TOML config file (default $TONEROW_CONFIG)")
	fs.BoolVar(&o.debug, "debug", false, "Write debug log to logs/")
	fs.StringVar(&o.bpm, "bpm", "", "Tempo in beats per minute")
	fs.StringVar(&o.instrument, "instrument", "", "Instrument: synth, am, fm, duo, mono, membrane, metal, pluck, poly")
	fs.StringVar(&o.clef, "clef", "", "Clef: treble or bass")
	fs.BoolVar(&o.flats, "flats", false, "Spell black keys with flats")
	fs.BoolVar(&o.loop, "loop", false, "Repeat playback until stopped")
	fs.BoolVar(&o.mute, "mute", false, "Disable audio output")
	fs.BoolVar(&o.print, "print", false, "Print one generated row and its staff, then exit")
	fs.StringVar(&o.wavPath, "wav", "", "Render one generated row to a WAV file, then exit")
	fs.StringVar(&o.writeConfig, "write-config", "", "Write the effective config as TOML, then exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

// applyFlags overrides loaded settings with explicitly set flags
func applyFlags(cfg *config.Config, o *options, set map[string]bool) error {
	if set["bpm"] {
		cfg.Playback.BPM = config.ParseBPM(o.bpm)
	}
	if set["instrument"] {
		cfg.Playback.Instrument = o.instrument
	}
	if set["clef"] {
		cfg.Display.Clef = o.clef
	}
	if set["flats"] {
		cfg.Display.Flats = o.flats
	}
	if set["loop"] {
		cfg.Playback.Loop = o.loop
	}
	if o.mute {
		cfg.Audio.Enabled = false
	}
	return cfg.Validate()
}

// printRow writes the row names, display keys and staff as text
func printRow(w io.Writer, row tonerow.Row, cfg *config.Config) error {
	keys := row.DisplayKeys(cfg.Accidental())
	st, err := notation.Render(keys, cfg.Clef())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Row:  %s\n", row)
	fmt.Fprintf(w, "Keys: %s\n", strings.Join(keys, " "))
	fmt.Fprintf(w, "Time: %s  Clef: %s\n\n", notation.TimeSignature, cfg.Clef())
	for _, line := range st.Lines() {
		fmt.Fprintln(w, line)
	}
	return nil
}

// writeWAV renders one pass of row to path
func writeWAV(path string, row tonerow.Row, cfg *config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	opts := audio.SequenceOptions{Instrument: cfg.Instrument(), BPM: cfg.Playback.BPM}
	if err := audio.EncodeWAV(f, row.MIDINotes(), opts, cfg.AudioConfig()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	o, set, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if logFile := setupLogging(o.debug); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(cfg, o, set); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid option: %v\n", err)
		os.Exit(1)
	}

	switch {
	case o.writeConfig != "":
		if err := config.Save(o.writeConfig, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	case o.print:
		if err := printRow(os.Stdout, tonerow.New(), cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	case o.wavPath != "":
		row := tonerow.New()
		if err := writeWAV(o.wavPath, row, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "WAV export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s -> %s\n", row, o.wavPath)
		return
	}

	if cfg.Server.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Server.SentryDSN,
			Environment: cfg.Server.Environment,
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	// Panic Recovery: ensure terminal is reset even if the app crashes
	core.SetCrashScreen(screen)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	player := audio.NewPlayer(cfg.AudioConfig())
	if err := player.Init(); err != nil {
		// Non-fatal, the staff still works without sound
		log.Printf("Audio initialization failed: %v", err)
	}
	defer player.Close()

	app := ui.NewApp(screen, player, ui.OptionsFromConfig(cfg))
	app.Run()
	core.SetCrashScreen(nil)
	screen.Fini()
}
