package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/melody"
	"github.com/Conceptual-Machines/melody-api/internal/progression"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

// Build flags
var version = ""
var commit = ""
var date = ""

const envPrefix = "melodygen"

func main() {
	// Create signal based context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Launch command
	cmd := newCommand()
	if err := cmd.ParseAndRun(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *ffcli.Command {
	fs := flag.NewFlagSet("melodygen", flag.ExitOnError)

	return &ffcli.Command{
		ShortUsage: "melodygen [flags] <subcommand>",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			newVersionCommand(),
			newMelodyCommand(),
			newProgressionCommand(),
			newChordCommand(),
			newGenresCommand(),
		},
	}
}

func options() []ff.Option {
	return []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix(envPrefix),
	}
}

func newVersionCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "melodygen version",
		ShortHelp:  "print version",
		Exec: func(ctx context.Context, args []string) error {
			v := version
			if v == "" {
				if buildInfo, ok := debug.ReadBuildInfo(); ok {
					v = buildInfo.Main.Version
				}
			}
			if v == "" {
				v = "dev"
			}
			versionFields := []string{v}
			if commit != "" {
				versionFields = append(versionFields, commit)
			}
			if date != "" {
				versionFields = append(versionFields, date)
			}
			fmt.Println(strings.Join(versionFields, " "))
			return nil
		},
	}
}

func newMelodyCommand() *ffcli.Command {
	cmd := "melody"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &melodyConfig{}
	fs.StringVar(&cfg.Key, "key", "C", "tonic, e.g. C, F#, Bb")
	fs.StringVar(&cfg.Scale, "scale", "major", "major or minor")
	fs.IntVar(&cfg.Bars, "length", 8, "number of bars")
	fs.Float64Var(&cfg.Coherence, "coherence", 0.7, "probability of reusing the base motif (0-1)")
	fs.IntVar(&cfg.Tempo, "tempo", melody.DefaultTempo, "tempo in BPM")
	fs.StringVar(&cfg.TimeSignature, "time-signature", "4/4", "time signature")
	fs.StringVar(&cfg.Genre, "genre", genre.None, "genre profile")
	fs.Int64Var(&cfg.Seed, "seed", -1, "random seed (negative draws one)")
	fs.StringVar(&cfg.Format, "format", formatMIDI, "output format: mid, csv or json")
	fs.StringVar(&cfg.Output, "output", "", "output file (mid defaults to melody_<key>_<scale>_<length>.mid, others to stdout)")
	fs.StringVar(&cfg.GenresFile, "genres", "", "genre overrides YAML (optional)")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("melodygen %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  "compose a melody",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return runMelody(cfg, os.Stdout)
		},
	}
}

func newProgressionCommand() *ffcli.Command {
	cmd := "progression"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &progressionConfig{}
	fs.StringVar(&cfg.Key, "key", "C", "tonic, e.g. C, F#, Bb")
	fs.StringVar(&cfg.Scale, "scale", "major", "major or minor")
	fs.IntVar(&cfg.NumChords, "num-chords", progression.DefaultChords, "number of chords (clamped to 2-8)")
	fs.StringVar(&cfg.Genre, "genre", genre.None, "genre profile")
	fs.Int64Var(&cfg.Seed, "seed", -1, "random seed (negative draws one)")
	fs.StringVar(&cfg.Output, "output", "", "also write the progression as a MIDI file")
	fs.StringVar(&cfg.GenresFile, "genres", "", "genre overrides YAML (optional)")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("melodygen %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  "generate a chord progression",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return runProgression(cfg, os.Stdout)
		},
	}
}

func newChordCommand() *ffcli.Command {
	cmd := "chord"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	octave := fs.Int("octave", 4, "octave of the chord root (C4 = 60)")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("melodygen %s [flags] <symbol...>", cmd),
		ShortHelp:  "print the MIDI notes of chord symbols",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("melodygen: chord symbol required")
			}
			return runChords(args, *octave, os.Stdout)
		},
	}
}

func newGenresCommand() *ffcli.Command {
	cmd := "genres"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")
	genresFile := fs.String("genres", "", "genre overrides YAML (optional)")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("melodygen %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  "list genre profiles",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			registry, err := genre.LoadRegistry(*genresFile)
			if err != nil {
				return err
			}
			return runGenres(registry, os.Stdout)
		},
	}
}
