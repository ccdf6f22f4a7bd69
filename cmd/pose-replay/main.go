// Command pose-replay runs a recorded landmark stream (JSON Lines, one
// frame per line) through the analysis pipeline, prints phase changes,
// credited reps and framing feedback, and optionally exports a session
// summary, per-frame events, an HTML chart and a PNG plot.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/posture.report/internal/config"
	"github.com/banshee-data/posture.report/internal/db"
	"github.com/banshee-data/posture.report/internal/pose"
	"github.com/banshee-data/posture.report/internal/pose/l3phases"
	"github.com/banshee-data/posture.report/internal/pose/pipeline"
	"github.com/banshee-data/posture.report/internal/report"
	"github.com/banshee-data/posture.report/internal/security"
	"github.com/banshee-data/posture.report/internal/units"
	"github.com/banshee-data/posture.report/internal/version"
)

type options struct {
	input    string
	movement string
	config   string
	dbPath   string
	outDir   string
	chart    bool
	png      bool
	events   bool
	tz       string
	units    string
	quiet    bool
	version  bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("pose-replay: %v", err)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("pose-replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.input, "input", "-", "JSON Lines landmark recording (- for stdin)")
	fs.StringVar(&opts.movement, "movement", l3phases.LumbarFlexion.String(), "Movement slug to analyze")
	fs.StringVar(&opts.config, "config", config.DefaultConfigPath, "Tuning config JSON (empty for built-in defaults)")
	fs.StringVar(&opts.dbPath, "db", "", "Preset database; active presets overlay the tuning config")
	fs.StringVar(&opts.outDir, "out", "", "Directory for exported artifacts")
	fs.BoolVar(&opts.chart, "chart", false, "Export an HTML angle chart (requires -out)")
	fs.BoolVar(&opts.png, "png", false, "Export a PNG angle plot (requires -out)")
	fs.BoolVar(&opts.events, "events", false, "Export per-frame results as JSON Lines (requires -out)")
	fs.StringVar(&opts.tz, "tz", "UTC", "Timezone for printed timestamps")
	fs.StringVar(&opts.units, "units", units.Degrees, "Angle units for printed output ("+units.GetValidUnitsString()+")")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only print the final summary")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.version {
		return opts, nil
	}
	if _, err := l3phases.ParseMovement(opts.movement); err != nil {
		return nil, err
	}
	if !units.IsValid(opts.units) {
		return nil, fmt.Errorf("invalid units %q (want %s)", opts.units, units.GetValidUnitsString())
	}
	if !units.IsTimezoneValid(opts.tz) {
		return nil, fmt.Errorf("invalid timezone %q", opts.tz)
	}
	if (opts.chart || opts.png || opts.events) && opts.outDir == "" {
		return nil, errors.New("-chart, -png and -events require -out")
	}
	return opts, nil
}

func loadTuning(opts *options) (*config.TuningConfig, error) {
	var cfg *config.TuningConfig
	if opts.config != "" {
		c, err := config.LoadTuningConfig(opts.config)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if opts.dbPath == "" {
		return cfg, nil
	}
	store, err := db.NewDB(opts.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset database: %w", err)
	}
	defer store.Close()
	return store.ActiveTuning(cfg)
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintf(stdout, "pose-replay %s\n", version.String())
		return nil
	}

	m, _ := l3phases.ParseMovement(opts.movement)
	cfg, err := loadTuning(opts)
	if err != nil {
		return err
	}

	in := stdin
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	sess, err := pipeline.NewSession(m, cfg)
	if err != nil {
		return err
	}
	th := l3phases.ThresholdsFromTuning(m, cfg.Movement(m.String()))
	tl := report.NewTimeline(fmt.Sprintf("%s %s", m, sess.ID()[:8]), th)

	var events *json.Encoder
	if opts.events {
		f, err := createArtifact(opts.outDir, sess, "events.jsonl")
		if err != nil {
			return err
		}
		defer f.Close()
		events = json.NewEncoder(f)
	}

	pr := &printer{w: stdout, tz: opts.tz, units: opts.units, quiet: opts.quiet}
	fr := pose.NewFrameReader(in)
	for {
		frame, err := fr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		res, err := sess.Process(frame)
		if err != nil {
			return err
		}
		tl.Add(res)
		pr.print(res)
		if events != nil {
			if err := events.Encode(res); err != nil {
				return fmt.Errorf("failed to write event: %w", err)
			}
		}
	}

	sum := sess.Summary()
	fmt.Fprintf(stdout, "%s: %d reps over %d frames (mean form score %.1f)\n",
		sum.Movement, sum.RepCount, sum.Frames, sum.MeanFormScore)

	if opts.outDir == "" {
		return nil
	}
	return exportArtifacts(opts, sess, sum, tl)
}

func exportArtifacts(opts *options, sess *pipeline.Session, sum pipeline.Summary, tl *report.Timeline) error {
	f, err := createArtifact(opts.outDir, sess, "summary.json")
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sum); err != nil {
		f.Close()
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("summary written to %s", f.Name())

	if opts.chart {
		f, err := createArtifact(opts.outDir, sess, "chart.html")
		if err != nil {
			return err
		}
		if err := tl.RenderHTML(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to render chart: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Printf("chart written to %s", f.Name())
	}

	if opts.png {
		path, err := security.ArtifactPath(opts.outDir, artifactName(sess, "angle.png"))
		if err != nil {
			return err
		}
		if err := tl.SavePNG(path); err != nil {
			return fmt.Errorf("failed to save plot: %w", err)
		}
		log.Printf("plot written to %s", path)
	}
	return nil
}

func artifactName(sess *pipeline.Session, suffix string) string {
	return fmt.Sprintf("%s-%s-%s", sess.Movement(), sess.ID()[:8], suffix)
}

func createArtifact(dir string, sess *pipeline.Session, suffix string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	path, err := security.ArtifactPath(dir, artifactName(sess, suffix))
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
