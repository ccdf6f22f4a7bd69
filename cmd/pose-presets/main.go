// Command pose-presets manages the movement threshold presets stored in the
// SQLite preset database and serves its admin routes.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/posture.report/internal/api"
	"github.com/banshee-data/posture.report/internal/config"
	"github.com/banshee-data/posture.report/internal/db"
	"github.com/banshee-data/posture.report/internal/pose/l3phases"
	"github.com/banshee-data/posture.report/internal/version"
)

const defaultDBPath = "posture.db"

var errUsage = errors.New("usage")

func main() {
	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("pose-presets: %v", err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `pose-presets - movement threshold presets

Usage: pose-presets [-db path] <command> [options]

Commands:
  list [movement]                     List presets, optionally for one movement
  add -name N -movement M -tuning J   Create a preset (J is a movement tuning JSON object)
      [-notes text] [-activate]
  show <id>                           Print a preset as JSON
  activate <id>                       Make a preset the active one for its movement
  deactivate <movement>               Clear the active preset for a movement
  delete <id>                         Delete a preset
  migrate up|down|status              Manage the database schema
  serve [-listen addr] [-config f]    Serve the preset JSON API and /debug admin routes
  version                             Show version
`)
}

// validMovement restricts presets to analyzable movements.
func validMovement(slug string) error {
	_, err := l3phases.ParseMovement(slug)
	return err
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("pose-presets", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dbPath := fs.String("db", defaultDBPath, "Path to the preset database")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < 1 {
		return errUsage
	}
	command, rest := fs.Arg(0), fs.Args()[1:]

	switch command {
	case "version":
		fmt.Fprintf(stdout, "pose-presets %s\n", version.String())
		return nil
	case "help":
		printUsage(stdout)
		return nil
	case "migrate":
		return handleMigrate(*dbPath, rest, stdout)
	}

	store, err := db.NewDB(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch command {
	case "list":
		return handleList(store, rest, stdout)
	case "add":
		return handleAdd(store, rest, stdout)
	case "show":
		return withID(rest, func(id string) error { return handleShow(store, id, stdout) })
	case "activate":
		return withID(rest, func(id string) error {
			if err := store.ActivateMovementPreset(id); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "activated %s\n", id)
			return nil
		})
	case "deactivate":
		if len(rest) != 1 {
			return fmt.Errorf("%w: deactivate takes a movement", errUsage)
		}
		if err := validMovement(rest[0]); err != nil {
			return err
		}
		if err := store.DeactivateMovement(rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deactivated %s\n", rest[0])
		return nil
	case "delete":
		return withID(rest, func(id string) error {
			if err := store.DeleteMovementPreset(id); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "deleted %s\n", id)
			return nil
		})
	case "serve":
		return handleServe(store, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func withID(args []string, fn func(id string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected a preset id", errUsage)
	}
	return fn(args[0])
}

func handleMigrate(dbPath string, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: migrate takes up, down or status", errUsage)
	}
	store, err := db.OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch args[0] {
	case "up":
		if err := store.MigrateUp(); err != nil {
			return err
		}
	case "down":
		if err := store.MigrateDown(); err != nil {
			return err
		}
	case "status":
	default:
		return fmt.Errorf("%w: unknown migrate action %q", errUsage, args[0])
	}
	v, dirty, err := store.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "schema version %d", v)
	if dirty {
		fmt.Fprint(stdout, " (dirty)")
	}
	fmt.Fprintln(stdout)
	return nil
}

func handleList(store *db.DB, args []string, stdout io.Writer) error {
	movement := ""
	if len(args) > 0 {
		movement = args[0]
	}
	presets, err := store.ListMovementPresets(movement)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMOVEMENT\tNAME\tACTIVE\tUPDATED")
	for _, p := range presets {
		active := ""
		if p.IsActive {
			active = "*"
		}
		updated := time.Unix(int64(p.UpdatedAt), 0).UTC().Format(time.DateTime)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Movement, p.Name, active, updated)
	}
	return tw.Flush()
}

func handleAdd(store *db.DB, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "Preset name (required)")
	movement := fs.String("movement", "", "Movement slug (required)")
	tuning := fs.String("tuning", "{}", "Movement tuning JSON object")
	notes := fs.String("notes", "", "Free-form notes")
	activate := fs.Bool("activate", false, "Activate the preset after creating it")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var mt config.MovementTuning
	dec := json.NewDecoder(strings.NewReader(*tuning))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&mt); err != nil {
		return fmt.Errorf("failed to parse -tuning: %w", err)
	}

	p := &db.MovementPreset{Name: *name, Movement: *movement, Tuning: mt, Notes: *notes}
	if err := store.CreateMovementPreset(p, validMovement); err != nil {
		return err
	}
	if *activate {
		if err := store.ActivateMovementPreset(p.ID); err != nil {
			return err
		}
	}
	fmt.Fprintln(stdout, p.ID)
	return nil
}

func handleShow(store *db.DB, id string, stdout io.Writer) error {
	p, err := store.GetMovementPreset(id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func handleServe(store *db.DB, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	listen := fs.String("listen", "localhost:8090", "Address for the admin HTTP server")
	cfgPath := fs.String("config", "", "Tuning config JSON that active presets overlay (empty for built-in defaults)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var base *config.TuningConfig
	if *cfgPath != "" {
		c, err := config.LoadTuningConfig(*cfgPath)
		if err != nil {
			return err
		}
		base = c
	}

	mux := http.NewServeMux()
	api.NewPresetAPI(store, base).RegisterRoutes(mux)
	if err := store.AttachAdminRoutes(mux); err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              *listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("preset API on http://%s/api/presets, admin routes on /debug/", *listen)
	return srv.ListenAndServe()
}
