package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phrazzld/descbench/internal/bridge"
	"github.com/phrazzld/descbench/internal/config"
	"github.com/phrazzld/descbench/internal/descriptor"
	"github.com/phrazzld/descbench/internal/experiment"
	"github.com/phrazzld/descbench/internal/matching"
	"github.com/phrazzld/descbench/internal/platform/database"
	"github.com/phrazzld/descbench/internal/platform/logger"
	"github.com/phrazzld/descbench/internal/store"
)

var errNoConfig = errors.New("-config is required")

type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer

	// Extractor and matcher implementations register here; the binary
	// itself ships none.
	extractors *descriptor.Factory
	matchers   *matching.Factory
}

func newApp(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) *app {
	log := logger.FromContextOrDefault(ctx, slog.Default())
	return &app{
		cfg:        cfg,
		stdout:     stdout,
		stderr:     stderr,
		extractors: descriptor.NewFactory(log),
		matchers:   matching.NewFactory(log),
	}
}

func (a *app) flags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	path := fs.String("config", "", "experiment document (path, or name under the runner config dir)")
	return fs, path
}

// load resolves and parses the experiment document named by path.
func (a *app) load(ctx context.Context, path string) (*experiment.Config, error) {
	if path == "" {
		return nil, errNoConfig
	}
	return experiment.LoadFile(ctx, resolveConfigPath(a.cfg.Runner.ConfigDir, path))
}

// resolveConfigPath returns path unchanged when it exists. A bare name is
// otherwise looked up in dir, with and without a .yaml extension.
func resolveConfigPath(dir, path string) string {
	if _, err := os.Stat(path); err == nil || strings.ContainsRune(path, filepath.Separator) {
		return path
	}
	for _, candidate := range []string{path, path + ".yaml", path + ".yml"} {
		full := filepath.Join(dir, candidate)
		if _, err := os.Stat(full); err == nil {
			return full
		}
	}
	return path
}

func (a *app) validate(ctx context.Context, args []string) error {
	fs, path := a.flags("validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.load(ctx, *path)
	if err != nil {
		return err
	}
	hash, err := experiment.Fingerprint(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "experiment: %s\n", cfg.Experiment.Name)
	fmt.Fprintf(a.stdout, "dataset:    %s\n", cfg.Dataset.Path)
	fmt.Fprintf(a.stdout, "keypoints:  %s (source %s, max %d)\n",
		cfg.Keypoints.Generator, cfg.Keypoints.Params.Source, cfg.Keypoints.Params.MaxFeatures)
	fmt.Fprintf(a.stdout, "descriptors (%d):\n", len(cfg.Descriptors))
	for i, d := range cfg.Descriptors {
		fmt.Fprintf(a.stdout, "  [%d] %s: type=%s pooling=%s color=%t extractor=%s\n",
			i, d.Name, d.Type, d.Params.Pooling, d.Params.UseColor, registered(a.extractors.IsSupported(d.Type)))
	}
	strategy := bridge.ToLegacy(cfg).MatchingStrategy
	fmt.Fprintf(a.stdout, "matching:   %s (available: %s)\n",
		strategy, strings.Join(a.matchers.AvailableStrategies(), ", "))
	fmt.Fprintf(a.stdout, "fingerprint: %s\n", hash)
	return nil
}

func registered(ok bool) string {
	if ok {
		return "registered"
	}
	return "unregistered"
}

func (a *app) legacy(ctx context.Context, args []string) error {
	fs, path := a.flags("legacy")
	index := fs.Int("index", 0, "descriptor index to project")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.load(ctx, *path)
	if err != nil {
		return err
	}
	flat, err := bridge.ToLegacyAt(cfg, *index)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(flat)
}

func (a *app) emit(ctx context.Context, args []string) error {
	fs, path := a.flags("emit")
	out := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.load(ctx, *path)
	if err != nil {
		return err
	}
	if *out != "" {
		return experiment.Save(cfg, *out)
	}
	data, err := experiment.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(data)
	return err
}

func (a *app) record(ctx context.Context, args []string) error {
	fs, path := a.flags("record")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.load(ctx, *path)
	if err != nil {
		return err
	}
	log := logger.FromContextOrDefault(ctx, slog.Default())

	if !cfg.Database.Enabled {
		log.InfoContext(ctx, "database disabled for experiment; nothing recorded",
			slog.String("experiment", cfg.Experiment.Name))
		fmt.Fprintln(a.stdout, "database disabled; nothing recorded")
		return nil
	}

	conn := cfg.Database.Connection
	if a.cfg.Database.URL != "" {
		conn = a.cfg.Database.URL
	}

	db, err := database.Open(ctx, conn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	migrateCtx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Runner.MigrationTimeout)*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, db); err != nil {
		return err
	}

	hash, err := experiment.Fingerprint(cfg)
	if err != nil {
		return err
	}

	runs := database.NewRunStore(db, db.Dialect, log)
	var recorded []*store.Run
	err = store.RunInTransaction(ctx, db.DB, func(ctx context.Context, tx *sql.Tx) error {
		txRuns := runs.WithTx(tx)
		for i := range cfg.Descriptors {
			run, err := store.NewRun(cfg, i, hash)
			if err != nil {
				return err
			}
			if err := txRuns.Record(ctx, run); err != nil {
				return err
			}
			recorded = append(recorded, run)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, r := range recorded {
		fmt.Fprintf(a.stdout, "%s %s\n", r.ID, r.DescriptorName)
	}
	return nil
}
