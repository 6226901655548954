// Command gprm is the operator CLI: it fetches and inspects the registered
// geoscience datasets and runs one-off reconstructions (plate snapshots,
// velocity fields, convergence tables, age-coded point reconstruction)
// against the external reconstruction engine.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/plate-kinematics-etl/internal/adapter/gws"
	"github.com/couchcryptid/plate-kinematics-etl/internal/config"
	"github.com/couchcryptid/plate-kinematics-etl/internal/dataset"
	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
	"github.com/couchcryptid/plate-kinematics-etl/internal/fetch"
	"github.com/couchcryptid/plate-kinematics-etl/internal/observability"
)

// app carries the wired dependencies shared by all subcommands.
type app struct {
	gwsURL    string
	cacheDir  string
	manifest  string
	logLevel  string
	logFormat string

	store  *dataset.Store
	engine domain.ReconstructionEngine
	model  domain.Model
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "gprm",
		Short:        "Fetch geoscience datasets and run plate reconstructions",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	cfg, err := config.Load()
	defaultCacheDir := ""
	defaultGWS := "https://gws.gplates.org"
	if err == nil {
		defaultCacheDir = cfg.CacheDir
		defaultGWS = cfg.GWSBaseURL
	}

	root.PersistentFlags().StringVar(&a.gwsURL, "gws-url", defaultGWS, "base URL of the reconstruction web service")
	root.PersistentFlags().StringVar(&a.cacheDir, "cache-dir", defaultCacheDir, "dataset cache directory")
	root.PersistentFlags().StringVar(&a.manifest, "model", "", "path to a YAML reconstruction model manifest")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(
		newDatasetsCmd(a),
		newSnapshotCmd(a),
		newVelocitiesCmd(a),
		newConvergenceCmd(a),
		newReconstructCmd(a),
	)
	return root
}

// init wires the fetcher, dataset store, and engine client from the
// persistent flags. Called once before any subcommand runs.
func (a *app) init() error {
	logger := observability.NewLogger(a.logLevel, a.logFormat)
	metrics := observability.NewMetrics()

	fetcher := fetch.New(a.cacheDir, 10*time.Minute, logger, metrics)
	a.store = dataset.NewStore(fetcher)

	client := gws.NewClient(a.gwsURL, 2*time.Minute, logger, metrics)
	a.engine = gws.NewCachedEngine(client, 64, metrics)

	if a.manifest != "" {
		model, err := domain.LoadModel(a.manifest)
		if err != nil {
			return err
		}
		a.model = model
	} else {
		a.model = domain.Model{Name: "default", EngineTag: "MULLER2019"}
	}
	return nil
}

// openOutput returns stdout when path is empty, otherwise the created file.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
