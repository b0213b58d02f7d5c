// Command meshbuild builds a Chemicals-and-Drugs taxonomy snapshot from the
// raw MeSH ASCII dumps, saves it as a snapshot directory and optionally
// exports the hierarchy as a DOT file. It is intended to be run offline.
//
// Flags:
//
//	--descriptors  path to the descriptor dump (overrides config)
//	--chemicals    path to the supplementary-chemical dump (overrides config)
//	--roots        comma-separated root codes or names (overrides config)
//	--out          snapshot output directory (overrides config)
//	--tarball      additionally pack the snapshot into <out>.tar.gz
//	--dot          write the hierarchy graph to this DOT file
//	--verbose      force debug logging
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/graphbio/meshchem/internal/app"
	"github.com/graphbio/meshchem/internal/app/builder"
	"github.com/graphbio/meshchem/internal/app/builder/pubchem"
	"github.com/graphbio/meshchem/internal/config"
	"github.com/graphbio/meshchem/internal/domain"
)

func main() {
	descriptorsFlag := flag.String("descriptors", "", "path to the descriptor dump")
	chemicalsFlag := flag.String("chemicals", "", "path to the supplementary-chemical dump")
	rootsFlag := flag.String("roots", "", "comma-separated root codes or names")
	outFlag := flag.String("out", "", "snapshot output directory")
	tarballFlag := flag.Bool("tarball", false, "pack the snapshot into a tar.gz")
	dotFlag := flag.String("dot", "", "write the hierarchy graph to this DOT file")
	verboseFlag := flag.Bool("verbose", false, "force debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// CLI flags override config.
	if *descriptorsFlag != "" {
		cfg.Build.DescriptorsPath = *descriptorsFlag
	}
	if *chemicalsFlag != "" {
		cfg.Build.ChemicalsPath = *chemicalsFlag
	}
	if *outFlag != "" {
		cfg.Build.OutputDir = *outFlag
	}
	if *tarballFlag {
		cfg.Build.Tarball = true
	}
	if *verboseFlag {
		cfg.Build.Verbose = true
		cfg.Log.Level = "debug"
	}
	if *rootsFlag != "" {
		roots, err := domain.ParseRoots(*rootsFlag)
		if err != nil {
			log.Fatalf("parse roots: %v", err)
		}
		cfg.Build.Roots = roots
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting build",
		slog.String("version", app.BuildVersion()),
		slog.Int("mesh_release", cfg.Build.Version),
		slog.Any("roots", cfg.Build.Roots),
	)

	if cfg.Build.DescriptorsPath == "" || cfg.Build.ChemicalsPath == "" {
		logger.Error("descriptor and chemical dump paths are required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	version, ok := domain.VersionByYear(cfg.Build.Version)
	if !ok {
		logger.Error("unknown MeSH release", slog.Int("version", cfg.Build.Version))
		os.Exit(1)
	}

	pipelineCfg := builder.Config{
		DescriptorsPath: cfg.Build.DescriptorsPath,
		ChemicalsPath:   cfg.Build.ChemicalsPath,
		Settings:        cfg.Build.Settings(),
		Version:         version,
		Workers:         cfg.Build.Workers,
		Retries:         cfg.Build.Retries,
		RetryBackoff:    cfg.Build.RetryBackoff,
	}

	if cfg.PubChem.EnrichmentEnabled() {
		lookup, stats, err := pubchem.NewFileLookup(pubchem.Files{
			CIDMeSH:     cfg.PubChem.CIDMeSHPath,
			SIDMeSH:     cfg.PubChem.SIDMeSHPath,
			CIDSMILES:   cfg.PubChem.CIDSMILESPath,
			CIDInChIKey: cfg.PubChem.CIDInChIKeyPath,
		})
		if err != nil {
			logger.Error("load structure extracts", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("structure extracts loaded",
			slog.Int("names", stats.Names),
			slog.Int("malformed_lines", stats.Malformed),
		)
		pipelineCfg.Lookup = lookup
	}

	d, err := builder.NewPipeline(logger, pipelineCfg).Run(ctx)
	if err != nil {
		logger.Error("build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := d.Save(cfg.Build.OutputDir, cfg.Build.Tarball); err != nil {
		logger.Error("save snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("snapshot saved",
		slog.String("dir", cfg.Build.OutputDir),
		slog.String("build_id", d.Metadata().BuildID.String()),
	)

	if *dotFlag != "" {
		if err := os.WriteFile(*dotFlag, []byte(d.Graph().DOT()), 0o644); err != nil {
			logger.Error("write DOT export", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("hierarchy exported", slog.String("dot", *dotFlag))
	}
}
