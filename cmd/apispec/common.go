package main

import (
	"context"
	"errors"
	"flag"
	"io"

	"github.com/Gobd/apispec/config"
	"github.com/Gobd/apispec/logger"
	"github.com/Gobd/apispec/manifest"
	"github.com/Gobd/apispec/openapi"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
)

// sources holds the flags shared by every command that reads a manifest.
type sources struct {
	config   string
	manifest string
}

func (s *sources) register(fs *flag.FlagSet) {
	fs.StringVar(&s.config, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
	fs.StringVar(&s.manifest, "manifest", "", "manifest file (overrides manifest.path)")
}

// load reads the configuration and builds the logger. Logs go to stderr.
func (s *sources) load(stderr io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(s.config)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if s.manifest != "" {
		cfg.Manifest.Path = s.manifest
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Pretty, stderr), nil
}

// generate reads the manifest named by cfg and runs one generation.
func generate(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*openapi3.T, openapi.Report, error) {
	m, err := manifest.Load(cfg.Manifest.Path)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().
		Str("manifest", cfg.Manifest.Path).
		Int("routes", len(m.Routes)).
		Msg("manifest loaded")
	return openapi.New(m, cfg, openapi.WithLogger(log)).Generate(ctx)
}

// parse parses args and reports whether the command should run. -h is
// not an error.
func parse(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
