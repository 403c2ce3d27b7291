// Command example generates the document of a small blog application and
// serves it with the viewer.
//
// Run from the module root:
//
//	go run ./_example
//
// Then open http://localhost:8080/docs in your browser. POST to
// /docs/openapi.json regenerates the document from _example/manifest.yaml.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobd/apispec/config"
	"github.com/Gobd/apispec/logger"
	"github.com/Gobd/apispec/manifest"
	"github.com/Gobd/apispec/openapi"
	"github.com/Gobd/apispec/server"
	"github.com/getkin/kin-openapi/openapi3"
)

func main() {
	cfg, err := config.Load("_example/apispec.yaml")
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, os.Stderr)

	gen := func(ctx context.Context) (*openapi3.T, openapi.Report, error) {
		m, err := manifest.Load(cfg.Manifest.Path)
		if err != nil {
			return nil, nil, err
		}
		return openapi.New(m, cfg, openapi.WithLogger(log)).Generate(ctx)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, report, err := gen(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("generate")
	}
	if err := openapi.Validate(ctx, doc); err != nil {
		log.Fatal().Err(err).Msg("validate")
	}
	if err := openapi.Write(doc, cfg.Output.Path); err != nil {
		log.Fatal().Err(err).Msg("write")
	}
	for _, res := range report {
		if res.Status == openapi.Skipped {
			log.Info().Str("route", string(res.Method)+" "+res.Path).Str("reason", res.Reason).Msg("skipped")
		}
	}

	srv := server.New(cfg, server.WithLogger(log), server.WithGenerator(gen))
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msg("viewer: http://localhost" + cfg.Server.Address + cfg.Server.ViewerRoute)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
