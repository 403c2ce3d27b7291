package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Gobd/apispec/openapi"
	"github.com/Gobd/apispec/server"
	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	sources
	address    string
	regenerate bool
	initial    bool
}

func setupServeFlags(stderr io.Writer) (*flag.FlagSet, *serveFlags) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &serveFlags{}

	flags.register(fs)
	fs.StringVar(&flags.address, "address", "", "listen address (overrides server.address)")
	fs.BoolVar(&flags.regenerate, "regenerate", true, "accept POST on the spec route to regenerate the document")
	fs.BoolVar(&flags.initial, "generate", false, "generate the document once before serving")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: apispec serve [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Serve the generated document, the viewer page and /metrics.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	return fs, flags
}

func handleServe(ctx context.Context, args []string, _, stderr io.Writer) error {
	fs, flags := setupServeFlags(stderr)
	if ok, err := parse(fs, args); !ok {
		return err
	}

	cfg, log, err := flags.load(stderr)
	if err != nil {
		return err
	}
	if flags.address != "" {
		cfg.Server.Address = flags.address
	}

	gen := func(ctx context.Context) (*openapi3.T, openapi.Report, error) {
		return generate(ctx, cfg, log)
	}
	opts := []server.Option{server.WithLogger(log)}
	if flags.regenerate {
		opts = append(opts, server.WithGenerator(gen))
	}
	srv := server.New(cfg, opts...)

	if flags.initial {
		doc, _, err := gen(ctx)
		if err != nil {
			return err
		}
		if err := openapi.Validate(ctx, doc); err != nil {
			return err
		}
		if err := openapi.Write(doc, cfg.Output.Path); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
