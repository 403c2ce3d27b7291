package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/Gobd/apispec/openapi"
)

type generateFlags struct {
	sources
	output   string
	validate bool
}

func setupGenerateFlags(stderr io.Writer) (*flag.FlagSet, *generateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &generateFlags{}

	flags.register(fs)
	fs.StringVar(&flags.output, "output", "", "output file (overrides output.path; .yaml/.yml writes YAML)")
	fs.StringVar(&flags.output, "o", "", "output file (shorthand)")
	fs.BoolVar(&flags.validate, "validate", false, "validate the document before writing it")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: apispec generate [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Build the OpenAPI document from the manifest and write it in one step.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	return fs, flags
}

func handleGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, flags := setupGenerateFlags(stderr)
	if ok, err := parse(fs, args); !ok {
		return err
	}

	cfg, log, err := flags.load(stderr)
	if err != nil {
		return err
	}
	if flags.output != "" {
		cfg.Output.Path = flags.output
	}

	doc, report, err := generate(ctx, cfg, log)
	if err != nil {
		return err
	}
	if flags.validate {
		if err := openapi.Validate(ctx, doc); err != nil {
			return err
		}
	}
	if err := openapi.Write(doc, cfg.Output.Path); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Documented %d routes (%d skipped), written to %s\n",
		report.Count(openapi.Documented), report.Count(openapi.Skipped), cfg.Output.Path)
	return nil
}
