package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/Gobd/apispec/manifest"
)

func handleManifestSchema(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("manifest-schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: apispec manifest-schema\n\n")
		fmt.Fprintf(fs.Output(), "Print the JSON Schema manifests are checked against.\n")
	}
	if ok, err := parse(fs, args); !ok {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest.Schema()); err != nil {
		return fmt.Errorf("encode manifest schema: %w", err)
	}
	return nil
}
