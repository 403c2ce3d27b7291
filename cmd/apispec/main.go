// Command apispec generates, inspects and serves the OpenAPI document of
// an application described by a harvested manifest.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	case "generate":
		err = handleGenerate(ctx, rest, stdout, stderr)
	case "routes":
		err = handleRoutes(ctx, rest, stdout, stderr)
	case "serve":
		err = handleServe(ctx, rest, stdout, stderr)
	case "manifest-schema":
		err = handleManifestSchema(rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		printUsage(stderr)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: apispec <command> [flags]

Commands:
  generate          build the document and write it to output.path
  routes            list every route with its documentation status
  serve             serve the document, the viewer and /metrics
  manifest-schema   print the JSON Schema of the manifest format
  help              show this help

Run 'apispec <command> -h' for the flags of a command.
`)
}
