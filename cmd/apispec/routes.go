package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/Gobd/apispec/openapi"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

type routesFlags struct {
	sources
	skipped bool
}

func setupRoutesFlags(stderr io.Writer) (*flag.FlagSet, *routesFlags) {
	fs := flag.NewFlagSet("routes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &routesFlags{}

	flags.register(fs)
	fs.BoolVar(&flags.skipped, "skipped", false, "list skipped routes only")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: apispec routes [flags]\n\n")
		fmt.Fprintf(fs.Output(), "List every manifest route, whether it is documented and why not.\n")
		fmt.Fprintf(fs.Output(), "Nothing is written.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	return fs, flags
}

func handleRoutes(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, flags := setupRoutesFlags(stderr)
	if ok, err := parse(fs, args); !ok {
		return err
	}

	cfg, log, err := flags.load(stderr)
	if err != nil {
		return err
	}
	_, report, err := generate(ctx, cfg, log)
	if err != nil {
		return err
	}

	table := routeTable(stdout)
	for _, res := range report {
		if flags.skipped && res.Status != openapi.Skipped {
			continue
		}
		_ = table.Append([]string{
			string(res.Method),
			res.Path,
			res.Handler,
			string(res.Status),
			res.Reason,
			res.OperationID,
		})
	}
	_ = table.Render()

	fmt.Fprintf(stdout, "\n%d documented, %d skipped\n",
		report.Count(openapi.Documented), report.Count(openapi.Skipped))
	return nil
}

func routeTable(w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader([]string{"Method", "Path", "Handler", "Status", "Reason", "Operation ID"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
