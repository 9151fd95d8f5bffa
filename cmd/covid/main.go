package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hazyhaar/covidgraph/pkg/region"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = cmdList(os.Args[2:])
	case "export":
		err = cmdExport(os.Args[2:])
	case "plot":
		err = cmdPlot(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	case "mcp":
		err = cmdMCP(os.Args[2:])
	case "ledger":
		err = cmdLedger(os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "covid: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: covid <command> [flags]

Commands:
  list     List known regions
  export   Print a region's infected series as date<TAB>count
  plot     Plot a region's infected series with gnuplot
  serve    Start the HTTP + MCP server
  mcp      Serve MCP over stdio
  ledger   Show recorded load runs
  version  Print the version
`)
}

// exitCode separates "no such region" and unresolved ambiguity from real failures.
func exitCode(err error) int {
	var (
		notFound  *region.NotFoundError
		ambiguous *region.AmbiguousError
	)
	switch {
	case errors.As(err, &notFound):
		return 2
	case errors.As(err, &ambiguous):
		return 3
	default:
		return 1
	}
}
