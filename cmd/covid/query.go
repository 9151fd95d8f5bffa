// CLAUDE:SUMMARY CLI subcommands list, export and plot: load the reports once, resolve a region, emit its infected series.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/hazyhaar/covidgraph/pkg/plot"
	"github.com/hazyhaar/covidgraph/pkg/region"
	"github.com/mattn/go-isatty"
)

// loadCatalog builds a one-shot catalog from the configured data directory.
func (a *app) loadCatalog(ctx context.Context) (*region.Catalog, error) {
	cat, rep, err := a.loader.LoadDir(ctx, a.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if skipped := rep.Skipped(); len(skipped) > 0 {
		a.logger.Warn("some report files were skipped", "count", len(skipped))
	}
	return cat, nil
}

func cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	kindFlag := fs.String("kind", "", "state or country (default both)")
	fs.Parse(args)

	kinds := []region.Kind{region.Country, region.State}
	if *kindFlag != "" {
		k, err := region.ParseKind(*kindFlag)
		if err != nil {
			return err
		}
		kinds = []region.Kind{k}
	}

	a, err := newApp(*cfgPath, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	for _, k := range kinds {
		for _, r := range cat.Sorted(k) {
			fmt.Fprintf(w, "%-8s %s\n", k, r)
		}
	}
	return w.Flush()
}

// seriesFlags are shared by export and plot.
type seriesFlags struct {
	cfgPath string
	choice  int
}

func (f *seriesFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.cfgPath, "config", "config.yaml", "path to config file")
	fs.IntVar(&f.choice, "choice", 0, "1-based index among ambiguous matches")
}

// resolve loads the catalog and picks the region named by query.
func (f *seriesFlags) resolve(ctx context.Context, a *app, query string) (*region.Region, error) {
	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	interactive := f.choice == 0 && isatty.IsTerminal(os.Stdin.Fd())
	return selectRegion(cat, query, f.choice, os.Stdin, os.Stderr, interactive)
}

// selectRegion resolves query against cat. When several regions match and
// choice is 0 it lists them on out; in interactive mode it then reads the
// 1-based choice from in.
func selectRegion(cat *region.Catalog, query string, choice int, in io.Reader, out io.Writer, interactive bool) (*region.Region, error) {
	r, err := cat.Select(query, choice)
	var ambiguous *region.AmbiguousError
	if !errors.As(err, &ambiguous) {
		return r, err
	}

	fmt.Fprintln(out, "Several regions match, select one:")
	for i, c := range ambiguous.Candidates {
		fmt.Fprintf(out, "  %d. %s\n", i+1, c)
	}
	if !interactive {
		fmt.Fprintln(out, "(rerun with -choice N)")
		return nil, err
	}

	fmt.Fprint(out, ">>> ")
	line, rerr := bufio.NewReader(in).ReadString('\n')
	if rerr != nil && rerr != io.EOF {
		return nil, fmt.Errorf("read choice: %w", rerr)
	}
	n, cerr := strconv.Atoi(strings.TrimSpace(line))
	if cerr != nil {
		return nil, fmt.Errorf("%w: %q", region.ErrInvalidChoice, strings.TrimSpace(line))
	}
	return cat.Select(query, n)
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var sf seriesFlags
	sf.register(fs)
	output := fs.String("o", "", "write to file instead of stdout")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: covid export [flags] <region>")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	a, err := newApp(sf.cfgPath, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := sf.resolve(ctx, a, fs.Arg(0))
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	n, err := plot.WriteTSV(w, r.Series())
	if err != nil {
		return fmt.Errorf("export %s: %w", r, err)
	}
	if n == 0 {
		a.logger.Warn("region has no data", "region", r.String())
	}
	return nil
}

func cmdPlot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	var sf seriesFlags
	sf.register(fs)
	script := fs.String("script", "", "gnuplot script (overrides gnuplot.script)")
	terminal := fs.String("terminal", "", "GNUTERM (overrides gnuplot.terminal)")
	output := fs.String("o", "", "image file (overrides gnuplot.output)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: covid plot [flags] <region>")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	a, err := newApp(sf.cfgPath, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := sf.resolve(ctx, a, fs.Arg(0))
	if err != nil {
		return err
	}

	gp := &plot.Gnuplot{
		Script:   a.cfg.Gnuplot.Script,
		Terminal: a.cfg.Gnuplot.Terminal,
		Output:   a.cfg.Gnuplot.Output,
	}
	if *script != "" {
		gp.Script = *script
	}
	if *terminal != "" {
		gp.Terminal = *terminal
	}
	if *output != "" {
		gp.Output = *output
	}

	n, err := gp.Plot(ctx, r.Series())
	if err != nil {
		return err
	}
	if n == 0 {
		a.logger.Warn("region has no data", "region", r.String())
	}
	return nil
}
