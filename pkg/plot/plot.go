// CLAUDE:SUMMARY Writes a series as date<TAB>count lines and hands the file to gnuplot.
package plot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"os/exec"
	"time"

	"github.com/hazyhaar/covidgraph/pkg/region"
)

// WriteTSV writes one "MM/DD/YYYY\tcount" line per point and returns the number written.
func WriteTSV(w io.Writer, series iter.Seq2[time.Time, int]) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	for date, count := range series {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", region.FormatDate(date), count); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

// Gnuplot runs a gnuplot script with variables passed through -e.
type Gnuplot struct {
	Script   string // path to the .gp script
	Terminal string // GNUTERM, empty keeps gnuplot's default
	Output   string // "set output", empty for an interactive window
	Binary   string // defaults to "gnuplot"
}

// Command builds the gnuplot invocation for a data file.
func (g *Gnuplot) Command(ctx context.Context, datfile string) *exec.Cmd {
	bin := g.Binary
	if bin == "" {
		bin = "gnuplot"
	}
	args := []string{"-p", "-e", fmt.Sprintf("datfile='%s'", datfile)}
	if g.Output != "" {
		args = append(args, "-e", fmt.Sprintf("set output '%s'", g.Output))
	}
	args = append(args, g.Script)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = os.Environ()
	if g.Terminal != "" {
		cmd.Env = append(cmd.Env, "GNUTERM="+g.Terminal)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Plot writes series to a temporary file, runs gnuplot on it and removes the file.
// It returns the number of points plotted.
func (g *Gnuplot) Plot(ctx context.Context, series iter.Seq2[time.Time, int]) (int, error) {
	f, err := os.CreateTemp("", "covid-*.dat")
	if err != nil {
		return 0, fmt.Errorf("create data file: %w", err)
	}
	defer os.Remove(f.Name())

	n, err := WriteTSV(f, series)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write data file: %w", err)
	}

	if err := g.Command(ctx, f.Name()).Run(); err != nil {
		return n, fmt.Errorf("gnuplot: %w", err)
	}
	return n, nil
}
