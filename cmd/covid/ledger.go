package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

func cmdLedger(args []string) error {
	fs := flag.NewFlagSet("ledger", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	limit := fs.Int("n", 20, "number of runs to show")
	runID := fs.String("run", "", "show the files of one run")
	fs.Parse(args)

	a, err := newApp(*cfgPath, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.ledger == nil {
		return errors.New("ledger_db is not set in the config")
	}

	ctx := context.Background()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	if *runID != "" {
		files, err := a.ledger.Files(ctx, *runID)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "FILE\tSCHEMA\tROWS\tREJECTED\tSTATUS\tERROR")
		for _, f := range files {
			msg := ""
			if f.Error != nil {
				msg = *f.Error
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", f.Name, f.Schema, f.Rows, f.Rejected, f.Status, msg)
		}
		return tw.Flush()
	}

	runs, err := a.ledger.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "RUN\tSTARTED\tDURATION\tFILES\tLOADED\tROWS\tDIR")
	for _, r := range runs {
		started := time.Unix(r.Started, 0)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.RunID, started.Format(time.DateTime), time.Duration(r.Finished-r.Started)*time.Second,
			r.Files, r.Loaded, r.Rows, r.Dir)
	}
	return tw.Flush()
}
