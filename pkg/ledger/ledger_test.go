package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hazyhaar/covidgraph/pkg/loader"
)

func tempLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	runs, err := l.Runs(context.Background(), 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestRecordAndQuery(t *testing.T) {
	l := tempLedger(t)
	ctx := context.Background()

	start := time.Unix(1_700_000_000, 0)
	rep := &loader.Report{
		RunID:    "01HZZZTESTRUN0000000000001",
		Dir:      "/data/daily_reports",
		Started:  start,
		Finished: start.Add(3 * time.Second),
		Files: []loader.FileReport{
			{Path: "/data/daily_reports/01-22-2020.csv", Schema: "legacy", Rows: 38, Status: loader.StatusLoaded},
			{Path: "/data/daily_reports/broken.csv", Status: loader.StatusSkipped, Err: errors.New("unrecognized header")},
		},
	}
	if err := l.Record(ctx, rep); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := l.Runs(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d", len(runs))
	}
	r := runs[0]
	if r.RunID != rep.RunID || r.Files != 2 || r.Loaded != 1 || r.Rows != 38 || r.Finished-r.Started != 3 {
		t.Errorf("run = %+v", r)
	}

	files, err := l.Files(ctx, rep.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d", len(files))
	}
	if files[0].Name != "01-22-2020.csv" || files[0].Schema != "legacy" || files[0].Error != nil {
		t.Errorf("files[0] = %+v", files[0])
	}
	if files[1].Name != "broken.csv" || files[1].Status != "skipped" || files[1].Error == nil || *files[1].Error != "unrecognized header" {
		t.Errorf("files[1] = %+v", files[1])
	}

	// duplicate run ids are rejected as a whole
	if err := l.Record(ctx, rep); err == nil {
		t.Error("expected error on duplicate run")
	}
	files, _ = l.Files(ctx, rep.RunID)
	if len(files) != 2 {
		t.Errorf("files after failed record = %d", len(files))
	}
}

func TestRuns_NewestFirst(t *testing.T) {
	l := tempLedger(t)
	ctx := context.Background()

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		start := time.Unix(int64(1_700_000_000+i*60), 0)
		if err := l.Record(ctx, &loader.Report{RunID: id, Dir: "d", Started: start, Finished: start}); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := l.Runs(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].RunID != "run-c" || runs[1].RunID != "run-b" {
		t.Errorf("runs = %+v", runs)
	}
}
