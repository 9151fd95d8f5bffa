package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/covidgraph/pkg/region"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != defaultConfig() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(`data_dir: /srv/reports
parse_policy: skip_file
watch: true
watch_debounce: 500ms
gnuplot:
  terminal: pngcairo
  output: covid.png
`), 0o644)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/srv/reports" || cfg.ParsePolicy != "skip_file" || !cfg.Watch {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("watch_debounce = %v", cfg.WatchDebounce)
	}
	if cfg.Gnuplot.Script != "covid.gp" || cfg.Gnuplot.Output != "covid.png" {
		t.Errorf("gnuplot = %+v", cfg.Gnuplot)
	}
	if cfg.Addr != ":8421" {
		t.Errorf("addr default lost: %q", cfg.Addr)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("data_dir: [unterminated\n"), 0o644)
	if _, err := loadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestNewApp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("ledger_db: "+filepath.Join(dir, "ledger.db")+"\nlog_level: warn\n"), 0o644)

	a, err := newApp(path, nil)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()
	if a.ledger == nil || a.loader == nil {
		t.Errorf("app = %+v", a)
	}

	os.WriteFile(path, []byte("parse_policy: abort\n"), 0o644)
	if _, err := newApp(path, nil); err == nil {
		t.Error("expected error for unknown parse policy")
	}
}

func washington(t *testing.T) *region.Catalog {
	t.Helper()
	c := region.NewCatalog()
	d := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	c.Add(region.State, "Washington", "US", "Snohomish, WA", region.NewStats(d, 5, 1, 1))
	c.Add(region.State, "District of Columbia", "US", "Washington, D.C.", region.NewStats(d, 7, 0, 0))
	return c
}

func TestSelectRegion(t *testing.T) {
	cat := washington(t)

	t.Run("interactive", func(t *testing.T) {
		var out bytes.Buffer
		r, err := selectRegion(cat, "washington", 0, strings.NewReader("2\n"), &out, true)
		if err != nil {
			t.Fatal(err)
		}
		if r.Name() != "District of Columbia" {
			t.Errorf("got %s", r)
		}
		if !strings.Contains(out.String(), "1. Washington, US") || !strings.Contains(out.String(), "2. District of Columbia, US") {
			t.Errorf("prompt = %q", out.String())
		}
	})

	t.Run("non-interactive", func(t *testing.T) {
		var out bytes.Buffer
		_, err := selectRegion(cat, "washington", 0, strings.NewReader(""), &out, false)
		var amb *region.AmbiguousError
		if !errors.As(err, &amb) {
			t.Fatalf("err = %v", err)
		}
		if exitCode(err) != 3 {
			t.Errorf("exit code = %d", exitCode(err))
		}
	})

	t.Run("bad input", func(t *testing.T) {
		var out bytes.Buffer
		_, err := selectRegion(cat, "washington", 0, strings.NewReader("seven\n"), &out, true)
		if !errors.Is(err, region.ErrInvalidChoice) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("choice flag", func(t *testing.T) {
		r, err := selectRegion(cat, "washington", 1, nil, &bytes.Buffer{}, false)
		if err != nil || r.Name() != "Washington" {
			t.Errorf("got %v, %v", r, err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := selectRegion(cat, "narnia", 0, nil, &bytes.Buffer{}, false)
		if exitCode(err) != 2 {
			t.Errorf("exit code = %d for %v", exitCode(err), err)
		}
	})
}
