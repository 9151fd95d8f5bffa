package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hazyhaar/covidgraph/pkg/classify"
	"github.com/hazyhaar/covidgraph/pkg/ledger"
	"github.com/hazyhaar/covidgraph/pkg/loader"
	"gopkg.in/yaml.v3"
)

type gnuplotConfig struct {
	Script   string `yaml:"script"`
	Terminal string `yaml:"terminal"`
	Output   string `yaml:"output"`
}

type config struct {
	DataDir       string        `yaml:"data_dir"`
	Pattern       string        `yaml:"pattern"`
	RulesFile     string        `yaml:"rules_file"`
	ParsePolicy   string        `yaml:"parse_policy"`
	LedgerDB      string        `yaml:"ledger_db"`
	LogLevel      string        `yaml:"log_level"`
	Addr          string        `yaml:"addr"`
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	Gnuplot       gnuplotConfig `yaml:"gnuplot"`
}

func defaultConfig() config {
	return config{
		DataDir:       "./COVID-19/csse_covid_19_data/csse_covid_19_daily_reports",
		Pattern:       loader.DefaultPattern,
		ParsePolicy:   string(loader.SkipRow),
		LogLevel:      "info",
		Addr:          ":8421",
		WatchDebounce: loader.DefaultDebounce,
		Gnuplot:       gnuplotConfig{Script: "covid.gp"},
	}
}

// loadConfig reads path over the defaults. A missing file means defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// app bundles what every subcommand needs.
type app struct {
	cfg    config
	logger *slog.Logger
	loader *loader.Loader
	ledger *ledger.Ledger // nil unless ledger_db is set
}

// newApp builds the logger, classifiers and loader from the config file.
// metrics may be nil.
func newApp(cfgPath string, metrics *loader.Metrics) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	rules, err := classify.Default()
	if cfg.RulesFile != "" {
		rules, err = classify.LoadConfig(cfg.RulesFile)
	}
	if err != nil {
		return nil, err
	}
	set, err := classify.Build(rules)
	if err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}

	policy, err := loader.ParseParsePolicy(cfg.ParsePolicy)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	opts := loader.Options{
		Pattern:     cfg.Pattern,
		ParsePolicy: policy,
		Logger:      logger,
		Metrics:     metrics,
	}
	if cfg.LedgerDB != "" {
		a.ledger, err = ledger.Open(cfg.LedgerDB)
		if err != nil {
			return nil, err
		}
		opts.Recorder = a.ledger
	}
	a.loader = loader.New(set, opts)
	return a, nil
}

func (a *app) Close() error {
	if a.ledger != nil {
		return a.ledger.Close()
	}
	return nil
}
