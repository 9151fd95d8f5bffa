package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hazyhaar/covidgraph/pkg/region"
)

// Registry publishes the current Catalog to concurrent readers.
// A reload builds a complete new Catalog and swaps the pointer; a published
// Catalog is never modified.
type Registry struct {
	loader *Loader
	dir    string
	logger *slog.Logger

	reloadMu sync.Mutex
	catalog  atomic.Pointer[region.Catalog]
	report   atomic.Pointer[Report]
}

// NewRegistry creates a registry for the reports in dir. It is empty until Load is called.
func NewRegistry(l *Loader, dir string) *Registry {
	r := &Registry{loader: l, dir: dir, logger: l.logger}
	r.catalog.Store(region.NewCatalog())
	return r
}

// Load builds the catalog from disk and publishes it.
func (r *Registry) Load(ctx context.Context) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	cat, rep, err := r.loader.LoadDir(ctx, r.dir)
	if err != nil {
		return fmt.Errorf("load %s: %w", r.dir, err)
	}
	r.catalog.Store(cat)
	r.report.Store(rep)
	return nil
}

// Reload is Load; on failure the previously published catalog stays in place.
func (r *Registry) Reload(ctx context.Context) error {
	return r.Load(ctx)
}

// Catalog returns the published catalog.
func (r *Registry) Catalog() *region.Catalog {
	return r.catalog.Load()
}

// LastReport returns the report of the last successful load, or nil.
func (r *Registry) LastReport() *Report {
	return r.report.Load()
}

// Dir returns the watched report directory.
func (r *Registry) Dir() string { return r.dir }
