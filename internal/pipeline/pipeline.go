package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fondstree/internal/config"
	"fondstree/internal/crawler"
	"fondstree/internal/generator"
	"fondstree/internal/graph"
	"fondstree/internal/index"
	"fondstree/internal/record"
	"fondstree/internal/retrieval"
	"fondstree/internal/storage"

	"golang.org/x/sync/errgroup"
)

// Options selects what one run produces.
type Options struct {
	// Artifacts lists renderer names; empty renders all three.
	Artifacts []string
	Select    retrieval.Config
	// SaveReport writes the JSON run report to the configured path.
	SaveReport bool
}

// Build is the forest of one run together with its source lookup.
type Build struct {
	Forest *graph.Forest
	Index  *index.SourceIndex
}

type Pipeline struct {
	cfg      *config.Config
	resolver record.Resolver

	Report *Report
}

func New(cfg *config.Config) *Pipeline {
	source := config.SourceFiles
	if cfg.FromCatalog() {
		source = config.SourceCatalog
	}
	return &Pipeline{
		cfg:      cfg,
		resolver: record.NewResolver(cfg.Records.Prefix),
		Report:   NewReport(source),
	}
}

// Run builds the forest and renders the selected artifacts. The returned
// error is fatal when the report is nil; otherwise it joins the failures of
// individual artifacts, each an *generator.ArtifactError.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	b, err := p.Build(ctx, opts.Select)
	if err != nil {
		return nil, err
	}

	renderErr := p.Render(ctx, b, opts.Artifacts)

	if opts.SaveReport {
		if err := p.Report.Save(p.cfg.ReportPath()); err != nil {
			renderErr = errors.Join(renderErr, &generator.ArtifactError{Renderer: "report", Path: p.cfg.ReportPath(), Err: err})
		}
	}
	return p.Report, renderErr
}

// Build loads every record and constructs the forest. Failure to read the
// record source is the only fatal error.
func (p *Pipeline) Build(ctx context.Context, sel retrieval.Config) (*Build, error) {
	stage := p.Report.BeginStage("load")
	records, idx, err := p.loadStage(ctx)
	if err != nil {
		p.Report.EndStage(stage, nil, err)
		return nil, err
	}
	p.Report.EndStage(stage, map[string]int{"records": len(records), "source_files": idx.Len()}, nil)

	stage = p.Report.BeginStage("build")
	f := graph.BuildForest(records, p.resolver)
	p.reportSkips(f)
	f, err = retrieval.Select(f, sel)
	if err != nil {
		p.Report.EndStage(stage, nil, err)
		return nil, err
	}
	p.Report.EndStage(stage, map[string]int{
		"nodes":                f.Len(),
		"roots":                len(f.Roots),
		"placeholders":         f.PlaceholderCount(),
		"skipped":              len(f.Skipped),
		"without_canonical_id": f.WithoutCanonicalID,
	}, nil)

	p.Report.Summary.Records = f.Records
	p.Report.Summary.Nodes = f.Len()
	p.Report.Summary.Placeholders = f.PlaceholderCount()
	p.Report.Summary.Skipped = len(f.Skipped)

	slog.Info("forest built", "records", f.Records, "nodes", f.Len(), "skipped", len(f.Skipped))
	return &Build{Forest: f, Index: idx}, nil
}

func (p *Pipeline) loadStage(ctx context.Context) ([]record.Record, *index.SourceIndex, error) {
	if p.cfg.FromCatalog() {
		store, err := storage.NewSQLiteStore(p.cfg.Catalog.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open catalog %s: %w", p.cfg.Catalog.Path, err)
		}
		defer store.Close()

		records, err := store.ListRecords(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("list catalog records: %w", err)
		}
		idx, err := store.LoadSourceIndex(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load source index: %w", err)
		}
		return records, idx, nil
	}

	c := crawler.NewCrawler(p.cfg.Records.Dir)
	records, err := c.ListRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, path := range c.Failed {
		p.Report.AddSignal("unreadable_record", "load", "warning", "record file could not be decoded", path)
	}
	return records, index.FromRecords(records, p.resolver), nil
}

func (p *Pipeline) reportSkips(f *graph.Forest) {
	for _, s := range f.Skipped {
		slog.Warn("record skipped", "id", s.ID, "source", s.Source, "reason", graph.SkipReason(s))
		p.Report.AddSignal(graph.SkipReason(s), "build", "warning", s.Error(), s.ID)
	}
	if f.WithoutCanonicalID > 0 {
		p.Report.AddSignal("without_canonical_id", "build", "info",
			fmt.Sprintf("%d records carry no canonical identifier", f.WithoutCanonicalID), "")
	}
}

type renderJob struct {
	renderer string
	path     string
	run      func() error
}

func (p *Pipeline) jobs(b *Build, artifacts []string) ([]renderJob, error) {
	if len(artifacts) == 0 {
		artifacts = []string{generator.RendererText, generator.RendererMirror, generator.RendererHTML}
	}

	var jobs []renderJob
	for _, name := range artifacts {
		switch name {
		case generator.RendererText:
			path := p.cfg.TextPath()
			jobs = append(jobs, renderJob{name, path, func() error {
				return generator.SaveText(path, b.Forest)
			}})
		case generator.RendererMirror:
			path := p.cfg.MirrorPath()
			jobs = append(jobs, renderJob{name, path, func() error {
				return generator.MirrorWriter{Base: path}.Render(b.Forest)
			}})
		case generator.RendererHTML:
			path := p.cfg.HTMLPath()
			w := generator.HTMLWriter{Lookup: b.Index, Title: p.cfg.Render.HTMLTitle}
			jobs = append(jobs, renderJob{name, path, func() error {
				return w.Render(b.Forest, path)
			}})
		default:
			return nil, fmt.Errorf("unknown renderer %q", name)
		}
	}
	return jobs, nil
}

// Render runs the renderers concurrently, bounded by render.concurrency.
// A failing renderer does not stop the others.
func (p *Pipeline) Render(ctx context.Context, b *Build, artifacts []string) error {
	jobs, err := p.jobs(b, artifacts)
	if err != nil {
		return err
	}

	stage := p.Report.BeginStage("render")

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(p.cfg.Render.Concurrency)
	for _, job := range jobs {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = job.run()
			}
			p.Report.SetArtifact(job.renderer, job.path, unjoin(err))
			if err != nil {
				slog.Warn("artifact failed", "renderer", job.renderer, "path", job.path, "error", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			slog.Debug("artifact written", "renderer", job.renderer, "path", job.path)
			return nil
		})
	}
	_ = g.Wait()

	renderErr := errors.Join(errs...)
	p.Report.EndStage(stage, map[string]int{"artifacts": len(jobs), "failed": len(errs)}, renderErr)
	return renderErr
}

// Sync snapshots the records directory into the catalog and returns the
// number of stored records.
func (p *Pipeline) Sync(ctx context.Context) (int, error) {
	c := crawler.NewCrawler(p.cfg.Records.Dir)
	records, err := c.ListRecords(ctx)
	if err != nil {
		return 0, err
	}

	store, err := storage.NewSQLiteStore(p.cfg.Catalog.Path)
	if err != nil {
		return 0, fmt.Errorf("open catalog %s: %w", p.cfg.Catalog.Path, err)
	}
	defer store.Close()

	if err := store.SaveRecords(ctx, records, p.resolver); err != nil {
		return 0, fmt.Errorf("save records: %w", err)
	}
	return store.CountRecords(ctx)
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
