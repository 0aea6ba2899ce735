package gen

import (
	"context"
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	sdk "github.com/nabu-3/sdkgen"
	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/fragment"
	"github.com/nabu-3/sdkgen/compiler/render"
	"github.com/nabu-3/sdkgen/schema"
)

// Generator builds, renders and writes the classes of a set of entities.
type Generator struct {
	cfg       *Config
	describer schema.Describer
	asm       *Assembler
	renderers *render.Registry
	writer    *Writer
}

// NewGenerator creates a generator describing tables through d.
func NewGenerator(d schema.Describer, opts ...Option) (*Generator, error) {
	if d == nil {
		return nil, NewConfigError("Describer", nil, "a schema describer is required")
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := NewWriter(cfg.Target)
	w.SkipUnchanged = cfg.HasFeature(FeatureSkipUnchanged.Name)
	return &Generator{
		cfg:       cfg,
		describer: d,
		asm:       cfg.assembler(),
		renderers: cfg.renderers(),
		writer:    w,
	}, nil
}

// Config returns the configuration of the generator.
func (g *Generator) Config() *Config {
	return g.cfg
}

// Writer returns the file writer of the generator.
func (g *Generator) Writer() *Writer {
	return g.writer
}

// Generate generates the classes of every entity. Entities are processed
// concurrently; a failing class is recorded in the report and never stops
// the others. The returned error is non-nil only when ctx is done.
func (g *Generator) Generate(ctx context.Context, entities ...Entity) (*Report, error) {
	report := &Report{}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)

	for _, e := range entities {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			g.entity(egCtx, e, report)
			return nil
		})
	}
	// Wait cancels egCtx; only the caller's context reports cancellation.
	_ = eg.Wait()
	report.sort()
	return report, ctx.Err()
}

// entity runs one entity through describe, classify and emission.
func (g *Generator) entity(ctx context.Context, e Entity, report *Report) {
	log := g.cfg.logger().With("class", e.Class, "table", e.Table)
	units, err := g.units(ctx, e)
	if err != nil {
		var ge *GenerationError
		if errors.As(err, &ge) {
			log.Warn("class generation failed", "phase", ge.Phase, "err", ge.Cause)
			report.fail(ge)
		}
		if units == nil {
			return
		}
	}
	for _, u := range units {
		if ctx.Err() != nil {
			return
		}
		if err := g.emit(u, report); err != nil {
			var ge *GenerationError
			if errors.As(err, &ge) {
				log.Warn("class generation failed", "unit", u.Entity.Class, "phase", ge.Phase, "err", err)
				report.fail(ge)
			}
		}
	}
}

// units describes and classifies the table of e and expands it into its
// units. A failing translation classification is returned together with
// the units of the main table.
func (g *Generator) units(ctx context.Context, e Entity) ([]Unit, error) {
	if err := e.Validate(); err != nil {
		return nil, NewGenerationError(e.Class, PhaseAssemble, "", err)
	}
	desc, err := g.describer.Describe(ctx, e.Table, g.cfg.Schema)
	if err != nil {
		return nil, NewGenerationError(e.Class, PhaseDescribe, "", NewSchemaError(e.Table, "", "describe storage", err))
	}
	res, err := classify.ClassifyWithSiblings(ctx, desc, g.cfg.Registry, g.describer)
	if err != nil {
		return nil, NewGenerationError(e.Class, PhaseClassify, "", NewSchemaError(e.Table, "", "", err))
	}

	var langDesc *schema.Descriptor
	var langRes *classify.Result
	var langErr error
	if res.Translated {
		langDesc = res.TranslationDescriptor
		lang := e.Language()
		if langRes, err = classify.ClassifyWithSiblings(ctx, langDesc, g.cfg.Registry, g.describer); err != nil {
			langErr = NewGenerationError(lang.Class, PhaseClassify, "", NewSchemaError(lang.Table, "", "", err))
		}
	}
	return Units(e, desc, res, langDesc, langRes, g.cfg), langErr
}

// Source is the rendered content of one generated file.
type Source struct {
	Class string
	Kind  UnitKind
	// Path is where Generate would write the file.
	Path    string
	Content []byte
}

// Preview renders the PHP classes of e without writing them.
func (g *Generator) Preview(ctx context.Context, e Entity) ([]Source, error) {
	units, err := g.units(ctx, e)
	if err != nil {
		return nil, err
	}
	php, err := g.renderers.Get(render.NamePHP)
	if err != nil {
		return nil, NewGenerationError(e.Class, PhaseRender, "", err)
	}
	out := make([]Source, 0, len(units))
	for _, u := range units {
		doc, err := g.asm.Assemble(u)
		if err != nil {
			return nil, NewGenerationError(u.Entity.Class, PhaseAssemble, "", err)
		}
		data, err := php.Render(doc)
		if err != nil {
			return nil, NewGenerationError(u.Entity.Class, PhaseRender, "", err)
		}
		out = append(out, Source{
			Class:   u.Entity.Class,
			Kind:    u.Kind,
			Path:    g.writer.Path(u.Entity.Namespace, u.Entity.Class, php.Extension()),
			Content: data,
		})
	}
	return out, nil
}

// emit assembles, renders and writes one unit.
func (g *Generator) emit(u Unit, report *Report) error {
	class := u.Entity.Class
	doc, err := g.asm.Assemble(u)
	if err != nil {
		return NewGenerationError(class, PhaseAssemble, "", err)
	}
	php, err := g.renderers.Get(render.NamePHP)
	if err != nil {
		return NewGenerationError(class, PhaseRender, "", err)
	}
	path := g.writer.Path(u.Entity.Namespace, class, php.Extension())
	if err := g.write(php, doc, path, class, report); err != nil {
		return err
	}
	if u.Kind == UnitTable && g.cfg.HasFeature(FeatureSidecar.Name) {
		js, err := g.renderers.Get(render.NameJSON)
		if err != nil {
			return NewGenerationError(class, PhaseRender, "", err)
		}
		sidecar := g.writer.Path(u.Entity.Namespace, class, js.Extension())
		return g.write(js, &fragment.Data{Value: u.Desc}, sidecar, class, report)
	}
	return nil
}

func (g *Generator) write(r render.Renderer, n fragment.Node, path, class string, report *Report) error {
	data, err := r.Render(n)
	if err != nil {
		return &GenerationError{Class: class, Phase: PhaseRender, File: path, Cause: err}
	}
	changed, err := g.writer.Write(path, data)
	if err != nil {
		return &GenerationError{Class: class, Phase: PhaseWrite, File: path, Cause: err}
	}
	g.cfg.logger().Info("class generated", "class", class, "file", path, "changed", changed)
	report.done(path, changed)
	return nil
}

// Report collects the outcome of a Generate call.
type Report struct {
	mu sync.Mutex
	// Written lists the files created or rewritten.
	Written []string
	// Unchanged lists the files left untouched because their content
	// matched.
	Unchanged []string
	// Failed lists one error per class that could not be generated.
	Failed []*GenerationError
}

func (r *Report) done(path string, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if changed {
		r.Written = append(r.Written, path)
	} else {
		r.Unchanged = append(r.Unchanged, path)
	}
}

func (r *Report) fail(err *GenerationError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed = append(r.Failed, err)
}

func (r *Report) sort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	slices.Sort(r.Written)
	slices.Sort(r.Unchanged)
	slices.SortStableFunc(r.Failed, func(a, b *GenerationError) int {
		switch {
		case a.Class < b.Class:
			return -1
		case a.Class > b.Class:
			return 1
		}
		return 0
	})
}

// OK reports whether every class was generated.
func (r *Report) OK() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Failed) == 0
}

// FailedClasses returns the names of the classes that failed.
func (r *Report) FailedClasses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.Class)
	}
	return out
}

// Err joins the failures, or returns nil when every class was generated.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return sdk.NewAggregateError("generation", errs...)
}
