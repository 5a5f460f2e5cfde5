package metrics

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/sourcegraph/conc/pool"
)

// Thresholds flag classes whose hierarchy shape is worth reviewing.
// Zero disables a threshold.
type Thresholds struct {
	MaxDIT int
	MaxNOC int
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxDIT: 5, MaxNOC: 6}
}

// Analyzer computes every metric for every class of a registry.
type Analyzer struct {
	maxWorkers int
	thresholds Thresholds
	onProgress func()
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxWorkers bounds the number of classes measured concurrently.
// Values <= 0 use runtime.NumCPU.
func WithMaxWorkers(n int) Option {
	return func(a *Analyzer) {
		a.maxWorkers = n
	}
}

// WithThresholds sets the DIT/NOC thresholds used for flags.
func WithThresholds(t Thresholds) Option {
	return func(a *Analyzer) {
		a.thresholds = t
	}
}

// WithProgress registers a callback invoked once per measured class.
func WithProgress(fn func()) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates a new hierarchy analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.maxWorkers <= 0 {
		a.maxWorkers = runtime.NumCPU()
	}
	return a
}

// Analyze measures every class of reg. Classes whose parent chain is cyclic
// are reported in Analysis.Errors and left out of Classes; the corpus POF is
// then undefined because it needs every chain.
func (a *Analyzer) Analyze(ctx context.Context, reg *hierarchy.Registry) (*Analysis, error) {
	classes := reg.Classes()

	type result struct {
		row ClassMetrics
		err error
	}
	results := make([]result, len(classes))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(a.maxWorkers)
	for i, c := range classes {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := a.measure(reg, c)
			results[i] = result{row: row, err: err}
			if a.onProgress != nil {
				a.onProgress()
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	analysis := &Analysis{
		GeneratedAt: time.Now().UTC(),
		Fingerprint: strconv.FormatUint(reg.Fingerprint(), 16),
		Classes:     make([]ClassMetrics, 0, len(classes)),
	}
	for i, r := range results {
		if r.err != nil {
			analysis.Errors = append(analysis.Errors, ClassError{
				ClassName: classes[i].Name(),
				Error:     r.err.Error(),
			})
			continue
		}
		analysis.Classes = append(analysis.Classes, r.row)
	}

	if len(analysis.Errors) == 0 {
		pof, err := POFForRegistry(reg)
		if err != nil {
			return nil, err
		}
		analysis.Summary.POF = pof.Ptr()
	}
	analysis.CalculateSummary()
	return analysis, nil
}

// measure computes one row. It only reads the registry.
func (a *Analyzer) measure(reg *hierarchy.Registry, c *hierarchy.Class) (ClassMetrics, error) {
	dit, err := hierarchy.Depth(c)
	if err != nil {
		return ClassMetrics{}, err
	}
	m, err := Classify(c)
	if err != nil {
		return ClassMetrics{}, err
	}
	mood := Factors(m)
	pof, err := POFForClass(reg, c)
	if err != nil {
		return ClassMetrics{}, err
	}

	row := ClassMetrics{
		ClassName:           c.Name(),
		Parent:              c.ParentName(),
		DIT:                 dit,
		NOC:                 len(reg.Children(c.Name())),
		NOD:                 len(reg.Descendants(c.Name())),
		MIF:                 mood.MIF.Ptr(),
		AIF:                 mood.AIF.Ptr(),
		MHF:                 mood.MHF,
		AHF:                 mood.AHF,
		POF:                 pof,
		OwnMethods:          card(m.OwnMethods),
		InheritedMethods:    card(m.InheritedMethods),
		OwnAttributes:       card(m.OwnAttributes),
		InheritedAttributes: card(m.InheritedAttributes),
	}
	if a.thresholds.MaxDIT > 0 && row.DIT > a.thresholds.MaxDIT {
		row.Flags = append(row.Flags, FlagDeepInheritance)
	}
	if a.thresholds.MaxNOC > 0 && row.NOC > a.thresholds.MaxNOC {
		row.Flags = append(row.Flags, FlagWideHierarchy)
	}
	return row, nil
}
