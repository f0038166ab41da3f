package homoglyph

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// FontTable is one persisted per-font co-occurrence table ready to be
// aggregated. Name is the font filename; its stem keys the metadata
// record. Stem, when set, is that key already stripped of directory and
// extensions and is used verbatim.
type FontTable struct {
	Name   string
	Stem   string
	Matrix *Matrix
}

// FontName returns the parsed name that keys t's metadata record.
func (t FontTable) FontName() FontName {
	if t.Stem != "" {
		return ParseFontStem(t.Stem)
	}
	return ParseFontName(t.Name)
}

// AggregateResult is the finalized corpus aggregate.
type AggregateResult struct {
	// Matrix sums every font's table over the union of their labels.
	Matrix *Matrix
	// Records holds one metadata row per font, sorted by file.
	Records []FontRecord
}

// CanonicalLabels returns the ascending union of the tables' labels.
func CanonicalLabels(tables ...*Matrix) []rune {
	sets := make([][]rune, len(tables))
	for i, m := range tables {
		sets[i] = m.Labels()
	}
	return UnionLabels(sets...)
}

// UnionLabels returns the ascending union of label lists.
func UnionLabels(sets ...[]rune) []rune {
	union := roaring.New()
	for _, labels := range sets {
		union.Or(LabelSet(labels))
	}
	return runesFromSet(union)
}

// LabelSet converts a label list into a roaring bitmap.
func LabelSet(labels []rune) *roaring.Bitmap {
	bm := roaring.New()
	for _, r := range labels {
		if r >= 0 {
			bm.Add(uint32(r))
		}
	}
	return bm
}

// Aggregator accumulates per-font tables over a fixed canonical label set.
//
// The label set is decided before the first Add. Codepoints absent from a
// font's table contribute zero to every pair involving them; absence and
// zero are not distinguished. Independent aggregators over the same labels
// can be combined with Merge.
type Aggregator struct {
	sum       *Matrix
	records   map[string]FontRecord
	finalized bool
	logger    *Logger
}

// NewAggregator returns an empty aggregate over the canonical labels.
func NewAggregator(labels []rune, opts ...AggregatorOption) (*Aggregator, error) {
	cfg := defaultAggregatorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	sum, err := NewMatrix(labels)
	if err != nil {
		return nil, NewAlignmentError("canonical", "invalid label set", err)
	}
	return &Aggregator{
		sum:     sum,
		records: make(map[string]FontRecord),
		logger:  cfg.logger,
	}, nil
}

// Fonts returns the number of fonts added so far.
func (a *Aggregator) Fonts() int { return len(a.records) }

// Add reindexes one font's table onto the canonical labels and adds it to
// the running sum. The table is checked in full before any cell is added,
// so a rejected table leaves the sum untouched.
func (a *Aggregator) Add(t FontTable) error {
	if a.finalized {
		return ErrFinalized
	}
	rec := newFontRecord(t.FontName(), t.Matrix)
	if _, dup := a.records[rec.File]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateFont, rec.File)
	}

	m := t.Matrix
	remap := make([]int, m.Len())
	for i, r := range m.labels {
		p, ok := a.sum.pos[r]
		if !ok {
			return NewAlignmentError(rec.File, fmt.Sprintf("label %d missing from canonical set", r), nil)
		}
		remap[i] = p
	}
	if !m.IsSymmetric() {
		return NewAlignmentError(rec.File, "table is not symmetric", nil)
	}

	for i, row := range m.rows {
		for j, v := range row {
			a.sum.addPos(remap[i], remap[j], v)
		}
	}
	a.records[rec.File] = rec
	a.logger.Debug("font aggregated", "font", rec.File, "retained", rec.Retained, "homoglyphs", rec.Homoglyphs)
	return nil
}

// Merge folds another aggregator over the same labels into a. The other
// aggregator must not be used afterwards.
func (a *Aggregator) Merge(o *Aggregator) error {
	if a.finalized || o.finalized {
		return ErrFinalized
	}
	if !slices.Equal(a.sum.labels, o.sum.labels) {
		return NewAlignmentError("partial sum", "label sets differ", nil)
	}
	for file := range o.records {
		if _, dup := a.records[file]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateFont, file)
		}
	}
	for i, row := range o.sum.rows {
		for j, v := range row {
			a.sum.addPos(i, j, v)
		}
	}
	for file, rec := range o.records {
		a.records[file] = rec
	}
	return nil
}

// Finalize returns the aggregate. Rows and columns share the sorted
// canonical labels. The aggregator cannot be used afterwards.
func (a *Aggregator) Finalize() (*AggregateResult, error) {
	if a.finalized {
		return nil, ErrFinalized
	}
	a.finalized = true
	if !a.sum.IsSymmetric() {
		return nil, NewAlignmentError("aggregate", "sum is not symmetric", nil)
	}
	records := make([]FontRecord, 0, len(a.records))
	for _, rec := range a.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].File < records[j].File })
	return &AggregateResult{Matrix: a.sum, Records: records}, nil
}

// Aggregate sums in-memory font tables. The canonical labels are computed
// once up front; the tables are then split into disjoint runs, each summed
// into its own partial aggregate, and the partial sums are merged after all
// workers finish. Any table that fails to align aborts the whole run.
func Aggregate(ctx context.Context, tables []FontTable, opts ...AggregatorOption) (*AggregateResult, error) {
	cfg := defaultAggregatorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	matrices := make([]*Matrix, len(tables))
	for i, t := range tables {
		matrices[i] = t.Matrix
	}
	labels := CanonicalLabels(matrices...)

	res, err := aggregateRuns(ctx, labels, len(tables), cfg, func(a *Aggregator, i int) error {
		return a.Add(tables[i])
	}, opts)
	cfg.logger.LogAggregate(ctx, len(tables), len(labels), err)
	return res, err
}

// AggregateFunc is like Aggregate for tables produced on demand, so that
// only the tables currently being added are held in memory. load is called
// exactly once per index in [0, n) and may be called concurrently.
func AggregateFunc(ctx context.Context, labels []rune, n int, load func(ctx context.Context, i int) (FontTable, error), opts ...AggregatorOption) (*AggregateResult, error) {
	cfg := defaultAggregatorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	res, err := aggregateRuns(ctx, labels, n, cfg, func(a *Aggregator, i int) error {
		t, err := load(ctx, i)
		if err != nil {
			return err
		}
		return a.Add(t)
	}, opts)
	cfg.logger.LogAggregate(ctx, n, len(labels), err)
	return res, err
}

func aggregateRuns(ctx context.Context, labels []rune, n int, cfg aggregatorConfig, add func(*Aggregator, int) error, opts []AggregatorOption) (*AggregateResult, error) {
	workers := max(min(cfg.workers, n), 1)
	partials := make([]*Aggregator, workers)
	for w := range partials {
		a, err := NewAggregator(labels, opts...)
		if err != nil {
			return nil, err
		}
		partials[w] = a
	}

	g, gctx := errgroup.WithContext(ctx)
	for w := range partials {
		lo, hi := w*n/workers, (w+1)*n/workers
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := add(partials[w], i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := partials[0]
	for _, p := range partials[1:] {
		if err := total.Merge(p); err != nil {
			return nil, err
		}
	}
	return total.Finalize()
}
