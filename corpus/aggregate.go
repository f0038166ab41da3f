package corpus

import (
	"context"
	"fmt"

	"github.com/wbrown/homoglyph"
	"github.com/wbrown/homoglyph/tableio"
	"github.com/wbrown/homoglyph/tablestore"
	"golang.org/x/sync/errgroup"
)

// Output names written by WriteAggregate.
const (
	AggregateTable = "font_coocc.csv"
	MetadataTable  = "metadata.csv"
	PairsTable     = "font_pairs.csv"
)

// maxLabelReaders bounds concurrent header reads against the store.
const maxLabelReaders = 16

// ListTables returns the co-occurrence tables under prefix.
func ListTables(ctx context.Context, in tablestore.Store, prefix string) ([]string, error) {
	names, err := in.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	var tables []string
	for _, name := range names {
		switch tableio.TrimCompressionExt(name) {
		case AggregateTable, MetadataTable, PairsTable:
			continue
		}
		if IsTable(name) {
			tables = append(tables, name)
		}
	}
	return tables, nil
}

// AggregateStore sums the named tables of a store.
//
// The canonical labels are read from every table header before any table
// is added. Tables are then loaded on demand by the aggregation workers. A
// table that cannot be read or aligned aborts the run with an
// AlignmentError and nothing is returned.
func AggregateStore(ctx context.Context, in tablestore.Store, tables []string, opts ...homoglyph.AggregatorOption) (*homoglyph.AggregateResult, error) {
	labelSets := make([][]rune, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLabelReaders)
	for i, name := range tables {
		g.Go(func() error {
			data, err := in.Get(gctx, name)
			if err != nil {
				return homoglyph.NewAlignmentError(TableStem(name), "unreadable table", err)
			}
			labels, err := tableio.UnmarshalLabels(data, tableio.CompressionFor(name))
			if err != nil {
				return homoglyph.NewAlignmentError(TableStem(name), "malformed labels", err)
			}
			labelSets[i] = labels
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	labels := homoglyph.UnionLabels(labelSets...)

	load := func(ctx context.Context, i int) (homoglyph.FontTable, error) {
		name := tables[i]
		stem := TableStem(name)
		data, err := in.Get(ctx, name)
		if err != nil {
			return homoglyph.FontTable{}, homoglyph.NewAlignmentError(stem, "unreadable table", err)
		}
		m, err := tableio.UnmarshalMatrix(data, tableio.CompressionFor(name))
		if err != nil {
			return homoglyph.FontTable{}, homoglyph.NewAlignmentError(stem, "malformed table", err)
		}
		return homoglyph.FontTable{Name: name, Stem: stem, Matrix: m}, nil
	}
	return homoglyph.AggregateFunc(ctx, labels, len(tables), load, opts...)
}

// WriteAggregate persists a finalized aggregate: the summed table, the
// metadata table and, if pairs is set, the long-form pair list.
func WriteAggregate(ctx context.Context, out tablestore.Store, res *homoglyph.AggregateResult, c tableio.Compression, pairs bool) error {
	data, err := tableio.MarshalMatrix(res.Matrix, c)
	if err != nil {
		return fmt.Errorf("encode aggregate: %w", err)
	}
	meta, err := tableio.MarshalMetadata(res.Records, c)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	var pairData []byte
	if pairs {
		if pairData, err = tableio.MarshalPairs(res.Matrix, c); err != nil {
			return fmt.Errorf("encode pairs: %w", err)
		}
	}

	if err := out.Put(ctx, MetadataTable+c.Ext(), meta); err != nil {
		return fmt.Errorf("store metadata: %w", err)
	}
	if err := out.Put(ctx, AggregateTable+c.Ext(), data); err != nil {
		return fmt.Errorf("store aggregate: %w", err)
	}
	if pairs {
		if err := out.Put(ctx, PairsTable+c.Ext(), pairData); err != nil {
			return fmt.Errorf("store pairs: %w", err)
		}
	}
	return nil
}
