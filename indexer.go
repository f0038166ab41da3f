package homoglyph

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Index partitions the retained codepoints of one font into groups of
// identical bitmaps.
//
// Codepoints is ascending and Groups[i] is the group of Codepoints[i].
// Group ids are dense, starting at zero, and are assigned in the order in
// which their bitmap is first seen by ascending codepoint.
type Index struct {
	Font       string
	Size       int
	Codepoints []rune
	Groups     []int
	NumGroups  int

	// Rendered counts candidates rendered, Excluded those matching a
	// sentinel or empty, RenderErrors those the font failed to render.
	Rendered     int
	Excluded     int
	RenderErrors int
}

// Len returns the number of retained codepoints.
func (ix *Index) Len() int { return len(ix.Codepoints) }

// Group returns the group of r, if r was retained.
func (ix *Index) Group(r rune) (int, bool) {
	i := sort.Search(len(ix.Codepoints), func(i int) bool { return ix.Codepoints[i] >= r })
	if i < len(ix.Codepoints) && ix.Codepoints[i] == r {
		return ix.Groups[i], true
	}
	return 0, false
}

// Members returns the codepoints of every group, indexed by group id.
func (ix *Index) Members() [][]rune {
	members := make([][]rune, ix.NumGroups)
	for i, g := range ix.Groups {
		members[g] = append(members[g], ix.Codepoints[i])
	}
	return members
}

// sentinelSet holds the bitmaps that exclude a codepoint from grouping.
type sentinelSet map[string]struct{}

func (s sentinelSet) excludes(b Bitmap) bool {
	if b.IsEmpty() {
		return true
	}
	_, ok := s[b.key()]
	return ok
}

// chunkResult is what one worker produced for one codepoint range. Only
// retained codepoints are kept, in ascending order.
type chunkResult struct {
	codepoints []rune
	bitmaps    []Bitmap
	rendered   int
	excluded   int
	errors     int
}

// BuildIndex renders every codepoint in the configured domain with face and
// groups those whose bitmap is neither empty nor equal to a sentinel.
//
// Rendering runs on a fixed pool of workers, each with its own Rasterizer.
// A render has no timeout; a rasterizer that never returns stalls the
// whole font. A font with no surviving codepoint yields an empty Index.
func BuildIndex(ctx context.Context, face Face, opts ...IndexOption) (*Index, error) {
	cfg := defaultIndexConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, cfg.size)
	}
	if err := cfg.domain.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.logger.WithFont(face.Name())

	sentinels, err := renderSentinels(face, cfg.size, logger)
	if err != nil {
		return nil, err
	}

	chunks := cfg.domain.Chunks(cfg.chunkSize)
	results := make([]chunkResult, len(chunks))
	work := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(work)
		for i := range chunks {
			select {
			case work <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < min(cfg.workers, max(len(chunks), 1)); w++ {
		g.Go(func() error {
			rz, err := face.NewRasterizer(cfg.size)
			if err != nil {
				return fmt.Errorf("rasterizer for %s: %w", face.Name(), err)
			}
			defer rz.Close()
			for i := range work {
				// Each slot is written by exactly one worker.
				results[i] = renderChunk(rz, chunks[i], sentinels, face.Name(), cfg.size, logger)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ix := assignGroups(results)
	ix.Font = face.Name()
	ix.Size = cfg.size
	logger.LogIndex(ctx, ix, nil)
	return ix, nil
}

func renderSentinels(face Face, size int, logger *Logger) (sentinelSet, error) {
	rz, err := face.NewRasterizer(size)
	if err != nil {
		return nil, fmt.Errorf("rasterizer for %s: %w", face.Name(), err)
	}
	defer rz.Close()

	set := make(sentinelSet, len(SentinelCodepoints))
	for _, r := range SentinelCodepoints {
		b, err := rz.Render(r)
		if err != nil {
			// An unrenderable probe excludes nothing beyond the empty bitmap.
			logger.Debug("sentinel unrenderable", "codepoint", r, "error", err)
			continue
		}
		if !b.IsEmpty() {
			set[b.key()] = struct{}{}
		}
	}
	return set, nil
}

func renderChunk(rz Rasterizer, d Domain, sentinels sentinelSet, font string, size int, logger *Logger) chunkResult {
	var res chunkResult
	d.Each(func(r rune) {
		res.rendered++
		b, err := rz.Render(r)
		if err != nil {
			var rerr *RenderError
			if !errors.As(err, &rerr) {
				rerr = NewRenderError(font, size, r, err)
			}
			logger.Debug("codepoint unrenderable", "error", rerr)
			res.errors++
			return
		}
		if sentinels.excludes(b) {
			res.excluded++
			return
		}
		res.codepoints = append(res.codepoints, r)
		res.bitmaps = append(res.bitmaps, b)
	})
	return res
}

// assignGroups walks the chunk results in ascending order and numbers each
// distinct bitmap on first sight.
func assignGroups(results []chunkResult) *Index {
	n := 0
	for _, res := range results {
		n += len(res.codepoints)
	}
	ix := &Index{
		Codepoints: make([]rune, 0, n),
		Groups:     make([]int, 0, n),
	}
	ids := make(map[string]int)
	for _, res := range results {
		ix.Rendered += res.rendered
		ix.Excluded += res.excluded
		ix.RenderErrors += res.errors
		for i, r := range res.codepoints {
			k := res.bitmaps[i].key()
			id, ok := ids[k]
			if !ok {
				id = len(ids)
				ids[k] = id
			}
			ix.Codepoints = append(ix.Codepoints, r)
			ix.Groups = append(ix.Groups, id)
		}
	}
	ix.NumGroups = len(ids)
	return ix
}
