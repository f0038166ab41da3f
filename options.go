package homoglyph

import "runtime"

// Defaults used when no option overrides them.
const (
	DefaultSize      = 10
	DefaultChunkSize = 4096
)

type indexConfig struct {
	size      int
	workers   int
	chunkSize int
	domain    Domain
	logger    *Logger
}

func defaultIndexConfig() indexConfig {
	return indexConfig{
		size:      DefaultSize,
		workers:   runtime.NumCPU(),
		chunkSize: DefaultChunkSize,
		domain:    FullDomain,
		logger:    NoopLogger(),
	}
}

// IndexOption is a functional option for configuring BuildIndex.
type IndexOption func(*indexConfig)

// WithSize sets the render size in pixels per em.
func WithSize(size int) IndexOption {
	return func(c *indexConfig) {
		c.size = size
	}
}

// WithWorkers sets the number of render workers. Values below one fall
// back to one.
func WithWorkers(n int) IndexOption {
	return func(c *indexConfig) {
		c.workers = max(n, 1)
	}
}

// WithChunkSize sets how many consecutive codepoints a worker renders per
// task.
func WithChunkSize(n int) IndexOption {
	return func(c *indexConfig) {
		c.chunkSize = max(n, 1)
	}
}

// WithDomain restricts rendering to a codepoint range. Sentinels are always
// rendered regardless of the domain.
func WithDomain(d Domain) IndexOption {
	return func(c *indexConfig) {
		c.domain = d
	}
}

// WithIndexLogger sets the logger used while indexing.
func WithIndexLogger(l *Logger) IndexOption {
	return func(c *indexConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

type aggregatorConfig struct {
	workers int
	logger  *Logger
}

func defaultAggregatorConfig() aggregatorConfig {
	return aggregatorConfig{
		workers: runtime.NumCPU(),
		logger:  NoopLogger(),
	}
}

// AggregatorOption is a functional option for aggregation.
type AggregatorOption func(*aggregatorConfig)

// WithAggregateWorkers sets how many partial sums Aggregate builds in
// parallel.
func WithAggregateWorkers(n int) AggregatorOption {
	return func(c *aggregatorConfig) {
		c.workers = max(n, 1)
	}
}

// WithAggregateLogger sets the logger used while aggregating.
func WithAggregateLogger(l *Logger) AggregatorOption {
	return func(c *aggregatorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

type groupConfig struct {
	minSize int
	maxSize int
}

// GroupOption is a functional option for ExtractGroups.
type GroupOption func(*groupConfig)

// WithMinGroupSize drops groups smaller than n. Groups always have at
// least two members.
func WithMinGroupSize(n int) GroupOption {
	return func(c *groupConfig) {
		c.minSize = max(n, 2)
	}
}

// WithMaxGroupSize drops groups with n or more members. Zero disables the
// limit.
func WithMaxGroupSize(n int) GroupOption {
	return func(c *groupConfig) {
		c.maxSize = n
	}
}
