package filter

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// DefaultFalsePositiveRate is the Bloom filter sizing target: roughly
// one tweet in a thousand wrongly suppressed at the expected capacity.
const DefaultFalsePositiveRate = 0.001

// DuplicateFilter remembers tweet ids and reports repeats. Seen records
// the id as a side effect, so for any id the first call answers false
// and later calls answer true. Implementations are safe for concurrent
// use.
type DuplicateFilter interface {
	// Seen records id and reports whether it was already present.
	Seen(id string) bool
	// Count returns the number of distinct ids recorded so far.
	Count() int
}

// ExactFilter tracks ids in a hash set. Ids are folded to 64-bit
// xxhash values, which keeps the set at 8 bytes per id no matter how
// long the id strings run.
type ExactFilter struct {
	seen map[uint64]struct{}
	mu   sync.Mutex
}

// NewExactFilter creates a new empty ExactFilter.
func NewExactFilter() *ExactFilter {
	return &ExactFilter{
		seen: make(map[uint64]struct{}),
	}
}

// Seen records id and reports whether it was already present.
func (ef *ExactFilter) Seen(id string) bool {
	h := xxhash.Sum64String(id)

	ef.mu.Lock()
	defer ef.mu.Unlock()

	if _, ok := ef.seen[h]; ok {
		return true
	}
	ef.seen[h] = struct{}{}
	return false
}

// Count returns the number of distinct ids recorded so far.
func (ef *ExactFilter) Count() int {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	return len(ef.seen)
}

// BloomFilter tracks ids in a Bloom filter sized for a known corpus.
// Memory stays bounded regardless of input size; the cost is a small
// false-positive rate, meaning the occasional fresh tweet is treated
// as a repeat.
type BloomFilter struct {
	filter *bloom.BloomFilter
	count  int
	mu     sync.Mutex
}

// NewBloomFilter creates a BloomFilter sized for expectedIDs distinct
// ids at DefaultFalsePositiveRate.
func NewBloomFilter(expectedIDs uint) *BloomFilter {
	return &BloomFilter{
		filter: bloom.NewWithEstimates(expectedIDs, DefaultFalsePositiveRate),
	}
}

// Seen records id and reports whether it was already present.
func (bf *BloomFilter) Seen(id string) bool {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.filter.TestAndAddString(id) {
		return true
	}
	bf.count++
	return false
}

// Count returns the number of ids recorded so far, as observed through
// the filter. False positives make this a slight undercount.
func (bf *BloomFilter) Count() int {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	return bf.count
}
