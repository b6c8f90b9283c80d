// Package nodes holds the ordered result of one node resolution run.
package nodes

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/shortcuts/api"
)

var ErrNotFound = errors.New("node not found")

// Skip records a view file that did not make it into a Set.
type Skip struct {
	Path   string
	Reason string // "hidden", "ignored" or "failed"
	Err    error
}

// Set maps ordinal → descriptor for one directory scope.
//
// A Set also carries the run state the parser needs: the synthetic ordinal
// counter (starts at 0, decremented before each unordered assignment) and
// the occupancy index used for collision avoidance. Both live and die with
// the Set, so separate resolution runs never share ordinals.
type Set struct {
	nodes   map[int]*api.Descriptor
	counter int
	skipped []Skip

	// Roaring bitmap of occupied ordinals. Ordinals are int32-ranged and
	// mapped onto uint32 with the sign bit flipped, which keeps the
	// bitmap order equal to ordinal order.
	occupied *roaring.Bitmap
}

func NewSet() *Set {
	return &Set{
		nodes:    make(map[int]*api.Descriptor),
		occupied: roaring.New(),
	}
}

func key(ordinal int) uint32 {
	return uint32(int32(ordinal)) ^ 0x80000000
}

func (s *Set) taken(ordinal int) bool {
	return s.occupied.Contains(key(ordinal))
}

// Explicit resolves an order attribute to a free ordinal. A collision
// moves the ordinal up by one until a free slot is found.
func (s *Set) Explicit(order string) (int, error) {
	o, err := strconv.Atoi(strings.TrimSpace(order))
	if err != nil {
		return 0, fmt.Errorf("invalid order %q: %w", order, err)
	}
	if o < math.MinInt32 || o > math.MaxInt32 {
		return 0, fmt.Errorf("order %d out of range", o)
	}
	for s.taken(o) {
		if o == math.MaxInt32 {
			return 0, fmt.Errorf("no free ordinal at or above %s", order)
		}
		o++
	}
	return o, nil
}

// Synthetic hands out the next ordinal for an unordered view: -1, -2, ...
// Slots already claimed by explicit negative orders are passed over.
func (s *Set) Synthetic() int {
	s.counter--
	for s.taken(s.counter) {
		s.counter--
	}
	return s.counter
}

// Add inserts d at its ordinal.
func (s *Set) Add(d *api.Descriptor) {
	s.nodes[d.Ordinal] = d
	s.occupied.Add(key(d.Ordinal))
}

// Skip records a file that was left out of the set.
func (s *Set) Skip(sk Skip) {
	s.skipped = append(s.skipped, sk)
}

// Get returns the descriptor at ordinal.
func (s *Set) Get(ordinal int) (*api.Descriptor, error) {
	d, ok := s.nodes[ordinal]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

// Len returns the number of descriptors.
func (s *Set) Len() int {
	return len(s.nodes)
}

// Ordinals returns the occupied ordinals in ascending order.
func (s *Set) Ordinals() []int {
	out := make([]int, 0, len(s.nodes))
	it := s.occupied.Iterator()
	for it.HasNext() {
		out = append(out, int(int32(it.Next()^0x80000000)))
	}
	return out
}

// Descriptors returns the descriptors in ordinal order.
func (s *Set) Descriptors() []*api.Descriptor {
	ords := s.Ordinals()
	out := make([]*api.Descriptor, 0, len(ords))
	for _, o := range ords {
		out = append(out, s.nodes[o])
	}
	return out
}

// Skipped returns the files that were left out, in resolution order.
func (s *Set) Skipped() []Skip {
	return s.skipped
}

// SkippedBy counts skips per reason.
func (s *Set) SkippedBy() map[string]int {
	out := make(map[string]int)
	for _, sk := range s.skipped {
		out[sk.Reason]++
	}
	return out
}

// Labels returns the labels in ordinal order.
func (s *Set) Labels() []string {
	ds := s.Descriptors()
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Label
	}
	return out
}
