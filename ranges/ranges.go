// Package ranges provides a stateful, finite integer iterator.
//
// An Iterator walks the half-open interval [start, end) with step 1. It moves through
// three states:
//
//	Ready     -> not yet started, cursor at start
//	Active    -> at least one value yielded, cursor < end
//	Exhausted -> cursor == end, Next reports the stop condition
//
// Next never rewinds. All returns an iter.Seq that rewinds the cursor each time it is
// ranged over, so the same Iterator can be collected any number of times:
//
//	r := ranges.New(1, 5)
//	slices.Collect(r.All()) // [1 2 3 4]
//	slices.Collect(r.All()) // [1 2 3 4]
//
// The cursor belongs to the Iterator, not to the sequence. Two interleaved range loops
// over the same Iterator share it, and the inner loop's rewind is visible to the outer
// one. Use separate Iterators for independent walks. An Iterator is not safe for
// concurrent use.
package ranges

import (
	"fmt"
	"iter"
	"math"
)

// State is the position of an Iterator in its lifecycle.
type State int

const (
	Ready State = iota
	Active
	Exhausted
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Active:
		return "active"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Iterator struct {
	start   int
	end     int
	current int
	state   State
}

// New returns an Iterator over [start, end). If end <= start the sequence is empty
// and the first call to Next reports the stop condition.
func New(start, end int) *Iterator {
	return &Iterator{
		start:   start,
		end:     end,
		current: start,
		state:   Ready,
	}
}

func (r *Iterator) Start() int { return r.start }

func (r *Iterator) End() int { return r.end }

func (r *Iterator) State() State { return r.state }

// Len is the number of values a full walk yields, regardless of the cursor. Spans
// wider than math.MaxInt report math.MaxInt.
func (r *Iterator) Len() int {
	if r.end <= r.start {
		return 0
	}

	n := uint(r.end) - uint(r.start)
	if n > math.MaxInt {
		return math.MaxInt
	}

	return int(n)
}

// Reset rewinds the cursor to start and returns the Iterator to Ready.
func (r *Iterator) Reset() {
	r.current = r.start
	r.state = Ready
}

// Next returns the value under the cursor and advances it. The boolean is false
// once the cursor reaches end; it stays false until Reset.
func (r *Iterator) Next() (int, bool) {
	if r.current >= r.end {
		r.state = Exhausted

		return 0, false
	}

	value := r.current
	r.current++
	r.state = Active

	return value, true
}

// All returns a sequence that rewinds the Iterator and yields every value in
// [start, end). Breaking out early leaves the Iterator Active at the break point.
func (r *Iterator) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		r.Reset()

		for {
			value, ok := r.Next()
			if !ok || !yield(value) {
				return
			}
		}
	}
}

// Collect rewinds and drains the Iterator into a slice.
func (r *Iterator) Collect() []int {
	values := []int{}

	for v := range r.All() {
		values = append(values, v)
	}

	return values
}

func (r *Iterator) String() string {
	return fmt.Sprintf("Iterator[%d, %d) %s", r.start, r.end, r.state)
}
