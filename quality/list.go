package quality

import (
	"iter"
	"slices"
	"sort"
)

// List is an ordered sequence of values kept in descending weight order.
//
// While every inserted value has [DefaultWeight] the list is a plain slice and
// honours the requested positions. The first value with any other weight switches
// the list to the sorted mode for good: from then on a value is placed by binary search
// into the run of equal weights, and the requested position is only used to choose
// a place inside that run.
//
// List is not safe for concurrent use.
type List[T any] struct {
	ext    Extractor[T]
	vals   []T
	ws     []Weight
	sorted bool
}

// NewList creates an empty list. Nil ext is replaced by [None].
func NewList[T any](ext Extractor[T]) *List[T] {
	if ext == nil {
		ext = None[T]()
	}
	return &List[T]{ext: ext}
}

// Extractor returns the list's extractor.
func (l *List[T]) Extractor() Extractor[T] { return l.ext }

// Len returns the number of values.
func (l *List[T]) Len() int { return len(l.vals) }

// Sorted reports whether the list left the fast path.
func (l *List[T]) Sorted() bool { return l.sorted }

// Get returns the i-th value. It panics if i is out of range.
func (l *List[T]) Get(i int) T { return l.vals[i] }

// Weight returns the weight of the i-th value. It panics if i is out of range.
func (l *List[T]) Weight(i int) Weight {
	if !l.sorted {
		_ = l.vals[i]
		return DefaultWeight
	}
	return l.ws[i]
}

// Append adds v after all values ranking before or equal to it and returns its position.
func (l *List[T]) Append(v T) int { return l.InsertWeighted(len(l.vals), v, l.ext.Weigh(v)) }

// Insert adds v as close to position i as the ordering allows and returns the actual position.
// It panics if i is out of range [0, Len()].
func (l *List[T]) Insert(i int, v T) int { return l.InsertWeighted(i, v, l.ext.Weigh(v)) }

// InsertWeighted is like [List.Insert] with a precomputed weight.
func (l *List[T]) InsertWeighted(i int, v T, w Weight) int {
	if i < 0 || i > len(l.vals) {
		panic("quality: insert index out of range")
	}

	if !l.sorted {
		if w.IsDefault() {
			l.vals = slices.Insert(l.vals, i, v)
			return i
		}
		l.ws = make([]Weight, len(l.vals), cap(l.vals))
		for k := range l.ws {
			l.ws[k] = DefaultWeight
		}
		l.sorted = true
	}

	lo, hi := l.run(w)
	i = min(max(i, lo), hi)
	l.vals = slices.Insert(l.vals, i, v)
	l.ws = slices.Insert(l.ws, i, w)
	return i
}

// run returns the bounds [lo, hi) of values weighing exactly w.
func (l *List[T]) run(w Weight) (lo, hi int) {
	lo = sort.Search(len(l.ws), func(k int) bool { return l.ws[k].Compare(w) >= 0 })
	hi = lo + sort.Search(len(l.ws)-lo, func(k int) bool { return l.ws[lo+k].Compare(w) > 0 })
	return lo, hi
}

// RemoveAt removes and returns the i-th value. It panics if i is out of range.
func (l *List[T]) RemoveAt(i int) T {
	v := l.vals[i]
	l.vals = slices.Delete(l.vals, i, i+1)
	if l.sorted {
		l.ws = slices.Delete(l.ws, i, i+1)
	}
	return v
}

// Replace removes the i-th value, inserts v as close to i as possible and returns its position.
func (l *List[T]) Replace(i int, v T) int { return l.ReplaceWeighted(i, v, l.ext.Weigh(v)) }

// ReplaceWeighted is like [List.Replace] with a precomputed weight.
func (l *List[T]) ReplaceWeighted(i int, v T, w Weight) int {
	l.RemoveAt(i)
	return l.InsertWeighted(i, v, w)
}

// Clear removes all values. A sorted list remains sorted.
func (l *List[T]) Clear() {
	clear(l.vals)
	l.vals = l.vals[:0]
	if l.sorted {
		l.ws = l.ws[:0]
	}
}

// All returns an iterator over positions and values in order.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.vals {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns a copy of the values in order.
func (l *List[T]) Values() []T { return slices.Clone(l.vals) }

// Clone returns a deep copy of the list. Values are copied with cloneFn when it is not nil.
func (l *List[T]) Clone(cloneFn func(T) T) *List[T] {
	l2 := &List[T]{
		ext:    l.ext,
		vals:   slices.Clone(l.vals),
		ws:     slices.Clone(l.ws),
		sorted: l.sorted,
	}
	if cloneFn != nil {
		for i, v := range l2.vals {
			l2.vals[i] = cloneFn(v)
		}
	}
	return l2
}
