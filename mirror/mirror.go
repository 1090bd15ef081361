// Package mirror implements a list exposed through two coupled faces of different
// element types that always describe the same logical sequence.
//
// The list keeps one sequence of items. Each item holds the value of either face or
// both of them; the missing side is derived with the [Converter] on first read and cached.
// Single mutations through a face convert eagerly and are rejected as a whole when the
// conversion fails. Bulk loads through [Face.Load] defer the conversion until the other
// face is read.
package mirror

//go:generate go tool errtrace -w .

import (
	"iter"
	"math"
	"sync"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/quality"
)

// ErrConversion is returned when a value can not be represented in the other face.
const ErrConversion errorutil.Error = "conversion failed"

// Converter converts values between the faces.
type Converter[V, R any] struct {
	// ToR converts the primary value to the mirrored one.
	ToR func(V) (R, error)
	// ToV converts the mirrored value back to the primary one.
	ToV func(R) (V, error)
	// CloneV deep copies a primary value. Optional, values are copied as is when nil.
	// The list copies values it receives from and hands out to callers,
	// so it never shares a value with them.
	CloneV func(V) V
	// CloneR deep copies a mirrored value. Optional, see CloneV.
	CloneR func(R) R
}

// Face is one view of a [List].
type Face[T any] interface {
	// Len returns the number of values.
	Len() int
	// Get returns the i-th value.
	Get(i int) (T, error)
	// Values returns all values in order.
	Values() ([]T, error)
	// All iterates over values in order, stopping on the first conversion error.
	All() iter.Seq2[T, error]
	// Insert adds v as close to position i as the quality ordering allows.
	Insert(i int, v T) (int, error)
	// Append adds v after the values ranking before or equal to it.
	Append(v T) (int, error)
	// Replace replaces the i-th value with v.
	Replace(i int, v T) (int, error)
	// InsertAll inserts vs starting at position i. Either all values are converted and
	// inserted or the list is left untouched.
	InsertAll(i int, vs ...T) error
	// RemoveAt removes the i-th value.
	RemoveAt(i int) error
	// Load appends values without converting them.
	Load(vs ...T)
	// LoadAt inserts values starting at position i without converting them.
	LoadAt(i int, vs ...T) error
	// Clear removes all values.
	Clear()
}

// Dual is a pair of coupled faces.
type Dual[A, B any] interface {
	Len() int
	Primary() Face[A]
	Mirrored() Face[B]
	// Reverse returns the same list with swapped roles. Weights are shared, not recomputed.
	Reverse() Dual[B, A]
}

type item[V, R any] struct {
	v    V
	r    R
	hasV bool
	hasR bool
}

// List is a mirrored list with primary values of type V and mirrored values of type R.
// All operations are serialized with one mutex guarding both faces.
type List[V, R any] struct {
	mu    sync.Mutex
	conv  Converter[V, R]
	vext  quality.Extractor[V]
	rext  quality.Extractor[R]
	items *quality.List[*item[V, R]]
}

// New creates an empty list. Nil extractors weigh every value with [quality.DefaultWeight].
func New[V, R any](conv Converter[V, R], vext quality.Extractor[V], rext quality.Extractor[R]) *List[V, R] {
	if vext == nil {
		vext = quality.None[V]()
	}
	if rext == nil {
		rext = quality.None[R]()
	}
	l := &List[V, R]{conv: conv, vext: vext, rext: rext}
	l.items = quality.NewList(quality.ExtractorFunc[*item[V, R]](l.weigh))
	return l
}

func (l *List[V, R]) weigh(it *item[V, R]) quality.Weight {
	if it.hasV {
		return l.vext.Weigh(it.v)
	}
	return l.rext.Weigh(it.r)
}

// Len returns the number of values.
func (l *List[V, R]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items.Len()
}

// Sorted reports whether the underlying quality list left the fast path.
func (l *List[V, R]) Sorted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items.Sorted()
}

// Weight returns the weight of the i-th value.
func (l *List[V, R]) Weight(i int) (quality.Weight, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkIndex(i, l.items.Len()); err != nil {
		return quality.Weight{}, errtrace.Wrap(err)
	}
	return l.items.Weight(i), nil
}

// Primary returns the face of primary values.
func (l *List[V, R]) Primary() Face[V] { return vFace[V, R]{l} }

// Mirrored returns the face of mirrored values.
func (l *List[V, R]) Mirrored() Face[R] { return rFace[V, R]{l} }

// Reverse returns the list viewed with swapped roles.
func (l *List[V, R]) Reverse() Dual[R, V] { return reversed[V, R]{l} }

// Clone returns a deep copy of the list.
func (l *List[V, R]) Clone() *List[V, R] {
	l.mu.Lock()
	defer l.mu.Unlock()

	l2 := &List[V, R]{conv: l.conv, vext: l.vext, rext: l.rext}
	l2.items = l.items.Clone(func(it *item[V, R]) *item[V, R] {
		it2 := *it
		if it2.hasV {
			it2.v = l.cloneV(it2.v)
		}
		if it2.hasR {
			it2.r = l.cloneR(it2.r)
		}
		return &it2
	})
	return l2
}

func (l *List[V, R]) cloneV(v V) V {
	if l.conv.CloneV == nil {
		return v
	}
	return l.conv.CloneV(v)
}

func (l *List[V, R]) cloneR(r R) R {
	if l.conv.CloneR == nil {
		return r
	}
	return l.conv.CloneR(r)
}

func (*List[V, R]) checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("index %d out of range [0, %d)", i, n))
	}
	return nil
}

func (l *List[V, R]) toR(v V) (R, error) {
	if l.conv.ToR == nil {
		var zero R
		return zero, errtrace.Wrap(errorutil.NewWrapperError(ErrConversion, "missing forward converter"))
	}
	r, err := l.conv.ToR(v)
	if err != nil {
		var zero R
		return zero, errtrace.Wrap(errorutil.NewWrapperError(ErrConversion, err))
	}
	return r, nil
}

func (l *List[V, R]) toV(r R) (V, error) {
	if l.conv.ToV == nil {
		var zero V
		return zero, errtrace.Wrap(errorutil.NewWrapperError(ErrConversion, "missing backward converter"))
	}
	v, err := l.conv.ToV(r)
	if err != nil {
		var zero V
		return zero, errtrace.Wrap(errorutil.NewWrapperError(ErrConversion, err))
	}
	return v, nil
}

// itemV returns the primary value of it deriving and caching it when needed.
func (l *List[V, R]) itemV(it *item[V, R]) (V, error) {
	if !it.hasV {
		v, err := l.toV(it.r)
		if err != nil {
			return v, errtrace.Wrap(err)
		}
		it.v, it.hasV = v, true
	}
	return it.v, nil
}

// itemR returns the mirrored value of it deriving and caching it when needed.
func (l *List[V, R]) itemR(it *item[V, R]) (R, error) {
	if !it.hasR {
		r, err := l.toR(it.v)
		if err != nil {
			return r, errtrace.Wrap(err)
		}
		it.r, it.hasR = r, true
	}
	return it.r, nil
}

// appendPos is a position meaning the end of the list.
const appendPos = math.MinInt

func (l *List[V, R]) insert(i int, it *item[V, R], w quality.Weight, replace bool) (int, error) {
	n := l.items.Len()
	if i == appendPos {
		i = n
	}
	if replace {
		if err := l.checkIndex(i, n); err != nil {
			return -1, errtrace.Wrap(err)
		}
		return l.items.ReplaceWeighted(i, it, w), nil
	}
	if err := l.checkInsertIndex(i); err != nil {
		return -1, errtrace.Wrap(err)
	}
	return l.items.InsertWeighted(i, it, w), nil
}

func (l *List[V, R]) insertV(i int, v V, replace bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, err := l.toR(v)
	if err != nil {
		return -1, errtrace.Wrap(err)
	}
	v = l.cloneV(v)
	return errtrace.Wrap2(l.insert(i, &item[V, R]{v: v, r: r, hasV: true, hasR: true}, l.vext.Weigh(v), replace))
}

func (l *List[V, R]) insertR(i int, r R, replace bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, err := l.toV(r)
	if err != nil {
		return -1, errtrace.Wrap(err)
	}
	r = l.cloneR(r)
	return errtrace.Wrap2(l.insert(i, &item[V, R]{v: v, r: r, hasV: true, hasR: true}, l.rext.Weigh(r), replace))
}

func (l *List[V, R]) insertAllV(i int, vs []V) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkInsertIndex(i); err != nil {
		return errtrace.Wrap(err)
	}
	its := make([]*item[V, R], len(vs))
	for k, v := range vs {
		r, err := l.toR(v)
		if err != nil {
			return errtrace.Wrap(err)
		}
		its[k] = &item[V, R]{v: l.cloneV(v), r: r, hasV: true, hasR: true}
	}
	l.insertItems(i, its)
	return nil
}

func (l *List[V, R]) insertAllR(i int, rs []R) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkInsertIndex(i); err != nil {
		return errtrace.Wrap(err)
	}
	its := make([]*item[V, R], len(rs))
	for k, r := range rs {
		v, err := l.toV(r)
		if err != nil {
			return errtrace.Wrap(err)
		}
		its[k] = &item[V, R]{v: v, r: l.cloneR(r), hasV: true, hasR: true}
	}
	l.insertItems(i, its)
	return nil
}

func (l *List[V, R]) checkInsertIndex(i int) error {
	if n := l.items.Len(); i < 0 || i > n {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("index %d out of range [0, %d]", i, n))
	}
	return nil
}

// insertItems inserts its keeping their relative order among equal weights.
func (l *List[V, R]) insertItems(i int, its []*item[V, R]) {
	for _, it := range its {
		i = l.items.InsertWeighted(i, it, l.weigh(it)) + 1
	}
}

func (l *List[V, R]) removeAt(i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkIndex(i, l.items.Len()); err != nil {
		return errtrace.Wrap(err)
	}
	l.items.RemoveAt(i)
	return nil
}

func (l *List[V, R]) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items.Clear()
}

func (l *List[V, R]) loadV(i int, vs []V) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i == appendPos {
		i = l.items.Len()
	}
	if err := l.checkInsertIndex(i); err != nil {
		return errtrace.Wrap(err)
	}
	its := make([]*item[V, R], len(vs))
	for k, v := range vs {
		its[k] = &item[V, R]{v: l.cloneV(v), hasV: true}
	}
	l.insertItems(i, its)
	return nil
}

func (l *List[V, R]) loadR(i int, rs []R) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i == appendPos {
		i = l.items.Len()
	}
	if err := l.checkInsertIndex(i); err != nil {
		return errtrace.Wrap(err)
	}
	its := make([]*item[V, R], len(rs))
	for k, r := range rs {
		its[k] = &item[V, R]{r: l.cloneR(r), hasR: true}
	}
	l.insertItems(i, its)
	return nil
}

func (l *List[V, R]) getV(i int) (V, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkIndex(i, l.items.Len()); err != nil {
		var zero V
		return zero, errtrace.Wrap(err)
	}
	v, err := l.itemV(l.items.Get(i))
	if err != nil {
		return v, errtrace.Wrap(err)
	}
	return l.cloneV(v), nil
}

func (l *List[V, R]) getR(i int) (R, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkIndex(i, l.items.Len()); err != nil {
		var zero R
		return zero, errtrace.Wrap(err)
	}
	r, err := l.itemR(l.items.Get(i))
	if err != nil {
		return r, errtrace.Wrap(err)
	}
	return l.cloneR(r), nil
}

func (l *List[V, R]) valuesV() ([]V, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	vs := make([]V, 0, l.items.Len())
	for _, it := range l.items.All() {
		v, err := l.itemV(it)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		vs = append(vs, l.cloneV(v))
	}
	return vs, nil
}

func (l *List[V, R]) valuesR() ([]R, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rs := make([]R, 0, l.items.Len())
	for _, it := range l.items.All() {
		r, err := l.itemR(it)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		rs = append(rs, l.cloneR(r))
	}
	return rs, nil
}

func all[T any](values func() ([]T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		vs, err := values()
		if err != nil {
			var zero T
			yield(zero, errtrace.Wrap(err))
			return
		}
		for _, v := range vs {
			if !yield(v, nil) {
				return
			}
		}
	}
}
