package mirror

import (
	"iter"

	"braces.dev/errtrace"
)

type vFace[V, R any] struct{ l *List[V, R] }

func (f vFace[V, R]) Len() int { return f.l.Len() }

func (f vFace[V, R]) Get(i int) (V, error) { return errtrace.Wrap2(f.l.getV(i)) }

func (f vFace[V, R]) Values() ([]V, error) { return errtrace.Wrap2(f.l.valuesV()) }

func (f vFace[V, R]) All() iter.Seq2[V, error] { return all(f.l.valuesV) }

func (f vFace[V, R]) Insert(i int, v V) (int, error) { return errtrace.Wrap2(f.l.insertV(i, v, false)) }

func (f vFace[V, R]) Append(v V) (int, error) {
	return errtrace.Wrap2(f.l.insertV(appendPos, v, false))
}

func (f vFace[V, R]) Replace(i int, v V) (int, error) { return errtrace.Wrap2(f.l.insertV(i, v, true)) }

func (f vFace[V, R]) InsertAll(i int, vs ...V) error { return errtrace.Wrap(f.l.insertAllV(i, vs)) }

func (f vFace[V, R]) RemoveAt(i int) error { return errtrace.Wrap(f.l.removeAt(i)) }

func (f vFace[V, R]) Load(vs ...V) { f.l.loadV(appendPos, vs) } //nolint:errcheck

func (f vFace[V, R]) LoadAt(i int, vs ...V) error { return errtrace.Wrap(f.l.loadV(i, vs)) }

func (f vFace[V, R]) Clear() { f.l.clear() }

type rFace[V, R any] struct{ l *List[V, R] }

func (f rFace[V, R]) Len() int { return f.l.Len() }

func (f rFace[V, R]) Get(i int) (R, error) { return errtrace.Wrap2(f.l.getR(i)) }

func (f rFace[V, R]) Values() ([]R, error) { return errtrace.Wrap2(f.l.valuesR()) }

func (f rFace[V, R]) All() iter.Seq2[R, error] { return all(f.l.valuesR) }

func (f rFace[V, R]) Insert(i int, r R) (int, error) { return errtrace.Wrap2(f.l.insertR(i, r, false)) }

func (f rFace[V, R]) Append(r R) (int, error) {
	return errtrace.Wrap2(f.l.insertR(appendPos, r, false))
}

func (f rFace[V, R]) Replace(i int, r R) (int, error) { return errtrace.Wrap2(f.l.insertR(i, r, true)) }

func (f rFace[V, R]) InsertAll(i int, rs ...R) error { return errtrace.Wrap(f.l.insertAllR(i, rs)) }

func (f rFace[V, R]) RemoveAt(i int) error { return errtrace.Wrap(f.l.removeAt(i)) }

func (f rFace[V, R]) Load(rs ...R) { f.l.loadR(appendPos, rs) } //nolint:errcheck

func (f rFace[V, R]) LoadAt(i int, rs ...R) error { return errtrace.Wrap(f.l.loadR(i, rs)) }

func (f rFace[V, R]) Clear() { f.l.clear() }

type reversed[V, R any] struct{ l *List[V, R] }

func (d reversed[V, R]) Len() int { return d.l.Len() }

func (d reversed[V, R]) Primary() Face[R] { return d.l.Mirrored() }

func (d reversed[V, R]) Mirrored() Face[V] { return d.l.Primary() }

func (d reversed[V, R]) Reverse() Dual[V, R] { return d.l }
