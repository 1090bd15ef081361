package mirror_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/mirror"
	"github.com/ghettovoice/httphdr/quality"
)

// num is a typed form of raw values like "42" or "42;q=0.5".
type num struct {
	N int
	Q float64
}

func (n num) Quality() float64 { return n.Q }

func parseNum(s string) (num, error) {
	n := num{Q: 1}
	raw, qs, ok := strings.Cut(s, ";q=")
	if ok {
		q, err := strconv.ParseFloat(qs, 64)
		if err != nil {
			return num{}, err
		}
		n.Q = q
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return num{}, err
	}
	n.N = v
	return n, nil
}

func formatNum(n num) (string, error) {
	if n.N < 0 {
		return "", errors.New("negative numbers are not representable")
	}
	if n.Q == 1 {
		return strconv.Itoa(n.N), nil
	}
	return strconv.Itoa(n.N) + ";q=" + strconv.FormatFloat(n.Q, 'f', -1, 64), nil
}

func newList() *mirror.List[string, num] {
	return mirror.New(
		mirror.Converter[string, num]{ToR: parseNum, ToV: formatNum},
		quality.Param(),
		quality.Of[num](),
	)
}

func checkConsistent(t *testing.T, l *mirror.List[string, num]) {
	t.Helper()

	vs, err := l.Primary().Values()
	if err != nil {
		t.Fatalf("l.Primary().Values() error = %v, want nil", err)
	}
	rs, err := l.Mirrored().Values()
	if err != nil {
		t.Fatalf("l.Mirrored().Values() error = %v, want nil", err)
	}
	if len(vs) != len(rs) {
		t.Fatalf("len(primary) = %d, len(mirrored) = %d, want equal", len(vs), len(rs))
	}
	for i := range vs {
		want, err := parseNum(vs[i])
		if err != nil {
			t.Fatalf("parseNum(%q) error = %v", vs[i], err)
		}
		if rs[i] != want {
			t.Fatalf("mirrored[%d] = %+v, want %+v (primary %q)", i, rs[i], want, vs[i])
		}
	}
	for i := 1; i < len(rs); i++ {
		if rs[i-1].Q < rs[i].Q {
			t.Fatalf("quality order broken at %d: %v < %v", i, rs[i-1].Q, rs[i].Q)
		}
	}
}

func TestList_MutationsKeepFacesConsistent(t *testing.T) {
	t.Parallel()

	for round := range 30 {
		t.Run(fmt.Sprint(round), func(t *testing.T) {
			t.Parallel()

			rnd := rand.New(rand.NewPCG(uint64(round), 7))
			qs := []float64{1, 1, 0.8, 0.5, 0.2}
			l := newList()
			for range 60 {
				n := num{N: rnd.IntN(100), Q: qs[rnd.IntN(len(qs))]}
				raw, _ := formatNum(n)
				size := l.Len()

				var err error
				switch op := rnd.IntN(8); {
				case op == 0:
					_, err = l.Primary().Append(raw)
				case op == 1:
					_, err = l.Mirrored().Append(n)
				case op == 2:
					_, err = l.Primary().Insert(rnd.IntN(size+1), raw)
				case op == 3:
					_, err = l.Mirrored().Insert(rnd.IntN(size+1), n)
				case op == 4 && size > 0:
					_, err = l.Primary().Replace(rnd.IntN(size), raw)
				case op == 5 && size > 0:
					_, err = l.Mirrored().Replace(rnd.IntN(size), n)
				case op == 6 && size > 0:
					err = l.Mirrored().RemoveAt(rnd.IntN(size))
				default:
					l.Primary().Load(raw)
				}
				if err != nil {
					t.Fatalf("mutation error = %v, want nil", err)
				}
				checkConsistent(t, l)
			}
		})
	}
}

func TestList_FailedConversionIsAtomic(t *testing.T) {
	t.Parallel()

	l := newList()
	if _, err := l.Primary().Append("1;q=0.5"); err != nil {
		t.Fatalf("l.Primary().Append() error = %v, want nil", err)
	}

	_, err := l.Primary().Append("abc")
	if diff := cmp.Diff(err, mirror.ErrConversion, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("l.Primary().Append(abc) error mismatch (-got +want):\n%s", diff)
	}
	_, err = l.Mirrored().Replace(0, num{N: -1, Q: 1})
	if diff := cmp.Diff(err, mirror.ErrConversion, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("l.Mirrored().Replace() error mismatch (-got +want):\n%s", diff)
	}

	vs, _ := l.Primary().Values()
	if diff := cmp.Diff(vs, []string{"1;q=0.5"}); diff != "" {
		t.Errorf("primary values mismatch (-got +want):\n%s", diff)
	}
	checkConsistent(t, l)
}

func TestList_LoadIsLazy(t *testing.T) {
	t.Parallel()

	calls := 0
	l := mirror.New(
		mirror.Converter[string, num]{
			ToR: func(s string) (num, error) {
				calls++
				return parseNum(s)
			},
			ToV: formatNum,
		},
		quality.Param(),
		quality.Of[num](),
	)
	l.Primary().Load("1", "x;q=0.9", "3;q=0.95")

	if calls != 0 {
		t.Fatalf("converter calls after Load = %d, want 0", calls)
	}

	vs, err := l.Primary().Values()
	if err != nil {
		t.Fatalf("l.Primary().Values() error = %v, want nil", err)
	}
	if diff := cmp.Diff(vs, []string{"1", "3;q=0.95", "x;q=0.9"}); diff != "" {
		t.Errorf("primary values mismatch (-got +want):\n%s", diff)
	}

	if r, err := l.Mirrored().Get(1); err != nil || r != (num{N: 3, Q: 0.95}) {
		t.Errorf("l.Mirrored().Get(1) = (%+v, %v), want ({3 0.95}, nil)", r, err)
	}
	if _, err := l.Mirrored().Get(2); !errors.Is(err, mirror.ErrConversion) {
		t.Errorf("l.Mirrored().Get(2) error = %v, want %v", err, mirror.ErrConversion)
	}
	if _, err := l.Mirrored().Values(); !errors.Is(err, mirror.ErrConversion) {
		t.Errorf("l.Mirrored().Values() error = %v, want %v", err, mirror.ErrConversion)
	}

	calls = 0
	l.Mirrored().Get(1) //nolint:errcheck
	if calls != 0 {
		t.Errorf("converter calls for a cached value = %d, want 0", calls)
	}
	if l.Len() != 3 {
		t.Errorf("l.Len() = %d, want 3", l.Len())
	}
}

func TestList_Reverse(t *testing.T) {
	t.Parallel()

	l := newList()
	l.Primary().Load("1;q=0.2", "2")

	rev := l.Reverse()
	if _, err := rev.Primary().Append(num{N: 3, Q: 0.5}); err != nil {
		t.Fatalf("rev.Primary().Append() error = %v, want nil", err)
	}
	vs, _ := rev.Mirrored().Values()
	if diff := cmp.Diff(vs, []string{"2", "3;q=0.5", "1;q=0.2"}); diff != "" {
		t.Errorf("reversed mirrored values mismatch (-got +want):\n%s", diff)
	}
	if w, _ := l.Weight(1); w.Q != 0.5 {
		t.Errorf("l.Weight(1) = %+v, want Q 0.5", w)
	}
	if rev.Reverse().Len() != 3 {
		t.Errorf("rev.Reverse().Len() = %d, want 3", rev.Reverse().Len())
	}
	checkConsistent(t, l)
}

func TestList_Clone(t *testing.T) {
	t.Parallel()

	l := newList()
	l.Primary().Load("1", "2;q=0.5")

	l2 := l.Clone()
	if _, err := l2.Primary().Append("3"); err != nil {
		t.Fatalf("l2.Primary().Append() error = %v, want nil", err)
	}
	if err := l2.Primary().RemoveAt(1); err != nil {
		t.Fatalf("l2.Primary().RemoveAt(1) error = %v, want nil", err)
	}
	if _, err := l2.Mirrored().Replace(0, num{N: 9, Q: 1}); err != nil {
		t.Fatalf("l2.Mirrored().Replace(0) error = %v, want nil", err)
	}

	vs, _ := l.Primary().Values()
	if diff := cmp.Diff(vs, []string{"1", "2;q=0.5"}); diff != "" {
		t.Errorf("original values mismatch (-got +want):\n%s", diff)
	}
	vs2, _ := l2.Primary().Values()
	if diff := cmp.Diff(vs2, []string{"9", "2;q=0.5"}); diff != "" {
		t.Errorf("clone values mismatch (-got +want):\n%s", diff)
	}
}

func TestList_IndexErrors(t *testing.T) {
	t.Parallel()

	l := newList()
	if _, err := l.Primary().Get(0); !errors.Is(err, errorutil.ErrInvalidArgument) {
		t.Errorf("l.Primary().Get(0) error = %v, want %v", err, errorutil.ErrInvalidArgument)
	}
	if _, err := l.Primary().Insert(1, "1"); !errors.Is(err, errorutil.ErrInvalidArgument) {
		t.Errorf("l.Primary().Insert(1) error = %v, want %v", err, errorutil.ErrInvalidArgument)
	}
	if err := l.Mirrored().RemoveAt(-1); !errors.Is(err, errorutil.ErrInvalidArgument) {
		t.Errorf("l.Mirrored().RemoveAt(-1) error = %v, want %v", err, errorutil.ErrInvalidArgument)
	}
	if _, err := l.Mirrored().Replace(0, num{N: 1, Q: 1}); !errors.Is(err, errorutil.ErrInvalidArgument) {
		t.Errorf("l.Mirrored().Replace(0) error = %v, want %v", err, errorutil.ErrInvalidArgument)
	}

	for v, err := range l.Mirrored().All() {
		t.Errorf("l.Mirrored().All() yielded (%v, %v) on empty list", v, err)
	}
}

func TestFace_InsertAll(t *testing.T) {
	t.Parallel()

	l := newList()
	l.Primary().Load("1", "2")

	err := l.Primary().InsertAll(0, "3", "x", "4")
	if !errors.Is(err, mirror.ErrConversion) {
		t.Fatalf("l.Primary().InsertAll(0, 3, x, 4) error = %v, want %v", err, mirror.ErrConversion)
	}
	if l.Len() != 2 {
		t.Fatalf("l.Len() = %d, want 2", l.Len())
	}

	if err := l.Primary().InsertAll(0, "3", "4"); err != nil {
		t.Fatalf("l.Primary().InsertAll(0, 3, 4) error = %v, want nil", err)
	}
	if err := l.Mirrored().InsertAll(l.Len(), num{N: 5, Q: 0.5}, num{N: 6, Q: 1}); err != nil {
		t.Fatalf("l.Mirrored().InsertAll() error = %v, want nil", err)
	}
	vs, _ := l.Primary().Values()
	if diff := cmp.Diff(vs, []string{"3", "4", "1", "2", "6", "5;q=0.5"}); diff != "" {
		t.Errorf("primary values mismatch (-got +want):\n%s", diff)
	}
	checkConsistent(t, l)
}

func TestFace_LoadAt(t *testing.T) {
	t.Parallel()

	l := newList()
	l.Primary().Load("1", "2")
	if err := l.Primary().LoadAt(1, "3", "y"); err != nil {
		t.Fatalf("l.Primary().LoadAt(1) error = %v, want nil", err)
	}
	if err := l.Primary().LoadAt(9, "4"); !errors.Is(err, errorutil.ErrInvalidArgument) {
		t.Errorf("l.Primary().LoadAt(9) error = %v, want %v", err, errorutil.ErrInvalidArgument)
	}

	vs, _ := l.Primary().Values()
	if diff := cmp.Diff(vs, []string{"1", "3", "y", "2"}); diff != "" {
		t.Errorf("primary values mismatch (-got +want):\n%s", diff)
	}
	if _, err := l.Mirrored().Get(2); !errors.Is(err, mirror.ErrConversion) {
		t.Errorf("l.Mirrored().Get(2) error = %v, want %v", err, mirror.ErrConversion)
	}
}

func TestList_ValuesAreNotShared(t *testing.T) {
	t.Parallel()

	l := mirror.New(
		mirror.Converter[string, *num]{
			ToR: func(s string) (*num, error) {
				n, err := parseNum(s)
				return &n, err
			},
			ToV:    func(n *num) (string, error) { return formatNum(*n) },
			CloneR: func(n *num) *num { c := *n; return &c },
		},
		quality.Param(),
		quality.Of[*num](),
	)

	in := &num{N: 1, Q: 1}
	if _, err := l.Mirrored().Append(in); err != nil {
		t.Fatalf("l.Mirrored().Append() error = %v, want nil", err)
	}
	if err := l.Mirrored().InsertAll(l.Len(), &num{N: 2, Q: 1}); err != nil {
		t.Fatalf("l.Mirrored().InsertAll() error = %v, want nil", err)
	}
	loaded := &num{N: 3, Q: 1}
	l.Mirrored().Load(loaded)
	in.N = 7
	loaded.N = 8

	got, err := l.Mirrored().Get(0)
	if err != nil {
		t.Fatalf("l.Mirrored().Get(0) error = %v, want nil", err)
	}
	got.N = 9
	rs, err := l.Mirrored().Values()
	if err != nil {
		t.Fatalf("l.Mirrored().Values() error = %v, want nil", err)
	}
	rs[1].N = 9

	rs, _ = l.Mirrored().Values()
	if diff := cmp.Diff(rs, []*num{{N: 1, Q: 1}, {N: 2, Q: 1}, {N: 3, Q: 1}}); diff != "" {
		t.Errorf("mirrored values mismatch (-got +want):\n%s", diff)
	}
	vs, _ := l.Primary().Values()
	if diff := cmp.Diff(vs, []string{"1", "2", "3"}); diff != "" {
		t.Errorf("primary values mismatch (-got +want):\n%s", diff)
	}
}
