package header

import (
	"fmt"
	"strconv"

	"braces.dev/errtrace"
	"github.com/dunglas/httpsfv"

	"github.com/ghettovoice/httphdr/internal/errorutil"
)

// DefaultUrgency is the urgency of a response without the "u" parameter.
const DefaultUrgency = 3

// Priority is an RFC 9218 Priority header value.
type Priority struct {
	// Urgency is in the range [0, 7], lower is more urgent.
	Urgency int
	// Incremental tells that the response can be processed incrementally.
	Incremental bool
}

// ParsePriority parses a Priority structured field dictionary.
// Unknown members are ignored as well as members of unexpected types.
func ParsePriority(s string) (*Priority, error) {
	dict, err := httpsfv.UnmarshalDictionary([]string{s})
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedInput, "priority %q: %v", s, err))
	}

	p := &Priority{Urgency: DefaultUrgency}
	if m, ok := dict.Get("u"); ok {
		if it, ok := m.(httpsfv.Item); ok {
			if u, ok := it.Value.(int64); ok && u >= 0 && u <= 7 {
				p.Urgency = int(u)
			}
		}
	}
	if m, ok := dict.Get("i"); ok {
		if it, ok := m.(httpsfv.Item); ok {
			if i, ok := it.Value.(bool); ok {
				p.Incremental = i
			}
		}
	}
	return p, nil
}

func (p *Priority) String() string {
	if p == nil {
		return ""
	}
	s, _ := formatPriority(p)
	return s
}

func (p *Priority) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, p.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(p.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, p.String())
			return
		}

		type hideMethods Priority
		type Priority hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Priority)(p))
		return
	}
}

func (p *Priority) Equal(val any) bool {
	var other *Priority
	switch v := val.(type) {
	case Priority:
		other = &v
	case *Priority:
		other = v
	default:
		return false
	}

	if p == other {
		return true
	} else if p == nil || other == nil {
		return false
	}
	return *p == *other
}

func (p *Priority) IsValid() bool { return p != nil && p.Urgency >= 0 && p.Urgency <= 7 }

func (p *Priority) Clone() *Priority {
	if p == nil {
		return nil
	}
	p2 := *p
	return &p2
}

func formatPriority(p *Priority) (string, error) {
	if !p.IsValid() {
		return "", errtrace.Wrap(NewInvalidValueError("invalid priority %+v", p))
	}

	dict := httpsfv.NewDictionary()
	if p.Urgency != DefaultUrgency {
		dict.Add("u", httpsfv.NewItem(int64(p.Urgency)))
	}
	if p.Incremental {
		dict.Add("i", httpsfv.NewItem(true))
	}
	return errtrace.Wrap2(httpsfv.Marshal(dict))
}

// PriorityDelegate converts Priority header values.
var PriorityDelegate = NewDelegate(KindPriority, ParsePriority, formatPriority)
