package grammar

import (
	"fmt"

	"braces.dev/errtrace"
	"github.com/ghettovoice/abnf"
)

// ParseMediaRange parses a media type or range with parameters, e.g. `text/html;q=0.5`.
func ParseMediaRange[T Input](s T) (*abnf.Node, error) {
	return errtrace.Wrap2(parse("media type", mediaRange, s))
}

// ParseElement parses a token list element with parameters, e.g. `gzip;q=0.8`.
func ParseElement[T Input](s T) (*abnf.Node, error) {
	return errtrace.Wrap2(parse("token", element, s))
}

// ParseLanguageRange parses a language range with parameters, e.g. `en-GB;q=0.7`.
func ParseLanguageRange[T Input](s T) (*abnf.Node, error) {
	return errtrace.Wrap2(parse("language", langElement, s))
}

// ParseCacheControl parses a comma-separated list of cache directives.
func ParseCacheControl[T Input](s T) (*abnf.Node, error) {
	return errtrace.Wrap2(parse("cache-control", cacheControl, s))
}

func parse[T Input](what string, rule abnf.Operator, s T) (*abnf.Node, error) {
	if len(s) == 0 {
		return nil, errtrace.Wrap(ErrEmptyInput)
	}

	in := []byte(s)
	ns := abnf.NewNodes()
	defer ns.Free()

	if err := rule(in, 0, ns); err != nil {
		return nil, errtrace.Wrap(&ParseError{What: what, Input: string(s)})
	}

	n := best(ns)
	if g, ok := n.GetNode(keyGap); ok {
		return nil, errtrace.Wrap(&ParseError{What: what, Input: string(s), Offset: int(g.Pos)})
	}
	if n.Len() < len(in) {
		return nil, errtrace.Wrap(&ParseError{What: what, Input: string(s), Offset: n.Len()})
	}
	return n, nil
}

// best returns the longest node preferring complete ones on a tie.
func best(ns *abnf.Nodes) *abnf.Node {
	var b *abnf.Node
	for _, n := range ns.All() {
		if b == nil || n.Len() > b.Len() ||
			n.Len() == b.Len() && b.Contains(keyGap) && !n.Contains(keyGap) {
			b = n
		}
	}
	return b
}

func matchAll(op abnf.Operator, in []byte) bool {
	if len(in) == 0 {
		return false
	}

	ns := abnf.NewNodes()
	defer ns.Free()

	if err := op(in, 0, ns); err != nil {
		return false
	}
	n := best(ns)
	return n.Len() == len(in) && !n.Contains(keyGap)
}

// MustGetNode returns the first node with the key in the subtree of n or panics.
func MustGetNode(n *abnf.Node, k string) *abnf.Node {
	sn, ok := n.GetNode(k)
	if !ok {
		panic(fmt.Errorf("get node %q from node %q: %w", k, n.Key, ErrNodeNotFound))
	}
	return sn
}

// Param returns the name as written and the unquoted value of a parameter node.
func Param(node *abnf.Node) (name, value string) {
	name = MustGetNode(node, KeyParamName).String()
	if v, ok := node.GetNode(KeyParamValue); ok {
		value = Value(v)
	}
	return name, value
}

// Value returns the text of a token or quoted-string node, quoted-pairs unescaped.
func Value(node *abnf.Node) string {
	if q, ok := node.GetNode(KeyQuoted); ok {
		return Unquote(q.String())
	}
	return node.String()
}
