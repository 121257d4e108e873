package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrymomot/maw/core/handler"
)

type segmentKind uint8

const (
	segStatic segmentKind = iota
	segParam
	segWildcard
)

type segment struct {
	kind segmentKind
	text string // literal text or parameter name
}

// node is one path segment of the trie. Static children are keyed by their
// literal text; each node has at most one param and one wildcard child.
type node[V any] struct {
	static   map[string]*node[V]
	param    *node[V]
	wildcard *node[V]

	value    V
	hasValue bool
	pattern  string
	keys     []string
}

// Tree maps path patterns to values.
// It is not safe for concurrent writes; lookups on a tree that is no longer
// modified are safe from any number of goroutines.
type Tree[V any] struct {
	root *node[V]
	size int
}

// NewTree creates an empty tree.
func NewTree[V any]() *Tree[V] {
	return &Tree[V]{root: &node[V]{}}
}

// Len returns the number of patterns in the tree.
func (t *Tree[V]) Len() int {
	return t.size
}

// Insert adds value under pattern. It returns a *RouteConflictError when an
// equivalent pattern is already present.
func (t *Tree[V]) Insert(pattern string, value V) error {
	segs, keys, err := parsePattern(pattern)
	if err != nil {
		return err
	}

	n := t.root
	for _, s := range segs {
		switch s.kind {
		case segStatic:
			if n.static == nil {
				n.static = make(map[string]*node[V])
			}
			child, ok := n.static[s.text]
			if !ok {
				child = &node[V]{}
				n.static[s.text] = child
			}
			n = child
		case segParam:
			if n.param == nil {
				n.param = &node[V]{}
			}
			n = n.param
		case segWildcard:
			if n.wildcard == nil {
				n.wildcard = &node[V]{}
			}
			n = n.wildcard
		}
	}

	if n.hasValue {
		return &RouteConflictError{Pattern: pattern, Existing: n.pattern}
	}
	n.value = value
	n.hasValue = true
	n.pattern = pattern
	n.keys = keys
	t.size++
	return nil
}

// Match finds the value for path along with its captured parameters.
// path may be percent-encoded: it is split on literal '/' first, then each
// segment is decoded, so "%2F" never acts as a separator.
func (t *Tree[V]) Match(path string) (V, handler.Params, bool) {
	var zero V
	if path == "" || path[0] != '/' {
		return zero, nil, false
	}

	n, values := t.root.lookup(path, make([]string, 0, 4))
	if n == nil {
		return zero, nil, false
	}

	var params handler.Params
	if len(n.keys) > 0 {
		params = make(handler.Params, len(n.keys))
		for i, k := range n.keys {
			params[i] = handler.Param{Key: k, Value: unescape(values[i])}
		}
	}
	return n.value, params, true
}

// lookup resolves path, which is either empty or starts with '/', below n.
// Literal children are tried first, then the param child, then the wildcard,
// backtracking when a branch dead-ends deeper down.
func (n *node[V]) lookup(path string, values []string) (*node[V], []string) {
	if path == "" {
		if n.hasValue {
			return n, values
		}
		return nil, nil
	}

	rest := path[1:]
	seg, next := rest, ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		seg, next = rest[:i], rest[i:]
	}

	if child, ok := n.static[unescape(seg)]; ok {
		if m, v := child.lookup(next, values); m != nil {
			return m, v
		}
	}
	if n.param != nil && seg != "" {
		if m, v := n.param.lookup(next, append(values, seg)); m != nil {
			return m, v
		}
	}
	if n.wildcard != nil && n.wildcard.hasValue && rest != "" {
		return n.wildcard, append(values, rest)
	}
	return nil, nil
}

// unescape decodes a percent-encoded path segment. Malformed input is
// returned as is.
func unescape(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}
	u, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// parsePattern splits a pattern into segments and collects parameter names.
// The root pattern "/" is a single empty literal segment.
func parsePattern(pattern string) ([]segment, []string, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	parts := strings.Split(pattern[1:], "/")
	segs := make([]segment, 0, len(parts))
	var keys []string

	for i, part := range parts {
		if part == "" && len(parts) > 1 {
			return nil, nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPattern, pattern)
		}

		if !strings.ContainsAny(part, "{}") {
			segs = append(segs, segment{kind: segStatic, text: part})
			continue
		}

		if part[0] != '{' || part[len(part)-1] != '}' || strings.Count(part, "{") != 1 || strings.Count(part, "}") != 1 {
			return nil, nil, fmt.Errorf("%w: %q in %q", ErrParamDelimiter, part, pattern)
		}

		name := part[1 : len(part)-1]
		kind := segParam
		if strings.HasPrefix(name, "*") {
			kind = segWildcard
			name = name[1:]
			if i != len(parts)-1 {
				return nil, nil, fmt.Errorf("%w: %q", ErrWildcardPosition, pattern)
			}
		}
		if name == "" || strings.ContainsAny(name, "*/") {
			return nil, nil, fmt.Errorf("%w: bad parameter name %q in %q", ErrInvalidPattern, part, pattern)
		}
		for _, k := range keys {
			if k == name {
				return nil, nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, pattern)
			}
		}

		keys = append(keys, name)
		segs = append(segs, segment{kind: kind, text: name})
	}

	return segs, keys, nil
}
