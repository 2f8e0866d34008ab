package testing

import (
	"fmt"
	"reflect"

	"github.com/augmify/katana/pkg/core"
)

// Finder locates nodes in the live tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root core.Node) []core.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []core.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() core.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() core.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) core.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []core.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// kindFinder matches nodes whose description kind has the given name.
type kindFinder struct {
	name string
}

func (f *kindFinder) Evaluate(root core.Node) []core.Node {
	return collectMatches(root, func(n core.Node) bool {
		return n.Description().KindName() == f.name
	})
}

func (f *kindFinder) Description() string {
	return fmt.Sprintf("ByKind(%s)", f.name)
}

// ByKind returns a finder that matches nodes whose kind is named name.
func ByKind(name string) Finder {
	return &kindFinder{name: name}
}

// keyFinder matches nodes whose replace key equals the given key.
type keyFinder struct {
	key any
}

func (f *keyFinder) Evaluate(root core.Node) []core.Node {
	return collectMatches(root, func(n core.Node) bool {
		k := n.Description().Key()
		if k == nil || f.key == nil {
			return k == nil && f.key == nil
		}
		// Guard against non-comparable types (slices, maps, funcs).
		if !reflect.TypeOf(k).Comparable() || !reflect.TypeOf(f.key).Comparable() {
			return reflect.DeepEqual(k, f.key)
		}
		return k == f.key
	})
}

func (f *keyFinder) Description() string {
	return fmt.Sprintf("ByKey(%v)", f.key)
}

// ByKey returns a finder that matches nodes whose replace key equals key.
func ByKey(key any) Finder {
	return &keyFinder{key: key}
}

// predicateFinder matches nodes satisfying a predicate.
type predicateFinder struct {
	fn   func(core.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root core.Node) []core.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(core.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds nodes matching 'matching' that are descendants
// of nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root core.Node) []core.Node {
	var results []core.Node
	seen := make(map[core.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		// Search within each ancestor's subtree, skipping the ancestor itself.
		for _, child := range ancestor.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root core.Node, predicate func(core.Node) bool) []core.Node {
	var results []core.Node
	walkTree(root, func(n core.Node) {
		if predicate(n) {
			results = append(results, n)
		}
	})
	return results
}

func walkTree(root core.Node, visitor func(core.Node)) {
	visitor(root)
	for _, child := range root.Children() {
		walkTree(child, visitor)
	}
}
