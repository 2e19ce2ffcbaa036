// Package report shapes store query results for presentation: the
// duration-weighted directory tree behind the treemap verb and the text
// renderings of every query. JSON output serializes the same types the
// renderers consume.
package report

import (
	"sort"
	"strings"

	"github.com/roach88/ccprov/internal/store"
)

// DirNode is one directory in the duration-weighted tree. Duration and
// Count cover the entire subtree, so the root carries the grand total.
type DirNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Duration float64    `json:"duration"`
	Count    int        `json:"count"`
	Children []*DirNode `json:"children,omitempty"`
}

// BuildTree folds flat per-directory totals into a rooted tree. Every
// ancestor accumulates the durations and counts of its descendants.
// Children are ordered heaviest first, name breaking ties, so rendering
// is deterministic.
func BuildTree(dirs []store.DirectoryDuration) *DirNode {
	root := &DirNode{Name: ".", Path: "."}
	index := map[string]*DirNode{}

	for _, d := range dirs {
		root.Duration += d.Duration
		root.Count += d.Count
		if d.Dir == "." {
			continue
		}

		parent := root
		var prefix string
		for _, seg := range strings.Split(d.Dir, "/") {
			if prefix == "" {
				prefix = seg
			} else {
				prefix = prefix + "/" + seg
			}
			node, ok := index[prefix]
			if !ok {
				node = &DirNode{Name: seg, Path: prefix}
				index[prefix] = node
				parent.Children = append(parent.Children, node)
			}
			node.Duration += d.Duration
			node.Count += d.Count
			parent = node
		}
	}

	sortChildren(root)
	return root
}

func sortChildren(n *DirNode) {
	sort.Slice(n.Children, func(i, j int) bool {
		if n.Children[i].Duration != n.Children[j].Duration {
			return n.Children[i].Duration > n.Children[j].Duration
		}
		return n.Children[i].Name < n.Children[j].Name
	})
	for _, c := range n.Children {
		sortChildren(c)
	}
}

// Prune returns a copy of the tree cut off below depth levels under the
// receiver. Pruned subtrees keep contributing to their surviving
// ancestors' totals. A negative depth keeps the whole tree.
func (n *DirNode) Prune(depth int) *DirNode {
	clone := &DirNode{Name: n.Name, Path: n.Path, Duration: n.Duration, Count: n.Count}
	if depth == 0 {
		return clone
	}
	for _, c := range n.Children {
		clone.Children = append(clone.Children, c.Prune(depth-1))
	}
	return clone
}
