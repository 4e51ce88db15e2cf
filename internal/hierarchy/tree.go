// Package hierarchy reconstructs the reporting tree from flat position
// records. Trees are rebuilt from scratch on every call and never cached.
package hierarchy

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kingrea/orgweaver/internal/position"
)

// TopLevel selects records that have no supervisor.
const TopLevel = ""

// Node is a position plus the fields derived from its place in a tree.
// Counts are relative to the tree the node was built in, so a filtered tree
// reports only the descendants it kept.
type Node struct {
	position.Position

	Children                         []*Node
	SupervisorName                   string
	ResolvedSupervisorPositionNumber string
	// Level is the depth in the full hierarchy, whatever view the node sits in.
	Level             int
	DirectReportCount int
	TotalReportCount  int
}

// Builder indexes a record set once so repeated builds and lookups do not
// rescan the flat list.
type Builder struct {
	records  []position.Position
	byID     map[string]int
	children map[string][]int
}

// NewBuilder indexes records by id and by supervisor id.
func NewBuilder(records []position.Position) *Builder {
	b := &Builder{
		records:  records,
		byID:     make(map[string]int, len(records)),
		children: make(map[string][]int, len(records)),
	}
	for i, rec := range records {
		b.byID[rec.ID] = i
		key := rec.SupervisorKey()
		b.children[key] = append(b.children[key], i)
	}
	return b
}

// BuildTree returns the forest under supervisorID (TopLevel for the roots),
// assigning baseLevel to the returned nodes.
func BuildTree(records []position.Position, supervisorID string, baseLevel int) []*Node {
	return NewBuilder(records).Build(supervisorID, baseLevel)
}

// BuildFilteredTree is BuildTree restricted to records in matching and the
// ancestors needed to reach them.
func BuildFilteredTree(records []position.Position, matching map[string]struct{}, supervisorID string, baseLevel int) []*Node {
	return NewBuilder(records).BuildFiltered(matching, supervisorID, baseLevel)
}

// Build returns the full forest under supervisorID.
func (b *Builder) Build(supervisorID string, baseLevel int) []*Node {
	return b.buildFrom(supervisorID, baseLevel, nil)
}

// BuildFiltered returns the pruned forest under supervisorID. A record is kept
// when it matches or when any kept descendant hangs below it.
func (b *Builder) BuildFiltered(matching map[string]struct{}, supervisorID string, baseLevel int) []*Node {
	keep := func(id string) bool {
		_, ok := matching[id]
		return ok
	}
	return b.buildFrom(supervisorID, baseLevel, keep)
}

// Lookup returns the record with the given id.
func (b *Builder) Lookup(id string) (position.Position, bool) {
	idx, ok := b.byID[id]
	if !ok {
		return position.Position{}, false
	}
	return b.records[idx], true
}

// HasChildren reports whether any record names id as its supervisor.
func (b *Builder) HasChildren(id string) bool {
	return id != TopLevel && len(b.children[id]) > 0
}

// Level walks supervisor links upward and counts the hops. A dangling link
// still counts as one hop. The walk stops if it revisits a record.
func (b *Builder) Level(id string) int {
	rec, ok := b.Lookup(id)
	if !ok {
		return 0
	}
	level := 0
	seen := map[string]struct{}{rec.ID: {}}
	next := rec.SupervisorKey()
	for next != "" {
		level++
		if _, loop := seen[next]; loop {
			break
		}
		seen[next] = struct{}{}
		sup, ok := b.Lookup(next)
		if !ok {
			break
		}
		next = sup.SupervisorKey()
	}
	return level
}

// Focus builds the drill-down node for id: the record at its true level with
// its full subtree below it.
func (b *Builder) Focus(id string) (*Node, bool) {
	rec, ok := b.Lookup(id)
	if !ok {
		return nil, false
	}
	level := b.Level(id)
	w := b.newWalker(nil)
	w.path[rec.ID] = struct{}{}
	children := w.build(rec.ID, level+1)
	return b.node(rec, children, level), true
}

func (b *Builder) buildFrom(supervisorID string, baseLevel int, keep func(string) bool) []*Node {
	w := b.newWalker(keep)
	if supervisorID != TopLevel {
		w.path[supervisorID] = struct{}{}
	}
	return w.build(supervisorID, baseLevel)
}

func (b *Builder) node(rec position.Position, children []*Node, level int) *Node {
	n := &Node{
		Position:          rec.Clone(),
		Children:          children,
		Level:             level,
		DirectReportCount: len(children),
		TotalReportCount:  len(children),
	}
	for _, child := range children {
		n.TotalReportCount += child.TotalReportCount
	}
	if sup, ok := b.Lookup(rec.SupervisorKey()); ok && !rec.TopLevel() {
		n.SupervisorName = sup.DisplayName()
		n.ResolvedSupervisorPositionNumber = sup.PositionNumber
	}
	return n
}

// walker carries the per-build state: the ancestor path that guards against
// supervisor cycles and the collator, which is not safe for concurrent use.
type walker struct {
	b        *Builder
	keep     func(string) bool
	path     map[string]struct{}
	collator *collate.Collator
}

func (b *Builder) newWalker(keep func(string) bool) *walker {
	return &walker{
		b:        b,
		keep:     keep,
		path:     map[string]struct{}{},
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
}

func (w *walker) build(supervisorID string, level int) []*Node {
	idxs := w.b.children[supervisorID]
	nodes := make([]*Node, 0, len(idxs))
	for _, idx := range idxs {
		rec := w.b.records[idx]
		if _, onPath := w.path[rec.ID]; onPath {
			continue
		}
		w.path[rec.ID] = struct{}{}
		children := w.build(rec.ID, level+1)
		delete(w.path, rec.ID)
		if w.keep != nil && !w.keep(rec.ID) && len(children) == 0 {
			continue
		}
		nodes = append(nodes, w.b.node(rec, children, level))
	}
	w.sort(nodes)
	return nodes
}

func (w *walker) sort(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].DisplayName(), nodes[j].DisplayName()
		if c := w.collator.CompareString(a, b); c != 0 {
			return c < 0
		}
		if a != b {
			return a < b
		}
		return nodes[i].ID < nodes[j].ID
	})
}

// Find searches nodes depth-first for id.
func Find(nodes []*Node, id string) *Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := Find(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits nodes depth-first in display order. Returning false from fn
// skips that node's children.
func Walk(nodes []*Node, fn func(*Node) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(n.Children, fn)
		}
	}
}

// Flatten strips the derived fields and returns the plain records, parents
// before their children.
func Flatten(nodes []*Node) []position.Position {
	var out []position.Position
	Walk(nodes, func(n *Node) bool {
		out = append(out, n.Position.Clone())
		return true
	})
	return out
}
