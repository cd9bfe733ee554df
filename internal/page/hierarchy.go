// internal/page/hierarchy.go
//
// Flat page list → navigation forest.
//
// Context
// -------
// The hierarchy endpoint fetches every page ordered by
// (sort_order ASC, created_at DESC) and hands the slice to Build.  The
// result is an arena: the original Page values plus, per index, the indices
// of its children and the list of root indices.  Nodes() materialises a
// JSON-ready tree from the arena.
//
// Workflow
// --------
//  1. Index every page by id (first occurrence wins on duplicate ids).
//  2. Walk the input once more, in order:
//     • no parent              → root;
//     • parent in the set      → appended to the parent's children;
//     • parent missing         → OrphanPolicy decides (promote or drop);
//     • attaching would close a parent cycle (self-reference included)
//                              → promoted to root and reported.
//  3. Sibling order is input order.  Nothing is re-sorted.
//
// Notes
// -----
// • Every accepted edge is checked against the already-accepted ancestor
//   chain, so the arena is acyclic and each page is emitted exactly once
//   under OrphanPromote.
// • Build is pure; it neither logs nor touches the store.

package page

import "fmt"

// OrphanPolicy decides what happens to a page whose parent is absent from
// the working set (deleted, or filtered out by a published-only query).
type OrphanPolicy int

const (
	// OrphanPromote emits the orphan as a root.
	OrphanPromote OrphanPolicy = iota
	// OrphanDrop omits the orphan and, with it, its whole subtree.
	OrphanDrop
)

// ParseOrphanPolicy maps the config value ("promote" or "drop").
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch s {
	case "", "promote":
		return OrphanPromote, nil
	case "drop":
		return OrphanDrop, nil
	default:
		return OrphanPromote, fmt.Errorf("page: unknown orphan policy %q", s)
	}
}

func (p OrphanPolicy) String() string {
	if p == OrphanDrop {
		return "drop"
	}
	return "promote"
}

// Option tunes Build.
type Option func(*buildOpts)

type buildOpts struct {
	orphans OrphanPolicy
}

// WithOrphanPolicy overrides the default OrphanPromote.
func WithOrphanPolicy(p OrphanPolicy) Option {
	return func(o *buildOpts) { o.orphans = p }
}

// Forest is the arena produced by Build.  Indices refer to Pages.
type Forest struct {
	Pages    []Page
	Children [][]int
	Roots    []int

	// Orphans lists ids whose parent was missing from the input.
	Orphans []int64
	// CycleBreaks lists ids promoted to root because attaching them would
	// have closed a parent cycle.
	CycleBreaks []int64
}

// Node is one page plus its children, shaped for the wire.  The embedded
// Page keeps every persisted field at the top level of the JSON object.
type Node struct {
	Page
	Children []*Node `json:"children"`
}

// Build converts pages into a Forest.  The input slice is not modified.
func Build(pages []Page, opts ...Option) *Forest {
	o := buildOpts{orphans: OrphanPromote}
	for _, fn := range opts {
		fn(&o)
	}

	n := len(pages)
	f := &Forest{
		Pages:    pages,
		Children: make([][]int, n),
		Roots:    make([]int, 0, n),
	}

	index := make(map[int64]int, n)
	for i, p := range pages {
		if _, dup := index[p.ID]; !dup {
			index[p.ID] = i
		}
	}

	// parent[i] is the accepted parent index of i, or -1.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}

	for i, p := range pages {
		pid, ok := p.Parent()
		if !ok {
			f.Roots = append(f.Roots, i)
			continue
		}

		j, found := index[pid]
		if !found {
			f.Orphans = append(f.Orphans, p.ID)
			if o.orphans == OrphanPromote {
				f.Roots = append(f.Roots, i)
			}
			continue
		}

		if closesCycle(parent, i, j) {
			f.CycleBreaks = append(f.CycleBreaks, p.ID)
			f.Roots = append(f.Roots, i)
			continue
		}

		parent[i] = j
		f.Children[j] = append(f.Children[j], i)
	}
	return f
}

// closesCycle reports whether hanging child under at would make child its
// own ancestor.  Only accepted edges are followed, and those are acyclic.
func closesCycle(parent []int, child, at int) bool {
	for cur := at; cur != -1; cur = parent[cur] {
		if cur == child {
			return true
		}
	}
	return false
}

// Nodes materialises the forest as a tree of *Node.  Empty forests and
// leaf nodes carry empty, non-nil slices so they encode as [].
func (f *Forest) Nodes() []*Node {
	out := make([]*Node, 0, len(f.Roots))
	for _, i := range f.Roots {
		out = append(out, f.node(i))
	}
	return out
}

func (f *Forest) node(i int) *Node {
	n := &Node{Page: f.Pages[i], Children: make([]*Node, 0, len(f.Children[i]))}
	for _, c := range f.Children[i] {
		n.Children = append(n.Children, f.node(c))
	}
	return n
}

// Walk visits every reachable page depth-first, parents before children,
// passing the depth (roots are 0).
func (f *Forest) Walk(fn func(p Page, depth int)) {
	var visit func(i, depth int)
	visit = func(i, depth int) {
		fn(f.Pages[i], depth)
		for _, c := range f.Children[i] {
			visit(c, depth+1)
		}
	}
	for _, r := range f.Roots {
		visit(r, 0)
	}
}

// CreatesCycle reports whether giving page id the parent parentID would
// make id its own ancestor, judged against the current rows.  Used by the
// repository to refuse such updates before they reach the table.
func CreatesCycle(pages []Page, id, parentID int64) bool {
	if id == parentID {
		return true
	}
	parents := make(map[int64]int64, len(pages))
	for _, p := range pages {
		if pid, ok := p.Parent(); ok {
			parents[p.ID] = pid
		}
	}

	seen := make(map[int64]struct{}, len(pages))
	for cur := parentID; ; {
		if cur == id {
			return true
		}
		if _, loop := seen[cur]; loop {
			return false // pre-existing cycle that does not involve id
		}
		seen[cur] = struct{}{}
		next, ok := parents[cur]
		if !ok {
			return false
		}
		cur = next
	}
}
