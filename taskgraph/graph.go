package taskgraph

import (
	"fmt"
	"io"
	"strings"
)

// Graph is the immutable topology (C1): an arena of Nodes plus the Source
// and Sink discovered at Finalize. The parent/child lists form a logical
// cycle (bidirectional references), not an ownership cycle — the Graph
// owns every Node in a flat slice, and
// Node.Children/Node.Parents are non-owning pointers into that slice. No
// reference counting is needed.
//
// Graph carries no scheduling state; every mutable field used during
// execution (satisfied counters, the ready queue, the trace) lives
// elsewhere. Graph itself is safe for concurrent reads by any number of
// workers once Finalize has returned.
type Graph struct {
	nodes       []*Node
	nodesByName map[string]*Node
	edges       []Edge

	Source *Node
	Sink   *Node

	finalized bool
}

// NewGraph returns an empty graph ready to accept nodes and edges.
func NewGraph() *Graph {
	return &Graph{
		nodesByName: make(map[string]*Node),
	}
}

// NewNode adds a node with the given label and task to the graph and
// returns it. Labels must be unique; NewNode panics on a duplicate label,
// since graph construction is assumed well-formed (a construction-time
// programmer error, not a runtime condition the engine must recover
// from).
func (g *Graph) NewNode(label string, task Task) *Node {
	if _, exists := g.nodesByName[label]; exists {
		panic("taskgraph: duplicate node label " + label)
	}
	n := &Node{
		Label:          label,
		Task:           task,
		canonicalIndex: len(g.nodes),
	}
	g.nodes = append(g.nodes, n)
	g.nodesByName[label] = n
	return n
}

// Find performs a label lookup. It is a construction-time convenience
// and is not used on the execution hot path.
func (g *Graph) Find(label string) *Node {
	return g.nodesByName[label]
}

// Link records a parent → child edge: it appends to parent's Children and
// child's Parents, and increments child.Required. No-op detection for
// duplicate links is not performed — the graph is assumed well-formed.
func (g *Graph) Link(parent, child *Node) {
	parent.Children = append(parent.Children, child)
	child.Parents = append(child.Parents, parent)
	child.Required++
	g.edges = append(g.edges, Edge{From: parent.Label, To: child.Label})
}

// Nodes returns the graph's node arena in construction order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Finalize locates the unique source (zero parents) and sink (zero
// children) nodes, after all NewNode/Link calls. New calls it, so callers
// need not; once it has succeeded, further calls return nil without
// re-checking. It returns ErrNoSource/
// ErrMultipleSources/ErrNoSink/ErrMultipleSinks if the topology does not
// have exactly one of each — these are the only structural checks the
// engine performs; general acyclicity is not checked.
func (g *Graph) Finalize() error {
	if g.finalized {
		return nil
	}
	if len(g.nodes) == 0 {
		return ErrNoSource
	}

	var source, sink *Node
	for _, n := range g.nodes {
		if len(n.Parents) == 0 {
			if source != nil {
				return ErrMultipleSources
			}
			source = n
		}
		if len(n.Children) == 0 {
			if sink != nil {
				return ErrMultipleSinks
			}
			sink = n
		}
	}
	if source == nil {
		return ErrNoSource
	}
	if sink == nil {
		return ErrNoSink
	}

	g.Source = source
	g.Sink = sink
	g.finalized = true
	return nil
}

// String renders the topology as one "label -> child1,child2,..." line per
// node, in construction order. Used by the print_graph startup toggle.
func (g *Graph) String() string {
	var b strings.Builder
	for _, n := range g.nodes {
		b.WriteString(n.Label)
		b.WriteString(" -> ")
		children := make([]string, len(n.Children))
		for i, c := range n.Children {
			children[i] = c.Label
		}
		b.WriteString(strings.Join(children, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteDOT writes the topology as a Graphviz DOT digraph, for visual
// inspection alongside print_graph's plain-text form.
func (g *Graph) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph taskgraph {"); err != nil {
		return err
	}
	for _, e := range g.edges {
		if _, err := fmt.Fprintf(w, "\t%q -> %q;\n", e.From, e.To); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
