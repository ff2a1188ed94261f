package taskgraph

import "testing"

func TestGraph_LinkRecordsEdgeAndInDegree(t *testing.T) {
	g := NewGraph()
	a := g.NewNode("A", nil)
	b := g.NewNode("B", nil)

	g.Link(a, b)

	if b.Required != 1 {
		t.Fatalf("expected B.Required == 1, got %d", b.Required)
	}
	if len(a.Children) != 1 || a.Children[0] != b {
		t.Fatalf("expected A.Children == [B], got %v", a.Children)
	}
	if len(b.Parents) != 1 || b.Parents[0] != a {
		t.Fatalf("expected B.Parents == [A], got %v", b.Parents)
	}
	if len(g.edges) != 1 || g.edges[0] != (Edge{From: "A", To: "B"}) {
		t.Fatalf("expected edges == [{A B}], got %v", g.edges)
	}
}

func TestGraph_MultipleParentsAccumulateRequired(t *testing.T) {
	g := NewGraph()
	a := g.NewNode("A", nil)
	b := g.NewNode("B", nil)
	c := g.NewNode("C", nil)
	d := g.NewNode("D", nil)

	g.Link(a, d)
	g.Link(b, d)
	g.Link(c, d)

	if d.Required != 3 {
		t.Fatalf("expected D.Required == 3, got %d", d.Required)
	}
	if len(d.Parents) != 3 {
		t.Fatalf("expected 3 parents recorded, got %d", len(d.Parents))
	}
}

func TestGraph_DiamondTopology(t *testing.T) {
	g := NewGraph()
	a := g.NewNode("A", nil)
	b := g.NewNode("B", nil)
	c := g.NewNode("C", nil)
	z := g.NewNode("Z", nil)

	g.Link(a, b)
	g.Link(a, c)
	g.Link(b, z)
	g.Link(c, z)

	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize: unexpected error %v", err)
	}
	if g.Source != a {
		t.Fatalf("expected source == A, got %v", g.Source.Label)
	}
	if g.Sink != z {
		t.Fatalf("expected sink == Z, got %v", g.Sink.Label)
	}
	if z.Required != 2 {
		t.Fatalf("expected Z.Required == 2, got %d", z.Required)
	}
}
