package election

import "testing"

func TestBuildHierarchy(t *testing.T) {
	r := testRoster(t, "A", "B", "C")
	h := BuildHierarchy(r, []Ballot{
		BallotOf(candA, candB),
		BallotOf(candA, candB),
		BallotOf(candA),
		BallotOf(candB, candC),
		{},
	})
	if h.Total() != 4 {
		t.Errorf("Total() = %d, expected 4", h.Total())
	}
	cases := []struct {
		path     []Candidate
		expected int64
	}{
		{[]Candidate{candA, candB}, 2},
		{[]Candidate{candA}, 1},
		{[]Candidate{candB, candC}, 1},
		{[]Candidate{candB}, 0},
		{[]Candidate{candC}, 0},
		{nil, 0},
	}
	for _, c := range cases {
		if got := h.Exhausted(c.path...); got != c.expected {
			t.Errorf("Exhausted(%v) = %d, expected %d", c.path, got, c.expected)
		}
	}
}

func TestHierarchyTree(t *testing.T) {
	r := testRoster(t, "A", "B")
	h := BuildHierarchy(r, []Ballot{
		BallotOf(candB),
		BallotOf(candA, candB),
		BallotOf(candA),
	})
	tree := h.Tree()
	if tree.Name != "Root" || tree.Value == nil || *tree.Value != 3 {
		t.Fatalf("unexpected root %+v", tree)
	}
	if len(tree.Children) != 2 || tree.Children[0].Name != "A" || tree.Children[1].Name != "B" {
		t.Fatalf("root children should be ordered by roster: %+v", tree.Children)
	}
	a := tree.Children[0]
	if a.Value != nil {
		t.Errorf("inner node A should not carry a value")
	}
	if len(a.Children) != 2 || a.Children[0].Name != "B" || a.Children[1].Name != ExhaustedLabel {
		t.Fatalf("A children = %+v", a.Children)
	}
	if v := a.Children[1].Value; v == nil || *v != 1 {
		t.Errorf("A exhausted leaf = %v", v)
	}
}
