package election

import "sort"

// Hierarchy is a trie of preference paths. Each node stands for one
// candidate at one depth; a path's count lives on its terminal node as the
// number of ballots that stop (exhaust) there. Nodes live in one arena and
// refer to their children by index.
type Hierarchy struct {
	roster *Roster
	nodes  []trieNode
	total  int64
}

type trieNode struct {
	cand      Candidate
	children  []int32
	exhausted int64
}

// Node is the rendered form of a hierarchy node. Leaves carry a Value,
// inner nodes carry Children.
type Node struct {
	Name     string `json:"name"`
	Value    *int64 `json:"value,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// BuildHierarchy inserts the preference path of every non-empty ballot.
func BuildHierarchy(roster *Roster, ballots []Ballot) *Hierarchy {
	h := &Hierarchy{
		roster: roster,
		nodes:  []trieNode{{cand: NoCandidate}},
	}
	for _, b := range ballots {
		if b.Len() == 0 {
			continue
		}
		at := 0
		for i := 0; i < b.Len(); i++ {
			at = h.child(at, b.Slot(i), true)
		}
		h.nodes[at].exhausted++
		h.total++
	}
	return h
}

func (h *Hierarchy) child(parent int, c Candidate, create bool) int {
	for _, idx := range h.nodes[parent].children {
		if h.nodes[idx].cand == c {
			return int(idx)
		}
	}
	if !create {
		return -1
	}
	h.nodes = append(h.nodes, trieNode{cand: c})
	idx := len(h.nodes) - 1
	h.nodes[parent].children = append(h.nodes[parent].children, int32(idx))
	return idx
}

// Total returns the number of ballots inserted.
func (h *Hierarchy) Total() int64 {
	return h.total
}

// Exhausted returns how many ballots expressed exactly the given path.
func (h *Hierarchy) Exhausted(path ...Candidate) int64 {
	at := 0
	for _, c := range path {
		at = h.child(at, c, false)
		if at < 0 {
			return 0
		}
	}
	if at == 0 {
		return 0
	}
	return h.nodes[at].exhausted
}

// Tree renders the trie under a "Root" node whose value is the ballot total.
// Children are ordered by roster index with the exhausted leaf last.
func (h *Hierarchy) Tree() Node {
	root := h.render(0)
	root.Name = "Root"
	total := h.total
	root.Value = &total
	return root
}

func (h *Hierarchy) render(idx int) Node {
	n := &h.nodes[idx]
	out := Node{Name: h.roster.Name(n.cand)}
	kids := make([]int32, len(n.children))
	copy(kids, n.children)
	sort.Slice(kids, func(i, j int) bool {
		return h.nodes[kids[i]].cand < h.nodes[kids[j]].cand
	})
	for _, k := range kids {
		out.Children = append(out.Children, h.render(int(k)))
	}
	if n.exhausted > 0 {
		v := n.exhausted
		out.Children = append(out.Children, Node{Name: ExhaustedLabel, Value: &v})
	}
	return out
}
