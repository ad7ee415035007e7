package election

import (
	"sort"

	"k8s.io/klog"
)

// Resolution is the outcome of the Condorcet check.
type Resolution struct {
	// Winner is the Condorcet winner, or NoCandidate when there is a cycle.
	Winner Candidate
	// Wins holds, per candidate in roster order, how many other candidates
	// it beats or ties head-to-head.
	Wins []int
	// Ranking orders every candidate by Wins, descending. Ties keep roster
	// order. Later stages index their output by this order.
	Ranking []Candidate
}

// HasWinner reports whether a Condorcet winner was found.
func (r *Resolution) HasWinner() bool {
	return r.Winner != NoCandidate
}

// Resolve looks for a candidate that no other candidate strictly beats and
// ranks every candidate by pairwise wins. A tie counts as a win. When
// universal ties leave several unbeaten candidates, the first in roster
// order is reported.
func Resolve(m *Matrix) (*Resolution, error) {
	roster := m.Roster()
	n := roster.Len()
	res := &Resolution{
		Winner: NoCandidate,
		Wins:   make([]int, n),
	}
	for a := Candidate(0); int(a) < n; a++ {
		unbeaten := true
		for b := Candidate(0); int(b) < n; b++ {
			if a == b {
				continue
			}
			forA, err := m.Count(a, b)
			if err != nil {
				return nil, err
			}
			forB, err := m.Count(b, a)
			if err != nil {
				return nil, err
			}
			if forB > forA {
				unbeaten = false
			} else {
				res.Wins[a]++
			}
		}
		if unbeaten && res.Winner == NoCandidate {
			res.Winner = a
		}
	}

	res.Ranking = roster.Candidates()
	sort.SliceStable(res.Ranking, func(i, j int) bool {
		return res.Wins[res.Ranking[i]] > res.Wins[res.Ranking[j]]
	})

	if res.HasWinner() {
		klog.V(1).Infof("%s is the Condorcet winner", roster.Name(res.Winner))
	} else {
		klog.V(1).Infof("no Condorcet winner found, there is a Condorcet cycle")
	}
	return res, nil
}
