package election

import (
	"sort"

	"github.com/pkg/errors"
)

// FirstPreferences counts first choices per candidate in roster order.
func FirstPreferences(roster *Roster, ballots []Ballot) []int {
	counts := make([]int, roster.Len())
	for _, b := range ballots {
		if c, ok := b.First(); ok && roster.Valid(c) {
			counts[c]++
		}
	}
	return counts
}

// OrderByFirstPreferences returns a new roster sorted by descending first
// preference count, ties in the original order, along with the ballots
// re-indexed against it. Unless keepUnchosen is set, candidates nobody
// ranked first are dropped; their marks on the returned ballots become
// blanks and the remaining preferences close up.
func OrderByFirstPreferences(roster *Roster, ballots []Ballot, keepUnchosen bool) (*Roster, []Ballot, error) {
	counts := FirstPreferences(roster, ballots)
	order := make([]Candidate, 0, roster.Len())
	for _, c := range roster.Candidates() {
		if keepUnchosen || counts[c] > 0 {
			order = append(order, c)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	sorted, err := NewRoster(roster.NamesOf(order))
	if err != nil {
		return nil, nil, err
	}
	remap := make([]Candidate, roster.Len())
	for i := range remap {
		remap[i] = NoCandidate
	}
	for i, c := range order {
		remap[c] = Candidate(i)
	}

	out := make([]Ballot, len(ballots))
	for i, b := range ballots {
		var nb Ballot
		for _, c := range b.Prefs() {
			if !roster.Valid(c) {
				return nil, nil, errors.Wrapf(ErrUnknownCandidate, "ballot #%d, candidate index %d", i+1, c)
			}
			nb.push(remap[c])
		}
		out[i] = nb
	}
	return sorted, out, nil
}

// RankDistribution returns, for each candidate in order, how many ballots
// rank it at position 1..MaxRanks, with the final bucket counting ballots
// that do not rank it at all.
func RankDistribution(ballots []Ballot, order []Candidate) [][MaxRanks + 1]int {
	out := make([][MaxRanks + 1]int, len(order))
	for i, c := range order {
		for _, b := range ballots {
			pos := b.Position(c)
			if pos < 0 {
				pos = MaxRanks
			}
			out[i][pos]++
		}
	}
	return out
}
