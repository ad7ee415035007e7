package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/semog/rankbot/election"
	"k8s.io/klog"
)

// raceTally is the engine's view of a race: candidates become a roster in
// creation order and every voter's marks become one ballot.
type raceTally struct {
	// ids maps a roster index to the candidate ID.
	ids     []int
	roster  *election.Roster
	voters  []int
	ballots []election.Ballot
	// firsts counts first-choice ballots per roster index.
	firsts []int
	// report is nil while the race has no ballots.
	report *election.Report
}

// rosterNames returns unique names for the candidates. Names that collide
// after normalization are suffixed with their position.
func rosterNames(cands []candidate) (*election.Roster, error) {
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name
	}
	roster, err := election.NewRoster(names)
	if err == nil {
		return roster, nil
	}
	klog.V(1).Infof("candidate names clash, numbering them: %v", err)
	for i, c := range cands {
		names[i] = fmt.Sprintf("%s #%d", strings.TrimSpace(c.Name), i+1)
	}
	return election.NewRoster(names)
}

func newRaceTally(r *race) (*raceTally, error) {
	roster, err := rosterNames(r.Candidates)
	if err != nil {
		return nil, errors.Wrapf(err, "could not build roster of race #%d", r.ID)
	}
	t := &raceTally{
		ids:    make([]int, len(r.Candidates)),
		roster: roster,
		voters: r.voters(),
	}
	index := make(map[int]int, len(r.Candidates))
	for i, c := range r.Candidates {
		t.ids[i] = c.ID
		index[c.ID] = i
	}

	t.ballots = make([]election.Ballot, 0, len(t.voters))
	for _, userID := range t.voters {
		raw := make([]int, 0, election.MaxRanks)
		for _, id := range r.userRanking(userID) {
			// marks of deleted candidates are dropped
			if i, ok := index[id]; ok {
				raw = append(raw, i+1)
			}
		}
		t.ballots = append(t.ballots, election.NewBallot(raw, roster))
	}
	t.firsts = election.FirstPreferences(roster, t.ballots)
	return t, nil
}

// tallyRace analyzes the ballots of r. mon may be nil.
func tallyRace(r *race, opts election.Options, mon *monitor) (*raceTally, error) {
	t, err := newRaceTally(r)
	if err != nil {
		return nil, err
	}
	if len(t.ballots) == 0 || t.roster.Len() == 0 {
		return t, nil
	}

	start := time.Now()
	t.report, err = election.Run(t.roster, t.ballots, opts)
	if mon != nil {
		mon.analysisDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if mon != nil {
			mon.analysisErrors.Inc()
		}
		return t, errors.Wrapf(err, "could not analyze race #%d", r.ID)
	}
	return t, nil
}

// candidateAt returns the roster index of the candidate ID.
func (t *raceTally) candidateAt(candidateID int) election.Candidate {
	for i, id := range t.ids {
		if id == candidateID {
			return election.Candidate(i)
		}
	}
	return election.NoCandidate
}

func (t *raceTally) winner() (election.Candidate, bool) {
	if t.report == nil || !t.report.Resolution.HasWinner() {
		return election.NoCandidate, false
	}
	return t.report.Resolution.Winner, true
}

func (t *raceTally) wins(c election.Candidate) int {
	if t.report == nil {
		return 0
	}
	return t.report.Resolution.Wins[c]
}

// topTransfer returns the candidate most often ranked right after c by the
// voters who put c first.
func (t *raceTally) topTransfer(c election.Candidate) (election.Candidate, int) {
	best, bestCount := election.NoCandidate, 0
	if t.report == nil {
		return best, bestCount
	}
	fc, ok := t.report.FirstChoiceOf(c)
	if !ok {
		return best, bestCount
	}
	for i, o := range fc.Others {
		if n := fc.Freqs[i][0]; n > bestCount {
			best, bestCount = o, n
		}
	}
	return best, bestCount
}
