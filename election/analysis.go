// Package election analyzes single-seat ranked-choice ballots: head-to-head
// preference counts, the Condorcet winner, and how each candidate's voters
// transfer to later choices.
package election

import (
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog"
)

// Options tunes a Run.
type Options struct {
	// Workers bounds the goroutines used for the pairwise matrix. Zero or
	// less uses one per CPU.
	Workers int
}

// Report bundles every result of one analysis run.
type Report struct {
	Roster     *Roster
	Ballots    int
	Matrix     *Matrix
	Resolution *Resolution
	// LaterChoices and ScoreMatrices follow Resolution.Ranking.
	LaterChoices  []FirstChoice
	ScoreMatrices [NumSchemes][][]float64
	// RankDistribution follows Resolution.Ranking.
	RankDistribution [][MaxRanks + 1]int
	Hierarchy        *Hierarchy
}

// Ranking is shorthand for Resolution.Ranking.
func (r *Report) Ranking() []Candidate {
	return r.Resolution.Ranking
}

// FirstChoiceOf returns the later-choices analysis of c.
func (r *Report) FirstChoiceOf(c Candidate) (*FirstChoice, bool) {
	for i := range r.LaterChoices {
		if r.LaterChoices[i].Candidate == c {
			return &r.LaterChoices[i], true
		}
	}
	return nil, false
}

func newTimer(stage string) func() {
	start := time.Now()
	return func() {
		klog.V(1).Infof("%s took %v", stage, time.Since(start))
	}
}

// Run analyzes ballots against roster. Integrity errors abort the run and no
// partial report is returned.
func Run(roster *Roster, ballots []Ballot, opts Options) (*Report, error) {
	done := newTimer("pairwise matrix")
	matrix, err := BuildMatrix(roster, ballots, opts.Workers)
	done()
	if err != nil {
		return nil, errors.Wrap(err, "could not build pairwise matrix")
	}

	res, err := Resolve(matrix)
	if err != nil {
		return nil, errors.Wrap(err, "could not resolve Condorcet winner")
	}

	done = newTimer("later choices")
	later, err := AnalyzeLaterChoices(roster, ballots, res.Ranking)
	done()
	if err != nil {
		return nil, errors.Wrap(err, "could not analyze later choices")
	}

	return &Report{
		Roster:           roster,
		Ballots:          len(ballots),
		Matrix:           matrix,
		Resolution:       res,
		LaterChoices:     later,
		ScoreMatrices:    ScoreMatrices(later),
		RankDistribution: RankDistribution(ballots, res.Ranking),
		Hierarchy:        BuildHierarchy(roster, ballots),
	}, nil
}
