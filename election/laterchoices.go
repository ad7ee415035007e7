package election

import (
	"fmt"

	"github.com/pkg/errors"
)

// FlowTable counts transitions between labeled preference depths:
// from label -> to label -> ballots.
type FlowTable map[string]map[string]int

func (t FlowTable) add(from, to string) {
	row, ok := t[from]
	if !ok {
		row = make(map[string]int)
		t[from] = row
	}
	row[to]++
}

// FlowLabel names a candidate at a 1-based preference depth.
func FlowLabel(depth int, name string) string {
	return fmt.Sprintf("%d: %s", depth, name)
}

// FirstChoice describes where the later preferences of one candidate's
// first-choice voters go.
type FirstChoice struct {
	Candidate Candidate
	// Voters is the number of ballots ranking Candidate first.
	Voters int
	// Others lists every other candidate in ranking order; Freqs is aligned
	// with it.
	Others []Candidate
	Freqs  []RankFreq
	// Exhausted counts, per later position i, the ballots with no
	// preference left at i.
	Exhausted RankFreq
	Flows     FlowTable
}

// FreqOf returns the rank frequencies of another candidate.
func (fc *FirstChoice) FreqOf(c Candidate) (RankFreq, bool) {
	for i, o := range fc.Others {
		if o == c {
			return fc.Freqs[i], true
		}
	}
	return RankFreq{}, false
}

// AllFreqs returns Freqs followed by the exhausted frequencies.
func (fc *FirstChoice) AllFreqs() []RankFreq {
	out := make([]RankFreq, 0, len(fc.Freqs)+1)
	out = append(out, fc.Freqs...)
	return append(out, fc.Exhausted)
}

// LaterChoices returns the ballot's preferences after its first choice.
func LaterChoices(b Ballot) []Candidate {
	if b.Len() < 2 {
		return nil
	}
	prefs := b.Prefs()
	return prefs[1:]
}

// AnalyzeLaterChoices builds, for every candidate in ranking order, the
// rank frequencies and flow table of its first-choice voters.
func AnalyzeLaterChoices(roster *Roster, ballots []Ballot, ranking []Candidate) ([]FirstChoice, error) {
	byFirst := make(map[Candidate][][]Candidate, len(ranking))
	for _, b := range ballots {
		first, ok := b.First()
		if !ok {
			continue
		}
		byFirst[first] = append(byFirst[first], LaterChoices(b))
	}

	out := make([]FirstChoice, 0, len(ranking))
	for _, x := range ranking {
		fc, err := analyzeFirstChoice(roster, x, byFirst[x], ranking)
		if err != nil {
			return nil, err
		}
		out = append(out, fc)
	}
	return out, nil
}

func analyzeFirstChoice(roster *Roster, x Candidate, later [][]Candidate, ranking []Candidate) (FirstChoice, error) {
	fc := FirstChoice{
		Candidate: x,
		Voters:    len(later),
		Others:    make([]Candidate, 0, len(ranking)),
		Flows:     make(FlowTable),
	}
	slot := make(map[Candidate]int, len(ranking))
	for _, c := range ranking {
		if c == x {
			continue
		}
		slot[c] = len(fc.Others)
		fc.Others = append(fc.Others, c)
	}
	fc.Freqs = make([]RankFreq, len(fc.Others))

	xName := roster.Name(x)
	for _, seq := range later {
		if len(seq) > MaxLaterChoices {
			return FirstChoice{}, errors.Wrapf(ErrLaterChoicesOverflow, "%d later choices for first choice %s", len(seq), xName)
		}
		for pos, c := range seq {
			i, ok := slot[c]
			if !ok {
				return FirstChoice{}, errors.Wrapf(ErrUnknownCandidate, "candidate index %d after first choice %s", c, xName)
			}
			fc.Freqs[i][pos]++
		}
		for pos := range fc.Exhausted {
			if len(seq) <= pos {
				fc.Exhausted[pos]++
			}
		}

		// depth 1 is x itself; nothing is recorded past the last rank
		for i := 0; i <= len(seq) && i+2 <= MaxRanks; i++ {
			prev := xName
			if i > 0 {
				prev = roster.Name(seq[i-1])
			}
			next := ExhaustedLabel
			if i < len(seq) {
				next = roster.Name(seq[i])
			}
			fc.Flows.add(FlowLabel(i+1, prev), FlowLabel(i+2, next))
		}
	}
	return fc, nil
}

// ScoreMatrices reduces every first-choice analysis into one square matrix
// per scheme. Rows and columns follow the analyses' order with exhaustion
// as the last column; a candidate's own cell is zero and a final all-zero
// row stands for exhaustion, which never transfers.
func ScoreMatrices(analyses []FirstChoice) [NumSchemes][][]float64 {
	var out [NumSchemes][][]float64
	size := len(analyses) + 1
	for i := range out {
		out[i] = make([][]float64, 0, size)
	}
	for _, fc := range analyses {
		row := make([]Scores, 0, size)
		for _, other := range analyses {
			if other.Candidate == fc.Candidate {
				row = append(row, Scores{})
				continue
			}
			f, _ := fc.FreqOf(other.Candidate)
			row = append(row, Score(f))
		}
		row = append(row, Score(fc.Exhausted))
		for scheme := range out {
			r := make([]float64, size)
			for col, s := range row {
				r[col] = s[scheme]
			}
			out[scheme] = append(out[scheme], r)
		}
	}
	for i := range out {
		out[i] = append(out[i], make([]float64, size))
	}
	return out
}
