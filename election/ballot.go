package election

import (
	"strings"

	"k8s.io/klog"
)

// MaxRanks is the number of preferences a voter may express.
const MaxRanks = 5

// MaxLaterChoices is the longest possible later-choices sequence: every
// rank but the first.
const MaxLaterChoices = MaxRanks - 1

// Tokens that ingestion treats as "no preference" in a ranking column.
var blankTokens = map[string]struct{}{
	"":          {},
	"overvote":  {},
	"undervote": {},
	"Write-in":  {},
}

// IsBlankToken reports whether an exported ranking cell names no candidate.
func IsBlankToken(tok string) bool {
	_, ok := blankTokens[strings.TrimSpace(tok)]
	return ok
}

// Ballot is one voter's ranking. Preferences are left-packed and never
// repeat a candidate. The zero value is a ballot with no preferences.
type Ballot struct {
	prefs [MaxRanks]Candidate
	n     uint8
}

// BallotOf builds a ballot from candidates in preference order. Repeats and
// NoCandidate entries are skipped so the result stays left-packed; anything
// past MaxRanks expressed preferences is dropped.
func BallotOf(cands ...Candidate) Ballot {
	var b Ballot
	for _, c := range cands {
		b.push(c)
	}
	return b
}

// NewBallot builds a ballot from a raw ranking of 1-based roster indices
// where 0 is a blank slot. Only the first MaxRanks slots are read. An index
// outside the roster is logged and treated as blank.
func NewBallot(raw []int, roster *Roster) Ballot {
	var b Ballot
	for slot, v := range raw {
		if slot == MaxRanks {
			break
		}
		if v == 0 {
			continue
		}
		c := Candidate(v - 1)
		if !roster.Valid(c) {
			klog.Warningf("ignoring unknown candidate index %d in rank %d", v, slot+1)
			continue
		}
		b.push(c)
	}
	return b
}

// BallotFromTokens builds a ballot from candidate names as they appear in
// an exported ranking. Overvotes, undervotes and write-ins count as blank;
// a name missing from the roster is logged and treated as blank.
func BallotFromTokens(tokens []string, roster *Roster) Ballot {
	var b Ballot
	for slot, tok := range tokens {
		if slot == MaxRanks {
			break
		}
		tok = strings.TrimSpace(tok)
		if IsBlankToken(tok) {
			continue
		}
		c, ok := roster.Lookup(tok)
		if !ok {
			klog.Warningf("ignoring unknown candidate %q in rank %d", tok, slot+1)
			continue
		}
		b.push(c)
	}
	return b
}

func (b *Ballot) push(c Candidate) {
	if c < 0 || int(b.n) == MaxRanks || b.Position(c) >= 0 {
		return
	}
	b.prefs[b.n] = c
	b.n++
}

// Len returns the number of expressed preferences.
func (b Ballot) Len() int {
	return int(b.n)
}

// Slot returns the candidate at 0-based rank i, or NoCandidate.
func (b Ballot) Slot(i int) Candidate {
	if i < 0 || i >= int(b.n) {
		return NoCandidate
	}
	return b.prefs[i]
}

// First returns the first preference.
func (b Ballot) First() (Candidate, bool) {
	if b.n == 0 {
		return NoCandidate, false
	}
	return b.prefs[0], true
}

// Prefs returns the expressed preferences in order.
func (b Ballot) Prefs() []Candidate {
	out := make([]Candidate, b.n)
	copy(out, b.prefs[:b.n])
	return out
}

// Position returns the 0-based rank of c, or -1 if c is not ranked.
func (b Ballot) Position(c Candidate) int {
	for i := 0; i < int(b.n); i++ {
		if b.prefs[i] == c {
			return i
		}
	}
	return -1
}

// Prefers reports whether the ballot ranks a ahead of b. A ranked candidate
// is preferred over an unranked one.
func (b Ballot) Prefers(x, y Candidate) bool {
	px, py := b.Position(x), b.Position(y)
	if px < 0 {
		return false
	}
	return py < 0 || px < py
}

// Raw returns the ballot as MaxRanks 1-based roster indices, 0 for blank.
func (b Ballot) Raw() [MaxRanks]int {
	var raw [MaxRanks]int
	for i := 0; i < int(b.n); i++ {
		raw[i] = int(b.prefs[i]) + 1
	}
	return raw
}
