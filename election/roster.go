package election

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// Candidate identifies a candidate by its index in a Roster.
type Candidate int

// NoCandidate marks an empty ballot slot.
const NoCandidate Candidate = -1

// ExhaustedLabel names the pseudo-candidate a ballot reaches once it has no
// preferences left.
const ExhaustedLabel = "Exhausted"

// Roster is the fixed, ordered candidate list of one analysis run.
type Roster struct {
	names []string
	index map[string]Candidate
}

// NewRoster interns the given names in order. Names are NFC-normalized and
// trimmed; empty or repeated names are rejected.
func NewRoster(names []string) (*Roster, error) {
	r := &Roster{
		names: make([]string, 0, len(names)),
		index: make(map[string]Candidate, len(names)),
	}
	for i, name := range names {
		n := normalizeName(name)
		if n == "" {
			return nil, errors.Errorf("candidate #%d has an empty name", i+1)
		}
		if _, ok := r.index[n]; ok {
			return nil, errors.Errorf("candidate %q is listed twice", n)
		}
		r.index[n] = Candidate(len(r.names))
		r.names = append(r.names, n)
	}
	return r, nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}

// Len returns the number of candidates.
func (r *Roster) Len() int {
	return len(r.names)
}

// Valid reports whether c is a candidate of this roster.
func (r *Roster) Valid(c Candidate) bool {
	return c >= 0 && int(c) < len(r.names)
}

// Name returns the candidate's name, or ExhaustedLabel for NoCandidate.
func (r *Roster) Name(c Candidate) string {
	if !r.Valid(c) {
		return ExhaustedLabel
	}
	return r.names[c]
}

// Lookup finds a candidate by name.
func (r *Roster) Lookup(name string) (Candidate, bool) {
	c, ok := r.index[normalizeName(name)]
	return c, ok
}

// Names returns a copy of the names in roster order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Candidates returns every candidate in roster order.
func (r *Roster) Candidates() []Candidate {
	out := make([]Candidate, len(r.names))
	for i := range out {
		out[i] = Candidate(i)
	}
	return out
}

// NamesOf maps candidates to their names.
func (r *Roster) NamesOf(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = r.Name(c)
	}
	return out
}
