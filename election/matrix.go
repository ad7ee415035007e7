package election

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog"
)

// minShardSize keeps tiny ballot sets from being split across goroutines.
const minShardSize = 1024

// Matrix holds, for every ordered pair of distinct candidates (a, b), the
// number of ballots ranking a ahead of b. A ballot that ranks only one of
// the pair counts for that one; a ballot ranking neither counts for none.
type Matrix struct {
	roster  *Roster
	ballots int
	counts  []uint32
}

// BuildMatrix counts every head-to-head preference in ballots. The scan is
// sharded over at most workers goroutines; each shard fills its own
// partial matrix and the partials are summed once all shards finish.
func BuildMatrix(roster *Roster, ballots []Ballot, workers int) (*Matrix, error) {
	n := roster.Len()
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	shards := (len(ballots) + minShardSize - 1) / minShardSize
	if shards > workers {
		shards = workers
	}
	if shards < 1 {
		shards = 1
	}
	size := (len(ballots) + shards - 1) / shards

	partials := make([][]uint32, shards)
	var g errgroup.Group
	g.SetLimit(workers)
	for s := 0; s < shards; s++ {
		s := s
		lo := s * size
		hi := min(lo+size, len(ballots))
		if lo > hi {
			lo = hi
		}
		g.Go(func() error {
			counts, err := countShard(n, ballots[lo:hi])
			if err != nil {
				return errors.Wrapf(err, "ballot shard [%d, %d)", lo, hi)
			}
			partials[s] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Matrix{
		roster:  roster,
		ballots: len(ballots),
		counts:  make([]uint32, n*n),
	}
	for _, p := range partials {
		for i, v := range p {
			m.counts[i] += v
		}
	}
	klog.V(2).Infof("pairwise matrix: %d candidates, %d ballots, %d shards", n, len(ballots), shards)
	return m, nil
}

func countShard(n int, ballots []Ballot) ([]uint32, error) {
	counts := make([]uint32, n*n)
	ranked := make([]bool, n)
	for bi := range ballots {
		b := &ballots[bi]
		k := b.Len()
		for i := 0; i < k; i++ {
			c := b.prefs[i]
			if int(c) >= n {
				return nil, errors.Wrapf(ErrUnknownCandidate, "candidate index %d, roster of %d", c, n)
			}
			ranked[c] = true
		}
		for i := 0; i < k; i++ {
			row := int(b.prefs[i]) * n
			for j := i + 1; j < k; j++ {
				counts[row+int(b.prefs[j])]++
			}
			for other := 0; other < n; other++ {
				if !ranked[other] {
					counts[row+other]++
				}
			}
		}
		for i := 0; i < k; i++ {
			ranked[b.prefs[i]] = false
		}
	}
	return counts, nil
}

// Roster returns the candidates the matrix was built for.
func (m *Matrix) Roster() *Roster {
	return m.roster
}

// Total returns the number of ballots scanned.
func (m *Matrix) Total() int {
	return m.ballots
}

// Count returns the number of ballots preferring a over b. Self-pairs and
// candidates outside the roster have no entry.
func (m *Matrix) Count(a, b Candidate) (uint32, error) {
	if a == b || !m.roster.Valid(a) || !m.roster.Valid(b) {
		return 0, &MissingEntryError{A: m.roster.Name(a), B: m.roster.Name(b)}
	}
	return m.counts[int(a)*m.roster.Len()+int(b)], nil
}

// Margin returns Count(a, b) - Count(b, a).
func (m *Matrix) Margin(a, b Candidate) (int, error) {
	ab, err := m.Count(a, b)
	if err != nil {
		return 0, err
	}
	ba, err := m.Count(b, a)
	if err != nil {
		return 0, err
	}
	return int(ab) - int(ba), nil
}

// Contest is one ordered head-to-head comparison.
type Contest struct {
	A, B       Candidate
	ForA, ForB uint32
}

// Beats reports whether A is not strictly beaten by B.
func (c Contest) Beats() bool {
	return c.ForA >= c.ForB
}

// Shares returns the percentage of decided ballots going to A and to B.
func (c Contest) Shares() (float64, float64) {
	sum := float64(c.ForA + c.ForB)
	if sum == 0 {
		return 0, 0
	}
	return float64(c.ForA) / sum * 100, float64(c.ForB) / sum * 100
}

// Contests lists every ordered head-to-head among order, row by row.
func (m *Matrix) Contests(order []Candidate) ([]Contest, error) {
	out := make([]Contest, 0, len(order)*len(order))
	for _, a := range order {
		for _, b := range order {
			if a == b {
				continue
			}
			ab, err := m.Count(a, b)
			if err != nil {
				return nil, err
			}
			ba, err := m.Count(b, a)
			if err != nil {
				return nil, err
			}
			out = append(out, Contest{A: a, B: b, ForA: ab, ForB: ba})
		}
	}
	return out, nil
}
