package election

import (
	"math/rand"
	"testing"
)

const (
	candA Candidate = iota
	candB
	candC
)

func testCountHelper(t *testing.T, m *Matrix, a, b Candidate, expected uint32) {
	t.Helper()
	got, err := m.Count(a, b)
	if err != nil {
		t.Fatalf("Count(%d, %d): %v", a, b, err)
	}
	if got != expected {
		t.Errorf("Count(%s, %s) = %d, expected %d", m.Roster().Name(a), m.Roster().Name(b), got, expected)
	}
}

func TestBuildMatrix_small_election(t *testing.T) {
	r := testRoster(t, "A", "B", "C")
	ballots := []Ballot{
		BallotOf(candA, candB),
		BallotOf(candB, candA),
		BallotOf(candA),
	}
	m, err := BuildMatrix(r, ballots, 2)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	testCountHelper(t, m, candA, candB, 2)
	testCountHelper(t, m, candB, candA, 1)
	// nobody ranks C: every ballot ranking the other side counts against it
	testCountHelper(t, m, candA, candC, 3)
	testCountHelper(t, m, candC, candA, 0)
	testCountHelper(t, m, candB, candC, 2)
	testCountHelper(t, m, candC, candB, 0)
	if m.Total() != 3 {
		t.Errorf("Total() = %d, expected 3", m.Total())
	}
	margin, err := m.Margin(candA, candB)
	if err != nil || margin != 1 {
		t.Errorf("Margin(A, B) = %d, %v", margin, err)
	}
}

func TestMatrixCount_missing_entry(t *testing.T) {
	r := testRoster(t, "A", "B")
	m, err := BuildMatrix(r, nil, 1)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	for _, pair := range [][2]Candidate{{candA, candA}, {candA, 7}, {NoCandidate, candB}} {
		_, err := m.Count(pair[0], pair[1])
		missing, ok := err.(*MissingEntryError)
		if !ok {
			t.Errorf("Count(%v) error = %v, expected *MissingEntryError", pair, err)
			continue
		}
		if !IsIntegrityError(missing) {
			t.Errorf("MissingEntryError should be an integrity error")
		}
	}
}

func TestBuildMatrix_unknown_candidate(t *testing.T) {
	big := testRoster(t, "A", "B", "C")
	small := testRoster(t, "A", "B")
	_, err := BuildMatrix(small, []Ballot{NewBallot([]int{3, 1}, big)}, 1)
	if !IsIntegrityError(err) {
		t.Errorf("expected integrity error, got %v", err)
	}
}

func randomBallots(rng *rand.Rand, n, cands int) []Ballot {
	ballots := make([]Ballot, n)
	for i := range ballots {
		depth := rng.Intn(MaxRanks + 1)
		perm := rng.Perm(cands)
		prefs := make([]Candidate, 0, depth)
		for _, c := range perm[:min(depth, cands)] {
			prefs = append(prefs, Candidate(c))
		}
		ballots[i] = BallotOf(prefs...)
	}
	return ballots
}

func TestBuildMatrix_matches_pairwise_scan(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	r := testRoster(t, names...)
	rng := rand.New(rand.NewSource(7))
	ballots := randomBallots(rng, 5*minShardSize+17, len(names))

	m, err := BuildMatrix(r, ballots, 4)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	for _, a := range r.Candidates() {
		for _, b := range r.Candidates() {
			if a == b {
				continue
			}
			var expected uint32
			rankedEither := 0
			for _, ballot := range ballots {
				if ballot.Prefers(a, b) {
					expected++
				}
				if ballot.Position(a) >= 0 || ballot.Position(b) >= 0 {
					rankedEither++
				}
			}
			testCountHelper(t, m, a, b, expected)

			ab, _ := m.Count(a, b)
			ba, _ := m.Count(b, a)
			if int(ab+ba) != rankedEither {
				t.Errorf("Count(%d,%d)+Count(%d,%d) = %d, expected %d ballots ranking either", a, b, b, a, ab+ba, rankedEither)
			}
			if int(ab+ba) > m.Total() {
				t.Errorf("pair (%d,%d) counts more ballots than exist", a, b)
			}
		}
	}
}

func TestBuildMatrix_worker_count_does_not_matter(t *testing.T) {
	r := testRoster(t, "A", "B", "C", "D")
	ballots := randomBallots(rand.New(rand.NewSource(3)), 3*minShardSize, 4)
	one, err := BuildMatrix(r, ballots, 1)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	many, err := BuildMatrix(r, ballots, 8)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	for i := range one.counts {
		if one.counts[i] != many.counts[i] {
			t.Fatalf("cell %d differs: %d vs %d", i, one.counts[i], many.counts[i])
		}
	}
}

func TestMatrixContests(t *testing.T) {
	r := testRoster(t, "A", "B")
	m, err := BuildMatrix(r, []Ballot{BallotOf(candA), BallotOf(candA, candB), BallotOf(candB)}, 1)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	contests, err := m.Contests([]Candidate{candB, candA})
	if err != nil {
		t.Fatalf("Contests: %v", err)
	}
	if len(contests) != 2 {
		t.Fatalf("expected 2 contests, got %d", len(contests))
	}
	c := contests[0]
	if c.A != candB || c.ForA != 1 || c.ForB != 2 || c.Beats() {
		t.Errorf("unexpected contest %+v", c)
	}
	pa, pb := c.Shares()
	if pa+pb < 99.99 || pa+pb > 100.01 {
		t.Errorf("shares %.2f + %.2f should add up to 100", pa, pb)
	}
}
