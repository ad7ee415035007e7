package election

import (
	"reflect"
	"testing"
)

func testResolveHelper(t *testing.T, r *Roster, ballots ...Ballot) *Resolution {
	t.Helper()
	m, err := BuildMatrix(r, ballots, 1)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	res, err := Resolve(m)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// wins must agree with the matrix
	for _, a := range r.Candidates() {
		wins := 0
		for _, b := range r.Candidates() {
			if a == b {
				continue
			}
			ab, _ := m.Count(a, b)
			ba, _ := m.Count(b, a)
			if ab >= ba {
				wins++
			}
			if a == res.Winner && ba > ab {
				t.Errorf("winner %s is strictly beaten by %s", r.Name(a), r.Name(b))
			}
		}
		if res.Wins[a] != wins {
			t.Errorf("Wins[%s] = %d, expected %d", r.Name(a), res.Wins[a], wins)
		}
	}
	return res
}

func TestResolve_winner(t *testing.T) {
	r := testRoster(t, "A", "B", "C")
	res := testResolveHelper(t, r,
		BallotOf(candA, candB),
		BallotOf(candB, candA),
		BallotOf(candA),
	)
	if res.Winner != candA {
		t.Errorf("Winner = %s, expected A", r.Name(res.Winner))
	}
	if !reflect.DeepEqual(res.Wins, []int{2, 1, 0}) {
		t.Errorf("Wins = %v", res.Wins)
	}
}

func TestResolve_cycle(t *testing.T) {
	r := testRoster(t, "A", "B", "C")
	res := testResolveHelper(t, r,
		BallotOf(candA, candB, candC),
		BallotOf(candB, candC, candA),
		BallotOf(candC, candA, candB),
	)
	if res.HasWinner() {
		t.Errorf("expected a cycle, got winner %s", r.Name(res.Winner))
	}
	if !reflect.DeepEqual(res.Ranking, []Candidate{candA, candB, candC}) {
		t.Errorf("equal win counts should keep roster order, got %v", res.Ranking)
	}
}

func TestResolve_ties_count_as_wins(t *testing.T) {
	r := testRoster(t, "A", "B")
	res := testResolveHelper(t, r, BallotOf(candA, candB), BallotOf(candB, candA))
	if res.Winner != candA {
		t.Errorf("universal tie should report the first unbeaten candidate, got %s", r.Name(res.Winner))
	}
	if !reflect.DeepEqual(res.Wins, []int{1, 1}) {
		t.Errorf("Wins = %v, expected [1 1]", res.Wins)
	}
}

func TestResolve_ranking_by_wins(t *testing.T) {
	r := testRoster(t, "A", "B", "C")
	res := testResolveHelper(t, r,
		BallotOf(candC, candB, candA),
		BallotOf(candC, candB, candA),
		BallotOf(candA),
	)
	if res.Winner != candC {
		t.Errorf("Winner = %s, expected C", r.Name(res.Winner))
	}
	if !reflect.DeepEqual(res.Ranking, []Candidate{candC, candB, candA}) {
		t.Errorf("Ranking = %v, expected [C B A]", r.NamesOf(res.Ranking))
	}
}
