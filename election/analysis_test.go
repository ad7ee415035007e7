package election

import (
	"reflect"
	"testing"
)

func TestOrderByFirstPreferences(t *testing.T) {
	r := testRoster(t, "A", "B", "C", "D")
	ballots := []Ballot{
		BallotOf(1, 0),
		BallotOf(1),
		BallotOf(2, 3),
		BallotOf(0),
	}
	if got := FirstPreferences(r, ballots); !reflect.DeepEqual(got, []int{1, 2, 1, 0}) {
		t.Errorf("FirstPreferences = %v", got)
	}

	sorted, out, err := OrderByFirstPreferences(r, ballots, false)
	if err != nil {
		t.Fatalf("OrderByFirstPreferences: %v", err)
	}
	if !reflect.DeepEqual(sorted.Names(), []string{"B", "A", "C"}) {
		t.Errorf("sorted names = %v", sorted.Names())
	}
	// B A C -> indices 0 1 2, D dropped
	testPrefsHelper(t, out[0], 0, 1)
	testPrefsHelper(t, out[2], 2)

	kept, _, err := OrderByFirstPreferences(r, ballots, true)
	if err != nil {
		t.Fatalf("OrderByFirstPreferences: %v", err)
	}
	if !reflect.DeepEqual(kept.Names(), []string{"B", "A", "C", "D"}) {
		t.Errorf("kept names = %v", kept.Names())
	}
}

func TestRankDistribution(t *testing.T) {
	ballots := []Ballot{
		BallotOf(candA, candB),
		BallotOf(candB),
		{},
	}
	dist := RankDistribution(ballots, []Candidate{candB, candA})
	if dist[0] != [MaxRanks + 1]int{1, 1, 0, 0, 0, 1} {
		t.Errorf("B distribution = %v", dist[0])
	}
	if dist[1] != [MaxRanks + 1]int{1, 0, 0, 0, 0, 2} {
		t.Errorf("A distribution = %v", dist[1])
	}
}

func TestRun(t *testing.T) {
	r := testRoster(t, "A", "B", "C")
	ballots := []Ballot{
		BallotOf(candC, candB, candA),
		BallotOf(candC, candB, candA),
		BallotOf(candA),
		BallotOf(candB, candC),
	}
	report, err := Run(r, ballots, Options{Workers: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Ballots != 4 {
		t.Errorf("Ballots = %d", report.Ballots)
	}
	if !report.Resolution.HasWinner() || report.Resolution.Winner != candC {
		t.Errorf("expected C to win, got %s", r.Name(report.Resolution.Winner))
	}
	ranking := report.Ranking()
	for i, fc := range report.LaterChoices {
		if fc.Candidate != ranking[i] {
			t.Errorf("later choices not in ranking order at %d", i)
		}
	}
	c, ok := report.FirstChoiceOf(candC)
	if !ok || c.Voters != 2 {
		t.Fatalf("FirstChoiceOf(C) = %+v, %v", c, ok)
	}
	if f, _ := c.FreqOf(candB); f != (RankFreq{2, 0, 0, 0}) {
		t.Errorf("C -> B freqs = %v", f)
	}
	if len(report.ScoreMatrices[Borda]) != r.Len()+1 {
		t.Errorf("score matrix has %d rows", len(report.ScoreMatrices[Borda]))
	}
	for i, row := range report.RankDistribution {
		total := 0
		for _, v := range row {
			total += v
		}
		if total != len(ballots) {
			t.Errorf("rank distribution row %d sums to %d", i, total)
		}
	}
	if report.Hierarchy.Exhausted(candC, candB, candA) != 2 {
		t.Errorf("hierarchy lost the C>B>A path")
	}
}

func TestRun_integrity_error(t *testing.T) {
	big := testRoster(t, "A", "B", "C")
	small := testRoster(t, "A", "B")
	report, err := Run(small, []Ballot{NewBallot([]int{3}, big)}, Options{})
	if err == nil || !IsIntegrityError(err) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if report != nil {
		t.Errorf("no partial report may be returned")
	}
}
