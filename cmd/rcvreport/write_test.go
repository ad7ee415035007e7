package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/semog/rankbot/election"
)

const testCSV = `Ann,Ben
Ben,Ann
Ann,Cy
undervote,Ben
`

func testReportHelper(t *testing.T) (*election.Roster, []election.Ballot, *election.Report) {
	t.Helper()
	rows, err := readTokenRows(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("could not read rows: %v", err)
	}
	roster, ballots, err := ballotsFromRows(rows)
	if err != nil {
		t.Fatalf("could not build ballots: %v", err)
	}
	rep, err := election.Run(roster, ballots, election.Options{Workers: 2})
	if err != nil {
		t.Fatalf("could not run analysis: %v", err)
	}
	return roster, ballots, rep
}

func readOutput(t *testing.T, dir, name string) string {
	t.Helper()
	buf, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("could not read %s: %v", name, err)
	}
	return string(buf)
}

func TestBallotsFromRows(t *testing.T) {
	roster, ballots, _ := testReportHelper(t)

	// Cy has no first choice and is dropped
	if got := strings.Join(roster.Names(), ","); got != "Ann,Ben" {
		t.Errorf("roster = %s, expected Ann,Ben", got)
	}
	if len(ballots) != 4 {
		t.Fatalf("got %d ballots, expected 4", len(ballots))
	}
	if ballots[2].Len() != 1 {
		t.Errorf("ballot 3 = %v, expected only Ann", ballots[2].Prefs())
	}
	if c, ok := ballots[3].First(); !ok || roster.Name(c) != "Ben" {
		t.Errorf("ballot 4 first choice = %v, expected Ben", c)
	}
}

func TestWriteReport(t *testing.T) {
	_, _, rep := testReportHelper(t)
	dir := t.TempDir()
	if err := writeReport(dir, rep); err != nil {
		t.Fatalf("writeReport failed: %v", err)
	}

	if got := readOutput(t, dir, "matrix.csv"); got != ",Ann,Ben\nAnn,,2,\nBen,2,,\n" {
		t.Errorf("matrix.csv = %q", got)
	}
	if got := readOutput(t, dir, "sorted_cands.tsv"); got != "Ann\tBen\t" {
		t.Errorf("sorted_cands.tsv = %q", got)
	}
	if got := readOutput(t, dir, "n_voters.tsv"); got != "2\t2\t" {
		t.Errorf("n_voters.tsv = %q", got)
	}
	dist := readOutput(t, dir, "rank-distributions.tsv")
	if !strings.HasPrefix(dist, "cand\trank\tfreq\n0\t1\t2\n0\t2\t1\n") {
		t.Errorf("rank-distributions.tsv = %q", dist)
	}

	var freqs [][election.MaxLaterChoices]int
	if err := json.Unmarshal([]byte(readOutput(t, dir, "later_choices/0.json")), &freqs); err != nil {
		t.Fatalf("could not decode later choices: %v", err)
	}
	if len(freqs) != 2 || freqs[0][0] != 1 || freqs[1][0] != 1 {
		t.Errorf("later_choices/0.json = %v", freqs)
	}

	var flows map[string]map[string]int
	if err := json.Unmarshal([]byte(readOutput(t, dir, "flows/0.json")), &flows); err != nil {
		t.Fatalf("could not decode flows: %v", err)
	}
	if flows["1: Ann"]["2: Ben"] != 1 {
		t.Errorf("flows/0.json = %v", flows)
	}

	var matrices [][][]float64
	if err := json.Unmarshal([]byte(readOutput(t, dir, "matrices.json")), &matrices); err != nil {
		t.Fatalf("could not decode matrices: %v", err)
	}
	if len(matrices) != int(election.NumSchemes) || len(matrices[0]) != 3 || len(matrices[0][0]) != 3 {
		t.Errorf("matrices.json has the wrong shape: %v", matrices)
	}

	var tree election.Node
	if err := json.Unmarshal([]byte(readOutput(t, dir, "tree.json")), &tree); err != nil {
		t.Fatalf("could not decode tree: %v", err)
	}
	if tree.Name != "Root" || tree.Value == nil || *tree.Value != 4 {
		t.Errorf("tree root = %+v", tree)
	}
}

func TestPrintSummary(t *testing.T) {
	_, _, rep := testReportHelper(t)
	var buf bytes.Buffer
	if err := printSummary(&buf, rep); err != nil {
		t.Fatalf("printSummary failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Ann is the Condorcet winner",
		"Ann | 1\n",
		"Ann | beats ✅ | Ben | 2 | 2 | 50.00% | 50.00% | +0\n",
		"first transfer | Ann → Ben | 1.000\n",
		"borda | Ann → Ben | 4.000\n",
		"| | Ann | Ben |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary does not contain %q:\n%s", want, out)
		}
	}
}

func TestCompactRoundTrip(t *testing.T) {
	roster, ballots, _ := testReportHelper(t)
	dir := t.TempDir()
	if err := writeCompact(dir, roster, ballots); err != nil {
		t.Fatalf("writeCompact failed: %v", err)
	}
	if got := readOutput(t, dir, "cands.csv"); got != "Ann,Ben," {
		t.Errorf("cands.csv = %q", got)
	}
	roster2, ballots2, err := loadCompact(filepath.Join(dir, "ballots.bin"), filepath.Join(dir, "cands.csv"))
	if err != nil {
		t.Fatalf("loadCompact failed: %v", err)
	}
	if roster2.Len() != roster.Len() || len(ballots2) != len(ballots) {
		t.Fatalf("round trip changed sizes")
	}
	for i := range ballots {
		if ballots[i].Raw() != ballots2[i].Raw() {
			t.Errorf("ballot %d = %v, expected %v", i, ballots2[i].Raw(), ballots[i].Raw())
		}
	}
}

func TestRun_requiresInput(t *testing.T) {
	if err := run("", "", "", t.TempDir(), "", 0, true); err == nil {
		t.Errorf("expected an error without input")
	}
}
