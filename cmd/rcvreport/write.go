package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/semog/rankbot/election"
	"k8s.io/klog"
)

// writeFile creates dir/name and hands a buffered writer to fill.
func writeFile(dir, name string, fill func(w io.Writer) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", path)
	}
	bw := bufio.NewWriter(f)
	if err := fill(bw); err != nil {
		f.Close()
		return errors.Wrapf(err, "could not write %s", path)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "could not flush %s", path)
	}
	return errors.Wrapf(f.Close(), "could not close %s", path)
}

func writeJSON(dir, name string, v interface{}) error {
	return writeFile(dir, name, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(v)
	})
}

// writeReport stores every output file of the report under dir.
func writeReport(dir string, rep *election.Report) error {
	for _, sub := range []string{dir, filepath.Join(dir, "later_choices"), filepath.Join(dir, "flows")} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return errors.Wrapf(err, "could not create %s", sub)
		}
	}

	klog.Info("Saving pairwise matrix")
	if err := writeFile(dir, "matrix.csv", func(w io.Writer) error {
		return writeMatrixCSV(w, rep.Matrix)
	}); err != nil {
		return err
	}

	if err := writeFile(dir, "sorted_cands.tsv", func(w io.Writer) error {
		return writeTabbed(w, rep.Roster.NamesOf(rep.Ranking()))
	}); err != nil {
		return err
	}

	klog.Info("Writing distribution of ranks")
	if err := writeFile(dir, "rank-distributions.tsv", func(w io.Writer) error {
		return writeRankDistribution(w, rep.RankDistribution)
	}); err != nil {
		return err
	}

	klog.Info("Writing later choices data")
	voters := make([]string, len(rep.LaterChoices))
	for i := range rep.LaterChoices {
		fc := &rep.LaterChoices[i]
		voters[i] = strconv.Itoa(fc.Voters)
		if err := writeJSON(filepath.Join(dir, "later_choices"), fmt.Sprintf("%d.json", i), fc.AllFreqs()); err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(dir, "flows"), fmt.Sprintf("%d.json", i), fc.Flows); err != nil {
			return err
		}
	}
	if err := writeFile(dir, "n_voters.tsv", func(w io.Writer) error {
		return writeTabbed(w, voters)
	}); err != nil {
		return err
	}

	klog.Info("Writing pairwise graph data")
	if err := writeJSON(dir, "matrices.json", rep.ScoreMatrices); err != nil {
		return err
	}
	return writeJSON(dir, "tree.json", rep.Hierarchy.Tree())
}

// writeTabbed writes every field followed by a tab.
func writeTabbed(w io.Writer, fields []string) error {
	for _, f := range fields {
		if _, err := io.WriteString(w, f+"\t"); err != nil {
			return err
		}
	}
	return nil
}

// writeMatrixCSV writes the pairwise counts in roster order. Rows name the
// preferred candidate; the diagonal is empty.
func writeMatrixCSV(w io.Writer, m *election.Matrix) error {
	roster := m.Roster()
	var sb strings.Builder
	sb.WriteString("," + strings.Join(roster.Names(), ",") + "\n")
	for _, a := range roster.Candidates() {
		sb.WriteString(roster.Name(a) + ",")
		for _, b := range roster.Candidates() {
			if a == b {
				sb.WriteByte(',')
				continue
			}
			n, err := m.Count(a, b)
			if err != nil {
				return err
			}
			sb.WriteString(strconv.FormatUint(uint64(n), 10) + ",")
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRankDistribution(w io.Writer, dist [][election.MaxRanks + 1]int) error {
	if _, err := io.WriteString(w, "cand\trank\tfreq\n"); err != nil {
		return err
	}
	for i, freqs := range dist {
		for rank, n := range freqs {
			if _, err := fmt.Fprintf(w, "%d\t%d\t%d\n", i, rank+1, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// printSummary writes the verdict and the markdown tables to w.
func printSummary(w io.Writer, rep *election.Report) error {
	roster := rep.Roster
	res := rep.Resolution
	if res.HasWinner() {
		fmt.Fprintf(w, "%s is the Condorcet winner\n", roster.Name(res.Winner))
	} else {
		fmt.Fprintln(w, "No Condorcet winner found, there is a Condorcet cycle")
	}

	fmt.Fprint(w, "\nCandidate | Number of pairwise wins\n--- | ---\n")
	for _, c := range rep.Ranking() {
		fmt.Fprintf(w, "%s | %d\n", roster.Name(c), res.Wins[c])
	}

	fmt.Fprint(w, "\nCandidate A | Result | Candidate B | Votes for A | Votes for B | % for A | % for B | Margin\n")
	fmt.Fprint(w, "--- | --- | --- | --- | --- | --- | --- | ---\n")
	contests, err := rep.Matrix.Contests(rep.Ranking())
	if err != nil {
		return err
	}
	for _, c := range contests {
		result := "beats ✅"
		if !c.Beats() {
			result = "loses to ❌"
		}
		margin, err := rep.Matrix.Margin(c.A, c.B)
		if err != nil {
			return err
		}
		pa, pb := c.Shares()
		fmt.Fprintf(w, "%s | %s | %s | %d | %d | %.2f%% | %.2f%% | %+d\n",
			roster.Name(c.A), result, roster.Name(c.B), c.ForA, c.ForB, pa, pb, margin)
	}

	fmt.Fprint(w, "\n| | "+strings.Join(roster.Names(), " | ")+" |\n| --- | ")
	fmt.Fprint(w, strings.Repeat("--- | ", roster.Len())+"\n")
	for _, a := range roster.Candidates() {
		fmt.Fprintf(w, "%s | ", roster.Name(a))
		for _, b := range roster.Candidates() {
			if a == b {
				fmt.Fprint(w, "| ")
				continue
			}
			n, err := rep.Matrix.Count(a, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d | ", n)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprint(w, "\nScheme | Strongest transfer | Score\n--- | --- | ---\n")
	for scheme := election.Scheme(0); scheme < election.NumSchemes; scheme++ {
		from, to, score := strongestTransfer(rep, scheme)
		if from == election.NoCandidate {
			fmt.Fprintf(w, "%s | none | 0\n", scheme)
			continue
		}
		fmt.Fprintf(w, "%s | %s → %s | %.3f\n", scheme, roster.Name(from), roster.Name(to), score)
	}
	return nil
}

// strongestTransfer finds the largest candidate-to-candidate cell of the
// scheme's score matrix, ignoring exhaustion. Ties keep the first cell.
func strongestTransfer(rep *election.Report, scheme election.Scheme) (election.Candidate, election.Candidate, float64) {
	from, to, best := election.NoCandidate, election.NoCandidate, 0.0
	m := rep.ScoreMatrices[scheme]
	for i := range rep.LaterChoices {
		for j := range rep.LaterChoices {
			if i == j || m[i][j] <= best {
				continue
			}
			from, to, best = rep.LaterChoices[i].Candidate, rep.LaterChoices[j].Candidate, m[i][j]
		}
	}
	return from, to, best
}
