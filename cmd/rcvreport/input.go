package main

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/semog/rankbot/election"
	"k8s.io/klog"
)

// loadCompact reads a compact ballot file and its candidate list.
func loadCompact(ballotsPath, candsPath string) (*election.Roster, []election.Ballot, error) {
	cf, err := os.Open(candsPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not open candidates")
	}
	defer cf.Close()
	roster, err := election.ReadRoster(cf)
	if err != nil {
		return nil, nil, err
	}

	bf, err := os.Open(ballotsPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not open ballots")
	}
	defer bf.Close()
	ballots, err := election.ReadBallots(bf, roster)
	if err != nil {
		return nil, nil, err
	}
	return roster, ballots, nil
}

// readTokenRows reads a CSV export where every row holds one voter's
// choices as candidate names. Rows may have different lengths.
func readTokenRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse ballot csv")
	}
	return rows, nil
}

// ballotsFromRows interns every named candidate in order of appearance,
// builds the ballots and reorders both by first preferences. Candidates
// nobody ranked first are dropped.
func ballotsFromRows(rows [][]string) (*election.Roster, []election.Ballot, error) {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, row := range rows {
		for slot, tok := range row {
			if slot == election.MaxRanks {
				break
			}
			if election.IsBlankToken(tok) {
				continue
			}
			probe, err := election.NewRoster([]string{tok})
			if err != nil {
				return nil, nil, err
			}
			name := probe.Name(0)
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	roster, err := election.NewRoster(names)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not intern candidates")
	}

	ballots := make([]election.Ballot, len(rows))
	for i, row := range rows {
		ballots[i] = election.BallotFromTokens(row, roster)
	}
	klog.Infof("Found %d ballots total and %d named candidates", len(ballots), roster.Len())
	return election.OrderByFirstPreferences(roster, ballots, false)
}

func loadCSV(path string) (*election.Roster, []election.Ballot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not open ballot csv")
	}
	defer f.Close()
	rows, err := readTokenRows(f)
	if err != nil {
		return nil, nil, err
	}
	return ballotsFromRows(rows)
}

// writeCompact exports the roster and ballots as cands.csv and ballots.bin
// under dir.
func writeCompact(dir string, roster *election.Roster, ballots []election.Ballot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "could not create compact output directory")
	}
	err := writeFile(dir, "cands.csv", func(w io.Writer) error {
		return election.WriteRoster(w, roster)
	})
	if err != nil {
		return err
	}
	return writeFile(dir, "ballots.bin", func(w io.Writer) error {
		return election.WriteBallots(w, ballots, roster)
	})
}
