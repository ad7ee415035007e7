package election

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ReadBallots decodes the compact ballot format: MaxRanks bytes per ballot,
// each a 1-based roster index or 0 for blank.
func ReadBallots(r io.Reader, roster *Roster) ([]Ballot, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read ballots")
	}
	if rem := len(buf) % MaxRanks; rem != 0 {
		return nil, errors.Errorf("ballot data has a trailing partial record of %d bytes", rem)
	}
	ballots := make([]Ballot, 0, len(buf)/MaxRanks)
	raw := make([]int, MaxRanks)
	for off := 0; off < len(buf); off += MaxRanks {
		for i := range raw {
			raw[i] = int(buf[off+i])
		}
		ballots = append(ballots, NewBallot(raw, roster))
	}
	return ballots, nil
}

// WriteBallots encodes ballots in the compact format. The roster may hold
// at most 255 candidates.
func WriteBallots(w io.Writer, ballots []Ballot, roster *Roster) error {
	if roster.Len() > 255 {
		return errors.Errorf("compact ballots hold at most 255 candidates, roster has %d", roster.Len())
	}
	bw := bufio.NewWriter(w)
	var rec [MaxRanks]byte
	for _, b := range ballots {
		for i, v := range b.Raw() {
			rec[i] = byte(v)
		}
		if _, err := bw.Write(rec[:]); err != nil {
			return errors.Wrap(err, "could not write ballot")
		}
	}
	return errors.Wrap(bw.Flush(), "could not flush ballots")
}

// ReadRoster parses a comma-separated candidate list. A trailing comma is
// allowed.
func ReadRoster(r io.Reader) (*Roster, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read candidates")
	}
	names := strings.Split(strings.TrimRight(string(buf), "\r\n"), ",")
	if len(names) > 0 && names[len(names)-1] == "" {
		names = names[:len(names)-1]
	}
	return NewRoster(names)
}

// WriteRoster writes the roster in the format ReadRoster reads.
func WriteRoster(w io.Writer, roster *Roster) error {
	var sb strings.Builder
	for _, name := range roster.Names() {
		sb.WriteString(name)
		sb.WriteByte(',')
	}
	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "could not write candidates")
}
