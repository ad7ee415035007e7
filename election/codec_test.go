package election

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestBallotsRoundTrip(t *testing.T) {
	r := testRoster(t, "A", "B", "C")
	in := []Ballot{
		BallotOf(candC, candA),
		{},
		BallotOf(candB, candA, candC),
	}
	var buf bytes.Buffer
	if err := WriteBallots(&buf, in, r); err != nil {
		t.Fatalf("WriteBallots: %v", err)
	}
	if buf.Len() != len(in)*MaxRanks {
		t.Fatalf("encoded %d bytes, expected %d", buf.Len(), len(in)*MaxRanks)
	}
	if !bytes.Equal(buf.Bytes()[:MaxRanks], []byte{3, 1, 0, 0, 0}) {
		t.Errorf("first record = %v", buf.Bytes()[:MaxRanks])
	}
	out, err := ReadBallots(&buf, r)
	if err != nil {
		t.Fatalf("ReadBallots: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %v, expected %v", out, in)
	}
}

func TestReadBallots_partial_record(t *testing.T) {
	r := testRoster(t, "A")
	if _, err := ReadBallots(bytes.NewReader([]byte{1, 0, 0, 0, 0, 1}), r); err == nil {
		t.Errorf("expected an error for a trailing partial record")
	}
}

func TestReadRoster(t *testing.T) {
	r, err := ReadRoster(strings.NewReader("Adams,Garcia,Wiley,\n"))
	if err != nil {
		t.Fatalf("ReadRoster: %v", err)
	}
	if !reflect.DeepEqual(r.Names(), []string{"Adams", "Garcia", "Wiley"}) {
		t.Errorf("Names() = %v", r.Names())
	}
	var buf bytes.Buffer
	if err := WriteRoster(&buf, r); err != nil {
		t.Fatalf("WriteRoster: %v", err)
	}
	if buf.String() != "Adams,Garcia,Wiley," {
		t.Errorf("WriteRoster wrote %q", buf.String())
	}
}
