package main

import "testing"

func TestCandidateNameAvailable(t *testing.T) {
	r := &race{Candidates: []candidate{{ID: 1, Name: "Apple"}, {ID: 2, Name: "Cherry"}}}

	if !candidateNameAvailable(r, candidate{Name: "Pecan"}) {
		t.Errorf("Pecan should be available")
	}
	if candidateNameAvailable(r, candidate{Name: " Apple "}) {
		t.Errorf("Apple is already a candidate")
	}
	// renaming a candidate to its own name is fine
	if !candidateNameAvailable(r, candidate{ID: 1, Name: "Apple"}) {
		t.Errorf("renaming Apple to Apple should be allowed")
	}
	if candidateNameAvailable(r, candidate{ID: 1, Name: "Cherry"}) {
		t.Errorf("renaming Apple to Cherry should clash")
	}
	if candidateNameAvailable(r, candidate{Name: "  "}) {
		t.Errorf("blank names are not available")
	}
}

func TestCandidateEditRegexp(t *testing.T) {
	m := candidateEditRegexp.FindStringSubmatch("2. Key lime")
	if m == nil || m[1] != "2" || m[2] != "Key lime" {
		t.Errorf("rename did not match: %q", m)
	}
	m = candidateEditRegexp.FindStringSubmatch("3.")
	if m == nil || m[1] != "3" || m[2] != "" {
		t.Errorf("delete did not match: %q", m)
	}
	if m = candidateEditRegexp.FindStringSubmatch("Pumpkin"); m != nil {
		t.Errorf("plain name matched as an edit: %q", m)
	}
}
