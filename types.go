package main

import (
	"fmt"
	"sort"
)

// mark is one ranked preference: the voter's next choice at the time it
// was cast.
type mark struct {
	ID          int
	RaceID      int
	UserID      int
	CandidateID int
	LastSaved   int64
}

type candidate struct {
	ID     int
	RaceID int
	Name   string
}

type race struct {
	ID          int
	UserID      int
	Question    string
	Inactive    int
	ShowDetails int
	CloseAt     int64
	Candidates  []candidate
	Marks       []mark
}

type raceident struct {
	InlineMessageID string
}

func (r *race) fmtQuery(query string) string {
	return fmt.Sprintf("%c:%d:%s", qryEditPayload, r.ID, query)
}

func (r *race) isInactive() bool {
	return r.Inactive == inactive
}

func (r *race) isShowDetails() bool {
	return r.ShowDetails == showDetails
}

func (r *race) findCandidate(candidateID int) (candidate, bool) {
	for _, c := range r.Candidates {
		if c.ID == candidateID {
			return c, true
		}
	}
	return candidate{}, false
}

// userRanking returns the candidate IDs the user marked, in the order the
// marks were cast.
func (r *race) userRanking(userID int) []int {
	marks := make([]mark, 0)
	for _, m := range r.Marks {
		if m.UserID == userID {
			marks = append(marks, m)
		}
	}
	sortMarks(marks)
	ids := make([]int, len(marks))
	for i, m := range marks {
		ids[i] = m.CandidateID
	}
	return ids
}

// voters returns every user with at least one mark, in order of their first
// mark.
func (r *race) voters() []int {
	marks := make([]mark, len(r.Marks))
	copy(marks, r.Marks)
	sortMarks(marks)
	seen := make(map[int]struct{})
	users := make([]int, 0)
	for _, m := range marks {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		users = append(users, m.UserID)
	}
	return users
}

func sortMarks(marks []mark) {
	sort.SliceStable(marks, func(i, j int) bool {
		if marks[i].LastSaved == marks[j].LastSaved {
			return marks[i].ID < marks[j].ID
		}
		return marks[i].LastSaved < marks[j].LastSaved
	})
}
