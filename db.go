package main

import (
	"database/sql"
	"fmt"

	tg "github.com/semog/go-bot-api/v4"
	"github.com/semog/go-sqldb"
	"github.com/semog/rankbot/election"
	"k8s.io/klog"
)

const raceColumns = "ID, UserID, Question, Inactive, ShowDetails, CloseAt"

type sqlStore struct {
	db *sqldb.SQLDb
}

func (st *sqlStore) Close() {
	err := st.db.Close()
	if err != nil {
		klog.Infof("could not close database properly: %v\n", err)
	}
}

type closable interface {
	Close() error
}

func close(c closable) {
	err := c.Close()
	if err != nil {
		klog.Infof("could not close stmt or rows properly: %v\n", err)
	}
}

func newSQLStore(databaseFile string) *sqlStore {
	st := &sqlStore{}
	err := st.Init(databaseFile)
	if err != nil {
		klog.Fatalf("could not open database %s: %v", databaseFile, err)
	}
	return st
}

// rollbackOrCommit finishes tx depending on the final error of the caller.
func rollbackOrCommit(tx *sql.Tx, err *error) {
	if *err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			klog.Infof("could not rollback database change: %v", rerr)
		}
		return
	}
	*err = tx.Commit()
}

func (st *sqlStore) GetUpdateOffset() (offset int) {
	row := st.db.QueryRow("SELECT Offset FROM bot_updates WHERE ID = 1")
	if err := row.Scan(&offset); err != nil {
		return 0
	}
	return offset
}

func (st *sqlStore) SaveUpdateOffset(offset int) (err error) {
	err = st.db.Exec("INSERT INTO bot_updates(ID, Offset) values(1, ?) ON CONFLICT(ID) DO UPDATE SET Offset = excluded.Offset", offset)
	if err != nil {
		return fmt.Errorf("could not save bot updates offset: %v", err)
	}
	return nil
}

func (st *sqlStore) GetUser(userID int) (*tg.User, error) {
	u := &tg.User{ID: userID}
	row := st.db.QueryRow("SELECT FirstName, LastName, UserName FROM user WHERE ID = ?", userID)
	if err := row.Scan(&u.FirstName, &u.LastName, &u.UserName); err != nil {
		return u, fmt.Errorf(`could not scan user "%d": %v`, u.ID, err)
	}
	return u, nil
}

// fillRace loads the candidates and marks of r.
func (st *sqlStore) fillRace(r *race) (err error) {
	r.Candidates, err = st.getCandidates(r.ID)
	if err != nil {
		return fmt.Errorf("could not query candidates: %v", err)
	}
	r.Marks, err = st.getMarks(r.ID)
	if err != nil {
		return fmt.Errorf("could not query marks: %v", err)
	}
	return nil
}

func (st *sqlStore) scanRace(row *sql.Row) (*race, error) {
	r := &race{}
	if err := row.Scan(&r.ID, &r.UserID, &r.Question, &r.Inactive, &r.ShowDetails, &r.CloseAt); err != nil {
		return r, fmt.Errorf("could not scan race: %v", err)
	}
	return r, st.fillRace(r)
}

func (st *sqlStore) GetRace(raceID int) (*race, error) {
	return st.GetUserRace(raceID, 0)
}

func (st *sqlStore) GetUserRace(raceID int, userID int) (*race, error) {
	if userID > 0 {
		return st.scanRace(st.db.QueryRow("SELECT "+raceColumns+" FROM race WHERE ID = ? AND UserID = ?", raceID, userID))
	}
	return st.scanRace(st.db.QueryRow("SELECT "+raceColumns+" FROM race WHERE ID = ?", raceID))
}

func (st *sqlStore) GetRaceNewer(raceID int, userID int) (*race, error) {
	return st.scanRace(st.db.QueryRow("SELECT "+raceColumns+" FROM race WHERE ID > ? AND UserID = ? ORDER BY ID ASC LIMIT 1", raceID, userID))
}

func (st *sqlStore) GetRaceOlder(raceID int, userID int) (*race, error) {
	return st.scanRace(st.db.QueryRow("SELECT "+raceColumns+" FROM race WHERE ID < ? AND UserID = ? ORDER BY ID DESC LIMIT 1", raceID, userID))
}

func (st *sqlStore) queryRaces(query string, args ...interface{}) ([]*race, error) {
	races := make([]*race, 0)
	rows, err := st.db.Query(query, args...)
	if err != nil {
		return races, fmt.Errorf("could not query races: %v", err)
	}
	defer close(rows)

	for rows.Next() {
		r := &race{}
		if err := rows.Scan(&r.ID, &r.UserID, &r.Question, &r.Inactive, &r.ShowDetails, &r.CloseAt); err != nil {
			return races, fmt.Errorf("could not scan race: %v", err)
		}
		races = append(races, r)
	}
	if err := rows.Err(); err != nil {
		return races, fmt.Errorf("could not iterate races: %v", err)
	}

	// Rows are drained before the follow-up queries so a single sqlite
	// connection is never asked for two result sets at once.
	for _, r := range races {
		if err := st.fillRace(r); err != nil {
			return races, err
		}
	}
	return races, nil
}

func (st *sqlStore) GetRacesByUser(userID int) ([]*race, error) {
	races, err := st.queryRaces("SELECT "+raceColumns+" FROM race WHERE UserID = ? ORDER BY ID DESC LIMIT ?", userID, maxRacesInlineQuery)
	if err != nil {
		return races, fmt.Errorf("could not get races for userID #%d: %v", userID, err)
	}
	return races, nil
}

// GetRacesClosingBefore returns the open races whose deadline passed.
func (st *sqlStore) GetRacesClosingBefore(unixTime int64) ([]*race, error) {
	return st.queryRaces("SELECT "+raceColumns+" FROM race WHERE Inactive = ? AND CloseAt > 0 AND CloseAt <= ?", open, unixTime)
}

func (st *sqlStore) GetState(userID int) (state int, raceID int, err error) {
	row := st.db.QueryRow("SELECT state, RaceID FROM dialog WHERE UserID = ?", userID)
	if err := row.Scan(&state, &raceID); err != nil {
		return state, raceID, fmt.Errorf("could not scan state from row: %v", err)
	}
	return state, raceID, nil
}

func (st *sqlStore) SaveState(userID int, raceID int, state int) (err error) {
	if userID == 0 {
		return fmt.Errorf("could not save state: invalid user ID 0 for race #%d", raceID)
	}

	err = st.db.Exec("INSERT OR REPLACE INTO dialog(UserID, RaceID, state) values(?, ?, ?)", userID, raceID, state)
	if err != nil {
		return fmt.Errorf("could not save state: could not insert or replace state database entry: %v", err)
	}
	return nil
}

func (st *sqlStore) GetAllRaceInlineMsg(raceID int) ([]raceident, error) {
	msgs := make([]raceident, 0)
	rows, err := st.db.Query("SELECT InlineMessageID FROM raceinlinemsg WHERE RaceID = ?", raceID)
	if err != nil {
		return msgs, fmt.Errorf("could not query raceinlinemsg: %v", err)
	}
	defer close(rows)
	var msg raceident
	for rows.Next() {
		err = rows.Scan(&msg.InlineMessageID)
		if err != nil {
			return msgs, fmt.Errorf("could not scan inline message for race #%d: %v", raceID, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (st *sqlStore) getCandidates(raceID int) ([]candidate, error) {
	cands := make([]candidate, 0)
	rows, err := st.db.Query("SELECT RaceID, ID, Name FROM candidate WHERE RaceID = ? ORDER BY ID", raceID)
	if err != nil {
		return cands, fmt.Errorf("could not query candidates: %v", err)
	}
	defer close(rows)
	var c candidate
	for rows.Next() {
		err = rows.Scan(&c.RaceID, &c.ID, &c.Name)
		if err != nil {
			return cands, fmt.Errorf("could not scan candidate: %v", err)
		}
		cands = append(cands, c)
	}
	return cands, nil
}

func (st *sqlStore) getMarks(raceID int) ([]mark, error) {
	marks := make([]mark, 0)
	rows, err := st.db.Query("SELECT ID, RaceID, CandidateID, UserID, LastSaved FROM mark WHERE RaceID = ? ORDER BY LastSaved, ID", raceID)
	if err != nil {
		return marks, fmt.Errorf("could not query marks: %v", err)
	}
	defer close(rows)
	var m mark
	for rows.Next() {
		err = rows.Scan(&m.ID, &m.RaceID, &m.CandidateID, &m.UserID, &m.LastSaved)
		if err != nil {
			return marks, fmt.Errorf("could not scan mark: %v", err)
		}
		marks = append(marks, m)
	}
	return marks, nil
}

// ToggleMark appends m.CandidateID to the voter's ranking, or takes it out
// again when it is already ranked. A full ranking rejects new candidates.
func (st *sqlStore) ToggleMark(m mark) (action int, err error) {
	if m.UserID == 0 {
		return markRejected, fmt.Errorf("invalid user ID 0 for race #%d", m.RaceID)
	}

	tx, err := st.db.Begin()
	if err != nil {
		return markRejected, fmt.Errorf("could not begin database transaction: %v", err)
	}
	defer rollbackOrCommit(tx, &err)

	stmt, err := tx.Prepare("SELECT CandidateID FROM mark WHERE RaceID = ? AND UserID = ?")
	if err != nil {
		return markRejected, fmt.Errorf("could not prepare sql statement: %v", err)
	}
	defer close(stmt)

	rows, err := stmt.Query(m.RaceID, m.UserID)
	if err != nil {
		return markRejected, fmt.Errorf("could not query mark rows: %v", err)
	}
	var candidateID int
	ranked := make([]int, 0, election.MaxRanks)
	for rows.Next() {
		if err = rows.Scan(&candidateID); err != nil {
			close(rows)
			return markRejected, fmt.Errorf("could not scan candidateid: %v", err)
		}
		ranked = append(ranked, candidateID)
	}
	close(rows)

	// user tapped a ranked candidate again, so remove it
	if intrg_contains(ranked, m.CandidateID) {
		_, err = tx.Exec("DELETE FROM mark WHERE RaceID = ? AND UserID = ? AND CandidateID = ?", m.RaceID, m.UserID, m.CandidateID)
		if err != nil {
			return markRejected, fmt.Errorf("could not delete previous mark: %v", err)
		}
		return markRemoved, nil
	}

	if len(ranked) >= election.MaxRanks {
		return markRejected, nil
	}

	now := getTimeStamp()
	_, err = tx.Exec("INSERT INTO mark(RaceID, CandidateID, UserID, LastSaved, CreatedAt) values(?, ?, ?, ?, ?)",
		m.RaceID, m.CandidateID, m.UserID, now, now)
	if err != nil {
		return markRejected, fmt.Errorf("could not insert mark: %v", err)
	}
	return markAdded, nil
}

func (st *sqlStore) AddInlineMsgToRace(raceID int, inlinemessageid string) (err error) {
	// InlineMessageId is the primary key
	err = st.db.Exec("INSERT OR REPLACE INTO raceinlinemsg(RaceID, InlineMessageID) values(?, ?)", raceID, inlinemessageid)
	if err != nil {
		return fmt.Errorf("could not add message to race: %v", err)
	}
	return nil
}

func (st *sqlStore) RemoveInlineMsg(inlinemessageid string) (err error) {
	err = st.db.Exec("DELETE FROM raceinlinemsg WHERE InlineMessageID = ?", inlinemessageid)
	if err != nil {
		return fmt.Errorf("could not remove inline message: %v", err)
	}
	return nil
}

func (st *sqlStore) SaveCandidates(cands []candidate) (err error) {
	// Keys come from the gkey table, outside of the write transaction.
	for i := 0; i < len(cands); i++ {
		if cands[i].ID == 0 {
			id64, err := st.db.GetGkey()
			if err != nil {
				return fmt.Errorf("could not get gkey for candidate: %v", err)
			}
			cands[i].ID = int(id64)
		}
	}

	tx, err := st.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin database transaction: %v", err)
	}
	defer rollbackOrCommit(tx, &err)

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO candidate(ID, RaceID, Name) values(?, ?, ?)")
	if err != nil {
		return fmt.Errorf("could not prepare insert sql statement for candidates: %v", err)
	}
	defer close(stmt)

	for i := 0; i < len(cands); i++ {
		_, err = stmt.Exec(cands[i].ID, cands[i].RaceID, cands[i].Name)
		if err != nil {
			return fmt.Errorf("could not insert or update candidate into sql database: %v", err)
		}
	}
	return nil
}

func (st *sqlStore) DeleteCandidates(cands []candidate) (err error) {
	tx, err := st.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin database transaction: %v", err)
	}
	defer rollbackOrCommit(tx, &err)

	stmtDeleteCandidate, err := tx.Prepare("DELETE FROM candidate WHERE ID = ?")
	if err != nil {
		return fmt.Errorf("could not prepare delete sql statement for candidates: %v", err)
	}
	defer close(stmtDeleteCandidate)

	stmtDeleteMark, err := tx.Prepare("DELETE FROM mark WHERE CandidateID = ?")
	if err != nil {
		return fmt.Errorf("could not prepare delete sql statement for marks: %v", err)
	}
	defer close(stmtDeleteMark)

	for i := 0; i < len(cands); i++ {
		if _, derr := stmtDeleteMark.Exec(cands[i].ID); derr != nil {
			klog.Errorf("could not delete mark from database: %v\n", derr)
		}
		if _, derr := stmtDeleteCandidate.Exec(cands[i].ID); derr != nil {
			klog.Errorf("could not delete candidate from database: %v\n", derr)
		}
	}
	return nil
}

func (st *sqlStore) SaveUser(u *tg.User) (err error) {
	if u.ID == 0 {
		return fmt.Errorf("invalid user ID 0 for user '%s'", u.UserName)
	}

	now := getTimeStamp()
	err = st.db.Exec(`INSERT INTO user(ID, FirstName, LastName, UserName, LastSaved, CreatedAt) values(?, ?, ?, ?, ?, ?)
		ON CONFLICT(ID) DO UPDATE SET FirstName = excluded.FirstName, LastName = excluded.LastName,
		UserName = excluded.UserName, LastSaved = excluded.LastSaved`,
		u.ID, u.FirstName, u.LastName, u.UserName, now, now)
	if err != nil {
		return fmt.Errorf("could not save user '%s': %v", u.UserName, err)
	}
	return nil
}

func (st *sqlStore) SaveRace(r *race) (id int, err error) {
	if r.UserID == 0 {
		return id, fmt.Errorf("invalid user ID 0 for race #%d", r.ID)
	}

	now := getTimeStamp()
	if r.ID != 0 {
		err = st.db.Exec("UPDATE race SET UserID = ?, Question = ?, Inactive = ?, ShowDetails = ?, CloseAt = ?, LastSaved = ? WHERE ID = ?",
			r.UserID, r.Question, r.Inactive, r.ShowDetails, r.CloseAt, now, r.ID)
		if err != nil {
			return id, fmt.Errorf("could not update race entry: %v", err)
		}
		return r.ID, nil
	}

	id64, err := st.db.GetGkey()
	if err != nil {
		return id, fmt.Errorf("could not get race gkey id: %v", err)
	}
	id = int(id64)

	err = st.db.Exec("INSERT INTO race(ID, UserID, Question, Inactive, ShowDetails, CloseAt, LastSaved, CreatedAt) values(?, ?, ?, ?, ?, ?, ?, ?)",
		id, r.UserID, r.Question, r.Inactive, r.ShowDetails, r.CloseAt, now, now)
	if err != nil {
		return id, fmt.Errorf("could not execute sql insert statement: %v", err)
	}
	return id, nil
}

// ownsRace fails unless userID created raceID.
func (st *sqlStore) ownsRace(userID int, raceID int) error {
	var owner int
	row := st.db.QueryRow("SELECT UserID FROM race WHERE UserID = ? AND ID = ?", userID, raceID)
	if err := row.Scan(&owner); err != nil {
		return fmt.Errorf("could not scan race #%d for user #%d: %v", raceID, userID, err)
	}
	return nil
}

func (st *sqlStore) ResetRace(userID int, raceID int) (err error) {
	if err = st.ownsRace(userID, raceID); err != nil {
		return err
	}
	err = st.db.Exec("DELETE FROM mark WHERE RaceID = ?", raceID)
	if err != nil {
		return fmt.Errorf("could not delete race marks: %v", err)
	}
	return nil
}

func (st *sqlStore) DeleteRace(userID int, raceID int) (err error) {
	if err = st.ownsRace(userID, raceID); err != nil {
		return err
	}

	tx, err := st.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin database transaction: %v", err)
	}
	defer rollbackOrCommit(tx, &err)

	for _, del := range []struct{ table, query string }{
		{"mark", "DELETE FROM mark WHERE RaceID = ?"},
		{"candidate", "DELETE FROM candidate WHERE RaceID = ?"},
		{"dialog", "DELETE FROM dialog WHERE RaceID = ?"},
		{"raceinlinemsg", "DELETE FROM raceinlinemsg WHERE RaceID = ?"},
		{"race", "DELETE FROM race WHERE ID = ?"},
	} {
		if _, err = tx.Exec(del.query, raceID); err != nil {
			return fmt.Errorf("could not delete race rows from %s: %v", del.table, err)
		}
	}
	return nil
}
