package main

import (
	"github.com/semog/go-sqldb"
)

func (st *sqlStore) Init(databaseFile string) error {
	var err error
	st.db, err = sqldb.OpenAndPatchDb(databaseFile, dbPatchFuncs)
	return err
}

// The array of patch functions that will automatically upgrade the database.
var dbPatchFuncs = []sqldb.PatchFuncType{
	// Add new patch functions to this array to automatically upgrade the database.
	{PatchID: 1, PatchFunc: func(sdb *sqldb.SQLDb) error {
		if err := sdb.CreateTable(`race(
			ID INTEGER PRIMARY KEY ASC,
			UserID INTEGER,
			LastSaved INTEGER,
			CreatedAt INTEGER,
			Inactive INTEGER,
			ShowDetails INTEGER,
			Question TEXT)`); err != nil {
			return err
		}
		if err := sdb.CreateIndex("race_index ON race(ID)"); err != nil {
			return err
		}
		if err := sdb.CreateTable(`raceinlinemsg(
			InlineMessageID TEXT PRIMARY KEY,
			RaceID INTEGER)`); err != nil {
			return err
		}
		if err := sdb.CreateTable(`mark(
			ID INTEGER PRIMARY KEY ASC,
			RaceID INTEGER,
			CandidateID INTEGER,
			LastSaved INTEGER,
			CreatedAt INTEGER,
			UserID INTEGER)`); err != nil {
			return err
		}
		if err := sdb.CreateIndex("mark_index ON mark(RaceID)"); err != nil {
			return err
		}
		if err := sdb.CreateTable(`candidate(
			ID INTEGER PRIMARY KEY ASC,
			RaceID INTEGER,
			Name TEXT)`); err != nil {
			return err
		}
		if err := sdb.CreateIndex("candidate_index ON candidate(RaceID)"); err != nil {
			return err
		}
		if err := sdb.CreateTable(`dialog(
			UserID INTEGER PRIMARY KEY,
			RaceID INTEGER,
			state INTEGER)`); err != nil {
			return err
		}
		return sdb.CreateTable(`user(
			ID INTEGER PRIMARY KEY,
			FirstName TEXT,
			LastName Text,
			LastSaved INTEGER,
			CreatedAt INTEGER,
			UserName TEXT)`)
	}},
	{PatchID: 2, PatchFunc: func(sdb *sqldb.SQLDb) error {
		// Table for tracking the bot update offset
		return sdb.CreateTable(`bot_updates(
			ID INTEGER PRIMARY KEY ASC,
			Offset INTEGER)`)
	}},
	{PatchID: 3, PatchFunc: func(sdb *sqldb.SQLDb) error {
		// Races can close themselves at a unix time; 0 means never.
		if err := sdb.Exec("ALTER TABLE race ADD COLUMN CloseAt INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
		return sdb.CreateIndex("mark_user_index ON mark(RaceID, UserID)")
	}},
}
