package main

import tg "github.com/semog/go-bot-api/v4"

// Store is an interface for the persistent storage
// should allow easier swapping of databases
type Store interface {
	Init(databaseFile string) error
	Close()
	GetUpdateOffset() int
	SaveUpdateOffset(offset int) error
	AddInlineMsgToRace(raceID int, inlineMessageID string) error
	RemoveInlineMsg(inlineMessageID string) error
	GetUser(userID int) (*tg.User, error)
	GetRace(raceID int) (*race, error)
	GetUserRace(raceID int, userID int) (*race, error)
	GetRacesByUser(userID int) ([]*race, error)
	GetRaceNewer(raceID int, userID int) (*race, error)
	GetRaceOlder(raceID int, userID int) (*race, error)
	GetRacesClosingBefore(unixTime int64) ([]*race, error)
	GetAllRaceInlineMsg(raceID int) ([]raceident, error)
	GetState(userID int) (state int, raceID int, err error)
	SaveState(userID int, raceID int, state int) error
	SaveUser(*tg.User) error
	SaveRace(*race) (int, error)
	SaveCandidates([]candidate) error
	DeleteCandidates([]candidate) error
	ToggleMark(m mark) (action int, err error)
	ResetRace(userID int, raceID int) error
	DeleteRace(userID int, raceID int) error
}
