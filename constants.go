package main

// Command list
const (
	qryDummy         = "dummy"
	qryCreateNewRace = "createNewRace"
	qryCreateRace    = "createRace"
	qryRaceDone      = "raceDone"
)

// Query command sub-operators
const (
	qryEditPayload        = 'e'
	qryPrevRace           = "-"
	qryNextRace           = "+"
	qryToggleActive       = "c"
	qryToggleShowDetails  = "v"
	qryEditQuestion       = "q"
	qryAddCandidates      = "o"
	qryDeleteRace         = "d"
	qryResetRace          = "r"
	qryShowBallot         = "a"
)

// Race editing states. Do not change the order of these constants.
// Their values are persisted to the database, and changing them could
// break the application.
const (
	ohHi = iota
	waitingForQuestion
	waitingForCandidate
	raceDone
	editRace
	editQuestion
	addCandidate
)

const (
	open = iota
	inactive
)

const (
	showDetails = iota
	hideDetails
)

// Outcome of a voter tapping a candidate.
const (
	markAdded = iota
	markRemoved
	markRejected
)

const (
	maxNumberOfUsersListed = 100
	maxRacesInlineQuery    = 5
	lineSep                = "╼━━━━━━━━━━━━━━━━╾"
)
