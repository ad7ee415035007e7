package main

const (
	locGotQuestion            = "OK now that we got a question, please send the candidates of your race, one per message."
	locStartCommand           = "/start"
	locEditCommand            = "/edit"
	locDeadlineCommand        = "/deadline"
	locCreateNewRace          = "create new race"
	locInlineInsertRace       = "insert race into chat"
	locShareRace              = "share race"
	locNewQuestion            = "Great! Send a question for the new race, please."
	locEditQuestionButton     = "change question"
	locAddCandidate           = "Alright, send candidates that you want to add to the race, please."
	locAddCandidatesButton    = "add candidates"
	locDeleteRaceButton       = "delete race"
	locResetRaceButton        = "reset ballots"
	locShowBallotButton       = "my ballot"
	locEditQuestion           = "Alright, send the new question for this race, please."
	locResetRaceMessage       = "All ballots of this race were removed."
	locCloseRaceBeforeDelete  = "Please close the race before deleting it."
	locErrDeletingRaceMessage = "Sorry, the race could not be deleted."
	locRaceDeletedMessage     = "The race \"%s\" was deleted."
	locEmptyBallot            = "You have not ranked anyone yet."
	locHeadToHeadWins         = "%d/%d head-to-head"
	locClosesAt               = "Closes %s.\n"
	locInvalidCandidateNumber = "There is no candidate #%d."
	locGotEditQuestion        = "Thanks, the question was changed to \"%s\"."
	locNoMessageToEdit        = "Sorry, I could not find a race to edit."
	locCurrentlySelectedRace  = "Currently selected race (%d candidates, %d ballots):\n"
	locMainMenu               = "I can help you run ranked-choice races and find out who voters really prefer.\n\nWhat do you want to do?"
	locAboutCommand           = "/about"
	locAboutMessage           = "Rank up to 5 candidates by tapping them in order. Results show the Condorcet winner and where each candidate's voters go next.\n\nYou can find me on github:\nhttps://github.com/semog/rankbot"
	locRaceDoneButton         = "done"
	locToggleInactive         = "open race"
	locToggleOpen             = "close race"
	locToggleShowDetails      = "show details"
	locToggleHideDetails      = "hide details"
	locAddedCandidate         = "You can add more candidates by sending messages each containing one name. If you are done, please push the 'done' button.\n\nPreview:\n"
	locRaceIsInactive         = "This race is closed."
	locRaceDeleted            = "This race was deleted."
	locInvalidUserMessage     = "Sorry, I could not tell who you are."
	locErrUpdatingRaceMessage = "Sorry, something went wrong while updating the race."
	locSelectionRemoved       = "%s was removed from your ballot."
	locYourRanking            = "Your ranking: %s"
	locBallotFull             = "You already ranked 5 candidates. Tap one to remove it first."
	locNoBallots              = "No ballots yet."
	locAnalysisFailed         = "Could not analyze the ballots of this race."
	locCondorcetWinner        = ":trophy: %s beats every other candidate head-to-head."
	locCondorcetCycle         = ":arrows_counterclockwise: No Condorcet winner, the head-to-heads form a cycle."
	locNextChoice             = "next: %s"
	locDeadlineSet            = "The race will close on %s."
	locDeadlineUsage          = "Send /deadline followed by a duration like 36h, 2d or 1w."
	locNoRaceSelected         = "Please select a race with /edit first."
	locDuplicateCandidate     = "%s is already a candidate of this race."
)

/*
Following is the command menu for constructing the bot with @BotFather.
Use the /setcommands command and reply with the following list of commands.
---------------------
start - Start the bot.
edit - Edit your races.
deadline - Close the selected race after a duration.
about - About this bot.
*/

/*
Description text:
-------------------------
This bot runs ranked-choice races in Telegram chats and reports the Condorcet winner.
*/
