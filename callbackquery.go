package main

import (
	"fmt"
	"strconv"
	"strings"

	tg "github.com/semog/go-bot-api/v4"
	"k8s.io/klog"
)

func handleCallbackQuery(bot *tg.BotAPI, update tg.Update, st Store) error {
	data := update.CallbackQuery.Data
	if data == "" || data == qryDummy {
		return sendToastMessage(bot, update, "")
	}

	if data[0] == qryEditPayload {
		return handleRaceEditQuery(bot, update, st)
	}

	if data == qryCreateRace {
		return sendNewQuestionMessage(bot, update, st)
	}

	if strings.HasPrefix(data, qryRaceDone+":") {
		return handleRaceDoneQuery(bot, update, st)
	}

	if strings.HasPrefix(data, qryShowBallot+":") {
		return handleShowBallotQuery(bot, update, st)
	}

	raceID, candidateID, err := parseQueryPayload(update)
	if err != nil {
		return fmt.Errorf("could not parse query payload: %v", err)
	}

	if update.CallbackQuery.InlineMessageID != "" {
		if err := st.AddInlineMsgToRace(raceID, update.CallbackQuery.InlineMessageID); err != nil {
			return fmt.Errorf("could not add inline message to race: %v", err)
		}
	}

	userID, err := getUpdateUserID(update)
	if err != nil {
		sendToastMessage(bot, update, locInvalidUserMessage)
		return err
	}
	r, err := st.GetRace(raceID)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingRaceMessage)
		return fmt.Errorf("could not get race: %v", err)
	}
	if r.isInactive() {
		sendToastMessage(bot, update, locRaceIsInactive)
		return fmt.Errorf("race %d is inactive", raceID)
	}

	c, ok := r.findCandidate(candidateID)
	if !ok {
		sendToastMessage(bot, update, locErrUpdatingRaceMessage)
		return fmt.Errorf("could not find candidate #%d in race #%d", candidateID, raceID)
	}

	action, err := st.ToggleMark(mark{
		UserID:      userID,
		RaceID:      raceID,
		CandidateID: candidateID,
	})
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingRaceMessage)
		return fmt.Errorf("could not save mark: %v", err)
	}
	if stats != nil {
		stats.observeMark(action)
	}
	if action == markRejected {
		return sendToastMessage(bot, update, locBallotFull)
	}

	// race marks were changed
	r, err = st.GetRace(raceID)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingRaceMessage)
		return fmt.Errorf("could not get race: %v", err)
	}
	racesToUpdate.enqueue(r.ID)

	popupText := ballotToast(r, userID)
	if action == markRemoved {
		popupText = fmt.Sprintf(locSelectionRemoved, c.Name) + " " + popupText
	}
	return sendToastMessage(bot, update, popupText)
}

// ballotToast describes the voter's current ranking.
func ballotToast(r *race, userID int) string {
	ranking := r.userRanking(userID)
	if len(ranking) == 0 {
		return locEmptyBallot
	}
	return fmt.Sprintf(locYourRanking, formatRanking(r, ranking))
}

func handleShowBallotQuery(bot *tg.BotAPI, update tg.Update, st Store) error {
	raceID, err := parseRaceIDPayload(update.CallbackQuery.Data)
	if err != nil {
		return err
	}
	userID, err := getUpdateUserID(update)
	if err != nil {
		sendToastMessage(bot, update, locInvalidUserMessage)
		return err
	}
	r, err := st.GetRace(raceID)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingRaceMessage)
		return fmt.Errorf("could not get race: %v", err)
	}
	return sendToastMessage(bot, update, ballotToast(r, userID))
}

func updateRaceMessages(bot *tg.BotAPI, raceID int, st Store) error {
	r, err := st.GetRace(raceID)
	if err != nil {
		return fmt.Errorf("could not find race #%d: %v", raceID, err)
	}

	listing := buildRaceListing(r, st)

	var ed tg.EditMessageTextConfig
	ed.Text = listing
	ed.ParseMode = tg.ModeHTML

	if !r.isInactive() {
		ed.ReplyMarkup = buildRaceMarkup(r)
	}

	msgs, err := st.GetAllRaceInlineMsg(r.ID)
	if err != nil {
		return fmt.Errorf("could not get all race inline messages: %v", err)
	}

	for _, msg := range msgs {
		ed.InlineMessageID = msg.InlineMessageID
		if _, err := bot.Send(ed); err != nil {
			klog.Infof("could not update inline message of race #%d: %v", r.ID, err)
		}
	}

	return nil
}

// retireRaceMessages replaces the shared messages of a race about to be
// deleted with a notice and drops their buttons.
func retireRaceMessages(bot *tg.BotAPI, msgs []raceident) {
	var ed tg.EditMessageTextConfig
	ed.Text = locRaceDeleted
	for _, msg := range msgs {
		ed.InlineMessageID = msg.InlineMessageID
		if _, err := bot.Send(ed); err != nil {
			klog.Infof("could not retire inline message %s: %v", msg.InlineMessageID, err)
		}
	}
}

func parseRaceIDPayload(data string) (int, error) {
	splits := strings.Split(data, ":")
	if len(splits) < 2 {
		return 0, fmt.Errorf("query did not contain the raceID")
	}
	raceID, err := strconv.Atoi(splits[1])
	if err != nil {
		return 0, fmt.Errorf("could not convert string payload to int: %v", err)
	}
	return raceID, nil
}

func handleRaceDoneQuery(bot *tg.BotAPI, update tg.Update, st Store) error {
	raceID, err := parseRaceIDPayload(update.CallbackQuery.Data)
	if err != nil {
		return err
	}

	userID, err := getUpdateUserID(update)
	if err != nil {
		return err
	}
	r, err := st.GetUserRace(raceID, userID)
	if err != nil {
		return fmt.Errorf("could not get race: %v", err)
	}
	_, err = sendEditMessage(bot, int64(userID), r)
	if err != nil {
		return fmt.Errorf("could not edit finished race: %v", err)
	}
	err = st.SaveState(userID, r.ID, raceDone)
	if err != nil {
		return fmt.Errorf("could not change state to race done: %v", err)
	}
	return nil
}

func handleRaceEditQuery(bot *tg.BotAPI, update tg.Update, st Store) error {
	splits := strings.Split(update.CallbackQuery.Data, ":")
	if len(splits) < 3 {
		klog.Infoln(splits)
		sendToastMessage(bot, update, locErrUpdatingRaceMessage)
		return fmt.Errorf("query wrongly formatted")
	}
	raceID, err := strconv.Atoi(splits[1])
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingRaceMessage)
		return fmt.Errorf("could not convert string payload to int: %v", err)
	}

	userID, err := getUpdateUserID(update)
	if err != nil {
		return err
	}

	var r *race
	noNewer := false
	noOlder := false
	switch splits[2] {
	case qryNextRace:
		r, err = st.GetRaceNewer(raceID, userID)
		if err != nil {
			klog.Infof("could not get newer race: %v\n", err)
			noNewer = true
			r, err = st.GetUserRace(raceID, userID)
		}
	case qryPrevRace:
		r, err = st.GetRaceOlder(raceID, userID)
		if err != nil {
			klog.Infof("could not get older race: %v\n", err)
			noOlder = true
			r, err = st.GetUserRace(raceID, userID)
		}
	case qryToggleActive, qryToggleShowDetails:
		r, err = st.GetUserRace(raceID, userID)
		if err != nil {
			break
		}
		if splits[2] == qryToggleActive {
			if r.Inactive == open {
				r.Inactive = inactive
			} else {
				r.Inactive = open
			}
		} else if r.ShowDetails == showDetails {
			r.ShowDetails = hideDetails
		} else {
			r.ShowDetails = showDetails
		}
		if _, err = st.SaveRace(r); err != nil {
			klog.Infof("could not save toggled race #%d: %v", r.ID, err)
			sendToastMessage(bot, update, locErrUpdatingRaceMessage)
			err = nil
		}
	case qryAddCandidates:
		r, err = st.GetUserRace(raceID, userID)
		if err != nil {
			sendToastMessage(bot, update, locErrUpdatingRaceMessage)
			return fmt.Errorf("could not get race: %v", err)
		}
		err = st.SaveState(userID, raceID, waitingForCandidate)
		if err != nil {
			return err
		}
		if err = sendTextMessage(bot, update.CallbackQuery.Message.Chat.ID, locAddCandidate); err != nil {
			return err
		}
		_, err = sendInterMessage(bot, update, r)
		if err != nil {
			return fmt.Errorf("could not send inter message: %v", err)
		}
		return sendToastMessage(bot, update, "")
	case qryEditQuestion:
		err = st.SaveState(userID, raceID, editQuestion)
		if err != nil {
			sendToastMessage(bot, update, locErrUpdatingRaceMessage)
			return err
		}
		if err = sendTextMessage(bot, update.CallbackQuery.Message.Chat.ID, locEditQuestion); err != nil {
			return err
		}
		return sendToastMessage(bot, update, "")
	case qryResetRace:
		err = st.ResetRace(userID, raceID)
		if err != nil {
			sendToastMessage(bot, update, locErrUpdatingRaceMessage)
			return fmt.Errorf("could not reset race: %v", err)
		}
		racesToUpdate.enqueue(raceID)
		return sendToastMessage(bot, update, locResetRaceMessage)
	case qryDeleteRace:
		r, err = st.GetUserRace(raceID, userID)
		if err != nil {
			sendToastMessage(bot, update, locErrUpdatingRaceMessage)
			return fmt.Errorf("could not get race: %v", err)
		}

		// The race must be closed first
		if !r.isInactive() {
			return sendToastMessage(bot, update, locCloseRaceBeforeDelete)
		}

		msgs, merr := st.GetAllRaceInlineMsg(raceID)
		if merr != nil {
			klog.Infof("could not get inline messages of race #%d: %v", raceID, merr)
		}
		err = st.DeleteRace(userID, raceID)
		if err != nil {
			sendToastMessage(bot, update, locErrDeletingRaceMessage)
			return fmt.Errorf("could not delete race: %v", err)
		}
		retireRaceMessages(bot, msgs)
		sendToastMessage(bot, update, fmt.Sprintf(locRaceDeletedMessage, r.Question))

		// Move to the next race.
		r, err = st.GetRaceOlder(raceID, userID)
		if err != nil {
			noOlder = true
			r, err = st.GetRaceNewer(raceID, userID)
			if err != nil {
				klog.Infof("no race left for user #%d: %v\n", userID, err)
				err = st.SaveState(userID, -1, ohHi)
				if err != nil {
					return err
				}
				_, err = sendMainMenuMessage(bot, update)
				if err != nil {
					return fmt.Errorf("could not send main menu message: %v", err)
				}
				return nil
			}
		}
		if err = st.SaveState(userID, r.ID, editRace); err != nil {
			klog.Infof("could not select race #%d: %v", r.ID, err)
		}
	default:
		return fmt.Errorf("query wrongly formatted")
	}

	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingRaceMessage)
		return fmt.Errorf("could not get race: %v", err)
	}

	// browsing selects the shown race for /deadline and text edits
	if err = st.SaveState(userID, r.ID, editRace); err != nil {
		klog.Infof("could not select race #%d: %v", r.ID, err)
	}

	var ed tg.EditMessageTextConfig
	ed.Text = getSelectedRaceHeader(r) + getFormattedPreviewRace(r)
	ed.ParseMode = tg.ModeHTML
	ed.ReplyMarkup = buildEditMarkup(r, noOlder, noNewer)
	ed.ChatID = update.CallbackQuery.Message.Chat.ID
	ed.MessageID = update.CallbackQuery.Message.MessageID

	_, err = bot.Send(ed)
	if err != nil {
		klog.Infof("could not update message: %v\n", err)
	}
	racesToUpdate.enqueue(r.ID)
	return sendToastMessage(bot, update, "")
}

func sendToastMessage(bot *tg.BotAPI, update tg.Update, msg string) error {
	callbackConfig := tg.NewCallback(update.CallbackQuery.ID, msg)
	_, err := bot.AnswerCallbackQuery(callbackConfig)
	if err != nil {
		klog.Infof("could not send toast message: %v\n", err)
	}
	return nil
}

func parseQueryPayload(update tg.Update) (raceID int, candidateID int, err error) {
	dataSplit := strings.Split(update.CallbackQuery.Data, ":")
	if len(dataSplit) != 2 {
		return raceID, candidateID, fmt.Errorf("could not parse response")
	}
	raceID, err = strconv.Atoi(dataSplit[0])
	if err != nil {
		return raceID, candidateID, fmt.Errorf("could not convert CallbackQuery data raceID to int: %v", err)
	}

	candidateID, err = strconv.Atoi(dataSplit[1])
	if err != nil {
		return raceID, candidateID, fmt.Errorf("could not convert CallbackQuery data CandidateID to int: %v", err)
	}
	return raceID, candidateID, nil
}
