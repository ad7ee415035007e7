package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tg "github.com/semog/go-bot-api/v4"
	"github.com/semog/rankbot/election"
	"k8s.io/klog"
)

// "3. New name" renames candidate 3, "3." deletes it.
var candidateEditRegexp = regexp.MustCompile(`^([0-9]+)\.[ \t]*(.*)$`)

func handleDialog(bot *tg.BotAPI, update tg.Update, st Store) error {
	userID, err := getUpdateUserID(update)
	if err != nil {
		return err
	}
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	if strings.HasPrefix(text, locAboutCommand) {
		return sendTextMessage(bot, int64(userID), locAboutMessage)
	}

	state, raceID, err := st.GetState(userID)
	if err != nil {
		// could not retrieve state -> state is zero
		state = ohHi
		raceID = -1
		klog.Infof("could not get state from database: %v\n", err)
	}

	if strings.HasPrefix(text, locDeadlineCommand) {
		return handleDeadlineCommand(bot, chatID, userID, raceID, strings.TrimPrefix(text, locDeadlineCommand), st)
	}

	if strings.HasPrefix(text, locEditCommand) {
		races, err := st.GetRacesByUser(userID)
		if err != nil || len(races) == 0 {
			klog.Infof("could not get races of user with userID %d: %v", userID, err)
			if err = st.SaveState(userID, raceID, ohHi); err != nil {
				return err
			}
			return sendTextMessage(bot, chatID, locNoMessageToEdit)
		}

		// prefer the selected race, fall back to the latest one
		r := races[0]
		for _, sel := range races {
			if sel.ID == raceID {
				r = sel
				break
			}
		}
		if err = st.SaveState(userID, r.ID, editRace); err != nil {
			return err
		}
		_, err = sendEditMessage(bot, chatID, r)
		if err != nil {
			return fmt.Errorf("could not send edit message: %v", err)
		}
		return nil
	}

	if strings.HasPrefix(text, locStartCommand) || raceID < 0 && state != waitingForQuestion {
		state = ohHi
		err = st.SaveState(userID, raceID, state)
		if err != nil {
			return err
		}
	}

	switch state {
	case ohHi:
		_, err = sendMainMenuMessage(bot, update)
		if err != nil {
			return fmt.Errorf("could not send main menu message: %v", err)
		}
		return nil

	case waitingForQuestion:
		r := &race{
			Question:    text,
			UserID:      userID,
			ShowDetails: showDetails,
		}
		raceID, err = st.SaveRace(r)
		if err != nil {
			return fmt.Errorf("could not save race: %v", err)
		}
		if err = sendTextMessage(bot, chatID, locGotQuestion); err != nil {
			return err
		}
		return st.SaveState(userID, raceID, waitingForCandidate)

	case editQuestion:
		r, err := st.GetUserRace(raceID, userID)
		if err != nil {
			return fmt.Errorf("could not get race: %v", err)
		}
		r.Question = text
		if _, err = st.SaveRace(r); err != nil {
			return fmt.Errorf("could not save race: %v", err)
		}
		if err = sendTextMessage(bot, chatID, fmt.Sprintf(locGotEditQuestion, r.Question)); err != nil {
			return err
		}
		if err = st.SaveState(userID, raceID, editRace); err != nil {
			return err
		}
		racesToUpdate.enqueue(raceID)
		return sendRaceEditMessage(bot, chatID, raceID, userID, st)

	case raceDone, editRace:
		if state == raceDone {
			if err = st.SaveState(userID, raceID, editRace); err != nil {
				return err
			}
		}
		return sendRaceEditMessage(bot, chatID, raceID, userID, st)

	case waitingForCandidate, addCandidate:
		return handleCandidateMessage(bot, update, raceID, userID, st)
	}

	return nil
}

func sendRaceEditMessage(bot *tg.BotAPI, chatID int64, raceID int, userID int, st Store) error {
	r, err := st.GetUserRace(raceID, userID)
	if err != nil {
		return fmt.Errorf("could not get race: %v", err)
	}
	_, err = sendEditMessage(bot, chatID, r)
	if err != nil {
		return fmt.Errorf("could not send message: %v", err)
	}
	return nil
}

// handleCandidateMessage adds, renames or deletes one candidate.
func handleCandidateMessage(bot *tg.BotAPI, update tg.Update, raceID int, userID int, st Store) error {
	chatID := update.Message.Chat.ID
	r, err := st.GetUserRace(raceID, userID)
	if err != nil {
		return fmt.Errorf("could not get race: %v", err)
	}

	c := candidate{RaceID: raceID, Name: strings.TrimSpace(update.Message.Text)}
	isDelete := false
	if m := candidateEditRegexp.FindStringSubmatch(c.Name); m != nil {
		num, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("could not convert string to number: %v", err)
		}
		if num < 1 || num > len(r.Candidates) {
			return sendTextMessage(bot, chatID, fmt.Sprintf(locInvalidCandidateNumber, num))
		}
		c.ID = r.Candidates[num-1].ID
		c.Name = strings.TrimSpace(m[2])
		isDelete = c.Name == ""
	}

	if isDelete {
		err = st.DeleteCandidates([]candidate{c})
	} else {
		if !candidateNameAvailable(r, c) {
			return sendTextMessage(bot, chatID, fmt.Sprintf(locDuplicateCandidate, c.Name))
		}
		err = st.SaveCandidates([]candidate{c})
	}
	if err != nil {
		return fmt.Errorf("could not save candidate: %v", err)
	}

	racesToUpdate.enqueue(raceID)
	// Refresh the race
	r, err = st.GetRace(raceID)
	if err != nil {
		return fmt.Errorf("could not get race: %v", err)
	}

	_, err = sendInterMessage(bot, update, r)
	if err != nil {
		return fmt.Errorf("could not send inter message: %v", err)
	}
	return nil
}

// candidateNameAvailable reports whether c can join or be renamed within r
// without clashing with another candidate once names are normalized.
func candidateNameAvailable(r *race, c candidate) bool {
	names := make([]string, 0, len(r.Candidates)+1)
	for _, other := range r.Candidates {
		if other.ID != c.ID {
			names = append(names, other.Name)
		}
	}
	_, err := election.NewRoster(append(names, c.Name))
	return err == nil
}

func handleDeadlineCommand(bot *tg.BotAPI, chatID int64, userID int, raceID int, arg string, st Store) error {
	if raceID < 0 {
		return sendTextMessage(bot, chatID, locNoRaceSelected)
	}
	r, err := st.GetUserRace(raceID, userID)
	if err != nil {
		klog.Infof("could not get race #%d for deadline: %v", raceID, err)
		return sendTextMessage(bot, chatID, locNoRaceSelected)
	}

	closeAt, err := parseDeadline(getUnixNow(), arg)
	if err != nil {
		klog.Infof("invalid deadline from user #%d: %v", userID, err)
		return sendTextMessage(bot, chatID, locDeadlineUsage)
	}
	r.CloseAt = closeAt
	r.Inactive = open
	if _, err = st.SaveRace(r); err != nil {
		return fmt.Errorf("could not save race deadline: %v", err)
	}
	racesToUpdate.enqueue(r.ID)
	return sendTextMessage(bot, chatID, fmt.Sprintf(locDeadlineSet, formatCloseAt(closeAt)))
}
