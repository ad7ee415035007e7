package main

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/kyokomi/emoji"
	tg "github.com/semog/go-bot-api/v4"
	cmn "github.com/semog/go-common"
	"github.com/semog/rankbot/election"
	"k8s.io/klog"
)

func getUpdateUserID(update tg.Update) (int, error) {
	if update.Message != nil {
		return update.Message.From.ID, nil
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From.ID, nil
	}
	return 0, fmt.Errorf("invalid update info: no valid user ID found")
}

func sendMainMenuMessage(bot *tg.BotAPI, update tg.Update) (tg.Message, error) {
	userID, err := getUpdateUserID(update)
	if err != nil {
		return tg.Message{}, err
	}
	buttons := make([]tg.InlineKeyboardButton, 0)
	buttons = append(buttons, tg.NewInlineKeyboardButtonData(locCreateNewRace, qryCreateRace))
	markup := tg.NewInlineKeyboardMarkup(buttons)
	msg := tg.NewMessage(int64(userID), locMainMenu)
	msg.ReplyMarkup = markup
	return bot.Send(msg)
}

func sendTextMessage(bot *tg.BotAPI, chatID int64, text string) error {
	msg := tg.NewMessage(chatID, text)
	_, err := bot.Send(msg)
	if err != nil {
		return fmt.Errorf("could not send message: %v", err)
	}
	return nil
}

func sendInterMessage(bot *tg.BotAPI, update tg.Update, r *race) (tg.Message, error) {
	userID, err := getUpdateUserID(update)
	if err != nil {
		return tg.Message{}, err
	}
	raceDoneButton := tg.NewInlineKeyboardButtonData(
		locRaceDoneButton, fmt.Sprintf("%s:%d", qryRaceDone, r.ID))

	markup := tg.NewInlineKeyboardMarkup([]tg.InlineKeyboardButton{raceDoneButton})
	messageTxt := locAddedCandidate
	messageTxt += getFormattedPreviewRace(r)
	msg := tg.NewMessage(int64(userID), messageTxt)
	msg.ParseMode = tg.ModeHTML
	msg.ReplyMarkup = markup
	return bot.Send(msg)
}

func sendNewQuestionMessage(bot *tg.BotAPI, update tg.Update, st Store) error {
	userID, err := getUpdateUserID(update)
	if err != nil {
		return err
	}
	if err = sendTextMessage(bot, int64(userID), locNewQuestion); err != nil {
		return err
	}

	err = st.SaveState(userID, -1, waitingForQuestion)
	if err != nil {
		return fmt.Errorf("could not change state to waiting for questions: %v", err)
	}
	return nil
}

func sendEditMessage(bot *tg.BotAPI, chatID int64, r *race) (tg.Message, error) {
	messageTxt := getSelectedRaceHeader(r)
	messageTxt += getFormattedPreviewRace(r)
	msg := tg.NewMessage(chatID, messageTxt)
	msg.ParseMode = tg.ModeHTML
	msg.ReplyMarkup = buildEditMarkup(r, false, false)
	return bot.Send(msg)
}

func formatCloseAt(closeAt int64) string {
	return time.Unix(closeAt, 0).UTC().Format("Mon Jan 2 15:04 MST")
}

func getSelectedRaceHeader(r *race) string {
	header := fmt.Sprintf(locCurrentlySelectedRace, len(r.Candidates), len(r.voters()))
	if r.CloseAt > 0 && !r.isInactive() {
		header += fmt.Sprintf(locClosesAt, formatCloseAt(r.CloseAt))
	}
	return header
}

func getFormattedPreviewRace(r *race) string {
	var body strings.Builder
	fmt.Fprintf(&body, "<pre>\n%s\n%s\n", html.EscapeString(r.Question), lineSep)
	for i, c := range r.Candidates {
		fmt.Fprintf(&body, "%d. %s\n", i+1, html.EscapeString(c.Name))
	}
	body.WriteString("</pre>\n\n")
	return body.String()
}

// buildRaceMarkup lays the candidates out as ballot buttons, wrapping rows
// at about 30 characters.
func buildRaceMarkup(r *race) *tg.InlineKeyboardMarkup {
	buttonrows := make([][]tg.InlineKeyboardButton, 0)
	row := -1

	for _, c := range r.Candidates {
		textWidth := 0
		if row != -1 {
			for _, b := range buttonrows[row] {
				textWidth += len(b.Text)
			}
		}
		textWidth += len(c.Name)
		if row == -1 || textWidth > 30 {
			row++
			buttonrows = append(buttonrows, make([]tg.InlineKeyboardButton, 0))
		}
		callback := fmt.Sprintf("%d:%d", r.ID, c.ID)
		buttonrows[row] = append(buttonrows[row], tg.NewInlineKeyboardButtonData(c.Name, callback))
	}
	ballotButton := tg.NewInlineKeyboardButtonData(locShowBallotButton, fmt.Sprintf("%s:%d", qryShowBallot, r.ID))
	buttonrows = append(buttonrows, []tg.InlineKeyboardButton{ballotButton})
	markup := tg.NewInlineKeyboardMarkup(buttonrows...)
	return &markup
}

// formatRanking renders a voter's ranking as "1. A  2. B".
func formatRanking(r *race, ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		c, ok := r.findCandidate(id)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d. %s", len(parts)+1, c.Name))
	}
	return strings.Join(parts, "  ")
}

// buildRaceListing renders the race result: the Condorcet verdict, then
// every candidate in ranking order with its first-choice voters.
func buildRaceListing(r *race, st Store) (listing string) {
	listing += fmt.Sprintf("<b>%s</b>\n%s\n", html.EscapeString(r.Question), lineSep)

	tally, err := tallyRace(r, analysisOpts, stats)
	if err != nil {
		klog.Errorf("could not tally race #%d: %v", r.ID, err)
		if tally == nil {
			return listing + locAnalysisFailed + "\n"
		}
		listing += locAnalysisFailed + "\n"
	}

	numVoters := len(tally.voters)
	if numVoters == 0 {
		listing += locNoBallots + "\n"
	} else if winner, ok := tally.winner(); ok {
		listing += emoji.Sprintf(locCondorcetWinner, html.EscapeString(tally.roster.Name(winner))) + "\n"
	} else if tally.report != nil {
		listing += emoji.Sprint(locCondorcetCycle) + "\n"
	}

	// first-choice voters per roster index
	firstVoters := make([][]int, tally.roster.Len())
	for i, b := range tally.ballots {
		if c, ok := b.First(); ok {
			firstVoters[c] = append(firstVoters[c], tally.voters[i])
		}
	}

	order := tally.roster.Candidates()
	if tally.report != nil {
		order = tally.report.Ranking()
	}
	winner, hasWinner := tally.winner()
	for _, c := range order {
		name := tally.roster.Name(c)
		part := ""
		if numVoters > 0 {
			part += emoji.Sprintf(" (%d :busts_in_silhouette:", tally.firsts[c])
			if r.isShowDetails() {
				part += fmt.Sprintf(" %.0f%%", 100.*float64(tally.firsts[c])/float64(numVoters))
			}
			part += ")"
		}
		listing += fmt.Sprintf("\n<b>%s</b>%s", html.EscapeString(name), part)
		if hasWinner && c == winner {
			listing += emoji.Sprint("  :1st_place_medal:")
		}

		if r.isShowDetails() && tally.report != nil {
			listing += "\n  " + fmt.Sprintf(locHeadToHeadWins, tally.wins(c), tally.roster.Len()-1)
			if next, n := tally.topTransfer(c); next != election.NoCandidate {
				listing += ", " + fmt.Sprintf(locNextChoice, html.EscapeString(tally.roster.Name(next))) + fmt.Sprintf(" (%d)", n)
			}
		}

		users := firstVoters[c]
		if len(users) > 0 {
			maxNumberDisplayUsers := cmn.Mini(len(users), maxNumberOfUsersListed)
			for j := 0; j+1 < maxNumberDisplayUsers; j++ {
				listing += "\n├ " + getFormattedUserLink(lookupUser(st, users[j]))
			}
			listing += "\n└ " + getFormattedUserLink(lookupUser(st, users[len(users)-1]))
		}
		listing += "\n"
	}
	listing += emoji.Sprint(fmt.Sprintf("\n%d :busts_in_silhouette:\n", numVoters))
	if r.CloseAt > 0 && !r.isInactive() {
		listing += fmt.Sprintf(locClosesAt, formatCloseAt(r.CloseAt))
	} else if r.isInactive() {
		listing += locRaceIsInactive + "\n"
	}
	return listing
}

func lookupUser(st Store, userID int) *tg.User {
	u, err := st.GetUser(userID)
	if err != nil {
		klog.Infof("could not get user: %v", err)
		return &tg.User{ID: userID}
	}
	return u
}

func buildEditMarkup(r *race, noOlder, noNewer bool) *tg.InlineKeyboardMarkup {
	buttonLast := tg.NewInlineKeyboardButtonData("⬅", r.fmtQuery(qryPrevRace))
	buttonNext := tg.NewInlineKeyboardButtonData("➡", r.fmtQuery(qryNextRace))
	if noOlder {
		buttonLast = tg.NewInlineKeyboardButtonData(emoji.Sprint(":checkered_flag: (EOL)"), qryDummy)
	}
	if noNewer {
		buttonNext = tg.NewInlineKeyboardButtonData(emoji.Sprint(":checkered_flag: (EOL)"), qryDummy)
	}

	buttonDetailsText := locToggleShowDetails
	if r.isShowDetails() {
		buttonDetailsText = locToggleHideDetails
	}
	buttonInactiveText := locToggleOpen
	if r.isInactive() {
		buttonInactiveText = locToggleInactive
	}

	buttonShare := tg.InlineKeyboardButton{
		Text:              locShareRace,
		SwitchInlineQuery: &r.Question,
	}

	markup := tg.NewInlineKeyboardMarkup(
		tg.NewInlineKeyboardRow(buttonLast, buttonNext),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData(buttonDetailsText, r.fmtQuery(qryToggleShowDetails)),
			tg.NewInlineKeyboardButtonData(buttonInactiveText, r.fmtQuery(qryToggleActive))),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData(locEditQuestionButton, r.fmtQuery(qryEditQuestion)),
			tg.NewInlineKeyboardButtonData(locAddCandidatesButton, r.fmtQuery(qryAddCandidates))),
		tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonData(locDeleteRaceButton, r.fmtQuery(qryDeleteRace)),
			tg.NewInlineKeyboardButtonData(locResetRaceButton, r.fmtQuery(qryResetRace))),
		tg.NewInlineKeyboardRow(buttonShare, tg.NewInlineKeyboardButtonData(locCreateNewRace, qryCreateRace)),
	)
	return &markup
}

func getFormattedUserLink(u *tg.User) string {
	return fmt.Sprintf("<a href=\"tg://user?id=%d\">%s</a>", u.ID, html.EscapeString(getDisplayUserName(u)))
}

func getDisplayUserName(u *tg.User) string {
	name := u.FirstName
	if len(u.LastName) > 0 {
		name += " " + u.LastName
	}
	if len(name) == 0 {
		name = u.UserName
	}
	if len(name) == 0 {
		name = fmt.Sprintf("#%d", u.ID)
	}
	return name
}
