package main

import (
	"fmt"
	"strconv"

	tg "github.com/semog/go-bot-api/v4"
	"k8s.io/klog"
)

func handleInlineQuery(bot *tg.BotAPI, update tg.Update, st Store) error {
	races, err := st.GetRacesByUser(update.InlineQuery.From.ID)
	if err != nil {
		return fmt.Errorf("could not get races for user: %v", err)
	}

	if len(races) > maxRacesInlineQuery {
		races = races[:maxRacesInlineQuery]
	}
	results := make([]interface{}, len(races))
	for i, r := range races {
		klog.V(1).Infof("offering race #%d to user #%d", r.ID, update.InlineQuery.From.ID)
		article := tg.NewInlineQueryResultArticleHTML(strconv.Itoa(r.ID), r.Question, buildRaceListing(r, st))
		if len(r.Candidates) > 0 && !r.isInactive() {
			article.ReplyMarkup = buildRaceMarkup(r)
		}
		article.Description = locInlineInsertRace

		results[i] = article
	}
	inlineConfig := tg.InlineConfig{
		InlineQueryID:     update.InlineQuery.ID,
		Results:           results,
		IsPersonal:        true,
		CacheTime:         0,
		SwitchPMText:      locCreateNewRace,
		SwitchPMParameter: qryCreateNewRace,
	}

	_, err = bot.AnswerInlineQuery(inlineConfig)
	if err != nil {
		return fmt.Errorf("could not answer inline query: %v", err)
	}

	return nil
}
