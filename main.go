package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	tg "github.com/semog/go-bot-api/v4"
	"github.com/semog/rankbot/election"
	"k8s.io/klog"
)

const racedbFilename = "races.db"

var (
	// analysisOpts configures every race tally.
	analysisOpts election.Options
	// stats is nil until main sets it up.
	stats *monitor
)

func main() {
	klog.InitFlags(nil)
	token := flag.String("token", "Ask @BotFather", "telegram bot token")
	debug := flag.Bool("debug", false, "Show debug information")
	dbFile := flag.String("db", racedbFilename, "sqlite database file")
	metricsAddr := flag.String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	workers := flag.Int("workers", 0, "goroutines per race analysis, 0 for one per CPU")
	flag.Parse()

	if *token == "Ask @BotFather" {
		klog.Fatal("token flag required. Go ask @BotFather.")
	}
	analysisOpts.Workers = *workers

	stats = newMonitor()
	if *metricsAddr != "" {
		go stats.serve(*metricsAddr)
	}

	klog.Info("Connecting...")
	if err := tg.SetLogger(&klogAdapter{}); err != nil {
		klog.Fatalf("Could not set bot logger: %v", err)
	}
	bot, err := tg.NewBotAPI(*token)
	if err != nil {
		klog.Fatalf("Could not connect to bot: %v", err)
	}

	bot.Debug = *debug

	if err := run(bot, *dbFile); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		klog.Flush()
		os.Exit(2)
	}
}

var racesToUpdateConstRate = make(chan int, 10)
var racesToUpdate = newUniqueChan()

func newUniqueChan() *uniqueChan {
	return &uniqueChan{
		C:   make(chan int, 1000),
		ids: make(map[int]struct{})}
}

// uniqueChan queues race IDs, dropping an ID that is already waiting.
type uniqueChan struct {
	C   chan int
	mu  sync.Mutex
	ids map[int]struct{}
}

func (u *uniqueChan) enqueue(id int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.ids[id]; ok {
		klog.V(1).Infof("Update for race #%d is already scheduled.\n", id)
		return
	}
	select {
	case u.C <- id:
		u.ids[id] = struct{}{}
	default:
		klog.Warningf("update queue is full, dropping race #%d", id)
	}
}

func (u *uniqueChan) dequeue() int {
	id := <-u.C
	u.mu.Lock()
	delete(u.ids, id)
	u.mu.Unlock()
	return id
}

func newTimer() func() {
	start := time.Now()
	return func() {
		klog.V(1).Infoln("This action took: ", time.Since(start))
	}
}

func run(bot *tg.BotAPI, dbFile string) error {
	// fill update channel with constant rate
	go func() {
		for {
			time.Sleep(400 * time.Millisecond)
			raceID := racesToUpdate.dequeue()
			racesToUpdateConstRate <- raceID
		}
	}()

	var st Store = newSQLStore(dbFile)
	defer st.Close()

	klog.Infof("Authorized on account %s", bot.Self.UserName)

	u := tg.NewUpdate(st.GetUpdateOffset())
	u.Timeout = 60

	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("could not prepare update channel: %v", err)
	}

	services := time.NewTicker(time.Minute)
	defer services.Stop()

	for {
		select {
		case raceID := <-racesToUpdateConstRate:
			err := updateRaceMessages(bot, raceID, st)
			if err != nil {
				klog.Infof("Could not update race #%d: %v", raceID, err)
			}
		case <-services.C:
			checkAndUpdateRaces(st)
		case update := <-updates:
			handleUpdate(bot, update, st)
			if err := st.SaveUpdateOffset(update.UpdateID + 1); err != nil {
				klog.Infof("could not save update offset: %v", err)
			}
		}
	}
}

func handleUpdate(bot *tg.BotAPI, update tg.Update, st Store) {
	stopTimer := newTimer()
	defer stopTimer()

	var err error
	// INLINE QUERIES
	if update.InlineQuery != nil {
		klog.Infof("InlineQuery from [%s]: %s", update.InlineQuery.From.UserName, update.InlineQuery.Query)

		err = st.SaveUser(update.InlineQuery.From)
		if err != nil {
			klog.Infof("could not save user: %v", err)
		}

		err = handleInlineQuery(bot, update, st)
		if err != nil {
			klog.Infof("could not handle inline query: %v", err)
		}
		return
	}

	// race was inserted into a chat
	if update.ChosenInlineResult != nil {
		raceID, err := strconv.Atoi(update.ChosenInlineResult.ResultID)
		if err != nil {
			klog.Infof("could not parse raceID: %v", err)
			return
		}
		err = st.AddInlineMsgToRace(raceID, update.ChosenInlineResult.InlineMessageID)
		if err != nil {
			klog.Infof("could not add inline message to race: %v", err)
		}
		return
	}

	// CALLBACK QUERIES
	if update.CallbackQuery != nil {
		klog.Infof("CallbackQuery from [%s]: %s", update.CallbackQuery.From.UserName, update.CallbackQuery.Data)

		err = st.SaveUser(update.CallbackQuery.From)
		if err != nil {
			klog.Infof("could not save user: %v", err)
		}

		err = handleCallbackQuery(bot, update, st)
		if err != nil {
			klog.Infof("could not handle callback query: %v", err)
		}
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	err = st.SaveUser(update.Message.From)
	if err != nil {
		klog.Infof("could not save user: %v", err)
	}

	// Messages
	klog.Infof("Message from [%s] %s", update.Message.From.UserName, update.Message.Text)

	// Conversations
	err = handleDialog(bot, update, st)
	if err != nil {
		klog.Infof("could not handle dialog: %v", err)
	}
}
