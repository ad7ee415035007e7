package main

import (
	"testing"

	tg "github.com/semog/go-bot-api/v4"
)

func TestKlogAdapterIsBotLogger(t *testing.T) {
	var logger tg.BotLogger = &klogAdapter{}
	if err := tg.SetLogger(logger); err != nil {
		t.Fatalf("SetLogger rejected the klog adapter: %v", err)
	}
	logger.Infoln("adapter", "info")
	logger.Infof("adapter %s", "info")
	logger.Errorln("adapter", "error")
	logger.Errorf("adapter %s", "error")
}
