package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func getTimeStamp() int64 {
	return time.Now().UTC().UnixNano()
}

func intrg_contains(rg []int, item int) bool {
	for _, i := range rg {
		if i == item {
			return true
		}
	}
	return false
}

// parseDeadline returns the unix time a race should close at, given a
// duration such as "90m", "36h", "2d" or "1w" counted from now.
func parseDeadline(now int64, text string) (int64, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0, fmt.Errorf("empty deadline")
	}

	var d time.Duration
	unit := text[len(text)-1]
	if unit == 'd' || unit == 'w' {
		n, err := strconv.Atoi(text[:len(text)-1])
		if err != nil {
			return 0, fmt.Errorf("could not parse deadline %q: %v", text, err)
		}
		d = time.Duration(n) * 24 * time.Hour
		if unit == 'w' {
			d *= 7
		}
	} else {
		var err error
		d, err = time.ParseDuration(text)
		if err != nil {
			return 0, fmt.Errorf("could not parse deadline %q: %v", text, err)
		}
	}
	if d < time.Minute {
		return 0, fmt.Errorf("deadline %q is too short", text)
	}
	return now + int64(d/time.Second), nil
}

func getUnixNow() int64 {
	return time.Now().Unix()
}
