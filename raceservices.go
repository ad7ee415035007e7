package main

import (
	"k8s.io/klog"
)

// checkAndUpdateRaces runs the timed race services.
func checkAndUpdateRaces(st Store) {
	autoCloseRaces(st, getUnixNow())
}

// autoCloseRaces closes every open race whose deadline is at or before now
// and returns the IDs it closed.
func autoCloseRaces(st Store, now int64) []int {
	races, err := st.GetRacesClosingBefore(now)
	if err != nil {
		klog.Errorf("could not get races with close at: %v", err)
		return nil
	}

	closed := make([]int, 0, len(races))
	for _, r := range races {
		klog.Infof("Closing race %d automatically", r.ID)
		r.Inactive = inactive
		r.CloseAt = 0
		_, err = st.SaveRace(r)
		if err != nil {
			klog.Errorf("could not auto close race: %v", err)
			continue
		}
		closed = append(closed, r.ID)
		racesToUpdate.enqueue(r.ID)
	}
	return closed
}
