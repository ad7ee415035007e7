package main

import "testing"

func TestUniqueChan(t *testing.T) {
	u := newUniqueChan()
	u.enqueue(4)
	u.enqueue(4)
	u.enqueue(7)
	if len(u.C) != 2 {
		t.Fatalf("queued %d ids, expected 2", len(u.C))
	}
	if id := u.dequeue(); id != 4 {
		t.Errorf("dequeue = %d, expected 4", id)
	}
	// 4 may be queued again once it left the queue
	u.enqueue(4)
	if id := u.dequeue(); id != 7 {
		t.Errorf("dequeue = %d, expected 7", id)
	}
	if id := u.dequeue(); id != 4 {
		t.Errorf("dequeue = %d, expected 4", id)
	}
}
