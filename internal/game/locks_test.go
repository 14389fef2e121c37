package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChatLocksSerializeOneChat(t *testing.T) {
	l := newChatLocks()
	unlock := l.lock(1)

	acquired := make(chan struct{})
	go func() {
		u := l.lock(1)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder entered while the chat was locked")
	case <-time.After(50 * time.Millisecond):
	}

	other := l.lock(2)
	other()

	unlock()
	<-acquired
}

func TestChatLocksArePruned(t *testing.T) {
	l := newChatLocks()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			unlock := l.lock(chatID % 5)
			unlock()
		}(int64(i))
	}
	wg.Wait()

	assert.Zero(t, l.size())
}

func TestEngineLeavesNoIdleLocks(t *testing.T) {
	r := newRig(bank3()...)
	r.startGame(t, group)
	r.say(group, alice, "1993")
	r.clock.Advance(5 * time.Second)

	assert.Zero(t, r.engine.locks.size())
}
