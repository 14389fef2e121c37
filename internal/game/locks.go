package game

import "sync"

type chatLock struct {
	mu   sync.Mutex
	refs int
}

// chatLocks serializes all work for one chat: inbound events and timer
// firings for the same chat never run concurrently, different chats do.
// A chat's entry lives only while someone holds or waits for it.
type chatLocks struct {
	mu    sync.Mutex
	chats map[int64]*chatLock
}

func newChatLocks() *chatLocks {
	return &chatLocks{chats: make(map[int64]*chatLock)}
}

func (l *chatLocks) lock(chatID int64) (unlock func()) {
	l.mu.Lock()
	cl, ok := l.chats[chatID]
	if !ok {
		cl = &chatLock{}
		l.chats[chatID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.mu.Lock()
	return func() {
		cl.mu.Unlock()

		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.chats, chatID)
		}
		l.mu.Unlock()
	}
}

func (l *chatLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.chats)
}
