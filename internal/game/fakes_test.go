package game

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cindyyylam/mj-quizarium/internal/models"
)

// manualClock fires callbacks only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	id      int
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t := &manualTimer{clock: c, id: c.nextID, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward, running due callbacks in deadline order.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*manualTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(a, b int) bool {
			if due[a].at != due[b].at {
				return due[a].at < due[b].at
			}
			return due[a].id < due[b].id
		})
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// Live counts timers that are armed and not yet fired.
func (c *manualClock) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// firstRandom always picks index 0, so draws keep bank order.
type firstRandom struct{}

func (firstRandom) IntN(int) int { return 0 }

type memoryBank struct {
	mu        sync.Mutex
	questions []models.Question
	err       error
}

func (b *memoryBank) Insert(_ context.Context, q *models.Question) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	q.ID = uint(len(b.questions) + 1)
	b.questions = append(b.questions, *q)
	return nil
}

func (b *memoryBank) SelectAll(context.Context) ([]models.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	out := make([]models.Question, len(b.questions))
	copy(out, b.questions)
	return out, nil
}

type memorySessions struct {
	mu      sync.Mutex
	states  map[int64]models.GameState
	upserts int
	err     error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{states: make(map[int64]models.GameState)}
}

func (s *memorySessions) Get(_ context.Context, chatID int64) (*models.ChatState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	st, ok := s.states[chatID]
	if !ok {
		return nil, nil
	}
	return &models.ChatState{ChatID: chatID, GameState: st}, nil
}

func (s *memorySessions) Upsert(_ context.Context, st *models.ChatState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.err != nil {
		return s.err
	}
	s.states[st.ChatID] = st.GameState
	return nil
}

type memoryLeaderboard struct {
	mu      sync.Mutex
	order   []int64
	entries map[int64]*models.LeaderboardEntry
}

func newMemoryLeaderboard() *memoryLeaderboard {
	return &memoryLeaderboard{entries: make(map[int64]*models.LeaderboardEntry)}
}

func (l *memoryLeaderboard) AdditiveUpsert(_ context.Context, tallies []models.PlayerTally) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range tallies {
		e, ok := l.entries[t.UserID]
		if !ok {
			e = &models.LeaderboardEntry{UserID: t.UserID}
			l.entries[t.UserID] = e
			l.order = append(l.order, t.UserID)
		}
		e.DisplayName = t.DisplayName
		e.Username = t.Username
		e.Points += t.Points
		e.Answers += t.Answers
	}
	return nil
}

func (l *memoryLeaderboard) GetAll(context.Context) ([]models.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.LeaderboardEntry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.entries[id])
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Points > out[b].Points })
	return out, nil
}

type recordingMessenger struct {
	mu   sync.Mutex
	sent []OutboundMessage
	err  error
}

func (m *recordingMessenger) SendMessage(_ context.Context, msg OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMessenger) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, msg := range m.sent {
		out[i] = msg.Text
	}
	return out
}

func (m *recordingMessenger) Last() string {
	texts := m.Texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (m *recordingMessenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ int64, ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

var errStoreDown = errors.New("store down")
