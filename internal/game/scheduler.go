package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cindyyylam/mj-quizarium/internal/models"

	"github.com/google/uuid"
)

// Round is the progress of an active game in one chat.
//
// HintLevel is the stage the pending timer will render next: 0 posts the
// question, 1 and 2 post hints, 3 reveals the answer. Answers are accepted
// while HintLevel is 1..3, i.e. once the question is on screen.
type Round struct {
	GameID            uuid.UUID
	CurrentQuestionNo int
	NoOfRounds        int
	HintLevel         int
	Questions         []models.Question
}

func (r Round) Question() (models.Question, bool) {
	i := r.CurrentQuestionNo - 1
	if i < 0 || i >= len(r.Questions) || r.CurrentQuestionNo > r.NoOfRounds {
		return models.Question{}, false
	}
	return r.Questions[i], true
}

func (r Round) Finished() bool {
	return r.CurrentQuestionNo > r.NoOfRounds
}

func (r Round) AcceptingAnswers() bool {
	return r.HintLevel >= 1 && r.HintLevel <= 3 && !r.Finished()
}

type StageKind int

const (
	StageQuestion StageKind = iota
	StageHint
	StageReveal
	StageGameOver
)

func (k StageKind) String() string {
	switch k {
	case StageQuestion:
		return "question"
	case StageHint:
		return "hint"
	case StageReveal:
		return "reveal"
	case StageGameOver:
		return "game_over"
	}
	return "unknown"
}

// Stage is one step of the round state machine, handed to the StageHandler
// to be rendered.
type Stage struct {
	Kind       StageKind
	GameID     uuid.UUID
	QuestionNo int
	NoOfRounds int
	HintLevel  int
	Question   models.Question
}

type StageHandler func(ctx context.Context, chatID int64, st Stage)

type Timing struct {
	HintInterval time.Duration
	RevealPause  time.Duration
}

type pendingTimer struct {
	seq   uint64
	timer Timer
}

// RoundScheduler owns every chat's Round and its single pending timer.
// Mutating methods expect the caller to hold the chat's lock; timer firings
// take that lock themselves.
type RoundScheduler struct {
	clock   Clock
	locks   *chatLocks
	timing  Timing
	handler StageHandler

	mu     sync.Mutex
	seq    uint64
	rounds map[int64]*Round
	timers map[int64]*pendingTimer
}

func NewRoundScheduler(clock Clock, locks *chatLocks, timing Timing, handler StageHandler) *RoundScheduler {
	return &RoundScheduler{
		clock:   clock,
		locks:   locks,
		timing:  timing,
		handler: handler,
		rounds:  make(map[int64]*Round),
		timers:  make(map[int64]*pendingTimer),
	}
}

// Begin replaces any round of the chat with a fresh one at question 1.
func (s *RoundScheduler) Begin(chatID int64, questions []models.Question, noOfRounds int) Round {
	s.Cancel(chatID)

	r := &Round{
		GameID:            uuid.New(),
		CurrentQuestionNo: 1,
		NoOfRounds:        noOfRounds,
		Questions:         questions,
	}

	s.mu.Lock()
	s.rounds[chatID] = r
	s.mu.Unlock()
	return *r
}

func (s *RoundScheduler) Round(chatID int64) (Round, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rounds[chatID]
	if !ok {
		return Round{}, false
	}
	return *r, true
}

// Extend adds rounds, clamped to the questions drawn for the game. The
// pending timer is left alone.
func (s *RoundScheduler) Extend(chatID int64, by int) (rounds int, clamped bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rounds[chatID]
	if !ok {
		return 0, false, false
	}

	n := r.NoOfRounds + by
	if n > len(r.Questions) {
		n = len(r.Questions)
		clamped = true
	}
	r.NoOfRounds = n
	return n, clamped, true
}

// CompleteRound moves to the next question after a correct answer and
// reports whether that was the last round.
func (s *RoundScheduler) CompleteRound(chatID int64) (finished bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rounds[chatID]
	if !ok {
		return true
	}
	r.CurrentQuestionNo++
	r.HintLevel = 0
	return r.Finished()
}

// Schedule arms the chat's timer to advance the round after d, replacing any
// timer already pending.
func (s *RoundScheduler) Schedule(chatID int64, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(chatID)

	s.seq++
	seq := s.seq
	t := s.clock.AfterFunc(d, func() { s.fire(chatID, seq) })
	s.timers[chatID] = &pendingTimer{seq: seq, timer: t}
}

// Cancel drops the chat's pending timer. It is safe to call when the timer
// already fired or never existed; a cancelled timer never advances the round.
func (s *RoundScheduler) Cancel(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(chatID)
}

func (s *RoundScheduler) cancelLocked(chatID int64) bool {
	pt, ok := s.timers[chatID]
	if !ok {
		return false
	}
	pt.timer.Stop()
	delete(s.timers, chatID)
	return true
}

func (s *RoundScheduler) pending(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[chatID]
	return ok
}

// End cancels the timer and discards the round.
func (s *RoundScheduler) End(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(chatID)
	delete(s.rounds, chatID)
}

// Stop cancels every pending timer. Rounds are kept.
func (s *RoundScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for chatID := range s.timers {
		s.cancelLocked(chatID)
	}
}

func (s *RoundScheduler) fire(chatID int64, seq uint64) {
	unlock := s.locks.lock(chatID)
	defer unlock()

	s.mu.Lock()
	pt, ok := s.timers[chatID]
	if !ok || pt.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.timers, chatID)
	s.mu.Unlock()

	s.advance(context.Background(), chatID)
}

func (s *RoundScheduler) advance(ctx context.Context, chatID int64) {
	st, ok := s.step(chatID)
	if !ok {
		log.Printf("[scheduler] chat %d: timer fired without a round", chatID)
		return
	}

	s.handler(ctx, chatID, st)

	switch st.Kind {
	case StageQuestion, StageHint:
		s.Schedule(chatID, s.timing.HintInterval)
	case StageReveal:
		s.Schedule(chatID, s.timing.RevealPause)
	}
}

func (s *RoundScheduler) step(chatID int64) (Stage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rounds[chatID]
	if !ok {
		return Stage{}, false
	}

	st := Stage{
		GameID:     r.GameID,
		QuestionNo: r.CurrentQuestionNo,
		NoOfRounds: r.NoOfRounds,
		HintLevel:  r.HintLevel,
	}

	q, ok := r.Question()
	if !ok {
		st.Kind = StageGameOver
		return st, true
	}
	st.Question = q

	switch r.HintLevel {
	case 0:
		st.Kind = StageQuestion
	case 1, 2:
		st.Kind = StageHint
	default:
		st.Kind = StageReveal
	}

	if r.HintLevel < 3 {
		r.HintLevel++
	} else {
		r.CurrentQuestionNo++
		r.HintLevel = 0
	}
	return st, true
}
