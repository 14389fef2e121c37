package game

import (
	"context"
	"testing"
	"time"

	"github.com/cindyyylam/mj-quizarium/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stageLog struct {
	stages []Stage
	onOver func(chatID int64)
}

func (l *stageLog) handle(_ context.Context, chatID int64, st Stage) {
	l.stages = append(l.stages, st)
	if st.Kind == StageGameOver && l.onOver != nil {
		l.onOver(chatID)
	}
}

func (l *stageLog) kinds() []StageKind {
	out := make([]StageKind, len(l.stages))
	for i, st := range l.stages {
		out[i] = st.Kind
	}
	return out
}

func newTestScheduler() (*RoundScheduler, *manualClock, *stageLog) {
	clock := &manualClock{}
	log := &stageLog{}
	s := NewRoundScheduler(clock, newChatLocks(), Timing{
		HintInterval: 20 * time.Second,
		RevealPause:  3 * time.Second,
	}, log.handle)
	log.onOver = s.End
	return s, clock, log
}

func twoQuestions() []models.Question {
	return []models.Question{
		{ID: 1, Text: "Q1", Answer: "one"},
		{ID: 2, Text: "Q2", Answer: "two"},
	}
}

func TestSchedulerRunsFullRoundOnTimeouts(t *testing.T) {
	s, clock, log := newTestScheduler()
	s.Begin(1, twoQuestions(), 1)
	s.Schedule(1, time.Second)

	clock.Advance(time.Second)
	r, ok := s.Round(1)
	require.True(t, ok)
	assert.Equal(t, 1, r.HintLevel)
	assert.True(t, r.AcceptingAnswers())

	clock.Advance(20 * time.Second)
	clock.Advance(20 * time.Second)
	r, _ = s.Round(1)
	assert.Equal(t, 3, r.HintLevel)

	clock.Advance(20 * time.Second)
	r, ok = s.Round(1)
	require.True(t, ok)
	assert.Equal(t, 2, r.CurrentQuestionNo)
	assert.Equal(t, 0, r.HintLevel)
	assert.False(t, r.AcceptingAnswers())

	clock.Advance(3 * time.Second)
	assert.Equal(t, []StageKind{StageQuestion, StageHint, StageHint, StageReveal, StageGameOver}, log.kinds())
	assert.Equal(t, 1, log.stages[1].HintLevel)
	assert.Equal(t, 2, log.stages[2].HintLevel)

	_, ok = s.Round(1)
	assert.False(t, ok)
	assert.False(t, s.pending(1))
}

func TestSchedulerHintLevelMonotonic(t *testing.T) {
	s, clock, _ := newTestScheduler()
	s.Begin(1, twoQuestions(), 2)
	s.Schedule(1, 0)

	prevQ, prevLevel := 1, -1
	for i := 0; i < 12; i++ {
		clock.Advance(20 * time.Second)
		r, ok := s.Round(1)
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, r.HintLevel, 0)
		assert.LessOrEqual(t, r.HintLevel, 3)
		if r.CurrentQuestionNo == prevQ {
			assert.Greater(t, r.HintLevel, prevLevel)
		} else {
			assert.Equal(t, 0, r.HintLevel)
		}
		prevQ, prevLevel = r.CurrentQuestionNo, r.HintLevel
	}
}

func TestSchedulerSingleTimer(t *testing.T) {
	s, clock, log := newTestScheduler()
	s.Begin(1, twoQuestions(), 2)

	s.Schedule(1, 10*time.Second)
	s.Schedule(1, 5*time.Second)
	assert.Equal(t, 1, clock.Live())

	clock.Advance(10 * time.Second)
	assert.Len(t, log.stages, 1, "replaced timer must not fire")
}

func TestSchedulerCancelIsIdempotent(t *testing.T) {
	s, clock, log := newTestScheduler()
	s.Begin(1, twoQuestions(), 2)

	assert.False(t, s.Cancel(1))

	s.Schedule(1, time.Second)
	assert.True(t, s.Cancel(1))
	assert.False(t, s.Cancel(1))

	clock.Advance(time.Minute)
	assert.Empty(t, log.stages)

	r, _ := s.Round(1)
	assert.Equal(t, 1, r.CurrentQuestionNo)
	assert.Equal(t, 0, r.HintLevel)
}

func TestSchedulerStaleFiringIsIgnored(t *testing.T) {
	s, _, log := newTestScheduler()
	s.Begin(1, twoQuestions(), 2)

	s.Schedule(1, time.Second)
	s.mu.Lock()
	stale := s.timers[1].seq
	s.mu.Unlock()

	s.Cancel(1)
	s.fire(1, stale)
	s.Schedule(1, time.Second)
	s.fire(1, stale)

	assert.Empty(t, log.stages)
	assert.True(t, s.pending(1))
}

func TestSchedulerExtendClamps(t *testing.T) {
	s, clock, _ := newTestScheduler()
	s.Begin(1, twoQuestions(), 1)
	s.Schedule(1, time.Second)

	rounds, clamped, ok := s.Extend(1, 10)
	assert.True(t, ok)
	assert.True(t, clamped)
	assert.Equal(t, 2, rounds)
	assert.Equal(t, 1, clock.Live(), "extend leaves the timer alone")

	_, _, ok = s.Extend(99, 10)
	assert.False(t, ok)
}

func TestSchedulerCompleteRound(t *testing.T) {
	s, _, _ := newTestScheduler()
	s.Begin(1, twoQuestions(), 2)

	assert.False(t, s.CompleteRound(1))
	assert.True(t, s.CompleteRound(1))
	assert.True(t, s.CompleteRound(42), "missing round counts as finished")
}

func TestSchedulerChatsAreIndependent(t *testing.T) {
	s, clock, log := newTestScheduler()
	s.Begin(1, twoQuestions(), 2)
	s.Begin(2, twoQuestions(), 2)
	s.Schedule(1, time.Second)
	s.Schedule(2, time.Second)

	s.End(1)
	clock.Advance(time.Second)

	require.Len(t, log.stages, 1)
	_, ok := s.Round(1)
	assert.False(t, ok)
	r, ok := s.Round(2)
	require.True(t, ok)
	assert.Equal(t, 1, r.HintLevel)
}
