package game

import (
	"sort"
	"sync"

	"github.com/cindyyylam/mj-quizarium/internal/models"
)

// PointsForHint maps the pending hint level at the moment of a correct answer
// to the points it earns. Levels outside 1..3 earn nothing.
func PointsForHint(level int) (int, bool) {
	switch level {
	case 1:
		return 5, true
	case 2:
		return 3, true
	case 3:
		return 1, true
	}
	return 0, false
}

type chatTally struct {
	order   []int64
	players map[int64]*models.PlayerTally
}

// ScoringEngine keeps the per-game tallies of every chat.
type ScoringEngine struct {
	mu    sync.Mutex
	chats map[int64]*chatTally
}

func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{chats: make(map[int64]*chatTally)}
}

// RecordCorrectAnswer credits the player and returns the points awarded.
func (s *ScoringEngine) RecordCorrectAnswer(chatID int64, p Player, hintLevel int) int {
	points, ok := PointsForHint(hintLevel)
	if !ok {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ct, ok := s.chats[chatID]
	if !ok {
		ct = &chatTally{players: make(map[int64]*models.PlayerTally)}
		s.chats[chatID] = ct
	}

	t, ok := ct.players[p.ID]
	if !ok {
		t = &models.PlayerTally{UserID: p.ID}
		ct.players[p.ID] = t
		ct.order = append(ct.order, p.ID)
	}
	t.DisplayName = p.DisplayName
	t.Username = p.Username
	t.Points += points
	t.Answers++
	return points
}

// snapshot returns the ranked tallies without clearing anything.
func (s *ScoringEngine) snapshot(chatID int64) []models.PlayerTally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ranked(s.chats[chatID])
}

// FinalizeSession drains the chat's tallies, ranked by points then answers.
func (s *ScoringEngine) FinalizeSession(chatID int64) []models.PlayerTally {
	s.mu.Lock()
	defer s.mu.Unlock()

	ct := s.chats[chatID]
	delete(s.chats, chatID)
	return ranked(ct)
}

func ranked(ct *chatTally) []models.PlayerTally {
	if ct == nil {
		return nil
	}
	out := make([]models.PlayerTally, 0, len(ct.order))
	for _, id := range ct.order {
		out = append(out, *ct.players[id])
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Points != out[b].Points {
			return out[a].Points > out[b].Points
		}
		return out[a].Answers > out[b].Answers
	})
	return out
}
