package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cindyyylam/mj-quizarium/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateService persists one ChatState row per chat.
type StateService struct {
	db *gorm.DB
}

func NewStateService(db *gorm.DB) *StateService {
	return &StateService{db: db}
}

// Get returns nil, nil when the chat has never been stored.
func (s *StateService) Get(ctx context.Context, chatID int64) (*models.ChatState, error) {
	var st models.ChatState
	err := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state for chat %d: %w", chatID, err)
	}
	return &st, nil
}

func (s *StateService) Upsert(ctx context.Context, st *models.ChatState) error {
	st.UpdatedAt = time.Now()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"game_state", "updated_at"}),
	}).Create(st).Error
	if err != nil {
		return fmt.Errorf("upsert state for chat %d: %w", st.ChatID, err)
	}
	return nil
}
