package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cindyyylam/mj-quizarium/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// AdditiveUpsert adds each tally onto the player's stored totals, creating the
// entry on first sight. Names are refreshed to the latest ones seen.
func (s *LeaderboardService) AdditiveUpsert(ctx context.Context, tallies []models.PlayerTally) error {
	if len(tallies) == 0 {
		return nil
	}

	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tallies {
			entry := models.LeaderboardEntry{
				UserID:      t.UserID,
				DisplayName: t.DisplayName,
				Username:    t.Username,
				Points:      t.Points,
				Answers:     t.Answers,
				UpdatedAt:   now,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"points":       gorm.Expr("leaderboard_entries.points + excluded.points"),
					"answers":      gorm.Expr("leaderboard_entries.answers + excluded.answers"),
					"display_name": gorm.Expr("excluded.display_name"),
					"username":     gorm.Expr("excluded.username"),
					"updated_at":   gorm.Expr("excluded.updated_at"),
				}),
			}).Create(&entry).Error
			if err != nil {
				return fmt.Errorf("merge tally for user %d: %w", t.UserID, err)
			}
		}
		return nil
	})
}

// GetAll returns every entry ordered by points, highest first. Ties keep the
// store's order.
func (s *LeaderboardService) GetAll(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if err := s.db.WithContext(ctx).Order("user_id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Points > entries[b].Points
	})
	return entries, nil
}
