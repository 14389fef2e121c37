package models

import "time"

type LeaderboardEntry struct {
	UserID      int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	DisplayName string    `gorm:"size:255;not null" json:"display_name"`
	Username    string    `gorm:"size:255" json:"username,omitempty"`
	Points      int       `gorm:"not null;default:0" json:"points"`
	Answers     int       `gorm:"not null;default:0" json:"answers"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlayerTally is a player's score within a single game. It never hits the
// database on its own; it is merged into LeaderboardEntry when a game ends.
type PlayerTally struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username,omitempty"`
	Points      int    `json:"points"`
	Answers     int    `json:"answers"`
}
