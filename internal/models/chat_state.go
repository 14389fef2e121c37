package models

import "time"

type GameState string

const (
	GameNotInPlay  GameState = "GAME_NOT_IN_PLAY"
	GameInPlay     GameState = "GAME_IN_PLAY"
	AddingQuestion GameState = "ADDING_QUESTION"
)

func (s GameState) Valid() bool {
	switch s {
	case GameNotInPlay, GameInPlay, AddingQuestion:
		return true
	}
	return false
}

// ChatState is the durable mirror of one chat's game state.
type ChatState struct {
	ChatID    int64     `gorm:"primaryKey;autoIncrement:false" json:"chat_id"`
	GameState GameState `gorm:"size:32;not null;default:'GAME_NOT_IN_PLAY'" json:"game_state"`
	UpdatedAt time.Time `json:"updated_at"`
}
