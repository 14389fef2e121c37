package game

// Event types published to spectators of a chat.
const (
	EventGameStarted  = "game_started"
	EventQuestion     = "question"
	EventHint         = "hint"
	EventAnswered     = "answered"
	EventUnanswered   = "unanswered"
	EventGameExtended = "game_extended"
	EventGameEnded    = "game_ended"
)

type Event struct {
	Type       string      `json:"type"`
	ChatID     int64       `json:"chat_id"`
	GameID     string      `json:"game_id,omitempty"`
	QuestionNo int         `json:"question_no,omitempty"`
	NoOfRounds int         `json:"no_of_rounds,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

type EventPublisher interface {
	Publish(chatID int64, ev Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(int64, Event) {}
