package game

import (
	"context"
	"log"
	"time"

	"github.com/cindyyylam/mj-quizarium/internal/models"
)

type QuestionBank interface {
	Insert(ctx context.Context, q *models.Question) error
	SelectAll(ctx context.Context) ([]models.Question, error)
}

type LeaderboardStore interface {
	AdditiveUpsert(ctx context.Context, tallies []models.PlayerTally) error
	GetAll(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type OutboundMessage struct {
	ChatID              int64
	Text                string
	DisableNotification bool
}

// Messenger delivers text to a chat. Failures are logged by the engine and
// otherwise ignored.
type Messenger interface {
	SendMessage(ctx context.Context, msg OutboundMessage) error
}

type Chat struct {
	ID      int64
	Private bool
}

type Player struct {
	ID          int64
	DisplayName string
	Username    string
}

type Message struct {
	Chat Chat
	From Player
	Text string
}

type Config struct {
	HintInterval  time.Duration
	RevealPause   time.Duration
	AnswerPause   time.Duration
	StartDelay    time.Duration
	DefaultRounds int
	ExtendRounds  int
}

func DefaultConfig() Config {
	return Config{
		HintInterval:  20 * time.Second,
		RevealPause:   3 * time.Second,
		AnswerPause:   5 * time.Second,
		StartDelay:    3 * time.Second,
		DefaultRounds: 10,
		ExtendRounds:  10,
	}
}

type Deps struct {
	Questions   QuestionBank
	Sessions    SessionStore
	Leaderboard LeaderboardStore
	Messenger   Messenger

	// Optional.
	Events EventPublisher
	Clock  Clock
	Random Random
}

// Engine runs the trivia game of every chat. Each exported method handles one
// inbound event and holds that chat's lock for its whole duration.
type Engine struct {
	cfg         Config
	questions   QuestionBank
	leaderboard LeaderboardStore
	messenger   Messenger
	events      EventPublisher
	random      Random

	locks     *chatLocks
	sessions  *SessionManager
	scheduler *RoundScheduler
	scoring   *ScoringEngine
}

func NewEngine(cfg Config, deps Deps) *Engine {
	e := &Engine{
		cfg:         cfg,
		questions:   deps.Questions,
		leaderboard: deps.Leaderboard,
		messenger:   deps.Messenger,
		events:      deps.Events,
		random:      deps.Random,
		locks:       newChatLocks(),
		sessions:    NewSessionManager(deps.Sessions),
		scoring:     NewScoringEngine(),
	}
	if e.events == nil {
		e.events = nopPublisher{}
	}
	if e.random == nil {
		e.random = globalRandom{}
	}

	clock := deps.Clock
	if clock == nil {
		clock = realClock{}
	}
	e.scheduler = NewRoundScheduler(clock, e.locks, Timing{
		HintInterval: cfg.HintInterval,
		RevealPause:  cfg.RevealPause,
	}, e.onStage)
	return e
}

// Shutdown cancels all pending timers.
func (e *Engine) Shutdown() {
	e.scheduler.Stop()
}

func (e *Engine) State(ctx context.Context, chatID int64) models.GameState {
	unlock := e.locks.lock(chatID)
	defer unlock()
	return e.sessions.GetState(ctx, chatID)
}

func (e *Engine) Round(chatID int64) (Round, bool) {
	return e.scheduler.Round(chatID)
}

func (e *Engine) Start(ctx context.Context, chat Chat) {
	unlock := e.locks.lock(chat.ID)
	defer unlock()

	if e.sessions.GetState(ctx, chat.ID) == models.GameInPlay {
		e.say(ctx, chat.ID, msgAlreadyInPlay)
		return
	}

	bank, err := e.questions.SelectAll(ctx)
	if err != nil {
		log.Printf("[engine] chat %d: load questions: %v", chat.ID, err)
		e.say(ctx, chat.ID, msgLoadFailed)
		return
	}
	if len(bank) == 0 {
		e.say(ctx, chat.ID, msgNoQuestions)
		return
	}

	deck := drawAll(bank, e.random)
	rounds := e.cfg.DefaultRounds
	if len(deck) < rounds {
		rounds = len(deck)
	}

	e.sessions.Transition(ctx, chat.ID, models.GameInPlay)
	e.scoring.FinalizeSession(chat.ID)
	round := e.scheduler.Begin(chat.ID, deck, rounds)
	log.Printf("[engine] chat %d: game %s started with %d rounds", chat.ID, round.GameID, rounds)

	e.say(ctx, chat.ID, startGameText(rounds))
	e.events.Publish(chat.ID, Event{
		Type:       EventGameStarted,
		ChatID:     chat.ID,
		GameID:     round.GameID.String(),
		NoOfRounds: rounds,
	})
	e.scheduler.Schedule(chat.ID, e.cfg.StartDelay)
}

func (e *Engine) Stop(ctx context.Context, chat Chat) {
	unlock := e.locks.lock(chat.ID)
	defer unlock()

	switch e.sessions.GetState(ctx, chat.ID) {
	case models.GameInPlay:
		e.scheduler.Cancel(chat.ID)
		e.say(ctx, chat.ID, msgStopGame)
		e.endGame(ctx, chat.ID)
	case models.AddingQuestion:
		e.say(ctx, chat.ID, msgStopping)
		e.sessions.Transition(ctx, chat.ID, models.GameNotInPlay)
	default:
		e.say(ctx, chat.ID, msgNoGameInPlay)
	}
}

func (e *Engine) Extend(ctx context.Context, chat Chat) {
	unlock := e.locks.lock(chat.ID)
	defer unlock()

	if e.sessions.GetState(ctx, chat.ID) != models.GameInPlay {
		e.say(ctx, chat.ID, msgNoGameInPlay)
		return
	}

	rounds, clamped, ok := e.scheduler.Extend(chat.ID, e.cfg.ExtendRounds)
	if !ok {
		e.lostRound(ctx, chat.ID)
		return
	}

	r, _ := e.scheduler.Round(chat.ID)
	e.say(ctx, chat.ID, extendedText(rounds, len(r.Questions), clamped))
	e.events.Publish(chat.ID, Event{
		Type:       EventGameExtended,
		ChatID:     chat.ID,
		GameID:     r.GameID.String(),
		NoOfRounds: rounds,
	})
}

// Add opens the add-question flow. command is echoed back when the chat is
// not private.
func (e *Engine) Add(ctx context.Context, chat Chat, command string) {
	unlock := e.locks.lock(chat.ID)
	defer unlock()

	if !chat.Private {
		e.say(ctx, chat.ID, privateCommandOnly(command))
		return
	}
	if e.sessions.GetState(ctx, chat.ID) == models.GameInPlay {
		e.say(ctx, chat.ID, msgGameInProgress)
		return
	}

	e.sessions.Transition(ctx, chat.ID, models.AddingQuestion)
	e.say(ctx, chat.ID, msgAddPrompt)
}

func (e *Engine) Help(ctx context.Context, chat Chat) {
	e.say(ctx, chat.ID, msgHelp)
}

func (e *Engine) Stats(ctx context.Context, chat Chat) {
	entries, err := e.leaderboard.GetAll(ctx)
	if err != nil {
		log.Printf("[engine] chat %d: load leaderboard: %v", chat.ID, err)
		e.say(ctx, chat.ID, msgStatsFailed)
		return
	}
	e.say(ctx, chat.ID, leaderboardText(entries))
}

// HandleText routes free text by the chat's state.
func (e *Engine) HandleText(ctx context.Context, msg Message) {
	unlock := e.locks.lock(msg.Chat.ID)
	defer unlock()

	switch e.sessions.GetState(ctx, msg.Chat.ID) {
	case models.GameInPlay:
		e.answer(ctx, msg)
	case models.AddingQuestion:
		e.addQuestion(ctx, msg)
	}
}

func (e *Engine) answer(ctx context.Context, msg Message) {
	chatID := msg.Chat.ID

	r, ok := e.scheduler.Round(chatID)
	if !ok {
		e.lostRound(ctx, chatID)
		return
	}
	if !r.AcceptingAnswers() {
		return
	}
	q, ok := r.Question()
	if !ok || !isCorrect(msg.Text, q.Answer) {
		return
	}

	e.scheduler.Cancel(chatID)
	points := e.scoring.RecordCorrectAnswer(chatID, msg.From, r.HintLevel)
	e.say(ctx, chatID, correctText(q.Answer, msg.From, points))
	e.events.Publish(chatID, Event{
		Type:       EventAnswered,
		ChatID:     chatID,
		GameID:     r.GameID.String(),
		QuestionNo: r.CurrentQuestionNo,
		NoOfRounds: r.NoOfRounds,
		Data: map[string]interface{}{
			"user_id":      msg.From.ID,
			"display_name": msg.From.DisplayName,
			"answer":       q.Answer,
			"points":       points,
		},
	})

	if e.scheduler.CompleteRound(chatID) {
		e.endGame(ctx, chatID)
		return
	}
	e.scheduler.Schedule(chatID, e.cfg.AnswerPause)
}

func (e *Engine) addQuestion(ctx context.Context, msg Message) {
	chatID := msg.Chat.ID

	text, answer, ok := parseQuestion(msg.Text)
	if !ok {
		e.say(ctx, chatID, msgAddFailure)
		return
	}

	q := &models.Question{
		Text:     text,
		Answer:   answer,
		Author:   msg.From.DisplayName,
		Username: msg.From.Username,
	}
	if err := e.questions.Insert(ctx, q); err != nil {
		log.Printf("[engine] chat %d: insert question: %v", chatID, err)
		e.say(ctx, chatID, msgAddSaveFailed)
		return
	}

	e.sessions.Transition(ctx, chatID, models.GameNotInPlay)
	e.say(ctx, chatID, msgAddSuccess)
}

// lostRound handles a chat marked in play with no round in memory, e.g.
// after a restart.
func (e *Engine) lostRound(ctx context.Context, chatID int64) {
	e.sessions.Transition(ctx, chatID, models.GameNotInPlay)
	e.say(ctx, chatID, msgRestartGame)
}

// onStage renders a scheduler stage. It runs with the chat lock held.
func (e *Engine) onStage(ctx context.Context, chatID int64, st Stage) {
	ev := Event{
		ChatID:     chatID,
		GameID:     st.GameID.String(),
		QuestionNo: st.QuestionNo,
		NoOfRounds: st.NoOfRounds,
	}

	switch st.Kind {
	case StageQuestion:
		e.say(ctx, chatID, questionCard(st, ""))
		ev.Type = EventQuestion
		ev.Data = map[string]interface{}{"question": st.Question.Text, "author": st.Question.Author}
	case StageHint:
		mask := MaskAll(st.Question.Answer)
		if st.HintLevel >= 2 {
			mask = MaskPartial(st.Question.Answer, e.random)
		}
		hint := RenderHint(st.Question.Answer, mask)
		e.sayQuiet(ctx, chatID, questionCard(st, hint))
		ev.Type = EventHint
		ev.Data = map[string]interface{}{"level": st.HintLevel, "hint": hint}
	case StageReveal:
		e.say(ctx, chatID, unansweredText(st.Question.Answer))
		ev.Type = EventUnanswered
		ev.Data = map[string]interface{}{"answer": st.Question.Answer}
	case StageGameOver:
		e.endGame(ctx, chatID)
		return
	}
	e.events.Publish(chatID, ev)
}

// endGame returns the chat to GameNotInPlay, reports this game's scores,
// merges them into the leaderboard and shows the result.
func (e *Engine) endGame(ctx context.Context, chatID int64) {
	r, _ := e.scheduler.Round(chatID)

	e.sessions.Transition(ctx, chatID, models.GameNotInPlay)
	e.scheduler.End(chatID)
	tallies := e.scoring.FinalizeSession(chatID)
	log.Printf("[engine] chat %d: game %s ended, %d players scored", chatID, r.GameID, len(tallies))

	e.say(ctx, chatID, gameResultsText(tallies))
	e.events.Publish(chatID, Event{
		Type:   EventGameEnded,
		ChatID: chatID,
		GameID: r.GameID.String(),
		Data:   tallies,
	})

	if err := e.leaderboard.AdditiveUpsert(ctx, tallies); err != nil {
		log.Printf("[engine] chat %d: merge leaderboard: %v", chatID, err)
	}

	entries, err := e.leaderboard.GetAll(ctx)
	if err != nil {
		log.Printf("[engine] chat %d: load leaderboard: %v", chatID, err)
		return
	}
	e.say(ctx, chatID, leaderboardText(entries))
}

func (e *Engine) say(ctx context.Context, chatID int64, text string) {
	e.send(ctx, OutboundMessage{ChatID: chatID, Text: text})
}

func (e *Engine) sayQuiet(ctx context.Context, chatID int64, text string) {
	e.send(ctx, OutboundMessage{ChatID: chatID, Text: text, DisableNotification: true})
}

func (e *Engine) send(ctx context.Context, msg OutboundMessage) {
	if err := e.messenger.SendMessage(ctx, msg); err != nil {
		log.Printf("[engine] chat %d: send message: %v", msg.ChatID, err)
	}
}

// drawAll returns the bank in random order by repeatedly removing a random
// remaining question. The input slice is not modified.
func drawAll(bank []models.Question, rnd Random) []models.Question {
	rest := make([]models.Question, len(bank))
	copy(rest, bank)

	deck := make([]models.Question, 0, len(bank))
	for len(rest) > 0 {
		i := rnd.IntN(len(rest))
		deck = append(deck, rest[i])
		rest = append(rest[:i], rest[i+1:]...)
	}
	return deck
}
