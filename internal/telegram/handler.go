package telegram

import (
	"context"
	"strings"

	"github.com/cindyyylam/mj-quizarium/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Engine is the game surface the update handler drives.
type Engine interface {
	Start(ctx context.Context, chat game.Chat)
	Stop(ctx context.Context, chat game.Chat)
	Extend(ctx context.Context, chat game.Chat)
	Add(ctx context.Context, chat game.Chat, command string)
	Help(ctx context.Context, chat game.Chat)
	Stats(ctx context.Context, chat game.Chat)
	HandleText(ctx context.Context, msg game.Message)
}

type UpdateHandler struct {
	engine      Engine
	botUsername string
}

func NewUpdateHandler(engine Engine, botUsername string) *UpdateHandler {
	return &UpdateHandler{engine: engine, botUsername: botUsername}
}

func (h *UpdateHandler) Handle(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	chat := game.Chat{ID: msg.Chat.ID, Private: msg.Chat.IsPrivate()}

	name, mention, isCmd := parseCommand(text)
	if isCmd && !addressedTo(mention, h.botUsername) {
		return
	}

	switch {
	case isCmd && name == cmdStart:
		h.engine.Start(ctx, chat)
	case isCmd && name == cmdStop:
		h.engine.Stop(ctx, chat)
	case isCmd && name == cmdExtend:
		h.engine.Extend(ctx, chat)
	case isCmd && name == cmdAdd:
		h.engine.Add(ctx, chat, strings.Fields(text)[0])
	case isCmd && name == cmdStats:
		h.engine.Stats(ctx, chat)
	case isCmd && name == cmdHelp:
		h.engine.Help(ctx, chat)
	default:
		h.engine.HandleText(ctx, game.Message{
			Chat: chat,
			From: playerFrom(msg.From),
			Text: text,
		})
	}
}

func playerFrom(u *tgbotapi.User) game.Player {
	name := u.FirstName
	if name == "" {
		name = u.UserName
	}
	return game.Player{
		ID:          u.ID,
		DisplayName: name,
		Username:    u.UserName,
	}
}
