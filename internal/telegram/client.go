package telegram

import (
	"context"
	"fmt"

	"github.com/cindyyylam/mj-quizarium/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageSender is the part of *tgbotapi.BotAPI the bot needs.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// Client delivers game output to Telegram chats.
type Client struct {
	api MessageSender
}

func NewClient(api MessageSender) *Client {
	return &Client{api: api}
}

func (c *Client) SendMessage(_ context.Context, msg game.OutboundMessage) error {
	out := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	out.ParseMode = tgbotapi.ModeMarkdown
	out.DisableNotification = msg.DisableNotification

	if _, err := c.api.Send(out); err != nil {
		return fmt.Errorf("send to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

// SetWebhook registers url with Telegram. A non-empty secret is echoed back
// by Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(url, secret string) error {
	params := make(tgbotapi.Params)
	params["url"] = url
	params.AddNonEmpty("secret_token", secret)

	resp, err := c.api.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("set webhook: %s", resp.Description)
	}
	return nil
}

func (c *Client) DeleteWebhook() error {
	if _, err := c.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}
