package telegram

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateSource is the long-polling part of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type BotAPI interface {
	MessageSender
	UpdateSource
}

type BotOptions struct {
	Token          string
	WebhookBaseURL string
	WebhookSecret  string
	PollTimeout    int
}

// Bot feeds Telegram updates to the UpdateHandler, either from a webhook
// (when WebhookBaseURL is set) or by long polling.
type Bot struct {
	api     BotAPI
	client  *Client
	handler *UpdateHandler
	opts    BotOptions
	path    string
	queue   *dispatcher

	wg sync.WaitGroup
}

func NewBot(api BotAPI, handler *UpdateHandler, opts BotOptions) *Bot {
	if opts.PollTimeout == 0 {
		opts.PollTimeout = 60
	}
	return &Bot{
		api:     api,
		client:  NewClient(api),
		handler: handler,
		opts:    opts,
		path:    tokenSecret(opts.Token),
		queue:   newDispatcher(handler.Handle),
	}
}

func tokenSecret(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h[:16])
}

func (b *Bot) Webhook() bool {
	return b.opts.WebhookBaseURL != ""
}

// WebhookURL is where Telegram posts updates in webhook mode. The path
// segment is derived from the token so it cannot be guessed.
func (b *Bot) WebhookURL() string {
	return fmt.Sprintf("%s/webhook/%s", strings.TrimRight(b.opts.WebhookBaseURL, "/"), b.path)
}

func (b *Bot) Start(ctx context.Context) error {
	if b.Webhook() {
		if err := b.client.SetWebhook(b.WebhookURL(), b.opts.WebhookSecret); err != nil {
			return err
		}
		log.Printf("[telegram] webhook registered at %s/webhook/...", strings.TrimRight(b.opts.WebhookBaseURL, "/"))
		return nil
	}

	// getUpdates is refused while a webhook is set.
	if err := b.client.DeleteWebhook(); err != nil {
		log.Printf("[telegram] %v", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.opts.PollTimeout
	updates := b.api.GetUpdatesChan(u)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for upd := range updates {
			b.queue.dispatch(ctx, upd)
		}
	}()
	log.Println("[telegram] long polling started")
	return nil
}

func (b *Bot) Stop() {
	if b.Webhook() {
		if err := b.client.DeleteWebhook(); err != nil {
			log.Printf("[telegram] %v", err)
		}
	} else {
		b.api.StopReceivingUpdates()
	}
	b.wg.Wait()
	b.queue.wait()
	log.Println("[telegram] stopped")
}

// HandleWebhook accepts an update posted by Telegram and queues it behind
// earlier updates of the same chat.
func (b *Bot) HandleWebhook(c *gin.Context) {
	if c.Param("secret") != b.path {
		c.Status(http.StatusNotFound)
		return
	}

	if b.opts.WebhookSecret != "" && c.GetHeader(secretHeader) != b.opts.WebhookSecret {
		c.Status(http.StatusUnauthorized)
		return
	}

	var upd tgbotapi.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	b.queue.dispatch(context.Background(), upd)
	c.Status(http.StatusOK)
}
